/**
 * Copyright 2025-present Coinbase Global, Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *  http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package handler

import (
	"net/http"

	"github.com/niraihan/real-estate-server/internal/api"
	"github.com/niraihan/real-estate-server/internal/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type tokenRequest struct {
	Email string `json:"email"`
}

// IssueToken mints a credential for a signed-in email. Sign-in itself is
// handled by the identity provider in front of this service.
func (h *Handler) IssueToken(c *gin.Context) {
	if !h.issueEnabled {
		writeError(c, api.NotFound("token issuing is disabled"))
		return
	}
	var req tokenRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := api.ValidateEmail(req.Email); err != nil {
		writeError(c, err)
		return
	}
	token, expiresAt, err := h.tokens.Issue(req.Email)
	if err != nil {
		writeError(c, api.Internal("Failed to issue token", err))
		return
	}
	zap.L().Info("Credential issued", zap.String("email", req.Email))
	c.JSON(http.StatusOK, gin.H{"token": token, "expiresAt": expiresAt})
}

type registerRequest struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

func (h *Handler) RegisterUser(c *gin.Context) {
	var req registerRequest
	if !bindJSON(c, &req) {
		return
	}
	user, created, err := h.svc.RegisterUser(c.Request.Context(), req.Email, req.Name)
	if err != nil {
		writeError(c, err)
		return
	}
	if !created {
		c.JSON(http.StatusOK, gin.H{"message": "User already exists", "user": user})
		return
	}
	c.JSON(http.StatusCreated, user)
}

func (h *Handler) GetUserRole(c *gin.Context) {
	role, err := h.svc.GetUserRole(c.Request.Context(), c.Param("email"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"role": role})
}

func (h *Handler) ListUsers(c *gin.Context) {
	users, err := h.svc.ListUsers(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

type roleRequest struct {
	Role models.Role `json:"role"`
}

func (h *Handler) SetUserRole(c *gin.Context) {
	var req roleRequest
	if !bindJSON(c, &req) {
		return
	}
	result, err := h.svc.SetUserRole(c.Request.Context(), c.Param("id"), req.Role)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *Handler) MarkFraudulent(c *gin.Context) {
	result, err := h.svc.MarkFraudulent(c.Request.Context(), c.Param("id"))
	if err != nil {
		if result != nil {
			zap.L().Error("Fraud cascade incomplete", zap.Any("partial", result), zap.Error(err))
		}
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *Handler) RemoveReportedProperty(c *gin.Context) {
	result, err := h.svc.RemoveReportedProperty(c.Request.Context(), c.Param("id"))
	if err != nil {
		if result != nil {
			zap.L().Error("Reported property cascade incomplete", zap.Any("partial", result), zap.Error(err))
		}
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
