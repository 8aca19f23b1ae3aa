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
	"github.com/niraihan/real-estate-server/internal/auth"
	"github.com/niraihan/real-estate-server/internal/models"

	"github.com/gin-gonic/gin"
)

func (h *Handler) SearchProperties(c *gin.Context) {
	properties, err := h.svc.SearchProperties(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, properties)
}

func (h *Handler) GetProperty(c *gin.Context) {
	ctx := c.Request.Context()
	// The route is public; an optional valid credential lets agents and
	// admins see listings that are not yet published.
	if raw, ok := auth.ParseBearer(c.GetHeader("Authorization")); ok {
		if identity, err := h.tokens.Verify(raw); err == nil {
			ctx = models.WithIdentity(ctx, identity)
		}
	}
	property, err := h.svc.GetProperty(ctx, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, property)
}

func (h *Handler) ListAdvertised(c *gin.Context) {
	properties, err := h.svc.ListAdvertised(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, properties)
}

func (h *Handler) ListAgentProperties(c *gin.Context) {
	properties, err := h.svc.ListAgentProperties(c.Request.Context(), c.Param("email"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, properties)
}

func (h *Handler) ListAllProperties(c *gin.Context) {
	properties, err := h.svc.ListAllProperties(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, properties)
}

func (h *Handler) ListAdvertiseCandidates(c *gin.Context) {
	properties, err := h.svc.ListAdvertiseCandidates(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, properties)
}

func (h *Handler) CreateProperty(c *gin.Context) {
	var in api.PropertyInput
	if !bindJSON(c, &in) {
		return
	}
	property, err := h.svc.CreateProperty(c.Request.Context(), in)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, property)
}

func (h *Handler) UpdateProperty(c *gin.Context) {
	var in api.PropertyInput
	if !bindJSON(c, &in) {
		return
	}
	property, err := h.svc.UpdateProperty(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, property)
}

func (h *Handler) DeleteProperty(c *gin.Context) {
	deleted, err := h.svc.DeleteProperty(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deletedCount": deleted})
}

func (h *Handler) VerifyProperty(c *gin.Context) {
	result, err := h.svc.VerifyProperty(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *Handler) RejectProperty(c *gin.Context) {
	result, err := h.svc.RejectProperty(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type advertiseRequest struct {
	Advertised *bool `json:"advertised"`
}

// AdvertiseProperty serves both the owner and the admin route. An empty
// body advertises the listing.
func (h *Handler) AdvertiseProperty(c *gin.Context) {
	var req advertiseRequest
	if c.Request.ContentLength != 0 && !bindJSON(c, &req) {
		return
	}
	advertised := true
	if req.Advertised != nil {
		advertised = *req.Advertised
	}
	result, err := h.svc.AdvertiseProperty(c.Request.Context(), c.Param("id"), advertised)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
