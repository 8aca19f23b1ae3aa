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

	"github.com/niraihan/real-estate-server/internal/models"

	"github.com/gin-gonic/gin"
)

type reviewRequest struct {
	PropertyId    string `json:"propertyId"`
	ReviewerEmail string `json:"reviewerEmail"`
	ReviewerName  string `json:"reviewerName"`
	Rating        int    `json:"rating"`
	Comment       string `json:"comment"`
}

func (h *Handler) AddReview(c *gin.Context) {
	var req reviewRequest
	if !bindJSON(c, &req) {
		return
	}
	review, err := h.svc.AddReview(c.Request.Context(), &models.Review{
		PropertyId:    req.PropertyId,
		ReviewerEmail: req.ReviewerEmail,
		ReviewerName:  req.ReviewerName,
		Rating:        req.Rating,
		Comment:       req.Comment,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, review)
}

func (h *Handler) ListReviews(c *gin.Context) {
	reviews, err := h.svc.ListReviews(c.Request.Context(), c.Param("propertyId"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, reviews)
}

type reportRequest struct {
	PropertyId string `json:"propertyId"`
	Reason     string `json:"reason"`
}

func (h *Handler) ReportProperty(c *gin.Context) {
	var req reportRequest
	if !bindJSON(c, &req) {
		return
	}
	report, err := h.svc.ReportProperty(c.Request.Context(), req.PropertyId, req.Reason)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, report)
}

func (h *Handler) ListReports(c *gin.Context) {
	reports, err := h.svc.ListReports(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, reports)
}
