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
	"github.com/shopspring/decimal"
)

type offerRequest struct {
	PropertyId    string           `json:"propertyId"`
	BuyerEmail    string           `json:"buyerEmail"`
	BuyerName     string           `json:"buyerName"`
	Amount        *decimal.Decimal `json:"amount"`
	OfferedAmount *decimal.Decimal `json:"offeredAmount"`
}

func (h *Handler) SubmitOffer(c *gin.Context) {
	var req offerRequest
	if !bindJSON(c, &req) {
		return
	}
	in := api.OfferInput{
		PropertyId: req.PropertyId,
		BuyerEmail: req.BuyerEmail,
		BuyerName:  req.BuyerName,
	}
	switch {
	case req.Amount != nil:
		in.Amount = *req.Amount
	case req.OfferedAmount != nil:
		in.Amount = *req.OfferedAmount
	}

	offer, err := h.svc.SubmitOffer(c.Request.Context(), in)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, offer)
}

func (h *Handler) GetOffer(c *gin.Context) {
	offer, err := h.svc.GetOffer(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, offer)
}

func (h *Handler) ListBuyerOffers(c *gin.Context) {
	offers, err := h.svc.ListBuyerOffers(c.Request.Context(), c.Param("email"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, offers)
}

func (h *Handler) ListAgentOffers(c *gin.Context) {
	offers, err := h.svc.ListAgentOffers(c.Request.Context(), c.Param("email"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, offers)
}

type statusRequest struct {
	Status models.OfferStatus `json:"status"`
}

func (h *Handler) SetOfferStatus(c *gin.Context) {
	var req statusRequest
	if !bindJSON(c, &req) {
		return
	}
	h.writeUpdate(c, req.Status)
}

func (h *Handler) AcceptOffer(c *gin.Context) {
	h.writeUpdate(c, models.OfferAccepted)
}

func (h *Handler) RejectOffer(c *gin.Context) {
	h.writeUpdate(c, models.OfferRejected)
}

func (h *Handler) writeUpdate(c *gin.Context, status models.OfferStatus) {
	result, err := h.svc.SetOfferStatus(c.Request.Context(), c.Param("id"), status)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type payRequest struct {
	TransactionId string `json:"transactionId"`
	Status        string `json:"status"`
}

// PayOffer runs the settlement for a paid offer. The status field is
// accepted for compatibility and must describe a successful payment.
func (h *Handler) PayOffer(c *gin.Context) {
	var req payRequest
	if !bindJSON(c, &req) {
		return
	}
	switch req.Status {
	case "", "accepted", "paid":
	default:
		writeError(c, api.InvalidInput("status must be accepted or paid"))
		return
	}

	result, err := h.svc.Settle(c.Request.Context(), c.Param("id"), req.TransactionId)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *Handler) ListAgentSales(c *gin.Context) {
	records, err := h.svc.ListAgentSales(c.Request.Context(), c.Param("email"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, records)
}

func (h *Handler) ListBuyerSales(c *gin.Context) {
	records, err := h.svc.ListBuyerSales(c.Request.Context(), c.Param("email"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, records)
}
