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

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type Handler struct {
	svc          *api.MarketService
	tokens       *auth.Tokens
	issueEnabled bool
}

func New(svc *api.MarketService, tokens *auth.Tokens, issueEnabled bool) *Handler {
	return &Handler{svc: svc, tokens: tokens, issueEnabled: issueEnabled}
}

// NewRouter wires middleware and every route. Authorization beyond the
// credential check happens in the service layer.
func NewRouter(h *Handler, cfg models.ServerConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), RequestId(), AccessLog())
	router.Use(cors.New(corsConfig(cfg.AllowedOrigins)))

	router.GET("/healthz", h.Health)
	router.POST("/jwt", h.IssueToken)
	router.POST("/users", h.RegisterUser)
	router.GET("/properties", h.SearchProperties)
	router.GET("/properties/:id", h.GetProperty)
	router.GET("/advertised", h.ListAdvertised)
	router.GET("/reviews/:propertyId", h.ListReviews)

	secured := router.Group("/")
	secured.Use(auth.Authenticate(h.tokens, unauthenticated))
	{
		secured.GET("/users", h.ListUsers)
		secured.GET("/users/role/:email", h.GetUserRole)
		secured.PATCH("/users/fraud/:id", h.MarkFraudulent)

		secured.POST("/properties", h.CreateProperty)
		secured.GET("/properties/agent/:email", h.ListAgentProperties)
		secured.PUT("/properties/:id", h.UpdateProperty)
		secured.DELETE("/properties/:id", h.DeleteProperty)
		secured.PATCH("/properties/advertise/:id", h.AdvertiseProperty)

		secured.POST("/offers", h.SubmitOffer)
		secured.GET("/offers/:email", h.ListBuyerOffers)
		secured.GET("/offers/agent/:email", h.ListAgentOffers)
		secured.GET("/offers/single/:id", h.GetOffer)
		secured.PATCH("/offers/:id", h.SetOfferStatus)
		secured.PATCH("/offers/status/:id", h.SetOfferStatus)
		secured.PUT("/offers/accept/:id", h.AcceptOffer)
		secured.PUT("/offers/reject/:id", h.RejectOffer)
		secured.PATCH("/offers/:id/pay", h.PayOffer)

		secured.GET("/sold-properties/agent/:email", h.ListAgentSales)
		secured.GET("/sold-properties/buyer/:email", h.ListBuyerSales)

		secured.POST("/reviews", h.AddReview)
		secured.POST("/report-property", h.ReportProperty)
	}

	admin := router.Group("/admin")
	admin.Use(auth.Authenticate(h.tokens, unauthenticated))
	{
		admin.GET("/properties", h.ListAllProperties)
		admin.PATCH("/properties/verify/:id", h.VerifyProperty)
		admin.PATCH("/properties/reject/:id", h.RejectProperty)
		admin.GET("/advertise", h.ListAdvertiseCandidates)
		admin.PATCH("/advertise/:id", h.AdvertiseProperty)
		admin.PATCH("/users/role/:id", h.SetUserRole)
		admin.GET("/reports", h.ListReports)
		admin.DELETE("/reported-property/:id", h.RemoveReportedProperty)
	}

	return router
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.DefaultConfig()
	cfg.AllowHeaders = append(cfg.AllowHeaders, "Authorization")
	cfg.AllowMethods = []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions}
	cfg.ExposeHeaders = []string{requestIdHeader}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
		cfg.AllowCredentials = true
	}
	return cfg
}

func (h *Handler) Health(c *gin.Context) {
	if err := h.svc.HealthCheck(c.Request.Context()); err != nil {
		writeError(c, api.Internal("Health check failed", err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
