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

package api

import (
	"context"
	"strings"

	"github.com/niraihan/real-estate-server/internal/models"
	"github.com/niraihan/real-estate-server/internal/store"

	"go.uber.org/zap"
)

func (s *MarketService) AddReview(ctx context.Context, review *models.Review) (*models.Review, error) {
	if err := RequireIdentity(ctx, review.ReviewerEmail); err != nil {
		return nil, err
	}
	if review.Rating < 1 || review.Rating > 5 {
		return nil, InvalidInput("rating must be between 1 and 5")
	}
	if _, err := s.loadProperty(ctx, review.PropertyId); err != nil {
		return nil, err
	}

	review.ReviewerEmail = normalizeEmail(review.ReviewerEmail)
	if err := s.db.InsertReview(ctx, review); err != nil {
		return nil, Internal("Failed to insert review", err, zap.String("property_id", review.PropertyId))
	}
	return review, nil
}

func (s *MarketService) ListReviews(ctx context.Context, propertyId string) ([]models.Review, error) {
	if err := parseId("property", propertyId); err != nil {
		return nil, err
	}
	reviews, err := s.db.ListReviewsByProperty(ctx, propertyId)
	if err != nil {
		return nil, Internal("Failed to list reviews", err, zap.String("property_id", propertyId))
	}
	return reviews, nil
}

// ReportProperty files a report against a listing on behalf of the caller.
func (s *MarketService) ReportProperty(ctx context.Context, propertyId, reason string) (*models.Report, error) {
	caller, err := Caller(ctx)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(reason) == "" {
		return nil, InvalidInput("reason is required")
	}
	if _, err := s.loadProperty(ctx, propertyId); err != nil {
		return nil, err
	}

	report := &models.Report{PropertyId: propertyId, ReporterEmail: caller, Reason: reason}
	if err := s.db.InsertReport(ctx, report); err != nil {
		return nil, Internal("Failed to insert report", err, zap.String("property_id", propertyId))
	}
	zap.L().Info("Property reported", zap.String("property_id", propertyId), zap.String("reporter", caller))
	return report, nil
}

func (s *MarketService) ListReports(ctx context.Context) ([]models.Report, error) {
	if err := s.RequireAdmin(ctx); err != nil {
		return nil, err
	}
	reports, err := s.db.ListReports(ctx)
	if err != nil {
		return nil, Internal("Failed to list reports", err)
	}
	return reports, nil
}

func (s *MarketService) ListAgentSales(ctx context.Context, agentEmail string) ([]models.SaleRecord, error) {
	if err := RequireIdentity(ctx, agentEmail); err != nil {
		return nil, err
	}
	return s.listSales(ctx, store.SaleFilter{AgentEmail: normalizeEmail(agentEmail)})
}

func (s *MarketService) ListBuyerSales(ctx context.Context, buyerEmail string) ([]models.SaleRecord, error) {
	if err := RequireIdentity(ctx, buyerEmail); err != nil {
		return nil, err
	}
	return s.listSales(ctx, store.SaleFilter{BuyerEmail: normalizeEmail(buyerEmail)})
}

// ListSales returns sale records for any agent or buyer; admin only.
func (s *MarketService) ListSales(ctx context.Context, filter store.SaleFilter) ([]models.SaleRecord, error) {
	if err := s.RequireAdmin(ctx); err != nil {
		return nil, err
	}
	filter.AgentEmail = normalizeEmail(filter.AgentEmail)
	filter.BuyerEmail = normalizeEmail(filter.BuyerEmail)
	return s.listSales(ctx, filter)
}

func (s *MarketService) listSales(ctx context.Context, filter store.SaleFilter) ([]models.SaleRecord, error) {
	records, err := s.db.ListSaleRecords(ctx, filter)
	if err != nil {
		return nil, Internal("Failed to list sale records", err)
	}
	return records, nil
}
