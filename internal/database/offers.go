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

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/niraihan/real-estate-server/internal/models"
	"github.com/niraihan/real-estate-server/internal/store"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// InsertOffer records a new offer. The partial unique index on live offers
// turns a racing duplicate submission into store.ErrDuplicateOffer.
func (s *Service) InsertOffer(ctx context.Context, offer *models.Offer) error {
	if offer.Id == "" {
		offer.Id = uuid.New().String()
	}
	if offer.Status == "" {
		offer.Status = models.OfferPending
	}
	ts := now()
	offer.CreatedAt, offer.UpdatedAt = ts, ts

	if _, err := s.db.NamedExecContext(ctx, queryInsertOffer, offer); err != nil {
		if isUniqueViolation(err) {
			zap.L().Warn("Duplicate live offer rejected by index",
				zap.String("property_id", offer.PropertyId),
				zap.String("buyer_email", offer.BuyerEmail))
			return fmt.Errorf("%w: property %s buyer %s", store.ErrDuplicateOffer, offer.PropertyId, offer.BuyerEmail)
		}
		return fmt.Errorf("unable to insert offer: %w", err)
	}

	zap.L().Info("Offer recorded",
		zap.String("offer_id", offer.Id),
		zap.String("property_id", offer.PropertyId),
		zap.String("buyer_email", offer.BuyerEmail),
		zap.String("amount", offer.Amount.String()))
	return nil
}

func (s *Service) GetOffer(ctx context.Context, offerId string) (*models.Offer, error) {
	var offer models.Offer
	if err := s.db.GetContext(ctx, &offer, queryOfferColumns+" WHERE id = ?", offerId); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: offer %s", store.ErrNotFound, offerId)
		}
		return nil, fmt.Errorf("unable to query offer: %w", err)
	}
	return &offer, nil
}

func (s *Service) HasLiveOffer(ctx context.Context, propertyId, buyerEmail string) (bool, error) {
	var count int
	if err := s.db.GetContext(ctx, &count, queryCountLiveOffers, propertyId, buyerEmail); err != nil {
		return false, fmt.Errorf("unable to count live offers: %w", err)
	}
	return count > 0, nil
}

func (s *Service) ListOffers(ctx context.Context, filter store.OfferFilter) ([]models.Offer, error) {
	var clauses []string
	var args []interface{}

	if filter.PropertyId != "" {
		clauses = append(clauses, "property_id = ?")
		args = append(args, filter.PropertyId)
	}
	if filter.BuyerEmail != "" {
		clauses = append(clauses, "buyer_email = ?")
		args = append(args, filter.BuyerEmail)
	}
	if filter.AgentEmail != "" {
		clauses = append(clauses, "agent_email = ?")
		args = append(args, filter.AgentEmail)
	}

	query := queryOfferColumns
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY created_at DESC"

	offers := []models.Offer{}
	if err := s.db.SelectContext(ctx, &offers, query, args...); err != nil {
		return nil, fmt.Errorf("unable to query offers: %w", err)
	}
	return offers, nil
}

func (s *Service) TransitionOfferStatus(ctx context.Context, offerId string, from, to models.OfferStatus) (models.UpdateResult, error) {
	result, err := s.db.ExecContext(ctx, queryTransitionOfferStatus, to, now(), offerId, from)
	if err != nil {
		if isUniqueViolation(err) {
			return models.UpdateResult{}, fmt.Errorf("%w: offer %s", store.ErrDuplicateOffer, offerId)
		}
		return models.UpdateResult{}, fmt.Errorf("unable to transition offer status: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return models.UpdateResult{}, fmt.Errorf("unable to get rows affected: %w", err)
	}
	return s.updateResult(ctx, tableOffers, offerId, rows)
}

func (s *Service) AcceptOfferForSettlement(ctx context.Context, offerId, transactionId string) (models.UpdateResult, error) {
	result, err := s.db.ExecContext(ctx, queryAcceptOfferForSettlement, transactionId, now(), offerId)
	if err != nil {
		return models.UpdateResult{}, fmt.Errorf("unable to accept offer: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return models.UpdateResult{}, fmt.Errorf("unable to get rows affected: %w", err)
	}
	return s.updateResult(ctx, tableOffers, offerId, rows)
}

func (s *Service) ForceOfferSettled(ctx context.Context, offerId, transactionId string) (models.UpdateResult, error) {
	result, err := s.db.ExecContext(ctx, queryForceOfferSettled, transactionId, now(), offerId, transactionId)
	if err != nil {
		if isUniqueViolation(err) {
			return models.UpdateResult{}, fmt.Errorf("%w: offer %s", store.ErrDuplicateOffer, offerId)
		}
		return models.UpdateResult{}, fmt.Errorf("unable to settle offer: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return models.UpdateResult{}, fmt.Errorf("unable to get rows affected: %w", err)
	}
	return s.updateResult(ctx, tableOffers, offerId, rows)
}

func (s *Service) RejectCompetingOffers(ctx context.Context, propertyId, keepOfferId string) (int64, error) {
	result, err := s.db.ExecContext(ctx, queryRejectCompetingOffers, now(), propertyId, keepOfferId, propertyId)
	if err != nil {
		return 0, fmt.Errorf("unable to reject competing offers: %w", err)
	}
	return result.RowsAffected()
}

func (s *Service) RejectLiveOffersForProperties(ctx context.Context, propertyIds []string) (int64, error) {
	if len(propertyIds) == 0 {
		return 0, nil
	}
	query, args, err := sqlx.In(queryRejectLiveOffersForProperties, now(), propertyIds)
	if err != nil {
		return 0, fmt.Errorf("unable to build offer rejection query: %w", err)
	}
	result, err := s.db.ExecContext(ctx, s.db.Rebind(query), args...)
	if err != nil {
		return 0, fmt.Errorf("unable to reject live offers: %w", err)
	}
	return result.RowsAffected()
}
