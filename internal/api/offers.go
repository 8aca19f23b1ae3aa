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
	"errors"
	"fmt"

	"github.com/niraihan/real-estate-server/internal/models"
	"github.com/niraihan/real-estate-server/internal/store"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// OfferInput is a buyer's bid on a listing.
type OfferInput struct {
	PropertyId string          `json:"propertyId"`
	BuyerEmail string          `json:"buyerEmail"`
	BuyerName  string          `json:"buyerName"`
	Amount     decimal.Decimal `json:"offeredAmount"`
}

// SubmitOffer records a pending offer. Checks run in a fixed order so the
// caller learns the most precise cause: malformed id, missing listing, sold
// listing, then duplicate live offer. The store's live-offer index closes
// the race between the duplicate check and the insert.
func (s *MarketService) SubmitOffer(ctx context.Context, in OfferInput) (*models.Offer, error) {
	if err := parseId("property", in.PropertyId); err != nil {
		return nil, err
	}
	if err := RequireIdentity(ctx, in.BuyerEmail); err != nil {
		return nil, err
	}
	if !in.Amount.IsPositive() {
		return nil, InvalidInput("offered amount must be positive")
	}
	buyerEmail := normalizeEmail(in.BuyerEmail)

	property, err := s.loadProperty(ctx, in.PropertyId)
	if err != nil {
		return nil, err
	}
	if property.Status == models.PropertySold {
		return nil, Conflict(ReasonAlreadySold, "property is already sold")
	}

	live, err := s.db.HasLiveOffer(ctx, property.Id, buyerEmail)
	if err != nil {
		return nil, Internal("Failed to check live offers", err, zap.String("property_id", property.Id))
	}
	if live {
		return nil, Conflict(ReasonDuplicateOffer, "a live offer already exists for this property")
	}

	offer := &models.Offer{
		PropertyId:       property.Id,
		PropertyTitle:    property.Title,
		PropertyLocation: property.Location,
		BuyerEmail:       buyerEmail,
		BuyerName:        in.BuyerName,
		AgentEmail:       property.AgentEmail,
		Amount:           in.Amount,
		Status:           models.OfferPending,
	}
	if err := s.db.InsertOffer(ctx, offer); err != nil {
		if errors.Is(err, store.ErrDuplicateOffer) {
			return nil, Conflict(ReasonDuplicateOffer, "a live offer already exists for this property")
		}
		return nil, Internal("Failed to insert offer", err, zap.String("property_id", property.Id))
	}
	return offer, nil
}

func (s *MarketService) loadOffer(ctx context.Context, offerId string) (*models.Offer, error) {
	if err := parseId("offer", offerId); err != nil {
		return nil, err
	}
	offer, err := s.db.GetOffer(ctx, offerId)
	if err != nil {
		if isNotFound(err) {
			return nil, NotFound("offer not found")
		}
		return nil, Internal("Failed to load offer", err, zap.String("offer_id", offerId))
	}
	return offer, nil
}

// GetOffer returns an offer to its buyer, its agent or an admin.
func (s *MarketService) GetOffer(ctx context.Context, offerId string) (*models.Offer, error) {
	offer, err := s.loadOffer(ctx, offerId)
	if err != nil {
		return nil, err
	}
	if _, err := s.requireAnyOf(ctx, offer.BuyerEmail, offer.AgentEmail); err != nil {
		return nil, err
	}
	return offer, nil
}

func (s *MarketService) ListBuyerOffers(ctx context.Context, buyerEmail string) ([]models.Offer, error) {
	if err := RequireIdentity(ctx, buyerEmail); err != nil {
		return nil, err
	}
	return s.listOffers(ctx, store.OfferFilter{BuyerEmail: normalizeEmail(buyerEmail)})
}

func (s *MarketService) ListAgentOffers(ctx context.Context, agentEmail string) ([]models.Offer, error) {
	if err := RequireIdentity(ctx, agentEmail); err != nil {
		return nil, err
	}
	return s.listOffers(ctx, store.OfferFilter{AgentEmail: normalizeEmail(agentEmail)})
}

func (s *MarketService) listOffers(ctx context.Context, filter store.OfferFilter) ([]models.Offer, error) {
	offers, err := s.db.ListOffers(ctx, filter)
	if err != nil {
		return nil, Internal("Failed to list offers", err)
	}
	return offers, nil
}

func (s *MarketService) AcceptOffer(ctx context.Context, offerId string) (models.UpdateResult, error) {
	return s.SetOfferStatus(ctx, offerId, models.OfferAccepted)
}

func (s *MarketService) RejectOffer(ctx context.Context, offerId string) (models.UpdateResult, error) {
	return s.SetOfferStatus(ctx, offerId, models.OfferRejected)
}

// SetOfferStatus moves a pending offer to accepted or rejected. The offer's
// agent or an admin decides. A terminal offer is left as is and reported
// with Modified=false.
func (s *MarketService) SetOfferStatus(ctx context.Context, offerId string, status models.OfferStatus) (models.UpdateResult, error) {
	if status != models.OfferAccepted && status != models.OfferRejected {
		return models.UpdateResult{}, InvalidInput(fmt.Sprintf("status must be accepted or rejected, got %q", status))
	}
	offer, err := s.loadOffer(ctx, offerId)
	if err != nil {
		return models.UpdateResult{}, err
	}
	caller, err := s.requireAnyOf(ctx, offer.AgentEmail)
	if err != nil {
		return models.UpdateResult{}, err
	}

	result, err := s.db.TransitionOfferStatus(ctx, offerId, models.OfferPending, status)
	if err != nil {
		return models.UpdateResult{}, Internal("Failed to update offer status", err, zap.String("offer_id", offerId))
	}
	if !result.Matched {
		return result, NotFound("offer not found")
	}

	zap.L().Info("Offer status updated",
		zap.String("offer_id", offerId),
		zap.String("status", string(status)),
		zap.String("by", caller),
		zap.Bool("modified", result.Modified))
	return result, nil
}
