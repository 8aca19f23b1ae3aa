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
	"strings"

	"github.com/niraihan/real-estate-server/internal/models"
	"github.com/niraihan/real-estate-server/internal/store"

	"go.uber.org/zap"
)

var unsoldStatuses = []models.PropertyStatus{
	models.PropertyPending,
	models.PropertyVerified,
	models.PropertyRejected,
}

// Settle converts a paid offer into a sale. The offer's buyer, its agent or
// an admin may settle.
func (s *MarketService) Settle(ctx context.Context, offerId, transactionId string) (*models.SettlementResult, error) {
	transactionId = strings.TrimSpace(transactionId)
	if transactionId == "" {
		return nil, InvalidInput("transactionId is required")
	}
	offer, err := s.loadOffer(ctx, offerId)
	if err != nil {
		return nil, err
	}
	caller, err := s.requireAnyOf(ctx, offer.BuyerEmail, offer.AgentEmail)
	if err != nil {
		return nil, err
	}

	zap.L().Info("Settling offer",
		zap.String("offer_id", offer.Id),
		zap.String("property_id", offer.PropertyId),
		zap.String("transaction_id", transactionId),
		zap.String("by", caller))

	return s.settle(ctx, offer, transactionId)
}

// settle runs the four effects of a sale as idempotent single-document
// writes: accept the offer, reject rivals, insert the sale record, mark the
// property sold. No step needs a transaction. Re-running with the same
// arguments converges on the same state, and a crash between steps leaves
// an accepted offer without a sale record, which the next run completes.
//
// Concurrent settles of rival offers race on the sale record's unique
// property index. The winner re-asserts its own offer afterwards and the
// loser repairs the winner before rejecting itself, so every interleaving
// ends with one accepted offer and one sale record.
func (s *MarketService) settle(ctx context.Context, offer *models.Offer, txId string) (*models.SettlementResult, error) {
	result := &models.SettlementResult{
		OfferId:       offer.Id,
		PropertyId:    offer.PropertyId,
		TransactionId: txId,
	}
	log := zap.L().With(
		zap.String("offer_id", offer.Id),
		zap.String("property_id", offer.PropertyId),
		zap.String("transaction_id", txId))

	// A property sells once. Check before touching our own offer so a late
	// settle does not briefly accept an offer on a sold property.
	existing, err := s.db.GetSaleRecordByProperty(ctx, offer.PropertyId)
	switch {
	case err == nil && existing.OfferId != offer.Id:
		return result, s.loseSettlement(ctx, offer, existing)
	case err == nil && existing.TransactionId != txId:
		return result, Conflict(ReasonDuplicateSettlement, "offer was already settled with a different transaction")
	case err != nil && !isNotFound(err):
		return result, Internal("Failed to look up sale record", err, zap.String("property_id", offer.PropertyId))
	case err != nil:
		// Unsold. A deleted listing cannot be sold; its offers are rejected
		// by the cascade that removed it.
		if _, err := s.loadProperty(ctx, offer.PropertyId); err != nil {
			return result, err
		}
	}

	// Step 1: accept and attach the transaction id.
	accepted, err := s.db.AcceptOfferForSettlement(ctx, offer.Id, txId)
	if err != nil {
		return result, Internal("Failed to accept offer", err, zap.String("offer_id", offer.Id))
	}
	if !accepted.Matched {
		return result, NotFound("offer not found")
	}
	result.OfferUpdated = accepted.Modified
	if !accepted.Modified {
		if err := s.checkReplay(ctx, offer.Id, txId); err != nil {
			return result, err
		}
		log.Info("Offer already accepted with this transaction, replaying")
	}

	// Step 2: invalidate every other live offer on the property.
	rejected, err := s.db.RejectCompetingOffers(ctx, offer.PropertyId, offer.Id)
	if err != nil {
		return result, Internal("Failed to reject competing offers", err, zap.String("property_id", offer.PropertyId))
	}
	result.CompetingRejected = rejected

	// Step 3: the sale record. Its unique indexes make a retry a duplicate.
	record := &models.SaleRecord{
		OfferId:          offer.Id,
		PropertyId:       offer.PropertyId,
		PropertyTitle:    offer.PropertyTitle,
		PropertyLocation: offer.PropertyLocation,
		SoldPrice:        offer.Amount,
		BuyerEmail:       offer.BuyerEmail,
		BuyerName:        offer.BuyerName,
		AgentEmail:       offer.AgentEmail,
		TransactionId:    txId,
	}
	err = s.db.InsertSaleRecord(ctx, record)
	switch {
	case err == nil:
		result.SaleRecordInserted = true
		result.SaleRecord = record
	case errors.Is(err, store.ErrDuplicateSale):
		existing, err := s.resolveDuplicateSale(ctx, offer, txId)
		if err != nil {
			return result, err
		}
		result.SaleRecord = existing
	default:
		return result, Internal("Failed to insert sale record", err, zap.String("offer_id", offer.Id))
	}

	// A rival may have rejected this offer between steps 1 and 3, and a rival
	// may have been accepted after step 2. Now that the sale record decides
	// ownership, restore both.
	if _, err := s.db.ForceOfferSettled(ctx, offer.Id, txId); err != nil {
		return result, Internal("Failed to re-assert settled offer", err, zap.String("offer_id", offer.Id))
	}
	late, err := s.db.RejectCompetingOffers(ctx, offer.PropertyId, offer.Id)
	if err != nil {
		return result, Internal("Failed to reject competing offers", err, zap.String("property_id", offer.PropertyId))
	}
	result.CompetingRejected += late

	// Step 4: the property leaves the market.
	sold, err := s.db.TransitionPropertyStatus(ctx, offer.PropertyId, unsoldStatuses, models.PropertySold)
	if err != nil {
		return result, Internal("Failed to mark property sold", err, zap.String("property_id", offer.PropertyId))
	}
	result.PropertyMarkedSold = sold.Modified
	if !sold.Matched {
		log.Warn("Settled offer references a deleted property")
	}

	log.Info("Settlement complete",
		zap.Bool("offer_updated", result.OfferUpdated),
		zap.Int64("competing_rejected", result.CompetingRejected),
		zap.Bool("sale_inserted", result.SaleRecordInserted),
		zap.Bool("property_marked_sold", result.PropertyMarkedSold))
	return result, nil
}

// checkReplay explains why step 1 changed nothing. Only an offer already
// accepted with the same transaction id may proceed.
func (s *MarketService) checkReplay(ctx context.Context, offerId, txId string) error {
	current, err := s.loadOffer(ctx, offerId)
	if err != nil {
		return err
	}
	switch {
	case current.Status == models.OfferAccepted && current.TransactionId == txId:
		return nil
	case current.Status == models.OfferAccepted:
		return Conflict(ReasonDuplicateSettlement, "offer was already settled with a different transaction")
	case current.Status == models.OfferRejected:
		return Conflict(ReasonOfferRejected, "offer was rejected")
	default:
		return Internal("Offer in unexpected state after accept", errors.New(string(current.Status)),
			zap.String("offer_id", offerId))
	}
}

// resolveDuplicateSale classifies a sale record insert that hit a unique
// index: a replay of this settlement, a rival owning the property, or a
// transaction id already used for another sale.
func (s *MarketService) resolveDuplicateSale(ctx context.Context, offer *models.Offer, txId string) (*models.SaleRecord, error) {
	own, err := s.db.GetSaleRecordByOffer(ctx, offer.Id)
	if err == nil {
		if own.TransactionId != txId {
			return nil, Conflict(ReasonDuplicateSettlement, "offer was already settled with a different transaction")
		}
		return own, nil
	}
	if !isNotFound(err) {
		return nil, Internal("Failed to look up sale record", err, zap.String("offer_id", offer.Id))
	}

	owner, err := s.db.GetSaleRecordByProperty(ctx, offer.PropertyId)
	if err == nil {
		return nil, s.loseSettlement(ctx, offer, owner)
	}
	if !isNotFound(err) {
		return nil, Internal("Failed to look up sale record", err, zap.String("property_id", offer.PropertyId))
	}

	zap.L().Warn("Transaction id already used by another sale",
		zap.String("offer_id", offer.Id),
		zap.String("transaction_id", txId))
	return nil, Conflict(ReasonDuplicateSettlement, "transaction id was already used for another sale")
}

// loseSettlement handles an offer whose property was sold to another offer.
// The owner is restored first in case this engine rejected it, then this
// offer is rejected whether it was still pending or already accepted.
func (s *MarketService) loseSettlement(ctx context.Context, offer *models.Offer, owner *models.SaleRecord) error {
	zap.L().Warn("Property already sold to another offer",
		zap.String("offer_id", offer.Id),
		zap.String("property_id", offer.PropertyId),
		zap.String("owner_offer_id", owner.OfferId))

	if _, err := s.db.ForceOfferSettled(ctx, owner.OfferId, owner.TransactionId); err != nil {
		return Internal("Failed to restore settled offer", err, zap.String("offer_id", owner.OfferId))
	}
	for _, from := range []models.OfferStatus{models.OfferAccepted, models.OfferPending} {
		if _, err := s.db.TransitionOfferStatus(ctx, offer.Id, from, models.OfferRejected); err != nil {
			return Internal("Failed to reject losing offer", err, zap.String("offer_id", offer.Id))
		}
	}
	return Conflict(ReasonAlreadySold, "property was sold to another offer")
}
