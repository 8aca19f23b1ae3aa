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

package mongostore

import (
	"context"
	"fmt"

	"github.com/niraihan/real-estate-server/internal/models"
	"github.com/niraihan/real-estate-server/internal/store"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// offerDocument carries the derived live flag that backs the partial unique
// index. It must be rewritten together with status on every update.
type offerDocument struct {
	models.Offer `bson:",inline"`
	Live         bool `bson:"live"`
}

var liveStatuses = []models.OfferStatus{models.OfferPending, models.OfferAccepted}

func statusUpdate(status models.OfferStatus, extra bson.M) bson.M {
	set := bson.M{"status": status, "live": status.Live(), "updatedAt": now()}
	for k, v := range extra {
		set[k] = v
	}
	return bson.M{"$set": set}
}

func (s *Service) InsertOffer(ctx context.Context, offer *models.Offer) error {
	if offer.Id == "" {
		offer.Id = uuid.New().String()
	}
	if offer.Status == "" {
		offer.Status = models.OfferPending
	}
	ts := now()
	offer.CreatedAt, offer.UpdatedAt = ts, ts

	doc := offerDocument{Offer: *offer, Live: offer.Status.Live()}
	if _, err := s.db.Collection(collOffers).InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
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
	doc, err := findOne[offerDocument](ctx, s.db.Collection(collOffers), bson.M{"_id": offerId}, "offer "+offerId)
	if err != nil {
		return nil, err
	}
	return &doc.Offer, nil
}

func (s *Service) HasLiveOffer(ctx context.Context, propertyId, buyerEmail string) (bool, error) {
	count, err := s.db.Collection(collOffers).CountDocuments(ctx,
		bson.M{"propertyId": propertyId, "buyerEmail": buyerEmail, "live": true},
		options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("unable to count live offers: %w", err)
	}
	return count > 0, nil
}

func offerQuery(filter store.OfferFilter) bson.M {
	query := bson.M{}
	if filter.PropertyId != "" {
		query["propertyId"] = filter.PropertyId
	}
	if filter.BuyerEmail != "" {
		query["buyerEmail"] = filter.BuyerEmail
	}
	if filter.AgentEmail != "" {
		query["agentEmail"] = filter.AgentEmail
	}
	return query
}

func (s *Service) ListOffers(ctx context.Context, filter store.OfferFilter) ([]models.Offer, error) {
	docs, err := findAll[offerDocument](ctx, s.db.Collection(collOffers), offerQuery(filter), newestFirst("createdAt"))
	if err != nil {
		return nil, err
	}
	offers := make([]models.Offer, 0, len(docs))
	for _, doc := range docs {
		offers = append(offers, doc.Offer)
	}
	return offers, nil
}

func (s *Service) updateOffer(ctx context.Context, offerId string, filter, update bson.M) (models.UpdateResult, error) {
	res, err := s.db.Collection(collOffers).UpdateOne(ctx, filter, update)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return models.UpdateResult{}, fmt.Errorf("%w: offer %s", store.ErrDuplicateOffer, offerId)
		}
		return models.UpdateResult{}, fmt.Errorf("unable to update offer: %w", err)
	}
	return s.updateResult(ctx, collOffers, offerId, res)
}

func (s *Service) TransitionOfferStatus(ctx context.Context, offerId string, from, to models.OfferStatus) (models.UpdateResult, error) {
	return s.updateOffer(ctx, offerId,
		bson.M{"_id": offerId, "status": from},
		statusUpdate(to, nil))
}

func (s *Service) AcceptOfferForSettlement(ctx context.Context, offerId, transactionId string) (models.UpdateResult, error) {
	return s.updateOffer(ctx, offerId,
		bson.M{"_id": offerId, "$or": bson.A{
			bson.M{"status": models.OfferPending},
			bson.M{"status": models.OfferAccepted, "transactionId": ""},
		}},
		statusUpdate(models.OfferAccepted, bson.M{"transactionId": transactionId}))
}

func (s *Service) ForceOfferSettled(ctx context.Context, offerId, transactionId string) (models.UpdateResult, error) {
	return s.updateOffer(ctx, offerId,
		bson.M{"_id": offerId, "$nor": bson.A{
			bson.M{"status": models.OfferAccepted, "transactionId": transactionId},
		}},
		statusUpdate(models.OfferAccepted, bson.M{"transactionId": transactionId}))
}

// RejectCompetingOffers cannot exclude the sale owner in the same statement,
// so the owner is looked up first. A sale inserted after the lookup is
// repaired by its winner re-asserting its own offer.
func (s *Service) RejectCompetingOffers(ctx context.Context, propertyId, keepOfferId string) (int64, error) {
	keep := bson.A{keepOfferId}
	sale, err := s.GetSaleRecordByProperty(ctx, propertyId)
	switch {
	case err == nil:
		keep = append(keep, sale.OfferId)
	case !isNotFound(err):
		return 0, err
	}

	res, err := s.db.Collection(collOffers).UpdateMany(ctx,
		bson.M{"propertyId": propertyId, "_id": bson.M{"$nin": keep}, "status": bson.M{"$in": liveStatuses}},
		statusUpdate(models.OfferRejected, nil))
	if err != nil {
		return 0, fmt.Errorf("unable to reject competing offers: %w", err)
	}
	return res.ModifiedCount, nil
}

func (s *Service) RejectLiveOffersForProperties(ctx context.Context, propertyIds []string) (int64, error) {
	if len(propertyIds) == 0 {
		return 0, nil
	}
	res, err := s.db.Collection(collOffers).UpdateMany(ctx,
		bson.M{"propertyId": bson.M{"$in": propertyIds}, "status": bson.M{"$in": liveStatuses}, "transactionId": ""},
		statusUpdate(models.OfferRejected, nil))
	if err != nil {
		return 0, fmt.Errorf("unable to reject live offers: %w", err)
	}
	return res.ModifiedCount, nil
}
