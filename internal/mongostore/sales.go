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
	"errors"
	"fmt"

	"github.com/niraihan/real-estate-server/internal/models"
	"github.com/niraihan/real-estate-server/internal/store"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func (s *Service) InsertSaleRecord(ctx context.Context, record *models.SaleRecord) error {
	if record.Id == "" {
		record.Id = uuid.New().String()
	}
	if record.SoldAt.IsZero() {
		record.SoldAt = now()
	}

	if _, err := s.db.Collection(collSales).InsertOne(ctx, record); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			zap.L().Info("Sale record already exists, skipping",
				zap.String("offer_id", record.OfferId),
				zap.String("property_id", record.PropertyId),
				zap.String("transaction_id", record.TransactionId))
			return fmt.Errorf("%w: offer %s", store.ErrDuplicateSale, record.OfferId)
		}
		return fmt.Errorf("unable to insert sale record: %w", err)
	}

	zap.L().Info("Sale record inserted",
		zap.String("sale_id", record.Id),
		zap.String("offer_id", record.OfferId),
		zap.String("property_id", record.PropertyId),
		zap.String("sold_price", record.SoldPrice.String()))
	return nil
}

func (s *Service) GetSaleRecordByOffer(ctx context.Context, offerId string) (*models.SaleRecord, error) {
	return findOne[models.SaleRecord](ctx, s.db.Collection(collSales), bson.M{"offerId": offerId}, "sale record for offer "+offerId)
}

func (s *Service) GetSaleRecordByProperty(ctx context.Context, propertyId string) (*models.SaleRecord, error) {
	return findOne[models.SaleRecord](ctx, s.db.Collection(collSales), bson.M{"propertyId": propertyId}, "sale record for property "+propertyId)
}

func (s *Service) ListSaleRecords(ctx context.Context, filter store.SaleFilter) ([]models.SaleRecord, error) {
	query := bson.M{}
	if filter.AgentEmail != "" {
		query["agentEmail"] = filter.AgentEmail
	}
	if filter.BuyerEmail != "" {
		query["buyerEmail"] = filter.BuyerEmail
	}
	return findAll[models.SaleRecord](ctx, s.db.Collection(collSales), query, newestFirst("soldAt"))
}

func isNotFound(err error) bool {
	return errors.Is(err, store.ErrNotFound)
}
