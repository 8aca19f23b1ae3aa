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
	"go.uber.org/zap"
)

// InsertSaleRecord writes an immutable sale record. Uniqueness on offer,
// property and transaction id makes a replayed settlement a duplicate
// rather than a second sale.
func (s *Service) InsertSaleRecord(ctx context.Context, record *models.SaleRecord) error {
	if record.Id == "" {
		record.Id = uuid.New().String()
	}
	if record.SoldAt.IsZero() {
		record.SoldAt = now()
	}

	if _, err := s.db.NamedExecContext(ctx, queryInsertSaleRecord, record); err != nil {
		if isUniqueViolation(err) {
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
	return s.getSaleRecord(ctx, "offer_id", offerId)
}

func (s *Service) GetSaleRecordByProperty(ctx context.Context, propertyId string) (*models.SaleRecord, error) {
	return s.getSaleRecord(ctx, "property_id", propertyId)
}

func (s *Service) getSaleRecord(ctx context.Context, column, value string) (*models.SaleRecord, error) {
	var record models.SaleRecord
	if err := s.db.GetContext(ctx, &record, querySaleRecordColumns+" WHERE "+column+" = ?", value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: sale record %s=%s", store.ErrNotFound, column, value)
		}
		return nil, fmt.Errorf("unable to query sale record: %w", err)
	}
	return &record, nil
}

func (s *Service) ListSaleRecords(ctx context.Context, filter store.SaleFilter) ([]models.SaleRecord, error) {
	var clauses []string
	var args []interface{}

	if filter.AgentEmail != "" {
		clauses = append(clauses, "agent_email = ?")
		args = append(args, filter.AgentEmail)
	}
	if filter.BuyerEmail != "" {
		clauses = append(clauses, "buyer_email = ?")
		args = append(args, filter.BuyerEmail)
	}

	query := querySaleRecordColumns
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY sold_at DESC"

	records := []models.SaleRecord{}
	if err := s.db.SelectContext(ctx, &records, query, args...); err != nil {
		return nil, fmt.Errorf("unable to query sale records: %w", err)
	}
	return records, nil
}
