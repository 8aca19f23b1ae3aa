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
	"strings"

	"github.com/niraihan/real-estate-server/internal/store"

	"github.com/google/uuid"
)

// MarketService implements the marketplace operations on top of any
// store.MarketStore. It keeps no state of its own.
type MarketService struct {
	db store.MarketStore
}

func NewMarketService(db store.MarketStore) *MarketService {
	return &MarketService{
		db: db,
	}
}

func (s *MarketService) HealthCheck(ctx context.Context) error {
	if err := s.db.Ping(ctx); err != nil {
		return fmt.Errorf("datastore health check failed: %w", err)
	}
	return nil
}

func isNotFound(err error) bool {
	return errors.Is(err, store.ErrNotFound)
}

// parseId rejects identifiers that cannot have been generated by the store.
func parseId(kind, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return InvalidInput(fmt.Sprintf("malformed %s id %q", kind, id))
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
