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
	"errors"
	"fmt"
	"time"

	"github.com/niraihan/real-estate-server/internal/models"
	"github.com/niraihan/real-estate-server/internal/store"

	"github.com/jmoiron/sqlx"
	"github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

// Compile-time check: *Service must satisfy store.MarketStore.
var _ store.MarketStore = (*Service)(nil)

type Service struct {
	db *sqlx.DB
}

func NewService(ctx context.Context, cfg models.DatabaseConfig) (*Service, error) {
	// Validate configuration
	if cfg.Path == "" {
		return nil, fmt.Errorf("database path cannot be empty")
	}
	if cfg.MaxOpenConns <= 0 {
		return nil, fmt.Errorf("max open connections must be positive, got %d", cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns < 0 {
		return nil, fmt.Errorf("max idle connections cannot be negative, got %d", cfg.MaxIdleConns)
	}
	if cfg.PingTimeout <= 0 {
		return nil, fmt.Errorf("ping timeout must be positive, got %v", cfg.PingTimeout)
	}

	zap.L().Info("Opening SQLite database", zap.String("file", cfg.Path))
	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_synchronous=NORMAL&_cache_size=1000&_busy_timeout=%d",
		cfg.Path, cfg.BusyTimeout.Milliseconds())
	db, err := sqlx.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("unable to open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	pingCtx, cancel := context.WithTimeout(ctx, cfg.PingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			return nil, closeErr
		}
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}

	service := &Service{db: db}
	if err := service.initSchema(ctx); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			return nil, closeErr
		}
		return nil, fmt.Errorf("unable to initialize schema: %w", err)
	}

	zap.L().Info("Database service initialized successfully")
	return service, nil
}

func (s *Service) Close() {
	if err := s.db.Close(); err != nil {
		zap.L().Warn("Failed to close database connection", zap.Error(err))
	}
}

func (s *Service) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Service) initSchema(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL DEFAULT '',
		email TEXT NOT NULL UNIQUE,
		role TEXT NOT NULL DEFAULT 'buyer',
		fraud BOOLEAN NOT NULL DEFAULT 0,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS properties (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		location TEXT NOT NULL DEFAULT '',
		image TEXT NOT NULL DEFAULT '',
		price_min TEXT NOT NULL DEFAULT '0',
		price_max TEXT NOT NULL DEFAULT '0',
		agent_email TEXT NOT NULL,
		agent_name TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL DEFAULT 'pending',
		advertised BOOLEAN NOT NULL DEFAULT 0,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_properties_agent_email ON properties(agent_email);
	CREATE INDEX IF NOT EXISTS idx_properties_status ON properties(status);

	-- Offers are an audit trail and are never deleted
	CREATE TABLE IF NOT EXISTS offers (
		id TEXT PRIMARY KEY,
		property_id TEXT NOT NULL,
		property_title TEXT NOT NULL DEFAULT '',
		property_location TEXT NOT NULL DEFAULT '',
		buyer_email TEXT NOT NULL,
		buyer_name TEXT NOT NULL DEFAULT '',
		agent_email TEXT NOT NULL,
		amount TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'pending',
		transaction_id TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	);

	-- At most one live offer per (property, buyer), enforced by the store
	CREATE UNIQUE INDEX IF NOT EXISTS idx_offers_live_buyer
		ON offers(property_id, buyer_email) WHERE status IN ('pending', 'accepted');
	CREATE INDEX IF NOT EXISTS idx_offers_property_id ON offers(property_id);
	CREATE INDEX IF NOT EXISTS idx_offers_buyer_email ON offers(buyer_email);
	CREATE INDEX IF NOT EXISTS idx_offers_agent_email ON offers(agent_email);

	CREATE TABLE IF NOT EXISTS sale_records (
		id TEXT PRIMARY KEY,
		offer_id TEXT NOT NULL UNIQUE,
		property_id TEXT NOT NULL UNIQUE,
		property_title TEXT NOT NULL DEFAULT '',
		property_location TEXT NOT NULL DEFAULT '',
		sold_price TEXT NOT NULL,
		buyer_email TEXT NOT NULL,
		buyer_name TEXT NOT NULL DEFAULT '',
		agent_email TEXT NOT NULL,
		transaction_id TEXT NOT NULL UNIQUE,
		sold_at TIMESTAMP NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_sale_records_agent_email ON sale_records(agent_email);
	CREATE INDEX IF NOT EXISTS idx_sale_records_buyer_email ON sale_records(buyer_email);

	CREATE TABLE IF NOT EXISTS reviews (
		id TEXT PRIMARY KEY,
		property_id TEXT NOT NULL,
		reviewer_email TEXT NOT NULL,
		reviewer_name TEXT NOT NULL DEFAULT '',
		rating INTEGER NOT NULL DEFAULT 0,
		comment TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_reviews_property_id ON reviews(property_id);

	CREATE TABLE IF NOT EXISTS reports (
		id TEXT PRIMARY KEY,
		property_id TEXT NOT NULL,
		reporter_email TEXT NOT NULL DEFAULT '',
		reason TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_reports_property_id ON reports(property_id);
	`

	_, err := s.db.ExecContext(ctx, schema)
	return err
}

// exists reports whether a row with the given id is present in table.
// table is always one of the package's own constants.
func (s *Service) exists(ctx context.Context, table, id string) (bool, error) {
	var count int
	if err := s.db.GetContext(ctx, &count, "SELECT COUNT(1) FROM "+table+" WHERE id = ?", id); err != nil {
		return false, fmt.Errorf("unable to check %s existence: %w", table, err)
	}
	return count > 0, nil
}

// updateResult turns a conditional UPDATE into matched/modified flags.
func (s *Service) updateResult(ctx context.Context, table, id string, rowsAffected int64) (models.UpdateResult, error) {
	if rowsAffected > 0 {
		return models.UpdateResult{Matched: true, Modified: true}, nil
	}
	found, err := s.exists(ctx, table, id)
	if err != nil {
		return models.UpdateResult{}, err
	}
	return models.UpdateResult{Matched: found}, nil
}

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	return errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
}

func now() time.Time {
	return time.Now().UTC()
}
