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
package common

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/niraihan/real-estate-server/internal/api"
	"github.com/niraihan/real-estate-server/internal/config"
	"github.com/niraihan/real-estate-server/internal/database"
	"github.com/niraihan/real-estate-server/internal/models"
	"github.com/niraihan/real-estate-server/internal/mongostore"
	"github.com/niraihan/real-estate-server/internal/store"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// init loads environment variables from .env file if it exists
func init() {
	// Environment variables can also be set via shell export or the container runtime
	if err := godotenv.Load(); err != nil {
		log.Printf("Note: No .env file found or unable to load it: %v\n", err)
		log.Println("Make sure to set environment variables via export or other means")
	} else {
		log.Println("✓ Loaded environment variables from .env file")
	}
}

type Services struct {
	Store  store.MarketStore
	Market *api.MarketService
}

func InitializeLogger() (*zap.Logger, func()) {
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	zap.ReplaceGlobals(logger)

	cleanup := func() {
		if err := logger.Sync(); err != nil {
			if !isIgnorableSyncError(err) {
				log.Printf("Failed to sync logger: %v\n", err)
			}
		}
	}

	return logger, cleanup
}

// InitializeServices opens the configured backend and wraps it with the
// per-operation deadline before handing it to the marketplace service.
func InitializeServices(ctx context.Context, cfg *models.Config) (*Services, error) {
	db, err := openStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	timeout := cfg.Database.OperationTimeout
	if cfg.Backend == config.BackendMongo {
		timeout = cfg.Mongo.OperationTimeout
	}
	bounded := store.WithTimeout(db, timeout)

	zap.L().Info("Store initialized",
		zap.String("backend", cfg.Backend),
		zap.Duration("operation_timeout", timeout))

	return &Services{
		Store:  bounded,
		Market: api.NewMarketService(bounded),
	}, nil
}

func openStore(ctx context.Context, cfg *models.Config) (store.MarketStore, error) {
	switch cfg.Backend {
	case config.BackendMongo:
		return mongostore.NewService(ctx, cfg.Mongo)
	case config.BackendSQLite, "":
		return database.NewService(ctx, cfg.Database)
	default:
		return nil, fmt.Errorf("unsupported store backend: %q", cfg.Backend)
	}
}

func (cs *Services) Close() {
	if cs.Store != nil {
		cs.Store.Close()
	}
}

func isIgnorableSyncError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "sync /dev/stderr: inappropriate ioctl for device") ||
		strings.Contains(msg, "sync /dev/stdout: inappropriate ioctl for device")
}
