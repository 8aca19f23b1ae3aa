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
	"time"

	"github.com/niraihan/real-estate-server/internal/models"
	"github.com/niraihan/real-estate-server/internal/store"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

const (
	collUsers      = "users"
	collProperties = "properties"
	collOffers     = "offers"
	collSales      = "soldProperties"
	collReviews    = "reviews"
	collReports    = "reports"
)

// Compile-time check: *Service must satisfy store.MarketStore.
var _ store.MarketStore = (*Service)(nil)

type Service struct {
	client *mongo.Client
	db     *mongo.Database
}

func NewService(ctx context.Context, cfg models.MongoConfig) (*Service, error) {
	if cfg.URI == "" {
		return nil, fmt.Errorf("mongodb uri cannot be empty")
	}
	if cfg.Database == "" {
		return nil, fmt.Errorf("mongodb database cannot be empty")
	}
	if cfg.PingTimeout <= 0 {
		return nil, fmt.Errorf("ping timeout must be positive, got %v", cfg.PingTimeout)
	}

	connectCtx, cancel := context.WithTimeout(ctx, cfg.PingTimeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.URI).SetRegistry(newRegistry()))
	if err != nil {
		return nil, fmt.Errorf("unable to connect to mongodb: %w", err)
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("unable to ping mongodb: %w", err)
	}

	service := &Service{client: client, db: client.Database(cfg.Database)}
	if err := service.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("unable to create indexes: %w", err)
	}

	zap.L().Info("MongoDB service initialized successfully", zap.String("database", cfg.Database))
	return service, nil
}

func (s *Service) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.client.Disconnect(ctx); err != nil {
		zap.L().Warn("Failed to disconnect from mongodb", zap.Error(err))
	}
}

func (s *Service) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}

// ensureIndexes creates the uniqueness guarantees the service layer relies
// on. The live-offer index only covers documents with live=true, so rejected
// offers never block a new bid from the same buyer.
func (s *Service) ensureIndexes(ctx context.Context) error {
	indexes := map[string][]mongo.IndexModel{
		collUsers: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		collProperties: {
			{Keys: bson.D{{Key: "agentEmail", Value: 1}}},
			{Keys: bson.D{{Key: "status", Value: 1}}},
		},
		collOffers: {
			{
				Keys: bson.D{{Key: "propertyId", Value: 1}, {Key: "buyerEmail", Value: 1}},
				Options: options.Index().
					SetName("live_offer_per_buyer").
					SetUnique(true).
					SetPartialFilterExpression(bson.M{"live": true}),
			},
			{Keys: bson.D{{Key: "buyerEmail", Value: 1}}},
			{Keys: bson.D{{Key: "agentEmail", Value: 1}}},
		},
		collSales: {
			{Keys: bson.D{{Key: "offerId", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "propertyId", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "transactionId", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		collReviews: {
			{Keys: bson.D{{Key: "propertyId", Value: 1}}},
		},
		collReports: {
			{Keys: bson.D{{Key: "propertyId", Value: 1}}},
		},
	}

	for name, specs := range indexes {
		if _, err := s.db.Collection(name).Indexes().CreateMany(ctx, specs); err != nil {
			return fmt.Errorf("collection %s: %w", name, err)
		}
	}
	return nil
}

// updateResult turns a conditional update into matched/modified flags. A
// zero match count is ambiguous, so the document is looked up by id.
func (s *Service) updateResult(ctx context.Context, coll, id string, res *mongo.UpdateResult) (models.UpdateResult, error) {
	if res.ModifiedCount > 0 {
		return models.UpdateResult{Matched: true, Modified: true}, nil
	}
	count, err := s.db.Collection(coll).CountDocuments(ctx, bson.M{"_id": id}, options.Count().SetLimit(1))
	if err != nil {
		return models.UpdateResult{}, fmt.Errorf("unable to check %s existence: %w", coll, err)
	}
	return models.UpdateResult{Matched: count > 0}, nil
}

func findOne[T any](ctx context.Context, coll *mongo.Collection, filter interface{}, what string) (*T, error) {
	var doc T
	if err := coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: %s", store.ErrNotFound, what)
		}
		return nil, fmt.Errorf("unable to query %s: %w", coll.Name(), err)
	}
	return &doc, nil
}

func findAll[T any](ctx context.Context, coll *mongo.Collection, filter interface{}, opts ...*options.FindOptions) ([]T, error) {
	cursor, err := coll.Find(ctx, filter, opts...)
	if err != nil {
		return nil, fmt.Errorf("unable to query %s: %w", coll.Name(), err)
	}
	docs := []T{}
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("unable to decode %s: %w", coll.Name(), err)
	}
	return docs, nil
}

func newestFirst(field string) *options.FindOptions {
	return options.Find().SetSort(bson.D{{Key: field, Value: -1}})
}

func now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}
