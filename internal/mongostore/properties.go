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
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

func (s *Service) CreateProperty(ctx context.Context, property *models.Property) error {
	if property.Id == "" {
		property.Id = uuid.New().String()
	}
	if property.Status == "" {
		property.Status = models.PropertyPending
	}
	ts := now()
	property.CreatedAt, property.UpdatedAt = ts, ts

	if _, err := s.db.Collection(collProperties).InsertOne(ctx, property); err != nil {
		zap.L().Error("Failed to insert property", zap.String("agent_email", property.AgentEmail), zap.Error(err))
		return fmt.Errorf("unable to insert property: %w", err)
	}

	zap.L().Info("Property created",
		zap.String("property_id", property.Id),
		zap.String("agent_email", property.AgentEmail))
	return nil
}

func (s *Service) GetProperty(ctx context.Context, propertyId string) (*models.Property, error) {
	return findOne[models.Property](ctx, s.db.Collection(collProperties), bson.M{"_id": propertyId}, "property "+propertyId)
}

func propertyQuery(filter store.PropertyFilter) bson.M {
	query := bson.M{}
	if len(filter.Statuses) > 0 {
		query["status"] = bson.M{"$in": filter.Statuses}
	}
	if filter.AgentEmail != "" {
		query["agentEmail"] = filter.AgentEmail
	}
	if filter.Advertised != nil {
		query["advertised"] = *filter.Advertised
	}
	return query
}

func (s *Service) ListProperties(ctx context.Context, filter store.PropertyFilter) ([]models.Property, error) {
	return findAll[models.Property](ctx, s.db.Collection(collProperties), propertyQuery(filter), newestFirst("createdAt"))
}

func (s *Service) UpdatePropertyDetails(ctx context.Context, propertyId string, details store.PropertyDetails) (models.UpdateResult, error) {
	res, err := s.db.Collection(collProperties).UpdateOne(ctx,
		bson.M{"_id": propertyId},
		bson.M{"$set": bson.M{
			"title":     details.Title,
			"location":  details.Location,
			"image":     details.Image,
			"priceMin":  details.PriceMin,
			"priceMax":  details.PriceMax,
			"updatedAt": now(),
		}})
	if err != nil {
		return models.UpdateResult{}, fmt.Errorf("unable to update property: %w", err)
	}
	return models.UpdateResult{Matched: res.MatchedCount > 0, Modified: res.ModifiedCount > 0}, nil
}

func (s *Service) TransitionPropertyStatus(ctx context.Context, propertyId string, from []models.PropertyStatus, to models.PropertyStatus) (models.UpdateResult, error) {
	if len(from) == 0 {
		return models.UpdateResult{}, fmt.Errorf("property transition requires at least one source status")
	}
	res, err := s.db.Collection(collProperties).UpdateOne(ctx,
		bson.M{"_id": propertyId, "status": bson.M{"$in": from}},
		bson.M{"$set": bson.M{"status": to, "updatedAt": now()}})
	if err != nil {
		return models.UpdateResult{}, fmt.Errorf("unable to transition property status: %w", err)
	}
	return s.updateResult(ctx, collProperties, propertyId, res)
}

func (s *Service) SetPropertyAdvertised(ctx context.Context, propertyId string, advertised bool) (models.UpdateResult, error) {
	res, err := s.db.Collection(collProperties).UpdateOne(ctx,
		bson.M{"_id": propertyId, "advertised": bson.M{"$ne": advertised}},
		bson.M{"$set": bson.M{"advertised": advertised, "updatedAt": now()}})
	if err != nil {
		return models.UpdateResult{}, fmt.Errorf("unable to update advertised flag: %w", err)
	}
	return s.updateResult(ctx, collProperties, propertyId, res)
}

func (s *Service) DeleteProperty(ctx context.Context, propertyId string) (int64, error) {
	res, err := s.db.Collection(collProperties).DeleteOne(ctx, bson.M{"_id": propertyId})
	if err != nil {
		return 0, fmt.Errorf("unable to delete property: %w", err)
	}
	return res.DeletedCount, nil
}

func (s *Service) ListPropertyIdsByAgent(ctx context.Context, agentEmail string) ([]string, error) {
	type idOnly struct {
		Id string `bson:"_id"`
	}
	docs, err := findAll[idOnly](ctx, s.db.Collection(collProperties), bson.M{"agentEmail": agentEmail},
		options.Find().SetProjection(bson.M{"_id": 1}))
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(docs))
	for _, doc := range docs {
		ids = append(ids, doc.Id)
	}
	return ids, nil
}

func (s *Service) DeletePropertiesByAgent(ctx context.Context, agentEmail string) (int64, error) {
	res, err := s.db.Collection(collProperties).DeleteMany(ctx, bson.M{"agentEmail": agentEmail})
	if err != nil {
		return 0, fmt.Errorf("unable to delete agent properties: %w", err)
	}
	return res.DeletedCount, nil
}
