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

func (s *Service) CreateUser(ctx context.Context, user *models.User) error {
	if user.Id == "" {
		user.Id = uuid.New().String()
	}
	if user.Role == "" {
		user.Role = models.RoleBuyer
	}
	ts := now()
	user.CreatedAt, user.UpdatedAt = ts, ts

	if _, err := s.db.Collection(collUsers).InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: %s", store.ErrDuplicateUser, user.Email)
		}
		zap.L().Error("Failed to insert user", zap.String("email", user.Email), zap.Error(err))
		return fmt.Errorf("unable to insert user: %w", err)
	}

	zap.L().Info("User created", zap.String("id", user.Id), zap.String("email", user.Email))
	return nil
}

func (s *Service) GetUserById(ctx context.Context, userId string) (*models.User, error) {
	return findOne[models.User](ctx, s.db.Collection(collUsers), bson.M{"_id": userId}, "user "+userId)
}

func (s *Service) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return findOne[models.User](ctx, s.db.Collection(collUsers), bson.M{"email": email}, "user "+email)
}

func (s *Service) GetUsers(ctx context.Context) ([]models.User, error) {
	return findAll[models.User](ctx, s.db.Collection(collUsers), bson.M{},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
}

func (s *Service) SetUserRole(ctx context.Context, userId string, role models.Role) (models.UpdateResult, error) {
	res, err := s.db.Collection(collUsers).UpdateOne(ctx,
		bson.M{"_id": userId, "role": bson.M{"$ne": role}},
		bson.M{"$set": bson.M{"role": role, "updatedAt": now()}})
	if err != nil {
		return models.UpdateResult{}, fmt.Errorf("unable to update user role: %w", err)
	}
	return s.updateResult(ctx, collUsers, userId, res)
}

func (s *Service) SetUserFraud(ctx context.Context, userId string) (models.UpdateResult, error) {
	res, err := s.db.Collection(collUsers).UpdateOne(ctx,
		bson.M{"_id": userId, "fraud": bson.M{"$ne": true}},
		bson.M{"$set": bson.M{"fraud": true, "updatedAt": now()}})
	if err != nil {
		return models.UpdateResult{}, fmt.Errorf("unable to flag user: %w", err)
	}
	return s.updateResult(ctx, collUsers, userId, res)
}
