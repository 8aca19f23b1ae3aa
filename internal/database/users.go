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

	"github.com/niraihan/real-estate-server/internal/models"
	"github.com/niraihan/real-estate-server/internal/store"

	"github.com/google/uuid"
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

	zap.L().Info("Creating user",
		zap.String("id", user.Id),
		zap.String("email", user.Email),
		zap.String("role", string(user.Role)))

	if _, err := s.db.NamedExecContext(ctx, queryInsertUser, user); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %s", store.ErrDuplicateUser, user.Email)
		}
		zap.L().Error("Failed to insert user", zap.String("email", user.Email), zap.Error(err))
		return fmt.Errorf("unable to insert user: %w", err)
	}
	return nil
}

func (s *Service) GetUsers(ctx context.Context) ([]models.User, error) {
	zap.L().Debug("Querying users")

	users := []models.User{}
	if err := s.db.SelectContext(ctx, &users, queryGetUsers); err != nil {
		zap.L().Error("Failed to query users", zap.Error(err))
		return nil, fmt.Errorf("unable to query users: %w", err)
	}

	zap.L().Debug("Retrieved users", zap.Int("count", len(users)))
	return users, nil
}

func (s *Service) GetUserById(ctx context.Context, userId string) (*models.User, error) {
	zap.L().Debug("Querying user by ID", zap.String("user_id", userId))

	var user models.User
	if err := s.db.GetContext(ctx, &user, queryGetUserById, userId); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: user %s", store.ErrNotFound, userId)
		}
		zap.L().Error("Failed to query user by ID", zap.String("user_id", userId), zap.Error(err))
		return nil, fmt.Errorf("unable to query user by ID: %w", err)
	}
	return &user, nil
}

func (s *Service) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	zap.L().Debug("Querying user by email", zap.String("email", email))

	var user models.User
	if err := s.db.GetContext(ctx, &user, queryGetUserByEmail, email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: user %s", store.ErrNotFound, email)
		}
		zap.L().Error("Failed to query user by email", zap.String("email", email), zap.Error(err))
		return nil, fmt.Errorf("unable to query user by email: %w", err)
	}
	return &user, nil
}

func (s *Service) SetUserRole(ctx context.Context, userId string, role models.Role) (models.UpdateResult, error) {
	result, err := s.db.ExecContext(ctx, queryUpdateUserRole, role, now(), userId, role)
	if err != nil {
		return models.UpdateResult{}, fmt.Errorf("unable to update user role: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return models.UpdateResult{}, fmt.Errorf("unable to get rows affected: %w", err)
	}
	return s.updateResult(ctx, tableUsers, userId, rows)
}

func (s *Service) SetUserFraud(ctx context.Context, userId string) (models.UpdateResult, error) {
	result, err := s.db.ExecContext(ctx, queryFlagUserFraud, now(), userId)
	if err != nil {
		return models.UpdateResult{}, fmt.Errorf("unable to flag user: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return models.UpdateResult{}, fmt.Errorf("unable to get rows affected: %w", err)
	}
	return s.updateResult(ctx, tableUsers, userId, rows)
}
