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
	"regexp"

	"github.com/niraihan/real-estate-server/internal/models"
	"github.com/niraihan/real-estate-server/internal/store"

	"go.uber.org/zap"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// ValidateEmail reports whether email is syntactically usable as an identity.
func ValidateEmail(email string) error {
	if !emailRegex.MatchString(email) {
		return InvalidInput(fmt.Sprintf("invalid email %q", email))
	}
	return nil
}

// RegisterUser records a user on first sign-in. New users are always buyers;
// an existing user is returned unchanged with created=false.
func (s *MarketService) RegisterUser(ctx context.Context, email, name string) (*models.User, bool, error) {
	return s.ProvisionUser(ctx, &models.User{Email: email, Name: name, Role: models.RoleBuyer})
}

// ProvisionUser creates a user with an explicit role. It performs no
// authorization and is reserved for operator tooling and seeding.
func (s *MarketService) ProvisionUser(ctx context.Context, user *models.User) (*models.User, bool, error) {
	user.Email = normalizeEmail(user.Email)
	if err := ValidateEmail(user.Email); err != nil {
		return nil, false, err
	}
	if user.Role == "" {
		user.Role = models.RoleBuyer
	}
	if !user.Role.Valid() {
		return nil, false, InvalidInput(fmt.Sprintf("unknown role %q", user.Role))
	}

	if err := s.db.CreateUser(ctx, user); err != nil {
		if !errors.Is(err, store.ErrDuplicateUser) {
			return nil, false, Internal("Failed to create user", err, zap.String("email", user.Email))
		}
		existing, err := s.db.GetUserByEmail(ctx, user.Email)
		if err != nil {
			return nil, false, Internal("Failed to load existing user", err, zap.String("email", user.Email))
		}
		return existing, false, nil
	}
	return user, true, nil
}

// GetUserRole returns the caller's own stored role, or nil when unknown.
func (s *MarketService) GetUserRole(ctx context.Context, email string) (*models.Role, error) {
	if err := RequireIdentity(ctx, email); err != nil {
		return nil, err
	}
	role, err := s.ResolveRole(ctx, email)
	if err != nil {
		return nil, err
	}
	if role == "" {
		return nil, nil
	}
	return &role, nil
}

func (s *MarketService) ListUsers(ctx context.Context) ([]models.User, error) {
	if err := s.RequireAdmin(ctx); err != nil {
		return nil, err
	}
	users, err := s.db.GetUsers(ctx)
	if err != nil {
		return nil, Internal("Failed to list users", err)
	}
	return users, nil
}

func (s *MarketService) SetUserRole(ctx context.Context, userId string, role models.Role) (models.UpdateResult, error) {
	if err := s.RequireAdmin(ctx); err != nil {
		return models.UpdateResult{}, err
	}
	if err := parseId("user", userId); err != nil {
		return models.UpdateResult{}, err
	}
	if !role.Valid() {
		return models.UpdateResult{}, InvalidInput(fmt.Sprintf("unknown role %q", role))
	}

	result, err := s.db.SetUserRole(ctx, userId, role)
	if err != nil {
		return models.UpdateResult{}, Internal("Failed to update role", err, zap.String("user_id", userId))
	}
	if !result.Matched {
		return result, NotFound("user not found")
	}

	zap.L().Info("User role updated",
		zap.String("user_id", userId),
		zap.String("role", string(role)),
		zap.Bool("modified", result.Modified))
	return result, nil
}
