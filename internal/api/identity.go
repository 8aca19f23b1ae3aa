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

	"github.com/niraihan/real-estate-server/internal/models"

	"go.uber.org/zap"
)

// Caller returns the authenticated email attached to ctx.
func Caller(ctx context.Context) (string, error) {
	identity, ok := models.GetIdentity(ctx)
	if !ok || identity.Email == "" {
		return "", Unauthenticated("authentication required")
	}
	return normalizeEmail(identity.Email), nil
}

// RequireIdentity is the single ownership predicate: the authenticated
// caller must be the owner of the resource named by ownerEmail.
func RequireIdentity(ctx context.Context, ownerEmail string) error {
	caller, err := Caller(ctx)
	if err != nil {
		return err
	}
	if caller != normalizeEmail(ownerEmail) {
		zap.L().Warn("Identity mismatch",
			zap.String("caller", caller),
			zap.String("owner", ownerEmail))
		return Forbidden("access to another user's resource")
	}
	return nil
}

// ResolveRole re-reads the stored role of email. Unknown users have no role.
func (s *MarketService) ResolveRole(ctx context.Context, email string) (models.Role, error) {
	user, err := s.db.GetUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if isNotFound(err) {
			return "", nil
		}
		return "", Internal("Failed to resolve role", err, zap.String("email", email))
	}
	return user.Role, nil
}

// RequireAdmin fails unless the caller's stored role is admin. The role is
// never taken from the credential, so revocation applies immediately.
func (s *MarketService) RequireAdmin(ctx context.Context) error {
	caller, err := Caller(ctx)
	if err != nil {
		return err
	}
	role, err := s.ResolveRole(ctx, caller)
	if err != nil {
		return err
	}
	if role != models.RoleAdmin {
		zap.L().Warn("Admin access denied", zap.String("caller", caller), zap.String("role", string(role)))
		return Forbidden("admin role required")
	}
	return nil
}

// requireAnyOf passes when the caller is one of emails or an admin.
func (s *MarketService) requireAnyOf(ctx context.Context, emails ...string) (string, error) {
	caller, err := Caller(ctx)
	if err != nil {
		return "", err
	}
	for _, email := range emails {
		if caller == normalizeEmail(email) {
			return caller, nil
		}
	}
	if err := s.RequireAdmin(ctx); err != nil {
		return "", err
	}
	return caller, nil
}
