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
	"os"
	"path/filepath"

	"github.com/niraihan/real-estate-server/internal/api"
	"github.com/niraihan/real-estate-server/internal/models"

	"go.uber.org/zap"
	"gopkg.in/yaml.v2"
)

type SeedUser struct {
	Email string `yaml:"email"`
	Name  string `yaml:"name"`
	Role  string `yaml:"role"`
}

type SeedConfig struct {
	Users []SeedUser `yaml:"users"`
}

// LoadSeedConfig reads a YAML list of users to provision at startup.
// Relative paths resolve against the working directory.
func LoadSeedConfig(seedFile string) (*SeedConfig, error) {
	seedPath := seedFile
	if !filepath.IsAbs(seedFile) {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		seedPath = filepath.Join(wd, seedFile)
	}

	data, err := os.ReadFile(seedPath)
	if err != nil {
		return nil, fmt.Errorf("unable to read %s: %w", seedFile, err)
	}

	var config SeedConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("unable to parse %s: %w", seedFile, err)
	}

	for i, user := range config.Users {
		if user.Email == "" {
			return nil, fmt.Errorf("user at index %d missing email", i)
		}
		if user.Role != "" && !models.Role(user.Role).Valid() {
			return nil, fmt.Errorf("user at index %d has unknown role %q", i, user.Role)
		}
	}

	return &config, nil
}

// SeedUsers provisions every seed user that does not exist yet. Existing
// users keep their stored role.
func SeedUsers(ctx context.Context, market *api.MarketService, seed *SeedConfig) (int, error) {
	created := 0
	for _, u := range seed.Users {
		user, isNew, err := market.ProvisionUser(ctx, &models.User{
			Email: u.Email,
			Name:  u.Name,
			Role:  models.Role(u.Role),
		})
		if err != nil {
			return created, fmt.Errorf("failed to seed %s: %w", u.Email, err)
		}
		if isNew {
			created++
			zap.L().Info("Seeded user",
				zap.String("email", user.Email),
				zap.String("role", string(user.Role)))
		}
	}
	return created, nil
}
