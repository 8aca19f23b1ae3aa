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
	"strings"

	"github.com/niraihan/real-estate-server/internal/models"
	"github.com/niraihan/real-estate-server/internal/store"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
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

	if _, err := s.db.NamedExecContext(ctx, queryInsertProperty, property); err != nil {
		zap.L().Error("Failed to insert property", zap.String("agent_email", property.AgentEmail), zap.Error(err))
		return fmt.Errorf("unable to insert property: %w", err)
	}

	zap.L().Info("Property created",
		zap.String("property_id", property.Id),
		zap.String("agent_email", property.AgentEmail))
	return nil
}

func (s *Service) GetProperty(ctx context.Context, propertyId string) (*models.Property, error) {
	var property models.Property
	err := s.db.GetContext(ctx, &property, queryPropertyColumns+" WHERE id = ?", propertyId)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: property %s", store.ErrNotFound, propertyId)
		}
		return nil, fmt.Errorf("unable to query property: %w", err)
	}
	return &property, nil
}

func (s *Service) ListProperties(ctx context.Context, filter store.PropertyFilter) ([]models.Property, error) {
	var clauses []string
	var args []interface{}

	if len(filter.Statuses) > 0 {
		clauses = append(clauses, "status IN (?)")
		args = append(args, filter.Statuses)
	}
	if filter.AgentEmail != "" {
		clauses = append(clauses, "agent_email = ?")
		args = append(args, filter.AgentEmail)
	}
	if filter.Advertised != nil {
		clauses = append(clauses, "advertised = ?")
		args = append(args, *filter.Advertised)
	}

	query := queryPropertyColumns
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY created_at DESC"

	query, args, err := sqlx.In(query, args...)
	if err != nil {
		return nil, fmt.Errorf("unable to build property query: %w", err)
	}

	properties := []models.Property{}
	if err := s.db.SelectContext(ctx, &properties, s.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("unable to query properties: %w", err)
	}
	return properties, nil
}

func (s *Service) UpdatePropertyDetails(ctx context.Context, propertyId string, details store.PropertyDetails) (models.UpdateResult, error) {
	result, err := s.db.ExecContext(ctx, queryUpdatePropertyDetails,
		details.Title, details.Location, details.Image, details.PriceMin, details.PriceMax, now(), propertyId)
	if err != nil {
		return models.UpdateResult{}, fmt.Errorf("unable to update property: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return models.UpdateResult{}, fmt.Errorf("unable to get rows affected: %w", err)
	}
	return models.UpdateResult{Matched: rows > 0, Modified: rows > 0}, nil
}

func (s *Service) TransitionPropertyStatus(ctx context.Context, propertyId string, from []models.PropertyStatus, to models.PropertyStatus) (models.UpdateResult, error) {
	if len(from) == 0 {
		return models.UpdateResult{}, fmt.Errorf("property transition requires at least one source status")
	}
	query, args, err := sqlx.In(queryTransitionPropertyStatus, to, now(), propertyId, from)
	if err != nil {
		return models.UpdateResult{}, fmt.Errorf("unable to build transition query: %w", err)
	}
	result, err := s.db.ExecContext(ctx, s.db.Rebind(query), args...)
	if err != nil {
		return models.UpdateResult{}, fmt.Errorf("unable to transition property status: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return models.UpdateResult{}, fmt.Errorf("unable to get rows affected: %w", err)
	}
	return s.updateResult(ctx, tableProperties, propertyId, rows)
}

func (s *Service) SetPropertyAdvertised(ctx context.Context, propertyId string, advertised bool) (models.UpdateResult, error) {
	result, err := s.db.ExecContext(ctx, querySetPropertyAdvertised, advertised, now(), propertyId, advertised)
	if err != nil {
		return models.UpdateResult{}, fmt.Errorf("unable to update advertised flag: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return models.UpdateResult{}, fmt.Errorf("unable to get rows affected: %w", err)
	}
	return s.updateResult(ctx, tableProperties, propertyId, rows)
}

func (s *Service) DeleteProperty(ctx context.Context, propertyId string) (int64, error) {
	result, err := s.db.ExecContext(ctx, queryDeleteProperty, propertyId)
	if err != nil {
		return 0, fmt.Errorf("unable to delete property: %w", err)
	}
	return result.RowsAffected()
}

func (s *Service) ListPropertyIdsByAgent(ctx context.Context, agentEmail string) ([]string, error) {
	ids := []string{}
	if err := s.db.SelectContext(ctx, &ids, queryGetPropertyIdsByAgent, agentEmail); err != nil {
		return nil, fmt.Errorf("unable to query agent property ids: %w", err)
	}
	return ids, nil
}

func (s *Service) DeletePropertiesByAgent(ctx context.Context, agentEmail string) (int64, error) {
	result, err := s.db.ExecContext(ctx, queryDeletePropertiesByAgent, agentEmail)
	if err != nil {
		return 0, fmt.Errorf("unable to delete agent properties: %w", err)
	}
	return result.RowsAffected()
}
