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
	"fmt"
	"strings"

	"github.com/niraihan/real-estate-server/internal/models"
	"github.com/niraihan/real-estate-server/internal/store"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// PropertyInput is the agent-supplied part of a listing.
type PropertyInput struct {
	Title    string          `json:"title"`
	Location string          `json:"location"`
	Image    string          `json:"image"`
	PriceMin decimal.Decimal `json:"priceMin"`
	PriceMax decimal.Decimal `json:"priceMax"`
}

func (in PropertyInput) validate() error {
	if strings.TrimSpace(in.Title) == "" {
		return InvalidInput("title is required")
	}
	if in.PriceMin.IsNegative() {
		return InvalidInput("priceMin cannot be negative")
	}
	if in.PriceMax.LessThan(in.PriceMin) {
		return InvalidInput("priceMax must not be below priceMin")
	}
	return nil
}

var searchableStatuses = []models.PropertyStatus{models.PropertyVerified, models.PropertySold}

// CreateProperty lists a new property for the caller. Only agents and admins
// may list, and a fraud-flagged owner is refused before anything is written.
func (s *MarketService) CreateProperty(ctx context.Context, in PropertyInput) (*models.Property, error) {
	caller, err := Caller(ctx)
	if err != nil {
		return nil, err
	}
	if err := in.validate(); err != nil {
		return nil, err
	}

	owner, err := s.db.GetUserByEmail(ctx, caller)
	if err != nil {
		if isNotFound(err) {
			return nil, Forbidden("listing requires a registered agent account")
		}
		return nil, Internal("Failed to load listing owner", err, zap.String("email", caller))
	}
	if owner.Fraud {
		zap.L().Warn("Listing refused for fraudulent agent", zap.String("agent_email", caller))
		return nil, &Error{Kind: KindForbidden, Reason: ReasonFraudulentAgent, Message: "agent is flagged as fraudulent"}
	}
	if owner.Role != models.RoleAgent && owner.Role != models.RoleAdmin {
		return nil, Forbidden("only agents can create listings")
	}

	property := &models.Property{
		Title:      strings.TrimSpace(in.Title),
		Location:   in.Location,
		Image:      in.Image,
		PriceMin:   in.PriceMin,
		PriceMax:   in.PriceMax,
		AgentEmail: owner.Email,
		AgentName:  owner.Name,
		Status:     models.PropertyPending,
	}
	if err := s.db.CreateProperty(ctx, property); err != nil {
		return nil, Internal("Failed to create property", err, zap.String("agent_email", caller))
	}
	return property, nil
}

// GetProperty returns a single listing. Listings that are not publicly
// searchable are only visible to their agent and to admins.
func (s *MarketService) GetProperty(ctx context.Context, propertyId string) (*models.Property, error) {
	property, err := s.loadProperty(ctx, propertyId)
	if err != nil {
		return nil, err
	}
	if property.Status.Searchable() {
		return property, nil
	}
	if _, err := s.requireAnyOf(ctx, property.AgentEmail); err != nil {
		return nil, NotFound("property not found")
	}
	return property, nil
}

func (s *MarketService) loadProperty(ctx context.Context, propertyId string) (*models.Property, error) {
	if err := parseId("property", propertyId); err != nil {
		return nil, err
	}
	property, err := s.db.GetProperty(ctx, propertyId)
	if err != nil {
		if isNotFound(err) {
			return nil, NotFound("property not found")
		}
		return nil, Internal("Failed to load property", err, zap.String("property_id", propertyId))
	}
	return property, nil
}

func (s *MarketService) listProperties(ctx context.Context, filter store.PropertyFilter) ([]models.Property, error) {
	properties, err := s.db.ListProperties(ctx, filter)
	if err != nil {
		return nil, Internal("Failed to list properties", err)
	}
	return properties, nil
}

// SearchProperties returns the publicly searchable listings.
func (s *MarketService) SearchProperties(ctx context.Context) ([]models.Property, error) {
	return s.listProperties(ctx, store.PropertyFilter{Statuses: searchableStatuses})
}

func (s *MarketService) ListAgentProperties(ctx context.Context, agentEmail string) ([]models.Property, error) {
	if err := RequireIdentity(ctx, agentEmail); err != nil {
		return nil, err
	}
	return s.listProperties(ctx, store.PropertyFilter{AgentEmail: normalizeEmail(agentEmail)})
}

func (s *MarketService) ListAllProperties(ctx context.Context) ([]models.Property, error) {
	if err := s.RequireAdmin(ctx); err != nil {
		return nil, err
	}
	return s.listProperties(ctx, store.PropertyFilter{})
}

// ListAdvertised returns advertised listings that are also searchable.
func (s *MarketService) ListAdvertised(ctx context.Context) ([]models.Property, error) {
	advertised := true
	return s.listProperties(ctx, store.PropertyFilter{Statuses: searchableStatuses, Advertised: &advertised})
}

// ListAdvertiseCandidates returns verified listings an admin may advertise.
func (s *MarketService) ListAdvertiseCandidates(ctx context.Context) ([]models.Property, error) {
	if err := s.RequireAdmin(ctx); err != nil {
		return nil, err
	}
	return s.listProperties(ctx, store.PropertyFilter{Statuses: []models.PropertyStatus{models.PropertyVerified}})
}

func (s *MarketService) UpdateProperty(ctx context.Context, propertyId string, in PropertyInput) (*models.Property, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	property, err := s.loadProperty(ctx, propertyId)
	if err != nil {
		return nil, err
	}
	if err := RequireIdentity(ctx, property.AgentEmail); err != nil {
		return nil, err
	}
	if property.Status == models.PropertySold {
		return nil, Conflict(ReasonPropertySold, "sold listings cannot be edited")
	}

	details := store.PropertyDetails{
		Title:    strings.TrimSpace(in.Title),
		Location: in.Location,
		Image:    in.Image,
		PriceMin: in.PriceMin,
		PriceMax: in.PriceMax,
	}
	if _, err := s.db.UpdatePropertyDetails(ctx, propertyId, details); err != nil {
		return nil, Internal("Failed to update property", err, zap.String("property_id", propertyId))
	}
	return s.loadProperty(ctx, propertyId)
}

// DeleteProperty removes a listing for its agent or an admin. Live offers on
// the listing are rejected so they cannot be settled against nothing.
func (s *MarketService) DeleteProperty(ctx context.Context, propertyId string) (int64, error) {
	property, err := s.loadProperty(ctx, propertyId)
	if err != nil {
		return 0, err
	}
	if _, err := s.requireAnyOf(ctx, property.AgentEmail); err != nil {
		return 0, err
	}

	ids := []string{propertyId}
	rejected, err := s.db.RejectLiveOffersForProperties(ctx, ids)
	if err != nil {
		return 0, Internal("Failed to reject offers on property", err, zap.String("property_id", propertyId))
	}
	deleted, err := s.db.DeleteProperty(ctx, propertyId)
	if err != nil {
		return 0, Internal("Failed to delete property", err, zap.String("property_id", propertyId))
	}
	late, err := s.db.RejectLiveOffersForProperties(ctx, ids)
	if err != nil {
		return deleted, Internal("Failed to reject offers on deleted property", err, zap.String("property_id", propertyId))
	}
	rejected += late

	zap.L().Info("Property deleted",
		zap.String("property_id", propertyId),
		zap.Int64("deleted", deleted),
		zap.Int64("offers_rejected", rejected))
	return deleted, nil
}

func (s *MarketService) VerifyProperty(ctx context.Context, propertyId string) (models.UpdateResult, error) {
	return s.reviewProperty(ctx, propertyId, models.PropertyVerified)
}

func (s *MarketService) RejectProperty(ctx context.Context, propertyId string) (models.UpdateResult, error) {
	return s.reviewProperty(ctx, propertyId, models.PropertyRejected)
}

// reviewProperty applies the admin decision pending -> verified|rejected.
// Repeating the same decision is a no-op; anything else is a conflict.
func (s *MarketService) reviewProperty(ctx context.Context, propertyId string, to models.PropertyStatus) (models.UpdateResult, error) {
	if err := s.RequireAdmin(ctx); err != nil {
		return models.UpdateResult{}, err
	}
	if err := parseId("property", propertyId); err != nil {
		return models.UpdateResult{}, err
	}

	result, err := s.db.TransitionPropertyStatus(ctx, propertyId, []models.PropertyStatus{models.PropertyPending}, to)
	if err != nil {
		return models.UpdateResult{}, Internal("Failed to transition property", err,
			zap.String("property_id", propertyId), zap.String("to", string(to)))
	}
	if !result.Matched {
		return result, NotFound("property not found")
	}
	if result.Modified {
		zap.L().Info("Property reviewed", zap.String("property_id", propertyId), zap.String("status", string(to)))
		return result, nil
	}

	current, err := s.loadProperty(ctx, propertyId)
	if err != nil {
		return models.UpdateResult{}, err
	}
	if current.Status == to {
		return result, nil
	}
	return result, Conflict(ReasonInvalidTransition,
		fmt.Sprintf("property is %s and cannot become %s", current.Status, to))
}

// AdvertiseProperty toggles the advertised flag for the listing's agent or
// an admin. It is independent of the publication status.
func (s *MarketService) AdvertiseProperty(ctx context.Context, propertyId string, advertised bool) (models.UpdateResult, error) {
	property, err := s.loadProperty(ctx, propertyId)
	if err != nil {
		return models.UpdateResult{}, err
	}
	if _, err := s.requireAnyOf(ctx, property.AgentEmail); err != nil {
		return models.UpdateResult{}, err
	}

	result, err := s.db.SetPropertyAdvertised(ctx, propertyId, advertised)
	if err != nil {
		return models.UpdateResult{}, Internal("Failed to update advertised flag", err, zap.String("property_id", propertyId))
	}
	if !result.Matched {
		return result, NotFound("property not found")
	}
	return result, nil
}
