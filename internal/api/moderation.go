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

// MarkFraudulent flags a user and deletes EVERY listing they own, whatever
// its status, including verified and sold listings. Live offers on those
// listings are rejected before the delete. The steps are sequential with no rollback; on
// failure the returned result holds what was already done and a re-run
// completes the rest.
func (s *MarketService) MarkFraudulent(ctx context.Context, userId string) (*models.FraudCascadeResult, error) {
	if err := s.RequireAdmin(ctx); err != nil {
		return nil, err
	}
	if err := parseId("user", userId); err != nil {
		return nil, err
	}

	user, err := s.db.GetUserById(ctx, userId)
	if err != nil {
		if isNotFound(err) {
			return nil, NotFound("user not found")
		}
		return nil, Internal("Failed to load user", err, zap.String("user_id", userId))
	}
	result := &models.FraudCascadeResult{UserId: user.Id, AgentEmail: user.Email}

	flag, err := s.db.SetUserFraud(ctx, user.Id)
	if err != nil {
		return result, Internal("Failed to flag user", err, zap.String("user_id", userId))
	}
	result.FlagUpdated = flag.Modified

	// Creation is refused once the flag is set. A listing inserted by a
	// create that read the user before the flag is caught by a re-run.
	propertyIds, err := s.db.ListPropertyIdsByAgent(ctx, user.Email)
	if err != nil {
		return result, Internal("Failed to list agent properties", err, zap.String("agent_email", user.Email))
	}

	zap.L().Warn("Fraud cascade: deleting all listings of agent",
		zap.String("user_id", user.Id),
		zap.String("agent_email", user.Email),
		zap.Int("listings", len(propertyIds)))

	// Offers go first so a failed delete leaves the ids listable for the
	// re-run. The sweep after the delete catches offers placed in between.
	rejected, err := s.db.RejectLiveOffersForProperties(ctx, propertyIds)
	if err != nil {
		return result, Internal("Failed to reject offers on agent properties", err, zap.String("agent_email", user.Email))
	}
	result.OffersRejected = rejected

	deleted, err := s.db.DeletePropertiesByAgent(ctx, user.Email)
	if err != nil {
		return result, Internal("Failed to delete agent properties", err, zap.String("agent_email", user.Email))
	}
	result.PropertiesDeleted = deleted

	late, err := s.db.RejectLiveOffersForProperties(ctx, propertyIds)
	if err != nil {
		return result, Internal("Failed to reject offers on deleted properties", err, zap.String("agent_email", user.Email))
	}
	result.OffersRejected += late

	zap.L().Warn("Fraud cascade complete",
		zap.String("agent_email", user.Email),
		zap.Bool("flag_updated", result.FlagUpdated),
		zap.Int64("properties_deleted", result.PropertiesDeleted),
		zap.Int64("offers_rejected", result.OffersRejected))
	return result, nil
}

// RemoveReportedProperty rejects the live offers on a reported listing, then
// deletes the listing with its reviews and reports. Each count is reported separately so
// a partial run is visible; re-running is safe.
func (s *MarketService) RemoveReportedProperty(ctx context.Context, propertyId string) (*models.ReportedPropertyCascadeResult, error) {
	if err := s.RequireAdmin(ctx); err != nil {
		return nil, err
	}
	if err := parseId("property", propertyId); err != nil {
		return nil, err
	}
	result := &models.ReportedPropertyCascadeResult{PropertyId: propertyId}
	log := zap.L().With(zap.String("property_id", propertyId))

	log.Warn("Reported property cascade: deleting listing, reviews and reports")

	var err error
	if result.OffersRejected, err = s.db.RejectLiveOffersForProperties(ctx, []string{propertyId}); err != nil {
		return result, Internal("Failed to reject offers", err, zap.String("property_id", propertyId))
	}
	if result.PropertyDeleted, err = s.db.DeleteProperty(ctx, propertyId); err != nil {
		return result, Internal("Failed to delete reported property", err, zap.String("property_id", propertyId))
	}
	if result.ReviewsDeleted, err = s.db.DeleteReviewsByProperty(ctx, propertyId); err != nil {
		return result, Internal("Failed to delete reviews", err, zap.String("property_id", propertyId))
	}
	if result.ReportsDeleted, err = s.db.DeleteReportsByProperty(ctx, propertyId); err != nil {
		return result, Internal("Failed to delete reports", err, zap.String("property_id", propertyId))
	}
	late, err := s.db.RejectLiveOffersForProperties(ctx, []string{propertyId})
	if err != nil {
		return result, Internal("Failed to reject offers", err, zap.String("property_id", propertyId))
	}
	result.OffersRejected += late

	log.Warn("Reported property cascade complete",
		zap.Int64("property_deleted", result.PropertyDeleted),
		zap.Int64("reviews_deleted", result.ReviewsDeleted),
		zap.Int64("reports_deleted", result.ReportsDeleted),
		zap.Int64("offers_rejected", result.OffersRejected))
	return result, nil
}
