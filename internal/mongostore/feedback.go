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

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

func (s *Service) InsertReview(ctx context.Context, review *models.Review) error {
	if review.Id == "" {
		review.Id = uuid.New().String()
	}
	review.CreatedAt = now()
	if _, err := s.db.Collection(collReviews).InsertOne(ctx, review); err != nil {
		return fmt.Errorf("unable to insert review: %w", err)
	}
	return nil
}

func (s *Service) ListReviewsByProperty(ctx context.Context, propertyId string) ([]models.Review, error) {
	return findAll[models.Review](ctx, s.db.Collection(collReviews), bson.M{"propertyId": propertyId}, newestFirst("createdAt"))
}

func (s *Service) DeleteReviewsByProperty(ctx context.Context, propertyId string) (int64, error) {
	return deleteByProperty(ctx, s.db.Collection(collReviews), propertyId)
}

func (s *Service) InsertReport(ctx context.Context, report *models.Report) error {
	if report.Id == "" {
		report.Id = uuid.New().String()
	}
	report.CreatedAt = now()
	if _, err := s.db.Collection(collReports).InsertOne(ctx, report); err != nil {
		return fmt.Errorf("unable to insert report: %w", err)
	}
	return nil
}

func (s *Service) ListReports(ctx context.Context) ([]models.Report, error) {
	return findAll[models.Report](ctx, s.db.Collection(collReports), bson.M{}, newestFirst("createdAt"))
}

func (s *Service) DeleteReportsByProperty(ctx context.Context, propertyId string) (int64, error) {
	return deleteByProperty(ctx, s.db.Collection(collReports), propertyId)
}

func deleteByProperty(ctx context.Context, coll *mongo.Collection, propertyId string) (int64, error) {
	res, err := coll.DeleteMany(ctx, bson.M{"propertyId": propertyId})
	if err != nil {
		return 0, fmt.Errorf("unable to delete %s: %w", coll.Name(), err)
	}
	return res.DeletedCount, nil
}
