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
	"fmt"

	"github.com/niraihan/real-estate-server/internal/models"

	"github.com/google/uuid"
)

func (s *Service) InsertReview(ctx context.Context, review *models.Review) error {
	if review.Id == "" {
		review.Id = uuid.New().String()
	}
	review.CreatedAt = now()
	if _, err := s.db.NamedExecContext(ctx, queryInsertReview, review); err != nil {
		return fmt.Errorf("unable to insert review: %w", err)
	}
	return nil
}

func (s *Service) ListReviewsByProperty(ctx context.Context, propertyId string) ([]models.Review, error) {
	reviews := []models.Review{}
	if err := s.db.SelectContext(ctx, &reviews, queryGetReviewsByProperty, propertyId); err != nil {
		return nil, fmt.Errorf("unable to query reviews: %w", err)
	}
	return reviews, nil
}

func (s *Service) DeleteReviewsByProperty(ctx context.Context, propertyId string) (int64, error) {
	result, err := s.db.ExecContext(ctx, queryDeleteReviewsByProperty, propertyId)
	if err != nil {
		return 0, fmt.Errorf("unable to delete reviews: %w", err)
	}
	return result.RowsAffected()
}

func (s *Service) InsertReport(ctx context.Context, report *models.Report) error {
	if report.Id == "" {
		report.Id = uuid.New().String()
	}
	report.CreatedAt = now()
	if _, err := s.db.NamedExecContext(ctx, queryInsertReport, report); err != nil {
		return fmt.Errorf("unable to insert report: %w", err)
	}
	return nil
}

func (s *Service) ListReports(ctx context.Context) ([]models.Report, error) {
	reports := []models.Report{}
	if err := s.db.SelectContext(ctx, &reports, queryGetReports); err != nil {
		return nil, fmt.Errorf("unable to query reports: %w", err)
	}
	return reports, nil
}

func (s *Service) DeleteReportsByProperty(ctx context.Context, propertyId string) (int64, error) {
	result, err := s.db.ExecContext(ctx, queryDeleteReportsByProperty, propertyId)
	if err != nil {
		return 0, fmt.Errorf("unable to delete reports: %w", err)
	}
	return result.RowsAffected()
}
