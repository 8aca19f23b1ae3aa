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

package store

import (
	"context"
	"time"

	"github.com/niraihan/real-estate-server/internal/models"
)

// timeoutStore bounds every round-trip of the wrapped store.
type timeoutStore struct {
	inner   MarketStore
	timeout time.Duration
}

// WithTimeout returns a MarketStore whose calls each run under their own
// deadline. A non-positive timeout returns inner unchanged.
func WithTimeout(inner MarketStore, timeout time.Duration) MarketStore {
	if timeout <= 0 {
		return inner
	}
	return &timeoutStore{inner: inner, timeout: timeout}
}

func (t *timeoutStore) ctx(parent context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, t.timeout)
}

func (t *timeoutStore) Ping(ctx context.Context) error {
	ctx, cancel := t.ctx(ctx)
	defer cancel()
	return t.inner.Ping(ctx)
}

func (t *timeoutStore) CreateUser(ctx context.Context, user *models.User) error {
	ctx, cancel := t.ctx(ctx)
	defer cancel()
	return t.inner.CreateUser(ctx, user)
}

func (t *timeoutStore) GetUserById(ctx context.Context, userId string) (*models.User, error) {
	ctx, cancel := t.ctx(ctx)
	defer cancel()
	return t.inner.GetUserById(ctx, userId)
}

func (t *timeoutStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	ctx, cancel := t.ctx(ctx)
	defer cancel()
	return t.inner.GetUserByEmail(ctx, email)
}

func (t *timeoutStore) GetUsers(ctx context.Context) ([]models.User, error) {
	ctx, cancel := t.ctx(ctx)
	defer cancel()
	return t.inner.GetUsers(ctx)
}

func (t *timeoutStore) SetUserRole(ctx context.Context, userId string, role models.Role) (models.UpdateResult, error) {
	ctx, cancel := t.ctx(ctx)
	defer cancel()
	return t.inner.SetUserRole(ctx, userId, role)
}

func (t *timeoutStore) SetUserFraud(ctx context.Context, userId string) (models.UpdateResult, error) {
	ctx, cancel := t.ctx(ctx)
	defer cancel()
	return t.inner.SetUserFraud(ctx, userId)
}

func (t *timeoutStore) CreateProperty(ctx context.Context, property *models.Property) error {
	ctx, cancel := t.ctx(ctx)
	defer cancel()
	return t.inner.CreateProperty(ctx, property)
}

func (t *timeoutStore) GetProperty(ctx context.Context, propertyId string) (*models.Property, error) {
	ctx, cancel := t.ctx(ctx)
	defer cancel()
	return t.inner.GetProperty(ctx, propertyId)
}

func (t *timeoutStore) ListProperties(ctx context.Context, filter PropertyFilter) ([]models.Property, error) {
	ctx, cancel := t.ctx(ctx)
	defer cancel()
	return t.inner.ListProperties(ctx, filter)
}

func (t *timeoutStore) UpdatePropertyDetails(ctx context.Context, propertyId string, details PropertyDetails) (models.UpdateResult, error) {
	ctx, cancel := t.ctx(ctx)
	defer cancel()
	return t.inner.UpdatePropertyDetails(ctx, propertyId, details)
}

func (t *timeoutStore) TransitionPropertyStatus(ctx context.Context, propertyId string, from []models.PropertyStatus, to models.PropertyStatus) (models.UpdateResult, error) {
	ctx, cancel := t.ctx(ctx)
	defer cancel()
	return t.inner.TransitionPropertyStatus(ctx, propertyId, from, to)
}

func (t *timeoutStore) SetPropertyAdvertised(ctx context.Context, propertyId string, advertised bool) (models.UpdateResult, error) {
	ctx, cancel := t.ctx(ctx)
	defer cancel()
	return t.inner.SetPropertyAdvertised(ctx, propertyId, advertised)
}

func (t *timeoutStore) DeleteProperty(ctx context.Context, propertyId string) (int64, error) {
	ctx, cancel := t.ctx(ctx)
	defer cancel()
	return t.inner.DeleteProperty(ctx, propertyId)
}

func (t *timeoutStore) ListPropertyIdsByAgent(ctx context.Context, agentEmail string) ([]string, error) {
	ctx, cancel := t.ctx(ctx)
	defer cancel()
	return t.inner.ListPropertyIdsByAgent(ctx, agentEmail)
}

func (t *timeoutStore) DeletePropertiesByAgent(ctx context.Context, agentEmail string) (int64, error) {
	ctx, cancel := t.ctx(ctx)
	defer cancel()
	return t.inner.DeletePropertiesByAgent(ctx, agentEmail)
}

func (t *timeoutStore) InsertOffer(ctx context.Context, offer *models.Offer) error {
	ctx, cancel := t.ctx(ctx)
	defer cancel()
	return t.inner.InsertOffer(ctx, offer)
}

func (t *timeoutStore) GetOffer(ctx context.Context, offerId string) (*models.Offer, error) {
	ctx, cancel := t.ctx(ctx)
	defer cancel()
	return t.inner.GetOffer(ctx, offerId)
}

func (t *timeoutStore) HasLiveOffer(ctx context.Context, propertyId, buyerEmail string) (bool, error) {
	ctx, cancel := t.ctx(ctx)
	defer cancel()
	return t.inner.HasLiveOffer(ctx, propertyId, buyerEmail)
}

func (t *timeoutStore) ListOffers(ctx context.Context, filter OfferFilter) ([]models.Offer, error) {
	ctx, cancel := t.ctx(ctx)
	defer cancel()
	return t.inner.ListOffers(ctx, filter)
}

func (t *timeoutStore) TransitionOfferStatus(ctx context.Context, offerId string, from, to models.OfferStatus) (models.UpdateResult, error) {
	ctx, cancel := t.ctx(ctx)
	defer cancel()
	return t.inner.TransitionOfferStatus(ctx, offerId, from, to)
}

func (t *timeoutStore) AcceptOfferForSettlement(ctx context.Context, offerId, transactionId string) (models.UpdateResult, error) {
	ctx, cancel := t.ctx(ctx)
	defer cancel()
	return t.inner.AcceptOfferForSettlement(ctx, offerId, transactionId)
}

func (t *timeoutStore) ForceOfferSettled(ctx context.Context, offerId, transactionId string) (models.UpdateResult, error) {
	ctx, cancel := t.ctx(ctx)
	defer cancel()
	return t.inner.ForceOfferSettled(ctx, offerId, transactionId)
}

func (t *timeoutStore) RejectCompetingOffers(ctx context.Context, propertyId, keepOfferId string) (int64, error) {
	ctx, cancel := t.ctx(ctx)
	defer cancel()
	return t.inner.RejectCompetingOffers(ctx, propertyId, keepOfferId)
}

func (t *timeoutStore) RejectLiveOffersForProperties(ctx context.Context, propertyIds []string) (int64, error) {
	ctx, cancel := t.ctx(ctx)
	defer cancel()
	return t.inner.RejectLiveOffersForProperties(ctx, propertyIds)
}

func (t *timeoutStore) InsertSaleRecord(ctx context.Context, record *models.SaleRecord) error {
	ctx, cancel := t.ctx(ctx)
	defer cancel()
	return t.inner.InsertSaleRecord(ctx, record)
}

func (t *timeoutStore) GetSaleRecordByOffer(ctx context.Context, offerId string) (*models.SaleRecord, error) {
	ctx, cancel := t.ctx(ctx)
	defer cancel()
	return t.inner.GetSaleRecordByOffer(ctx, offerId)
}

func (t *timeoutStore) GetSaleRecordByProperty(ctx context.Context, propertyId string) (*models.SaleRecord, error) {
	ctx, cancel := t.ctx(ctx)
	defer cancel()
	return t.inner.GetSaleRecordByProperty(ctx, propertyId)
}

func (t *timeoutStore) ListSaleRecords(ctx context.Context, filter SaleFilter) ([]models.SaleRecord, error) {
	ctx, cancel := t.ctx(ctx)
	defer cancel()
	return t.inner.ListSaleRecords(ctx, filter)
}

func (t *timeoutStore) InsertReview(ctx context.Context, review *models.Review) error {
	ctx, cancel := t.ctx(ctx)
	defer cancel()
	return t.inner.InsertReview(ctx, review)
}

func (t *timeoutStore) ListReviewsByProperty(ctx context.Context, propertyId string) ([]models.Review, error) {
	ctx, cancel := t.ctx(ctx)
	defer cancel()
	return t.inner.ListReviewsByProperty(ctx, propertyId)
}

func (t *timeoutStore) DeleteReviewsByProperty(ctx context.Context, propertyId string) (int64, error) {
	ctx, cancel := t.ctx(ctx)
	defer cancel()
	return t.inner.DeleteReviewsByProperty(ctx, propertyId)
}

func (t *timeoutStore) InsertReport(ctx context.Context, report *models.Report) error {
	ctx, cancel := t.ctx(ctx)
	defer cancel()
	return t.inner.InsertReport(ctx, report)
}

func (t *timeoutStore) ListReports(ctx context.Context) ([]models.Report, error) {
	ctx, cancel := t.ctx(ctx)
	defer cancel()
	return t.inner.ListReports(ctx)
}

func (t *timeoutStore) DeleteReportsByProperty(ctx context.Context, propertyId string) (int64, error) {
	ctx, cancel := t.ctx(ctx)
	defer cancel()
	return t.inner.DeleteReportsByProperty(ctx, propertyId)
}

func (t *timeoutStore) Close() {
	t.inner.Close()
}
