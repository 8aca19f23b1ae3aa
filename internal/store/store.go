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
	"errors"

	"github.com/niraihan/real-estate-server/internal/models"

	"github.com/shopspring/decimal"
)

// Sentinel errors shared across all backend implementations.
var (
	ErrNotFound       = errors.New("not found")
	ErrDuplicateUser  = errors.New("user with this email already exists")
	ErrDuplicateOffer = errors.New("live offer already exists for property and buyer")
	ErrDuplicateSale  = errors.New("sale record already exists")
)

// PropertyFilter selects listings. Zero values match everything.
type PropertyFilter struct {
	Statuses   []models.PropertyStatus
	AgentEmail string
	Advertised *bool
}

// PropertyDetails are the owner-editable fields of a listing.
type PropertyDetails struct {
	Title    string
	Location string
	Image    string
	PriceMin decimal.Decimal
	PriceMax decimal.Decimal
}

// OfferFilter selects offers. Zero values match everything.
type OfferFilter struct {
	PropertyId string
	BuyerEmail string
	AgentEmail string
}

// SaleFilter selects sale records. Zero values match everything.
type SaleFilter struct {
	AgentEmail string
	BuyerEmail string
}

// MarketStore defines the contract that every backend (SQLite, MongoDB, ...) must satisfy.
//
// No method may assume a multi-document transaction. Every conditional write
// is a single atomic statement/update and every uniqueness invariant is
// enforced by an index, so the service layer can re-drive any sequence.
type MarketStore interface {
	Ping(ctx context.Context) error

	// --- Users ---
	CreateUser(ctx context.Context, user *models.User) error
	GetUserById(ctx context.Context, userId string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUsers(ctx context.Context) ([]models.User, error)
	SetUserRole(ctx context.Context, userId string, role models.Role) (models.UpdateResult, error)
	SetUserFraud(ctx context.Context, userId string) (models.UpdateResult, error)

	// --- Properties ---
	CreateProperty(ctx context.Context, property *models.Property) error
	GetProperty(ctx context.Context, propertyId string) (*models.Property, error)
	ListProperties(ctx context.Context, filter PropertyFilter) ([]models.Property, error)
	UpdatePropertyDetails(ctx context.Context, propertyId string, details PropertyDetails) (models.UpdateResult, error)
	// TransitionPropertyStatus moves a listing to `to` only if its current
	// status is one of `from`.
	TransitionPropertyStatus(ctx context.Context, propertyId string, from []models.PropertyStatus, to models.PropertyStatus) (models.UpdateResult, error)
	SetPropertyAdvertised(ctx context.Context, propertyId string, advertised bool) (models.UpdateResult, error)
	DeleteProperty(ctx context.Context, propertyId string) (int64, error)
	ListPropertyIdsByAgent(ctx context.Context, agentEmail string) ([]string, error)
	DeletePropertiesByAgent(ctx context.Context, agentEmail string) (int64, error)

	// --- Offers ---
	InsertOffer(ctx context.Context, offer *models.Offer) error
	GetOffer(ctx context.Context, offerId string) (*models.Offer, error)
	HasLiveOffer(ctx context.Context, propertyId, buyerEmail string) (bool, error)
	ListOffers(ctx context.Context, filter OfferFilter) ([]models.Offer, error)
	// TransitionOfferStatus moves an offer from `from` to `to`; a no-op when
	// the offer is in any other state.
	TransitionOfferStatus(ctx context.Context, offerId string, from, to models.OfferStatus) (models.UpdateResult, error)
	// AcceptOfferForSettlement accepts a pending offer, or an accepted offer
	// without a transaction id, attaching transactionId.
	AcceptOfferForSettlement(ctx context.Context, offerId, transactionId string) (models.UpdateResult, error)
	// ForceOfferSettled unconditionally sets accepted + transactionId. Only
	// the owner of a sale record may be forced.
	ForceOfferSettled(ctx context.Context, offerId, transactionId string) (models.UpdateResult, error)
	// RejectCompetingOffers rejects every live offer on the property except
	// keepOfferId and the offer owning the property's sale record.
	RejectCompetingOffers(ctx context.Context, propertyId, keepOfferId string) (int64, error)
	// RejectLiveOffersForProperties rejects live offers that carry no
	// settlement transaction id. Settled offers stay accepted.
	RejectLiveOffersForProperties(ctx context.Context, propertyIds []string) (int64, error)

	// --- Sale records ---
	InsertSaleRecord(ctx context.Context, record *models.SaleRecord) error
	GetSaleRecordByOffer(ctx context.Context, offerId string) (*models.SaleRecord, error)
	GetSaleRecordByProperty(ctx context.Context, propertyId string) (*models.SaleRecord, error)
	ListSaleRecords(ctx context.Context, filter SaleFilter) ([]models.SaleRecord, error)

	// --- Reviews & reports ---
	InsertReview(ctx context.Context, review *models.Review) error
	ListReviewsByProperty(ctx context.Context, propertyId string) ([]models.Review, error)
	DeleteReviewsByProperty(ctx context.Context, propertyId string) (int64, error)
	InsertReport(ctx context.Context, report *models.Report) error
	ListReports(ctx context.Context) ([]models.Report, error)
	DeleteReportsByProperty(ctx context.Context, propertyId string) (int64, error)

	// --- Lifecycle ---
	Close()
}
