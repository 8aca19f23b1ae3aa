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

const (
	tableUsers      = "users"
	tableProperties = "properties"
	tableOffers     = "offers"

	// User queries
	queryInsertUser = `
		INSERT INTO users (id, name, email, role, fraud, created_at, updated_at)
		VALUES (:id, :name, :email, :role, :fraud, :created_at, :updated_at)`

	queryGetUsers = `
		SELECT id, name, email, role, fraud, created_at, updated_at
		FROM users
		ORDER BY created_at`

	queryGetUserById = `
		SELECT id, name, email, role, fraud, created_at, updated_at
		FROM users
		WHERE id = ?`

	queryGetUserByEmail = `
		SELECT id, name, email, role, fraud, created_at, updated_at
		FROM users
		WHERE email = ?`

	queryUpdateUserRole = `
		UPDATE users SET role = ?, updated_at = ?
		WHERE id = ? AND role != ?`

	queryFlagUserFraud = `
		UPDATE users SET fraud = 1, updated_at = ?
		WHERE id = ? AND fraud = 0`

	// Property queries
	queryInsertProperty = `
		INSERT INTO properties (
			id, title, location, image, price_min, price_max, agent_email, agent_name,
			status, advertised, created_at, updated_at
		) VALUES (
			:id, :title, :location, :image, :price_min, :price_max, :agent_email, :agent_name,
			:status, :advertised, :created_at, :updated_at
		)`

	queryPropertyColumns = `
		SELECT id, title, location, image, price_min, price_max, agent_email, agent_name,
		       status, advertised, created_at, updated_at
		FROM properties`

	queryUpdatePropertyDetails = `
		UPDATE properties
		SET title = ?, location = ?, image = ?, price_min = ?, price_max = ?, updated_at = ?
		WHERE id = ?`

	queryTransitionPropertyStatus = `
		UPDATE properties SET status = ?, updated_at = ?
		WHERE id = ? AND status IN (?)`

	querySetPropertyAdvertised = `
		UPDATE properties SET advertised = ?, updated_at = ?
		WHERE id = ? AND advertised != ?`

	queryDeleteProperty = `
		DELETE FROM properties WHERE id = ?`

	queryGetPropertyIdsByAgent = `
		SELECT id FROM properties WHERE agent_email = ?`

	queryDeletePropertiesByAgent = `
		DELETE FROM properties WHERE agent_email = ?`

	// Offer queries
	queryInsertOffer = `
		INSERT INTO offers (
			id, property_id, property_title, property_location, buyer_email, buyer_name,
			agent_email, amount, status, transaction_id, created_at, updated_at
		) VALUES (
			:id, :property_id, :property_title, :property_location, :buyer_email, :buyer_name,
			:agent_email, :amount, :status, :transaction_id, :created_at, :updated_at
		)`

	queryOfferColumns = `
		SELECT id, property_id, property_title, property_location, buyer_email, buyer_name,
		       agent_email, amount, status, transaction_id, created_at, updated_at
		FROM offers`

	queryCountLiveOffers = `
		SELECT COUNT(1) FROM offers
		WHERE property_id = ? AND buyer_email = ? AND status IN ('pending', 'accepted')`

	queryTransitionOfferStatus = `
		UPDATE offers SET status = ?, updated_at = ?
		WHERE id = ? AND status = ?`

	queryAcceptOfferForSettlement = `
		UPDATE offers SET status = 'accepted', transaction_id = ?, updated_at = ?
		WHERE id = ? AND (status = 'pending' OR (status = 'accepted' AND transaction_id = ''))`

	queryForceOfferSettled = `
		UPDATE offers SET status = 'accepted', transaction_id = ?, updated_at = ?
		WHERE id = ? AND NOT (status = 'accepted' AND transaction_id = ?)`

	queryRejectCompetingOffers = `
		UPDATE offers SET status = 'rejected', updated_at = ?
		WHERE property_id = ? AND id != ? AND status IN ('pending', 'accepted')
		  AND id NOT IN (SELECT offer_id FROM sale_records WHERE property_id = ?)`

	queryRejectLiveOffersForProperties = `
		UPDATE offers SET status = 'rejected', updated_at = ?
		WHERE status IN ('pending', 'accepted') AND transaction_id = '' AND property_id IN (?)`

	// Sale record queries
	queryInsertSaleRecord = `
		INSERT INTO sale_records (
			id, offer_id, property_id, property_title, property_location, sold_price,
			buyer_email, buyer_name, agent_email, transaction_id, sold_at
		) VALUES (
			:id, :offer_id, :property_id, :property_title, :property_location, :sold_price,
			:buyer_email, :buyer_name, :agent_email, :transaction_id, :sold_at
		)`

	querySaleRecordColumns = `
		SELECT id, offer_id, property_id, property_title, property_location, sold_price,
		       buyer_email, buyer_name, agent_email, transaction_id, sold_at
		FROM sale_records`

	// Review and report queries
	queryInsertReview = `
		INSERT INTO reviews (id, property_id, reviewer_email, reviewer_name, rating, comment, created_at)
		VALUES (:id, :property_id, :reviewer_email, :reviewer_name, :rating, :comment, :created_at)`

	queryGetReviewsByProperty = `
		SELECT id, property_id, reviewer_email, reviewer_name, rating, comment, created_at
		FROM reviews
		WHERE property_id = ?
		ORDER BY created_at DESC`

	queryDeleteReviewsByProperty = `
		DELETE FROM reviews WHERE property_id = ?`

	queryInsertReport = `
		INSERT INTO reports (id, property_id, reporter_email, reason, created_at)
		VALUES (:id, :property_id, :reporter_email, :reason, :created_at)`

	queryGetReports = `
		SELECT id, property_id, reporter_email, reason, created_at
		FROM reports
		ORDER BY created_at DESC`

	queryDeleteReportsByProperty = `
		DELETE FROM reports WHERE property_id = ?`
)
