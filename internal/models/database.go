package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Role of a marketplace user.
type Role string

const (
	RoleBuyer Role = "buyer"
	RoleAgent Role = "agent"
	RoleAdmin Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleBuyer, RoleAgent, RoleAdmin:
		return true
	}
	return false
}

// PropertyStatus is the publication state of a listing.
type PropertyStatus string

const (
	PropertyPending  PropertyStatus = "pending"
	PropertyVerified PropertyStatus = "verified"
	PropertyRejected PropertyStatus = "rejected"
	PropertySold     PropertyStatus = "sold"
)

// Searchable reports whether listings in this status are publicly visible.
func (s PropertyStatus) Searchable() bool {
	return s == PropertyVerified || s == PropertySold
}

// OfferStatus is the lifecycle state of an offer.
type OfferStatus string

const (
	OfferPending  OfferStatus = "pending"
	OfferAccepted OfferStatus = "accepted"
	OfferRejected OfferStatus = "rejected"
)

// Live offers block a second submission from the same buyer on the same listing.
func (s OfferStatus) Live() bool {
	return s == OfferPending || s == OfferAccepted
}

// User represents a marketplace account, keyed by email
type User struct {
	Id        string    `db:"id" json:"id" bson:"_id"`
	Name      string    `db:"name" json:"name" bson:"name"`
	Email     string    `db:"email" json:"email" bson:"email"`
	Role      Role      `db:"role" json:"role" bson:"role"`
	Fraud     bool      `db:"fraud" json:"fraud" bson:"fraud"`
	CreatedAt time.Time `db:"created_at" json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt" bson:"updatedAt"`
}

// Property is a listing owned by an agent until it is sold
type Property struct {
	Id         string          `db:"id" json:"id" bson:"_id"`
	Title      string          `db:"title" json:"title" bson:"title"`
	Location   string          `db:"location" json:"location" bson:"location"`
	Image      string          `db:"image" json:"image" bson:"image"`
	PriceMin   decimal.Decimal `db:"price_min" json:"priceMin" bson:"priceMin"`
	PriceMax   decimal.Decimal `db:"price_max" json:"priceMax" bson:"priceMax"`
	AgentEmail string          `db:"agent_email" json:"agentEmail" bson:"agentEmail"`
	AgentName  string          `db:"agent_name" json:"agentName" bson:"agentName"`
	Status     PropertyStatus  `db:"status" json:"status" bson:"status"`
	Advertised bool            `db:"advertised" json:"advertised" bson:"advertised"`
	CreatedAt  time.Time       `db:"created_at" json:"createdAt" bson:"createdAt"`
	UpdatedAt  time.Time       `db:"updated_at" json:"updatedAt" bson:"updatedAt"`
}

// Offer is a buyer's bid on a listing. Offers are never deleted.
type Offer struct {
	Id               string          `db:"id" json:"id" bson:"_id"`
	PropertyId       string          `db:"property_id" json:"propertyId" bson:"propertyId"`
	PropertyTitle    string          `db:"property_title" json:"propertyTitle" bson:"propertyTitle"`
	PropertyLocation string          `db:"property_location" json:"propertyLocation" bson:"propertyLocation"`
	BuyerEmail       string          `db:"buyer_email" json:"buyerEmail" bson:"buyerEmail"`
	BuyerName        string          `db:"buyer_name" json:"buyerName" bson:"buyerName"`
	AgentEmail       string          `db:"agent_email" json:"agentEmail" bson:"agentEmail"`
	Amount           decimal.Decimal `db:"amount" json:"offeredAmount" bson:"amount"`
	Status           OfferStatus     `db:"status" json:"status" bson:"status"`
	TransactionId    string          `db:"transaction_id" json:"transactionId,omitempty" bson:"transactionId"`
	CreatedAt        time.Time       `db:"created_at" json:"createdAt" bson:"createdAt"`
	UpdatedAt        time.Time       `db:"updated_at" json:"updatedAt" bson:"updatedAt"`
}

// SaleRecord is the immutable outcome of a settlement
type SaleRecord struct {
	Id               string          `db:"id" json:"id" bson:"_id"`
	OfferId          string          `db:"offer_id" json:"offerId" bson:"offerId"`
	PropertyId       string          `db:"property_id" json:"propertyId" bson:"propertyId"`
	PropertyTitle    string          `db:"property_title" json:"propertyTitle" bson:"propertyTitle"`
	PropertyLocation string          `db:"property_location" json:"propertyLocation" bson:"propertyLocation"`
	SoldPrice        decimal.Decimal `db:"sold_price" json:"soldPrice" bson:"soldPrice"`
	BuyerEmail       string          `db:"buyer_email" json:"buyerEmail" bson:"buyerEmail"`
	BuyerName        string          `db:"buyer_name" json:"buyerName" bson:"buyerName"`
	AgentEmail       string          `db:"agent_email" json:"agentEmail" bson:"agentEmail"`
	TransactionId    string          `db:"transaction_id" json:"transactionId" bson:"transactionId"`
	SoldAt           time.Time       `db:"sold_at" json:"soldAt" bson:"soldAt"`
}

// Review of a listing
type Review struct {
	Id            string    `db:"id" json:"id" bson:"_id"`
	PropertyId    string    `db:"property_id" json:"propertyId" bson:"propertyId"`
	ReviewerEmail string    `db:"reviewer_email" json:"reviewerEmail" bson:"reviewerEmail"`
	ReviewerName  string    `db:"reviewer_name" json:"reviewerName" bson:"reviewerName"`
	Rating        int       `db:"rating" json:"rating" bson:"rating"`
	Comment       string    `db:"comment" json:"comment" bson:"comment"`
	CreatedAt     time.Time `db:"created_at" json:"createdAt" bson:"createdAt"`
}

// Report flags a listing for admin attention
type Report struct {
	Id            string    `db:"id" json:"id" bson:"_id"`
	PropertyId    string    `db:"property_id" json:"propertyId" bson:"propertyId"`
	ReporterEmail string    `db:"reporter_email" json:"reporterEmail" bson:"reporterEmail"`
	Reason        string    `db:"reason" json:"reason" bson:"reason"`
	CreatedAt     time.Time `db:"created_at" json:"createdAt" bson:"createdAt"`
}
