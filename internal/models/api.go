package models

// SettlementResult reports each effect of a settlement so a partially
// applied run is visible to the caller and can be re-driven.
type SettlementResult struct {
	OfferId            string      `json:"offerId"`
	PropertyId         string      `json:"propertyId"`
	TransactionId      string      `json:"transactionId"`
	OfferUpdated       bool        `json:"updated"`
	CompetingRejected  int64       `json:"competingRejected"`
	SaleRecordInserted bool        `json:"inserted"`
	PropertyMarkedSold bool        `json:"propertyMarkedSold"`
	SaleRecord         *SaleRecord `json:"saleRecord,omitempty"`
}

// FraudCascadeResult reports the per-step outcome of a fraud marking.
type FraudCascadeResult struct {
	UserId            string `json:"userId"`
	AgentEmail        string `json:"agentEmail"`
	FlagUpdated       bool   `json:"flagUpdated"`
	PropertiesDeleted int64  `json:"propertiesDeleted"`
	OffersRejected    int64  `json:"offersRejected"`
}

// ReportedPropertyCascadeResult reports per-collection deletion counts.
type ReportedPropertyCascadeResult struct {
	PropertyId      string `json:"propertyId"`
	PropertyDeleted int64  `json:"propertyDeleted"`
	ReviewsDeleted  int64  `json:"reviewsDeleted"`
	ReportsDeleted  int64  `json:"reportsDeleted"`
	OffersRejected  int64  `json:"offersRejected"`
}

// UpdateResult mirrors a single-document update outcome. Modified is false
// when the target was already in the requested state.
type UpdateResult struct {
	Matched  bool `json:"matched"`
	Modified bool `json:"modified"`
}
