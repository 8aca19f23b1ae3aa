package database

import (
	"context"
	"errors"
	"testing"

	"github.com/niraihan/real-estate-server/internal/models"
	"github.com/niraihan/real-estate-server/internal/store"

	"github.com/shopspring/decimal"
)

func TestInsertOffer_LiveUniqueness(t *testing.T) {
	service, cleanup := setupTestDb(t)
	defer cleanup()
	ctx := context.Background()

	property := seedProperty(t, service, "agent@example.com", models.PropertyVerified)
	first := seedOffer(t, service, property, "buyer@example.com", 300000)

	duplicate := &models.Offer{
		PropertyId: property.Id,
		BuyerEmail: "buyer@example.com",
		AgentEmail: property.AgentEmail,
		Amount:     decimal.NewFromInt(310000),
	}
	if err := service.InsertOffer(ctx, duplicate); !errors.Is(err, store.ErrDuplicateOffer) {
		t.Fatalf("Expected ErrDuplicateOffer, got %v", err)
	}

	// A different buyer is independent
	seedOffer(t, service, property, "other@example.com", 305000)

	// Once the first offer is rejected the buyer may bid again
	if _, err := service.TransitionOfferStatus(ctx, first.Id, models.OfferPending, models.OfferRejected); err != nil {
		t.Fatalf("TransitionOfferStatus failed: %v", err)
	}
	retry := &models.Offer{
		PropertyId: property.Id,
		BuyerEmail: "buyer@example.com",
		AgentEmail: property.AgentEmail,
		Amount:     decimal.NewFromInt(320000),
	}
	if err := service.InsertOffer(ctx, retry); err != nil {
		t.Fatalf("Expected new offer after rejection, got %v", err)
	}

	live, err := service.HasLiveOffer(ctx, property.Id, "buyer@example.com")
	if err != nil {
		t.Fatalf("HasLiveOffer failed: %v", err)
	}
	if !live {
		t.Error("Expected buyer to have a live offer")
	}
}

func TestGetOffer_RoundTripsAmount(t *testing.T) {
	service, cleanup := setupTestDb(t)
	defer cleanup()

	property := seedProperty(t, service, "agent@example.com", models.PropertyVerified)
	offer := &models.Offer{
		PropertyId: property.Id,
		BuyerEmail: "buyer@example.com",
		AgentEmail: property.AgentEmail,
		Amount:     decimal.RequireFromString("299999.99"),
	}
	if err := service.InsertOffer(context.Background(), offer); err != nil {
		t.Fatalf("InsertOffer failed: %v", err)
	}

	stored, err := service.GetOffer(context.Background(), offer.Id)
	if err != nil {
		t.Fatalf("GetOffer failed: %v", err)
	}
	if !stored.Amount.Equal(offer.Amount) {
		t.Errorf("Expected amount %s, got %s", offer.Amount, stored.Amount)
	}
	if stored.Status != models.OfferPending {
		t.Errorf("Expected pending status, got %s", stored.Status)
	}

	if _, err := service.GetOffer(context.Background(), "missing"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestTransitionOfferStatus_TerminalIsNoop(t *testing.T) {
	service, cleanup := setupTestDb(t)
	defer cleanup()
	ctx := context.Background()

	property := seedProperty(t, service, "agent@example.com", models.PropertyVerified)
	offer := seedOffer(t, service, property, "buyer@example.com", 300000)

	result, err := service.TransitionOfferStatus(ctx, offer.Id, models.OfferPending, models.OfferAccepted)
	if err != nil {
		t.Fatalf("Accept failed: %v", err)
	}
	if !result.Modified {
		t.Error("Expected pending -> accepted to modify")
	}

	result, err = service.TransitionOfferStatus(ctx, offer.Id, models.OfferPending, models.OfferRejected)
	if err != nil {
		t.Fatalf("Reject failed: %v", err)
	}
	if !result.Matched || result.Modified {
		t.Errorf("Expected matched no-op on accepted offer, got %+v", result)
	}
}

func TestAcceptOfferForSettlement(t *testing.T) {
	service, cleanup := setupTestDb(t)
	defer cleanup()
	ctx := context.Background()

	property := seedProperty(t, service, "agent@example.com", models.PropertyVerified)
	offer := seedOffer(t, service, property, "buyer@example.com", 300000)

	result, err := service.AcceptOfferForSettlement(ctx, offer.Id, "TX1")
	if err != nil {
		t.Fatalf("AcceptOfferForSettlement failed: %v", err)
	}
	if !result.Modified {
		t.Error("Expected first settlement accept to modify")
	}

	// Once a transaction id is attached the offer cannot be re-accepted
	result, err = service.AcceptOfferForSettlement(ctx, offer.Id, "TX2")
	if err != nil {
		t.Fatalf("Second AcceptOfferForSettlement failed: %v", err)
	}
	if result.Modified {
		t.Error("Expected accepted offer with transaction id to stay untouched")
	}

	stored, err := service.GetOffer(ctx, offer.Id)
	if err != nil {
		t.Fatalf("GetOffer failed: %v", err)
	}
	if stored.Status != models.OfferAccepted || stored.TransactionId != "TX1" {
		t.Errorf("Expected accepted/TX1, got %s/%s", stored.Status, stored.TransactionId)
	}
}

func TestRejectCompetingOffers_SparesSaleOwner(t *testing.T) {
	service, cleanup := setupTestDb(t)
	defer cleanup()
	ctx := context.Background()

	property := seedProperty(t, service, "agent@example.com", models.PropertyVerified)
	winner := seedOffer(t, service, property, "a@example.com", 300000)
	rival := seedOffer(t, service, property, "b@example.com", 290000)
	third := seedOffer(t, service, property, "c@example.com", 280000)

	if _, err := service.AcceptOfferForSettlement(ctx, winner.Id, "TX1"); err != nil {
		t.Fatalf("AcceptOfferForSettlement failed: %v", err)
	}
	if err := service.InsertSaleRecord(ctx, &models.SaleRecord{
		OfferId:       winner.Id,
		PropertyId:    property.Id,
		SoldPrice:     winner.Amount,
		BuyerEmail:    winner.BuyerEmail,
		AgentEmail:    winner.AgentEmail,
		TransactionId: "TX1",
	}); err != nil {
		t.Fatalf("InsertSaleRecord failed: %v", err)
	}

	// A rival engine keeping its own offer must not reject the sale owner
	rejected, err := service.RejectCompetingOffers(ctx, property.Id, rival.Id)
	if err != nil {
		t.Fatalf("RejectCompetingOffers failed: %v", err)
	}
	if rejected != 1 {
		t.Errorf("Expected 1 rejected offer, got %d", rejected)
	}

	for id, want := range map[string]models.OfferStatus{
		winner.Id: models.OfferAccepted,
		rival.Id:  models.OfferPending,
		third.Id:  models.OfferRejected,
	} {
		offer, err := service.GetOffer(ctx, id)
		if err != nil {
			t.Fatalf("GetOffer failed: %v", err)
		}
		if offer.Status != want {
			t.Errorf("Offer %s: expected %s, got %s", id, want, offer.Status)
		}
	}
}

func TestRejectLiveOffersForProperties(t *testing.T) {
	service, cleanup := setupTestDb(t)
	defer cleanup()
	ctx := context.Background()

	first := seedProperty(t, service, "agent@example.com", models.PropertyVerified)
	second := seedProperty(t, service, "agent@example.com", models.PropertyPending)
	untouched := seedProperty(t, service, "other@example.com", models.PropertyVerified)
	seedOffer(t, service, first, "a@example.com", 1)
	seedOffer(t, service, second, "a@example.com", 1)
	kept := seedOffer(t, service, untouched, "a@example.com", 1)

	count, err := service.RejectLiveOffersForProperties(ctx, []string{first.Id, second.Id})
	if err != nil {
		t.Fatalf("RejectLiveOffersForProperties failed: %v", err)
	}
	if count != 2 {
		t.Errorf("Expected 2 rejected offers, got %d", count)
	}

	none, err := service.RejectLiveOffersForProperties(ctx, nil)
	if err != nil || none != 0 {
		t.Errorf("Expected empty input to be a no-op, got %d, %v", none, err)
	}

	offer, err := service.GetOffer(ctx, kept.Id)
	if err != nil {
		t.Fatalf("GetOffer failed: %v", err)
	}
	if offer.Status != models.OfferPending {
		t.Errorf("Expected unrelated offer to stay pending, got %s", offer.Status)
	}
}
