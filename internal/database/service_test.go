package database

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/niraihan/real-estate-server/internal/models"

	"github.com/shopspring/decimal"
)

func setupTestDb(t *testing.T) (*Service, func()) {
	t.Helper()
	service, err := NewService(context.Background(), models.DatabaseConfig{
		Path:            filepath.Join(t.TempDir(), "market.db"),
		MaxOpenConns:    4,
		MaxIdleConns:    2,
		ConnMaxLifetime: time.Minute,
		ConnMaxIdleTime: time.Minute,
		PingTimeout:     5 * time.Second,
		BusyTimeout:     5 * time.Second,
	})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	return service, service.Close
}

func seedProperty(t *testing.T, service *Service, agentEmail string, status models.PropertyStatus) *models.Property {
	t.Helper()
	property := &models.Property{
		Title:      "Lake House",
		Location:   "Dhaka",
		PriceMin:   decimal.NewFromInt(250000),
		PriceMax:   decimal.NewFromInt(350000),
		AgentEmail: agentEmail,
		Status:     status,
	}
	if err := service.CreateProperty(context.Background(), property); err != nil {
		t.Fatalf("Failed to seed property: %v", err)
	}
	return property
}

func seedOffer(t *testing.T, service *Service, property *models.Property, buyerEmail string, amount int64) *models.Offer {
	t.Helper()
	offer := &models.Offer{
		PropertyId:       property.Id,
		PropertyTitle:    property.Title,
		PropertyLocation: property.Location,
		BuyerEmail:       buyerEmail,
		AgentEmail:       property.AgentEmail,
		Amount:           decimal.NewFromInt(amount),
	}
	if err := service.InsertOffer(context.Background(), offer); err != nil {
		t.Fatalf("Failed to seed offer: %v", err)
	}
	return offer
}

func TestNewService_InvalidConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  models.DatabaseConfig
	}{
		{"empty path", models.DatabaseConfig{MaxOpenConns: 1, PingTimeout: time.Second}},
		{"zero open conns", models.DatabaseConfig{Path: "x.db", PingTimeout: time.Second}},
		{"negative idle conns", models.DatabaseConfig{Path: "x.db", MaxOpenConns: 1, MaxIdleConns: -1, PingTimeout: time.Second}},
		{"zero ping timeout", models.DatabaseConfig{Path: "x.db", MaxOpenConns: 1}},
	}
	for _, tt := range tests {
		if _, err := NewService(context.Background(), tt.cfg); err == nil {
			t.Errorf("%s: expected configuration error, got nil", tt.name)
		}
	}
}

func TestInitSchema_Idempotent(t *testing.T) {
	service, cleanup := setupTestDb(t)
	defer cleanup()

	if err := service.initSchema(context.Background()); err != nil {
		t.Fatalf("Re-running schema initialization failed: %v", err)
	}
	if err := service.Ping(context.Background()); err != nil {
		t.Fatalf("Ping failed: %v", err)
	}
}
