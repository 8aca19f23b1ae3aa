package mongostore

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/niraihan/real-estate-server/internal/models"
	"github.com/niraihan/real-estate-server/internal/store"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

// setupTestStore connects to the server named by MONGODB_URI and uses a
// throwaway database. Tests are skipped when no server is configured.
func setupTestStore(t *testing.T) (*Service, func()) {
	t.Helper()
	uri := os.Getenv("MONGODB_URI")
	if uri == "" {
		t.Skip("MONGODB_URI not set")
	}

	service, err := NewService(context.Background(), models.MongoConfig{
		URI:         uri,
		Database:    "market_test_" + uuid.NewString()[:8],
		PingTimeout: 10 * time.Second,
	})
	require.NoError(t, err)

	return service, func() {
		_ = service.db.Drop(context.Background())
		service.Close()
	}
}

func TestNewService_InvalidConfig(t *testing.T) {
	_, err := NewService(context.Background(), models.MongoConfig{Database: "x", PingTimeout: time.Second})
	assert.Error(t, err)
	_, err = NewService(context.Background(), models.MongoConfig{URI: "mongodb://localhost", PingTimeout: time.Second})
	assert.Error(t, err)
	_, err = NewService(context.Background(), models.MongoConfig{URI: "mongodb://localhost", Database: "x"})
	assert.Error(t, err)
}

func TestPropertyQuery(t *testing.T) {
	advertised := true
	query := propertyQuery(store.PropertyFilter{
		Statuses:   []models.PropertyStatus{models.PropertyVerified},
		AgentEmail: "agent@example.com",
		Advertised: &advertised,
	})
	assert.Equal(t, bson.M{"$in": []models.PropertyStatus{models.PropertyVerified}}, query["status"])
	assert.Equal(t, "agent@example.com", query["agentEmail"])
	assert.Equal(t, true, query["advertised"])

	assert.Empty(t, propertyQuery(store.PropertyFilter{}))
}

func TestStatusUpdate_TracksLiveFlag(t *testing.T) {
	set := statusUpdate(models.OfferRejected, nil)["$set"].(bson.M)
	assert.Equal(t, false, set["live"])

	set = statusUpdate(models.OfferAccepted, bson.M{"transactionId": "TX1"})["$set"].(bson.M)
	assert.Equal(t, true, set["live"])
	assert.Equal(t, "TX1", set["transactionId"])
}

func TestOffers_LiveIndexAndSettlement(t *testing.T) {
	service, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	property := &models.Property{Title: "Lake House", AgentEmail: "agent@example.com", Status: models.PropertyVerified}
	require.NoError(t, service.CreateProperty(ctx, property))

	newOffer := func(buyer string) *models.Offer {
		return &models.Offer{
			PropertyId: property.Id,
			BuyerEmail: buyer,
			AgentEmail: property.AgentEmail,
			Amount:     decimal.NewFromInt(300000),
		}
	}

	winner := newOffer("a@example.com")
	require.NoError(t, service.InsertOffer(ctx, winner))
	err := service.InsertOffer(ctx, newOffer("a@example.com"))
	assert.True(t, errors.Is(err, store.ErrDuplicateOffer), "got %v", err)

	rival := newOffer("b@example.com")
	require.NoError(t, service.InsertOffer(ctx, rival))

	res, err := service.AcceptOfferForSettlement(ctx, winner.Id, "TX1")
	require.NoError(t, err)
	assert.True(t, res.Modified)

	require.NoError(t, service.InsertSaleRecord(ctx, &models.SaleRecord{
		OfferId:       winner.Id,
		PropertyId:    property.Id,
		SoldPrice:     winner.Amount,
		BuyerEmail:    winner.BuyerEmail,
		AgentEmail:    winner.AgentEmail,
		TransactionId: "TX1",
	}))
	err = service.InsertSaleRecord(ctx, &models.SaleRecord{
		OfferId: rival.Id, PropertyId: property.Id, TransactionId: "TX2",
	})
	assert.True(t, errors.Is(err, store.ErrDuplicateSale), "got %v", err)

	rejected, err := service.RejectCompetingOffers(ctx, property.Id, rival.Id)
	require.NoError(t, err)
	assert.Equal(t, int64(0), rejected)

	stored, err := service.GetOffer(ctx, winner.Id)
	require.NoError(t, err)
	assert.Equal(t, models.OfferAccepted, stored.Status)
	assert.Equal(t, "TX1", stored.TransactionId)
	assert.True(t, stored.Amount.Equal(decimal.NewFromInt(300000)))

	rejected, err = service.RejectCompetingOffers(ctx, property.Id, winner.Id)
	require.NoError(t, err)
	assert.Equal(t, int64(1), rejected)

	live, err := service.HasLiveOffer(ctx, property.Id, "b@example.com")
	require.NoError(t, err)
	assert.False(t, live)
	require.NoError(t, service.InsertOffer(ctx, newOffer("b@example.com")))
}

func TestUsers_FraudFlag(t *testing.T) {
	service, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	user := &models.User{Email: "agent@example.com", Role: models.RoleAgent}
	require.NoError(t, service.CreateUser(ctx, user))
	err := service.CreateUser(ctx, &models.User{Email: "agent@example.com"})
	assert.True(t, errors.Is(err, store.ErrDuplicateUser), "got %v", err)

	res, err := service.SetUserFraud(ctx, user.Id)
	require.NoError(t, err)
	assert.Equal(t, models.UpdateResult{Matched: true, Modified: true}, res)

	res, err = service.SetUserFraud(ctx, user.Id)
	require.NoError(t, err)
	assert.Equal(t, models.UpdateResult{Matched: true, Modified: false}, res)

	_, err = service.GetUserById(ctx, "missing")
	assert.True(t, errors.Is(err, store.ErrNotFound))
}
