package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/niraihan/real-estate-server/internal/api"
	"github.com/niraihan/real-estate-server/internal/auth"
	"github.com/niraihan/real-estate-server/internal/database"
	"github.com/niraihan/real-estate-server/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testServer struct {
	router *gin.Engine
	tokens *auth.Tokens
	svc    *api.MarketService
	users  map[string]*models.User
}

func setupServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.NewService(context.Background(), models.DatabaseConfig{
		Path:         filepath.Join(t.TempDir(), "market.db"),
		MaxOpenConns: 4,
		MaxIdleConns: 2,
		PingTimeout:  5 * time.Second,
		BusyTimeout:  5 * time.Second,
	})
	require.NoError(t, err)
	t.Cleanup(db.Close)

	tokens, err := auth.NewTokens(models.AuthConfig{
		Secret:   "handler-test-secret-0123456789",
		Issuer:   "real-estate-server",
		TokenTTL: time.Hour,
	})
	require.NoError(t, err)

	svc := api.NewMarketService(db)
	s := &testServer{
		router: NewRouter(New(svc, tokens, true), models.ServerConfig{}),
		tokens: tokens,
		svc:    svc,
		users:  map[string]*models.User{},
	}
	for email, role := range map[string]models.Role{
		"admin@x.com": models.RoleAdmin,
		"agent@x.com": models.RoleAgent,
		"a@x.com":     models.RoleBuyer,
		"b@x.com":     models.RoleBuyer,
	} {
		user, _, err := svc.ProvisionUser(context.Background(), &models.User{Email: email, Role: role})
		require.NoError(t, err)
		s.users[email] = user
	}
	return s
}

// do sends a JSON request, authenticated as email unless email is empty.
func (s *testServer) do(t *testing.T, method, path, email string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if email != "" {
		token, _, err := s.tokens.Issue(email)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) (string, string) {
	t.Helper()
	env := decode[errorEnvelope](t, rec)
	assert.NotEmpty(t, env.RequestId)
	return env.Error.Code, env.Error.Reason
}

func (s *testServer) verifiedListing(t *testing.T) models.Property {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/properties", "agent@x.com", map[string]interface{}{
		"title": "Lake House", "location": "Dhaka", "priceMin": "250000", "priceMax": "350000",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	property := decode[models.Property](t, rec)

	rec = s.do(t, http.MethodPatch, "/admin/properties/verify/"+property.Id, "admin@x.com", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	return property
}

func TestAgentOffers_IdentityGate(t *testing.T) {
	s := setupServer(t)

	rec := s.do(t, http.MethodGet, "/offers/agent/a@x.com", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	code, _ := errorCode(t, rec)
	assert.Equal(t, "unauthenticated", code)

	rec = s.do(t, http.MethodGet, "/offers/agent/a@x.com", "b@x.com", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	code, _ = errorCode(t, rec)
	assert.Equal(t, "forbidden", code)

	rec = s.do(t, http.MethodGet, "/offers/agent/a@x.com", "a@x.com", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestInvalidCredentialsLookAlike(t *testing.T) {
	s := setupServer(t)

	var bodies []string
	for _, header := range []string{"", "Bearer", "Bearer garbage", "Basic YTpi"} {
		req := httptest.NewRequest(http.MethodGet, "/offers/a@x.com", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rec := httptest.NewRecorder()
		s.router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		env := decode[errorEnvelope](t, rec)
		bodies = append(bodies, env.Error.Code+"|"+env.Error.Message)
	}
	for _, body := range bodies[1:] {
		assert.Equal(t, bodies[0], body)
	}
}

func TestOfferAndSettlementFlow(t *testing.T) {
	s := setupServer(t)
	property := s.verifiedListing(t)

	rec := s.do(t, http.MethodPost, "/offers", "a@x.com", map[string]interface{}{
		"propertyId": property.Id, "buyerEmail": "a@x.com", "amount": 300000,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	offerA := decode[models.Offer](t, rec)
	assert.Equal(t, models.OfferPending, offerA.Status)

	rec = s.do(t, http.MethodPost, "/offers", "b@x.com", map[string]interface{}{
		"propertyId": property.Id, "buyerEmail": "b@x.com", "offeredAmount": "290000",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	offerB := decode[models.Offer](t, rec)

	rec = s.do(t, http.MethodPost, "/offers", "b@x.com", map[string]interface{}{
		"propertyId": property.Id, "buyerEmail": "b@x.com", "amount": 1,
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
	_, reason := errorCode(t, rec)
	assert.Equal(t, api.ReasonDuplicateOffer, reason)

	for i := 0; i < 2; i++ {
		rec = s.do(t, http.MethodPatch, "/offers/"+offerA.Id+"/pay", "agent@x.com", map[string]string{
			"transactionId": "TX1", "status": "paid",
		})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		result := decode[models.SettlementResult](t, rec)
		assert.Equal(t, i == 0, result.SaleRecordInserted)
	}

	rec = s.do(t, http.MethodGet, "/offers/single/"+offerB.Id, "b@x.com", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.OfferRejected, decode[models.Offer](t, rec).Status)

	rec = s.do(t, http.MethodGet, "/sold-properties/buyer/a@x.com", "a@x.com", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]models.SaleRecord](t, rec), 1)

	rec = s.do(t, http.MethodPost, "/offers", "b@x.com", map[string]interface{}{
		"propertyId": property.Id, "buyerEmail": "b@x.com", "amount": 400000,
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
	_, reason = errorCode(t, rec)
	assert.Equal(t, api.ReasonAlreadySold, reason)
}

func TestSubmitOffer_StatusCodes(t *testing.T) {
	s := setupServer(t)

	rec := s.do(t, http.MethodPost, "/offers", "a@x.com", map[string]interface{}{
		"propertyId": "not-an-id", "buyerEmail": "a@x.com", "amount": 1,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodPost, "/offers", "a@x.com", map[string]interface{}{
		"propertyId": "3d5e7f90-1a2b-4c3d-8e4f-5a6b7c8d9e0f", "buyerEmail": "a@x.com", "amount": 1,
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, http.MethodPost, "/offers", "a@x.com", "not json")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestOfferStatusEndpoints(t *testing.T) {
	s := setupServer(t)
	property := s.verifiedListing(t)
	offer, err := s.svc.SubmitOffer(models.WithIdentity(context.Background(), models.Identity{Email: "a@x.com"}),
		api.OfferInput{PropertyId: property.Id, BuyerEmail: "a@x.com", Amount: property.PriceMin})
	require.NoError(t, err)

	rec := s.do(t, http.MethodPut, "/offers/accept/"+offer.Id, "a@x.com", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = s.do(t, http.MethodPatch, "/offers/status/"+offer.Id, "agent@x.com", map[string]string{"status": "rejected"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.UpdateResult{Matched: true, Modified: true}, decode[models.UpdateResult](t, rec))

	rec = s.do(t, http.MethodPut, "/offers/accept/"+offer.Id, "agent@x.com", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, decode[models.UpdateResult](t, rec).Modified)

	rec = s.do(t, http.MethodPatch, "/offers/"+offer.Id+"/pay", "a@x.com", map[string]string{"transactionId": "TX9"})
	assert.Equal(t, http.StatusConflict, rec.Code)
	_, reason := errorCode(t, rec)
	assert.Equal(t, api.ReasonOfferRejected, reason)

	rec = s.do(t, http.MethodPatch, "/offers/"+offer.Id+"/pay", "a@x.com", map[string]string{"transactionId": "TX9", "status": "failed"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestModerationEndpoints(t *testing.T) {
	s := setupServer(t)
	property := s.verifiedListing(t)

	rec := s.do(t, http.MethodPost, "/report-property", "b@x.com", map[string]string{
		"propertyId": property.Id, "reason": "fake listing",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = s.do(t, http.MethodDelete, "/admin/reported-property/"+property.Id, "b@x.com", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = s.do(t, http.MethodDelete, "/admin/reported-property/"+property.Id, "admin@x.com", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	cascade := decode[map[string]interface{}](t, rec)
	assert.Equal(t, float64(1), cascade["propertyDeleted"])
	assert.Equal(t, float64(1), cascade["reportsDeleted"])

	s.verifiedListing(t)
	rec = s.do(t, http.MethodPatch, "/users/fraud/"+s.users["agent@x.com"].Id, "admin@x.com", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(1), decode[models.FraudCascadeResult](t, rec).PropertiesDeleted)

	rec = s.do(t, http.MethodGet, "/properties/agent/agent@x.com", "agent@x.com", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[[]models.Property](t, rec))

	rec = s.do(t, http.MethodPost, "/properties", "agent@x.com", map[string]interface{}{
		"title": "Another", "priceMin": "1", "priceMax": "2",
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)
	_, reason := errorCode(t, rec)
	assert.Equal(t, api.ReasonFraudulentAgent, reason)
}

func TestUsersAndTokens(t *testing.T) {
	s := setupServer(t)

	rec := s.do(t, http.MethodPost, "/jwt", "", map[string]string{"email": "new@x.com"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, decode[map[string]interface{}](t, rec)["token"])

	rec = s.do(t, http.MethodPost, "/users", "", map[string]string{"email": "new@x.com", "name": "New"})
	assert.Equal(t, http.StatusCreated, rec.Code)
	rec = s.do(t, http.MethodPost, "/users", "", map[string]string{"email": "new@x.com"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "User already exists", decode[map[string]interface{}](t, rec)["message"])

	rec = s.do(t, http.MethodGet, "/users/role/new@x.com", "new@x.com", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "buyer", decode[map[string]interface{}](t, rec)["role"])

	rec = s.do(t, http.MethodGet, "/users", "new@x.com", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = s.do(t, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestPublicListings(t *testing.T) {
	s := setupServer(t)
	verified := s.verifiedListing(t)

	rec := s.do(t, http.MethodPost, "/properties", "agent@x.com", map[string]interface{}{
		"title": "Draft", "priceMin": "1", "priceMax": "2",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	draft := decode[models.Property](t, rec)

	rec = s.do(t, http.MethodGet, "/properties", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	listed := decode[[]models.Property](t, rec)
	require.Len(t, listed, 1)
	assert.Equal(t, verified.Id, listed[0].Id)

	rec = s.do(t, http.MethodGet, "/properties/"+draft.Id, "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = s.do(t, http.MethodGet, "/properties/"+draft.Id, "agent@x.com", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodPatch, "/properties/advertise/"+verified.Id, "agent@x.com", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = s.do(t, http.MethodGet, "/advertised", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]models.Property](t, rec), 1)
}
