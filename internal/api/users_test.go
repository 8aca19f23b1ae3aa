package api

import (
	"context"
	"testing"

	"github.com/niraihan/real-estate-server/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterUser(t *testing.T) {
	f := setupService(t)

	user, created, err := f.svc.RegisterUser(context.Background(), " New@Example.com ", "New")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "new@example.com", user.Email)
	assert.Equal(t, models.RoleBuyer, user.Role)

	again, created, err := f.svc.RegisterUser(context.Background(), "new@example.com", "Other")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, user.Id, again.Id)

	_, _, err = f.svc.RegisterUser(context.Background(), "not-an-email", "")
	requireKind(t, err, KindInvalidInput, "")
}

func TestGetUserRole(t *testing.T) {
	f := setupService(t)

	role, err := f.svc.GetUserRole(as(agentEmail), agentEmail)
	require.NoError(t, err)
	require.NotNil(t, role)
	assert.Equal(t, models.RoleAgent, *role)

	_, err = f.svc.GetUserRole(as(buyerA), agentEmail)
	requireKind(t, err, KindForbidden, "")

	role, err = f.svc.GetUserRole(as("ghost@example.com"), "ghost@example.com")
	require.NoError(t, err)
	assert.Nil(t, role)
}

func TestListUsersAndSetRole(t *testing.T) {
	f := setupService(t)

	_, err := f.svc.ListUsers(as(buyerA))
	requireKind(t, err, KindForbidden, "")

	users, err := f.svc.ListUsers(as(adminEmail))
	require.NoError(t, err)
	assert.Len(t, users, 4)

	_, err = f.svc.SetUserRole(as(adminEmail), f.users[buyerA].Id, models.Role("owner"))
	requireKind(t, err, KindInvalidInput, "")

	result, err := f.svc.SetUserRole(as(adminEmail), f.users[buyerA].Id, models.RoleAgent)
	require.NoError(t, err)
	assert.True(t, result.Modified)
}

func TestSales_IdentityMatched(t *testing.T) {
	f := setupService(t)
	property := f.verifiedProperty(t)
	offer := f.offer(t, property, buyerA, 100000)
	_, err := f.svc.Settle(as(agentEmail), offer.Id, "TX1")
	require.NoError(t, err)

	sales, err := f.svc.ListBuyerSales(as(buyerA), buyerA)
	require.NoError(t, err)
	assert.Len(t, sales, 1)

	_, err = f.svc.ListAgentSales(as(buyerA), agentEmail)
	requireKind(t, err, KindForbidden, "")

	sales, err = f.svc.ListAgentSales(as(agentEmail), agentEmail)
	require.NoError(t, err)
	assert.Len(t, sales, 1)
}
