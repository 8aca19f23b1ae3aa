package api

import (
	"testing"

	"github.com/niraihan/real-estate-server/internal/models"
	"github.com/niraihan/real-estate-server/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddReview(t *testing.T) {
	f := setupService(t)
	property := f.verifiedProperty(t)

	_, err := f.svc.AddReview(as(buyerB), &models.Review{PropertyId: property.Id, ReviewerEmail: buyerA, Rating: 5})
	requireKind(t, err, KindForbidden, "")

	_, err = f.svc.AddReview(as(buyerA), &models.Review{PropertyId: property.Id, ReviewerEmail: buyerA, Rating: 6})
	requireKind(t, err, KindInvalidInput, "")

	_, err = f.svc.AddReview(as(buyerA), &models.Review{PropertyId: "not-a-uuid", ReviewerEmail: buyerA, Rating: 3})
	requireKind(t, err, KindInvalidInput, "")

	review, err := f.svc.AddReview(as(buyerA), &models.Review{PropertyId: property.Id, ReviewerEmail: "A@Example.com", Rating: 4, Comment: "bright"})
	require.NoError(t, err)
	assert.NotEmpty(t, review.Id)
	assert.Equal(t, buyerA, review.ReviewerEmail)

	reviews, err := f.svc.ListReviews(as(buyerB), property.Id)
	require.NoError(t, err)
	require.Len(t, reviews, 1)
	assert.Equal(t, "bright", reviews[0].Comment)
}

func TestReportProperty(t *testing.T) {
	f := setupService(t)
	property := f.verifiedProperty(t)

	_, err := f.svc.ReportProperty(as(buyerA), property.Id, "  ")
	requireKind(t, err, KindInvalidInput, "")

	report, err := f.svc.ReportProperty(as(buyerA), property.Id, "duplicate listing")
	require.NoError(t, err)
	assert.Equal(t, buyerA, report.ReporterEmail)

	_, err = f.svc.ListReports(as(buyerA))
	requireKind(t, err, KindForbidden, "")

	reports, err := f.svc.ListReports(as(adminEmail))
	require.NoError(t, err)
	require.Len(t, reports, 1)
	assert.Equal(t, property.Id, reports[0].PropertyId)
}

func TestListSales_AdminFilter(t *testing.T) {
	f := setupService(t)
	first := f.verifiedProperty(t)
	second := f.verifiedProperty(t)

	_, err := f.svc.Settle(as(agentEmail), f.offer(t, first, buyerA, 100).Id, "TX-A")
	require.NoError(t, err)
	_, err = f.svc.Settle(as(agentEmail), f.offer(t, second, buyerB, 200).Id, "TX-B")
	require.NoError(t, err)

	_, err = f.svc.ListSales(as(agentEmail), store.SaleFilter{})
	requireKind(t, err, KindForbidden, "")

	all, err := f.svc.ListSales(as(adminEmail), store.SaleFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	onlyB, err := f.svc.ListSales(as(adminEmail), store.SaleFilter{BuyerEmail: "B@example.com"})
	require.NoError(t, err)
	require.Len(t, onlyB, 1)
	assert.Equal(t, "TX-B", onlyB[0].TransactionId)
}
