package api

import (
	"context"
	"testing"

	"github.com/niraihan/real-estate-server/internal/models"
	"github.com/niraihan/real-estate-server/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func TestSettle_AcceptsWinnerAndRejectsRivals(t *testing.T) {
	f := setupService(t)
	property := f.verifiedProperty(t)

	offerA := f.offer(t, property, buyerA, 300000)
	offerB := f.offer(t, property, buyerB, 290000)
	assert.Equal(t, models.OfferPending, offerA.Status)
	assert.Equal(t, models.OfferPending, offerB.Status)

	result, err := f.svc.Settle(as(agentEmail), offerA.Id, "TX1")
	require.NoError(t, err)
	assert.True(t, result.OfferUpdated)
	assert.Equal(t, int64(1), result.CompetingRejected)
	assert.True(t, result.SaleRecordInserted)
	assert.True(t, result.PropertyMarkedSold)
	require.NotNil(t, result.SaleRecord)
	assert.Equal(t, property.Id, result.SaleRecord.PropertyId)
	assert.Equal(t, offerA.Id, result.SaleRecord.OfferId)
	assert.True(t, result.SaleRecord.SoldPrice.Equal(offerA.Amount))

	a := f.offerStatus(t, offerA.Id)
	assert.Equal(t, models.OfferAccepted, a.Status)
	assert.Equal(t, "TX1", a.TransactionId)
	assert.Equal(t, models.OfferRejected, f.offerStatus(t, offerB.Id).Status)

	stored, err := f.db.GetProperty(context.Background(), property.Id)
	require.NoError(t, err)
	assert.Equal(t, models.PropertySold, stored.Status)

	// Replay converges on the same state
	replay, err := f.svc.Settle(as(agentEmail), offerA.Id, "TX1")
	require.NoError(t, err)
	assert.False(t, replay.OfferUpdated)
	assert.False(t, replay.SaleRecordInserted)
	assert.False(t, replay.PropertyMarkedSold)
	assert.Zero(t, replay.CompetingRejected)
	require.NotNil(t, replay.SaleRecord)
	assert.Equal(t, result.SaleRecord.Id, replay.SaleRecord.Id)

	records, err := f.db.ListSaleRecords(context.Background(), store.SaleFilter{})
	require.NoError(t, err)
	assert.Len(t, records, 1)

	// A sold property takes no more offers
	_, err = f.svc.SubmitOffer(as(buyerB), OfferInput{PropertyId: property.Id, BuyerEmail: buyerB, Amount: offerB.Amount})
	requireKind(t, err, KindConflict, ReasonAlreadySold)
}

func TestSettle_Conflicts(t *testing.T) {
	f := setupService(t)
	property := f.verifiedProperty(t)
	offerA := f.offer(t, property, buyerA, 300000)
	offerB := f.offer(t, property, buyerB, 290000)

	_, err := f.svc.Settle(as(buyerA), offerA.Id, "TX1")
	require.NoError(t, err)

	_, err = f.svc.Settle(as(buyerA), offerA.Id, "TX2")
	requireKind(t, err, KindConflict, ReasonDuplicateSettlement)

	_, err = f.svc.Settle(as(buyerB), offerB.Id, "TX3")
	requireKind(t, err, KindConflict, ReasonAlreadySold)
	assert.Equal(t, models.OfferRejected, f.offerStatus(t, offerB.Id).Status)

	// Transaction ids are single use across sales
	other := f.verifiedProperty(t)
	offerC := f.offer(t, other, buyerB, 100)
	_, err = f.svc.Settle(as(buyerB), offerC.Id, "TX1")
	requireKind(t, err, KindConflict, ReasonDuplicateSettlement)
}

func TestSettle_RejectedOfferCannotSettle(t *testing.T) {
	f := setupService(t)
	property := f.verifiedProperty(t)
	offer := f.offer(t, property, buyerA, 300000)

	_, err := f.svc.RejectOffer(as(agentEmail), offer.Id)
	require.NoError(t, err)

	_, err = f.svc.Settle(as(buyerA), offer.Id, "TX1")
	requireKind(t, err, KindConflict, ReasonOfferRejected)
}

func TestSettle_DeletedListingCannotSell(t *testing.T) {
	f := setupService(t)
	property := f.verifiedProperty(t)
	offer := f.offer(t, property, buyerA, 300000)

	// An offer left live on a removed listing, as after an interrupted cascade
	deleted, err := f.db.DeleteProperty(context.Background(), property.Id)
	require.NoError(t, err)
	require.Equal(t, int64(1), deleted)

	_, err = f.svc.Settle(as(buyerA), offer.Id, "TX1")
	requireKind(t, err, KindNotFound, "")

	assert.Equal(t, models.OfferPending, f.offerStatus(t, offer.Id).Status)
	_, err = f.db.GetSaleRecordByProperty(context.Background(), property.Id)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestSettle_Validation(t *testing.T) {
	f := setupService(t)
	property := f.verifiedProperty(t)
	offer := f.offer(t, property, buyerA, 300000)

	_, err := f.svc.Settle(as(buyerA), offer.Id, "  ")
	requireKind(t, err, KindInvalidInput, "")

	_, err = f.svc.Settle(as(buyerA), "not-a-uuid", "TX1")
	requireKind(t, err, KindInvalidInput, "")

	_, err = f.svc.Settle(as(buyerA), "5f1c7f0e-8d4b-4d8e-9a43-0c5e1f9b2a11", "TX1")
	requireKind(t, err, KindNotFound, "")

	_, err = f.svc.Settle(context.Background(), offer.Id, "TX1")
	requireKind(t, err, KindUnauthenticated, "")

	_, err = f.svc.Settle(as(buyerB), offer.Id, "TX1")
	requireKind(t, err, KindForbidden, "")
}

func TestSettle_ConcurrentSameOffer(t *testing.T) {
	f := setupService(t)
	property := f.verifiedProperty(t)
	winner := f.offer(t, property, buyerA, 300000)
	rival := f.offer(t, property, buyerB, 290000)

	var g errgroup.Group
	for i := 0; i < 8; i++ {
		g.Go(func() error {
			_, err := f.svc.Settle(as(agentEmail), winner.Id, "TX1")
			return err
		})
	}
	require.NoError(t, g.Wait())

	records, err := f.db.ListSaleRecords(context.Background(), store.SaleFilter{})
	require.NoError(t, err)
	assert.Len(t, records, 1)
	assert.Equal(t, models.OfferAccepted, f.offerStatus(t, winner.Id).Status)
	assert.Equal(t, models.OfferRejected, f.offerStatus(t, rival.Id).Status)
}

func TestSettle_ConcurrentRivalOffersConverge(t *testing.T) {
	f := setupService(t)
	property := f.verifiedProperty(t)

	buyers := []string{buyerA, buyerB}
	for _, email := range []string{"c@example.com", "d@example.com"} {
		_, _, err := f.svc.RegisterUser(context.Background(), email, "")
		require.NoError(t, err)
		buyers = append(buyers, email)
	}

	offers := make([]*models.Offer, len(buyers))
	for i, buyer := range buyers {
		offers[i] = f.offer(t, property, buyer, int64(300000+i))
	}

	var g errgroup.Group
	for i, offer := range offers {
		offer := offer
		txId := "TX" + string(rune('A'+i))
		g.Go(func() error {
			_, err := f.svc.Settle(as(agentEmail), offer.Id, txId)
			if err != nil && KindOf(err) != KindConflict {
				return err
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	records, err := f.db.ListSaleRecords(context.Background(), store.SaleFilter{})
	require.NoError(t, err)
	require.Len(t, records, 1)

	accepted := 0
	for _, offer := range offers {
		current := f.offerStatus(t, offer.Id)
		if current.Id == records[0].OfferId {
			assert.Equal(t, models.OfferAccepted, current.Status)
			assert.Equal(t, records[0].TransactionId, current.TransactionId)
		} else {
			assert.Equal(t, models.OfferRejected, current.Status, "offer %s", offer.Id)
		}
		if current.Status == models.OfferAccepted {
			accepted++
		}
	}
	assert.Equal(t, 1, accepted)
}
