/*
client_test.go - Round-trip tests for the HTTP collaborator client

The client is tested against the real api router over the in-memory
store, so every assertion crosses the actual wire format. The last test
runs the transaction controller end to end through the client.
*/
package client_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joint/account-engine/account"
	"github.com/joint/account-engine/account/store"
	"github.com/joint/account-engine/api"
	"github.com/joint/account-engine/client"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestClient(t *testing.T) (*client.Client, *store.Memory) {
	mem := store.NewMemory()
	mem.Now = func() string { return "2025-01-15" }
	srv := httptest.NewServer(api.NewRouter(api.NewHandler(mem)))
	t.Cleanup(srv.Close)
	return client.New(srv.URL, srv.Client()), mem
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// =============================================================================
// BALANCE ROUND TRIPS
// =============================================================================

func TestClient_BalanceRoundTrip(t *testing.T) {
	c, _ := newTestClient(t)
	ctx := context.Background()

	balance, err := c.CurrentBalance(ctx)
	require.NoError(t, err)
	assert.True(t, balance.IsZero())

	balance, err = c.ApplyOffset(ctx, dec("100.00"), "opening")
	require.NoError(t, err)
	assert.True(t, balance.Equal(dec("100.00")))

	balance, err = c.ApplyOffset(ctx, dec("-25.00"), "groceries")
	require.NoError(t, err)
	assert.True(t, balance.Equal(dec("75.00")))

	entries, err := c.History(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.True(t, entries[0].Delta.Equal(dec("-25.00")))
	assert.True(t, entries[0].Amount.Equal(dec("75.00")))
	assert.Equal(t, "groceries", entries[0].Comment)
	assert.Equal(t, "2025-01-15", entries[0].Date)
}

func TestClient_HistoryLimitRejectedLocally(t *testing.T) {
	c, _ := newTestClient(t)

	_, err := c.History(context.Background(), 0)
	assert.ErrorIs(t, err, account.ErrInvalidLimit)
}

// =============================================================================
// RECORD ROUND TRIPS
// =============================================================================

func TestClient_RecordsRoundTrip(t *testing.T) {
	c, mem := newTestClient(t)
	ctx := context.Background()

	r1, err := mem.CreateRecord(ctx, "alice", "2025-01-05", account.AmountOf(dec("30")))
	require.NoError(t, err)
	r2, err := mem.CreateRecord(ctx, "bob", "2025-01-06", account.NoAmount())
	require.NoError(t, err)

	records, err := c.ListRecords(ctx)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, r1.ID, records[0].ID)
	assert.True(t, records[0].Amount.Known)
	assert.True(t, records[0].Amount.Value.Equal(dec("30")))
	assert.False(t, records[1].Amount.Known, "null amount must decode as unknown")

	require.NoError(t, c.SetAmount(ctx, r2.ID, dec("0")))
	require.NoError(t, c.MarkPaid(ctx, r1.ID))

	records, err = c.ListRecords(ctx)
	require.NoError(t, err)
	assert.True(t, records[0].Paid)
	require.True(t, records[1].Amount.Known, "zero must survive the wire as a known amount")
	assert.True(t, records[1].Amount.Value.IsZero())
}

func TestClient_StatusErrors(t *testing.T) {
	c, _ := newTestClient(t)
	ctx := context.Background()

	err := c.MarkPaid(ctx, 99)
	require.Error(t, err)

	var statusErr *client.StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusNotFound, statusErr.Status)
	assert.Equal(t, http.MethodPut, statusErr.Method)
}

func TestClient_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close() // connection refused from here on

	c := client.New(url, nil)
	_, err := c.CurrentBalance(context.Background())
	require.Error(t, err)

	var statusErr *client.StatusError
	assert.False(t, errors.As(err, &statusErr), "transport failure is not a status error")
}

// =============================================================================
// END-TO-END: CONTROLLER OVER THE WIRE
// =============================================================================

func TestController_OverHTTP(t *testing.T) {
	c, mem := newTestClient(t)
	ctx := context.Background()

	_, err := mem.ApplyOffset(ctx, dec("100.00"), "opening")
	require.NoError(t, err)
	_, err = mem.CreateRecord(ctx, "alice", "2025-01-05", account.AmountOf(dec("30")))
	require.NoError(t, err)
	r2, err := mem.CreateRecord(ctx, "bob", "2025-01-06", account.AmountOf(dec("50")))
	require.NoError(t, err)

	ctrl := account.NewController(c, c)

	view, err := ctrl.Refresh(ctx)
	require.NoError(t, err)
	require.Len(t, view.Records, 2)
	assert.True(t, view.Balance.Equal(dec("100.00")))
	assert.True(t, view.Records[0].BalanceAfter.Value.Equal(dec("70")))
	assert.True(t, view.Records[1].BalanceAfter.Value.Equal(dec("20")))

	// Withdraw, then confirm the reconciled projection.
	view, err = ctrl.ApplyBalanceOffset(ctx, dec("-25.00"), "groceries")
	require.NoError(t, err)
	assert.True(t, view.Balance.Equal(dec("75.00")))
	assert.True(t, view.Records[0].BalanceAfter.Value.Equal(dec("45")))

	// Mark one paid; it drops out of the fold.
	view, err = ctrl.MarkRecordPaid(ctx, r2.ID)
	require.NoError(t, err)
	assert.False(t, view.Records[1].BalanceAfter.Known)
	assert.True(t, view.Records[0].BalanceAfter.Value.Equal(dec("45")))
}
