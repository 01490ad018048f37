package store_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joint/account-engine/account"
	"github.com/joint/account-engine/account/store"
)

func TestMemory_ApplyOffsetAppendsHistory(t *testing.T) {
	m := store.NewMemoryWithBalance(decimal.RequireFromString("100.00"))
	m.Now = func() string { return "2025-01-15" }
	ctx := context.Background()

	balance, err := m.ApplyOffset(ctx, decimal.RequireFromString("-25.00"), "groceries")
	require.NoError(t, err)
	assert.True(t, balance.Equal(decimal.RequireFromString("75.00")), "balance = %s", balance)

	entries, err := m.History(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, entries[0].Delta.Equal(decimal.RequireFromString("-25.00")))
	assert.True(t, entries[0].Amount.Equal(decimal.RequireFromString("75.00")))
	assert.Equal(t, "groceries", entries[0].Comment)
	assert.Equal(t, "2025-01-15", entries[0].Date)
}

func TestMemory_HistoryNewestFirstAndLimited(t *testing.T) {
	m := store.NewMemory()
	ctx := context.Background()

	for i := 1; i <= 5; i++ {
		_, err := m.ApplyOffset(ctx, decimal.NewFromInt(int64(i)), "")
		require.NoError(t, err)
	}

	entries, err := m.History(ctx, 3)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	// Newest first: deltas 5, 4, 3.
	assert.True(t, entries[0].Delta.Equal(decimal.NewFromInt(5)))
	assert.True(t, entries[2].Delta.Equal(decimal.NewFromInt(3)))
	assert.Greater(t, entries[0].ID, entries[1].ID)
}

func TestMemory_RecordLifecycle(t *testing.T) {
	m := store.NewMemory()
	ctx := context.Background()

	r1, err := m.CreateRecord(ctx, "alice", "2025-01-05", account.NoAmount())
	require.NoError(t, err)
	r2, err := m.CreateRecord(ctx, "bob", "2025-01-02", account.AmountOf(decimal.NewFromInt(50)))
	require.NoError(t, err)

	// List order is creation order, even though r2's date is earlier.
	records, err := m.ListRecords(ctx)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, r1.ID, records[0].ID)
	assert.Equal(t, r2.ID, records[1].ID)
	assert.False(t, records[0].Amount.Known)

	require.NoError(t, m.SetAmount(ctx, r1.ID, decimal.RequireFromString("12.50")))
	require.NoError(t, m.MarkPaid(ctx, r2.ID))

	records, err = m.ListRecords(ctx)
	require.NoError(t, err)
	assert.True(t, records[0].Amount.Value.Equal(decimal.RequireFromString("12.50")))
	assert.True(t, records[1].Paid)

	// Marking again is a harmless no-op.
	require.NoError(t, m.MarkPaid(ctx, r2.ID))
}

func TestMemory_UnknownRecord(t *testing.T) {
	m := store.NewMemory()
	ctx := context.Background()

	assert.ErrorIs(t, m.SetAmount(ctx, 99, decimal.NewFromInt(1)), account.ErrRecordNotFound)
	assert.ErrorIs(t, m.MarkPaid(ctx, 99), account.ErrRecordNotFound)
}

func TestMemory_Validation(t *testing.T) {
	m := store.NewMemory()
	ctx := context.Background()

	long := make([]byte, account.MaxCommentLen+1)
	_, err := m.ApplyOffset(ctx, decimal.NewFromInt(1), string(long))
	assert.ErrorIs(t, err, account.ErrCommentTooLong)

	_, err = m.History(ctx, 0)
	assert.ErrorIs(t, err, account.ErrInvalidLimit)
}
