package sqlite

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/joint/account-engine/account"
)

// Seed bootstraps an empty database with an opening balance and a small
// record queue for local development. A non-empty database is left alone.
func (s *Store) Seed(ctx context.Context) error {
	records, err := s.ListRecords(ctx)
	if err != nil {
		return err
	}
	balance, err := s.CurrentBalance(ctx)
	if err != nil {
		return err
	}
	if len(records) > 0 || !balance.IsZero() {
		return nil
	}

	if _, err := s.ApplyOffset(ctx, decimal.NewFromInt(2500), "opening balance"); err != nil {
		return fmt.Errorf("failed to seed balance: %w", err)
	}

	seed := []struct {
		acctName string
		date     string
		amount   account.Amount
	}{
		{"alice", "2025-01-05", account.AmountOf(decimal.RequireFromString("120.50"))},
		{"bob", "2025-01-12", account.AmountOf(decimal.NewFromInt(640))},
		{"alice", "2025-01-20", account.NoAmount()},
	}
	for _, r := range seed {
		if _, err := s.CreateRecord(ctx, r.acctName, r.date, r.amount); err != nil {
			return fmt.Errorf("failed to seed records: %w", err)
		}
	}
	return nil
}
