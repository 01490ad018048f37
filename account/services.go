/*
services.go - Collaborator interfaces owned by the core

PURPOSE:
  The core never talks to a database or an HTTP endpoint directly; it
  talks to these two interfaces. The balance store owns the authoritative
  balance and its append-only history, the record ledger owns the line
  items. Both are implemented over HTTP (client package) and directly by
  the storage backends (account/store, store/sqlite), which lets the
  controller run against a remote service in production and an in-memory
  store in tests without changing a line.

CONTRACT NOTES:
  - Reads are uncached: every call reflects the latest mutation.
  - ApplyOffset is the ONLY balance mutation. Each call appends exactly
    one history entry and returns the resulting balance.
  - ListRecords order is significant: it is the projection order, and
    implementations must return a stable list order (creation order),
    never a date re-sort.

SEE ALSO:
  - controller.go: The only consumer
  - client/client.go: HTTP implementation
  - store/sqlite/sqlite.go: Durable implementation
*/
package account

import (
	"context"

	"github.com/shopspring/decimal"
)

// BalanceService is the collaborator owning the current balance and its
// append-only change history.
type BalanceService interface {
	// CurrentBalance returns the authoritative balance.
	CurrentBalance(ctx context.Context) (decimal.Decimal, error)

	// ApplyOffset applies a signed offset (deposits positive, withdrawals
	// negative), appends a history entry carrying the comment, and returns
	// the new balance.
	ApplyOffset(ctx context.Context, offset decimal.Decimal, comment string) (decimal.Decimal, error)

	// History returns the most recent limit entries, newest first.
	History(ctx context.Context, limit int) ([]HistoryEntry, error)
}

// RecordService is the collaborator owning the line-item records.
type RecordService interface {
	// ListRecords returns every record in list order.
	ListRecords(ctx context.Context) ([]Record, error)

	// SetAmount sets or replaces the amount of the record.
	SetAmount(ctx context.Context, id int64, amount decimal.Decimal) error

	// MarkPaid flips the record to paid. The transition is one-way;
	// marking an already-paid record succeeds without effect.
	MarkPaid(ctx context.Context, id int64) error
}

// Store is the server-side storage contract: both collaborator roles plus
// record creation, which happens outside the core (the core only ever
// edits existing records).
type Store interface {
	BalanceService
	RecordService

	// CreateRecord appends a new unpaid record and returns it with its
	// assigned id.
	CreateRecord(ctx context.Context, acctName, date string, amount Amount) (Record, error)
}
