/*
controller.go - Mutate-then-reconcile orchestration

PURPOSE:
  The Controller sequences every state change of the account view. All
  three mutations (balance offset, amount edit, mark-paid) follow the
  same protocol:

    1. Validate locally; reject without touching the network.
    2. Issue exactly ONE mutating call to a collaborator.
    3. On failure: abort. The previous view stays published untouched.
    4. On success: fetch balance and records CONCURRENTLY, wait for both,
       re-run the projection, and atomically publish the new View.

  The published view is therefore always derived from one consistent pair
  of authoritative reads - never from a local guess about what the
  mutation did, and never from one fresh read paired with one stale one.

FAILURE WINDOWS:
  If the mutation succeeds but a reconciliation read fails, the server
  has moved and the local view is stale. That window is accepted: the
  error is surfaced, nothing partial is published, and Refresh re-reads
  authoritative state on the next attempt.

CONCURRENCY:
  The Controller does not serialize overlapping mutations; the caller
  (the UI disables its buttons) keeps at most one in flight per action.
  What IS guaranteed is that the view swap itself is atomic: View()
  readers see either the whole old snapshot or the whole new one.

SEE ALSO:
  - projection.go: The fold run at step 4
  - services.go: The two collaborator interfaces
*/
package account

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"
)

// Controller orchestrates mutations against the two collaborators and
// owns the single published view snapshot.
type Controller struct {
	balances BalanceService
	records  RecordService

	mu   sync.RWMutex
	view View
}

// NewController creates a controller with an empty view. Call Refresh to
// load the initial snapshot.
func NewController(balances BalanceService, records RecordService) *Controller {
	return &Controller{balances: balances, records: records}
}

// View returns the current snapshot. The record slice is copied so a
// later reconciliation cannot mutate what the caller holds.
func (c *Controller) View() View {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return cloneView(c.view)
}

// Refresh reconciles without a mutation: initial load, or recovery after
// a reconciliation read failed and left the view stale.
func (c *Controller) Refresh(ctx context.Context) (View, error) {
	return c.reconcile(ctx)
}

// ApplyBalanceOffset applies a pre-signed offset to the balance (deposits
// positive, withdrawals negative) with an audit comment, then reconciles.
func (c *Controller) ApplyBalanceOffset(ctx context.Context, offset decimal.Decimal, comment string) (View, error) {
	if len(comment) > MaxCommentLen {
		return c.View(), ErrCommentTooLong
	}
	if _, err := c.balances.ApplyOffset(ctx, offset, comment); err != nil {
		return c.View(), err
	}
	return c.reconcile(ctx)
}

// SetRecordAmount parses the user-entered amount and, if it is a number,
// stores it on the record and reconciles. A non-numeric input is rejected
// locally; no network call is made.
func (c *Controller) SetRecordAmount(ctx context.Context, id int64, raw string) (View, error) {
	amount, err := ParseAmount(raw)
	if err != nil {
		return c.View(), err
	}
	if err := c.records.SetAmount(ctx, id, amount.Value); err != nil {
		return c.View(), err
	}
	return c.reconcile(ctx)
}

// MarkRecordPaid flips the record to paid and reconciles. There is no
// inverse operation anywhere in the system.
func (c *Controller) MarkRecordPaid(ctx context.Context, id int64) (View, error) {
	if err := c.records.MarkPaid(ctx, id); err != nil {
		return c.View(), err
	}
	return c.reconcile(ctx)
}

// History reads the most recent limit balance-change entries, newest
// first. Read-only; the view snapshot is not touched.
func (c *Controller) History(ctx context.Context, limit int) ([]HistoryEntry, error) {
	if limit <= 0 {
		return nil, ErrInvalidLimit
	}
	return c.balances.History(ctx, limit)
}

// reconcile fetches balance and records concurrently, projects, and
// publishes the new view. Nothing is published unless BOTH reads succeed.
func (c *Controller) reconcile(ctx context.Context) (View, error) {
	var (
		wg      sync.WaitGroup
		balance decimal.Decimal
		records []Record
		balErr  error
		recErr  error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		balance, balErr = c.balances.CurrentBalance(ctx)
	}()
	go func() {
		defer wg.Done()
		records, recErr = c.records.ListRecords(ctx)
	}()
	wg.Wait()

	if balErr != nil {
		return c.View(), balErr
	}
	if recErr != nil {
		return c.View(), recErr
	}

	next := View{Balance: balance, Records: Project(balance, records)}

	c.mu.Lock()
	c.view = next
	c.mu.Unlock()

	return cloneView(next), nil
}

func cloneView(v View) View {
	out := View{Balance: v.Balance}
	if v.Records != nil {
		out.Records = make([]RecordProjection, len(v.Records))
		copy(out.Records, v.Records)
	}
	return out
}
