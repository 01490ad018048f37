/*
types.go - Core domain types for the joint account engine

PURPOSE:
  Defines the shared vocabulary of the system: ledger records, the
  optional Amount type, balance history entries, and the view snapshot
  published after every reconciliation.

DESIGN DECISIONS:
  - All money values are shopspring decimals. Floats never touch a
    balance: binary rounding on "0.1 + 0.2" is not acceptable in a
    shared cash account.
  - A record's amount may be unknown ("we expect the electricity bill
    but don't have the number yet"). That is an explicit option type,
    not a zero or -1 sentinel - zero is a legitimate amount and must
    stay distinguishable from "not entered".
  - Dates are opaque display strings. The engine never parses, compares
    or re-sorts by date; record order is the collaborator's list order.

SEE ALSO:
  - projection.go: Derives RecordProjection from Record
  - controller.go: Publishes View snapshots
*/
package account

import "github.com/shopspring/decimal"

// =============================================================================
// AMOUNT - Optional decimal value
// =============================================================================

// Amount is a decimal that may be absent. A record whose amount has not
// been entered yet projects no balance; a record with amount zero does.
type Amount struct {
	Value decimal.Decimal
	Known bool
}

// AmountOf returns a known amount.
func AmountOf(v decimal.Decimal) Amount {
	return Amount{Value: v, Known: true}
}

// NoAmount returns the absent amount.
func NoAmount() Amount {
	return Amount{}
}

// ParseAmount parses a decimal string into a known amount.
// Returns ErrInvalidAmount if the string is not a number.
func ParseAmount(s string) (Amount, error) {
	v, err := decimal.NewFromString(s)
	if err != nil {
		return Amount{}, ErrInvalidAmount
	}
	return AmountOf(v), nil
}

func (a Amount) Equal(b Amount) bool {
	if a.Known != b.Known {
		return false
	}
	return !a.Known || a.Value.Equal(b.Value)
}

func (a Amount) String() string {
	if !a.Known {
		return "unset"
	}
	return a.Value.String()
}

// =============================================================================
// RECORD - One scheduled or completed payment
// =============================================================================

// Record is a single line item of the shared account: a payment one of
// the two holders has scheduled or already made.
//
// Lifecycle: created unpaid (amount possibly unknown), amount may be
// edited while unpaid, and Paid flips to true exactly once. Records are
// never deleted and Paid is never unset.
type Record struct {
	ID       int64
	AcctName string
	Date     string
	Amount   Amount
	Paid     bool
}

// RecordProjection is a Record plus its projected balance-after value.
// Derived on every read by the projection engine; never stored.
type RecordProjection struct {
	Record
	BalanceAfter Amount
}

// =============================================================================
// HISTORY - Audit log of balance changes
// =============================================================================

// MaxCommentLen bounds the free-text comment attached to a balance change.
const MaxCommentLen = 100

// HistoryEntry is one immutable balance-changing event. Amount is the
// balance AFTER the delta was applied; replaying deltas oldest-first from
// the earliest known amount reproduces every subsequent amount.
type HistoryEntry struct {
	ID      int64
	Amount  decimal.Decimal
	Delta   decimal.Decimal
	Date    string
	Comment string
}

// =============================================================================
// VIEW - The published snapshot
// =============================================================================

// View is the single current snapshot exposed to presentation: the
// authoritative balance and the projected record list derived from it.
// A reconciliation replaces the whole View at once; readers never see a
// balance from one fetch paired with records from another.
type View struct {
	Balance decimal.Decimal
	Records []RecordProjection
}
