/*
projection.go - Running balance projection over unpaid records

PURPOSE:
  Answers the question the account page exists for: "if every remaining
  unpaid record were paid, in this order, how much would be left after
  each one?" Each unpaid record with a known amount gets a balanceAfter
  value by sequential subtraction from the current balance.

KEY RULES:
  - Paid records and records with no amount yet project nothing and do
    NOT move the running value; the next unpaid record is computed as if
    the skipped one were not there.
  - An amount of zero is a real amount: it projects (running - 0) and
    consumes a position in the fold.
  - Input order is projection order. The engine never re-sorts - not by
    date, not by id. Reordering the input legitimately changes which
    amounts are subtracted first, and therefore the projections.

PURITY:
  Project is a pure fold: no I/O, no hidden state, identical inputs give
  identical outputs. The controller re-runs it from scratch after every
  reconciliation rather than patching previous output.

EXAMPLE:
  balance 100.00, records [{30, unpaid}, {50, unpaid}]
    -> balanceAfter [70.00, 20.00]
  balance 100.00, records [{30, paid}, {50, unpaid}]
    -> balanceAfter [none, 50.00]

SEE ALSO:
  - types.go: Record, RecordProjection, Amount
  - controller.go: Invokes Project after every successful mutation
*/
package account

import "github.com/shopspring/decimal"

// Project computes the balance-after value for each record by folding
// unpaid, known-amount records over the current balance in list order.
func Project(currentBalance decimal.Decimal, records []Record) []RecordProjection {
	projections := make([]RecordProjection, 0, len(records))

	running := currentBalance
	for _, r := range records {
		if r.Paid || !r.Amount.Known {
			projections = append(projections, RecordProjection{Record: r, BalanceAfter: NoAmount()})
			continue
		}
		running = running.Sub(r.Amount.Value)
		projections = append(projections, RecordProjection{Record: r, BalanceAfter: AmountOf(running)})
	}

	return projections
}
