/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures of the collaborator contract. These types
  decouple the account domain model from the wire, and pin two encoding
  decisions:
  - decimals travel as JSON strings (shopspring default), so no float
    rounding ever crosses the wire
  - an unknown record amount is null, never 0

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

SEE ALSO:
  - handlers.go: Uses these types
  - client/client.go: The consuming side of the same wire format
*/
package api

import (
	"github.com/shopspring/decimal"

	"github.com/joint/account-engine/account"
)

// BalanceDTO carries the current balance.
type BalanceDTO struct {
	Amount decimal.Decimal `json:"amount"`
}

// ApplyOffsetRequest mutates the balance: deposits positive, withdrawals
// negative, with an audit comment.
type ApplyOffsetRequest struct {
	Offset  decimal.Decimal `json:"offset"`
	Comment string          `json:"comment"`
}

// RecordDTO represents a record in API responses. Amount is null when
// the amount has not been entered yet.
type RecordDTO struct {
	ID       int64            `json:"id"`
	AcctName string           `json:"acctName"`
	Date     string           `json:"date"`
	Amount   *decimal.Decimal `json:"amount"`
	Paid     bool             `json:"paid"`
}

// CreateRecordRequest creates a new unpaid record.
type CreateRecordRequest struct {
	AcctName string           `json:"acctName"`
	Date     string           `json:"date"`
	Amount   *decimal.Decimal `json:"amount"`
}

// SetAmountRequest replaces a record's amount.
type SetAmountRequest struct {
	Amount *decimal.Decimal `json:"amount"`
}

// HistoryEntryDTO represents one balance change in API responses.
// Amount is the balance after Delta was applied.
type HistoryEntryDTO struct {
	ID      int64           `json:"id"`
	Amount  decimal.Decimal `json:"amount"`
	Delta   decimal.Decimal `json:"delta"`
	Date    string          `json:"date"`
	Comment string          `json:"comment"`
}

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// =============================================================================
// CONVERSIONS
// =============================================================================

func toRecordDTO(r account.Record) RecordDTO {
	dto := RecordDTO{
		ID:       r.ID,
		AcctName: r.AcctName,
		Date:     r.Date,
		Paid:     r.Paid,
	}
	if r.Amount.Known {
		v := r.Amount.Value
		dto.Amount = &v
	}
	return dto
}

func toRecordDTOs(records []account.Record) []RecordDTO {
	dtos := make([]RecordDTO, len(records))
	for i, r := range records {
		dtos[i] = toRecordDTO(r)
	}
	return dtos
}

func toHistoryDTOs(entries []account.HistoryEntry) []HistoryEntryDTO {
	dtos := make([]HistoryEntryDTO, len(entries))
	for i, e := range entries {
		dtos[i] = HistoryEntryDTO{
			ID:      e.ID,
			Amount:  e.Amount,
			Delta:   e.Delta,
			Date:    e.Date,
			Comment: e.Comment,
		}
	}
	return dtos
}

func optionalAmount(v *decimal.Decimal) account.Amount {
	if v == nil {
		return account.NoAmount()
	}
	return account.AmountOf(*v)
}
