// Package store provides an in-memory account.Store implementation
// (for testing/dev).
package store

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/joint/account-engine/account"
)

func today() string {
	return time.Now().Format("2006-01-02")
}

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu      sync.RWMutex
	balance decimal.Decimal
	history []account.HistoryEntry // newest first
	records []account.Record      // creation order
	nextID  int64
	histID  int64

	// Now supplies the date stamped on history entries; overridable in tests.
	Now func() string
}

func NewMemory() *Memory {
	return &Memory{nextID: 1, histID: 1, Now: today}
}

// NewMemoryWithBalance seeds the opening balance without a history entry.
func NewMemoryWithBalance(balance decimal.Decimal) *Memory {
	m := NewMemory()
	m.balance = balance
	return m
}

func (m *Memory) CurrentBalance(_ context.Context) (decimal.Decimal, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.balance, nil
}

func (m *Memory) ApplyOffset(_ context.Context, offset decimal.Decimal, comment string) (decimal.Decimal, error) {
	if len(comment) > account.MaxCommentLen {
		return decimal.Zero, account.ErrCommentTooLong
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.balance = m.balance.Add(offset)
	entry := account.HistoryEntry{
		ID:      m.histID,
		Amount:  m.balance,
		Delta:   offset,
		Date:    m.Now(),
		Comment: comment,
	}
	m.histID++
	// Prepend: history reads newest first.
	m.history = append([]account.HistoryEntry{entry}, m.history...)
	return m.balance, nil
}

func (m *Memory) History(_ context.Context, limit int) ([]account.HistoryEntry, error) {
	if limit <= 0 {
		return nil, account.ErrInvalidLimit
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	if limit > len(m.history) {
		limit = len(m.history)
	}
	out := make([]account.HistoryEntry, limit)
	copy(out, m.history[:limit])
	return out, nil
}

func (m *Memory) ListRecords(_ context.Context) ([]account.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]account.Record, len(m.records))
	copy(out, m.records)
	return out, nil
}

func (m *Memory) SetAmount(_ context.Context, id int64, amount decimal.Decimal) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.records {
		if m.records[i].ID == id {
			m.records[i].Amount = account.AmountOf(amount)
			return nil
		}
	}
	return account.ErrRecordNotFound
}

func (m *Memory) MarkPaid(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.records {
		if m.records[i].ID == id {
			m.records[i].Paid = true
			return nil
		}
	}
	return account.ErrRecordNotFound
}

func (m *Memory) CreateRecord(_ context.Context, acctName, date string, amount account.Amount) (account.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	r := account.Record{
		ID:       m.nextID,
		AcctName: acctName,
		Date:     date,
		Amount:   amount,
	}
	m.nextID++
	m.records = append(m.records, r)
	return r, nil
}
