/*
Package sqlite provides the SQLite-backed implementation of account.Store.

PURPOSE:
  Durable storage for the three pieces of authoritative state: the
  current balance (single row), the append-only balance history, and the
  record list. The api package serves this store over HTTP; the account
  controller only ever sees it through the account.Store interface.

APPEND-ONLY ENFORCEMENT:
  The history table is append-only: no UPDATE, no DELETE. The balance row
  and the history entry for a change are written inside one database
  transaction, so replaying history deltas always reproduces the stored
  balance.

KEY TABLES:
  balance:  Single-row current balance (id constrained to 1)
  history:  Immutable log of balance changes, newest-first on read
  records:  Line items; amount is NULLable ("not entered yet"), paid
            only ever transitions 0 -> 1

DECIMAL ENCODING:
  Amounts are stored as TEXT and parsed with shopspring/decimal. REAL
  columns would round; money never goes through float64.

ORDERING:
  Records are returned in creation order (id ASC). That order is the
  projection order downstream - this store never sorts records by date.

WAL MODE:
  Opened with WAL for better concurrency: readers don't block, single
  writer at a time, better crash recovery.

USAGE:
  store, err := sqlite.New("./data/joint.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

SEE ALSO:
  - account/services.go: Interface definitions
  - account/store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/joint/account-engine/account"
)

// Store implements account.Store using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	-- Current balance: exactly one row, id pinned to 1
	CREATE TABLE IF NOT EXISTS balance (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		amount TEXT NOT NULL
	);
	INSERT OR IGNORE INTO balance (id, amount) VALUES (1, '0');

	-- Balance history (append-only: no UPDATE, no DELETE)
	CREATE TABLE IF NOT EXISTS history (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		amount TEXT NOT NULL,
		delta TEXT NOT NULL,
		date TEXT NOT NULL,
		comment TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL
	);

	-- Line items; NULL amount means "not entered yet"
	CREATE TABLE IF NOT EXISTS records (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		acct_name TEXT NOT NULL,
		date TEXT NOT NULL,
		amount TEXT,
		paid INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// BALANCE
// =============================================================================

func (s *Store) CurrentBalance(ctx context.Context) (decimal.Decimal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var raw string
	err := s.db.QueryRowContext(ctx, `SELECT amount FROM balance WHERE id = 1`).Scan(&raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to read balance: %w", err)
	}
	return decimal.NewFromString(raw)
}

// ApplyOffset applies a signed offset and appends the matching history
// entry in a single database transaction.
func (s *Store) ApplyOffset(ctx context.Context, offset decimal.Decimal, comment string) (decimal.Decimal, error) {
	if len(comment) > account.MaxCommentLen {
		return decimal.Zero, account.ErrCommentTooLong
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return decimal.Zero, err
	}
	defer tx.Rollback()

	var raw string
	if err := tx.QueryRowContext(ctx, `SELECT amount FROM balance WHERE id = 1`).Scan(&raw); err != nil {
		return decimal.Zero, fmt.Errorf("failed to read balance: %w", err)
	}
	current, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("corrupt balance value %q: %w", raw, err)
	}

	next := current.Add(offset)
	now := time.Now().UTC()

	if _, err := tx.ExecContext(ctx, `UPDATE balance SET amount = ? WHERE id = 1`, next.String()); err != nil {
		return decimal.Zero, fmt.Errorf("failed to update balance: %w", err)
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO history (amount, delta, date, comment, created_at) VALUES (?, ?, ?, ?, ?)`,
		next.String(), offset.String(), now.Format("2006-01-02"), comment, now.Format(time.RFC3339))
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to append history: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return decimal.Zero, err
	}
	return next, nil
}

func (s *Store) History(ctx context.Context, limit int) ([]account.HistoryEntry, error) {
	if limit <= 0 {
		return nil, account.ErrInvalidLimit
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, amount, delta, date, comment FROM history ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	entries := make([]account.HistoryEntry, 0, limit)
	for rows.Next() {
		var (
			e           account.HistoryEntry
			amount, dlt string
		)
		if err := rows.Scan(&e.ID, &amount, &dlt, &e.Date, &e.Comment); err != nil {
			return nil, err
		}
		if e.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, fmt.Errorf("corrupt history amount %q: %w", amount, err)
		}
		if e.Delta, err = decimal.NewFromString(dlt); err != nil {
			return nil, fmt.Errorf("corrupt history delta %q: %w", dlt, err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// =============================================================================
// RECORDS
// =============================================================================

func (s *Store) ListRecords(ctx context.Context) ([]account.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	// Creation order, not date order: this is the projection order.
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, acct_name, date, amount, paid FROM records ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query records: %w", err)
	}
	defer rows.Close()

	var records []account.Record
	for rows.Next() {
		var (
			r      account.Record
			amount sql.NullString
			paid   int
		)
		if err := rows.Scan(&r.ID, &r.AcctName, &r.Date, &amount, &paid); err != nil {
			return nil, err
		}
		if amount.Valid {
			v, err := decimal.NewFromString(amount.String)
			if err != nil {
				return nil, fmt.Errorf("corrupt record amount %q: %w", amount.String, err)
			}
			r.Amount = account.AmountOf(v)
		}
		r.Paid = paid != 0
		records = append(records, r)
	}
	return records, rows.Err()
}

func (s *Store) SetAmount(ctx context.Context, id int64, amount decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `UPDATE records SET amount = ? WHERE id = ?`, amount.String(), id)
	if err != nil {
		return fmt.Errorf("failed to set amount: %w", err)
	}
	return requireRow(res)
}

func (s *Store) MarkPaid(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// One-way transition; repeating it is a harmless no-op on the row.
	res, err := s.db.ExecContext(ctx, `UPDATE records SET paid = 1 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to mark paid: %w", err)
	}
	return requireRow(res)
}

func (s *Store) CreateRecord(ctx context.Context, acctName, date string, amount account.Amount) (account.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var stored any
	if amount.Known {
		stored = amount.Value.String()
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO records (acct_name, date, amount, paid, created_at) VALUES (?, ?, ?, 0, ?)`,
		acctName, date, stored, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return account.Record{}, fmt.Errorf("failed to create record: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return account.Record{}, err
	}

	return account.Record{ID: id, AcctName: acctName, Date: date, Amount: amount}, nil
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return account.ErrRecordNotFound
	}
	return nil
}
