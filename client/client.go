/*
client.go - HTTP client for the joint account collaborator API

PURPOSE:
  Implements account.BalanceService and account.RecordService over the
  /api/v1 wire contract, so the transaction controller can run against a
  remote balance store and record ledger exactly as it runs against an
  in-process store in tests.

FAILURE MODEL:
  Any non-success status, transport error, or undecodable body is one
  uniform failure for the attempt. Callers don't branch on the cause:
  the controller aborts the action either way and the user re-attempts.
  A *StatusError is returned for non-2xx responses so logs can still
  show what the server said.

CACHING:
  None. The controller's reconciliation protocol depends on every read
  reflecting the mutation that just succeeded.

USAGE:
  c := client.New("http://localhost:8080", nil)
  ctrl := account.NewController(c, c)

SEE ALSO:
  - account/services.go: The interfaces implemented here
  - api/dto.go: The wire types (shared via identical JSON shapes)
*/
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/joint/account-engine/account"
)

// Client speaks the /api/v1 collaborator contract. It implements both
// account.BalanceService and account.RecordService.
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a client for the given base URL (no trailing slash
// required). A nil httpClient falls back to http.DefaultClient.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	for len(baseURL) > 0 && baseURL[len(baseURL)-1] == '/' {
		baseURL = baseURL[:len(baseURL)-1]
	}
	return &Client{baseURL: baseURL, http: httpClient}
}

// StatusError reports a non-success HTTP status from the collaborator.
type StatusError struct {
	Method string
	Path   string
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.Path, e.Status, e.Body)
}

// =============================================================================
// BALANCE SERVICE
// =============================================================================

type balanceBody struct {
	Amount decimal.Decimal `json:"amount"`
}

type applyOffsetBody struct {
	Offset  decimal.Decimal `json:"offset"`
	Comment string          `json:"comment"`
}

func (c *Client) CurrentBalance(ctx context.Context) (decimal.Decimal, error) {
	var body balanceBody
	if err := c.do(ctx, http.MethodGet, "/api/v1/balance", nil, &body); err != nil {
		return decimal.Zero, err
	}
	return body.Amount, nil
}

func (c *Client) ApplyOffset(ctx context.Context, offset decimal.Decimal, comment string) (decimal.Decimal, error) {
	var body balanceBody
	req := applyOffsetBody{Offset: offset, Comment: comment}
	if err := c.do(ctx, http.MethodPut, "/api/v1/balance", req, &body); err != nil {
		return decimal.Zero, err
	}
	return body.Amount, nil
}

func (c *Client) History(ctx context.Context, limit int) ([]account.HistoryEntry, error) {
	if limit <= 0 {
		return nil, account.ErrInvalidLimit
	}

	var body []struct {
		ID      int64           `json:"id"`
		Amount  decimal.Decimal `json:"amount"`
		Delta   decimal.Decimal `json:"delta"`
		Date    string          `json:"date"`
		Comment string          `json:"comment"`
	}
	path := fmt.Sprintf("/api/v1/balance/history?limit=%d", limit)
	if err := c.do(ctx, http.MethodGet, path, nil, &body); err != nil {
		return nil, err
	}

	entries := make([]account.HistoryEntry, len(body))
	for i, e := range body {
		entries[i] = account.HistoryEntry{
			ID:      e.ID,
			Amount:  e.Amount,
			Delta:   e.Delta,
			Date:    e.Date,
			Comment: e.Comment,
		}
	}
	return entries, nil
}

// =============================================================================
// RECORD SERVICE
// =============================================================================

type recordBody struct {
	ID       int64            `json:"id"`
	AcctName string           `json:"acctName"`
	Date     string           `json:"date"`
	Amount   *decimal.Decimal `json:"amount"`
	Paid     bool             `json:"paid"`
}

func (c *Client) ListRecords(ctx context.Context) ([]account.Record, error) {
	var body []recordBody
	if err := c.do(ctx, http.MethodGet, "/api/v1/records", nil, &body); err != nil {
		return nil, err
	}

	// Response order is preserved as-is: it is the projection order.
	records := make([]account.Record, len(body))
	for i, r := range body {
		records[i] = account.Record{
			ID:       r.ID,
			AcctName: r.AcctName,
			Date:     r.Date,
			Paid:     r.Paid,
		}
		if r.Amount != nil {
			records[i].Amount = account.AmountOf(*r.Amount)
		}
	}
	return records, nil
}

func (c *Client) SetAmount(ctx context.Context, id int64, amount decimal.Decimal) error {
	path := fmt.Sprintf("/api/v1/records/%d/amount", id)
	req := struct {
		Amount decimal.Decimal `json:"amount"`
	}{Amount: amount}
	return c.do(ctx, http.MethodPut, path, req, nil)
}

func (c *Client) MarkPaid(ctx context.Context, id int64) error {
	path := fmt.Sprintf("/api/v1/records/%d/paid", id)
	return c.do(ctx, http.MethodPut, path, nil, nil)
}

// =============================================================================
// TRANSPORT
// =============================================================================

// do performs one request. in (if non-nil) is JSON-encoded as the body;
// out (if non-nil) is JSON-decoded from a 2xx response.
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var buf io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		buf = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, buf)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &StatusError{Method: method, Path: path, Status: resp.StatusCode, Body: string(bytes.TrimSpace(body))}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s %s: malformed response: %w", method, path, err)
	}
	return nil
}
