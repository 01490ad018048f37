/*
errors.go - Centralized error types for the account core

PURPOSE:
  All core error values in one place for consistency and discoverability.
  Transport implementations wrap these (or their own errors) with
  endpoint context; handlers map them to HTTP status codes.

ERROR CATEGORIES:
  1. Validation errors - Rejected locally, before any network call
  2. Lookup errors     - The collaborator does not know the record
  (Transport failures are produced by the client package, not here.)

USAGE:
  if errors.Is(err, account.ErrInvalidAmount) {
      // re-prompt the user, nothing was sent
  }

SEE ALSO:
  - controller.go: Raises validation errors
  - client/client.go: Wraps transport failures
*/
package account

import "errors"

var (
	// ErrInvalidAmount is returned when a user-supplied amount does not
	// parse as a decimal number. Raised before any network call.
	ErrInvalidAmount = errors.New("amount is not a valid number")

	// ErrCommentTooLong is returned when a balance-change comment exceeds
	// MaxCommentLen. Raised before any network call.
	ErrCommentTooLong = errors.New("comment exceeds maximum length")

	// ErrInvalidLimit is returned when a history limit is zero or negative.
	ErrInvalidLimit = errors.New("history limit must be positive")

	// ErrRecordNotFound is returned when a record id is unknown to the ledger.
	ErrRecordNotFound = errors.New("record not found")
)
