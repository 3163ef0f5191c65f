package remote

import "fmt"

// SyncError is a typed remote read/write failure. StatusCode is zero when
// the request never reached the server (network error, bad payload).
// The layer never retries on its own; retry is the caller's decision.
type SyncError struct {
	Op         string // "list", "add", "update", "delete"
	Entity     string // "invoices", "builders", "expenses"
	StatusCode int
	Err        error
}

func (e *SyncError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("remote %s %s failed (HTTP %d): %v", e.Op, e.Entity, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("remote %s %s failed: %v", e.Op, e.Entity, e.Err)
}

func (e *SyncError) Unwrap() error {
	return e.Err
}
