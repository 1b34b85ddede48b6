package tokenstore

import (
	"context"
	"time"
)

// Persisted key names, shared by every driver.
const (
	KeyToken  = "token"
	KeyRole   = "role"
	KeyExpiry = "tokenExpiry"
)

// Record is what a store holds for the current login.
type Record struct {
	Token     string
	Role      string
	ExpiresAt time.Time
}

// ExpiryMillis returns ExpiresAt as epoch milliseconds, 0 when unset.
func (r Record) ExpiryMillis() int64 {
	if r.ExpiresAt.IsZero() {
		return 0
	}
	return r.ExpiresAt.UnixMilli()
}

// Store persists a single Record.
type Store interface {
	// Save replaces the stored record. Readers observe either the old or the new record.
	Save(ctx context.Context, rec Record) error

	// Read returns the stored record or ErrNotFound.
	Read(ctx context.Context) (Record, error)

	// Clear removes the record. Clearing an empty store is not an error.
	Clear(ctx context.Context) error
}

// document is the on-disk shape shared by the file driver and tests.
type document struct {
	Token       string `json:"token"`
	Role        string `json:"role"`
	TokenExpiry int64  `json:"tokenExpiry"`
}

func toDocument(rec Record) document {
	return document{Token: rec.Token, Role: rec.Role, TokenExpiry: rec.ExpiryMillis()}
}

func (d document) record() Record {
	rec := Record{Token: d.Token, Role: d.Role}
	if d.TokenExpiry > 0 {
		rec.ExpiresAt = time.UnixMilli(d.TokenExpiry)
	}
	return rec
}
