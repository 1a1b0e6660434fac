package repository

import (
	"context"
	"errors"

	"ngo-filer/internal/models"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("record not found")

// LedgerRepository is the durable side of the ledger. List returns rows in
// original insertion order; Upsert keeps a replaced row in its position.
type LedgerRepository interface {
	List(ctx context.Context) ([]*models.LedgerRow, error)
	Get(ctx context.Context, docID string) (*models.LedgerRow, error)
	Upsert(ctx context.Context, row *models.LedgerRow) error
}

// LedgerIndex is implemented by repositories that can answer duplicate
// lookups themselves. FindFirst returns the earliest doc_id whose column equals
// value, skipping excludeDocID.
type LedgerIndex interface {
	FindFirst(ctx context.Context, column LedgerIndexColumn, value, excludeDocID string) (docID string, found bool, err error)
}

type LedgerIndexColumn string

const (
	IndexChecksum    LedgerIndexColumn = "checksum_sha256"
	IndexFingerprint LedgerIndexColumn = "doc_fingerprint"
)

// AuditRepository is an append-only event trail.
type AuditRepository interface {
	Append(ctx context.Context, event *models.AuditEvent) error
	ListByDoc(ctx context.Context, docID string) ([]*models.AuditEvent, error)
	// Recent returns up to limit events, newest first.
	Recent(ctx context.Context, limit int) ([]*models.AuditEvent, error)
}

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}
