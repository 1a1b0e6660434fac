package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"

	"ngo-filer/internal/models"
	"ngo-filer/pkg/storage"

	"go.uber.org/zap"
)

// FileLedgerRepository keeps the ledger as one JSON array on disk. Every
// upsert rewrites the file atomically; the cached copy changes only after the
// write succeeded.
type FileLedgerRepository struct {
	path   string
	logger *zap.Logger

	mu   sync.Mutex
	rows []*models.LedgerRow
	pos  map[string]int
}

func NewFileLedgerRepository(path string, logger *zap.Logger) (*FileLedgerRepository, error) {
	r := &FileLedgerRepository{
		path:   path,
		logger: logger,
		pos:    make(map[string]int),
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return r, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read ledger file: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return r, nil
	}

	if err := json.Unmarshal(data, &r.rows); err != nil {
		return nil, fmt.Errorf("failed to decode ledger file %s: %w", path, err)
	}
	for i, row := range r.rows {
		r.pos[row.DocID] = i
	}

	logger.Info("Ledger loaded", zap.String("path", path), zap.Int("rows", len(r.rows)))
	return r, nil
}

func (r *FileLedgerRepository) List(ctx context.Context) ([]*models.LedgerRow, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]*models.LedgerRow, len(r.rows))
	for i, row := range r.rows {
		out[i] = row.Clone()
	}
	return out, nil
}

func (r *FileLedgerRepository) Get(ctx context.Context, docID string) (*models.LedgerRow, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i, ok := r.pos[docID]
	if !ok {
		return nil, ErrNotFound
	}
	return r.rows[i].Clone(), nil
}

func (r *FileLedgerRepository) Upsert(ctx context.Context, row *models.LedgerRow) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	next := make([]*models.LedgerRow, len(r.rows), len(r.rows)+1)
	copy(next, r.rows)

	i, exists := r.pos[row.DocID]
	if exists {
		next[i] = row.Clone()
	} else {
		i = len(next)
		next = append(next, row.Clone())
	}

	data, err := json.MarshalIndent(next, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode ledger: %w", err)
	}
	if err := storage.WriteFileAtomic(r.path, bytes.NewReader(data), 0o644); err != nil {
		return fmt.Errorf("failed to write ledger file: %w", err)
	}

	r.rows = next
	r.pos[row.DocID] = i
	return nil
}

var _ LedgerRepository = (*FileLedgerRepository)(nil)
