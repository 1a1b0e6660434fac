package repository

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"ngo-filer/internal/models"

	"go.uber.org/zap"
)

// FileAuditRepository appends one JSON object per line.
type FileAuditRepository struct {
	path   string
	logger *zap.Logger
	mu     sync.Mutex
}

func NewFileAuditRepository(path string, logger *zap.Logger) (*FileAuditRepository, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create audit directory: %w", err)
	}
	return &FileAuditRepository{
		path:   path,
		logger: logger,
	}, nil
}

func (r *FileAuditRepository) Append(ctx context.Context, event *models.AuditEvent) error {
	line, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode audit event: %w", err)
	}
	line = append(line, '\n')

	r.mu.Lock()
	defer r.mu.Unlock()

	f, err := os.OpenFile(r.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open audit trail: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(line); err != nil {
		return fmt.Errorf("failed to append audit event: %w", err)
	}
	return f.Sync()
}

func (r *FileAuditRepository) ListByDoc(ctx context.Context, docID string) ([]*models.AuditEvent, error) {
	all, err := r.readAll()
	if err != nil {
		return nil, err
	}
	events := []*models.AuditEvent{}
	for _, e := range all {
		if e.DocID == docID {
			events = append(events, e)
		}
	}
	return events, nil
}

func (r *FileAuditRepository) Recent(ctx context.Context, limit int) ([]*models.AuditEvent, error) {
	all, err := r.readAll()
	if err != nil {
		return nil, err
	}
	events := []*models.AuditEvent{}
	for i := len(all) - 1; i >= 0 && len(events) < limit; i-- {
		events = append(events, all[i])
	}
	return events, nil
}

func (r *FileAuditRepository) readAll() ([]*models.AuditEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	f, err := os.Open(r.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open audit trail: %w", err)
	}
	defer f.Close()

	var events []*models.AuditEvent
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		if len(scanner.Bytes()) == 0 {
			continue
		}
		var e models.AuditEvent
		if err := json.Unmarshal(scanner.Bytes(), &e); err != nil {
			// a torn final line from a crash is skipped, not fatal
			r.logger.Warn("Skipping unreadable audit line", zap.Int("line", lineNo), zap.Error(err))
			continue
		}
		events = append(events, &e)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read audit trail: %w", err)
	}
	return events, nil
}

var _ AuditRepository = (*FileAuditRepository)(nil)
