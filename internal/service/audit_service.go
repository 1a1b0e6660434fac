package service

import (
	"context"
	"fmt"
	"time"

	"ngo-filer/internal/models"
	"ngo-filer/internal/repository"

	"go.uber.org/zap"
)

const defaultRecentEvents = 100

type AuditService struct {
	repo   repository.AuditRepository
	now    func() time.Time
	logger *zap.Logger
}

func NewAuditService(repo repository.AuditRepository, logger *zap.Logger) *AuditService {
	return &AuditService{
		repo:   repo,
		now:    time.Now,
		logger: logger,
	}
}

func (s *AuditService) Log(ctx context.Context, docID string, eventType models.AuditEventType, actor string, details map[string]any) error {
	if details == nil {
		details = map[string]any{}
	}
	event := &models.AuditEvent{
		DocID:     docID,
		EventType: eventType,
		Actor:     actor,
		Details:   details,
		Timestamp: s.now().UTC(),
	}
	if err := s.repo.Append(ctx, event); err != nil {
		return fmt.Errorf("failed to append audit event: %w", err)
	}
	return nil
}

// History returns a document's events in the order they happened.
func (s *AuditService) History(ctx context.Context, docID string) ([]*models.AuditEvent, error) {
	events, err := s.repo.ListByDoc(ctx, docID)
	if err != nil {
		return nil, fmt.Errorf("failed to read audit history: %w", err)
	}
	return events, nil
}

func (s *AuditService) Recent(ctx context.Context, limit int) ([]*models.AuditEvent, error) {
	if limit <= 0 {
		limit = defaultRecentEvents
	}
	events, err := s.repo.Recent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to read recent audit events: %w", err)
	}
	return events, nil
}
