package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"ngo-filer/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type PgAuditRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewPgAuditRepository(db *pgxpool.Pool, logger *zap.Logger) *PgAuditRepository {
	return &PgAuditRepository{
		db:     db,
		logger: logger,
	}
}

func (r *PgAuditRepository) Append(ctx context.Context, event *models.AuditEvent) error {
	details, err := json.Marshal(event.Details)
	if err != nil {
		return fmt.Errorf("failed to encode audit details: %w", err)
	}

	query := squirrel.Insert("audit_events").
		Columns("doc_id", "event_type", "actor", "details", "created_at").
		Values(event.DocID, string(event.EventType), event.Actor, string(details), event.Timestamp).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return err
}

func (r *PgAuditRepository) ListByDoc(ctx context.Context, docID string) ([]*models.AuditEvent, error) {
	query := squirrel.Select("doc_id", "event_type", "actor", "details", "created_at").
		From("audit_events").
		Where(squirrel.Eq{"doc_id": docID}).
		OrderBy("id ASC").
		PlaceholderFormat(squirrel.Dollar)

	return r.query(ctx, query)
}

func (r *PgAuditRepository) Recent(ctx context.Context, limit int) ([]*models.AuditEvent, error) {
	if limit <= 0 {
		return []*models.AuditEvent{}, nil
	}
	query := squirrel.Select("doc_id", "event_type", "actor", "details", "created_at").
		From("audit_events").
		OrderBy("id DESC").
		Limit(uint64(limit)).
		PlaceholderFormat(squirrel.Dollar)

	return r.query(ctx, query)
}

func (r *PgAuditRepository) query(ctx context.Context, query squirrel.SelectBuilder) ([]*models.AuditEvent, error) {
	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := []*models.AuditEvent{}
	for rows.Next() {
		event, err := scanAuditEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	return events, rows.Err()
}

func scanAuditEvent(s pgx.Row) (*models.AuditEvent, error) {
	var event models.AuditEvent
	var eventType string
	var details []byte
	if err := s.Scan(&event.DocID, &eventType, &event.Actor, &details, &event.Timestamp); err != nil {
		return nil, err
	}
	event.EventType = models.AuditEventType(eventType)
	if err := json.Unmarshal(details, &event.Details); err != nil {
		return nil, fmt.Errorf("failed to decode audit details: %w", err)
	}
	return &event, nil
}

var _ AuditRepository = (*PgAuditRepository)(nil)
