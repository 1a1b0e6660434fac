package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"ngo-filer/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

var ledgerColumns = []string{
	"doc_id", "issue_date", "due_date", "vendor", "invoice_number", "currency",
	"subtotal", "tax_amount", "grand_total", "project_code", "grant_code",
	"fund_type", "category_primary", "status", "fiscal_year", "file_path",
	"file_name", "dedupe_status", "approver", "approved_at", "checksum_sha256",
	"doc_fingerprint", "score_confidence", "flags", "ingested_at", "updated_at",
}

// PgLedgerRepository stores ledger rows in Postgres. The seq column keeps the
// original insertion order across upserts.
type PgLedgerRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewPgLedgerRepository(db *pgxpool.Pool, logger *zap.Logger) *PgLedgerRepository {
	return &PgLedgerRepository{
		db:     db,
		logger: logger,
	}
}

func (r *PgLedgerRepository) Upsert(ctx context.Context, row *models.LedgerRow) error {
	flags, err := json.Marshal(row.Flags)
	if err != nil {
		return fmt.Errorf("failed to encode flags: %w", err)
	}

	updates := make([]string, 0, len(ledgerColumns)-2)
	for _, c := range ledgerColumns {
		if c == "doc_id" || c == "ingested_at" {
			continue
		}
		updates = append(updates, fmt.Sprintf("%s = EXCLUDED.%s", c, c))
	}

	query := squirrel.Insert("ledger_rows").
		Columns(ledgerColumns...).
		Values(
			row.DocID, row.IssueDate, row.DueDate, row.Vendor, row.InvoiceNumber, row.Currency,
			row.Subtotal, row.TaxAmount, row.GrandTotal, row.ProjectCode, row.GrantCode,
			string(row.FundType), row.CategoryPrimary, string(row.Status), row.FiscalYear, row.FilePath,
			row.FileName, string(row.DedupeStatus), row.Approver, row.ApprovedAt, row.Checksum,
			row.Fingerprint, row.ScoreConfidence, string(flags), row.IngestedAt, row.UpdatedAt,
		).
		Suffix("ON CONFLICT (doc_id) DO UPDATE SET " + strings.Join(updates, ", ")).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("failed to upsert ledger row %s: %w", row.DocID, err)
	}
	return nil
}

func (r *PgLedgerRepository) Get(ctx context.Context, docID string) (*models.LedgerRow, error) {
	query := squirrel.Select(ledgerColumns...).
		From("ledger_rows").
		Where(squirrel.Eq{"doc_id": docID}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	row, err := scanLedgerRow(r.db.QueryRow(ctx, sql, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return row, nil
}

func (r *PgLedgerRepository) List(ctx context.Context) ([]*models.LedgerRow, error) {
	query := squirrel.Select(ledgerColumns...).
		From("ledger_rows").
		OrderBy("seq ASC").
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*models.LedgerRow
	for rows.Next() {
		row, err := scanLedgerRow(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	r.logger.Debug("Loaded ledger rows", zap.Int("count", len(result)))
	return result, nil
}

// FindFirst uses the checksum and fingerprint indexes created by the migration.
func (r *PgLedgerRepository) FindFirst(ctx context.Context, column LedgerIndexColumn, value, excludeDocID string) (string, bool, error) {
	switch column {
	case IndexChecksum, IndexFingerprint:
	default:
		return "", false, fmt.Errorf("unsupported ledger index %q", column)
	}

	query := squirrel.Select("doc_id").
		From("ledger_rows").
		Where(squirrel.Eq{string(column): value}).
		Where(squirrel.NotEq{"doc_id": excludeDocID}).
		OrderBy("seq ASC").
		Limit(1).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return "", false, err
	}

	var docID string
	err = r.db.QueryRow(ctx, sql, args...).Scan(&docID)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to look up %s: %w", column, err)
	}
	return docID, true, nil
}

func scanLedgerRow(s pgx.Row) (*models.LedgerRow, error) {
	var row models.LedgerRow
	var fundType, status, dedupe string
	var flags []byte

	err := s.Scan(
		&row.DocID, &row.IssueDate, &row.DueDate, &row.Vendor, &row.InvoiceNumber, &row.Currency,
		&row.Subtotal, &row.TaxAmount, &row.GrandTotal, &row.ProjectCode, &row.GrantCode,
		&fundType, &row.CategoryPrimary, &status, &row.FiscalYear, &row.FilePath,
		&row.FileName, &dedupe, &row.Approver, &row.ApprovedAt, &row.Checksum,
		&row.Fingerprint, &row.ScoreConfidence, &flags, &row.IngestedAt, &row.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	row.FundType = models.FundType(fundType)
	row.Status = models.Status(status)
	row.DedupeStatus = models.DedupeStatus(dedupe)
	if err := json.Unmarshal(flags, &row.Flags); err != nil {
		return nil, fmt.Errorf("failed to decode flags for %s: %w", row.DocID, err)
	}
	return &row, nil
}

var (
	_ LedgerRepository = (*PgLedgerRepository)(nil)
	_ LedgerIndex      = (*PgLedgerRepository)(nil)
)
