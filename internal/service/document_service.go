package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"ngo-filer/internal/models"
	"ngo-filer/pkg/storage"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const defaultBatchLimit = 4

var ErrEmptyContent = errors.New("document content is required")

type ProcessRequest struct {
	Content    []byte
	SourceName string
	Fields     *models.ParsedFields
	Hints      models.Hints
	Actor      string
}

type BatchResult struct {
	Index    int
	Document *models.ProcessedDocument
	Err      error
}

type DocumentService struct {
	validation     *ValidationService
	classification *ClassificationService
	filing         *FilingService
	ledger         *LedgerService
	audit          *AuditService
	archive        storage.Storage
	batchLimit     int
	now            func() time.Time
	logger         *zap.Logger
}

// NewDocumentService wires the pipeline. archive may be nil, in which case
// only the ledger is written.
func NewDocumentService(
	validation *ValidationService,
	classification *ClassificationService,
	filing *FilingService,
	ledger *LedgerService,
	audit *AuditService,
	archive storage.Storage,
	logger *zap.Logger,
) *DocumentService {
	return &DocumentService{
		validation:     validation,
		classification: classification,
		filing:         filing,
		ledger:         ledger,
		audit:          audit,
		archive:        archive,
		batchLimit:     defaultBatchLimit,
		now:            time.Now,
		logger:         logger,
	}
}

func (s *DocumentService) WithClock(now func() time.Time) *DocumentService {
	c := *s
	c.now = now
	return &c
}

func (s *DocumentService) WithBatchLimit(n int) *DocumentService {
	c := *s
	if n > 0 {
		c.batchLimit = n
	}
	return &c
}

// Process files a new document under a fresh doc_id.
func (s *DocumentService) Process(ctx context.Context, req ProcessRequest) (*models.ProcessedDocument, error) {
	if len(req.Content) == 0 {
		return nil, ErrEmptyContent
	}
	if req.Fields == nil {
		return nil, fmt.Errorf("parsed fields are required")
	}

	docID := uuid.NewString()
	ingestedAt := s.now().UTC()
	var doc *models.ProcessedDocument

	_, err := s.ledger.Apply(ctx, docID, func(ctx context.Context, _ *models.LedgerRow) (*models.LedgerRow, func(), error) {
		doc = s.run(docID, ingestedAt, Checksum(req.Content), req)
		undo, err := s.store(ctx, doc.Row.ArchiveKey(), req.Content)
		if err != nil {
			return nil, nil, err
		}
		return doc.Row.Clone(), undo, nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Document processed",
		zap.String("doc_id", docID),
		zap.String("status", string(doc.Filing.Status)),
		zap.Int("flags", len(doc.Validation.Flags)),
		zap.String("dedupe", string(doc.Validation.DedupeStatus)),
	)
	s.logEvent(ctx, docID, models.EventProcessed, req.Actor, map[string]any{
		"file_name":     doc.Filing.FileName,
		"status":        string(doc.Filing.Status),
		"flags":         len(doc.Validation.Flags),
		"dedupe_status": string(doc.Validation.DedupeStatus),
	})
	return doc, nil
}

// Resubmit re-runs the pipeline for an existing doc_id with corrected fields,
// producing a fresh flag set. Empty content keeps the archived bytes. Posted
// documents are rejected and any prior approval is cleared.
func (s *DocumentService) Resubmit(ctx context.Context, docID string, req ProcessRequest) (*models.ProcessedDocument, error) {
	if req.Fields == nil {
		return nil, fmt.Errorf("parsed fields are required")
	}

	var doc *models.ProcessedDocument
	var oldKey string

	_, err := s.ledger.Apply(ctx, docID, func(ctx context.Context, current *models.LedgerRow) (*models.LedgerRow, func(), error) {
		if current == nil {
			return nil, nil, ErrDocumentNotFound
		}
		if current.Status == models.StatusPosted {
			return nil, nil, ErrDocumentPosted
		}

		checksum := current.Checksum
		if len(req.Content) > 0 {
			checksum = Checksum(req.Content)
		}
		if req.SourceName == "" {
			req.SourceName = current.FileName
		}

		doc = s.run(docID, current.IngestedAt, checksum, req)
		oldKey = current.ArchiveKey()
		newKey := doc.Row.ArchiveKey()

		var undo func()
		var err error
		if len(req.Content) > 0 {
			undo, err = s.replace(ctx, oldKey, newKey, req.Content)
		} else {
			undo, err = s.rename(ctx, oldKey, newKey)
		}
		if err != nil {
			return nil, nil, err
		}
		return doc.Row.Clone(), undo, nil
	})
	if err != nil {
		return nil, err
	}

	newKey := doc.Row.ArchiveKey()
	if s.archive != nil && len(req.Content) > 0 && oldKey != newKey {
		if err := s.archive.Delete(ctx, oldKey); err != nil {
			s.logger.Warn("Failed to remove superseded document", zap.String("key", oldKey), zap.Error(err))
		}
	}

	s.logger.Info("Document resubmitted",
		zap.String("doc_id", docID),
		zap.String("status", string(doc.Filing.Status)),
		zap.Int("flags", len(doc.Validation.Flags)),
	)
	s.logEvent(ctx, docID, models.EventResubmitted, req.Actor, map[string]any{
		"file_name": doc.Filing.FileName,
		"status":    string(doc.Filing.Status),
		"flags":     len(doc.Validation.Flags),
	})
	return doc, nil
}

// ProcessBatch processes documents concurrently with a bounded worker count.
// A failing document does not stop the others.
func (s *DocumentService) ProcessBatch(ctx context.Context, reqs []ProcessRequest) []BatchResult {
	results := make([]BatchResult, len(reqs))

	var g errgroup.Group
	g.SetLimit(s.batchLimit)
	for i := range reqs {
		i := i
		g.Go(func() error {
			doc, err := s.Process(ctx, reqs[i])
			results[i] = BatchResult{Index: i, Document: doc, Err: err}
			if err != nil {
				s.logger.Warn("Batch item failed", zap.Int("index", i), zap.String("source", reqs[i].SourceName), zap.Error(err))
			}
			return nil
		})
	}
	_ = g.Wait()

	return results
}

// Transition changes a document's status. For approval the actor is recorded
// as the approver.
func (s *DocumentService) Transition(ctx context.Context, docID string, to models.Status, actor string) (*models.LedgerRow, error) {
	before, err := s.ledger.Get(ctx, docID)
	if err != nil {
		return nil, err
	}

	approver := ""
	if to == models.StatusApproved {
		approver = actor
	}

	row, err := s.ledger.Transition(ctx, docID, to, approver, s.rename)
	if err != nil {
		return nil, err
	}

	s.logEvent(ctx, docID, models.EventTransition, actor, map[string]any{
		"from":      string(before.Status),
		"to":        string(row.Status),
		"file_name": row.FileName,
	})
	return row, nil
}

func (s *DocumentService) Get(ctx context.Context, docID string) (*models.LedgerRow, error) {
	return s.ledger.Get(ctx, docID)
}

func (s *DocumentService) AvailableTransitions(ctx context.Context, docID string) ([]models.Status, error) {
	row, err := s.ledger.Get(ctx, docID)
	if err != nil {
		return nil, err
	}
	return AvailableTransitions(row.Status), nil
}

func (s *DocumentService) Query(filters models.LedgerFilters) []*models.LedgerRow {
	return s.ledger.Query(filters)
}

func (s *DocumentService) SummaryStats() models.SummaryStats {
	return s.ledger.SummaryStats()
}

// OpenFiled returns the archived document and its current file name.
func (s *DocumentService) OpenFiled(ctx context.Context, docID string) (io.ReadCloser, string, error) {
	if s.archive == nil {
		return nil, "", storage.ErrNotFound
	}
	row, err := s.ledger.Get(ctx, docID)
	if err != nil {
		return nil, "", err
	}
	rc, err := s.archive.Get(ctx, row.ArchiveKey())
	if err != nil {
		return nil, "", err
	}
	return rc, row.FileName, nil
}

// run is the pure part of the pipeline: fingerprint, validate, classify, file.
func (s *DocumentService) run(docID string, ingestedAt time.Time, checksum string, req ProcessRequest) *models.ProcessedDocument {
	parsed := req.Fields

	audit := []models.AuditEntry{{
		Step: "parse",
		Detail: fmt.Sprintf("doc_type=%s, vendor=%q, line_items=%d, confidence=%.2f, unparsed=%d",
			parsed.DocType, parsed.Vendor.DisplayName, len(parsed.LineItems), parsed.Confidence, len(parsed.Unparsed)),
		Timestamp: s.now().UTC(),
	}}

	fields, normalized := s.classification.Normalize(parsed)
	audit = append(audit, normalized)

	fp := Fingerprint(fields.Vendor.DisplayName, fields.Dates.Issue, fields.Invoice.Number, fields.Amounts.GrandTotal)

	validation := s.validation.Validate(ValidationInput{
		DocID:       docID,
		Fields:      fields,
		Checksum:    checksum,
		Fingerprint: fp,
	}, s.ledger)
	audit = append(audit, validation.Audit...)

	cls := s.classification.Classify(fields, req.Hints)
	audit = append(audit, cls.Audit...)

	filing := s.filing.GenerateFilingInfo(fields, cls, validation, filepath.Ext(req.SourceName))
	audit = append(audit, filing.Audit...)

	doc := &models.ProcessedDocument{
		DocID:          docID,
		IngestedAt:     ingestedAt,
		SourceName:     req.SourceName,
		Fields:         fields,
		Validation:     validation,
		Classification: cls.Classification,
		Context:        cls.Context,
		Filing:         filing.Info,
		Audit:          audit,
	}
	doc.Row = ledgerRow(doc, s.now().UTC())
	doc.Summary = humanSummary(doc)
	return doc
}

func ledgerRow(doc *models.ProcessedDocument, updatedAt time.Time) *models.LedgerRow {
	f := doc.Fields
	issue := ""
	if f.Dates.Issue != nil {
		issue = f.Dates.Issue.Format("2006-01-02")
	}
	due := ""
	if f.Dates.Due != nil {
		due = f.Dates.Due.Format("2006-01-02")
	}

	return &models.LedgerRow{
		DocID:           doc.DocID,
		IssueDate:       issue,
		DueDate:         due,
		Vendor:          f.Vendor.DisplayName,
		InvoiceNumber:   f.Invoice.Number,
		Currency:        normalizeCurrency(f.Currency),
		Subtotal:        f.Amounts.Subtotal,
		TaxAmount:       f.Amounts.TaxAmount,
		GrandTotal:      f.Amounts.GrandTotal,
		ProjectCode:     doc.Context.ProjectCode,
		GrantCode:       doc.Context.GrantCode,
		FundType:        doc.Classification.FundType,
		CategoryPrimary: doc.Classification.CategoryPrimary,
		Status:          doc.Filing.Status,
		FiscalYear:      doc.Context.FiscalYear,
		FilePath:        doc.Filing.FolderPath,
		FileName:        doc.Filing.FileName,
		DedupeStatus:    doc.Validation.DedupeStatus,
		Checksum:        doc.Validation.Checksum,
		Fingerprint:     doc.Validation.Fingerprint,
		ScoreConfidence: doc.Validation.ConfidenceScore,
		Flags:           append([]models.ValidationFlag{}, doc.Validation.Flags...),
		IngestedAt:      doc.IngestedAt,
		UpdatedAt:       updatedAt,
	}
}

func humanSummary(doc *models.ProcessedDocument) string {
	f := doc.Fields
	date := "unknown date"
	if f.Dates.Issue != nil {
		date = f.Dates.Issue.Format("2006-01-02")
	}

	note := ""
	if n := len(doc.Validation.Flags); n > 0 {
		if high := models.CountSeverity(doc.Validation.Flags, models.SeverityHigh); high > 0 {
			note = fmt.Sprintf(" %d high-priority flag(s) require attention.", high)
		} else {
			note = fmt.Sprintf(" %d validation flag(s) noted.", n)
		}
	}

	vendor := strings.TrimSpace(f.Vendor.DisplayName)
	if vendor == "" {
		vendor = models.UnknownVendor
	}

	return fmt.Sprintf("%s from %s dated %s for %.2f %s, status: %s, project: %s, grant: %s.%s",
		f.DocType.Title(), vendor, date, f.Amounts.GrandTotal, normalizeCurrency(f.Currency),
		doc.Filing.Status, orUnassigned(doc.Context.ProjectCode), orUnassigned(doc.Context.GrantCode), note)
}

func orUnassigned(s string) string {
	if s == "" {
		return "unassigned"
	}
	return s
}

// store writes new content; undo deletes it again.
func (s *DocumentService) store(ctx context.Context, key string, content []byte) (func(), error) {
	if s.archive == nil {
		return nil, nil
	}
	if err := s.archive.Put(ctx, key, bytes.NewReader(content)); err != nil {
		return nil, fmt.Errorf("failed to archive document: %w", err)
	}
	return func() {
		if err := s.archive.Delete(context.Background(), key); err != nil {
			s.logger.Warn("Failed to roll back archived document", zap.String("key", key), zap.Error(err))
		}
	}, nil
}

// replace writes new content for a resubmission. When the key is unchanged the
// previous bytes are kept in memory so undo can restore them.
func (s *DocumentService) replace(ctx context.Context, oldKey, newKey string, content []byte) (func(), error) {
	if s.archive == nil {
		return nil, nil
	}
	if oldKey != newKey {
		return s.store(ctx, newKey, content)
	}

	var previous []byte
	if rc, err := s.archive.Get(ctx, oldKey); err == nil {
		previous, err = io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to read archived document: %w", err)
		}
	} else if !errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("failed to read archived document: %w", err)
	}

	if err := s.archive.Put(ctx, newKey, bytes.NewReader(content)); err != nil {
		return nil, fmt.Errorf("failed to archive document: %w", err)
	}
	return func() {
		var err error
		if previous == nil {
			err = s.archive.Delete(context.Background(), newKey)
		} else {
			err = s.archive.Put(context.Background(), newKey, bytes.NewReader(previous))
		}
		if err != nil {
			s.logger.Warn("Failed to roll back archived document", zap.String("key", newKey), zap.Error(err))
		}
	}, nil
}

// rename keeps the archived file's name in step with the ledger. A document
// that was never archived is not an error.
func (s *DocumentService) rename(ctx context.Context, fromKey, toKey string) (func(), error) {
	if s.archive == nil || fromKey == toKey {
		return nil, nil
	}
	if err := s.archive.Move(ctx, fromKey, toKey); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.logger.Warn("Filed document missing from archive", zap.String("key", fromKey))
			return nil, nil
		}
		return nil, err
	}
	return func() {
		if err := s.archive.Move(context.Background(), toKey, fromKey); err != nil {
			s.logger.Error("Failed to roll back document rename", zap.String("from", toKey), zap.String("to", fromKey), zap.Error(err))
		}
	}, nil
}

func (s *DocumentService) logEvent(ctx context.Context, docID string, eventType models.AuditEventType, actor string, details map[string]any) {
	if s.audit == nil {
		return
	}
	if err := s.audit.Log(ctx, docID, eventType, actor, details); err != nil {
		s.logger.Error("Audit trail write failed", zap.String("doc_id", docID), zap.Error(err))
	}
}
