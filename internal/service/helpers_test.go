package service

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"ngo-filer/internal/models"
	"ngo-filer/internal/repository"
	"ngo-filer/pkg/config"
	"ngo-filer/pkg/lock"
	"ngo-filer/pkg/storage"

	"go.uber.org/zap"
)

var testNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return testNow }

func day(s string) *time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return &t
}

func ptr(f float64) *float64 { return &f }

// cleanFields is a well-formed invoice that raises no validation flags.
func cleanFields() *models.ParsedFields {
	return &models.ParsedFields{
		DocType: models.DocTypeInvoice,
		Vendor:  models.Vendor{DisplayName: "Acme Corp", TaxID: "US-99-1234567"},
		Invoice: models.InvoiceRef{Number: "INV-001"},
		Dates:   models.Dates{Issue: day("2024-03-15"), Due: day("2024-04-14")},
		Amounts: models.Amounts{
			Subtotal:   1500.00,
			TaxAmount:  255.00,
			TaxRate:    ptr(17),
			GrandTotal: 1755.00,
		},
		Currency:   "USD",
		Confidence: 0.95,
	}
}

type fakeLookup struct {
	checksum    map[string]string
	fingerprint map[string]string
}

func (f fakeLookup) FindByChecksum(key, exclude string) (string, bool) {
	id, ok := f.checksum[key]
	return id, ok && id != exclude
}

func (f fakeLookup) FindByFingerprint(key, exclude string) (string, bool) {
	id, ok := f.fingerprint[key]
	return id, ok && id != exclude
}

func flagsOf(flags []models.ValidationFlag, t models.FlagType, sev models.Severity) []models.ValidationFlag {
	var out []models.ValidationFlag
	for _, f := range flags {
		if f.Type == t && f.Severity == sev {
			out = append(out, f)
		}
	}
	return out
}

type testEnv struct {
	ledger   *LedgerService
	audit    *AuditService
	docs     *DocumentService
	archive  *storage.LocalStorage
	profile  *config.Profile
	ledgerFn string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()
	dir := t.TempDir()
	log := zap.NewNop()
	profile := config.DefaultProfile()

	ledgerPath := filepath.Join(dir, "ledger.json")
	ledgerRepo, err := repository.NewFileLedgerRepository(ledgerPath, log)
	if err != nil {
		t.Fatalf("NewFileLedgerRepository: %v", err)
	}
	auditRepo, err := repository.NewFileAuditRepository(filepath.Join(dir, "audit.jsonl"), log)
	if err != nil {
		t.Fatalf("NewFileAuditRepository: %v", err)
	}
	archive, err := storage.NewLocalStorage(filepath.Join(dir, "archive"), log)
	if err != nil {
		t.Fatalf("NewLocalStorage: %v", err)
	}

	ledger, err := NewLedgerService(ctx, ledgerRepo, lock.NewKeyedMutex(), NewApprovalService(log).WithClock(fixedClock), log)
	if err != nil {
		t.Fatalf("NewLedgerService: %v", err)
	}
	audit := NewAuditService(auditRepo, log)

	docs := NewDocumentService(
		NewValidationService(profile, log).WithClock(fixedClock),
		NewClassificationService(profile, log).WithClock(fixedClock),
		NewFilingService(profile, log).WithClock(fixedClock),
		ledger,
		audit,
		archive,
		log,
	).WithClock(fixedClock)

	return &testEnv{
		ledger:   ledger,
		audit:    audit,
		docs:     docs,
		archive:  archive,
		profile:  profile,
		ledgerFn: ledgerPath,
	}
}

func withHints(fields *models.ParsedFields) ProcessRequest {
	return ProcessRequest{
		Content:    []byte("%PDF-1.4 " + fields.Invoice.Number),
		SourceName: "scan.pdf",
		Fields:     fields,
		Hints:      models.Hints{ProjectCode: "EDU001", GrantCode: "GR2023"},
		Actor:      "tester",
	}
}
