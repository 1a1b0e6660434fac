package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"ngo-filer/internal/models"
)

func readArchived(t *testing.T, env *testEnv, key string) string {
	t.Helper()
	rc, err := env.archive.Get(context.Background(), key)
	if err != nil {
		t.Fatalf("archive get %s: %v", key, err)
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("read %s: %v", key, err)
	}
	return string(data)
}

func archived(t *testing.T, env *testEnv, key string) bool {
	t.Helper()
	ok, err := env.archive.Exists(context.Background(), key)
	if err != nil {
		t.Fatalf("archive exists %s: %v", key, err)
	}
	return ok
}

func TestProcess_FilesAndArchivesDocument(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	doc, err := env.docs.Process(ctx, withHints(cleanFields()))
	if err != nil {
		t.Fatalf("Process: %v", err)
	}

	if doc.DocID == "" || !doc.IngestedAt.Equal(testNow) {
		t.Fatalf("unexpected identity %q %v", doc.DocID, doc.IngestedAt)
	}
	if doc.Filing.FileName != "2024-03-15__acme_corp__inv001__EDU001__GR2023__1755USD__draft.pdf" {
		t.Fatalf("unexpected file name %q", doc.Filing.FileName)
	}
	if doc.Validation.DedupeStatus != models.DedupeUnique || len(doc.Validation.Flags) != 0 {
		t.Fatalf("expected a clean unique document, got %+v", doc.Validation)
	}

	want := "Invoice from Acme Corp dated 2024-03-15 for 1755.00 USD, status: draft, project: EDU001, grant: GR2023."
	if doc.Summary != want {
		t.Fatalf("summary:\n got %q\nwant %q", doc.Summary, want)
	}

	if got := readArchived(t, env, doc.Row.ArchiveKey()); got != "%PDF-1.4 INV-001" {
		t.Fatalf("unexpected archived content %q", got)
	}

	row, err := env.docs.Get(ctx, doc.DocID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if row.Checksum != Checksum([]byte("%PDF-1.4 INV-001")) || row.FileName != doc.Filing.FileName {
		t.Fatalf("ledger row out of step with document: %+v", row)
	}
}

func TestProcess_AuditTrailSteps(t *testing.T) {
	env := newTestEnv(t)

	doc, err := env.docs.Process(context.Background(), withHints(cleanFields()))
	if err != nil {
		t.Fatalf("Process: %v", err)
	}

	steps := make([]string, len(doc.Audit))
	for i, e := range doc.Audit {
		steps[i] = e.Step
	}
	if steps[0] != "parse" || steps[len(steps)-1] != "file" {
		t.Fatalf("expected parse first and file last, got %v", steps)
	}
	joined := strings.Join(steps, ",")
	if !strings.Contains(joined, "validate,classify,file") {
		t.Fatalf("expected validate then classify then file, got %v", steps)
	}
}

func TestProcess_SecondCopyIsDuplicate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	first, err := env.docs.Process(ctx, withHints(cleanFields()))
	if err != nil {
		t.Fatalf("first: %v", err)
	}
	second, err := env.docs.Process(ctx, withHints(cleanFields()))
	if err != nil {
		t.Fatalf("second: %v", err)
	}

	if second.Validation.DedupeStatus != models.DedupeDuplicate {
		t.Fatalf("expected duplicate, got %s", second.Validation.DedupeStatus)
	}
	dups := flagsOf(second.Validation.Flags, models.FlagDuplicate, models.SeverityHigh)
	if len(dups) != 1 || !strings.Contains(dups[0].Message, first.DocID) {
		t.Fatalf("expected a duplicate flag naming %s, got %+v", first.DocID, second.Validation.Flags)
	}
	if second.Filing.Status != models.StatusNeedsReview {
		t.Fatalf("expected needs_review, got %s", second.Filing.Status)
	}
	if !strings.HasSuffix(second.Summary, " 1 high-priority flag(s) require attention.") {
		t.Fatalf("unexpected summary %q", second.Summary)
	}
	if len(env.docs.Query(models.LedgerFilters{})) != 2 {
		t.Fatal("both documents should be in the ledger")
	}
}

func TestProcess_SameFingerprintDifferentBytes(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	if _, err := env.docs.Process(ctx, withHints(cleanFields())); err != nil {
		t.Fatalf("first: %v", err)
	}
	rescan := withHints(cleanFields())
	rescan.Content = []byte("rescanned bytes")
	rescan.Fields.Vendor.DisplayName = "ACME CORP."

	doc, err := env.docs.Process(ctx, rescan)
	if err != nil {
		t.Fatalf("second: %v", err)
	}
	if doc.Validation.DedupeStatus != models.DedupeSuspectedDuplicate {
		t.Fatalf("expected suspected_duplicate, got %s", doc.Validation.DedupeStatus)
	}
}

func TestProcess_SameFileNameKeepsSeparateArchives(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	process := func(content string) *models.ProcessedDocument {
		t.Helper()
		req := withHints(cleanFields())
		req.Fields.Confidence = 0.6
		req.Content = []byte(content)
		doc, err := env.docs.Process(ctx, req)
		if err != nil {
			t.Fatalf("Process %q: %v", content, err)
		}
		return doc
	}
	open := func(docID string) string {
		t.Helper()
		rc, _, err := env.docs.OpenFiled(ctx, docID)
		if err != nil {
			t.Fatalf("OpenFiled %s: %v", docID, err)
		}
		defer rc.Close()
		data, _ := io.ReadAll(rc)
		return string(data)
	}

	a := process("ORIGINAL SCAN A")
	b := process("RESCAN B")
	if a.Filing.FileName != b.Filing.FileName {
		t.Fatalf("expected both documents to share a file name, got %q and %q", a.Filing.FileName, b.Filing.FileName)
	}
	if a.Row.ArchiveKey() == b.Row.ArchiveKey() {
		t.Fatalf("documents share archive key %q", a.Row.ArchiveKey())
	}
	if got := open(a.DocID); got != "ORIGINAL SCAN A" {
		t.Fatalf("first document content overwritten: %q", got)
	}

	if _, err := env.docs.Transition(ctx, a.DocID, models.StatusDraft, "dana"); err != nil {
		t.Fatalf("Transition: %v", err)
	}
	if got := open(b.DocID); got != "RESCAN B" {
		t.Fatalf("second document disturbed by the first's rename: %q", got)
	}
	if got := open(a.DocID); got != "ORIGINAL SCAN A" {
		t.Fatalf("renamed document lost its content: %q", got)
	}
}

func TestProcess_VendorAliasesShareFingerprint(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	first := withHints(cleanFields())
	first.Fields.Vendor.DisplayName = "Acme Corporation"
	a, err := env.docs.Process(ctx, first)
	if err != nil {
		t.Fatalf("first: %v", err)
	}

	alias := withHints(cleanFields())
	alias.Fields.Vendor.DisplayName = "ACME CO"
	alias.Content = []byte("second scan")
	b, err := env.docs.Process(ctx, alias)
	if err != nil {
		t.Fatalf("second: %v", err)
	}

	if b.Fields.Vendor.DisplayName != "Acme Corporation" || b.Row.Vendor != "Acme Corporation" {
		t.Fatalf("expected the canonical vendor, got %q", b.Row.Vendor)
	}
	if b.Validation.Fingerprint != a.Validation.Fingerprint {
		t.Fatal("aliased vendor should produce the same fingerprint")
	}
	if b.Validation.DedupeStatus != models.DedupeSuspectedDuplicate {
		t.Fatalf("expected suspected_duplicate, got %s", b.Validation.DedupeStatus)
	}
	if alias.Fields.Vendor.DisplayName != "ACME CO" {
		t.Fatal("the caller's fields must not be rewritten")
	}
}

func TestProcess_RejectsEmptyInput(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	req := withHints(cleanFields())
	req.Content = nil
	if _, err := env.docs.Process(ctx, req); !errors.Is(err, ErrEmptyContent) {
		t.Fatalf("expected ErrEmptyContent, got %v", err)
	}

	req = withHints(cleanFields())
	req.Fields = nil
	if _, err := env.docs.Process(ctx, req); err == nil {
		t.Fatal("expected an error for missing fields")
	}
	if len(env.ledger.All()) != 0 {
		t.Fatal("rejected input must not reach the ledger")
	}
}

func TestResubmit_ReplacesFlagsAndKeepsIdentity(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	bad := cleanFields()
	bad.Amounts.GrandTotal = 2000
	first, err := env.docs.Process(ctx, withHints(bad))
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if first.Filing.Status != models.StatusNeedsReview {
		t.Fatalf("expected needs_review, got %s", first.Filing.Status)
	}

	fixed := withHints(cleanFields())
	fixed.Content = nil
	doc, err := env.docs.Resubmit(ctx, first.DocID, fixed)
	if err != nil {
		t.Fatalf("Resubmit: %v", err)
	}

	if doc.DocID != first.DocID || !doc.IngestedAt.Equal(first.IngestedAt) {
		t.Fatal("resubmission must keep doc_id and ingestion time")
	}
	if len(doc.Validation.Flags) != 0 || doc.Filing.Status != models.StatusDraft {
		t.Fatalf("expected fresh clean result, got %s %+v", doc.Filing.Status, doc.Validation.Flags)
	}
	if doc.Validation.DedupeStatus != models.DedupeUnique {
		t.Fatalf("a resubmitted document must not match itself, got %s", doc.Validation.DedupeStatus)
	}
	if doc.Validation.Checksum != first.Validation.Checksum {
		t.Fatal("empty content should keep the original checksum")
	}

	if archived(t, env, first.Row.ArchiveKey()) {
		t.Fatal("old archive key should be gone")
	}
	if got := readArchived(t, env, doc.Row.ArchiveKey()); got != "%PDF-1.4 INV-001" {
		t.Fatalf("archived bytes should follow the rename, got %q", got)
	}
	if len(env.ledger.All()) != 1 {
		t.Fatal("resubmission must not add a ledger row")
	}
}

func TestResubmit_NewContentReplacesArchive(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	first, err := env.docs.Process(ctx, withHints(cleanFields()))
	if err != nil {
		t.Fatalf("Process: %v", err)
	}

	req := withHints(cleanFields())
	req.Content = []byte("better scan")
	doc, err := env.docs.Resubmit(ctx, first.DocID, req)
	if err != nil {
		t.Fatalf("Resubmit: %v", err)
	}
	if doc.Row.ArchiveKey() != first.Row.ArchiveKey() {
		t.Fatalf("expected the same key, got %q", doc.Row.ArchiveKey())
	}
	if got := readArchived(t, env, doc.Row.ArchiveKey()); got != "better scan" {
		t.Fatalf("expected replaced content, got %q", got)
	}
	if doc.Validation.Checksum != Checksum([]byte("better scan")) {
		t.Fatal("checksum should follow the new content")
	}
}

func TestResubmit_UnknownDocument(t *testing.T) {
	env := newTestEnv(t)
	if _, err := env.docs.Resubmit(context.Background(), "missing", withHints(cleanFields())); !errors.Is(err, ErrDocumentNotFound) {
		t.Fatalf("expected ErrDocumentNotFound, got %v", err)
	}
}

func TestTransition_ApprovalLifecycle(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	doc, err := env.docs.Process(ctx, withHints(cleanFields()))
	if err != nil {
		t.Fatalf("Process: %v", err)
	}

	approved, err := env.docs.Transition(ctx, doc.DocID, models.StatusApproved, "dana")
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if approved.Approver != "dana" || approved.ApprovedAt == nil {
		t.Fatalf("expected approval details, got %+v", approved)
	}
	if !strings.HasSuffix(approved.FileName, "__approved.pdf") {
		t.Fatalf("unexpected file name %q", approved.FileName)
	}
	if archived(t, env, doc.Row.ArchiveKey()) || !archived(t, env, approved.ArchiveKey()) {
		t.Fatal("archived file should be renamed with the status")
	}

	posted, err := env.docs.Transition(ctx, doc.DocID, models.StatusPosted, "erin")
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	if posted.Approver != "dana" {
		t.Fatalf("posting must not change the approver, got %q", posted.Approver)
	}

	if _, err := env.docs.Resubmit(ctx, doc.DocID, withHints(cleanFields())); !errors.Is(err, ErrDocumentPosted) {
		t.Fatalf("expected ErrDocumentPosted, got %v", err)
	}
	if _, err := env.docs.Transition(ctx, doc.DocID, models.StatusDraft, "dana"); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}

	events, err := env.audit.History(ctx, doc.DocID)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	types := make([]models.AuditEventType, len(events))
	for i, e := range events {
		types[i] = e.EventType
	}
	want := []models.AuditEventType{models.EventProcessed, models.EventTransition, models.EventTransition}
	if len(types) != len(want) {
		t.Fatalf("expected %v, got %v", want, types)
	}
	for i := range want {
		if types[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, types)
		}
	}
	if events[1].Details["from"] != "draft" || events[1].Details["to"] != "approved" {
		t.Fatalf("unexpected transition details %+v", events[1].Details)
	}
}

func TestTransition_HighFlagsBlockPosting(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	bad := cleanFields()
	bad.Amounts.GrandTotal = 2000
	doc, err := env.docs.Process(ctx, withHints(bad))
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if _, err := env.docs.Transition(ctx, doc.DocID, models.StatusApproved, "dana"); err != nil {
		t.Fatalf("approve: %v", err)
	}
	if _, err := env.docs.Transition(ctx, doc.DocID, models.StatusPosted, "dana"); !errors.Is(err, ErrUnresolvedHighFlags) {
		t.Fatalf("expected ErrUnresolvedHighFlags, got %v", err)
	}
	row, _ := env.docs.Get(ctx, doc.DocID)
	if row.Status != models.StatusApproved {
		t.Fatalf("status must stay approved, got %s", row.Status)
	}
}

func TestProcessBatch_IsolatesFailures(t *testing.T) {
	env := newTestEnv(t)
	docs := env.docs.WithBatchLimit(2)

	reqs := make([]ProcessRequest, 4)
	for i := range reqs {
		f := cleanFields()
		f.Invoice.Number = "INV-00" + string(rune('1'+i))
		reqs[i] = withHints(f)
	}
	reqs[2].Fields = nil

	results := docs.ProcessBatch(context.Background(), reqs)
	if len(results) != len(reqs) {
		t.Fatalf("expected %d results, got %d", len(reqs), len(results))
	}
	for i, res := range results {
		if res.Index != i {
			t.Fatalf("result %d carries index %d", i, res.Index)
		}
		if i == 2 {
			if res.Err == nil {
				t.Fatal("expected item 2 to fail")
			}
			continue
		}
		if res.Err != nil || res.Document == nil {
			t.Fatalf("item %d: unexpected error %v", i, res.Err)
		}
	}
	if n := len(env.ledger.All()); n != 3 {
		t.Fatalf("expected 3 ledger rows, got %d", n)
	}
}

func TestOpenFiled(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	doc, err := env.docs.Process(ctx, withHints(cleanFields()))
	if err != nil {
		t.Fatalf("Process: %v", err)
	}

	rc, name, err := env.docs.OpenFiled(ctx, doc.DocID)
	if err != nil {
		t.Fatalf("OpenFiled: %v", err)
	}
	defer rc.Close()
	data, _ := io.ReadAll(rc)
	if string(data) != "%PDF-1.4 INV-001" || name != doc.Filing.FileName {
		t.Fatalf("unexpected file %q %q", name, data)
	}

	if _, _, err := env.docs.OpenFiled(ctx, "missing"); !errors.Is(err, ErrDocumentNotFound) {
		t.Fatalf("expected ErrDocumentNotFound, got %v", err)
	}
}

func TestHumanSummary_Fallbacks(t *testing.T) {
	fields := cleanFields()
	fields.DocType = models.DocTypeCreditNote
	fields.Vendor.DisplayName = " "
	fields.Dates.Issue = nil
	fields.Currency = "eur"

	doc := &models.ProcessedDocument{
		Fields:     fields,
		Validation: models.ValidationResult{Flags: []models.ValidationFlag{{Severity: models.SeverityLow}, {Severity: models.SeverityMedium}}},
		Filing:     models.FilingInfo{Status: models.StatusNeedsReview},
	}

	want := "Credit_Note from Unknown Vendor dated unknown date for 1755.00 EUR, status: needs_review, project: unassigned, grant: unassigned. 2 validation flag(s) noted."
	if got := humanSummary(doc); got != want {
		t.Fatalf("summary:\n got %q\nwant %q", got, want)
	}
}
