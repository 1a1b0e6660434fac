package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"ngo-filer/internal/models"
	"ngo-filer/internal/repository"
	"ngo-filer/pkg/lock"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var ErrDocumentNotFound = errors.New("document not found")

const refreshTimeout = 5 * time.Second

// Mutation computes the next version of a row from the current one (nil when
// the doc_id is new). undo, when set, is called if persisting next fails.
type Mutation func(ctx context.Context, current *models.LedgerRow) (next *models.LedgerRow, undo func(), err error)

// RenameHook is called before a transition is persisted, with the old and new
// storage keys of the filed document.
type RenameHook func(ctx context.Context, fromKey, toKey string) (undo func(), err error)

// LedgerService is the in-memory view of the ledger over a durable repository.
// Writers on the same doc_id are serialized by the locker; a write reaches
// memory only after the repository accepted it.
//
// With a shared repository other instances write too, so reads refresh the
// view first and duplicate lookups go to the repository's index when it has one.
type LedgerService struct {
	repo     repository.LedgerRepository
	locker   lock.Locker
	approval *ApprovalService
	now      func() time.Time
	logger   *zap.Logger
	shared   bool

	// persistMu orders repository writes with their commit to memory.
	persistMu sync.Mutex

	mu            sync.RWMutex
	rows          []*models.LedgerRow
	pos           map[string]int
	byChecksum    map[string][]int
	byFingerprint map[string][]int
}

type LedgerOption func(*LedgerService)

// WithSharedRepository marks the repository as written by other instances.
func WithSharedRepository() LedgerOption {
	return func(s *LedgerService) {
		s.shared = true
	}
}

func NewLedgerService(
	ctx context.Context,
	repo repository.LedgerRepository,
	locker lock.Locker,
	approval *ApprovalService,
	logger *zap.Logger,
	opts ...LedgerOption,
) (*LedgerService, error) {
	s := &LedgerService{
		repo:     repo,
		locker:   locker,
		approval: approval,
		now:      time.Now,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	if err := s.Reload(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// Reload replaces the in-memory view with the repository contents.
func (s *LedgerService) Reload(ctx context.Context) error {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to load ledger: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.rows = make([]*models.LedgerRow, 0, len(rows))
	s.pos = make(map[string]int, len(rows))
	s.byChecksum = make(map[string][]int)
	s.byFingerprint = make(map[string][]int)
	for _, row := range rows {
		i := len(s.rows)
		s.rows = append(s.rows, row)
		s.pos[row.DocID] = i
		s.index(row, i)
	}
	return nil
}

// AddEntry upserts row by doc_id.
func (s *LedgerService) AddEntry(ctx context.Context, row *models.LedgerRow) error {
	_, err := s.Apply(ctx, row.DocID, func(ctx context.Context, _ *models.LedgerRow) (*models.LedgerRow, func(), error) {
		return row.Clone(), nil, nil
	})
	return err
}

// Apply runs m under the doc_id lock, persists its result, then commits it to memory.
func (s *LedgerService) Apply(ctx context.Context, docID string, m Mutation) (*models.LedgerRow, error) {
	unlock, err := s.locker.Lock(ctx, docID)
	if err != nil {
		return nil, fmt.Errorf("failed to lock document %s: %w", docID, err)
	}
	defer unlock()

	current, err := s.fresh(ctx, docID)
	if err != nil {
		return nil, err
	}

	next, undo, err := m(ctx, current)
	if err != nil {
		return nil, err
	}
	if next == nil {
		if undo != nil {
			undo()
		}
		return nil, fmt.Errorf("mutation for %s returned no row", docID)
	}
	if next.DocID != docID {
		return nil, fmt.Errorf("mutation changed doc_id %s to %s", docID, next.DocID)
	}
	if next.UpdatedAt.IsZero() {
		next.UpdatedAt = s.now().UTC()
	}

	s.persistMu.Lock()
	defer s.persistMu.Unlock()

	if err := s.repo.Upsert(ctx, next); err != nil {
		if undo != nil {
			undo()
		}
		s.logger.Error("Ledger persist failed", zap.String("doc_id", docID), zap.Error(err))
		return nil, fmt.Errorf("failed to persist ledger row: %w", err)
	}

	s.commit(next)
	return next.Clone(), nil
}

// Transition moves a row through the approval state machine and rewrites its
// file name. onRename may be nil.
func (s *LedgerService) Transition(ctx context.Context, docID string, to models.Status, approver string, onRename RenameHook) (*models.LedgerRow, error) {
	return s.Apply(ctx, docID, func(ctx context.Context, current *models.LedgerRow) (*models.LedgerRow, func(), error) {
		if current == nil {
			return nil, nil, ErrDocumentNotFound
		}

		info, err := s.approval.Transition(current.Filing(), current.HasHighFlags(), to, approver)
		if err != nil {
			return nil, nil, err
		}

		next := current.Clone()
		next.Status = info.Status
		next.FileName = info.FileName
		next.Approver = info.Approver
		next.ApprovedAt = info.ApprovedAt
		next.UpdatedAt = s.now().UTC()

		var undo func()
		if onRename != nil {
			undo, err = onRename(ctx, current.ArchiveKey(), next.ArchiveKey())
			if err != nil {
				return nil, nil, fmt.Errorf("failed to rename filed document: %w", err)
			}
		}
		return next, undo, nil
	})
}

// Get returns a copy of the row, reading through to the repository when the
// row is not in memory yet.
func (s *LedgerService) Get(ctx context.Context, docID string) (*models.LedgerRow, error) {
	if s.shared {
		return s.get(ctx, docID)
	}

	s.mu.RLock()
	i, ok := s.pos[docID]
	var row *models.LedgerRow
	if ok {
		row = s.rows[i].Clone()
	}
	s.mu.RUnlock()
	if ok {
		return row, nil
	}
	return s.get(ctx, docID)
}

func (s *LedgerService) get(ctx context.Context, docID string) (*models.LedgerRow, error) {
	row, err := s.repo.Get(ctx, docID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrDocumentNotFound
	}
	if err != nil {
		return nil, err
	}
	return row, nil
}

// fresh reads the authoritative row from the repository; nil when absent.
func (s *LedgerService) fresh(ctx context.Context, docID string) (*models.LedgerRow, error) {
	row, err := s.repo.Get(ctx, docID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read ledger row %s: %w", docID, err)
	}
	return row, nil
}

// Query returns copies of matching rows in insertion order.
func (s *LedgerService) Query(filters models.LedgerFilters) []*models.LedgerRow {
	s.refresh()

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.LedgerRow, 0, len(s.rows))
	for _, row := range s.rows {
		if filters.Match(row) {
			out = append(out, row.Clone())
		}
	}
	return out
}

func (s *LedgerService) All() []*models.LedgerRow {
	return s.Query(models.LedgerFilters{})
}

// SummaryStats aggregates the whole ledger; sums are rounded to cents.
func (s *LedgerService) SummaryStats() models.SummaryStats {
	s.refresh()

	s.mu.RLock()
	defer s.mu.RUnlock()

	total := decimal.Zero
	byStatus := make(map[string]int)
	byProject := make(map[string]decimal.Decimal)
	byFY := make(map[string]decimal.Decimal)

	for _, row := range s.rows {
		amount := decimal.NewFromFloat(row.GrandTotal)
		total = total.Add(amount)
		byStatus[string(row.Status)]++

		project := row.ProjectCode
		if project == "" {
			project = "NoProject"
		}
		byProject[project] = byProject[project].Add(amount)

		fy := row.FiscalYear
		if fy == "" {
			fy = "Unknown"
		}
		byFY[fy] = byFY[fy].Add(amount)
	}

	return models.SummaryStats{
		TotalDocuments: len(s.rows),
		TotalAmount:    roundCents(total),
		ByStatus:       byStatus,
		ByProject:      roundAll(byProject),
		ByFiscalYear:   roundAll(byFY),
	}
}

// FindByChecksum returns the earliest row with this checksum other than excludeDocID.
func (s *LedgerService) FindByChecksum(checksum, excludeDocID string) (string, bool) {
	return s.find(repository.IndexChecksum, checksum, excludeDocID)
}

func (s *LedgerService) FindByFingerprint(fingerprint, excludeDocID string) (string, bool) {
	return s.find(repository.IndexFingerprint, fingerprint, excludeDocID)
}

func (s *LedgerService) find(column repository.LedgerIndexColumn, key, exclude string) (string, bool) {
	if key == "" {
		return "", false
	}

	if s.shared {
		if index, ok := s.repo.(repository.LedgerIndex); ok {
			ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
			defer cancel()
			id, found, err := index.FindFirst(ctx, column, key, exclude)
			if err == nil {
				return id, found
			}
			s.logger.Warn("Ledger index lookup failed, using cached view", zap.String("index", string(column)), zap.Error(err))
		} else {
			s.refresh()
		}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	idx := s.byChecksum
	if column == repository.IndexFingerprint {
		idx = s.byFingerprint
	}
	for _, i := range idx[key] {
		if id := s.rows[i].DocID; id != exclude {
			return id, true
		}
	}
	return "", false
}

// refresh reloads a shared view before a read. On failure the cached view is
// served.
func (s *LedgerService) refresh() {
	if !s.shared {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
	defer cancel()
	if err := s.Reload(ctx); err != nil {
		s.logger.Warn("Ledger refresh failed, using cached view", zap.Error(err))
	}
}

func (s *LedgerService) commit(row *models.LedgerRow) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := row.Clone()
	if i, ok := s.pos[row.DocID]; ok {
		s.unindex(s.rows[i], i)
		s.rows[i] = stored
		s.index(stored, i)
		return
	}

	i := len(s.rows)
	s.rows = append(s.rows, stored)
	s.pos[row.DocID] = i
	s.index(stored, i)
}

func (s *LedgerService) index(row *models.LedgerRow, i int) {
	if row.Checksum != "" {
		s.byChecksum[row.Checksum] = insertSorted(s.byChecksum[row.Checksum], i)
	}
	if row.Fingerprint != "" {
		s.byFingerprint[row.Fingerprint] = insertSorted(s.byFingerprint[row.Fingerprint], i)
	}
}

func (s *LedgerService) unindex(row *models.LedgerRow, i int) {
	s.byChecksum[row.Checksum] = removeValue(s.byChecksum[row.Checksum], i)
	if len(s.byChecksum[row.Checksum]) == 0 {
		delete(s.byChecksum, row.Checksum)
	}
	s.byFingerprint[row.Fingerprint] = removeValue(s.byFingerprint[row.Fingerprint], i)
	if len(s.byFingerprint[row.Fingerprint]) == 0 {
		delete(s.byFingerprint, row.Fingerprint)
	}
}

func insertSorted(xs []int, v int) []int {
	i := sort.SearchInts(xs, v)
	if i < len(xs) && xs[i] == v {
		return xs
	}
	xs = append(xs, 0)
	copy(xs[i+1:], xs[i:])
	xs[i] = v
	return xs
}

func removeValue(xs []int, v int) []int {
	i := sort.SearchInts(xs, v)
	if i < len(xs) && xs[i] == v {
		return append(xs[:i], xs[i+1:]...)
	}
	return xs
}

func roundCents(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}

func roundAll(m map[string]decimal.Decimal) map[string]float64 {
	out := make(map[string]float64, len(m))
	for k, v := range m {
		out[k] = roundCents(v)
	}
	return out
}

var _ DuplicateLookup = (*LedgerService)(nil)
