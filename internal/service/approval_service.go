package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"ngo-filer/internal/models"

	"go.uber.org/zap"
)

var (
	ErrInvalidTransition   = errors.New("invalid status transition")
	ErrApproverRequired    = errors.New("approver name required for approval")
	ErrUnresolvedHighFlags = errors.New("cannot post document with high-severity validation flags")
	ErrDocumentPosted      = errors.New("document is posted and can no longer change")
)

// TransitionError reports a rejected status change. It unwraps to one of the
// sentinel errors above.
type TransitionError struct {
	From models.Status
	To   models.Status
	Err  error
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("transition %s -> %s: %v", e.From, e.To, e.Err)
}

func (e *TransitionError) Unwrap() error {
	return e.Err
}

// AvailableTransitions lists the legal targets from status, in a fixed order.
func AvailableTransitions(status models.Status) []models.Status {
	switch status {
	case models.StatusDraft:
		return []models.Status{models.StatusNeedsReview, models.StatusApproved}
	case models.StatusNeedsReview:
		return []models.Status{models.StatusDraft, models.StatusApproved}
	case models.StatusApproved:
		return []models.Status{models.StatusPosted}
	case models.StatusPosted:
		return []models.Status{}
	default:
		return []models.Status{}
	}
}

func CanTransition(from, to models.Status) bool {
	for _, s := range AvailableTransitions(from) {
		if s == to {
			return true
		}
	}
	return false
}

type ApprovalService struct {
	now    func() time.Time
	logger *zap.Logger
}

func NewApprovalService(logger *zap.Logger) *ApprovalService {
	return &ApprovalService{
		now:    time.Now,
		logger: logger,
	}
}

func (s *ApprovalService) WithClock(now func() time.Time) *ApprovalService {
	c := *s
	c.now = now
	return &c
}

// Transition applies a status change to info and returns the updated copy.
// Posting is refused while hasHighFlags is set, regardless of the table.
func (s *ApprovalService) Transition(info models.FilingInfo, hasHighFlags bool, to models.Status, approver string) (models.FilingInfo, error) {
	from := info.Status

	if !CanTransition(from, to) {
		return info, &TransitionError{From: from, To: to, Err: ErrInvalidTransition}
	}
	if to == models.StatusPosted && hasHighFlags {
		return info, &TransitionError{From: from, To: to, Err: ErrUnresolvedHighFlags}
	}

	next := info
	if to == models.StatusApproved {
		approver = strings.TrimSpace(approver)
		if approver == "" {
			return info, &TransitionError{From: from, To: to, Err: ErrApproverRequired}
		}
		at := s.now().UTC()
		next.Approver = approver
		next.ApprovedAt = &at
	}

	next.Status = to
	next.FileName = ReplaceFileNameStatus(info.FileName, to)

	s.logger.Info("Status transition applied",
		zap.String("from", string(from)),
		zap.String("to", string(to)),
		zap.String("file_name", next.FileName),
	)

	return next, nil
}
