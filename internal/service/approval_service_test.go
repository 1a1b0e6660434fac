package service

import (
	"errors"
	"reflect"
	"testing"

	"ngo-filer/internal/models"

	"go.uber.org/zap"
)

func newApproval() *ApprovalService {
	return NewApprovalService(zap.NewNop()).WithClock(fixedClock)
}

func draftInfo() models.FilingInfo {
	return models.FilingInfo{
		FolderPath: "2024-2025/NoProject/NoGrant/acme/Invoice",
		FileName:   "2024-03-15__acme__inv1__NOPROJ__NOGRANT__100USD__draft.pdf",
		Status:     models.StatusDraft,
	}
}

func TestAvailableTransitions(t *testing.T) {
	tests := map[models.Status][]models.Status{
		models.StatusDraft:       {models.StatusNeedsReview, models.StatusApproved},
		models.StatusNeedsReview: {models.StatusDraft, models.StatusApproved},
		models.StatusApproved:    {models.StatusPosted},
		models.StatusPosted:      {},
		"bogus":                  {},
	}
	for from, want := range tests {
		if got := AvailableTransitions(from); !reflect.DeepEqual(got, want) {
			t.Errorf("%s: expected %v, got %v", from, want, got)
		}
	}
}

func TestTransition_ApproveSetsApproverAndRenames(t *testing.T) {
	next, err := newApproval().Transition(draftInfo(), false, models.StatusApproved, "  Dana  ")
	if err != nil {
		t.Fatalf("Transition: %v", err)
	}
	if next.Status != models.StatusApproved || next.Approver != "Dana" {
		t.Fatalf("unexpected result %+v", next)
	}
	if next.ApprovedAt == nil || !next.ApprovedAt.Equal(testNow) {
		t.Fatalf("expected approved_at %v, got %v", testNow, next.ApprovedAt)
	}
	if next.FileName != "2024-03-15__acme__inv1__NOPROJ__NOGRANT__100USD__approved.pdf" {
		t.Fatalf("unexpected file name %q", next.FileName)
	}
	if next.FolderPath != draftInfo().FolderPath {
		t.Fatal("folder must not change on transition")
	}
}

func TestTransition_Rejections(t *testing.T) {
	approved := draftInfo()
	approved.Status = models.StatusApproved
	posted := draftInfo()
	posted.Status = models.StatusPosted

	tests := []struct {
		name     string
		info     models.FilingInfo
		high     bool
		to       models.Status
		approver string
		want     error
	}{
		{"draft to posted", draftInfo(), false, models.StatusPosted, "x", ErrInvalidTransition},
		{"draft to draft", draftInfo(), false, models.StatusDraft, "x", ErrInvalidTransition},
		{"posted is terminal", posted, false, models.StatusDraft, "x", ErrInvalidTransition},
		{"approval needs a name", draftInfo(), false, models.StatusApproved, "   ", ErrApproverRequired},
		{"high flags block posting", approved, true, models.StatusPosted, "", ErrUnresolvedHighFlags},
	}

	a := newApproval()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := a.Transition(tt.info, tt.high, tt.to, tt.approver)
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
			var te *TransitionError
			if !errors.As(err, &te) || te.From != tt.info.Status || te.To != tt.to {
				t.Fatalf("expected a TransitionError carrying from/to, got %#v", err)
			}
			if got != tt.info {
				t.Fatalf("rejected transition must leave info unchanged, got %+v", got)
			}
		})
	}
}

func TestTransition_PostKeepsApprover(t *testing.T) {
	a := newApproval()
	approved, err := a.Transition(draftInfo(), false, models.StatusApproved, "Dana")
	if err != nil {
		t.Fatalf("approve: %v", err)
	}

	posted, err := a.Transition(approved, false, models.StatusPosted, "")
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	if posted.Approver != "Dana" || posted.ApprovedAt == nil {
		t.Fatalf("posting must keep approval details, got %+v", posted)
	}
	if posted.FileName != "2024-03-15__acme__inv1__NOPROJ__NOGRANT__100USD__posted.pdf" {
		t.Fatalf("unexpected file name %q", posted.FileName)
	}
}
