package models

import (
	"fmt"
	"time"
)

type Status string

const (
	StatusDraft       Status = "draft"
	StatusNeedsReview Status = "needs_review"
	StatusApproved    Status = "approved"
	StatusPosted      Status = "posted"
)

func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusDraft, StatusNeedsReview, StatusApproved, StatusPosted:
		return Status(s), nil
	default:
		return "", fmt.Errorf("unknown status %q", s)
	}
}

type FilingInfo struct {
	FolderPath string     `json:"folder_path"`
	FileName   string     `json:"file_name"`
	Status     Status     `json:"status"`
	Approver   string     `json:"approver,omitempty"`
	ApprovedAt *time.Time `json:"approved_at,omitempty"`
}

// ArchiveKey is the object key under which docID's filed document is archived.
// File names are not unique across documents, so the doc_id is a path segment.
func (f FilingInfo) ArchiveKey(docID string) string {
	if f.FolderPath == "" {
		return docID + "/" + f.FileName
	}
	return f.FolderPath + "/" + docID + "/" + f.FileName
}
