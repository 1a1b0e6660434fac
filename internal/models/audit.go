package models

import (
	"time"
)

// AuditEntry is one pipeline step record. Entries are append-only.
type AuditEntry struct {
	Step      string    `json:"step"`
	Detail    string    `json:"detail"`
	Timestamp time.Time `json:"timestamp"`
}

type AuditEventType string

const (
	EventProcessed   AuditEventType = "processed"
	EventResubmitted AuditEventType = "resubmitted"
	EventTransition  AuditEventType = "status_transition"
	EventExported    AuditEventType = "exported"
)

// AuditEvent is a durable trail record, kept per document.
type AuditEvent struct {
	DocID     string         `json:"doc_id"`
	EventType AuditEventType `json:"event_type"`
	Actor     string         `json:"actor"`
	Details   map[string]any `json:"details"`
	Timestamp time.Time      `json:"timestamp"`
}
