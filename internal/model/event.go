package model

import "time"

// ChangeType identifies the kind of mutation behind a change event.
type ChangeType string

const (
	ChangeCreated ChangeType = "created"
	ChangeUpdated ChangeType = "updated"
	ChangeDeleted ChangeType = "deleted"
)

// ChangeEvent describes a collection mutation for best-effort remote sync.
type ChangeEvent struct {
	Type       ChangeType `json:"type"`
	TenantID   string     `json:"tenant_id"`
	Collection string     `json:"collection"`
	RecordID   string     `json:"record_id"`
	Record     Record     `json:"record,omitempty"`
	OccurredAt time.Time  `json:"occurred_at"`
}
