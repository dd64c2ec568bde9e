package models

import "time"

// Audit action labels.
const (
	AuditActionLogin         = "LOGIN"
	AuditActionRecordCreate  = "RECORD_CREATE"
	AuditActionRecordUpdate  = "RECORD_UPDATE"
	AuditActionRecordRemove  = "RECORD_REMOVE"
	AuditActionPublish       = "PUBLISH"
	AuditActionImport        = "IMPORT"
	AuditActionExport        = "EXPORT"
	AuditActionValidateGroup = "VALIDATE_GROUP"
	AuditActionAllocate      = "ALLOCATE"
	AuditActionSimulate      = "SIMULATE"
	AuditActionEditHE        = "EDIT_HE"
	AuditActionRemoveHE      = "REMOVE_HE"
	AuditActionRosterAdd     = "ROSTER_ADD"
	AuditActionReset         = "RESET"
)

// LogEntry is one append-only audit record.
type LogEntry struct {
	Timestamp time.Time `json:"timestamp"`
	Actor     string    `json:"user"`
	Action    string    `json:"action"`
	Details   string    `json:"details"`
}
