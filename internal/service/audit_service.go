package service

import (
	"time"

	"go.uber.org/zap"

	"github.com/tabi-ops/tabi-api/internal/models"
	"github.com/tabi-ops/tabi-api/internal/store"
)

// appendLog records an audit entry inside an already-open store transaction.
// Services call it from their Update closures so the entry persists
// atomically with the change it describes.
func appendLog(st *store.State, actor, action, details string) {
	st.Logs = append(st.Logs, models.LogEntry{
		Timestamp: time.Now().UTC(),
		Actor:     actor,
		Action:    action,
		Details:   details,
	})
}

// AuditService reads the audit trail.
type AuditService struct {
	store  *store.Store
	logger *zap.Logger
}

func NewAuditService(st *store.Store, logger *zap.Logger) *AuditService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuditService{store: st, logger: logger}
}

// List returns audit entries newest first, capped at limit (0 means all).
func (s *AuditService) List(limit int) []models.LogEntry {
	var out []models.LogEntry
	s.store.View(func(st *store.State) {
		for i := len(st.Logs) - 1; i >= 0; i-- {
			out = append(out, st.Logs[i])
			if limit > 0 && len(out) >= limit {
				return
			}
		}
	})
	return out
}
