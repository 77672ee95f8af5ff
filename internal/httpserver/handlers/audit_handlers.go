package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"salesadmin/internal/models"
)

// recordAudit writes an audit trail row. Auditing is best-effort and never
// fails the request that triggered it.
func recordAudit(db *gorm.DB, username, action string, metadata map[string]any) {
	b, err := json.Marshal(metadata)
	if err != nil || metadata == nil {
		b = []byte("{}")
	}
	_ = db.Create(&models.AuditLog{
		Username: username,
		Action:   action,
		Metadata: models.JSONB(b),
	}).Error
}

// ListAuditLogs returns the most recent audit entries, optionally narrowed
// to one username.
func ListAuditLogs(db *gorm.DB, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := db.Order("created_at desc").Limit(200)
		if u := r.URL.Query().Get("username"); u != "" {
			q = q.Where("username = ?", u)
		}
		var logs []models.AuditLog
		if err := q.Find(&logs).Error; err != nil {
			respondDBError(w, err)
			return
		}
		respondJSON(w, logs)
	}
}
