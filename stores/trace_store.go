package stores

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/grandhotel/concierge/models"
)

// ToolTraceRecord is one persisted tool invocation, indexed by session for
// audit queries.
type ToolTraceRecord struct {
	ID         uint      `gorm:"primarykey" json:"-"`
	CreatedAt  time.Time `json:"createdAt"`
	SessionID  string    `gorm:"index:idx_trace_session;not null" json:"sessionId"`
	TraceID    string    `json:"traceId,omitempty"`
	Tool       string    `gorm:"not null" json:"tool"`
	Status     string    `gorm:"not null" json:"status"` // OK, ERROR
	DurationMS int64     `json:"durationMs"`
}

// TraceStore persists the audit trail of tool invocations.
type TraceStore interface {
	// SaveTraces records the traces produced by one turn.
	SaveTraces(sessionID, traceID string, traces []models.ToolTrace) error

	// ListBySession returns all recorded traces for a session, oldest first.
	ListBySession(sessionID string) ([]ToolTraceRecord, error)

	// PurgeOlderThan deletes records created before the cutoff and reports
	// how many were removed.
	PurgeOlderThan(cutoff time.Time) (int64, error)

	Close() error
}

// GORMTraceStore implements TraceStore for SQLite/PostgreSQL via GORM.
type GORMTraceStore struct {
	db *gorm.DB
}

// NewGORMTraceStore creates a trace store from an existing GORM connection.
func NewGORMTraceStore(db *gorm.DB) (*GORMTraceStore, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	if err := db.AutoMigrate(&ToolTraceRecord{}); err != nil {
		return nil, fmt.Errorf("failed to migrate trace table: %w", err)
	}
	return &GORMTraceStore{db: db}, nil
}

func (s *GORMTraceStore) SaveTraces(sessionID, traceID string, traces []models.ToolTrace) error {
	if len(traces) == 0 {
		return nil
	}
	records := make([]ToolTraceRecord, len(traces))
	for i, t := range traces {
		records[i] = ToolTraceRecord{
			SessionID:  sessionID,
			TraceID:    traceID,
			Tool:       t.Name,
			Status:     t.Status,
			DurationMS: t.DurationMs,
		}
	}
	return s.db.Create(&records).Error
}

func (s *GORMTraceStore) ListBySession(sessionID string) ([]ToolTraceRecord, error) {
	var records []ToolTraceRecord
	err := s.db.Where("session_id = ?", sessionID).Order("id ASC").Find(&records).Error
	return records, err
}

func (s *GORMTraceStore) PurgeOlderThan(cutoff time.Time) (int64, error) {
	result := s.db.Where("created_at < ?", cutoff).Delete(&ToolTraceRecord{})
	return result.RowsAffected, result.Error
}

func (s *GORMTraceStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
