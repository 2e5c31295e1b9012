package journal

import (
	"context"
	"errors"
	"fmt"

	"github.com/SAP-F-2025/session-service/internal/models"
	"github.com/SAP-F-2025/session-service/internal/utils"
	"gorm.io/gorm"
)

var ErrRecordNotFound = errors.New("session record not found")

// Journal archives terminal sessions to Postgres. It is a write-once audit
// record; live session state never lands here.
type Journal struct {
	db     *gorm.DB
	logger utils.Logger
}

func New(db *gorm.DB, logger utils.Logger) *Journal {
	return &Journal{
		db:     db,
		logger: logger,
	}
}

// Migrate creates the session_records table.
func (j *Journal) Migrate() error {
	if err := j.db.AutoMigrate(&models.SessionRecord{}); err != nil {
		return fmt.Errorf("failed to migrate session records: %w", err)
	}
	return nil
}

// Archive persists one terminal session record.
func (j *Journal) Archive(ctx context.Context, record *models.SessionRecord) error {
	if err := j.db.WithContext(ctx).Create(record).Error; err != nil {
		return fmt.Errorf("failed to archive session record: %w", err)
	}
	j.logger.Info("Session record archived",
		"session_id", record.SessionID,
		"assessment_id", record.AssessmentID,
		"end_reason", record.EndReason)
	return nil
}

// GetBySessionID fetches one archived session.
func (j *Journal) GetBySessionID(ctx context.Context, sessionID string) (*models.SessionRecord, error) {
	var record models.SessionRecord
	err := j.db.WithContext(ctx).Where("session_id = ?", sessionID).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, fmt.Errorf("failed to get session record: %w", err)
	}
	return &record, nil
}

// Noop is used when no database is configured (development, tests).
type Noop struct{}

func (Noop) Archive(ctx context.Context, record *models.SessionRecord) error {
	return nil
}
