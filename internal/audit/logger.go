package audit

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/ekotto/cashbook/internal/models"
	"github.com/ekotto/cashbook/internal/observability"
)

// Action is the kind of mutation an audit entry records.
type Action string

const (
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Logger appends audit trail entries. Writes go through the transaction handle
// of the triggering mutation, so a failed append rolls the whole operation
// back rather than leaving a silent gap in the trail.
type Logger struct {
	db     *gorm.DB
	logger zerolog.Logger
}

// NewLogger constructs the audit logger. The db handle is only used for
// reading the trail; appends use the caller's transaction.
func NewLogger(db *gorm.DB, logger zerolog.Logger) *Logger {
	return &Logger{
		db:     db,
		logger: logger.With().Str("component", "audit_logger").Logger(),
	}
}

// Log appends one entry describing a mutation performed by userID on the given
// table and record. values carries the typed submitted fields, description the
// human-readable form shown in the audit view.
func (l *Logger) Log(ctx context.Context, tx *gorm.DB, action Action, userID uint, table string, recordID uint, description string, values map[string]any) error {
	entry := models.AuditLog{
		Table:       table,
		Action:      string(action),
		RecordID:    recordID,
		UserID:      userID,
		Description: description,
	}
	if len(values) > 0 {
		entry.Values = datatypes.JSONMap(values)
	}

	if err := tx.WithContext(ctx).Create(&entry).Error; err != nil {
		l.logger.Error().Err(err).
			Str("table", table).
			Str("action", string(action)).
			Uint("record_id", recordID).
			Msg("failed to append audit entry")
		return fmt.Errorf("append audit entry: %w", err)
	}

	observability.AuditEntries().WithLabelValues(string(action)).Inc()

	return nil
}

// Filter narrows audit trail queries.
type Filter struct {
	Page     int
	PageSize int
	UserID   *uint
	Action   string
	Table    string
}

// List returns trail entries newest first, with optional filtering and paging.
func (l *Logger) List(ctx context.Context, filter Filter) ([]models.AuditLog, int64, error) {
	query := l.db.WithContext(ctx).Model(&models.AuditLog{})

	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}

	if filter.Action != "" {
		query = query.Where("action = ?", filter.Action)
	}

	if filter.Table != "" {
		query = query.Where("table_name = ?", filter.Table)
	}

	countQuery := query.Session(&gorm.Session{})
	var total int64
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.PageSize > 0 {
		page := filter.Page
		if page <= 0 {
			page = 1
		}
		offset := (page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	var entries []models.AuditLog
	if err := query.Order("created_at DESC, id DESC").Find(&entries).Error; err != nil {
		return nil, 0, err
	}

	return entries, total, nil
}
