package controller

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/ekotto/cashbook/internal/audit"
	"github.com/ekotto/cashbook/internal/schema"
)

// entity constrains the pointer type of a managed model.
type entity[T any] interface {
	*T
	Record
	Apply(field string, value any) error
}

// RecordController provides uniform CRUD over one managed entity, driven by
// its declared schema. Every mutation commits atomically with its audit entry:
// if either fails, both roll back.
type RecordController[T any, PT entity[T]] struct {
	db       *gorm.DB
	table    schema.Table
	audit    *audit.Logger
	registry *Registry
	logger   zerolog.Logger
}

// NewRecordController constructs a controller for one entity type. The
// registry is consulted for foreign-key lookups and the controller registers
// itself under its table name.
func NewRecordController[T any, PT entity[T]](db *gorm.DB, table schema.Table, auditLogger *audit.Logger, registry *Registry, logger zerolog.Logger) *RecordController[T, PT] {
	c := &RecordController[T, PT]{
		db:       db,
		table:    table,
		audit:    auditLogger,
		registry: registry,
		logger:   logger.With().Str("component", "record_controller").Str("table", table.Name).Logger(),
	}
	if registry != nil {
		registry.Register(c)
	}

	return c
}

// Table returns the declared schema.
func (c *RecordController[T, PT]) Table() schema.Table { return c.table }

// Create inserts a new row from the submitted fields and appends one create
// audit entry attributed to actorID. Unknown fields and missing required
// fields are rejected before anything is written; a uniqueness violation
// surfaces as ErrDuplicate.
func (c *RecordController[T, PT]) Create(ctx context.Context, actorID uint, fields map[string]any) (*T, error) {
	var row T
	ptr := PT(&row)
	if err := c.applyFields(ptr, fields); err != nil {
		return nil, err
	}
	for _, f := range c.table.Fields {
		if !f.Required {
			continue
		}
		if _, ok := fields[f.Name]; !ok {
			return nil, fmt.Errorf("%q: %w", f.Name, schema.ErrMissingField)
		}
	}

	err := c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(ptr).Error; err != nil {
			return err
		}
		desc := fmt.Sprintf("created record with values %s", describeFields(fields))
		return c.audit.Log(ctx, tx, audit.ActionCreate, actorID, c.table.Name, ptr.GetID(), desc, fields)
	})
	if err != nil {
		return nil, translateStoreErr(c.table.Name, "create", err)
	}

	c.logger.Debug().Uint("id", ptr.GetID()).Uint("actor_id", actorID).Msg("record created")

	return &row, nil
}

// GetByID returns the row with the given id or ErrNotFound.
func (c *RecordController[T, PT]) GetByID(ctx context.Context, id uint) (*T, error) {
	var row T
	if err := c.db.WithContext(ctx).First(&row, id).Error; err != nil {
		return nil, translateStoreErr(c.table.Name, "get", err)
	}

	return &row, nil
}

// Update loads the row, applies the submitted fields, saves it and appends one
// update audit entry carrying the new values.
func (c *RecordController[T, PT]) Update(ctx context.Context, actorID uint, id uint, fields map[string]any) (*T, error) {
	var row T
	ptr := PT(&row)
	err := c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(ptr, id).Error; err != nil {
			return err
		}
		if err := c.applyFields(ptr, fields); err != nil {
			return err
		}
		if err := tx.Save(ptr).Error; err != nil {
			return err
		}
		desc := fmt.Sprintf("updated record with values %s", describeFields(fields))
		return c.audit.Log(ctx, tx, audit.ActionUpdate, actorID, c.table.Name, id, desc, fields)
	})
	if err != nil {
		if isSchemaErr(err) {
			return nil, err
		}
		return nil, translateStoreErr(c.table.Name, "update", err)
	}

	c.logger.Debug().Uint("id", id).Uint("actor_id", actorID).Msg("record updated")

	return &row, nil
}

// Delete removes the row and appends one delete audit entry describing the
// removed record. Returns true on success, ErrNotFound when the id is absent.
func (c *RecordController[T, PT]) Delete(ctx context.Context, actorID uint, id uint) (bool, error) {
	var row T
	ptr := PT(&row)
	err := c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(ptr, id).Error; err != nil {
			return err
		}
		if err := tx.Delete(ptr).Error; err != nil {
			return err
		}
		desc := fmt.Sprintf("deleted record %+v", row)
		return c.audit.Log(ctx, tx, audit.ActionDelete, actorID, c.table.Name, id, desc, nil)
	})
	if err != nil {
		return false, translateStoreErr(c.table.Name, "delete", err)
	}

	c.logger.Debug().Uint("id", id).Uint("actor_id", actorID).Msg("record deleted")

	return true, nil
}

// GetAll returns every row, ordered ascending by the declared order keys in
// declaration order. With no order keys, rows come back in insertion order.
func (c *RecordController[T, PT]) GetAll(ctx context.Context) ([]T, error) {
	query := c.db.WithContext(ctx).Model(new(T))
	for _, key := range c.table.OrderKeys() {
		query = query.Order(key + " ASC")
	}

	var rows []T
	if err := query.Find(&rows).Error; err != nil {
		return nil, translateStoreErr(c.table.Name, "list", err)
	}

	return rows, nil
}

// Search returns rows matching exact equality on every recognized filter
// field. Unrecognized keys are silently ignored, matching what search widgets
// submit.
func (c *RecordController[T, PT]) Search(ctx context.Context, filters map[string]any) ([]T, error) {
	where := make(map[string]any, len(filters))
	for key, value := range filters {
		if _, ok := c.table.Field(key); ok {
			where[key] = value
		}
	}

	query := c.db.WithContext(ctx).Model(new(T))
	if len(where) > 0 {
		query = query.Where(where)
	}

	var rows []T
	if err := query.Find(&rows).Error; err != nil {
		return nil, translateStoreErr(c.table.Name, "search", err)
	}

	return rows, nil
}

// Related resolves the controller managing the entity a foreign-key field
// points at.
func (c *RecordController[T, PT]) Related(field string) (Source, error) {
	f, ok := c.table.Field(field)
	if !ok {
		return nil, fmt.Errorf("%q: %w", field, schema.ErrUnknownField)
	}
	if f.References == "" {
		return nil, fmt.Errorf("field %q of %s declares no relation", field, c.table.Name)
	}

	source, ok := c.registry.Source(f.References)
	if !ok {
		return nil, fmt.Errorf("no controller registered for table %q", f.References)
	}

	return source, nil
}

// RelatedAll lists every row of the foreign-key target, for populating
// selection widgets.
func (c *RecordController[T, PT]) RelatedAll(ctx context.Context, field string) ([]Record, error) {
	source, err := c.Related(field)
	if err != nil {
		return nil, err
	}

	return source.AllRecords(ctx)
}

// RelatedByID returns the foreign-key target row with the given id, or nil
// when absent.
func (c *RecordController[T, PT]) RelatedByID(ctx context.Context, field string, id uint) (Record, error) {
	source, err := c.Related(field)
	if err != nil {
		return nil, err
	}

	return source.RecordByID(ctx, id)
}

// AllRecords implements Source for this controller's own table.
func (c *RecordController[T, PT]) AllRecords(ctx context.Context) ([]Record, error) {
	rows, err := c.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	records := make([]Record, 0, len(rows))
	for i := range rows {
		records = append(records, PT(&rows[i]))
	}

	return records, nil
}

// RecordByID implements Source; a missing id yields (nil, nil).
func (c *RecordController[T, PT]) RecordByID(ctx context.Context, id uint) (Record, error) {
	row, err := c.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return PT(row), nil
}

func (c *RecordController[T, PT]) applyFields(ptr PT, fields map[string]any) error {
	for name, value := range fields {
		if _, ok := c.table.Field(name); !ok {
			return fmt.Errorf("%q: %w", name, schema.ErrUnknownField)
		}
		if err := ptr.Apply(name, value); err != nil {
			return err
		}
	}

	return nil
}

func isSchemaErr(err error) bool {
	return errors.Is(err, schema.ErrUnknownField) || errors.Is(err, schema.ErrMissingField)
}

// describeFields renders submitted fields as stable "key=value" text for
// audit descriptions.
func describeFields(fields map[string]any) string {
	keys := make([]string, 0, len(fields))
	for key := range fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", key, fields[key]))
	}

	return strings.Join(parts, ", ")
}
