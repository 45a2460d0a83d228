package controller

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/ekotto/cashbook/internal/audit"
	"github.com/ekotto/cashbook/internal/database"
	"github.com/ekotto/cashbook/internal/models"
	"github.com/ekotto/cashbook/internal/schema"
)

type recordFixture struct {
	db         *gorm.DB
	audit      *audit.Logger
	registry   *Registry
	categories *RecordController[models.IncomeCategory, *models.IncomeCategory]
	incomes    *RecordController[models.Income, *models.Income]
	actor      models.User
}

func setupRecordFixture(t *testing.T) recordFixture {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := database.Connect(dsn)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	actor := models.User{Username: "alice", PasswordHash: "x", SecretQuestion: "q", SecretAnswerHash: "y"}
	require.NoError(t, db.Create(&actor).Error)

	auditLogger := audit.NewLogger(db, zerolog.Nop())
	registry := NewRegistry()

	return recordFixture{
		db:         db,
		audit:      auditLogger,
		registry:   registry,
		categories: NewRecordController[models.IncomeCategory](db, models.IncomeCategoryTable, auditLogger, registry, zerolog.Nop()),
		incomes:    NewRecordController[models.Income](db, models.IncomeTable, auditLogger, registry, zerolog.Nop()),
		actor:      actor,
	}
}

func (f recordFixture) auditEntries(t *testing.T) []models.AuditLog {
	t.Helper()
	var entries []models.AuditLog
	require.NoError(t, f.db.Order("id ASC").Find(&entries).Error)
	return entries
}

func TestRecordControllerCreateWritesRowAndAuditEntry(t *testing.T) {
	f := setupRecordFixture(t)
	ctx := context.Background()

	created, err := f.categories.Create(ctx, f.actor.ID, map[string]any{"name": "Salary"})
	require.NoError(t, err)
	require.NotZero(t, created.ID)
	require.Equal(t, "Salary", created.Name)

	entries := f.auditEntries(t)
	require.Len(t, entries, 1)
	require.Equal(t, "create", entries[0].Action)
	require.Equal(t, "income_categories", entries[0].Table)
	require.Equal(t, created.ID, entries[0].RecordID)
	require.Equal(t, f.actor.ID, entries[0].UserID)
	require.Contains(t, entries[0].Description, "name=Salary")
}

func TestRecordControllerCreateDuplicateFailsWithoutAudit(t *testing.T) {
	f := setupRecordFixture(t)
	ctx := context.Background()

	_, err := f.categories.Create(ctx, f.actor.ID, map[string]any{"name": "Salary"})
	require.NoError(t, err)

	_, err = f.categories.Create(ctx, f.actor.ID, map[string]any{"name": "Salary"})
	require.ErrorIs(t, err, ErrDuplicate)

	var count int64
	require.NoError(t, f.db.Model(&models.IncomeCategory{}).Count(&count).Error)
	require.Equal(t, int64(1), count, "the store should retain only the first record")
	require.Len(t, f.auditEntries(t), 1)
}

func TestRecordControllerCreateRejectsBadFields(t *testing.T) {
	f := setupRecordFixture(t)
	ctx := context.Background()

	_, err := f.categories.Create(ctx, f.actor.ID, map[string]any{"name": "x", "colour": "red"})
	require.ErrorIs(t, err, schema.ErrUnknownField)

	_, err = f.incomes.Create(ctx, f.actor.ID, map[string]any{"label": "Pay"})
	require.ErrorIs(t, err, schema.ErrMissingField)

	require.Empty(t, f.auditEntries(t))
}

func TestRecordControllerAuditFailureRollsBackMutation(t *testing.T) {
	f := setupRecordFixture(t)
	ctx := context.Background()

	require.NoError(t, f.db.Migrator().DropTable(&models.AuditLog{}))

	_, err := f.categories.Create(ctx, f.actor.ID, map[string]any{"name": "Salary"})
	require.Error(t, err)

	var count int64
	require.NoError(t, f.db.Model(&models.IncomeCategory{}).Count(&count).Error)
	require.Zero(t, count, "a failed audit append must roll back the insert")
}

func TestRecordControllerGetByID(t *testing.T) {
	f := setupRecordFixture(t)
	ctx := context.Background()

	created, err := f.categories.Create(ctx, f.actor.ID, map[string]any{"name": "Salary"})
	require.NoError(t, err)

	got, err := f.categories.GetByID(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, "Salary", got.Name)

	_, err = f.categories.GetByID(ctx, 9999)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestRecordControllerUpdate(t *testing.T) {
	f := setupRecordFixture(t)
	ctx := context.Background()

	created, err := f.categories.Create(ctx, f.actor.ID, map[string]any{"name": "Salari"})
	require.NoError(t, err)

	updated, err := f.categories.Update(ctx, f.actor.ID, created.ID, map[string]any{"name": "Salary"})
	require.NoError(t, err)
	require.Equal(t, "Salary", updated.Name)

	entries := f.auditEntries(t)
	require.Len(t, entries, 2)
	require.Equal(t, "update", entries[1].Action)
	require.Equal(t, created.ID, entries[1].RecordID)
	require.Equal(t, "Salary", entries[1].Values["name"])

	_, err = f.categories.Update(ctx, f.actor.ID, 9999, map[string]any{"name": "x"})
	require.ErrorIs(t, err, ErrNotFound)

	_, err = f.categories.Update(ctx, f.actor.ID, created.ID, map[string]any{"colour": "red"})
	require.ErrorIs(t, err, schema.ErrUnknownField)
}

func TestRecordControllerDelete(t *testing.T) {
	f := setupRecordFixture(t)
	ctx := context.Background()

	created, err := f.categories.Create(ctx, f.actor.ID, map[string]any{"name": "Salary"})
	require.NoError(t, err)

	ok, err := f.categories.Delete(ctx, f.actor.ID, created.ID)
	require.NoError(t, err)
	require.True(t, ok)

	_, err = f.categories.GetByID(ctx, created.ID)
	require.ErrorIs(t, err, ErrNotFound)

	entries := f.auditEntries(t)
	require.Len(t, entries, 2)
	require.Equal(t, "delete", entries[1].Action)
	require.Contains(t, entries[1].Description, "Salary")

	_, err = f.categories.Delete(ctx, f.actor.ID, created.ID)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestRecordControllerGetAllOrdersByDeclaredKeys(t *testing.T) {
	f := setupRecordFixture(t)
	ctx := context.Background()

	_, err := f.categories.Create(ctx, f.actor.ID, map[string]any{"name": "Zinc sales"})
	require.NoError(t, err)
	_, err = f.categories.Create(ctx, f.actor.ID, map[string]any{"name": "Advances"})
	require.NoError(t, err)
	_, err = f.categories.Create(ctx, f.actor.ID, map[string]any{"name": "Salary"})
	require.NoError(t, err)

	all, err := f.categories.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	require.Equal(t, "Advances", all[0].Name)
	require.Equal(t, "Salary", all[1].Name)
	require.Equal(t, "Zinc sales", all[2].Name)
}

func TestRecordControllerGetAllOrdersIncomesByEntryDate(t *testing.T) {
	f := setupRecordFixture(t)
	ctx := context.Background()

	cat, err := f.categories.Create(ctx, f.actor.ID, map[string]any{"name": "Salary"})
	require.NoError(t, err)

	later := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	earlier := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)

	_, err = f.incomes.Create(ctx, f.actor.ID, map[string]any{"label": "June pay", "amount": 1200.0, "entry_date": later, "category_id": cat.ID})
	require.NoError(t, err)
	_, err = f.incomes.Create(ctx, f.actor.ID, map[string]any{"label": "May pay", "amount": 1100.0, "entry_date": earlier, "category_id": cat.ID})
	require.NoError(t, err)

	all, err := f.incomes.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	require.Equal(t, "May pay", all[0].Label)
	require.Equal(t, "June pay", all[1].Label)
}

func TestRecordControllerSearch(t *testing.T) {
	f := setupRecordFixture(t)
	ctx := context.Background()

	cat, err := f.categories.Create(ctx, f.actor.ID, map[string]any{"name": "Rent"})
	require.NoError(t, err)
	when := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	_, err = f.incomes.Create(ctx, f.actor.ID, map[string]any{"label": "April rent", "amount": 800.0, "entry_date": when, "category_id": cat.ID})
	require.NoError(t, err)
	_, err = f.incomes.Create(ctx, f.actor.ID, map[string]any{"label": "Deposit", "amount": 800.0, "entry_date": when, "category_id": cat.ID})
	require.NoError(t, err)

	rows, err := f.incomes.Search(ctx, map[string]any{"label": "April rent"})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, "April rent", rows[0].Label)

	rows, err = f.incomes.Search(ctx, map[string]any{"label": "April rent", "amount": 999.0})
	require.NoError(t, err)
	require.Empty(t, rows, "filters apply conjunctively")

	rows, err = f.incomes.Search(ctx, map[string]any{"bogus": "ignored"})
	require.NoError(t, err)
	require.Len(t, rows, 2, "unrecognized filter keys are ignored")

	rows, err = f.incomes.Search(ctx, map[string]any{"label": "nothing here"})
	require.NoError(t, err)
	require.Empty(t, rows)
}

func TestRecordControllerRelatedLookups(t *testing.T) {
	f := setupRecordFixture(t)
	ctx := context.Background()

	catB, err := f.categories.Create(ctx, f.actor.ID, map[string]any{"name": "Bonus"})
	require.NoError(t, err)
	_, err = f.categories.Create(ctx, f.actor.ID, map[string]any{"name": "Allowance"})
	require.NoError(t, err)

	source, err := f.incomes.Related("category_id")
	require.NoError(t, err)
	require.Equal(t, "income_categories", source.Table().Name)

	records, err := f.incomes.RelatedAll(ctx, "category_id")
	require.NoError(t, err)
	require.Len(t, records, 2)

	record, err := f.incomes.RelatedByID(ctx, "category_id", catB.ID)
	require.NoError(t, err)
	require.NotNil(t, record)
	require.Equal(t, catB.ID, record.GetID())

	record, err = f.incomes.RelatedByID(ctx, "category_id", 9999)
	require.NoError(t, err)
	require.Nil(t, record)

	_, err = f.incomes.Related("label")
	require.Error(t, err)

	_, err = f.incomes.Related("bogus")
	require.ErrorIs(t, err, schema.ErrUnknownField)
}
