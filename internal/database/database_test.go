package database

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/ekotto/cashbook/internal/models"
)

func TestConnectRejectsEmptyDSN(t *testing.T) {
	_, err := Connect("")
	require.Error(t, err)
}

func TestConnectAndMigrateSqlite(t *testing.T) {
	db, err := Connect("file:database_test?mode=memory&cache=shared")
	require.NoError(t, err)
	require.NoError(t, Migrate(db))

	for _, table := range []string{"users", "audit_log", "income_categories", "incomes", "expense_categories", "expenses"} {
		require.True(t, db.Migrator().HasTable(table), "expected table %q", table)
	}
}

func TestConnectTranslatesUniquenessViolations(t *testing.T) {
	db, err := Connect("file:database_translate_test?mode=memory&cache=shared")
	require.NoError(t, err)
	require.NoError(t, Migrate(db))

	require.NoError(t, db.Create(&models.User{Username: "alice", PasswordHash: "h", SecretQuestion: "q", SecretAnswerHash: "a"}).Error)

	err = db.Create(&models.User{Username: "alice", PasswordHash: "h", SecretQuestion: "q", SecretAnswerHash: "a"}).Error
	require.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}
