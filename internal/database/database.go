package database

import (
	"fmt"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/ekotto/cashbook/internal/models"
)

// Connect opens the relational store. A postgres:// DSN selects the postgres
// driver; anything else is treated as a sqlite path or URI, the local desktop
// default. Error translation is enabled so uniqueness violations surface as
// gorm.ErrDuplicatedKey across both drivers.
func Connect(dsn string) (*gorm.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("database dsn must not be empty")
	}

	var dialector gorm.Dialector
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		dialector = postgres.Open(dsn)
	} else {
		dialector = sqlite.Open(dsn)
	}

	db, err := gorm.Open(dialector, &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return db, nil
}

// Migrate creates or updates every table the core manages.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.AuditLog{},
		&models.IncomeCategory{},
		&models.Income{},
		&models.ExpenseCategory{},
		&models.Expense{},
	)
}
