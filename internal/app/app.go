package app

import (
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/ekotto/cashbook/internal/audit"
	"github.com/ekotto/cashbook/internal/auth"
	"github.com/ekotto/cashbook/internal/config"
	"github.com/ekotto/cashbook/internal/controller"
	"github.com/ekotto/cashbook/internal/database"
	"github.com/ekotto/cashbook/internal/models"
	"github.com/ekotto/cashbook/internal/repository"
	"github.com/ekotto/cashbook/internal/session"
)

// App is the composition root the GUI shell embeds: every controller the
// forms and list views call, wired over one shared store.
type App struct {
	DB       *gorm.DB
	Audit    *audit.Logger
	Sessions session.Store
	Users    *controller.UserController

	IncomeCategories  *controller.RecordController[models.IncomeCategory, *models.IncomeCategory]
	Incomes           *controller.RecordController[models.Income, *models.Income]
	ExpenseCategories *controller.RecordController[models.ExpenseCategory, *models.ExpenseCategory]
	Expenses          *controller.RecordController[models.Expense, *models.Expense]
}

// New connects to the store, migrates it and wires every controller.
func New(cfg config.Config, logger zerolog.Logger) (*App, error) {
	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}

	if err := database.Migrate(db); err != nil {
		return nil, err
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	hasher := auth.NewHasher(cfg.BcryptCost)
	auditLogger := audit.NewLogger(db, logger)
	registry := controller.NewRegistry()

	userRepo := repository.NewUserRepository(db)

	return &App{
		DB:       db,
		Audit:    auditLogger,
		Sessions: session.NewStore(cfg.SessionFile),
		Users:    controller.NewUserController(userRepo, hasher, validate, logger),

		IncomeCategories:  controller.NewRecordController[models.IncomeCategory](db, models.IncomeCategoryTable, auditLogger, registry, logger),
		Incomes:           controller.NewRecordController[models.Income](db, models.IncomeTable, auditLogger, registry, logger),
		ExpenseCategories: controller.NewRecordController[models.ExpenseCategory](db, models.ExpenseCategoryTable, auditLogger, registry, logger),
		Expenses:          controller.NewRecordController[models.Expense](db, models.ExpenseTable, auditLogger, registry, logger),
	}, nil
}
