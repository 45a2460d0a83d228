package models

import (
	"fmt"
	"time"

	"github.com/ekotto/cashbook/internal/schema"
)

// The managed bookkeeping entities. Each declares its static schema next to
// the model and applies submitted fields through an explicit switch, so the
// record controller never reflects over struct tags.

// IncomeCategory groups income entries.
type IncomeCategory struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:120;uniqueIndex;not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName pins the income category table name.
func (IncomeCategory) TableName() string { return "income_categories" }

// GetID returns the primary key.
func (c *IncomeCategory) GetID() uint { return c.ID }

// Apply sets one submitted field on the category.
func (c *IncomeCategory) Apply(field string, value any) error {
	switch field {
	case "name":
		s, err := schema.AsString(value)
		if err != nil {
			return fmt.Errorf("name: %w", err)
		}
		c.Name = s
	default:
		return fmt.Errorf("%q: %w", field, schema.ErrUnknownField)
	}

	return nil
}

// IncomeCategoryTable is the declared schema for income categories.
var IncomeCategoryTable = schema.Table{
	Name: "income_categories",
	Fields: []schema.Field{
		{Name: "name", Kind: schema.KindString, Required: true, OrderKey: true},
	},
}

// Income is one recorded income entry.
type Income struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	Label      string         `gorm:"size:255;not null" json:"label"`
	Amount     float64        `gorm:"not null" json:"amount"`
	EntryDate  time.Time      `gorm:"not null" json:"entry_date"`
	CategoryID uint           `gorm:"not null" json:"category_id"`
	Category   IncomeCategory `gorm:"foreignKey:CategoryID" json:"-"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

// TableName pins the income table name.
func (Income) TableName() string { return "incomes" }

// GetID returns the primary key.
func (i *Income) GetID() uint { return i.ID }

// Apply sets one submitted field on the income entry.
func (i *Income) Apply(field string, value any) error {
	switch field {
	case "label":
		s, err := schema.AsString(value)
		if err != nil {
			return fmt.Errorf("label: %w", err)
		}
		i.Label = s
	case "amount":
		f, err := schema.AsFloat(value)
		if err != nil {
			return fmt.Errorf("amount: %w", err)
		}
		i.Amount = f
	case "entry_date":
		t, err := schema.AsTime(value)
		if err != nil {
			return fmt.Errorf("entry_date: %w", err)
		}
		i.EntryDate = t
	case "category_id":
		id, err := schema.AsUint(value)
		if err != nil {
			return fmt.Errorf("category_id: %w", err)
		}
		i.CategoryID = id
	default:
		return fmt.Errorf("%q: %w", field, schema.ErrUnknownField)
	}

	return nil
}

// IncomeTable is the declared schema for income entries. Listings order by
// entry date.
var IncomeTable = schema.Table{
	Name: "incomes",
	Fields: []schema.Field{
		{Name: "label", Kind: schema.KindString, Required: true},
		{Name: "amount", Kind: schema.KindFloat, Required: true},
		{Name: "entry_date", Kind: schema.KindTime, Required: true, OrderKey: true},
		{Name: "category_id", Kind: schema.KindUint, Required: true, References: "income_categories"},
	},
}

// ExpenseCategory groups expense entries.
type ExpenseCategory struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:120;uniqueIndex;not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName pins the expense category table name.
func (ExpenseCategory) TableName() string { return "expense_categories" }

// GetID returns the primary key.
func (c *ExpenseCategory) GetID() uint { return c.ID }

// Apply sets one submitted field on the category.
func (c *ExpenseCategory) Apply(field string, value any) error {
	switch field {
	case "name":
		s, err := schema.AsString(value)
		if err != nil {
			return fmt.Errorf("name: %w", err)
		}
		c.Name = s
	default:
		return fmt.Errorf("%q: %w", field, schema.ErrUnknownField)
	}

	return nil
}

// ExpenseCategoryTable is the declared schema for expense categories.
var ExpenseCategoryTable = schema.Table{
	Name: "expense_categories",
	Fields: []schema.Field{
		{Name: "name", Kind: schema.KindString, Required: true, OrderKey: true},
	},
}

// Expense is one recorded expense entry.
type Expense struct {
	ID         uint            `gorm:"primaryKey" json:"id"`
	Label      string          `gorm:"size:255;not null" json:"label"`
	Amount     float64         `gorm:"not null" json:"amount"`
	EntryDate  time.Time       `gorm:"not null" json:"entry_date"`
	CategoryID uint            `gorm:"not null" json:"category_id"`
	Category   ExpenseCategory `gorm:"foreignKey:CategoryID" json:"-"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// TableName pins the expense table name.
func (Expense) TableName() string { return "expenses" }

// GetID returns the primary key.
func (e *Expense) GetID() uint { return e.ID }

// Apply sets one submitted field on the expense entry.
func (e *Expense) Apply(field string, value any) error {
	switch field {
	case "label":
		s, err := schema.AsString(value)
		if err != nil {
			return fmt.Errorf("label: %w", err)
		}
		e.Label = s
	case "amount":
		f, err := schema.AsFloat(value)
		if err != nil {
			return fmt.Errorf("amount: %w", err)
		}
		e.Amount = f
	case "entry_date":
		t, err := schema.AsTime(value)
		if err != nil {
			return fmt.Errorf("entry_date: %w", err)
		}
		e.EntryDate = t
	case "category_id":
		id, err := schema.AsUint(value)
		if err != nil {
			return fmt.Errorf("category_id: %w", err)
		}
		e.CategoryID = id
	default:
		return fmt.Errorf("%q: %w", field, schema.ErrUnknownField)
	}

	return nil
}

// ExpenseTable is the declared schema for expense entries.
var ExpenseTable = schema.Table{
	Name: "expenses",
	Fields: []schema.Field{
		{Name: "label", Kind: schema.KindString, Required: true},
		{Name: "amount", Kind: schema.KindFloat, Required: true},
		{Name: "entry_date", Kind: schema.KindTime, Required: true, OrderKey: true},
		{Name: "category_id", Kind: schema.KindUint, Required: true, References: "expense_categories"},
	},
}
