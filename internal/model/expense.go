package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ExpenseCategory struct {
	TenantModel
	Name        string `gorm:"type:varchar(100);not null" json:"name" form:"name" validate:"required,max=100"`
	Description string `gorm:"type:text" json:"description" form:"description"`
}

// Expense is recorded against the branch selected at the time of writing.
type Expense struct {
	TenantModel
	BranchRef
	Date            Date            `json:"date" form:"date" validate:"required"`
	Amount          decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"amount" form:"amount" validate:"required,gt=0"`
	CategoryID      uuid.UUID       `gorm:"type:uuid;not null;index" json:"category_id" form:"category_id" validate:"uuid_required"`
	EmployeeID      *uuid.UUID      `gorm:"type:uuid" json:"employee_id" form:"employee_id"`
	PaymentMethodID uuid.UUID       `gorm:"type:uuid;not null" json:"payment_method_id" form:"payment_method_id" validate:"uuid_required"`
	Note            string          `gorm:"type:text" json:"note" form:"note"`

	Category      *Ref `gorm:"-" json:"category,omitempty" form:"-"`
	Employee      *Ref `gorm:"-" json:"employee,omitempty" form:"-"`
	PaymentMethod *Ref `gorm:"-" json:"payment_method,omitempty" form:"-"`
}
