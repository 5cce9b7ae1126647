package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PaymentMethod struct {
	TenantModel
	Name          string `gorm:"type:varchar(100);not null" json:"name" form:"name" validate:"required,max=100"`
	AccountType   string `gorm:"type:varchar(50)" json:"account_type" form:"account_type" validate:"max=50"`
	AccountNumber string `gorm:"type:varchar(50)" json:"account_number" form:"account_number" validate:"max=50"`
	Description   string `gorm:"type:text" json:"description" form:"description"`
	// Moved only by deposits and withdrawals
	CurrentBalance decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"current_balance" form:"-"`
}

// Deposit types
const (
	TypeDeposit  = "Deposit"
	TypeWithdraw = "Withdraw"
)

// Deposit moves money in or out of a payment method.
type Deposit struct {
	TenantModel
	BranchRef
	ReferenceNo     string          `gorm:"type:varchar(20);not null;index" json:"reference_no" form:"-"`
	Date            Date            `json:"date" form:"date" validate:"required"`
	Type            string          `gorm:"type:varchar(10);not null" json:"type" form:"type" validate:"required,oneof=Deposit Withdraw"`
	Amount          decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"amount" form:"amount" validate:"required,gt=0"`
	PaymentMethodID uuid.UUID       `gorm:"type:uuid;not null;index" json:"payment_method_id" form:"payment_method_id" validate:"uuid_required"`
	Note            string          `gorm:"type:text" json:"note" form:"note"`

	PaymentMethod *Ref `gorm:"-" json:"payment_method,omitempty" form:"-"`
}

// SignedAmount is positive for deposits and negative for withdrawals.
func (d *Deposit) SignedAmount() decimal.Decimal {
	if d.Type == TypeWithdraw {
		return d.Amount.Neg()
	}
	return d.Amount
}

type SupplierPayment struct {
	TenantModel
	BranchRef
	ReferenceNo     string          `gorm:"type:varchar(20);not null;index" json:"reference_no" form:"-"`
	Date            Date            `json:"date" form:"date" validate:"required"`
	SupplierID      uuid.UUID       `gorm:"type:uuid;not null;index" json:"supplier_id" form:"supplier_id" validate:"uuid_required"`
	PaymentMethodID uuid.UUID       `gorm:"type:uuid;not null" json:"payment_method_id" form:"payment_method_id" validate:"uuid_required"`
	Amount          decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"amount" form:"amount" validate:"required,gt=0"`
	Note            string          `gorm:"type:text" json:"note" form:"note"`

	Supplier      *Ref `gorm:"-" json:"supplier,omitempty" form:"-"`
	PaymentMethod *Ref `gorm:"-" json:"payment_method,omitempty" form:"-"`
}
