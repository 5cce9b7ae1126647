package repository

import (
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"bizdesk-api/internal/model"
	"bizdesk-api/internal/tenant"
)

var ErrInsufficientBalance = errors.New("insufficient balance")

// PaymentRepository moves payment method balances.
type PaymentRepository interface {
	AdjustBalance(tx *gorm.DB, companyID, paymentMethodID uuid.UUID, delta decimal.Decimal) (decimal.Decimal, error)
}

type paymentRepo struct{}

func NewPaymentRepo() PaymentRepository {
	return &paymentRepo{}
}

// AdjustBalance locks the payment method row and adds delta to its balance.
// A result below zero is refused with ErrInsufficientBalance and nothing is written.
func (r *paymentRepo) AdjustBalance(tx *gorm.DB, companyID, paymentMethodID uuid.UUID, delta decimal.Decimal) (decimal.Decimal, error) {
	var pm model.PaymentMethod
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Scopes(tenant.CompanyScope(companyID)).
		First(&pm, "id = ?", paymentMethodID).Error
	if err != nil {
		return decimal.Zero, err
	}

	balance := pm.CurrentBalance.Add(delta)
	if balance.IsNegative() {
		return pm.CurrentBalance, ErrInsufficientBalance
	}
	err = tx.Model(&model.PaymentMethod{}).Where("id = ?", pm.ID).
		Update("current_balance", balance).Error
	if err != nil {
		return decimal.Zero, err
	}
	return balance, nil
}
