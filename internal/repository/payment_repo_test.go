package repository

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bizdesk-api/internal/model"
)

func TestPaymentRepo_AdjustBalance(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPaymentRepo()
	sc := newCompany(t, db)
	pm := &model.PaymentMethod{Name: "Bank"}
	pm.CompanyID = sc.CompanyID
	require.NoError(t, db.Create(pm).Error)

	balance, err := repo.AdjustBalance(db, sc.CompanyID, pm.ID, decimal.RequireFromString("150.50"))
	require.NoError(t, err)
	assert.True(t, balance.Equal(decimal.RequireFromString("150.50")), balance.String())

	_, err = repo.AdjustBalance(db, sc.CompanyID, pm.ID, decimal.NewFromInt(-200))
	assert.ErrorIs(t, err, ErrInsufficientBalance)

	balance, err = repo.AdjustBalance(db, sc.CompanyID, pm.ID, decimal.RequireFromString("-50.50"))
	require.NoError(t, err)
	assert.True(t, balance.Equal(decimal.NewFromInt(100)), balance.String())

	var stored model.PaymentMethod
	require.NoError(t, db.First(&stored, "id = ?", pm.ID).Error)
	assert.True(t, stored.CurrentBalance.Equal(decimal.NewFromInt(100)))

	// Another tenant cannot touch it
	other := newCompany(t, db)
	_, err = repo.AdjustBalance(db, other.CompanyID, pm.ID, decimal.NewFromInt(1))
	assert.Error(t, err)
}
