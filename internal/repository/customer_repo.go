package repository

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"bizdesk-api/internal/model"
	"bizdesk-api/internal/tenant"
)

type CustomerRepository interface {
	FindByEmail(tx *gorm.DB, companyID uuid.UUID, email string) (*model.Customer, error)
	FindByID(companyID, id uuid.UUID) (*model.Customer, error)
	Create(tx *gorm.DB, customer *model.Customer) error
	Save(tx *gorm.DB, customer *model.Customer) error
}

type customerRepo struct {
	db *gorm.DB
}

func NewCustomerRepo(db *gorm.DB) CustomerRepository {
	return &customerRepo{db}
}

// FindByEmail looks among the tenant's Live customers; email match is case insensitive.
func (r *customerRepo) FindByEmail(tx *gorm.DB, companyID uuid.UUID, email string) (*model.Customer, error) {
	var c model.Customer
	err := tx.Scopes(tenant.CompanyScope(companyID), tenant.Live).
		Where("LOWER(email) = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *customerRepo) FindByID(companyID, id uuid.UUID) (*model.Customer, error) {
	var c model.Customer
	if err := r.db.Scopes(tenant.CompanyScope(companyID), tenant.Live).First(&c, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *customerRepo) Create(tx *gorm.DB, customer *model.Customer) error {
	return tx.Create(customer).Error
}

func (r *customerRepo) Save(tx *gorm.DB, customer *model.Customer) error {
	return tx.Save(customer).Error
}
