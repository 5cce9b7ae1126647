package repository

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"bizdesk-api/internal/model"
	"bizdesk-api/internal/tenant"
)

type CompanyRepository interface {
	FindByID(db *gorm.DB, id uuid.UUID) (*model.Company, error)
	Create(tx *gorm.DB, company *model.Company) error
	Save(tx *gorm.DB, company *model.Company) error
}

type companyRepo struct{}

func NewCompanyRepo() CompanyRepository {
	return &companyRepo{}
}

func (r *companyRepo) FindByID(db *gorm.DB, id uuid.UUID) (*model.Company, error) {
	var company model.Company
	if err := db.Scopes(tenant.Live).First(&company, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &company, nil
}

func (r *companyRepo) Create(tx *gorm.DB, company *model.Company) error {
	return tx.Create(company).Error
}

func (r *companyRepo) Save(tx *gorm.DB, company *model.Company) error {
	return tx.Save(company).Error
}
