package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"bizdesk-api/internal/model"
	"bizdesk-api/internal/repository"
	"bizdesk-api/internal/tenant"
	"bizdesk-api/pkg/validator"
)

type CompanyService interface {
	Get(ctx context.Context, sc tenant.Scope) (*model.Company, error)
	Update(ctx context.Context, sc tenant.Scope, req *UpdateCompanyRequest) (*model.Company, error)
}

type UpdateCompanyRequest struct {
	Name              string `json:"name" validate:"required,max=100"`
	Email             string `json:"email" validate:"omitempty,email,max=100"`
	Phone             string `json:"phone" validate:"max=30"`
	Address           string `json:"address"`
	TaxIsGST          string `json:"tax_is_gst" validate:"required,oneof=Yes No"`
	TaxRegistrationNo string `json:"tax_registration_no" validate:"required_if=TaxIsGST Yes,max=50"`
	Currency          string `json:"currency" validate:"max=10"`
}

type companyService struct {
	db        *gorm.DB
	companies repository.CompanyRepository
	notifier  Notifier
	logger    *zap.Logger
}

func NewCompanyService(db *gorm.DB, companies repository.CompanyRepository, notifier Notifier, logger *zap.Logger) CompanyService {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &companyService{db: db, companies: companies, notifier: notifier, logger: logger}
}

func (s *companyService) Get(ctx context.Context, sc tenant.Scope) (*model.Company, error) {
	company, err := s.companies.FindByID(s.db.WithContext(ctx), sc.CompanyID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		s.logger.Error("Failed to load company", zap.Error(err))
		return nil, &PersistenceError{Op: "load company", Err: err}
	}
	return company, nil
}

func (s *companyService) Update(ctx context.Context, sc tenant.Scope, req *UpdateCompanyRequest) (*model.Company, error) {
	if errs := validator.ValidateStruct(req); !errs.Empty() {
		return nil, NewValidationError(errs)
	}

	var company *model.Company
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		company, err = s.companies.FindByID(tx, sc.CompanyID)
		if err != nil {
			return err
		}
		company.Name = req.Name
		company.Email = req.Email
		company.Phone = req.Phone
		company.Address = req.Address
		company.TaxIsGST = req.TaxIsGST
		company.TaxRegistrationNo = req.TaxRegistrationNo
		if req.Currency != "" {
			company.Currency = req.Currency
		}
		return s.companies.Save(tx, company)
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		s.logger.Error("Failed to update company", zap.Error(err))
		return nil, &PersistenceError{Op: "update company", Err: err}
	}

	s.notifier.Notify(sc.CompanyID, Event{Type: "resource_changed", Resource: "company", Action: "updated", ID: company.ID, UserID: sc.UserID})
	return company, nil
}
