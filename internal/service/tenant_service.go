package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"bizdesk-api/internal/model"
	"bizdesk-api/internal/repository"
)

var ErrEmailExists = errors.New("email already exists")

// TenantService bootstraps companies and recovers owner accounts from the CLI.
type TenantService interface {
	SeedPermissions() error
	CreateCompany(req *CreateCompanyRequest) (*model.Company, *model.Staff, error)
	ResetPassword(email, newPassword string) error
}

type CreateCompanyRequest struct {
	CompanyName   string
	OwnerName     string
	OwnerEmail    string
	OwnerPassword string
	TaxIsGST      string
}

type tenantService struct {
	db          *gorm.DB
	companies   repository.CompanyRepository
	permissions repository.PermissionRepository
	roles       repository.RoleRepository
	users       repository.UserRepository
	logger      *zap.Logger
}

func NewTenantService(db *gorm.DB, companies repository.CompanyRepository, permissions repository.PermissionRepository,
	roles repository.RoleRepository, users repository.UserRepository, logger *zap.Logger) TenantService {
	return &tenantService{db: db, companies: companies, permissions: permissions, roles: roles, users: users, logger: logger}
}

func (s *tenantService) SeedPermissions() error {
	return s.permissions.SeedDefaults()
}

// CreateCompany creates a company, its Admin role holding every permission and the owner account.
func (s *tenantService) CreateCompany(req *CreateCompanyRequest) (*model.Company, *model.Staff, error) {
	if req.CompanyName == "" || req.OwnerEmail == "" || len(req.OwnerPassword) < 6 {
		return nil, nil, errors.New("company name, owner email and a password of at least 6 characters are required")
	}
	if _, err := s.users.FindByEmail(req.OwnerEmail); err == nil {
		return nil, nil, ErrEmailExists
	}
	if err := s.permissions.SeedDefaults(); err != nil {
		return nil, nil, fmt.Errorf("seed permissions: %w", err)
	}
	all, err := s.permissions.FindAll()
	if err != nil {
		return nil, nil, err
	}
	ids := make([]uint, len(all))
	for i, p := range all {
		ids[i] = p.ID
	}

	company := &model.Company{Name: req.CompanyName, TaxIsGST: req.TaxIsGST}
	owner := &model.Staff{
		Name:         req.OwnerName,
		Email:        strings.ToLower(strings.TrimSpace(req.OwnerEmail)),
		Designation:  "Owner",
		ActiveStatus: model.Active,
		TokenVersion: uuid.NewString(),
	}
	if owner.Name == "" {
		owner.Name = "Owner"
	}
	if err := owner.SetPassword(req.OwnerPassword); err != nil {
		return nil, nil, err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.companies.Create(tx, company); err != nil {
			return err
		}
		role := &model.Role{Title: model.OwnerRoleTitle, Description: "Full access"}
		role.CompanyID = company.ID
		if err := tx.Create(role).Error; err != nil {
			return err
		}
		if err := s.roles.SyncPermissions(tx, role, ids); err != nil {
			return err
		}

		owner.CompanyID = company.ID
		owner.RoleID = role.ID
		return s.users.Create(tx, owner)
	})
	if err != nil {
		return nil, nil, fmt.Errorf("create company: %w", err)
	}

	s.logger.Info("Company created",
		zap.String("company_id", company.ID.String()),
		zap.String("owner", owner.Email))
	return company, owner, nil
}

func (s *tenantService) ResetPassword(email, newPassword string) error {
	if len(newPassword) < 6 {
		return errors.New("password must be at least 6 characters")
	}
	user, err := s.users.FindByEmail(email)
	if err != nil {
		return ErrUserNotFound
	}
	hashed, err := model.HashPassword(newPassword)
	if err != nil {
		return err
	}
	return s.users.UpdatePassword(user.ID, hashed, uuid.NewString())
}
