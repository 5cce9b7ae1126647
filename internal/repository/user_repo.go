package repository

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"bizdesk-api/internal/model"
	"bizdesk-api/internal/tenant"
)

// UserRepository loads staff accounts for authentication.
type UserRepository interface {
	FindByEmail(email string) (*model.Staff, error)
	FindByID(id uuid.UUID) (*model.Staff, error)
	Create(tx *gorm.DB, user *model.Staff) error
	UpdatePassword(userID uuid.UUID, hashedPassword, tokenVersion string) error
	UpdateLogin(userID uuid.UUID, at time.Time) error
}

type userRepo struct {
	db    *gorm.DB
	roles RoleRepository
}

func NewUserRepo(db *gorm.DB, roles RoleRepository) UserRepository {
	return &userRepo{db: db, roles: roles}
}

// FindByEmail searches every tenant: email is the login key.
func (r *userRepo) FindByEmail(email string) (*model.Staff, error) {
	var user model.Staff
	err := r.db.Scopes(tenant.Live).Where("LOWER(email) = ?", strings.ToLower(strings.TrimSpace(email))).First(&user).Error
	if err != nil {
		return nil, err
	}
	return r.withPermissions(&user)
}

func (r *userRepo) FindByID(id uuid.UUID) (*model.Staff, error) {
	var user model.Staff
	if err := r.db.Scopes(tenant.Live).First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return r.withPermissions(&user)
}

func (r *userRepo) withPermissions(user *model.Staff) (*model.Staff, error) {
	if user.RoleID == uuid.Nil {
		return user, nil
	}
	role, err := r.roles.FindWithPermissions(r.db, user.CompanyID, user.RoleID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return user, nil
	}
	if err != nil {
		return nil, err
	}
	user.Role = &model.Ref{ID: role.ID, Name: role.Title}
	user.Perms = role.PermissionCodes()
	return user, nil
}

func (r *userRepo) Create(tx *gorm.DB, user *model.Staff) error {
	return tx.Create(user).Error
}

func (r *userRepo) UpdatePassword(userID uuid.UUID, hashedPassword, tokenVersion string) error {
	return r.db.Model(&model.Staff{}).Where("id = ?", userID).
		Updates(map[string]any{"password": hashedPassword, "token_version": tokenVersion}).Error
}

func (r *userRepo) UpdateLogin(userID uuid.UUID, at time.Time) error {
	return r.db.Model(&model.Staff{}).Where("id = ?", userID).Update("last_login_at", at).Error
}
