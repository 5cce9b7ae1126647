package repository

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"bizdesk-api/internal/model"
	"bizdesk-api/internal/tenant"
)

type RoleRepository interface {
	FindWithPermissions(db *gorm.DB, companyID, id uuid.UUID) (*model.Role, error)
	FindByTitle(db *gorm.DB, companyID uuid.UUID, title string) (*model.Role, error)
	SyncPermissions(tx *gorm.DB, role *model.Role, permissionIDs []uint) error
}

type roleRepo struct {
	permissions PermissionRepository
}

func NewRoleRepo(permissions PermissionRepository) RoleRepository {
	return &roleRepo{permissions: permissions}
}

func (r *roleRepo) FindWithPermissions(db *gorm.DB, companyID, id uuid.UUID) (*model.Role, error) {
	var role model.Role
	err := db.Preload("Permissions").Scopes(tenant.CompanyScope(companyID), tenant.Live).
		First(&role, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &role, nil
}

func (r *roleRepo) FindByTitle(db *gorm.DB, companyID uuid.UUID, title string) (*model.Role, error) {
	var role model.Role
	err := db.Preload("Permissions").Scopes(tenant.CompanyScope(companyID), tenant.Live).
		Where("title = ?", title).First(&role).Error
	if err != nil {
		return nil, err
	}
	return &role, nil
}

// SyncPermissions replaces the role's permission set with exactly permissionIDs.
// Unknown ids are an error so a typo never silently drops a permission.
func (r *roleRepo) SyncPermissions(tx *gorm.DB, role *model.Role, permissionIDs []uint) error {
	ids := uniqueIDs(permissionIDs)
	permissions, err := r.permissions.FindByIDs(tx, ids)
	if err != nil {
		return err
	}
	if len(permissions) != len(ids) {
		return fmt.Errorf("%w: %d of %d permission ids exist", ErrUnknownPermission, len(permissions), len(ids))
	}

	assoc := tx.Model(role).Association("Permissions")
	if len(permissions) == 0 {
		err = assoc.Clear()
	} else {
		err = assoc.Replace(permissions)
	}
	if err != nil {
		return err
	}
	role.Permissions = permissions
	return nil
}

func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
