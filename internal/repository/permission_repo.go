package repository

import (
	"errors"

	"gorm.io/gorm"

	"bizdesk-api/internal/model"
)

type PermissionRepository interface {
	FindAll() ([]model.Permission, error)
	FindByIDs(tx *gorm.DB, ids []uint) ([]model.Permission, error)
	Grouped() ([]model.PermissionGroup, error)
	SeedDefaults() error
}

type permissionRepo struct {
	db *gorm.DB
}

func NewPermissionRepo(db *gorm.DB) PermissionRepository {
	return &permissionRepo{db}
}

func (r *permissionRepo) FindAll() ([]model.Permission, error) {
	var permissions []model.Permission
	if err := r.db.Order("id").Find(&permissions).Error; err != nil {
		return nil, err
	}
	return permissions, nil
}

func (r *permissionRepo) FindByIDs(tx *gorm.DB, ids []uint) ([]model.Permission, error) {
	var permissions []model.Permission
	if len(ids) == 0 {
		return permissions, nil
	}
	if err := tx.Where("id IN ?", ids).Find(&permissions).Error; err != nil {
		return nil, err
	}
	return permissions, nil
}

// Grouped returns the catalog grouped by label, in catalog order.
func (r *permissionRepo) Grouped() ([]model.PermissionGroup, error) {
	permissions, err := r.FindAll()
	if err != nil {
		return nil, err
	}
	groups := []model.PermissionGroup{}
	index := map[string]int{}
	for _, p := range permissions {
		i, ok := index[p.Label]
		if !ok {
			i = len(groups)
			index[p.Label] = i
			groups = append(groups, model.PermissionGroup{Label: p.Label})
		}
		groups[i].Permissions = append(groups[i].Permissions, p)
	}
	return groups, nil
}

// SeedDefaults creates default permissions if they don't exist
func (r *permissionRepo) SeedDefaults() error {
	for _, p := range model.DefaultPermissions() {
		var existing model.Permission
		err := r.db.Where("code = ?", p.Code).First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if err := r.db.Create(&p).Error; err != nil {
				return err
			}
		} else if err != nil {
			return err
		}
	}
	return nil
}
