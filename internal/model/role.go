package model

// Role groups permissions inside one company.
type Role struct {
	TenantModel
	Title       string       `gorm:"type:varchar(100);not null;index" json:"title" form:"title" validate:"required,max=100"`
	Description string       `gorm:"type:text" json:"description" form:"description"`
	Permissions []Permission `gorm:"many2many:role_permissions;" json:"permissions,omitempty" form:"-"`

	// Ids sent by the client; they replace Permissions on save
	PermissionIDs []uint `gorm:"-" json:"permission_ids,omitempty" form:"permission_ids"`
}

// OwnerRoleTitle is the role created with every company; it holds every permission.
const OwnerRoleTitle = "Admin"

// PermissionCodes returns a slice of all permission codes for this role
func (r *Role) PermissionCodes() []string {
	codes := make([]string, len(r.Permissions))
	for i, p := range r.Permissions {
		codes[i] = p.Code
	}
	return codes
}
