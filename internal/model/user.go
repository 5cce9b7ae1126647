package model

import (
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Staff represents an employee who can sign in to the back office.
type Staff struct {
	TenantModel
	Name         string     `gorm:"type:varchar(100);not null" json:"name" form:"name" validate:"required,max=100"`
	Email        string     `gorm:"type:varchar(100);index;not null" json:"email" form:"email" validate:"required,email,max=100"`
	Password     string     `gorm:"type:varchar(255);not null" json:"-" form:"-"` // Hidden from JSON
	Phone        string     `gorm:"type:varchar(30)" json:"phone" form:"phone" validate:"max=30"`
	Designation  string     `gorm:"type:varchar(100)" json:"designation" form:"designation" validate:"max=100"`
	RoleID       uuid.UUID  `gorm:"type:uuid;index" json:"role_id" form:"role_id" validate:"uuid_required"`
	BranchID     *uuid.UUID `gorm:"type:uuid;index" json:"branch_id" form:"branch_id"`
	Photo        string     `gorm:"type:varchar(255)" json:"photo" form:"-"`
	ActiveStatus string     `gorm:"type:varchar(10);not null;default:Active" json:"active_status" form:"active_status" validate:"omitempty,oneof=Active Inactive"`
	TokenVersion string     `gorm:"type:varchar(64);default:''" json:"-" form:"-"` // bumped on password change
	LastLoginAt  *time.Time `json:"last_login_at,omitempty" form:"-"`

	// Plain password from the request, hashed before save
	NewPassword string `gorm:"-" json:"password,omitempty" form:"password" validate:"omitempty,min=6,max=72"`

	Role   *Ref     `gorm:"-" json:"role,omitempty" form:"-"`
	Branch *Ref     `gorm:"-" json:"branch,omitempty" form:"-"`
	Perms  []string `gorm:"-" json:"-" form:"-"`
}

func (Staff) TableName() string { return "users" }

// SetPassword hashes and sets the user's password
func (u *Staff) SetPassword(password string) error {
	hashed, err := HashPassword(password)
	if err != nil {
		return err
	}
	u.Password = hashed
	return nil
}

// CheckPassword verifies if the provided password matches the stored hash
func (u *Staff) CheckPassword(password string) bool {
	return CheckPassword(u.Password, password)
}

func (u *Staff) IsActive() bool { return u.ActiveStatus != Inactive }

// HasPermission checks the permission codes loaded from the staff member's role.
func (u *Staff) HasPermission(code string) bool {
	for _, p := range u.Perms {
		if p == code {
			return true
		}
	}
	return false
}

func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
