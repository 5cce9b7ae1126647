package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Company is the tenant. Everything else hangs off its id.
type Company struct {
	ID                uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name              string    `gorm:"type:varchar(100);not null" json:"name" validate:"required,max=100"`
	Email             string    `gorm:"type:varchar(100)" json:"email" validate:"omitempty,email,max=100"`
	Phone             string    `gorm:"type:varchar(30)" json:"phone" validate:"max=30"`
	Address           string    `gorm:"type:text" json:"address"`
	TaxIsGST          string    `gorm:"type:varchar(3);not null;default:No" json:"tax_is_gst" validate:"required,oneof=Yes No"`
	TaxRegistrationNo string    `gorm:"type:varchar(50)" json:"tax_registration_no" validate:"max=50"`
	Currency          string    `gorm:"type:varchar(10);default:USD" json:"currency" validate:"max=10"`
	DelStatus         DelStatus `gorm:"type:varchar(10);not null;default:Live" json:"del_status"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

func (c *Company) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if c.DelStatus == "" {
		c.DelStatus = Live
	}
	if c.TaxIsGST == "" {
		c.TaxIsGST = No
	}
	return nil
}

// RequiresGST reports whether customers of this company must carry a GST number.
func (c *Company) RequiresGST() bool { return c.TaxIsGST == Yes }

// Shared Yes/No and status values
const (
	Yes = "Yes"
	No  = "No"

	Active   = "Active"
	Inactive = "Inactive"

	Enabled  = "Enabled"
	Disabled = "Disabled"
)
