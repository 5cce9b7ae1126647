package model

import "time"

type Customer struct {
	TenantModel
	Name            string     `gorm:"type:varchar(100);not null" json:"name" form:"name" validate:"required,max=100"`
	Phone           string     `gorm:"type:varchar(30)" json:"phone" form:"phone" validate:"max=30"`
	Email           string     `gorm:"type:varchar(100);index" json:"email" form:"email" validate:"omitempty,email,max=100"`
	Address         string     `gorm:"type:text" json:"address" form:"address"`
	GSTNumber       string     `gorm:"column:gst_number;type:varchar(50)" json:"gst_number" form:"gst_number" validate:"max=50"`
	Photo           string     `gorm:"type:varchar(255)" json:"photo" form:"-"`
	Password        string     `gorm:"type:varchar(255)" json:"-" form:"-"`
	Provider        string     `gorm:"type:varchar(20)" json:"provider,omitempty" form:"-"` // last social provider used
	EmailVerifiedAt *time.Time `json:"email_verified_at,omitempty" form:"-"`
}
