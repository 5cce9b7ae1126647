package model

type Supplier struct {
	TenantModel
	Name          string `gorm:"type:varchar(100);not null" json:"name" form:"name" validate:"required,max=100"`
	ContactPerson string `gorm:"type:varchar(100)" json:"contact_person" form:"contact_person" validate:"max=100"`
	Phone         string `gorm:"type:varchar(30)" json:"phone" form:"phone" validate:"max=30"`
	Email         string `gorm:"type:varchar(100)" json:"email" form:"email" validate:"omitempty,email,max=100"`
	Address       string `gorm:"type:text" json:"address" form:"address"`
	Description   string `gorm:"type:text" json:"description" form:"description"`
}
