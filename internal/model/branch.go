package model

type Branch struct {
	TenantModel
	BranchName   string `gorm:"type:varchar(100);not null" json:"branch_name" form:"branch_name" validate:"required,max=100"`
	BranchCode   string `gorm:"type:varchar(30);not null;index" json:"branch_code" form:"branch_code" validate:"required,max=30"`
	Phone        string `gorm:"type:varchar(30)" json:"phone" form:"phone" validate:"max=30"`
	Email        string `gorm:"type:varchar(100)" json:"email" form:"email" validate:"omitempty,email,max=100"`
	Address      string `gorm:"type:text" json:"address" form:"address"`
	ActiveStatus string `gorm:"type:varchar(10);not null;default:Active" json:"active_status" form:"active_status" validate:"omitempty,oneof=Active Inactive"`
}
