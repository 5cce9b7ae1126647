package model

// Banner is shown on the storefront. At most one is Enabled per company.
type Banner struct {
	TenantModel
	Title       string `gorm:"type:varchar(150);not null" json:"title" form:"title" validate:"required,max=150"`
	Description string `gorm:"type:text" json:"description" form:"description"`
	Link        string `gorm:"type:varchar(255)" json:"link" form:"link" validate:"omitempty,url,max=255"`
	Photo       string `gorm:"type:varchar(255)" json:"photo" form:"-"`
	Status      string `gorm:"type:varchar(10);not null;default:Enabled" json:"status" form:"status" validate:"omitempty,oneof=Enabled Disabled"`
}

type FAQ struct {
	TenantModel
	Question  string `gorm:"type:varchar(255);not null" json:"question" form:"question" validate:"required,max=255"`
	Answer    string `gorm:"type:text;not null" json:"answer" form:"answer" validate:"required"`
	Status    string `gorm:"type:varchar(10);not null;default:Enabled" json:"status" form:"status" validate:"omitempty,oneof=Enabled Disabled"`
	SortOrder int    `gorm:"not null;default:0" json:"sort_order" form:"sort_order" validate:"gte=0"`
}

func (FAQ) TableName() string { return "faqs" }

// Vacation blocks a date range. With AutoResponse=Yes incoming mail gets MailSubject/MailBody back.
type Vacation struct {
	TenantModel
	Title        string `gorm:"type:varchar(150);not null" json:"title" form:"title" validate:"required,max=150"`
	StartDate    Date   `json:"start_date" form:"start_date" validate:"required"`
	EndDate      Date   `json:"end_date" form:"end_date" validate:"required"`
	AutoResponse string `gorm:"type:varchar(3);not null;default:No" json:"auto_response" form:"auto_response" validate:"omitempty,oneof=Yes No"`
	MailSubject  string `gorm:"type:varchar(255)" json:"mail_subject" form:"mail_subject" validate:"required_if=AutoResponse Yes,max=255"`
	MailBody     string `gorm:"type:text" json:"mail_body" form:"mail_body" validate:"required_if=AutoResponse Yes"`
	Note         string `gorm:"type:text" json:"note" form:"note"`
}
