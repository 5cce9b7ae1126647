package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"bizdesk-api/pkg/validator"
)

// DelStatus is the soft delete marker. Rows are never removed, only flipped to Deleted.
type DelStatus string

const (
	Live    DelStatus = "Live"
	Deleted DelStatus = "Deleted"
)

// TenantModel is embedded by every company owned record.
type TenantModel struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id" form:"-"`
	CompanyID uuid.UUID  `gorm:"type:uuid;not null;index" json:"company_id" form:"-"`
	UserID    *uuid.UUID `gorm:"type:uuid" json:"user_id,omitempty" form:"-"` // last writer
	DelStatus DelStatus  `gorm:"type:varchar(10);not null;default:Live;index" json:"del_status" form:"-"`
	CreatedAt time.Time  `json:"created_at" form:"-"`
	UpdatedAt time.Time  `json:"updated_at" form:"-"`
}

// Hook Before Create untuk generate UUID otomatis
func (b *TenantModel) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	if b.DelStatus == "" {
		b.DelStatus = Live
	}
	return nil
}

func (b *TenantModel) Base() *TenantModel { return b }

// Record is satisfied by pointers to tenant owned models.
type Record[T any] interface {
	*T
	Base() *TenantModel
}

// BranchOwned records additionally carry the branch they were written under.
type BranchOwned interface {
	GetBranchID() uuid.UUID
	SetBranchID(uuid.UUID)
}

// BranchRef is embedded by branch scoped records.
type BranchRef struct {
	BranchID uuid.UUID `gorm:"type:uuid;not null;index" json:"branch_id" form:"-"`
}

func (b *BranchRef) GetBranchID() uuid.UUID   { return b.BranchID }
func (b *BranchRef) SetBranchID(id uuid.UUID) { b.BranchID = id }

// Ref is the minimal projection used when eager loading related records.
type Ref struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// Date is a calendar date serialized as YYYY-MM-DD.
type Date struct {
	time.Time
}

const dateLayout = "2006-01-02"

func NewDate(y int, m time.Month, d int) Date {
	return Date{time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q, use YYYY-MM-DD", s)
	}
	return Date{t}, nil
}

func (d Date) AsTime() time.Time { return d.Time }

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(dateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil || s == "" {
		*d = Date{}
		return nil
	}
	// Accept full timestamps too, keeping only the day
	if len(s) > len(dateLayout) {
		s = s[:len(dateLayout)]
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// UnmarshalText lets multipart form values bind to a Date.
func (d *Date) UnmarshalText(b []byte) error {
	if len(b) == 0 {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (d Date) Value() (driver.Value, error) {
	if d.IsZero() {
		return nil, nil
	}
	return d.Format(dateLayout), nil
}

func (d *Date) Scan(value any) error {
	switch v := value.(type) {
	case nil:
		*d = Date{}
	case time.Time:
		*d = Date{time.Date(v.Year(), v.Month(), v.Day(), 0, 0, 0, 0, time.UTC)}
	case string:
		return d.UnmarshalText([]byte(trimDate(v)))
	case []byte:
		return d.UnmarshalText([]byte(trimDate(string(v))))
	default:
		return fmt.Errorf("cannot scan %T into Date", value)
	}
	return nil
}

func trimDate(s string) string {
	if len(s) > len(dateLayout) {
		return s[:len(dateLayout)]
	}
	return s
}

// GormDataType keeps the column a DATE on every dialect.
func (Date) GormDataType() string { return "date" }

func init() {
	validator.RegisterDateType(Date{})
}

// All lists every table for AutoMigrate, parents first.
func All() []any {
	return []any{
		&Company{}, &Permission{}, &Role{}, &Branch{}, &Staff{}, &Customer{}, &Supplier{},
		&ExpenseCategory{}, &PaymentMethod{}, &Expense{}, &Deposit{}, &SupplierPayment{},
		&Banner{}, &FAQ{}, &Vacation{},
	}
}
