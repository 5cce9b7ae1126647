package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"bizdesk-api/internal/model"
	"bizdesk-api/internal/repository"
	"bizdesk-api/internal/tenant"
	"bizdesk-api/pkg/validator"
)

// Resources holds every entity served by the generic resource manager.
type Resources struct {
	Branches          *Resource[model.Branch, *model.Branch]
	Staff             *Resource[model.Staff, *model.Staff]
	Roles             *Resource[model.Role, *model.Role]
	Customers         *Resource[model.Customer, *model.Customer]
	Suppliers         *Resource[model.Supplier, *model.Supplier]
	ExpenseCategories *Resource[model.ExpenseCategory, *model.ExpenseCategory]
	Expenses          *Resource[model.Expense, *model.Expense]
	PaymentMethods    *Resource[model.PaymentMethod, *model.PaymentMethod]
	Deposits          *Resource[model.Deposit, *model.Deposit]
	SupplierPayments  *Resource[model.SupplierPayment, *model.SupplierPayment]
	Banners           *Resource[model.Banner, *model.Banner]
	FAQs              *Resource[model.FAQ, *model.FAQ]
	Vacations         *Resource[model.Vacation, *model.Vacation]
}

// Document number prefixes
const (
	DepositPrefix         = "DW"
	SupplierPaymentPrefix = "SP"
)

func NewResources(deps Deps, companies repository.CompanyRepository, roles repository.RoleRepository, payments repository.PaymentRepository) *Resources {
	return &Resources{
		Branches:          NewResource(deps, branchSchema()),
		Staff:             NewResource(deps, staffSchema()),
		Roles:             NewResource(deps, roleSchema(roles)),
		Customers:         NewResource(deps, customerSchema(deps.DB, companies)),
		Suppliers:         NewResource(deps, supplierSchema()),
		ExpenseCategories: NewResource(deps, expenseCategorySchema()),
		Expenses:          NewResource(deps, expenseSchema()),
		PaymentMethods:    NewResource(deps, paymentMethodSchema()),
		Deposits:          NewResource(deps, depositSchema(deps.Refs, payments)),
		SupplierPayments:  NewResource(deps, supplierPaymentSchema(deps.Refs)),
		Banners:           NewResource(deps, bannerSchema()),
		FAQs:              NewResource(deps, faqSchema()),
		Vacations:         NewResource(deps, vacationSchema()),
	}
}

func branchSchema() Schema[model.Branch, *model.Branch] {
	return Schema[model.Branch, *model.Branch]{
		Name:  "branches",
		Label: "Branch",
		List: repository.ListSpec[model.Branch]{
			Search:       []string{"branch_name", "branch_code", "phone"},
			Sort:         []string{"branch_name", "branch_code", "phone", "created_at"},
			DefaultSort:  "branch_name",
			DefaultOrder: "asc",
			Filters:      []repository.Filter{{Param: "active_status", Column: "active_status", Default: model.Active}},
		},
		Unique: []UniqueRule[model.Branch]{
			{Field: "branch_code", Column: "branch_code", Value: func(b *model.Branch) any { return b.BranchCode }},
		},
		Prepare: func(rec, existing *model.Branch) {
			def := model.Active
			if existing != nil {
				def = existing.ActiveStatus
			}
			rec.ActiveStatus = orDefault(rec.ActiveStatus, def)
		},
	}
}

func staffSchema() Schema[model.Staff, *model.Staff] {
	return Schema[model.Staff, *model.Staff]{
		Name:  "staff",
		Label: "Staff",
		List: repository.ListSpec[model.Staff]{
			Search:  []string{"name", "email", "phone", "designation"},
			Sort:    []string{"name", "email", "designation", "created_at"},
			Filters: []repository.Filter{{Param: "active_status", Column: "active_status"}, {Param: "role_id", Column: "role_id"}},
			Refs: []repository.RefSpec[model.Staff]{
				{Table: "roles", Label: "title",
					Key: func(u *model.Staff) *uuid.UUID { return &u.RoleID },
					Set: func(u *model.Staff, r *model.Ref) { u.Role = r }},
				{Table: "branches", Label: "branch_name",
					Key: func(u *model.Staff) *uuid.UUID { return u.BranchID },
					Set: func(u *model.Staff, r *model.Ref) { u.Branch = r }},
			},
		},
		Unique: []UniqueRule[model.Staff]{
			// Email is the login key, so it is unique across companies
			{Field: "email", Column: "email", Global: true, Fold: true, Value: func(u *model.Staff) any { return u.Email }},
		},
		Exists: []ExistsRule[model.Staff]{
			{Field: "role_id", Table: "roles", Value: func(u *model.Staff) *uuid.UUID { return &u.RoleID }},
			{Field: "branch_id", Table: "branches", Value: func(u *model.Staff) *uuid.UUID { return u.BranchID }},
		},
		File: &FileField[model.Staff]{
			Field: "photo", Folder: "staff",
			Get: func(u *model.Staff) string { return u.Photo },
			Set: func(u *model.Staff, p string) { u.Photo = p },
		},
		Prepare: func(rec, existing *model.Staff) {
			rec.Email = normalizeEmail(rec.Email)
			def := model.Active
			if existing != nil {
				def = existing.ActiveStatus
			}
			rec.ActiveStatus = orDefault(rec.ActiveStatus, def)
			if existing != nil {
				rec.Password = existing.Password
				rec.TokenVersion = existing.TokenVersion
				rec.LastLoginAt = existing.LastLoginAt
			}
		},
		Validate: func(_ context.Context, _ tenant.Scope, rec, existing *model.Staff) (validator.Errors, error) {
			errs := validator.Errors{}
			if existing == nil && rec.NewPassword == "" {
				errs.Add("password", "The password field is required.")
			}
			return errs, nil
		},
		BeforeSave: func(_ *gorm.DB, _ tenant.Scope, rec, _ *model.Staff) error {
			if rec.NewPassword == "" {
				return nil
			}
			if err := rec.SetPassword(rec.NewPassword); err != nil {
				return err
			}
			rec.NewPassword = ""
			// Signs out sessions issued with the old password
			rec.TokenVersion = uuid.NewString()
			return nil
		},
		BeforeDelete: func(_ *gorm.DB, sc tenant.Scope, rec *model.Staff) error {
			if rec.ID == sc.UserID {
				return ErrForbidden
			}
			return nil
		},
	}
}

func roleSchema(roles repository.RoleRepository) Schema[model.Role, *model.Role] {
	return Schema[model.Role, *model.Role]{
		Name:  "roles",
		Label: "Role",
		List: repository.ListSpec[model.Role]{
			Search:       []string{"title"},
			Sort:         []string{"title", "created_at"},
			DefaultSort:  "title",
			DefaultOrder: "asc",
			Preload:      []string{"Permissions"},
		},
		Unique: []UniqueRule[model.Role]{
			{Field: "title", Column: "title", Value: func(r *model.Role) any { return r.Title }},
		},
		Prepare: func(rec, existing *model.Role) {
			rec.Permissions = nil
		},
		// nil permission_ids on update keeps the current set; an empty list clears it
		AfterSave: func(tx *gorm.DB, _ tenant.Scope, rec, existing *model.Role) error {
			if existing != nil && rec.PermissionIDs == nil {
				return nil
			}
			err := roles.SyncPermissions(tx, rec, rec.PermissionIDs)
			if errors.Is(err, repository.ErrUnknownPermission) {
				return Invalid("permission_ids", "The selected permission_ids is invalid.")
			}
			return err
		},
	}
}

func customerSchema(db *gorm.DB, companies repository.CompanyRepository) Schema[model.Customer, *model.Customer] {
	return Schema[model.Customer, *model.Customer]{
		Name:  "customers",
		Label: "Customer",
		List: repository.ListSpec[model.Customer]{
			Search: []string{"name", "phone", "email"},
			Sort:   []string{"name", "email", "phone", "created_at"},
		},
		Unique: []UniqueRule[model.Customer]{
			{Field: "email", Column: "email", Fold: true, Value: func(c *model.Customer) any { return c.Email }},
		},
		File: &FileField[model.Customer]{
			Field: "photo", Folder: "customers",
			Get: func(c *model.Customer) string { return c.Photo },
			Set: func(c *model.Customer, p string) { c.Photo = p },
		},
		Prepare: func(rec, existing *model.Customer) {
			rec.Email = normalizeEmail(rec.Email)
			if existing != nil {
				rec.Password = existing.Password
				rec.Provider = existing.Provider
				rec.EmailVerifiedAt = existing.EmailVerifiedAt
			}
		},
		Validate: func(ctx context.Context, sc tenant.Scope, rec, _ *model.Customer) (validator.Errors, error) {
			errs := validator.Errors{}
			company, err := companies.FindByID(db.WithContext(ctx), sc.CompanyID)
			if err != nil {
				return nil, err
			}
			if company.RequiresGST() && rec.GSTNumber == "" {
				errs.Add("gst_number", "The gst_number field is required.")
			}
			return errs, nil
		},
	}
}

func supplierSchema() Schema[model.Supplier, *model.Supplier] {
	return Schema[model.Supplier, *model.Supplier]{
		Name:  "suppliers",
		Label: "Supplier",
		List: repository.ListSpec[model.Supplier]{
			Search: []string{"name", "contact_person", "phone", "email"},
			Sort:   []string{"name", "contact_person", "created_at"},
		},
	}
}

func expenseCategorySchema() Schema[model.ExpenseCategory, *model.ExpenseCategory] {
	return Schema[model.ExpenseCategory, *model.ExpenseCategory]{
		Name:  "expense_categories",
		Label: "Expense category",
		List: repository.ListSpec[model.ExpenseCategory]{
			Search: []string{"name", "description"},
			Sort:   []string{"name", "created_at"},
		},
		Unique: []UniqueRule[model.ExpenseCategory]{
			{Field: "name", Column: "name", Value: func(c *model.ExpenseCategory) any { return c.Name }},
		},
	}
}

func paymentMethodRef[T any](get func(*T) *uuid.UUID, set func(*T, *model.Ref)) repository.RefSpec[T] {
	return repository.RefSpec[T]{Table: "payment_methods", Label: "name", Key: get, Set: set}
}

func expenseSchema() Schema[model.Expense, *model.Expense] {
	return Schema[model.Expense, *model.Expense]{
		Name:       "expenses",
		Label:      "Expense",
		HardDelete: true,
		List: repository.ListSpec[model.Expense]{
			Search:       []string{"note", "amount"},
			Sort:         []string{"date", "amount", "created_at"},
			DefaultSort:  "date",
			BranchScoped: true,
			Filters: []repository.Filter{
				{Param: "category_id", Column: "category_id"},
				{Param: "payment_method_id", Column: "payment_method_id"},
			},
			Refs: []repository.RefSpec[model.Expense]{
				{Table: "expense_categories", Label: "name",
					Key: func(e *model.Expense) *uuid.UUID { return &e.CategoryID },
					Set: func(e *model.Expense, r *model.Ref) { e.Category = r }},
				{Table: "users", Label: "name",
					Key: func(e *model.Expense) *uuid.UUID { return e.EmployeeID },
					Set: func(e *model.Expense, r *model.Ref) { e.Employee = r }},
				paymentMethodRef(
					func(e *model.Expense) *uuid.UUID { return &e.PaymentMethodID },
					func(e *model.Expense, r *model.Ref) { e.PaymentMethod = r }),
			},
		},
		Exists: []ExistsRule[model.Expense]{
			{Field: "category_id", Table: "expense_categories", Value: func(e *model.Expense) *uuid.UUID { return &e.CategoryID }},
			{Field: "employee_id", Table: "users", Value: func(e *model.Expense) *uuid.UUID { return e.EmployeeID }},
			{Field: "payment_method_id", Table: "payment_methods", Value: func(e *model.Expense) *uuid.UUID { return &e.PaymentMethodID }},
		},
	}
}

func paymentMethodSchema() Schema[model.PaymentMethod, *model.PaymentMethod] {
	return Schema[model.PaymentMethod, *model.PaymentMethod]{
		Name:  "payment_methods",
		Label: "Payment method",
		List: repository.ListSpec[model.PaymentMethod]{
			Search:       []string{"name", "account_type"},
			Sort:         []string{"name", "account_type", "current_balance", "created_at"},
			DefaultSort:  "name",
			DefaultOrder: "asc",
		},
		Unique: []UniqueRule[model.PaymentMethod]{
			{Field: "name", Column: "name", Value: func(p *model.PaymentMethod) any { return p.Name }},
		},
		Prepare: func(rec, existing *model.PaymentMethod) {
			rec.CurrentBalance = decimal.Zero
			if existing != nil {
				rec.CurrentBalance = existing.CurrentBalance
			}
		},
	}
}

func depositSchema(refs repository.ReferenceRepository, payments repository.PaymentRepository) Schema[model.Deposit, *model.Deposit] {
	adjust := func(tx *gorm.DB, sc tenant.Scope, paymentMethodID uuid.UUID, delta decimal.Decimal) error {
		_, err := payments.AdjustBalance(tx, sc.CompanyID, paymentMethodID, delta)
		if errors.Is(err, repository.ErrInsufficientBalance) {
			return Invalid("amount", "Insufficient balance in the selected payment method.")
		}
		return err
	}

	return Schema[model.Deposit, *model.Deposit]{
		Name:      "deposits",
		Label:     "Deposit",
		Serialize: true,
		List: repository.ListSpec[model.Deposit]{
			Search:       []string{"reference_no", "note", "amount"},
			Sort:         []string{"reference_no", "date", "amount", "type", "created_at"},
			BranchScoped: true,
			Filters: []repository.Filter{
				{Param: "type", Column: "type"},
				{Param: "payment_method_id", Column: "payment_method_id"},
			},
			Refs: []repository.RefSpec[model.Deposit]{
				paymentMethodRef(
					func(d *model.Deposit) *uuid.UUID { return &d.PaymentMethodID },
					func(d *model.Deposit, r *model.Ref) { d.PaymentMethod = r }),
			},
		},
		Exists: []ExistsRule[model.Deposit]{
			{Field: "payment_method_id", Table: "payment_methods", Value: func(d *model.Deposit) *uuid.UUID { return &d.PaymentMethodID }},
		},
		Prepare: func(rec, existing *model.Deposit) {
			rec.ReferenceNo = ""
			if existing != nil {
				rec.ReferenceNo = existing.ReferenceNo
			}
		},
		BeforeSave: func(tx *gorm.DB, sc tenant.Scope, rec, existing *model.Deposit) error {
			if existing == nil {
				ref, err := refs.Next(tx, sc.CompanyID, "deposits", DepositPrefix)
				if err != nil {
					return err
				}
				rec.ReferenceNo = ref
				return adjust(tx, sc, rec.PaymentMethodID, rec.SignedAmount())
			}
			// Same account: apply only the difference so an edit never dips below zero on the way
			if existing.PaymentMethodID == rec.PaymentMethodID {
				return adjust(tx, sc, rec.PaymentMethodID, rec.SignedAmount().Sub(existing.SignedAmount()))
			}
			if err := adjust(tx, sc, existing.PaymentMethodID, existing.SignedAmount().Neg()); err != nil {
				return err
			}
			return adjust(tx, sc, rec.PaymentMethodID, rec.SignedAmount())
		},
		BeforeDelete: func(tx *gorm.DB, sc tenant.Scope, rec *model.Deposit) error {
			if rec.DelStatus != model.Live {
				return nil
			}
			return adjust(tx, sc, rec.PaymentMethodID, rec.SignedAmount().Neg())
		},
	}
}

func supplierPaymentSchema(refs repository.ReferenceRepository) Schema[model.SupplierPayment, *model.SupplierPayment] {
	return Schema[model.SupplierPayment, *model.SupplierPayment]{
		Name:      "supplier_payments",
		Label:     "Supplier payment",
		Serialize: true,
		List: repository.ListSpec[model.SupplierPayment]{
			Search:       []string{"reference_no", "note", "amount"},
			Sort:         []string{"reference_no", "date", "amount", "created_at"},
			BranchScoped: true,
			Filters: []repository.Filter{
				{Param: "supplier_id", Column: "supplier_id"},
				{Param: "payment_method_id", Column: "payment_method_id"},
			},
			Refs: []repository.RefSpec[model.SupplierPayment]{
				{Table: "suppliers", Label: "name",
					Key: func(p *model.SupplierPayment) *uuid.UUID { return &p.SupplierID },
					Set: func(p *model.SupplierPayment, r *model.Ref) { p.Supplier = r }},
				paymentMethodRef(
					func(p *model.SupplierPayment) *uuid.UUID { return &p.PaymentMethodID },
					func(p *model.SupplierPayment, r *model.Ref) { p.PaymentMethod = r }),
			},
		},
		Exists: []ExistsRule[model.SupplierPayment]{
			{Field: "supplier_id", Table: "suppliers", Value: func(p *model.SupplierPayment) *uuid.UUID { return &p.SupplierID }},
			{Field: "payment_method_id", Table: "payment_methods", Value: func(p *model.SupplierPayment) *uuid.UUID { return &p.PaymentMethodID }},
		},
		Prepare: func(rec, existing *model.SupplierPayment) {
			rec.ReferenceNo = ""
			if existing != nil {
				rec.ReferenceNo = existing.ReferenceNo
			}
		},
		BeforeSave: func(tx *gorm.DB, sc tenant.Scope, rec, existing *model.SupplierPayment) error {
			if existing != nil {
				return nil
			}
			ref, err := refs.Next(tx, sc.CompanyID, "supplier_payments", SupplierPaymentPrefix)
			if err != nil {
				return err
			}
			rec.ReferenceNo = ref
			return nil
		},
	}
}

func bannerSchema() Schema[model.Banner, *model.Banner] {
	return Schema[model.Banner, *model.Banner]{
		Name:      "banners",
		Label:     "Banner",
		Serialize: true,
		List: repository.ListSpec[model.Banner]{
			Search:  []string{"title", "description"},
			Sort:    []string{"title", "status", "created_at"},
			Filters: []repository.Filter{{Param: "status", Column: "status"}},
		},
		File: &FileField[model.Banner]{
			Field: "photo", Folder: "banners", Required: true,
			Get: func(b *model.Banner) string { return b.Photo },
			Set: func(b *model.Banner, p string) { b.Photo = p },
		},
		Prepare: func(rec, existing *model.Banner) {
			def := model.Enabled
			if existing != nil {
				def = existing.Status
			}
			rec.Status = orDefault(rec.Status, def)
		},
		// Only one banner is shown at a time
		AfterSave: func(tx *gorm.DB, sc tenant.Scope, rec, _ *model.Banner) error {
			if rec.Status != model.Enabled {
				return nil
			}
			return tx.Model(&model.Banner{}).
				Scopes(sc.Company(), tenant.Live).
				Where("id <> ? AND status = ?", rec.ID, model.Enabled).
				Updates(map[string]any{"status": model.Disabled, "user_id": sc.UserID}).Error
		},
	}
}

func faqSchema() Schema[model.FAQ, *model.FAQ] {
	return Schema[model.FAQ, *model.FAQ]{
		Name:  "faqs",
		Label: "FAQ",
		List: repository.ListSpec[model.FAQ]{
			Search:       []string{"question", "answer"},
			Sort:         []string{"sort_order", "question", "created_at"},
			DefaultSort:  "sort_order",
			DefaultOrder: "asc",
			Filters:      []repository.Filter{{Param: "status", Column: "status"}},
		},
		Prepare: func(rec, existing *model.FAQ) {
			def := model.Enabled
			if existing != nil {
				def = existing.Status
			}
			rec.Status = orDefault(rec.Status, def)
		},
	}
}

func vacationSchema() Schema[model.Vacation, *model.Vacation] {
	return Schema[model.Vacation, *model.Vacation]{
		Name:  "vacations",
		Label: "Vacation",
		List: repository.ListSpec[model.Vacation]{
			Search:      []string{"title", "mail_subject"},
			Sort:        []string{"title", "start_date", "end_date", "created_at"},
			DefaultSort: "start_date",
		},
		Prepare: func(rec, existing *model.Vacation) {
			def := model.No
			if existing != nil {
				def = existing.AutoResponse
			}
			rec.AutoResponse = orDefault(rec.AutoResponse, def)
		},
		Validate: func(_ context.Context, _ tenant.Scope, rec, _ *model.Vacation) (validator.Errors, error) {
			errs := validator.Errors{}
			if !rec.StartDate.IsZero() && !rec.EndDate.IsZero() && rec.EndDate.Before(rec.StartDate.Time) {
				errs.Add("end_date", "The end_date must be a date after or equal to start_date.")
			}
			return errs, nil
		},
	}
}

// normalizeEmail matches how login and social sign-in look emails up.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func orDefault(value, def string) string {
	if value == "" {
		return def
	}
	return value
}
