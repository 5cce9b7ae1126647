package model

import "strings"

// Permission represents one action on one resource, e.g. "branches.create".
// The catalog is global; roles pick from it.
type Permission struct {
	ID    uint   `gorm:"primaryKey" json:"id"`
	Code  string `gorm:"type:varchar(60);uniqueIndex;not null" json:"code"`
	Title string `gorm:"type:varchar(100)" json:"title"`      // e.g., "Create Branch"
	Label string `gorm:"type:varchar(60);index" json:"label"` // menu group, e.g., "Branch"
}

// Permission actions
const (
	ActionView   = "view"
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionDelete = "delete"
)

// PermissionResource is a protected resource and the label it is grouped under.
type PermissionResource struct {
	Name    string
	Label   string
	Actions []string
}

var crud = []string{ActionView, ActionCreate, ActionUpdate, ActionDelete}

// PermissionResources lists every protected resource.
var PermissionResources = []PermissionResource{
	{Name: "branches", Label: "Branch", Actions: crud},
	{Name: "staff", Label: "Staff", Actions: crud},
	{Name: "roles", Label: "Role", Actions: crud},
	{Name: "customers", Label: "Customer", Actions: crud},
	{Name: "suppliers", Label: "Supplier", Actions: crud},
	{Name: "expense_categories", Label: "Expense Category", Actions: crud},
	{Name: "expenses", Label: "Expense", Actions: crud},
	{Name: "payment_methods", Label: "Payment Method", Actions: crud},
	{Name: "deposits", Label: "Deposit/Withdraw", Actions: crud},
	{Name: "supplier_payments", Label: "Supplier Payment", Actions: crud},
	{Name: "banners", Label: "Banner", Actions: crud},
	{Name: "faqs", Label: "FAQ", Actions: crud},
	{Name: "vacations", Label: "Vacation", Actions: crud},
	{Name: "company", Label: "Company", Actions: []string{ActionView, ActionUpdate}},
}

// PermissionCode builds "<resource>.<action>".
func PermissionCode(resource, action string) string {
	return resource + "." + action
}

// DefaultPermissions expands PermissionResources into the catalog rows.
func DefaultPermissions() []Permission {
	var out []Permission
	for _, r := range PermissionResources {
		for _, a := range r.Actions {
			out = append(out, Permission{
				Code:  PermissionCode(r.Name, a),
				Title: strings.ToUpper(a[:1]) + a[1:] + " " + r.Label,
				Label: r.Label,
			})
		}
	}
	return out
}

// PermissionGroup is one label with its permissions, as shown in the role editor.
type PermissionGroup struct {
	Label       string       `json:"label"`
	Permissions []Permission `json:"permissions"`
}
