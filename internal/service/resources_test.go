package service

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bizdesk-api/internal/model"
	"bizdesk-api/internal/repository"
	"bizdesk-api/internal/tenant"
)

func requireFieldError(t *testing.T, err error, field string) {
	t.Helper()
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Errors, field, "errors: %v", verr.Errors)
}

func TestCustomer_GSTNumberFollowsCompanySetting(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	gst := env.company(t, model.Yes)
	_, err := env.res.Customers.Create(ctx, gst, &model.Customer{Name: "Ann"}, nil)
	requireFieldError(t, err, "gst_number")

	_, err = env.res.Customers.Create(ctx, gst, &model.Customer{Name: "Ann", GSTNumber: "29ABCDE1234F1Z5"}, nil)
	assert.NoError(t, err)

	plain := env.company(t, model.No)
	_, err = env.res.Customers.Create(ctx, plain, &model.Customer{Name: "Ann"}, nil)
	assert.NoError(t, err)
}

func TestCustomer_EmailUniquePerTenant(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	a, b := env.company(t, model.No), env.company(t, model.No)

	_, err := env.res.Customers.Create(ctx, a, &model.Customer{Name: "Ann", Email: "ann@example.com"}, nil)
	require.NoError(t, err)
	_, err = env.res.Customers.Create(ctx, a, &model.Customer{Name: "Ann 2", Email: "ann@example.com"}, nil)
	requireFieldError(t, err, "email")
	_, err = env.res.Customers.Create(ctx, b, &model.Customer{Name: "Ann", Email: "ann@example.com"}, nil)
	assert.NoError(t, err)
}

func enabledBanners(t *testing.T, env *testEnv, sc tenant.Scope) []string {
	t.Helper()
	var titles []string
	require.NoError(t, env.db.Model(&model.Banner{}).
		Where("company_id = ? AND del_status = ? AND status = ?", sc.CompanyID, model.Live, model.Enabled).
		Pluck("title", &titles).Error)
	return titles
}

func TestBanner_AtMostOneEnabled(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	sc, other := env.company(t, model.No), env.company(t, model.No)

	_, err := env.res.Banners.Create(ctx, sc, &model.Banner{Title: "Missing photo"}, nil)
	requireFieldError(t, err, "photo")

	_, err = env.res.Banners.Create(ctx, other, &model.Banner{Title: "Elsewhere"}, upload("o.png", "o"))
	require.NoError(t, err)

	first, err := env.res.Banners.Create(ctx, sc, &model.Banner{Title: "Spring"}, upload("a.png", "a"))
	require.NoError(t, err)
	assert.Equal(t, model.Enabled, first.Status)

	_, err = env.res.Banners.Create(ctx, sc, &model.Banner{Title: "Summer"}, upload("b.png", "b"))
	require.NoError(t, err)
	assert.Equal(t, []string{"Summer"}, enabledBanners(t, env, sc))

	// A disabled banner leaves the enabled one alone
	_, err = env.res.Banners.Create(ctx, sc, &model.Banner{Title: "Draft", Status: model.Disabled}, upload("c.png", "c"))
	require.NoError(t, err)
	assert.Equal(t, []string{"Summer"}, enabledBanners(t, env, sc))

	// Re-enabling on update wins again, keeping its photo
	updated, err := env.res.Banners.Update(ctx, sc, first.ID, &model.Banner{Title: "Spring", Status: model.Enabled}, nil)
	require.NoError(t, err)
	assert.Equal(t, first.Photo, updated.Photo)
	assert.Equal(t, []string{"Spring"}, enabledBanners(t, env, sc))

	// Other tenants are untouched
	assert.Equal(t, []string{"Elsewhere"}, enabledBanners(t, env, other))
}

func TestVacation_Rules(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	sc := env.company(t, model.No)

	_, err := env.res.Vacations.Create(ctx, sc, &model.Vacation{
		Title: "Holiday", StartDate: model.NewDate(2024, 12, 24), EndDate: model.NewDate(2024, 12, 26), AutoResponse: model.Yes,
	}, nil)
	requireFieldError(t, err, "mail_subject")
	requireFieldError(t, err, "mail_body")

	_, err = env.res.Vacations.Create(ctx, sc, &model.Vacation{
		Title: "Holiday", StartDate: model.NewDate(2024, 12, 24), EndDate: model.NewDate(2024, 12, 20),
	}, nil)
	requireFieldError(t, err, "end_date")

	_, err = env.res.Vacations.Create(ctx, sc, &model.Vacation{Title: "Holiday"}, nil)
	requireFieldError(t, err, "start_date")

	v, err := env.res.Vacations.Create(ctx, sc, &model.Vacation{
		Title: "Holiday", StartDate: model.NewDate(2024, 12, 24), EndDate: model.NewDate(2024, 12, 24),
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, model.No, v.AutoResponse)
	assert.Equal(t, "2024-12-24", v.EndDate.String())
}

func paymentMethod(t *testing.T, env *testEnv, sc tenant.Scope, name string) *model.PaymentMethod {
	t.Helper()
	pm, err := env.res.PaymentMethods.Create(context.Background(), sc, &model.PaymentMethod{
		Name: name, CurrentBalance: decimal.NewFromInt(1_000_000),
	}, nil)
	require.NoError(t, err)
	require.True(t, pm.CurrentBalance.IsZero(), "balance is not client writable")
	return pm
}

func balanceOf(t *testing.T, env *testEnv, id uuid.UUID) decimal.Decimal {
	t.Helper()
	var pm model.PaymentMethod
	require.NoError(t, env.db.First(&pm, "id = ?", id).Error)
	return pm.CurrentBalance
}

func TestDeposit_ReferenceNumbersAndBalance(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	sc := env.company(t, model.No)
	br := env.branch(t, sc, "BR01")
	sc.BranchID = &br.ID
	cash := paymentMethod(t, env, sc, "Cash")
	bank := paymentMethod(t, env, sc, "Bank")

	newDeposit := func(kind string, amount int64, pm uuid.UUID) *model.Deposit {
		return &model.Deposit{Date: model.NewDate(2024, 5, 1), Type: kind, Amount: decimal.NewFromInt(amount), PaymentMethodID: pm}
	}

	var refs []string
	for i := 0; i < 3; i++ {
		d, err := env.res.Deposits.Create(ctx, sc, newDeposit(model.TypeDeposit, 100, cash.ID), nil)
		require.NoError(t, err)
		refs = append(refs, d.ReferenceNo)
		assert.Equal(t, br.ID, d.BranchID)
		require.NotNil(t, d.PaymentMethod)
		assert.Equal(t, "Cash", d.PaymentMethod.Name)
	}
	assert.Equal(t, []string{"DW-000001", "DW-000002", "DW-000003"}, refs)
	assert.True(t, balanceOf(t, env, cash.ID).Equal(decimal.NewFromInt(300)))

	_, err := env.res.Deposits.Create(ctx, sc, newDeposit(model.TypeWithdraw, 301, cash.ID), nil)
	requireFieldError(t, err, "amount")
	assert.True(t, balanceOf(t, env, cash.ID).Equal(decimal.NewFromInt(300)))

	w, err := env.res.Deposits.Create(ctx, sc, newDeposit(model.TypeWithdraw, 250, cash.ID), nil)
	require.NoError(t, err)
	assert.Equal(t, "DW-000004", w.ReferenceNo, "a rolled back attempt does not consume a number")
	assert.True(t, balanceOf(t, env, cash.ID).Equal(decimal.NewFromInt(50)))

	// Moving the withdrawal to the empty bank account is refused
	_, err = env.res.Deposits.Update(ctx, sc, w.ID, newDeposit(model.TypeWithdraw, 250, bank.ID), nil)
	requireFieldError(t, err, "amount")

	// Shrinking it on the same account applies the difference
	w, err = env.res.Deposits.Update(ctx, sc, w.ID, newDeposit(model.TypeWithdraw, 200, cash.ID), nil)
	require.NoError(t, err)
	assert.Equal(t, "DW-000004", w.ReferenceNo)
	assert.True(t, balanceOf(t, env, cash.ID).Equal(decimal.NewFromInt(100)))

	// Deleting reverses, once
	require.NoError(t, env.res.Deposits.Delete(ctx, sc, w.ID))
	require.NoError(t, env.res.Deposits.Delete(ctx, sc, w.ID))
	assert.True(t, balanceOf(t, env, cash.ID).Equal(decimal.NewFromInt(300)))
}

func TestDeposit_RequiresBranch(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	sc := env.company(t, model.No)
	cash := paymentMethod(t, env, sc, "Cash")

	_, err := env.res.Deposits.Create(ctx, sc, &model.Deposit{
		Date: model.NewDate(2024, 5, 1), Type: model.TypeDeposit, Amount: decimal.NewFromInt(1), PaymentMethodID: cash.ID,
	}, nil)
	requireFieldError(t, err, "branch_id")
}

func TestSupplierPayment_ReferenceAndExistence(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	sc := env.company(t, model.No)
	br := env.branch(t, sc, "BR01")
	sc.BranchID = &br.ID
	cash := paymentMethod(t, env, sc, "Cash")
	supplier, err := env.res.Suppliers.Create(ctx, sc, &model.Supplier{Name: "Northwind"}, nil)
	require.NoError(t, err)

	_, err = env.res.SupplierPayments.Create(ctx, sc, &model.SupplierPayment{
		Date: model.NewDate(2024, 5, 1), SupplierID: uuid.New(), PaymentMethodID: cash.ID, Amount: decimal.NewFromInt(10),
	}, nil)
	requireFieldError(t, err, "supplier_id")

	p, err := env.res.SupplierPayments.Create(ctx, sc, &model.SupplierPayment{
		Date: model.NewDate(2024, 5, 1), SupplierID: supplier.ID, PaymentMethodID: cash.ID, Amount: decimal.NewFromInt(10),
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, "SP-000001", p.ReferenceNo)
	require.NotNil(t, p.Supplier)
	assert.Equal(t, "Northwind", p.Supplier.Name)
}

func TestExpense_HardDeleteAndBranchScope(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	sc := env.company(t, model.No)
	main, annex := env.branch(t, sc, "BR01"), env.branch(t, sc, "BR02")
	cash := paymentMethod(t, env, sc, "Cash")
	cat, err := env.res.ExpenseCategories.Create(ctx, sc, &model.ExpenseCategory{Name: "Rent"}, nil)
	require.NoError(t, err)

	mainScope, annexScope := sc, sc
	mainScope.BranchID, annexScope.BranchID = &main.ID, &annex.ID

	e, err := env.res.Expenses.Create(ctx, mainScope, &model.Expense{
		Date: model.NewDate(2024, 1, 31), Amount: decimal.NewFromInt(900), CategoryID: cat.ID, PaymentMethodID: cash.ID,
	}, nil)
	require.NoError(t, err)
	require.NotNil(t, e.Category)
	assert.Equal(t, "Rent", e.Category.Name)
	assert.Nil(t, e.Employee)

	page, err := env.res.Expenses.List(ctx, annexScope, repository.ListQuery{})
	require.NoError(t, err)
	assert.Zero(t, page.Total)
	page, err = env.res.Expenses.List(ctx, sc, repository.ListQuery{Search: "900"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Total)

	require.NoError(t, env.res.Expenses.Delete(ctx, mainScope, e.ID))
	var count int64
	require.NoError(t, env.db.Model(&model.Expense{}).Where("id = ?", e.ID).Count(&count).Error)
	assert.Zero(t, count)
	assert.ErrorIs(t, env.res.Expenses.Delete(ctx, mainScope, e.ID), ErrNotFound)
}

func TestRole_PermissionsAreReplaced(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	sc := env.company(t, model.No)
	all, err := env.perms.FindAll()
	require.NoError(t, err)

	role, err := env.res.Roles.Create(ctx, sc, &model.Role{Title: "Cashier", PermissionIDs: []uint{all[0].ID, all[1].ID}}, nil)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{all[0].Code, all[1].Code}, role.PermissionCodes())

	role, err = env.res.Roles.Update(ctx, sc, role.ID, &model.Role{Title: "Cashier", PermissionIDs: []uint{all[2].ID}}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{all[2].Code}, role.PermissionCodes())

	// Omitted ids keep the set
	role, err = env.res.Roles.Update(ctx, sc, role.ID, &model.Role{Title: "Head cashier"}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{all[2].Code}, role.PermissionCodes())

	_, err = env.res.Roles.Update(ctx, sc, role.ID, &model.Role{Title: "Head cashier", PermissionIDs: []uint{424242}}, nil)
	requireFieldError(t, err, "permission_ids")

	role, err = env.res.Roles.Update(ctx, sc, role.ID, &model.Role{Title: "Head cashier", PermissionIDs: []uint{}}, nil)
	require.NoError(t, err)
	assert.Empty(t, role.Permissions)
}

func TestStaff_PasswordEmailAndSelfDelete(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	sc := env.company(t, model.No)
	other := env.company(t, model.No)
	role, err := env.res.Roles.Create(ctx, sc, &model.Role{Title: "Clerk"}, nil)
	require.NoError(t, err)

	_, err = env.res.Staff.Create(ctx, sc, &model.Staff{Name: "Bo", Email: "bo@example.com", RoleID: role.ID}, nil)
	requireFieldError(t, err, "password")

	u, err := env.res.Staff.Create(ctx, sc, &model.Staff{Name: "Bo", Email: "bo@example.com", RoleID: role.ID, NewPassword: "secret1"}, nil)
	require.NoError(t, err)
	require.NotNil(t, u.Role)
	assert.Equal(t, "Clerk", u.Role.Name)

	stored, err := env.users.FindByID(u.ID)
	require.NoError(t, err)
	assert.True(t, stored.CheckPassword("secret1"))
	version := stored.TokenVersion

	// Emails are global login keys
	otherRole, err := env.res.Roles.Create(ctx, other, &model.Role{Title: "Clerk"}, nil)
	require.NoError(t, err)
	_, err = env.res.Staff.Create(ctx, other, &model.Staff{Name: "Bo", Email: "bo@example.com", RoleID: otherRole.ID, NewPassword: "secret1"}, nil)
	requireFieldError(t, err, "email")

	// A role of another company is not acceptable
	_, err = env.res.Staff.Create(ctx, sc, &model.Staff{Name: "Cy", Email: "cy@example.com", RoleID: otherRole.ID, NewPassword: "secret1"}, nil)
	requireFieldError(t, err, "role_id")

	// Update without a password keeps hash and sessions
	_, err = env.res.Staff.Update(ctx, sc, u.ID, &model.Staff{Name: "Bo B", Email: "bo@example.com", RoleID: role.ID}, nil)
	require.NoError(t, err)
	stored, err = env.users.FindByID(u.ID)
	require.NoError(t, err)
	assert.True(t, stored.CheckPassword("secret1"))
	assert.Equal(t, version, stored.TokenVersion)

	self := sc
	self.UserID = u.ID
	assert.ErrorIs(t, env.res.Staff.Delete(ctx, self, u.ID), ErrForbidden)
	assert.NoError(t, env.res.Staff.Delete(ctx, sc, u.ID))
}

func TestFAQ_DefaultOrder(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	sc := env.company(t, model.No)
	for i, q := range []string{"Third?", "First?", "Second?"} {
		order := []int{3, 1, 2}[i]
		_, err := env.res.FAQs.Create(ctx, sc, &model.FAQ{Question: q, Answer: "A", SortOrder: order}, nil)
		require.NoError(t, err)
	}
	page, err := env.res.FAQs.List(ctx, sc, repository.ListQuery{})
	require.NoError(t, err)
	require.Len(t, page.Items, 3)
	assert.Equal(t, "First?", page.Items[0].Question)
	assert.Equal(t, model.Enabled, page.Items[0].Status)
}

func TestBanner_UpdateWithoutStatusKeepsIt(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	sc := env.company(t, model.No)

	spring, err := env.res.Banners.Create(ctx, sc, &model.Banner{Title: "Spring"}, upload("a.png", "a"))
	require.NoError(t, err)
	summer, err := env.res.Banners.Create(ctx, sc, &model.Banner{Title: "Summer"}, upload("b.png", "b"))
	require.NoError(t, err)
	require.Equal(t, []string{"Summer"}, enabledBanners(t, env, sc))

	// Editing the enabled banner leaves it the only one shown
	summer, err = env.res.Banners.Update(ctx, sc, summer.ID, &model.Banner{Title: "Summer sale"}, nil)
	require.NoError(t, err)
	assert.Equal(t, model.Enabled, summer.Status)
	assert.Equal(t, []string{"Summer sale"}, enabledBanners(t, env, sc))

	// Editing the disabled one does not bring it back
	spring, err = env.res.Banners.Update(ctx, sc, spring.ID, &model.Banner{Title: "Spring sale"}, nil)
	require.NoError(t, err)
	assert.Equal(t, model.Disabled, spring.Status)
	assert.Equal(t, []string{"Summer sale"}, enabledBanners(t, env, sc))

	// Enabling it through update switches the other off
	_, err = env.res.Banners.Update(ctx, sc, spring.ID, &model.Banner{Title: "Spring sale", Status: model.Enabled}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"Spring sale"}, enabledBanners(t, env, sc))
}

func TestDeposit_UpdateLosingToDeleteIsNotFound(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	sc := env.company(t, model.No)
	br := env.branch(t, sc, "BR01")
	sc.BranchID = &br.ID
	cash := paymentMethod(t, env, sc, "Cash")

	d, err := env.res.Deposits.Create(ctx, sc, &model.Deposit{
		Date: model.NewDate(2024, 5, 1), Type: model.TypeDeposit, Amount: decimal.NewFromInt(100), PaymentMethodID: cash.ID,
	}, nil)
	require.NoError(t, err)

	// The deposit is deleted after the update has read it but before it writes
	schema := depositSchema(env.deps.Refs, repository.NewPaymentRepo())
	prepare := schema.Prepare
	var once sync.Once
	schema.Prepare = func(rec, existing *model.Deposit) {
		if existing != nil {
			once.Do(func() { require.NoError(t, env.res.Deposits.Delete(ctx, sc, existing.ID)) })
		}
		prepare(rec, existing)
	}
	deposits := NewResource(env.deps, schema)

	_, err = deposits.Update(ctx, sc, d.ID, &model.Deposit{
		Date: model.NewDate(2024, 5, 1), Type: model.TypeDeposit, Amount: decimal.NewFromInt(150), PaymentMethodID: cash.ID,
	}, nil)
	assert.ErrorIs(t, err, ErrNotFound)

	var stored model.Deposit
	require.NoError(t, env.db.First(&stored, "id = ?", d.ID).Error)
	assert.Equal(t, model.Deleted, stored.DelStatus)
	assert.True(t, stored.Amount.Equal(decimal.NewFromInt(100)))
	assert.True(t, balanceOf(t, env, cash.ID).IsZero(), "balance matches the live deposits")
}

func TestDeposit_OtherBranchIsNotFound(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	sc := env.company(t, model.No)
	main, annex := env.branch(t, sc, "BR01"), env.branch(t, sc, "BR02")
	mainScope, annexScope := sc, sc
	mainScope.BranchID, annexScope.BranchID = &main.ID, &annex.ID
	cash := paymentMethod(t, env, sc, "Cash")

	deposit := func(amount int64) *model.Deposit {
		return &model.Deposit{Date: model.NewDate(2024, 5, 1), Type: model.TypeDeposit, Amount: decimal.NewFromInt(amount), PaymentMethodID: cash.ID}
	}
	d, err := env.res.Deposits.Create(ctx, mainScope, deposit(100), nil)
	require.NoError(t, err)

	_, err = env.res.Deposits.Get(ctx, annexScope, d.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = env.res.Deposits.Update(ctx, annexScope, d.ID, deposit(10), nil)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, env.res.Deposits.Delete(ctx, annexScope, d.ID), ErrNotFound)
	assert.True(t, balanceOf(t, env, cash.ID).Equal(decimal.NewFromInt(100)))

	// Without a selected branch every branch of the company is visible
	got, err := env.res.Deposits.Get(ctx, sc, d.ID)
	require.NoError(t, err)
	assert.Equal(t, main.ID, got.BranchID)
}

func TestStaff_EmailIsCaseInsensitiveLoginKey(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	a, b := env.company(t, model.No), env.company(t, model.No)
	roleA, err := env.res.Roles.Create(ctx, a, &model.Role{Title: "Clerk"}, nil)
	require.NoError(t, err)
	roleB, err := env.res.Roles.Create(ctx, b, &model.Role{Title: "Clerk"}, nil)
	require.NoError(t, err)

	u, err := env.res.Staff.Create(ctx, a, &model.Staff{Name: "Bo", Email: " Bo@Example.com ", RoleID: roleA.ID, NewPassword: "secret1"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "bo@example.com", u.Email)

	_, err = env.res.Staff.Create(ctx, b, &model.Staff{Name: "Bo", Email: "BO@EXAMPLE.COM", RoleID: roleB.ID, NewPassword: "secret1"}, nil)
	requireFieldError(t, err, "email")

	found, err := env.users.FindByEmail("BO@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, found.ID)

	// The owner of the address may change its case
	u, err = env.res.Staff.Update(ctx, a, u.ID, &model.Staff{Name: "Bo", Email: "BO@example.com", RoleID: roleA.ID}, nil)
	require.NoError(t, err)
	assert.Equal(t, "bo@example.com", u.Email)
}

func TestCustomer_EmailIsCaseInsensitive(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	sc := env.company(t, model.No)

	c, err := env.res.Customers.Create(ctx, sc, &model.Customer{Name: "Ann", Email: "Ann@Example.com"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "ann@example.com", c.Email)

	_, err = env.res.Customers.Create(ctx, sc, &model.Customer{Name: "Ann 2", Email: "ANN@example.com"}, nil)
	requireFieldError(t, err, "email")
}

func TestStaff_UpdateWithoutStatusKeepsIt(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	sc := env.company(t, model.No)
	role, err := env.res.Roles.Create(ctx, sc, &model.Role{Title: "Clerk"}, nil)
	require.NoError(t, err)

	u, err := env.res.Staff.Create(ctx, sc, &model.Staff{Name: "Bo", Email: "bo@example.com", RoleID: role.ID, NewPassword: "secret1"}, nil)
	require.NoError(t, err)
	assert.Equal(t, model.Active, u.ActiveStatus)

	u, err = env.res.Staff.Update(ctx, sc, u.ID, &model.Staff{Name: "Bo", Email: "bo@example.com", RoleID: role.ID, ActiveStatus: model.Inactive}, nil)
	require.NoError(t, err)
	require.Equal(t, model.Inactive, u.ActiveStatus)

	u, err = env.res.Staff.Update(ctx, sc, u.ID, &model.Staff{Name: "Bo B", Email: "bo@example.com", RoleID: role.ID}, nil)
	require.NoError(t, err)
	assert.Equal(t, "Bo B", u.Name)
	assert.Equal(t, model.Inactive, u.ActiveStatus)
}
