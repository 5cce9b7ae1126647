package repository

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"bizdesk-api/internal/model"
	"bizdesk-api/internal/tenant"
)

func branchRepo(db *gorm.DB) ResourceRepository[model.Branch, *model.Branch] {
	return NewResourceRepo[model.Branch, *model.Branch](db, ListSpec[model.Branch]{
		Search:       []string{"branch_name", "branch_code", "phone"},
		Sort:         []string{"branch_name", "branch_code", "created_at"},
		DefaultSort:  "branch_name",
		DefaultOrder: "asc",
		Filters:      []Filter{{Param: "active_status", Column: "active_status", Default: model.Active}},
	})
}

func seedBranch(t *testing.T, db *gorm.DB, sc tenant.Scope, name, code, phone, status string) *model.Branch {
	t.Helper()
	b := &model.Branch{BranchName: name, BranchCode: code, Phone: phone, ActiveStatus: status}
	b.CompanyID = sc.CompanyID
	require.NoError(t, db.Create(b).Error)
	return b
}

func names(items []model.Branch) []string {
	out := make([]string, len(items))
	for i, b := range items {
		out[i] = b.BranchName
	}
	return out
}

func TestResourceRepo_ListIsTenantScoped(t *testing.T) {
	db := setupTestDB(t)
	repo := branchRepo(db)
	a, b := newCompany(t, db), newCompany(t, db)

	seedBranch(t, db, a, "Alpha", "A1", "", model.Active)
	foreign := seedBranch(t, db, b, "Bravo", "B1", "", model.Active)

	page, err := repo.List(context.Background(), a, ListQuery{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Total)
	assert.Equal(t, []string{"Alpha"}, names(page.Items))

	_, err = repo.FindByID(context.Background(), a, foreign.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestResourceRepo_SearchMatchesAnyColumn(t *testing.T) {
	db := setupTestDB(t)
	repo := branchRepo(db)
	sc := newCompany(t, db)

	seedBranch(t, db, sc, "Downtown", "DT01", "555-0100", model.Active)
	seedBranch(t, db, sc, "Harbor", "HB01", "555-0200", model.Active)
	seedBranch(t, db, sc, "Uptown", "UP01", "777-0300", model.Active)

	page, err := repo.List(context.Background(), sc, ListQuery{Search: "town"})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Downtown", "Uptown"}, names(page.Items))

	page, err = repo.List(context.Background(), sc, ListQuery{Search: "hb0"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Harbor"}, names(page.Items))

	page, err = repo.List(context.Background(), sc, ListQuery{Search: "555"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Total)
}

func TestResourceRepo_TotalIgnoresPagination(t *testing.T) {
	db := setupTestDB(t)
	repo := branchRepo(db)
	sc := newCompany(t, db)
	for _, n := range []string{"A", "B", "C", "D", "E"} {
		seedBranch(t, db, sc, n, n, "", model.Active)
	}

	page, err := repo.List(context.Background(), sc, ListQuery{PerPage: 2, Page: 3})
	require.NoError(t, err)
	assert.Equal(t, int64(5), page.Total)
	assert.Equal(t, []string{"E"}, names(page.Items))

	page, err = repo.List(context.Background(), sc, ListQuery{PerPage: PerPageAll})
	require.NoError(t, err)
	assert.Len(t, page.Items, 5)
	assert.Equal(t, int64(5), page.Total)
}

func TestResourceRepo_SortWhitelistAndFilters(t *testing.T) {
	db := setupTestDB(t)
	repo := branchRepo(db)
	sc := newCompany(t, db)
	seedBranch(t, db, sc, "Beta", "Z9", "", model.Active)
	seedBranch(t, db, sc, "Alpha", "Y1", "", model.Active)
	seedBranch(t, db, sc, "Closed", "X0", "", model.Inactive)

	page, err := repo.List(context.Background(), sc, ListQuery{SortBy: "branch_code", OrderBy: "desc"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Beta", "Alpha"}, names(page.Items))

	// Unknown columns fall back to the default sort
	page, err = repo.List(context.Background(), sc, ListQuery{SortBy: "id; DROP TABLE branches", OrderBy: "sideways"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Alpha", "Beta"}, names(page.Items))

	page, err = repo.List(context.Background(), sc, ListQuery{Filters: map[string]string{"active_status": "all"}})
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.Total)

	page, err = repo.List(context.Background(), sc, ListQuery{Filters: map[string]string{"active_status": model.Inactive}})
	require.NoError(t, err)
	assert.Equal(t, []string{"Closed"}, names(page.Items))
}

func TestResourceRepo_SoftDeleteHidesRow(t *testing.T) {
	db := setupTestDB(t)
	repo := branchRepo(db)
	sc := newCompany(t, db)
	b := seedBranch(t, db, sc, "Alpha", "A1", "", model.Active)

	for i := 0; i < 2; i++ {
		found, err := repo.FindAny(db, sc, b.ID)
		require.NoError(t, err)
		require.NoError(t, repo.SoftDelete(db, sc, found))
	}

	var stored model.Branch
	require.NoError(t, db.First(&stored, "id = ?", b.ID).Error)
	assert.Equal(t, model.Deleted, stored.DelStatus)

	_, err := repo.FindByID(context.Background(), sc, b.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	taken, err := repo.IsTaken(db, sc, "branch_code", "A1", uuid.Nil, false, false)
	require.NoError(t, err)
	assert.False(t, taken, "deleted rows do not hold unique values")

	_, err = repo.LockLive(db, sc, b.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestResourceRepo_IsTakenFoldsCase(t *testing.T) {
	db := setupTestDB(t)
	repo := branchRepo(db)
	a, b := newCompany(t, db), newCompany(t, db)
	seedBranch(t, db, a, "Alpha", "Main-A", "", model.Active)

	taken, err := repo.IsTaken(db, a, "branch_code", "MAIN-a", uuid.Nil, false, false)
	require.NoError(t, err)
	assert.False(t, taken)

	taken, err = repo.IsTaken(db, a, "branch_code", " MAIN-a ", uuid.Nil, false, true)
	require.NoError(t, err)
	assert.True(t, taken)

	taken, err = repo.IsTaken(db, b, "branch_code", "main-a", uuid.Nil, false, true)
	require.NoError(t, err)
	assert.False(t, taken, "other tenants are not consulted")
	taken, err = repo.IsTaken(db, b, "branch_code", "main-a", uuid.Nil, true, true)
	require.NoError(t, err)
	assert.True(t, taken)
}

func TestResourceRepo_SingleRowLookupsFollowSelectedBranch(t *testing.T) {
	db := setupTestDB(t)
	sc := newCompany(t, db)
	main := seedBranch(t, db, sc, "Main", "M1", "", model.Active)
	annex := seedBranch(t, db, sc, "Annex", "A1", "", model.Active)

	repo := NewResourceRepo[model.Deposit, *model.Deposit](db, ListSpec[model.Deposit]{BranchScoped: true})
	d := &model.Deposit{ReferenceNo: "DW-000001", Type: model.TypeDeposit, Date: model.NewDate(2024, 1, 2)}
	d.CompanyID = sc.CompanyID
	d.BranchID = main.ID
	require.NoError(t, db.Create(d).Error)

	annexScope := sc
	annexScope.BranchID = &annex.ID
	_, err := repo.FindByID(context.Background(), annexScope, d.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	_, err = repo.FindAny(db, annexScope, d.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	_, err = repo.LockLive(db, annexScope, d.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	mainScope := sc
	mainScope.BranchID = &main.ID
	for _, scope := range []tenant.Scope{sc, mainScope} {
		got, err := repo.FindByID(context.Background(), scope, d.ID)
		require.NoError(t, err)
		assert.Equal(t, d.ID, got.ID)
		_, err = repo.LockLive(db, scope, d.ID)
		require.NoError(t, err)
	}
}

func TestResourceRepo_LoadRefs(t *testing.T) {
	db := setupTestDB(t)
	sc := newCompany(t, db)
	pm := &model.PaymentMethod{Name: "Cash"}
	pm.CompanyID = sc.CompanyID
	require.NoError(t, db.Create(pm).Error)

	repo := NewResourceRepo[model.Deposit, *model.Deposit](db, ListSpec[model.Deposit]{
		Refs: []RefSpec[model.Deposit]{{
			Table: "payment_methods", Label: "name",
			Key: func(d *model.Deposit) *uuid.UUID { return &d.PaymentMethodID },
			Set: func(d *model.Deposit, r *model.Ref) { d.PaymentMethod = r },
		}},
	})
	d := &model.Deposit{ReferenceNo: "DW-000001", Type: model.TypeDeposit, PaymentMethodID: pm.ID, Date: model.NewDate(2024, 1, 2)}
	d.CompanyID = sc.CompanyID
	require.NoError(t, db.Create(d).Error)

	got, err := repo.FindByID(context.Background(), sc, d.ID)
	require.NoError(t, err)
	require.NotNil(t, got.PaymentMethod)
	assert.Equal(t, "Cash", got.PaymentMethod.Name)
	assert.Equal(t, "2024-01-02", got.Date.String())
}

func TestSortClause(t *testing.T) {
	allowed := []string{"name", "created_at"}
	assert.Equal(t, "name asc", SortClause("NAME", "ASC", allowed, "created_at", "desc"))
	assert.Equal(t, "created_at desc", SortClause("password", "", allowed, "created_at", "desc"))
}
