package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"bizdesk-api/internal/model"
	"bizdesk-api/internal/tenant"
)

const (
	DefaultPerPage = 10
	maxPerPage     = 500
	// PerPageAll disables pagination.
	PerPageAll = -1
)

// Page is the list envelope: items plus the count before pagination.
type Page[T any] struct {
	Items []T   `json:"items"`
	Total int64 `json:"total"`
}

// ListQuery is what the client asked for.
type ListQuery struct {
	Search  string
	SortBy  string
	OrderBy string
	Page    int
	PerPage int
	// Raw query values for entity filters (active_status, type, ...)
	Filters map[string]string
}

// Filter is an equality filter driven by a query parameter.
// Default applies when the parameter is absent; the value "all" disables it.
type Filter struct {
	Param   string
	Column  string
	Default string
}

// RefSpec loads a minimal id + display name projection of a related row.
type RefSpec[T any] struct {
	Table string
	Label string // column used as the display name
	Key   func(*T) *uuid.UUID
	Set   func(*T, *model.Ref)
}

// ListSpec describes how an entity is listed.
type ListSpec[T any] struct {
	Search       []string // OR matched, substring, case insensitive
	Sort         []string // columns accepted in sortBy
	DefaultSort  string
	DefaultOrder string
	Filters      []Filter
	BranchScoped bool
	Refs         []RefSpec[T]
	Preload      []string // gorm associations, e.g. Role.Permissions
}

// ResourceRepository is the tenant scoped data access shared by every entity.
// Reads run on the repository's connection, writes take the caller's transaction.
type ResourceRepository[T any, PT model.Record[T]] interface {
	List(ctx context.Context, sc tenant.Scope, q ListQuery) (*Page[T], error)
	FindByID(ctx context.Context, sc tenant.Scope, id uuid.UUID) (PT, error)
	FindAny(tx *gorm.DB, sc tenant.Scope, id uuid.UUID) (PT, error)
	LockLive(tx *gorm.DB, sc tenant.Scope, id uuid.UUID) (PT, error)
	IsTaken(tx *gorm.DB, sc tenant.Scope, column string, value any, exceptID uuid.UUID, global, fold bool) (bool, error)
	Create(tx *gorm.DB, rec PT) error
	Save(tx *gorm.DB, rec PT) error
	SoftDelete(tx *gorm.DB, sc tenant.Scope, rec PT) error
	HardDelete(tx *gorm.DB, rec PT) error
	LoadRefs(ctx context.Context, items []T) error
	DB() *gorm.DB
}

type resourceRepo[T any, PT model.Record[T]] struct {
	db   *gorm.DB
	spec ListSpec[T]
}

func NewResourceRepo[T any, PT model.Record[T]](db *gorm.DB, spec ListSpec[T]) ResourceRepository[T, PT] {
	if spec.DefaultSort == "" {
		spec.DefaultSort = "created_at"
	}
	if spec.DefaultOrder == "" {
		spec.DefaultOrder = "desc"
	}
	return &resourceRepo[T, PT]{db: db, spec: spec}
}

func (r *resourceRepo[T, PT]) DB() *gorm.DB { return r.db }

func (r *resourceRepo[T, PT]) filtered(ctx context.Context, sc tenant.Scope, q ListQuery) *gorm.DB {
	db := r.db.WithContext(ctx).Model(PT(new(T))).Scopes(sc.Company(), tenant.Live)
	if r.spec.BranchScoped {
		db = db.Scopes(sc.Branch())
	}

	for _, f := range r.spec.Filters {
		value, ok := q.Filters[f.Param]
		if !ok {
			value = f.Default
		}
		if value == "" || strings.EqualFold(value, "all") {
			continue
		}
		db = db.Where(f.Column+" = ?", value)
	}

	if term := strings.TrimSpace(q.Search); term != "" && len(r.spec.Search) > 0 {
		like := "%" + strings.ToLower(term) + "%"
		conds := make([]string, len(r.spec.Search))
		args := make([]any, len(r.spec.Search))
		for i, col := range r.spec.Search {
			conds[i] = fmt.Sprintf("LOWER(CAST(%s AS TEXT)) LIKE ?", col)
			args[i] = like
		}
		db = db.Where("("+strings.Join(conds, " OR ")+")", args...)
	}
	return db
}

func (r *resourceRepo[T, PT]) preload(db *gorm.DB) *gorm.DB {
	for _, p := range r.spec.Preload {
		db = db.Preload(p)
	}
	return db
}

// SortClause resolves sortBy/orderBy against the whitelist, falling back to the default.
func SortClause(sortBy, orderBy string, allowed []string, defSort, defOrder string) string {
	column := defSort
	for _, c := range allowed {
		if strings.EqualFold(c, sortBy) {
			column = c
			break
		}
	}
	order := strings.ToLower(orderBy)
	if order != "asc" && order != "desc" {
		order = defOrder
	}
	return column + " " + order
}

func (r *resourceRepo[T, PT]) List(ctx context.Context, sc tenant.Scope, q ListQuery) (*Page[T], error) {
	page := &Page[T]{Items: []T{}}
	if err := r.filtered(ctx, sc, q).Count(&page.Total).Error; err != nil {
		return nil, err
	}
	if page.Total == 0 {
		return page, nil
	}

	db := r.filtered(ctx, sc, q).
		Order(SortClause(q.SortBy, q.OrderBy, r.spec.Sort, r.spec.DefaultSort, r.spec.DefaultOrder))

	perPage := q.PerPage
	switch {
	case perPage == PerPageAll:
	case perPage <= 0:
		perPage = DefaultPerPage
		fallthrough
	default:
		if perPage > maxPerPage {
			perPage = maxPerPage
		}
		pageNo := q.Page
		if pageNo < 1 {
			pageNo = 1
		}
		db = db.Limit(perPage).Offset((pageNo - 1) * perPage)
	}

	if err := db.Scopes(r.preload).Find(&page.Items).Error; err != nil {
		return nil, err
	}
	if err := r.LoadRefs(ctx, page.Items); err != nil {
		return nil, err
	}
	return page, nil
}

// scoped limits a single row lookup to the tenant and, for branch scoped
// entities, to the selected branch.
func (r *resourceRepo[T, PT]) scoped(db *gorm.DB, sc tenant.Scope) *gorm.DB {
	db = db.Scopes(sc.Company())
	if r.spec.BranchScoped {
		db = db.Scopes(sc.Branch())
	}
	return db
}

func (r *resourceRepo[T, PT]) FindByID(ctx context.Context, sc tenant.Scope, id uuid.UUID) (PT, error) {
	rec := PT(new(T))
	err := r.scoped(r.db.WithContext(ctx), sc).Scopes(tenant.Live, r.preload).First(rec, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	items := []T{*rec}
	if err := r.LoadRefs(ctx, items); err != nil {
		return nil, err
	}
	*rec = items[0]
	return rec, nil
}

// FindAny ignores del_status so deletes stay idempotent. The row stays locked
// until tx ends.
func (r *resourceRepo[T, PT]) FindAny(tx *gorm.DB, sc tenant.Scope, id uuid.UUID) (PT, error) {
	rec := PT(new(T))
	err := r.scoped(tx, sc).Clauses(clause.Locking{Strength: "UPDATE"}).First(rec, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// LockLive re-reads a Live row inside tx and locks it, so an update works
// from the committed state rather than a snapshot taken before the write.
func (r *resourceRepo[T, PT]) LockLive(tx *gorm.DB, sc tenant.Scope, id uuid.UUID) (PT, error) {
	rec := PT(new(T))
	err := r.scoped(tx, sc).Scopes(tenant.Live).Clauses(clause.Locking{Strength: "UPDATE"}).First(rec, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// IsTaken checks uniqueness among Live rows of the tenant, or of every tenant when global is set.
// String values compare case insensitively when fold is set.
func (r *resourceRepo[T, PT]) IsTaken(tx *gorm.DB, sc tenant.Scope, column string, value any, exceptID uuid.UUID, global, fold bool) (bool, error) {
	db := tx.Model(PT(new(T))).Scopes(tenant.Live)
	if str, ok := value.(string); ok && fold {
		db = db.Where("LOWER("+column+") = ?", strings.ToLower(strings.TrimSpace(str)))
	} else {
		db = db.Where(column+" = ?", value)
	}
	if !global {
		db = db.Scopes(sc.Company())
	}
	if exceptID != uuid.Nil {
		db = db.Where("id <> ?", exceptID)
	}
	var count int64
	if err := db.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Associations are synced explicitly (see RoleRepository.SyncPermissions), never as a side effect.
func (r *resourceRepo[T, PT]) Create(tx *gorm.DB, rec PT) error {
	return tx.Omit(clause.Associations).Create(rec).Error
}

func (r *resourceRepo[T, PT]) Save(tx *gorm.DB, rec PT) error {
	return tx.Omit("created_at", clause.Associations).Save(rec).Error
}

func (r *resourceRepo[T, PT]) SoftDelete(tx *gorm.DB, sc tenant.Scope, rec PT) error {
	base := rec.Base()
	return tx.Model(PT(new(T))).Scopes(sc.Company()).Where("id = ?", base.ID).
		Updates(map[string]any{"del_status": model.Deleted, "user_id": sc.UserID}).Error
}

func (r *resourceRepo[T, PT]) HardDelete(tx *gorm.DB, rec PT) error {
	return tx.Delete(rec).Error
}

func (r *resourceRepo[T, PT]) LoadRefs(ctx context.Context, items []T) error {
	if len(items) == 0 {
		return nil
	}
	for _, ref := range r.spec.Refs {
		ids := map[uuid.UUID]struct{}{}
		for i := range items {
			if id := ref.Key(&items[i]); id != nil && *id != uuid.Nil {
				ids[*id] = struct{}{}
			}
		}
		if len(ids) == 0 {
			continue
		}
		keys := make([]uuid.UUID, 0, len(ids))
		for id := range ids {
			keys = append(keys, id)
		}

		var rows []model.Ref
		err := r.db.WithContext(ctx).Table(ref.Table).
			Select("id, "+ref.Label+" AS name").
			Where("id IN ?", keys).
			Scan(&rows).Error
		if err != nil {
			return fmt.Errorf("load %s: %w", ref.Table, err)
		}
		byID := make(map[uuid.UUID]model.Ref, len(rows))
		for _, row := range rows {
			byID[row.ID] = row
		}
		for i := range items {
			id := ref.Key(&items[i])
			if id == nil {
				continue
			}
			if row, ok := byID[*id]; ok {
				ref.Set(&items[i], &row)
			}
		}
	}
	return nil
}

// RowExists reports whether a Live row with id exists in table for the tenant.
func RowExists(tx *gorm.DB, table string, sc tenant.Scope, id uuid.UUID) (bool, error) {
	var count int64
	err := tx.Table(table).Scopes(sc.Company(), tenant.Live).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}
