// Package tenant carries the authenticated principal through a request and
// turns it into GORM scopes so every query is filtered by company.
package tenant

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrNoScope is returned when a request reaches the data layer without a principal.
var ErrNoScope = errors.New("tenant scope is required but not found in context")

// Scope is the request scoped principal: who is writing and for which company.
// BranchID is set when the client selected a branch (X-Branch-ID header or branch_id query).
type Scope struct {
	UserID    uuid.UUID
	CompanyID uuid.UUID
	BranchID  *uuid.UUID
}

func (s Scope) Valid() bool { return s.CompanyID != uuid.Nil }

// HasBranch reports whether a branch has been selected.
func (s Scope) HasBranch() bool { return s.BranchID != nil && *s.BranchID != uuid.Nil }

// Company filters by company_id.
func (s Scope) Company() func(db *gorm.DB) *gorm.DB {
	return CompanyScope(s.CompanyID)
}

// Branch filters by branch_id when a branch is selected, otherwise it is a no-op.
func (s Scope) Branch() func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if !s.HasBranch() {
			return db
		}
		return db.Where("branch_id = ?", *s.BranchID)
	}
}

// CompanyScope applies tenant filtering to GORM queries
func CompanyScope(companyID uuid.UUID) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("company_id = ?", companyID)
	}
}

// Live hides soft deleted rows.
func Live(db *gorm.DB) *gorm.DB {
	return db.Where("del_status = ?", "Live")
}

type ctxKey struct{}

// WithScope stores the scope on a context.
func WithScope(ctx context.Context, s Scope) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// FromContext returns the scope set by the auth middleware.
func FromContext(ctx context.Context) (Scope, error) {
	s, ok := ctx.Value(ctxKey{}).(Scope)
	if !ok || !s.Valid() {
		return Scope{}, ErrNoScope
	}
	return s, nil
}
