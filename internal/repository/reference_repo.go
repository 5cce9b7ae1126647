package repository

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"bizdesk-api/internal/model"
)

// ReferenceRepository issues sequential document numbers like DW-000123.
type ReferenceRepository interface {
	LockCompany(tx *gorm.DB, companyID uuid.UUID) error
	Next(tx *gorm.DB, companyID uuid.UUID, table, prefix string) (string, error)
}

type referenceRepo struct{}

func NewReferenceRepo() ReferenceRepository {
	return &referenceRepo{}
}

// LockCompany takes a row lock on the tenant's company row. Every writer that
// derives state from other rows of the tenant (reference numbers, the enabled
// banner) takes it first, so they run one at a time per company.
func (r *referenceRepo) LockCompany(tx *gorm.DB, companyID uuid.UUID) error {
	var company model.Company
	return tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Select("id").
		First(&company, "id = ?", companyID).Error
}

// Next must be called inside the transaction that persists the number, after LockCompany.
// Deleted rows are included so a number is never issued twice.
func (r *referenceRepo) Next(tx *gorm.DB, companyID uuid.UUID, table, prefix string) (string, error) {
	var last []string
	err := tx.Table(table).
		Where("company_id = ? AND reference_no LIKE ?", companyID, prefix+"-%").
		Order("LENGTH(reference_no) DESC, reference_no DESC").
		Limit(1).
		Pluck("reference_no", &last).Error
	if err != nil {
		return "", err
	}

	next := 1
	if len(last) > 0 {
		n, err := ParseReference(last[0], prefix)
		if err != nil {
			return "", err
		}
		next = n + 1
	}
	return FormatReference(prefix, next), nil
}

func FormatReference(prefix string, n int) string {
	return fmt.Sprintf("%s-%06d", prefix, n)
}

// ParseReference reads the numeric suffix after "<prefix>-".
func ParseReference(ref, prefix string) (int, error) {
	suffix, ok := strings.CutPrefix(ref, prefix+"-")
	if !ok {
		return 0, fmt.Errorf("reference %q does not start with %s-", ref, prefix)
	}
	n, err := strconv.Atoi(suffix)
	if err != nil {
		return 0, fmt.Errorf("reference %q: %w", ref, err)
	}
	return n, nil
}
