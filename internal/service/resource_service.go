package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"bizdesk-api/internal/model"
	"bizdesk-api/internal/repository"
	"bizdesk-api/internal/tenant"
	"bizdesk-api/pkg/storage"
	"bizdesk-api/pkg/validator"
)

// UniqueRule rejects a value already used by another Live row.
type UniqueRule[T any] struct {
	Field  string
	Column string
	Global bool // across every tenant
	Fold   bool // case insensitive
	Value  func(*T) any
}

// ExistsRule requires a foreign key to point at a Live row of the tenant.
// A nil id is accepted (optional relation); required-ness comes from struct tags.
type ExistsRule[T any] struct {
	Field string
	Table string
	Value func(*T) *uuid.UUID
}

// FileField is an uploaded file stored beside the record.
type FileField[T any] struct {
	Field    string
	Folder   string
	Required bool // on create
	Get      func(*T) string
	Set      func(*T, string)
}

// Schema describes one entity for the generic resource manager.
type Schema[T any, PT model.Record[T]] struct {
	Name       string // plural resource name, used in events and permissions
	Label      string
	List       repository.ListSpec[T]
	Unique     []UniqueRule[T]
	Exists     []ExistsRule[T]
	File       *FileField[T]
	HardDelete bool
	// Serialize takes the company row lock before writing.
	Serialize bool

	// Prepare fills defaults and carries read-only fields over from existing (nil on create).
	Prepare func(rec, existing PT)
	// Validate adds rules struct tags cannot express.
	Validate func(ctx context.Context, sc tenant.Scope, rec, existing PT) (validator.Errors, error)
	// BeforeSave and AfterSave run inside the write transaction.
	BeforeSave   func(tx *gorm.DB, sc tenant.Scope, rec, existing PT) error
	AfterSave    func(tx *gorm.DB, sc tenant.Scope, rec, existing PT) error
	BeforeDelete func(tx *gorm.DB, sc tenant.Scope, rec PT) error
}

// Resource is the tenant scoped list/create/read/update/delete unit.
type Resource[T any, PT model.Record[T]] struct {
	schema   Schema[T, PT]
	repo     repository.ResourceRepository[T, PT]
	refs     repository.ReferenceRepository
	store    storage.Storage
	notifier Notifier
	logger   *zap.Logger
}

// Deps are the collaborators shared by every resource.
type Deps struct {
	DB       *gorm.DB
	Refs     repository.ReferenceRepository
	Store    storage.Storage
	Notifier Notifier
	Logger   *zap.Logger
}

func NewResource[T any, PT model.Record[T]](deps Deps, schema Schema[T, PT]) *Resource[T, PT] {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	notifier := deps.Notifier
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &Resource[T, PT]{
		schema:   schema,
		repo:     repository.NewResourceRepo[T, PT](deps.DB, schema.List),
		refs:     deps.Refs,
		store:    deps.Store,
		notifier: notifier,
		logger:   logger.With(zap.String("resource", schema.Name)),
	}
}

func (s *Resource[T, PT]) Name() string  { return s.schema.Name }
func (s *Resource[T, PT]) Label() string { return s.schema.Label }

// HasFile reports whether the resource accepts an upload.
func (s *Resource[T, PT]) HasFile() (field string, ok bool) {
	if s.schema.File == nil {
		return "", false
	}
	return s.schema.File.Field, true
}

func (s *Resource[T, PT]) List(ctx context.Context, sc tenant.Scope, q repository.ListQuery) (*repository.Page[T], error) {
	page, err := s.repo.List(ctx, sc, q)
	if err != nil {
		return nil, s.fail("list "+s.schema.Name, err)
	}
	return page, nil
}

func (s *Resource[T, PT]) Get(ctx context.Context, sc tenant.Scope, id uuid.UUID) (PT, error) {
	rec, err := s.repo.FindByID(ctx, sc, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, s.fail("load "+s.schema.Name, err)
	}
	return rec, nil
}

func (s *Resource[T, PT]) Create(ctx context.Context, sc tenant.Scope, rec PT, file *storage.Upload) (PT, error) {
	base := rec.Base()
	base.ID = uuid.Nil
	base.CompanyID = sc.CompanyID
	base.UserID = &sc.UserID
	base.DelStatus = model.Live

	errs := validator.Errors{}
	if owned, ok := any(rec).(model.BranchOwned); ok {
		if sc.HasBranch() {
			owned.SetBranchID(*sc.BranchID)
		}
		s.checkBranch(ctx, sc, owned, errs)
	}
	if s.schema.Prepare != nil {
		s.schema.Prepare(rec, nil)
	}
	if f := s.schema.File; f != nil {
		f.Set((*T)(rec), "")
		if f.Required && file == nil {
			errs.Add(f.Field, fmt.Sprintf("The %s field is required.", f.Field))
		}
	}
	if err := s.validate(ctx, sc, rec, nil, errs); err != nil {
		return nil, err
	}

	stored, err := s.storeFile(ctx, rec, file)
	if err != nil {
		return nil, err
	}

	err = s.transaction(ctx, sc, func(tx *gorm.DB) error {
		if s.schema.BeforeSave != nil {
			if err := s.schema.BeforeSave(tx, sc, rec, nil); err != nil {
				return err
			}
		}
		if err := s.repo.Create(tx, rec); err != nil {
			return err
		}
		if s.schema.AfterSave != nil {
			return s.schema.AfterSave(tx, sc, rec, nil)
		}
		return nil
	})
	if err != nil {
		s.removeFile(ctx, stored)
		return nil, s.fail("create "+s.schema.Label, err)
	}

	s.notify(sc, "created", base.ID)
	return s.reload(ctx, sc, rec)
}

func (s *Resource[T, PT]) Update(ctx context.Context, sc tenant.Scope, id uuid.UUID, rec PT, file *storage.Upload) (PT, error) {
	existing, err := s.Get(ctx, sc, id)
	if err != nil {
		return nil, err
	}

	rec.Base().UserID = &sc.UserID
	s.carryOver(rec, existing)
	if err := s.validate(ctx, sc, rec, existing, validator.Errors{}); err != nil {
		return nil, err
	}

	stored, err := s.storeFile(ctx, rec, file)
	if err != nil {
		return nil, err
	}

	var oldFile string
	err = s.transaction(ctx, sc, func(tx *gorm.DB) error {
		// A delete may have landed since the read above
		current, err := s.repo.LockLive(tx, sc, id)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		s.carryOver(rec, current)
		if f := s.schema.File; f != nil {
			oldFile = f.Get((*T)(current))
			if stored != "" {
				f.Set((*T)(rec), stored)
			}
		}

		if s.schema.BeforeSave != nil {
			if err := s.schema.BeforeSave(tx, sc, rec, current); err != nil {
				return err
			}
		}
		if err := s.repo.Save(tx, rec); err != nil {
			return err
		}
		if s.schema.AfterSave != nil {
			return s.schema.AfterSave(tx, sc, rec, current)
		}
		return nil
	})
	if err != nil {
		s.removeFile(ctx, stored)
		return nil, s.fail("update "+s.schema.Label, err)
	}
	if stored != "" && oldFile != "" {
		s.removeFile(ctx, oldFile)
	}

	s.notify(sc, "updated", rec.Base().ID)
	return s.reload(ctx, sc, rec)
}

// carryOver copies the fields a client may not change from existing onto rec.
func (s *Resource[T, PT]) carryOver(rec, existing PT) {
	base, old := rec.Base(), existing.Base()
	base.ID = old.ID
	base.CompanyID = old.CompanyID
	base.DelStatus = old.DelStatus
	base.CreatedAt = old.CreatedAt

	if owned, ok := any(rec).(model.BranchOwned); ok {
		owned.SetBranchID(any(existing).(model.BranchOwned).GetBranchID())
	}
	if f := s.schema.File; f != nil {
		f.Set((*T)(rec), f.Get((*T)(existing)))
	}
	if s.schema.Prepare != nil {
		s.schema.Prepare(rec, existing)
	}
}

// Delete flips del_status (or removes the row for hard deleted entities).
// Deleting an already deleted row succeeds.
func (s *Resource[T, PT]) Delete(ctx context.Context, sc tenant.Scope, id uuid.UUID) error {
	var file string
	err := s.transaction(ctx, sc, func(tx *gorm.DB) error {
		rec, err := s.repo.FindAny(tx, sc, id)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		wasLive := rec.Base().DelStatus == model.Live

		if s.schema.BeforeDelete != nil {
			if err := s.schema.BeforeDelete(tx, sc, rec); err != nil {
				return err
			}
		}
		if s.schema.File != nil && wasLive {
			file = s.schema.File.Get((*T)(rec))
		}
		if s.schema.HardDelete {
			return s.repo.HardDelete(tx, rec)
		}
		return s.repo.SoftDelete(tx, sc, rec)
	})
	if err != nil {
		return s.fail("delete "+s.schema.Label, err)
	}

	s.removeFile(ctx, file)
	s.notify(sc, "deleted", id)
	return nil
}

func (s *Resource[T, PT]) validate(ctx context.Context, sc tenant.Scope, rec, existing PT, errs validator.Errors) error {
	errs.Merge(validator.ValidateStruct(rec))

	db := s.repo.DB().WithContext(ctx)
	var exceptID uuid.UUID
	if existing != nil {
		exceptID = existing.Base().ID
	}
	for _, u := range s.schema.Unique {
		value := u.Value((*T)(rec))
		if value == nil || value == "" {
			continue
		}
		taken, err := s.repo.IsTaken(db, sc, u.Column, value, exceptID, u.Global, u.Fold)
		if err != nil {
			return s.fail("validate "+s.schema.Label, err)
		}
		if taken {
			errs.Add(u.Field, fmt.Sprintf("The %s has already been taken.", u.Field))
		}
	}
	for _, e := range s.schema.Exists {
		id := e.Value((*T)(rec))
		if id == nil || *id == uuid.Nil {
			continue
		}
		ok, err := repository.RowExists(db, e.Table, sc, *id)
		if err != nil {
			return s.fail("validate "+s.schema.Label, err)
		}
		if !ok {
			errs.Add(e.Field, fmt.Sprintf("The selected %s is invalid.", e.Field))
		}
	}
	if s.schema.Validate != nil {
		extra, err := s.schema.Validate(ctx, sc, rec, existing)
		if err != nil {
			return s.fail("validate "+s.schema.Label, err)
		}
		errs.Merge(extra)
	}

	if !errs.Empty() {
		return NewValidationError(errs)
	}
	return nil
}

func (s *Resource[T, PT]) checkBranch(ctx context.Context, sc tenant.Scope, owned model.BranchOwned, errs validator.Errors) {
	branchID := owned.GetBranchID()
	if branchID == uuid.Nil {
		errs.Add("branch_id", "The branch_id field is required.")
		return
	}
	ok, err := repository.RowExists(s.repo.DB().WithContext(ctx), "branches", sc, branchID)
	if err != nil || !ok {
		errs.Add("branch_id", "The selected branch_id is invalid.")
	}
}

func (s *Resource[T, PT]) transaction(ctx context.Context, sc tenant.Scope, fn func(tx *gorm.DB) error) error {
	return s.repo.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if s.schema.Serialize {
			if err := s.refs.LockCompany(tx, sc.CompanyID); err != nil {
				return fmt.Errorf("lock company: %w", err)
			}
		}
		return fn(tx)
	})
}

func (s *Resource[T, PT]) storeFile(ctx context.Context, rec PT, file *storage.Upload) (string, error) {
	f := s.schema.File
	if f == nil || file == nil {
		return "", nil
	}
	stored, err := s.store.Put(ctx, f.Folder, *file)
	if err != nil {
		s.logger.Error("Failed to store upload", zap.String("field", f.Field), zap.Error(err))
		return "", &PersistenceError{Op: "store " + f.Field, Err: err}
	}
	f.Set((*T)(rec), stored)
	return stored, nil
}

func (s *Resource[T, PT]) removeFile(ctx context.Context, path string) {
	if path == "" || s.store == nil {
		return
	}
	if err := s.store.Delete(ctx, path); err != nil {
		s.logger.Warn("Failed to remove stored file", zap.String("path", path), zap.Error(err))
	}
}

func (s *Resource[T, PT]) reload(ctx context.Context, sc tenant.Scope, rec PT) (PT, error) {
	fresh, err := s.repo.FindByID(ctx, sc, rec.Base().ID)
	if err != nil {
		// Written but not readable back (e.g. a hook flipped it); return what we have
		s.logger.Warn("Failed to reload record", zap.Error(err))
		return rec, nil
	}
	return fresh, nil
}

func (s *Resource[T, PT]) notify(sc tenant.Scope, action string, id uuid.UUID) {
	s.notifier.Notify(sc.CompanyID, Event{
		Type:     "resource_changed",
		Resource: s.schema.Name,
		Action:   action,
		ID:       id,
		UserID:   sc.UserID,
	})
}

func (s *Resource[T, PT]) fail(op string, err error) error {
	if passThrough(err) {
		return err
	}
	var perr *PersistenceError
	if errors.As(err, &perr) {
		return perr
	}
	s.logger.Error("Failed to "+op, zap.Error(err))
	return &PersistenceError{Op: op, Err: err}
}
