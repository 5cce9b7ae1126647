package service

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"bizdesk-api/internal/model"
	"bizdesk-api/internal/repository"
	"bizdesk-api/internal/tenant"
	"bizdesk-api/pkg/storage"
)

type memStore struct {
	mu    sync.Mutex
	files map[string]string
	seq   int
}

func newMemStore() *memStore { return &memStore{files: map[string]string{}} }

func (m *memStore) Put(_ context.Context, folder string, u storage.Upload) (string, error) {
	body, err := io.ReadAll(u.Body)
	if err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	path := fmt.Sprintf("/uploads/%s/%d-%s", folder, m.seq, u.Filename)
	m.files[path] = string(body)
	return path, nil
}

func (m *memStore) Delete(_ context.Context, path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.files, path)
	return nil
}

func (m *memStore) has(path string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.files[path]
	return ok
}

func (m *memStore) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.files)
}

type recordedEvent struct {
	company uuid.UUID
	event   Event
}

type recorder struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (r *recorder) Notify(companyID uuid.UUID, event any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := event.(Event); ok {
		r.events = append(r.events, recordedEvent{company: companyID, event: e})
	}
}

type testEnv struct {
	db        *gorm.DB
	store     *memStore
	events    *recorder
	deps      Deps
	companies repository.CompanyRepository
	perms     repository.PermissionRepository
	roles     repository.RoleRepository
	users     repository.UserRepository
	res       *Resources
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(model.All()...))

	env := &testEnv{db: db, store: newMemStore(), events: &recorder{}}
	env.companies = repository.NewCompanyRepo()
	env.perms = repository.NewPermissionRepo(db)
	require.NoError(t, env.perms.SeedDefaults())
	env.roles = repository.NewRoleRepo(env.perms)
	env.users = repository.NewUserRepo(db, env.roles)
	env.deps = Deps{
		DB:       db,
		Refs:     repository.NewReferenceRepo(),
		Store:    env.store,
		Notifier: env.events,
		Logger:   zap.NewNop(),
	}
	env.res = NewResources(env.deps, env.companies, env.roles, repository.NewPaymentRepo())
	return env
}

// company creates a tenant and returns a scope acting as a random user of it.
func (e *testEnv) company(t *testing.T, taxIsGST string) tenant.Scope {
	t.Helper()
	c := &model.Company{Name: "Acme", TaxIsGST: taxIsGST}
	require.NoError(t, e.db.Create(c).Error)
	return tenant.Scope{UserID: uuid.New(), CompanyID: c.ID}
}

func (e *testEnv) branch(t *testing.T, sc tenant.Scope, code string) *model.Branch {
	t.Helper()
	b, err := e.res.Branches.Create(context.Background(), sc, &model.Branch{BranchName: "Branch " + code, BranchCode: code}, nil)
	require.NoError(t, err)
	return b
}

func upload(name, body string) *storage.Upload {
	return &storage.Upload{Filename: name, ContentType: "image/png", Body: strings.NewReader(body)}
}
