package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GTD-web/ems-backend-sub027/internal/models"
	appErrors "github.com/GTD-web/ems-backend-sub027/pkg/errors"
)

type memCacheRepo struct {
	values map[string][]byte
	getErr error
}

func newMemCacheRepo() *memCacheRepo {
	return &memCacheRepo{values: map[string][]byte{}}
}

func (m *memCacheRepo) Get(_ context.Context, key string, dest interface{}) error {
	if m.getErr != nil {
		return m.getErr
	}
	raw, ok := m.values[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (m *memCacheRepo) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.values[key] = raw
	return nil
}

func (m *memCacheRepo) Delete(_ context.Context, keys ...string) error {
	for _, key := range keys {
		delete(m.values, key)
	}
	return nil
}

type stubEmployees struct {
	byID  map[string]models.Employee
	calls int
}

func (s *stubEmployees) FindByID(_ context.Context, id string) (*models.Employee, error) {
	s.calls++
	employee, ok := s.byID[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &employee, nil
}

func (s *stubEmployees) FindByIDs(_ context.Context, ids []string) ([]models.Employee, error) {
	s.calls++
	var out []models.Employee
	for _, id := range ids {
		if employee, ok := s.byID[id]; ok {
			out = append(out, employee)
		}
	}
	return out, nil
}

type stubLines struct {
	err error
}

func (s stubLines) ListEvaluators(context.Context, string, string, models.DownwardEvaluationType) ([]string, error) {
	return []string{"mgr-1"}, s.err
}

func (s stubLines) WbsItemsForEvaluator(context.Context, string, string, string, models.DownwardEvaluationType) ([]string, error) {
	return []string{"wbs-1"}, s.err
}

func newStubEmployees() *stubEmployees {
	return &stubEmployees{byID: map[string]models.Employee{
		"emp-1": {ID: "emp-1", Name: "Kim Minji"},
		"mgr-1": {ID: "mgr-1", Name: "Lee Jun"},
	}}
}

func TestDisplayNameUsesCache(t *testing.T) {
	employees := newStubEmployees()
	cache := NewCacheService(newMemCacheRepo(), NewMetricsService(), time.Minute, nil, true)
	svc := NewDirectoryService(employees, stubLines{}, cache, time.Minute, nil)
	ctx := context.Background()

	name, err := svc.DisplayName(ctx, "emp-1")
	require.NoError(t, err)
	assert.Equal(t, "Kim Minji", name)

	name, err = svc.DisplayName(ctx, "emp-1")
	require.NoError(t, err)
	assert.Equal(t, "Kim Minji", name)
	assert.Equal(t, 1, employees.calls)

	_, err = svc.DisplayName(ctx, "ghost")
	require.ErrorIs(t, err, appErrors.ErrNotFound)
}

func TestDisplayNameWithoutCache(t *testing.T) {
	employees := newStubEmployees()
	svc := NewDirectoryService(employees, stubLines{}, NewCacheService(nil, nil, 0, nil, false), 0, nil)

	for i := 0; i < 2; i++ {
		_, err := svc.DisplayName(context.Background(), "mgr-1")
		require.NoError(t, err)
	}
	assert.Equal(t, 2, employees.calls)
}

func TestDisplayNameToleratesCacheFailure(t *testing.T) {
	repo := newMemCacheRepo()
	repo.getErr = errors.New("redis down")
	svc := NewDirectoryService(newStubEmployees(), stubLines{}, NewCacheService(repo, nil, 0, nil, true), 0, nil)

	name, err := svc.DisplayName(context.Background(), "mgr-1")
	require.NoError(t, err)
	assert.Equal(t, "Lee Jun", name)
}

func TestDisplayNamesBatchesMisses(t *testing.T) {
	employees := newStubEmployees()
	cache := NewCacheService(newMemCacheRepo(), nil, 0, nil, true)
	svc := NewDirectoryService(employees, stubLines{}, cache, 0, nil)
	ctx := context.Background()

	_, err := svc.DisplayName(ctx, "emp-1")
	require.NoError(t, err)

	names, err := svc.DisplayNames(ctx, []string{"emp-1", "mgr-1", "ghost", "mgr-1"})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"emp-1": "Kim Minji", "mgr-1": "Lee Jun"}, names)
	assert.Equal(t, 2, employees.calls)
}

func TestDirectoryEvaluationLines(t *testing.T) {
	svc := NewDirectoryService(newStubEmployees(), stubLines{}, nil, 0, nil)

	ids, err := svc.Evaluators(context.Background(), testPeriod, testEvaluatee, models.DownwardTypePrimary)
	require.NoError(t, err)
	assert.Equal(t, []string{"mgr-1"}, ids)

	failing := NewDirectoryService(newStubEmployees(), stubLines{err: errors.New("db down")}, nil, 0, nil)
	_, err = failing.WbsItemsForEvaluator(context.Background(), testPeriod, testEvaluatee, "mgr-1", models.DownwardTypeSecondary)
	require.ErrorIs(t, err, appErrors.ErrInternal)
}

func TestCacheServiceInvalidate(t *testing.T) {
	repo := newMemCacheRepo()
	cache := NewCacheService(repo, nil, 0, nil, true)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "k", "v", 0))
	var out string
	hit, err := cache.Get(ctx, "k", &out)
	require.NoError(t, err)
	require.True(t, hit)
	assert.Equal(t, "v", out)

	require.NoError(t, cache.Invalidate(ctx, "k"))
	hit, err = cache.Get(ctx, "k", &out)
	require.NoError(t, err)
	assert.False(t, hit)

	var disabled *CacheService
	assert.False(t, disabled.Enabled())
	hit, err = disabled.Get(ctx, "k", &out)
	require.NoError(t, err)
	assert.False(t, hit)
}
