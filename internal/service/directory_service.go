package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/GTD-web/ems-backend-sub027/internal/models"
	appErrors "github.com/GTD-web/ems-backend-sub027/pkg/errors"
)

type employeeReader interface {
	FindByID(ctx context.Context, id string) (*models.Employee, error)
	FindByIDs(ctx context.Context, ids []string) ([]models.Employee, error)
}

type evaluationLineReader interface {
	ListEvaluators(ctx context.Context, periodID, employeeID string, evaluatorType models.DownwardEvaluationType) ([]string, error)
	WbsItemsForEvaluator(ctx context.Context, periodID, employeeID, evaluatorID string, evaluatorType models.DownwardEvaluationType) ([]string, error)
}

// DirectoryService resolves employee display names and evaluation lines.
type DirectoryService struct {
	employees employeeReader
	lines     evaluationLineReader
	cache     *CacheService
	ttl       time.Duration
	logger    *zap.Logger
}

// NewDirectoryService constructs the service. cache may be nil.
func NewDirectoryService(employees employeeReader, lines evaluationLineReader, cache *CacheService, ttl time.Duration, logger *zap.Logger) *DirectoryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DirectoryService{employees: employees, lines: lines, cache: cache, ttl: ttl, logger: logger}
}

func employeeNameKey(id string) string {
	return "employee:name:" + id
}

// DisplayName returns the employee's name, consulting the cache first.
func (s *DirectoryService) DisplayName(ctx context.Context, employeeID string) (string, error) {
	var name string
	if hit, _ := s.cache.Get(ctx, employeeNameKey(employeeID), &name); hit {
		return name, nil
	}
	employee, err := s.employees.FindByID(ctx, employeeID)
	if err != nil {
		if isNotFound(err) {
			return "", appErrors.Clone(appErrors.ErrNotFound, "employee not found")
		}
		return "", appErrors.Internal(err, "failed to load employee")
	}
	_ = s.cache.Set(ctx, employeeNameKey(employeeID), employee.Name, s.ttl)
	return employee.Name, nil
}

// DisplayNames resolves several names at once. Unknown ids are absent from the result.
func (s *DirectoryService) DisplayNames(ctx context.Context, employeeIDs []string) (map[string]string, error) {
	names := make(map[string]string, len(employeeIDs))
	missing := make([]string, 0, len(employeeIDs))
	seen := make(map[string]struct{}, len(employeeIDs))
	for _, id := range employeeIDs {
		if _, done := seen[id]; done {
			continue
		}
		seen[id] = struct{}{}
		var name string
		if hit, _ := s.cache.Get(ctx, employeeNameKey(id), &name); hit {
			names[id] = name
			continue
		}
		missing = append(missing, id)
	}
	if len(missing) == 0 {
		return names, nil
	}
	employees, err := s.employees.FindByIDs(ctx, missing)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to load employees")
	}
	for _, employee := range employees {
		names[employee.ID] = employee.Name
		_ = s.cache.Set(ctx, employeeNameKey(employee.ID), employee.Name, s.ttl)
	}
	return names, nil
}

// Evaluators returns the evaluators of the given type for an employee in a period.
func (s *DirectoryService) Evaluators(ctx context.Context, periodID, employeeID string, evaluatorType models.DownwardEvaluationType) ([]string, error) {
	ids, err := s.lines.ListEvaluators(ctx, periodID, employeeID, evaluatorType)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to resolve evaluation line")
	}
	return ids, nil
}

// WbsItemsForEvaluator returns the WBS items mapped to an evaluator for an employee.
func (s *DirectoryService) WbsItemsForEvaluator(ctx context.Context, periodID, employeeID, evaluatorID string, evaluatorType models.DownwardEvaluationType) ([]string, error) {
	ids, err := s.lines.WbsItemsForEvaluator(ctx, periodID, employeeID, evaluatorID, evaluatorType)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to resolve evaluator wbs items")
	}
	return ids, nil
}
