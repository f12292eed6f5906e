package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/GTD-web/ems-backend-sub027/internal/models"
)

// EmployeeRepository looks up directory entries.
type EmployeeRepository struct {
	db *sqlx.DB
}

// NewEmployeeRepository constructs the repository.
func NewEmployeeRepository(db *sqlx.DB) *EmployeeRepository {
	return &EmployeeRepository{db: db}
}

// FindByID returns an employee by identifier.
func (r *EmployeeRepository) FindByID(ctx context.Context, id string) (*models.Employee, error) {
	const query = `SELECT id, name, employee_number, email FROM employees WHERE id = $1 AND deleted_at IS NULL`
	var employee models.Employee
	if err := conn(ctx, r.db).GetContext(ctx, &employee, query, id); err != nil {
		return nil, err
	}
	return &employee, nil
}

// FindByIDs returns the employees whose identifiers are listed. Unknown ids are skipped.
func (r *EmployeeRepository) FindByIDs(ctx context.Context, ids []string) ([]models.Employee, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	const query = `SELECT id, name, employee_number, email FROM employees WHERE id = ANY($1) AND deleted_at IS NULL`
	var employees []models.Employee
	if err := conn(ctx, r.db).SelectContext(ctx, &employees, query, pq.Array(ids)); err != nil {
		return nil, fmt.Errorf("list employees: %w", err)
	}
	return employees, nil
}
