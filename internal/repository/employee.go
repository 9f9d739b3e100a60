package repository

import (
	"context"

	"empapi/internal/model"
)

// EmployeeRepository is the persistence gateway for employee records.
// Absence is reported as sql.ErrNoRows; the service decides what that means.
type EmployeeRepository interface {
	// FindAll returns every stored employee ordered by id.
	// An empty, non-nil slice is returned when the table is empty.
	FindAll(ctx context.Context) ([]model.Employee, error)

	// FindByID returns an employee by its ID, or sql.ErrNoRows when absent.
	FindByID(ctx context.Context, id int64) (*model.Employee, error)

	// Save inserts the employee when ID is zero and lets the store assign the id.
	// A non-zero ID is upserted: the matching row is overwritten, or inserted if missing.
	// Returns the persisted row.
	Save(ctx context.Context, emp *model.Employee) (*model.Employee, error)

	// DeleteByID removes an employee by ID. It returns nil if the row was deleted or did not exist.
	DeleteByID(ctx context.Context, id int64) error
}
