package postgres

import (
	"context"
	"database/sql"

	"empapi/internal/model"
	"empapi/internal/repository"
)

// EmployeePostgres is a PostgreSQL implementation of repository.EmployeeRepository.
// It uses database/sql with parameterized queries and contains no business logic.
type EmployeePostgres struct {
	db *sql.DB
}

// NewEmployeePostgres creates a new EmployeePostgres repository.
func NewEmployeePostgres(db *sql.DB) *EmployeePostgres {
	return &EmployeePostgres{db: db}
}

var _ repository.EmployeeRepository = (*EmployeePostgres)(nil)

// FindAll returns all employees ordered by id.
func (r *EmployeePostgres) FindAll(ctx context.Context) ([]model.Employee, error) {
	const q = `
		SELECT id, name, address, salary
		FROM employees
		ORDER BY id ASC
	`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Employee, 0)
	for rows.Next() {
		var e model.Employee
		if err := rows.Scan(&e.ID, &e.Name, &e.Address, &e.Salary); err != nil {
			return nil, err
		}
		items = append(items, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// FindByID fetches a single employee by its ID.
func (r *EmployeePostgres) FindByID(ctx context.Context, id int64) (*model.Employee, error) {
	const q = `
		SELECT id, name, address, salary
		FROM employees
		WHERE id = $1
	`
	var e model.Employee
	if err := r.db.QueryRowContext(ctx, q, id).Scan(&e.ID, &e.Name, &e.Address, &e.Salary); err != nil {
		return nil, err
	}
	return &e, nil
}

// Save inserts or upserts an employee and returns the stored row.
func (r *EmployeePostgres) Save(ctx context.Context, emp *model.Employee) (*model.Employee, error) {
	const qInsert = `
		INSERT INTO employees (name, address, salary)
		VALUES ($1, $2, $3)
		RETURNING id, name, address, salary
	`
	const qUpsert = `
		INSERT INTO employees (id, name, address, salary)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE
		SET name = EXCLUDED.name, address = EXCLUDED.address, salary = EXCLUDED.salary
		RETURNING id, name, address, salary
	`

	var row *sql.Row
	if emp.ID == 0 {
		row = r.db.QueryRowContext(ctx, qInsert, emp.Name, emp.Address, emp.Salary)
	} else {
		row = r.db.QueryRowContext(ctx, qUpsert, emp.ID, emp.Name, emp.Address, emp.Salary)
	}

	var out model.Employee
	if err := row.Scan(&out.ID, &out.Name, &out.Address, &out.Salary); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteByID removes an employee by ID. It does not return an error if the row does not exist.
func (r *EmployeePostgres) DeleteByID(ctx context.Context, id int64) error {
	const q = `DELETE FROM employees WHERE id = $1`
	_, err := r.db.ExecContext(ctx, q, id)
	return err
}
