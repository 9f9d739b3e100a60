package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"empapi/internal/model"
	"empapi/internal/repository"
)

var (
	ErrNotFound   = errors.New("employee not found")
	ErrPayloadNil = errors.New("employee payload is nil")
)

// EmployeeService defines the use cases for handling employees.
type EmployeeService interface {
	// List returns every employee in store order.
	List(ctx context.Context) ([]model.Employee, error)

	// Get returns a single employee by its ID.
	Get(ctx context.Context, id int64) (*model.Employee, error)

	// Create stores a new employee. Any ID on the payload is ignored; the store assigns one.
	Create(ctx context.Context, emp *model.Employee) (*model.Employee, error)

	// Update overwrites name, address and salary of an existing employee.
	// ErrNotFound is returned, and nothing is written, when the ID does not exist.
	Update(ctx context.Context, id int64, emp *model.Employee) (*model.Employee, error)

	// Delete removes an employee by ID. Deleting an unknown ID is not an error.
	Delete(ctx context.Context, id int64) error
}

// employeeService is a concrete implementation of EmployeeService.
type employeeService struct {
	repo repository.EmployeeRepository
}

// NewEmployeeService constructs a new EmployeeService.
func NewEmployeeService(repo repository.EmployeeRepository) EmployeeService {
	return &employeeService{repo: repo}
}

func (s *employeeService) List(ctx context.Context) ([]model.Employee, error) {
	items, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list employees: %w", err)
	}
	if items == nil {
		items = []model.Employee{}
	}
	return items, nil
}

func (s *employeeService) Get(ctx context.Context, id int64) (*model.Employee, error) {
	emp, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find employee %d: %w", id, err)
	}
	return emp, nil
}

func (s *employeeService) Create(ctx context.Context, emp *model.Employee) (*model.Employee, error) {
	if emp == nil {
		return nil, ErrPayloadNil
	}
	toSave := &model.Employee{
		Name:    emp.Name,
		Address: emp.Address,
		Salary:  emp.Salary,
	}
	stored, err := s.repo.Save(ctx, toSave)
	if err != nil {
		return nil, fmt.Errorf("save employee: %w", err)
	}
	return stored, nil
}

func (s *employeeService) Update(ctx context.Context, id int64, emp *model.Employee) (*model.Employee, error) {
	if emp == nil {
		return nil, ErrPayloadNil
	}
	existing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	// id stays the one already stored; only these three fields come from the payload
	existing.Name = emp.Name
	existing.Address = emp.Address
	existing.Salary = emp.Salary

	stored, err := s.repo.Save(ctx, existing)
	if err != nil {
		return nil, fmt.Errorf("save employee %d: %w", id, err)
	}
	return stored, nil
}

func (s *employeeService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.DeleteByID(ctx, id); err != nil {
		return fmt.Errorf("delete employee %d: %w", id, err)
	}
	return nil
}
