package employee

import "context"

// EmployeeRepository is the read-only view of the employee directory
// consumed by time accounting and payroll. Directory CRUD lives elsewhere.
type EmployeeRepository interface {
	// GetByID retrieves a single employee
	GetByID(ctx context.Context, id string) (Employee, error)

	// GetByIDForUpdate retrieves an employee and takes a row lock for the
	// duration of the ambient transaction. Used to serialize clock-in/out
	// and payroll generation per employee.
	GetByIDForUpdate(ctx context.Context, id string) (Employee, error)

	// ListActiveWithCompensation retrieves active employees that have a
	// compensation profile configured
	ListActiveWithCompensation(ctx context.Context) ([]Employee, error)
}
