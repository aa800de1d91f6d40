package employee

import (
	"context"
)

// EmployeeService covers what attendance needs from the employee record.
type EmployeeService interface {
	// GetEmployee retrieves a single employee (manager+ or the employee itself)
	GetEmployee(ctx context.Context, id string) (EmployeeResponse, error)

	// SetPIN stores a bcrypt hash of the kiosk PIN (manager+ only)
	SetPIN(ctx context.Context, req SetPINRequest) error

	// AssignSchedule points the employee at a work schedule, nil clears it (manager+ only)
	AssignSchedule(ctx context.Context, req AssignScheduleRequest) (EmployeeResponse, error)
}
