package employee

import "context"

type EmployeeRepository interface {
	GetByID(ctx context.Context, id string, companyID string) (Employee, error)
	GetByUserID(ctx context.Context, userID string) (Employee, error)
	GetByEmployeeCode(ctx context.Context, companyID string, employeeCode string) (Employee, error)
	ListActive(ctx context.Context, companyID *string) ([]Employee, error)
	UpdatePIN(ctx context.Context, id string, companyID string, pinHash string) error
	UpdateSchedule(ctx context.Context, id string, workScheduleID *string, companyID string) error
}
