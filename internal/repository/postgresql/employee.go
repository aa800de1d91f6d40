package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/hris-attendance/internal/domain/employee"
	"github.com/cmlabs-hris/hris-attendance/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type employeeRepositoryImpl struct {
	db *database.DB
}

// The timezone comes from the employee's branch. Resigned and soft-deleted
// employees are still returned so callers can tell them apart from unknown ones.
const employeeSelect = `
	SELECT e.id, e.user_id, e.company_id, e.work_schedule_id, e.position_id, e.branch_id,
		e.employee_code, e.full_name, e.pin_hash, COALESCE(b.timezone, 'UTC'),
		e.employment_status, e.created_at, e.updated_at, e.deleted_at,
		p.name AS position_name, ws.name AS work_schedule_name
	FROM employees e
	LEFT JOIN branches b ON b.id = e.branch_id
	LEFT JOIN positions p ON p.id = e.position_id
	LEFT JOIN work_schedules ws ON ws.id = e.work_schedule_id AND ws.deleted_at IS NULL`

func scanEmployee(row pgx.Row) (employee.Employee, error) {
	var emp employee.Employee
	err := row.Scan(
		&emp.ID, &emp.UserID, &emp.CompanyID, &emp.WorkScheduleID, &emp.PositionID, &emp.BranchID,
		&emp.EmployeeCode, &emp.FullName, &emp.PINHash, &emp.Timezone,
		&emp.EmploymentStatus, &emp.CreatedAt, &emp.UpdatedAt, &emp.DeletedAt,
		&emp.PositionName, &emp.WorkScheduleName,
	)
	return emp, err
}

func (e *employeeRepositoryImpl) getOne(ctx context.Context, where string, args ...interface{}) (employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	emp, err := scanEmployee(q.QueryRow(ctx, employeeSelect+" WHERE "+where, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee: %w", err)
	}
	return emp, nil
}

// GetByID implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) GetByID(ctx context.Context, id string, companyID string) (employee.Employee, error) {
	return e.getOne(ctx, "e.id = $1 AND e.company_id = $2", id, companyID)
}

// GetByUserID implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) GetByUserID(ctx context.Context, userID string) (employee.Employee, error) {
	return e.getOne(ctx, "e.user_id = $1 AND e.deleted_at IS NULL", userID)
}

// GetByEmployeeCode implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) GetByEmployeeCode(ctx context.Context, companyID string, employeeCode string) (employee.Employee, error) {
	return e.getOne(ctx, "e.company_id = $1 AND e.employee_code = $2", companyID, employeeCode)
}

// ListActive implements employee.EmployeeRepository. A nil companyID lists
// every company.
func (e *employeeRepositoryImpl) ListActive(ctx context.Context, companyID *string) ([]employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	query := employeeSelect + `
		WHERE e.employment_status = $1 AND e.deleted_at IS NULL
		  AND ($2::uuid IS NULL OR e.company_id = $2)
		ORDER BY e.company_id, e.id
	`

	rows, err := q.Query(ctx, query, employee.EmploymentStatusActive, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to query active employees: %w", err)
	}
	defer rows.Close()

	var employees []employee.Employee
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, emp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate employees: %w", err)
	}

	return employees, nil
}

// UpdatePIN implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) UpdatePIN(ctx context.Context, id string, companyID string, pinHash string) error {
	q := GetQuerier(ctx, e.db)

	query := `
		UPDATE employees
		SET pin_hash = $1, updated_at = NOW()
		WHERE id = $2 AND company_id = $3 AND deleted_at IS NULL
	`

	tag, err := q.Exec(ctx, query, pinHash, id, companyID)
	if err != nil {
		return fmt.Errorf("failed to update PIN for employee %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return employee.ErrEmployeeNotFound
	}
	return nil
}

// UpdateSchedule implements employee.EmployeeRepository. A nil workScheduleID
// unassigns the schedule.
func (e *employeeRepositoryImpl) UpdateSchedule(ctx context.Context, id string, workScheduleID *string, companyID string) error {
	q := GetQuerier(ctx, e.db)

	query := `
		UPDATE employees
		SET work_schedule_id = $1, updated_at = NOW()
		WHERE id = $2 AND company_id = $3 AND deleted_at IS NULL
	`

	tag, err := q.Exec(ctx, query, workScheduleID, id, companyID)
	if err != nil {
		return fmt.Errorf("failed to update work schedule for employee %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return employee.ErrEmployeeNotFound
	}
	return nil
}

func NewEmployeeRepository(db *database.DB) employee.EmployeeRepository {
	return &employeeRepositoryImpl{db: db}
}
