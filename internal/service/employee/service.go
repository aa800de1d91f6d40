package employee

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/hris-attendance/internal/domain/employee"
	"github.com/cmlabs-hris/hris-attendance/internal/domain/schedule"
	"github.com/cmlabs-hris/hris-attendance/internal/domain/user"
	"github.com/go-chi/jwtauth/v5"
	"golang.org/x/crypto/bcrypt"
)

type EmployeeServiceImpl struct {
	employeeRepo     employee.EmployeeRepository
	workScheduleRepo schedule.WorkScheduleRepository
	pinCost          int
}

func NewEmployeeService(
	employeeRepo employee.EmployeeRepository,
	workScheduleRepo schedule.WorkScheduleRepository,
) employee.EmployeeService {
	return &EmployeeServiceImpl{
		employeeRepo:     employeeRepo,
		workScheduleRepo: workScheduleRepo,
		pinCost:          bcrypt.DefaultCost,
	}
}

// Helper function to extract claims from context
func getClaimsFromContext(ctx context.Context) (companyID, employeeID string, role user.Role, err error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return "", "", "", fmt.Errorf("failed to extract claims from context: %w", err)
	}

	companyID, ok := claims["company_id"].(string)
	if !ok || companyID == "" {
		return "", "", "", user.ErrCompanyIDRequired
	}

	employeeID, _ = claims["employee_id"].(string)
	roleStr, _ := claims["role"].(string)

	return companyID, employeeID, user.Role(roleStr), nil
}

// GetEmployee implements employee.EmployeeService.
func (s *EmployeeServiceImpl) GetEmployee(ctx context.Context, id string) (employee.EmployeeResponse, error) {
	companyID, requestingEmployeeID, role, err := getClaimsFromContext(ctx)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	// Employees can only view their own record
	if !role.IsManager() && requestingEmployeeID != id {
		return employee.EmployeeResponse{}, employee.ErrUnauthorized
	}

	emp, err := s.employeeRepo.GetByID(ctx, id, companyID)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return employee.EmployeeResponse{}, err
		}
		return employee.EmployeeResponse{}, fmt.Errorf("failed to get employee: %w", err)
	}

	return employee.NewEmployeeResponse(emp), nil
}

// SetPIN implements employee.EmployeeService.
func (s *EmployeeServiceImpl) SetPIN(ctx context.Context, req employee.SetPINRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}

	companyID, _, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return err
	}

	if _, err := s.employeeRepo.GetByID(ctx, req.EmployeeID, companyID); err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return err
		}
		return fmt.Errorf("failed to get employee: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.PIN), s.pinCost)
	if err != nil {
		return fmt.Errorf("failed to hash PIN: %w", err)
	}

	if err := s.employeeRepo.UpdatePIN(ctx, req.EmployeeID, companyID, string(hash)); err != nil {
		return fmt.Errorf("failed to update PIN: %w", err)
	}
	return nil
}

// AssignSchedule implements employee.EmployeeService.
func (s *EmployeeServiceImpl) AssignSchedule(ctx context.Context, req employee.AssignScheduleRequest) (employee.EmployeeResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}

	companyID, _, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	if req.WorkScheduleID != nil {
		if _, err := s.workScheduleRepo.GetByID(ctx, *req.WorkScheduleID, companyID); err != nil {
			if errors.Is(err, schedule.ErrWorkScheduleNotFound) {
				return employee.EmployeeResponse{}, err
			}
			return employee.EmployeeResponse{}, fmt.Errorf("failed to get work schedule: %w", err)
		}
	}

	if err := s.employeeRepo.UpdateSchedule(ctx, req.EmployeeID, req.WorkScheduleID, companyID); err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return employee.EmployeeResponse{}, err
		}
		return employee.EmployeeResponse{}, fmt.Errorf("failed to assign schedule: %w", err)
	}

	emp, err := s.employeeRepo.GetByID(ctx, req.EmployeeID, companyID)
	if err != nil {
		return employee.EmployeeResponse{}, fmt.Errorf("failed to get employee: %w", err)
	}
	return employee.NewEmployeeResponse(emp), nil
}
