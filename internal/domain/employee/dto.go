package employee

import (
	"github.com/cmlabs-hris/hris-attendance/internal/pkg/validator"
)

type SetPINRequest struct {
	EmployeeID string `json:"-"`
	PIN        string `json:"pin"`
}

func (r *SetPINRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id must be a valid UUID",
		})
	}
	if !validator.IsValidPIN(r.PIN) {
		errs = append(errs, validator.ValidationError{
			Field:   "pin",
			Message: "pin must be 4 to 6 digits",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type AssignScheduleRequest struct {
	EmployeeID     string  `json:"-"`
	WorkScheduleID *string `json:"work_schedule_id"`
}

func (r *AssignScheduleRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id must be a valid UUID",
		})
	}
	if r.WorkScheduleID != nil && !validator.IsValidUUID(*r.WorkScheduleID) {
		errs = append(errs, validator.ValidationError{
			Field:   "work_schedule_id",
			Message: "work_schedule_id must be a valid UUID",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type EmployeeResponse struct {
	ID               string  `json:"id"`
	CompanyID        string  `json:"company_id"`
	EmployeeCode     string  `json:"employee_code"`
	FullName         string  `json:"full_name"`
	PositionID       *string `json:"position_id,omitempty"`
	PositionName     *string `json:"position_name,omitempty"`
	WorkScheduleID   *string `json:"work_schedule_id,omitempty"`
	WorkScheduleName *string `json:"work_schedule_name,omitempty"`
	Timezone         string  `json:"timezone"`
	EmploymentStatus string  `json:"employment_status"`
	HasPIN           bool    `json:"has_pin"`
}

func NewEmployeeResponse(e Employee) EmployeeResponse {
	return EmployeeResponse{
		ID:               e.ID,
		CompanyID:        e.CompanyID,
		EmployeeCode:     e.EmployeeCode,
		FullName:         e.FullName,
		PositionID:       e.PositionID,
		PositionName:     e.PositionName,
		WorkScheduleID:   e.WorkScheduleID,
		WorkScheduleName: e.WorkScheduleName,
		Timezone:         e.Timezone,
		EmploymentStatus: string(e.EmploymentStatus),
		HasPIN:           e.PINHash != nil && *e.PINHash != "",
	}
}
