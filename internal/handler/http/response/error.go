package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/hris-attendance/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance/internal/domain/employee"
	"github.com/cmlabs-hris/hris-attendance/internal/domain/schedule"
	"github.com/cmlabs-hris/hris-attendance/internal/domain/tolerance"
	"github.com/cmlabs-hris/hris-attendance/internal/domain/user"
	"github.com/cmlabs-hris/hris-attendance/internal/pkg/validator"
	"github.com/cmlabs-hris/hris-attendance/internal/pkg/window"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	// Schedule or tolerance data an administrator has to fix
	var cfgErr *window.ConfigurationError
	if errors.As(err, &cfgErr) {
		ConfigurationError(w, cfgErr.Err.Error(), map[string]string{cfgErr.Field: cfgErr.Reason})
		return
	}

	switch {
	// Claims
	case errors.Is(err, user.ErrInvalidToken):
		Unauthorized(w, "Invalid or expired token")
	case errors.Is(err, user.ErrCompanyIDRequired),
		errors.Is(err, user.ErrEmployeeIDRequired),
		errors.Is(err, user.ErrManagerAccessRequired),
		errors.Is(err, user.ErrOwnerAccessRequired),
		errors.Is(err, user.ErrInsufficientPermissions):
		Forbidden(w, err.Error())

	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, employee.ErrUnauthorized):
		Forbidden(w, err.Error())

	// Attendance domain errors
	case errors.Is(err, attendance.ErrInvalidPIN):
		Unauthorized(w, "Invalid PIN")
	case errors.Is(err, attendance.ErrPINNotSet):
		BadRequest(w, "Employee has no PIN configured", nil)
	case errors.Is(err, attendance.ErrEmployeeInactive):
		Forbidden(w, "Employee is not active")
	case errors.Is(err, attendance.ErrNoScheduleAssigned):
		ConfigurationError(w, "Employee has no work schedule assigned", nil)
	case errors.Is(err, attendance.ErrAttendanceNotFound):
		NotFound(w, "Attendance record not found")
	case errors.Is(err, attendance.ErrUnauthorized):
		Forbidden(w, err.Error())
	case errors.Is(err, attendance.ErrAttendanceAlreadyProcessed):
		Conflict(w, "Attendance already processed")
	case errors.Is(err, attendance.ErrAttendanceNotPending):
		Conflict(w, "Attendance does not require approval")

	// Schedule domain errors
	case errors.Is(err, schedule.ErrWorkScheduleNotFound):
		NotFound(w, "Work schedule not found")
	case errors.Is(err, schedule.ErrWorkScheduleNameExists):
		Conflict(w, "Work schedule name already exists")
	case errors.Is(err, schedule.ErrWorkScheduleInUse):
		Conflict(w, "Work schedule is still assigned to employees")

	// Tolerance domain errors
	case errors.Is(err, tolerance.ErrPolicyNotFound):
		NotFound(w, "Tolerance policy not found")

	default:
		slog.Error("Unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
