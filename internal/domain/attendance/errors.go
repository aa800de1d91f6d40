package attendance

import "errors"

var (
	// Registration errors
	ErrEmployeeInactive   = errors.New("employee is not active")
	ErrInvalidPIN         = errors.New("invalid PIN")
	ErrPINNotSet          = errors.New("employee has no PIN configured")
	ErrNoScheduleAssigned = errors.New("employee has no work schedule assigned")

	// General errors
	ErrAttendanceNotFound         = errors.New("attendance record not found")
	ErrUnauthorized               = errors.New("unauthorized to access this attendance record")
	ErrAttendanceAlreadyProcessed = errors.New("attendance has already been approved or rejected")
	ErrAttendanceNotPending       = errors.New("attendance does not require approval")
)
