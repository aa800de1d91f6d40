package window

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidSchedule  = errors.New("invalid schedule configuration")
	ErrInvalidTolerance = errors.New("invalid tolerance configuration")
)

// ConfigurationError reports structurally invalid schedule or tolerance data.
// It is raised before evaluation and is meant for the administrator.
type ConfigurationError struct {
	Field  string
	Reason string
	Err    error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("%v: %s: %s", e.Err, e.Field, e.Reason)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

func scheduleError(field, format string, args ...any) error {
	return &ConfigurationError{Field: field, Reason: fmt.Sprintf(format, args...), Err: ErrInvalidSchedule}
}

func toleranceError(field, reason string) error {
	return &ConfigurationError{Field: field, Reason: reason, Err: ErrInvalidTolerance}
}

// Validate checks that shifts are within the day, ordered by start and do
// not overlap. Adjacent shifts (one ends when the next starts) are allowed.
func (s Schedule) Validate() error {
	if s.AppliesToday && len(s.Shifts) == 0 {
		return scheduleError("shifts", "schedule applies today but has no shifts")
	}

	for i, shift := range s.Shifts {
		field := fmt.Sprintf("shifts[%d]", i)
		if shift.Start < 0 || shift.Start >= MinutesPerDay {
			return scheduleError(field, "start %s is outside the day", shift.Start)
		}
		if shift.End < 0 || shift.End >= MinutesPerDay {
			return scheduleError(field, "end %s is outside the day", shift.End)
		}
		if shift.End <= shift.Start {
			return scheduleError(field, "end %s must be after start %s", shift.End, shift.Start)
		}
		if i == 0 {
			continue
		}

		prev := s.Shifts[i-1]
		if shift.Start < prev.Start {
			return scheduleError(field, "shifts must be ordered by start time")
		}
		if shift.Start < prev.End {
			return scheduleError(field, "shift %s-%s overlaps %s-%s", shift.Start, shift.End, prev.Start, prev.End)
		}
	}
	return nil
}

func (p TolerancePolicy) Validate() error {
	switch {
	case p.LateGraceMinutes < 0:
		return toleranceError("late_grace_minutes", "must not be negative")
	case p.AbsenceThresholdMinutes < p.LateGraceMinutes:
		return toleranceError("absence_threshold_minutes", "must be greater than or equal to late_grace_minutes")
	case p.EarlyArrivalWindowMinutes < 0:
		return toleranceError("early_arrival_window_minutes", "must not be negative")
	case p.DepartureGraceBeforeMinutes < 0:
		return toleranceError("departure_grace_before_minutes", "must not be negative")
	case p.DepartureGraceAfterMinutes < 0:
		return toleranceError("departure_grace_after_minutes", "must not be negative")
	}
	return nil
}
