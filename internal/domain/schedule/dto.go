package schedule

import (
	"fmt"
	"sort"

	"github.com/cmlabs-hris/hris-attendance/internal/pkg/validator"
	"github.com/cmlabs-hris/hris-attendance/internal/pkg/window"
)

type ShiftRequest struct {
	DayOfWeek int    `json:"day_of_week"` // 1=Monday, ..., 7=Sunday
	StartTime string `json:"start_time"`  // HH:MM
	EndTime   string `json:"end_time"`    // HH:MM
}

func validateShiftRequests(shifts []ShiftRequest) validator.ValidationErrors {
	var errs validator.ValidationErrors

	if len(shifts) == 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "shifts",
			Message: "at least one shift is required",
		})
		return errs
	}

	for i, s := range shifts {
		prefix := fmt.Sprintf("shifts[%d].", i)
		if s.DayOfWeek < 1 || s.DayOfWeek > 7 {
			errs = append(errs, validator.ValidationError{
				Field:   prefix + "day_of_week",
				Message: "day_of_week must be between 1 (Monday) and 7 (Sunday)",
			})
		}
		if !validator.IsValidClock(s.StartTime) {
			errs = append(errs, validator.ValidationError{
				Field:   prefix + "start_time",
				Message: "start_time must be in HH:MM format",
			})
		}
		if !validator.IsValidClock(s.EndTime) {
			errs = append(errs, validator.ValidationError{
				Field:   prefix + "end_time",
				Message: "end_time must be in HH:MM format",
			})
		}
	}

	return errs
}

// ToShifts converts validated requests into shifts ordered by weekday and
// start time.
func ToShifts(workScheduleID string, reqs []ShiftRequest) ([]Shift, error) {
	shifts := make([]Shift, 0, len(reqs))
	for _, r := range reqs {
		start, err := window.ParseClock(r.StartTime)
		if err != nil {
			return nil, err
		}
		end, err := window.ParseClock(r.EndTime)
		if err != nil {
			return nil, err
		}
		shifts = append(shifts, Shift{
			WorkScheduleID: workScheduleID,
			DayOfWeek:      r.DayOfWeek,
			StartTime:      start,
			EndTime:        end,
		})
	}

	sort.SliceStable(shifts, func(i, j int) bool {
		if shifts[i].DayOfWeek != shifts[j].DayOfWeek {
			return shifts[i].DayOfWeek < shifts[j].DayOfWeek
		}
		return shifts[i].StartTime < shifts[j].StartTime
	})
	return shifts, nil
}

type CreateWorkScheduleRequest struct {
	Name   string         `json:"name"`
	Shifts []ShiftRequest `json:"shifts"`
}

func (r *CreateWorkScheduleRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name is required",
		})
	}
	errs = append(errs, validateShiftRequests(r.Shifts)...)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ReplaceShiftsRequest struct {
	ID     string         `json:"-"`
	Shifts []ShiftRequest `json:"shifts"`
}

func (r *ReplaceShiftsRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.ID) {
		errs = append(errs, validator.ValidationError{
			Field:   "id",
			Message: "id must be a valid UUID",
		})
	}
	errs = append(errs, validateShiftRequests(r.Shifts)...)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type WorkScheduleFilter struct {
	Name *string `json:"name,omitempty"`

	Page  int `json:"page"`
	Limit int `json:"limit"`
}

func (f *WorkScheduleFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Page < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "page",
			Message: "page must be a positive number",
		})
	}
	if f.Page == 0 {
		f.Page = 1
	}

	if f.Limit < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must be a positive number",
		})
	}
	if f.Limit == 0 {
		f.Limit = 20
	}
	if f.Limit > 100 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must not exceed 100",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ShiftResponse struct {
	ID        string `json:"id"`
	DayOfWeek int    `json:"day_of_week"`
	DayName   string `json:"day_name"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

type WorkScheduleResponse struct {
	ID        string          `json:"id"`
	CompanyID string          `json:"company_id"`
	Name      string          `json:"name"`
	Shifts    []ShiftResponse `json:"shifts"`
	CreatedAt string          `json:"created_at"`
	UpdatedAt string          `json:"updated_at"`
}

type ListWorkScheduleResponse struct {
	TotalCount    int64                  `json:"total_count"`
	Page          int                    `json:"page"`
	Limit         int                    `json:"limit"`
	TotalPages    int                    `json:"total_pages"`
	Showing       string                 `json:"showing"`
	WorkSchedules []WorkScheduleResponse `json:"work_schedules"`
}
