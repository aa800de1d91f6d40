package schedule

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/cmlabs-hris/hris-attendance/internal/pkg/window"
)

type WorkSchedule struct {
	ID        string
	CompanyID string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time

	Shifts []Shift
}

// Shift is one work interval on a weekday. A weekday with several shifts is
// a split schedule.
type Shift struct {
	ID             string
	WorkScheduleID string
	DayOfWeek      int // 1=Monday, ..., 7=Sunday
	StartTime      window.Minute
	EndTime        window.Minute
	CreatedAt      time.Time
}

var dayNames = [...]string{"", "monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}

// DayOfWeek converts t's weekday to the 1=Monday..7=Sunday numbering used by shifts.
func DayOfWeek(t time.Time) int {
	if t.Weekday() == time.Sunday {
		return 7
	}
	return int(t.Weekday())
}

func DayName(day int) string {
	if day < 1 || day > 7 {
		return fmt.Sprintf("day_%d", day)
	}
	return dayNames[day]
}

// ForDay builds the evaluator schedule out of one weekday's shifts.
func ForDay(shifts []Shift) window.Schedule {
	sorted := make([]Shift, len(shifts))
	copy(sorted, shifts)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].StartTime < sorted[j].StartTime
	})

	ws := window.Schedule{
		AppliesToday: len(sorted) > 0,
		Shifts:       make([]window.Shift, 0, len(sorted)),
	}
	for _, s := range sorted {
		ws.Shifts = append(ws.Shifts, window.Shift{Start: s.StartTime, End: s.EndTime})
	}
	return ws
}

// ShiftsOn returns the shifts of the given weekday in stored order.
func (w WorkSchedule) ShiftsOn(day int) []Shift {
	var shifts []Shift
	for _, s := range w.Shifts {
		if s.DayOfWeek == day {
			shifts = append(shifts, s)
		}
	}
	return shifts
}

// Validate checks every weekday on its own. Field names in the returned
// *window.ConfigurationError are prefixed with the weekday.
func (w WorkSchedule) Validate() error {
	for _, s := range w.Shifts {
		if s.DayOfWeek < 1 || s.DayOfWeek > 7 {
			return &window.ConfigurationError{
				Field:  "day_of_week",
				Reason: fmt.Sprintf("%d is not between 1 and 7", s.DayOfWeek),
				Err:    window.ErrInvalidSchedule,
			}
		}
	}

	for day := 1; day <= 7; day++ {
		shifts := w.ShiftsOn(day)
		if len(shifts) == 0 {
			continue
		}

		ws := window.Schedule{AppliesToday: true}
		for _, s := range shifts {
			ws.Shifts = append(ws.Shifts, window.Shift{Start: s.StartTime, End: s.EndTime})
		}

		if err := ws.Validate(); err != nil {
			var cfgErr *window.ConfigurationError
			if errors.As(err, &cfgErr) {
				return &window.ConfigurationError{
					Field:  DayName(day) + "." + cfgErr.Field,
					Reason: cfgErr.Reason,
					Err:    cfgErr.Err,
				}
			}
			return err
		}
	}

	return nil
}
