package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"
	"github.com/cmlabs-hris/hris-attendance/internal/pkg/window"
)

// Context is bound into every command's Run method.
type Context struct {
	Out io.Writer
}

type CLI struct {
	Version kong.VersionFlag `help:"Print version and exit."`

	Evaluate EvaluateCmd `cmd:"" help:"Evaluate a registration offline against a schedule file."`
	Validate ValidateCmd `cmd:"" help:"Validate schedule files."`
	Token    TokenCmd    `cmd:"" help:"Mint tokens for kiosks and users."`
}

// ShiftFile is one shift in a schedule file.
type ShiftFile struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// ToleranceFile overrides the default tolerance. Missing fields keep their default.
type ToleranceFile struct {
	LateGraceMinutes            *int `json:"late_grace_minutes"`
	AbsenceThresholdMinutes     *int `json:"absence_threshold_minutes"`
	EarlyArrivalWindowMinutes   *int `json:"early_arrival_window_minutes"`
	DepartureGraceBeforeMinutes *int `json:"departure_grace_before_minutes"`
	DepartureGraceAfterMinutes  *int `json:"departure_grace_after_minutes"`
}

// ScheduleFile describes one day of work:
//
//	{"shifts": [{"start": "08:00", "end": "12:00"}], "tolerance": {"late_grace_minutes": 5}}
type ScheduleFile struct {
	Shifts    []ShiftFile    `json:"shifts"`
	Tolerance *ToleranceFile `json:"tolerance,omitempty"`
}

// LoadScheduleFile reads path and converts it to evaluator input. Both
// results are validated.
func LoadScheduleFile(path string) (window.Schedule, window.TolerancePolicy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return window.Schedule{}, window.TolerancePolicy{}, err
	}

	var file ScheduleFile
	if err := json.Unmarshal(data, &file); err != nil {
		return window.Schedule{}, window.TolerancePolicy{}, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	return file.Resolve()
}

func (f ScheduleFile) Resolve() (window.Schedule, window.TolerancePolicy, error) {
	sched := window.Schedule{AppliesToday: true}
	for i, s := range f.Shifts {
		start, err := window.ParseClock(s.Start)
		if err != nil {
			return window.Schedule{}, window.TolerancePolicy{}, &window.ConfigurationError{
				Field: fmt.Sprintf("shifts[%d].start", i), Reason: err.Error(), Err: window.ErrInvalidSchedule,
			}
		}
		end, err := window.ParseClock(s.End)
		if err != nil {
			return window.Schedule{}, window.TolerancePolicy{}, &window.ConfigurationError{
				Field: fmt.Sprintf("shifts[%d].end", i), Reason: err.Error(), Err: window.ErrInvalidSchedule,
			}
		}
		sched.Shifts = append(sched.Shifts, window.Shift{Start: start, End: end})
	}

	policy := window.DefaultTolerancePolicy()
	if t := f.Tolerance; t != nil {
		overrides := []struct {
			src *int
			dst *int
		}{
			{t.LateGraceMinutes, &policy.LateGraceMinutes},
			{t.AbsenceThresholdMinutes, &policy.AbsenceThresholdMinutes},
			{t.EarlyArrivalWindowMinutes, &policy.EarlyArrivalWindowMinutes},
			{t.DepartureGraceBeforeMinutes, &policy.DepartureGraceBeforeMinutes},
			{t.DepartureGraceAfterMinutes, &policy.DepartureGraceAfterMinutes},
		}
		for _, o := range overrides {
			if o.src != nil {
				*o.dst = *o.src
			}
		}
	}

	if err := sched.Validate(); err != nil {
		return window.Schedule{}, window.TolerancePolicy{}, err
	}
	if err := policy.Validate(); err != nil {
		return window.Schedule{}, window.TolerancePolicy{}, err
	}
	return sched, policy, nil
}
