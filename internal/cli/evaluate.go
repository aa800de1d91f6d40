package cli

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-attendance/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance/internal/pkg/window"
)

type EvaluateCmd struct {
	Schedule string   `arg:"" type:"existingfile" help:"Schedule file (JSON)."`
	At       string   `required:"" help:"Local time of the registration, HH:MM."`
	Events   []string `name:"event" help:"Earlier registrations of the day, HH:MM, in order. Repeatable."`
	Strict   bool     `help:"Refuse exits after the departure grace instead of recording a late departure."`
}

// Run replays the earlier registrations to rebuild the day's state, then
// prints the decision for --at.
func (c *EvaluateCmd) Run(ctx *Context) error {
	sched, policy, err := LoadScheduleFile(c.Schedule)
	if err != nil {
		return err
	}

	var opts []window.Option
	if c.Strict {
		opts = append(opts, window.WithStrictExitWindow())
	}
	evaluator := window.NewEvaluator(opts...)

	state, err := replay(evaluator, sched, policy, c.Events)
	if err != nil {
		return err
	}

	now, err := window.ParseClock(c.At)
	if err != nil {
		return fmt.Errorf("--at: %w", err)
	}

	decision := evaluator.Evaluate(sched, policy, state, now)
	resp := attendance.NewRegistrationResponse(decision, clockTime(now))

	enc := json.NewEncoder(ctx.Out)
	enc.SetIndent("", "  ")
	return enc.Encode(resp)
}

func replay(evaluator *window.Evaluator, sched window.Schedule, policy window.TolerancePolicy, events []string) (window.DailyState, error) {
	var state window.DailyState

	for i, raw := range events {
		at, err := window.ParseClock(raw)
		if err != nil {
			return state, fmt.Errorf("--event %d: %w", i+1, err)
		}
		if state.Last != nil && at < state.Last.AtMinute {
			return state, fmt.Errorf("--event %d: %s is before the previous event", i+1, raw)
		}

		d := evaluator.Evaluate(sched, policy, state, at)
		if !d.Allowed {
			return state, fmt.Errorf("--event %d: registration at %s would have been refused: %s", i+1, raw, attendance.DescribeDecision(d))
		}

		state.EventsToday++
		state.Last = &window.LastEvent{Kind: d.Kind, AtMinute: at, ShiftIndex: d.ShiftIndex}
	}

	return state, nil
}

func clockTime(m window.Minute) time.Time {
	return time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(m) * time.Minute)
}
