package window

// Evaluator decides whether a registration is allowed at a given minute and
// how it is classified. It holds only immutable options and is safe for
// concurrent use.
type Evaluator struct {
	strictExitWindow bool
}

type Option func(*Evaluator)

// WithStrictExitWindow refuses exits attempted after the departure grace
// instead of accepting them as late departures.
func WithStrictExitWindow() Option {
	return func(e *Evaluator) {
		e.strictExitWindow = true
	}
}

func NewEvaluator(opts ...Option) *Evaluator {
	e := &Evaluator{}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

var defaultEvaluator = NewEvaluator()

// Evaluate runs the default evaluator.
func Evaluate(schedule Schedule, policy TolerancePolicy, state DailyState, now Minute) Decision {
	return defaultEvaluator.Evaluate(schedule, policy, state, now)
}

// Evaluate never fails: a refused registration is a Decision with Allowed
// false and a BlockReason. Inputs are expected to be validated by the caller.
func (e *Evaluator) Evaluate(schedule Schedule, policy TolerancePolicy, state DailyState, now Minute) Decision {
	shifts := schedule.Shifts
	if !schedule.AppliesToday || len(shifts) == 0 {
		return blocked(Entry, -1, BlockReason{Code: BlockOutsideWindow})
	}

	idx := currentShiftIndex(state, len(shifts))

	if state.Last != nil && state.Last.Kind == Entry {
		return e.evaluateExit(shifts[idx], idx, policy, now)
	}

	if idx >= len(shifts) {
		return blocked(Entry, -1, BlockReason{Code: BlockJourneyComplete})
	}

	if d, ok := evaluateEntry(shifts[idx], idx, policy, now); ok {
		return d
	}

	// The current shift is out of reach. Once its span has passed a later
	// shift may already be open for entry.
	if now > shifts[idx].End {
		for j := idx + 1; j < len(shifts); j++ {
			if d, ok := evaluateEntry(shifts[j], j, policy, now); ok {
				return d
			}
		}
	}

	d := blocked(Entry, idx, BlockReason{Code: BlockOutsideWindow})
	d.Shift = shifts[idx]
	d.Window = entryWindow(shifts[idx], policy)
	return d
}

// currentShiftIndex maps the day's history to the shift the next registration
// belongs to. Two events close a shift; a known shift index on the last event
// takes precedence so that skipped shifts are not counted twice.
func currentShiftIndex(state DailyState, shiftCount int) int {
	idx := state.EventsToday / 2
	if idx < 0 {
		idx = 0
	}

	last := state.Last
	if last == nil {
		return idx
	}

	if last.ShiftIndex >= 0 {
		switch last.Kind {
		case Entry:
			idx = last.ShiftIndex
		case Exit:
			if last.ShiftIndex+1 > idx {
				idx = last.ShiftIndex + 1
			}
		}
	}

	// An open entry always has a shift to leave from.
	if last.Kind == Entry && idx >= shiftCount {
		idx = shiftCount - 1
	}
	return idx
}

func entryWindow(shift Shift, policy TolerancePolicy) Window {
	return Window{
		Open:  shift.Start - Minute(policy.EarlyArrivalWindowMinutes),
		Close: shift.End,
	}
}

func evaluateEntry(shift Shift, idx int, policy TolerancePolicy, now Minute) (Decision, bool) {
	delta := int(now - shift.Start)
	w := entryWindow(shift, policy)

	var class Classification
	switch {
	case now >= w.Open && delta <= policy.LateGraceMinutes:
		class = OnTime
	case delta > policy.LateGraceMinutes && delta <= policy.AbsenceThresholdMinutes:
		class = Late
	case delta > policy.AbsenceThresholdMinutes && now <= shift.End:
		class = Absent
	default:
		return Decision{}, false
	}

	if delta < 0 {
		delta = 0
	}
	return Decision{
		Allowed:        true,
		Kind:           Entry,
		Classification: class,
		ShiftIndex:     idx,
		Shift:          shift,
		Window:         w,
		DeltaMinutes:   delta,
	}, true
}

func (e *Evaluator) evaluateExit(shift Shift, idx int, policy TolerancePolicy, now Minute) Decision {
	w := Window{
		Open:  shift.End - Minute(policy.DepartureGraceBeforeMinutes),
		Close: shift.End + Minute(policy.DepartureGraceAfterMinutes),
	}

	d := Decision{
		Kind:         Exit,
		ShiftIndex:   idx,
		Shift:        shift,
		Window:       w,
		DeltaMinutes: int(now - shift.End),
	}

	switch {
	case w.Contains(now):
		d.Allowed = true
		d.Classification = OnTimeDeparture
	case now < w.Open:
		d.Blocked = &BlockReason{Code: BlockWaitMinutes, WaitMinutes: int(w.Open - now)}
	case e.strictExitWindow:
		d.Blocked = &BlockReason{Code: BlockOutsideWindow}
	default:
		d.Allowed = true
		d.Classification = LateDeparture
	}
	return d
}

func blocked(kind EventKind, idx int, reason BlockReason) Decision {
	return Decision{
		Kind:       kind,
		ShiftIndex: idx,
		Blocked:    &reason,
	}
}
