package window

// Shift is one contiguous work interval of a day, Start < End.
type Shift struct {
	Start Minute
	End   Minute
}

// Schedule is an employee's plan for one calendar day. Shifts are ordered by
// start and never overlap; more than one shift means a split schedule.
type Schedule struct {
	AppliesToday bool
	Shifts       []Shift
}

// TolerancePolicy holds the grace windows applied around every shift.
type TolerancePolicy struct {
	LateGraceMinutes            int
	AbsenceThresholdMinutes     int
	EarlyArrivalWindowMinutes   int
	DepartureGraceBeforeMinutes int
	DepartureGraceAfterMinutes  int
}

const (
	DefaultLateGraceMinutes            = 10
	DefaultAbsenceThresholdMinutes     = 30
	DefaultEarlyArrivalWindowMinutes   = 60
	DefaultDepartureGraceBeforeMinutes = 10
	DefaultDepartureGraceAfterMinutes  = 5
)

// DefaultTolerancePolicy is used when no policy is configured for a position.
func DefaultTolerancePolicy() TolerancePolicy {
	return TolerancePolicy{
		LateGraceMinutes:            DefaultLateGraceMinutes,
		AbsenceThresholdMinutes:     DefaultAbsenceThresholdMinutes,
		EarlyArrivalWindowMinutes:   DefaultEarlyArrivalWindowMinutes,
		DepartureGraceBeforeMinutes: DefaultDepartureGraceBeforeMinutes,
		DepartureGraceAfterMinutes:  DefaultDepartureGraceAfterMinutes,
	}
}

type EventKind string

const (
	Entry EventKind = "entry"
	Exit  EventKind = "exit"
)

var EventKindValues = []string{string(Entry), string(Exit)}

type Classification string

const (
	OnTime          Classification = "on_time"
	Late            Classification = "late"
	Absent          Classification = "absent"
	EarlyDeparture  Classification = "early_departure"
	OnTimeDeparture Classification = "on_time_departure"
	LateDeparture   Classification = "late_departure"
)

var ClassificationValues = []string{
	string(OnTime),
	string(Late),
	string(Absent),
	string(EarlyDeparture),
	string(OnTimeDeparture),
	string(LateDeparture),
}

// LastEvent is the most recent registration of the day.
// ShiftIndex is -1 when the shift it belonged to is not known.
type LastEvent struct {
	Kind       EventKind
	AtMinute   Minute
	ShiftIndex int
}

// DailyState is derived from the day's recorded events on every evaluation.
type DailyState struct {
	Last        *LastEvent
	EventsToday int
}

type BlockCode string

const (
	BlockOutsideWindow   BlockCode = "outside_window"
	BlockJourneyComplete BlockCode = "journey_complete"
	BlockWaitMinutes     BlockCode = "wait_minutes"
)

// BlockReason explains a refused registration. WaitMinutes is only set for BlockWaitMinutes.
type BlockReason struct {
	Code        BlockCode
	WaitMinutes int
}

// Window is the governing interval of a decision, both ends inclusive.
type Window struct {
	Open  Minute
	Close Minute
}

func (w Window) Contains(m Minute) bool {
	return m >= w.Open && m <= w.Close
}

// Decision is the outcome of one evaluation.
//
// For entries DeltaMinutes is how late the employee is against the shift
// start (0 when early). For exits it is now minus the shift end, so it is
// negative for early leaves.
type Decision struct {
	Allowed        bool
	Kind           EventKind
	Classification Classification
	ShiftIndex     int
	Shift          Shift
	Window         Window
	DeltaMinutes   int
	Blocked        *BlockReason
}
