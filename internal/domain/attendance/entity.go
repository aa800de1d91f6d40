package attendance

import (
	"time"

	"github.com/cmlabs-hris/hris-attendance/internal/pkg/window"
)

// Event is one committed entry or exit registration.
type Event struct {
	ID             string
	CompanyID      string
	EmployeeID     string
	Date           time.Time // local work date at midnight UTC
	Kind           window.EventKind
	Classification window.Classification
	ShiftIndex     int
	ShiftStart     window.Minute
	ShiftEnd       window.Minute
	RecordedAt     time.Time
	MinuteOfDay    window.Minute
	DeltaMinutes   int
	Method         Method
	DeviceID       *string
	Status         Status
	Note           *string

	ReviewedBy      *string
	ReviewedAt      *time.Time
	RejectionReason *string
	CreatedAt       time.Time
	UpdatedAt       time.Time

	// Joined
	EmployeeName *string
	EmployeeCode *string
}

type Status string

const (
	StatusRecorded        Status = "recorded"
	StatusWaitingApproval Status = "waiting_approval"
	StatusApproved        Status = "approved"
	StatusRejected        Status = "rejected"
)

var StatusValues = []string{
	string(StatusRecorded),
	string(StatusWaitingApproval),
	string(StatusApproved),
	string(StatusRejected),
}

// Method is how the kiosk identified the employee. Capture happens on the
// device; only the method is kept.
type Method string

const (
	MethodFingerprint Method = "fingerprint"
	MethodFacial      Method = "facial"
	MethodPIN         Method = "pin"
	MethodManual      Method = "manual"
)

var MethodValues = []string{
	string(MethodFingerprint),
	string(MethodFacial),
	string(MethodPIN),
	string(MethodManual),
}

// StatusFor returns the review status a freshly committed event starts in.
func StatusFor(class window.Classification) Status {
	switch class {
	case window.Absent, window.EarlyDeparture:
		return StatusWaitingApproval
	default:
		return StatusRecorded
	}
}

// DailyStateFrom derives the evaluator state from the day's events in
// chronological order. Rejected events must already be filtered out.
func DailyStateFrom(events []Event) window.DailyState {
	state := window.DailyState{EventsToday: len(events)}
	if len(events) == 0 {
		return state
	}

	last := events[len(events)-1]
	state.Last = &window.LastEvent{
		Kind:       last.Kind,
		AtMinute:   last.MinuteOfDay,
		ShiftIndex: last.ShiftIndex,
	}
	return state
}

// WorkDate truncates a local time to its calendar date.
func WorkDate(local time.Time) time.Time {
	y, m, d := local.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// MissedShift records a scheduled shift that had no entry at all.
type MissedShift struct {
	ID         string
	CompanyID  string
	EmployeeID string
	Date       time.Time
	ShiftIndex int
	ShiftStart window.Minute
	ShiftEnd   window.Minute
	CreatedAt  time.Time
}
