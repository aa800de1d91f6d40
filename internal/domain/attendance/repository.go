package attendance

import (
	"context"
	"time"
)

// AttendanceRepository defines data access methods for attendance events.
// Every method takes companyID to keep companies isolated.
type AttendanceRepository interface {
	Create(ctx context.Context, event Event) (Event, error)

	GetByID(ctx context.Context, id string, companyID string) (Event, error)

	// ListByEmployeeAndDate returns the day's non-rejected events, oldest first.
	ListByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time, companyID string) ([]Event, error)

	// LockEmployee serialises registrations of one employee until the
	// surrounding transaction ends.
	LockEmployee(ctx context.Context, employeeID string) error

	UpdateReview(ctx context.Context, event Event) error

	// MarkWaitingApproval moves a recorded event to waiting_approval with a note.
	MarkWaitingApproval(ctx context.Context, id string, companyID string, note string) error

	List(ctx context.Context, filter AttendanceFilter, companyID string) ([]Event, int64, error)

	GetMyAttendance(ctx context.Context, employeeID string, filter MyAttendanceFilter, companyID string) ([]Event, int64, error)

	Delete(ctx context.Context, id string, companyID string) error
}

type MissedShiftRepository interface {
	// BulkCreate ignores shifts that were already recorded.
	BulkCreate(ctx context.Context, missed []MissedShift) (int64, error)
}

// EventPublisher forwards committed events to downstream consumers.
type EventPublisher interface {
	PublishAttendanceRecorded(ctx context.Context, event EventResponse) error
	PublishAttendanceReviewed(ctx context.Context, event EventResponse) error
}
