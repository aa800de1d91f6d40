package attendance

import (
	"context"
)

// AttendanceService defines business logic for attendance operations
type AttendanceService interface {
	// Register evaluates and commits an entry or exit coming from a kiosk
	Register(ctx context.Context, req RegisterRequest) (RegistrationResponse, error)

	// Preview evaluates a registration without committing it
	Preview(ctx context.Context, req PreviewRequest) (RegistrationResponse, error)

	// GetMyAttendance retrieves attendance events for the authenticated employee
	GetMyAttendance(ctx context.Context, filter MyAttendanceFilter) (ListAttendanceResponse, error)

	// ListAttendance retrieves attendance events with filters (manager+)
	ListAttendance(ctx context.Context, filter AttendanceFilter) (ListAttendanceResponse, error)

	// GetAttendance retrieves a single attendance event by ID
	GetAttendance(ctx context.Context, id string) (EventResponse, error)

	// ApproveAttendance approves an event waiting for approval
	ApproveAttendance(ctx context.Context, req ApproveAttendanceRequest) (EventResponse, error)

	// RejectAttendance rejects an event waiting for approval
	RejectAttendance(ctx context.Context, req RejectAttendanceRequest) (EventResponse, error)

	// DeleteAttendance removes an event
	DeleteAttendance(ctx context.Context, id string) error
}
