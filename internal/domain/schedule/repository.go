package schedule

import "context"

type WorkScheduleRepository interface {
	Create(ctx context.Context, workSchedule WorkSchedule) (WorkSchedule, error)
	GetByID(ctx context.Context, id string, companyID string) (WorkSchedule, error)
	GetByCompanyID(ctx context.Context, companyID string, filter WorkScheduleFilter) ([]WorkSchedule, int64, error)
	SoftDelete(ctx context.Context, id, companyID string) error
	IsAssigned(ctx context.Context, id, companyID string) (bool, error)
}

type ShiftRepository interface {
	// ReplaceForSchedule deletes every shift of the schedule and inserts shifts.
	ReplaceForSchedule(ctx context.Context, workScheduleID string, shifts []Shift) ([]Shift, error)
	GetByWorkScheduleID(ctx context.Context, workScheduleID string) ([]Shift, error)
	// ShiftsForDay returns the weekday's shifts ordered by start time.
	ShiftsForDay(ctx context.Context, workScheduleID string, dayOfWeek int) ([]Shift, error)
}
