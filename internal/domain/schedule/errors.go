package schedule

import "errors"

var (
	ErrWorkScheduleNotFound   = errors.New("work schedule not found")
	ErrWorkScheduleNameExists = errors.New("work schedule with this name already exists")
	ErrWorkScheduleInUse      = errors.New("work schedule is still assigned to employees")
)
