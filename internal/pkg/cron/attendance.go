package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hris-attendance/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance/internal/domain/employee"
	"github.com/cmlabs-hris/hris-attendance/internal/domain/schedule"
	"github.com/cmlabs-hris/hris-attendance/internal/pkg/window"
)

type AttendanceJobs struct {
	attendanceRepo attendance.AttendanceRepository
	missedRepo     attendance.MissedShiftRepository
	employeeRepo   employee.EmployeeRepository
	shiftRepo      schedule.ShiftRepository
	now            func() time.Time
}

func NewAttendanceJobs(
	attendanceRepo attendance.AttendanceRepository,
	missedRepo attendance.MissedShiftRepository,
	employeeRepo employee.EmployeeRepository,
	shiftRepo schedule.ShiftRepository,
) *AttendanceJobs {
	return &AttendanceJobs{
		attendanceRepo: attendanceRepo,
		missedRepo:     missedRepo,
		employeeRepo:   employeeRepo,
		shiftRepo:      shiftRepo,
		now:            time.Now,
	}
}

func (j *AttendanceJobs) RegisterJobs(scheduler *Scheduler, interval time.Duration) {
	scheduler.AddJob("flag_open_entries", interval, j.FlagOpenEntries)
	scheduler.AddJob("record_missed_shifts", interval, j.RecordMissedShifts)
}

// closedDay is the previous local day of an employee whose local clock has
// just passed midnight.
type closedDay struct {
	employee employee.Employee
	date     time.Time
	weekday  int
}

// closedDays returns one entry per active employee whose local time is in the
// midnight hour. Each day is therefore processed once per hourly run.
func (j *AttendanceJobs) closedDays(ctx context.Context) ([]closedDay, error) {
	employees, err := j.employeeRepo.ListActive(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get active employees: %w", err)
	}

	now := j.now()
	var days []closedDay
	for _, emp := range employees {
		local := now.In(emp.Location())
		if local.Hour() != 0 {
			continue
		}
		yesterday := local.AddDate(0, 0, -1)
		days = append(days, closedDay{
			employee: emp,
			date:     attendance.WorkDate(yesterday),
			weekday:  schedule.DayOfWeek(yesterday),
		})
	}
	return days, nil
}

// FlagOpenEntries moves entries that never got an exit to waiting_approval so
// a manager reviews them.
func (j *AttendanceJobs) FlagOpenEntries(ctx context.Context) error {
	days, err := j.closedDays(ctx)
	if err != nil {
		return err
	}
	if len(days) == 0 {
		return nil
	}

	slog.InfoContext(ctx, "Cron: Starting flag open entries job", "employees", len(days))

	flagged := 0
	for _, d := range days {
		events, err := j.attendanceRepo.ListByEmployeeAndDate(ctx, d.employee.ID, d.date, d.employee.CompanyID)
		if err != nil {
			slog.ErrorContext(ctx, "Cron: Failed to get attendance", "employee_id", d.employee.ID, "error", err)
			continue
		}
		if len(events) == 0 {
			continue
		}

		last := events[len(events)-1]
		if last.Kind != window.Entry || last.Status != attendance.StatusRecorded {
			continue
		}

		note := fmt.Sprintf("No exit registered for shift %s-%s", last.ShiftStart, last.ShiftEnd)
		if err := j.attendanceRepo.MarkWaitingApproval(ctx, last.ID, last.CompanyID, note); err != nil {
			slog.ErrorContext(ctx, "Cron: Failed to flag open entry",
				"attendance_id", last.ID,
				"employee_id", last.EmployeeID,
				"error", err)
			continue
		}
		flagged++
	}

	slog.InfoContext(ctx, "Cron: Flagged open entries", "count", flagged)
	return nil
}

// RecordMissedShifts stores every scheduled shift of the previous day that had
// no entry at all.
func (j *AttendanceJobs) RecordMissedShifts(ctx context.Context) error {
	days, err := j.closedDays(ctx)
	if err != nil {
		return err
	}
	if len(days) == 0 {
		return nil
	}

	slog.InfoContext(ctx, "Cron: Starting record missed shifts job", "employees", len(days))

	var missed []attendance.MissedShift
	for _, d := range days {
		emp := d.employee
		if emp.WorkScheduleID == nil {
			continue
		}

		shifts, err := j.shiftRepo.ShiftsForDay(ctx, *emp.WorkScheduleID, d.weekday)
		if err != nil {
			slog.ErrorContext(ctx, "Cron: Failed to get shifts", "employee_id", emp.ID, "error", err)
			continue
		}
		if len(shifts) == 0 {
			continue
		}

		events, err := j.attendanceRepo.ListByEmployeeAndDate(ctx, emp.ID, d.date, emp.CompanyID)
		if err != nil {
			slog.ErrorContext(ctx, "Cron: Failed to get attendance", "employee_id", emp.ID, "error", err)
			continue
		}

		entered := make(map[int]bool, len(events))
		for _, e := range events {
			if e.Kind == window.Entry {
				entered[e.ShiftIndex] = true
			}
		}

		day := schedule.ForDay(shifts)
		for idx, shift := range day.Shifts {
			if entered[idx] {
				continue
			}
			missed = append(missed, attendance.MissedShift{
				CompanyID:  emp.CompanyID,
				EmployeeID: emp.ID,
				Date:       d.date,
				ShiftIndex: idx,
				ShiftStart: shift.Start,
				ShiftEnd:   shift.End,
			})
		}
	}

	if len(missed) == 0 {
		slog.InfoContext(ctx, "Cron: No missed shifts found")
		return nil
	}

	inserted, err := j.missedRepo.BulkCreate(ctx, missed)
	if err != nil {
		return fmt.Errorf("failed to record missed shifts: %w", err)
	}

	slog.InfoContext(ctx, "Cron: Recorded missed shifts", "count", inserted)
	return nil
}
