package postgresql_test

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-attendance/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance/internal/domain/employee"
	"github.com/cmlabs-hris/hris-attendance/internal/domain/schedule"
	"github.com/cmlabs-hris/hris-attendance/internal/domain/tolerance"
	"github.com/cmlabs-hris/hris-attendance/internal/pkg/window"
	"github.com/cmlabs-hris/hris-attendance/internal/repository/postgresql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testCompanyID = "0190a1b2-c3d4-7e5f-8a6b-1c2d3e4f5a60"

type seeded struct {
	branchID   string
	positionID string
	scheduleID string
	employeeID string
}

func seed(t *testing.T, setup *TestDatabaseSetup) seeded {
	t.Helper()
	ctx := context.Background()
	var s seeded

	require.NoError(t, setup.DB.QueryRow(ctx,
		`INSERT INTO branches (company_id, name, timezone) VALUES ($1, 'Jakarta HQ', 'Asia/Jakarta') RETURNING id`,
		testCompanyID).Scan(&s.branchID))
	require.NoError(t, setup.DB.QueryRow(ctx,
		`INSERT INTO positions (company_id, name) VALUES ($1, 'Cashier') RETURNING id`,
		testCompanyID).Scan(&s.positionID))

	ws, err := postgresql.NewWorkScheduleRepository(setup.DB).Create(ctx, schedule.WorkSchedule{CompanyID: testCompanyID, Name: "Office"})
	require.NoError(t, err)
	s.scheduleID = ws.ID

	require.NoError(t, setup.DB.QueryRow(ctx, `
		INSERT INTO employees (company_id, work_schedule_id, position_id, branch_id, employee_code, full_name)
		VALUES ($1, $2, $3, $4, '2024-0001', 'Siti Rahma') RETURNING id`,
		testCompanyID, s.scheduleID, s.positionID, s.branchID).Scan(&s.employeeID))

	return s
}

func TestWorkScheduleRepository(t *testing.T) {
	setup := NewTestDatabase(t)
	s := seed(t, setup)
	ctx := context.Background()

	wsRepo := postgresql.NewWorkScheduleRepository(setup.DB)
	shiftRepo := postgresql.NewShiftRepository(setup.DB)
	tx := postgresql.NewTransactor(setup.DB)

	err := tx.WithinTransaction(ctx, func(ctx context.Context) error {
		_, err := shiftRepo.ReplaceForSchedule(ctx, s.scheduleID, []schedule.Shift{
			{DayOfWeek: 1, StartTime: window.MustParseClock("13:00"), EndTime: window.MustParseClock("17:00")},
			{DayOfWeek: 1, StartTime: window.MustParseClock("08:00"), EndTime: window.MustParseClock("12:00")},
			{DayOfWeek: 2, StartTime: window.MustParseClock("09:00"), EndTime: window.MustParseClock("18:00")},
		})
		return err
	})
	require.NoError(t, err)

	monday, err := shiftRepo.ShiftsForDay(ctx, s.scheduleID, 1)
	require.NoError(t, err)
	require.Len(t, monday, 2)
	assert.Equal(t, window.MustParseClock("08:00"), monday[0].StartTime)
	assert.Equal(t, window.MustParseClock("13:00"), monday[1].StartTime)

	ws, err := wsRepo.GetByID(ctx, s.scheduleID, testCompanyID)
	require.NoError(t, err)
	assert.Len(t, ws.Shifts, 3)

	_, err = wsRepo.Create(ctx, schedule.WorkSchedule{CompanyID: testCompanyID, Name: "Office"})
	assert.ErrorIs(t, err, schedule.ErrWorkScheduleNameExists)

	list, total, err := wsRepo.GetByCompanyID(ctx, testCompanyID, schedule.WorkScheduleFilter{Page: 1, Limit: 20})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, list, 1)
	assert.Len(t, list[0].Shifts, 3)

	assigned, err := wsRepo.IsAssigned(ctx, s.scheduleID, testCompanyID)
	require.NoError(t, err)
	assert.True(t, assigned)

	require.NoError(t, wsRepo.SoftDelete(ctx, s.scheduleID, testCompanyID))
	_, err = wsRepo.GetByID(ctx, s.scheduleID, testCompanyID)
	assert.ErrorIs(t, err, schedule.ErrWorkScheduleNotFound)
}

func TestEmployeeRepository(t *testing.T) {
	setup := NewTestDatabase(t)
	s := seed(t, setup)
	ctx := context.Background()
	repo := postgresql.NewEmployeeRepository(setup.DB)

	emp, err := repo.GetByID(ctx, s.employeeID, testCompanyID)
	require.NoError(t, err)
	assert.Equal(t, "Asia/Jakarta", emp.Timezone)
	assert.Equal(t, "Office", *emp.WorkScheduleName)
	assert.Equal(t, "Cashier", *emp.PositionName)
	assert.True(t, emp.IsActive())
	assert.Nil(t, emp.PINHash)

	byCode, err := repo.GetByEmployeeCode(ctx, testCompanyID, "2024-0001")
	require.NoError(t, err)
	assert.Equal(t, s.employeeID, byCode.ID)

	_, err = repo.GetByEmployeeCode(ctx, testCompanyID, "2024-9999")
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)

	require.NoError(t, repo.UpdatePIN(ctx, s.employeeID, testCompanyID, "$2a$10$hash"))
	require.NoError(t, repo.UpdateSchedule(ctx, s.employeeID, nil, testCompanyID))

	emp, err = repo.GetByID(ctx, s.employeeID, testCompanyID)
	require.NoError(t, err)
	assert.Equal(t, "$2a$10$hash", *emp.PINHash)
	assert.Nil(t, emp.WorkScheduleID)

	all, err := repo.ListActive(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	company := testCompanyID
	scoped, err := repo.ListActive(ctx, &company)
	require.NoError(t, err)
	assert.Len(t, scoped, 1)
}

func TestAttendanceRepository(t *testing.T) {
	setup := NewTestDatabase(t)
	s := seed(t, setup)
	ctx := context.Background()
	repo := postgresql.NewAttendanceRepository(setup.DB)
	tx := postgresql.NewTransactor(setup.DB)

	day := time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)
	newEvent := func(kind window.EventKind, at string, status attendance.Status) attendance.Event {
		minute := window.MustParseClock(at)
		return attendance.Event{
			CompanyID:      testCompanyID,
			EmployeeID:     s.employeeID,
			Date:           day,
			Kind:           kind,
			Classification: window.OnTime,
			ShiftStart:     window.MustParseClock("08:00"),
			ShiftEnd:       window.MustParseClock("17:00"),
			RecordedAt:     day.Add(time.Duration(minute-7*60) * time.Minute),
			MinuteOfDay:    minute,
			Method:         attendance.MethodFacial,
			Status:         status,
		}
	}

	var rejected, entry attendance.Event
	err := tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := repo.LockEmployee(ctx, s.employeeID); err != nil {
			return err
		}
		var err error
		if rejected, err = repo.Create(ctx, newEvent(window.Entry, "07:30", attendance.StatusRejected)); err != nil {
			return err
		}
		entry, err = repo.Create(ctx, newEvent(window.Entry, "08:00", attendance.StatusRecorded))
		return err
	})
	require.NoError(t, err)
	assert.NotEmpty(t, entry.ID)
	assert.False(t, entry.CreatedAt.IsZero())

	events, err := repo.ListByEmployeeAndDate(ctx, s.employeeID, day, testCompanyID)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, entry.ID, events[0].ID)
	assert.Equal(t, window.MustParseClock("08:00"), events[0].MinuteOfDay)
	assert.Equal(t, "Siti Rahma", *events[0].EmployeeName)

	require.NoError(t, repo.MarkWaitingApproval(ctx, entry.ID, testCompanyID, "No exit registered"))
	got, err := repo.GetByID(ctx, entry.ID, testCompanyID)
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusWaitingApproval, got.Status)

	reviewedAt := time.Now().UTC()
	got.Status = attendance.StatusApproved
	got.ReviewedAt = &reviewedAt
	require.NoError(t, repo.UpdateReview(ctx, got))

	status := string(attendance.StatusApproved)
	list, total, err := repo.List(ctx, attendance.AttendanceFilter{Status: &status, Page: 1, Limit: 20}, testCompanyID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, list, 1)

	mine, total, err := repo.GetMyAttendance(ctx, s.employeeID, attendance.MyAttendanceFilter{Page: 1, Limit: 20, SortOrder: "asc"}, testCompanyID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Equal(t, rejected.ID, mine[0].ID)

	require.NoError(t, repo.Delete(ctx, rejected.ID, testCompanyID))
	assert.ErrorIs(t, repo.Delete(ctx, rejected.ID, testCompanyID), attendance.ErrAttendanceNotFound)
}

func TestMissedShiftRepository_BulkCreateIsIdempotent(t *testing.T) {
	setup := NewTestDatabase(t)
	s := seed(t, setup)
	ctx := context.Background()
	repo := postgresql.NewMissedShiftRepository(setup.DB)

	missed := []attendance.MissedShift{{
		CompanyID:  testCompanyID,
		EmployeeID: s.employeeID,
		Date:       time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC),
		ShiftIndex: 0,
		ShiftStart: window.MustParseClock("08:00"),
		ShiftEnd:   window.MustParseClock("17:00"),
	}}

	inserted, err := repo.BulkCreate(ctx, missed)
	require.NoError(t, err)
	assert.Equal(t, int64(1), inserted)

	inserted, err = repo.BulkCreate(ctx, missed)
	require.NoError(t, err)
	assert.Zero(t, inserted)
}

func TestPolicyRepository(t *testing.T) {
	setup := NewTestDatabase(t)
	s := seed(t, setup)
	ctx := context.Background()
	repo := postgresql.NewPolicyRepository(setup.DB)

	policy := tolerance.Policy{
		CompanyID:                   testCompanyID,
		PositionID:                  s.positionID,
		LateGraceMinutes:            5,
		AbsenceThresholdMinutes:     20,
		EarlyArrivalWindowMinutes:   30,
		DepartureGraceBeforeMinutes: 0,
		DepartureGraceAfterMinutes:  15,
	}
	first, err := repo.Upsert(ctx, policy)
	require.NoError(t, err)

	policy.LateGraceMinutes = 7
	second, err := repo.Upsert(ctx, policy)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	got, err := repo.GetByPosition(ctx, testCompanyID, s.positionID)
	require.NoError(t, err)
	assert.Equal(t, 7, got.LateGraceMinutes)
	assert.Equal(t, "Cashier", *got.PositionName)

	all, err := repo.List(ctx, testCompanyID)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	require.NoError(t, repo.Delete(ctx, testCompanyID, s.positionID))
	_, err = repo.GetByPosition(ctx, testCompanyID, s.positionID)
	assert.ErrorIs(t, err, tolerance.ErrPolicyNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, testCompanyID, s.positionID), tolerance.ErrPolicyNotFound)
}
