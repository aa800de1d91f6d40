package attendance

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/cmlabs-hris/hris-attendance/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance/internal/domain/employee"
	"github.com/cmlabs-hris/hris-attendance/internal/domain/schedule"
	"github.com/cmlabs-hris/hris-attendance/internal/domain/user"
	"github.com/cmlabs-hris/hris-attendance/internal/pkg/sse"
	"github.com/cmlabs-hris/hris-attendance/internal/pkg/validator"
	"github.com/cmlabs-hris/hris-attendance/internal/pkg/window"
	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const (
	companyID    = "0190a1b2-c3d4-7e5f-8a6b-1c2d3e4f5a60"
	employeeID   = "0190a1b2-c3d4-7e5f-8a6b-1c2d3e4f5a61"
	otherID      = "0190a1b2-c3d4-7e5f-8a6b-1c2d3e4f5a62"
	scheduleID   = "0190a1b2-c3d4-7e5f-8a6b-1c2d3e4f5a63"
	managerID    = "0190a1b2-c3d4-7e5f-8a6b-1c2d3e4f5a64"
	deviceID     = "kiosk-lobby-1"
	employeeCode = "2024-0001"
)

type passthroughTx struct{ calls int }

func (p *passthroughTx) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	p.calls++
	return fn(ctx)
}

type fakeAttendanceRepo struct {
	events  []attendance.Event
	locked  []string
	seq     int
	updated []attendance.Event
}

func (f *fakeAttendanceRepo) Create(ctx context.Context, event attendance.Event) (attendance.Event, error) {
	f.seq++
	event.ID = fmt.Sprintf("0190a1b2-c3d4-7e5f-9a6b-%012d", f.seq)
	event.CreatedAt = event.RecordedAt
	event.UpdatedAt = event.RecordedAt
	f.events = append(f.events, event)
	return event, nil
}

func (f *fakeAttendanceRepo) GetByID(ctx context.Context, id string, companyID string) (attendance.Event, error) {
	for _, e := range f.events {
		if e.ID == id && e.CompanyID == companyID {
			return e, nil
		}
	}
	return attendance.Event{}, attendance.ErrAttendanceNotFound
}

func (f *fakeAttendanceRepo) ListByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time, companyID string) ([]attendance.Event, error) {
	var out []attendance.Event
	for _, e := range f.events {
		if e.EmployeeID == employeeID && e.Date.Equal(date) && e.Status != attendance.StatusRejected {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].RecordedAt.Before(out[j].RecordedAt) })
	return out, nil
}

func (f *fakeAttendanceRepo) LockEmployee(ctx context.Context, employeeID string) error {
	f.locked = append(f.locked, employeeID)
	return nil
}

func (f *fakeAttendanceRepo) UpdateReview(ctx context.Context, event attendance.Event) error {
	for i, e := range f.events {
		if e.ID == event.ID {
			f.events[i] = event
		}
	}
	f.updated = append(f.updated, event)
	return nil
}

func (f *fakeAttendanceRepo) MarkWaitingApproval(ctx context.Context, id string, companyID string, note string) error {
	return nil
}

func (f *fakeAttendanceRepo) List(ctx context.Context, filter attendance.AttendanceFilter, companyID string) ([]attendance.Event, int64, error) {
	return f.events, int64(len(f.events)), nil
}

func (f *fakeAttendanceRepo) GetMyAttendance(ctx context.Context, employeeID string, filter attendance.MyAttendanceFilter, companyID string) ([]attendance.Event, int64, error) {
	var out []attendance.Event
	for _, e := range f.events {
		if e.EmployeeID == employeeID {
			out = append(out, e)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeAttendanceRepo) Delete(ctx context.Context, id string, companyID string) error {
	for i, e := range f.events {
		if e.ID == id && e.CompanyID == companyID {
			f.events = append(f.events[:i], f.events[i+1:]...)
			return nil
		}
	}
	return attendance.ErrAttendanceNotFound
}

type fakeEmployeeRepo struct {
	employee.EmployeeRepository
	employees []employee.Employee
}

func (f *fakeEmployeeRepo) GetByID(ctx context.Context, id string, companyID string) (employee.Employee, error) {
	for _, e := range f.employees {
		if e.ID == id && e.CompanyID == companyID {
			return e, nil
		}
	}
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

func (f *fakeEmployeeRepo) GetByEmployeeCode(ctx context.Context, companyID string, code string) (employee.Employee, error) {
	for _, e := range f.employees {
		if e.EmployeeCode == code && e.CompanyID == companyID {
			return e, nil
		}
	}
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

type fakeShiftRepo struct {
	schedule.ShiftRepository
	shifts []schedule.Shift
}

func (f *fakeShiftRepo) ShiftsForDay(ctx context.Context, workScheduleID string, dayOfWeek int) ([]schedule.Shift, error) {
	ws := schedule.WorkSchedule{Shifts: f.shifts}
	return ws.ShiftsOn(dayOfWeek), nil
}

type fixedResolver struct{ policy window.TolerancePolicy }

func (r fixedResolver) Resolve(ctx context.Context, companyID string, positionID *string) window.TolerancePolicy {
	return r.policy
}

type fakePublisher struct {
	recorded []attendance.EventResponse
	reviewed []attendance.EventResponse
	err      error
}

func (p *fakePublisher) PublishAttendanceRecorded(ctx context.Context, event attendance.EventResponse) error {
	p.recorded = append(p.recorded, event)
	return p.err
}

func (p *fakePublisher) PublishAttendanceReviewed(ctx context.Context, event attendance.EventResponse) error {
	p.reviewed = append(p.reviewed, event)
	return p.err
}

type fixture struct {
	svc       *AttendanceServiceImpl
	tx        *passthroughTx
	events    *fakeAttendanceRepo
	employees *fakeEmployeeRepo
	shifts    *fakeShiftRepo
	hub       *sse.Hub
	publisher *fakePublisher
}

func strPtr(s string) *string { return &s }

// monday08 is 2026-10-19 08:00 in Asia/Jakarta.
var monday08 = time.Date(2026, 10, 19, 1, 0, 0, 0, time.UTC)

func at(clock string) time.Time {
	return monday08.Add(time.Duration(window.MustParseClock(clock)-window.MustParseClock("08:00")) * time.Minute)
}

func activeEmployee() employee.Employee {
	return employee.Employee{
		ID:               employeeID,
		CompanyID:        companyID,
		WorkScheduleID:   strPtr(scheduleID),
		EmployeeCode:     employeeCode,
		FullName:         "Siti Rahma",
		Timezone:         "Asia/Jakarta",
		EmploymentStatus: employee.EmploymentStatusActive,
	}
}

func newFixture(t *testing.T, opts ...window.Option) *fixture {
	t.Helper()
	f := &fixture{
		tx:        &passthroughTx{},
		events:    &fakeAttendanceRepo{},
		employees: &fakeEmployeeRepo{employees: []employee.Employee{activeEmployee()}},
		shifts: &fakeShiftRepo{shifts: []schedule.Shift{
			{WorkScheduleID: scheduleID, DayOfWeek: 1, StartTime: window.MustParseClock("08:00"), EndTime: window.MustParseClock("17:00")},
		}},
		hub:       sse.NewHub(),
		publisher: &fakePublisher{},
	}
	svc := NewAttendanceService(
		f.tx, f.events, f.employees, f.shifts,
		fixedResolver{policy: window.DefaultTolerancePolicy()},
		window.NewEvaluator(opts...), f.hub, f.publisher,
	)
	f.svc = svc.(*AttendanceServiceImpl)
	f.svc.now = func() time.Time { return monday08 }
	return f
}

func (f *fixture) setNow(t time.Time) {
	f.svc.now = func() time.Time { return t }
}

func claimsContext(t *testing.T, claims map[string]interface{}) context.Context {
	t.Helper()
	tok := jwt.New()
	for k, v := range claims {
		require.NoError(t, tok.Set(k, v))
	}
	return jwtauth.NewContext(context.Background(), tok, nil)
}

func kioskContext(t *testing.T) context.Context {
	return claimsContext(t, map[string]interface{}{
		"company_id": companyID,
		"device_id":  deviceID,
		"role":       string(user.RoleKiosk),
	})
}

func managerContext(t *testing.T) context.Context {
	return claimsContext(t, map[string]interface{}{
		"company_id": companyID,
		"user_id":    managerID,
		"role":       string(user.RoleManager),
	})
}

func employeeContext(t *testing.T, id string) context.Context {
	return claimsContext(t, map[string]interface{}{
		"company_id":  companyID,
		"employee_id": id,
		"role":        string(user.RoleEmployee),
	})
}

func register(t *testing.T, f *fixture, now string) attendance.RegistrationResponse {
	t.Helper()
	f.setNow(at(now))
	resp, err := f.svc.Register(kioskContext(t), attendance.RegisterRequest{EmployeeID: employeeID, Method: "fingerprint"})
	require.NoError(t, err)
	return resp
}

func TestRegister_EntryClassification(t *testing.T) {
	tests := []struct {
		name           string
		now            string
		classification window.Classification
		delta          int
		status         attendance.Status
	}{
		{"early arrival is on time", "07:15", window.OnTime, 0, attendance.StatusRecorded},
		{"within grace", "08:05", window.OnTime, 5, attendance.StatusRecorded},
		{"late", "08:20", window.Late, 20, attendance.StatusRecorded},
		{"absent waits for approval", "08:45", window.Absent, 45, attendance.StatusWaitingApproval},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			resp := register(t, f, tt.now)

			assert.True(t, resp.Allowed)
			assert.Equal(t, string(window.Entry), resp.Kind)
			assert.Equal(t, string(tt.classification), resp.Classification)
			assert.Equal(t, tt.delta, resp.DeltaMinutes)
			assert.Equal(t, tt.now, resp.LocalTime)
			assert.Equal(t, "08:00", resp.ShiftStart)
			assert.Equal(t, "17:00", resp.ShiftEnd)
			assert.Equal(t, employeeCode, resp.Employee.EmployeeCode)

			require.NotNil(t, resp.Event)
			assert.Equal(t, string(tt.status), resp.Event.Status)
			assert.Equal(t, "2026-10-19", resp.Event.Date)
			assert.Equal(t, tt.now, resp.Event.LocalTime)
			require.NotNil(t, resp.Event.DeviceID)
			assert.Equal(t, deviceID, *resp.Event.DeviceID)

			require.Len(t, f.events.events, 1)
			assert.Equal(t, []string{employeeID}, f.events.locked)
			assert.Equal(t, 1, f.tx.calls)
		})
	}
}

func TestRegister_BlockedEntryIsNotPersisted(t *testing.T) {
	f := newFixture(t)
	resp := register(t, f, "06:30")

	assert.False(t, resp.Allowed)
	require.NotNil(t, resp.Blocked)
	assert.Equal(t, string(window.BlockOutsideWindow), resp.Blocked.Reason)
	assert.Equal(t, "07:00", resp.WindowOpen)
	assert.Nil(t, resp.Event)
	assert.Empty(t, f.events.events)
	assert.Empty(t, f.publisher.recorded)
}

func TestRegister_ExitFlow(t *testing.T) {
	t.Run("on time", func(t *testing.T) {
		f := newFixture(t)
		register(t, f, "07:55")
		resp := register(t, f, "16:55")

		assert.True(t, resp.Allowed)
		assert.Equal(t, string(window.Exit), resp.Kind)
		assert.Equal(t, string(window.OnTimeDeparture), resp.Classification)
		assert.Equal(t, -5, resp.DeltaMinutes)
		assert.Equal(t, string(attendance.StatusRecorded), resp.Event.Status)
	})

	t.Run("late exit is accepted", func(t *testing.T) {
		f := newFixture(t)
		register(t, f, "07:55")
		resp := register(t, f, "18:30")

		assert.True(t, resp.Allowed)
		assert.Equal(t, string(window.LateDeparture), resp.Classification)
		assert.Equal(t, 90, resp.DeltaMinutes)
	})

	t.Run("late exit refused in strict mode", func(t *testing.T) {
		f := newFixture(t, window.WithStrictExitWindow())
		register(t, f, "07:55")
		resp := register(t, f, "18:30")

		assert.False(t, resp.Allowed)
		assert.Equal(t, string(window.BlockOutsideWindow), resp.Blocked.Reason)
		assert.Len(t, f.events.events, 1)
	})

	t.Run("early exit waits", func(t *testing.T) {
		f := newFixture(t)
		register(t, f, "07:55")
		resp := register(t, f, "15:00")

		assert.False(t, resp.Allowed)
		require.NotNil(t, resp.Blocked)
		assert.Equal(t, string(window.BlockWaitMinutes), resp.Blocked.Reason)
		assert.Equal(t, 110, resp.Blocked.WaitMinutes)
		assert.Equal(t, "Exit opens in 110 minutes", resp.Message)
		assert.Len(t, f.events.events, 1)
	})

	t.Run("early exit with reason", func(t *testing.T) {
		f := newFixture(t)
		register(t, f, "07:55")
		f.setNow(at("15:00"))

		resp, err := f.svc.Register(kioskContext(t), attendance.RegisterRequest{
			EmployeeID:      employeeID,
			Method:          "fingerprint",
			EarlyExitReason: strPtr("doctor appointment"),
		})
		require.NoError(t, err)

		assert.True(t, resp.Allowed)
		assert.Nil(t, resp.Blocked)
		assert.Equal(t, string(window.EarlyDeparture), resp.Classification)
		assert.Equal(t, -120, resp.DeltaMinutes)
		require.NotNil(t, resp.Event)
		assert.Equal(t, string(attendance.StatusWaitingApproval), resp.Event.Status)
		require.NotNil(t, resp.Event.Note)
		assert.Equal(t, "doctor appointment", *resp.Event.Note)
	})

	t.Run("journey complete", func(t *testing.T) {
		f := newFixture(t)
		register(t, f, "07:55")
		register(t, f, "17:00")
		resp := register(t, f, "17:30")

		assert.False(t, resp.Allowed)
		assert.Equal(t, string(window.BlockJourneyComplete), resp.Blocked.Reason)
		assert.Len(t, f.events.events, 2)
	})
}

func TestRegister_SplitShift(t *testing.T) {
	f := newFixture(t)
	f.shifts.shifts = []schedule.Shift{
		{WorkScheduleID: scheduleID, DayOfWeek: 1, StartTime: window.MustParseClock("08:00"), EndTime: window.MustParseClock("12:00")},
		{WorkScheduleID: scheduleID, DayOfWeek: 1, StartTime: window.MustParseClock("13:00"), EndTime: window.MustParseClock("17:00")},
	}

	register(t, f, "08:00")
	register(t, f, "12:00")
	resp := register(t, f, "13:15")

	assert.True(t, resp.Allowed)
	assert.Equal(t, 1, resp.ShiftIndex)
	assert.Equal(t, string(window.Late), resp.Classification)
	assert.Equal(t, "13:00", resp.ShiftStart)
}

func TestRegister_RejectedEventsAreIgnored(t *testing.T) {
	f := newFixture(t)
	register(t, f, "08:45")
	f.events.events[0].Status = attendance.StatusRejected

	resp := register(t, f, "08:50")
	assert.Equal(t, string(window.Entry), resp.Kind)
}

func TestRegister_Errors(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("123456"), bcrypt.MinCost)
	require.NoError(t, err)

	tests := []struct {
		name    string
		setup   func(f *fixture)
		ctx     func(t *testing.T) context.Context
		req     attendance.RegisterRequest
		wantErr error
	}{
		{
			name:    "missing company claim",
			ctx:     func(t *testing.T) context.Context { return claimsContext(t, map[string]interface{}{"role": "kiosk"}) },
			req:     attendance.RegisterRequest{EmployeeID: employeeID, Method: "facial"},
			wantErr: user.ErrCompanyIDRequired,
		},
		{
			name:    "unknown employee",
			req:     attendance.RegisterRequest{EmployeeID: otherID, Method: "facial"},
			wantErr: employee.ErrEmployeeNotFound,
		},
		{
			name: "inactive employee",
			setup: func(f *fixture) {
				f.employees.employees[0].EmploymentStatus = employee.EmploymentStatusResigned
			},
			req:     attendance.RegisterRequest{EmployeeID: employeeID, Method: "facial"},
			wantErr: attendance.ErrEmployeeInactive,
		},
		{
			name:    "pin not set",
			req:     attendance.RegisterRequest{EmployeeID: employeeID, Method: "pin", PIN: "123456"},
			wantErr: attendance.ErrPINNotSet,
		},
		{
			name: "wrong pin",
			setup: func(f *fixture) {
				f.employees.employees[0].PINHash = strPtr(string(hash))
			},
			req:     attendance.RegisterRequest{EmployeeID: employeeID, Method: "pin", PIN: "654321"},
			wantErr: attendance.ErrInvalidPIN,
		},
		{
			name: "no schedule",
			setup: func(f *fixture) {
				f.employees.employees[0].WorkScheduleID = nil
			},
			req:     attendance.RegisterRequest{EmployeeID: employeeID, Method: "facial"},
			wantErr: attendance.ErrNoScheduleAssigned,
		},
		{
			name: "overlapping shifts",
			setup: func(f *fixture) {
				f.shifts.shifts = []schedule.Shift{
					{DayOfWeek: 1, StartTime: window.MustParseClock("08:00"), EndTime: window.MustParseClock("12:00")},
					{DayOfWeek: 1, StartTime: window.MustParseClock("11:00"), EndTime: window.MustParseClock("15:00")},
				}
			},
			req:     attendance.RegisterRequest{EmployeeID: employeeID, Method: "facial"},
			wantErr: window.ErrInvalidSchedule,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			if tt.setup != nil {
				tt.setup(f)
			}
			ctx := kioskContext(t)
			if tt.ctx != nil {
				ctx = tt.ctx(t)
			}

			_, err := f.svc.Register(ctx, tt.req)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, f.events.events)
		})
	}
}

func TestRegister_ConfigurationErrorNamesField(t *testing.T) {
	f := newFixture(t)
	f.shifts.shifts = []schedule.Shift{
		{DayOfWeek: 1, StartTime: window.MustParseClock("17:00"), EndTime: window.MustParseClock("08:00")},
	}

	_, err := f.svc.Register(kioskContext(t), attendance.RegisterRequest{EmployeeID: employeeID, Method: "facial"})

	var cfgErr *window.ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "shifts[0]", cfgErr.Field)
}

func TestRegister_ValidationError(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Register(kioskContext(t), attendance.RegisterRequest{Method: "retina"})

	var verrs validator.ValidationErrors
	require.True(t, errors.As(err, &verrs))
	assert.Len(t, verrs, 2)
	assert.Zero(t, f.tx.calls)
}

func TestRegister_ByCodeWithPIN(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("4321"), bcrypt.MinCost)
	require.NoError(t, err)

	f := newFixture(t)
	f.employees.employees[0].PINHash = strPtr(string(hash))

	resp, err := f.svc.Register(kioskContext(t), attendance.RegisterRequest{
		EmployeeCode: employeeCode,
		Method:       "pin",
		PIN:          "4321",
	})
	require.NoError(t, err)
	assert.True(t, resp.Allowed)
	assert.Equal(t, string(attendance.MethodPIN), resp.Event.Method)
}

func TestRegister_NotifiesSubscribersAndPublisher(t *testing.T) {
	f := newFixture(t)
	feed, cancel := f.hub.Subscribe(companyID)
	defer cancel()

	resp := register(t, f, "08:00")

	select {
	case ev := <-feed:
		assert.Equal(t, EventAttendanceRecorded, ev.Event)
		data, ok := ev.Data.(attendance.EventResponse)
		require.True(t, ok)
		assert.Equal(t, resp.Event.ID, data.ID)
	case <-time.After(time.Second):
		t.Fatal("no event delivered")
	}

	require.Len(t, f.publisher.recorded, 1)
	assert.Equal(t, resp.Event.ID, f.publisher.recorded[0].ID)
}

func TestRegister_PublisherFailureDoesNotFail(t *testing.T) {
	f := newFixture(t)
	f.publisher.err = errors.New("queue unavailable")

	resp := register(t, f, "08:00")
	assert.True(t, resp.Allowed)
	assert.Len(t, f.events.events, 1)
}

func TestRegister_WeekendHasNoShift(t *testing.T) {
	f := newFixture(t)
	f.setNow(at("08:00").AddDate(0, 0, 5))

	resp, err := f.svc.Register(kioskContext(t), attendance.RegisterRequest{EmployeeID: employeeID, Method: "facial"})
	require.NoError(t, err)
	assert.False(t, resp.Allowed)
	assert.Equal(t, string(window.BlockOutsideWindow), resp.Blocked.Reason)
	assert.Equal(t, -1, resp.ShiftIndex)
	assert.Empty(t, resp.ShiftStart)
}

func TestPreview(t *testing.T) {
	f := newFixture(t)

	resp, err := f.svc.Preview(kioskContext(t), attendance.PreviewRequest{
		EmployeeID: employeeID,
		At:         strPtr("2026-10-19T08:25:00+07:00"),
	})
	require.NoError(t, err)

	assert.True(t, resp.Allowed)
	assert.Equal(t, string(window.Late), resp.Classification)
	assert.Equal(t, 25, resp.DeltaMinutes)
	assert.Nil(t, resp.Event)
	assert.Empty(t, f.events.events)
	assert.Empty(t, f.events.locked)
	assert.Zero(t, f.tx.calls)
}

func seedEvent(f *fixture, status attendance.Status, employee string) attendance.Event {
	e, _ := f.events.Create(context.Background(), attendance.Event{
		CompanyID:      companyID,
		EmployeeID:     employee,
		Date:           time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC),
		Kind:           window.Entry,
		Classification: window.Absent,
		RecordedAt:     monday08,
		Method:         attendance.MethodFacial,
		Status:         status,
	})
	return e
}

func TestApproveAttendance(t *testing.T) {
	tests := []struct {
		name    string
		status  attendance.Status
		wantErr error
	}{
		{"waiting approval", attendance.StatusWaitingApproval, nil},
		{"already approved", attendance.StatusApproved, attendance.ErrAttendanceAlreadyProcessed},
		{"already rejected", attendance.StatusRejected, attendance.ErrAttendanceAlreadyProcessed},
		{"recorded", attendance.StatusRecorded, attendance.ErrAttendanceNotPending},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			seeded := seedEvent(f, tt.status, employeeID)

			resp, err := f.svc.ApproveAttendance(managerContext(t), attendance.ApproveAttendanceRequest{
				ID:    seeded.ID,
				Notes: strPtr("medical certificate provided"),
			})
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, f.events.updated)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, string(attendance.StatusApproved), resp.Status)
			require.NotNil(t, resp.ReviewedBy)
			assert.Equal(t, managerID, *resp.ReviewedBy)
			require.NotNil(t, resp.ReviewedAt)
			assert.Equal(t, "medical certificate provided", *resp.Note)
			require.Len(t, f.publisher.reviewed, 1)
		})
	}
}

func TestRejectAttendance(t *testing.T) {
	f := newFixture(t)
	seeded := seedEvent(f, attendance.StatusWaitingApproval, employeeID)

	_, err := f.svc.RejectAttendance(managerContext(t), attendance.RejectAttendanceRequest{ID: seeded.ID})
	var verrs validator.ValidationErrors
	require.True(t, errors.As(err, &verrs))

	resp, err := f.svc.RejectAttendance(managerContext(t), attendance.RejectAttendanceRequest{ID: seeded.ID, Reason: "no proof"})
	require.NoError(t, err)
	assert.Equal(t, string(attendance.StatusRejected), resp.Status)
	require.NotNil(t, resp.RejectionReason)
	assert.Equal(t, "no proof", *resp.RejectionReason)

	_, err = f.svc.ApproveAttendance(managerContext(t), attendance.ApproveAttendanceRequest{ID: seeded.ID})
	assert.ErrorIs(t, err, attendance.ErrAttendanceAlreadyProcessed)
}

func TestGetAttendance(t *testing.T) {
	f := newFixture(t)
	own := seedEvent(f, attendance.StatusRecorded, employeeID)
	other := seedEvent(f, attendance.StatusRecorded, otherID)

	resp, err := f.svc.GetAttendance(employeeContext(t, employeeID), own.ID)
	require.NoError(t, err)
	assert.Equal(t, own.ID, resp.ID)

	_, err = f.svc.GetAttendance(employeeContext(t, employeeID), other.ID)
	assert.ErrorIs(t, err, attendance.ErrUnauthorized)

	_, err = f.svc.GetAttendance(managerContext(t), other.ID)
	assert.NoError(t, err)

	_, err = f.svc.GetAttendance(managerContext(t), "0190a1b2-c3d4-7e5f-8a6b-000000000000")
	assert.ErrorIs(t, err, attendance.ErrAttendanceNotFound)
}

func TestGetMyAttendance(t *testing.T) {
	f := newFixture(t)
	seedEvent(f, attendance.StatusRecorded, employeeID)
	seedEvent(f, attendance.StatusRecorded, employeeID)
	seedEvent(f, attendance.StatusRecorded, otherID)

	resp, err := f.svc.GetMyAttendance(employeeContext(t, employeeID), attendance.MyAttendanceFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), resp.TotalCount)
	assert.Equal(t, 1, resp.Page)
	assert.Equal(t, 20, resp.Limit)
	assert.Equal(t, 1, resp.TotalPages)
	assert.Equal(t, "1-2 of 2 results", resp.Showing)
	assert.Len(t, resp.Attendances, 2)

	_, err = f.svc.GetMyAttendance(managerContext(t), attendance.MyAttendanceFilter{})
	assert.ErrorIs(t, err, user.ErrEmployeeIDRequired)
}

func TestListAttendance_Empty(t *testing.T) {
	f := newFixture(t)

	resp, err := f.svc.ListAttendance(managerContext(t), attendance.AttendanceFilter{})
	require.NoError(t, err)
	assert.Equal(t, "0 results", resp.Showing)
	assert.NotNil(t, resp.Attendances)
}

func TestDeleteAttendance(t *testing.T) {
	f := newFixture(t)
	seeded := seedEvent(f, attendance.StatusRecorded, employeeID)

	require.NoError(t, f.svc.DeleteAttendance(managerContext(t), seeded.ID))
	assert.Empty(t, f.events.events)
	assert.ErrorIs(t, f.svc.DeleteAttendance(managerContext(t), seeded.ID), attendance.ErrAttendanceNotFound)
}
