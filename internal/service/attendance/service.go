package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/cmlabs-hris/hris-attendance/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance/internal/domain/employee"
	"github.com/cmlabs-hris/hris-attendance/internal/domain/schedule"
	"github.com/cmlabs-hris/hris-attendance/internal/domain/tolerance"
	"github.com/cmlabs-hris/hris-attendance/internal/domain/user"
	"github.com/cmlabs-hris/hris-attendance/internal/pkg/database"
	"github.com/cmlabs-hris/hris-attendance/internal/pkg/sse"
	"github.com/cmlabs-hris/hris-attendance/internal/pkg/telemetry"
	"github.com/cmlabs-hris/hris-attendance/internal/pkg/validator"
	"github.com/cmlabs-hris/hris-attendance/internal/pkg/window"
	"github.com/go-chi/jwtauth/v5"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/crypto/bcrypt"
)

const (
	EventAttendanceRecorded = "attendance.recorded"
	EventAttendanceReviewed = "attendance.reviewed"
)

type AttendanceServiceImpl struct {
	tx             database.Transactor
	attendanceRepo attendance.AttendanceRepository
	employeeRepo   employee.EmployeeRepository
	shiftRepo      schedule.ShiftRepository
	tolerance      tolerance.Resolver
	evaluator      *window.Evaluator
	hub            *sse.Hub
	publisher      attendance.EventPublisher
	now            func() time.Time
}

type requestClaims struct {
	companyID  string
	userID     string
	employeeID string
	deviceID   *string
	role       user.Role
}

func claimsFromContext(ctx context.Context) (requestClaims, error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return requestClaims{}, fmt.Errorf("failed to extract claims from context: %w", err)
	}

	var rc requestClaims
	var ok bool
	if rc.companyID, ok = claims["company_id"].(string); !ok || rc.companyID == "" {
		return requestClaims{}, user.ErrCompanyIDRequired
	}
	rc.userID, _ = claims["user_id"].(string)
	rc.employeeID, _ = claims["employee_id"].(string)
	if deviceID, ok := claims["device_id"].(string); ok && deviceID != "" {
		rc.deviceID = &deviceID
	}
	role, _ := claims["role"].(string)
	rc.role = user.Role(role)

	return rc, nil
}

// evaluationInput is everything the evaluator needs for one employee and day.
type evaluationInput struct {
	schedule window.Schedule
	policy   window.TolerancePolicy
	state    window.DailyState
}

// Register implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) Register(ctx context.Context, req attendance.RegisterRequest) (attendance.RegistrationResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.RegistrationResponse{}, err
	}

	ctx, span := telemetry.Tracer().Start(ctx, "attendance.Register")
	defer span.End()

	rc, err := claimsFromContext(ctx)
	if err != nil {
		return attendance.RegistrationResponse{}, err
	}

	emp, err := a.resolveEmployee(ctx, rc.companyID, req.EmployeeID, req.EmployeeCode)
	if err != nil {
		return attendance.RegistrationResponse{}, err
	}
	span.SetAttributes(attribute.String("employee.id", emp.ID), attribute.String("attendance.method", req.Method))

	if attendance.Method(req.Method) == attendance.MethodPIN {
		if err := verifyPIN(emp, req.PIN); err != nil {
			return attendance.RegistrationResponse{}, err
		}
	}

	nowUTC := a.now().UTC()
	local := nowUTC.In(emp.Location())

	var resp attendance.RegistrationResponse
	var committed *attendance.Event
	err = a.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := a.attendanceRepo.LockEmployee(ctx, emp.ID); err != nil {
			return fmt.Errorf("failed to lock employee: %w", err)
		}

		in, err := a.loadInput(ctx, emp, local)
		if err != nil {
			return err
		}

		decision := a.evaluator.Evaluate(in.schedule, in.policy, in.state, window.MinuteOf(local))
		if isEarlyExit(decision) && req.HasEarlyExitReason() {
			decision.Allowed = true
			decision.Classification = window.EarlyDeparture
			decision.Blocked = nil
		}

		resp = newRegistrationResponse(decision, local, emp)
		if !decision.Allowed {
			return nil
		}

		note := req.Note
		if decision.Classification == window.EarlyDeparture {
			note = req.EarlyExitReason
		}

		created, err := a.attendanceRepo.Create(ctx, attendance.Event{
			CompanyID:      emp.CompanyID,
			EmployeeID:     emp.ID,
			Date:           attendance.WorkDate(local),
			Kind:           decision.Kind,
			Classification: decision.Classification,
			ShiftIndex:     decision.ShiftIndex,
			ShiftStart:     decision.Shift.Start,
			ShiftEnd:       decision.Shift.End,
			RecordedAt:     nowUTC,
			MinuteOfDay:    window.MinuteOf(local),
			DeltaMinutes:   decision.DeltaMinutes,
			Method:         attendance.Method(req.Method),
			DeviceID:       rc.deviceID,
			Status:         attendance.StatusFor(decision.Classification),
			Note:           note,
		})
		if err != nil {
			return fmt.Errorf("failed to record attendance: %w", err)
		}
		committed = &created
		return nil
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return attendance.RegistrationResponse{}, err
	}

	span.SetAttributes(attribute.Bool("attendance.allowed", resp.Allowed))
	if committed == nil {
		slog.InfoContext(ctx, "Registration blocked",
			"employee_id", emp.ID, "kind", resp.Kind, "reason", resp.Blocked.Reason)
		return resp, nil
	}

	committed.EmployeeName = &emp.FullName
	committed.EmployeeCode = &emp.EmployeeCode
	event := attendance.NewEventResponse(*committed)
	resp.Event = &event
	span.SetAttributes(attribute.String("attendance.classification", event.Classification))

	a.broadcast(EventAttendanceRecorded, event)
	if err := a.publisher.PublishAttendanceRecorded(ctx, event); err != nil {
		slog.WarnContext(ctx, "Failed to publish attendance event", "event_id", event.ID, "error", err)
	}

	return resp, nil
}

// Preview implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) Preview(ctx context.Context, req attendance.PreviewRequest) (attendance.RegistrationResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.RegistrationResponse{}, err
	}

	rc, err := claimsFromContext(ctx)
	if err != nil {
		return attendance.RegistrationResponse{}, err
	}

	emp, err := a.resolveEmployee(ctx, rc.companyID, req.EmployeeID, req.EmployeeCode)
	if err != nil {
		return attendance.RegistrationResponse{}, err
	}

	at := a.now()
	if req.At != nil {
		at, _ = validator.IsValidDateTime(*req.At)
	}
	local := at.In(emp.Location())

	in, err := a.loadInput(ctx, emp, local)
	if err != nil {
		return attendance.RegistrationResponse{}, err
	}

	decision := a.evaluator.Evaluate(in.schedule, in.policy, in.state, window.MinuteOf(local))
	return newRegistrationResponse(decision, local, emp), nil
}

func newRegistrationResponse(d window.Decision, local time.Time, emp employee.Employee) attendance.RegistrationResponse {
	resp := attendance.NewRegistrationResponse(d, local)
	resp.Employee = attendance.RegistrationEmployee{
		ID:           emp.ID,
		EmployeeCode: emp.EmployeeCode,
		FullName:     emp.FullName,
	}
	return resp
}

// isEarlyExit reports an exit refused only because the departure window has
// not opened yet.
func isEarlyExit(d window.Decision) bool {
	return d.Kind == window.Exit && d.Blocked != nil && d.Blocked.Code == window.BlockWaitMinutes
}

func (a *AttendanceServiceImpl) resolveEmployee(ctx context.Context, companyID, employeeID, employeeCode string) (employee.Employee, error) {
	var emp employee.Employee
	var err error
	if employeeID != "" {
		emp, err = a.employeeRepo.GetByID(ctx, employeeID, companyID)
	} else {
		emp, err = a.employeeRepo.GetByEmployeeCode(ctx, companyID, employeeCode)
	}
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return employee.Employee{}, err
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee: %w", err)
	}

	if !emp.IsActive() {
		return employee.Employee{}, attendance.ErrEmployeeInactive
	}
	return emp, nil
}

func verifyPIN(emp employee.Employee, pin string) error {
	if emp.PINHash == nil || *emp.PINHash == "" {
		return attendance.ErrPINNotSet
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*emp.PINHash), []byte(pin)); err != nil {
		return attendance.ErrInvalidPIN
	}
	return nil
}

// loadInput gathers the day's schedule, tolerance and history and validates
// the configuration before anything is evaluated.
func (a *AttendanceServiceImpl) loadInput(ctx context.Context, emp employee.Employee, local time.Time) (evaluationInput, error) {
	if emp.WorkScheduleID == nil || *emp.WorkScheduleID == "" {
		return evaluationInput{}, attendance.ErrNoScheduleAssigned
	}

	shifts, err := a.shiftRepo.ShiftsForDay(ctx, *emp.WorkScheduleID, schedule.DayOfWeek(local))
	if err != nil {
		return evaluationInput{}, fmt.Errorf("failed to get shifts: %w", err)
	}
	sched := schedule.ForDay(shifts)
	if err := sched.Validate(); err != nil {
		return evaluationInput{}, err
	}

	policy := a.tolerance.Resolve(ctx, emp.CompanyID, emp.PositionID)
	if err := policy.Validate(); err != nil {
		return evaluationInput{}, err
	}

	events, err := a.attendanceRepo.ListByEmployeeAndDate(ctx, emp.ID, attendance.WorkDate(local), emp.CompanyID)
	if err != nil {
		return evaluationInput{}, fmt.Errorf("failed to get today's attendance: %w", err)
	}

	return evaluationInput{
		schedule: sched,
		policy:   policy,
		state:    attendance.DailyStateFrom(events),
	}, nil
}

func (a *AttendanceServiceImpl) broadcast(name string, event attendance.EventResponse) {
	if a.hub == nil {
		return
	}
	a.hub.Publish(event.CompanyID, sse.Event{Event: name, Data: event})
}

// GetMyAttendance implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) GetMyAttendance(ctx context.Context, filter attendance.MyAttendanceFilter) (attendance.ListAttendanceResponse, error) {
	if err := filter.Validate(); err != nil {
		return attendance.ListAttendanceResponse{}, err
	}

	rc, err := claimsFromContext(ctx)
	if err != nil {
		return attendance.ListAttendanceResponse{}, err
	}
	if rc.employeeID == "" {
		return attendance.ListAttendanceResponse{}, user.ErrEmployeeIDRequired
	}

	events, totalCount, err := a.attendanceRepo.GetMyAttendance(ctx, rc.employeeID, filter, rc.companyID)
	if err != nil {
		return attendance.ListAttendanceResponse{}, fmt.Errorf("failed to get attendance records: %w", err)
	}

	return newListResponse(events, totalCount, filter.Page, filter.Limit), nil
}

// ListAttendance implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) ListAttendance(ctx context.Context, filter attendance.AttendanceFilter) (attendance.ListAttendanceResponse, error) {
	if err := filter.Validate(); err != nil {
		return attendance.ListAttendanceResponse{}, err
	}

	rc, err := claimsFromContext(ctx)
	if err != nil {
		return attendance.ListAttendanceResponse{}, err
	}

	events, totalCount, err := a.attendanceRepo.List(ctx, filter, rc.companyID)
	if err != nil {
		return attendance.ListAttendanceResponse{}, fmt.Errorf("failed to list attendance records: %w", err)
	}

	return newListResponse(events, totalCount, filter.Page, filter.Limit), nil
}

func newListResponse(events []attendance.Event, totalCount int64, page, limit int) attendance.ListAttendanceResponse {
	responses := make([]attendance.EventResponse, 0, len(events))
	for _, e := range events {
		responses = append(responses, attendance.NewEventResponse(e))
	}

	totalPages := int(math.Ceil(float64(totalCount) / float64(limit)))

	start := (page-1)*limit + 1
	end := start + len(responses) - 1
	if end > int(totalCount) {
		end = int(totalCount)
	}

	showing := fmt.Sprintf("%d-%d of %d results", start, end, totalCount)
	if totalCount == 0 {
		showing = "0 results"
	}

	return attendance.ListAttendanceResponse{
		TotalCount:  totalCount,
		Page:        page,
		Limit:       limit,
		TotalPages:  totalPages,
		Showing:     showing,
		Attendances: responses,
	}
}

// GetAttendance implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) GetAttendance(ctx context.Context, id string) (attendance.EventResponse, error) {
	rc, err := claimsFromContext(ctx)
	if err != nil {
		return attendance.EventResponse{}, err
	}

	event, err := a.getEvent(ctx, id, rc.companyID)
	if err != nil {
		return attendance.EventResponse{}, err
	}

	if !rc.role.IsManager() && event.EmployeeID != rc.employeeID {
		return attendance.EventResponse{}, attendance.ErrUnauthorized
	}

	return attendance.NewEventResponse(event), nil
}

func (a *AttendanceServiceImpl) getEvent(ctx context.Context, id, companyID string) (attendance.Event, error) {
	event, err := a.attendanceRepo.GetByID(ctx, id, companyID)
	if err != nil {
		if errors.Is(err, attendance.ErrAttendanceNotFound) {
			return attendance.Event{}, err
		}
		return attendance.Event{}, fmt.Errorf("failed to get attendance: %w", err)
	}
	return event, nil
}

// ApproveAttendance implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) ApproveAttendance(ctx context.Context, req attendance.ApproveAttendanceRequest) (attendance.EventResponse, error) {
	return a.review(ctx, req.ID, func(event *attendance.Event) {
		event.Status = attendance.StatusApproved
		if req.Notes != nil && *req.Notes != "" {
			event.Note = req.Notes
		}
	})
}

// RejectAttendance implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) RejectAttendance(ctx context.Context, req attendance.RejectAttendanceRequest) (attendance.EventResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.EventResponse{}, err
	}

	return a.review(ctx, req.ID, func(event *attendance.Event) {
		event.Status = attendance.StatusRejected
		event.RejectionReason = &req.Reason
	})
}

// review applies a decision to an event that is waiting for approval.
func (a *AttendanceServiceImpl) review(ctx context.Context, id string, apply func(event *attendance.Event)) (attendance.EventResponse, error) {
	rc, err := claimsFromContext(ctx)
	if err != nil {
		return attendance.EventResponse{}, err
	}

	event, err := a.getEvent(ctx, id, rc.companyID)
	if err != nil {
		return attendance.EventResponse{}, err
	}

	switch event.Status {
	case attendance.StatusApproved, attendance.StatusRejected:
		return attendance.EventResponse{}, attendance.ErrAttendanceAlreadyProcessed
	case attendance.StatusRecorded:
		return attendance.EventResponse{}, attendance.ErrAttendanceNotPending
	}

	reviewedAt := a.now().UTC()
	apply(&event)
	event.ReviewedAt = &reviewedAt
	if rc.userID != "" {
		event.ReviewedBy = &rc.userID
	}

	if err := a.attendanceRepo.UpdateReview(ctx, event); err != nil {
		return attendance.EventResponse{}, fmt.Errorf("failed to update attendance: %w", err)
	}

	resp := attendance.NewEventResponse(event)
	a.broadcast(EventAttendanceReviewed, resp)
	if err := a.publisher.PublishAttendanceReviewed(ctx, resp); err != nil {
		slog.WarnContext(ctx, "Failed to publish review event", "event_id", resp.ID, "error", err)
	}
	return resp, nil
}

// DeleteAttendance implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) DeleteAttendance(ctx context.Context, id string) error {
	rc, err := claimsFromContext(ctx)
	if err != nil {
		return err
	}

	if err := a.attendanceRepo.Delete(ctx, id, rc.companyID); err != nil {
		if errors.Is(err, attendance.ErrAttendanceNotFound) {
			return err
		}
		return fmt.Errorf("failed to delete attendance: %w", err)
	}
	return nil
}

func NewAttendanceService(
	tx database.Transactor,
	attendanceRepo attendance.AttendanceRepository,
	employeeRepo employee.EmployeeRepository,
	shiftRepo schedule.ShiftRepository,
	resolver tolerance.Resolver,
	evaluator *window.Evaluator,
	hub *sse.Hub,
	publisher attendance.EventPublisher,
) attendance.AttendanceService {
	return &AttendanceServiceImpl{
		tx:             tx,
		attendanceRepo: attendanceRepo,
		employeeRepo:   employeeRepo,
		shiftRepo:      shiftRepo,
		tolerance:      resolver,
		evaluator:      evaluator,
		hub:            hub,
		publisher:      publisher,
		now:            time.Now,
	}
}
