package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/hris-attendance/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type attendanceRepository struct {
	db *database.DB
}

const eventColumns = `
	a.id, a.company_id, a.employee_id, a.date, a.kind, a.classification,
	a.shift_index, a.shift_start_minute, a.shift_end_minute,
	a.recorded_at, a.minute_of_day, a.delta_minutes,
	a.method, a.device_id, a.status, a.note,
	a.reviewed_by, a.reviewed_at, a.rejection_reason,
	a.created_at, a.updated_at,
	e.full_name AS employee_name, e.employee_code`

const eventFrom = `
	FROM attendance_events a
	LEFT JOIN employees e ON e.id = a.employee_id`

func scanEvent(row pgx.Row) (attendance.Event, error) {
	var ev attendance.Event
	err := row.Scan(
		&ev.ID, &ev.CompanyID, &ev.EmployeeID, &ev.Date, &ev.Kind, &ev.Classification,
		&ev.ShiftIndex, &ev.ShiftStart, &ev.ShiftEnd,
		&ev.RecordedAt, &ev.MinuteOfDay, &ev.DeltaMinutes,
		&ev.Method, &ev.DeviceID, &ev.Status, &ev.Note,
		&ev.ReviewedBy, &ev.ReviewedAt, &ev.RejectionReason,
		&ev.CreatedAt, &ev.UpdatedAt,
		&ev.EmployeeName, &ev.EmployeeCode,
	)
	return ev, err
}

func collectEvents(rows pgx.Rows) ([]attendance.Event, error) {
	defer rows.Close()

	var events []attendance.Event
	for rows.Next() {
		ev, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance event: %w", err)
		}
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate attendance events: %w", err)
	}
	return events, nil
}

// Create implements attendance.AttendanceRepository.
func (a *attendanceRepository) Create(ctx context.Context, event attendance.Event) (attendance.Event, error) {
	q := GetQuerier(ctx, a.db)

	id, err := uuid.NewV7()
	if err != nil {
		return attendance.Event{}, fmt.Errorf("failed to generate attendance id: %w", err)
	}
	event.ID = id.String()

	query := `
		INSERT INTO attendance_events (
			id, company_id, employee_id, date, kind, classification,
			shift_index, shift_start_minute, shift_end_minute,
			recorded_at, minute_of_day, delta_minutes,
			method, device_id, status, note
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16
		) RETURNING created_at, updated_at
	`

	err = q.QueryRow(ctx, query,
		event.ID,
		event.CompanyID,
		event.EmployeeID,
		event.Date,
		event.Kind,
		event.Classification,
		event.ShiftIndex,
		event.ShiftStart,
		event.ShiftEnd,
		event.RecordedAt,
		event.MinuteOfDay,
		event.DeltaMinutes,
		event.Method,
		event.DeviceID,
		event.Status,
		event.Note,
	).Scan(&event.CreatedAt, &event.UpdatedAt)
	if err != nil {
		return attendance.Event{}, fmt.Errorf("failed to create attendance event: %w", err)
	}

	return event, nil
}

// GetByID implements attendance.AttendanceRepository.
func (a *attendanceRepository) GetByID(ctx context.Context, id string, companyID string) (attendance.Event, error) {
	q := GetQuerier(ctx, a.db)

	query := "SELECT " + eventColumns + eventFrom + `
		WHERE a.id = $1 AND a.company_id = $2
	`

	ev, err := scanEvent(q.QueryRow(ctx, query, id, companyID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Event{}, attendance.ErrAttendanceNotFound
		}
		return attendance.Event{}, fmt.Errorf("failed to get attendance by ID: %w", err)
	}

	return ev, nil
}

// ListByEmployeeAndDate implements attendance.AttendanceRepository.
func (a *attendanceRepository) ListByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time, companyID string) ([]attendance.Event, error) {
	q := GetQuerier(ctx, a.db)

	query := "SELECT " + eventColumns + eventFrom + `
		WHERE a.employee_id = $1
		  AND a.date = $2
		  AND a.company_id = $3
		  AND a.status <> 'rejected'
		ORDER BY a.recorded_at ASC, a.id ASC
	`

	rows, err := q.Query(ctx, query, employeeID, date, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to query daily attendance: %w", err)
	}
	return collectEvents(rows)
}

// LockEmployee implements attendance.AttendanceRepository. The advisory lock
// is released when the transaction ends.
func (a *attendanceRepository) LockEmployee(ctx context.Context, employeeID string) error {
	q := GetQuerier(ctx, a.db)

	if _, err := q.Exec(ctx, "SELECT pg_advisory_xact_lock(hashtext($1))", employeeID); err != nil {
		return fmt.Errorf("failed to acquire employee lock: %w", err)
	}
	return nil
}

// UpdateReview implements attendance.AttendanceRepository.
func (a *attendanceRepository) UpdateReview(ctx context.Context, event attendance.Event) error {
	q := GetQuerier(ctx, a.db)

	query := `
		UPDATE attendance_events
		SET status = $1, note = $2, reviewed_by = $3, reviewed_at = $4,
		    rejection_reason = $5, updated_at = NOW()
		WHERE id = $6 AND company_id = $7
	`

	tag, err := q.Exec(ctx, query,
		event.Status, event.Note, event.ReviewedBy, event.ReviewedAt,
		event.RejectionReason, event.ID, event.CompanyID,
	)
	if err != nil {
		return fmt.Errorf("failed to update attendance review: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return attendance.ErrAttendanceNotFound
	}
	return nil
}

// MarkWaitingApproval implements attendance.AttendanceRepository.
func (a *attendanceRepository) MarkWaitingApproval(ctx context.Context, id string, companyID string, note string) error {
	q := GetQuerier(ctx, a.db)

	query := `
		UPDATE attendance_events
		SET status = 'waiting_approval', note = $1, updated_at = NOW()
		WHERE id = $2 AND company_id = $3 AND status = 'recorded'
	`

	if _, err := q.Exec(ctx, query, note, id, companyID); err != nil {
		return fmt.Errorf("failed to flag attendance: %w", err)
	}
	return nil
}

// eventQuery accumulates the WHERE clause of a listing.
type eventQuery struct {
	where []string
	args  []interface{}
}

func (e *eventQuery) add(cond string, arg interface{}) {
	e.args = append(e.args, arg)
	e.where = append(e.where, fmt.Sprintf(cond, len(e.args)))
}

func (e *eventQuery) addOptional(cond string, arg *string) {
	if arg != nil && *arg != "" {
		e.add(cond, *arg)
	}
}

var eventSortColumns = map[string]string{
	"recorded_at":   "a.recorded_at",
	"date":          "a.date",
	"employee_name": "e.full_name",
	"status":        "a.status",
}

func (a *attendanceRepository) list(ctx context.Context, eq eventQuery, sortBy, sortOrder string, page, limit int) ([]attendance.Event, int64, error) {
	q := GetQuerier(ctx, a.db)
	where := strings.Join(eq.where, " AND ")

	countQuery := "SELECT COUNT(*)" + eventFrom + " WHERE " + where
	var total int64
	if err := q.QueryRow(ctx, countQuery, eq.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count attendance events: %w", err)
	}

	orderBy, ok := eventSortColumns[sortBy]
	if !ok {
		orderBy = "a.recorded_at"
	}
	direction := "DESC"
	if strings.ToLower(sortOrder) == "asc" {
		direction = "ASC"
	}

	if limit == 0 {
		limit = 20
	}
	offset := (page - 1) * limit
	args := append(eq.args, limit, offset)

	selectQuery := fmt.Sprintf("SELECT %s %s WHERE %s ORDER BY %s %s, a.id %s LIMIT $%d OFFSET $%d",
		eventColumns, eventFrom, where, orderBy, direction, direction, len(eq.args)+1, len(eq.args)+2)

	rows, err := q.Query(ctx, selectQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query attendance events: %w", err)
	}
	events, err := collectEvents(rows)
	if err != nil {
		return nil, 0, err
	}
	return events, total, nil
}

// List implements attendance.AttendanceRepository.
func (a *attendanceRepository) List(ctx context.Context, filter attendance.AttendanceFilter, companyID string) ([]attendance.Event, int64, error) {
	var eq eventQuery
	eq.add("a.company_id = $%d", companyID)
	eq.addOptional("a.employee_id = $%d", filter.EmployeeID)
	if filter.EmployeeName != nil && *filter.EmployeeName != "" {
		eq.add("e.full_name ILIKE $%d", "%"+*filter.EmployeeName+"%")
	}
	eq.addOptional("a.date = $%d::date", filter.Date)
	eq.addOptional("a.date >= $%d::date", filter.StartDate)
	eq.addOptional("a.date <= $%d::date", filter.EndDate)
	eq.addOptional("a.status = $%d", filter.Status)
	eq.addOptional("a.kind = $%d", filter.Kind)
	eq.addOptional("a.classification = $%d", filter.Classification)

	return a.list(ctx, eq, filter.SortBy, filter.SortOrder, filter.Page, filter.Limit)
}

// GetMyAttendance implements attendance.AttendanceRepository.
func (a *attendanceRepository) GetMyAttendance(ctx context.Context, employeeID string, filter attendance.MyAttendanceFilter, companyID string) ([]attendance.Event, int64, error) {
	var eq eventQuery
	eq.add("a.employee_id = $%d", employeeID)
	eq.add("a.company_id = $%d", companyID)
	eq.addOptional("a.date = $%d::date", filter.Date)
	eq.addOptional("a.date >= $%d::date", filter.StartDate)
	eq.addOptional("a.date <= $%d::date", filter.EndDate)
	eq.addOptional("a.status = $%d", filter.Status)

	return a.list(ctx, eq, filter.SortBy, filter.SortOrder, filter.Page, filter.Limit)
}

// Delete implements attendance.AttendanceRepository.
func (a *attendanceRepository) Delete(ctx context.Context, id string, companyID string) error {
	q := GetQuerier(ctx, a.db)

	tag, err := q.Exec(ctx, "DELETE FROM attendance_events WHERE id = $1 AND company_id = $2", id, companyID)
	if err != nil {
		return fmt.Errorf("failed to delete attendance event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return attendance.ErrAttendanceNotFound
	}
	return nil
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepository{db: db}
}

type missedShiftRepository struct {
	db *database.DB
}

// BulkCreate implements attendance.MissedShiftRepository using a single
// multi-row insert.
func (m *missedShiftRepository) BulkCreate(ctx context.Context, missed []attendance.MissedShift) (int64, error) {
	if len(missed) == 0 {
		return 0, nil
	}
	q := GetQuerier(ctx, m.db)

	values := make([]string, 0, len(missed))
	args := make([]interface{}, 0, len(missed)*7)
	for i, ms := range missed {
		id, err := uuid.NewV7()
		if err != nil {
			return 0, fmt.Errorf("failed to generate missed shift id: %w", err)
		}
		n := i * 7
		values = append(values, fmt.Sprintf("($%d, $%d, $%d, $%d, $%d, $%d, $%d)", n+1, n+2, n+3, n+4, n+5, n+6, n+7))
		args = append(args, id.String(), ms.CompanyID, ms.EmployeeID, ms.Date, ms.ShiftIndex, ms.ShiftStart, ms.ShiftEnd)
	}

	query := `
		INSERT INTO attendance_missed_shifts (
			id, company_id, employee_id, date, shift_index, shift_start_minute, shift_end_minute
		) VALUES ` + strings.Join(values, ", ") + `
		ON CONFLICT (employee_id, date, shift_index) DO NOTHING
	`

	tag, err := q.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to insert missed shifts: %w", err)
	}
	return tag.RowsAffected(), nil
}

func NewMissedShiftRepository(db *database.DB) attendance.MissedShiftRepository {
	return &missedShiftRepository{db: db}
}
