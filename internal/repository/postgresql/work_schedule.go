package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/hris-attendance/internal/domain/schedule"
	"github.com/cmlabs-hris/hris-attendance/internal/pkg/database"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type workScheduleRepositoryImpl struct {
	db *database.DB
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// Create implements schedule.WorkScheduleRepository.
func (w *workScheduleRepositoryImpl) Create(ctx context.Context, workSchedule schedule.WorkSchedule) (schedule.WorkSchedule, error) {
	q := GetQuerier(ctx, w.db)

	query := `
		INSERT INTO work_schedules (
			id, company_id, name, created_at, updated_at
		) VALUES (
			uuidv7(), $1, $2, NOW(), NOW()
		) RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query, workSchedule.CompanyID, workSchedule.Name).
		Scan(&workSchedule.ID, &workSchedule.CreatedAt, &workSchedule.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return schedule.WorkSchedule{}, schedule.ErrWorkScheduleNameExists
		}
		return schedule.WorkSchedule{}, fmt.Errorf("failed to create work schedule: %w", err)
	}

	workSchedule.Shifts = nil
	return workSchedule, nil
}

// GetByID implements schedule.WorkScheduleRepository. Shifts are loaded.
func (w *workScheduleRepositoryImpl) GetByID(ctx context.Context, id string, companyID string) (schedule.WorkSchedule, error) {
	q := GetQuerier(ctx, w.db)

	query := `
		SELECT id, company_id, name, created_at, updated_at
		FROM work_schedules
		WHERE id = $1 AND company_id = $2 AND deleted_at IS NULL
	`

	var ws schedule.WorkSchedule
	err := q.QueryRow(ctx, query, id, companyID).Scan(
		&ws.ID, &ws.CompanyID, &ws.Name, &ws.CreatedAt, &ws.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return schedule.WorkSchedule{}, schedule.ErrWorkScheduleNotFound
		}
		return schedule.WorkSchedule{}, fmt.Errorf("failed to get work schedule: %w", err)
	}

	ws.Shifts, err = queryShifts(ctx, q, "work_schedule_id = $1", ws.ID)
	if err != nil {
		return schedule.WorkSchedule{}, err
	}
	return ws, nil
}

// GetByCompanyID implements schedule.WorkScheduleRepository.
func (w *workScheduleRepositoryImpl) GetByCompanyID(ctx context.Context, companyID string, filter schedule.WorkScheduleFilter) ([]schedule.WorkSchedule, int64, error) {
	q := GetQuerier(ctx, w.db)

	baseWhere := "company_id = $1 AND deleted_at IS NULL"
	args := []interface{}{companyID}
	argIdx := 2

	if filter.Name != nil && *filter.Name != "" {
		baseWhere += fmt.Sprintf(" AND name ILIKE $%d", argIdx)
		args = append(args, "%"+*filter.Name+"%")
		argIdx++
	}

	var total int64
	if err := q.QueryRow(ctx, "SELECT COUNT(*) FROM work_schedules WHERE "+baseWhere, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count work schedules: %w", err)
	}

	limit := filter.Limit
	if limit == 0 {
		limit = 20
	}
	offset := (filter.Page - 1) * limit

	selectQuery := fmt.Sprintf(`
		SELECT id, company_id, name, created_at, updated_at
		FROM work_schedules
		WHERE %s
		ORDER BY name ASC, id ASC
		LIMIT $%d OFFSET $%d
	`, baseWhere, argIdx, argIdx+1)
	args = append(args, limit, offset)

	rows, err := q.Query(ctx, selectQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query work schedules: %w", err)
	}
	defer rows.Close()

	var schedules []schedule.WorkSchedule
	index := make(map[string]int)
	var ids []string
	for rows.Next() {
		var ws schedule.WorkSchedule
		if err := rows.Scan(&ws.ID, &ws.CompanyID, &ws.Name, &ws.CreatedAt, &ws.UpdatedAt); err != nil {
			return nil, 0, fmt.Errorf("failed to scan work schedule: %w", err)
		}
		index[ws.ID] = len(schedules)
		ids = append(ids, ws.ID)
		schedules = append(schedules, ws)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate work schedules: %w", err)
	}
	rows.Close()

	if len(ids) == 0 {
		return schedules, total, nil
	}

	shifts, err := queryShifts(ctx, q, "work_schedule_id = ANY($1)", ids)
	if err != nil {
		return nil, 0, err
	}
	for _, s := range shifts {
		i := index[s.WorkScheduleID]
		schedules[i].Shifts = append(schedules[i].Shifts, s)
	}

	return schedules, total, nil
}

// SoftDelete implements schedule.WorkScheduleRepository.
func (w *workScheduleRepositoryImpl) SoftDelete(ctx context.Context, id, companyID string) error {
	q := GetQuerier(ctx, w.db)

	query := `
		UPDATE work_schedules
		SET deleted_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND company_id = $2 AND deleted_at IS NULL
	`
	tag, err := q.Exec(ctx, query, id, companyID)
	if err != nil {
		return fmt.Errorf("failed to delete work schedule: %w", err)
	}
	if tag.RowsAffected() != 1 {
		return schedule.ErrWorkScheduleNotFound
	}
	return nil
}

// IsAssigned implements schedule.WorkScheduleRepository.
func (w *workScheduleRepositoryImpl) IsAssigned(ctx context.Context, id, companyID string) (bool, error) {
	q := GetQuerier(ctx, w.db)

	query := `
		SELECT EXISTS (
			SELECT 1 FROM employees
			WHERE work_schedule_id = $1 AND company_id = $2 AND deleted_at IS NULL
		)
	`

	var assigned bool
	if err := q.QueryRow(ctx, query, id, companyID).Scan(&assigned); err != nil {
		return false, fmt.Errorf("failed to check work schedule assignment: %w", err)
	}
	return assigned, nil
}

func NewWorkScheduleRepository(db *database.DB) schedule.WorkScheduleRepository {
	return &workScheduleRepositoryImpl{db: db}
}

type shiftRepositoryImpl struct {
	db *database.DB
}

func queryShifts(ctx context.Context, q database.Querier, where string, args ...interface{}) ([]schedule.Shift, error) {
	query := `
		SELECT id, work_schedule_id, day_of_week, start_minute, end_minute, created_at
		FROM work_schedule_shifts
		WHERE ` + where + `
		ORDER BY day_of_week ASC, start_minute ASC
	`

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query shifts: %w", err)
	}
	defer rows.Close()

	var shifts []schedule.Shift
	for rows.Next() {
		var s schedule.Shift
		if err := rows.Scan(&s.ID, &s.WorkScheduleID, &s.DayOfWeek, &s.StartTime, &s.EndTime, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan shift: %w", err)
		}
		shifts = append(shifts, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate shifts: %w", err)
	}
	return shifts, nil
}

// ReplaceForSchedule implements schedule.ShiftRepository. Callers run it
// inside a transaction so the schedule is never observed half replaced.
func (s *shiftRepositoryImpl) ReplaceForSchedule(ctx context.Context, workScheduleID string, shifts []schedule.Shift) ([]schedule.Shift, error) {
	q := GetQuerier(ctx, s.db)

	if _, err := q.Exec(ctx, "DELETE FROM work_schedule_shifts WHERE work_schedule_id = $1", workScheduleID); err != nil {
		return nil, fmt.Errorf("failed to clear shifts: %w", err)
	}

	query := `
		INSERT INTO work_schedule_shifts (
			id, work_schedule_id, day_of_week, start_minute, end_minute, created_at
		) VALUES (
			uuidv7(), $1, $2, $3, $4, NOW()
		) RETURNING id, created_at
	`

	stored := make([]schedule.Shift, 0, len(shifts))
	for _, shift := range shifts {
		shift.WorkScheduleID = workScheduleID
		err := q.QueryRow(ctx, query, workScheduleID, shift.DayOfWeek, shift.StartTime, shift.EndTime).
			Scan(&shift.ID, &shift.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to insert shift: %w", err)
		}
		stored = append(stored, shift)
	}

	return stored, nil
}

// GetByWorkScheduleID implements schedule.ShiftRepository.
func (s *shiftRepositoryImpl) GetByWorkScheduleID(ctx context.Context, workScheduleID string) ([]schedule.Shift, error) {
	return queryShifts(ctx, GetQuerier(ctx, s.db), "work_schedule_id = $1", workScheduleID)
}

// ShiftsForDay implements schedule.ShiftRepository.
func (s *shiftRepositoryImpl) ShiftsForDay(ctx context.Context, workScheduleID string, dayOfWeek int) ([]schedule.Shift, error) {
	return queryShifts(ctx, GetQuerier(ctx, s.db), "work_schedule_id = $1 AND day_of_week = $2", workScheduleID, dayOfWeek)
}

func NewShiftRepository(db *database.DB) schedule.ShiftRepository {
	return &shiftRepositoryImpl{db: db}
}
