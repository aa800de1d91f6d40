package schedule

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/cmlabs-hris/hris-attendance/internal/domain/schedule"
	"github.com/cmlabs-hris/hris-attendance/internal/domain/user"
	"github.com/cmlabs-hris/hris-attendance/internal/pkg/database"
	"github.com/go-chi/jwtauth/v5"
)

type scheduleServiceImpl struct {
	tx               database.Transactor
	workScheduleRepo schedule.WorkScheduleRepository
	shiftRepo        schedule.ShiftRepository
}

func companyIDFromContext(ctx context.Context) (string, error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to extract claims from context: %w", err)
	}

	companyID, ok := claims["company_id"].(string)
	if !ok || companyID == "" {
		return "", user.ErrCompanyIDRequired
	}
	return companyID, nil
}

// CreateWorkSchedule implements schedule.ScheduleService.
func (s *scheduleServiceImpl) CreateWorkSchedule(ctx context.Context, req schedule.CreateWorkScheduleRequest) (schedule.WorkScheduleResponse, error) {
	if err := req.Validate(); err != nil {
		return schedule.WorkScheduleResponse{}, err
	}

	companyID, err := companyIDFromContext(ctx)
	if err != nil {
		return schedule.WorkScheduleResponse{}, err
	}

	shifts, err := schedule.ToShifts("", req.Shifts)
	if err != nil {
		return schedule.WorkScheduleResponse{}, err
	}

	ws := schedule.WorkSchedule{
		CompanyID: companyID,
		Name:      req.Name,
		Shifts:    shifts,
	}
	if err := ws.Validate(); err != nil {
		return schedule.WorkScheduleResponse{}, err
	}

	var created schedule.WorkSchedule
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		created, err = s.workScheduleRepo.Create(ctx, ws)
		if err != nil {
			if errors.Is(err, schedule.ErrWorkScheduleNameExists) {
				return err
			}
			return fmt.Errorf("failed to create work schedule: %w", err)
		}

		created.Shifts, err = s.shiftRepo.ReplaceForSchedule(ctx, created.ID, shifts)
		if err != nil {
			return fmt.Errorf("failed to create shifts: %w", err)
		}
		return nil
	})
	if err != nil {
		return schedule.WorkScheduleResponse{}, err
	}

	return mapWorkScheduleToResponse(created), nil
}

// GetWorkSchedule implements schedule.ScheduleService.
func (s *scheduleServiceImpl) GetWorkSchedule(ctx context.Context, id string) (schedule.WorkScheduleResponse, error) {
	companyID, err := companyIDFromContext(ctx)
	if err != nil {
		return schedule.WorkScheduleResponse{}, err
	}

	ws, err := s.workScheduleRepo.GetByID(ctx, id, companyID)
	if err != nil {
		if errors.Is(err, schedule.ErrWorkScheduleNotFound) {
			return schedule.WorkScheduleResponse{}, err
		}
		return schedule.WorkScheduleResponse{}, fmt.Errorf("failed to get work schedule: %w", err)
	}

	return mapWorkScheduleToResponse(ws), nil
}

// ListWorkSchedules implements schedule.ScheduleService.
func (s *scheduleServiceImpl) ListWorkSchedules(ctx context.Context, filter schedule.WorkScheduleFilter) (schedule.ListWorkScheduleResponse, error) {
	if err := filter.Validate(); err != nil {
		return schedule.ListWorkScheduleResponse{}, err
	}

	companyID, err := companyIDFromContext(ctx)
	if err != nil {
		return schedule.ListWorkScheduleResponse{}, err
	}

	workSchedules, totalCount, err := s.workScheduleRepo.GetByCompanyID(ctx, companyID, filter)
	if err != nil {
		return schedule.ListWorkScheduleResponse{}, fmt.Errorf("failed to list work schedules: %w", err)
	}

	responses := make([]schedule.WorkScheduleResponse, 0, len(workSchedules))
	for _, ws := range workSchedules {
		responses = append(responses, mapWorkScheduleToResponse(ws))
	}

	totalPages := int(math.Ceil(float64(totalCount) / float64(filter.Limit)))

	start := (filter.Page-1)*filter.Limit + 1
	end := start + len(responses) - 1
	if end > int(totalCount) {
		end = int(totalCount)
	}

	showing := fmt.Sprintf("%d-%d of %d results", start, end, totalCount)
	if totalCount == 0 {
		showing = "0 results"
	}

	return schedule.ListWorkScheduleResponse{
		TotalCount:    totalCount,
		Page:          filter.Page,
		Limit:         filter.Limit,
		TotalPages:    totalPages,
		Showing:       showing,
		WorkSchedules: responses,
	}, nil
}

// ReplaceShifts implements schedule.ScheduleService. The whole week is
// replaced so that every weekday is validated as one unit.
func (s *scheduleServiceImpl) ReplaceShifts(ctx context.Context, req schedule.ReplaceShiftsRequest) (schedule.WorkScheduleResponse, error) {
	if err := req.Validate(); err != nil {
		return schedule.WorkScheduleResponse{}, err
	}

	companyID, err := companyIDFromContext(ctx)
	if err != nil {
		return schedule.WorkScheduleResponse{}, err
	}

	shifts, err := schedule.ToShifts(req.ID, req.Shifts)
	if err != nil {
		return schedule.WorkScheduleResponse{}, err
	}
	if err := (schedule.WorkSchedule{Shifts: shifts}).Validate(); err != nil {
		return schedule.WorkScheduleResponse{}, err
	}

	var ws schedule.WorkSchedule
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		ws, err = s.workScheduleRepo.GetByID(ctx, req.ID, companyID)
		if err != nil {
			if errors.Is(err, schedule.ErrWorkScheduleNotFound) {
				return err
			}
			return fmt.Errorf("failed to get work schedule: %w", err)
		}

		ws.Shifts, err = s.shiftRepo.ReplaceForSchedule(ctx, ws.ID, shifts)
		if err != nil {
			return fmt.Errorf("failed to replace shifts: %w", err)
		}
		return nil
	})
	if err != nil {
		return schedule.WorkScheduleResponse{}, err
	}

	return mapWorkScheduleToResponse(ws), nil
}

// DeleteWorkSchedule implements schedule.ScheduleService.
func (s *scheduleServiceImpl) DeleteWorkSchedule(ctx context.Context, id string) error {
	companyID, err := companyIDFromContext(ctx)
	if err != nil {
		return err
	}

	assigned, err := s.workScheduleRepo.IsAssigned(ctx, id, companyID)
	if err != nil {
		return fmt.Errorf("failed to check schedule assignment: %w", err)
	}
	if assigned {
		return schedule.ErrWorkScheduleInUse
	}

	if err := s.workScheduleRepo.SoftDelete(ctx, id, companyID); err != nil {
		if errors.Is(err, schedule.ErrWorkScheduleNotFound) {
			return err
		}
		return fmt.Errorf("failed to delete work schedule: %w", err)
	}
	return nil
}

func mapWorkScheduleToResponse(ws schedule.WorkSchedule) schedule.WorkScheduleResponse {
	shifts := make([]schedule.ShiftResponse, 0, len(ws.Shifts))
	for _, sh := range ws.Shifts {
		shifts = append(shifts, schedule.ShiftResponse{
			ID:        sh.ID,
			DayOfWeek: sh.DayOfWeek,
			DayName:   schedule.DayName(sh.DayOfWeek),
			StartTime: sh.StartTime.String(),
			EndTime:   sh.EndTime.String(),
		})
	}

	return schedule.WorkScheduleResponse{
		ID:        ws.ID,
		CompanyID: ws.CompanyID,
		Name:      ws.Name,
		Shifts:    shifts,
		CreatedAt: ws.CreatedAt.Format(time.RFC3339),
		UpdatedAt: ws.UpdatedAt.Format(time.RFC3339),
	}
}

func NewScheduleService(
	tx database.Transactor,
	workScheduleRepo schedule.WorkScheduleRepository,
	shiftRepo schedule.ShiftRepository,
) schedule.ScheduleService {
	return &scheduleServiceImpl{
		tx:               tx,
		workScheduleRepo: workScheduleRepo,
		shiftRepo:        shiftRepo,
	}
}
