package tolerance

import (
	"time"

	"github.com/cmlabs-hris/hris-attendance/internal/pkg/validator"
	"github.com/cmlabs-hris/hris-attendance/internal/pkg/window"
)

type UpsertPolicyRequest struct {
	PositionID                  string `json:"-"`
	LateGraceMinutes            *int   `json:"late_grace_minutes"`
	AbsenceThresholdMinutes     *int   `json:"absence_threshold_minutes"`
	EarlyArrivalWindowMinutes   *int   `json:"early_arrival_window_minutes"`
	DepartureGraceBeforeMinutes *int   `json:"departure_grace_before_minutes"`
	DepartureGraceAfterMinutes  *int   `json:"departure_grace_after_minutes"`
}

func (r *UpsertPolicyRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.PositionID) {
		errs = append(errs, validator.ValidationError{
			Field:   "position_id",
			Message: "position_id must be a valid UUID",
		})
	}

	required := []struct {
		field string
		value *int
	}{
		{"late_grace_minutes", r.LateGraceMinutes},
		{"absence_threshold_minutes", r.AbsenceThresholdMinutes},
		{"early_arrival_window_minutes", r.EarlyArrivalWindowMinutes},
		{"departure_grace_before_minutes", r.DepartureGraceBeforeMinutes},
		{"departure_grace_after_minutes", r.DepartureGraceAfterMinutes},
	}
	for _, f := range required {
		if f.value == nil {
			errs = append(errs, validator.ValidationError{
				Field:   f.field,
				Message: f.field + " is required",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ToWindow must only be called after Validate.
func (r *UpsertPolicyRequest) ToWindow() window.TolerancePolicy {
	return window.TolerancePolicy{
		LateGraceMinutes:            *r.LateGraceMinutes,
		AbsenceThresholdMinutes:     *r.AbsenceThresholdMinutes,
		EarlyArrivalWindowMinutes:   *r.EarlyArrivalWindowMinutes,
		DepartureGraceBeforeMinutes: *r.DepartureGraceBeforeMinutes,
		DepartureGraceAfterMinutes:  *r.DepartureGraceAfterMinutes,
	}
}

type PolicyResponse struct {
	ID                          string  `json:"id,omitempty"`
	PositionID                  string  `json:"position_id,omitempty"`
	PositionName                *string `json:"position_name,omitempty"`
	LateGraceMinutes            int     `json:"late_grace_minutes"`
	AbsenceThresholdMinutes     int     `json:"absence_threshold_minutes"`
	EarlyArrivalWindowMinutes   int     `json:"early_arrival_window_minutes"`
	DepartureGraceBeforeMinutes int     `json:"departure_grace_before_minutes"`
	DepartureGraceAfterMinutes  int     `json:"departure_grace_after_minutes"`
	IsDefault                   bool    `json:"is_default"`
	UpdatedAt                   string  `json:"updated_at,omitempty"`
}

func NewPolicyResponse(p Policy) PolicyResponse {
	return PolicyResponse{
		ID:                          p.ID,
		PositionID:                  p.PositionID,
		PositionName:                p.PositionName,
		LateGraceMinutes:            p.LateGraceMinutes,
		AbsenceThresholdMinutes:     p.AbsenceThresholdMinutes,
		EarlyArrivalWindowMinutes:   p.EarlyArrivalWindowMinutes,
		DepartureGraceBeforeMinutes: p.DepartureGraceBeforeMinutes,
		DepartureGraceAfterMinutes:  p.DepartureGraceAfterMinutes,
		UpdatedAt:                   p.UpdatedAt.Format(time.RFC3339),
	}
}

type ListPolicyResponse struct {
	Defaults PolicyResponse   `json:"defaults"`
	Policies []PolicyResponse `json:"policies"`
}
