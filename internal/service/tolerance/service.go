package tolerance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/hris-attendance/internal/domain/tolerance"
	"github.com/cmlabs-hris/hris-attendance/internal/domain/user"
	"github.com/cmlabs-hris/hris-attendance/internal/pkg/window"
	"github.com/go-chi/jwtauth/v5"
)

type ToleranceServiceImpl struct {
	tolerance.PolicyRepository
	defaults window.TolerancePolicy
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

// UpsertPolicy implements tolerance.ToleranceService.
func (s *ToleranceServiceImpl) UpsertPolicy(ctx context.Context, req tolerance.UpsertPolicyRequest) (tolerance.PolicyResponse, error) {
	if err := req.Validate(); err != nil {
		return tolerance.PolicyResponse{}, err
	}

	companyID, err := companyIDFromContext(ctx)
	if err != nil {
		return tolerance.PolicyResponse{}, err
	}

	values := req.ToWindow()
	if err := values.Validate(); err != nil {
		return tolerance.PolicyResponse{}, err
	}

	saved, err := s.PolicyRepository.Upsert(ctx, tolerance.Policy{
		CompanyID:                   companyID,
		PositionID:                  req.PositionID,
		LateGraceMinutes:            values.LateGraceMinutes,
		AbsenceThresholdMinutes:     values.AbsenceThresholdMinutes,
		EarlyArrivalWindowMinutes:   values.EarlyArrivalWindowMinutes,
		DepartureGraceBeforeMinutes: values.DepartureGraceBeforeMinutes,
		DepartureGraceAfterMinutes:  values.DepartureGraceAfterMinutes,
	})
	if err != nil {
		return tolerance.PolicyResponse{}, fmt.Errorf("failed to save tolerance policy: %w", err)
	}

	return tolerance.NewPolicyResponse(saved), nil
}

// GetPolicy implements tolerance.ToleranceService. A position without a row
// reports the defaults.
func (s *ToleranceServiceImpl) GetPolicy(ctx context.Context, positionID string) (tolerance.PolicyResponse, error) {
	companyID, err := companyIDFromContext(ctx)
	if err != nil {
		return tolerance.PolicyResponse{}, err
	}

	policy, err := s.PolicyRepository.GetByPosition(ctx, companyID, positionID)
	if err != nil {
		if errors.Is(err, tolerance.ErrPolicyNotFound) {
			resp := s.defaultsResponse()
			resp.PositionID = positionID
			return resp, nil
		}
		return tolerance.PolicyResponse{}, fmt.Errorf("failed to get tolerance policy: %w", err)
	}

	return tolerance.NewPolicyResponse(policy), nil
}

// ListPolicies implements tolerance.ToleranceService.
func (s *ToleranceServiceImpl) ListPolicies(ctx context.Context) (tolerance.ListPolicyResponse, error) {
	companyID, err := companyIDFromContext(ctx)
	if err != nil {
		return tolerance.ListPolicyResponse{}, err
	}

	policies, err := s.PolicyRepository.List(ctx, companyID)
	if err != nil {
		return tolerance.ListPolicyResponse{}, fmt.Errorf("failed to list tolerance policies: %w", err)
	}

	resp := tolerance.ListPolicyResponse{
		Defaults: s.defaultsResponse(),
		Policies: make([]tolerance.PolicyResponse, 0, len(policies)),
	}
	for _, p := range policies {
		resp.Policies = append(resp.Policies, tolerance.NewPolicyResponse(p))
	}
	return resp, nil
}

// DeletePolicy implements tolerance.ToleranceService.
func (s *ToleranceServiceImpl) DeletePolicy(ctx context.Context, positionID string) error {
	companyID, err := companyIDFromContext(ctx)
	if err != nil {
		return err
	}

	if err := s.PolicyRepository.Delete(ctx, companyID, positionID); err != nil {
		if errors.Is(err, tolerance.ErrPolicyNotFound) {
			return err
		}
		return fmt.Errorf("failed to delete tolerance policy: %w", err)
	}
	return nil
}

// Resolve implements tolerance.Resolver.
func (s *ToleranceServiceImpl) Resolve(ctx context.Context, companyID string, positionID *string) window.TolerancePolicy {
	if positionID == nil || *positionID == "" {
		return s.defaults
	}

	policy, err := s.PolicyRepository.GetByPosition(ctx, companyID, *positionID)
	if err != nil {
		if !errors.Is(err, tolerance.ErrPolicyNotFound) {
			slog.WarnContext(ctx, "Tolerance lookup failed, using defaults",
				"company_id", companyID, "position_id", *positionID, "error", err)
		}
		return s.defaults
	}

	return policy.ToWindow()
}

func (s *ToleranceServiceImpl) defaultsResponse() tolerance.PolicyResponse {
	return tolerance.PolicyResponse{
		LateGraceMinutes:            s.defaults.LateGraceMinutes,
		AbsenceThresholdMinutes:     s.defaults.AbsenceThresholdMinutes,
		EarlyArrivalWindowMinutes:   s.defaults.EarlyArrivalWindowMinutes,
		DepartureGraceBeforeMinutes: s.defaults.DepartureGraceBeforeMinutes,
		DepartureGraceAfterMinutes:  s.defaults.DepartureGraceAfterMinutes,
		IsDefault:                   true,
	}
}

func NewToleranceService(policyRepo tolerance.PolicyRepository, defaults window.TolerancePolicy) tolerance.ToleranceService {
	return &ToleranceServiceImpl{
		PolicyRepository: policyRepo,
		defaults:         defaults,
	}
}
