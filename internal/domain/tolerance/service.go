package tolerance

import (
	"context"

	"github.com/cmlabs-hris/hris-attendance/internal/pkg/window"
)

type ToleranceService interface {
	UpsertPolicy(ctx context.Context, req UpsertPolicyRequest) (PolicyResponse, error)
	GetPolicy(ctx context.Context, positionID string) (PolicyResponse, error)
	ListPolicies(ctx context.Context) (ListPolicyResponse, error)
	DeletePolicy(ctx context.Context, positionID string) error
	Resolver
}

// Resolver picks the tolerance that applies to an employee's position.
type Resolver interface {
	// Resolve never fails: a missing position, missing row or lookup error
	// yields the configured defaults.
	Resolve(ctx context.Context, companyID string, positionID *string) window.TolerancePolicy
}
