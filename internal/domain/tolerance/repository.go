package tolerance

import "context"

type PolicyRepository interface {
	// Upsert inserts or replaces the policy of (company, position).
	Upsert(ctx context.Context, policy Policy) (Policy, error)
	GetByPosition(ctx context.Context, companyID, positionID string) (Policy, error)
	List(ctx context.Context, companyID string) ([]Policy, error)
	Delete(ctx context.Context, companyID, positionID string) error
}
