package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/hris-attendance/internal/domain/tolerance"
	"github.com/cmlabs-hris/hris-attendance/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type policyRepository struct {
	db *database.DB
}

const policyColumns = `
	tp.id, tp.company_id, tp.position_id,
	tp.late_grace_minutes, tp.absence_threshold_minutes, tp.early_arrival_window_minutes,
	tp.departure_grace_before_minutes, tp.departure_grace_after_minutes,
	tp.created_at, tp.updated_at, p.name AS position_name`

func scanPolicy(row pgx.Row) (tolerance.Policy, error) {
	var p tolerance.Policy
	err := row.Scan(
		&p.ID, &p.CompanyID, &p.PositionID,
		&p.LateGraceMinutes, &p.AbsenceThresholdMinutes, &p.EarlyArrivalWindowMinutes,
		&p.DepartureGraceBeforeMinutes, &p.DepartureGraceAfterMinutes,
		&p.CreatedAt, &p.UpdatedAt, &p.PositionName,
	)
	return p, err
}

// Upsert implements tolerance.PolicyRepository.
func (r *policyRepository) Upsert(ctx context.Context, policy tolerance.Policy) (tolerance.Policy, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO tolerance_policies (
			id, company_id, position_id,
			late_grace_minutes, absence_threshold_minutes, early_arrival_window_minutes,
			departure_grace_before_minutes, departure_grace_after_minutes,
			created_at, updated_at
		) VALUES (
			uuidv7(), $1, $2, $3, $4, $5, $6, $7, NOW(), NOW()
		)
		ON CONFLICT (company_id, position_id) DO UPDATE SET
			late_grace_minutes = EXCLUDED.late_grace_minutes,
			absence_threshold_minutes = EXCLUDED.absence_threshold_minutes,
			early_arrival_window_minutes = EXCLUDED.early_arrival_window_minutes,
			departure_grace_before_minutes = EXCLUDED.departure_grace_before_minutes,
			departure_grace_after_minutes = EXCLUDED.departure_grace_after_minutes,
			updated_at = NOW()
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		policy.CompanyID, policy.PositionID,
		policy.LateGraceMinutes, policy.AbsenceThresholdMinutes, policy.EarlyArrivalWindowMinutes,
		policy.DepartureGraceBeforeMinutes, policy.DepartureGraceAfterMinutes,
	).Scan(&policy.ID, &policy.CreatedAt, &policy.UpdatedAt)
	if err != nil {
		return tolerance.Policy{}, fmt.Errorf("failed to upsert tolerance policy: %w", err)
	}
	return policy, nil
}

// GetByPosition implements tolerance.PolicyRepository.
func (r *policyRepository) GetByPosition(ctx context.Context, companyID, positionID string) (tolerance.Policy, error) {
	q := GetQuerier(ctx, r.db)

	query := "SELECT " + policyColumns + `
		FROM tolerance_policies tp
		LEFT JOIN positions p ON p.id = tp.position_id
		WHERE tp.company_id = $1 AND tp.position_id = $2
	`

	policy, err := scanPolicy(q.QueryRow(ctx, query, companyID, positionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return tolerance.Policy{}, tolerance.ErrPolicyNotFound
		}
		return tolerance.Policy{}, fmt.Errorf("failed to get tolerance policy: %w", err)
	}
	return policy, nil
}

// List implements tolerance.PolicyRepository.
func (r *policyRepository) List(ctx context.Context, companyID string) ([]tolerance.Policy, error) {
	q := GetQuerier(ctx, r.db)

	query := "SELECT " + policyColumns + `
		FROM tolerance_policies tp
		LEFT JOIN positions p ON p.id = tp.position_id
		WHERE tp.company_id = $1
		ORDER BY p.name ASC NULLS LAST, tp.position_id ASC
	`

	rows, err := q.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to query tolerance policies: %w", err)
	}
	defer rows.Close()

	var policies []tolerance.Policy
	for rows.Next() {
		policy, err := scanPolicy(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan tolerance policy: %w", err)
		}
		policies = append(policies, policy)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tolerance policies: %w", err)
	}
	return policies, nil
}

// Delete implements tolerance.PolicyRepository.
func (r *policyRepository) Delete(ctx context.Context, companyID, positionID string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, "DELETE FROM tolerance_policies WHERE company_id = $1 AND position_id = $2", companyID, positionID)
	if err != nil {
		return fmt.Errorf("failed to delete tolerance policy: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return tolerance.ErrPolicyNotFound
	}
	return nil
}

func NewPolicyRepository(db *database.DB) tolerance.PolicyRepository {
	return &policyRepository{db: db}
}
