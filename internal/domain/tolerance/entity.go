package tolerance

import (
	"time"

	"github.com/cmlabs-hris/hris-attendance/internal/pkg/window"
)

// Policy is the tolerance configuration of one position within a company.
type Policy struct {
	ID                          string
	CompanyID                   string
	PositionID                  string
	LateGraceMinutes            int
	AbsenceThresholdMinutes     int
	EarlyArrivalWindowMinutes   int
	DepartureGraceBeforeMinutes int
	DepartureGraceAfterMinutes  int
	CreatedAt                   time.Time
	UpdatedAt                   time.Time

	// Joined
	PositionName *string
}

func (p Policy) ToWindow() window.TolerancePolicy {
	return window.TolerancePolicy{
		LateGraceMinutes:            p.LateGraceMinutes,
		AbsenceThresholdMinutes:     p.AbsenceThresholdMinutes,
		EarlyArrivalWindowMinutes:   p.EarlyArrivalWindowMinutes,
		DepartureGraceBeforeMinutes: p.DepartureGraceBeforeMinutes,
		DepartureGraceAfterMinutes:  p.DepartureGraceAfterMinutes,
	}
}
