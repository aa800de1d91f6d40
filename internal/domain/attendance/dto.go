package attendance

import (
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/hris-attendance/internal/pkg/validator"
	"github.com/cmlabs-hris/hris-attendance/internal/pkg/window"
)

// ========================================
// REGISTRATION DTOs
// ========================================

// RegisterRequest is sent by a kiosk once it has identified the employee.
// Either EmployeeID or EmployeeCode is required.
type RegisterRequest struct {
	EmployeeID      string  `json:"employee_id,omitempty"`
	EmployeeCode    string  `json:"employee_code,omitempty"`
	Method          string  `json:"method"`
	PIN             string  `json:"pin,omitempty"`
	EarlyExitReason *string `json:"early_exit_reason,omitempty"`
	Note            *string `json:"note,omitempty"`
}

func (r *RegisterRequest) Validate() error {
	errs := validateEmployeeRef(r.EmployeeID, r.EmployeeCode)

	if !validator.IsInSlice(r.Method, MethodValues) {
		errs = append(errs, validator.ValidationError{
			Field:   "method",
			Message: "method must be one of: " + strings.Join(MethodValues, ", "),
		})
	}
	if Method(r.Method) == MethodPIN && !validator.IsValidPIN(r.PIN) {
		errs = append(errs, validator.ValidationError{
			Field:   "pin",
			Message: "pin must be 4 to 6 digits",
		})
	}
	if r.EarlyExitReason != nil && len(*r.EarlyExitReason) > 500 {
		errs = append(errs, validator.ValidationError{
			Field:   "early_exit_reason",
			Message: "early_exit_reason must not exceed 500 characters",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// HasEarlyExitReason reports whether the employee justified leaving early.
func (r *RegisterRequest) HasEarlyExitReason() bool {
	return r.EarlyExitReason != nil && !validator.IsEmpty(*r.EarlyExitReason)
}

// PreviewRequest asks what a registration would produce. At defaults to now.
type PreviewRequest struct {
	EmployeeID   string  `json:"employee_id,omitempty"`
	EmployeeCode string  `json:"employee_code,omitempty"`
	At           *string `json:"at,omitempty"` // RFC3339
}

func (r *PreviewRequest) Validate() error {
	errs := validateEmployeeRef(r.EmployeeID, r.EmployeeCode)

	if r.At != nil {
		if _, ok := validator.IsValidDateTime(*r.At); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "at",
				Message: "at must be an RFC3339 timestamp",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func validateEmployeeRef(id, code string) validator.ValidationErrors {
	var errs validator.ValidationErrors

	switch {
	case validator.IsEmpty(id) && validator.IsEmpty(code):
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id or employee_code is required",
		})
	case !validator.IsEmpty(id) && !validator.IsValidUUID(id):
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id must be a valid UUID",
		})
	case validator.IsEmpty(id) && !validator.IsValidEmployeeCode(code):
		errs = append(errs, validator.ValidationError{
			Field:   "employee_code",
			Message: "employee_code must be in 0000-0000 format",
		})
	}

	return errs
}

type BlockedResponse struct {
	Reason      string `json:"reason"`
	WaitMinutes int    `json:"wait_minutes,omitempty"`
	Message     string `json:"message"`
}

type RegistrationEmployee struct {
	ID           string `json:"id"`
	EmployeeCode string `json:"employee_code"`
	FullName     string `json:"full_name"`
}

type RegistrationResponse struct {
	Allowed        bool                 `json:"allowed"`
	Kind           string               `json:"kind"`
	Classification string               `json:"classification,omitempty"`
	ShiftIndex     int                  `json:"shift_index"`
	ShiftStart     string               `json:"shift_start,omitempty"`
	ShiftEnd       string               `json:"shift_end,omitempty"`
	WindowOpen     string               `json:"window_open,omitempty"`
	WindowClose    string               `json:"window_close,omitempty"`
	DeltaMinutes   int                  `json:"delta_minutes"`
	LocalTime      string               `json:"local_time"`
	Message        string               `json:"message"`
	Employee       RegistrationEmployee `json:"employee"`
	Blocked        *BlockedResponse     `json:"blocked,omitempty"`
	Event          *EventResponse       `json:"event,omitempty"`
}

// NewRegistrationResponse renders a decision. Window fields are omitted when
// no shift governs the decision.
func NewRegistrationResponse(d window.Decision, local time.Time) RegistrationResponse {
	resp := RegistrationResponse{
		Allowed:        d.Allowed,
		Kind:           string(d.Kind),
		Classification: string(d.Classification),
		ShiftIndex:     d.ShiftIndex,
		DeltaMinutes:   d.DeltaMinutes,
		LocalTime:      local.Format("15:04"),
		Message:        DescribeDecision(d),
	}
	if d.ShiftIndex >= 0 && d.Shift.End > d.Shift.Start {
		resp.ShiftStart = d.Shift.Start.String()
		resp.ShiftEnd = d.Shift.End.String()
		resp.WindowOpen = d.Window.Open.String()
		resp.WindowClose = d.Window.Close.String()
	}
	if d.Blocked != nil {
		resp.Blocked = &BlockedResponse{
			Reason:      string(d.Blocked.Code),
			WaitMinutes: d.Blocked.WaitMinutes,
			Message:     resp.Message,
		}
	}
	return resp
}

// DescribeDecision is the short text shown on the kiosk.
func DescribeDecision(d window.Decision) string {
	if d.Blocked != nil {
		switch d.Blocked.Code {
		case window.BlockJourneyComplete:
			return "All shifts for today are complete"
		case window.BlockWaitMinutes:
			return fmt.Sprintf("Exit opens in %d minutes", d.Blocked.WaitMinutes)
		default:
			return "Outside the registration window"
		}
	}

	switch d.Classification {
	case window.OnTime:
		return "Entry on time"
	case window.Late:
		return fmt.Sprintf("Entry late by %d minutes", d.DeltaMinutes)
	case window.Absent:
		return fmt.Sprintf("Entry %d minutes after start, marked absent pending approval", d.DeltaMinutes)
	case window.EarlyDeparture:
		return fmt.Sprintf("Early departure %d minutes before end, pending approval", -d.DeltaMinutes)
	case window.LateDeparture:
		return fmt.Sprintf("Exit %d minutes after end", d.DeltaMinutes)
	default:
		return "Exit on time"
	}
}

// ========================================
// EVENT DTOs
// ========================================

type EventResponse struct {
	ID              string  `json:"id"`
	CompanyID       string  `json:"company_id"`
	EmployeeID      string  `json:"employee_id"`
	EmployeeName    *string `json:"employee_name,omitempty"`
	EmployeeCode    *string `json:"employee_code,omitempty"`
	Date            string  `json:"date"`
	Kind            string  `json:"kind"`
	Classification  string  `json:"classification"`
	ShiftIndex      int     `json:"shift_index"`
	ShiftStart      string  `json:"shift_start"`
	ShiftEnd        string  `json:"shift_end"`
	RecordedAt      string  `json:"recorded_at"`
	LocalTime       string  `json:"local_time"`
	DeltaMinutes    int     `json:"delta_minutes"`
	Method          string  `json:"method"`
	DeviceID        *string `json:"device_id,omitempty"`
	Status          string  `json:"status"`
	Note            *string `json:"note,omitempty"`
	ReviewedBy      *string `json:"reviewed_by,omitempty"`
	ReviewedAt      *string `json:"reviewed_at,omitempty"`
	RejectionReason *string `json:"rejection_reason,omitempty"`
	CreatedAt       string  `json:"created_at"`
	UpdatedAt       string  `json:"updated_at"`
}

func NewEventResponse(e Event) EventResponse {
	resp := EventResponse{
		ID:              e.ID,
		CompanyID:       e.CompanyID,
		EmployeeID:      e.EmployeeID,
		EmployeeName:    e.EmployeeName,
		EmployeeCode:    e.EmployeeCode,
		Date:            e.Date.Format("2006-01-02"),
		Kind:            string(e.Kind),
		Classification:  string(e.Classification),
		ShiftIndex:      e.ShiftIndex,
		ShiftStart:      e.ShiftStart.String(),
		ShiftEnd:        e.ShiftEnd.String(),
		RecordedAt:      e.RecordedAt.UTC().Format(time.RFC3339),
		LocalTime:       e.MinuteOfDay.String(),
		DeltaMinutes:    e.DeltaMinutes,
		Method:          string(e.Method),
		DeviceID:        e.DeviceID,
		Status:          string(e.Status),
		Note:            e.Note,
		ReviewedBy:      e.ReviewedBy,
		RejectionReason: e.RejectionReason,
		CreatedAt:       e.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       e.UpdatedAt.Format(time.RFC3339),
	}
	if e.ReviewedAt != nil {
		reviewedAt := e.ReviewedAt.Format(time.RFC3339)
		resp.ReviewedAt = &reviewedAt
	}
	return resp
}

type AttendanceFilter struct {
	// Search & Filter
	EmployeeID     *string `json:"employee_id,omitempty"`
	EmployeeName   *string `json:"employee_name,omitempty"`
	Date           *string `json:"date,omitempty"`       // YYYY-MM-DD
	StartDate      *string `json:"start_date,omitempty"` // YYYY-MM-DD
	EndDate        *string `json:"end_date,omitempty"`   // YYYY-MM-DD
	Status         *string `json:"status,omitempty"`
	Kind           *string `json:"kind,omitempty"`
	Classification *string `json:"classification,omitempty"`

	// Pagination
	Page  int `json:"page"`
	Limit int `json:"limit"`

	// Sorting
	SortBy    string `json:"sort_by"`    // recorded_at, date, employee_name, status
	SortOrder string `json:"sort_order"` // asc, desc
}

var attendanceSortFields = []string{"recorded_at", "date", "employee_name", "status"}

func (f *AttendanceFilter) Validate() error {
	errs := validateListFilter(&listFilter{
		page: &f.Page, limit: &f.Limit,
		date: f.Date, startDate: f.StartDate, endDate: f.EndDate,
		status: f.Status, sortBy: &f.SortBy, sortOrder: &f.SortOrder,
		sortFields: attendanceSortFields,
	})

	if f.EmployeeID != nil && !validator.IsValidUUID(*f.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id must be a valid UUID",
		})
	}
	if f.Kind != nil && !validator.IsInSlice(*f.Kind, window.EventKindValues) {
		errs = append(errs, validator.ValidationError{
			Field:   "kind",
			Message: "kind must be one of: " + strings.Join(window.EventKindValues, ", "),
		})
	}
	if f.Classification != nil && !validator.IsInSlice(*f.Classification, window.ClassificationValues) {
		errs = append(errs, validator.ValidationError{
			Field:   "classification",
			Message: "classification must be one of: " + strings.Join(window.ClassificationValues, ", "),
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type MyAttendanceFilter struct {
	Date      *string `json:"date,omitempty"`       // YYYY-MM-DD
	StartDate *string `json:"start_date,omitempty"` // YYYY-MM-DD
	EndDate   *string `json:"end_date,omitempty"`   // YYYY-MM-DD
	Status    *string `json:"status,omitempty"`

	Page  int `json:"page"`
	Limit int `json:"limit"`

	SortBy    string `json:"sort_by"`    // recorded_at, date, status
	SortOrder string `json:"sort_order"` // asc, desc
}

var myAttendanceSortFields = []string{"recorded_at", "date", "status"}

func (f *MyAttendanceFilter) Validate() error {
	errs := validateListFilter(&listFilter{
		page: &f.Page, limit: &f.Limit,
		date: f.Date, startDate: f.StartDate, endDate: f.EndDate,
		status: f.Status, sortBy: &f.SortBy, sortOrder: &f.SortOrder,
		sortFields: myAttendanceSortFields,
	})

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type listFilter struct {
	page, limit              *int
	date, startDate, endDate *string
	status                   *string
	sortBy, sortOrder        *string
	sortFields               []string
}

// validateListFilter checks the fields shared by both listings and fills in
// page 1, limit 20 and recorded_at desc.
func validateListFilter(f *listFilter) validator.ValidationErrors {
	var errs validator.ValidationErrors

	if *f.page < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "page",
			Message: "page must be a positive number",
		})
	}
	if *f.page == 0 {
		*f.page = 1
	}

	if *f.limit < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must be a positive number",
		})
	}
	if *f.limit == 0 {
		*f.limit = 20
	}
	if *f.limit > 100 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must not exceed 100",
		})
	}

	if f.status != nil && !validator.IsInSlice(*f.status, StatusValues) {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "status must be one of: " + strings.Join(StatusValues, ", "),
		})
	}

	dates := []struct {
		field string
		value *string
	}{
		{"date", f.date},
		{"start_date", f.startDate},
		{"end_date", f.endDate},
	}
	for _, d := range dates {
		if d.value == nil || *d.value == "" {
			continue
		}
		if _, valid := validator.IsValidDate(*d.value); !valid {
			errs = append(errs, validator.ValidationError{
				Field:   d.field,
				Message: d.field + " must be in YYYY-MM-DD format",
			})
		}
	}

	if *f.sortBy == "" {
		*f.sortBy = "recorded_at"
	} else if !validator.IsInSlice(*f.sortBy, f.sortFields) {
		errs = append(errs, validator.ValidationError{
			Field:   "sort_by",
			Message: "sort_by must be one of: " + strings.Join(f.sortFields, ", "),
		})
	}

	if *f.sortOrder == "" {
		*f.sortOrder = "desc"
	} else if !validator.IsInSlice(strings.ToLower(*f.sortOrder), []string{"asc", "desc"}) {
		errs = append(errs, validator.ValidationError{
			Field:   "sort_order",
			Message: "sort_order must be one of: asc, desc",
		})
	}

	return errs
}

type ListAttendanceResponse struct {
	TotalCount  int64           `json:"total_count"`
	Page        int             `json:"page"`
	Limit       int             `json:"limit"`
	TotalPages  int             `json:"total_pages"`
	Showing     string          `json:"showing"`
	Attendances []EventResponse `json:"attendances"`
}

// ========================================
// REVIEW DTOs
// ========================================

type ApproveAttendanceRequest struct {
	ID    string  `json:"-"`
	Notes *string `json:"notes,omitempty"`
}

type RejectAttendanceRequest struct {
	ID     string `json:"-"`
	Reason string `json:"reason"`
}

func (r *RejectAttendanceRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Reason) {
		errs = append(errs, validator.ValidationError{
			Field:   "reason",
			Message: "rejection reason is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type StreamTokenResponse struct {
	Token     string `json:"token"`
	ExpiresIn int    `json:"expires_in"`
}
