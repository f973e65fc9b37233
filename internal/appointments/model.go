package appointments

import "time"

// Appointment statuses as stored by the backend.
const (
	StatusScheduled = "scheduled"
	StatusConfirmed = "confirmed"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
	StatusNoShow    = "no_show"
)

// Deposit lifecycle values. Transitions are not strictly ordered: any value
// may overwrite any other (direct edits can move paid -> refunded, and the
// backend accepts backward moves as well).
const (
	DepositNone     = "none"
	DepositRequired = "required"
	DepositPending  = "pending"
	DepositPaid     = "paid"
	DepositRefunded = "refunded"
	DepositFailed   = "failed"
)

var depositStatuses = map[string]struct{}{
	DepositNone:     {},
	DepositRequired: {},
	DepositPending:  {},
	DepositPaid:     {},
	DepositRefunded: {},
	DepositFailed:   {},
}

// ValidDepositStatus reports whether s is one of the six recognized values.
func ValidDepositStatus(s string) bool {
	_, ok := depositStatuses[s]
	return ok
}

// Interval echoes a [start_time, end_time) range in API responses.
type Interval struct {
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

// Conflict is the projection loaded by the overlap check.
type Conflict struct {
	ID        string `json:"id"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Status    string `json:"status"`
}

// CreateRequest is the POST /appointments body.
type CreateRequest struct {
	CompanyID      string   `json:"company_id"`
	ServiceID      string   `json:"service_id"`
	ProfessionalID string   `json:"professional_id"`
	CustomerName   string   `json:"customer_name"`
	CustomerPhone  string   `json:"customer_phone"`
	StartTime      string   `json:"start_time"`
	EndTime        string   `json:"end_time"`
	Status         string   `json:"status,omitempty"`
	DepositAmount  *float64 `json:"deposit_amount,omitempty"`
	DepositStatus  string   `json:"deposit_status,omitempty"`
	Notes          string   `json:"notes,omitempty"`
}

// MissingField returns the name of the first absent required field, in the
// order clients see them documented.
func (r *CreateRequest) MissingField() (string, bool) {
	required := []struct {
		name  string
		value string
	}{
		{"company_id", r.CompanyID},
		{"service_id", r.ServiceID},
		{"professional_id", r.ProfessionalID},
		{"customer_name", r.CustomerName},
		{"customer_phone", r.CustomerPhone},
		{"start_time", r.StartTime},
		{"end_time", r.EndTime},
	}
	for _, f := range required {
		if f.value == "" {
			return f.name, true
		}
	}
	return "", false
}

// ParseWindow parses the requested interval and validates end > start.
func (r *CreateRequest) ParseWindow() (start, end time.Time, err error) {
	start, err = time.Parse(time.RFC3339, r.StartTime)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err = time.Parse(time.RFC3339, r.EndTime)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, end, nil
}

// UpdateDepositRequest is the PATCH /appointments/{id}/deposit body. Pointer
// fields distinguish "absent" from zero values.
type UpdateDepositRequest struct {
	DepositAmount *float64 `json:"deposit_amount,omitempty"`
	DepositStatus *string  `json:"deposit_status,omitempty"`
}

// ListFilter carries the supported /appointments query filters.
type ListFilter struct {
	CompanyID      string
	ServiceID      string
	ProfessionalID string
	From           string
	To             string
	Limit          int
}
