package appointments

import (
	"context"
	"encoding/json"

	"github.com/wolfman30/booking-gateway/internal/postgrest"
)

const (
	table = "appointments"

	// rowColumns is the projection used for reads and relays.
	rowColumns = "id,company_id,service_id,professional_id,customer_name,customer_phone,start_time,end_time,status,deposit_amount,deposit_status,created_at"

	conflictColumns = "id,start_time,end_time,status"
)

// Store is the persistence surface the booking guard needs. The production
// implementation talks to the hosted store's REST interface; tests inject
// stubs.
type Store interface {
	// ListConflicting returns non-cancelled appointments for the same
	// company and professional whose [start_time, end_time) intersects the
	// given half-open window, in the store's natural row order.
	ListConflicting(ctx context.Context, bearer, companyID, professionalID, startTime, endTime string) ([]Conflict, error)

	// Insert forwards a creation payload and returns the upstream status
	// and raw body.
	Insert(ctx context.Context, bearer string, row map[string]any) (int, []byte, error)

	// List relays a filtered listing sorted by start_time ascending.
	List(ctx context.Context, bearer string, f ListFilter) (int, []byte, error)

	// GetByID returns the matching rows (zero or one) for a single fetch.
	GetByID(ctx context.Context, bearer, id string) ([]json.RawMessage, error)

	// UpdateByID applies a partial update and returns the upstream status
	// and raw body.
	UpdateByID(ctx context.Context, bearer, id string, patch map[string]any) (int, []byte, error)
}

// PostgrestStore implements Store against the hosted store.
type PostgrestStore struct {
	client *postgrest.Client
}

func NewPostgrestStore(client *postgrest.Client) *PostgrestStore {
	if client == nil {
		panic("appointments: store client required")
	}
	return &PostgrestStore{client: client}
}

func (s *PostgrestStore) ListConflicting(ctx context.Context, bearer, companyID, professionalID, startTime, endTime string) ([]Conflict, error) {
	// Half-open intersection: existing.start < new.end AND existing.end > new.start.
	q := postgrest.NewQuery().
		Select(conflictColumns).
		Eq("company_id", companyID).
		Eq("professional_id", professionalID).
		Neq("status", StatusCancelled).
		Lt("start_time", endTime).
		Gt("end_time", startTime)

	var rows []Conflict
	if err := s.client.Select(ctx, table, q, bearer, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *PostgrestStore) Insert(ctx context.Context, bearer string, row map[string]any) (int, []byte, error) {
	resp, err := s.client.Insert(ctx, table, row, bearer)
	if err != nil {
		return 0, nil, err
	}
	return resp.Status, resp.Body, nil
}

func (s *PostgrestStore) List(ctx context.Context, bearer string, f ListFilter) (int, []byte, error) {
	q := postgrest.NewQuery().
		Select(rowColumns).
		Order("start_time.asc")
	if f.CompanyID != "" {
		q = q.Eq("company_id", f.CompanyID)
	}
	if f.ServiceID != "" {
		q = q.Eq("service_id", f.ServiceID)
	}
	if f.ProfessionalID != "" {
		q = q.Eq("professional_id", f.ProfessionalID)
	}
	if f.From != "" {
		q = q.Gte("start_time", f.From)
	}
	if f.To != "" {
		q = q.Lte("start_time", f.To)
	}
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}

	resp, err := s.client.Fetch(ctx, table, q, bearer)
	if err != nil {
		return 0, nil, err
	}
	return resp.Status, resp.Body, nil
}

func (s *PostgrestStore) GetByID(ctx context.Context, bearer, id string) ([]json.RawMessage, error) {
	q := postgrest.NewQuery().
		Select(rowColumns).
		Eq("id", id)

	var rows []json.RawMessage
	if err := s.client.Select(ctx, table, q, bearer, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *PostgrestStore) UpdateByID(ctx context.Context, bearer, id string, patch map[string]any) (int, []byte, error) {
	q := postgrest.NewQuery().Eq("id", id)
	resp, err := s.client.Patch(ctx, table, q, patch, bearer)
	if err != nil {
		return 0, nil, err
	}
	return resp.Status, resp.Body, nil
}
