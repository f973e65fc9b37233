package appointments

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/wolfman30/booking-gateway/internal/postgrest"
	"github.com/wolfman30/booking-gateway/pkg/logging"
)

func newStoreAgainst(t *testing.T, handler http.HandlerFunc) *PostgrestStore {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)
	client := postgrest.NewClient(ts.URL, "anon", nil, logging.New("error"))
	return NewPostgrestStore(client)
}

func TestPostgrestStore_ListConflicting_HalfOpenQuery(t *testing.T) {
	store := newStoreAgainst(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if got := q.Get("company_id"); got != "eq.c1" {
			t.Fatalf("company_id = %q", got)
		}
		if got := q.Get("professional_id"); got != "eq.p1" {
			t.Fatalf("professional_id = %q", got)
		}
		if got := q.Get("status"); got != "neq.cancelled" {
			t.Fatalf("status = %q", got)
		}
		// existing.start_time < new.end AND existing.end_time > new.start:
		// the boundary instant of an adjacent booking never matches.
		if got := q.Get("start_time"); got != "lt.2025-10-19T11:30:00Z" {
			t.Fatalf("start_time = %q", got)
		}
		if got := q.Get("end_time"); got != "gt.2025-10-19T10:30:00Z" {
			t.Fatalf("end_time = %q", got)
		}
		_, _ = w.Write([]byte(`[{"id":"apt-1","start_time":"2025-10-19T10:00:00Z","end_time":"2025-10-19T11:00:00Z","status":"scheduled"}]`))
	})

	conflicts, err := store.ListConflicting(context.Background(), "Bearer jwt", "c1", "p1",
		"2025-10-19T10:30:00Z", "2025-10-19T11:30:00Z")
	if err != nil {
		t.Fatalf("ListConflicting() error = %v", err)
	}
	if len(conflicts) != 1 || conflicts[0].ID != "apt-1" {
		t.Fatalf("conflicts = %#v", conflicts)
	}
}

func TestPostgrestStore_List_TranslatesFilters(t *testing.T) {
	store := newStoreAgainst(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if got := q.Get("order"); got != "start_time.asc" {
			t.Fatalf("order = %q", got)
		}
		times := q["start_time"]
		if len(times) != 2 || times[0] != "gte.2025-10-19T00:00:00Z" || times[1] != "lte.2025-10-20T00:00:00Z" {
			t.Fatalf("start_time filters = %v", times)
		}
		if got := q.Get("limit"); got != "25" {
			t.Fatalf("limit = %q", got)
		}
		_, _ = w.Write([]byte(`[]`))
	})

	status, body, err := store.List(context.Background(), "", ListFilter{
		From:  "2025-10-19T00:00:00Z",
		To:    "2025-10-20T00:00:00Z",
		Limit: 25,
	})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if status != http.StatusOK || string(body) != `[]` {
		t.Fatalf("status = %d body = %s", status, body)
	}
}

func TestPostgrestStore_UpdateByID_TargetsRow(t *testing.T) {
	store := newStoreAgainst(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPatch {
			t.Fatalf("method = %s", r.Method)
		}
		if got := r.URL.Query().Get("id"); got != "eq.apt-1" {
			t.Fatalf("id = %q", got)
		}
		_, _ = w.Write([]byte(`[{"id":"apt-1"}]`))
	})

	status, _, err := store.UpdateByID(context.Background(), "", "apt-1", map[string]any{"deposit_status": DepositPaid})
	if err != nil {
		t.Fatalf("UpdateByID() error = %v", err)
	}
	if status != http.StatusOK {
		t.Fatalf("status = %d", status)
	}
}
