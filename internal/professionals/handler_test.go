package professionals

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/wolfman30/booking-gateway/internal/postgrest"
	"github.com/wolfman30/booking-gateway/pkg/logging"
)

func newTestHandler(t *testing.T, upstream http.HandlerFunc) *Handler {
	t.Helper()
	ts := httptest.NewServer(upstream)
	t.Cleanup(ts.Close)
	client := postgrest.NewClient(ts.URL, "anon", nil, logging.New("error"))
	return NewHandler(client, logging.New("error"))
}

func TestList_OptionalCompanyFilter(t *testing.T) {
	var query map[string][]string
	h := newTestHandler(t, func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.Query()
		_, _ = w.Write([]byte(`[]`))
	})

	req := httptest.NewRequest(http.MethodGet, "/professionals?company_id=c1", nil)
	rr := httptest.NewRecorder()
	h.List(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if got := query["company_id"]; len(got) != 1 || got[0] != "eq.c1" {
		t.Fatalf("company_id filter = %v", got)
	}

	// Without the parameter the filter is omitted entirely.
	h2 := newTestHandler(t, func(w http.ResponseWriter, r *http.Request) {
		if _, ok := r.URL.Query()["company_id"]; ok {
			t.Fatalf("unexpected company_id filter")
		}
		_, _ = w.Write([]byte(`[]`))
	})
	rr = httptest.NewRecorder()
	h2.List(rr, httptest.NewRequest(http.MethodGet, "/professionals", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
}

func TestGet_NotFound(t *testing.T) {
	h := newTestHandler(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	})

	req := httptest.NewRequest(http.MethodGet, "/professionals/missing", nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("professionalID", "missing")
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

	rr := httptest.NewRecorder()
	h.Get(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
}

func TestCreate_NullsOptionalFields(t *testing.T) {
	var inserted map[string]any
	h := newTestHandler(t, func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &inserted)
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`[{"id":"p1","name":"Maria"}]`))
	})

	req := httptest.NewRequest(http.MethodPost, "/professionals", bytes.NewBufferString(`{"name":"Maria"}`))
	rr := httptest.NewRecorder()
	h.Create(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rr.Code)
	}
	if inserted["name"] != "Maria" {
		t.Fatalf("inserted = %v", inserted)
	}
	if role, ok := inserted["role"]; !ok || role != nil {
		t.Fatalf("role should be explicit null, got %v", inserted)
	}
	if companyID, ok := inserted["company_id"]; !ok || companyID != nil {
		t.Fatalf("company_id should be explicit null, got %v", inserted)
	}
}

func TestCreate_RequiresName(t *testing.T) {
	h := newTestHandler(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("store must not be called for invalid input")
	})

	req := httptest.NewRequest(http.MethodPost, "/professionals", bytes.NewBufferString(`{"role":"barber"}`))
	rr := httptest.NewRecorder()
	h.Create(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}
