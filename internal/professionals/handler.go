package professionals

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/wolfman30/booking-gateway/internal/httpapi"
	"github.com/wolfman30/booking-gateway/internal/postgrest"
	"github.com/wolfman30/booking-gateway/pkg/logging"
)

const (
	table       = "professionals"
	listColumns = "id,created_at,name,role,company_id"
	rowColumns  = "id,created_at,name,role"
)

// CreateRequest is the POST /professionals body.
type CreateRequest struct {
	Name      string `json:"name"`
	Role      string `json:"role,omitempty"`
	CompanyID string `json:"company_id,omitempty"`
}

// Handler serves the /professionals routes against the hosted store.
type Handler struct {
	client *postgrest.Client
	logger *logging.Logger
}

func NewHandler(client *postgrest.Client, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{client: client, logger: logger.WithComponent("professionals")}
}

// List handles GET /professionals with an optional company_id filter.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := postgrest.NewQuery().
		Select(listColumns).
		Order("created_at.desc")
	if companyID := r.URL.Query().Get("company_id"); companyID != "" {
		q = q.Eq("company_id", companyID)
	}

	resp, err := h.client.Fetch(r.Context(), table, q, bearer(r))
	if err != nil {
		h.logger.Error("list professionals failed", "error", err)
		httpapi.Error(w, http.StatusInternalServerError, httpapi.KindInternalError, "internal_error")
		return
	}
	httpapi.Relay(w, resp.Status, resp.Body)
}

// Get handles GET /professionals/{professionalID}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "professionalID")

	q := postgrest.NewQuery().
		Select(rowColumns).
		Eq("id", id)

	var rows []json.RawMessage
	if err := h.client.Select(r.Context(), table, q, bearer(r), &rows); err != nil {
		var ue *postgrest.UpstreamError
		if errors.As(err, &ue) {
			httpapi.Relay(w, ue.Status, ue.Body)
			return
		}
		h.logger.Error("get professional failed", "error", err)
		httpapi.Error(w, http.StatusInternalServerError, httpapi.KindInternalError, "internal_error")
		return
	}
	if len(rows) == 0 {
		httpapi.Error(w, http.StatusNotFound, httpapi.KindNotFound, "professional not found")
		return
	}
	httpapi.Relay(w, http.StatusOK, rows[0])
}

// Create handles POST /professionals.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpapi.Error(w, http.StatusBadRequest, httpapi.KindBadRequest, "invalid JSON body")
		return
	}
	if req.Name == "" {
		httpapi.Error(w, http.StatusBadRequest, httpapi.KindBadRequest, "required field: name")
		return
	}

	row := map[string]any{"name": req.Name}
	if req.Role != "" {
		row["role"] = req.Role
	} else {
		row["role"] = nil
	}
	if req.CompanyID != "" {
		row["company_id"] = req.CompanyID
	} else {
		row["company_id"] = nil
	}

	resp, err := h.client.Insert(r.Context(), table, row, bearer(r))
	if err != nil {
		h.logger.Error("create professional failed", "error", err)
		httpapi.Error(w, http.StatusInternalServerError, httpapi.KindInternalError, "internal_error")
		return
	}
	if !resp.OK() {
		httpapi.Relay(w, resp.Status, resp.Body)
		return
	}
	h.logger.Info("professional created", "name", req.Name, "company_id", req.CompanyID)
	httpapi.Relay(w, resp.Status, unwrapRow(resp.Body))
}

func unwrapRow(body []byte) []byte {
	var rows []json.RawMessage
	if err := json.Unmarshal(body, &rows); err != nil || len(rows) != 1 {
		return body
	}
	return rows[0]
}

func bearer(r *http.Request) string {
	return r.Header.Get("Authorization")
}
