package companies

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
	table       = "companies"
	listColumns = "id,created_at,name"
	rowColumns  = "id,created_at,name,business_type"
)

// Handler serves the /companies routes against the hosted store.
type Handler struct {
	client *postgrest.Client
	logger *logging.Logger
}

func NewHandler(client *postgrest.Client, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{client: client, logger: logger.WithComponent("companies")}
}

// List handles GET /companies.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := postgrest.NewQuery().
		Select(listColumns).
		Order("created_at.desc")

	resp, err := h.client.Fetch(r.Context(), table, q, bearer(r))
	if err != nil {
		h.logger.Error("list companies failed", "error", err)
		httpapi.Error(w, http.StatusInternalServerError, httpapi.KindInternalError, "internal_error")
		return
	}
	httpapi.Relay(w, resp.Status, resp.Body)
}

// Get handles GET /companies/{companyID}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "companyID")

	q := postgrest.NewQuery().
		Select(rowColumns).
		Eq("id", id)

	var rows []json.RawMessage
	if err := h.client.Select(r.Context(), table, q, bearer(r), &rows); err != nil {
		relayStoreError(w, h.logger, "get company", err)
		return
	}
	if len(rows) == 0 {
		httpapi.Error(w, http.StatusNotFound, httpapi.KindNotFound, "company not found")
		return
	}
	httpapi.Relay(w, http.StatusOK, rows[0])
}

// Create handles POST /companies.
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

	resp, err := h.client.Insert(r.Context(), table, req.insertRow(), bearer(r))
	if err != nil {
		h.logger.Error("create company failed", "error", err)
		httpapi.Error(w, http.StatusInternalServerError, httpapi.KindInternalError, "internal_error")
		return
	}
	if !resp.OK() {
		httpapi.Relay(w, resp.Status, resp.Body)
		return
	}
	h.logger.Info("company created", "name", req.Name)
	httpapi.Relay(w, resp.Status, unwrapRow(resp.Body))
}

func relayStoreError(w http.ResponseWriter, logger *logging.Logger, op string, err error) {
	var ue *postgrest.UpstreamError
	if errors.As(err, &ue) {
		httpapi.Relay(w, ue.Status, ue.Body)
		return
	}
	logger.Error(op+" failed", "error", err)
	httpapi.Error(w, http.StatusInternalServerError, httpapi.KindInternalError, "internal_error")
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
