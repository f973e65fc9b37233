package appointments

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/wolfman30/booking-gateway/internal/httpapi"
	"github.com/wolfman30/booking-gateway/internal/observability/metrics"
	"github.com/wolfman30/booking-gateway/internal/postgrest"
	"github.com/wolfman30/booking-gateway/pkg/logging"
)

// Handler serves the /appointments routes. Creation runs the booking guard:
// required fields, temporal validity, then the overlap check, before the
// payload is forwarded to the store.
type Handler struct {
	store   Store
	metrics *metrics.GatewayMetrics
	logger  *logging.Logger
}

func NewHandler(store Store, m *metrics.GatewayMetrics, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		store:   store,
		metrics: m,
		logger:  logger.WithComponent("appointments"),
	}
}

// doubleBookingResponse echoes both intervals plus the conflicting row.
type doubleBookingResponse struct {
	Error     string   `json:"error"`
	Message   string   `json:"message"`
	Requested Interval `json:"requested"`
	Existing  Interval `json:"existing"`
	Conflict  struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	} `json:"conflict"`
}

// List handles GET /appointments.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := ListFilter{
		CompanyID:      q.Get("company_id"),
		ServiceID:      q.Get("service_id"),
		ProfessionalID: q.Get("professional_id"),
		From:           q.Get("from"),
		To:             q.Get("to"),
	}
	if limitStr := q.Get("limit"); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil && limit > 0 {
			filter.Limit = limit
		} else {
			filter.Limit = 50
		}
	}

	status, body, err := h.store.List(r.Context(), bearer(r), filter)
	if err != nil {
		h.logger.Error("list appointments failed", "error", err)
		httpapi.Error(w, http.StatusInternalServerError, httpapi.KindInternalError, "internal_error")
		return
	}
	httpapi.Relay(w, status, body)
}

// Get handles GET /appointments/{appointmentID}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "appointmentID")
	if id == "" {
		httpapi.Error(w, http.StatusBadRequest, httpapi.KindBadRequest, "id is required")
		return
	}

	rows, err := h.store.GetByID(r.Context(), bearer(r), id)
	if err != nil {
		h.relayStoreError(w, "get appointment", err)
		return
	}
	if len(rows) == 0 {
		httpapi.Error(w, http.StatusNotFound, httpapi.KindNotFound, "appointment not found")
		return
	}
	httpapi.Relay(w, http.StatusOK, rows[0])
}

// Create handles POST /appointments.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.observeCreate(httpapi.KindBadRequest)
		httpapi.Error(w, http.StatusBadRequest, httpapi.KindBadRequest, "invalid JSON body")
		return
	}

	if field, missing := req.MissingField(); missing {
		h.observeCreate(httpapi.KindBadRequest)
		httpapi.Error(w, http.StatusBadRequest, httpapi.KindBadRequest, fmt.Sprintf("required field: %s", field))
		return
	}

	start, end, err := req.ParseWindow()
	if err != nil {
		h.observeCreate(httpapi.KindBadRequest)
		httpapi.Error(w, http.StatusBadRequest, httpapi.KindBadRequest,
			"start_time and end_time must be RFC 3339 timestamps (e.g. 2025-10-21T17:00:00Z)")
		return
	}
	if !end.After(start) {
		h.observeCreate(httpapi.KindInvalidTimeRange)
		httpapi.Error(w, http.StatusBadRequest, httpapi.KindInvalidTimeRange, "end_time must be after start_time")
		return
	}

	conflicts, err := h.store.ListConflicting(r.Context(), bearer(r), req.CompanyID, req.ProfessionalID, req.StartTime, req.EndTime)
	if err != nil {
		h.observeCreate(httpapi.KindConflictCheck)
		h.logger.Error("conflict check failed", "error", err,
			"company_id", req.CompanyID,
			"professional_id", req.ProfessionalID,
		)
		httpapi.ErrorWithDetails(w, http.StatusInternalServerError, httpapi.KindConflictCheck,
			"could not verify availability", err.Error())
		return
	}
	h.logger.Debug("conflict check",
		"company_id", req.CompanyID,
		"professional_id", req.ProfessionalID,
		"start_time", req.StartTime,
		"end_time", req.EndTime,
		"conflicts", len(conflicts),
	)
	if len(conflicts) > 0 {
		// First row in store order keeps the response deterministic.
		c := conflicts[0]
		h.observeCreate(httpapi.KindDoubleBooking)
		resp := doubleBookingResponse{
			Error: httpapi.KindDoubleBooking,
			Message: fmt.Sprintf(
				"time conflict: requested %s → %s, but %s → %s already exists for this professional; pick another free slot",
				req.StartTime, req.EndTime, c.StartTime, c.EndTime),
			Requested: Interval{StartTime: req.StartTime, EndTime: req.EndTime},
			Existing:  Interval{StartTime: c.StartTime, EndTime: c.EndTime},
		}
		resp.Conflict.ID = c.ID
		resp.Conflict.Status = c.Status
		httpapi.JSON(w, http.StatusConflict, resp)
		return
	}

	status, body, err := h.store.Insert(r.Context(), bearer(r), req.insertRow())
	if err != nil {
		h.observeCreate(httpapi.KindInternalError)
		h.logger.Error("create appointment failed", "error", err)
		httpapi.Error(w, http.StatusInternalServerError, httpapi.KindInternalError, "internal_error")
		return
	}
	if status < 200 || status > 299 {
		h.observeCreate("upstream_error")
		httpapi.Relay(w, status, body)
		return
	}

	h.observeCreate("created")
	httpapi.Relay(w, status, unwrapRow(body))
}

// UpdateDeposit handles PATCH /appointments/{appointmentID}/deposit.
func (h *Handler) UpdateDeposit(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "appointmentID")
	if id == "" {
		httpapi.Error(w, http.StatusBadRequest, httpapi.KindBadRequest, "id is required")
		return
	}

	var req UpdateDepositRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpapi.Error(w, http.StatusBadRequest, httpapi.KindBadRequest, "invalid JSON body")
		return
	}
	if req.DepositStatus != nil && !ValidDepositStatus(*req.DepositStatus) {
		httpapi.Error(w, http.StatusBadRequest, httpapi.KindBadRequest, "invalid deposit_status")
		return
	}

	patch := map[string]any{}
	if req.DepositAmount != nil {
		patch["deposit_amount"] = *req.DepositAmount
	}
	if req.DepositStatus != nil {
		patch["deposit_status"] = *req.DepositStatus
	}
	if len(patch) == 0 {
		httpapi.Error(w, http.StatusBadRequest, httpapi.KindBadRequest, "nothing to update")
		return
	}

	status, body, err := h.store.UpdateByID(r.Context(), bearer(r), id, patch)
	if err != nil {
		h.logger.Error("deposit update failed", "error", err, "appointment_id", id)
		httpapi.Error(w, http.StatusInternalServerError, httpapi.KindInternalError, "internal_error")
		return
	}
	httpapi.Relay(w, status, body)
}

// insertRow builds the forwarded creation payload with the documented
// defaults applied.
func (r *CreateRequest) insertRow() map[string]any {
	status := r.Status
	if status == "" {
		status = StatusScheduled
	}
	depositStatus := r.DepositStatus
	if depositStatus == "" {
		depositStatus = DepositNone
	}
	var amount float64
	if r.DepositAmount != nil {
		amount = *r.DepositAmount
	}
	row := map[string]any{
		"company_id":      r.CompanyID,
		"service_id":      r.ServiceID,
		"professional_id": r.ProfessionalID,
		"customer_name":   r.CustomerName,
		"customer_phone":  r.CustomerPhone,
		"start_time":      r.StartTime,
		"end_time":        r.EndTime,
		"status":          status,
		"deposit_amount":  amount,
		"deposit_status":  depositStatus,
	}
	if r.Notes != "" {
		row["notes"] = r.Notes
	} else {
		row["notes"] = nil
	}
	return row
}

func (h *Handler) relayStoreError(w http.ResponseWriter, op string, err error) {
	var ue *postgrest.UpstreamError
	if errors.As(err, &ue) {
		httpapi.Relay(w, ue.Status, ue.Body)
		return
	}
	h.logger.Error(op+" failed", "error", err)
	httpapi.Error(w, http.StatusInternalServerError, httpapi.KindInternalError, "internal_error")
}

func (h *Handler) observeCreate(outcome string) {
	h.metrics.ObserveCreate(outcome)
}

// unwrapRow reduces the store's return=representation array to the single
// created row.
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
