package payments

import (
	"context"
	"crypto/hmac"
	"encoding/json"
	"net/http"

	"github.com/wolfman30/booking-gateway/internal/httpapi"
	"github.com/wolfman30/booking-gateway/internal/observability/metrics"
	"github.com/wolfman30/booking-gateway/pkg/logging"
)

// SecretHeader carries the shared secret of the payment-provider simulation.
const SecretHeader = "X-Webhook-Secret"

type appointmentUpdater interface {
	UpdateByID(ctx context.Context, bearer, id string, patch map[string]any) (int, []byte, error)
}

// WebhookHandler applies settlement transitions from payment events. It
// authenticates with a shared secret and writes with the gateway's service
// credential, since the provider is not an end user.
type WebhookHandler struct {
	secret       string
	appointments appointmentUpdater
	metrics      *metrics.GatewayMetrics
	logger       *logging.Logger
}

func NewWebhookHandler(secret string, store appointmentUpdater, m *metrics.GatewayMetrics, logger *logging.Logger) *WebhookHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &WebhookHandler{
		secret:       secret,
		appointments: store,
		metrics:      m,
		logger:       logger.WithComponent("payments"),
	}
}

type webhookEvent struct {
	AppointmentID string   `json:"appointment_id"`
	Event         string   `json:"event"`
	Amount        *float64 `json:"amount,omitempty"`
}

// Handle serves POST /webhooks/payment.
func (h *WebhookHandler) Handle(w http.ResponseWriter, r *http.Request) {
	got := r.Header.Get(SecretHeader)
	if !hmac.Equal([]byte(got), []byte(h.secret)) {
		h.metrics.ObserveWebhook("unknown", "unauthorized")
		httpapi.Error(w, http.StatusUnauthorized, httpapi.KindUnauthorized, "invalid webhook secret")
		return
	}

	var evt webhookEvent
	if err := json.NewDecoder(r.Body).Decode(&evt); err != nil {
		httpapi.Error(w, http.StatusBadRequest, httpapi.KindBadRequest, "invalid JSON body")
		return
	}
	if evt.AppointmentID == "" || evt.Event == "" {
		httpapi.Error(w, http.StatusBadRequest, httpapi.KindBadRequest, "appointment_id and event are required")
		return
	}

	transition, ok := Resolve(evt.Event)
	if !ok {
		h.metrics.ObserveWebhook(evt.Event, "unknown_event")
		httpapi.Error(w, http.StatusBadRequest, httpapi.KindBadRequest, "unknown event: "+evt.Event)
		return
	}

	patch := map[string]any{"deposit_status": transition.DepositStatus}
	if evt.Amount != nil {
		patch["deposit_amount"] = *evt.Amount
	}
	if transition.StatusOverride != "" {
		patch["status"] = transition.StatusOverride
	}

	// Empty bearer: the store client falls back to the service credential.
	status, body, err := h.appointments.UpdateByID(r.Context(), "", evt.AppointmentID, patch)
	if err != nil {
		h.metrics.ObserveWebhook(evt.Event, "error")
		h.logger.Error("webhook update failed", "error", err, "appointment_id", evt.AppointmentID, "event", evt.Event)
		httpapi.Error(w, http.StatusInternalServerError, httpapi.KindInternalError, "internal_error")
		return
	}

	h.metrics.ObserveWebhook(evt.Event, "ok")
	h.logger.Info("payment event applied",
		"appointment_id", evt.AppointmentID,
		"event", evt.Event,
		"deposit_status", transition.DepositStatus,
	)
	httpapi.Relay(w, status, body)
}
