package payments

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/wolfman30/booking-gateway/pkg/logging"
)

type stubUpdater struct {
	patches []map[string]any
	ids     []string
	bearers []string
	status  int
	body    []byte
	err     error
}

func (s *stubUpdater) UpdateByID(_ context.Context, bearer, id string, patch map[string]any) (int, []byte, error) {
	s.bearers = append(s.bearers, bearer)
	s.ids = append(s.ids, id)
	s.patches = append(s.patches, patch)
	if s.err != nil {
		return 0, nil, s.err
	}
	status := s.status
	if status == 0 {
		status = http.StatusOK
	}
	body := s.body
	if body == nil {
		body, _ = json.Marshal([]map[string]any{patch})
	}
	return status, body, nil
}

func newWebhookRequest(secret, body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/webhooks/payment", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	if secret != "" {
		req.Header.Set(SecretHeader, secret)
	}
	return req
}

func TestWebhook_WrongSecretNoMutation(t *testing.T) {
	store := &stubUpdater{}
	h := NewWebhookHandler("dev-secret", store, nil, logging.New("error"))

	rr := httptest.NewRecorder()
	h.Handle(rr, newWebhookRequest("wrong", `{"appointment_id":"apt-1","event":"payment_paid"}`))

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}
	var resp map[string]string
	_ = json.NewDecoder(rr.Body).Decode(&resp)
	if resp["error"] != "unauthorized" {
		t.Fatalf("error = %q", resp["error"])
	}
	if len(store.patches) != 0 {
		t.Fatalf("unauthorized webhook must not mutate state")
	}
}

func TestWebhook_MissingSecretHeader(t *testing.T) {
	store := &stubUpdater{}
	h := NewWebhookHandler("dev-secret", store, nil, logging.New("error"))

	rr := httptest.NewRecorder()
	h.Handle(rr, newWebhookRequest("", `{"appointment_id":"apt-1","event":"payment_paid"}`))

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}
}

func TestWebhook_PaidConfirmsAppointmentInOneUpdate(t *testing.T) {
	store := &stubUpdater{}
	h := NewWebhookHandler("dev-secret", store, nil, logging.New("error"))

	rr := httptest.NewRecorder()
	h.Handle(rr, newWebhookRequest("dev-secret", `{"appointment_id":"apt-1","event":"payment_paid","amount":30}`))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if len(store.patches) != 1 {
		t.Fatalf("expected exactly one update, got %d", len(store.patches))
	}
	patch := store.patches[0]
	if patch["deposit_status"] != "paid" {
		t.Fatalf("deposit_status = %v", patch["deposit_status"])
	}
	if patch["status"] != "confirmed" {
		t.Fatalf("status = %v", patch["status"])
	}
	if patch["deposit_amount"] != float64(30) {
		t.Fatalf("deposit_amount = %v", patch["deposit_amount"])
	}
	if store.ids[0] != "apt-1" {
		t.Fatalf("appointment id = %q", store.ids[0])
	}
	// The webhook writes with the service credential, not a forwarded user token.
	if store.bearers[0] != "" {
		t.Fatalf("bearer = %q, want service credential fallback", store.bearers[0])
	}
}

func TestWebhook_FailedLeavesStatusUntouched(t *testing.T) {
	store := &stubUpdater{}
	h := NewWebhookHandler("dev-secret", store, nil, logging.New("error"))

	rr := httptest.NewRecorder()
	h.Handle(rr, newWebhookRequest("dev-secret", `{"appointment_id":"apt-1","event":"payment_failed"}`))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	patch := store.patches[0]
	if patch["deposit_status"] != "failed" {
		t.Fatalf("deposit_status = %v", patch["deposit_status"])
	}
	if _, ok := patch["status"]; ok {
		t.Fatalf("payment_failed must not touch appointment status, patch = %v", patch)
	}
	if _, ok := patch["deposit_amount"]; ok {
		t.Fatalf("absent amount must not be written, patch = %v", patch)
	}
}

func TestWebhook_PendingEvent(t *testing.T) {
	store := &stubUpdater{}
	h := NewWebhookHandler("dev-secret", store, nil, logging.New("error"))

	rr := httptest.NewRecorder()
	h.Handle(rr, newWebhookRequest("dev-secret", `{"appointment_id":"apt-1","event":"payment_pending","amount":30}`))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	patch := store.patches[0]
	if patch["deposit_status"] != "pending" {
		t.Fatalf("deposit_status = %v", patch["deposit_status"])
	}
	if _, ok := patch["status"]; ok {
		t.Fatalf("pending must not confirm, patch = %v", patch)
	}
}

func TestWebhook_MissingFields(t *testing.T) {
	store := &stubUpdater{}
	h := NewWebhookHandler("dev-secret", store, nil, logging.New("error"))

	for _, body := range []string{
		`{"event":"payment_paid"}`,
		`{"appointment_id":"apt-1"}`,
		`{}`,
	} {
		rr := httptest.NewRecorder()
		h.Handle(rr, newWebhookRequest("dev-secret", body))
		if rr.Code != http.StatusBadRequest {
			t.Fatalf("body %s: expected 400, got %d", body, rr.Code)
		}
	}
	if len(store.patches) != 0 {
		t.Fatalf("invalid bodies must not mutate state")
	}
}

func TestWebhook_UnknownEventRejected(t *testing.T) {
	store := &stubUpdater{}
	h := NewWebhookHandler("dev-secret", store, nil, logging.New("error"))

	rr := httptest.NewRecorder()
	h.Handle(rr, newWebhookRequest("dev-secret", `{"appointment_id":"apt-1","event":"payment_chargeback"}`))

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
	if len(store.patches) != 0 {
		t.Fatalf("unknown event must not mutate state")
	}
}
