package services

import (
	"net/http"
	"strings"

	"github.com/wolfman30/booking-gateway/internal/httpapi"
	"github.com/wolfman30/booking-gateway/internal/postgrest"
	"github.com/wolfman30/booking-gateway/pkg/logging"
)

const (
	serviceColumns = "id,company_id,name,price,duration_minutes,active,created_at"

	mediaColumns            = "id,service_id,kind,url,created_at"
	mediaColumnsWithService = "id,kind,url,created_at,service:services(id,name,company_id)"

	linkColumns             = "service_id,professional_id,created_at"
	linkColumnsService      = "service_id,professional_id,created_at,service:services(id,name,company_id)"
	linkColumnsProfessional = "service_id,professional_id,created_at,professional:professionals(id,name,company_id)"
	linkColumnsBoth         = "created_at,service:services(id,name,company_id),professional:professionals(id,name,company_id)"
)

// Handler relays the read-only catalog routes (services, media, links)
// to the hosted store with query-filter translation.
type Handler struct {
	client *postgrest.Client
	logger *logging.Logger
}

func NewHandler(client *postgrest.Client, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{client: client, logger: logger.WithComponent("services")}
}

// ListServices handles GET /services with company_id and active filters.
func (h *Handler) ListServices(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	q := postgrest.NewQuery().Select(serviceColumns)
	if companyID := query.Get("company_id"); companyID != "" {
		q = q.Eq("company_id", companyID)
	}
	if active, present := queryValue(r, "active"); present {
		q = q.Eq("active", normalizeBool(active))
	}

	h.relay(w, r, "services", q)
}

// ListServiceMedia handles GET /service_media; include=service embeds the
// owning service.
func (h *Handler) ListServiceMedia(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	columns := mediaColumns
	if strings.EqualFold(query.Get("include"), "service") {
		columns = mediaColumnsWithService
	}

	q := postgrest.NewQuery().Select(columns)
	if serviceID := query.Get("service_id"); serviceID != "" {
		q = q.Eq("service_id", serviceID)
	}

	h.relay(w, r, "service_media", q)
}

// ListServiceProfessional handles GET /service_professional; include may
// name service, professional, or both sides of the link.
func (h *Handler) ListServiceProfessional(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	wants := map[string]bool{}
	for _, part := range strings.Split(strings.ToLower(query.Get("include")), ",") {
		if part = strings.TrimSpace(part); part != "" {
			wants[part] = true
		}
	}

	columns := linkColumns
	switch {
	case wants["service"] && wants["professional"]:
		columns = linkColumnsBoth
	case wants["service"]:
		columns = linkColumnsService
	case wants["professional"]:
		columns = linkColumnsProfessional
	}

	q := postgrest.NewQuery().Select(columns)
	if serviceID := query.Get("service_id"); serviceID != "" {
		q = q.Eq("service_id", serviceID)
	}
	if professionalID := query.Get("professional_id"); professionalID != "" {
		q = q.Eq("professional_id", professionalID)
	}

	h.relay(w, r, "service_professional", q)
}

func (h *Handler) relay(w http.ResponseWriter, r *http.Request, table string, q postgrest.Query) {
	resp, err := h.client.Fetch(r.Context(), table, q, r.Header.Get("Authorization"))
	if err != nil {
		h.logger.Error("relay failed", "table", table, "error", err)
		httpapi.Error(w, http.StatusInternalServerError, httpapi.KindInternalError, "internal_error")
		return
	}
	httpapi.Relay(w, resp.Status, resp.Body)
}

// queryValue distinguishes an absent parameter from an empty one.
func queryValue(r *http.Request, key string) (string, bool) {
	values, ok := r.URL.Query()[key]
	if !ok || len(values) == 0 {
		return "", false
	}
	return values[0], true
}

// normalizeBool maps the accepted true/false/1/0 spellings; anything else
// passes through for the store to reject.
func normalizeBool(v string) string {
	switch v {
	case "true", "1":
		return "true"
	case "false", "0":
		return "false"
	}
	return v
}
