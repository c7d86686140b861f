package handler

import (
	"context"
	"net/http"

	"github.com/dmas-wbpl/sonicwall/internal/logger"
	"github.com/dmas-wbpl/sonicwall/internal/model"
)

// ReportService proxies status queries to the firewall.
type ReportService interface {
	SecurityServicesStatus(ctx context.Context) (model.ReportPayload, error)
	GatewayAntivirusStatus(ctx context.Context) (model.ReportPayload, error)
	IntrusionPreventionStatus(ctx context.Context) (model.ReportPayload, error)
	BotnetStatus(ctx context.Context) (model.ReportPayload, error)
	AntiSpywareStatus(ctx context.Context) (model.ReportPayload, error)
	ContentFilteringStatus(ctx context.Context) (model.ContentFilteringStatus, error)
}

// Security handles the firewall status endpoints.
type Security struct {
	reportService ReportService
	logger        *logger.Logger
}

// NewSecurity creates a new Security handler.
func NewSecurity(reportService ReportService, logger *logger.Logger) *Security {
	return &Security{
		reportService: reportService,
		logger:        logger,
	}
}

// requireAuth rejects requests without credentials before any upstream
// round trip is made.
func (h *Security) requireAuth(w http.ResponseWriter, r *http.Request) bool {
	if r.Header.Get("Authorization") == "" {
		w.Header().Set("WWW-Authenticate", "Digest")
		writeJSON(w, http.StatusUnauthorized, detailResponse{Detail: "authentication required"})
		return false
	}
	return true
}

func (h *Security) serveReport(w http.ResponseWriter, r *http.Request, name string, query func(context.Context) (model.ReportPayload, error)) {
	if !h.requireAuth(w, r) {
		return
	}

	payload, err := query(r.Context())
	if err != nil {
		h.logger.Error("Security handler: report failed",
			"report", name,
			"error", err.Error())
		writeError(w, "", err)
		return
	}

	writeJSON(w, http.StatusOK, payload)
}

func (h *Security) SecurityServicesStatus(w http.ResponseWriter, r *http.Request) {
	h.serveReport(w, r, "security-services", h.reportService.SecurityServicesStatus)
}

func (h *Security) GatewayAntivirusStatus(w http.ResponseWriter, r *http.Request) {
	h.serveReport(w, r, "gateway-antivirus", h.reportService.GatewayAntivirusStatus)
}

func (h *Security) IntrusionPreventionStatus(w http.ResponseWriter, r *http.Request) {
	h.serveReport(w, r, "intrusion-prevention", h.reportService.IntrusionPreventionStatus)
}

func (h *Security) BotnetStatus(w http.ResponseWriter, r *http.Request) {
	h.serveReport(w, r, "botnet", h.reportService.BotnetStatus)
}

func (h *Security) AntiSpywareStatus(w http.ResponseWriter, r *http.Request) {
	h.serveReport(w, r, "anti-spyware", h.reportService.AntiSpywareStatus)
}

func (h *Security) ContentFilteringStatus(w http.ResponseWriter, r *http.Request) {
	if !h.requireAuth(w, r) {
		return
	}

	status, err := h.reportService.ContentFilteringStatus(r.Context())
	if err != nil {
		h.logger.Error("Security handler: report failed",
			"report", "content-filtering",
			"error", err.Error())
		writeError(w, "", err)
		return
	}

	writeJSON(w, http.StatusOK, status)
}
