package router

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/dmas-wbpl/sonicwall/internal/api/http/handler"
	"github.com/dmas-wbpl/sonicwall/internal/api/http/middleware"
	"github.com/dmas-wbpl/sonicwall/internal/logger"
)

// New builds the HTTP router with all API routes and middleware.
func New(
	authService handler.AuthService,
	reportService handler.ReportService,
	logger *logger.Logger,
) *mux.Router {
	authHandler := handler.NewAuth(authService, logger)
	securityHandler := handler.NewSecurity(reportService, logger)
	logging := middleware.NewLogging(logger)

	r := mux.NewRouter()
	r.Use(logging.Handle)

	r.HandleFunc("/", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"message": "SonicWall API"}`))
	}).Methods(http.MethodGet)

	r.HandleFunc("/api/sonicos/auth/", authHandler.Login).Methods(http.MethodPost)
	r.HandleFunc("/api/sonicos/auth/", authHandler.Logout).Methods(http.MethodDelete)

	security := r.PathPrefix("/api/v1/security").Subrouter()
	security.HandleFunc("/services/status", securityHandler.SecurityServicesStatus).Methods(http.MethodGet)
	security.HandleFunc("/gateway-av/status", securityHandler.GatewayAntivirusStatus).Methods(http.MethodGet)
	security.HandleFunc("/ips/status", securityHandler.IntrusionPreventionStatus).Methods(http.MethodGet)
	security.HandleFunc("/botnet/status", securityHandler.BotnetStatus).Methods(http.MethodGet)
	security.HandleFunc("/anti-spyware/status", securityHandler.AntiSpywareStatus).Methods(http.MethodGet)
	security.HandleFunc("/content-filtering/status", securityHandler.ContentFilteringStatus).Methods(http.MethodGet)

	return r
}
