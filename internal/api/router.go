package api

import (
	"campus-activity-service/internal/api/handlers"
	"campus-activity-service/internal/services"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Deps struct {
	Events *services.EventService
	Auth   *services.AuthService
	Users  *services.UserService
	Nearby *handlers.NearbyHandler
	// Optional; /health pings it when set.
	Store handlers.Pinger
}

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(deps Deps) http.Handler {
	mux := http.NewServeMux()

	eventHandler := &handlers.EventHandler{Service: deps.Events}
	authHandler := &handlers.AuthHandler{Service: deps.Auth}
	healthHandler := &handlers.HealthHandler{Store: deps.Store}

	mux.HandleFunc("/health", healthHandler.Health)
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/api/events", requireAuth(deps.Auth, http.HandlerFunc(eventHandler.Events)))
	mux.HandleFunc("/api/signup", authHandler.Signup)
	mux.HandleFunc("/api/login", authHandler.Login)

	if deps.Users != nil {
		userHandler := &handlers.UserHandler{Service: deps.Users}
		mux.Handle("/api/users", requireAuth(deps.Auth, http.HandlerFunc(userHandler.Users)))
		mux.Handle("/api/users/{id}", requireAuth(deps.Auth, http.HandlerFunc(userHandler.User)))
	}

	if deps.Nearby != nil {
		mux.HandleFunc("/api/nearby", deps.Nearby.Nearby)
		mux.HandleFunc("/api/map", deps.Nearby.Map)
	}

	return requestIDMiddleware(metricsMiddleware(loggingMiddleware(mux)))
}
