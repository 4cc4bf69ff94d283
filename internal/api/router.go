package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/garageops/garage-scheduling/internal/garage"
)

type RouterConfig struct {
	Service *garage.Service
	PgPool  *pgxpool.Pool
	Redis   *redis.Client
	Env     string
	Version string
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Apply middleware
	r.Use(RequestIDMiddleware)
	r.Use(LoggingMiddleware)

	// Health endpoints
	health := NewHealthHandler(cfg.PgPool, cfg.Redis, cfg.Env, cfg.Version)
	r.Get("/health/live", health.Liveness)
	r.Get("/health/ready", health.Readiness)

	r.Route("/api", func(r chi.Router) {
		// Appointment endpoints
		r.Post("/appointments", createAppointmentHandler(cfg.Service))
		r.Get("/appointments/by-day", listAppointmentsByDayHandler(cfg.Service))
		r.Get("/appointments/client/{clientID}", listAppointmentsByClientHandler(cfg.Service))
		r.Get("/appointments/{id}", getAppointmentHandler(cfg.Service))
		r.Put("/appointments/{id}", updateAppointmentHandler(cfg.Service))
		r.Delete("/appointments/{id}", deleteAppointmentHandler(cfg.Service))

		// Classified day grid for the slot picker and dashboard
		r.Get("/schedule/day", dayScheduleHandler(cfg.Service))

		// Client endpoints
		r.Post("/clients", createClientHandler(cfg.Service))
		r.Get("/clients", listClientsHandler(cfg.Service))
		r.Get("/clients/search", searchClientsHandler(cfg.Service))
		r.Get("/clients/{id}", getClientHandler(cfg.Service))
		r.Put("/clients/{id}", updateClientHandler(cfg.Service))
		r.Delete("/clients/{id}", deleteClientHandler(cfg.Service))
		r.Get("/clients/{id}/cars", listClientCarsHandler(cfg.Service))

		// Car endpoints
		r.Post("/cars", createCarHandler(cfg.Service))
		r.Get("/cars/{id}", getCarHandler(cfg.Service))
		r.Put("/cars/{id}", updateCarHandler(cfg.Service))
		r.Delete("/cars/{id}", deleteCarHandler(cfg.Service))
	})

	return r
}
