package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/vya-logistics/vya-backend/internal/api/handlers"
	"github.com/vya-logistics/vya-backend/internal/config"
	"github.com/vya-logistics/vya-backend/internal/metrics"
	"github.com/vya-logistics/vya-backend/internal/middleware"
	"github.com/vya-logistics/vya-backend/internal/models"
)

type Deps struct {
	Cfg           config.Config
	Auth          *middleware.AuthMiddleware
	AuthHandler   *handlers.AuthHandler
	Packages      *handlers.PackageHandler
	Trips         *handlers.TripHandler
	Wallet        *handlers.WalletHandler
	Webhook       *handlers.WebhookHandler
	Notifications *handlers.NotificationHandler
	Admin         *handlers.AdminHandler
}

func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.Recover, middleware.HTTPMetrics, middleware.RateLimit(d.Cfg.RateRPS))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) { _, _ = w.Write([]byte("ok")) })
	r.Handle("/metrics", metrics.Handler())

	// Gateway callbacks authenticate via shared-secret header, not JWT.
	r.Post("/webhooks/asaas", d.Webhook.Asaas)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/register", d.AuthHandler.Register)
		r.Post("/auth/login", d.AuthHandler.Login)
		r.Post("/auth/refresh", d.AuthHandler.Refresh)

		r.Group(func(r chi.Router) {
			r.Use(d.Auth.Auth)

			r.Post("/packages", d.Packages.Create)
			r.Get("/packages", d.Packages.ListMine)
			r.Get("/packages/available", d.Packages.ListAvailable)
			r.Post("/packages/{id}/charge", d.Packages.InitiateCharge)
			r.Post("/packages/{id}/status", d.Packages.UpdateStatus)

			r.Post("/trips", d.Trips.Create)
			r.Get("/trips", d.Trips.ListMine)

			r.Get("/wallet", d.Wallet.Current)
			r.Post("/wallet/withdraw", d.Wallet.Withdraw)
			r.Get("/wallet/transactions", d.Wallet.History)

			r.Get("/notifications", d.Notifications.ListMine)
			r.Post("/notifications/{id}/read", d.Notifications.MarkRead)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(models.RoleAdmin))
				r.Get("/admin/users", d.Admin.ListUsers)
				r.Put("/admin/config/platform-fee", d.Admin.SetPlatformFee)
			})
		})
	})

	return r
}
