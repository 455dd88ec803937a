package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"server/internal/http/handlers"
	"server/internal/infra"
	"server/internal/middleware"
)

// NewRouter assembles the HTTP API.
func NewRouter(app *handlers.App, cfg *infra.Config) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.RequestID,
		chimw.RealIP,
		chimw.Recoverer,
		middleware.Logger(app.Logger),
		middleware.RateLimit(cfg.RateLimitPerMin, time.Minute),
	)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/v1/healthz", app.Health)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/signup", app.AuthSignup)
		r.Post("/login", app.AuthLogin)
	})

	r.Route("/campaigns", func(r chi.Router) {
		// Public reads: anyone can browse campaigns and their donations.
		r.Get("/", app.CampaignsListActive)
		r.Get("/{id}", app.CampaignsGet)
		r.Get("/{id}/donations", app.CampaignsDonations)
		r.Get("/{id}/chain", app.CampaignsChainState)
		r.Post("/{id}/sync", app.CampaignsSync)

		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthJWT(app.JWTSecret))
			r.Post("/", app.CampaignsCreate)
			r.Get("/mine", app.CampaignsMine)
		})
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthJWT(app.JWTSecret))

		r.Get("/me", app.Me)

		r.Route("/donations", func(r chi.Router) {
			r.Post("/", app.DonationsRecord)
			r.Get("/mine", app.DonationsMine)
		})

		r.Route("/wallets", func(r chi.Router) {
			r.Post("/connect", app.WalletsConnect)
			r.Get("/me", app.WalletsMe)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.RequireAdmin)
			r.Get("/users", app.AdminUsers)
			r.Put("/users/{id}/block", app.AdminBlockUser)
			r.Put("/users/{id}/unblock", app.AdminUnblockUser)
			r.Get("/campaigns", app.AdminCampaigns)
			r.Delete("/campaigns/{id}", app.AdminCancelCampaign)
		})
	})

	return r
}
