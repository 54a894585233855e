package http

import (
	"net/http"
	"strings"
	"time"

	"contacts/internal/service"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	obsmw "contacts/internal/observability/middleware"
)

type RouterConfig struct {
	CORSOrigins string // comma-separated; empty means allow all
	RateLimit   int    // requests per minute per IP; 0 disables
}

func NewRouter(
	cfg RouterConfig,
	auth *AuthHandler,
	users *UserHandler,
	contacts *ContactHandler,
	resolver service.SessionResolver,
) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(obsmw.WithRequestID)
	r.Use(RecordMetrics)

	if cfg.RateLimit > 0 {
		r.Use(httprate.LimitByIP(cfg.RateLimit, time.Minute))
	}

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   splitOrigins(cfg.CORSOrigins),
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", auth.Register)
			r.Post("/login", auth.Login)
			r.Get("/confirmed_email/{token}", auth.ConfirmEmail)
			r.Post("/request_email", auth.RequestEmail)
			r.Post("/password-reset-request", auth.RequestPasswordReset)
			r.Post("/password-reset/{token}", auth.ResetPassword)
		})

		r.Group(func(r chi.Router) {
			r.Use(RequireAuth(resolver))

			r.Route("/users", func(r chi.Router) {
				r.Get("/me", users.Me)
				r.Put("/avatar", users.UpdateAvatar)
			})

			r.Route("/contacts", func(r chi.Router) {
				r.Get("/", contacts.List)
				r.Post("/", contacts.Create)
				r.Get("/search", contacts.Search)
				r.Get("/birthdays", contacts.UpcomingBirthdays)
				r.Get("/{id}", contacts.Get)
				r.Put("/{id}", contacts.Update)
				r.Delete("/{id}", contacts.Delete)
			})
		})
	})

	return r
}

func splitOrigins(in string) []string {
	var out []string
	for _, o := range strings.Split(in, ",") {
		if s := strings.TrimSpace(o); s != "" {
			out = append(out, s)
		}
	}
	// Empty list tells the CORS lib "disallow all"; default open for dev.
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}
