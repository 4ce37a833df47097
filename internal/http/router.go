package http

import (
	"log/slog"
	"net/http"
	"slices"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/pribylovaa/bookly/internal/auth"
	"github.com/pribylovaa/bookly/internal/http/handlers"
	"github.com/pribylovaa/bookly/internal/http/middleware"
	"github.com/pribylovaa/bookly/internal/metrics"
	"github.com/pribylovaa/bookly/internal/models"
	"github.com/pribylovaa/bookly/internal/service"
)

// Options — параметры сборки HTTP-роутера.
type Options struct {
	Logger       *slog.Logger
	Timeout      time.Duration
	BasePath     string // например, "/api/v1"; если пустой — роуты регистрируются на корне.
	TrustedHosts []string
	CORSOrigins  []string
	Metrics      *metrics.Metrics
}

// guards — заранее собранные цепочки проверки доступа.
type guards struct {
	access  middleware.Middleware
	refresh middleware.Middleware
	roles   middleware.Middleware
}

// corsOptions настраивает CORS. "*" в списке разрешает любой origin, но
// в ответ отражается сам origin запроса: браузеры не принимают
// Allow-Origin "*" вместе с Allow-Credentials.
func corsOptions(origins []string) cors.Options {
	o := cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{middleware.HeaderRequestID},
		AllowCredentials: true,
		MaxAge:           300,
	}

	if slices.Contains(origins, "*") {
		o.AllowedOrigins = nil
		o.AllowOriginFunc = func(*http.Request, string) bool { return true }
	}

	return o
}

// NewRouter собирает http.Handler с chi и подключёнными middleware/роутами.
func NewRouter(svc *service.Service, authn *auth.Authenticator, opts Options) http.Handler {
	root := chi.NewRouter()

	// Middleware (внешний -> внутренний).
	root.Use(
		middleware.Recover(),
		middleware.RequestID(), // до логирования: id попадает в attrs
		middleware.Logging(opts.Logger),
		middleware.Metrics(opts.Metrics),
		middleware.TrustedHost(opts.TrustedHosts),
		cors.Handler(corsOptions(opts.CORSOrigins)),
	)
	if opts.Timeout > 0 {
		root.Use(middleware.Timeout(opts.Timeout))
	}

	root.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"message":"Hello World!"}` + "\n"))
	})

	h := handlers.New(svc)
	g := guards{
		access:  middleware.Authenticate(authn, auth.Access, opts.Metrics),
		refresh: middleware.Authenticate(authn, auth.Refresh, opts.Metrics),
		roles:   middleware.RequireRoles(svc, opts.Metrics, string(models.RoleAdmin), string(models.RoleUser)),
	}

	if opts.BasePath != "" && opts.BasePath != "/" {
		sub := chi.NewRouter()
		registerRoutes(sub, h, g)
		root.Mount(opts.BasePath, sub)
		return root
	}

	registerRoutes(root, h, g)
	return root
}

// registerRoutes — единая точка регистрации всех REST-эндпойнтов.
func registerRoutes(r chi.Router, h *handlers.Handlers, g guards) {
	// auth
	r.Route("/auth", func(r chi.Router) {
		r.Post("/signup", h.Signup)
		r.Get("/verify/{token}", h.VerifyAccount)
		r.Post("/login", h.Login)
		r.With(g.access).Get("/me", h.Me)
		r.With(g.refresh).Get("/refresh", h.Refresh)
		r.With(g.access).Get("/logout", h.Logout)
		r.Post("/reset-password-request", h.RequestPasswordReset)
		r.Post("/password-reset/{token}", h.ResetPassword)
	})

	// books
	r.Route("/books", func(r chi.Router) {
		r.Use(g.access, g.roles)

		r.Get("/", h.ListBooks)
		r.Post("/", h.CreateBook)
		r.Get("/users/{user_id}", h.BooksByUser)
		r.Get("/{id}", h.GetBook)
		r.Patch("/{id}", h.UpdateBook)
		r.Delete("/{id}", h.DeleteBook)
		r.Post("/{id}/cover/presign", h.CoverPresign)
		r.Post("/{id}/cover/confirm", h.CoverConfirm)
	})

	// reviews
	r.Route("/reviews", func(r chi.Router) {
		r.Use(g.access, g.roles)

		r.Get("/", h.ListReviews)
		r.Post("/books/{book_id}", h.CreateReview)
		r.Get("/{id}", h.GetReview)
		r.Patch("/{id}", h.UpdateReview)
		r.Delete("/{id}", h.DeleteReview)
	})
}
