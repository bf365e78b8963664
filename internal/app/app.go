// Package app wires configuration, storage and handlers into the HTTP router.
package app

import (
	"database/sql"
	"net/http"

	"github.com/crucial707/todo-api/internal/auth"
	"github.com/crucial707/todo-api/internal/config"
	"github.com/crucial707/todo-api/internal/handlers"
	"github.com/crucial707/todo-api/internal/middleware"
	"github.com/crucial707/todo-api/internal/repo"
	"github.com/crucial707/todo-api/internal/service"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// App holds the components shared by every request. Build it once with New.
type App struct {
	Config config.Config
	DB     *sql.DB
	Tokens *auth.TokenService
	Users  *service.UserDirectory
	Todos  *service.TodoStore
}

func New(db *sql.DB, cfg config.Config) *App {
	return &App{
		Config: cfg,
		DB:     db,
		Tokens: auth.NewTokenService([]byte(cfg.JWTSecret), cfg.JWTIssuer, cfg.TokenTTL()),
		Users:  service.NewUserDirectory(repo.NewUserRepo(db)),
		Todos:  service.NewTodoStore(db),
	}
}

// Router returns the HTTP handler serving the whole API.
func (a *App) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLog)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Prometheus)
	r.Use(middleware.SecurityHeaders(a.Config.TLSCertFile != ""))
	if len(a.Config.CORSAllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   a.Config.CORSAllowedOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
			ExposedHeaders:   []string{"X-Request-Id"},
			AllowCredentials: false,
			MaxAge:           300,
		}))
	}

	r.NotFound(handlers.NotFound)
	r.MethodNotAllowed(handlers.MethodNotAllowed)

	home := &handlers.HomeHandler{DB: a.DB}
	authH := &handlers.AuthHandler{Users: a.Users, Tokens: a.Tokens}
	todoH := &handlers.TodoHandler{Store: a.Todos}
	limitBody := middleware.MaxBytes(a.Config.MaxBodyBytes)

	r.Get("/", home.Home)
	r.Get("/health", home.Health)
	r.Get("/ready", home.Ready)
	r.Handle("/metrics", promhttp.Handler())

	r.With(limitBody).Post("/register", authH.Register)
	r.With(limitBody).Post("/login", authH.Login)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(a.Tokens))

		r.Get("/me", authH.Me)

		r.Route("/todos", func(r chi.Router) {
			r.Get("/", todoH.ListTodos)
			r.With(limitBody).Post("/", todoH.CreateTodo)
			r.Get("/{id:[0-9]+}", todoH.GetTodo)
			r.With(limitBody).Put("/{id:[0-9]+}", todoH.UpdateTodo)
			r.Delete("/{id:[0-9]+}", todoH.DeleteTodo)
		})
	})

	return r
}
