// It defines the API server, sets up the routes (endpoints)
// using chi, and links them to the handler functions.

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"

	"github.com/cineniche/cineniche/internal/core"
	"github.com/cineniche/cineniche/internal/store"
	"github.com/cineniche/cineniche/internal/websocket"
)

// Server holds the dependencies for our API.
type Server struct {
	app    *core.App
	store  *store.Store
	router http.Handler
}

// Store returns the store instance.
func (s *Server) Store() *store.Store {
	return s.store
}

// App returns the application the server was built from.
func (s *Server) App() *core.App {
	return s.app
}

// NewServer creates a new Server instance.
func NewServer(app *core.App) *Server {
	s := &Server{
		app:   app,
		store: app.Store(),
	}
	s.router = s.routes()
	return s
}

// Router returns the main router for the application.
func (s *Server) Router() http.Handler {
	return s.router
}

func (s *Server) routes() http.Handler {
	cfg := s.app.Config()
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestLogger(&middleware.DefaultLogFormatter{Logger: log.StandardLogger(), NoColor: true}))
	r.Use(middleware.Recoverer) // Recovers from panics
	r.Use(metricsMiddleware)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(s.SessionMiddleware)

	// Catalog, in the flat legacy shape.
	r.Get("/MovieTitles", s.handleGetMovieTitles)
	r.Get("/movietitles", s.handleGetMovieTitles)
	r.Group(func(r chi.Router) {
		r.Use(s.RequireAuth, s.AdminOnlyMiddleware)
		r.Get("/MovieRatings", s.handleGetMovieRatings)
		r.Get("/movieratings", s.handleGetMovieRatings)
	})

	// Session endpoints
	r.Group(func(r chi.Router) {
		if limit := cfg.Session.LoginRateLimit; limit > 0 {
			r.Use(httprate.LimitByIP(limit, time.Minute))
		}
		r.Post("/login", s.handleLogin)
		r.Post("/register", s.handleRegister)
	})
	r.Post("/logout", s.handleLogout)
	r.With(s.RequireAuth).Get("/user/info", s.handleUserInfo)

	r.Get("/posters/{slug}", s.handleGetPoster)

	r.Route("/api", func(r chi.Router) {
		r.Get("/version", s.handleGetVersion)
		r.Get("/health", s.handleHealth)

		// View models
		r.Get("/genres", s.handleListGenres)
		r.Get("/browse", s.handleBrowse)
		r.Get("/search", s.handleSearch)
		r.Get("/titles/{slug}", s.handleGetTitle)

		r.Group(func(r chi.Router) {
			r.Use(s.RequireAuth)

			// Recommendation pass-through
			r.Get("/BrowseRecommendations/{userId}", s.handleBrowseRecommendations)
			r.Get("/BrowseRecommendations/genre/{genre}/{userId}", s.handleBrowseGenreRecommendations)
			r.Get("/DetailsRecommendation/{kind}/{showId}", s.handleDetailsRecommendation)

			// Ratings
			r.Get("/ratings/{userId}/{showId}", s.handleGetRating)
			r.Post("/ratings", s.handleSaveRating)

			r.Route("/admin", func(r chi.Router) {
				r.Use(s.AdminOnlyMiddleware)

				r.Get("/jobs/status", s.handleGetAdminJobsStatus)
				r.Post("/jobs/run", s.handleRunAdminJob)

				r.Get("/titles", s.handleAdminListTitles)
				r.Post("/titles", s.handleAdminCreateTitle)
				r.Put("/titles/{showId}", s.handleAdminUpdateTitle)
				r.Delete("/titles/{showId}", s.handleAdminDeleteTitle)

				r.Get("/users", s.handleAdminListUsers)
				r.Post("/users", s.handleAdminCreateUser)
				r.Put("/users/{userID}", s.handleAdminUpdateUser)
				r.Delete("/users/{userID}", s.handleAdminDeleteUser)
			})
		})
	})

	// WebSocket route
	r.With(s.RequireAuth, s.AdminOnlyMiddleware).Get("/ws/admin/progress", func(w http.ResponseWriter, r *http.Request) {
		websocket.ServeWs(s.app.WsHub(), w, r)
	})

	r.Handle("/metrics", promhttp.Handler())

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.app.DB().PingContext(r.Context()); err != nil {
		RespondWithError(w, http.StatusServiceUnavailable, "Database connection failed")
		return
	}
	RespondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
