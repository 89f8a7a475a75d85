package api

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	"github.com/koga-04/diet-app/internal/config"
	"github.com/koga-04/diet-app/internal/planner"
	"github.com/koga-04/diet-app/internal/service"
)

// Server holds the shared dependencies of the JSON API.
type Server struct {
	db       *sql.DB
	asker    *service.Asker
	sessions *service.SessionManager
	gen      planner.Generator
	profile  *config.Profile
}

func NewServer(sqldb *sql.DB, asker *service.Asker, sessions *service.SessionManager, gen planner.Generator, profile *config.Profile) *Server {
	return &Server{
		db:       sqldb,
		asker:    asker,
		sessions: sessions,
		gen:      gen,
		profile:  profile,
	}
}

// Router builds the full route tree. Every route lives under /api/v1.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	corsMiddleware := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	})
	r.Use(corsMiddleware.Handler)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/meals", s.listMeals)
		r.Post("/meals", s.createMeal)
		r.Delete("/meals/{id}", s.deleteMeal)
		r.Put("/meals/{id}/favorite", s.setFavorite)

		r.Get("/supplements/presets", s.listSupplementPresets)
		r.Post("/supplements", s.logSupplement)
		r.Post("/hydration", s.logHydration)

		r.Get("/exercises", s.listExercises)
		r.Post("/exercises", s.createExercise)
		r.Delete("/exercises/{id}", s.deleteExercise)

		r.Post("/ask", s.ask)
		r.Post("/advise", s.advise)

		r.Post("/analyze", s.startAnalysis)
		r.Post("/analyze/{id}/correct", s.correctAnalysis)
		r.Post("/analyze/{id}/confirm", s.confirmAnalysis)
		r.Delete("/analyze/{id}", s.discardAnalysis)
	})

	return r
}
