package http

import (
	nethttp "net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"nba-season-engine/internal/http/handlers"
)

// NewRouter registers all routes on a chi router.
func NewRouter(handler *handlers.Handler) nethttp.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		MaxAge:         300,
	}))

	r.Get("/health", handler.Health)
	r.Get("/ready", handler.Ready)

	r.Route("/api", func(r chi.Router) {
		r.Post("/team/select", handler.SelectTeam)
		r.Post("/advance", handler.Advance)
		r.Get("/status", handler.Status)
		r.Get("/schedule", handler.Schedule)
		r.Get("/scores/recent", handler.RecentScores)
		r.Get("/standings", handler.Standings)
		r.Get("/stats/leaders", handler.StatsLeaders)
		r.Get("/stats/playoff-leaders", handler.PlayoffLeaders)
		r.Get("/teams", handler.Teams)
		r.Get("/teams/{teamID}", handler.TeamDetail)
		r.Get("/news/week", handler.WeeklyNews)
		r.Get("/news/playoffs", handler.PlayoffNews)
		r.Get("/news/recent", handler.RecentNews)

		r.Get("/tactics", handler.GetTactics)
		r.Put("/tactics", handler.UpdateTactics)

		r.Route("/postseason", func(r chi.Router) {
			r.Post("/setup", handler.PostseasonSetup)
			r.Post("/reset", handler.PostseasonReset)
			r.Get("/state", handler.PostseasonState)
			r.Post("/play-in/my-team-game", handler.PlayInGame)
			r.Post("/playoffs/advance-my-team-game", handler.SeriesGame)
			r.Post("/playoffs/auto-advance-round", handler.AutoAdvanceRound)
		})
	})

	return r
}
