package rest

import (
	"net/http"

	"github.com/lexleague/lexleague-backend/internal/transport/middleware"
)

// Handlers collects every handler the router mounts.
type Handlers struct {
	Health      *HealthHandler
	Collect     *CollectHandler
	Review      *ReviewHandler
	Student     *StudentHandler
	Quest       *QuestHandler
	Badge       *BadgeHandler
	Duel        *DuelHandler
	Leaderboard *LeaderboardHandler
	Boost       *BoostHandler
}

// NewRouter assembles the HTTP mux. Health probes are served bare; the
// /api/v1 subtree goes through apiMW, so CORS preflights and auth apply
// there only.
func NewRouter(h Handlers, apiMW middleware.Middleware) http.Handler {
	api := http.NewServeMux()

	api.HandleFunc("POST /api/v1/entries", h.Collect.Create)
	api.HandleFunc("GET /api/v1/entries", h.Collect.List)

	api.HandleFunc("GET /api/v1/review/due", h.Review.Due)
	api.HandleFunc("POST /api/v1/review/items/{id}/rating", h.Review.SubmitRating)
	api.HandleFunc("GET /api/v1/review/analytics", h.Review.Analytics)

	api.HandleFunc("GET /api/v1/me/overview", h.Student.Overview)

	api.HandleFunc("GET /api/v1/quests", h.Quest.Active)
	api.HandleFunc("GET /api/v1/challenges/today", h.Quest.Today)

	api.HandleFunc("GET /api/v1/badges", h.Badge.List)

	api.HandleFunc("POST /api/v1/duels", h.Duel.Create)
	api.HandleFunc("GET /api/v1/duels/joinable", h.Duel.Joinable)
	api.HandleFunc("GET /api/v1/duels/history", h.Duel.History)
	api.HandleFunc("GET /api/v1/duels/{id}", h.Duel.State)
	api.HandleFunc("POST /api/v1/duels/{id}/join", h.Duel.Join)
	api.HandleFunc("POST /api/v1/duels/{id}/start", h.Duel.Start)
	api.HandleFunc("POST /api/v1/duels/{id}/answers", h.Duel.Answer)
	api.HandleFunc("POST /api/v1/duels/{id}/finalize", h.Duel.Finalize)

	api.HandleFunc("GET /api/v1/leaderboard", h.Leaderboard.Competition)
	api.HandleFunc("GET /api/v1/leaderboard/teams", h.Leaderboard.Teams)

	api.HandleFunc("POST /api/v1/boosts", h.Boost.Publish)

	root := http.NewServeMux()
	root.HandleFunc("GET /live", h.Health.Live)
	root.HandleFunc("GET /ready", h.Health.Ready)
	root.HandleFunc("GET /health", h.Health.Health)
	root.Handle("/api/v1/", apiMW(api))

	return root
}
