// Package server is the comparison presentation layer: a chi router
// serving a two-player comparison form and a JSON API over the rating
// service.
package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/courtsource/hooprank/internal/config"
	"github.com/courtsource/hooprank/internal/model"
	"github.com/courtsource/hooprank/internal/service"
	"github.com/courtsource/hooprank/internal/store"
)

// Server wires the rating service to HTTP.
type Server struct {
	ratings *service.Ratings
	store   store.Store
	cfg     config.ServerConfig
}

// New creates a Server. st may be nil (no history endpoint data, health
// reports store disabled).
func New(ratings *service.Ratings, st store.Store, cfg config.ServerConfig) *Server {
	return &Server{ratings: ratings, store: st, cfg: cfg}
}

// Router builds the chi router with middleware and all routes.
func (s *Server) Router() *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.cfg.CORSOrigins,
		AllowedMethods: []string{"GET", "HEAD", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Get("/", s.handleIndex)
	r.Get("/health", s.handleHealth)
	r.Get("/health/store", s.handleStoreHealth)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/rating", s.handleRating)
		r.Get("/compare", s.handleCompare)
		r.Get("/comparisons", s.handleComparisons)
		r.Get("/profiles", s.handleProfiles)
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"store":  s.store != nil,
	})
}

func (s *Server) handleStoreHealth(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		respondJSON(w, http.StatusOK, map[string]any{"status": "disabled"})
		return
	}
	if _, err := s.store.ListSeasons(r.Context()); err != nil {
		respondJSON(w, http.StatusServiceUnavailable, map[string]any{
			"status": "unreachable",
			"error":  eris.ToString(err, false),
		})
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}

func (s *Server) handleRating(w http.ResponseWriter, r *http.Request) {
	player := r.URL.Query().Get("player")
	if player == "" {
		respondError(w, http.StatusBadRequest, eris.New("player is required"))
		return
	}
	season, err := s.parseSeason(r.URL.Query().Get("season"))
	if err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	profile := r.URL.Query().Get("profile")

	result, err := s.ratings.Rate(r.Context(), player, season, profile)
	if err != nil {
		respondError(w, statusFor(err), err)
		return
	}
	respondJSON(w, http.StatusOK, result.Rounded())
}

func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	playerA, playerB := q.Get("player_a"), q.Get("player_b")
	if playerA == "" || playerB == "" {
		respondError(w, http.StatusBadRequest, eris.New("player_a and player_b are required"))
		return
	}
	seasonA, err := s.parseSeason(q.Get("season_a"))
	if err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	seasonB, err := s.parseSeason(q.Get("season_b"))
	if err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	cmp, err := s.ratings.Compare(r.Context(), playerA, seasonA, playerB, seasonB, q.Get("profile"))
	if err != nil {
		respondError(w, statusFor(err), err)
		return
	}
	respondJSON(w, http.StatusOK, roundComparison(cmp))
}

func (s *Server) handleComparisons(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		respondError(w, http.StatusNotFound, eris.New("no store configured"))
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	cmps, err := s.store.ListComparisons(r.Context(), limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"comparisons": cmps})
}

func (s *Server) handleProfiles(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"profiles": s.ratings.Registry().Names(),
	})
}

// parseSeason validates the UI-level season bounds. The core does not
// enforce these; the presentation layer does.
func (s *Server) parseSeason(raw string) (int, error) {
	season, err := strconv.Atoi(raw)
	if err != nil {
		return 0, eris.Errorf("season %q is not a number", raw)
	}
	if season < s.cfg.SeasonFloor || season > s.cfg.SeasonCeil {
		return 0, eris.Errorf("season %d outside supported range %d-%d", season, s.cfg.SeasonFloor, s.cfg.SeasonCeil)
	}
	return season, nil
}

// roundComparison applies display rounding to both sides.
func roundComparison(cmp *model.Comparison) *model.Comparison {
	out := *cmp
	if out.A.Result != nil {
		r := out.A.Result.Rounded()
		out.A.Result = &r
	}
	if out.B.Result != nil {
		r := out.B.Result.Rounded()
		out.B.Result = &r
	}
	return &out
}

// statusFor maps the error taxonomy to HTTP status codes.
func statusFor(err error) int {
	switch {
	case eris.Is(err, model.ErrPlayerNotFound):
		return http.StatusNotFound
	case eris.Is(err, model.ErrBaselineUndefined):
		return http.StatusUnprocessableEntity
	case eris.Is(err, model.ErrFetchFailed):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Error("encode response", zap.Error(err))
	}
}

func respondError(w http.ResponseWriter, status int, err error) {
	respondJSON(w, status, map[string]string{"error": eris.ToString(err, false)})
}
