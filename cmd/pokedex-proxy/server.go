package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/Sternrassler/pokedex-client/pkg/client"
	"github.com/Sternrassler/pokedex-client/pkg/logging"
	"github.com/Sternrassler/pokedex-client/pkg/metrics"
	"github.com/Sternrassler/pokedex-client/pkg/pokedex"
	"github.com/Sternrassler/pokedex-client/pkg/profile"
	"github.com/Sternrassler/pokedex-client/pkg/session"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"
)

// upstreamTimeout bounds the PokeAPI work done for one inbound request.
const upstreamTimeout = 30 * time.Second

type pokedexService interface {
	FetchList(ctx context.Context, limit int) ([]pokedex.DisplayItem, error)
	FetchDetail(ctx context.Context, id int) (*pokedex.DisplayDetail, error)
}

type profileStore interface {
	GetProfile(ctx context.Context, id *profile.Identity) (*profile.Profile, error)
	SaveTeam(ctx context.Context, id *profile.Identity, team string) error
	Ping(ctx context.Context) error
}

type identityKey struct{}

// Server holds the HTTP server dependencies.
type Server struct {
	pokedex   pokedexService
	profiles  profileStore
	verifier  *session.Verifier
	listLimit int
	origins   []string
	router    chi.Router
	logger    zerolog.Logger
}

// ServerOptions configures a Server.
type ServerOptions struct {
	Pokedex        pokedexService
	Profiles       profileStore
	Verifier       *session.Verifier
	ListLimit      int
	AllowedOrigins []string
}

// NewServer creates the API server and its routes.
func NewServer(opts ServerOptions) *Server {
	limit := opts.ListLimit
	if limit <= 0 {
		limit = pokedex.DefaultListLimit
	}

	s := &Server{
		pokedex:   opts.Pokedex,
		profiles:  opts.Profiles,
		verifier:  opts.Verifier,
		listLimit: limit,
		origins:   opts.AllowedOrigins,
		router:    chi.NewRouter(),
		logger:    logging.NewLogger(logging.ComponentProxy),
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupMiddleware() {
	s.router.Use(requestID(s.logger))
	s.router.Use(accessLog)
	s.router.Use(middleware.Recoverer)
	if len(s.origins) > 0 {
		s.router.Use(cors.Handler(cors.Options{
			AllowedOrigins: s.origins,
			AllowedMethods: []string{"GET", "PUT", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type", "Authorization", requestIDHeader},
			ExposedHeaders: []string{requestIDHeader},
			MaxAge:         300,
		}))
	}
}

func (s *Server) setupRoutes() {
	s.router.Get("/health", healthHandler)
	s.router.Get("/ready", s.handleReady)
	s.router.Handle("/metrics", metrics.Handler())

	s.router.Get("/pokemon", s.handleListPokemon)
	s.router.Get("/pokemon/{id}", s.handleGetPokemon)
	s.router.Get("/teams", s.handleGetTeams)

	s.router.Route("/profile", func(r chi.Router) {
		r.Use(s.requireIdentity)
		r.Get("/", s.handleGetProfile)
		r.Put("/team", s.handleSaveTeam)
	})
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := s.profiles.Ping(ctx); err != nil {
		zerolog.Ctx(r.Context()).Warn().Err(err).Msg("Readiness check failed")
		respondError(w, http.StatusServiceUnavailable, "redis unavailable")
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("READY"))
}

type listResponse struct {
	Count      int                   `json:"count"`
	Categories []string              `json:"categories"`
	Items      []pokedex.DisplayItem `json:"items"`
}

func (s *Server) handleListPokemon(w http.ResponseWriter, r *http.Request) {
	limit := s.listLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			respondError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	ctx, cancel := context.WithTimeout(r.Context(), upstreamTimeout)
	defer cancel()

	items, err := s.pokedex.FetchList(ctx, limit)
	if err != nil {
		s.respondFetchError(w, r, err)
		return
	}

	filtered := pokedex.Filter(items, r.URL.Query().Get("q"), r.URL.Query().Get("type"))
	respondJSON(w, http.StatusOK, listResponse{
		Count:      len(filtered),
		Categories: pokedex.Categories(items),
		Items:      filtered,
	})
}

func (s *Server) handleGetPokemon(w http.ResponseWriter, r *http.Request) {
	id, ok := pokedex.ParseID(chi.URLParam(r, "id"))
	if !ok || id == 0 {
		respondError(w, http.StatusBadRequest, "invalid pokemon id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), upstreamTimeout)
	defer cancel()

	detail, err := s.pokedex.FetchDetail(ctx, id)
	if err != nil {
		s.respondFetchError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, detail)
}

func (s *Server) handleGetTeams(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, profile.Teams())
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	p, err := s.profiles.GetProfile(r.Context(), identityFrom(r.Context()))
	if err != nil {
		s.respondProfileError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, p)
}

type saveTeamRequest struct {
	Team string `json:"team"`
}

func (s *Server) handleSaveTeam(w http.ResponseWriter, r *http.Request) {
	var req saveTeamRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	id := identityFrom(r.Context())
	if err := s.profiles.SaveTeam(r.Context(), id, req.Team); err != nil {
		s.respondProfileError(w, r, err)
		return
	}

	p, err := s.profiles.GetProfile(r.Context(), id)
	if err != nil {
		s.respondProfileError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, p)
}

// requireIdentity rejects requests without a valid bearer token and stores
// the caller's identity in the request context.
func (s *Server) requireIdentity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.verifier == nil {
			respondError(w, http.StatusUnauthorized, "authentication not configured")
			return
		}
		id, err := s.verifier.FromRequest(r)
		if err != nil {
			zerolog.Ctx(r.Context()).Debug().Err(err).Msg("Rejected bearer token")
			respondError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		ctx := context.WithValue(r.Context(), identityKey{}, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func identityFrom(ctx context.Context) *profile.Identity {
	id, _ := ctx.Value(identityKey{}).(*profile.Identity)
	return id
}

func (s *Server) respondFetchError(w http.ResponseWriter, r *http.Request, err error) {
	logger := zerolog.Ctx(r.Context())

	var fe *client.FetchError
	switch {
	case client.IsNotFound(err):
		respondError(w, http.StatusNotFound, "not found")
	case errors.Is(err, context.DeadlineExceeded):
		logger.Warn().Err(err).Msg("Upstream timed out")
		respondError(w, http.StatusGatewayTimeout, "upstream timeout")
	case errors.As(err, &fe):
		logger.Warn().Err(err).Str("class", string(fe.Class)).Msg("Upstream fetch failed")
		respondError(w, http.StatusBadGateway, fe.Error())
	default:
		logger.Error().Err(err).Msg("Unexpected fetch failure")
		respondError(w, http.StatusBadGateway, "upstream request failed")
	}
}

func (s *Server) respondProfileError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, profile.ErrUnauthenticated):
		respondError(w, http.StatusUnauthorized, "unauthorized")
	case errors.Is(err, profile.ErrInvalidTeam):
		respondError(w, http.StatusBadRequest, err.Error())
	default:
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("Profile operation failed")
		respondError(w, http.StatusInternalServerError, "profile store unavailable")
	}
}

// --- Response helpers ---

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
