// Package http exposes a read-only operations API for a running bot.
package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"slices"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/aretw0/excursion/internal/logging"
	"github.com/aretw0/excursion/internal/presentation/graph"
	"github.com/aretw0/excursion/pkg/ports"
	"github.com/aretw0/excursion/pkg/route"
	"github.com/aretw0/excursion/pkg/session"
)

// Engine defines the controller surface the API inspects.
type Engine interface {
	Resolver() route.Resolver
	Sessions() *session.Registry
	Inspect(ctx context.Context, userID int64) (session.Snapshot, error)
}

// Config wires the handler. Journal and Metrics are optional.
type Config struct {
	Engine     Engine
	Repository ports.LocationRepository
	Journal    ports.JournalReader
	Metrics    http.Handler
	Version    string
	Logger     *slog.Logger
}

// Server implements the operations endpoints.
type Server struct {
	cfg    Config
	logger *slog.Logger
}

// NewHandler creates a new HTTP handler for the bot.
func NewHandler(cfg Config) http.Handler {
	s := &Server{cfg: cfg, logger: cfg.Logger}
	if s.logger == nil {
		s.logger = logging.NewNop()
	}

	r := chi.NewRouter()
	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	r.Get("/graph", s.GetGraph)
	r.Get("/locations", s.ListLocations)
	r.Get("/sessions", s.ListSessions)
	r.Get("/sessions/{userID}", s.GetSession)
	r.Get("/sessions/{userID}/actions", s.GetActions)
	if cfg.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", cfg.Metrics)
	}
	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("response encode failed", "err", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}

// GetHealth handles GET /health.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles GET /info.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"version":  s.cfg.Version,
		"variant":  s.cfg.Engine.Resolver().Variant(),
		"sessions": s.cfg.Engine.Sessions().Len(),
	})
}

// GraphResponse describes the active route.
type GraphResponse struct {
	Variant   route.Variant `json:"variant"`
	Start     string        `json:"start"`
	Locations []string      `json:"locations"`
	Edges     []route.Edge  `json:"edges"`
}

// GetGraph handles GET /graph. With ?format=mermaid it returns a Mermaid flowchart.
func (s *Server) GetGraph(w http.ResponseWriter, r *http.Request) {
	resolver := s.cfg.Engine.Resolver()
	if r.URL.Query().Get("format") == "mermaid" {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte(graph.GenerateMermaid(resolver, nil)))
		return
	}

	start, _ := resolver.StartLocation()
	s.writeJSON(w, http.StatusOK, GraphResponse{
		Variant:   resolver.Variant(),
		Start:     start,
		Locations: resolver.Locations(),
		Edges:     resolver.Edges(),
	})
}

// LocationSummary describes the content found for one location.
type LocationSummary struct {
	ID       string `json:"id"`
	HasText  bool   `json:"has_text"`
	Images   int    `json:"images"`
	HasAudio bool   `json:"has_audio"`
}

// ListLocations handles GET /locations.
func (s *Server) ListLocations(w http.ResponseWriter, r *http.Request) {
	ids, err := s.cfg.Repository.ListAll()
	if err != nil {
		s.logger.Error("list locations failed", "err", err)
		s.writeError(w, http.StatusInternalServerError, "cannot list locations")
		return
	}

	out := make([]LocationSummary, 0, len(ids))
	for _, id := range ids {
		_, hasText := s.cfg.Repository.GetText(id)
		_, hasAudio := s.cfg.Repository.GetAudio(id)
		out = append(out, LocationSummary{
			ID:       id,
			HasText:  hasText,
			Images:   len(s.cfg.Repository.GetImages(id)),
			HasAudio: hasAudio,
		})
	}
	s.writeJSON(w, http.StatusOK, out)
}

// ListSessions handles GET /sessions.
func (s *Server) ListSessions(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{"users": s.cfg.Engine.Sessions().UserIDs()})
}

func (s *Server) userID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "userID"), 10, 64)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid user id")
		return 0, false
	}
	return id, true
}

// GetSession handles GET /sessions/{userID}. Unknown users are not created.
func (s *Server) GetSession(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}
	if !slices.Contains(s.cfg.Engine.Sessions().UserIDs(), userID) {
		s.writeError(w, http.StatusNotFound, "session not found")
		return
	}

	snap, err := s.cfg.Engine.Inspect(r.Context(), userID)
	if err != nil {
		s.logger.Error("inspect session failed", "user_id", userID, "err", err)
		s.writeError(w, http.StatusInternalServerError, "cannot inspect session")
		return
	}
	s.writeJSON(w, http.StatusOK, snap)
}

// GetActions handles GET /sessions/{userID}/actions?limit=N.
func (s *Server) GetActions(w http.ResponseWriter, r *http.Request) {
	if s.cfg.Journal == nil {
		s.writeError(w, http.StatusNotFound, "action journal disabled")
		return
	}
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			s.writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}

	entries, err := s.cfg.Journal.Entries(r.Context(), userID, limit)
	if err != nil {
		s.logger.Error("read journal failed", "user_id", userID, "err", err)
		s.writeError(w, http.StatusInternalServerError, "cannot read journal")
		return
	}
	if entries == nil {
		entries = []ports.JournalEntry{}
	}
	s.writeJSON(w, http.StatusOK, entries)
}
