// Package server exposes the latest simulation statistics over HTTP.
package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tonygoldcrest/ecosystem-sim/components"
	"github.com/tonygoldcrest/ecosystem-sim/telemetry"
)

// Store holds the most recent published window. The game publishes from its
// own goroutine; handlers read concurrently.
type Store struct {
	mu        sync.RWMutex
	stats     telemetry.WindowStats
	obituary  map[components.DeathReason]int
	published bool
	updatedAt time.Time
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{obituary: make(map[components.DeathReason]int)}
}

// Publish replaces the stored window. It satisfies game.Publisher.
func (s *Store) Publish(stats telemetry.WindowStats, obituary map[components.DeathReason]int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stats = stats
	s.obituary = obituary
	s.published = true
	s.updatedAt = time.Now()
}

// Latest returns the stored window and whether anything has been published.
func (s *Store) Latest() (telemetry.WindowStats, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stats, s.published
}

// Obituary returns a copy of the stored death counts.
func (s *Store) Obituary() map[components.DeathReason]int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[components.DeathReason]int, len(s.obituary))
	for k, v := range s.obituary {
		out[k] = v
	}
	return out
}

type healthResponse struct {
	Status    string     `json:"status"`
	Published bool       `json:"published"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// NewRouter configures the read-only API.
func NewRouter(store *Store) http.Handler {
	r := chi.NewRouter()
	r.Use(recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			store.mu.RLock()
			resp := healthResponse{Status: "ok", Published: store.published}
			if store.published {
				t := store.updatedAt
				resp.UpdatedAt = &t
			}
			store.mu.RUnlock()
			respondJSON(w, http.StatusOK, resp)
		})

		r.Get("/stats", func(w http.ResponseWriter, r *http.Request) {
			stats, ok := store.Latest()
			if !ok {
				respondError(w, http.StatusServiceUnavailable, "no stats window published yet")
				return
			}
			respondJSON(w, http.StatusOK, stats)
		})

		r.Get("/obituary", func(w http.ResponseWriter, r *http.Request) {
			respondJSON(w, http.StatusOK, store.Obituary())
		})
	})

	return r
}

// recoverer turns a handler panic into a 500.
func recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				slog.Error("handler panic", "path", r.URL.Path, "error", err)
				respondError(w, http.StatusInternalServerError, "internal error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("encoding response", "error", err)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
