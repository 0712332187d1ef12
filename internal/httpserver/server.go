// internal/httpserver/server.go
//
// HTTP server wiring for the stress quiz.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs).
//   - Public endpoints: "/", "/health", "/debug/words".
//   - POST /game/new starts a session and hands out its token.
//   - Session endpoints (token required): state, select, next, end, events.
//
// Notes:
//   - Each token names exactly one session; starting a new game closes the
//     caller's previous one.
//   - Rejected input (late, duplicate, out of range) is answered with
//     "accepted": false and the unchanged view, never with an error status.

package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/SweetyAngel/egerus/internal/config"
	"github.com/SweetyAngel/egerus/internal/game"
	"github.com/SweetyAngel/egerus/internal/session"
	"github.com/SweetyAngel/egerus/internal/words"
)

// Server bundles router, session registry and the loaded word list.
type Server struct {
	r        *chi.Mux
	store    session.Store
	entries  []words.Entry
	cfg      config.Config
	opts     session.Options
	upgrader websocket.Upgrader
}

// New constructs a Server, installs middleware, and registers routes.
func New(cfg config.Config, st session.Store, entries []words.Entry, opts session.Options) *Server {
	s := &Server{r: chi.NewRouter(), store: st, entries: entries, cfg: cfg, opts: opts}
	s.upgrader = websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			o := r.Header.Get("Origin")
			return o == "" || o == cfg.ClientOrigin || !cfg.Production
		},
	}

	// --- middleware ---
	s.r.Use(chimw.RequestID) // add X-Request-ID
	s.r.Use(chimw.RealIP)    // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(chimw.Recoverer) // recover from panics
	s.r.Use(s.cors)          // credentials-friendly CORS

	// WebSocket stream: long-lived, so outside the handler timeout.
	s.r.With(s.requireSession()).Get("/game/events", s.handleEvents)

	s.r.Group(func(r chi.Router) {
		r.Use(chimw.Timeout(10 * time.Second)) // bound handler time
		r.Use(jsonContentType)                 // default JSON responses

		// --- diagnostics ---
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"service":"egerus","endpoints":["/health","POST /game/new","GET /game/state","POST /game/select","POST /game/next","POST /game/end","GET /game/events"]}`))
		})
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"ok":true}`))
		})
		r.Get("/debug/words", func(w http.ResponseWriter, r *http.Request) {
			_, src := words.Stats()
			_ = json.NewEncoder(w).Encode(map[string]any{
				"words":    len(s.entries),
				"source":   src,
				"sessions": s.store.Len(),
			})
		})

		r.Post("/game/new", s.handleNewGame)
		r.Group(func(r chi.Router) {
			r.Use(s.requireSession())
			r.Get("/game/state", s.handleState)
			r.Post("/game/select", s.handleSelect)
			r.Post("/game/next", s.handleNext)
			r.Post("/game/end", s.handleEnd)
		})
	})

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"not_found"}`, http.StatusNotFound)
	})

	return s
}

// Start serves HTTP on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context, addr string) error {
	hs := &http.Server{Addr: addr, Handler: s.r, ReadHeaderTimeout: 5 * time.Second}
	errCh := make(chan error, 1)
	go func() { errCh <- hs.ListenAndServe() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := hs.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// cors enables credentialed CORS for the configured client origin.
func (s *Server) cors(next http.Handler) http.Handler {
	origin := s.cfg.ClientOrigin
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Vary", "Origin")
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ------------------------------ GAME ---------------------------------------

// newGameRes is returned by POST /game/new.
type newGameRes struct {
	Token string       `json:"token"`
	View  session.View `json:"view"`
}

// inputRes is returned by select/next.
type inputRes struct {
	Accepted bool         `json:"accepted"`
	View     session.View `json:"view"`
}

type selectReq struct {
	Index *int `json:"index"`
}

// handleNewGame starts a fresh session (fresh score) for the caller.
func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	sess, err := session.New(s.entries, s.opts)
	if err != nil {
		log.Error().Err(err).Msg("start session")
		http.Error(w, `{"error":"no_playable_words"}`, http.StatusInternalServerError)
		return
	}
	if err := s.store.Save(r.Context(), sess); err != nil {
		sess.Close()
		log.Error().Err(err).Msg("save session")
		http.Error(w, `{"error":"save_failed"}`, http.StatusInternalServerError)
		return
	}
	tok, exp, err := s.signToken(sess.ID)
	if err != nil {
		_ = s.store.Delete(r.Context(), sess.ID)
		http.Error(w, `{"error":"sign_failed"}`, http.StatusInternalServerError)
		return
	}
	if prev := s.sessionIDFrom(r); prev != "" && prev != sess.ID {
		_ = s.store.Delete(r.Context(), prev)
	}
	s.setSessionCookie(w, tok, exp)

	v, err := sess.View(r.Context())
	if err != nil {
		s.sessionError(w, err)
		return
	}
	_ = json.NewEncoder(w).Encode(newGameRes{Token: tok, View: v})
}

// handleState returns the caller's current view.
func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	v, err := currentSession(r).View(r.Context())
	if err != nil {
		s.sessionError(w, err)
		return
	}
	_ = json.NewEncoder(w).Encode(v)
}

// handleSelect submits a letter choice.
func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	var req selectReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Index == nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}
	v, ok, err := currentSession(r).Select(r.Context(), *req.Index)
	if err != nil {
		s.sessionError(w, err)
		return
	}
	_ = json.NewEncoder(w).Encode(inputRes{Accepted: ok, View: v})
}

// handleNext advances to the next round once the current one is resolved.
func (s *Server) handleNext(w http.ResponseWriter, r *http.Request) {
	v, ok, err := currentSession(r).Next(r.Context())
	if err != nil {
		s.sessionError(w, err)
		return
	}
	_ = json.NewEncoder(w).Encode(inputRes{Accepted: ok, View: v})
}

// handleEnd tears the caller's session down and clears the cookie.
func (s *Server) handleEnd(w http.ResponseWriter, r *http.Request) {
	_ = s.store.Delete(r.Context(), currentSession(r).ID)
	s.clearSessionCookie(w)
	_ = json.NewEncoder(w).Encode(map[string]bool{"ok": true})
}

// sessionError maps session-level failures onto responses.
func (s *Server) sessionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, session.ErrClosed):
		http.Error(w, `{"error":"session_closed"}`, http.StatusGone)
	case errors.Is(err, game.ErrNoPlayableWord):
		log.Error().Err(err).Msg("word list has no playable entries")
		http.Error(w, `{"error":"no_playable_words"}`, http.StatusInternalServerError)
	default:
		log.Warn().Err(err).Msg("session request")
		http.Error(w, `{"error":"unavailable"}`, http.StatusServiceUnavailable)
	}
}
