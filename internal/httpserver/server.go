// internal/httpserver/server.go
//
// HTTP server wiring for the WordTrek backend.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs).
//   - Public endpoints: "/", "/health", "/debug/graph".
//   - Game endpoints: POST /game/new, POST /game/select, POST /game/giveup,
//     GET /game/report.
//   - Daily Challenge endpoints: mounted under /daily.
//   - Anonymous session cookie for associating daily results.
//
// Notes:
//   - The engine packages (pathfind, pairgen, session, report) are pure;
//     everything stateful or I/O-bound lives here or in db helpers.
//   - CORS is origin-aware and credentials-enabled (so cookies work).

package httpserver

import (
	"crypto/rand"
	"database/sql"
	"encoding/base64"
	"encoding/json"
	"errors"
	mrand "math/rand"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/wordtrek/go-server/internal/pairgen"
	"github.com/wordtrek/go-server/internal/report"
	"github.com/wordtrek/go-server/internal/session"
	"github.com/wordtrek/go-server/internal/store"
	"github.com/wordtrek/go-server/internal/wordgraph"
	"github.com/wordtrek/go-server/internal/words"
)

// Server bundles router, word graph, session store, and DB handle.
type Server struct {
	r     *chi.Mux
	graph *wordgraph.Graph
	store store.Store
	db    *sql.DB
}

// New constructs a Server, installs middleware, and registers routes.
func New(g *wordgraph.Graph, st store.Store, db *sql.DB) *Server {
	s := &Server{r: chi.NewRouter(), graph: g, store: st, db: db}

	// --- middleware ---
	s.r.Use(chimw.RequestID)                 // add X-Request-ID
	s.r.Use(chimw.RealIP)                    // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(chimw.Recoverer)                 // recover from panics
	s.r.Use(chimw.Timeout(10 * time.Second)) // bound handler time
	s.r.Use(jsonContentType)                 // default JSON responses
	s.r.Use(corsFromEnv)                     // credentials-friendly CORS

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"service":"wordtrek-go","endpoints":["/health","POST /game/new","POST /game/select","POST /game/giveup","GET /game/report","/daily/*"]}`))
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"ok":true}`))
	})

	// Debug: graph and definition counts
	s.r.Get("/debug/graph", func(w http.ResponseWriter, r *http.Request) {
		edges := 0
		for _, word := range s.graph.Words() {
			edges += s.graph.Degree(word)
		}
		_ = json.NewEncoder(w).Encode(map[string]int{
			"nodes":       s.graph.Len(),
			"edges":       edges,
			"definitions": words.Stats(),
		})
	})

	// Game endpoints
	s.r.Post("/game/new", s.handleNewGame)
	s.r.Post("/game/select", s.handleSelect)
	s.r.Post("/game/giveup", s.handleGiveUp)
	s.r.Get("/game/report", s.handleReport)

	// Daily Challenge
	s.mountDaily(s.r)

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"not_found","path":"`+r.URL.Path+`"}`, http.StatusNotFound)
	})

	return s
}

// Start begins serving HTTP on addr.
func (s *Server) Start(addr string) error { return http.ListenAndServe(addr, s.r) }

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

// corsFromEnv enables credentialed CORS for a single origin.
// Uses CLIENT_ORIGIN env var; defaults to http://localhost:5173.
func corsFromEnv(next http.Handler) http.Handler {
	origin := os.Getenv("CLIENT_ORIGIN")
	if origin == "" {
		origin = "http://localhost:5173"
	}
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

// neighborView is one selectable word shown to the player.
type neighborView struct {
	Word        string   `json:"word"`
	Similarity  float64  `json:"similarity"`
	Definitions []string `json:"definitions,omitempty"`
}

// neighborsOf lists word's neighbors sorted by identifier, decorated
// with similarities and definition text for display.
func (s *Server) neighborsOf(word string) []neighborView {
	ns := s.graph.NeighborWords(word)
	out := make([]neighborView, 0, len(ns))
	for _, n := range ns {
		sim, _ := s.graph.Similarity(word, n)
		out = append(out, neighborView{Word: n, Similarity: sim, Definitions: words.Definitions(n)})
	}
	return out
}

// newGameReq/Res payloads for POST /game/new.
type newGameReq struct {
	MinMoves int `json:"minMoves"` // optional constraint overrides
	MaxMoves int `json:"maxMoves"`
}
type newGameRes struct {
	SessionID    string         `json:"sessionId"`
	StartWord    string         `json:"startWord"`
	EndWord      string         `json:"endWord"`
	OptimalMoves int            `json:"optimalMoves"`
	Neighbors    []neighborView `json:"neighbors"`
}

// handleNewGame generates a random puzzle pair and opens a session.
// Generation exhaustion maps to 503 with a retryable flag: the caller
// should retry, possibly with relaxed constraints.
func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	var req newGameReq
	_ = json.NewDecoder(r.Body).Decode(&req)

	c := pairgen.DefaultConstraints()
	if req.MinMoves > 0 {
		c.MinMoves = req.MinMoves
	}
	if req.MaxMoves > 0 {
		c.MaxMoves = req.MaxMoves
	}

	sess := session.New()
	rng := mrand.New(mrand.NewSource(time.Now().UnixNano()))
	if err := sess.Start(s.graph, c, pairgen.DefaultMaxAttempts, rng); err != nil {
		if errors.Is(err, pairgen.ErrExhausted) {
			log.Warn().Int("minMoves", c.MinMoves).Int("maxMoves", c.MaxMoves).Msg("pair generation exhausted")
			http.Error(w, `{"error":"generation_exhausted","retryable":true}`, http.StatusServiceUnavailable)
			return
		}
		log.Error().Err(err).Msg("start session")
		http.Error(w, `{"error":"start_failed"}`, http.StatusInternalServerError)
		return
	}
	if err := s.store.Save(r.Context(), sess); err != nil {
		log.Error().Err(err).Msg("save session")
		http.Error(w, `{"error":"save_failed"}`, http.StatusInternalServerError)
		return
	}

	_ = json.NewEncoder(w).Encode(newGameRes{
		SessionID:    sess.ID,
		StartWord:    sess.StartWord,
		EndWord:      sess.EndWord,
		OptimalMoves: sess.OptimalPath.Moves(),
		Neighbors:    s.neighborsOf(sess.CurrentWord),
	})
}

// selectReq/Res payloads for POST /game/select.
type selectReq struct {
	SessionID string `json:"sessionId"`
	Word      string `json:"word"`
}
type selectRes struct {
	State       session.State  `json:"state"` // "playing" | "won"
	CurrentWord string         `json:"currentWord"`
	Moves       int            `json:"moves"`
	Neighbors   []neighborView `json:"neighbors,omitempty"`
}

// handleSelect applies one move to a session.
func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	var req selectReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}
	sess, err := s.store.Get(r.Context(), req.SessionID)
	if err != nil {
		http.Error(w, `{"error":"not_found"}`, http.StatusNotFound)
		return
	}
	if err := sess.Select(s.graph, req.Word); err != nil {
		switch {
		case errors.Is(err, session.ErrInvalidMove):
			http.Error(w, `{"error":"invalid_move"}`, http.StatusBadRequest)
		case errors.Is(err, session.ErrNotPlaying):
			http.Error(w, `{"error":"not_playing"}`, http.StatusConflict)
		default:
			log.Error().Err(err).Str("sessionId", sess.ID).Msg("select")
			http.Error(w, `{"error":"select_failed"}`, http.StatusInternalServerError)
		}
		return
	}
	if err := s.store.Save(r.Context(), sess); err != nil {
		http.Error(w, `{"error":"save_failed"}`, http.StatusInternalServerError)
		return
	}

	res := selectRes{State: sess.State, CurrentWord: sess.CurrentWord, Moves: sess.PlayerMoves()}
	if sess.State == session.StatePlaying {
		res.Neighbors = s.neighborsOf(sess.CurrentWord)
	}
	_ = json.NewEncoder(w).Encode(res)
}

// giveUpReq/Res payloads for POST /game/giveup.
type giveUpReq struct {
	SessionID string `json:"sessionId"`
}
type giveUpRes struct {
	State         session.State `json:"state"` // "gave_up"
	SuggestedPath []string      `json:"suggestedPath,omitempty"`
}

// handleGiveUp abandons a run and returns the suggested path, if any.
func (s *Server) handleGiveUp(w http.ResponseWriter, r *http.Request) {
	var req giveUpReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}
	sess, err := s.store.Get(r.Context(), req.SessionID)
	if err != nil {
		http.Error(w, `{"error":"not_found"}`, http.StatusNotFound)
		return
	}
	if err := sess.GiveUp(s.graph); err != nil {
		if errors.Is(err, session.ErrNotPlaying) {
			http.Error(w, `{"error":"not_playing"}`, http.StatusConflict)
			return
		}
		log.Error().Err(err).Str("sessionId", sess.ID).Msg("give up")
		http.Error(w, `{"error":"giveup_failed"}`, http.StatusInternalServerError)
		return
	}
	if err := s.store.Save(r.Context(), sess); err != nil {
		http.Error(w, `{"error":"save_failed"}`, http.StatusInternalServerError)
		return
	}
	_ = json.NewEncoder(w).Encode(giveUpRes{State: sess.State, SuggestedPath: sess.SuggestedPath})
}

// handleReport returns the analytics report for a terminal session.
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("sessionId")
	sess, err := s.store.Get(r.Context(), id)
	if err != nil {
		http.Error(w, `{"error":"not_found"}`, http.StatusNotFound)
		return
	}
	rep, err := report.Generate(s.graph, sess)
	if err != nil {
		http.Error(w, `{"error":"not_finished"}`, http.StatusConflict)
		return
	}
	_ = json.NewEncoder(w).Encode(rep)
}

// ------------------------------- cookies -----------------------------------

const anonCookieName = "wordtrek_anon"

// ensureAnonID returns an existing anon cookie or sets a new one.
// Used to associate daily results with a stable identifier.
func (s *Server) ensureAnonID(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(anonCookieName); err == nil && c.Value != "" {
		return c.Value
	}
	id := genID()
	http.SetCookie(w, &http.Cookie{
		Name:     anonCookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   os.Getenv("NODE_ENV") == "production",
		SameSite: func() http.SameSite {
			if os.Getenv("NODE_ENV") == "production" {
				return http.SameSiteNoneMode
			}
			return http.SameSiteLaxMode
		}(),
		Expires: time.Now().Add(180 * 24 * time.Hour),
	})
	return id
}

// genID creates a 22-char URL-safe, crypto-random identifier (no padding).
func genID() string {
	var b [16]byte
	_, _ = rand.Read(b[:])
	s := base64.URLEncoding.WithPadding(base64.NoPadding).EncodeToString(b[:])
	if len(s) > 22 {
		return s[:22]
	}
	return s
}

// ------------------------------- small util --------------------------------

// getEnv returns the value of k or def if unset/empty.
func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
