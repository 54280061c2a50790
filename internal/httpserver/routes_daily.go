// internal/httpserver/routes_daily.go
//
// HTTP routes for the "Daily Challenge" mode.
// Exposes four endpoints under /daily:
//   - POST /daily/new         → start today's puzzle (creates or reuses session)
//   - POST /daily/select      → apply a move to today's session
//   - POST /daily/giveup      → abandon today's session
//   - GET  /daily/leaderboard → fetch top 20 results for today (or a given date)
//
// Each user can play once per day (enforced by DB + in-memory session).
// Sessions are held in memory for active play and persisted to DB once
// terminal. The puzzle pair is deterministic per date: the generator runs
// with a seed derived from HMAC(salt, date), so every player gets the
// same start/target words.

package httpserver

import (
	"encoding/json"
	"errors"
	mrand "math/rand"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/wordtrek/go-server/internal/daily"
	"github.com/wordtrek/go-server/internal/pairgen"
	"github.com/wordtrek/go-server/internal/report"
	"github.com/wordtrek/go-server/internal/session"
)

// dailyServer wraps dependencies for /daily endpoints.
type dailyServer struct {
	srv      *Server
	store    *daily.Store
	salt     string
	sessions map[string]*dailyRun // active runs keyed by userID|date
	mu       sync.Mutex           // guards sessions
}

// dailyRun holds transient in-memory state for an in-progress daily game.
type dailyRun struct {
	Session *session.Session
	UserID  string
	Date    string
	Start   time.Time
}

// mountDaily registers all /daily routes.
func (s *Server) mountDaily(r chi.Router) {
	dd := &dailyServer{
		srv:      s,
		store:    daily.NewStore(s.db),
		salt:     getEnv("DAILY_SALT", "local_dev_salt"),
		sessions: make(map[string]*dailyRun),
	}
	r.Route("/daily", func(r chi.Router) {
		r.Post("/new", dd.handleNew)
		r.Post("/select", dd.handleSelect)
		r.Post("/giveup", dd.handleGiveUp)
		r.Get("/leaderboard", dd.handleLeaderboard)
	})
}

// todayPair returns today's date key and the deterministic puzzle pair.
// Every caller gets the same pair for a given date and salt.
func (d *dailyServer) todayPair() (date string, pair *pairgen.Pair, err error) {
	now := time.Now().UTC()
	date = pairgen.DateKey(now)
	rng := mrand.New(mrand.NewSource(pairgen.DailySeed(now, d.salt)))
	pair, err = pairgen.Generate(d.srv.graph, pairgen.DefaultConstraints(), pairgen.DefaultMaxAttempts, rng)
	return date, pair, err
}

// -----------------------------------------------------------------------------
// /daily/new

// dailyNewRes is returned by /daily/new.
type dailyNewRes struct {
	SessionID string         `json:"sessionId,omitempty"`
	Date      string         `json:"date"`
	Played    bool           `json:"played"`
	StartWord string         `json:"startWord,omitempty"`
	EndWord   string         `json:"endWord,omitempty"`
	Neighbors []neighborView `json:"neighbors,omitempty"`
}

// handleNew creates or reuses the daily run for the current date.
// - If the user already has a DB row for today → return Played=true.
// - Otherwise create/reuse an in-memory session for today's pair.
func (d *dailyServer) handleNew(w http.ResponseWriter, r *http.Request) {
	uid := d.srv.ensureAnonID(w, r)

	date, pair, err := d.todayPair()
	if err != nil {
		log.Error().Err(err).Str("date", date).Msg("daily pair generation")
		http.Error(w, `{"error":"generation_exhausted","retryable":true}`, http.StatusServiceUnavailable)
		return
	}

	// Check if already played (persisted in DB).
	if played, err := d.store.AlreadyPlayed(r.Context(), uid, date); err == nil && played {
		_ = json.NewEncoder(w).Encode(dailyNewRes{Date: date, Played: true})
		return
	}

	// Reuse or create the run in memory.
	key := uid + "|" + date
	d.mu.Lock()
	run, ok := d.sessions[key]
	if !ok {
		sess := session.New()
		sess.StartPair(pair)
		run = &dailyRun{Session: sess, UserID: uid, Date: date, Start: time.Now()}
		d.sessions[key] = run
	}
	d.mu.Unlock()

	_ = json.NewEncoder(w).Encode(dailyNewRes{
		SessionID: run.Session.ID,
		Date:      date,
		StartWord: run.Session.StartWord,
		EndWord:   run.Session.EndWord,
		Neighbors: d.srv.neighborsOf(run.Session.CurrentWord),
	})
}

// -----------------------------------------------------------------------------
// /daily/select and /daily/giveup

// dailyMoveReq is the request payload for /daily/select and /daily/giveup.
type dailyMoveReq struct {
	SessionID string `json:"sessionId"`
	Word      string `json:"word,omitempty"`
}

// dailyMoveRes is the response payload for daily moves.
type dailyMoveRes struct {
	State         session.State  `json:"state"`
	CurrentWord   string         `json:"currentWord,omitempty"`
	Moves         int            `json:"moves"`
	Neighbors     []neighborView `json:"neighbors,omitempty"`
	SuggestedPath []string       `json:"suggestedPath,omitempty"`
}

// run looks up the caller's active run for today and checks the session ID.
func (d *dailyServer) run(w http.ResponseWriter, r *http.Request, sessionID string) *dailyRun {
	uid := d.srv.ensureAnonID(w, r)
	date := pairgen.DateKey(time.Now().UTC())
	key := uid + "|" + date
	d.mu.Lock()
	run, ok := d.sessions[key]
	d.mu.Unlock()
	if !ok || run.Session.ID != sessionID {
		http.Error(w, `{"error":"no_session"}`, http.StatusConflict)
		return nil
	}
	return run
}

// handleSelect validates and applies a move for today's daily session,
// persisting the result once the run reaches a terminal state.
func (d *dailyServer) handleSelect(w http.ResponseWriter, r *http.Request) {
	var p dailyMoveReq
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil || p.SessionID == "" || p.Word == "" {
		http.Error(w, `{"error":"bad_request"}`, http.StatusBadRequest)
		return
	}
	run := d.run(w, r, p.SessionID)
	if run == nil {
		return
	}

	sess := run.Session
	if err := sess.Select(d.srv.graph, p.Word); err != nil {
		switch {
		case errors.Is(err, session.ErrInvalidMove):
			http.Error(w, `{"error":"invalid_move"}`, http.StatusBadRequest)
		case errors.Is(err, session.ErrNotPlaying):
			http.Error(w, `{"error":"locked"}`, http.StatusConflict)
		default:
			log.Error().Err(err).Str("sessionId", sess.ID).Msg("daily select")
			http.Error(w, `{"error":"select_failed"}`, http.StatusInternalServerError)
		}
		return
	}

	if sess.State == session.StateWon {
		d.persist(r, run)
	}

	res := dailyMoveRes{State: sess.State, CurrentWord: sess.CurrentWord, Moves: sess.PlayerMoves()}
	if sess.State == session.StatePlaying {
		res.Neighbors = d.srv.neighborsOf(sess.CurrentWord)
	}
	_ = json.NewEncoder(w).Encode(res)
}

// handleGiveUp abandons today's run; the day is then locked.
func (d *dailyServer) handleGiveUp(w http.ResponseWriter, r *http.Request) {
	var p dailyMoveReq
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil || p.SessionID == "" {
		http.Error(w, `{"error":"bad_request"}`, http.StatusBadRequest)
		return
	}
	run := d.run(w, r, p.SessionID)
	if run == nil {
		return
	}

	sess := run.Session
	if err := sess.GiveUp(d.srv.graph); err != nil {
		if errors.Is(err, session.ErrNotPlaying) {
			http.Error(w, `{"error":"locked"}`, http.StatusConflict)
			return
		}
		log.Error().Err(err).Str("sessionId", sess.ID).Msg("daily give up")
		http.Error(w, `{"error":"giveup_failed"}`, http.StatusInternalServerError)
		return
	}
	d.persist(r, run)

	_ = json.NewEncoder(w).Encode(dailyMoveRes{
		State:         sess.State,
		Moves:         sess.PlayerMoves(),
		SuggestedPath: sess.SuggestedPath,
	})
}

// persist writes a terminal run to the DB (best effort, non-fatal).
func (d *dailyServer) persist(r *http.Request, run *dailyRun) {
	sess := run.Session
	rep, err := report.Generate(d.srv.graph, sess)
	if err != nil {
		log.Warn().Err(err).Str("sessionId", sess.ID).Msg("daily report")
		return
	}
	res := daily.Result{
		UserID:       run.UserID,
		Date:         run.Date,
		StartWord:    sess.StartWord,
		EndWord:      sess.EndWord,
		Won:          sess.State == session.StateWon,
		Moves:        rep.PlayerMoves,
		OptimalMoves: rep.OptimalMoves,
		ElapsedMs:    int(time.Since(run.Start).Milliseconds()),
	}
	if rep.Accuracy != nil {
		res.Accuracy = *rep.Accuracy
	}
	if err := d.store.InsertResult(r.Context(), res); err != nil {
		log.Warn().Err(err).Str("user", run.UserID).Msg("insert daily result")
	}
}

// -----------------------------------------------------------------------------
// /daily/leaderboard

// lbRes is returned by /daily/leaderboard.
type lbRes struct {
	Date string        `json:"date"`
	Top  []daily.LBRow `json:"top"`
}

// handleLeaderboard returns the leaderboard for the given date (default today).
func (d *dailyServer) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		date = pairgen.DateKey(time.Now().UTC())
	}
	rows, err := d.store.Leaderboard(r.Context(), date, 20)
	if err != nil {
		http.Error(w, `{"error":"server_error"}`, http.StatusInternalServerError)
		return
	}
	_ = json.NewEncoder(w).Encode(lbRes{Date: date, Top: rows})
}
