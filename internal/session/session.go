// internal/session/session.go
//
// One browser's game, run as an actor.
//
// A Session owns a game.Engine and a single goroutine (run) that is the only
// caller of the engine. Player input arrives as typed requests on the inbox;
// the one-second countdown arrives as tick messages posted by a per-round
// ticker goroutine. Engine signals update the session's View and are
// broadcast to subscribers as protocol envelopes.

package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/SweetyAngel/egerus/internal/game"
	"github.com/SweetyAngel/egerus/internal/protocol"
	"github.com/SweetyAngel/egerus/internal/stress"
	"github.com/SweetyAngel/egerus/internal/words"
)

var (
	// ErrClosed is returned for requests to a session that has been torn down.
	ErrClosed = errors.New("session: closed")
	// ErrSubscribe means the snapshot could not be delivered and the Conn
	// was not registered.
	ErrSubscribe = errors.New("session: subscribe failed")
)

// Conn is a subscriber that receives encoded envelopes.
// Send must not block for long; a failing Conn is dropped and closed.
type Conn interface {
	Send(b []byte) error
	Close() error
}

// Options tunes a Session. Zero values pick defaults.
type Options struct {
	TickEvery time.Duration // default game.TickInterval
	Picker    game.Picker   // default crypto/rand
	MaxDraws  int
}

// View is what a client needs to paint the game.
type View struct {
	ID         string          `json:"id"`
	State      game.State      `json:"state"`
	Round      int             `json:"round"`
	Word       string          `json:"word"` // lowercased, stress hidden
	Context    string          `json:"context,omitempty"`
	Letters    []stress.Letter `json:"letters"`
	Remaining  int             `json:"remaining"`
	Timer      string          `json:"timer"`
	Selected   int             `json:"selected"`
	Correct    *int            `json:"correct,omitempty"` // revealed once resolved
	Outcome    game.Outcome    `json:"outcome,omitempty"`
	Feedback   string          `json:"feedback,omitempty"`
	CanAdvance bool            `json:"canAdvance"`
	Stats      game.Stats      `json:"stats"`
}

// Session is one player's running quiz.
type Session struct {
	ID string

	inbox     chan any
	quit      chan struct{}
	done      chan struct{}
	closeOnce sync.Once
	lastSeen  atomic.Int64

	// Owned by the run goroutine (and by New before run starts).
	engine    *game.Engine
	view      View
	word      string // stress-marked form of the live word
	subs      map[Conn]struct{}
	gen       int
	tickEvery time.Duration
	log       zerolog.Logger
}

type tick struct{ gen int }

type selectReq struct {
	index int
	reply chan result
}

type nextReq struct{ reply chan result }

type viewReq struct{ reply chan View }

type subscribeReq struct {
	conn  Conn
	reply chan result
}

type unsubscribeReq struct{ conn Conn }

type result struct {
	view     View
	accepted bool
	err      error
}

// New creates a session over entries, draws its first round and starts its
// goroutine. Start-up failures (no playable word) are returned as is.
func New(entries []words.Entry, opts Options) (*Session, error) {
	s := &Session{
		ID:        uuid.NewString(),
		inbox:     make(chan any, 64),
		quit:      make(chan struct{}),
		done:      make(chan struct{}),
		subs:      make(map[Conn]struct{}),
		tickEvery: opts.TickEvery,
	}
	if s.tickEvery <= 0 {
		s.tickEvery = game.TickInterval
	}
	s.log = log.With().Str("session", s.ID).Logger()
	s.view = View{ID: s.ID, Selected: game.NoSelection, State: game.StateIdle}

	eng, err := game.NewEngine(entries, game.Options{
		Renderer: painter{s},
		Clock:    tickerClock{s},
		Picker:   opts.Picker,
		MaxDraws: opts.MaxDraws,
		Logger:   &s.log,
	})
	if err != nil {
		return nil, err
	}
	s.engine = eng
	if err := eng.Start(); err != nil {
		eng.Close()
		return nil, err
	}
	s.touch()
	go s.run()
	s.log.Info().Msg("session started")
	return s, nil
}

// Select submits a letter choice. accepted is false for late, duplicate or
// invalid input, which leaves the game unchanged.
func (s *Session) Select(ctx context.Context, index int) (View, bool, error) {
	reply := make(chan result, 1)
	r, err := call(ctx, s, selectReq{index: index, reply: reply}, reply)
	if err != nil {
		return View{}, false, err
	}
	return r.view, r.accepted, r.err
}

// Next advances to a new round if the current one is resolved.
func (s *Session) Next(ctx context.Context) (View, bool, error) {
	reply := make(chan result, 1)
	r, err := call(ctx, s, nextReq{reply: reply}, reply)
	if err != nil {
		return View{}, false, err
	}
	return r.view, r.accepted, r.err
}

// View returns the current view.
func (s *Session) View(ctx context.Context) (View, error) {
	reply := make(chan View, 1)
	return call(ctx, s, viewReq{reply: reply}, reply)
}

// Subscribe sends c a snapshot, registers it for signal broadcasts and
// returns the current view. If the snapshot cannot be sent, c is left
// unregistered and the error wraps ErrSubscribe.
func (s *Session) Subscribe(ctx context.Context, c Conn) (View, error) {
	reply := make(chan result, 1)
	r, err := call(ctx, s, subscribeReq{conn: c, reply: reply}, reply)
	if err != nil {
		return View{}, err
	}
	return r.view, r.err
}

// Unsubscribe removes c; it does not close it.
func (s *Session) Unsubscribe(c Conn) {
	select {
	case s.inbox <- unsubscribeReq{conn: c}:
	case <-s.done:
	}
}

// Close tears the session down and waits for its goroutine to exit.
func (s *Session) Close() {
	s.closeOnce.Do(func() { close(s.quit) })
	<-s.done
}

// Done is closed once the session has shut down.
func (s *Session) Done() <-chan struct{} { return s.done }

// LastSeen is the time of the most recent player request.
func (s *Session) LastSeen() time.Time { return time.Unix(0, s.lastSeen.Load()) }

func (s *Session) touch() { s.lastSeen.Store(time.Now().UnixNano()) }

func call[T any](ctx context.Context, s *Session, req any, reply chan T) (T, error) {
	var zero T
	s.touch()
	select {
	case s.inbox <- req:
	case <-s.done:
		return zero, ErrClosed
	case <-ctx.Done():
		return zero, ctx.Err()
	}
	select {
	case v := <-reply:
		return v, nil
	case <-s.done:
		return zero, ErrClosed
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}

func (s *Session) run() {
	defer close(s.done)
	for {
		select {
		case <-s.quit:
			s.shutdown()
			return
		case msg := <-s.inbox:
			s.handle(msg)
		}
	}
}

func (s *Session) handle(msg any) {
	switch m := msg.(type) {
	case tick:
		if m.gen == s.gen {
			s.engine.Tick()
		}
	case selectReq:
		ok := s.engine.Select(m.index)
		m.reply <- result{view: s.snapshot(), accepted: ok}
	case nextReq:
		ok, err := s.engine.Next()
		m.reply <- result{view: s.snapshot(), accepted: ok, err: err}
	case viewReq:
		m.reply <- s.snapshot()
	case subscribeReq:
		v := s.snapshot()
		b, err := protocol.Encode(protocol.MsgSnapshot, v)
		if err == nil {
			err = m.conn.Send(b)
		}
		if err != nil {
			m.reply <- result{view: v, err: fmt.Errorf("%w: %v", ErrSubscribe, err)}
			return
		}
		s.subs[m.conn] = struct{}{}
		m.reply <- result{view: v}
	case unsubscribeReq:
		delete(s.subs, m.conn)
	}
}

func (s *Session) shutdown() {
	s.engine.Close()
	s.broadcast(protocol.MsgClosed, protocol.Closed{Reason: "session ended"})
	for c := range s.subs {
		_ = c.Close()
		delete(s.subs, c)
	}
	s.log.Info().Int("rounds", s.view.Round).Int("correct", s.view.Stats.Correct).Int("total", s.view.Stats.Total).Msg("session closed")
}

func (s *Session) snapshot() View {
	v := s.view
	v.State = s.engine.State()
	return v
}

func (s *Session) broadcast(t string, payload any) {
	if len(s.subs) == 0 {
		return
	}
	b, err := protocol.Encode(t, payload)
	if err != nil {
		s.log.Error().Err(err).Str("type", t).Msg("encode signal")
		return
	}
	for c := range s.subs {
		if err := c.Send(b); err != nil {
			s.log.Debug().Err(err).Msg("dropping subscriber")
			delete(s.subs, c)
			_ = c.Close()
		}
	}
}

// tickerClock arms a time.Ticker per round that posts ticks into the inbox.
// Each arm bumps the generation so a tick already queued from an earlier
// round is discarded by handle.
type tickerClock struct{ s *Session }

func (c tickerClock) Arm() func() {
	s := c.s
	s.gen++
	gen := s.gen
	stop := make(chan struct{})
	t := time.NewTicker(s.tickEvery)
	go func() {
		defer t.Stop()
		for {
			select {
			case <-stop:
				return
			case <-s.quit:
				return
			case <-t.C:
				select {
				case s.inbox <- tick{gen: gen}:
				case <-stop:
					return
				case <-s.quit:
					return
				}
			}
		}
	}()
	var once sync.Once
	return func() { once.Do(func() { close(stop) }) }
}

// painter turns engine signals into View updates and broadcasts.
type painter struct{ s *Session }

func (p painter) RoundStarted(word, context string) {
	v := &p.s.view
	p.s.word = word
	v.Round++
	v.Word = stress.Lower(word)
	v.Context = context
	v.Letters = stress.Letters(word)
	v.Remaining = game.TimeLimit
	v.Timer = game.FormatTimer(game.TimeLimit)
	v.Selected = game.NoSelection
	v.Correct = nil
	v.Outcome = game.OutcomePending
	v.Feedback = ""
	v.CanAdvance = false
	p.s.broadcast(protocol.MsgRoundStarted, protocol.RoundStarted{
		Round:   v.Round,
		Word:    v.Word,
		Context: v.Context,
		Letters: v.Letters,
		Seconds: game.TimeLimit,
	})
}

func (p painter) Ticked(remaining int) {
	v := &p.s.view
	v.Remaining = remaining
	v.Timer = game.FormatTimer(remaining)
	p.s.broadcast(protocol.MsgTick, protocol.Tick{Remaining: remaining, Display: v.Timer})
}

func (p painter) AnswerResolved(selected, correct int, isCorrect bool) {
	o := game.OutcomeWrong
	if isCorrect {
		o = game.OutcomeCorrect
	}
	v := p.resolve(o, correct)
	v.Selected = selected
	p.s.broadcast(protocol.MsgAnswerResolved, protocol.AnswerResolved{
		Selected:  selected,
		Correct:   correct,
		IsCorrect: isCorrect,
		Feedback:  v.Feedback,
	})
}

func (p painter) TimedOut(correct int) {
	v := p.resolve(game.OutcomeTimeout, correct)
	p.s.broadcast(protocol.MsgTimedOut, protocol.TimedOut{Correct: correct, Feedback: v.Feedback})
}

func (p painter) StatsChanged(st game.Stats) {
	p.s.view.Stats = st
	p.s.broadcast(protocol.MsgStatsChanged, protocol.StatsChanged(st))
}

func (p painter) resolve(o game.Outcome, correct int) *View {
	v := &p.s.view
	c := correct
	v.Correct = &c
	v.Outcome = o
	v.Feedback = game.Feedback(o, p.s.word, correct)
	v.CanAdvance = true
	return v
}
