// internal/game/engine.go
//
// Round engine for one player's quiz.
// Responsibilities:
//   - Draw a word uniformly at random (with replacement) and locate its stress.
//   - Redraw malformed entries, bounded by MaxDraws.
//   - Run the countdown through the injected Clock; disarm it on every
//     resolution path and on Close.
//   - Accept at most one selection per round; the first of selection/timeout wins.
//   - Feed outcomes into Score and signal the Renderer.
//
// Notes:
//   - The engine is not safe for concurrent use. The owner delivers every
//     input (Tick, Select, Next, Close) from a single goroutine.
//   - Invalid transitions (late or duplicate input) are ignored and reported
//     by a false return, never as an error.

package game

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	mathrand "math/rand/v2"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/SweetyAngel/egerus/internal/stress"
	"github.com/SweetyAngel/egerus/internal/words"
)

const (
	// TimeLimit is the countdown length of every round, in ticks.
	TimeLimit = 7
	// TickInterval is the wall-clock length of one tick.
	TickInterval = time.Second
	// DefaultMaxDraws bounds the redraws spent skipping malformed entries.
	DefaultMaxDraws = 100
)

var (
	// ErrNoWords means the engine was built with an empty word list.
	ErrNoWords = errors.New("game: no words")
	// ErrNoPlayableWord means every draw hit an entry without a stress mark.
	ErrNoPlayableWord = errors.New("game: no playable word")
	// ErrClosed is returned by Start after Close.
	ErrClosed = errors.New("game: engine closed")
)

// Options configures an Engine. Zero values pick sensible defaults.
type Options struct {
	Renderer Renderer        // default NopRenderer
	Clock    Clock           // default ManualClock
	Picker   Picker          // default crypto/rand
	MaxDraws int             // default DefaultMaxDraws
	Logger   *zerolog.Logger // default: discard
}

// Engine owns the live round and the score of one game.
type Engine struct {
	entries  []words.Entry
	out      Renderer
	clock    Clock
	picker   Picker
	maxDraws int
	log      zerolog.Logger

	score  *Score
	round  *Round
	seq    int
	stop   func()
	closed bool
}

// NewEngine builds an idle engine over entries. The slice is not copied
// and must not be modified afterwards.
func NewEngine(entries []words.Entry, opts Options) (*Engine, error) {
	if len(entries) == 0 {
		return nil, ErrNoWords
	}
	e := &Engine{
		entries:  entries,
		out:      opts.Renderer,
		clock:    opts.Clock,
		picker:   opts.Picker,
		maxDraws: opts.MaxDraws,
		log:      zerolog.Nop(),
		score:    NewScore(),
	}
	if opts.Logger != nil {
		e.log = *opts.Logger
	}
	if e.out == nil {
		e.out = NopRenderer{}
	}
	if e.clock == nil {
		e.clock = ManualClock{}
	}
	if e.picker == nil {
		e.picker = cryptoPicker{}
	}
	if e.maxDraws <= 0 {
		e.maxDraws = DefaultMaxDraws
	}
	return e, nil
}

// Start draws the first round. It is a no-op once a round exists.
func (e *Engine) Start() error {
	if e.closed {
		return ErrClosed
	}
	if e.round != nil {
		return nil
	}
	e.out.StatsChanged(e.score.Stats())
	return e.begin()
}

// Tick advances the countdown by one second. It is ignored unless a round
// is counting. At zero the round resolves as a timeout.
func (e *Engine) Tick() {
	r := e.round
	if e.closed || r == nil || r.Resolved {
		return
	}
	r.Remaining--
	if r.Remaining > 0 {
		e.out.Ticked(r.Remaining)
		return
	}
	r.Remaining = 0
	e.out.Ticked(0)

	e.disarm()
	r.Resolved = true
	r.Outcome = OutcomeTimeout
	e.score.Record(false)
	e.log.Debug().Int("round", r.Seq).Str("word", r.Entry.Word).Msg("round timed out")
	e.out.StatsChanged(e.score.Stats())
	e.out.TimedOut(r.CorrectIndex)
}

// Select submits the player's letter choice. It reports whether the choice
// was accepted: only the first selection of a counting round is, and only
// when index falls inside the word. Any letter other than the stressed
// vowel resolves the round as wrong.
func (e *Engine) Select(index int) bool {
	r := e.round
	if e.closed || r == nil || r.Resolved {
		return false
	}
	if index < 0 || index >= utf8.RuneCountInString(r.Entry.Word) {
		return false
	}
	e.disarm()
	r.Selected = index
	r.Resolved = true
	isCorrect := index == r.CorrectIndex
	if isCorrect {
		r.Outcome = OutcomeCorrect
	} else {
		r.Outcome = OutcomeWrong
	}
	e.score.Record(isCorrect)
	e.log.Debug().Int("round", r.Seq).Int("selected", index).Bool("correct", isCorrect).Msg("round answered")
	e.out.StatsChanged(e.score.Stats())
	e.out.AnswerResolved(index, r.CorrectIndex, isCorrect)
	return true
}

// Next starts a new round once the current one is resolved. It reports
// whether a round was started; an unresolved round leaves it a no-op.
func (e *Engine) Next() (bool, error) {
	if e.closed || e.round == nil || !e.round.Resolved {
		return false, nil
	}
	if err := e.begin(); err != nil {
		return false, err
	}
	return true, nil
}

// Close disarms the clock and makes every later input a no-op.
func (e *Engine) Close() {
	e.disarm()
	e.closed = true
}

// State reports where the engine is.
func (e *Engine) State() State {
	switch {
	case e.closed:
		return StateClosed
	case e.round == nil:
		return StateIdle
	case !e.round.Resolved:
		return StateCounting
	case e.round.Outcome == OutcomeTimeout:
		return StateTimedOut
	default:
		return StateAnswered
	}
}

// Round returns a copy of the live round; false before the first draw.
func (e *Engine) Round() (Round, bool) {
	if e.round == nil {
		return Round{}, false
	}
	return *e.round, true
}

// Stats returns the running score.
func (e *Engine) Stats() Stats { return e.score.Stats() }

// begin draws a playable entry, installs a fresh round and arms the clock.
func (e *Engine) begin() error {
	e.disarm()
	entry, idx, err := e.draw()
	if err != nil {
		e.log.Error().Err(err).Int("words", len(e.entries)).Msg("cannot start round")
		return err
	}
	e.seq++
	e.round = &Round{
		Seq:          e.seq,
		Entry:        entry,
		CorrectIndex: idx,
		Selected:     NoSelection,
		Remaining:    TimeLimit,
	}
	e.out.RoundStarted(entry.Word, entry.Context)
	e.out.Ticked(TimeLimit)
	e.stop = e.clock.Arm()
	return nil
}

// draw picks entries until one carries a stress mark or the budget runs out.
func (e *Engine) draw() (words.Entry, int, error) {
	for i := 0; i < e.maxDraws; i++ {
		entry := e.entries[e.picker.Intn(len(e.entries))]
		if idx, ok := stress.Locate(entry.Word); ok {
			return entry, idx, nil
		}
		e.log.Warn().Str("word", entry.Word).Msg("no stressed vowel, skipping")
	}
	return words.Entry{}, -1, fmt.Errorf("%w after %d draws", ErrNoPlayableWord, e.maxDraws)
}

func (e *Engine) disarm() {
	if e.stop != nil {
		e.stop()
		e.stop = nil
	}
}

// cryptoPicker draws with crypto/rand and falls back to math/rand/v2 when
// the system source fails.
type cryptoPicker struct{}

func (cryptoPicker) Intn(n int) int {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return mathrand.IntN(n)
	}
	return int(v.Int64())
}
