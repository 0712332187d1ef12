// internal/game/types.go
//
// Core type definitions for the stress quiz engine.
// Defines:
//   - State/Outcome: where a round is and how it ended.
//   - Round: the single live question.
//   - Renderer: the observer that receives engine signals.
//   - Clock, Picker: the countdown and the random draw, both injectable.

package game

import "github.com/SweetyAngel/egerus/internal/words"

// NoSelection marks a round the player has not answered.
const NoSelection = -1

// State is the coarse engine state.
type State string

const (
	StateIdle     State = "idle"      // no round drawn yet
	StateCounting State = "counting"  // round shown, clock running
	StateAnswered State = "answered"  // resolved by a selection
	StateTimedOut State = "timed_out" // resolved by the clock
	StateClosed   State = "closed"    // torn down, inputs ignored
)

// Outcome is the result of a resolved round.
type Outcome string

const (
	OutcomePending Outcome = ""
	OutcomeCorrect Outcome = "correct"
	OutcomeWrong   Outcome = "wrong"
	OutcomeTimeout Outcome = "timeout"
)

// Round holds the state of one question.
type Round struct {
	Seq          int         // 1-based round number within the engine.
	Entry        words.Entry // Active word (stress mark intact).
	CorrectIndex int         // Rune index of the stressed vowel.
	Selected     int         // Chosen vowel index, or NoSelection.
	Remaining    int         // Seconds left; never negative.
	Resolved     bool        // True once answered or timed out.
	Outcome      Outcome
}

// Renderer receives engine signals. Calls happen on the engine's thread of
// control and must not call back into the engine.
type Renderer interface {
	RoundStarted(word, context string)
	Ticked(remaining int)
	AnswerResolved(selected, correct int, isCorrect bool)
	TimedOut(correct int)
	StatsChanged(s Stats)
}

// NopRenderer discards every signal.
type NopRenderer struct{}

func (NopRenderer) RoundStarted(string, string)   {}
func (NopRenderer) Ticked(int)                    {}
func (NopRenderer) AnswerResolved(int, int, bool) {}
func (NopRenderer) TimedOut(int)                  {}
func (NopRenderer) StatsChanged(Stats)            {}

// Clock drives the countdown. Arm is called when a round starts; from then
// on the owner calls Engine.Tick once per TickInterval until the returned
// stop func runs. stop must tolerate repeated calls.
type Clock interface {
	Arm() (stop func())
}

// ManualClock is a Clock whose ticks are delivered by the caller.
type ManualClock struct{}

func (ManualClock) Arm() func() { return func() {} }

// Picker chooses an index in [0, n).
type Picker interface {
	Intn(n int) int
}
