// internal/protocol/protocol.go
//
// Wire format for engine signals pushed to a browser.
// Every message is an envelope {"t": <type>, "p": <payload>}.

package protocol

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/SweetyAngel/egerus/internal/game"
	"github.com/SweetyAngel/egerus/internal/stress"
)

const (
	MsgRoundStarted   = "round_started"
	MsgTick           = "tick"
	MsgAnswerResolved = "answer_resolved"
	MsgTimedOut       = "timed_out"
	MsgStatsChanged   = "stats_changed"
	MsgClosed         = "closed"
	MsgSnapshot       = "snapshot"
)

// Client → server input messages.
const (
	MsgSelect = "select"
	MsgNext   = "next"
)

type Envelope struct {
	T string          `json:"t"`
	P json.RawMessage `json:"p"`
}

type RoundStarted struct {
	Round   int             `json:"round"`
	Word    string          `json:"word"` // lowercased, stress hidden
	Context string          `json:"context,omitempty"`
	Letters []stress.Letter `json:"letters"`
	Seconds int             `json:"seconds"`
}

type Tick struct {
	Remaining int    `json:"remaining"`
	Display   string `json:"display"`
}

type AnswerResolved struct {
	Selected  int    `json:"selected"`
	Correct   int    `json:"correct"`
	IsCorrect bool   `json:"isCorrect"`
	Feedback  string `json:"feedback"`
}

type TimedOut struct {
	Correct  int    `json:"correct"`
	Feedback string `json:"feedback"`
}

type StatsChanged = game.Stats

type Select struct {
	Index int `json:"index"`
}

type Closed struct {
	Reason string `json:"reason"`
}

// Encode wraps payload in an envelope of type t.
func Encode(t string, payload any) ([]byte, error) {
	if t == "" {
		return nil, errors.New("protocol: empty envelope type")
	}
	if payload == nil {
		return nil, fmt.Errorf("protocol: nil payload for %q", t)
	}
	pb, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Envelope{T: t, P: pb})
}

// DecodeEnvelope parses the outer envelope only.
func DecodeEnvelope(b []byte) (Envelope, error) {
	if len(b) == 0 {
		return Envelope{}, errors.New("protocol: empty message")
	}
	var e Envelope
	if err := json.Unmarshal(b, &e); err != nil {
		return Envelope{}, err
	}
	return e, nil
}

// DecodePayload parses the payload of env into T.
func DecodePayload[T any](env Envelope) (T, error) {
	var out T
	if len(env.P) == 0 {
		return out, fmt.Errorf("protocol: empty payload for %q", env.T)
	}
	err := json.Unmarshal(env.P, &out)
	return out, err
}
