/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package wheel

import (
	"errors"
	"strings"
)

var (
	ErrSpinning    = errors.New("wheel is already spinning")
	ErrNotSpinning = errors.New("wheel is not spinning")
	ErrNotSettled  = errors.New("no result to dismiss")
)

type State int

const (
	Idle State = iota
	Spinning
	Settled
)

func (s State) String() string {
	switch s {
	case Spinning:
		return "spinning"
	case Settled:
		return "settled"
	default:
		return "idle"
	}
}

type Mode string

const (
	Normal      Mode = "Normal"
	Elimination Mode = "Elimination"
)

// ParseMode accepts either mode name in any case; anything else is Normal.
func ParseMode(s string) Mode {
	if strings.EqualFold(strings.TrimSpace(s), string(Elimination)) {
		return Elimination
	}

	return Normal
}

// DefaultEntries seed a wheel that has nothing stored.
var DefaultEntries = []string{
	"Alice",
	"Bob",
	"Charlie",
	"Diana",
	"Edward",
	"Fiona",
	"George",
	"Hannah",
}

// Session holds one wheel's mutable state: entries, rotation, theme, mode
// and the spin lifecycle.
type Session struct {
	Entries *EntrySet

	engine   *Engine
	state    State
	rotation float64
	theme    string
	mode     Mode
	pending  SpinResult
	winner   string

	clearRequested bool
}

func NewSession(engine *Engine) *Session {
	return &Session{
		Entries: NewEntrySet(DefaultEntries...),
		engine:  engine,
		theme:   "Light",
		mode:    Normal,
	}
}

func (s *Session) State() State       { return s.state }
func (s *Session) Rotation() float64  { return s.rotation }
func (s *Session) Theme() string      { return s.theme }
func (s *Session) Mode() Mode         { return s.mode }
func (s *Session) ClearPending() bool { return s.clearRequested }

// Pending returns the in-flight or settled spin, if any.
func (s *Session) Pending() (SpinResult, bool) {
	if s.state == Idle {
		return SpinResult{}, false
	}

	return s.pending, true
}

// Winner is visible only while the session is settled.
func (s *Session) Winner() (string, bool) {
	if s.state != Settled {
		return "", false
	}

	return s.winner, true
}

func (s *Session) SetTheme(theme string) {
	theme = strings.TrimSpace(theme)
	if theme == "" {
		theme = "Light"
	}
	s.theme = theme
}

func (s *Session) SetMode(m Mode) {
	if m != Elimination {
		m = Normal
	}
	s.mode = m
}

// Spin commits to a winner and starts the animation. The caller must call
// Settle after SpinDuration. Spinning again from a settled result dismisses
// that result first.
func (s *Session) Spin() (SpinResult, error) {
	if s.state == Spinning {
		return SpinResult{}, ErrSpinning
	}

	if s.state == Settled {
		if _, err := s.Dismiss(); err != nil {
			return SpinResult{}, err
		}
	}

	res, err := s.engine.Spin(s.Entries.Entries(), s.rotation)
	if err != nil {
		return SpinResult{}, err
	}

	s.pending = res
	s.rotation = res.TargetRotation
	s.winner = ""
	s.state = Spinning

	return res, nil
}

// Settle reveals the pending winner.
func (s *Session) Settle() (string, error) {
	if s.state != Spinning {
		return "", ErrNotSpinning
	}

	s.winner = s.pending.WinnerLabel
	s.state = Settled

	return s.winner, nil
}

// Dismiss hides the result and, in elimination mode, removes the winner
// from the entries.
func (s *Session) Dismiss() (removed int, err error) {
	if s.state != Settled {
		return 0, ErrNotSettled
	}

	if s.mode == Elimination {
		removed = s.Entries.RemoveValue(s.winner)
	}

	s.winner = ""
	s.pending = SpinResult{}
	s.state = Idle

	return removed, nil
}

func (s *Session) RequestClear() {
	s.clearRequested = true
}

func (s *Session) CancelClear() {
	s.clearRequested = false
}

// ConfirmClear empties the entries only after RequestClear.
func (s *Session) ConfirmClear() bool {
	if !s.clearRequested {
		return false
	}

	s.clearRequested = false
	s.Entries.Clear()

	return true
}

// Segment is one slice of the wheel as presented to clients.
type Segment struct {
	Label    string  `json:"label"`
	Display  string  `json:"display"`
	FontSize float64 `json:"font_size"`
	Color    string  `json:"color"`
}

type Snapshot struct {
	State          string    `json:"state"`
	Rotation       float64   `json:"rotation"`
	Entries        []string  `json:"entries"`
	Segments       []Segment `json:"segments"`
	Theme          string    `json:"theme"`
	Palette        []string  `json:"palette"`
	Mode           Mode      `json:"mode"`
	Winner         string    `json:"winner,omitempty"`
	SpinID         string    `json:"spin_id,omitempty"`
	ClearRequested bool      `json:"clear_requested"`
}

func (s *Session) Snapshot() Snapshot {
	entries := s.Entries.Entries()
	palette := Palette(s.theme)
	seg := SegmentAngle(len(entries))

	segments := make([]Segment, len(entries))
	for i, e := range entries {
		fit := FitLabel(e, seg, Radius)
		segments[i] = Segment{
			Label:    e,
			Display:  fit.Text,
			FontSize: fit.FontSize,
			Color:    SegmentColor(palette, i),
		}
	}

	snap := Snapshot{
		State:          s.state.String(),
		Rotation:       s.rotation,
		Entries:        entries,
		Segments:       segments,
		Theme:          s.theme,
		Palette:        palette,
		Mode:           s.mode,
		ClearRequested: s.clearRequested,
	}
	if s.state != Idle {
		snap.SpinID = s.pending.ID
	}
	if w, ok := s.Winner(); ok {
		snap.Winner = w
	}

	return snap
}
