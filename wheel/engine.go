/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package wheel

import (
	crand "crypto/rand"
	"encoding/binary"
	"errors"
	"math"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
)

const (
	// SpinDuration is how long the wheel animates before the winner may be shown.
	SpinDuration = 4000 * time.Millisecond

	// Easing is the CSS timing function clients animate the rotation with.
	Easing = "cubic-bezier(0.17, 0.67, 0.12, 0.99)"

	minExtraSpins = 5
	extraSpinSpan = 5
)

var (
	ErrNoEntries = errors.New("wheel has no entries")
)

// RNG draws uniformly from [0, 1).
type RNG interface {
	Float64() float64
}

// NewRNG returns a PCG generator seeded from crypto/rand.
func NewRNG() (RNG, error) {
	var b [16]byte
	if _, err := crand.Read(b[:]); err != nil {
		return nil, err
	}

	return rand.New(rand.NewPCG(binary.LittleEndian.Uint64(b[:8]), binary.LittleEndian.Uint64(b[8:]))), nil
}

// NewSeededRNG returns a deterministic generator.
func NewSeededRNG(seed uint64) RNG {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

type SpinResult struct {
	ID             string
	WinnerIndex    int
	WinnerLabel    string
	TargetRotation float64
}

// Engine picks winners and computes where the wheel must stop.
type Engine struct {
	rng RNG
}

func NewEngine(rng RNG) *Engine {
	return &Engine{rng: rng}
}

// Spin chooses a winner among entries and returns a rotation, never less than
// current, that leaves the winner's segment midpoint under the pointer.
func (e *Engine) Spin(entries []string, current float64) (SpinResult, error) {
	n := len(entries)
	if n == 0 {
		return SpinResult{}, ErrNoEntries
	}

	winner := e.pick(n)
	spins := minExtraSpins + e.pick(extraSpinSpan)

	return SpinResult{
		ID:             uuid.NewString(),
		WinnerIndex:    winner,
		WinnerLabel:    entries[winner],
		TargetRotation: TargetRotation(current, winner, n, spins),
	}, nil
}

func (e *Engine) pick(n int) int {
	i := int(math.Floor(e.rng.Float64() * float64(n)))
	if i >= n {
		i = n - 1
	}
	if i < 0 {
		i = 0
	}

	return i
}

// SegmentAngle is the arc, in degrees, each of n entries occupies.
func SegmentAngle(n int) float64 {
	if n <= 0 {
		return 0
	}

	return 360 / float64(n)
}

// TargetRotation adds spins full turns plus the smallest forward offset that
// brings segment winner of n to the pointer.
func TargetRotation(current float64, winner, n, spins int) float64 {
	seg := SegmentAngle(n)

	target := math.Mod(360-math.Mod(float64(winner)*seg+seg/2, 360), 360)
	normalized := Normalize(current)
	delta := math.Mod(target-normalized+360, 360)

	return current + float64(spins)*360 + delta
}

// Normalize maps degrees onto [0, 360).
func Normalize(deg float64) float64 {
	n := math.Mod(math.Mod(deg, 360)+360, 360)
	if n >= 360 {
		n = 0
	}

	return n
}

// UnderPointer returns the index of the segment under the pointer once the
// wheel rests at rotation.
func UnderPointer(rotation float64, n int) int {
	if n <= 0 {
		return -1
	}

	seg := SegmentAngle(n)
	i := int(math.Floor(Normalize(360-Normalize(rotation)) / seg))
	if i >= n {
		i = n - 1
	}

	return i
}
