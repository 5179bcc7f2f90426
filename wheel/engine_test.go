package wheel

import (
	"errors"
	"math"
	"testing"
)

// fixedRNG replays values in order, repeating the last one.
type fixedRNG struct {
	values []float64
	i      int
}

func (f *fixedRNG) Float64() float64 {
	v := f.values[min(f.i, len(f.values)-1)]
	f.i++
	return v
}

func aligned(rotation float64, winner, n int) bool {
	seg := SegmentAngle(n)
	off := math.Mod(math.Mod(rotation, 360)+float64(winner)*seg+seg/2, 360)
	return off < 1e-6 || 360-off < 1e-6
}

func TestSpinAlignsWinnerUnderPointer(t *testing.T) {
	rng := NewSeededRNG(42)
	engine := NewEngine(rng)

	starts := []float64{0, 17.5, 359.999, -90, 7200.25, 123456.789}

	for n := 1; n <= 37; n++ {
		entries := make([]string, n)
		for i := range entries {
			entries[i] = string(rune('a' + i%26))
		}

		for _, start := range starts {
			res, err := engine.Spin(entries, start)
			if err != nil {
				t.Fatalf("Spin(n=%d): %v", n, err)
			}
			if res.WinnerIndex < 0 || res.WinnerIndex >= n {
				t.Fatalf("winner %d out of range for n=%d", res.WinnerIndex, n)
			}
			if res.TargetRotation < start {
				t.Errorf("rotation went backwards: %f -> %f", start, res.TargetRotation)
			}
			if !aligned(res.TargetRotation, res.WinnerIndex, n) {
				t.Errorf("n=%d start=%f: winner %d not under pointer at %f", n, start, res.WinnerIndex, res.TargetRotation)
			}
			if got := UnderPointer(res.TargetRotation, n); got != res.WinnerIndex {
				t.Errorf("n=%d: UnderPointer=%d, want %d", n, got, res.WinnerIndex)
			}
			if res.WinnerLabel != entries[res.WinnerIndex] {
				t.Errorf("label %q does not match entry %q", res.WinnerLabel, entries[res.WinnerIndex])
			}
		}
	}
}

func TestSpinExtraTurns(t *testing.T) {
	tests := []struct {
		name      string
		draws     []float64
		wantSpins int
	}{
		{"lowest", []float64{0, 0}, 5},
		{"highest", []float64{0, 0.9999}, 9},
		{"middle", []float64{0, 0.5}, 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := NewEngine(&fixedRNG{values: tt.draws})

			res, err := engine.Spin([]string{"a", "b", "c", "d"}, 0)
			if err != nil {
				t.Fatal(err)
			}

			turns := int(math.Floor(res.TargetRotation / 360))
			if turns != tt.wantSpins {
				t.Errorf("expected %d full turns, got %d (rotation %f)", tt.wantSpins, turns, res.TargetRotation)
			}
		})
	}
}

func TestSpinIndexFromDraw(t *testing.T) {
	entries := []string{"a", "b", "c", "d", "e"}

	tests := []struct {
		draw float64
		want int
	}{
		{0, 0},
		{0.19999, 0},
		{0.2, 1},
		{0.5, 2},
		{0.99999999, 4},
	}

	for _, tt := range tests {
		engine := NewEngine(&fixedRNG{values: []float64{tt.draw, 0}})

		res, err := engine.Spin(entries, 0)
		if err != nil {
			t.Fatal(err)
		}
		if res.WinnerIndex != tt.want {
			t.Errorf("draw %f: expected index %d, got %d", tt.draw, tt.want, res.WinnerIndex)
		}
	}
}

func TestSpinEmpty(t *testing.T) {
	engine := NewEngine(NewSeededRNG(1))

	if _, err := engine.Spin(nil, 0); !errors.Is(err, ErrNoEntries) {
		t.Errorf("expected ErrNoEntries, got %v", err)
	}
}

func TestSpinUniform(t *testing.T) {
	const (
		n      = 8
		trials = 80000
	)

	engine := NewEngine(NewSeededRNG(7))
	entries := make([]string, n)
	for i := range entries {
		entries[i] = string(rune('A' + i))
	}

	counts := make([]int, n)
	for range trials {
		res, err := engine.Spin(entries, 0)
		if err != nil {
			t.Fatal(err)
		}
		counts[res.WinnerIndex]++
	}

	expected := float64(trials) / n
	for i, c := range counts {
		if math.Abs(float64(c)-expected) > expected*0.05 {
			t.Errorf("index %d chosen %d times, expected about %.0f", i, c, expected)
		}
	}
}

func TestSpinIDsAreUnique(t *testing.T) {
	engine := NewEngine(NewSeededRNG(3))

	a, _ := engine.Spin([]string{"x"}, 0)
	b, _ := engine.Spin([]string{"x"}, a.TargetRotation)

	if a.ID == "" || a.ID == b.ID {
		t.Errorf("expected distinct spin ids, got %q and %q", a.ID, b.ID)
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0, 0},
		{360, 0},
		{-90, 270},
		{725, 5},
		{-720, 0},
	}

	for _, tt := range tests {
		if got := Normalize(tt.in); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("Normalize(%f) = %f, want %f", tt.in, got, tt.want)
		}
	}
}

func TestNewRNG(t *testing.T) {
	rng, err := NewRNG()
	if err != nil {
		t.Fatal(err)
	}

	for range 100 {
		if v := rng.Float64(); v < 0 || v >= 1 {
			t.Fatalf("draw %f outside [0, 1)", v)
		}
	}
}
