package account

import (
	"math"
	"testing"
	"time"
)

func TestLevelFor(t *testing.T) {
	cases := []struct {
		experience int64
		want       int
	}{
		{0, 1},
		{99, 1},
		{100, 2},
		{250, 2},
		{399, 2},
		{400, 3},
		{900, 4},
		{10000, 11},
		{-10, 1},
	}
	for _, tc := range cases {
		if got := LevelFor(tc.experience); got != tc.want {
			t.Errorf("LevelFor(%d) = %d, want %d", tc.experience, got, tc.want)
		}
	}
}

func TestLevelForIsNonDecreasing(t *testing.T) {
	prev := LevelFor(0)
	for exp := int64(1); exp <= 50000; exp++ {
		l := LevelFor(exp)
		if l < prev {
			t.Fatalf("level decreased at experience %d: %d -> %d", exp, prev, l)
		}
		prev = l
	}
}

func TestLevelForMatchesThresholds(t *testing.T) {
	for level := 1; level <= 200; level++ {
		threshold := NextLevelExperience(level)
		if got := LevelFor(threshold); got != level+1 {
			t.Fatalf("LevelFor(%d) = %d, want %d", threshold, got, level+1)
		}
		if got := LevelFor(threshold - 1); got != level {
			t.Fatalf("LevelFor(%d) = %d, want %d", threshold-1, got, level)
		}
	}
}

func TestNextLevelExperience(t *testing.T) {
	if got := NextLevelExperience(0); got != 0 {
		t.Fatalf("NextLevelExperience(0) = %d", got)
	}
	if got := NextLevelExperience(1); got != 100 {
		t.Fatalf("NextLevelExperience(1) = %d", got)
	}
	if got := NextLevelExperience(3); got != 900 {
		t.Fatalf("NextLevelExperience(3) = %d", got)
	}
}

func TestProgress(t *testing.T) {
	a := &Account{Level: 2, Experience: 250}
	// level 2 spans 100..400
	if got := Progress(a); math.Abs(got-0.5) > 1e-9 {
		t.Fatalf("expected 0.5, got %f", got)
	}

	fresh := &Account{Level: 1}
	if got := Progress(fresh); got != 0 {
		t.Fatalf("expected 0 for fresh account, got %f", got)
	}
}

func TestLevelForExtremeExperience(t *testing.T) {
	for _, exp := range []int64{math.MaxInt64, 9223372036000000000} {
		done := make(chan int, 1)
		go func(exp int64) { done <- LevelFor(exp) }(exp)

		select {
		case got := <-done:
			if got != 303700050 {
				t.Errorf("LevelFor(%d) = %d, want 303700050", exp, got)
			}
		case <-time.After(3 * time.Second):
			t.Fatalf("LevelFor(%d) did not return", exp)
		}
	}
}

func TestNextLevelExperienceSaturates(t *testing.T) {
	if got := NextLevelExperience(math.MaxInt32); got != math.MaxInt64 {
		t.Fatalf("NextLevelExperience(MaxInt32) = %d, want MaxInt64", got)
	}
}
