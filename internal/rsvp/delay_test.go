package rsvp

import (
	"testing"
	"time"

	"pgregory.net/rapid"
)

func TestDelay(t *testing.T) {
	tests := []struct {
		name     string
		token    string
		wpm      int
		expected time.Duration
	}{
		{"single char", "a", 300, 120 * time.Millisecond},
		{"short word", "the", 300, 170 * time.Millisecond},
		{"medium word", "reading", 300, 200 * time.Millisecond},
		{"long word", "dependable", 300, 240 * time.Millisecond},
		{"very long word", "internationalization", 300, 300 * time.Millisecond},
		{"sentence end", "great!", 300, 476 * time.Millisecond},
		{"sentence end with quote", "done.”", 300, 476 * time.Millisecond},
		{"clause end", "word,", 300, 340 * time.Millisecond},
		{"standalone em dash", "—", 300, 240 * time.Millisecond},
		{"standalone ellipsis", "…", 300, 168 * time.Millisecond},
		{"closing paren", "(end)", 300, 238 * time.Millisecond},
		{"numeric token", "1984", 300, 221 * time.Millisecond},
		{"clamped low", "a", 1000, MinDelay},
		{"clamped high", "12345678901234.", 100, MaxDelay},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Delay(tt.token, tt.wpm)
			// Allow for small floating point differences.
			diff := result - tt.expected
			if diff < 0 {
				diff = -diff
			}
			if diff > time.Millisecond {
				t.Errorf("Delay(%q, %d) = %v, want %v", tt.token, tt.wpm, result, tt.expected)
			}
		})
	}
}

func TestDelayOrdering(t *testing.T) {
	for _, wpm := range []int{100, 300, 1000} {
		if Delay("a.", wpm) <= Delay("a", wpm) {
			t.Errorf("terminator should add pause at %d wpm: %v <= %v",
				wpm, Delay("a.", wpm), Delay("a", wpm))
		}
	}
	if Delay("internationalization", 300) <= Delay("cat", 300) {
		t.Errorf("long words should display longer: %v <= %v",
			Delay("internationalization", 300), Delay("cat", 300))
	}
}

func TestDelayBounds(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		token := rapid.String().Draw(t, "token")
		wpm := rapid.IntRange(MinWPM, MaxWPM).Draw(t, "wpm")
		d := Delay(token, wpm)
		if d < MinDelay || d > MaxDelay {
			t.Fatalf("Delay(%q, %d) = %v, out of [%v, %v]", token, wpm, d, MinDelay, MaxDelay)
		}
	})
}

func BenchmarkDelay(b *testing.B) {
	tokens := []string{"a", "hello,", "testing", "extraordinary.", "1984"}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for _, token := range tokens {
			Delay(token, 300)
		}
	}
}
