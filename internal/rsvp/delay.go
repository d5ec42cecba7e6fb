package rsvp

import (
	"regexp"
	"strings"
	"time"
	"unicode"
)

// Display time bounds. The clamp keeps pathological inputs (extreme wpm,
// absurdly long tokens) from stalling or racing the display.
const (
	MinDelay = 50 * time.Millisecond
	MaxDelay = 3000 * time.Millisecond
)

var (
	sentenceEnd = regexp.MustCompile(`[.!?]["'”’]?$`)
	clauseEnd   = regexp.MustCompile(`[,;:]["'”’]?$`)
	closerEnd   = regexp.MustCompile(`[)"”’]$`)
)

// core returns the token with surrounding punctuation stripped.
func core(token string) string {
	if m := tokenPattern.FindStringSubmatch(token); m != nil {
		return m[2]
	}
	return token
}

// Delay returns how long a token should stay on screen at the given pace.
// Short function words are skimmed faster, long words and numbers need more
// fixation time, and trailing punctuation adds a pause. The result is
// clamped to [MinDelay, MaxDelay]. wpm must be positive.
func Delay(token string, wpm int) time.Duration {
	base := 60000.0 / float64(wpm)

	length := len([]rune(core(token)))
	var lengthFactor float64
	switch {
	case length < 2:
		lengthFactor = 0.6
	case length < 6:
		lengthFactor = 0.85
	case length < 9:
		lengthFactor = 1.0
	case length < 14:
		lengthFactor = 1.2
	default:
		lengthFactor = 1.5
	}
	if strings.ContainsFunc(token, unicode.IsDigit) {
		// Numbers are read more slowly than prose.
		lengthFactor *= 1.3
	}

	punctFactor := 1.0
	switch {
	case sentenceEnd.MatchString(token):
		punctFactor = 2.8
	case clauseEnd.MatchString(token) || token == "—" || token == "–":
		punctFactor = 2.0
	case closerEnd.MatchString(token) || token == "…":
		punctFactor = 1.4
	}

	d := time.Duration(base*lengthFactor*punctFactor) * time.Millisecond
	if d < MinDelay {
		return MinDelay
	}
	if d > MaxDelay {
		return MaxDelay
	}
	return d
}
