// Package rsvp implements the core RSVP (Rapid Serial Visual Presentation)
// speed reading engine: tokenization, optimal recognition point calculation,
// per-word display timing, playback scheduling, and paragraph scroll sync.
package rsvp

import "strings"

// dashNormalizer maps the odd dash variants found in scanned and converted
// books onto the two canonical dashes.
var dashNormalizer = strings.NewReplacer(
	"‒", "–", // figure dash -> en dash
	"−", "–", // minus sign -> en dash
	"―", "—", // horizontal bar -> em dash
	"⸺", "—", // two-em dash
	"⸻", "—", // three-em dash
)

// tokenPadder spaces out marks that read as standalone pauses so they
// become their own tokens.
var tokenPadder = strings.NewReplacer(
	"—", " — ", // em dash
	"–", " – ", // en dash
	"…", " … ", // ellipsis
)

// CleanText normalizes exotic dash variants onto the canonical em and en
// dashes. Everything else passes through untouched.
func CleanText(text string) string {
	return dashNormalizer.Replace(text)
}

// Tokenize splits text into display tokens. Newlines collapse to spaces,
// and em dashes, en dashes and ellipses become standalone tokens. Paragraph
// boundaries are the caller's concern: split on blank lines first, then
// tokenize each chunk.
func Tokenize(text string) []string {
	text = strings.ReplaceAll(text, "\n", " ")
	text = tokenPadder.Replace(CleanText(text))
	return strings.Fields(text)
}
