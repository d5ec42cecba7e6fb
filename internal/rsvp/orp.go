package rsvp

import "regexp"

// tokenPattern splits a token into leading bracket/quote marks, a core, and
// trailing punctuation. The core is what the eye actually reads.
var tokenPattern = regexp.MustCompile(`^(["'` + "`" + `([{“‘«]*)(.*?)(["')\]}.,!?;:”’»…]*)$`)

// ORPIndex returns the Optimal Recognition Point for a token: the rune
// offset the eye should fixate on when the token is flashed. The pivot sits
// roughly 30% into the core, past any opening quotes or brackets.
func ORPIndex(token string) int {
	m := tokenPattern.FindStringSubmatch(token)
	if m == nil {
		// Pattern can't reject input in practice, but keep a
		// proportional fallback rather than failing.
		return int(float64(len([]rune(token))) * 0.3)
	}
	prefix := len([]rune(m[1]))
	core := len([]rune(m[2]))
	if core == 0 {
		return prefix
	}
	return prefix + int(float64(core)*0.3)
}
