package rsvp

import (
	"regexp"
	"sort"
	"strings"
)

var paragraphBreak = regexp.MustCompile(`\n[ \t]*\n+`)

// Paragraph is one blank-line-delimited chunk of the source text. Its
// tokens are a sub-slice of the stream's flat word list.
type Paragraph struct {
	Text   string
	Start  int
	Count  int
	Tokens []string
}

// Stream is the immutable word stream for one reading session. Words is the
// flat ordered token list; Paragraphs partition it exactly, in order, with
// no gaps or overlaps. Index values into Words are the single coordinate
// space shared by the Scheduler and the paragraph sync.
type Stream struct {
	Words      []string
	Paragraphs []Paragraph
}

// NewStream tokenizes text into a Stream. Paragraph boundaries are blank
// lines; empty chunks are dropped. Empty or whitespace-only text yields an
// empty stream on which all engine operations are safe no-ops.
func NewStream(text string) *Stream {
	s := &Stream{}
	for _, chunk := range paragraphBreak.Split(text, -1) {
		tokens := Tokenize(chunk)
		if len(tokens) == 0 {
			continue
		}
		s.Paragraphs = append(s.Paragraphs, Paragraph{
			Text:  strings.Join(tokens, " "),
			Start: len(s.Words),
			Count: len(tokens),
		})
		s.Words = append(s.Words, tokens...)
	}
	for i := range s.Paragraphs {
		p := &s.Paragraphs[i]
		p.Tokens = s.Words[p.Start : p.Start+p.Count]
	}
	return s
}

// Len returns the number of tokens in the stream.
func (s *Stream) Len() int {
	return len(s.Words)
}

// Word returns the token at index, or "" if the index is out of range.
func (s *Stream) Word(index int) string {
	if index >= 0 && index < len(s.Words) {
		return s.Words[index]
	}
	return ""
}

// ClampIndex clamps index into [0, Len()-1]. Returns 0 for an empty stream.
func (s *Stream) ClampIndex(index int) int {
	if len(s.Words) == 0 || index < 0 {
		return 0
	}
	if index > len(s.Words)-1 {
		return len(s.Words) - 1
	}
	return index
}

// IndexForProgress converts a stored progress fraction in [0,1] back to an
// absolute index, for resuming a session.
func (s *Stream) IndexForProgress(fraction float64) int {
	return s.ClampIndex(int(fraction * float64(len(s.Words))))
}

// Progress returns index as a fraction of the stream length, suitable for
// persisting.
func (s *Stream) Progress(index int) float64 {
	if len(s.Words) == 0 {
		return 0
	}
	return float64(s.ClampIndex(index)) / float64(len(s.Words))
}

// ParagraphAt returns the index of the paragraph whose token range contains
// the given stream index, or 0 if none does.
func (s *Stream) ParagraphAt(index int) int {
	n := len(s.Paragraphs)
	if n == 0 {
		return 0
	}
	i := sort.Search(n, func(i int) bool {
		return s.Paragraphs[i].Start+s.Paragraphs[i].Count > index
	})
	if i == n || index < s.Paragraphs[i].Start {
		return 0
	}
	return i
}
