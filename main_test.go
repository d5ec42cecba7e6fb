//go:build !gui

package main

import (
	"regexp"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tmckay/skim/internal/rsvp"
)

var ansiRe = regexp.MustCompile("\x1b\\[[0-9;]*m")

func stripANSI(s string) string {
	return ansiRe.ReplaceAllString(s, "")
}

func TestFormatWord(t *testing.T) {
	tests := []struct {
		name string
		word string
	}{
		{"simple word", "hello"},
		{"single char", "a"},
		{"with punctuation", "hello,"},
		{"quoted", "\"great!\""},
		{"unicode", "über"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := formatWord(tt.word)
			// Styling must not alter the visible characters
			if got := stripANSI(result); got != tt.word {
				t.Errorf("formatWord(%q) visible text = %q, want %q", tt.word, got, tt.word)
			}
		})
	}

	if formatWord("") != "" {
		t.Errorf("formatWord(\"\") should be empty")
	}
}

func TestAnchorORPText(t *testing.T) {
	tests := []struct {
		name        string
		word        string
		width       int
		expectedPad int
	}{
		{"short word", "hello", 80, 39},   // ORP at 1, anchor at 40
		{"single char", "a", 80, 40},      // ORP at 0
		{"longer word", "dependable", 80, 37}, // ORP at 3
		{"narrow terminal", "hello", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := anchorORPText(tt.word, tt.word, tt.width)
			pad := len(result) - len(tt.word)
			if pad != tt.expectedPad {
				t.Errorf("anchorORPText(%q, width %d) pad = %d, want %d", tt.word, tt.width, pad, tt.expectedPad)
			}
			if !strings.HasSuffix(result, tt.word) {
				t.Errorf("anchorORPText(%q) = %q, should end with the word", tt.word, result)
			}
		})
	}
}

func TestNewModel(t *testing.T) {
	stream := rsvp.NewStream("Hello world test")
	m := newModel(stream, 500)

	if m.engine.WPM() != 500 {
		t.Errorf("newModel() wpm = %v, want 500", m.engine.WPM())
	}
	if m.engine.Index() != 0 {
		t.Errorf("newModel() index = %v, want 0", m.engine.Index())
	}
	if m.engine.Playing() {
		t.Error("newModel() should start paused")
	}
	if m.mode != modeRSVP {
		t.Errorf("newModel() mode = %v, want flash view", m.mode)
	}
}

func TestHandleKeySpaceTogglesPlay(t *testing.T) {
	stream := rsvp.NewStream("one two three four five")
	m := newModel(stream, 300)
	defer m.engine.Stop()

	updated, _ := m.handleKey(tea.KeyMsg{Type: tea.KeySpace})
	m = updated.(model)
	if !m.engine.Playing() {
		t.Error("space should start playback")
	}

	updated, _ = m.handleKey(tea.KeyMsg{Type: tea.KeySpace})
	m = updated.(model)
	if m.engine.Playing() {
		t.Error("second space should pause playback")
	}
}

func TestHandleKeySpeed(t *testing.T) {
	stream := rsvp.NewStream("one two three")
	m := newModel(stream, 300)

	updated, _ := m.handleKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("+")})
	m = updated.(model)
	if m.engine.WPM() != 300+rsvp.WPMStep {
		t.Errorf("+ should raise wpm to %d, got %d", 300+rsvp.WPMStep, m.engine.WPM())
	}

	updated, _ = m.handleKey(tea.KeyMsg{Type: tea.KeyDown})
	m = updated.(model)
	if m.engine.WPM() != 300 {
		t.Errorf("down should lower wpm back to 300, got %d", m.engine.WPM())
	}
}

func TestHandleKeySeek(t *testing.T) {
	stream := rsvp.NewStream(strings.Repeat("word ", 100))
	m := newModel(stream, 300)

	updated, _ := m.handleKey(tea.KeyMsg{Type: tea.KeyRight})
	m = updated.(model)
	if m.engine.Index() != 10 {
		t.Errorf("right should skip to 10, got %d", m.engine.Index())
	}

	updated, _ = m.handleKey(tea.KeyMsg{Type: tea.KeyLeft})
	m = updated.(model)
	if m.engine.Index() != 0 {
		t.Errorf("left should skip back to 0, got %d", m.engine.Index())
	}

	// Skipping back past the start clamps
	updated, _ = m.handleKey(tea.KeyMsg{Type: tea.KeyLeft})
	m = updated.(model)
	if m.engine.Index() != 0 {
		t.Errorf("left at start should stay at 0, got %d", m.engine.Index())
	}
}

func TestHandleKeySwitchMode(t *testing.T) {
	stream := rsvp.NewStream("one two three four five")
	m := newModel(stream, 300)
	m.sync.SetViewport(m.vp.Width, m.vp.Height)

	updated, _ := m.handleKey(tea.KeyMsg{Type: tea.KeyTab})
	m = updated.(model)
	if m.mode != modeScroll {
		t.Error("tab should switch to scroll view")
	}
	if m.engine.Playing() {
		t.Error("entering scroll view should stop playback")
	}

	updated, _ = m.handleKey(tea.KeyMsg{Type: tea.KeyTab})
	m = updated.(model)
	if m.mode != modeRSVP {
		t.Error("tab should switch back to flash view")
	}
}

func TestHandleKeyQuit(t *testing.T) {
	stream := rsvp.NewStream("one two three")
	m := newModel(stream, 300)

	updated, cmd := m.handleKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	m = updated.(model)
	if !m.quitting {
		t.Error("q should set quitting")
	}
	if cmd == nil {
		t.Error("q should return the quit command")
	}
}

func TestFormatFor(t *testing.T) {
	tests := []struct {
		filename string
		wantNil  bool
	}{
		{"book.epub", false},
		{"BOOK.EPUB", false},
		{"notes.md", false},
		{"notes.markdown", false},
		{"plain.txt", true},
		{"noextension", true},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			f := formatFor(tt.filename)
			if (f == nil) != tt.wantNil {
				t.Errorf("formatFor(%q) = %v, wantNil %v", tt.filename, f, tt.wantNil)
			}
		})
	}
}

func BenchmarkFormatWord(b *testing.B) {
	words := []string{"a", "hello", "testing", "extraordinary"}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for _, word := range words {
			formatWord(word)
		}
	}
}
