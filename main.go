//go:build !gui

package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"

	"github.com/tmckay/skim/internal/reader"
	"github.com/tmckay/skim/internal/rsvp"
	"github.com/tmckay/skim/internal/state"
)

// Version info (injected via ldflags)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	orpStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF0000"))

	wordStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF"))

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			Padding(0, 1)

	controlsStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666")).
			Italic(true)

	pausedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFAA00")).
			Bold(true)

	completeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00FF00")).
			Bold(true)

	activeParaStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			Bold(true)

	dimParaStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))

	tocCursorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFAA00")).
			Bold(true)
)

type viewMode int

const (
	modeRSVP viewMode = iota
	modeScroll
)

// progressMsg carries an index change out of the engine's timer goroutine
// into the bubbletea loop.
type progressMsg struct {
	index  int
	origin rsvp.Origin
}

type completeMsg struct{}

type model struct {
	engine *rsvp.Scheduler
	sync   *rsvp.ParagraphSync
	toc    []reader.TOCEntry

	store  *state.Store
	bookID string

	mode       viewMode
	vp         viewport.Model
	tocVisible bool
	tocCursor  int
	completed  bool
	quitting   bool
	width      int
	height     int
}

func newModel(stream *rsvp.Stream, wpm int) model {
	return model{
		engine: rsvp.NewScheduler(stream, wpm),
		sync:   rsvp.NewParagraphSync(stream),
		vp:     viewport.New(80, 22),
		width:  80,
		height: 24,
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.vp.Width = msg.Width
		m.vp.Height = msg.Height - 2
		if m.vp.Height < 1 {
			m.vp.Height = 1
		}
		m.sync.SetViewport(m.vp.Width, m.vp.Height)
		if m.mode == modeScroll {
			m.refreshScroll()
		}
		return m, nil

	case progressMsg:
		if m.sync.SetIndex(msg.index) && m.mode == modeScroll {
			m.refreshScroll()
		}
		if m.mode == modeScroll && msg.origin != rsvp.OriginUserScroll {
			m.centerActive()
		}
		return m, nil

	case completeMsg:
		m.completed = true
		m.saveState()
		return m, nil
	}

	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.tocVisible {
		return m.handleTOCKey(msg)
	}

	switch msg.String() {
	case " ":
		m.completed = false
		m.engine.TogglePlay()
		if !m.engine.Playing() {
			m.saveState()
		}
		return m, nil

	case "+", "=", "up":
		m.engine.SetWPM(m.engine.WPM() + rsvp.WPMStep)
		return m, nil

	case "-", "down":
		m.engine.SetWPM(m.engine.WPM() - rsvp.WPMStep)
		return m, nil

	case "left":
		m.completed = false
		m.engine.Seek(m.engine.Index()-10, rsvp.OriginExternalSeek)
		return m, nil

	case "right":
		m.completed = false
		m.engine.Seek(m.engine.Index()+10, rsvp.OriginExternalSeek)
		return m, nil

	case "tab", "v":
		m.switchMode()
		return m, nil

	case "r":
		m.completed = false
		m.engine.Stop()
		m.engine.Seek(0, rsvp.OriginExternalSeek)
		if m.store != nil && m.bookID != "" {
			m.store.Clear(m.bookID)
		}
		return m, nil

	case "t":
		if len(m.toc) > 0 {
			m.engine.Stop()
			m.tocVisible = true
		}
		return m, nil

	case "j", "pgdown", "d":
		if m.mode == modeScroll {
			m.scrollBy(msg.String())
		}
		return m, nil

	case "k", "pgup", "u":
		if m.mode == modeScroll {
			m.scrollBy(msg.String())
		}
		return m, nil

	case "q", "Q", "ctrl+c":
		m.saveState()
		m.engine.Stop()
		m.quitting = true
		return m, tea.Quit
	}

	return m, nil
}

func (m *model) handleTOCKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.tocCursor > 0 {
			m.tocCursor--
		}
	case "down", "j":
		if m.tocCursor < len(m.toc)-1 {
			m.tocCursor++
		}
	case "enter":
		m.engine.Seek(m.toc[m.tocCursor].WordIndex, rsvp.OriginExternalSeek)
		m.tocVisible = false
		if m.mode == modeScroll {
			m.refreshScroll()
			m.centerActive()
		}
	case "t", "esc", "q":
		m.tocVisible = false
	case "ctrl+c":
		m.saveState()
		m.engine.Stop()
		m.quitting = true
		return *m, tea.Quit
	}
	return *m, nil
}

// switchMode flips between the RSVP flash view and the scroll view. Leaving
// the flash view stops playback and persists progress; leaving the scroll
// view settles any pending manual scroll into a seek first.
func (m *model) switchMode() {
	if m.mode == modeRSVP {
		m.engine.Stop()
		m.saveState()
		m.sync.SetIndex(m.engine.Index())
		m.mode = modeScroll
		m.refreshScroll()
		m.centerActive()
		return
	}
	if seekTo, ok := m.sync.ReconcileScroll(m.vp.YOffset, m.engine.Playing()); ok {
		m.engine.Seek(seekTo, rsvp.OriginUserScroll)
	}
	m.mode = modeRSVP
}

// scrollBy applies one manual scroll step, then reconciles the settled
// position against the engine index.
func (m *model) scrollBy(key string) {
	switch key {
	case "j":
		m.vp.ScrollDown(1)
	case "k":
		m.vp.ScrollUp(1)
	case "d", "pgdown":
		m.vp.ScrollDown(m.vp.Height / 2)
	case "u", "pgup":
		m.vp.ScrollUp(m.vp.Height / 2)
	}
	if seekTo, ok := m.sync.ReconcileScroll(m.vp.YOffset, m.engine.Playing()); ok {
		m.engine.Seek(seekTo, rsvp.OriginUserScroll)
		m.refreshScroll()
	}
}

// refreshScroll rebuilds the viewport content from the sync window.
func (m *model) refreshScroll() {
	start, end := m.sync.Window()
	parts := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		style := dimParaStyle
		if i == m.sync.Active() {
			style = activeParaStyle
		}
		lines := strings.Split(m.sync.Wrapped(i), "\n")
		for j, line := range lines {
			lines[j] = style.Render(line)
		}
		parts = append(parts, strings.Join(lines, "\n"))
	}
	m.vp.SetContent(strings.Join(parts, "\n\n"))
}

// centerActive auto-scrolls the viewport to keep the active paragraph
// centered, marking the motion so it is not mistaken for user input.
func (m *model) centerActive() {
	if target, ok := m.sync.RecenterTarget(m.vp.YOffset, m.engine.Playing()); ok {
		m.sync.BeginAutoScroll()
		m.vp.SetYOffset(target)
	}
}

func (m *model) saveState() {
	if m.store == nil || m.bookID == "" {
		return
	}
	stream := m.engine.Stream()
	m.store.Set(m.bookID, state.BookState{
		Progress: stream.Progress(m.engine.Index()),
		WPM:      m.engine.WPM(),
	})
}

func (m model) View() string {
	if m.quitting {
		if m.completed {
			return completeStyle.Render("\n  Reading complete!\n")
		}
		return ""
	}

	stream := m.engine.Stream()
	if stream.Len() == 0 {
		return "No text to read."
	}

	if m.tocVisible {
		return m.tocView()
	}

	status := m.statusLine()
	if m.mode == modeScroll {
		controls := controlsStyle.Render("SPACE: play  J/K: scroll  TAB: flash view  T: contents  Q: quit")
		return status + "\n" + m.vp.View() + "\n" + controls
	}

	word := stream.Word(m.engine.Index())
	controls := controlsStyle.Render("SPACE: pause/play  ↑/↓: speed  ←/→: skip 10  TAB: scroll view  Q: quit")

	// Reserve 2 lines: 1 for status at top, 1 for controls at bottom
	avail := m.height - 2
	if avail < 1 {
		avail = 1
	}
	vPad := avail / 2

	var sb strings.Builder
	sb.WriteString(status)
	sb.WriteString("\n")
	for i := 0; i < vPad; i++ {
		sb.WriteString("\n")
	}
	sb.WriteString(anchorORPText(formatWord(word), word, m.width))
	for i := 0; i < avail-vPad; i++ {
		sb.WriteString("\n")
	}
	sb.WriteString(controls)

	return sb.String()
}

func (m model) statusLine() string {
	flags := ""
	if m.completed {
		flags = completeStyle.Render(" [COMPLETE]")
	} else if !m.engine.Playing() {
		flags = pausedStyle.Render(" [PAUSED]")
	}

	return statusStyle.Render(
		fmt.Sprintf("Word %d/%d | %d WPM%s",
			m.engine.Index()+1,
			m.engine.Stream().Len(),
			m.engine.WPM(),
			flags,
		),
	)
}

func (m model) tocView() string {
	var sb strings.Builder
	sb.WriteString(statusStyle.Render("Table of Contents"))
	sb.WriteString("\n\n")

	avail := m.height - 4
	if avail < 1 {
		avail = 1
	}
	start := 0
	if m.tocCursor >= avail {
		start = m.tocCursor - avail + 1
	}
	for i := start; i < len(m.toc) && i < start+avail; i++ {
		entry := m.toc[i]
		line := strings.Repeat("  ", entry.Level) + entry.Title
		if i == m.tocCursor {
			line = tocCursorStyle.Render("> " + line)
		} else {
			line = "  " + line
		}
		sb.WriteString(line)
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	sb.WriteString(controlsStyle.Render("↑/↓: move  ENTER: jump  T: close"))
	return sb.String()
}

// formatWord highlights the ORP character of a word.
func formatWord(word string) string {
	runes := []rune(word)
	if len(runes) == 0 {
		return ""
	}
	orp := rsvp.ORPIndex(word)
	if orp >= len(runes) {
		orp = len(runes) - 1
	}

	before := string(runes[:orp])
	focus := string(runes[orp])
	after := ""
	if orp+1 < len(runes) {
		after = string(runes[orp+1:])
	}

	return wordStyle.Render(before) +
		orpStyle.Render(focus) +
		wordStyle.Render(after)
}

// anchorORPText pads the formatted word so its ORP character sits at the
// horizontal center of the terminal.
func anchorORPText(text string, word string, width int) string {
	anchor := width / 2
	pad := anchor - rsvp.ORPIndex(word)
	if pad < 0 {
		pad = 0
	}
	return strings.Repeat(" ", pad) + text
}

func main() {
	wpm := flag.Int("w", 300, "Words per minute (default: 300)")
	showVersion := flag.Bool("v", false, "Show version information")
	showVersionLong := flag.Bool("version", false, "Show version information")
	showTOC := flag.Bool("toc", false, "Show table of contents at startup")
	freshStart := flag.Bool("fresh", false, "Ignore saved reading position")
	debugLog := flag.String("debug", "", "Write a debug log to this file")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Skim - Terminal Speed Reading Tool\n\n")
		fmt.Fprintf(os.Stderr, "Usage:\n")
		fmt.Fprintf(os.Stderr, "  skim [options] [file]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nSupported formats: %s\n", strings.Join(reader.SupportedFormats(), ", "))
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  skim book.epub            Read an EPUB at 300 WPM\n")
		fmt.Fprintf(os.Stderr, "  skim -w 500 file.txt      Read from file at 500 WPM\n")
		fmt.Fprintf(os.Stderr, "  cat file.txt | skim       Read from stdin\n")
		fmt.Fprintf(os.Stderr, "\nControls:\n")
		fmt.Fprintf(os.Stderr, "  SPACE    Pause/play\n")
		fmt.Fprintf(os.Stderr, "  +/-      Adjust speed by %d WPM\n", rsvp.WPMStep)
		fmt.Fprintf(os.Stderr, "  ←/→      Skip back/forward 10 words\n")
		fmt.Fprintf(os.Stderr, "  TAB      Switch between flash and scroll view\n")
		fmt.Fprintf(os.Stderr, "  T        Table of contents\n")
		fmt.Fprintf(os.Stderr, "  R        Restart from the beginning\n")
		fmt.Fprintf(os.Stderr, "  Q        Quit\n")
	}
	flag.Parse()

	if *showVersion || *showVersionLong {
		fmt.Printf("skim %s (commit: %s, built: %s)\n", version, commit, date)
		os.Exit(0)
	}

	if *debugLog != "" {
		f, err := tea.LogToFile(*debugLog, "skim")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening debug log: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
	}

	var text string
	var toc []reader.TOCEntry
	var sourceFile string

	if flag.NArg() > 0 {
		sourceFile = flag.Arg(0)

		var err error
		text, err = reader.ExtractText(sourceFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: Failed to read file '%s': %v\n", sourceFile, err)
			os.Exit(1)
		}

		if p, ok := formatFor(sourceFile).(reader.TOCProvider); ok {
			toc, _ = p.TOC(sourceFile)
		}
	} else {
		stat, _ := os.Stdin.Stat()
		if (stat.Mode() & os.ModeCharDevice) != 0 {
			fmt.Fprintln(os.Stderr, "Error: No input provided. Provide a file or pipe text to stdin.")
			fmt.Fprintln(os.Stderr, "Try: skim -h")
			os.Exit(1)
		}

		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading stdin: %v\n", err)
			os.Exit(1)
		}
		text = string(data)
	}

	stream := rsvp.NewStream(text)
	if stream.Len() == 0 {
		fmt.Fprintln(os.Stderr, "Error: No text to read.")
		os.Exit(1)
	}

	m := newModel(stream, *wpm)
	m.toc = toc

	if sourceFile != "" {
		if store, err := state.NewStore(); err == nil {
			m.store = store
			if hash, err := state.ComputeHash(sourceFile); err == nil {
				m.bookID = hash
				if st, ok := store.Get(hash); ok && !*freshStart {
					m.engine.Seek(stream.IndexForProgress(st.Progress), rsvp.OriginExternalSeek)
					if st.WPM > 0 {
						m.engine.SetWPM(st.WPM)
					}
				}
			}
		}
	}
	m.sync.SetIndex(m.engine.Index())

	if *showTOC && len(toc) > 0 {
		m.tocVisible = true
	}

	p := tea.NewProgram(m, tea.WithAltScreen())
	m.engine.OnProgress(func(index int, origin rsvp.Origin) {
		p.Send(progressMsg{index: index, origin: origin})
	})
	m.engine.OnComplete(func() {
		p.Send(completeMsg{})
	})

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// formatFor returns the format matching a filename, or nil.
func formatFor(filename string) reader.Format {
	lower := strings.ToLower(filename)
	switch {
	case strings.HasSuffix(lower, ".epub"):
		return &reader.EPUBFormat{}
	case strings.HasSuffix(lower, ".md"), strings.HasSuffix(lower, ".markdown"):
		return &reader.MarkdownFormat{}
	}
	return nil
}
