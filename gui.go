//go:build gui

package main

import (
	"flag"
	"fmt"
	"image/color"
	"io"
	"os"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

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

type guiModel struct {
	engine   *rsvp.Scheduler
	toc      []reader.TOCEntry
	fontSize float32

	tocVisible bool
	completed  bool

	store  *state.Store
	bookID string
}

func newGUIModel(stream *rsvp.Stream, wpm int, toc []reader.TOCEntry) *guiModel {
	return &guiModel{
		engine:   rsvp.NewScheduler(stream, wpm),
		toc:      toc,
		fontSize: 72,
	}
}

func (m *guiModel) saveState() {
	if m.store == nil || m.bookID == "" {
		return
	}
	stream := m.engine.Stream()
	m.store.Set(m.bookID, state.BookState{
		Progress: stream.Progress(m.engine.Index()),
		WPM:      m.engine.WPM(),
	})
}

func createWordDisplay(word string, fontSize float32, windowWidth float32) *fyne.Container {
	runes := []rune(word)
	orp := rsvp.ORPIndex(word)

	// Ensure orp is within bounds
	if orp >= len(runes) {
		orp = len(runes) - 1
	}
	if orp < 0 {
		orp = 0
	}

	before := ""
	focus := ""
	after := ""
	if len(runes) > 0 {
		before = string(runes[:orp])
		focus = string(runes[orp])
		if orp+1 < len(runes) {
			after = string(runes[orp+1:])
		}
	}

	beforeText := canvas.NewText(before, color.White)
	beforeText.TextSize = fontSize
	beforeText.TextStyle.Bold = true

	focusText := canvas.NewText(focus, color.RGBA{R: 255, G: 0, B: 0, A: 255})
	focusText.TextSize = fontSize
	focusText.TextStyle.Bold = true

	afterText := canvas.NewText(after, color.White)
	afterText.TextSize = fontSize
	afterText.TextStyle.Bold = true

	// Measure text
	beforeSize := beforeText.MinSize()
	focusSize := focusText.MinSize()

	// Horizontal: anchor ORP at center
	centerX := windowWidth / 2
	beforeX := centerX - beforeSize.Width
	focusX := centerX
	afterX := centerX + focusSize.Width

	if beforeX < 0 {
		beforeX = 0
	}

	c := &fyne.Container{
		Layout: &centerVerticalLayout{},
		Objects: []fyne.CanvasObject{
			beforeText,
			focusText,
			afterText,
		},
	}

	// Position horizontally
	beforeText.Move(fyne.NewPos(beforeX, 0))
	focusText.Move(fyne.NewPos(focusX, 0))
	afterText.Move(fyne.NewPos(afterX, 0))

	return c
}

type centerVerticalLayout struct{}

func (l *centerVerticalLayout) MinSize(objects []fyne.CanvasObject) fyne.Size {
	var maxH float32
	for _, o := range objects {
		size := o.MinSize()
		if size.Height > maxH {
			maxH = size.Height
		}
	}
	return fyne.NewSize(0, maxH)
}

func (l *centerVerticalLayout) Layout(objects []fyne.CanvasObject, size fyne.Size) {
	var maxH float32
	for _, o := range objects {
		objSize := o.MinSize()
		if objSize.Height > maxH {
			maxH = objSize.Height
		}
	}

	// Center vertically
	y := (size.Height - maxH) / 2
	if y < 0 {
		y = 0
	}

	// Position each object at the correct Y (X already set)
	for _, o := range objects {
		pos := o.Position()
		o.Move(fyne.NewPos(pos.X, y))
		o.Resize(o.MinSize())
	}
}

func main() {
	wpm := flag.Int("w", 300, "Words per minute")
	showVersion := flag.Bool("v", false, "Show version information")
	showVersionLong := flag.Bool("version", false, "Show version information")
	showTOC := flag.Bool("toc", false, "Show table of contents at startup")
	freshStart := flag.Bool("fresh", false, "Ignore saved reading position")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Skim - GUI Speed Reading Tool\n\n")
		fmt.Fprintf(os.Stderr, "Usage:\n")
		fmt.Fprintf(os.Stderr, "  skim [options] [file]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  skim file.txt             Read from file at 300 WPM\n")
		fmt.Fprintf(os.Stderr, "  skim -w 500 file.txt      Read from file at 500 WPM\n")
		fmt.Fprintf(os.Stderr, "  skim --toc book.epub      Show TOC panel at startup\n")
		fmt.Fprintf(os.Stderr, "  cat file.txt | skim       Read from stdin\n")
	}
	flag.Parse()

	if *showVersion || *showVersionLong {
		fmt.Printf("skim %s (commit: %s, built: %s)\n", version, commit, date)
		os.Exit(0)
	}

	var text string
	var toc []reader.TOCEntry
	var sourceFile string

	if flag.NArg() > 0 {
		sourceFile = flag.Arg(0)

		if p, ok := formatFor(sourceFile).(reader.TOCProvider); ok {
			toc, _ = p.TOC(sourceFile)
		}

		var err error
		text, err = reader.ExtractText(sourceFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: Failed to read file '%s': %v\n", sourceFile, err)
			os.Exit(1)
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

	m := newGUIModel(stream, *wpm, toc)

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

	if *showTOC && len(toc) > 0 {
		m.tocVisible = true
	}

	a := app.New()
	w := a.NewWindow("skim - Speed Reader")

	statusLabel := widget.NewLabel("")
	statusLabel.Alignment = fyne.TextAlignCenter

	tocHint := ""
	if len(m.toc) > 0 {
		tocHint = "  T: TOC"
	}
	controlsLabel := widget.NewLabel("SPACE: pause  ↑/↓: speed  +/-: font  ←/→: skip 10" + tocHint + "  R: restart  F: fullscreen  Q: quit")
	controlsLabel.Alignment = fyne.TextAlignCenter

	// Create placeholder for word display
	wordContainer := container.NewMax()

	var tocList *widget.List
	var tocPanel *container.Split
	var mainContainer *fyne.Container

	updateDisplay := func() {
		canvasWidth := w.Canvas().Size().Width
		if canvasWidth <= 0 {
			canvasWidth = 800
		}

		word := stream.Word(m.engine.Index())
		newWordDisplay := createWordDisplay(word, m.fontSize, canvasWidth)
		wordContainer.Objects = []fyne.CanvasObject{newWordDisplay}
		wordContainer.Refresh()

		flags := ""
		if m.completed {
			flags = " [COMPLETE]"
		} else if !m.engine.Playing() {
			flags = " [PAUSED]"
		}
		statusLabel.SetText(fmt.Sprintf("Word %d/%d | %d WPM | Font: %.0f%s",
			m.engine.Index()+1, stream.Len(), m.engine.WPM(), m.fontSize, flags))
	}

	// Timer callbacks arrive on the engine's goroutine; hop onto the fyne
	// event loop before touching widgets.
	m.engine.OnProgress(func(index int, origin rsvp.Origin) {
		fyne.Do(updateDisplay)
	})
	m.engine.OnComplete(func() {
		m.completed = true
		m.saveState()
		fyne.Do(updateDisplay)
	})

	if len(m.toc) > 0 {
		tocList = widget.NewList(
			func() int { return len(m.toc) },
			func() fyne.CanvasObject {
				return container.NewVBox(
					widget.NewLabel("Title"),
					widget.NewLabel("Preview"),
				)
			},
			func(id widget.ListItemID, obj fyne.CanvasObject) {
				entry := m.toc[id]
				vbox := obj.(*fyne.Container)
				titleLabel := vbox.Objects[0].(*widget.Label)
				previewLabel := vbox.Objects[1].(*widget.Label)

				indent := strings.Repeat("  ", entry.Level)
				titleLabel.SetText(indent + entry.Title)
				titleLabel.TextStyle.Bold = true

				preview := entry.Preview
				if len(preview) > 50 {
					preview = preview[:50] + "..."
				}
				previewLabel.SetText(indent + preview)
			},
		)

		tocList.OnSelected = func(id widget.ListItemID) {
			if id < len(m.toc) {
				m.completed = false
				m.engine.Seek(m.toc[id].WordIndex, rsvp.OriginExternalSeek)
				m.tocVisible = false
				tocPanel.Leading.Hide()
				tocPanel.Refresh()
				updateDisplay()
			}
		}
	}

	readingContent := container.NewBorder(
		statusLabel,
		controlsLabel,
		nil, nil,
		wordContainer,
	)

	if len(m.toc) > 0 {
		tocContainer := container.NewBorder(
			widget.NewLabel("Table of Contents"),
			widget.NewLabel("Click to jump • T to close"),
			nil, nil,
			tocList,
		)

		tocPanel = container.NewHSplit(tocContainer, readingContent)
		tocPanel.Offset = 0.33

		if !m.tocVisible {
			tocContainer.Hide()
		}

		mainContainer = container.NewMax(tocPanel)
	} else {
		mainContainer = container.NewMax(readingContent)
	}

	w.Canvas().SetOnTypedKey(func(key *fyne.KeyEvent) {
		switch key.Name {
		case fyne.KeySpace:
			m.completed = false
			m.engine.TogglePlay()
			if !m.engine.Playing() {
				m.saveState()
			}
			updateDisplay()

		case fyne.KeyUp:
			m.engine.SetWPM(m.engine.WPM() + rsvp.WPMStep)
			updateDisplay()

		case fyne.KeyDown:
			m.engine.SetWPM(m.engine.WPM() - rsvp.WPMStep)
			updateDisplay()

		case fyne.KeyLeft:
			m.completed = false
			m.engine.Seek(m.engine.Index()-10, rsvp.OriginExternalSeek)
			updateDisplay()

		case fyne.KeyRight:
			m.completed = false
			m.engine.Seek(m.engine.Index()+10, rsvp.OriginExternalSeek)
			updateDisplay()

		case fyne.KeyF:
			w.SetFullScreen(!w.FullScreen())

		case fyne.KeyQ:
			m.saveState()
			m.engine.Stop()
			a.Quit()
		}
	})

	// Handle T and R keys
	w.Canvas().SetOnTypedRune(func(r rune) {
		switch r {
		case 't', 'T':
			if tocPanel != nil && len(m.toc) > 0 {
				m.tocVisible = !m.tocVisible
				if m.tocVisible {
					m.engine.Stop()
					tocPanel.Leading.Show()
				} else {
					tocPanel.Leading.Hide()
				}
				tocPanel.Refresh()
				updateDisplay()
			}

		case 'r', 'R':
			m.completed = false
			m.engine.Stop()
			m.engine.Seek(0, rsvp.OriginExternalSeek)
			if m.store != nil && m.bookID != "" {
				m.store.Clear(m.bookID)
			}
			updateDisplay()

		case '+', '=':
			if m.fontSize < 200 {
				m.fontSize += 5
				updateDisplay()
			}
		case '-':
			if m.fontSize > 20 {
				m.fontSize -= 5
				updateDisplay()
			}
		}
	})

	w.Resize(fyne.NewSize(800, 600))
	w.SetContent(mainContainer)

	w.SetOnClosed(func() {
		m.saveState()
		m.engine.Stop()
	})

	// Initialize first word after window shows
	go func() {
		fyne.DoAndWait(updateDisplay)
	}()

	w.ShowAndRun()
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
