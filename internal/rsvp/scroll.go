package rsvp

import (
	"strings"
	"time"

	"github.com/muesli/reflow/wordwrap"
	"github.com/muesli/reflow/wrap"
)

// ScrollPhase tracks whether view-driven scrolling can be trusted as user
// input. After an auto-scroll the view's own motion must not be misread as
// a manual scroll, so reconciliation is suppressed until the cooldown ends.
type ScrollPhase int

const (
	ScrollIdle ScrollPhase = iota
	ScrollAuto
	ScrollCooldown
)

const (
	// DefaultRadius is how many paragraphs are kept visible on each side
	// of the active one.
	DefaultRadius = 40

	autoScrollTime = 150 * time.Millisecond
	scrollCooldown = 400 * time.Millisecond

	// centerSlack is how far (in lines) the active paragraph may drift
	// from the viewport center during playback before recentering.
	centerSlack = 3
)

// ParagraphSync keeps a scrollable paragraph view in step with the
// scheduler's flat word index. It owns the index -> paragraph -> line
// offset mapping for a bounded window of paragraphs around the active one,
// decides when the view needs recentering, and converts settled manual
// scrolls back into seek targets.
type ParagraphSync struct {
	stream *Stream
	radius int
	active int

	phase      ScrollPhase
	phaseUntil time.Time
	now        func() time.Time

	width   int
	height  int
	heights []int
}

// NewParagraphSync creates a sync for stream with the default window
// radius. SetViewport must be called before any line arithmetic is useful.
func NewParagraphSync(stream *Stream) *ParagraphSync {
	return &ParagraphSync{
		stream: stream,
		radius: DefaultRadius,
		now:    time.Now,
	}
}

// SetViewport records the view dimensions and recomputes the wrapped line
// height of every paragraph at the new width.
func (ps *ParagraphSync) SetViewport(width, height int) {
	if width < 1 {
		width = 1
	}
	ps.width = width
	ps.height = height
	ps.heights = make([]int, len(ps.stream.Paragraphs))
	for i := range ps.stream.Paragraphs {
		// Trailing +1 is the blank separator line between paragraphs.
		ps.heights[i] = strings.Count(ps.Wrapped(i), "\n") + 2
	}
}

// Wrapped returns paragraph i wrapped to the viewport width. The soft wrap
// is followed by a hard wrap so unbreakable runs cannot widen a line.
func (ps *ParagraphSync) Wrapped(i int) string {
	return wrap.String(wordwrap.String(ps.stream.Paragraphs[i].Text, ps.width), ps.width)
}

// SetIndex updates the active paragraph from a flat stream index. Returns
// true if the active paragraph changed, which means the window may have
// shifted and the view should re-render.
func (ps *ParagraphSync) SetIndex(index int) bool {
	active := ps.stream.ParagraphAt(index)
	if active == ps.active {
		return false
	}
	ps.active = active
	return true
}

// Active returns the index of the active paragraph.
func (ps *ParagraphSync) Active() int {
	return ps.active
}

// Window returns the [start, end) paragraph range currently presented.
func (ps *ParagraphSync) Window() (start, end int) {
	start = ps.active - ps.radius
	if start < 0 {
		start = 0
	}
	end = ps.active + ps.radius + 1
	if end > len(ps.stream.Paragraphs) {
		end = len(ps.stream.Paragraphs)
	}
	return start, end
}

// ParagraphTop returns the first content line of paragraph i, counted from
// the top of the window.
func (ps *ParagraphSync) ParagraphTop(i int) int {
	start, _ := ps.Window()
	top := 0
	for j := start; j < i && j < len(ps.heights); j++ {
		top += ps.heights[j]
	}
	return top
}

// ContentLines returns the total rendered height of the window.
func (ps *ParagraphSync) ContentLines() int {
	start, end := ps.Window()
	lines := 0
	for i := start; i < end; i++ {
		lines += ps.heights[i]
	}
	return lines
}

// Phase returns the current scroll phase, advancing expired deadlines.
func (ps *ParagraphSync) Phase() ScrollPhase {
	for ps.phase != ScrollIdle && !ps.now().Before(ps.phaseUntil) {
		if ps.phase == ScrollAuto {
			ps.phase = ScrollCooldown
			ps.phaseUntil = ps.phaseUntil.Add(scrollCooldown)
		} else {
			ps.phase = ScrollIdle
		}
	}
	return ps.phase
}

// BeginAutoScroll marks the view as auto-scrolling. Manual reconciliation
// stays suppressed through the following cooldown.
func (ps *ParagraphSync) BeginAutoScroll() {
	ps.phase = ScrollAuto
	ps.phaseUntil = ps.now().Add(autoScrollTime)
}

// RecenterTarget reports the scroll offset that would center the active
// paragraph, and whether the view should move there: during playback when
// the paragraph drifts past the center slack, or while stopped when it has
// left the viewport entirely.
func (ps *ParagraphSync) RecenterTarget(yOffset int, playing bool) (int, bool) {
	if len(ps.heights) == 0 || ps.height <= 0 {
		return 0, false
	}
	top := ps.ParagraphTop(ps.active)
	h := ps.heights[ps.active]
	center := top + h/2
	viewCenter := yOffset + ps.height/2

	deviation := center - viewCenter
	if deviation < 0 {
		deviation = -deviation
	}
	outOfView := top+h <= yOffset || top >= yOffset+ps.height

	if playing && deviation <= centerSlack {
		return 0, false
	}
	if !playing && !outOfView {
		return 0, false
	}

	target := center - ps.height/2
	max := ps.ContentLines() - ps.height
	if target > max {
		target = max
	}
	if target < 0 {
		target = 0
	}
	return target, true
}

// ReconcileScroll converts a settled manual scroll position into a seek
// target: the start index of the window paragraph whose center is nearest
// the viewport center. Returns false while playing, during auto-scroll or
// cooldown, or when the nearest paragraph is already active.
func (ps *ParagraphSync) ReconcileScroll(yOffset int, playing bool) (int, bool) {
	if playing || ps.Phase() != ScrollIdle {
		return 0, false
	}
	start, end := ps.Window()
	if start >= end || len(ps.heights) == 0 {
		return 0, false
	}

	viewCenter := yOffset + ps.height/2
	best, bestDist := ps.active, -1
	top := 0
	for i := start; i < end; i++ {
		center := top + ps.heights[i]/2
		dist := center - viewCenter
		if dist < 0 {
			dist = -dist
		}
		if bestDist < 0 || dist < bestDist {
			best, bestDist = i, dist
		}
		top += ps.heights[i]
	}
	if best == ps.active {
		return 0, false
	}
	ps.active = best
	return ps.stream.Paragraphs[best].Start, true
}
