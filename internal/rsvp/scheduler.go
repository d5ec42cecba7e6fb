package rsvp

import (
	"sync"
	"time"
)

// Origin tags where an index change came from, so consumers never have to
// infer provenance from side channels.
type Origin int

const (
	// OriginScheduler marks updates from the playback timer itself.
	OriginScheduler Origin = iota
	// OriginUserScroll marks updates driven by manual scrolling.
	OriginUserScroll
	// OriginExternalSeek marks explicit navigation (keys, TOC jumps, resume).
	OriginExternalSeek
)

// WPM bounds and the step the UI adjusts by.
const (
	MinWPM  = 100
	MaxWPM  = 1000
	WPMStep = 25
)

// ClampWPM clamps wpm into [MinWPM, MaxWPM].
func ClampWPM(wpm int) int {
	if wpm < MinWPM {
		return MinWPM
	}
	if wpm > MaxWPM {
		return MaxWPM
	}
	return wpm
}

type timerHandle interface {
	Stop() bool
}

// Scheduler drives RSVP playback over a Stream. It owns the current index
// and play state and re-arms a single timer per displayed token. At most
// one timer is ever pending: every re-arm and every transition out of
// playing stops the previous timer first, and a generation counter keeps a
// stale timer that already fired from mutating state.
type Scheduler struct {
	mu      sync.Mutex
	stream  *Stream
	index   int
	playing bool
	wpm     int
	timer   timerHandle
	gen     uint64

	newTimer   func(time.Duration, func()) timerHandle
	onProgress func(index int, origin Origin)
	onComplete func()
}

// NewScheduler creates a stopped Scheduler at index 0. wpm is clamped to
// [MinWPM, MaxWPM].
func NewScheduler(stream *Stream, wpm int) *Scheduler {
	return &Scheduler{
		stream: stream,
		wpm:    ClampWPM(wpm),
		newTimer: func(d time.Duration, fn func()) timerHandle {
			return time.AfterFunc(d, fn)
		},
	}
}

// OnProgress registers the callback invoked after every index change. The
// callback runs outside the scheduler's lock and may call back into the
// scheduler.
func (s *Scheduler) OnProgress(fn func(index int, origin Origin)) {
	s.mu.Lock()
	s.onProgress = fn
	s.mu.Unlock()
}

// OnComplete registers the callback invoked once when playback reaches the
// end of the stream.
func (s *Scheduler) OnComplete(fn func()) {
	s.mu.Lock()
	s.onComplete = fn
	s.mu.Unlock()
}

// Index returns the current index, clamped to [0, Len()-1].
func (s *Scheduler) Index() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index
}

// Playing reports whether playback is running.
func (s *Scheduler) Playing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.playing
}

// WPM returns the current pace.
func (s *Scheduler) WPM() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.wpm
}

// Stream returns the word stream this scheduler plays.
func (s *Scheduler) Stream() *Stream {
	return s.stream
}

// SetWPM sets the pace, clamped to [MinWPM, MaxWPM]. If playback is running
// the pending timer is re-armed with the new pace.
func (s *Scheduler) SetWPM(wpm int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.wpm = ClampWPM(wpm)
	if s.playing {
		s.arm()
	}
}

// TogglePlay flips between playing and stopped. Toggling at the last token
// restarts from the beginning. No-op on an empty stream.
func (s *Scheduler) TogglePlay() {
	s.mu.Lock()
	if s.stream.Len() == 0 {
		s.mu.Unlock()
		return
	}
	if s.playing {
		s.cancelTimer()
		s.playing = false
		s.mu.Unlock()
		return
	}
	var progress func(int, Origin)
	if s.index >= s.stream.Len()-1 {
		s.index = 0
		progress = s.onProgress
	}
	s.playing = true
	s.arm()
	s.mu.Unlock()
	if progress != nil {
		progress(0, OriginScheduler)
	}
}

// Seek moves the current index to target, clamped to the stream bounds,
// without changing the play state. A running timer is re-armed for the new
// token. No-op on an empty stream.
func (s *Scheduler) Seek(target int, origin Origin) {
	s.mu.Lock()
	if s.stream.Len() == 0 {
		s.mu.Unlock()
		return
	}
	s.index = s.stream.ClampIndex(target)
	if s.playing {
		s.arm()
	}
	idx, progress := s.index, s.onProgress
	s.mu.Unlock()
	if progress != nil {
		progress(idx, origin)
	}
}

// Stop cancels any pending timer and leaves the scheduler stopped.
// Idempotent.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelTimer()
	s.playing = false
}

// arm schedules the next tick for the current token's delay, replacing any
// pending timer. Caller holds the lock.
func (s *Scheduler) arm() {
	s.cancelTimer()
	s.gen++
	gen := s.gen
	d := Delay(s.stream.Word(s.index), s.wpm)
	s.timer = s.newTimer(d, func() { s.tick(gen) })
}

// cancelTimer stops the pending timer and invalidates any tick already in
// flight. Caller holds the lock.
func (s *Scheduler) cancelTimer() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.gen++
}

// tick advances the index by one. At the last token it reports the final
// index once more, then stops and fires the completion callback instead of
// re-arming.
func (s *Scheduler) tick(gen uint64) {
	s.mu.Lock()
	if gen != s.gen || !s.playing {
		s.mu.Unlock()
		return
	}
	if s.index >= s.stream.Len()-1 {
		s.timer = nil
		s.gen++
		s.playing = false
		idx, progress, complete := s.index, s.onProgress, s.onComplete
		s.mu.Unlock()
		if progress != nil {
			progress(idx, OriginScheduler)
		}
		if complete != nil {
			complete()
		}
		return
	}
	s.index++
	s.arm()
	idx, progress := s.index, s.onProgress
	s.mu.Unlock()
	if progress != nil {
		progress(idx, OriginScheduler)
	}
}
