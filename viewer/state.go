// Package viewer models the interaction state of a multi-page document
// display. Every input channel (toolbar buttons, keyboard, wheel, pinch and
// swipe gestures, container resizes) is translated into one of a small set
// of events and folded into the state by Apply; nothing mutates the page
// index or zoom factor directly, so the invariants hold no matter where an
// event came from.
package viewer

import "math"

// Zoom bounds and the per-sample pinch clamp. Zoom 1.0 means fit-to-width.
const (
	MinZoom = 0.25
	MaxZoom = 3.0

	minPinchRatio = 0.9
	maxPinchRatio = 1.1

	// a completed touch sequence counts as a horizontal swipe only when it
	// moved far enough sideways and little enough vertically, so diagonal
	// scrolls are not misread as page turns
	swipeMinHorizontal = 50.0
	swipeMaxVertical   = 40.0
)

// State is the full view state of one open document
type State struct {
	Page           int     // 1-based; meaningless until TotalPages is known
	TotalPages     int     // 0 until the document is parsed
	Zoom           float64 // MinZoom..MaxZoom, two decimal places
	ContainerWidth int     // pixels, tracks the hosting element
	ShowThumbnails bool
}

// New returns the state for a viewer that has not loaded a document yet
func New(containerWidth int) State {
	return State{
		Page:           1,
		Zoom:           1.0,
		ContainerWidth: containerWidth,
		ShowThumbnails: true,
	}
}

// Loaded reports whether a document has been parsed
func (s State) Loaded() bool { return s.TotalPages > 0 }

// RenderWidth is the pixel width a page is rasterized at for the current
// zoom factor
func (s State) RenderWidth() int {
	return int(math.Round(float64(s.ContainerWidth) * s.Zoom))
}

// Event is a logical viewer input. Raw platform events are translated into
// these by thin adapters; see the constructors below.
type Event interface{ isEvent() }

// DocumentLoaded replaces any prior document: page 1, zoom reset
type DocumentLoaded struct{ TotalPages int }

// GoToPage jumps to page N, clamped into the valid range
type GoToPage struct{ N int }

// NextPage moves one page forward; no-op on the last page
type NextPage struct{}

// PreviousPage moves one page back; no-op on the first page
type PreviousPage struct{}

// ZoomBy multiplies the zoom factor, clamped into [MinZoom, MaxZoom]
type ZoomBy struct{ Factor float64 }

// ResetZoom restores fit-to-width
type ResetZoom struct{}

// Resize records a new container width; zoom and page are untouched
type Resize struct{ WidthPx int }

// Pinch is one gesture sample carrying the ratio of the current finger
// distance to the previous one
type Pinch struct{ DistanceRatio float64 }

// Swipe is a completed one-finger touch sequence
type Swipe struct {
	HorizontalDelta float64
	VerticalDelta   float64
}

// ToggleThumbnails flips the thumbnail panel
type ToggleThumbnails struct{}

func (DocumentLoaded) isEvent()   {}
func (GoToPage) isEvent()         {}
func (NextPage) isEvent()         {}
func (PreviousPage) isEvent()     {}
func (ZoomBy) isEvent()           {}
func (ResetZoom) isEvent()        {}
func (Resize) isEvent()           {}
func (Pinch) isEvent()            {}
func (Swipe) isEvent()            {}
func (ToggleThumbnails) isEvent() {}

// Apply folds one event into the state. It never fails: events that make no
// sense for the current state (paging before the document loaded, a swipe
// that is really a scroll) leave the state unchanged.
func Apply(s State, e Event) State {
	switch ev := e.(type) {
	case DocumentLoaded:
		if ev.TotalPages < 1 {
			// failed or empty load: stay in the no-pages state, paging
			// remains a safe no-op
			s.TotalPages = 0
			return s
		}
		s.TotalPages = ev.TotalPages
		s.Page = 1
		s.Zoom = 1.0
		return s

	case GoToPage:
		return goTo(s, ev.N)

	case NextPage:
		return goTo(s, s.Page+1)

	case PreviousPage:
		return goTo(s, s.Page-1)

	case ZoomBy:
		s.Zoom = round2(clamp(s.Zoom*ev.Factor, MinZoom, MaxZoom))
		return s

	case ResetZoom:
		s.Zoom = 1.0
		return s

	case Resize:
		s.ContainerWidth = ev.WidthPx
		return s

	case Pinch:
		ratio := clamp(ev.DistanceRatio, minPinchRatio, maxPinchRatio)
		return Apply(s, ZoomBy{Factor: ratio})

	case Swipe:
		if math.Abs(ev.HorizontalDelta) <= swipeMinHorizontal ||
			math.Abs(ev.VerticalDelta) >= swipeMaxVertical {
			return s
		}
		if ev.HorizontalDelta < 0 {
			return Apply(s, NextPage{})
		}
		return Apply(s, PreviousPage{})

	case ToggleThumbnails:
		s.ShowThumbnails = !s.ShowThumbnails
		return s
	}
	return s
}

func goTo(s State, n int) State {
	if !s.Loaded() {
		return s
	}
	s.Page = int(clamp(float64(n), 1, float64(s.TotalPages)))
	return s
}

func round2(n float64) float64 {
	return math.Round(n*100) / 100
}

func clamp(n, min, max float64) float64 {
	return math.Min(max, math.Max(min, n))
}
