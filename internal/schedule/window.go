package schedule

import (
	"math"
	"time"
)

// overscanFactor widens the window past the nominal weeks-of-view so that
// panning reveals neighboring jobs before they enter the nominal range.
const overscanFactor = 1.2

// Window is the visible slice of the timeline, parameterized by a single
// anchor date and a nominal width in weeks. The rendered window is 20%
// wider than the requested weeks; the overscan narrows per-day columns
// instead of changing the number of weeks asked for.
type Window struct {
	Anchor time.Time `json:"anchor"`
	Weeks  int       `json:"weeks"`
}

// NewWindow creates a window anchored at the given date.
func NewWindow(anchor time.Time, weeks int) Window {
	if weeks < 1 {
		weeks = 1
	}
	return Window{Anchor: dateOf(anchor), Weeks: weeks}
}

// TotalDays is the calendar width of the window in days, overscan included.
func (w Window) TotalDays() int {
	return int(math.Ceil(float64(w.Weeks) * 7 * overscanFactor))
}

// Start is the first visible day. End is one past the last.
func (w Window) Start() time.Time { return dateOf(w.Anchor) }

func (w Window) End() time.Time { return w.Start().AddDate(0, 0, w.TotalDays()) }

// Pan shifts the anchor by a drag distance in pixels, converted to whole
// days using the current column width. Dragging right (positive delta)
// moves the window into the past.
func (w Window) Pan(deltaPixels, columnPixelWidth float64) Window {
	if columnPixelWidth <= 0 {
		return w
	}
	days := int(math.Round(-deltaPixels / columnPixelWidth))
	if days == 0 {
		return w
	}
	w.Anchor = w.Anchor.AddDate(0, 0, days)
	return w
}

// ShiftWeeks steps the window by whole weeks in either direction.
func (w Window) ShiftWeeks(n int) Window {
	w.Anchor = w.Anchor.AddDate(0, 0, n*7)
	return w
}

// JumpToToday resets the anchor to the current date.
func (w Window) JumpToToday(now time.Time) Window {
	w.Anchor = dateOf(now)
	return w
}

// OffsetPct converts a date to a percentage offset from the window start.
// Values are intentionally not clamped on the low end: a date before the
// window yields a negative offset and the container clips it, which keeps
// panning continuous instead of snapping bars to the edge.
func (w Window) OffsetPct(t time.Time) float64 {
	return float64(daysBetween(w.Start(), t)) / float64(w.TotalDays()) * 100
}

func daysBetween(from, to time.Time) int {
	return int(dateOf(to).Sub(dateOf(from)).Hours() / 24)
}

func dateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
