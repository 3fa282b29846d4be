package core

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrUnsortedInput   = errors.New("busy intervals not sorted by start")
	ErrInvalidInterval = errors.New("interval ends before it starts")
)

// TimeWindow bounds an availability search, e.g. a business day.
type TimeWindow struct {
	Start time.Time
	End   time.Time
}

// Interval is a half-open [Start, End) range of time.
type Interval struct {
	Start time.Time
	End   time.Time
}

func (i Interval) Duration() time.Duration {
	return i.End.Sub(i.Start)
}

// FindFreeSlots returns the gaps in window not covered by busy, in order.
// busy must be sorted by Start ascending. A window with Start >= End has no
// free time and yields an empty result.
//
// Gaps are clipped to window.End; busy intervals that start before the
// cursor only move it forward.
func FindFreeSlots(window TimeWindow, busy []Interval) ([]Interval, error) {
	var free []Interval
	if !window.Start.Before(window.End) {
		return free, nil
	}

	cursor := window.Start
	for i, b := range busy {
		if b.End.Before(b.Start) {
			return nil, fmt.Errorf("busy[%d] %s > %s: %w",
				i, b.Start.Format(time.RFC3339), b.End.Format(time.RFC3339), ErrInvalidInterval)
		}
		if i > 0 && b.Start.Before(busy[i-1].Start) {
			return nil, fmt.Errorf("busy[%d] starts at %s, before busy[%d]: %w",
				i, b.Start.Format(time.RFC3339), i-1, ErrUnsortedInput)
		}

		gapEnd := b.Start
		if gapEnd.After(window.End) {
			gapEnd = window.End
		}
		if cursor.Before(gapEnd) {
			free = append(free, Interval{Start: cursor, End: gapEnd})
		}
		if b.End.After(cursor) {
			cursor = b.End
		}
	}

	if cursor.Before(window.End) {
		free = append(free, Interval{Start: cursor, End: window.End})
	}
	return free, nil
}
