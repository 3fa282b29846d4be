package core

import (
	"fmt"
	"slices"
	"time"

	"google.golang.org/api/calendar/v3"
)

// Event color categories left out of the weekly report.
var DefaultExcludedColorIDs = []string{"1", "3", "4", "5", "6", "7", "8", "9", "11", "12", "13", "14"}

// TimedEvents drops all-day events, keeping only entries whose start and end
// carry a concrete dateTime.
func TimedEvents(events []*calendar.Event) []*calendar.Event {
	out := make([]*calendar.Event, 0, len(events))
	for _, ev := range events {
		if ev.Start == nil || ev.End == nil {
			continue
		}
		if ev.Start.DateTime == "" || ev.End.DateTime == "" {
			continue
		}
		out = append(out, ev)
	}
	return out
}

// FilterByColor drops events whose colorId is excluded. Events with the
// calendar's default color (no colorId) are kept.
func FilterByColor(events []*calendar.Event, excluded []string) []*calendar.Event {
	out := make([]*calendar.Event, 0, len(events))
	for _, ev := range events {
		if slices.Contains(excluded, ev.ColorId) {
			continue
		}
		out = append(out, ev)
	}
	return out
}

// BusyIntervals converts timed events into busy intervals, keeping their
// order. All-day events are skipped.
func BusyIntervals(events []*calendar.Event) ([]Interval, error) {
	busy := make([]Interval, 0, len(events))
	for _, ev := range events {
		start, ok, err := eventTime(ev.Start)
		if err != nil {
			return nil, fmt.Errorf("event %s start: %w", ev.Id, err)
		}
		if !ok {
			continue
		}
		end, ok, err := eventTime(ev.End)
		if err != nil {
			return nil, fmt.Errorf("event %s end: %w", ev.Id, err)
		}
		if !ok {
			continue
		}
		busy = append(busy, Interval{Start: start, End: end})
	}
	return busy, nil
}

// Appointment is a calendar event reduced to what the reports display.
type Appointment struct {
	Summary    string
	Start      time.Time
	End        time.Time
	Conference string
}

func Appointments(events []*calendar.Event, loc *time.Location) ([]Appointment, error) {
	appts := make([]Appointment, 0, len(events))
	for _, ev := range events {
		start, err := eventStartOrDate(ev.Start, loc)
		if err != nil {
			return nil, fmt.Errorf("event %s start: %w", ev.Id, err)
		}
		end, err := eventStartOrDate(ev.End, loc)
		if err != nil {
			return nil, fmt.Errorf("event %s end: %w", ev.Id, err)
		}
		summary := ev.Summary
		if summary == "" {
			summary = "No title"
		}
		appts = append(appts, Appointment{
			Summary:    summary,
			Start:      start.In(loc),
			End:        end.In(loc),
			Conference: ConferenceType(ev),
		})
	}
	return appts, nil
}
