package core

import (
	"fmt"
	"time"

	"google.golang.org/api/calendar/v3"
)

var acceptedLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	dateLayout,
}

// ParseTimeAny tries each accepted layout and preserves the parsed offset.
func ParseTimeAny(s string) (time.Time, error) {
	var lastErr error
	for _, layout := range acceptedLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		} else {
			lastErr = err
		}
	}
	return time.Time{}, lastErr
}

// ParseDate reads a YYYY-MM-DD flag value as midnight in loc.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(dateLayout, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, use YYYY-MM-DD: %w", s, err)
	}
	return t, nil
}

// eventTime returns the concrete instant of a timed event boundary. The
// bool is false for all-day (date-only) boundaries.
func eventTime(edt *calendar.EventDateTime) (time.Time, bool, error) {
	if edt == nil || edt.DateTime == "" {
		return time.Time{}, false, nil
	}
	t, err := ParseTimeAny(edt.DateTime)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("cannot parse time %q: %w", edt.DateTime, err)
	}
	return t, true, nil
}

// eventStartOrDate resolves either a dateTime or an all-day date in loc.
func eventStartOrDate(edt *calendar.EventDateTime, loc *time.Location) (time.Time, error) {
	if t, ok, err := eventTime(edt); err != nil || ok {
		return t, err
	}
	if edt == nil || edt.Date == "" {
		return time.Time{}, fmt.Errorf("event time has neither dateTime nor date")
	}
	return time.ParseInLocation(dateLayout, edt.Date, loc)
}
