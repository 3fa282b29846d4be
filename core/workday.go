package core

import (
	"fmt"
	"time"
)

const dateLayout = "2006-01-02"

// Company holidays skipped when looking for the next workday.
var DefaultHolidays = []string{
	"2024-07-04", "2024-09-02", "2024-11-28", "2024-11-29", "2024-12-24",
	"2024-12-25", "2025-01-01", "2025-01-20", "2025-05-26", "2025-06-19",
	"2025-07-04", "2025-09-01", "2025-11-27", "2025-11-28", "2025-12-24",
	"2025-12-25", "2025-12-31",
}

// HolidaySet holds dates in YYYY-MM-DD form.
type HolidaySet map[string]struct{}

func NewHolidaySet(dates []string) (HolidaySet, error) {
	set := make(HolidaySet, len(dates))
	for _, d := range dates {
		if _, err := time.Parse(dateLayout, d); err != nil {
			return nil, fmt.Errorf("holiday %q: %w", d, err)
		}
		set[d] = struct{}{}
	}
	return set, nil
}

func (h HolidaySet) Contains(day time.Time) bool {
	_, ok := h[day.Format(dateLayout)]
	return ok
}

func isWeekend(day time.Time) bool {
	wd := day.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// NextWorkday returns the first day after today that is not a weekend day or
// a holiday. The result keeps today's clock time and location.
func NextWorkday(today time.Time, holidays HolidaySet) time.Time {
	next := today.AddDate(0, 0, 1)
	for isWeekend(next) || holidays.Contains(next) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

// WeekRange returns midnight Monday and midnight Friday of day's work week.
func WeekRange(day time.Time) (monday, friday time.Time) {
	y, m, d := day.Date()
	midnight := time.Date(y, m, d, 0, 0, 0, 0, day.Location())
	offset := (int(midnight.Weekday()) + 6) % 7
	monday = midnight.AddDate(0, 0, -offset)
	friday = monday.AddDate(0, 0, 4)
	return monday, friday
}

// EndOfDay is the last representable instant of day in its location.
func EndOfDay(day time.Time) time.Time {
	y, m, d := day.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, day.Location()).AddDate(0, 0, 1).Add(-time.Nanosecond)
}

// WorkingHours is a wall-clock range such as 07:30–19:00.
type WorkingHours struct {
	Start string
	End   string
}

var DefaultWorkingHours = WorkingHours{Start: "07:30", End: "19:00"}

// DayWindow returns the working-hours window of day in loc.
func DayWindow(day time.Time, hours WorkingHours, loc *time.Location) (TimeWindow, error) {
	start, err := clockOn(day, hours.Start, loc)
	if err != nil {
		return TimeWindow{}, fmt.Errorf("day start: %w", err)
	}
	end, err := clockOn(day, hours.End, loc)
	if err != nil {
		return TimeWindow{}, fmt.Errorf("day end: %w", err)
	}
	return TimeWindow{Start: start, End: end}, nil
}

func clockOn(day time.Time, hhmm string, loc *time.Location) (time.Time, error) {
	c, err := time.Parse("15:04", hhmm)
	if err != nil {
		return time.Time{}, err
	}
	y, m, d := day.Date()
	return time.Date(y, m, d, c.Hour(), c.Minute(), 0, 0, loc), nil
}
