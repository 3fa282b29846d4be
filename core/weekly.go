package core

import (
	"context"
	"fmt"
	"time"
)

// WeekAppointments returns the timed, non-excluded events of the Monday to
// Friday work week containing day, in start order.
func WeekAppointments(ctx context.Context, src CalendarSource, calendarID string, day time.Time, loc *time.Location, excludedColors []string) ([]Appointment, error) {
	monday, friday := WeekRange(day.In(loc))

	events, err := src.ListEvents(ctx, calendarID, monday, EndOfDay(friday))
	if err != nil {
		return nil, err
	}
	appts, err := Appointments(FilterByColor(TimedEvents(events), excludedColors), loc)
	if err != nil {
		return nil, fmt.Errorf("week of %s: %w", monday.Format(dateLayout), err)
	}
	return appts, nil
}
