package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

// CalendarSource lists the single (recurrence-expanded) events of a
// calendar between timeMin and timeMax, ordered by start time.
type CalendarSource interface {
	ListEvents(ctx context.Context, calendarID string, timeMin, timeMax time.Time) ([]*calendar.Event, error)
}

// FocusCalendar is a calendar that focus blocks can be booked into.
type FocusCalendar interface {
	CalendarSource
	FocusBlockExists(ctx context.Context, calendarID string, slot Interval) (bool, error)
	InsertFocusBlock(ctx context.Context, calendarID string, slot Interval, settings FocusTimeSettings) (*calendar.Event, error)
}

type GoogleCalendar struct {
	srv *calendar.Service
}

func NewGoogleCalendar(ctx context.Context, opts ...option.ClientOption) (*GoogleCalendar, error) {
	srv, err := calendar.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("calendar service: %w", err)
	}
	return &GoogleCalendar{srv: srv}, nil
}

func (g *GoogleCalendar) ListEvents(ctx context.Context, calendarID string, timeMin, timeMax time.Time) ([]*calendar.Event, error) {
	var items []*calendar.Event
	err := g.srv.Events.List(calendarID).
		TimeMin(timeMin.Format(time.RFC3339)).
		TimeMax(timeMax.Format(time.RFC3339)).
		SingleEvents(true).
		OrderBy("startTime").
		Pages(ctx, func(page *calendar.Events) error {
			items = append(items, page.Items...)
			return nil
		})
	if err != nil {
		return nil, fmt.Errorf("list events %s: %w", calendarID, err)
	}
	return items, nil
}

const focusSlotProperty = "focusBlockSlot"

func focusSlotKey(slot Interval) string {
	return slot.Start.UTC().Format(time.RFC3339)
}

// FocusBlockExists reports whether a focus block tagged with slot's key is
// already on the calendar.
func (g *GoogleCalendar) FocusBlockExists(ctx context.Context, calendarID string, slot Interval) (bool, error) {
	found, err := g.srv.Events.List(calendarID).
		PrivateExtendedProperty(focusSlotProperty + "=" + focusSlotKey(slot)).
		TimeMin(slot.Start.Format(time.RFC3339)).
		TimeMax(slot.End.Format(time.RFC3339)).
		SingleEvents(true).
		ShowDeleted(false).
		MaxResults(1).
		Context(ctx).
		Do()
	if err != nil {
		return false, fmt.Errorf("look up focus block %s: %w", focusSlotKey(slot), err)
	}
	return len(found.Items) > 0, nil
}

// InsertFocusBlock books slot as a focus-time event that declines new
// conflicting invitations and carries a Meet link.
func (g *GoogleCalendar) InsertFocusBlock(ctx context.Context, calendarID string, slot Interval, settings FocusTimeSettings) (*calendar.Event, error) {
	ev := focusBlockEvent(slot, settings, uuid.NewString())
	created, err := g.srv.Events.Insert(calendarID, ev).
		ConferenceDataVersion(1).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("insert focus block %s: %w", focusSlotKey(slot), err)
	}
	return created, nil
}

func focusBlockEvent(slot Interval, s FocusTimeSettings, requestID string) *calendar.Event {
	no := false
	loc := s.Location
	if loc == nil {
		loc = slot.Start.Location()
	}
	return &calendar.Event{
		EventType: "focusTime",
		FocusTimeProperties: &calendar.EventFocusTimeProperties{
			AutoDeclineMode: s.AutoDeclineMode,
		},
		Summary: s.Summary,
		Start: &calendar.EventDateTime{
			DateTime: slot.Start.In(loc).Format(time.RFC3339),
			TimeZone: loc.String(),
		},
		End: &calendar.EventDateTime{
			DateTime: slot.End.In(loc).Format(time.RFC3339),
			TimeZone: loc.String(),
		},
		Transparency: "opaque",
		Visibility:   "default",
		ConferenceData: &calendar.ConferenceData{
			CreateRequest: &calendar.CreateConferenceRequest{
				ConferenceSolutionKey: &calendar.ConferenceSolutionKey{Type: "hangoutsMeet"},
				RequestId:             requestID,
			},
		},
		GuestsCanInviteOthers:   &no,
		GuestsCanModify:         false,
		GuestsCanSeeOtherGuests: &no,
		ColorId:                 s.ColorID,
		Reminders: &calendar.EventReminders{
			UseDefault:      false,
			Overrides:       []*calendar.EventReminder{},
			ForceSendFields: []string{"UseDefault", "Overrides"},
		},
		ExtendedProperties: &calendar.EventExtendedProperties{
			Private: map[string]string{focusSlotProperty: focusSlotKey(slot)},
		},
		ForceSendFields: []string{"GuestsCanModify"},
	}
}

// FocusPlan is the free time found on one workday.
type FocusPlan struct {
	Day    time.Time
	Window TimeWindow
	Free   []Interval
}

// PlanFocusTime computes the free slots of day's working hours from the
// timed events on calendarID.
func PlanFocusTime(ctx context.Context, src CalendarSource, calendarID string, day time.Time, hours WorkingHours, loc *time.Location) (FocusPlan, error) {
	window, err := DayWindow(day, hours, loc)
	if err != nil {
		return FocusPlan{}, err
	}
	y, m, d := day.Date()
	midnight := time.Date(y, m, d, 0, 0, 0, 0, loc)

	events, err := src.ListEvents(ctx, calendarID, midnight, EndOfDay(midnight))
	if err != nil {
		return FocusPlan{}, err
	}
	busy, err := BusyIntervals(TimedEvents(events))
	if err != nil {
		return FocusPlan{}, err
	}
	free, err := FindFreeSlots(window, busy)
	if err != nil {
		return FocusPlan{}, fmt.Errorf("free slots for %s: %w", midnight.Format(dateLayout), err)
	}
	return FocusPlan{Day: midnight, Window: window, Free: free}, nil
}

// BookFocusTime inserts a focus block for every free slot of plan that is not
// booked yet. Failures for individual slots are collected and returned
// together; the events that were created are returned either way.
func BookFocusTime(ctx context.Context, cal FocusCalendar, calendarID string, plan FocusPlan, settings FocusTimeSettings, log *zap.Logger) ([]*calendar.Event, error) {
	var created []*calendar.Event
	var errs []error

	for _, slot := range plan.Free {
		exists, err := cal.FocusBlockExists(ctx, calendarID, slot)
		if err != nil {
			log.Warn("focus block lookup failed", zap.String("slot", focusSlotKey(slot)), zap.Error(err))
			errs = append(errs, fmt.Errorf("lookup %s: %w", focusSlotKey(slot), err))
			continue
		}
		if exists {
			log.Info("focus block already booked", zap.String("slot", focusSlotKey(slot)))
			continue
		}

		ev, err := cal.InsertFocusBlock(ctx, calendarID, slot, settings)
		if err != nil {
			log.Warn("focus block insert failed", zap.String("slot", focusSlotKey(slot)), zap.Error(err))
			errs = append(errs, err)
			continue
		}
		log.Info("focus block booked",
			zap.String("calendar", calendarID),
			zap.String("event", ev.Id),
			zap.Time("start", slot.Start),
			zap.Time("end", slot.End),
		)
		created = append(created, ev)
	}
	return created, errors.Join(errs...)
}
