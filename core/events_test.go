package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/calendar/v3"
)

func TestTimedEvents(t *testing.T) {
	events := []*calendar.Event{
		mkAllDay("allday", "Holiday", "2025-03-05", "2025-03-06"),
		mkTimed("timed", "Meeting", "2025-03-05T09:00:00Z", "2025-03-05T10:00:00Z"),
		{Id: "nostart"},
	}
	got := TimedEvents(events)
	require.Len(t, got, 1)
	assert.Equal(t, "timed", got[0].Id)
}

func TestFilterByColor(t *testing.T) {
	plain := mkTimed("plain", "", "2025-03-05T09:00:00Z", "2025-03-05T10:00:00Z")
	green := mkTimed("green", "", "2025-03-05T10:00:00Z", "2025-03-05T11:00:00Z")
	green.ColorId = "2"
	grape := mkTimed("grape", "", "2025-03-05T11:00:00Z", "2025-03-05T12:00:00Z")
	grape.ColorId = "3"

	got := FilterByColor([]*calendar.Event{plain, green, grape}, DefaultExcludedColorIDs)
	require.Len(t, got, 2)
	assert.Equal(t, "plain", got[0].Id)
	assert.Equal(t, "green", got[1].Id)
}

func TestBusyIntervals(t *testing.T) {
	events := []*calendar.Event{
		mkTimed("a", "", "2025-03-05T09:00:00-06:00", "2025-03-05T10:00:00-06:00"),
		mkAllDay("b", "", "2025-03-05", "2025-03-06"),
		mkTimed("c", "", "2025-03-05T16:00:00Z", "2025-03-05T16:30:00Z"),
	}
	busy, err := BusyIntervals(events)
	require.NoError(t, err)
	require.Len(t, busy, 2)
	assert.True(t, busy[0].Start.Equal(time.Date(2025, 3, 5, 15, 0, 0, 0, time.UTC)))
	assert.Equal(t, 30*time.Minute, busy[1].Duration())

	_, err = BusyIntervals([]*calendar.Event{mkTimed("bad", "", "yesterday", "today")})
	assert.ErrorContains(t, err, "bad")
}

func TestAppointments_AllDayUsesLocalMidnight(t *testing.T) {
	loc := chicago(t)
	appts, err := Appointments([]*calendar.Event{mkAllDay("pto", "PTO", "2025-03-05", "2025-03-06")}, loc)
	require.NoError(t, err)
	require.Len(t, appts, 1)
	assert.Equal(t, time.Date(2025, 3, 5, 0, 0, 0, 0, loc), appts[0].Start)
	assert.Equal(t, "", appts[0].Conference)
}

func TestAppointments_MissingTime(t *testing.T) {
	_, err := Appointments([]*calendar.Event{{Id: "broken", Start: &calendar.EventDateTime{}}}, time.UTC)
	assert.Error(t, err)
}

func TestParseTimeAny(t *testing.T) {
	for _, s := range []string{"2025-03-05T09:00:00.123Z", "2025-03-05T09:00:00-06:00", "2025-03-05"} {
		_, err := ParseTimeAny(s)
		assert.NoError(t, err, s)
	}
	_, err := ParseTimeAny("03/05/2025")
	assert.Error(t, err)
}

func TestParseDate(t *testing.T) {
	loc := chicago(t)
	d, err := ParseDate("2025-03-05", loc)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 3, 5, 0, 0, 0, 0, loc), d)

	_, err = ParseDate("tomorrow", loc)
	assert.ErrorContains(t, err, "YYYY-MM-DD")
}
