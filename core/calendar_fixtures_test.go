package core

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

// fakeCalendarAPI serves the subset of the Calendar v3 events API used here.
type fakeCalendarAPI struct {
	mu sync.Mutex

	events   []*calendar.Event
	pageSize int
	failPost bool

	inserted    []*calendar.Event
	insertedRaw []map[string]any
	listQueries []map[string][]string
	postQueries []map[string][]string
}

func mkTimed(id, summary, start, end string) *calendar.Event {
	return &calendar.Event{
		Id:      id,
		Summary: summary,
		Start:   &calendar.EventDateTime{DateTime: start},
		End:     &calendar.EventDateTime{DateTime: end},
	}
}

func mkAllDay(id, summary, date, endDate string) *calendar.Event {
	return &calendar.Event{
		Id:      id,
		Summary: summary,
		Start:   &calendar.EventDateTime{Date: date},
		End:     &calendar.EventDateTime{Date: endDate},
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func (f *fakeCalendarAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if r.URL.Path != "/calendars/primary/events" {
		writeJSON(w, http.StatusNotFound, map[string]any{"error": map[string]any{"code": 404, "message": "calendar not found"}})
		return
	}
	q := r.URL.Query()

	switch r.Method {
	case http.MethodGet:
		f.listQueries = append(f.listQueries, q)
		if prop := q.Get("privateExtendedProperty"); prop != "" {
			key, value, _ := strings.Cut(prop, "=")
			var matches []*calendar.Event
			for _, ev := range f.inserted {
				if ev.ExtendedProperties != nil && ev.ExtendedProperties.Private[key] == value {
					matches = append(matches, ev)
				}
			}
			writeJSON(w, http.StatusOK, &calendar.Events{Items: matches})
			return
		}

		start, _ := strconv.Atoi(q.Get("pageToken"))
		end := len(f.events)
		if f.pageSize > 0 && start+f.pageSize < end {
			end = start + f.pageSize
		}
		page := &calendar.Events{Items: f.events[start:end]}
		if end < len(f.events) {
			page.NextPageToken = strconv.Itoa(end)
		}
		writeJSON(w, http.StatusOK, page)

	case http.MethodPost:
		f.postQueries = append(f.postQueries, q)
		if f.failPost {
			writeJSON(w, http.StatusForbidden, map[string]any{"error": map[string]any{"code": 403, "message": "insufficient permissions"}})
			return
		}
		body, err := io.ReadAll(r.Body)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, nil)
			return
		}
		var raw map[string]any
		var ev calendar.Event
		if json.Unmarshal(body, &raw) != nil || json.Unmarshal(body, &ev) != nil {
			writeJSON(w, http.StatusBadRequest, nil)
			return
		}
		ev.Id = fmt.Sprintf("focus%d", len(f.inserted)+1)
		f.inserted = append(f.inserted, &ev)
		f.insertedRaw = append(f.insertedRaw, raw)
		writeJSON(w, http.StatusOK, &ev)

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func newFakeCalendar(t *testing.T, events ...*calendar.Event) (*fakeCalendarAPI, *GoogleCalendar) {
	t.Helper()
	fake := &fakeCalendarAPI{events: events}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	cal, err := NewGoogleCalendar(context.Background(),
		option.WithEndpoint(srv.URL+"/"),
		option.WithHTTPClient(srv.Client()),
	)
	require.NoError(t, err)
	return fake, cal
}
