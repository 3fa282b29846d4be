package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"google.golang.org/api/calendar/v3"
)

func TestConferenceType(t *testing.T) {
	tests := []struct {
		name string
		ev   *calendar.Event
		want string
	}{
		{
			name: "non-ASCII solution name keeps its first letter",
			ev: &calendar.Event{ConferenceData: &calendar.ConferenceData{
				ConferenceSolution: &calendar.ConferenceSolution{Name: "Élan Video"},
			}},
			want: "Élan video",
		},
		{
			name: "solution zoom",
			ev: &calendar.Event{ConferenceData: &calendar.ConferenceData{
				ConferenceSolution: &calendar.ConferenceSolution{Name: "Zoom Meeting"},
			}},
			want: "Zoom",
		},
		{
			name: "solution meet",
			ev: &calendar.Event{ConferenceData: &calendar.ConferenceData{
				ConferenceSolution: &calendar.ConferenceSolution{Name: "Google Meet"},
			}},
			want: "Google Meet",
		},
		{
			name: "solution unknown is capitalized",
			ev: &calendar.Event{ConferenceData: &calendar.ConferenceData{
				ConferenceSolution: &calendar.ConferenceSolution{Name: "WEBEX"},
			}},
			want: "Webex",
		},
		{
			name: "solution wins over location",
			ev: &calendar.Event{
				Location: "https://chime.aws/123",
				ConferenceData: &calendar.ConferenceData{
					ConferenceSolution: &calendar.ConferenceSolution{Name: "Microsoft Teams"},
				},
			},
			want: "Teams",
		},
		{
			name: "video entry point",
			ev: &calendar.Event{ConferenceData: &calendar.ConferenceData{
				EntryPoints: []*calendar.EntryPoint{
					{EntryPointType: "phone", Uri: "tel:+1-555-0100"},
					{EntryPointType: "video", Uri: "https://Teams.Microsoft.com/l/meetup"},
				},
			}},
			want: "Teams",
		},
		{
			name: "unknown video entry point",
			ev: &calendar.Event{ConferenceData: &calendar.ConferenceData{
				EntryPoints: []*calendar.EntryPoint{{EntryPointType: "video", Uri: "https://jitsi.example/room"}},
			}},
			want: "Video Conference",
		},
		{
			name: "chime in description",
			ev:   &calendar.Event{Description: "Join at https://chime.aws/555"},
			want: "Chime :vomit:",
		},
		{
			name: "zoom location",
			ev:   &calendar.Event{Location: "Zoom"},
			want: "Zoom",
		},
		{
			name: "zoom word in description is not enough",
			ev:   &calendar.Event{Description: "we will zoom through the agenda"},
			want: "",
		},
		{
			name: "meet link in description",
			ev:   &calendar.Event{Description: "https://meet.google.com/abc-defg-hij"},
			want: "Google Meet",
		},
		{
			name: "empty solution name falls through",
			ev: &calendar.Event{
				HangoutLink:    "https://meet.google.com/xyz",
				ConferenceData: &calendar.ConferenceData{ConferenceSolution: &calendar.ConferenceSolution{}},
			},
			want: "Google Meet",
		},
		{
			name: "nothing",
			ev:   &calendar.Event{Summary: "Lunch", Location: "Cafeteria"},
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ConferenceType(tt.ev))
		})
	}
}
