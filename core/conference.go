package core

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"google.golang.org/api/calendar/v3"
)

type conferenceRule func(ev *calendar.Event) (string, bool)

// Evaluated in order; the first rule that recognizes the event wins.
var conferenceRules = []conferenceRule{
	fromConferenceSolution,
	fromVideoEntryPoint,
	fromLocationOrDescription,
	fromHangoutLink,
}

// ConferenceType labels the video call provider of ev, or "" if it has none.
func ConferenceType(ev *calendar.Event) string {
	for _, rule := range conferenceRules {
		if label, ok := rule(ev); ok {
			return label
		}
	}
	return ""
}

type keywordRule struct {
	match func(s string) bool
	label string
}

func contains(sub string) func(string) bool {
	return func(s string) bool { return strings.Contains(s, sub) }
}

var solutionRules = []keywordRule{
	{contains("zoom"), "Zoom"},
	{contains("meet"), "Google Meet"},
	{contains("teams"), "Teams"},
}

var entryPointRules = []keywordRule{
	{contains("zoom.us"), "Zoom"},
	{contains("meet.google.com"), "Google Meet"},
	{contains("teams.microsoft.com"), "Teams"},
}

func firstMatch(rules []keywordRule, s string) (string, bool) {
	for _, r := range rules {
		if r.match(s) {
			return r.label, true
		}
	}
	return "", false
}

func fromConferenceSolution(ev *calendar.Event) (string, bool) {
	if ev.ConferenceData == nil || ev.ConferenceData.ConferenceSolution == nil {
		return "", false
	}
	name := strings.ToLower(ev.ConferenceData.ConferenceSolution.Name)
	if name == "" {
		return "", false
	}
	if label, ok := firstMatch(solutionRules, name); ok {
		return label, true
	}
	return capitalize(name), true
}

// Only the first video entry point is inspected.
func fromVideoEntryPoint(ev *calendar.Event) (string, bool) {
	if ev.ConferenceData == nil {
		return "", false
	}
	for _, ep := range ev.ConferenceData.EntryPoints {
		if ep == nil || ep.EntryPointType != "video" {
			continue
		}
		if label, ok := firstMatch(entryPointRules, strings.ToLower(ep.Uri)); ok {
			return label, true
		}
		return "Video Conference", true
	}
	return "", false
}

type locatedText struct {
	location    string
	description string
}

var locationRules = []struct {
	match func(t locatedText) bool
	label string
}{
	{func(t locatedText) bool {
		return strings.Contains(t.location, "chime") || strings.Contains(t.description, "chime")
	}, "Chime :vomit:"},
	{func(t locatedText) bool {
		return strings.Contains(t.location, "zoom") || strings.Contains(t.description, "zoom.us")
	}, "Zoom"},
	{func(t locatedText) bool {
		return strings.Contains(t.location, "meet.google.com") || strings.Contains(t.description, "meet.google.com")
	}, "Google Meet"},
	{func(t locatedText) bool {
		return strings.Contains(t.location, "teams.microsoft.com") || strings.Contains(t.description, "teams.microsoft.com")
	}, "Teams"},
}

func fromLocationOrDescription(ev *calendar.Event) (string, bool) {
	text := locatedText{
		location:    strings.ToLower(ev.Location),
		description: strings.ToLower(ev.Description),
	}
	for _, r := range locationRules {
		if r.match(text) {
			return r.label, true
		}
	}
	return "", false
}

func fromHangoutLink(ev *calendar.Event) (string, bool) {
	if ev.HangoutLink == "" {
		return "", false
	}
	return "Google Meet", true
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + s[size:]
}
