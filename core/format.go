package core

import (
	"fmt"
	"time"

	"github.com/slack-go/slack"
)

const (
	clockLayout     = "03:04 PM"
	dayHeaderLayout = "Monday - 01/02/2006"
)

func sameDay(a, b time.Time) bool {
	ya, ma, da := a.Date()
	yb, mb, db := b.Date()
	return ya == yb && ma == mb && da == db
}

func appointmentText(a Appointment, loc *time.Location) string {
	return fmt.Sprintf("%s to %s", a.Start.In(loc).Format(clockLayout), a.End.In(loc).Format(clockLayout))
}

func conferenceSuffix(a Appointment) string {
	if a.Conference == "" {
		return ""
	}
	return " (" + a.Conference + ")"
}

// FormatConsole renders appointments as plain text lines grouped by day.
func FormatConsole(appts []Appointment, loc *time.Location) []string {
	var lines []string
	var current time.Time
	for i, a := range appts {
		start := a.Start.In(loc)
		if i == 0 || !sameDay(start, current) {
			if len(lines) > 0 {
				lines = append(lines, "")
			}
			current = start
			lines = append(lines, "# "+start.Format(dayHeaderLayout))
		}
		lines = append(lines, fmt.Sprintf("  - %s: %s%s", appointmentText(a, loc), a.Summary, conferenceSuffix(a)))
	}
	return lines
}

// SlackBlocks renders appointments as Block Kit blocks: a header per day,
// a divider between days and one mrkdwn section per appointment.
func SlackBlocks(appts []Appointment, loc *time.Location) []slack.Block {
	var blocks []slack.Block
	var current time.Time
	for i, a := range appts {
		start := a.Start.In(loc)
		if i == 0 || !sameDay(start, current) {
			if len(blocks) > 0 {
				blocks = append(blocks, slack.NewDividerBlock())
			}
			current = start
			blocks = append(blocks, headerBlock(start.Format(dayHeaderLayout)))
		}
		text := fmt.Sprintf("*%s:* %s%s", appointmentText(a, loc), a.Summary, conferenceSuffix(a))
		blocks = append(blocks, slack.NewSectionBlock(
			slack.NewTextBlockObject(slack.MarkdownType, text, false, false), nil, nil,
		))
	}
	return blocks
}

func headerBlock(text string) *slack.HeaderBlock {
	return slack.NewHeaderBlock(slack.NewTextBlockObject(slack.PlainTextType, text, true, false))
}

// FormatSlots renders free intervals one per line.
func FormatSlots(slots []Interval, loc *time.Location) []string {
	lines := make([]string, 0, len(slots))
	for _, s := range slots {
		lines = append(lines, fmt.Sprintf("%s %s - %s (%s)",
			s.Start.In(loc).Format(dateLayout),
			s.Start.In(loc).Format(clockLayout),
			s.End.In(loc).Format(clockLayout),
			s.Duration().Round(time.Minute)))
	}
	return lines
}
