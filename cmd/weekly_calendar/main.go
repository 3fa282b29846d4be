package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/corbaltcode/calendar-automation/core"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

type Event struct {
	Date  string `json:"date"`
	Email string `json:"email"`
	Slack string `json:"slack"`
}

func (e *Event) Run(ctx context.Context) error {
	cfg, _, err := core.LoadConfig()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	log, err := core.NewLogger(cfg.Production)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer log.Sync()

	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	target := time.Now().In(loc)
	if e.Date != "" {
		if target, err = core.ParseDate(e.Date, loc); err != nil {
			return err
		}
	}
	calendarID := cfg.CalendarID
	if e.Email != "" {
		calendarID = e.Email
	}

	// Fail before touching the calendar if Slack delivery can't work.
	var poster *core.SlackPoster
	if e.Slack != "" {
		token, err := core.SlackToken()
		if err != nil {
			return err
		}
		poster = core.NewSlackPoster(token,
			core.WithSlackTitle(cfg.Slack.Title),
			core.WithMaxBlocks(cfg.Slack.MaxBlocks),
			core.WithSlackLogger(log),
		)
	}

	client, release, err := core.Authorize(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("authorize: %w", err)
	}
	defer release()

	cal, err := core.NewGoogleCalendar(ctx, option.WithHTTPClient(client))
	if err != nil {
		return err
	}

	return report(ctx, cal, poster, weekReport{
		calendarID: calendarID,
		channel:    e.Slack,
		day:        target,
		cfg:        cfg,
		loc:        loc,
		log:        log,
		out:        os.Stdout,
	})
}

type weekReport struct {
	calendarID string
	channel    string
	day        time.Time
	cfg        *core.Config
	loc        *time.Location
	log        *zap.Logger
	out        io.Writer
}

// report prints the week around r.day, or posts it to r.channel when poster
// is set.
func report(ctx context.Context, src core.CalendarSource, poster *core.SlackPoster, r weekReport) error {
	appts, err := core.WeekAppointments(ctx, src, r.calendarID, r.day, r.loc, r.cfg.ExcludedColorIDs)
	if err != nil {
		return err
	}
	r.log.Info("collected week", zap.String("calendar", r.calendarID), zap.Int("events", len(appts)))

	if poster == nil {
		if len(appts) == 0 {
			fmt.Fprintln(r.out, "No events found.")
			return nil
		}
		fmt.Fprintln(r.out, strings.Join(core.FormatConsole(appts, r.loc), "\n"))
		return nil
	}

	stamps, err := poster.PostCalendar(ctx, r.channel, core.SlackBlocks(appts, r.loc))
	for i, ts := range stamps {
		if i == len(stamps)-1 && err == nil {
			fmt.Fprintf(r.out, "Final message sent to Slack: %s\n", ts)
		} else {
			fmt.Fprintf(r.out, "Partial message sent to Slack: %s\n", ts)
		}
	}
	return err
}

func handler(ctx context.Context, e json.RawMessage) error {
	var ev Event
	if len(e) > 0 {
		if err := json.Unmarshal(e, &ev); err != nil {
			return fmt.Errorf("invalid JSON event: %w", err)
		}
	}
	return ev.Run(ctx)
}

func main() {
	// If we're on Lambda runtime
	if core.IsLambda {
		lambda.Start(handler)
		return
	}

	// CLI mode
	var (
		date  = flag.String("date", "", "Date to use for the week (YYYY-MM-DD format)")
		email = flag.String("email", "", "Email address of the calendar to view")
		slack = flag.String("slack", "", "Slack channel or user ID to send the message to")
	)
	flag.Parse()
	if err := godotenv.Load(); err != nil {
		fmt.Fprintln(os.Stderr, "Warning: no .env file found, relying on environment vars")
	}

	ev := Event{Date: *date, Email: *email, Slack: *slack}
	if err := ev.Run(context.Background()); err != nil {
		core.Die("%v", err)
	}
}
