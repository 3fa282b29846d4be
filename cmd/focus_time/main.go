package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/corbaltcode/calendar-automation/core"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

// Event carries the run parameters, from flags on the CLI or from the
// invocation payload on Lambda.
type Event struct {
	Today      string `json:"today"`
	CalendarID string `json:"calendarId"`
	DryRun     bool   `json:"dryRun"`
}

func (e *Event) Run(ctx context.Context) error {
	cfg, path, err := core.LoadConfig()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	log, err := core.NewLogger(cfg.Production)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer log.Sync()
	if path != "" {
		log.Debug("loaded config", zap.String("path", path))
	}

	loc, err := cfg.Location()
	if err != nil {
		return err
	}
	holidays, err := core.NewHolidaySet(cfg.Holidays)
	if err != nil {
		return err
	}

	today := time.Now().In(loc)
	if e.Today != "" {
		if today, err = core.ParseDate(e.Today, loc); err != nil {
			return err
		}
	}
	calendarID := cfg.CalendarID
	if e.CalendarID != "" {
		calendarID = e.CalendarID
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

	return e.book(ctx, cal, booking{
		calendarID: calendarID,
		today:      today,
		holidays:   holidays,
		cfg:        cfg,
		loc:        loc,
		log:        log,
		out:        os.Stdout,
	})
}

type booking struct {
	calendarID string
	today      time.Time
	holidays   core.HolidaySet
	cfg        *core.Config
	loc        *time.Location
	log        *zap.Logger
	out        io.Writer
}

// book plans the next workday after b.today and fills its free slots, or
// only prints them on a dry run.
func (e *Event) book(ctx context.Context, cal core.FocusCalendar, b booking) error {
	workday := core.NextWorkday(b.today, b.holidays)
	plan, err := core.PlanFocusTime(ctx, cal, b.calendarID, workday, b.cfg.WorkingHours(), b.loc)
	if err != nil {
		return err
	}
	b.log.Info("planned focus time",
		zap.String("calendar", b.calendarID),
		zap.String("day", plan.Day.Format("2006-01-02")),
		zap.Int("slots", len(plan.Free)),
	)

	if len(plan.Free) == 0 {
		fmt.Fprintln(b.out, "No open time slots.")
		return nil
	}
	if e.DryRun {
		for _, line := range core.FormatSlots(plan.Free, b.loc) {
			fmt.Fprintln(b.out, line)
		}
		return nil
	}

	settings := b.cfg.Focus
	settings.Location = b.loc
	created, err := core.BookFocusTime(ctx, cal, b.calendarID, plan, settings, b.log)
	for _, ev := range created {
		fmt.Fprintln(b.out, "Event created:", ev.Start.DateTime, "-", ev.End.DateTime)
	}
	if err != nil {
		return fmt.Errorf("book focus time: %w", err)
	}
	return nil
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
		today      = flag.String("today", "", "Pretend today is this date (YYYY-MM-DD)")
		calendarID = flag.String("calendar", "", "Calendar to book into (default from config)")
		dryRun     = flag.Bool("dry-run", false, "Print the open slots without booking them")
	)
	flag.Parse()
	if err := godotenv.Load(); err != nil {
		fmt.Fprintln(os.Stderr, "Warning: no .env file found, relying on environment vars")
	}

	ev := Event{
		Today:      *today,
		CalendarID: *calendarID,
		DryRun:     *dryRun,
	}
	if err := ev.Run(context.Background()); err != nil {
		core.Die("%v", err)
	}
}
