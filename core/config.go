package core

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"
	_ "time/tzdata"

	"github.com/BurntSushi/toml"
)

const ConfigFileName = ".calendar-automation.toml"

type Config struct {
	Timezone         string   `toml:"timezone"`
	CalendarID       string   `toml:"calendar_id"`
	DayStart         string   `toml:"day_start"`
	DayEnd           string   `toml:"day_end"`
	Holidays         []string `toml:"holidays"`
	ExcludedColorIDs []string `toml:"excluded_color_ids"`
	Production       bool     `toml:"production"`

	CredentialsFile    string `toml:"credentials_file"`
	TokenFile          string `toml:"token_file"`
	TokenDB            string `toml:"token_db"`
	ServiceAccountFile string `toml:"service_account_file"`
	Subject            string `toml:"subject"`

	Focus FocusTimeSettings `toml:"focus"`
	Slack SlackSettings     `toml:"slack"`
}

// FocusTimeSettings shape the blocks booked into free slots.
type FocusTimeSettings struct {
	Summary         string         `toml:"summary"`
	ColorID         string         `toml:"color_id"`
	Location        *time.Location `toml:"-"`
	AutoDeclineMode string         `toml:"auto_decline_mode"`
}

type SlackSettings struct {
	Title     string `toml:"title"`
	MaxBlocks int    `toml:"max_blocks"`
}

func DefaultConfig() *Config {
	return &Config{
		Timezone:         "America/Chicago",
		CalendarID:       "primary",
		DayStart:         DefaultWorkingHours.Start,
		DayEnd:           DefaultWorkingHours.End,
		Holidays:         slices.Clone(DefaultHolidays),
		ExcludedColorIDs: slices.Clone(DefaultExcludedColorIDs),
		CredentialsFile:  "credentials.json",
		TokenFile:        "token.json",
		Focus: FocusTimeSettings{
			Summary:         "DO NOT BOOK. For INTERNAL use",
			ColorID:         "3",
			AutoDeclineMode: "declineOnlyNewConflictingInvitations",
		},
		Slack: SlackSettings{
			Title:     defaultSlackTitle,
			MaxBlocks: MaxBlocksPerMessage,
		},
	}
}

// LoadConfig reads the config file from the current directory, then from
// $HOME/.config/calendar-automation/. Fields absent from the file keep their
// defaults. A missing file is not an error.
func LoadConfig() (*Config, string, error) {
	candidates := []string{ConfigFileName}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, ".config", "calendar-automation", ConfigFileName))
	}
	for _, path := range candidates {
		cfg, err := ReadConfig(path)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, path, err
		}
		return cfg, path, nil
	}
	return DefaultConfig(), "", nil
}

func ReadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if _, err := c.Location(); err != nil {
		return err
	}
	if _, err := DayWindow(time.Now(), c.WorkingHours(), time.UTC); err != nil {
		return fmt.Errorf("working hours: %w", err)
	}
	if _, err := NewHolidaySet(c.Holidays); err != nil {
		return err
	}
	if c.CalendarID == "" {
		return errors.New("calendar_id must not be empty")
	}
	return nil
}

func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

func (c *Config) WorkingHours() WorkingHours {
	return WorkingHours{Start: c.DayStart, End: c.DayEnd}
}

// TokenStore picks the sqlite cache when token_db is set, the JSON file
// otherwise. The caller closes the returned closer.
func (c *Config) TokenStore(account string) (TokenStore, func() error, error) {
	if c.TokenDB == "" {
		return FileTokenStore{Path: c.TokenFile}, func() error { return nil }, nil
	}
	store, err := OpenSQLiteTokenStore(c.TokenDB, account)
	if err != nil {
		return nil, nil, err
	}
	return store, store.Close, nil
}
