package config

import (
	"os"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/urfave/cli/v3"

	"github.com/23blocks-OS/platform-sync/pkg/domain/model"
)

// Schedule holds the CLI flag for the default schedule template
type Schedule struct {
	path string
}

// Flags returns CLI flags for schedule template configuration
func (s *Schedule) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "schedule-template",
			Usage:       "TOML file describing the default schedule for new accounts",
			Sources:     cli.EnvVars("PLATFORM_SYNC_SCHEDULE_TEMPLATE"),
			Destination: &s.path,
		},
	}
}

// scheduleTemplateFile is the TOML shape of a schedule template
type scheduleTemplateFile struct {
	Name     string             `toml:"name"`
	TimeZone string             `toml:"timezone"`
	Rules    []availabilityRule `toml:"rule"`
}

type availabilityRule struct {
	Weekday string `toml:"weekday"`
	Start   string `toml:"start"`
	End     string `toml:"end"`
}

var weekdayNames = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// Configure loads and validates the template file. Without a file the
// built-in working-hours template is used.
func (s *Schedule) Configure() (*model.ScheduleTemplate, error) {
	if s.path == "" {
		return model.DefaultScheduleTemplate(), nil
	}
	return LoadScheduleTemplate(s.path)
}

// LoadScheduleTemplate parses a TOML schedule template file
func LoadScheduleTemplate(path string) (*model.ScheduleTemplate, error) {
	// #nosec G304 - path is expected to be provided by CLI argument
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read schedule template", goerr.V("path", path))
	}

	var file scheduleTemplateFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, goerr.Wrap(err, "failed to parse schedule template", goerr.V("path", path))
	}

	tmpl := &model.ScheduleTemplate{
		Name:     file.Name,
		TimeZone: file.TimeZone,
	}
	for _, rule := range file.Rules {
		weekday, ok := weekdayNames[strings.ToLower(rule.Weekday)]
		if !ok {
			return nil, goerr.New("invalid weekday in schedule template",
				goerr.V("path", path), goerr.V("weekday", rule.Weekday))
		}
		tmpl.Rules = append(tmpl.Rules, model.AvailabilityRule{
			Weekday: weekday,
			Start:   rule.Start,
			End:     rule.End,
		})
	}

	if err := tmpl.Validate(); err != nil {
		return nil, goerr.Wrap(err, "schedule template validation failed", goerr.V("path", path))
	}

	return tmpl, nil
}
