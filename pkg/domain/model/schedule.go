package model

import (
	"regexp"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/23blocks-OS/platform-sync/pkg/domain/types"
)

// Schedule is a per-user availability template. Every account created by sync
// owns exactly one default schedule, bound as its active schedule.
type Schedule struct {
	ID        types.ScheduleID
	UserID    types.UserID
	Name      string
	TimeZone  string
	Rules     []AvailabilityRule
	CreatedAt time.Time
	UpdatedAt time.Time
}

// AvailabilityRule is one weekly day/time-window rule
type AvailabilityRule struct {
	Weekday time.Weekday
	Start   string // HH:MM
	End     string // HH:MM
}

var timeOfDayPattern = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

// Validate checks the rule's time window
func (r *AvailabilityRule) Validate() error {
	if r.Weekday < time.Sunday || r.Weekday > time.Saturday {
		return goerr.New("invalid weekday", goerr.V("weekday", int(r.Weekday)))
	}
	if !timeOfDayPattern.MatchString(r.Start) {
		return goerr.New("invalid start time, expected HH:MM", goerr.V("start", r.Start))
	}
	if !timeOfDayPattern.MatchString(r.End) {
		return goerr.New("invalid end time, expected HH:MM", goerr.V("end", r.End))
	}
	if r.Start >= r.End {
		return goerr.New("start time must be before end time",
			goerr.V("start", r.Start), goerr.V("end", r.End))
	}
	return nil
}

// ScheduleTemplate describes the default schedule created for new accounts
type ScheduleTemplate struct {
	Name     string
	TimeZone string
	Rules    []AvailabilityRule
}

// Validate checks the template's time zone and rules
func (t *ScheduleTemplate) Validate() error {
	if t.Name == "" {
		return goerr.New("schedule template name is required")
	}
	if _, err := time.LoadLocation(t.TimeZone); err != nil {
		return goerr.Wrap(err, "invalid time zone", goerr.V("timezone", t.TimeZone))
	}
	if len(t.Rules) == 0 {
		return goerr.New("schedule template needs at least one rule")
	}
	for _, rule := range t.Rules {
		if err := rule.Validate(); err != nil {
			return goerr.Wrap(err, "invalid availability rule")
		}
	}
	return nil
}

// DefaultScheduleTemplate returns the built-in working-hours template,
// Monday through Friday 09:00-17:00 UTC
func DefaultScheduleTemplate() *ScheduleTemplate {
	rules := make([]AvailabilityRule, 0, 5)
	for wd := time.Monday; wd <= time.Friday; wd++ {
		rules = append(rules, AvailabilityRule{Weekday: wd, Start: "09:00", End: "17:00"})
	}
	return &ScheduleTemplate{
		Name:     "Working Hours",
		TimeZone: "UTC",
		Rules:    rules,
	}
}

// NewScheduleFromTemplate instantiates a schedule for a user from a template
func NewScheduleFromTemplate(userID types.UserID, tmpl *ScheduleTemplate) *Schedule {
	rules := make([]AvailabilityRule, len(tmpl.Rules))
	copy(rules, tmpl.Rules)
	return &Schedule{
		UserID:   userID,
		Name:     tmpl.Name,
		TimeZone: tmpl.TimeZone,
		Rules:    rules,
	}
}
