package model_test

import (
	"testing"
	"time"

	"github.com/m-mizutani/gt"

	"github.com/23blocks-OS/platform-sync/pkg/domain/model"
	"github.com/23blocks-OS/platform-sync/pkg/domain/types"
)

func TestAvailabilityRuleValidate(t *testing.T) {
	tests := []struct {
		name    string
		rule    model.AvailabilityRule
		wantErr bool
	}{
		{
			name: "valid rule",
			rule: model.AvailabilityRule{Weekday: time.Monday, Start: "09:00", End: "17:00"},
		},
		{
			name: "full day",
			rule: model.AvailabilityRule{Weekday: time.Saturday, Start: "00:00", End: "23:59"},
		},
		{
			name:    "invalid start format",
			rule:    model.AvailabilityRule{Weekday: time.Monday, Start: "9:00", End: "17:00"},
			wantErr: true,
		},
		{
			name:    "hour out of range",
			rule:    model.AvailabilityRule{Weekday: time.Monday, Start: "24:00", End: "25:00"},
			wantErr: true,
		},
		{
			name:    "start after end",
			rule:    model.AvailabilityRule{Weekday: time.Monday, Start: "17:00", End: "09:00"},
			wantErr: true,
		},
		{
			name:    "start equals end",
			rule:    model.AvailabilityRule{Weekday: time.Monday, Start: "09:00", End: "09:00"},
			wantErr: true,
		},
		{
			name:    "invalid weekday",
			rule:    model.AvailabilityRule{Weekday: time.Weekday(7), Start: "09:00", End: "17:00"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.rule.Validate()
			if tt.wantErr {
				gt.Value(t, err).NotNil()
			} else {
				gt.NoError(t, err)
			}
		})
	}
}

func TestDefaultScheduleTemplate(t *testing.T) {
	tmpl := model.DefaultScheduleTemplate()

	gt.NoError(t, tmpl.Validate())
	gt.Value(t, tmpl.Name).Equal("Working Hours")
	gt.Value(t, tmpl.TimeZone).Equal("UTC")
	gt.Array(t, tmpl.Rules).Length(5)

	for _, rule := range tmpl.Rules {
		gt.Value(t, rule.Start).Equal("09:00")
		gt.Value(t, rule.End).Equal("17:00")
	}
	gt.Value(t, tmpl.Rules[0].Weekday).Equal(time.Monday)
	gt.Value(t, tmpl.Rules[4].Weekday).Equal(time.Friday)
}

func TestScheduleTemplateValidate(t *testing.T) {
	t.Run("invalid time zone", func(t *testing.T) {
		tmpl := model.DefaultScheduleTemplate()
		tmpl.TimeZone = "Mars/Olympus_Mons"
		gt.Value(t, tmpl.Validate()).NotNil()
	})

	t.Run("empty rules", func(t *testing.T) {
		tmpl := model.DefaultScheduleTemplate()
		tmpl.Rules = nil
		gt.Value(t, tmpl.Validate()).NotNil()
	})

	t.Run("missing name", func(t *testing.T) {
		tmpl := model.DefaultScheduleTemplate()
		tmpl.Name = ""
		gt.Value(t, tmpl.Validate()).NotNil()
	})
}

func TestNewScheduleFromTemplate(t *testing.T) {
	userID := types.NewUserID()
	tmpl := model.DefaultScheduleTemplate()

	schedule := model.NewScheduleFromTemplate(userID, tmpl)

	gt.Value(t, schedule.UserID).Equal(userID)
	gt.Value(t, schedule.Name).Equal(tmpl.Name)
	gt.Value(t, schedule.TimeZone).Equal(tmpl.TimeZone)
	gt.Array(t, schedule.Rules).Length(len(tmpl.Rules))

	// Rules are copied, not shared
	schedule.Rules[0].Start = "10:00"
	gt.Value(t, tmpl.Rules[0].Start).Equal("09:00")
}
