package scheduler_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/tenantq/pkg/scheduler"
)

func TestScheduleNext(t *testing.T) {
	t.Parallel()

	at := func(y int, m time.Month, d, h, min int) time.Time {
		return time.Date(y, m, d, h, min, 0, 0, time.UTC)
	}

	tests := []struct {
		name     string
		schedule scheduler.Schedule
		from     time.Time
		want     time.Time
		str      string
	}{
		{"interval", scheduler.EveryInterval(90 * time.Second), at(2024, 1, 1, 10, 0), at(2024, 1, 1, 10, 0).Add(90 * time.Second), "every 1m30s"},
		{"hourly later this hour", scheduler.HourlyAt(30), at(2024, 1, 1, 14, 15), at(2024, 1, 1, 14, 30), "hourly at :30"},
		{"hourly exact moves on", scheduler.HourlyAt(0), at(2024, 1, 1, 14, 0), at(2024, 1, 1, 15, 0), "hourly at :00"},
		{"daily later today", scheduler.DailyAt(15, 30), at(2024, 1, 1, 14, 0), at(2024, 1, 1, 15, 30), "daily at 15:30"},
		{"daily tomorrow", scheduler.DailyAt(9, 0), at(2024, 1, 1, 14, 0), at(2024, 1, 2, 9, 0), "daily at 09:00"},
		{"weekly this week", scheduler.WeeklyOn(time.Friday, 17, 0), at(2024, 1, 1, 10, 0), at(2024, 1, 5, 17, 0), "weekly on Friday at 17:00"},
		{"weekly same day passed", scheduler.WeeklyOn(time.Monday, 9, 0), at(2024, 1, 1, 14, 0), at(2024, 1, 8, 9, 0), "weekly on Monday at 09:00"},
		{"monthly first of month", scheduler.MonthlyOn(1, 0, 0), at(2024, 1, 15, 8, 0), at(2024, 2, 1, 0, 0), "monthly on day 1 at 00:00"},
		{"monthly exact moves on", scheduler.MonthlyOn(1, 0, 0), at(2024, 2, 1, 0, 0), at(2024, 3, 1, 0, 0), "monthly on day 1 at 00:00"},
		{"monthly clamps leap february", scheduler.MonthlyOn(31, 12, 0), at(2024, 2, 10, 0, 0), at(2024, 2, 29, 12, 0), "monthly on day 31 at 12:00"},
		{"monthly clamps next short month", scheduler.MonthlyOn(31, 0, 0), at(2024, 3, 31, 1, 0), at(2024, 4, 30, 0, 0), "monthly on day 31 at 00:00"},
		{"monthly year rollover", scheduler.MonthlyOn(1, 0, 0), at(2024, 12, 5, 0, 0), at(2025, 1, 1, 0, 0), "monthly on day 1 at 00:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.schedule.Next(tt.from))
			assert.Equal(t, tt.str, tt.schedule.String())
		})
	}
}

func TestScheduleValidation(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() { scheduler.EveryInterval(0) })
	assert.Panics(t, func() { scheduler.HourlyAt(60) })
	assert.Panics(t, func() { scheduler.DailyAt(24, 0) })
	assert.Panics(t, func() { scheduler.WeeklyOn(time.Weekday(7), 0, 0) })
	assert.Panics(t, func() { scheduler.MonthlyOn(0, 0, 0) })
	assert.Panics(t, func() { scheduler.MonthlyOn(32, 0, 0) })
	assert.NotPanics(t, func() { scheduler.MonthlyOn(31, 23, 59) })
}
