package scheduler

import (
	"fmt"
	"time"
)

// Schedule reports the first run time strictly after from.
type Schedule interface {
	Next(from time.Time) time.Time
	String() string
}

type interval time.Duration

func (s interval) Next(from time.Time) time.Time { return from.Add(time.Duration(s)) }
func (s interval) String() string                { return fmt.Sprintf("every %v", time.Duration(s)) }

type hourly struct{ minute int }

func (s hourly) Next(from time.Time) time.Time {
	next := time.Date(from.Year(), from.Month(), from.Day(), from.Hour(), s.minute, 0, 0, from.Location())
	if !next.After(from) {
		next = next.Add(time.Hour)
	}
	return next
}

func (s hourly) String() string { return fmt.Sprintf("hourly at :%02d", s.minute) }

type daily struct{ hour, minute int }

func (s daily) Next(from time.Time) time.Time {
	next := time.Date(from.Year(), from.Month(), from.Day(), s.hour, s.minute, 0, 0, from.Location())
	if !next.After(from) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

func (s daily) String() string { return fmt.Sprintf("daily at %02d:%02d", s.hour, s.minute) }

type weekly struct {
	weekday      time.Weekday
	hour, minute int
}

func (s weekly) Next(from time.Time) time.Time {
	days := (int(s.weekday) - int(from.Weekday()) + 7) % 7
	day := from.AddDate(0, 0, days)
	next := time.Date(day.Year(), day.Month(), day.Day(), s.hour, s.minute, 0, 0, from.Location())
	if !next.After(from) {
		next = next.AddDate(0, 0, 7)
	}
	return next
}

func (s weekly) String() string {
	return fmt.Sprintf("weekly on %s at %02d:%02d", s.weekday, s.hour, s.minute)
}

// monthly clamps day to the month length, so day 31 fires on Feb 28/29.
type monthly struct{ day, hour, minute int }

func (s monthly) Next(from time.Time) time.Time {
	next := s.at(from.Year(), from.Month(), from.Location())
	if !next.After(from) {
		first := time.Date(from.Year(), from.Month()+1, 1, 0, 0, 0, 0, from.Location())
		next = s.at(first.Year(), first.Month(), from.Location())
	}
	return next
}

func (s monthly) at(year int, month time.Month, loc *time.Location) time.Time {
	day := min(s.day, daysIn(year, month))
	return time.Date(year, month, day, s.hour, s.minute, 0, 0, loc)
}

func (s monthly) String() string {
	return fmt.Sprintf("monthly on day %d at %02d:%02d", s.day, s.hour, s.minute)
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// EveryInterval runs every d, measured from the previous run.
func EveryInterval(d time.Duration) Schedule {
	if d <= 0 {
		panic("scheduler: EveryInterval: duration must be > 0")
	}
	return interval(d)
}

// HourlyAt runs once an hour at the given minute.
func HourlyAt(minute int) Schedule {
	mustRange("minute", minute, 0, 59)
	return hourly{minute: minute}
}

// DailyAt runs once a day at hour:minute.
func DailyAt(hour, minute int) Schedule {
	mustRange("hour", hour, 0, 23)
	mustRange("minute", minute, 0, 59)
	return daily{hour: hour, minute: minute}
}

func WeeklyOn(weekday time.Weekday, hour, minute int) Schedule {
	mustRange("weekday", int(weekday), 0, 6)
	mustRange("hour", hour, 0, 23)
	mustRange("minute", minute, 0, 59)
	return weekly{weekday: weekday, hour: hour, minute: minute}
}

// MonthlyOn runs once a month on day at hour:minute. Days past the end of a
// short month fire on its last day.
func MonthlyOn(day, hour, minute int) Schedule {
	mustRange("day", day, 1, 31)
	mustRange("hour", hour, 0, 23)
	mustRange("minute", minute, 0, 59)
	return monthly{day: day, hour: hour, minute: minute}
}

func mustRange(name string, v, lo, hi int) {
	if v < lo || v > hi {
		panic(fmt.Sprintf("scheduler: %s %d out of range [%d, %d]", name, v, lo, hi))
	}
}
