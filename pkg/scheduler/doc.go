// Package scheduler runs in-process jobs on calendar or interval schedules.
//
// Schedules are built with EveryInterval, HourlyAt, DailyAt, WeeklyOn and
// MonthlyOn. A job's first run is the schedule's next slot after Start;
// later runs follow from the time the previous run fired. Calendar schedules
// are evaluated in the location set with WithLocation (UTC by default).
//
//	s := scheduler.New(scheduler.WithLogger(log))
//	_ = s.AddJob("usage-reset", scheduler.MonthlyOn(1, 0, 0), svc.ResetPeriod)
//	g.Go(s.Run(ctx))
package scheduler
