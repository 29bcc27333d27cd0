// Package jobs provides scheduled background tasks for the partner delivery service.
//
// Jobs are cron-based (github.com/robfig/cron/v3, six-field expressions with seconds)
// and skip a tick while the previous run is still going.
//
// # Available Jobs
//
// 1. StatusNormalizationJob - rewrites legacy status spellings such as "Picked Up" to the
// canonical enumeration and fills in missing availability flags. Every five minutes by
// default.
// 2. ActiveOrderCapAuditJob - logs partners holding more active orders than the advisory
// cap. Every fifteen minutes by default.
//
// # Usage
//
//	jobManager := jobs.NewJobManager(normalizeHandler, overCapHandler, jobs.Schedules{}, logger)
//	if err := jobManager.StartAll(); err != nil {
//		return err
//	}
//	defer jobManager.StopAll()
//
// # Error Handling
//
// Failed runs are logged and retried on the next tick. Failed job starts stop any
// already running jobs.
package jobs
