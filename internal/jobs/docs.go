// Package jobs provides scheduled background tasks for the dispatch system.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3
// to handle periodic operations required for the dispatch service.
//
// # Available Jobs
//
// 1. PendingAssignmentJob - Runs every second to match the oldest pending
// job with the nearest available driver
// 2. StaleDriverJob - Runs every minute to take drivers with outdated GPS
// reports out of the dispatch pool
//
// # Usage
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	// Create job manager with required handlers
//	jobManager := jobs.NewJobManager(assignPendingJobHandler, markStaleDriversHandler, logger)
//
//	// Start all jobs
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//
//	// Stop all jobs when shutting down
//	defer jobManager.StopAll()
//
// # Error Handling
//
// - Assignment job ignores expected business errors (no pending jobs, no
// eligible drivers)
// - Stale driver job logs all errors as they indicate system issues
// - Failed job starts will stop any already running jobs
package jobs
