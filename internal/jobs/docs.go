// Package jobs provides scheduled background tasks of the order desk.
//
// Jobs are cron-based (github.com/robfig/cron/v3, with a seconds field) and run
// in the operating time zone.
//
// # Available Jobs
//
// AssemblyOpeningJob sends draft entries whose ship date is today or tomorrow
// to assembly. The default schedule is hourly; ASSEMBLY_OPENING_CRON overrides it.
//
// # Usage
//
//	opening := jobs.NewAssemblyOpeningJob(cfg.AssemblyOpeningCron, listHandler, sendHandler, clock, locker, log)
//	jobManager := jobs.NewJobManager(opening)
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal(err)
//	}
//	defer jobManager.StopAll()
//
// # Multiple Instances
//
// With Redis configured every tick first takes a redislock lock, so only one
// instance moves entries per tick. Without Redis the job runs unguarded.
package jobs
