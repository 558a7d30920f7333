package jobs

import (
	"context"
	"errors"

	"orderdesk/internal/core/application/usecases/commands"
	"orderdesk/internal/core/application/usecases/queries"
	"orderdesk/internal/core/domain/model/entry"
	"orderdesk/internal/core/domain/model/kernel"
	"orderdesk/internal/core/ports"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// DefaultAssemblyOpeningSchedule runs at the top of every hour (seconds field first).
const DefaultAssemblyOpeningSchedule = "0 0 * * * *"

const assemblyOpeningLockKey = "orderdesk:jobs:assembly-opening"

type DraftLister interface {
	Handle(ctx context.Context, query queries.ListEntriesQuery) ([]queries.EntryView, error)
}

type AssemblySender interface {
	Handle(ctx context.Context, cmd commands.SendToAssemblyCommand) (commands.SendToAssemblyResult, error)
}

// AssemblyOpeningJob moves draft entries shipping today or tomorrow onto the
// assembly floor.
type AssemblyOpeningJob struct {
	schedule string
	drafts   DraftLister
	sender   AssemblySender
	clock    ports.Clock
	locker   Locker
	cron     *cron.Cron
	log      logrus.FieldLogger
}

// NewAssemblyOpeningJob creates the job. locker may be nil on single-instance
// deployments.
func NewAssemblyOpeningJob(
	schedule string,
	drafts DraftLister,
	sender AssemblySender,
	clock ports.Clock,
	locker Locker,
	log logrus.FieldLogger,
) *AssemblyOpeningJob {
	if schedule == "" {
		schedule = DefaultAssemblyOpeningSchedule
	}
	return &AssemblyOpeningJob{
		schedule: schedule,
		drafts:   drafts,
		sender:   sender,
		clock:    clock,
		locker:   locker,
		cron:     cron.New(cron.WithSeconds(), cron.WithLocation(clock.Location())),
		log:      log.WithField("component", "assembly_opening_job"),
	}
}

func (j *AssemblyOpeningJob) Start() error {
	_, err := j.cron.AddFunc(j.schedule, func() {
		if _, err := j.Run(context.Background()); err != nil {
			j.log.WithError(err).Error("assembly opening failed")
		}
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.log.WithField("schedule", j.schedule).Info("assembly opening job started")
	return nil
}

// Stop waits for a running tick to finish.
func (j *AssemblyOpeningJob) Stop() {
	<-j.cron.Stop().Done()
	j.log.Info("assembly opening job stopped")
}

// Run performs one pass. When another instance holds the lock the pass is
// skipped and an empty result returned.
func (j *AssemblyOpeningJob) Run(ctx context.Context) (commands.SendToAssemblyResult, error) {
	if j.locker != nil {
		release, err := j.locker.Obtain(ctx, assemblyOpeningLockKey, lockTTL)
		if errors.Is(err, ErrLockHeld) {
			j.log.Debug("assembly opening runs elsewhere")
			return commands.SendToAssemblyResult{}, nil
		}
		if err != nil {
			return commands.SendToAssemblyResult{}, err
		}
		defer release()
	}

	today := kernel.ShipDateFromTime(j.clock.Now(), j.clock.Location())
	tomorrow := today.AddDays(1)
	query, err := queries.NewListEntriesQuery(&today, &tomorrow, []entry.Status{entry.Draft}, nil, 0)
	if err != nil {
		return commands.SendToAssemblyResult{}, err
	}
	views, err := j.drafts.Handle(ctx, query)
	if err != nil {
		return commands.SendToAssemblyResult{}, err
	}
	if len(views) == 0 {
		return commands.SendToAssemblyResult{}, nil
	}

	ids := make([]kernel.UUID, 0, len(views))
	for _, v := range views {
		ids = append(ids, v.ID)
	}
	cmd, err := commands.NewSendToAssemblyCommand(ids)
	if err != nil {
		return commands.SendToAssemblyResult{}, err
	}
	result, err := j.sender.Handle(ctx, cmd)
	if err != nil {
		return commands.SendToAssemblyResult{}, err
	}

	j.log.WithFields(logrus.Fields{
		"from":   today.String(),
		"to":     tomorrow.String(),
		"moved":  result.Moved,
		"failed": result.Failed,
	}).Info("drafts sent to assembly")
	return result, nil
}
