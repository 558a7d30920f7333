package cmd

import (
	httpin "orderdesk/internal/adapters/in/http"
	"orderdesk/internal/adapters/out/postgres"
	"orderdesk/internal/adapters/out/postgres/masterdatarepo"
	"orderdesk/internal/core/application/resolver"
	"orderdesk/internal/core/application/usecases/commands"
	"orderdesk/internal/core/application/usecases/queries"
	"orderdesk/internal/core/ports"
	"orderdesk/internal/jobs"
	"orderdesk/internal/pkg/clock"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type CompositionRoot struct {
	cfg        Config
	gormDB     *gorm.DB
	uowFactory *postgres.GormUnitOfWorkFactory
	publisher  ports.Publisher
	resolver   *resolver.Resolver
	clock      ports.Clock
	syncMode   commands.SyncMode
	chunkSize  int
	log        logrus.FieldLogger
}

func NewCompositionRoot(cfg Config, gormDB *gorm.DB, publisher ports.Publisher, log logrus.FieldLogger) (CompositionRoot, error) {
	loc, err := cfg.Location()
	if err != nil {
		return CompositionRoot{}, err
	}
	mode, err := cfg.Sync()
	if err != nil {
		return CompositionRoot{}, err
	}
	chunkSize, err := cfg.ChunkSize()
	if err != nil {
		return CompositionRoot{}, err
	}

	return CompositionRoot{
		cfg:        cfg,
		gormDB:     gormDB,
		uowFactory: postgres.NewGormUnitOfWorkFactory(gormDB),
		publisher:  publisher,
		resolver:   resolver.New(masterdatarepo.NewGormMasterDataReader(gormDB)),
		clock:      clock.NewOperating(loc),
		syncMode:   mode,
		chunkSize:  chunkSize,
		log:        log,
	}, nil
}

func (c *CompositionRoot) entryUoWFactory() commands.EntryUoWFactory {
	return FuncEntryUoWFactory(func() commands.EntryUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) ledgerUoWFactory() commands.UoWFactory {
	return FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) CreateCreateEntryCommandHandler() *commands.CreateEntryCommandHandler {
	return commands.NewCreateEntryCommandHandler(c.entryUoWFactory(), c.resolver, c.publisher, c.clock, c.log)
}

func (c *CompositionRoot) CreateBulkCreateEntriesCommandHandler() *commands.BulkCreateEntriesCommandHandler {
	return commands.NewBulkCreateEntriesCommandHandler(c.entryUoWFactory(), c.resolver, c.publisher, c.clock, c.chunkSize, c.log)
}

func (c *CompositionRoot) CreateUpdateEntryCommandHandler() *commands.UpdateEntryCommandHandler {
	return commands.NewUpdateEntryCommandHandler(c.entryUoWFactory(), c.publisher, c.clock, c.log)
}

func (c *CompositionRoot) CreateDeleteEntryCommandHandler() *commands.DeleteEntryCommandHandler {
	return commands.NewDeleteEntryCommandHandler(c.entryUoWFactory(), c.publisher, c.clock, c.log)
}

func (c *CompositionRoot) CreateBulkDeleteEntriesCommandHandler() *commands.BulkDeleteEntriesCommandHandler {
	return commands.NewBulkDeleteEntriesCommandHandler(c.entryUoWFactory(), c.publisher, c.clock, c.chunkSize, c.log)
}

func (c *CompositionRoot) CreateSendToAssemblyCommandHandler() *commands.SendToAssemblyCommandHandler {
	return commands.NewSendToAssemblyCommandHandler(c.entryUoWFactory(), c.publisher, c.clock, c.log)
}

func (c *CompositionRoot) CreateSyncEntriesCommandHandler() *commands.SyncEntriesCommandHandler {
	return commands.NewSyncEntriesCommandHandler(c.ledgerUoWFactory(), c.publisher, c.clock, c.syncMode, c.log)
}

func (c *CompositionRoot) CreateConfirmEntryCommandHandler() *commands.ConfirmEntryCommandHandler {
	return commands.NewConfirmEntryCommandHandler(c.entryUoWFactory(), c.CreateSyncEntriesCommandHandler(), c.clock)
}

func (c *CompositionRoot) CreateUnlockEntryCommandHandler() *commands.UnlockEntryCommandHandler {
	return commands.NewUnlockEntryCommandHandler(c.entryUoWFactory(), c.publisher, c.clock, c.log)
}

func (c *CompositionRoot) CreateMarkForReworkCommandHandler() *commands.MarkForReworkCommandHandler {
	return commands.NewMarkForReworkCommandHandler(c.entryUoWFactory(), c.publisher, c.clock, c.log)
}

func (c *CompositionRoot) CreateReturnFromAssemblyCommandHandler() *commands.ReturnFromAssemblyCommandHandler {
	return commands.NewReturnFromAssemblyCommandHandler(c.ledgerUoWFactory(), c.publisher, c.clock, c.log)
}

func (c *CompositionRoot) CreateBulkDeleteOrdersCommandHandler() *commands.BulkDeleteOrdersCommandHandler {
	return commands.NewBulkDeleteOrdersCommandHandler(c.ledgerUoWFactory(), c.publisher, c.clock, c.log)
}

func (c *CompositionRoot) CreateListEntriesQueryHandler() queries.ListEntriesQueryHandler {
	return queries.NewListEntriesQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetEntryQueryHandler() queries.GetEntryQueryHandler {
	return queries.NewGetEntryQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateAssemblyViewQueryHandler() queries.AssemblyViewQueryHandler {
	return queries.NewAssemblyViewQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetOrderQueryHandler() queries.GetOrderQueryHandler {
	return queries.NewGetOrderQueryHandler(c.gormDB)
}

// HTTPHandlers collects every use case served by the HTTP adapter.
func (c *CompositionRoot) HTTPHandlers() httpin.Handlers {
	return httpin.Handlers{
		CreateEntry:        c.CreateCreateEntryCommandHandler(),
		BulkCreateEntries:  c.CreateBulkCreateEntriesCommandHandler(),
		UpdateEntry:        c.CreateUpdateEntryCommandHandler(),
		DeleteEntry:        c.CreateDeleteEntryCommandHandler(),
		BulkDeleteEntries:  c.CreateBulkDeleteEntriesCommandHandler(),
		SendToAssembly:     c.CreateSendToAssemblyCommandHandler(),
		SyncEntries:        c.CreateSyncEntriesCommandHandler(),
		ConfirmEntry:       c.CreateConfirmEntryCommandHandler(),
		UnlockEntry:        c.CreateUnlockEntryCommandHandler(),
		MarkForRework:      c.CreateMarkForReworkCommandHandler(),
		ReturnFromAssembly: c.CreateReturnFromAssemblyCommandHandler(),
		BulkDeleteOrders:   c.CreateBulkDeleteOrdersCommandHandler(),

		ListEntries:  c.CreateListEntriesQueryHandler(),
		GetEntry:     c.CreateGetEntryQueryHandler(),
		AssemblyView: c.CreateAssemblyViewQueryHandler(),
		GetOrder:     c.CreateGetOrderQueryHandler(),
	}
}

// OperatorConfig configures operator identity extraction.
func (c *CompositionRoot) OperatorConfig() httpin.OperatorConfig {
	return httpin.OperatorConfig{JWTSecret: c.cfg.JWTSecret, TrustHeader: c.cfg.TrustHeader()}
}

// CreateAssemblyOpeningJob builds the opening job. locker is nil without Redis.
func (c *CompositionRoot) CreateAssemblyOpeningJob(locker jobs.Locker) *jobs.AssemblyOpeningJob {
	return jobs.NewAssemblyOpeningJob(
		c.cfg.AssemblyOpeningCron,
		c.CreateListEntriesQueryHandler(),
		c.CreateSendToAssemblyCommandHandler(),
		c.clock,
		locker,
		c.log,
	)
}

type FuncEntryUoWFactory func() commands.EntryUoW

func (f FuncEntryUoWFactory) Create() commands.EntryUoW {
	return f()
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}
