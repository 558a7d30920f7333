package http

import (
	"context"
	"net/http"

	"orderdesk/internal/core/application/usecases/commands"
	"orderdesk/internal/core/application/usecases/queries"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

// CommandHandler executes a command with no result.
type CommandHandler[C any] interface {
	Handle(ctx context.Context, cmd C) error
}

// ResultHandler executes a command or query and returns its result.
type ResultHandler[C any, R any] interface {
	Handle(ctx context.Context, cmd C) (R, error)
}

// Handlers are the use cases served over HTTP.
type Handlers struct {
	CreateEntry        CommandHandler[commands.CreateEntryCommand]
	BulkCreateEntries  ResultHandler[commands.BulkCreateEntriesCommand, commands.BulkCreateResult]
	UpdateEntry        CommandHandler[commands.UpdateEntryCommand]
	DeleteEntry        CommandHandler[commands.DeleteEntryCommand]
	BulkDeleteEntries  ResultHandler[commands.BulkDeleteEntriesCommand, commands.BulkDeleteResult]
	SendToAssembly     ResultHandler[commands.SendToAssemblyCommand, commands.SendToAssemblyResult]
	SyncEntries        ResultHandler[commands.SyncEntriesCommand, commands.SyncResult]
	ConfirmEntry       ResultHandler[commands.ConfirmEntryCommand, commands.SyncOutcome]
	UnlockEntry        CommandHandler[commands.UnlockEntryCommand]
	MarkForRework      CommandHandler[commands.MarkForReworkCommand]
	ReturnFromAssembly CommandHandler[commands.ReturnFromAssemblyCommand]
	BulkDeleteOrders   ResultHandler[commands.BulkDeleteOrdersCommand, commands.BulkDeleteOrdersResult]

	ListEntries  ResultHandler[queries.ListEntriesQuery, []queries.EntryView]
	GetEntry     ResultHandler[queries.GetEntryQuery, queries.EntryView]
	AssemblyView ResultHandler[queries.AssemblyViewQuery, queries.AssemblyView]
	GetOrder     ResultHandler[queries.GetOrderQuery, queries.OrderView]
}

// Server maps HTTP requests onto the application use cases.
type Server struct {
	h   Handlers
	log logrus.FieldLogger
}

func NewServer(h Handlers, log logrus.FieldLogger) *Server {
	return &Server{h: h, log: log.WithField("component", "http")}
}

// Register mounts the API under g, which is expected to be /api/v1.
func (s *Server) Register(g *echo.Group) {
	g.GET("/entries", s.ListEntries)
	g.POST("/entries", s.CreateEntry)
	g.POST("/entries/bulk", s.BulkCreateEntries)
	g.POST("/entries/import", s.ImportEntries)
	g.POST("/entries/bulk-delete", s.BulkDeleteEntries)
	g.POST("/entries/send-to-assembly", s.SendToAssembly)
	g.POST("/entries/sync", s.SyncEntries)
	g.GET("/entries/:id", s.GetEntry)
	g.PATCH("/entries/:id", s.UpdateEntry)
	g.DELETE("/entries/:id", s.DeleteEntry)

	g.GET("/assembly/:date", s.AssemblyView)
	g.POST("/assembly/entries/:id/confirm", s.ConfirmEntry)
	g.POST("/assembly/entries/:id/unlock", s.UnlockEntry)
	g.POST("/assembly/entries/:id/rework", s.MarkForRework)
	g.POST("/assembly/entries/:id/return", s.ReturnFromAssembly)
	g.POST("/assembly/orders/bulk-delete", s.BulkDeleteOrders)

	g.GET("/orders/:id", s.GetOrder)
}

// Health handles GET /health.
func Health(c echo.Context) error {
	return c.String(http.StatusOK, "Healthy")
}
