package http

import (
	"net/http"

	"orderdesk/internal/core/application/usecases/commands"
	"orderdesk/internal/core/application/usecases/queries"
	"orderdesk/internal/core/domain/model/kernel"

	"github.com/labstack/echo/v4"
)

// AssemblyView handles GET /api/v1/assembly/:date.
func (s *Server) AssemblyView(c echo.Context) error {
	date, err := pathDate(c, "date")
	if err != nil {
		return err
	}
	query, err := queries.NewAssemblyViewQuery(date)
	if err != nil {
		return err
	}
	view, err := s.h.AssemblyView.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, view)
}

// ConfirmEntry handles POST /api/v1/assembly/entries/:id/confirm. A failed
// reconciliation is returned as an error; synced, skipped and conflict
// outcomes are 200.
func (s *Server) ConfirmEntry(c echo.Context) error {
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}
	operator, err := requireOperator(c)
	if err != nil {
		return err
	}
	var req ConfirmRequest
	if err = bind(c, &req); err != nil {
		return err
	}
	assemblyDate, err := kernel.ParseShipDate(req.AssemblyDate)
	if err != nil {
		return err
	}

	cmd, err := commands.NewConfirmEntryCommand(id, kernel.Coerce(req.ShippedQty), assemblyDate, operator)
	if err != nil {
		return err
	}
	outcome, err := s.h.ConfirmEntry.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, outcome)
}

// UnlockEntry handles POST /api/v1/assembly/entries/:id/unlock.
func (s *Server) UnlockEntry(c echo.Context) error {
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}
	cmd, err := commands.NewUnlockEntryCommand(id)
	if err != nil {
		return err
	}
	if err = s.h.UnlockEntry.Handle(c.Request().Context(), cmd); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// MarkForRework handles POST /api/v1/assembly/entries/:id/rework.
func (s *Server) MarkForRework(c echo.Context) error {
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}
	cmd, err := commands.NewMarkForReworkCommand(id)
	if err != nil {
		return err
	}
	if err = s.h.MarkForRework.Handle(c.Request().Context(), cmd); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// ReturnFromAssembly handles POST /api/v1/assembly/entries/:id/return.
func (s *Server) ReturnFromAssembly(c echo.Context) error {
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}
	operator, err := requireOperator(c)
	if err != nil {
		return err
	}
	var req ReturnRequest
	if err = bind(c, &req); err != nil {
		return err
	}

	cmd, err := commands.NewReturnFromAssemblyCommand(id, req.Reason, req.Comment, operator)
	if err != nil {
		return err
	}
	if err = s.h.ReturnFromAssembly.Handle(c.Request().Context(), cmd); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// BulkDeleteOrders handles POST /api/v1/assembly/orders/bulk-delete.
func (s *Server) BulkDeleteOrders(c echo.Context) error {
	operator, err := requireOperator(c)
	if err != nil {
		return err
	}
	var req BulkDeleteOrdersRequest
	if err = bind(c, &req); err != nil {
		return err
	}
	ids, err := parseUUIDs(req.EntryIDs)
	if err != nil {
		return err
	}

	cmd, err := commands.NewBulkDeleteOrdersCommand(ids, req.Reason, operator)
	if err != nil {
		return err
	}
	result, err := s.h.BulkDeleteOrders.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}
