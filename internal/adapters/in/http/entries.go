package http

import (
	"net/http"

	"orderdesk/internal/core/application/usecases/commands"
	"orderdesk/internal/core/application/usecases/queries"
	"orderdesk/internal/core/domain/model/entry"
	"orderdesk/internal/core/domain/model/kernel"
	"orderdesk/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

// bind decodes the body into req and runs the struct validator.
func bind(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("body", err)
	}
	return c.Validate(req)
}

// ListEntries handles GET /api/v1/entries.
func (s *Server) ListEntries(c echo.Context) error {
	p, err := bindListEntriesParams(c.QueryParams())
	if err != nil {
		return err
	}
	from, err := optionalDate(p.From)
	if err != nil {
		return err
	}
	to, err := optionalDate(p.To)
	if err != nil {
		return err
	}
	var statuses []entry.Status
	if p.Status != nil {
		for _, raw := range *p.Status {
			st, parseErr := entry.ParseStatus(raw)
			if parseErr != nil {
				return parseErr
			}
			statuses = append(statuses, st)
		}
	}
	limit := 0
	if p.Limit != nil {
		limit = *p.Limit
	}

	query, err := queries.NewListEntriesQuery(from, to, statuses, p.CustomerID, limit)
	if err != nil {
		return err
	}
	views, err := s.h.ListEntries.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, views)
}

// GetEntry handles GET /api/v1/entries/:id.
func (s *Server) GetEntry(c echo.Context) error {
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}
	return s.respondEntry(c, http.StatusOK, id)
}

// CreateEntry handles POST /api/v1/entries.
func (s *Server) CreateEntry(c echo.Context) error {
	var req EntryRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	status, err := parseStatusOrDefault(req.Status)
	if err != nil {
		return err
	}

	id := kernel.NewUUID()
	cmd, err := commands.NewCreateEntryCommand(id, req.input(), status)
	if err != nil {
		return err
	}
	if err = s.h.CreateEntry.Handle(c.Request().Context(), cmd); err != nil {
		return err
	}
	return s.respondEntry(c, http.StatusCreated, id)
}

// BulkCreateEntries handles POST /api/v1/entries/bulk.
func (s *Server) BulkCreateEntries(c echo.Context) error {
	var req BulkCreateRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	rows := make([]commands.EntryInput, 0, len(req.Rows))
	for _, r := range req.Rows {
		rows = append(rows, r.input())
	}
	return s.bulkCreate(c, rows, req.Status)
}

// ImportEntries handles POST /api/v1/entries/import with an xlsx file.
func (s *Server) ImportEntries(c echo.Context) error {
	header, err := c.FormFile("file")
	if err != nil {
		return errs.NewValueIsRequiredErrorWithCause("file", err)
	}
	f, err := header.Open()
	if err != nil {
		return errs.NewValueIsInvalidErrorWithCause("file", err)
	}
	defer func() {
		_ = f.Close()
	}()

	rows, err := ParseEntriesXLSX(f)
	if err != nil {
		return err
	}
	s.log.WithFields(logrus.Fields{"file": header.Filename, "rows": len(rows)}).Info("importing entries")
	return s.bulkCreate(c, rows, c.FormValue("status"))
}

func (s *Server) bulkCreate(c echo.Context, rows []commands.EntryInput, rawStatus string) error {
	status, err := parseStatusOrDefault(rawStatus)
	if err != nil {
		return err
	}
	cmd, err := commands.NewBulkCreateEntriesCommand(rows, status)
	if err != nil {
		return err
	}
	result, err := s.h.BulkCreateEntries.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}

// UpdateEntry handles PATCH /api/v1/entries/:id.
func (s *Server) UpdateEntry(c echo.Context) error {
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}
	operator, err := requireOperator(c)
	if err != nil {
		return err
	}
	var req PatchRequest
	if err = bind(c, &req); err != nil {
		return err
	}
	patch, err := req.patch()
	if err != nil {
		return err
	}

	cmd, err := commands.NewUpdateEntryCommand(id, patch, operator)
	if err != nil {
		return err
	}
	if err = s.h.UpdateEntry.Handle(c.Request().Context(), cmd); err != nil {
		return err
	}
	return s.respondEntry(c, http.StatusOK, id)
}

// DeleteEntry handles DELETE /api/v1/entries/:id.
func (s *Server) DeleteEntry(c echo.Context) error {
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}
	cmd, err := commands.NewDeleteEntryCommand(id)
	if err != nil {
		return err
	}
	if err = s.h.DeleteEntry.Handle(c.Request().Context(), cmd); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// BulkDeleteEntries handles POST /api/v1/entries/bulk-delete, by ids or by
// ship date range.
func (s *Server) BulkDeleteEntries(c echo.Context) error {
	var req BulkDeleteRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	var cmd commands.BulkDeleteEntriesCommand
	if len(req.IDs) > 0 {
		ids, err := parseUUIDs(req.IDs)
		if err != nil {
			return err
		}
		if cmd, err = commands.NewBulkDeleteEntriesCommand(ids, req.ExcludeSynced); err != nil {
			return err
		}
	} else {
		from, err := kernel.ParseShipDate(req.From)
		if err != nil {
			return err
		}
		to, err := kernel.ParseShipDate(req.To)
		if err != nil {
			return err
		}
		if cmd, err = commands.NewBulkDeleteEntriesByDateCommand(from, to, req.ExcludeSynced); err != nil {
			return err
		}
	}

	result, err := s.h.BulkDeleteEntries.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}

// SendToAssembly handles POST /api/v1/entries/send-to-assembly.
func (s *Server) SendToAssembly(c echo.Context) error {
	var req IDsRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	ids, err := parseUUIDs(req.IDs)
	if err != nil {
		return err
	}
	cmd, err := commands.NewSendToAssemblyCommand(ids)
	if err != nil {
		return err
	}
	result, err := s.h.SendToAssembly.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}

// SyncEntries handles POST /api/v1/entries/sync.
func (s *Server) SyncEntries(c echo.Context) error {
	operator, err := requireOperator(c)
	if err != nil {
		return err
	}
	var req SyncRequest
	if err = bind(c, &req); err != nil {
		return err
	}
	ids, err := parseUUIDs(req.IDs)
	if err != nil {
		return err
	}
	dispatchDay, err := optionalDate(&req.DispatchDay)
	if err != nil {
		return err
	}

	cmd, err := commands.NewSyncEntriesCommand(ids, dispatchDay, operator)
	if err != nil {
		return err
	}
	result, err := s.h.SyncEntries.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}

func (s *Server) respondEntry(c echo.Context, status int, id kernel.UUID) error {
	query, err := queries.NewGetEntryQuery(id)
	if err != nil {
		return err
	}
	view, err := s.h.GetEntry.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return c.JSON(status, view)
}
