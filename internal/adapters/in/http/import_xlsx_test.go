package http_test

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	httpin "orderdesk/internal/adapters/in/http"
	"orderdesk/internal/core/application/usecases/commands"
	"orderdesk/internal/core/domain/model/entry"
	"orderdesk/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func workbook(t *testing.T, rows ...[]any) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer func() {
		_ = f.Close()
	}()
	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

func TestParseEntriesXLSX(t *testing.T) {
	buf := workbook(t,
		[]any{"Product_Code", "ship_date", "customer", "price", "ordered_qty", "location"},
		[]any{"B-1", "05.03.2024", "Ромашка", "1 250,50", 3, "Dock 1"},
		[]any{},
		[]any{"P-9", "2024-03-06", "17", "", "n/a"},
	)

	rows, err := httpin.ParseEntriesXLSX(buf)

	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "05.03.2024", rows[0].ShipDate)
	assert.Equal(t, "B-1", rows[0].ProductCode)
	assert.Equal(t, "Ромашка", rows[0].CustomerName)
	assert.Nil(t, rows[0].CustomerID)
	assert.True(t, decimal.RequireFromString("1250.5").Equal(rows[0].Price))
	assert.True(t, decimal.NewFromInt(3).Equal(rows[0].OrderedQty))
	assert.Equal(t, "Dock 1", rows[0].Location)

	require.NotNil(t, rows[1].CustomerID)
	assert.Equal(t, int64(17), *rows[1].CustomerID)
	assert.True(t, rows[1].Price.IsZero())
	assert.True(t, rows[1].OrderedQty.IsZero())
}

func TestParseEntriesXLSX_Rejects(t *testing.T) {
	t.Run("not a workbook", func(t *testing.T) {
		_, err := httpin.ParseEntriesXLSX(bytes.NewBufferString("plain text"))

		assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("no ship date column", func(t *testing.T) {
		_, err := httpin.ParseEntriesXLSX(workbook(t, []any{"customer"}, []any{"A"}))

		assert.ErrorIs(t, err, errs.ErrValueIsRequired)
	})

	t.Run("header only", func(t *testing.T) {
		_, err := httpin.ParseEntriesXLSX(workbook(t, []any{"ship_date", "customer"}))

		assert.ErrorIs(t, err, errs.ErrValueIsRequired)
	})
}

func TestImportEntries(t *testing.T) {
	var got commands.BulkCreateEntriesCommand
	e := newEcho(httpin.Handlers{
		BulkCreateEntries: resultFunc[commands.BulkCreateEntriesCommand, commands.BulkCreateResult](func(_ context.Context, cmd commands.BulkCreateEntriesCommand) (commands.BulkCreateResult, error) {
			got = cmd
			return commands.BulkCreateResult{Total: len(cmd.Rows()), Inserted: len(cmd.Rows())}, nil
		}),
	})

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("status", "forming"))
	part, err := mw.CreateFormFile("file", "orders.xlsx")
	require.NoError(t, err)
	_, err = workbook(t,
		[]any{"ship_date", "customer", "product_code"},
		[]any{"2024-03-05", "Ромашка", "B-1"},
	).WriteTo(part)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/entries/import", &body)
	req.Header.Set(echo.HeaderContentType, mw.FormDataContentType())
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, entry.Forming, got.Status())
	require.Len(t, got.Rows(), 1)
	assert.Equal(t, "B-1", got.Rows()[0].ProductCode)
}

func TestImportEntries_MissingFile(t *testing.T) {
	e := newEcho(httpin.Handlers{})

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("status", "draft"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/entries/import", &body)
	req.Header.Set(echo.HeaderContentType, mw.FormDataContentType())
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
