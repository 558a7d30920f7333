package http_test

import (
	"context"
	"net/http"
	"testing"

	"orderdesk/api"
	httpin "orderdesk/internal/adapters/in/http"
	"orderdesk/internal/core/application/usecases/commands"
	"orderdesk/internal/core/application/usecases/queries"
	"orderdesk/internal/core/domain/model/kernel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenAPIRequestValidator(t *testing.T) {
	doc, err := api.Load(context.Background())
	require.NoError(t, err)
	mw, err := httpin.OpenAPIRequestValidator(doc)
	require.NoError(t, err)

	created := 0
	e := newEcho(httpin.Handlers{
		CreateEntry: commandFunc[commands.CreateEntryCommand](func(context.Context, commands.CreateEntryCommand) error {
			created++
			return nil
		}),
		GetEntry: staticEntry(queries.EntryView{ID: kernel.NewUUID()}),
	})
	e.Use(mw)

	t.Run("valid body", func(t *testing.T) {
		rec := do(e, http.MethodPost, "/api/v1/entries", `{"shipDate":"2024-03-05","orderedQty":"2"}`, nil)

		assert.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	})

	t.Run("wrong type", func(t *testing.T) {
		rec := do(e, http.MethodPost, "/api/v1/entries", `{"shipDate":"2024-03-05","customerId":"seven"}`, nil)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown status in query", func(t *testing.T) {
		rec := do(e, http.MethodGet, "/api/v1/entries?status=lost", "", nil)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("undescribed route passes", func(t *testing.T) {
		rec := do(e, http.MethodGet, "/api/v1/nowhere", "", nil)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	assert.Equal(t, 1, created)
}
