package http

import (
	"net/url"

	"orderdesk/internal/core/domain/model/kernel"
	"orderdesk/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	"github.com/oapi-codegen/runtime"
)

func pathParam(c echo.Context, name string) (string, error) {
	var value string
	err := runtime.BindStyledParameterWithOptions("simple", name, c.Param(name), &value, runtime.BindStyledParameterOptions{
		ParamLocation: runtime.ParamLocationPath,
		Explode:       false,
		Required:      true,
	})
	if err != nil {
		return "", errs.NewValueIsInvalidErrorWithCause(name, err)
	}
	return value, nil
}

func pathUUID(c echo.Context, name string) (kernel.UUID, error) {
	raw, err := pathParam(c, name)
	if err != nil {
		return kernel.UUID{}, err
	}
	return kernel.UUIDFromString(raw)
}

func pathDate(c echo.Context, name string) (kernel.ShipDate, error) {
	raw, err := pathParam(c, name)
	if err != nil {
		return kernel.ShipDate{}, err
	}
	return kernel.ParseShipDate(raw)
}

// listEntriesParams are the query parameters of GET /entries.
type listEntriesParams struct {
	From       *string
	To         *string
	Status     *[]string
	CustomerID *int64
	Limit      *int
}

func bindListEntriesParams(query url.Values) (listEntriesParams, error) {
	var p listEntriesParams
	bindings := []struct {
		name string
		dest any
	}{
		{"from", &p.From},
		{"to", &p.To},
		{"status", &p.Status},
		{"customerId", &p.CustomerID},
		{"limit", &p.Limit},
	}
	for _, b := range bindings {
		if err := runtime.BindQueryParameter("form", true, false, b.name, query, b.dest); err != nil {
			return listEntriesParams{}, errs.NewValueIsInvalidErrorWithCause(b.name, err)
		}
	}
	return p, nil
}

func optionalDate(raw *string) (*kernel.ShipDate, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	d, err := kernel.ParseShipDate(*raw)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func parseUUIDs(raw []string) ([]kernel.UUID, error) {
	return kernel.UUIDsFromStrings(raw)
}
