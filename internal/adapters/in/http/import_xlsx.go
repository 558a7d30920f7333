package http

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"orderdesk/internal/core/application/usecases/commands"
	"orderdesk/internal/core/domain/model/kernel"
	"orderdesk/internal/pkg/errs"

	"github.com/xuri/excelize/v2"
)

const (
	colShipDate           = "ship_date"
	colCustomer           = "customer"
	colProductCode        = "product_code"
	colProductName        = "product_name"
	colPrice              = "price"
	colOrderedQty         = "ordered_qty"
	colShippedQty         = "shipped_qty"
	colPaymentType        = "payment_type"
	colDistrict           = "district"
	colLocation           = "location"
	colDistributionCoef   = "distribution_coef"
	colWeightToDistribute = "weight_to_distribute"
)

// excelDateLayout is how excelize renders a date cell that carries the
// default number format.
const excelDateLayout = "01-02-06"

// ParseEntriesXLSX reads intake rows from the first sheet of an xlsx workbook.
// The first row is a header; columns are matched by name and may come in any
// order. Blank rows are skipped.
func ParseEntriesXLSX(r io.Reader) ([]commands.EntryInput, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, errs.NewValueIsInvalidErrorWithCause("file", err)
	}
	defer func() {
		_ = f.Close()
	}()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errs.NewValueIsInvalidErrorWithCause("file", fmt.Errorf("workbook has no sheets"))
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, errs.NewValueIsInvalidErrorWithCause("file", err)
	}
	if len(rows) < 2 {
		return nil, errs.NewValueIsRequiredError("rows")
	}

	columns := make(map[string]int, len(rows[0]))
	for i, name := range rows[0] {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}
	if _, ok := columns[colShipDate]; !ok {
		return nil, errs.NewValueIsRequiredErrorWithCause("file", fmt.Errorf("missing %s column", colShipDate))
	}

	inputs := make([]commands.EntryInput, 0, len(rows)-1)
	for _, row := range rows[1:] {
		cell := func(name string) string {
			i, ok := columns[name]
			if !ok || i >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[i])
		}
		if isBlankRow(row) {
			continue
		}

		in := commands.EntryInput{
			ShipDate:           sheetDate(cell(colShipDate)),
			PaymentType:        cell(colPaymentType),
			ProductCode:        cell(colProductCode),
			ProductName:        cell(colProductName),
			District:           cell(colDistrict),
			Location:           cell(colLocation),
			Price:              kernel.CoerceString(cell(colPrice)),
			OrderedQty:         kernel.CoerceString(cell(colOrderedQty)),
			ShippedQty:         kernel.CoerceString(cell(colShippedQty)),
			DistributionCoef:   kernel.CoerceString(cell(colDistributionCoef)),
			WeightToDistribute: kernel.CoerceString(cell(colWeightToDistribute)),
		}
		// A numeric customer cell is a customer id, anything else is a name.
		customer := cell(colCustomer)
		if id, convErr := strconv.ParseInt(customer, 10, 64); convErr == nil && id > 0 {
			in.CustomerID = &id
		} else {
			in.CustomerName = customer
		}
		inputs = append(inputs, in)
	}
	if len(inputs) == 0 {
		return nil, errs.NewValueIsRequiredError("rows")
	}
	return inputs, nil
}

// sheetDate rewrites excelize's default date rendering to ISO form. Anything
// else is passed through so that row validation reports it.
func sheetDate(raw string) string {
	if _, err := kernel.ParseShipDate(raw); err == nil {
		return raw
	}
	if t, err := time.Parse(excelDateLayout, raw); err == nil {
		return t.Format(time.DateOnly)
	}
	return raw
}

func isBlankRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
