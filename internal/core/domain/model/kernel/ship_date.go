package kernel

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"orderdesk/internal/pkg/errs"
	"orderdesk/internal/pkg/guard"
)

// ErrShipDateIsNotConstructed is returned when a zero ShipDate is used.
var ErrShipDateIsNotConstructed = errs.NewValueIsRequiredError("shipDate")

const isoDateLayout = "2006-01-02"

// shipDateLayouts lists the textual forms accepted from intake and import sheets.
var shipDateLayouts = []string{isoDateLayout, "02.01.2006", "02/01/2006", "02012006"}

// ShipDate is a civil calendar date. It carries no time zone: conversion from an
// instant happens once, in the operating time zone, via ShipDateFromTime.
type ShipDate struct {
	year  int
	month time.Month
	day   int
	guard guard.ConstructorGuard
}

// NewShipDate validates and builds a ShipDate. 2024-02-30 and the like are rejected.
func NewShipDate(year int, month time.Month, day int) (ShipDate, error) {
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	if t.Year() != year || t.Month() != month || t.Day() != day {
		return ShipDate{}, errs.NewValueIsInvalidErrorWithCause(
			"shipDate", fmt.Errorf("%04d-%02d-%02d is not a calendar date", year, month, day))
	}
	if year < 2000 || year > 2999 {
		return ShipDate{}, errs.NewValueIsOutOfRangeError("shipDate year", year, 2000, 2999)
	}
	return ShipDate{year: year, month: month, day: day, guard: guard.NewConstructorGuard()}, nil
}

// ShipDateFromTime takes the calendar date of t as observed in loc.
func ShipDateFromTime(t time.Time, loc *time.Location) ShipDate {
	if loc == nil {
		loc = time.UTC
	}
	local := t.In(loc)
	return ShipDate{year: local.Year(), month: local.Month(), day: local.Day(), guard: guard.NewConstructorGuard()}
}

// ParseShipDate accepts YYYY-MM-DD, DD.MM.YYYY, DD/MM/YYYY and DDMMYYYY.
func ParseShipDate(s string) (ShipDate, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return ShipDate{}, ErrShipDateIsNotConstructed
	}
	for _, layout := range shipDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return NewShipDate(t.Year(), t.Month(), t.Day())
		}
	}
	// RFC 3339 instants from JSON clients: keep the date part as written.
	if len(s) > len(isoDateLayout) {
		if t, err := time.Parse(isoDateLayout, s[:len(isoDateLayout)]); err == nil {
			return NewShipDate(t.Year(), t.Month(), t.Day())
		}
	}
	return ShipDate{}, errs.NewValueIsInvalidErrorWithCause("shipDate", fmt.Errorf("unrecognised date %q", s))
}

func (d ShipDate) Validate() error {
	return d.guard.Validate(ErrShipDateIsNotConstructed)
}

func (d ShipDate) IsZero() bool {
	return d.Validate() != nil
}

func (d ShipDate) Year() int         { return d.year }
func (d ShipDate) Month() time.Month { return d.month }
func (d ShipDate) Day() int          { return d.day }

// BatchID derives the shipment-batch-id. The DDMMYYYY format is consumed
// verbatim by invoice and report generation downstream.
func (d ShipDate) BatchID() BatchID {
	return BatchID(fmt.Sprintf("%02d%02d%04d", d.day, int(d.month), d.year))
}

// Time returns midnight of the date in loc.
func (d ShipDate) Time(loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	return time.Date(d.year, d.month, d.day, 0, 0, 0, 0, loc)
}

// AddDays shifts the date by n calendar days.
func (d ShipDate) AddDays(n int) ShipDate {
	return ShipDateFromTime(d.Time(time.UTC).AddDate(0, 0, n), time.UTC)
}

func (d ShipDate) Equal(other ShipDate) bool {
	return d.year == other.year && d.month == other.month && d.day == other.day
}

func (d ShipDate) Before(other ShipDate) bool {
	return d.Time(time.UTC).Before(other.Time(time.UTC))
}

// String renders the ISO form used by the HTTP surface and room names.
func (d ShipDate) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.year, int(d.month), d.day)
}

func (d ShipDate) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *ShipDate) UnmarshalText(b []byte) error {
	parsed, err := ParseShipDate(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// BatchID is the shipment-batch-id ("idn"): DDMMYYYY of the ship date.
// It is a grouping key shared by every entry shipping that day, not a unique id.
type BatchID string

var batchIDPattern = regexp.MustCompile(`^\d{8}$`)

func (b BatchID) Validate() error {
	if !batchIDPattern.MatchString(string(b)) {
		return errs.NewValueIsInvalidErrorWithCause("idn", fmt.Errorf("%q is not DDMMYYYY", string(b)))
	}
	return nil
}

func (b BatchID) String() string {
	return string(b)
}
