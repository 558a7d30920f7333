package order

import (
	"fmt"
	"strings"

	"orderdesk/internal/pkg/errs"
)

// Status is the fulfillment state of an order. Transitions past
// AwaitingDistribution are driven by the dispatch side, outside this service.
type Status int

const (
	Unknown Status = iota

	// AwaitingDistribution is the initial status set at reconciliation.
	// It is the last status in which an order may still be unwound.
	AwaitingDistribution

	Distributing
	Shipped
	Delivered
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:              "unknown",
		AwaitingDistribution: "awaiting_distribution",
		Distributing:         "distributing",
		Shipped:              "shipped",
		Delivered:            "delivered",
	}
}

// ParseStatus maps the persisted name to a Status.
func ParseStatus(s string) (Status, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for status, name := range getStatusStrings() {
		if status != Unknown && name == s {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%q is not a valid status", s))
}

func (s Status) Validate() error {
	if s <= Unknown || s > Delivered {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// IsPastSafePoint reports whether the order has progressed beyond the point
// where reconciliation may be reversed.
func (s Status) IsPastSafePoint() bool {
	return s != AwaitingDistribution
}
