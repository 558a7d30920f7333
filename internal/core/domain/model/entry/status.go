package entry

import (
	"fmt"
	"strings"

	"orderdesk/internal/pkg/errs"
)

// Status is the lifecycle state of a summary entry.
type Status int

const (
	// Unknown catches uninitialized values.
	Unknown Status = iota

	// Draft is the state of a freshly imported or created entry, not yet visible in assembly.
	Draft

	// Forming entries are on the assembly floor awaiting confirmation.
	Forming

	// Synced entries have been reconciled into an order line.
	Synced

	// Rework marks a synced entry an operator flagged for correction.
	Rework
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown: "unknown",
		Draft:   "draft",
		Forming: "forming",
		Synced:  "synced",
		Rework:  "rework",
	}
}

func getValidStatusStrings() map[Status]string {
	//nolint:exhaustive // Unknown is intentionally excluded as it's invalid
	return map[Status]string{
		Draft:   "draft",
		Forming: "forming",
		Synced:  "synced",
		Rework:  "rework",
	}
}

// ParseStatus maps the persisted/wire name to a Status.
func ParseStatus(s string) (Status, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for status, name := range getValidStatusStrings() {
		if name == s {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%q is not a valid status", s))
}

// Validate checks that s is one of draft, forming, synced, rework.
func (s Status) Validate() error {
	if _, ok := getValidStatusStrings()[s]; !ok {
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

// ValidateInitial checks that an entry may be created directly in s.
// Synced can only be reached through reconciliation or an explicit update.
func (s Status) ValidateInitial() error {
	if s != Draft && s != Forming {
		return errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s is not a valid initial status", s.String()),
		)
	}
	return nil
}

// SendToAssembly moves a draft entry onto the assembly floor.
func (s Status) SendToAssembly() (Status, error) {
	if s != Draft {
		return Unknown, errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s is not a valid status to send to assembly", s.String()),
		)
	}
	return Forming, nil
}

// Sync is allowed from every valid status: re-syncing a synced entry is the
// idempotent retrigger path.
func (s Status) Sync() (Status, error) {
	if err := s.Validate(); err != nil {
		return Unknown, err
	}
	return Synced, nil
}

// Unlock returns an entry to forming. Draft entries were never on the floor.
func (s Status) Unlock() (Status, error) {
	if s != Synced && s != Rework && s != Forming {
		return Unknown, errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s is not a valid status to unlock", s.String()),
		)
	}
	return Forming, nil
}

// MarkForRework flags a synced entry.
func (s Status) MarkForRework() (Status, error) {
	if s != Synced {
		return Unknown, errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s is not a valid status to mark for rework", s.String()),
		)
	}
	return Rework, nil
}

// ValidateReturn allows return-from-assembly only while forming. A synced
// entry already has a canonical order line and must go through bulk-delete-orders.
func (s Status) ValidateReturn() error {
	if s != Forming {
		return errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s is not a valid status to return from assembly", s.String()),
		)
	}
	return nil
}

// IsOnAssemblyFloor reports whether the entry belongs in the assembly view.
func (s Status) IsOnAssemblyFloor() bool {
	return s == Forming || s == Synced
}
