package domain

import (
	"fmt"
	"strings"
)

// Status is the user-set lifecycle label of an invoice.
type Status string

const (
	StatusDraft   Status = "Draft"
	StatusPending Status = "Pending"
	StatusPaid    Status = "Paid"
	StatusOverdue Status = "Overdue"
)

var allStatuses = []Status{StatusDraft, StatusPending, StatusPaid, StatusOverdue}

// Statuses returns every status in display order.
func Statuses() []Status {
	out := make([]Status, len(allStatuses))
	copy(out, allStatuses)
	return out
}

// ParseStatus matches s case-insensitively against the known statuses.
func ParseStatus(s string) (Status, error) {
	s = strings.TrimSpace(s)
	for _, st := range allStatuses {
		if strings.EqualFold(s, string(st)) {
			return st, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownStatus, s)
}

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	for _, st := range allStatuses {
		if s == st {
			return true
		}
	}
	return false
}

// Next cycles to the following status, wrapping after Overdue.
func (s Status) Next() Status {
	for i, st := range allStatuses {
		if s == st {
			return allStatuses[(i+1)%len(allStatuses)]
		}
	}
	return StatusDraft
}

// StatusFacet narrows an invoice list: either every status or exactly one.
type StatusFacet struct {
	status Status // empty means All
}

// FacetAll passes every invoice through the status check.
var FacetAll = StatusFacet{}

// FacetFor returns a facet that only passes invoices with the given status.
func FacetFor(s Status) StatusFacet {
	return StatusFacet{status: s}
}

// ParseStatusFacet accepts "all" (any case, or empty) or a status name.
func ParseStatusFacet(s string) (StatusFacet, error) {
	if t := strings.TrimSpace(s); t == "" || strings.EqualFold(t, "all") {
		return FacetAll, nil
	}
	st, err := ParseStatus(s)
	if err != nil {
		return FacetAll, err
	}
	return FacetFor(st), nil
}

// IsAll reports whether the facet is the All sentinel.
func (f StatusFacet) IsAll() bool {
	return f.status == ""
}

// Status returns the selected status; ok is false for All.
func (f StatusFacet) Status() (Status, bool) {
	return f.status, f.status != ""
}

// Matches reports whether s passes the facet.
func (f StatusFacet) Matches(s Status) bool {
	return f.IsAll() || f.status == s
}

// Next cycles All -> Draft -> Pending -> Paid -> Overdue -> All.
func (f StatusFacet) Next() StatusFacet {
	if f.IsAll() {
		return FacetFor(allStatuses[0])
	}
	if f.status == allStatuses[len(allStatuses)-1] {
		return FacetAll
	}
	return FacetFor(f.status.Next())
}

func (f StatusFacet) String() string {
	if f.IsAll() {
		return "All"
	}
	return string(f.status)
}
