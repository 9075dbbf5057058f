// Package report defines the night report domain model.
package report

import (
	"fmt"

	"github.com/google/uuid"
)

// Telescope identifies which telescope a report (or its deprecated
// telescope_status field) refers to.
type Telescope string

const (
	TelescopeAuxTel  Telescope = "AuxTel"
	TelescopeSimonyi Telescope = "Simonyi"
)

// Valid reports whether t is a recognized telescope name.
func (t Telescope) Valid() bool {
	return t == TelescopeAuxTel || t == TelescopeSimonyi
}

// Report is one night report entry. Edits never mutate a row: editing
// inserts a new report that points at its parent and invalidates the
// parent, so the full history of every report is preserved.
//
// The telescope and telescope_status fields are deprecated. They are kept
// for older clients and remain settable through edits.
type Report struct {
	ID              uuid.UUID  `json:"id"`
	SiteID          string     `json:"site_id"`
	Telescope       *Telescope `json:"telescope"`
	DayObs          int        `json:"day_obs"`
	Summary         string     `json:"summary"`
	TelescopeStatus *string    `json:"telescope_status"`
	Weather         *string    `json:"weather"`
	MaintelSummary  *string    `json:"maintel_summary"`
	AuxtelSummary   *string    `json:"auxtel_summary"`
	ConfluenceURL   string     `json:"confluence_url"`
	UserID          string     `json:"user_id"`
	UserAgent       string     `json:"user_agent"`
	ObserversCrew   []string   `json:"observers_crew"`
	DateAdded       Time       `json:"date_added"`
	DateSent        *Time      `json:"date_sent"`
	IsValid         bool       `json:"is_valid"`
	DateInvalidated *Time      `json:"date_invalidated"`
	ParentID        *uuid.UUID `json:"parent_id"`
}

// FieldNames lists the report fields in wire order. It is the source of
// truth for the order_by vocabulary.
var FieldNames = []string{
	"id",
	"site_id",
	"telescope",
	"day_obs",
	"summary",
	"telescope_status",
	"weather",
	"maintel_summary",
	"auxtel_summary",
	"confluence_url",
	"user_id",
	"user_agent",
	"observers_crew",
	"date_added",
	"date_sent",
	"is_valid",
	"date_invalidated",
	"parent_id",
}

// OrderByValues returns every legal order_by value: each field name plus
// its descending "-" variant.
func OrderByValues() []string {
	values := make([]string, 0, 2*len(FieldNames))
	for _, name := range FieldNames {
		values = append(values, name, "-"+name)
	}
	return values
}

var fieldNameSet = func() map[string]struct{} {
	set := make(map[string]struct{}, len(FieldNames))
	for _, name := range FieldNames {
		set[name] = struct{}{}
	}
	return set
}()

// ValidateOrderBy checks each order_by item against the field vocabulary
// and appends "id" when no item sorts by it, making the order fully
// deterministic.
func ValidateOrderBy(orderBy []string) ([]string, error) {
	hasID := false
	for _, item := range orderBy {
		field := item
		if len(field) > 0 && field[0] == '-' {
			field = field[1:]
		}
		if _, ok := fieldNameSet[field]; !ok {
			return nil, fmt.Errorf("invalid order_by value %q", item)
		}
		if field == "id" {
			hasID = true
		}
	}
	if !hasID {
		orderBy = append(orderBy, "id")
	}
	return orderBy, nil
}
