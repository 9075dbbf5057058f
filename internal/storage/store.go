// Package storage persists night reports.
//
// The canonical implementation is Postgres (see PostgresStore); an
// in-memory implementation backs handler tests.
package storage

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/lsst-ts/nightreport/internal/report"
)

// ErrNotFound is returned when no report matches the requested ID.
var ErrNotFound = errors.New("report not found")

// NewReport holds the caller-supplied fields of a report to add.
// The store assigns the ID.
type NewReport struct {
	SiteID         string
	DayObs         int
	Summary        string
	Weather        string
	MaintelSummary string
	AuxtelSummary  string
	ConfluenceURL  string
	UserID         string
	UserAgent      string
	ObserversCrew  []string
	DateAdded      report.Time
}

// Edits holds the optional overrides for an edit operation. Nil fields
// keep the parent report's value.
type Edits struct {
	Telescope       *report.Telescope
	DayObs          *int
	Summary         *string
	TelescopeStatus *string
	Weather         *string
	MaintelSummary  *string
	AuxtelSummary   *string
	ConfluenceURL   *string
	UserID          *string
	UserAgent       *string
	ObserversCrew   *[]string
}

// TriState selects reports by validity: valid only, invalid only, or both.
type TriState string

const (
	TriStateEither TriState = "either"
	TriStateTrue   TriState = "true"
	TriStateFalse  TriState = "false"
)

// Valid reports whether t is a recognized tri-state value.
func (t TriState) Valid() bool {
	return t == TriStateEither || t == TriStateTrue || t == TriStateFalse
}

// FindParams are the selection, ordering and paging arguments for Find.
//
// Minimums are inclusive, maximums exclusive. String filters on summary,
// weather, maintel_summary and auxtel_summary are substring matches.
// OrderBy must already be validated (see report.ValidateOrderBy).
type FindParams struct {
	SiteIDs    []string
	UserIDs    []string
	UserAgents []string

	Summary        *string
	Weather        *string
	MaintelSummary *string
	AuxtelSummary  *string

	MinDayObs *int
	MaxDayObs *int

	MinDateAdded *report.Time
	MaxDateAdded *report.Time
	MinDateSent  *report.Time
	MaxDateSent  *report.Time

	IsValid     TriState
	HasParentID *bool

	OrderBy []string
	Offset  int
	Limit   int
}

// Store is the persistence interface used by the HTTP handlers.
type Store interface {
	// Add inserts a new report and returns it as stored.
	Add(ctx context.Context, nr NewReport) (report.Report, error)

	// Get returns the report with the given ID, or ErrNotFound.
	Get(ctx context.Context, id uuid.UUID) (report.Report, error)

	// Find returns the reports matching params.
	Find(ctx context.Context, params FindParams) ([]report.Report, error)

	// Edit supersedes the report with the given ID: it inserts a new
	// report copying the parent with edits applied, parent_id set to the
	// old ID and site_id forced to siteID, then invalidates the parent
	// at time now. Returns the new report, or ErrNotFound.
	Edit(ctx context.Context, id uuid.UUID, edits Edits, siteID string, now report.Time) (report.Report, error)

	// SoftDelete marks the report invalid at time now. Idempotent for
	// already-invalid reports; ErrNotFound when no row matches.
	SoftDelete(ctx context.Context, id uuid.UUID, now report.Time) error

	// Ping verifies the backing store is reachable.
	Ping(ctx context.Context) error
}

// applyEdits returns a copy of parent with edits applied. The returned
// report still carries the parent's ID and validity fields; callers
// assign a fresh ID and lineage.
func applyEdits(parent report.Report, edits Edits) report.Report {
	r := parent
	if edits.Telescope != nil {
		r.Telescope = edits.Telescope
	}
	if edits.DayObs != nil {
		r.DayObs = *edits.DayObs
	}
	if edits.Summary != nil {
		r.Summary = *edits.Summary
	}
	if edits.TelescopeStatus != nil {
		r.TelescopeStatus = edits.TelescopeStatus
	}
	if edits.Weather != nil {
		r.Weather = edits.Weather
	}
	if edits.MaintelSummary != nil {
		r.MaintelSummary = edits.MaintelSummary
	}
	if edits.AuxtelSummary != nil {
		r.AuxtelSummary = edits.AuxtelSummary
	}
	if edits.ConfluenceURL != nil {
		r.ConfluenceURL = *edits.ConfluenceURL
	}
	if edits.UserID != nil {
		r.UserID = *edits.UserID
	}
	if edits.UserAgent != nil {
		r.UserAgent = *edits.UserAgent
	}
	if edits.ObserversCrew != nil {
		r.ObserversCrew = append([]string(nil), (*edits.ObserversCrew)...)
	}
	return r
}
