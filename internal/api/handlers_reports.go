package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"

	"github.com/lsst-ts/nightreport/internal/log"
	"github.com/lsst-ts/nightreport/internal/metrics"
	"github.com/lsst-ts/nightreport/internal/report"
	"github.com/lsst-ts/nightreport/internal/storage"
	"github.com/lsst-ts/nightreport/internal/telemetry"
)

// addReportRequest is the POST /reports body. Pointer fields distinguish
// "absent" from zero values so required fields can be reported precisely.
type addReportRequest struct {
	DayObs         *int     `json:"day_obs"`
	Summary        *string  `json:"summary"`
	Weather        *string  `json:"weather"`
	MaintelSummary *string  `json:"maintel_summary"`
	AuxtelSummary  *string  `json:"auxtel_summary"`
	ConfluenceURL  *string  `json:"confluence_url"`
	UserID         *string  `json:"user_id"`
	UserAgent      *string  `json:"user_agent"`
	ObserversCrew  []string `json:"observers_crew"`
}

func (req *addReportRequest) missingFields() []string {
	var missing []string
	if req.DayObs == nil {
		missing = append(missing, "day_obs")
	}
	if req.Summary == nil {
		missing = append(missing, "summary")
	}
	if req.Weather == nil {
		missing = append(missing, "weather")
	}
	if req.MaintelSummary == nil {
		missing = append(missing, "maintel_summary")
	}
	if req.AuxtelSummary == nil {
		missing = append(missing, "auxtel_summary")
	}
	if req.ConfluenceURL == nil {
		missing = append(missing, "confluence_url")
	}
	if req.UserID == nil {
		missing = append(missing, "user_id")
	}
	if req.UserAgent == nil {
		missing = append(missing, "user_agent")
	}
	return missing
}

// handleAddReport adds a report to the database and returns it.
func (s *Server) handleAddReport(w http.ResponseWriter, r *http.Request) {
	var req addReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body: "+err.Error())
		return
	}
	if missing := req.missingFields(); len(missing) > 0 {
		writeBadRequest(w, "missing required fields: "+strings.Join(missing, ", "))
		return
	}

	crew := req.ObserversCrew
	if crew == nil {
		crew = []string{}
	}

	added, err := s.store.Add(r.Context(), storage.NewReport{
		SiteID:         s.cfg.SiteID,
		DayObs:         *req.DayObs,
		Summary:        *req.Summary,
		Weather:        *req.Weather,
		MaintelSummary: *req.MaintelSummary,
		AuxtelSummary:  *req.AuxtelSummary,
		ConfluenceURL:  *req.ConfluenceURL,
		UserID:         *req.UserID,
		UserAgent:      *req.UserAgent,
		ObserversCrew:  crew,
		DateAdded:      report.TAINow(s.clock),
	})
	if err != nil {
		logger(r.Context()).Error().Err(err).
			Str(log.FieldEvent, "report.add_failed").
			Str(log.FieldUserID, *req.UserID).
			Msg("failed to add report")
		writeInternalError(w, "couldn't create report entry")
		return
	}

	metrics.ReportsCreated.Inc()
	trace.SpanFromContext(r.Context()).SetAttributes(
		telemetry.ReportAttributes(added.ID.String(), added.SiteID, added.DayObs)...)
	writeJSON(w, http.StatusOK, added)
}

// handleGetReport finds a specific night report by its ID.
func (s *Server) handleGetReport(w http.ResponseWriter, r *http.Request) {
	idStr := chi.URLParam(r, "id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		writeNotFound(w, fmt.Sprintf("No report found with id=%s", idStr))
		return
	}

	found, err := s.store.Get(r.Context(), id)
	if errors.Is(err, storage.ErrNotFound) {
		writeNotFound(w, fmt.Sprintf("No report found with id=%s", idStr))
		return
	}
	if err != nil {
		logger(r.Context()).Error().Err(err).
			Str(log.FieldEvent, "report.get_failed").
			Str(log.FieldReportID, idStr).
			Msg("failed to get report")
		writeInternalError(w, "failed to get report")
		return
	}

	writeJSON(w, http.StatusOK, found)
}

// handleFindReports finds night reports matching the query parameters.
func (s *Server) handleFindReports(w http.ResponseWriter, r *http.Request) {
	params, err := parseFindParams(r.URL.Query())
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	reports, err := s.store.Find(r.Context(), params)
	if err != nil {
		logger(r.Context()).Error().Err(err).
			Str(log.FieldEvent, "report.find_failed").
			Msg("failed to find reports")
		writeInternalError(w, "failed to find reports")
		return
	}

	metrics.FindResults.Observe(float64(len(reports)))
	writeJSON(w, http.StatusOK, reports)
}

// editReportRequest is the PATCH /reports/{id} body. Every field is
// optional; absent fields keep the parent report's value. site_id is
// accepted for compatibility but the new report always carries the
// service's own site ID.
type editReportRequest struct {
	Telescope       *report.Telescope `json:"telescope"`
	DayObs          *int              `json:"day_obs"`
	Summary         *string           `json:"summary"`
	TelescopeStatus *string           `json:"telescope_status"`
	Weather         *string           `json:"weather"`
	MaintelSummary  *string           `json:"maintel_summary"`
	AuxtelSummary   *string           `json:"auxtel_summary"`
	ConfluenceURL   *string           `json:"confluence_url"`
	SiteID          *string           `json:"site_id"`
	UserID          *string           `json:"user_id"`
	UserAgent       *string           `json:"user_agent"`
	ObserversCrew   *[]string         `json:"observers_crew"`
}

// handleEditReport supersedes an existing report: a new report is created
// from the parent with the supplied overrides and the parent is marked
// invalid.
func (s *Server) handleEditReport(w http.ResponseWriter, r *http.Request) {
	idStr := chi.URLParam(r, "id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		writeNotFound(w, fmt.Sprintf("Report with id=%s not found", idStr))
		return
	}

	var req editReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body: "+err.Error())
		return
	}
	if req.Telescope != nil && !req.Telescope.Valid() {
		writeBadRequest(w, fmt.Sprintf("invalid telescope %q; allowed values are %q and %q",
			*req.Telescope, report.TelescopeAuxTel, report.TelescopeSimonyi))
		return
	}

	edited, err := s.store.Edit(r.Context(), id, storage.Edits{
		Telescope:       req.Telescope,
		DayObs:          req.DayObs,
		Summary:         req.Summary,
		TelescopeStatus: req.TelescopeStatus,
		Weather:         req.Weather,
		MaintelSummary:  req.MaintelSummary,
		AuxtelSummary:   req.AuxtelSummary,
		ConfluenceURL:   req.ConfluenceURL,
		UserID:          req.UserID,
		UserAgent:       req.UserAgent,
		ObserversCrew:   req.ObserversCrew,
	}, s.cfg.SiteID, report.TAINow(s.clock))
	if errors.Is(err, storage.ErrNotFound) {
		writeNotFound(w, fmt.Sprintf("Report with id=%s not found", idStr))
		return
	}
	if err != nil {
		logger(r.Context()).Error().Err(err).
			Str(log.FieldEvent, "report.edit_failed").
			Str(log.FieldReportID, idStr).
			Msg("failed to edit report")
		writeInternalError(w, "failed to edit report")
		return
	}

	metrics.ReportsEdited.Inc()
	trace.SpanFromContext(r.Context()).SetAttributes(
		telemetry.ReportAttributes(edited.ID.String(), edited.SiteID, edited.DayObs)...)
	writeJSON(w, http.StatusOK, edited)
}

// handleDeleteReport deletes a report by marking it invalid. A no-op if
// the report is already marked invalid.
func (s *Server) handleDeleteReport(w http.ResponseWriter, r *http.Request) {
	idStr := chi.URLParam(r, "id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		writeNotFound(w, fmt.Sprintf("No report found with id=%s", idStr))
		return
	}

	err = s.store.SoftDelete(r.Context(), id, report.TAINow(s.clock))
	if errors.Is(err, storage.ErrNotFound) {
		writeNotFound(w, fmt.Sprintf("No report found with id=%s", idStr))
		return
	}
	if err != nil {
		logger(r.Context()).Error().Err(err).
			Str(log.FieldEvent, "report.delete_failed").
			Str(log.FieldReportID, idStr).
			Msg("failed to delete report")
		writeInternalError(w, "failed to delete report")
		return
	}

	metrics.ReportsDeleted.Inc()
	w.WriteHeader(http.StatusNoContent)
}
