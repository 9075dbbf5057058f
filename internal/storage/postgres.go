package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/lsst-ts/nightreport/internal/log"
	"github.com/lsst-ts/nightreport/internal/report"
)

// PostgresStore persists night reports in a Postgres database.
type PostgresStore struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewPostgres connects to the database at url, verifies the connection
// and bootstraps the schema.
func NewPostgres(ctx context.Context, url string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("connect to nightreport database: %w", err)
	}
	s := &PostgresStore{
		pool:   pool,
		logger: log.WithComponent("storage"),
	}
	if err := s.pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping nightreport database: %w", err)
	}
	if err := s.createSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

// createSchema creates the nightreport table and replays the idempotent
// migration steps.
func (s *PostgresStore) createSchema(ctx context.Context) error {
	s.logger.Info().Str(log.FieldEvent, "schema.create").Msg("creating nightreport table")
	for _, stmt := range schemaStatements {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("bootstrap schema: %w", err)
		}
	}
	return nil
}

// Close releases the connection pool.
func (s *PostgresStore) Close() {
	s.pool.Close()
}

// Ping verifies database connectivity.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// rowScanner is satisfied by pgx.Row and pgx.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanReport reads one row in reportColumns order.
func scanReport(row rowScanner) (report.Report, error) {
	var (
		r               report.Report
		telescope       *string
		dateAdded       time.Time
		dateSent        *time.Time
		dateInvalidated *time.Time
	)
	err := row.Scan(
		&r.ID, &r.SiteID, &telescope, &r.DayObs, &r.Summary, &r.TelescopeStatus,
		&r.Weather, &r.MaintelSummary, &r.AuxtelSummary, &r.ConfluenceURL,
		&r.UserID, &r.UserAgent, &dateAdded, &dateSent, &r.IsValid,
		&dateInvalidated, &r.ParentID, &r.ObserversCrew,
	)
	if err != nil {
		return report.Report{}, err
	}
	if telescope != nil {
		t := report.Telescope(*telescope)
		r.Telescope = &t
	}
	r.DateAdded = report.NewTime(dateAdded)
	if dateSent != nil {
		t := report.NewTime(*dateSent)
		r.DateSent = &t
	}
	if dateInvalidated != nil {
		t := report.NewTime(*dateInvalidated)
		r.DateInvalidated = &t
	}
	if r.ObserversCrew == nil {
		r.ObserversCrew = []string{}
	}
	return r, nil
}

const insertNewReport = `INSERT INTO nightreport
	(id, site_id, day_obs, summary, weather, maintel_summary, auxtel_summary,
	 confluence_url, user_id, user_agent, date_added, observers_crew)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	RETURNING ` + reportColumns

// Add inserts a new report and returns it as stored.
func (s *PostgresStore) Add(ctx context.Context, nr NewReport) (report.Report, error) {
	crew := nr.ObserversCrew
	if crew == nil {
		crew = []string{}
	}
	row := s.pool.QueryRow(ctx, insertNewReport,
		uuid.New(), nr.SiteID, nr.DayObs, nr.Summary, nr.Weather,
		nr.MaintelSummary, nr.AuxtelSummary, nr.ConfluenceURL,
		nr.UserID, nr.UserAgent, nr.DateAdded.Time, crew,
	)
	added, err := scanReport(row)
	if err != nil {
		return report.Report{}, fmt.Errorf("add report: %w", err)
	}
	s.logger.Info().
		Str(log.FieldEvent, "report.added").
		Str(log.FieldReportID, added.ID.String()).
		Int(log.FieldDayObs, added.DayObs).
		Msg("report added")
	return added, nil
}

// Get returns the report with the given ID.
func (s *PostgresStore) Get(ctx context.Context, id uuid.UUID) (report.Report, error) {
	row := s.pool.QueryRow(ctx,
		"SELECT "+reportColumns+" FROM nightreport WHERE id = $1", id)
	r, err := scanReport(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return report.Report{}, ErrNotFound
	}
	if err != nil {
		return report.Report{}, fmt.Errorf("get report: %w", err)
	}
	return r, nil
}

// Find returns the reports matching params.
func (s *PostgresStore) Find(ctx context.Context, params FindParams) ([]report.Report, error) {
	query, args, err := buildFindQuery(params)
	if err != nil {
		return nil, err
	}
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("find reports: %w", err)
	}
	defer rows.Close()

	reports := make([]report.Report, 0)
	for rows.Next() {
		r, err := scanReport(rows)
		if err != nil {
			return nil, fmt.Errorf("scan report: %w", err)
		}
		reports = append(reports, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("find reports: %w", err)
	}
	return reports, nil
}

const insertEditedReport = `INSERT INTO nightreport
	(id, site_id, telescope, day_obs, summary, telescope_status, weather,
	 maintel_summary, auxtel_summary, confluence_url, user_id, user_agent,
	 date_added, date_sent, date_invalidated, parent_id, observers_crew)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
	RETURNING ` + reportColumns

// Edit supersedes an existing report inside one transaction: the parent
// row is locked, a new row is inserted with the overrides applied, and
// the parent is invalidated.
func (s *PostgresStore) Edit(ctx context.Context, id uuid.UUID, edits Edits, siteID string, now report.Time) (report.Report, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return report.Report{}, fmt.Errorf("edit report: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	row := tx.QueryRow(ctx,
		"SELECT "+reportColumns+" FROM nightreport WHERE id = $1 FOR UPDATE", id)
	parent, err := scanReport(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return report.Report{}, ErrNotFound
	}
	if err != nil {
		return report.Report{}, fmt.Errorf("edit report: %w", err)
	}

	merged := applyEdits(parent, edits)

	var telescope *string
	if merged.Telescope != nil {
		t := string(*merged.Telescope)
		telescope = &t
	}
	var dateSent *time.Time
	if merged.DateSent != nil {
		dateSent = &merged.DateSent.Time
	}

	newRow := tx.QueryRow(ctx, insertEditedReport,
		uuid.New(), siteID, telescope, merged.DayObs, merged.Summary,
		merged.TelescopeStatus, merged.Weather, merged.MaintelSummary,
		merged.AuxtelSummary, merged.ConfluenceURL, merged.UserID,
		merged.UserAgent, merged.DateAdded.Time, dateSent, nil, parent.ID,
		merged.ObserversCrew,
	)
	edited, err := scanReport(newRow)
	if err != nil {
		return report.Report{}, fmt.Errorf("insert edited report: %w", err)
	}

	if _, err := tx.Exec(ctx,
		"UPDATE nightreport SET date_invalidated = $1 WHERE id = $2",
		now.Time, parent.ID); err != nil {
		return report.Report{}, fmt.Errorf("invalidate parent report: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return report.Report{}, fmt.Errorf("edit report: %w", err)
	}

	s.logger.Info().
		Str(log.FieldEvent, "report.edited").
		Str(log.FieldReportID, edited.ID.String()).
		Str(log.FieldParentID, parent.ID.String()).
		Msg("report edited")
	return edited, nil
}

// SoftDelete invalidates a report. Reports that are already invalid keep
// their original date_invalidated.
func (s *PostgresStore) SoftDelete(ctx context.Context, id uuid.UUID, now report.Time) error {
	tag, err := s.pool.Exec(ctx,
		"UPDATE nightreport SET date_invalidated = COALESCE(date_invalidated, $1) WHERE id = $2",
		now.Time, id)
	if err != nil {
		return fmt.Errorf("delete report: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	s.logger.Info().
		Str(log.FieldEvent, "report.deleted").
		Str(log.FieldReportID, id.String()).
		Msg("report marked invalid")
	return nil
}
