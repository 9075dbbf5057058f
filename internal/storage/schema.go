package storage

// Schema bootstrap for the nightreport table. Every statement is
// idempotent so restarting the service against an existing database is
// safe. The ALTER statements replay the migration history of older
// deployments: observers_crew (2024-03-06), widened confluence_url, and
// the single-report-per-night unification (2025-06-16) that added the
// weather and per-telescope summary columns and retired the telescope
// and telescope_status columns.
var schemaStatements = []string{
	`DO $$ BEGIN
		CREATE TYPE telescope_enum AS ENUM ('AuxTel', 'Simonyi');
	EXCEPTION WHEN duplicate_object THEN NULL;
	END $$`,

	`CREATE TABLE IF NOT EXISTS nightreport (
		id uuid PRIMARY KEY,
		site_id varchar(16),
		telescope telescope_enum,
		day_obs integer NOT NULL,
		summary text NOT NULL,
		telescope_status text,
		weather text,
		maintel_summary text,
		auxtel_summary text,
		confluence_url varchar(200) NOT NULL,
		user_id varchar NOT NULL,
		user_agent varchar NOT NULL,
		date_added timestamp NOT NULL,
		date_sent timestamp,
		is_valid boolean GENERATED ALWAYS AS (date_invalidated IS NULL) STORED NOT NULL,
		date_invalidated timestamp,
		parent_id uuid REFERENCES nightreport (id),
		observers_crew text[] NOT NULL DEFAULT '{}'
	)`,

	`ALTER TABLE nightreport ADD COLUMN IF NOT EXISTS observers_crew text[] NOT NULL DEFAULT '{}'`,
	`ALTER TABLE nightreport ALTER COLUMN confluence_url TYPE varchar(200)`,
	`ALTER TABLE nightreport ADD COLUMN IF NOT EXISTS weather text`,
	`ALTER TABLE nightreport ADD COLUMN IF NOT EXISTS maintel_summary text`,
	`ALTER TABLE nightreport ADD COLUMN IF NOT EXISTS auxtel_summary text`,
	`ALTER TABLE nightreport ALTER COLUMN telescope DROP NOT NULL`,
	`ALTER TABLE nightreport ALTER COLUMN telescope_status DROP NOT NULL`,

	`CREATE INDEX IF NOT EXISTS idx_user_id ON nightreport (user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_date_added ON nightreport (date_added)`,
	`CREATE INDEX IF NOT EXISTS idx_date_sent ON nightreport (date_sent)`,
}
