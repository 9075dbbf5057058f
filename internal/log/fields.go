package log

// Canonical field name constants for structured logging.
const (
	// Identity fields
	FieldRequestID = "request_id"
	FieldReportID  = "report_id"
	FieldParentID  = "parent_id"
	FieldSiteID    = "site_id"
	FieldUserID    = "user_id"

	// Process fields
	FieldEvent     = "event"
	FieldComponent = "component"

	// Domain fields
	FieldDayObs = "day_obs"

	// HTTP fields
	FieldMethod = "method"
	FieldPath   = "path"
	FieldStatus = "status"
)
