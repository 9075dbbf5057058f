package telemetry

import (
	"go.opentelemetry.io/otel/attribute"
)

// Common attribute keys for consistent tracing across the application.
const (
	// HTTP attributes
	HTTPMethodKey     = "http.method"
	HTTPStatusCodeKey = "http.status_code"
	HTTPRouteKey      = "http.route"
	HTTPURLKey        = "http.url"

	// Report attributes
	ReportIDKey     = "report.id"
	ReportSiteIDKey = "report.site_id"
	ReportDayObsKey = "report.day_obs"
)

// HTTPAttributes creates common HTTP span attributes.
func HTTPAttributes(method, route, url string, statusCode int) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(HTTPMethodKey, method),
		attribute.String(HTTPRouteKey, route),
		attribute.String(HTTPURLKey, url),
		attribute.Int(HTTPStatusCodeKey, statusCode),
	}
}

// ReportAttributes creates report-related span attributes.
func ReportAttributes(id, siteID string, dayObs int) []attribute.KeyValue {
	attrs := make([]attribute.KeyValue, 0, 3)
	if id != "" {
		attrs = append(attrs, attribute.String(ReportIDKey, id))
	}
	if siteID != "" {
		attrs = append(attrs, attribute.String(ReportSiteIDKey, siteID))
	}
	if dayObs != 0 {
		attrs = append(attrs, attribute.Int(ReportDayObsKey, dayObs))
	}
	return attrs
}
