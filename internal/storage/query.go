package storage

import (
	"fmt"
	"strings"
)

// reportColumns is the canonical column list; scanReport relies on this
// exact order.
const reportColumns = `id, site_id, telescope, day_obs, summary, telescope_status, ` +
	`weather, maintel_summary, auxtel_summary, confluence_url, user_id, user_agent, ` +
	`date_added, date_sent, is_valid, date_invalidated, parent_id, observers_crew`

// buildFindQuery translates FindParams into a SELECT statement with
// positional arguments.
func buildFindQuery(p FindParams) (string, []any, error) {
	var (
		conditions []string
		args       []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if len(p.SiteIDs) > 0 {
		conditions = append(conditions, "site_id = ANY("+arg(p.SiteIDs)+")")
	}
	if len(p.UserIDs) > 0 {
		conditions = append(conditions, "user_id = ANY("+arg(p.UserIDs)+")")
	}
	if len(p.UserAgents) > 0 {
		conditions = append(conditions, "user_agent = ANY("+arg(p.UserAgents)+")")
	}

	contains := map[string]*string{
		"summary":         p.Summary,
		"weather":         p.Weather,
		"maintel_summary": p.MaintelSummary,
		"auxtel_summary":  p.AuxtelSummary,
	}
	for _, column := range []string{"summary", "weather", "maintel_summary", "auxtel_summary"} {
		if value := contains[column]; value != nil {
			conditions = append(conditions, column+" LIKE '%' || "+arg(*value)+" || '%'")
		}
	}

	if p.MinDayObs != nil {
		conditions = append(conditions, "day_obs >= "+arg(*p.MinDayObs))
	}
	if p.MaxDayObs != nil {
		conditions = append(conditions, "day_obs < "+arg(*p.MaxDayObs))
	}
	if p.MinDateAdded != nil {
		conditions = append(conditions, "date_added >= "+arg(p.MinDateAdded.Time))
	}
	if p.MaxDateAdded != nil {
		conditions = append(conditions, "date_added < "+arg(p.MaxDateAdded.Time))
	}
	if p.MinDateSent != nil {
		conditions = append(conditions, "date_sent >= "+arg(p.MinDateSent.Time))
	}
	if p.MaxDateSent != nil {
		conditions = append(conditions, "date_sent < "+arg(p.MaxDateSent.Time))
	}

	switch p.IsValid {
	case TriStateEither, "":
		// no condition
	case TriStateTrue:
		conditions = append(conditions, "is_valid = "+arg(true))
	case TriStateFalse:
		conditions = append(conditions, "is_valid = "+arg(false))
	default:
		return "", nil, fmt.Errorf("invalid is_valid value %q", p.IsValid)
	}

	if p.HasParentID != nil {
		if *p.HasParentID {
			conditions = append(conditions, "parent_id IS NOT NULL")
		} else {
			conditions = append(conditions, "parent_id IS NULL")
		}
	}

	orderClauses := make([]string, 0, len(p.OrderBy))
	for _, item := range p.OrderBy {
		column, direction := item, "ASC"
		if strings.HasPrefix(item, "-") {
			column, direction = item[1:], "DESC"
		}
		if !isReportColumn(column) {
			return "", nil, fmt.Errorf("invalid order_by field %q", item)
		}
		orderClauses = append(orderClauses, column+" "+direction)
	}

	var b strings.Builder
	b.WriteString("SELECT " + reportColumns + " FROM nightreport")
	if len(conditions) > 0 {
		b.WriteString(" WHERE " + strings.Join(conditions, " AND "))
	}
	if len(orderClauses) > 0 {
		b.WriteString(" ORDER BY " + strings.Join(orderClauses, ", "))
	}
	b.WriteString(" LIMIT " + arg(p.Limit))
	b.WriteString(" OFFSET " + arg(p.Offset))

	return b.String(), args, nil
}

var reportColumnSet = func() map[string]bool {
	m := make(map[string]bool)
	for _, column := range strings.Split(reportColumns, ", ") {
		m[column] = true
	}
	return m
}()

func isReportColumn(name string) bool {
	return reportColumnSet[name]
}
