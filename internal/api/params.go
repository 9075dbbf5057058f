package api

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/lsst-ts/nightreport/internal/report"
	"github.com/lsst-ts/nightreport/internal/storage"
)

const (
	defaultFindLimit = 50
)

// parseFindParams translates the find query string into storage.FindParams.
//
// List parameters are repeated (?user_ids=a&user_ids=b). Minimums are
// inclusive and maximums exclusive.
func parseFindParams(query url.Values) (storage.FindParams, error) {
	var p storage.FindParams

	p.SiteIDs = query["site_ids"]
	p.UserIDs = query["user_ids"]
	p.UserAgents = query["user_agents"]

	p.Summary = optionalString(query, "summary")
	p.Weather = optionalString(query, "weather")
	p.MaintelSummary = optionalString(query, "maintel_summary")
	p.AuxtelSummary = optionalString(query, "auxtel_summary")

	var err error
	if p.MinDayObs, err = optionalInt(query, "min_day_obs"); err != nil {
		return p, err
	}
	if p.MaxDayObs, err = optionalInt(query, "max_day_obs"); err != nil {
		return p, err
	}
	if p.MinDateAdded, err = optionalTime(query, "min_date_added"); err != nil {
		return p, err
	}
	if p.MaxDateAdded, err = optionalTime(query, "max_date_added"); err != nil {
		return p, err
	}
	if p.MinDateSent, err = optionalTime(query, "min_date_sent"); err != nil {
		return p, err
	}
	if p.MaxDateSent, err = optionalTime(query, "max_date_sent"); err != nil {
		return p, err
	}

	p.IsValid = storage.TriStateTrue
	if v := query.Get("is_valid"); v != "" {
		p.IsValid = storage.TriState(v)
		if !p.IsValid.Valid() {
			return p, fmt.Errorf("invalid is_valid=%q; allowed values are either, true, false", v)
		}
	}

	if v := query.Get("has_parent_id"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return p, fmt.Errorf("invalid has_parent_id=%q: not a boolean", v)
		}
		p.HasParentID = &b
	}

	orderBy, err := report.ValidateOrderBy(query["order_by"])
	if err != nil {
		return p, err
	}
	p.OrderBy = orderBy

	p.Offset = 0
	if v := query.Get("offset"); v != "" {
		offset, err := strconv.Atoi(v)
		if err != nil || offset < 0 {
			return p, fmt.Errorf("invalid offset=%q: must be an integer >= 0", v)
		}
		p.Offset = offset
	}

	p.Limit = defaultFindLimit
	if v := query.Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit <= 1 {
			return p, fmt.Errorf("invalid limit=%q: must be an integer > 1", v)
		}
		p.Limit = limit
	}

	return p, nil
}

func optionalString(query url.Values, key string) *string {
	if !query.Has(key) {
		return nil
	}
	v := query.Get(key)
	return &v
}

func optionalInt(query url.Values, key string) (*int, error) {
	if !query.Has(key) {
		return nil, nil
	}
	v, err := strconv.Atoi(query.Get(key))
	if err != nil {
		return nil, fmt.Errorf("invalid %s=%q: not an integer", key, query.Get(key))
	}
	return &v, nil
}

func optionalTime(query url.Values, key string) (*report.Time, error) {
	if !query.Has(key) {
		return nil, nil
	}
	t, err := report.ParseTime(query.Get(key))
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", key, err)
	}
	return &t, nil
}
