package api

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lsst-ts/nightreport/internal/storage"
)

func TestParseFindParamsDefaults(t *testing.T) {
	p, err := parseFindParams(url.Values{})
	require.NoError(t, err)

	assert.Equal(t, storage.TriStateTrue, p.IsValid)
	assert.Equal(t, []string{"id"}, p.OrderBy)
	assert.Equal(t, 0, p.Offset)
	assert.Equal(t, defaultFindLimit, p.Limit)
	assert.Nil(t, p.Summary)
	assert.Nil(t, p.HasParentID)
}

func TestParseFindParamsFull(t *testing.T) {
	query := url.Values{
		"site_ids":       {"summit", "base"},
		"user_ids":       {"observer"},
		"summary":        {"wind"},
		"min_day_obs":    {"20240301"},
		"max_day_obs":    {"20240401"},
		"min_date_added": {"2024-03-01T00:00:00"},
		"is_valid":       {"either"},
		"has_parent_id":  {"true"},
		"order_by":       {"-date_added"},
		"offset":         {"20"},
		"limit":          {"100"},
	}

	p, err := parseFindParams(query)
	require.NoError(t, err)

	assert.Equal(t, []string{"summit", "base"}, p.SiteIDs)
	assert.Equal(t, []string{"observer"}, p.UserIDs)
	require.NotNil(t, p.Summary)
	assert.Equal(t, "wind", *p.Summary)
	require.NotNil(t, p.MinDayObs)
	assert.Equal(t, 20240301, *p.MinDayObs)
	require.NotNil(t, p.MinDateAdded)
	assert.Equal(t, storage.TriStateEither, p.IsValid)
	require.NotNil(t, p.HasParentID)
	assert.True(t, *p.HasParentID)
	assert.Equal(t, []string{"-date_added", "id"}, p.OrderBy)
	assert.Equal(t, 20, p.Offset)
	assert.Equal(t, 100, p.Limit)
}

func TestParseFindParamsErrors(t *testing.T) {
	tests := []struct {
		name  string
		query url.Values
	}{
		{"bad min_day_obs", url.Values{"min_day_obs": {"march"}}},
		{"bad min_date_added", url.Values{"min_date_added": {"2024-03"}}},
		{"bad is_valid", url.Values{"is_valid": {"maybe"}}},
		{"bad has_parent_id", url.Values{"has_parent_id": {"sometimes"}}},
		{"bad order_by", url.Values{"order_by": {"nope"}}},
		{"negative offset", url.Values{"offset": {"-1"}}},
		{"limit too small", url.Values{"limit": {"1"}}},
		{"limit not a number", url.Values{"limit": {"all"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseFindParams(tt.query)
			assert.Error(t, err)
		})
	}
}
