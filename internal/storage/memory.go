package storage

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/lsst-ts/nightreport/internal/report"
)

// MemoryStore is an in-memory Store used by handler tests and local
// development. It mirrors the Postgres semantics, including null
// ordering (NULLs last on ascending sorts).
type MemoryStore struct {
	mu      sync.RWMutex
	reports map[uuid.UUID]report.Report
}

// NewMemory returns an empty in-memory store.
func NewMemory() *MemoryStore {
	return &MemoryStore{reports: make(map[uuid.UUID]report.Report)}
}

// Put inserts or replaces a report verbatim. Test seeding helper.
func (s *MemoryStore) Put(r report.Report) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r.IsValid = r.DateInvalidated == nil
	s.reports[r.ID] = r
}

// Len returns the number of stored reports.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.reports)
}

func (s *MemoryStore) Add(_ context.Context, nr NewReport) (report.Report, error) {
	crew := append([]string{}, nr.ObserversCrew...)
	r := report.Report{
		ID:             uuid.New(),
		SiteID:         nr.SiteID,
		DayObs:         nr.DayObs,
		Summary:        nr.Summary,
		Weather:        &nr.Weather,
		MaintelSummary: &nr.MaintelSummary,
		AuxtelSummary:  &nr.AuxtelSummary,
		ConfluenceURL:  nr.ConfluenceURL,
		UserID:         nr.UserID,
		UserAgent:      nr.UserAgent,
		ObserversCrew:  crew,
		DateAdded:      nr.DateAdded,
		IsValid:        true,
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reports[r.ID] = r
	return r, nil
}

func (s *MemoryStore) Get(_ context.Context, id uuid.UUID) (report.Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.reports[id]
	if !ok {
		return report.Report{}, ErrNotFound
	}
	return r, nil
}

func (s *MemoryStore) Edit(_ context.Context, id uuid.UUID, edits Edits, siteID string, now report.Time) (report.Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	parent, ok := s.reports[id]
	if !ok {
		return report.Report{}, ErrNotFound
	}

	edited := applyEdits(parent, edits)
	edited.ID = uuid.New()
	edited.SiteID = siteID
	edited.ParentID = &parent.ID
	edited.IsValid = true
	edited.DateInvalidated = nil
	s.reports[edited.ID] = edited

	parent.DateInvalidated = &now
	parent.IsValid = false
	s.reports[parent.ID] = parent

	return edited, nil
}

func (s *MemoryStore) SoftDelete(_ context.Context, id uuid.UUID, now report.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.reports[id]
	if !ok {
		return ErrNotFound
	}
	if r.DateInvalidated == nil {
		r.DateInvalidated = &now
		r.IsValid = false
		s.reports[id] = r
	}
	return nil
}

func (s *MemoryStore) Find(_ context.Context, params FindParams) ([]report.Report, error) {
	if !params.IsValid.Valid() && params.IsValid != "" {
		return nil, errInvalidTriState(params.IsValid)
	}

	s.mu.RLock()
	matched := make([]report.Report, 0, len(s.reports))
	for _, r := range s.reports {
		if matchesParams(r, params) {
			matched = append(matched, r)
		}
	}
	s.mu.RUnlock()

	sort.SliceStable(matched, func(i, j int) bool {
		for _, item := range params.OrderBy {
			field, desc := item, false
			if strings.HasPrefix(item, "-") {
				field, desc = item[1:], true
			}
			c := compareField(matched[i], matched[j], field)
			if c == 0 {
				continue
			}
			if desc {
				return c > 0
			}
			return c < 0
		}
		return false
	})

	if params.Offset >= len(matched) {
		return []report.Report{}, nil
	}
	matched = matched[params.Offset:]
	if params.Limit > 0 && len(matched) > params.Limit {
		matched = matched[:params.Limit]
	}
	return matched, nil
}

func (s *MemoryStore) Ping(context.Context) error {
	return nil
}

type errInvalidTriState TriState

func (e errInvalidTriState) Error() string {
	return "invalid is_valid value \"" + string(e) + "\""
}

func matchesParams(r report.Report, p FindParams) bool {
	if len(p.SiteIDs) > 0 && !containsString(p.SiteIDs, r.SiteID) {
		return false
	}
	if len(p.UserIDs) > 0 && !containsString(p.UserIDs, r.UserID) {
		return false
	}
	if len(p.UserAgents) > 0 && !containsString(p.UserAgents, r.UserAgent) {
		return false
	}
	if p.Summary != nil && !strings.Contains(r.Summary, *p.Summary) {
		return false
	}
	if p.Weather != nil && !ptrContains(r.Weather, *p.Weather) {
		return false
	}
	if p.MaintelSummary != nil && !ptrContains(r.MaintelSummary, *p.MaintelSummary) {
		return false
	}
	if p.AuxtelSummary != nil && !ptrContains(r.AuxtelSummary, *p.AuxtelSummary) {
		return false
	}
	if p.MinDayObs != nil && r.DayObs < *p.MinDayObs {
		return false
	}
	if p.MaxDayObs != nil && r.DayObs >= *p.MaxDayObs {
		return false
	}
	if p.MinDateAdded != nil && r.DateAdded.Before(*p.MinDateAdded) {
		return false
	}
	if p.MaxDateAdded != nil && !r.DateAdded.Before(*p.MaxDateAdded) {
		return false
	}
	if p.MinDateSent != nil && (r.DateSent == nil || r.DateSent.Before(*p.MinDateSent)) {
		return false
	}
	if p.MaxDateSent != nil && (r.DateSent == nil || !r.DateSent.Before(*p.MaxDateSent)) {
		return false
	}
	switch p.IsValid {
	case TriStateTrue:
		if !r.IsValid {
			return false
		}
	case TriStateFalse:
		if r.IsValid {
			return false
		}
	}
	if p.HasParentID != nil && *p.HasParentID != (r.ParentID != nil) {
		return false
	}
	return true
}

func containsString(haystack []string, needle string) bool {
	for _, s := range haystack {
		if s == needle {
			return true
		}
	}
	return false
}

func ptrContains(value *string, substring string) bool {
	return value != nil && strings.Contains(*value, substring)
}

// compareField orders two reports by one field; nil values sort after
// non-nil values on ascending sorts, as in Postgres.
func compareField(a, b report.Report, field string) int {
	switch field {
	case "id":
		return strings.Compare(a.ID.String(), b.ID.String())
	case "site_id":
		return strings.Compare(a.SiteID, b.SiteID)
	case "telescope":
		return comparePtrString(telescopeString(a.Telescope), telescopeString(b.Telescope))
	case "day_obs":
		return compareInt(a.DayObs, b.DayObs)
	case "summary":
		return strings.Compare(a.Summary, b.Summary)
	case "telescope_status":
		return comparePtrString(a.TelescopeStatus, b.TelescopeStatus)
	case "weather":
		return comparePtrString(a.Weather, b.Weather)
	case "maintel_summary":
		return comparePtrString(a.MaintelSummary, b.MaintelSummary)
	case "auxtel_summary":
		return comparePtrString(a.AuxtelSummary, b.AuxtelSummary)
	case "confluence_url":
		return strings.Compare(a.ConfluenceURL, b.ConfluenceURL)
	case "user_id":
		return strings.Compare(a.UserID, b.UserID)
	case "user_agent":
		return strings.Compare(a.UserAgent, b.UserAgent)
	case "observers_crew":
		return strings.Compare(strings.Join(a.ObserversCrew, ","), strings.Join(b.ObserversCrew, ","))
	case "date_added":
		return compareTime(&a.DateAdded, &b.DateAdded)
	case "date_sent":
		return compareTime(a.DateSent, b.DateSent)
	case "is_valid":
		return compareBool(a.IsValid, b.IsValid)
	case "date_invalidated":
		return compareTime(a.DateInvalidated, b.DateInvalidated)
	case "parent_id":
		return comparePtrString(uuidString(a.ParentID), uuidString(b.ParentID))
	}
	return 0
}

func telescopeString(t *report.Telescope) *string {
	if t == nil {
		return nil
	}
	s := string(*t)
	return &s
}

func uuidString(id *uuid.UUID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}

func comparePtrString(a, b *string) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	default:
		return strings.Compare(*a, *b)
	}
}

func compareInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func compareBool(a, b bool) int {
	switch {
	case a == b:
		return 0
	case !a:
		return -1
	default:
		return 1
	}
}

func compareTime(a, b *report.Time) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	case a.Before(*b):
		return -1
	case b.Before(*a):
		return 1
	default:
		return 0
	}
}
