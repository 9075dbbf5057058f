package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"
)

// TAIOffset is the current TAI-UTC offset. TAI has no leap seconds, so
// the offset only changes when a leap second is announced (last one:
// 2017-01-01).
const TAIOffset = 37 * time.Second

// Timestamps are naive TAI datetimes serialized without a zone suffix,
// e.g. "2024-03-02T09:27:12.408000".
const (
	timeLayout       = "2006-01-02T15:04:05.999999"
	timeLayoutNoFrac = "2006-01-02T15:04:05"
	timeEncodeLayout = "2006-01-02T15:04:05.000000"
)

// Time is a naive TAI timestamp. It wraps time.Time so comparisons and
// arithmetic stay available, but marshals without a zone designator.
type Time struct {
	time.Time
}

// NewTime wraps a time.Time, dropping any monotonic clock reading.
func NewTime(t time.Time) Time {
	return Time{t.Round(0)}
}

// TAINow returns the current time on the TAI scale.
func TAINow(clock clockwork.Clock) Time {
	return NewTime(clock.Now().UTC().Add(TAIOffset))
}

// ParseTime parses an ISO 8601 timestamp, with or without fractional
// seconds. A trailing "Z" is tolerated and ignored.
func ParseTime(value string) (Time, error) {
	trimmed := strings.TrimSuffix(value, "Z")
	for _, layout := range []string{timeLayout, timeLayoutNoFrac} {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return NewTime(t), nil
		}
	}
	return Time{}, fmt.Errorf("invalid timestamp %q", value)
}

// MarshalJSON renders the timestamp with microsecond precision and no
// zone designator.
func (t Time) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.Format(timeEncodeLayout) + `"`), nil
}

// UnmarshalJSON parses a quoted ISO 8601 timestamp.
func (t *Time) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	parsed, err := ParseTime(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Before reports whether t is before other.
func (t Time) Before(other Time) bool {
	return t.Time.Before(other.Time)
}

// Equal reports whether t and other represent the same instant.
func (t Time) Equal(other Time) bool {
	return t.Time.Equal(other.Time)
}
