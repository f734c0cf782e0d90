package model

import (
	"fmt"
	"strings"
	"time"
)

// DateTimeLayout is the wire format of timestamps: a local date-time
// without zone, interpreted as UTC.
const DateTimeLayout = "2006-01-02T15:04:05"

var dateTimeInputs = []string{
	time.RFC3339Nano,
	DateTimeLayout,
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	DateLayout,
}

// DateTime is a timestamp exchanged with clients in DateTimeLayout. It
// also accepts RFC 3339 input, converted to UTC.
type DateTime struct {
	time.Time
}

// NewDateTime wraps t in UTC.
func NewDateTime(t time.Time) DateTime { return DateTime{t.UTC()} }

// ParseDateTime accepts the layouts listed in dateTimeInputs.
func ParseDateTime(s string) (DateTime, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateTimeInputs {
		if t, err := time.Parse(layout, s); err == nil {
			return DateTime{t.UTC()}, nil
		}
	}
	return DateTime{}, fmt.Errorf("invalid date-time %q", s)
}

// Ptr returns nil for the zero value, otherwise the wrapped time.
func (d *DateTime) Ptr() *time.Time {
	if d == nil || d.IsZero() {
		return nil
	}
	t := d.Time
	return &t
}

func (d DateTime) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + d.UTC().Format(DateTimeLayout) + `"`), nil
}

func (d *DateTime) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		*d = DateTime{}
		return nil
	}
	parsed, err := ParseDateTime(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
