package status

import (
	"fmt"
	"strings"
	"time"
)

// timeFormat matches the microsecond ISO-8601 timestamps of the status
// document.
const timeFormat = "2006-01-02T15:04:05.000000"

// Time is an ISO-8601 timestamp with microsecond precision.
type Time struct {
	time.Time
}

func NewTime(t time.Time) Time {
	return Time{Time: t}
}

func (t Time) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf("%q", t.Format(timeFormat))), nil
}

func (t *Time) UnmarshalJSON(data []byte) error {
	value := strings.Trim(string(data), `"`)
	if value == "null" || value == "" {
		*t = Time{}
		return nil
	}
	parsed, err := time.Parse(timeFormat, value)
	if err != nil {
		// Fractional seconds are optional in ISO-8601.
		parsed, err = time.Parse("2006-01-02T15:04:05", value)
	}
	if err != nil {
		return fmt.Errorf("invalid timestamp %q", value)
	}
	*t = Time{Time: parsed}
	return nil
}
