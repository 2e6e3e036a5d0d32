package types

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// FlexTime is a timestamp that can be unmarshaled from an RFC 3339 JSON
// string, a JSON number of epoch milliseconds, or a numeric string.
type FlexTime time.Time

// UnmarshalJSON implements the json.Unmarshaler interface.
func (f *FlexTime) UnmarshalJSON(data []byte) error {
	if len(data) == 0 || string(data) == "null" {
		return nil
	}

	// Try unmarshaling as a number (epoch milliseconds) first
	var ms int64
	if err := json.Unmarshal(data, &ms); err == nil {
		*f = FlexTime(time.UnixMilli(ms).UTC())
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("FlexTime: unexpected type, expected string or number")
	}

	if t, err := time.Parse(time.RFC3339, s); err == nil {
		*f = FlexTime(t)
		return nil
	}

	// Numeric strings are epoch milliseconds too
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		*f = FlexTime(time.UnixMilli(ms).UTC())
		return nil
	}

	return fmt.Errorf("FlexTime: invalid timestamp %q", s)
}

// MarshalJSON implements the json.Marshaler interface.
func (f FlexTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Time(f).Format(time.RFC3339))
}

// Time converts FlexTime back to time.Time.
func (f FlexTime) Time() time.Time {
	return time.Time(f)
}

// IsZero reports whether the timestamp was never set.
func (f FlexTime) IsZero() bool {
	return time.Time(f).IsZero()
}
