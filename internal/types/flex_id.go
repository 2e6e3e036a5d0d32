package types

import (
	"encoding/json"
	"fmt"
)

// FlexID is an opaque identifier that can be unmarshaled from either a JSON
// string or a JSON number. Older clients send numeric user ids.
type FlexID string

// UnmarshalJSON implements the json.Unmarshaler interface.
func (f *FlexID) UnmarshalJSON(data []byte) error {
	if len(data) == 0 || string(data) == "null" {
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = FlexID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		*f = FlexID(n.String())
		return nil
	}

	return fmt.Errorf("FlexID: unexpected type, expected string or number")
}

// MarshalJSON implements the json.Marshaler interface.
func (f FlexID) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(f))
}

// String converts FlexID back to string.
func (f FlexID) String() string {
	return string(f)
}
