package types

import "fmt"

// CustomError is the error shape carried from services and middleware up to
// the HTTP boundary. Field is set for validation errors only.
type CustomError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Type    string `json:"type"`
	Field   string `json:"field,omitempty"`
}

func (e *CustomError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%d: %s [type: %s, field: %s]", e.Code, e.Message, e.Type, e.Field)
	}
	return fmt.Sprintf("%d: %s [type: %s]", e.Code, e.Message, e.Type)
}
