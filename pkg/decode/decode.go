// Package decode parses engine stdout into the typed result a façade
// expects.
package decode

import (
	"fmt"
	"strings"

	"github.com/perimeterx/marshmallow"
	"github.com/tidwall/gjson"
)

// DecodeError reports engine output that could not be parsed into the
// expected schema. Raw carries the output verbatim for diagnosis.
type DecodeError struct {
	Raw    string
	Reason string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("undecodable engine output (%s): %s", e.Reason, strings.TrimSpace(e.Raw))
}

// JSON parses raw into dst. Each field listed in required must be present
// in the payload. Unknown fields the engine emits alongside the schema are
// tolerated and dropped, but a schema field of the wrong type is a decode
// failure. Field values are not range checked, the engines own their own
// semantics and structurally valid values pass through unchanged.
func JSON(raw string, dst any, required ...string) error {
	trimmed := strings.TrimSpace(raw)
	if !gjson.Valid(trimmed) {
		return &DecodeError{Raw: raw, Reason: "not valid JSON"}
	}

	for _, field := range required {
		if !gjson.Get(trimmed, field).Exists() {
			return &DecodeError{Raw: raw, Reason: "missing field " + field}
		}
	}

	if _, err := marshmallow.Unmarshal([]byte(trimmed), dst); err != nil {
		return &DecodeError{Raw: raw, Reason: err.Error()}
	}

	return nil
}
