package submission

import (
	"bytes"
	"encoding/json"
	"errors"

	"github.com/Lixing-Zhang/tracksuit-store/backend/internal/sanitize"
)

var errNotObject = errors.New("request body is not a JSON object")

// Payload is a parsed JSON object body. Field accessors apply the sanitizer
// so pipeline steps never see raw strings by accident.
type Payload struct {
	fields map[string]any
	raw    []byte
}

func parsePayload(body []byte) (Payload, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var fields map[string]any
	if err := dec.Decode(&fields); err != nil {
		return Payload{}, err
	}
	if fields == nil {
		return Payload{}, errNotObject
	}
	return Payload{fields: fields, raw: body}, nil
}

// String returns the sanitized string value of field
func (p Payload) String(field string) string {
	return sanitize.String(p.fields[field])
}

// Number reads field as a number, see sanitize.Number
func (p Payload) Number(field string) (float64, sanitize.NumberState) {
	return sanitize.Number(p.fields[field])
}

// Has reports whether field was sent at all
func (p Payload) Has(field string) bool {
	_, ok := p.fields[field]
	return ok
}

// Decode unmarshals the original body into v, for structured fields such as
// cart lines.
func (p Payload) Decode(v any) error {
	return json.Unmarshal(p.raw, v)
}
