package jsonutil

import (
	"bytes"
	"encoding/json"
)

// MarshalNoEscape encodes v without HTML escaping and without the trailing
// newline json.Encoder adds. Map keys come out sorted, so equal values always
// produce equal bytes.
func MarshalNoEscape(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
