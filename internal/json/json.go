// Package json contains helpers for decoding request bodies.
package json

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// DecodeJSON decodes exactly one JSON object into dst. Anything left in
// the stream after that object is an error.
func DecodeJSON(dst any, decoder *json.Decoder) error {
	if err := decoder.Decode(dst); err != nil {
		return fmt.Errorf("decoding body: %w", err)
	}

	if _, err := decoder.Token(); !errors.Is(err, io.EOF) {
		return fmt.Errorf("trailing data after JSON object: %w", err)
	}
	return nil
}
