package importer

import (
	"encoding/json"
	"fmt"
	"io"
)

// DecodeJSON reads a JSON document into the generic document shape.
// Numbers are kept as json.Number so large volumes and marketcaps do
// not lose precision through float64.
//
// JSON payloads usually put the sections at the top level
// ({"events": [...], "currencies": [...]}), but a single-key wrapper
// object ({"EventsList": {...}}) is unwrapped the way an XML root
// element would be, so both encodings classify identically.
func DecodeJSON(r io.Reader) (Document, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var body map[string]any
	if err := dec.Decode(&body); err != nil {
		return Document{}, fmt.Errorf("decode json document: %w", err)
	}

	if len(body) == 1 {
		for key, value := range body {
			if inner, ok := value.(map[string]any); ok {
				return Document{Root: key, Body: inner}, nil
			}
		}
	}
	return Document{Body: body}, nil
}
