package main

import "encoding/json"

// toJSON serializes v, indenting when pretty is set.
func toJSON(v any, pretty bool) ([]byte, error) {
	if pretty {
		return json.MarshalIndent(v, "", "  ")
	}
	return json.Marshal(v)
}
