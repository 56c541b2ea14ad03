// Package canonjson implements the structural-equality rule the replay
// engine uses to decide whether a re-executed tool observation matches
// the one recorded at capture time: object keys sorted, no insignificant
// whitespace, numeric representation preserved exactly (1.0 is not
// folded into 1). encoding/json's own decision to sort map keys when
// marshaling a map[string]interface{} does the heavy lifting; the only
// custom work here is decoding numbers as json.Number instead of
// float64, so that "1" and "1.0" remain distinguishable all the way
// through a decode/re-encode round trip.
package canonjson

import (
	"bytes"
	"encoding/json"
)

// Equal reports whether a and b, each a raw JSON document (or nil for
// "no value"), are structurally equal under the rule above. Two nils
// are equal. A JSON literal null is equal to another JSON literal null.
// Malformed JSON on either side, or a value that cannot be canonicalized,
// is never an error: it simply compares unequal.
func Equal(a, b []byte) bool {
	if a == nil && b == nil {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	ca, okA := Canonicalize(a)
	cb, okB := Canonicalize(b)
	if !okA || !okB {
		return false
	}
	return bytes.Equal(ca, cb)
}

// Canonicalize decodes raw and re-encodes it with sorted object keys,
// no whitespace, and exact numeric representation. ok is false if raw
// is not valid JSON.
func Canonicalize(raw []byte) (canonical []byte, ok bool) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var v interface{}
	if err := dec.Decode(&v); err != nil {
		return nil, false
	}
	// Reject trailing garbage after the first JSON value.
	if dec.More() {
		return nil, false
	}

	out, err := json.Marshal(v)
	if err != nil {
		return nil, false
	}
	return out, true
}

// IsJSONNull reports whether raw is exactly the JSON literal null
// (after trimming insignificant whitespace). Used by the replay engine
// to detect the "both sides are null" boundary case explicitly rather
// than relying on Canonicalize, since a nil []byte means "absent" while
// a literal "null" means "present and null" — Equal treats the two as
// unequal, so callers that need to count an absent value as null use
// this helper.
func IsJSONNull(raw []byte) bool {
	if raw == nil {
		return false
	}
	trimmed := bytes.TrimSpace(raw)
	return string(trimmed) == "null"
}
