package models

import (
	"bytes"
	"encoding/json"
)

// FlexID is an identifier the backend serializes inconsistently: sometimes
// a JSON string, sometimes a number, sometimes null. It always marshals
// back out as a string; the zero value means the id was absent.
type FlexID string

func (f FlexID) Empty() bool    { return f == "" }
func (f FlexID) String() string { return string(f) }

func (f *FlexID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*f = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = FlexID(n.String())
	return nil
}

// flexInt tolerates numeric fields that arrive as strings ("3" vs 3).
type flexInt int

func (f *flexInt) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*f = 0
		return nil
	}
	if data[0] == '"' {
		data = bytes.Trim(data, `"`)
		if len(data) == 0 {
			*f = 0
			return nil
		}
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		*f = 0
		return nil
	}
	v, err := n.Int64()
	if err != nil {
		// Difficulty sometimes arrives as "2.0".
		fl, ferr := n.Float64()
		if ferr != nil {
			*f = 0
			return nil
		}
		v = int64(fl)
	}
	*f = flexInt(v)
	return nil
}

// AsList coerces a field that may be a single object, an array, or absent
// into a slice of raw elements. Missing or undecodable input yields nil so
// the page stays renderable.
func AsList(raw json.RawMessage) []json.RawMessage {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	if raw[0] == '[' {
		var items []json.RawMessage
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil
		}
		return items
	}
	return []json.RawMessage{raw}
}
