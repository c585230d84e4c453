package jsonutil

import (
	"encoding/json"
	"strconv"
	"strings"
)

// String is a JSON string field as submitted. Set is false for absent or null
// fields; Valid is true only when the field decoded as a string.
type String struct {
	Set   bool
	Valid bool
	Value string
}

// Int is a JSON integer field as submitted. Numeric strings ("1234") decode
// as valid integers because API clients have always sent both forms.
type Int struct {
	Set   bool
	Valid bool
	Value int
}

// StringValue converts a json.RawMessage into a String.
func StringValue(raw json.RawMessage) String {
	if len(raw) == 0 || string(raw) == "null" {
		return String{}
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return String{Set: true, Valid: true, Value: s}
	}

	return String{Set: true}
}

// IntValue converts a json.RawMessage into an Int, accepting JSON numbers
// and numeric strings. Fractional numbers are rejected.
func IntValue(raw json.RawMessage) Int {
	if len(raw) == 0 || string(raw) == "null" {
		return Int{}
	}

	var n int
	if err := json.Unmarshal(raw, &n); err == nil {
		return Int{Set: true, Valid: true, Value: n}
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if n, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
			return Int{Set: true, Valid: true, Value: n}
		}
	}

	return Int{Set: true}
}
