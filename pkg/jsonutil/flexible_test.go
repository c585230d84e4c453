package jsonutil

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStringValue(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want String
	}{
		{"absent", "", String{}},
		{"null", "null", String{}},
		{"string", `"Pest"`, String{Set: true, Valid: true, Value: "Pest"}},
		{"empty string", `""`, String{Set: true, Valid: true, Value: ""}},
		{"number", `42`, String{Set: true}},
		{"object", `{"a":1}`, String{Set: true}},
		{"array", `[1,2]`, String{Set: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StringValue(json.RawMessage(tt.raw)))
		})
	}
}

func TestIntValue(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want Int
	}{
		{"absent", "", Int{}},
		{"null", "null", Int{}},
		{"number", `2740`, Int{Set: true, Valid: true, Value: 2740}},
		{"zero", `0`, Int{Set: true, Valid: true, Value: 0}},
		{"negative", `-1`, Int{Set: true, Valid: true, Value: -1}},
		{"numeric string", `"2740"`, Int{Set: true, Valid: true, Value: 2740}},
		{"padded numeric string", `" 2740 "`, Int{Set: true, Valid: true, Value: 2740}},
		{"fractional", `27.4`, Int{Set: true}},
		{"non-numeric string", `"abc"`, Int{Set: true}},
		{"bool", `true`, Int{Set: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IntValue(json.RawMessage(tt.raw)))
		})
	}
}
