package task

import (
	"errors"
	"testing"
)

func TestParseValue(t *testing.T) {
	tests := []struct {
		name    string
		literal string
		kind    Kind
		want    any
		wantErr bool
	}{
		{"int32", "42", Int32, int32(42), false},
		{"int32 negative", "-7", Int32, int32(-7), false},
		{"int32 overflow", "3000000000", Int32, nil, true},
		{"int32 malformed", "4.2", Int32, nil, true},
		{"int64", "9000000000", Int64, int64(9000000000), false},
		{"int64 malformed", "x", Int64, nil, true},
		{"float64", "2.5", Float64, 2.5, false},
		{"float64 integer literal", "3", Float64, 3.0, false},
		{"float64 malformed", "two", Float64, nil, true},
		{"string", "hello world", String, "hello world", false},
		{"string numeric stays string", "42", String, "42", false},
		{"empty string", "", String, "", false},
		{"empty int", "", Int32, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseValue(tt.literal, tt.kind)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseValue(%q, %s) error = %v, wantErr %v", tt.literal, tt.kind, err, tt.wantErr)
			}
			if tt.wantErr {
				var perr *ParseError
				if !errors.As(err, &perr) {
					t.Errorf("ParseValue(%q, %s) error type = %T, want *ParseError", tt.literal, tt.kind, err)
				}
				return
			}
			if got != tt.want {
				t.Errorf("ParseValue(%q, %s) = %v (%T), want %v (%T)", tt.literal, tt.kind, got, got, tt.want, tt.want)
			}
		})
	}
}

func TestParseValueUnsupportedKind(t *testing.T) {
	_, err := ParseValue("x", Kind(99))
	var uerr *UnsupportedKindError
	if !errors.As(err, &uerr) {
		t.Fatalf("ParseValue with bad kind error = %v, want *UnsupportedKindError", err)
	}
}

func TestKindString(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{Int32, "int32"},
		{Int64, "int64"},
		{Float64, "float64"},
		{String, "string"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("Kind(%d).String() = %q, want %q", int(tt.kind), got, tt.want)
		}
	}
}
