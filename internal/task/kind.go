package task

import (
	"fmt"
	"strconv"
)

// Kind identifies one of the value kinds the generic layer understands.
// Fields and constructor parameters of any other kind are invisible to it.
type Kind int

const (
	Int32 Kind = iota
	Int64
	Float64
	String
)

func (k Kind) String() string {
	switch k {
	case Int32:
		return "int32"
	case Int64:
		return "int64"
	case Float64:
		return "float64"
	case String:
		return "string"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// ParseValue converts a literal string into a value of the requested kind.
// It is pure and shared by construction and mutation. Malformed numerals
// fail with a ParseError; a kind outside the closed set fails with an
// UnsupportedKindError.
func ParseValue(s string, k Kind) (any, error) {
	switch k {
	case Int32:
		n, err := strconv.ParseInt(s, 10, 32)
		if err != nil {
			return nil, &ParseError{Literal: s, Kind: k, Err: err}
		}
		return int32(n), nil
	case Int64:
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil, &ParseError{Literal: s, Kind: k, Err: err}
		}
		return n, nil
	case Float64:
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, &ParseError{Literal: s, Kind: k, Err: err}
		}
		return f, nil
	case String:
		return s, nil
	default:
		return nil, &UnsupportedKindError{Kind: k}
	}
}
