// Package repl implements the interactive command loop: a quote-aware line
// tokenizer and a dispatcher that executes commands against the live task
// collection.
package repl

import "strings"

// Tokenize splits a command line into arguments. Double and single quotes
// toggle raw mode, a backslash always escapes the next character, and
// unquoted spaces and tabs separate arguments.
func Tokenize(line string) []string {
	var parts []string
	var buf strings.Builder

	inQuote := false
	escaped := false
	for _, c := range line {
		if escaped {
			buf.WriteRune(c)
			escaped = false
			continue
		}
		if c == '\\' {
			escaped = true
			continue
		}
		if (c == ' ' || c == '\t') && !inQuote {
			if buf.Len() > 0 {
				parts = append(parts, buf.String())
				buf.Reset()
			}
			continue
		}
		if c == '"' || c == '\'' {
			inQuote = !inQuote
			continue
		}
		buf.WriteRune(c)
	}
	if buf.Len() > 0 {
		parts = append(parts, buf.String())
	}
	return parts
}
