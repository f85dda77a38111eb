package tiledef

import (
	"unicode"
)

type assignment struct {
	Name string
	Expr string
}

// scanTables finds assignments of a table constructor to a bare name at
// the start of a line. Anything else in the resource is skipped.
func scanTables(input string) []assignment {
	assignments := make([]assignment, 0, 64)
	length := len(input)
	lineStart := true

	for i := 0; i < length; {
		ch := input[i]

		if ch == '\n' {
			lineStart = true
			i++
			continue
		}
		if unicode.IsSpace(rune(ch)) {
			i++
			continue
		}
		if ch == '-' && i+1 < length && input[i+1] == '-' {
			i = skipLine(input, i)
			continue
		}
		if ch == '"' || ch == '\'' {
			i = skipString(input, i)
			lineStart = false
			continue
		}

		if !lineStart || !isIdentifierStart(ch) {
			lineStart = false
			i++
			continue
		}
		lineStart = false

		start := i
		i++
		for i < length && isIdentifierPart(input[i]) {
			i++
		}
		name := input[start:i]

		j := i
		for j < length && unicode.IsSpace(rune(input[j])) && input[j] != '\n' {
			j++
		}
		if j >= length || input[j] != '=' {
			continue
		}

		// ensure we are not looking at '=='
		if j+1 < length && input[j+1] == '=' {
			i = j + 2
			continue
		}

		j++
		for j < length && unicode.IsSpace(rune(input[j])) {
			j++
		}
		if j >= length || input[j] != '{' {
			i = j
			continue
		}

		expr, nextPos, ok := readTable(input, j)
		if ok {
			assignments = append(assignments, assignment{
				Name: name,
				Expr: expr,
			})
		}
		i = nextPos
	}

	return assignments
}

// readTable reads a brace-balanced table constructor starting at the
// opening brace and returns its body without the outer braces.
func readTable(input string, start int) (string, int, bool) {
	length := len(input)
	depth := 0
	inString := false
	var quote byte
	escaped := false

	for i := start; i < length; i++ {
		ch := input[i]

		if inString {
			if escaped {
				escaped = false
			} else if ch == '\\' {
				escaped = true
			} else if ch == quote {
				inString = false
			} else if ch == '\n' {
				return "", i, false
			}
			continue
		}

		switch ch {
		case '-':
			if i+1 < length && input[i+1] == '-' {
				i = skipLine(input, i) - 1
			}
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return input[start+1 : i], i + 1, true
			}
		case '\'', '"':
			inString = true
			quote = ch
		}
	}
	return "", length, false
}

// splitFields splits a table body on top-level commas and semicolons.
// Comments are dropped.
func splitFields(body string) []string {
	var fields []string
	depth := 0
	inString := false
	var quote byte
	escaped := false
	start := 0

	for i := 0; i < len(body); i++ {
		ch := body[i]

		if inString {
			if escaped {
				escaped = false
			} else if ch == '\\' {
				escaped = true
			} else if ch == quote {
				inString = false
			}
			continue
		}

		switch ch {
		case '-':
			if i+1 < len(body) && body[i+1] == '-' {
				end := skipLine(body, i)
				body = body[:i] + body[end:]
				i--
			}
		case '{', '(', '[':
			depth++
		case '}', ')', ']':
			if depth > 0 {
				depth--
			}
		case '\'', '"':
			inString = true
			quote = ch
		case ',', ';':
			if depth == 0 {
				fields = append(fields, trimWhitespace(body[start:i]))
				start = i + 1
			}
		}
	}
	if rest := trimWhitespace(body[start:]); rest != "" {
		fields = append(fields, rest)
	}
	return fields
}

func skipLine(input string, pos int) int {
	for pos < len(input) && input[pos] != '\n' {
		pos++
	}
	return pos
}

func skipString(input string, pos int) int {
	quote := input[pos]
	escaped := false
	for pos++; pos < len(input); pos++ {
		ch := input[pos]
		switch {
		case escaped:
			escaped = false
		case ch == '\\':
			escaped = true
		case ch == quote || ch == '\n':
			return pos + 1
		}
	}
	return pos
}

func trimWhitespace(s string) string {
	start := 0
	for start < len(s) && unicode.IsSpace(rune(s[start])) {
		start++
	}
	end := len(s)
	for end > start && unicode.IsSpace(rune(s[end-1])) {
		end--
	}
	return s[start:end]
}

func isIdentifierStart(b byte) bool {
	return b == '_' || (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z')
}

func isIdentifierPart(b byte) bool {
	return isIdentifierStart(b) || (b >= '0' && b <= '9')
}
