package mapcode

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	refPattern        = regexp.MustCompile(`^(tiles|pattern)\s*=\s*("(?:[^"\\]|\\.)*"|'(?:[^'\\]|\\.)*')$`)
	colorPattern      = regexp.MustCompile(`^(light|dark)\s*=\s*\{\s*([0-9.]+)\s*,\s*([0-9.]+)\s*,\s*([0-9.]+)\s*,?\s*\}$`)
	functionPattern   = regexp.MustCompile(`^function\s+([^\s(]+)\s*\(\s*([A-Za-z_][A-Za-z0-9_]*)?\s*\)$`)
	tableOpenPattern  = regexp.MustCompile(`^(?:local\s+)?([A-Za-z_][A-Za-z0-9_]*)\s*=\s*\{`)
	applyTilesPattern = regexp.MustCompile(`^ApplyTiles\s*\(\s*([A-Za-z_][A-Za-z0-9_]*)\s*,\s*0\s*,\s*0\s*,\s*\[\[$`)
	itemPattern       = regexp.MustCompile(`^(Spawn|Global)\s*\((.*)\)$`)
	ifPattern         = regexp.MustCompile(`^if\s+(.+)\s+then$`)
	elseIfPattern     = regexp.MustCompile(`^elseif\s+(.+)\s+then$`)
)

// stripLine removes a trailing -- comment that is not inside a string
// literal and trims surrounding whitespace.
func stripLine(line string) string {
	var quote byte
	escaped := false
	for i := 0; i < len(line); i++ {
		ch := line[i]
		if quote != 0 {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == quote:
				quote = 0
			}
			continue
		}
		switch ch {
		case '"', '\'':
			quote = ch
		case '-':
			if i+1 < len(line) && line[i+1] == '-' {
				return strings.TrimSpace(line[:i])
			}
		}
	}
	return strings.TrimSpace(line)
}

type refLine struct {
	name  string
	value string
}

func matchRef(line string) (refLine, bool) {
	m := refPattern.FindStringSubmatch(line)
	if m == nil {
		return refLine{}, false
	}
	value, ok := unquote(m[2])
	if !ok {
		return refLine{}, false
	}
	return refLine{name: m[1], value: value}, true
}

type colorLine struct {
	name  string
	color Color
}

func matchColor(line string) (colorLine, bool) {
	m := colorPattern.FindStringSubmatch(line)
	if m == nil {
		return colorLine{}, false
	}
	return colorLine{name: m[1], color: Color{R: m[2], G: m[3], B: m[4]}}, true
}

type functionLine struct {
	name     string
	wetParam string
}

// matchFunction recognises a room definition. Field and method functions
// (a.b, a:b) are not rooms and never match.
func matchFunction(line string) (functionLine, bool) {
	m := functionPattern.FindStringSubmatch(line)
	if m == nil || strings.ContainsAny(m[1], ".:") {
		return functionLine{}, false
	}
	return functionLine{name: m[1], wetParam: m[2]}, true
}

func matchTableOpen(line string) (string, bool) {
	m := tableOpenPattern.FindStringSubmatch(line)
	if m == nil {
		return "", false
	}
	return m[1], true
}

func matchApplyTiles(line string) (string, bool) {
	m := applyTilesPattern.FindStringSubmatch(line)
	if m == nil {
		return "", false
	}
	return m[1], true
}

type itemLine struct {
	global bool
	args   []argument
}

func matchItem(line string) (itemLine, bool) {
	m := itemPattern.FindStringSubmatch(line)
	if m == nil {
		return itemLine{}, false
	}
	args, ok := splitArguments(m[2])
	if !ok {
		return itemLine{}, false
	}
	return itemLine{global: m[1] == "Global", args: args}, true
}

func matchIf(line string) (string, bool) {
	m := ifPattern.FindStringSubmatch(line)
	if m == nil {
		return "", false
	}
	return strings.TrimSpace(m[1]), true
}

func matchElseIf(line string) bool {
	return elseIfPattern.MatchString(line)
}

// blockOpeners counts the blocks a statement leaves open: function, do,
// if and repeat open one, end and until close one. Words inside string
// literals are ignored, so a block opened and closed on the same line
// counts zero.
func blockOpeners(line string) int {
	depth := 0
	var quote byte
	escaped := false
	start := -1
	word := func(end int) {
		if start < 0 {
			return
		}
		switch line[start:end] {
		case "function", "do", "if", "repeat":
			depth++
		case "end", "until":
			depth--
		}
		start = -1
	}
	for i := 0; i < len(line); i++ {
		ch := line[i]
		if quote != 0 {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == quote:
				quote = 0
			}
			continue
		}
		if isWordByte(ch) {
			if start < 0 {
				start = i
			}
			continue
		}
		word(i)
		if ch == '"' || ch == '\'' {
			quote = ch
		}
	}
	word(len(line))
	return depth
}

func isWordByte(ch byte) bool {
	return ch == '_' || ch >= 'a' && ch <= 'z' || ch >= 'A' && ch <= 'Z' || ch >= '0' && ch <= '9'
}

type argument struct {
	text   string
	quoted bool
}

// splitArguments splits a call argument list on top-level commas. Quoted
// arguments are unescaped.
func splitArguments(s string) ([]argument, bool) {
	var args []argument
	var current strings.Builder
	var quote byte
	escaped := false
	wasQuoted := false
	depth := 0

	flush := func() bool {
		text := strings.TrimSpace(current.String())
		current.Reset()
		if wasQuoted {
			value, ok := unquote(text)
			if !ok {
				return false
			}
			args = append(args, argument{text: value, quoted: true})
		} else {
			args = append(args, argument{text: text})
		}
		wasQuoted = false
		return true
	}

	for i := 0; i < len(s); i++ {
		ch := s[i]
		if quote != 0 {
			current.WriteByte(ch)
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == quote:
				quote = 0
			}
			continue
		}
		switch ch {
		case '"', '\'':
			if strings.TrimSpace(current.String()) == "" {
				wasQuoted = true
			}
			quote = ch
			current.WriteByte(ch)
		case '(', '{', '[':
			depth++
			current.WriteByte(ch)
		case ')', '}', ']':
			depth--
			current.WriteByte(ch)
		case ',':
			if depth > 0 {
				current.WriteByte(ch)
				continue
			}
			if !flush() {
				return nil, false
			}
		default:
			current.WriteByte(ch)
		}
	}
	if quote != 0 || depth != 0 {
		return nil, false
	}
	if strings.TrimSpace(current.String()) != "" || len(args) > 0 {
		if !flush() {
			return nil, false
		}
	}
	return args, true
}

// unquote strips matching quotes and resolves backslash escapes.
func unquote(s string) (string, bool) {
	if len(s) < 2 {
		return "", false
	}
	q := s[0]
	if (q != '"' && q != '\'') || s[len(s)-1] != q {
		return "", false
	}
	body := s[1 : len(s)-1]
	if !strings.Contains(body, `\`) {
		if strings.IndexByte(body, q) >= 0 {
			return "", false
		}
		return body, true
	}

	var b strings.Builder
	escaped := false
	for i := 0; i < len(body); i++ {
		ch := body[i]
		if escaped {
			switch ch {
			case 'n':
				b.WriteByte('\n')
			case 'r':
				b.WriteByte('\r')
			case 't':
				b.WriteByte('\t')
			default:
				b.WriteByte(ch)
			}
			escaped = false
			continue
		}
		if ch == '\\' {
			escaped = true
			continue
		}
		if ch == q {
			return "", false
		}
		b.WriteByte(ch)
	}
	if escaped {
		return "", false
	}
	return b.String(), true
}

// parseTableEntries reads the body of a tileset table, entries of the form
// C = "label" or ["C"] = "label". Malformed entries are skipped.
func parseTableEntries(body string) map[rune]string {
	table := make(map[rune]string)
	args, ok := splitArguments(body)
	if !ok {
		return table
	}
	for _, arg := range args {
		key, value, found := cutAssignment(arg.text)
		if !found {
			continue
		}
		key = strings.TrimSpace(key)
		label, ok := unquote(strings.TrimSpace(value))
		if !ok {
			continue
		}

		if strings.HasPrefix(key, "[") && strings.HasSuffix(key, "]") {
			inner, ok := unquote(strings.TrimSpace(key[1 : len(key)-1]))
			if !ok {
				continue
			}
			key = inner
		}
		if utf8.RuneCountInString(key) != 1 {
			continue
		}
		ch, _ := utf8.DecodeRuneInString(key)
		table[ch] = label
	}
	return table
}

// cutAssignment splits s around the first = that is not inside a string.
func cutAssignment(s string) (string, string, bool) {
	var quote byte
	escaped := false
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if quote != 0 {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == quote:
				quote = 0
			}
			continue
		}
		switch ch {
		case '"', '\'':
			quote = ch
		case '=':
			return s[:i], s[i+1:], true
		}
	}
	return s, "", false
}
