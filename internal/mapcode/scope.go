package mapcode

import (
	"regexp"
	"strings"
)

type frameKind int

const (
	frameIf frameKind = iota
	frameElse
	frameOpaque
)

type frame struct {
	kind frameKind
	cond string
}

// opaqueCondition marks a frame whose branch condition is not tracked.
const opaqueCondition = "#"

// wetness resolves the scope of statements inside a room body from the
// enclosing conditionals on the room's wet parameter.
type wetness struct {
	param    string
	positive *regexp.Regexp
	negative *regexp.Regexp
	stack    []frame
}

func newWetness(param string) *wetness {
	w := &wetness{param: param}
	if param == "" {
		return w
	}
	p := regexp.QuoteMeta(param)
	w.positive = regexp.MustCompile(`^(?:` + p + `|true\s*==\s*` + p + `|` + p + `\s*==\s*true|` + p + `\s*~=\s*false|false\s*~=\s*` + p + `)$`)
	w.negative = regexp.MustCompile(`^(?:not\s+` + p + `|!\s*` + p + `|false\s*==\s*` + p + `|` + p + `\s*==\s*false|` + p + `\s*~=\s*true|true\s*~=\s*` + p + `)$`)
	return w
}

func (w *wetness) pushIf(cond string) {
	w.stack = append(w.stack, frame{kind: frameIf, cond: strings.TrimSpace(cond)})
}

func (w *wetness) pushOpaque() {
	w.stack = append(w.stack, frame{kind: frameOpaque, cond: opaqueCondition})
}

func (w *wetness) pop() (frame, bool) {
	if len(w.stack) == 0 {
		return frame{}, false
	}
	f := w.stack[len(w.stack)-1]
	w.stack = w.stack[:len(w.stack)-1]
	return f, true
}

// elseBranch replaces the innermost frame by the else branch of the same
// condition.
func (w *wetness) elseBranch() {
	f, ok := w.pop()
	if !ok || f.kind == frameOpaque {
		w.pushOpaque()
		return
	}
	w.stack = append(w.stack, frame{kind: frameElse, cond: f.cond})
}

// elseIf drops the current branch; the remaining alternatives are not
// tracked.
func (w *wetness) elseIf() {
	w.pop()
	w.pushOpaque()
}

func (w *wetness) depth() int {
	return len(w.stack)
}

// scope scans from the innermost frame outwards and returns the first
// decisive one, defaulting to ScopeAll. An untracked frame ends the scan:
// a loop body or elseif branch is never narrowed by conditions around it.
func (w *wetness) scope() Scope {
	if w.positive == nil {
		return ScopeAll
	}
	for i := len(w.stack) - 1; i >= 0; i-- {
		f := w.stack[i]
		if f.kind == frameOpaque {
			return ScopeAll
		}
		positive := w.positive.MatchString(f.cond)
		negative := !positive && w.negative.MatchString(f.cond)
		if !positive && !negative {
			continue
		}
		if (f.kind == frameIf) == positive {
			return ScopeWet
		}
		return ScopeDry
	}
	return ScopeAll
}
