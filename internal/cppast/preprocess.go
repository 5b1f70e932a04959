package cppast

import (
	"strconv"
	"strings"

	"github.com/hexaforge/imwrap/internal/logging"
)

// preprocessor prepares a header for parsing. Directive lines and inactive
// conditional regions are blanked rather than removed: every replaced byte
// becomes a space, newlines stay put, so byte offsets and line/column
// positions in the result line up with the original file. Annotation macros
// (IMGUI_API, IM_FMTARGS and friends) are blanked out of active lines,
// including any parenthesized argument list.
type preprocessor struct {
	defined map[string]string
	strip   []string
	stack   []condFrame
}

type condFrame struct {
	parentActive bool
	active       bool
	taken        bool
}

func newPreprocessor(opts Options) *preprocessor {
	p := &preprocessor{defined: make(map[string]string, len(opts.Defines))}
	for _, d := range opts.Defines {
		name, value, _ := strings.Cut(d, "=")
		p.defined[strings.TrimSpace(name)] = strings.TrimSpace(value)
	}
	for _, m := range opts.StripMacros {
		if m = strings.TrimSpace(m); m != "" {
			p.strip = append(p.strip, m)
		}
	}
	return p
}

func (p *preprocessor) active() bool {
	for _, f := range p.stack {
		if !f.active {
			return false
		}
	}
	return true
}

func (p *preprocessor) run(src []byte) []byte {
	out := make([]byte, len(src))
	copy(out, src)

	continuation := false
	lineStart := 0
	for lineStart <= len(src) {
		lineEnd := lineStart
		for lineEnd < len(src) && src[lineEnd] != '\n' {
			lineEnd++
		}
		line := string(src[lineStart:lineEnd])
		trimmed := strings.TrimSpace(strings.TrimSuffix(line, "\r"))

		switch {
		case continuation:
			blank(out, lineStart, lineEnd)
			continuation = strings.HasSuffix(trimmed, "\\")
		case strings.HasPrefix(trimmed, "#"):
			p.directive(trimmed)
			blank(out, lineStart, lineEnd)
			continuation = strings.HasSuffix(trimmed, "\\")
		case !p.active():
			blank(out, lineStart, lineEnd)
		default:
			p.stripAnnotations(out, lineStart, lineEnd)
		}

		lineStart = lineEnd + 1
	}
	return out
}

func blank(buf []byte, start, end int) {
	for i := start; i < end; i++ {
		if buf[i] != '\n' && buf[i] != '\r' {
			buf[i] = ' '
		}
	}
}

func (p *preprocessor) directive(line string) {
	rest := strings.TrimSpace(strings.TrimPrefix(line, "#"))
	word, args, _ := strings.Cut(rest, " ")
	args = strings.TrimSpace(args)
	if i := strings.Index(args, "//"); i >= 0 {
		args = strings.TrimSpace(args[:i])
	}
	args = strings.TrimSpace(strings.TrimSuffix(args, "\\"))

	switch word {
	case "ifdef":
		p.push(p.isDefined(firstWord(args)))
	case "ifndef":
		p.push(!p.isDefined(firstWord(args)))
	case "if":
		p.push(p.evalCondition(args))
	case "elif":
		if len(p.stack) == 0 {
			return
		}
		top := &p.stack[len(p.stack)-1]
		top.active = top.parentActive && !top.taken && p.evalCondition(args)
		if top.active {
			top.taken = true
		}
	case "else":
		if len(p.stack) == 0 {
			return
		}
		top := &p.stack[len(p.stack)-1]
		top.active = top.parentActive && !top.taken
		top.taken = true
	case "endif":
		if len(p.stack) > 0 {
			p.stack = p.stack[:len(p.stack)-1]
		}
	case "define":
		if p.active() {
			p.define(args)
		}
	case "undef":
		if p.active() {
			delete(p.defined, firstWord(args))
		}
	case "include", "pragma", "error", "warning":
		// Blanked along with every other directive line.
	default:
		logging.Named("cppast").Debugw("unrecognized preprocessor directive", "directive", word)
	}
}

func (p *preprocessor) push(cond bool) {
	parent := p.active()
	active := parent && cond
	p.stack = append(p.stack, condFrame{parentActive: parent, active: active, taken: active})
}

func (p *preprocessor) isDefined(name string) bool {
	_, ok := p.defined[name]
	return ok
}

func (p *preprocessor) define(args string) {
	name := firstWord(args)
	if name == "" {
		return
	}
	// Function-like macros are not captured; only their conditional
	// visibility matters and argument expansion is out of scope.
	if strings.HasPrefix(strings.TrimPrefix(args, name), "(") {
		p.defined[name] = ""
		return
	}
	p.defined[name] = strings.TrimSpace(strings.TrimPrefix(args, name))
}

func firstWord(s string) string {
	for i := 0; i < len(s); i++ {
		if !isIdentByte(s[i]) {
			return s[:i]
		}
	}
	return s
}

func isIdentByte(c byte) bool {
	return c == '_' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9'
}

// evalCondition evaluates a #if / #elif expression over the defined-macro
// table. Supported forms are defined(X), defined X, integer literals, macro
// names, !, &&, || and parentheses. Anything beyond that keeps the region
// active so declarations are never lost to an expression we cannot read.
func (p *preprocessor) evalCondition(expr string) bool {
	toks, ok := lexCondition(expr)
	if !ok {
		logging.Named("cppast").Warnw("unsupported conditional expression, keeping region active", "expr", expr)
		return true
	}
	ev := condEval{p: p, toks: toks}
	val, ok := ev.parseOr()
	if !ok || ev.pos != len(ev.toks) {
		logging.Named("cppast").Warnw("unsupported conditional expression, keeping region active", "expr", expr)
		return true
	}
	return val
}

func lexCondition(s string) ([]string, bool) {
	var toks []string
	i := 0
	for i < len(s) {
		c := s[i]
		switch {
		case c == ' ' || c == '\t':
			i++
		case isIdentByte(c):
			j := i
			for j < len(s) && isIdentByte(s[j]) {
				j++
			}
			toks = append(toks, s[i:j])
			i = j
		case c == '(' || c == ')' || c == '!':
			toks = append(toks, string(c))
			i++
		case c == '&' || c == '|':
			if i+1 >= len(s) || s[i+1] != c {
				return nil, false
			}
			toks = append(toks, s[i:i+2])
			i += 2
		default:
			return nil, false
		}
	}
	return toks, true
}

type condEval struct {
	p    *preprocessor
	toks []string
	pos  int
}

func (e *condEval) peek() string {
	if e.pos < len(e.toks) {
		return e.toks[e.pos]
	}
	return ""
}

func (e *condEval) parseOr() (bool, bool) {
	val, ok := e.parseAnd()
	if !ok {
		return false, false
	}
	for e.peek() == "||" {
		e.pos++
		rhs, ok := e.parseAnd()
		if !ok {
			return false, false
		}
		val = val || rhs
	}
	return val, true
}

func (e *condEval) parseAnd() (bool, bool) {
	val, ok := e.parseUnary()
	if !ok {
		return false, false
	}
	for e.peek() == "&&" {
		e.pos++
		rhs, ok := e.parseUnary()
		if !ok {
			return false, false
		}
		val = val && rhs
	}
	return val, true
}

func (e *condEval) parseUnary() (bool, bool) {
	if e.peek() == "!" {
		e.pos++
		val, ok := e.parseUnary()
		return !val, ok
	}
	return e.parsePrimary()
}

func (e *condEval) parsePrimary() (bool, bool) {
	tok := e.peek()
	switch {
	case tok == "(":
		e.pos++
		val, ok := e.parseOr()
		if !ok || e.peek() != ")" {
			return false, false
		}
		e.pos++
		return val, true
	case tok == "defined":
		e.pos++
		name := e.peek()
		if name == "(" {
			e.pos++
			name = e.peek()
			e.pos++
			if e.peek() != ")" {
				return false, false
			}
			e.pos++
			return e.p.isDefined(name), true
		}
		if name == "" {
			return false, false
		}
		e.pos++
		return e.p.isDefined(name), true
	case tok == "":
		return false, false
	default:
		e.pos++
		if n, err := strconv.ParseInt(tok, 0, 64); err == nil {
			return n != 0, true
		}
		value, defined := e.p.defined[tok]
		if !defined {
			return false, true
		}
		if n, err := strconv.ParseInt(value, 0, 64); err == nil {
			return n != 0, true
		}
		return true, true
	}
}

// stripAnnotations blanks configured annotation macros on one line, together
// with a directly following parenthesized argument list.
func (p *preprocessor) stripAnnotations(buf []byte, start, end int) {
	line := buf[start:end]
	for _, name := range p.strip {
		from := 0
		for {
			rel := indexWord(line[from:], name)
			if rel < 0 {
				break
			}
			i := from + rel
			j := i + len(name)
			blank(buf, start+i, start+j)
			for j < len(line) && (line[j] == ' ' || line[j] == '\t') {
				j++
			}
			if j < len(line) && line[j] == '(' {
				depth := 0
				k := j
				for ; k < len(line); k++ {
					if line[k] == '(' {
						depth++
					} else if line[k] == ')' {
						depth--
						if depth == 0 {
							k++
							break
						}
					}
				}
				blank(buf, start+j, start+k)
				j = k
			}
			from = j
		}
	}
}

func indexWord(s []byte, w string) int {
	for i := 0; i+len(w) <= len(s); i++ {
		if string(s[i:i+len(w)]) != w {
			continue
		}
		if i > 0 && isIdentByte(s[i-1]) {
			continue
		}
		if i+len(w) < len(s) && isIdentByte(s[i+len(w)]) {
			continue
		}
		return i
	}
	return -1
}
