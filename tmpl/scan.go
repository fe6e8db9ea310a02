package tmpl

import "strings"

type tokenKind int

const (
	tokText tokenKind = iota
	tokInterpolate
	tokEvaluate
)

type token struct {
	kind tokenKind
	text string // literal text, or the expression between delimiters
	raw  string // source text of the token
}

// scan splits s into tokens. Escapes are resolved here so later stages
// only see literal text and expressions.
func scan(s string) []token {
	var toks []token
	var lit strings.Builder
	flush := func() {
		if lit.Len() > 0 {
			toks = append(toks, token{kind: tokText, text: lit.String()})
			lit.Reset()
		}
	}
	pos := 0
	for pos < len(s) {
		tok, next, ok := nextToken(s, pos)
		if !ok {
			lit.WriteString(tok.text)
			pos = next
			continue
		}
		flush()
		toks = append(toks, tok)
		pos = next
	}
	flush()
	return toks
}

// nextToken reads one token at pos. ok is false for literal text, which the
// caller accumulates.
func nextToken(s string, pos int) (token, int, bool) {
	if s[pos] == '\\' && pos+1 < len(s) && (s[pos+1] == '{' || s[pos+1] == '\\') {
		return token{kind: tokText, text: s[pos+1 : pos+2]}, pos + 2, false
	}
	for _, d := range [...]struct {
		open, close string
		kind        tokenKind
	}{{"{{", "}}", tokInterpolate}, {"{[", "]}", tokEvaluate}} {
		if !strings.HasPrefix(s[pos:], d.open) {
			continue
		}
		end := strings.Index(s[pos+len(d.open):], d.close)
		if end < 0 {
			// Unclosed: the rest is literal.
			return token{kind: tokText, text: s[pos:]}, len(s), false
		}
		stop := pos + len(d.open) + end + len(d.close)
		return token{
			kind: d.kind,
			text: strings.TrimSpace(s[pos+len(d.open) : pos+len(d.open)+end]),
			raw:  s[pos:stop],
		}, stop, true
	}
	next := pos + 1
	for next < len(s) && s[next] != '{' && s[next] != '\\' {
		next++
	}
	return token{kind: tokText, text: s[pos:next]}, next, false
}
