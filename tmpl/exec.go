package tmpl

import (
	"strings"

	"github.com/expr-lang/expr"

	"github.com/reoring/formtree/internal/debug"
)

type node struct {
	tok  token
	then []node
	els  []node
	cond bool
}

// parse builds the conditional structure. Missing "end" markers close at the
// end of input; stray "else"/"end" markers are dropped.
func parse(toks []token) []node {
	nodes, _, _ := parseUntil(toks, 0, false)
	return nodes
}

func parseUntil(toks []token, pos int, nested bool) ([]node, int, string) {
	var out []node
	for pos < len(toks) {
		t := toks[pos]
		pos++
		if t.kind != tokEvaluate {
			out = append(out, node{tok: t})
			continue
		}
		switch stmt := t.text; {
		case strings.HasPrefix(stmt, "if "):
			n := node{tok: token{kind: tokEvaluate, text: strings.TrimSpace(stmt[3:])}, cond: true}
			var stop string
			n.then, pos, stop = parseUntil(toks, pos, true)
			if stop == "else" {
				n.els, pos, _ = parseUntil(toks, pos, true)
			}
			out = append(out, n)
		case stmt == "else" || stmt == "end":
			if nested {
				return out, pos, stmt
			}
		default:
			if debug.Template() {
				debug.Logf("tmpl: ignoring statement %q", stmt)
			}
		}
	}
	return out, pos, ""
}

func exec(b *strings.Builder, nodes []node, bag Bag) {
	for _, n := range nodes {
		switch {
		case n.cond:
			v, err := eval(n.tok.text, bag)
			if err != nil && debug.Template() {
				debug.Logf("tmpl: condition %q: %v", n.tok.text, err)
			}
			if truthy(v) {
				exec(b, n.then, bag)
			} else {
				exec(b, n.els, bag)
			}
		case n.tok.kind == tokInterpolate:
			v, err := eval(n.tok.text, bag)
			if err != nil {
				if debug.Template() {
					debug.Logf("tmpl: %q: %v", n.tok.raw, err)
				}
				b.WriteString(n.tok.raw)
				continue
			}
			b.WriteString(Format(v))
		default:
			b.WriteString(n.tok.text)
		}
	}
}

func eval(src string, bag Bag) (any, error) {
	env := map[string]any{"idx": bag.Idx, "value": bag.Value}
	for k, v := range bag.Data {
		if _, taken := env[k]; !taken {
			env[k] = v
		}
	}
	getValue := bag.GetValue
	prog, err := expr.Compile(src,
		expr.Env(env),
		expr.DisableAllBuiltins(),
		expr.Function("getValue", func(params ...any) (any, error) {
			if getValue == nil {
				return nil, nil
			}
			key, _ := params[0].(string)
			return getValue(key), nil
		}, new(func(string) any)),
	)
	if err != nil {
		return nil, err
	}
	return expr.Run(prog, env)
}
