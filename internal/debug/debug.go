// Package debug holds environment-gated diagnostics.
//
// Each switch is read once at start-up from a FORMTREE_DEBUG_* variable
// holding a value accepted by strconv.ParseBool.
package debug

import (
	"fmt"
	"os"
	"strconv"

	j "github.com/goccy/go-json"
)

type debug struct {
	Compile  bool
	Resolve  bool
	Array    bool
	Template bool
}

var d *debug

func init() {
	d = &debug{}
	d.Compile = boolEnv("FORMTREE_DEBUG_COMPILE")
	d.Resolve = boolEnv("FORMTREE_DEBUG_RESOLVE")
	d.Array = boolEnv("FORMTREE_DEBUG_ARRAY")
	d.Template = boolEnv("FORMTREE_DEBUG_TEMPLATE")
}

func boolEnv(v string) bool {
	x := os.Getenv(v)
	if x == "" {
		return false
	}
	b, _ := strconv.ParseBool(x)
	return b
}

func Compile() bool  { return d.Compile }
func Resolve() bool  { return d.Resolve }
func Array() bool    { return d.Array }
func Template() bool { return d.Template }

// Logf writes a formatted line to stderr. Map and slice arguments are
// rendered as JSON.
func Logf(format string, args ...any) {
	for i, a := range args {
		switch a.(type) {
		case map[string]any, []any, []int:
			if b, err := j.Marshal(a); err == nil {
				args[i] = string(b)
			}
		}
	}
	fmt.Fprintf(os.Stderr, format+"\n", args...)
}
