package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	j "github.com/goccy/go-json"
	"github.com/mattn/go-isatty"

	"github.com/reoring/formtree"
	"github.com/reoring/formtree/i18n"
	"github.com/reoring/formtree/memrender"
	"github.com/reoring/formtree/validator/jsonschema"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	sub := os.Args[1]
	switch sub {
	case "compile":
		compileCmd(os.Args[2:])
	case "values":
		valuesCmd(os.Args[2:])
	case "validate":
		validateCmd(os.Args[2:])
	case "array":
		arrayCmd(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `formtree CLI

Usage:
  formtree compile  -f form.json [-values v.json] [-color auto|always|never]
  formtree values   -f form.json [-values v.json]
  formtree validate -f form.json [-values v.json] [-lang en|ja]
  formtree array    -f form.json -key friends -op insert|delete|move -at N [-to M] [-values v.json]

Descriptors and values may be JSON or YAML (.yaml/.yml).`)
}

// common holds the flags shared by every subcommand.
type common struct {
	file    string
	values  string
	verbose bool
}

func (c *common) register(fs *flag.FlagSet) {
	fs.StringVar(&c.file, "f", "", "form descriptor file")
	fs.StringVar(&c.values, "values", "", "submitted values file (overrides the descriptor's value)")
	fs.BoolVar(&c.verbose, "v", false, "enable verbose logs")
}

func (c *common) logf(format string, a ...any) {
	if c.verbose {
		fmt.Fprintf(os.Stderr, format+"\n", a...)
	}
}

// load compiles the descriptor with an in-memory renderer and presents it.
func (c *common) load(fs *flag.FlagSet) *formtree.Tree {
	if c.file == "" {
		fs.Usage()
		os.Exit(2)
	}
	desc, err := formtree.LoadFile(c.file)
	if err != nil {
		fatalf("load %s: %v", c.file, err)
	}
	if c.values != "" {
		b, err := os.ReadFile(c.values)
		if err != nil {
			fatalf("read values: %v", err)
		}
		ext := strings.ToLower(filepath.Ext(c.values))
		v, err := formtree.LoadValues(b, ext == ".yaml" || ext == ".yml")
		if err != nil {
			fatalf("%v", err)
		}
		desc.Value = v
	}
	c.logf("load: file=%s values=%s", c.file, c.values)
	tree, err := formtree.New(desc, formtree.Options{Renderer: memrender.New()})
	if err != nil {
		fatalf("%v", err)
	}
	if err := tree.Present(); err != nil {
		fatalf("present: %v", err)
	}
	c.logf("load: prefix=%s", tree.Prefix())
	return tree
}

func compileCmd(args []string) {
	fs := flag.NewFlagSet("compile", flag.ExitOnError)
	var c common
	var mode string
	c.register(fs)
	fs.StringVar(&mode, "color", "auto", "colorize output: auto, always or never")
	_ = fs.Parse(args)
	tree := c.load(fs)

	switch mode {
	case "always":
		color.NoColor = false
	case "never":
		color.NoColor = true
	default:
		color.NoColor = !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd())
	}
	printTree(os.Stdout, tree.Root, 0)
}

var (
	kindColor  = color.New(color.FgMagenta).SprintFunc()
	keyColor   = color.New(color.FgCyan).SprintFunc()
	idColor    = color.New(color.Faint).SprintFunc()
	valueColor = color.New(color.FgGreen).SprintFunc()
	dfltColor  = color.New(color.FgYellow).SprintFunc()
)

func printTree(w io.Writer, n *formtree.Node, depth int) {
	var b strings.Builder
	b.WriteString(strings.Repeat("  ", depth))
	b.WriteString(kindColor(n.Kind.String()))
	if n.Key != "" {
		b.WriteString(" " + keyColor(n.Key))
	}
	if n.ID != "" {
		b.WriteString(" " + idColor("#"+n.ID))
	}
	if label := n.Legend; label != "" {
		fmt.Fprintf(&b, " %q", label)
	} else if n.Title != "" {
		fmt.Fprintf(&b, " %q", n.Title)
	}
	if n.Value != nil {
		v, _ := j.Marshal(n.Value)
		if n.FromDefault {
			b.WriteString(" = " + dfltColor(string(v)) + " (default)")
		} else {
			b.WriteString(" = " + valueColor(string(v)))
		}
	}
	if n.IsArray() {
		bd := n.Tree().ArrayBoundaries(n)
		fmt.Fprintf(&b, " [items=%d min=%d max=%d]", len(n.Children), bd.MinItems, bd.MaxItems)
	}
	fmt.Fprintln(w, b.String())
	for _, c := range n.Children {
		printTree(w, c, depth+1)
	}
}

func valuesCmd(args []string) {
	fs := flag.NewFlagSet("values", flag.ExitOnError)
	var c common
	c.register(fs)
	_ = fs.Parse(args)
	tree := c.load(fs)
	printValues(tree)
}

func printValues(tree *formtree.Tree) {
	v, err := tree.Values()
	if err != nil {
		fatalf("read values: %v", err)
	}
	out, err := j.MarshalIndent(v, "", "  ")
	if err != nil {
		fatalf("encode values: %v", err)
	}
	fmt.Println(string(out))
}

func validateCmd(args []string) {
	fs := flag.NewFlagSet("validate", flag.ExitOnError)
	var c common
	var lang string
	c.register(fs)
	fs.StringVar(&lang, "lang", "en", "message language: en or ja")
	_ = fs.Parse(args)
	i18n.SetLanguage(lang)
	tree := c.load(fs)

	hl, err := tree.Validate(context.Background(), jsonschema.New())
	if err != nil {
		fatalf("validate: %v", err)
	}
	for _, h := range hl {
		field := "-"
		if h.Node != nil {
			field = h.Node.ID
		}
		detail, _ := h.Issue.Params["detail"].(string)
		fmt.Printf("%s\t%s\t%s\t%s (%s)\n", h.Key, field, h.Issue.Code, h.Issue.Message, detail)
	}
	c.logf("validate: %d issue(s)", len(hl))
	if len(hl) > 0 {
		os.Exit(1)
	}
}

func arrayCmd(args []string) {
	fs := flag.NewFlagSet("array", flag.ExitOnError)
	var c common
	var key, op string
	var at, to int
	c.register(fs)
	fs.StringVar(&key, "key", "", "key of the array to edit")
	fs.StringVar(&op, "op", "", "operation: insert, delete or move")
	fs.IntVar(&at, "at", 0, "item index the operation applies to")
	fs.IntVar(&to, "to", 0, "destination index for move")
	_ = fs.Parse(args)
	if key == "" || op == "" {
		fs.Usage()
		os.Exit(2)
	}
	tree := c.load(fs)
	n := tree.FindByKey(key)
	if n == nil {
		fatalf("no node bound to %q", key)
	}
	c.logf("array: key=%s op=%s at=%d to=%d items=%d", key, op, at, to, len(n.Children))

	var err error
	switch op {
	case "insert":
		err = tree.InsertItem(n, at)
	case "delete":
		err = tree.DeleteItem(n, at)
	case "move":
		err = tree.MoveItem(n, at, to)
	default:
		fatalf("unknown op %q", op)
	}
	if err != nil {
		fatalf("%s: %v", op, err)
	}
	printValues(tree)
}

func fatalf(format string, a ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", a...)
	os.Exit(1)
}
