package debug

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/signadot/ctree/tree"
)

type debug struct {
	Merge   bool
	Refine  bool
	Resolve bool
	Diff    bool
	Parse   bool
	Export  bool
	Load    bool
}

var d *debug

func init() {
	d = &debug{}
	d.Merge = boolEnv("CTREE_DEBUG_MERGE")
	d.Refine = boolEnv("CTREE_DEBUG_REFINE")
	d.Resolve = boolEnv("CTREE_DEBUG_RESOLVE")
	d.Diff = boolEnv("CTREE_DEBUG_DIFF")
	d.Parse = boolEnv("CTREE_DEBUG_PARSE")
	d.Export = boolEnv("CTREE_DEBUG_EXPORT")
	d.Load = boolEnv("CTREE_DEBUG_LOAD")
}

func boolEnv(v string) bool {
	x := os.Getenv(v)
	if x == "" {
		return false
	}
	b, _ := strconv.ParseBool(x)
	return b
}

func Merge() bool {
	return d.Merge
}
func Refine() bool {
	return d.Refine
}
func Resolve() bool {
	return d.Resolve
}
func Diff() bool {
	return d.Diff
}
func Parse() bool {
	return d.Parse
}
func Export() bool {
	return d.Export
}
func Load() bool {
	return d.Load
}

func Logf(msg string, args ...any) {
	for i := range args {
		switch x := args[i].(type) {
		case *tree.Node:
			args[i] = tree.Dump(x)
		case map[string]any, []any:
			d, err := json.MarshalIndent(x, "   |", "  ")
			if err != nil {
				args[i] = fmt.Sprintf("%v", x)
				continue
			}
			args[i] = string(d)
		}
	}
	fmt.Fprintf(os.Stderr, msg, args...)
}
