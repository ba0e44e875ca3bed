// Package debug provides env-gated debug logging for the dyn packages.
// Set DYN_DEBUG_DIFF, DYN_DEBUG_PATCH, DYN_DEBUG_EVAL or DYN_DEBUG_MIGRATE
// to a truthy value to enable the corresponding traces on stderr.
package debug

import (
	"fmt"
	"os"
	"strconv"
)

type debug struct {
	Diff    bool
	Patch   bool
	Eval    bool
	Migrate bool
}

var d *debug

func init() {
	d = &debug{}
	d.Diff = boolEnv("DYN_DEBUG_DIFF")
	d.Patch = boolEnv("DYN_DEBUG_PATCH")
	d.Eval = boolEnv("DYN_DEBUG_EVAL")
	d.Migrate = boolEnv("DYN_DEBUG_MIGRATE")
}

func boolEnv(v string) bool {
	x := os.Getenv(v)
	if x == "" {
		return false
	}
	b, _ := strconv.ParseBool(x)
	return b
}

func Diff() bool {
	return d.Diff
}
func Patch() bool {
	return d.Patch
}
func Eval() bool {
	return d.Eval
}
func Migrate() bool {
	return d.Migrate
}

func Logf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format, args...)
}
