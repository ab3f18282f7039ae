// Package main provides the CLI entrypoint for dto-generator.
//
// dto-generator plans and generates bidirectional conversions between
// domain types and their external (wire) counterparts:
//   - plan: prints the transform plan of every field and arm
//   - gen: renders <Type>ToExternal / <Type>FromExternal functions
//   - version: prints build information
//
// Descriptors come from a YAML file (-f) or from //dto: annotated Go
// source (--pkg).
package main

import (
	"context"
	"log/slog"
	"os"
)

var (
	version   = "0.1.0"
	commit    = ""
	treeState = ""
	date      = ""
	builtBy   = ""
)

func main() {
	rf := &rootFlags{}

	err := newRootCmd(rf).ExecuteContext(context.Background())
	if err != nil {
		slog.Error("dto-generator failed", "error", err)
	}

	if cerr := rf.close(); cerr != nil && err == nil {
		err = cerr
	}

	if err != nil {
		os.Exit(1)
	}
}
