package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"dto-generator/internal/analyze"
	"dto-generator/internal/diagnostic"
	"dto-generator/internal/directive"
	"dto-generator/internal/plan"
	"dto-generator/internal/shape"
)

// inputFlags selects where descriptors come from and how they are planned.
type inputFlags struct {
	file        string
	pkg         string
	dir         string
	concurrency int
	optional    []string
	sequence    []string
	orderedMap  []string
}

func (in *inputFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVarP(&in.file, "file", "f", "", "YAML descriptor file")
	fs.StringVar(&in.pkg, "pkg", "", "Go package pattern holding //dto: annotated types")
	fs.StringVar(&in.dir, "dir", ".", "Directory the package pattern is resolved in")
	fs.IntVar(&in.concurrency, "concurrency", 0, "Types planned at once (0 means GOMAXPROCS)")
	fs.StringSliceVar(&in.optional, "optional", nil, "Extra generic type names classified as optional")
	fs.StringSliceVar(&in.sequence, "sequence", nil, "Extra generic type names classified as sequences")
	fs.StringSliceVar(&in.orderedMap, "ordered-map", nil, "Extra generic type names classified as ordered maps")

	cmd.MarkFlagsMutuallyExclusive("file", "pkg")
	cmd.MarkFlagsOneRequired("file", "pkg")
}

// load reads the descriptor set. Loader warnings are logged; loader errors
// fail the command.
func (in *inputFlags) load(ctx context.Context) (*directive.Set, error) {
	if in.file != "" {
		set, warnings, err := directive.Load(in.file)
		if err != nil {
			return nil, err
		}

		for _, w := range warnings {
			slog.Warn("Descriptor warning", "file", in.file, "detail", w)
		}

		return set, nil
	}

	res, err := analyze.NewLoader(in.dir).Load(ctx, in.pkg)
	if err != nil {
		return nil, err
	}

	logDiagnostics(res.Diagnostics)

	if err := res.Diagnostics.Error(); err != nil {
		return nil, fmt.Errorf("loading %s: %w", in.pkg, err)
	}

	slog.Debug("Loaded package", "path", res.PkgPath, "types", len(res.Set.Types))

	return res.Set, nil
}

func (in *inputFlags) classifier() shape.Config {
	cfg := shape.DefaultConfig()
	cfg.OptionalNames = append(cfg.OptionalNames, in.optional...)
	cfg.SequenceNames = append(cfg.SequenceNames, in.sequence...)
	cfg.OrderedMapNames = append(cfg.OrderedMapNames, in.orderedMap...)

	return cfg
}

func (in *inputFlags) plan(ctx context.Context, set *directive.Set) (*plan.Batch, error) {
	s := plan.NewSynthesizer(in.classifier())

	b, err := s.PlanAll(ctx, set.Types, plan.BatchOptions{Concurrency: in.concurrency})
	if err != nil {
		return nil, fmt.Errorf("planning: %w", err)
	}

	return b, nil
}

// failure returns an error when any type failed planning.
func failure(b *plan.Batch) error {
	failed := b.Failed()
	if len(failed) == 0 {
		return nil
	}

	return fmt.Errorf("%d of %d types failed planning", len(failed), len(b.Results))
}

func logDiagnostics(d diagnostic.Diagnostics) {
	for _, e := range d.Errors {
		slog.Error("Diagnostic", "detail", e.String())
	}

	for _, w := range d.Warnings {
		slog.Warn("Diagnostic", "detail", w.String())
	}

	for _, i := range d.Infos {
		slog.Debug("Diagnostic", "detail", i.String())
	}
}
