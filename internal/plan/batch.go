package plan

import (
	"context"
	"errors"
	"log/slog"
	"runtime"

	"golang.org/x/sync/errgroup"

	"dto-generator/internal/descriptor"
	"dto-generator/internal/diagnostic"
)

// Diagnostic codes emitted while planning.
const (
	CodeUnsupportedShape = "unsupported_shape"
	CodePlanFailed       = "plan_failed"
	CodeAllArmsSkipped   = "all_arms_skipped"
	CodeNoFields         = "no_fields"
)

// TypeResult holds the plans for one type. A type whose planning failed has
// Err set and no plans; it does not affect other types in the batch.
type TypeResult struct {
	Type         *descriptor.TypeDescriptor
	ToExternal   *TypePlan
	FromExternal *TypePlan
	Err          error
}

// Plans returns the generated plans in direction order.
func (r *TypeResult) Plans() []*TypePlan {
	var out []*TypePlan

	for _, tp := range []*TypePlan{r.ToExternal, r.FromExternal} {
		if tp != nil {
			out = append(out, tp)
		}
	}

	return out
}

// Batch is the result of planning a set of types.
type Batch struct {
	// Results are in input order.
	Results     []TypeResult
	Diagnostics diagnostic.Diagnostics
}

// Failed returns the results whose planning failed.
func (b *Batch) Failed() []TypeResult {
	var out []TypeResult

	for _, r := range b.Results {
		if r.Err != nil {
			out = append(out, r)
		}
	}

	return out
}

// BatchOptions configures PlanAll.
type BatchOptions struct {
	// Concurrency limits the number of types planned at once. Zero means GOMAXPROCS.
	Concurrency int
}

// PlanAll plans every type in both requested directions. Types are planned
// concurrently; a failing type is recorded in its result and in the
// diagnostics. The returned error is non-nil only when ctx is cancelled.
func (s *Synthesizer) PlanAll(ctx context.Context, types []descriptor.TypeDescriptor, opts BatchOptions) (*Batch, error) {
	limit := opts.Concurrency
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}

	results := make([]TypeResult, len(types))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i := range types {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			results[i] = s.planPair(&types[i])

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	b := &Batch{Results: results}
	for i := range results {
		b.Diagnostics.Merge(resultDiagnostics(&results[i]))
	}

	return b, nil
}

func (s *Synthesizer) planPair(td *descriptor.TypeDescriptor) TypeResult {
	res := TypeResult{Type: td}

	for _, kind := range descriptor.Kinds {
		if !td.Generates(kind) {
			continue
		}

		tp, err := s.PlanType(td, kind)
		if err != nil {
			slog.Debug("Planning failed", "type", td.Name, "direction", kind, "error", err)
			return TypeResult{Type: td, Err: err}
		}

		if kind == descriptor.KindToExternal {
			res.ToExternal = tp
		} else {
			res.FromExternal = tp
		}
	}

	slog.Debug("Planned type", "type", td.Name, "form", td.Form,
		"fields", len(td.Fields), "variants", len(td.Variants))

	return res
}

func resultDiagnostics(r *TypeResult) diagnostic.Diagnostics {
	var d diagnostic.Diagnostics

	name := r.Type.Name
	if r.Type.Target != nil {
		name += " <-> " + r.Type.Target.String()
	}

	if r.Err != nil {
		code := CodePlanFailed
		if errors.Is(r.Err, ErrUnsupportedShape) {
			code = CodeUnsupportedShape
		}

		d.AddError(code, r.Err.Error(), name, "")

		return d
	}

	switch {
	case r.Type.IsSum() && len(r.Type.Variants) > 0 && allArmsSkipped(r.Type) && !r.Type.NonExhaustive:
		d.AddWarning(CodeAllArmsSkipped,
			"every arm is skipped; generated match has no cases", name, "")
	case !r.Type.IsSum() && len(r.Type.Fields) == 0:
		d.AddInfo(CodeNoFields, "type has no fields", name, "")
	}

	return d
}

func allArmsSkipped(td *descriptor.TypeDescriptor) bool {
	for i := range td.Variants {
		if !td.Variants[i].Skip {
			return false
		}
	}

	return true
}
