// Copyright 2025 Binaek Sarkar
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package rules

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	oteltrace "go.opentelemetry.io/otel/trace"

	"github.com/rulekit/rulekit/interp"
	"github.com/rulekit/rulekit/value"
	"github.com/rulekit/rulekit/xerr"
)

// TraceLevel controls how much of an evaluation's step-by-step walk is
// captured. Full is the only level that permits the interpreter backend,
// per spec.md §4.8's selection policy.
type TraceLevel uint8

const (
	TraceNone TraceLevel = iota
	TraceMinimal
	TraceStandard
	TraceFull
)

// MetricSink is the host-provided, fire-and-forget metric dispatch
// target for Metric effects. The core never adds its own buffering
// beyond whatever the call itself does; a blocking sink blocks the
// evaluation, which is the host's contract per spec.md §5.
type MetricSink interface {
	Observe(name string, val float64, tags [][2]string)
}

// ExecOptions matches spec.md §6's ExecOptions record.
type ExecOptions struct {
	FieldMissing value.MissingFieldPolicy
	Timeout      time.Duration
	TraceLevel   TraceLevel
	Vars         map[string]value.Value
	Logger       *slog.Logger
	Metrics      MetricSink
	Tracer       oteltrace.Tracer
}

// Executor runs evaluations against one CompiledRuleSet. It holds no
// per-evaluation state itself; every call to Execute builds its own
// EvaluationContext so many goroutines can share one Executor safely.
type Executor struct {
	rs *CompiledRuleSet
}

// NewExecutor wraps rs for evaluation. rs must outlive every Executor
// built from it.
func NewExecutor(rs *CompiledRuleSet) *Executor {
	return &Executor{rs: rs}
}

// Execute implements spec.md §4.8's evaluation algorithm: walk the step
// graph from the ruleset's entry step, dispatching by step kind, until a
// terminal is reached, the depth guard trips, or the deadline expires.
func (ex *Executor) Execute(ctx context.Context, input value.Value, opts ExecOptions) (Outcome, error) {
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	evalID := uuid.NewString()
	vctx := value.NewContext(input, opts.FieldMissing)
	for k, v := range opts.Vars {
		vctx.SetVar(k, v)
	}

	rec := ex.newRecordContext(vctx, opts)
	recorder := newRecorder(opts.TraceLevel)

	current := ex.rs.Config.EntryStep
	depth := 0
	start := time.Now()
	var path []StepID

	for {
		if err := ctx.Err(); err != nil {
			return Outcome{}, xerr.ErrExec(xerr.DeadlineExceeded, string(current), "evaluation %s: %v", evalID, err)
		}

		step, ok := ex.rs.Steps[current]
		if !ok {
			return Outcome{}, xerr.ErrExec(xerr.UnknownStep, string(current), "step not found")
		}
		depth++
		if depth > ex.rs.Config.MaxDepth {
			return Outcome{}, xerr.ErrExec(xerr.ExecDepthExceeded, string(current), "exceeded max_depth=%d", ex.rs.Config.MaxDepth)
		}
		path = append(path, current)

		stepStart := time.Now()
		span, endSpan := ex.startSpan(ctx, opts.Tracer, step)
		_ = span

		switch step.Kind {
		case StepDecision:
			next, branchIdx, err := ex.runDecision(ctx, step.Decision, rec)
			endSpan()
			recorder.recordStep(step, time.Since(stepStart), branchIdx, next, err)
			if err != nil {
				return Outcome{}, err
			}
			current = next

		case StepAction:
			err := ex.runAction(ctx, step.Action, rec)
			endSpan()
			recorder.recordStep(step, time.Since(stepStart), -1, step.Action.Next, err)
			if err != nil {
				return Outcome{}, err
			}
			current = step.Action.Next

		case StepTerminal:
			outcome, err := ex.runTerminal(ctx, step.Terminal, rec)
			endSpan()
			recorder.recordStep(step, time.Since(stepStart), -1, "", err)
			if err != nil {
				return Outcome{}, err
			}
			outcome.Duration = time.Since(start)
			if recorder.enabled() {
				outcome.Trace = recorder.result(path)
			}
			return outcome, nil

		default:
			endSpan()
			return Outcome{}, xerr.ErrExec(xerr.UnknownStep, string(current), "unrecognized step kind")
		}
	}
}

func (ex *Executor) startSpan(ctx context.Context, tracer oteltrace.Tracer, step *Step) (oteltrace.Span, func()) {
	if tracer == nil {
		return nil, func() {}
	}
	_, span := tracer.Start(ctx, "rulekit.step."+string(step.ID))
	return span, span.End
}

func (ex *Executor) runDecision(ctx context.Context, d *DecisionStep, rec *recordContext) (StepID, int, error) {
	for i, br := range d.Branches {
		if err := ctx.Err(); err != nil {
			return "", -1, xerr.ErrExec(xerr.DeadlineExceeded, "", "%v", err)
		}
		v, err := evalBackend(ctx, br.Condition, rec)
		if err != nil {
			return "", -1, xerr.ErrExec(xerr.UnknownStep, "", "evaluating branch %d condition: %v", i, err)
		}
		if v.Truthy() {
			for _, eff := range br.Actions {
				if err := ex.applyEffect(ctx, eff, rec, false); err != nil {
					return "", -1, err
				}
			}
			return br.Next, i, nil
		}
	}
	return d.DefaultNext, -1, nil
}

func (ex *Executor) runAction(ctx context.Context, a *ActionStep, rec *recordContext) error {
	for _, eff := range a.Effects {
		if err := ex.applyEffect(ctx, eff, rec, ex.rs.Config.StrictEffects); err != nil {
			return err
		}
	}
	return nil
}

func (ex *Executor) applyEffect(ctx context.Context, eff Effect, rec *recordContext, strict bool) error {
	switch eff.Kind {
	case EffectAssign:
		v, err := evalBackend(ctx, eff.Value, rec)
		if err != nil {
			return xerr.ErrExec(xerr.UnknownStep, "", "assign %s: %v", eff.Name, err)
		}
		rec.ctx.SetVar(eff.Name, v)
		return nil

	case EffectLog:
		if rec.logger != nil {
			rec.logger.Log(ctx, logLevel(eff.Level), eff.Message)
		}
		return nil

	case EffectMetric:
		v, err := evalBackend(ctx, eff.Value, rec)
		if err != nil {
			return nil // metric effects never fail observably, per spec.md §7
		}
		if rec.metrics != nil {
			rec.metrics.Observe(eff.Name, v.Float(), eff.Tags)
		}
		return nil

	case EffectExternal:
		if strict {
			return xerr.ErrExec(xerr.StrictEffectViolated, "", "external effect %q not supported", eff.Name)
		}
		if rec.logger != nil {
			rec.logger.Warn("external effect treated as no-op", "effect", eff.Name)
		}
		return nil

	default:
		return nil
	}
}

func (ex *Executor) runTerminal(ctx context.Context, t *TerminalStep, rec *recordContext) (Outcome, error) {
	msg := ""
	if t.Message != nil {
		v, err := evalBackend(ctx, t.Message, rec)
		if err != nil {
			return Outcome{}, xerr.ErrExec(xerr.UnknownStep, "", "terminal message: %v", err)
		}
		msg = v.String()
	}
	output := make(map[string]value.Value, len(t.Output))
	for _, f := range t.Output {
		v, err := evalBackend(ctx, f.Expr, rec)
		if err != nil {
			return Outcome{}, xerr.ErrExec(xerr.UnknownStep, "", "terminal output %s: %v", f.Name, err)
		}
		output[f.Name] = v
	}
	return Outcome{Code: t.Code, Message: msg, Output: output}, nil
}

func logLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func (ex *Executor) newRecordContext(vctx *value.Context, opts ExecOptions) *recordContext {
	rc := &recordContext{
		ctx:       vctx,
		pool:      ex.rs.vmPool,
		traceFull: opts.TraceLevel == TraceFull,
		logger:    opts.Logger,
		metrics:   opts.Metrics,
	}
	if ex.rs.Schema != nil {
		rc.schemaFingerprint = ex.rs.Schema.Fingerprint()
	}
	if opts.TraceLevel == TraceFull {
		rc.interp = interp.New(ex.rs.Registry)
	}
	return rc
}
