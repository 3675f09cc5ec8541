// Package engine runs registered rules and aggregates their violations
// into a scored result.
package engine

import (
	"context"

	"github.com/smykla-skalski/codeaudit/internal/rule"
	"github.com/smykla-skalski/codeaudit/pkg/logger"
)

// Engine executes the rules of a Registry against parsed input.
type Engine struct {
	registry *Registry
	executor Executor
	logger   logger.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithExecutor replaces the default sequential executor.
func WithExecutor(executor Executor) Option {
	return func(e *Engine) {
		if executor != nil {
			e.executor = executor
		}
	}
}

// New creates an Engine over registry with sequential execution unless an
// option says otherwise.
func New(registry *Registry, log logger.Logger, opts ...Option) *Engine {
	e := &Engine{
		registry: registry,
		executor: NewSequentialExecutor(log),
		logger:   log,
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Registry returns the engine's registry.
func (e *Engine) Registry() *Registry {
	return e.registry
}

// Analyze runs every registered rule against in. A nil input or a missing
// AST yields Empty(). Rules that fail are logged and left out of both the
// violations and the rule results.
func (e *Engine) Analyze(ctx context.Context, in *rule.Input) *AnalysisResult {
	if in == nil || in.AST == nil {
		return Empty()
	}

	outcomes := e.executor.Execute(ctx, in, e.registry.Rules())

	// Rules skipped by cancellation would otherwise read as passed.
	if err := ctx.Err(); err != nil {
		e.logger.Info("analysis cancelled", "error", err)

		return Empty()
	}

	result := &AnalysisResult{
		Violations:  make([]rule.Violation, 0),
		RuleResults: make([]RuleResult, 0, len(outcomes)),
	}

	for _, o := range outcomes {
		if o.Err != nil {
			e.logger.Error("rule failed",
				"rule", o.Rule.Name(),
				"error", o.Err,
			)

			continue
		}

		result.Violations = append(result.Violations, o.Violations...)
		result.RuleResults = append(result.RuleResults, RuleResult{
			Rule:       o.Rule.Name(),
			Violations: o.Violations,
			Passed:     len(o.Violations) == 0,
		})
	}

	result.Score = Score(result.Violations)
	result.TotalViolations = len(result.Violations)

	e.logger.Debug("rules executed",
		"rules", len(outcomes),
		"succeeded", len(result.RuleResults),
		"violations", result.TotalViolations,
	)

	return result
}
