// Package analyzer composes the source parser and the rule engine into the
// analysis entry point.
package analyzer

import (
	"context"

	"github.com/cockroachdb/errors"

	"github.com/smykla-skalski/codeaudit/internal/engine"
	"github.com/smykla-skalski/codeaudit/internal/rule"
	"github.com/smykla-skalski/codeaudit/pkg/ast"
	"github.com/smykla-skalski/codeaudit/pkg/logger"
	"github.com/smykla-skalski/codeaudit/pkg/parser"
)

// Parser turns source text into a Program.
type Parser interface {
	Parse(ctx context.Context, source []byte, fileName string) (*ast.Program, error)
}

// Analyzer runs a fixed rule set against source files. Its registry is
// not modified after New returns, so one Analyzer may serve concurrent
// callers.
type Analyzer struct {
	parser Parser
	engine *engine.Engine
	logger logger.Logger
}

// Option configures an Analyzer.
type Option func(*options)

type options struct {
	parser     Parser
	parallel   bool
	maxWorkers int
}

// WithParser replaces the tree-sitter source parser.
func WithParser(p Parser) Option {
	return func(o *options) {
		if p != nil {
			o.parser = p
		}
	}
}

// WithParallel runs the rules of each file on up to maxWorkers goroutines.
// Violations keep registration order.
func WithParallel(maxWorkers int) Option {
	return func(o *options) {
		o.parallel = true
		o.maxWorkers = maxWorkers
	}
}

// New creates an Analyzer that registers rules in the given order.
func New(log logger.Logger, rules []rule.Rule, opts ...Option) *Analyzer {
	o := &options{parser: parser.NewSourceParser()}

	for _, opt := range opts {
		opt(o)
	}

	registry := engine.NewRegistry()
	registry.RegisterAll(rules...)

	var engineOpts []engine.Option
	if o.parallel {
		engineOpts = append(engineOpts, engine.WithExecutor(engine.NewParallelExecutor(log, o.maxWorkers)))
	}

	log.Info("registered analysis rules", "rules", registry.Len(), "parallel", o.parallel)

	return &Analyzer{
		parser: o.parser,
		engine: engine.New(registry, log, engineOpts...),
		logger: log,
	}
}

// RegisteredRules returns the rule names in registration order.
func (a *Analyzer) RegisteredRules() []string {
	return a.engine.Registry().Names()
}

// Rules returns the registered rules in registration order.
func (a *Analyzer) Rules() []rule.Rule {
	return a.engine.Registry().Rules()
}

// Analyze parses source and runs every registered rule against it. It
// never fails: source that does not parse yields engine.Empty(). fileName
// is only used for logging.
func (a *Analyzer) Analyze(ctx context.Context, source, fileName string) *engine.AnalysisResult {
	result, _ := a.analyze(ctx, source, fileName)

	return result
}

// analyze is Analyze that also returns the parse or cancellation error, for
// callers that report it.
func (a *Analyzer) analyze(ctx context.Context, source, fileName string) (*engine.AnalysisResult, error) {
	log := a.logger.With("file", fileName)

	if err := ctx.Err(); err != nil {
		return engine.Empty(), errors.Wrap(err, "analysis cancelled")
	}

	program, err := a.parser.Parse(ctx, []byte(source), fileName)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return engine.Empty(), errors.Wrap(ctxErr, "analysis cancelled")
		}

		log.Info("parse failed, skipping rules", "error", err)

		return engine.Empty(), err
	}

	result := a.engine.Analyze(ctx, rule.NewInput(program, source))

	if err := ctx.Err(); err != nil {
		log.Info("analysis cancelled", "error", err)

		return engine.Empty(), errors.Wrap(err, "analysis cancelled")
	}

	log.Info("analysis complete",
		"violations", result.TotalViolations,
		"score", result.Score,
	)

	return result, nil
}
