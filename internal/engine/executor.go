package engine

import (
	"context"
	"runtime"
	"sync"

	"github.com/cockroachdb/errors"
	"golang.org/x/sync/semaphore"

	"github.com/smykla-skalski/codeaudit/internal/rule"
	"github.com/smykla-skalski/codeaudit/pkg/logger"
)

// ErrRuleFailed wraps every error a rule returns or panics with.
var ErrRuleFailed = errors.New("rule failed")

// Outcome is the raw result of running one rule.
type Outcome struct {
	Rule       rule.Rule
	Violations []rule.Violation
	Err        error
}

// Executor runs rules against an input. Implementations return exactly one
// Outcome per rule, in the order the rules were given.
type Executor interface {
	Execute(ctx context.Context, in *rule.Input, rules []rule.Rule) []Outcome
}

// runRule invokes a rule, converting a panic into an error so that one
// broken detector cannot take the run down.
func runRule(rl rule.Rule, in *rule.Input) (violations []rule.Violation, err error) {
	defer func() {
		if r := recover(); r != nil {
			violations = nil
			err = errors.WithStack(errors.Wrapf(ErrRuleFailed, "%s panicked: %v", rl.Name(), r))
		}
	}()

	violations, err = rl.Check(in)
	if err != nil {
		return nil, errors.Wrapf(errors.Mark(err, ErrRuleFailed), "%s", rl.Name())
	}

	if violations == nil {
		violations = []rule.Violation{}
	}

	return violations, nil
}

// SequentialExecutor runs rules one at a time in order.
type SequentialExecutor struct {
	logger logger.Logger
}

// NewSequentialExecutor creates a new SequentialExecutor.
func NewSequentialExecutor(log logger.Logger) *SequentialExecutor {
	return &SequentialExecutor{logger: log}
}

// Execute runs rules sequentially. Rules not started before ctx is done
// report the context error.
func (e *SequentialExecutor) Execute(ctx context.Context, in *rule.Input, rules []rule.Rule) []Outcome {
	outcomes := make([]Outcome, len(rules))

	for i, rl := range rules {
		outcomes[i].Rule = rl

		if err := ctx.Err(); err != nil {
			outcomes[i].Err = err

			continue
		}

		e.logger.Debug("running rule", "rule", rl.Name())

		outcomes[i].Violations, outcomes[i].Err = runRule(rl, in)
	}

	return outcomes
}

// ParallelExecutor runs rules concurrently on a bounded worker pool. A
// failing rule does not cancel its siblings.
type ParallelExecutor struct {
	logger logger.Logger
	pool   *semaphore.Weighted
}

// NewParallelExecutor creates a ParallelExecutor with at most maxWorkers
// rules in flight. maxWorkers <= 0 means runtime.NumCPU().
func NewParallelExecutor(log logger.Logger, maxWorkers int) *ParallelExecutor {
	if maxWorkers <= 0 {
		maxWorkers = runtime.NumCPU()
	}

	return &ParallelExecutor{
		logger: log,
		pool:   semaphore.NewWeighted(int64(maxWorkers)),
	}
}

// Execute runs rules concurrently. Outcomes are written by index so the
// returned slice keeps registration order regardless of completion order.
func (e *ParallelExecutor) Execute(ctx context.Context, in *rule.Input, rules []rule.Rule) []Outcome {
	outcomes := make([]Outcome, len(rules))

	if len(rules) == 1 {
		outcomes[0].Rule = rules[0]
		outcomes[0].Violations, outcomes[0].Err = runRule(rules[0], in)

		return outcomes
	}

	var wg sync.WaitGroup

	for i, rl := range rules {
		outcomes[i].Rule = rl

		wg.Add(1)

		go func(i int, rl rule.Rule) {
			defer wg.Done()

			if err := e.pool.Acquire(ctx, 1); err != nil {
				outcomes[i].Err = err

				return
			}
			defer e.pool.Release(1)

			e.logger.Debug("running rule", "rule", rl.Name())

			outcomes[i].Violations, outcomes[i].Err = runRule(rl, in)
		}(i, rl)
	}

	wg.Wait()

	return outcomes
}
