package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/nao1215/spider/internal/model"
)

// Step is one stage of a run. Steps are executed in sequence, each one
// receiving the report filled in by the previous steps.
type Step interface {
	// Do executes the step. Problems with single URLs are recorded in the
	// report; an error means the step itself could not complete.
	Do(ctx context.Context, report *model.RunReport) error

	// Name returns the step's name for logging purposes.
	Name() string
}

// Pipeline executes steps in order.
type Pipeline struct {
	// steps contains the ordered list of steps to execute.
	steps []Step

	// logger is used for structured logging during execution.
	logger *slog.Logger

	// continueOnError keeps running the remaining steps after one fails.
	continueOnError bool

	// now returns the current time; replaced in tests.
	now func() time.Time
}

// Option is a function that configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets a custom logger for the pipeline.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// WithContinueOnError configures the pipeline to continue execution
// when a step fails. The error is still recorded in the report.
// Cancellation always stops the pipeline.
func WithContinueOnError(continueOnError bool) Option {
	return func(p *Pipeline) {
		p.continueOnError = continueOnError
	}
}

// New creates a new Pipeline with the given options.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{
		steps: make([]Step, 0),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}
	return p
}

// AddStep appends a step to the pipeline.
func (p *Pipeline) AddStep(step Step) {
	p.steps = append(p.steps, step)
}

// AddSteps appends multiple steps to the pipeline.
func (p *Pipeline) AddSteps(steps ...Step) {
	p.steps = append(p.steps, steps...)
}

// Execute runs all steps in sequence and sets report.FinishedAt when it
// returns.
//
// It returns the first step error unless continueOnError is set, and
// ctx.Err() when the run was cancelled.
func (p *Pipeline) Execute(ctx context.Context, report *model.RunReport) error {
	defer func() {
		report.FinishedAt = p.now()
	}()

	for _, step := range p.steps {
		if err := ctx.Err(); err != nil {
			return p.cancel(report, step, err)
		}

		p.logger.Debug("executing step", "step", step.Name(), "seed", report.Seed)

		err := step.Do(ctx, report)
		report.PerformedSteps = append(report.PerformedSteps, step.Name())

		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
				return p.cancel(report, step, ctxErr)
			}

			p.logger.Error("step failed", "step", step.Name(), "seed", report.Seed, "error", err)
			report.Error = err
			report.ErrorMessage = err.Error()
			if !p.continueOnError {
				return err
			}
			continue
		}

		p.logger.Debug("step completed", "step", step.Name(), "seed", report.Seed)
	}

	return nil
}

func (p *Pipeline) cancel(report *model.RunReport, step Step, err error) error {
	p.logger.Warn("pipeline cancelled", "step", step.Name(), "reason", err)
	report.Cancelled = true
	return err
}

// StepCount returns the number of steps in the pipeline.
func (p *Pipeline) StepCount() int {
	return len(p.steps)
}

// StepNames returns the names of all steps in execution order.
func (p *Pipeline) StepNames() []string {
	names := make([]string, len(p.steps))
	for i, step := range p.steps {
		names[i] = step.Name()
	}
	return names
}
