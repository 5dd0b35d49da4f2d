// Package pipeline runs ordered sequences of named steps.
package pipeline

import (
	"context"
	"fmt"
)

// Step is one named unit of a sequence.
type Step struct {
	Name string
	Run  func(ctx context.Context) error
}

// StepResult records how a step finished.
type StepResult struct {
	Name string
	Err  error
}

// Names returns the names of the steps in order.
func Names(results []StepResult) []string {
	names := make([]string, len(results))
	for i, r := range results {
		names[i] = r.Name
	}
	return names
}

// RunGuarded executes every step in order. A step that fails or panics does
// not prevent the following steps from running.
func RunGuarded(ctx context.Context, steps []Step) []StepResult {
	results := make([]StepResult, 0, len(steps))
	for _, s := range steps {
		results = append(results, StepResult{Name: s.Name, Err: runStep(ctx, s)})
	}
	return results
}

func runStep(ctx context.Context, s Step) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("step %s panicked: %v", s.Name, r)
		}
	}()
	return s.Run(ctx)
}

// FirstError returns the first step error, or nil.
func FirstError(results []StepResult) error {
	for _, r := range results {
		if r.Err != nil {
			return fmt.Errorf("%s: %w", r.Name, r.Err)
		}
	}
	return nil
}
