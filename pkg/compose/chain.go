// Package compose turns a character profile into provider-ready text: image
// prompts, voice descriptions and sample lines. Model-backed strategies are
// paired with deterministic builders that never fail.
package compose

import (
	"context"
	"errors"

	"github.com/charmbracelet/log"
)

// ErrNoResult is returned by a Chain whose steps all declined.
var ErrNoResult = errors.New("no strategy produced a usable result")

// Step is one strategy in a fallback chain. Returning ok=false with a nil
// error means the step ran but its output was not usable.
type Step[T any] struct {
	Name string
	Run  func(ctx context.Context) (T, bool, error)
}

// Chain tries its steps in order and keeps the first usable result.
type Chain[T any] []Step[T]

// Run returns the first usable result together with the name of the step
// that produced it. Failures of earlier steps are logged, not returned, unless
// every step fails.
func (c Chain[T]) Run(ctx context.Context) (T, string, error) {
	var zero T
	lastErr := ErrNoResult
	for _, step := range c {
		v, ok, err := step.Run(ctx)
		switch {
		case err != nil:
			log.Warn("strategy failed, falling back", "step", step.Name, "error", err)
			lastErr = err
		case !ok:
			log.Warn("strategy returned unusable output, falling back", "step", step.Name)
		default:
			return v, step.Name, nil
		}
	}
	return zero, "", lastErr
}

// Static wraps a total function as a step that always succeeds.
func Static[T any](name string, fn func() T) Step[T] {
	return Step[T]{
		Name: name,
		Run: func(context.Context) (T, bool, error) {
			return fn(), true, nil
		},
	}
}
