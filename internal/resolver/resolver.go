// Package resolver determines the user's location through an ordered chain
// of fallback tiers: the cached location, IP geolocation, and manual entry
// resolved against the offline gazetteer or an online geocoder. When every
// tier comes up empty a fixed default location is used.
package resolver

import (
	"context"
	"log/slog"

	"github.com/starford/dayglow/internal/models"
	"github.com/starford/dayglow/internal/storage"
)

// Prompter asks the user for input. Ask reports end of input or an
// interrupt as an error wrapping apperr.ErrCancelled.
type Prompter interface {
	Ask(ctx context.Context, question string) (string, error)
	Say(format string, args ...any)
}

// Strategy is one way of obtaining a location. It reports false when it
// could not produce one; failures are handled inside the strategy.
type Strategy interface {
	Resolve(ctx context.Context) (models.Location, bool)
}

// StrategyFunc adapts a function to Strategy.
type StrategyFunc func(ctx context.Context) (models.Location, bool)

// Resolve calls f.
func (f StrategyFunc) Resolve(ctx context.Context) (models.Location, bool) {
	return f(ctx)
}

// Step is one tier of the resolution chain.
type Step struct {
	Name     string
	Strategy Strategy
	// Persist saves the location to the store when this step produces it.
	Persist bool
}

// Resolver runs the chain of steps. The first step that yields a location
// wins.
type Resolver struct {
	store    storage.Provider
	steps    []Step
	fallback models.Location
	prompt   Prompter
	logger   *slog.Logger
}

// New creates a resolver over the given steps.
func New(store storage.Provider, fallback models.Location, prompt Prompter, logger *slog.Logger, steps ...Step) *Resolver {
	return &Resolver{
		store:    store,
		steps:    steps,
		fallback: fallback,
		prompt:   prompt,
		logger:   logger,
	}
}

// Resolve always returns a usable location.
func (r *Resolver) Resolve(ctx context.Context) models.Location {
	for _, step := range r.steps {
		loc, ok := step.Strategy.Resolve(ctx)
		if !ok {
			r.logger.Debug("resolver: step yielded nothing", slog.String("step", step.Name))
			continue
		}
		r.logger.Info("resolver: location resolved",
			slog.String("step", step.Name),
			slog.String("name", loc.Name),
			slog.String("timezone", loc.Timezone))
		if step.Persist {
			r.persist(loc)
		}
		return loc
	}

	r.prompt.Say("Setup cancelled. Using the default location (%s).", r.fallback)
	r.logger.Info("resolver: using default location", slog.String("name", r.fallback.Name))
	return r.fallback
}

func (r *Resolver) persist(loc models.Location) {
	if err := r.store.Save(loc); err != nil {
		r.logger.Warn("resolver: save location failed", slog.String("error", err.Error()))
		return
	}
	if p, ok := r.store.(interface{ Path() string }); ok {
		r.prompt.Say("Location saved to: %s", p.Path())
	}
}
