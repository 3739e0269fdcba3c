package resolver

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/starford/dayglow/internal/models"
)

// IPLocator finds the location associated with the public IP address.
type IPLocator interface {
	Locate(ctx context.Context) (models.Location, error)
}

// IPLookup detects the location by IP and asks the user to confirm it.
type IPLookup struct {
	Locator IPLocator
	Prompt  Prompter
	Logger  *slog.Logger
}

// Resolve implements Strategy.
func (s IPLookup) Resolve(ctx context.Context) (models.Location, bool) {
	s.Prompt.Say("--- Initial location setup ---")
	s.Prompt.Say("Attempt 1: detecting your city by IP address...")

	loc, err := s.Locator.Locate(ctx)
	if err != nil {
		s.Logger.Warn("resolver: ip geolocation failed", slog.String("error", err.Error()))
		s.Prompt.Say("Could not detect your city automatically (possibly a VPN or a network error).")
		return models.Location{}, false
	}

	question := fmt.Sprintf("We detected your city as '%s, %s'. Is that correct? [Y/n]: ", loc.Name, loc.Region)
	answer, err := s.Prompt.Ask(ctx, question)
	if err != nil {
		return models.Location{}, false
	}
	if !confirmed(answer) {
		return models.Location{}, false
	}
	return loc, true
}

// confirmed reports whether answer accepts a [Y/n] question. An empty
// answer accepts.
func confirmed(answer string) bool {
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "", "y", "yes", "д", "да":
		return true
	}
	return false
}
