// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/starford/dayglow/internal/apperr"
	"github.com/starford/dayglow/internal/gazetteer"
	"github.com/starford/dayglow/internal/geo"
	"github.com/starford/dayglow/internal/mcpserver"
	"github.com/starford/dayglow/internal/models"
	"github.com/starford/dayglow/internal/phase"
	"github.com/starford/dayglow/internal/prompt"
	"github.com/starford/dayglow/internal/resolver"
	"github.com/starford/dayglow/internal/solar"
	"github.com/starford/dayglow/internal/storage"
	"github.com/starford/dayglow/internal/wallpaper"
	"github.com/starford/dayglow/internal/watch"
	pkgconfig "github.com/starford/dayglow/pkg/config"
)

// App wires location resolution, phase selection and the wallpaper applier.
type App struct {
	cfg      *Config
	logger   *slog.Logger
	console  *prompt.Console
	store    *storage.FS
	cities   *gazetteer.DB
	resolver *resolver.Resolver
	clock    solar.Clock
	applier  *wallpaper.Applier
	now      func() time.Time
}

// New builds the application from the given options.
func New(opts ...Option) (*App, error) {
	app := &application{
		in:     os.Stdin,
		out:    os.Stdout,
		logOut: os.Stderr,
		runner: wallpaper.ExecRunner{},
		now:    time.Now,
		goos:   runtime.GOOS,
	}
	app.session = os.Getenv("XDG_CURRENT_DESKTOP")

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return nil, fmt.Errorf("config is required")
	}

	cfg := app.config

	logger := slog.New(slog.NewJSONHandler(app.logOut, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	store, err := storage.NewFS(pkgconfig.ExpandHome(cfg.Location.CachePath))
	if err != nil {
		return nil, fmt.Errorf("init location store: %w", err)
	}

	cities, err := openGazetteer(pkgconfig.ExpandHome(cfg.Gazetteer.Path))
	if err != nil {
		logger.Warn("gazetteer unavailable, manual entry will use online lookup only",
			slog.String("path", cfg.Gazetteer.Path),
			slog.String("error", err.Error()))
	}

	desktop := cfg.Wallpaper.Desktop
	if desktop == wallpaper.DesktopAuto {
		desktop = wallpaper.Detect(app.goos, app.session)
	}
	images := wallpaper.ImageStore{
		Dir:    pkgconfig.ExpandHome(cfg.Wallpaper.Dir),
		Prefix: cfg.Wallpaper.Prefix,
		Ext:    cfg.Wallpaper.Ext,
	}

	logger.Debug("configuration loaded",
		slog.String("cache_path", store.Path()),
		slog.String("image_dir", images.Dir),
		slog.String("desktop", desktop),
		slog.String("log_level", cfg.App.LogLevel.String()))

	console := prompt.NewConsole(app.in, app.out)
	a := &App{
		cfg:     cfg,
		logger:  logger,
		console: console,
		store:   store,
		cities:  cities,
		applier: wallpaper.NewApplier(images, logger, wallpaper.SettersFor(desktop, app.runner, app.evaluate)...),
		now:     app.now,
	}

	deps := resolver.Deps{
		Store:     store,
		Prompt:    console,
		Locator:   geo.NewIPInfo(cfg.Network.IPInfoURL, cfg.Network.IPTimeout),
		Gazetteer: noGazetteer{},
		Geocoder:  geo.NewNominatim(cfg.Network.GeocodeURL, cfg.Network.UserAgent, cfg.Network.GeocodeTimeout),
		Timezones: geo.NewTimezoneFinder(),
		Fallback:  cfg.Location.Default,
		Logger:    logger,
	}
	if cities != nil {
		deps.Gazetteer = cities
	}
	a.resolver = resolver.NewStandard(deps)

	return a, nil
}

// Close releases the gazetteer database.
func (a *App) Close() error {
	if a.cities == nil {
		return nil
	}
	return a.cities.Close()
}

// applyTimeout bounds the wallpaper commands once the location is known.
const applyTimeout = 30 * time.Second

// Apply resolves the location and sets the wallpaper for the current phase.
// Runtime failures are reported to the user and logged but never returned.
func (a *App) Apply(ctx context.Context) error {
	return a.applyFor(ctx, a.resolver.Resolve(ctx))
}

// applyFor sets the wallpaper for loc. An interrupt during the prompts only
// ends resolution, so the setters run on a context detached from ctx.
func (a *App) applyFor(ctx context.Context, loc models.Location) error {
	images := a.applier.Images()
	if err := images.CheckDir(); err != nil {
		a.console.Say("Error: image folder not found: %s", images.Dir)
		a.logger.Warn("apply: image folder missing", slog.String("error", err.Error()))
		return nil
	}

	bucket, err := phase.Select(a.clock, loc, a.now())
	if err != nil {
		a.logger.Warn("apply: phase selection failed",
			slog.String("location", loc.String()),
			slog.String("error", err.Error()))
		return nil
	}

	applyCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), applyTimeout)
	defer cancel()
	if a.applier.Apply(applyCtx, bucket) {
		a.console.Say("Wallpaper set: %s (%s)", filepath.Base(images.Path(bucket)), loc)
	}
	return nil
}

// Location resolves the location, prompting when nothing is cached.
func (a *App) Location(ctx context.Context) models.Location {
	return a.resolver.Resolve(ctx)
}

// Reset deletes the cached location.
func (a *App) Reset() error {
	if err := a.store.Clear(); err != nil {
		return err
	}
	a.logger.Info("location cache cleared", slog.String("path", a.store.Path()))
	return nil
}

// Phase reports the bucket and solar events at the given instant for the
// cached location, or the default location when nothing is cached.
func (a *App) Phase(at time.Time) (phase.Report, error) {
	if at.IsZero() {
		at = a.now()
	}
	return phase.Describe(a.clock, a.cachedOrDefault(), at)
}

// Watch re-applies the wallpaper on every interval and whenever the image
// folder or the cached location file changes. The location is resolved once
// up front; later runs re-read the cache and otherwise reuse that result.
func (a *App) Watch(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = a.cfg.Watch.Interval
	}
	resolved := a.resolver.Resolve(ctx)
	if ctx.Err() != nil {
		return nil
	}

	paths := []string{a.applier.Images().Dir, a.store.Path()}
	return watch.Watch(ctx, interval, paths, a.logger, func(ctx context.Context) error {
		loc, err := a.store.Load()
		if err != nil {
			loc = resolved
		}
		return a.applyFor(ctx, loc)
	})
}

// ImportCities loads a CSV file of cities into the gazetteer.
func (a *App) ImportCities(path string) (gazetteer.ImportStats, error) {
	if a.cities == nil {
		return gazetteer.ImportStats{}, errors.New("gazetteer is not available")
	}
	f, err := os.Open(path)
	if err != nil {
		return gazetteer.ImportStats{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return a.cities.Import(f)
}

// LookupCity searches the gazetteer.
func (a *App) LookupCity(name string) (models.Location, error) {
	if a.cities == nil {
		return models.Location{}, apperr.ErrNotFound
	}
	return a.cities.Lookup(name)
}

// MCP returns an MCP server over the application's components.
func (a *App) MCP() *mcpserver.Server {
	var cities mcpserver.Gazetteer = noGazetteer{}
	if a.cities != nil {
		cities = a.cities
	}
	return mcpserver.New(mcpserver.Deps{
		Store:     a.store,
		Gazetteer: cities,
		Clock:     a.clock,
		Applier:   a.applier,
		Fallback:  a.cfg.Location.Default,
		Now:       a.now,
	})
}

func (a *App) cachedOrDefault() models.Location {
	loc, err := a.store.Load()
	if err != nil {
		return a.cfg.Location.Default
	}
	return loc
}

// Run applies the wallpaper once.
func Run(ctx context.Context, opts ...Option) error {
	app, err := New(opts...)
	if err != nil {
		return err
	}
	defer app.Close()
	return app.Apply(ctx)
}

func openGazetteer(path string) (*gazetteer.DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create gazetteer dir: %w", err)
	}
	return gazetteer.Open(path)
}

// noGazetteer stands in when the city database cannot be opened.
type noGazetteer struct{}

func (noGazetteer) Lookup(string) (models.Location, error) {
	return models.Location{}, apperr.ErrNotFound
}
