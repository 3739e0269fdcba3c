package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/starford/dayglow/internal"
	"github.com/starford/dayglow/internal/apperr"
	pkgconfig "github.com/starford/dayglow/pkg/config"
)

func loadConfig(cmd *cli.Command) (*internal.Config, error) {
	configPath := cmd.String("config")

	cfg := internal.NewDefaultConfig()
	if err := pkgconfig.Load(configPath, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

func newApp(cmd *cli.Command) (*internal.App, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	return internal.New(internal.WithConfig(cfg))
}

func apply(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	opts := []internal.Option{
		internal.WithConfig(cfg),
	}

	if err := internal.Run(ctx, opts...); err != nil {
		return fmt.Errorf("app run error: %w", err)
	}

	return nil
}

func location(ctx context.Context, cmd *cli.Command) error {
	app, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer app.Close()
	return printJSON(app.Location(ctx))
}

func reset(_ context.Context, cmd *cli.Command) error {
	app, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer app.Close()
	if err := app.Reset(); err != nil {
		return fmt.Errorf("reset location: %w", err)
	}
	fmt.Println("Location cache cleared.")
	return nil
}

func showPhase(_ context.Context, cmd *cli.Command) error {
	var at time.Time
	if s := cmd.String("at"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return fmt.Errorf("invalid --at: %w", err)
		}
		at = t
	}

	app, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer app.Close()

	report, err := app.Phase(at)
	if err != nil {
		return err
	}
	return printJSON(report)
}

func watchLoop(ctx context.Context, cmd *cli.Command) error {
	app, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer app.Close()
	return app.Watch(ctx, cmd.Duration("interval"))
}

func importCities(_ context.Context, cmd *cli.Command) error {
	path := cmd.Args().First()
	if path == "" {
		return errors.New("usage: dayglow cities import <file.csv>")
	}
	app, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer app.Close()

	stats, err := app.ImportCities(path)
	if err != nil {
		return fmt.Errorf("import cities: %w", err)
	}
	fmt.Printf("Imported %d cities, skipped %d rows.\n", stats.Imported, stats.Skipped)
	return nil
}

func lookupCity(_ context.Context, cmd *cli.Command) error {
	name := cmd.Args().First()
	if name == "" {
		return errors.New("usage: dayglow cities lookup <name>")
	}
	app, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer app.Close()

	loc, err := app.LookupCity(name)
	if errors.Is(err, apperr.ErrNotFound) {
		return fmt.Errorf("city %q not found", name)
	}
	if err != nil {
		return err
	}
	return printJSON(loc)
}

func serveMCP(_ context.Context, cmd *cli.Command) error {
	app, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer app.Close()
	return app.MCP().ServeStdio()
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "    ")
	return enc.Encode(v)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := &cli.Command{
		Name:   "dayglow",
		Usage:  "Sets the desktop wallpaper to match the sun's position at your location",
		Action: apply,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Path to config file",
				DefaultText: "~/.config/dayglow/config.yaml",
				Value:       "~/.config/dayglow/config.yaml",
				Sources:     cli.EnvVars("DAYGLOW_CONFIG_FILE"),
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "apply",
				Usage:  "Resolve the location and set the wallpaper for the current phase",
				Action: apply,
			},
			{
				Name:   "location",
				Usage:  "Resolve the location and print it",
				Action: location,
			},
			{
				Name:   "reset",
				Usage:  "Forget the cached location",
				Action: reset,
			},
			{
				Name:  "phase",
				Usage: "Print the phase bucket and today's solar events",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "at",
						Usage: "Evaluate at this RFC 3339 instant instead of now",
					},
				},
				Action: showPhase,
			},
			{
				Name:  "watch",
				Usage: "Keep the wallpaper in sync with the sun",
				Flags: []cli.Flag{
					&cli.DurationFlag{
						Name:    "interval",
						Usage:   "Re-apply interval (defaults to watch.interval from the config)",
						Sources: cli.EnvVars("DAYGLOW_WATCH_INTERVAL"),
					},
				},
				Action: watchLoop,
			},
			{
				Name:  "cities",
				Usage: "Manage the offline city database",
				Commands: []*cli.Command{
					{
						Name:      "import",
						Usage:     "Import cities from a CSV file (name,region,timezone,latitude,longitude[,population])",
						ArgsUsage: "<file.csv>",
						Action:    importCities,
					},
					{
						Name:      "lookup",
						Usage:     "Look up a city by name",
						ArgsUsage: "<name>",
						Action:    lookupCity,
					},
				},
			},
			{
				Name:   "mcp",
				Usage:  "Serve the MCP tools on stdin/stdout",
				Action: serveMCP,
			},
		},
	}

	if err := cmd.Run(ctx, os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
