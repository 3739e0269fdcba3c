package internal

import (
	"fmt"
	"log/slog"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/dayglow/internal/models"
	"github.com/starford/dayglow/internal/wallpaper"
)

// Config represents the application configuration.
type Config struct {
	App       ApplicationConfig `yaml:"app"`
	Location  LocationConfig    `yaml:"location"`
	Network   NetworkConfig     `yaml:"network"`
	Gazetteer GazetteerConfig   `yaml:"gazetteer"`
	Wallpaper WallpaperConfig   `yaml:"wallpaper"`
	Watch     WatchConfig       `yaml:"watch"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.Location.Validate(); err != nil {
		return fmt.Errorf("location: %w", err)
	}
	if err := c.Network.Validate(); err != nil {
		return fmt.Errorf("network: %w", err)
	}
	if err := c.Gazetteer.Validate(); err != nil {
		return fmt.Errorf("gazetteer: %w", err)
	}
	if err := c.Wallpaper.Validate(); err != nil {
		return fmt.Errorf("wallpaper: %w", err)
	}
	return c.Watch.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
}

// LocationConfig controls where the resolved location is cached and what
// is used when the user gives up on resolution.
type LocationConfig struct {
	CachePath string          `yaml:"cache_path"`
	Default   models.Location `yaml:"default"`
}

// Validate validates the location configuration.
func (c *LocationConfig) Validate() error {
	if err := validation.ValidateStruct(c,
		validation.Field(&c.CachePath, validation.Required),
	); err != nil {
		return err
	}
	return c.Default.Validate()
}

// NetworkConfig holds the outbound endpoints used during resolution.
type NetworkConfig struct {
	IPInfoURL      string        `yaml:"ipinfo_url"`
	GeocodeURL     string        `yaml:"geocode_url"`
	UserAgent      string        `yaml:"user_agent"`
	IPTimeout      time.Duration `yaml:"ip_timeout"`
	GeocodeTimeout time.Duration `yaml:"geocode_timeout"`
}

// Validate validates the network configuration.
func (c *NetworkConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.IPInfoURL, validation.Required),
		validation.Field(&c.GeocodeURL, validation.Required),
		validation.Field(&c.UserAgent, validation.Required),
		validation.Field(&c.IPTimeout, validation.Required, validation.Min(time.Millisecond)),
		validation.Field(&c.GeocodeTimeout, validation.Required, validation.Min(time.Millisecond)),
	)
}

// GazetteerConfig holds the offline city database location.
type GazetteerConfig struct {
	Path string `yaml:"path"`
}

// Validate validates the gazetteer configuration.
func (c *GazetteerConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// WallpaperConfig describes the image store and the desktop to drive.
type WallpaperConfig struct {
	Dir     string `yaml:"dir"`
	Prefix  string `yaml:"prefix"`
	Ext     string `yaml:"ext"`
	Desktop string `yaml:"desktop"`
}

// Validate validates the wallpaper configuration.
func (c *WallpaperConfig) Validate() error {
	if c.Desktop == "" {
		c.Desktop = wallpaper.DesktopAuto
	}
	return validation.ValidateStruct(c,
		validation.Field(&c.Dir, validation.Required),
		validation.Field(&c.Ext, validation.Required),
		validation.Field(&c.Desktop, validation.Required, validation.In(
			wallpaper.DesktopAuto,
			wallpaper.DesktopKDE,
			wallpaper.DesktopGNOME,
			wallpaper.DesktopMATE,
			wallpaper.DesktopCinnamon,
			wallpaper.DesktopDarwin,
		)),
	)
}

// WatchConfig holds the re-apply interval of watch mode.
type WatchConfig struct {
	Interval time.Duration `yaml:"interval"`
}

// Validate validates the watch configuration.
func (c *WatchConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Interval, validation.Required, validation.Min(time.Second)),
	)
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelWarn,
		},
		Location: LocationConfig{
			CachePath: "~/.local/bin/location.json",
			Default:   models.DefaultLocation(),
		},
		Network: NetworkConfig{
			IPInfoURL:      "https://ipinfo.io/json",
			GeocodeURL:     "https://nominatim.openstreetmap.org/search",
			UserAgent:      "dayglow/1.0",
			IPTimeout:      5 * time.Second,
			GeocodeTimeout: 10 * time.Second,
		},
		Gazetteer: GazetteerConfig{
			Path: "~/.local/share/dayglow/cities.db",
		},
		Wallpaper: WallpaperConfig{
			Dir:     "~/Pictures/Mojave",
			Prefix:  "mojave_dynamic_",
			Ext:     ".jpeg",
			Desktop: wallpaper.DesktopAuto,
		},
		Watch: WatchConfig{
			Interval: 5 * time.Minute,
		},
	}
}
