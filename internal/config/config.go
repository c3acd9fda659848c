// Package config loads apod-desktop settings from defaults, a YAML file,
// APOD_* environment variables and command-line flags, in that order.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/litescript/apod-desktop/internal/apod"
	"github.com/litescript/apod-desktop/internal/imagery"
	"github.com/litescript/apod-desktop/internal/version"
)

// HistoryFileName is the state file created inside the download directory
// when no history_file is configured.
const HistoryFileName = "history.json"

// Resolution is the target picture size in pixels.
type Resolution struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// Config is the complete program configuration.
type Config struct {
	SiteURL         string        `yaml:"site_url"`
	DownloadDir     string        `yaml:"download_dir"`
	DesktopDir      string        `yaml:"desktop_dir"`
	HistoryFile     string        `yaml:"history_file"`
	Resolution      Resolution    `yaml:"resolution"`
	Fit             string        `yaml:"fit"`          // stretch | letterbox
	MultiScreen     bool          `yaml:"multi_screen"` // span across monitors
	Notify          bool          `yaml:"notify"`
	Icon            string        `yaml:"icon"`
	LogLevel        string        `yaml:"log_level"`
	PageTimeout     time.Duration `yaml:"page_timeout"`
	DownloadTimeout time.Duration `yaml:"download_timeout"`
}

// Default returns the built-in configuration. Paths still contain "~"
// until Finalize runs.
func Default() Config {
	return Config{
		SiteURL:         apod.DefaultSiteURL,
		DownloadDir:     "~/backgrounds",
		DesktopDir:      "~/Desktop",
		Resolution:      Resolution{Width: imagery.DefaultWidth, Height: imagery.DefaultHeight},
		Fit:             string(imagery.FitStretch),
		Notify:          true,
		LogLevel:        "info",
		PageTimeout:     apod.DefaultTimeout,
		DownloadTimeout: imagery.DefaultTimeout,
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/apod-desktop/config.yaml, or "" when
// the user config directory is unknown.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, version.Name, "config.yaml")
}

// Load builds a Config from defaults, the YAML file at path and the
// environment. An empty path means DefaultPath, which may be absent.
func Load(path string, getenv func(string) string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}
	if path != "" {
		err := cfg.LoadFile(path)
		switch {
		case err == nil:
		case !explicit && errors.Is(err, fs.ErrNotExist):
		default:
			return cfg, err
		}
	}

	if getenv == nil {
		getenv = os.Getenv
	}
	if err := cfg.ApplyEnv(getenv); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// LoadFile merges a YAML file into c. Keys missing from the file keep
// their current values.
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overrides fields from APOD_* variables.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	str := map[string]*string{
		"APOD_SITE_URL":     &c.SiteURL,
		"APOD_DOWNLOAD_DIR": &c.DownloadDir,
		"APOD_DESKTOP_DIR":  &c.DesktopDir,
		"APOD_HISTORY_FILE": &c.HistoryFile,
		"APOD_FIT":          &c.Fit,
		"APOD_ICON":         &c.Icon,
		"APOD_LOG_LEVEL":    &c.LogLevel,
	}
	for key, dst := range str {
		if val := getenv(key); val != "" {
			*dst = val
		}
	}

	ints := map[string]*int{
		"APOD_WIDTH":  &c.Resolution.Width,
		"APOD_HEIGHT": &c.Resolution.Height,
	}
	for key, dst := range ints {
		if val := getenv(key); val != "" {
			n, err := strconv.Atoi(val)
			if err != nil {
				return fmt.Errorf("%s: %w", key, err)
			}
			*dst = n
		}
	}

	bools := map[string]*bool{
		"APOD_MULTI_SCREEN": &c.MultiScreen,
		"APOD_NOTIFY":       &c.Notify,
	}
	for key, dst := range bools {
		if val := getenv(key); val != "" {
			b, err := strconv.ParseBool(val)
			if err != nil {
				return fmt.Errorf("%s: %w", key, err)
			}
			*dst = b
		}
	}

	durations := map[string]*time.Duration{
		"APOD_PAGE_TIMEOUT":     &c.PageTimeout,
		"APOD_DOWNLOAD_TIMEOUT": &c.DownloadTimeout,
	}
	for key, dst := range durations {
		if val := getenv(key); val != "" {
			d, err := time.ParseDuration(val)
			if err != nil {
				return fmt.Errorf("%s: %w", key, err)
			}
			*dst = d
		}
	}
	return nil
}

// Finalize expands "~" in paths and fills in the history file location.
func (c *Config) Finalize() error {
	for _, p := range []*string{&c.DownloadDir, &c.DesktopDir, &c.HistoryFile, &c.Icon} {
		expanded, err := ExpandHome(*p)
		if err != nil {
			return err
		}
		*p = expanded
	}
	if c.HistoryFile == "" {
		c.HistoryFile = filepath.Join(c.DownloadDir, HistoryFileName)
	}
	return nil
}

// Validate checks the configuration for values the program cannot use.
func (c Config) Validate() error {
	var errs []error
	if c.Resolution.Width <= 0 || c.Resolution.Height <= 0 {
		errs = append(errs, fmt.Errorf("resolution must be positive, got %dx%d", c.Resolution.Width, c.Resolution.Height))
	}
	if _, err := imagery.ParseFit(c.Fit); err != nil {
		errs = append(errs, err)
	}
	if u, err := url.Parse(c.SiteURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs = append(errs, fmt.Errorf("site_url must be an http(s) URL, got %q", c.SiteURL))
	}
	if c.DownloadDir == "" {
		errs = append(errs, errors.New("download_dir is required"))
	}
	if c.PageTimeout < 0 || c.DownloadTimeout < 0 {
		errs = append(errs, errors.New("timeouts must not be negative"))
	}
	return errors.Join(errs...)
}

// ExpandHome replaces a leading "~" with the user's home directory.
func ExpandHome(p string) (string, error) {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("expand %s: %w", p, err)
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~")), nil
}
