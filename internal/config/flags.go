package config

import (
	"flag"
	"time"
)

// Flags are the command-line overrides. Only flags the user actually set
// replace file or environment values.
type Flags struct {
	fs *flag.FlagSet

	configPath      string
	logLevel        string
	siteURL         string
	downloadDir     string
	desktopDir      string
	historyFile     string
	width           int
	height          int
	fit             string
	multiScreen     bool
	noNotify        bool
	icon            string
	pageTimeout     time.Duration
	downloadTimeout time.Duration
}

// RegisterFlags defines the configuration flags on fs.
func RegisterFlags(fs *flag.FlagSet) *Flags {
	f := &Flags{fs: fs}
	d := Default()

	fs.StringVar(&f.configPath, "config", "", "Path to YAML config file (default "+DefaultPath()+")")
	fs.StringVar(&f.logLevel, "log-level", d.LogLevel, "Log level (debug, info, warn, error)")
	fs.StringVar(&f.siteURL, "site-url", d.SiteURL, "APOD page to read")
	fs.StringVar(&f.downloadDir, "download-dir", d.DownloadDir, "Directory for downloaded pictures")
	fs.StringVar(&f.desktopDir, "desktop-dir", d.DesktopDir, "Directory for launcher files")
	fs.StringVar(&f.historyFile, "history-file", "", "History file (default <download-dir>/"+HistoryFileName+")")
	fs.IntVar(&f.width, "width", d.Resolution.Width, "Target width in pixels")
	fs.IntVar(&f.height, "height", d.Resolution.Height, "Target height in pixels")
	fs.StringVar(&f.fit, "fit", d.Fit, "How to fit the picture (stretch, letterbox)")
	fs.BoolVar(&f.multiScreen, "multi-screen", d.MultiScreen, "Span the picture across all monitors")
	fs.BoolVar(&f.noNotify, "no-notify", false, "Disable desktop notifications")
	fs.StringVar(&f.icon, "icon", "", "Icon for the main launcher and notifications")
	fs.DurationVar(&f.pageTimeout, "page-timeout", d.PageTimeout, "Timeout for reading the APOD page")
	fs.DurationVar(&f.downloadTimeout, "download-timeout", d.DownloadTimeout, "Timeout for downloading the picture")
	return f
}

// ConfigPath returns the --config value.
func (f *Flags) ConfigPath() string {
	return f.configPath
}

// Apply copies the flags that were set on the command line into c.
func (f *Flags) Apply(c *Config) {
	f.fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "log-level":
			c.LogLevel = f.logLevel
		case "site-url":
			c.SiteURL = f.siteURL
		case "download-dir":
			c.DownloadDir = f.downloadDir
		case "desktop-dir":
			c.DesktopDir = f.desktopDir
		case "history-file":
			c.HistoryFile = f.historyFile
		case "width":
			c.Resolution.Width = f.width
		case "height":
			c.Resolution.Height = f.height
		case "fit":
			c.Fit = f.fit
		case "multi-screen":
			c.MultiScreen = f.multiScreen
		case "no-notify":
			c.Notify = !f.noNotify
		case "icon":
			c.Icon = f.icon
		case "page-timeout":
			c.PageTimeout = f.pageTimeout
		case "download-timeout":
			c.DownloadTimeout = f.downloadTimeout
		}
	})
}
