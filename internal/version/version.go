// Package version provides build and version information.
package version

// Version is the current application version.
const Version = "0.3.0"

// Name is the program name used in launchers, notifications and requests.
const Name = "apod-desktop"

// UserAgent identifies HTTP requests made by the program.
func UserAgent() string {
	return Name + "/" + Version + " (NASA APOD wallpaper)"
}

// Milestones:
// 0.3.0 - Letterbox fit, history listing, progress bar on terminals
// 0.2.0 - Desktop launchers, notifications, YAML config
// 0.1.0 - Initial release: fetch, resize, set wallpaper, next/previous history
