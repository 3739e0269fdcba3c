package wallpaper

import (
	"strconv"
	"strings"
)

// Desktop identifiers accepted by the configuration.
const (
	DesktopAuto     = "auto"
	DesktopKDE      = "kde"
	DesktopGNOME    = "gnome"
	DesktopMATE     = "mate"
	DesktopCinnamon = "cinnamon"
	DesktopDarwin   = "darwin"
)

// Detect maps the running session to a desktop identifier. xdgCurrentDesktop
// is the value of $XDG_CURRENT_DESKTOP. KDE is assumed when nothing matches.
func Detect(goos, xdgCurrentDesktop string) string {
	if goos == "darwin" {
		return DesktopDarwin
	}
	for _, d := range strings.Split(strings.ToLower(xdgCurrentDesktop), ":") {
		switch d {
		case "kde":
			return DesktopKDE
		case "gnome", "unity", "ubuntu", "pop":
			return DesktopGNOME
		case "mate":
			return DesktopMATE
		case "x-cinnamon", "cinnamon":
			return DesktopCinnamon
		}
	}
	return DesktopKDE
}

// SettersFor returns the setter tiers for desktop, in the order they are tried.
func SettersFor(desktop string, r Runner, evaluate ScriptEvaluator) []Setter {
	switch desktop {
	case DesktopGNOME:
		return []Setter{GSettings(r)}
	case DesktopMATE:
		return []Setter{MATE(r)}
	case DesktopCinnamon:
		return []Setter{Cinnamon(r)}
	case DesktopDarwin:
		return []Setter{AppleScript(r)}
	default:
		return []Setter{PlasmaApply(r), PlasmaDBus(evaluate), QDBus(r)}
	}
}

// GSettings sets both the light and dark GNOME background.
func GSettings(r Runner) Setter {
	return command{
		name:   "gsettings",
		runner: r,
		args: func(path string) [][]string {
			uri := "file://" + path
			return [][]string{
				{"gsettings", "set", "org.gnome.desktop.background", "picture-uri", uri},
				{"gsettings", "set", "org.gnome.desktop.background", "picture-uri-dark", uri},
			}
		},
	}
}

// MATE writes the MATE background key with dconf.
func MATE(r Runner) Setter {
	return command{
		name:   "dconf-mate",
		runner: r,
		args: func(path string) [][]string {
			return [][]string{{"dconf", "write", "/org/mate/desktop/background/picture-filename", strconv.Quote(path)}}
		},
	}
}

// Cinnamon writes the Cinnamon background key with dconf.
func Cinnamon(r Runner) Setter {
	return command{
		name:   "dconf-cinnamon",
		runner: r,
		args: func(path string) [][]string {
			return [][]string{{"dconf", "write", "/org/cinnamon/desktop/background/picture-uri", strconv.Quote("file://" + path)}}
		},
	}
}

// AppleScript asks System Events to change every desktop's picture.
func AppleScript(r Runner) Setter {
	return command{
		name:   "osascript",
		runner: r,
		args: func(path string) [][]string {
			return [][]string{{"osascript", "-e", `tell application "System Events" to tell every desktop to set picture to ` + strconv.Quote(path)}}
		},
	}
}
