package wallpaper

import (
	"context"
	"errors"
	"fmt"

	"github.com/godbus/dbus/v5"
)

const (
	plasmaService   = "org.kde.plasmashell"
	plasmaPath      = "/PlasmaShell"
	plasmaEvaluate  = "org.kde.PlasmaShell.evaluateScript"
	plasmaApplyTool = "plasma-apply-wallpaperimage"
)

var qdbusCommands = []string{"qdbus-qt6", "qdbus-qt5", "qdbus"}

// plasmaScript sets path as the image wallpaper on every Plasma desktop.
func plasmaScript(path string) string {
	return fmt.Sprintf(`var allDesktops = desktops();
for (i = 0; i < allDesktops.length; i++) {
	d = allDesktops[i];
	d.wallpaperPlugin = "org.kde.image";
	d.currentConfigGroup = Array("Wallpaper", "org.kde.image", "General");
	d.writeConfig("Image", "file://%s");
}`, path)
}

// PlasmaApply uses the plasma-apply-wallpaperimage tool.
func PlasmaApply(r Runner) Setter {
	return command{
		name:   "plasma-apply-wallpaperimage",
		runner: r,
		args: func(path string) [][]string {
			return [][]string{{plasmaApplyTool, path}}
		},
	}
}

// ScriptEvaluator evaluates a Plasma shell script.
type ScriptEvaluator func(ctx context.Context, script string) error

// PlasmaDBus sends the wallpaper script to plasmashell over the session bus.
// A nil evaluate uses the real session bus.
func PlasmaDBus(evaluate ScriptEvaluator) Setter {
	if evaluate == nil {
		evaluate = sessionBusEvaluate
	}
	return plasmaDBus{evaluate: evaluate}
}

type plasmaDBus struct {
	evaluate ScriptEvaluator
}

func (plasmaDBus) Name() string { return "plasmashell-dbus" }

func (p plasmaDBus) Set(ctx context.Context, path string) error {
	return p.evaluate(ctx, plasmaScript(path))
}

func sessionBusEvaluate(ctx context.Context, script string) error {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return fmt.Errorf("dbus: connect session bus: %w", err)
	}
	defer conn.Close()

	obj := conn.Object(plasmaService, dbus.ObjectPath(plasmaPath))
	if call := obj.CallWithContext(ctx, plasmaEvaluate, 0, script); call.Err != nil {
		return fmt.Errorf("dbus: %s: %w", plasmaEvaluate, call.Err)
	}
	return nil
}

// QDBus runs the wallpaper script through the first qdbus binary on PATH.
func QDBus(r Runner) Setter {
	return qdbus{runner: r}
}

type qdbus struct {
	runner Runner
}

func (qdbus) Name() string { return "qdbus" }

func (q qdbus) Set(ctx context.Context, path string) error {
	for _, name := range qdbusCommands {
		if _, err := q.runner.LookPath(name); err != nil {
			continue
		}
		return q.runner.Run(ctx, name, plasmaService, plasmaPath, plasmaEvaluate, plasmaScript(path))
	}
	return errors.New("qdbus: no qdbus binary found")
}
