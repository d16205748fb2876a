// FILE: lixenwraith/cli/example/main.go
package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/lixenwraith/cli"
)

// A long-running "serve" command that reports edits to its configuration file.
// Try: go run ./example serve, then edit the printed file in another terminal.
func main() {
	configPath := filepath.Join(os.TempDir(), "watch-demo", "watch-demo.ini")

	app := cli.NewBuilder().
		WithName("watch-demo").
		WithConfigFile(configPath).
		MustBuild()

	app.Subcommand("serve", "Serve until interrupted, reporting config file changes", serve, false)
	app.Argument("serve", cli.Argument{Name: "port", Short: "p", Default: 8080, Help: "Port to listen on"})
	app.Argument("serve", cli.Argument{Name: "poll", Default: "250ms", ArgOnly: true, Help: "Config file poll interval"})
	app.AddConfigCommand()

	app.Main()
}

func serve(ctx context.Context, app *cli.App) error {
	port, err := app.Config().Section("serve").Int("port")
	if err != nil {
		return err
	}

	// Persist the effective port so the file exists and can be edited
	if _, err := app.SetConfig("serve", "port", port); err != nil {
		return err
	}
	if err := app.SaveConfig(); err != nil {
		return err
	}

	poll := cli.DefaultPollInterval
	if raw, err := app.Args().Get("poll"); err == nil {
		if parsed, err := time.ParseDuration(raw.(string)); err == nil {
			poll = parsed
		}
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	app.Log().Info("serving", zap.Int("port", port), zap.String("config", app.ConfigFile()))
	changes := app.WatchConfig(ctx, cli.WatchOptions{PollInterval: poll, Debounce: 100 * time.Millisecond})
	for event := range changes {
		app.Log().Info("config file event", zap.String("event", event))
	}
	app.Log().Info("shutting down")
	return nil
}
