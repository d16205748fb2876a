// FILE: lixenwraith/cli/cmd/hello/main.go
package main

import (
	"context"
	"fmt"
	"math"
	"strconv"

	"github.com/fatih/color"
	"go.uber.org/zap"

	"github.com/lixenwraith/cli"
)

func main() {
	app := cli.NewBuilder().
		WithName("hello").
		WithVersion("1.0.0").
		WithAuthor("lixenwraith").
		WithValidator(func(app *cli.App) error {
			count, err := app.Config().Section("hello").Int("count")
			if err == nil && count < 0 {
				return fmt.Errorf("count must not be negative, got %d", count)
			}
			return nil
		}).
		MustBuild()

	app.Entrypoint("Greet someone", greet)
	app.Argument("", cli.Argument{Name: "name", Short: "n", Default: "World", Help: "Name to greet"})

	app.Subcommand("hello", "Greet repeatedly", greetMany, false)
	app.Argument("hello", cli.Argument{Name: "count", Short: "c", Default: 1, Help: "Number of greetings"})
	app.Argument("hello", cli.Argument{Name: "shout", Default: false, Kind: cli.KindToggle, Help: "upper-case greetings"})

	app.Subcommand("spark", "Draw a sparkline from numbers", spark, false)
	app.Argument("spark", cli.Argument{Name: "threshold", Default: 0.0, Help: "Highlight values above this"})

	app.Subcommand("uname", "Run uname and show its output", uname, true)

	app.AddConfigCommand()
	app.Main()
}

func greet(ctx context.Context, app *cli.App) error {
	name, err := app.Config().Section("general").String("name")
	if err != nil {
		return err
	}
	app.Echo("Hello, %s!", name)
	return nil
}

func greetMany(ctx context.Context, app *cli.App) error {
	section := app.Config().Section("hello")
	name, _ := app.Config().Section("general").String("name")
	count, err := section.Int("count")
	if err != nil {
		return err
	}
	shout, _ := section.Bool("shout")

	app.Log().Debug("greeting", zap.Int("count", count), zap.Bool("shout", shout))
	for i := 0; i < count; i++ {
		if shout {
			app.Echo("HELLO, %s!", name)
			continue
		}
		app.Echo("Hello, %s!", name)
	}
	return nil
}

func spark(ctx context.Context, app *cli.App) error {
	threshold, err := app.Config().Section("spark").Float64("threshold")
	if err != nil {
		return err
	}

	var values []float64
	for _, token := range app.Positional() {
		value, err := strconv.ParseFloat(token, 64)
		if err != nil {
			// Non-numeric tokens leave a gap
			value = math.NaN()
		}
		values = append(values, value)
	}

	opts := []cli.SparklineOption{cli.WithPositiveColor(color.New(color.FgGreen))}
	if threshold != 0 {
		opts = append(opts, cli.WithHighlight(threshold, color.New(color.FgYellow, color.Bold)))
	}
	app.Echo("%s", app.Sparkline(values, opts...))
	return nil
}

func uname(ctx context.Context, app *cli.App) error {
	result, err := app.RunCommand(ctx, []string{"uname", "-a"}, cli.RunOptions{CombinedOutput: true})
	if err != nil {
		return err
	}
	app.Echo("%s", result.Stdout)
	if result.ExitCode != 0 {
		return fmt.Errorf("uname exited with %d", result.ExitCode)
	}
	return nil
}
