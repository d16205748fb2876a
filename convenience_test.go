// FILE: lixenwraith/cli/convenience_test.go
package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runEntrypoint(t *testing.T, app *testApp) {
	t.Helper()
	app.Entrypoint("noop", func(ctx context.Context, app *App) error { return nil })
	require.Equal(t, ExitSuccess, app.Run(context.Background()), app.errOut.String())
}

func TestDump(t *testing.T) {
	app := newTestApp(t, "[hello]\nname = Test\n", "--verbose")
	runEntrypoint(t, app)

	var buf bytes.Buffer
	require.NoError(t, app.Dump(&buf, false))
	assert.Equal(t, "general.verbose=True\nhello.name=Test\n", buf.String())

	buf.Reset()
	require.NoError(t, app.Dump(&buf, true))
	assert.Contains(t, buf.String(), "general.datetime_fmt=2006-01-02 15:04:05\n")
	assert.Contains(t, buf.String(), "general.log_file=None\n")
	assert.Contains(t, buf.String(), "hello.name=Test\n")
	assert.NotContains(t, buf.String(), "config_file", "argument-only options stay out of the configuration")
}

func TestDebug(t *testing.T) {
	app := newTestApp(t, "[hello]\nname = Test\n", "--verbose")
	runEntrypoint(t, app)

	info := app.Debug()
	assert.Contains(t, info, "Config file: "+testConfigPath)
	assert.Contains(t, info, "  general.verbose = True (argument)\n")
	assert.Contains(t, info, "  general.color = True (default)\n")
	assert.Contains(t, info, "  hello.name = Test (config_file)\n")
}

func TestValidate(t *testing.T) {
	app := newTestApp(t, "[hello]\nname = Test\n")
	runEntrypoint(t, app)

	assert.NoError(t, app.Validate("hello.name", "general.color"))

	err := app.Validate("hello.name", "hello.missing", "general.log_file")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "hello.missing, general.log_file")
	assert.NotContains(t, err.Error(), "hello.name")
}

func TestSetConfig(t *testing.T) {
	app := newTestApp(t, "[hello]\ncount = 1\n")

	t.Run("CoercesStrings", func(t *testing.T) {
		transition, err := app.SetConfig("hello", "count", "2")
		require.NoError(t, err)
		assert.Equal(t, Transition{Section: "hello", Option: "count", Old: 1, New: 2}, transition)
		assert.Equal(t, "hello.count: 1 -> 2", transition.String())
		assert.Equal(t, string(SourceConfigFile), provenanceOf(app.ConfigSource(), "hello.count"))
	})

	t.Run("NewOption", func(t *testing.T) {
		transition, err := app.SetConfig("hello", "shout", "True")
		require.NoError(t, err)
		assert.Equal(t, "hello.shout: None -> True", transition.String())
	})

	t.Run("NoneRemoves", func(t *testing.T) {
		transition, err := app.SetConfig("hello", "count", "None")
		require.NoError(t, err)
		assert.Nil(t, transition.New)
		require.NoError(t, app.SaveConfig())

		config, _, err := NewStore(app.fs, testConfigPath, nil).Load()
		require.NoError(t, err)
		assert.Nil(t, config.Get("hello.count"))
		assert.Equal(t, true, config.Get("hello.shout"))
	})

	t.Run("InvalidPath", func(t *testing.T) {
		_, err := app.SetConfig("bad section", "x", 1)
		assert.Error(t, err)
		_, err = app.SetConfig("hello", "", 1)
		assert.Error(t, err)
	})
}

func TestConfigCommand(t *testing.T) {
	newConfigApp := func(t *testing.T, args ...string) *testApp {
		app := newTestApp(t, "[hello]\nname = Test\n", append([]string{"config"}, args...)...)
		app.Entrypoint("noop", func(ctx context.Context, app *App) error { return nil })
		app.AddConfigCommand()
		return app
	}
	reload := func(t *testing.T, app *testApp) *Tree {
		config, _, err := NewStore(app.fs, testConfigPath, nil).Load()
		require.NoError(t, err)
		return config
	}

	t.Run("ListsSetOptions", func(t *testing.T) {
		app := newConfigApp(t)
		require.Equal(t, ExitSuccess, app.Run(context.Background()), app.errOut.String())
		assert.Equal(t, "hello.name=Test\n", app.out.String())
	})

	t.Run("ListsAll", func(t *testing.T) {
		app := newConfigApp(t, "--all")
		require.Equal(t, ExitSuccess, app.Run(context.Background()), app.errOut.String())
		assert.Contains(t, app.out.String(), "general.color=True\n")
		assert.Contains(t, app.out.String(), "hello.name=Test\n")
	})

	t.Run("PrintsOptionAndSection", func(t *testing.T) {
		app := newConfigApp(t, "hello.name", "hello", "hello.missing")
		require.Equal(t, ExitSuccess, app.Run(context.Background()), app.errOut.String())
		assert.Equal(t, "hello.name=Test\nhello.name=Test\nhello.missing=None\n", app.out.String())
	})

	t.Run("SetsAndSaves", func(t *testing.T) {
		app := newConfigApp(t, "hello.count=3", "hello.name=None")
		require.Equal(t, ExitSuccess, app.Run(context.Background()), app.errOut.String())
		assert.Equal(t, "hello.count: None -> 3\nhello.name: Test -> None\n", app.out.String())

		config := reload(t, app)
		assert.Equal(t, 3, config.Get("hello.count"))
		assert.Nil(t, config.Get("hello.name"))
	})

	t.Run("ReadOnly", func(t *testing.T) {
		app := newConfigApp(t, "--read-only", "hello.count=3")
		require.Equal(t, ExitSuccess, app.Run(context.Background()), app.errOut.String())
		assert.Equal(t, "hello.count: None -> 3\n", app.out.String())
		assert.Nil(t, reload(t, app).Get("hello.count"))
	})

	t.Run("MalformedAssignment", func(t *testing.T) {
		app := newConfigApp(t, "hello=3")
		assert.Equal(t, ExitFatal, app.Run(context.Background()))
	})
}
