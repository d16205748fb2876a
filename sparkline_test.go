// FILE: lixenwraith/cli/sparkline_test.go
package cli

import (
	"math"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func forcedColor(attribute color.Attribute) *color.Color {
	c := color.New(attribute)
	c.EnableColor()
	return c
}

func TestSparklineScaling(t *testing.T) {
	cases := []struct {
		name   string
		values []float64
		want   string
	}{
		{"Mixed", []float64{5, 9, 3, 15}, "▂▅▁█"},
		{"Extremes", []float64{0, 1, 19, 20}, "▁▁██"},
		{"Buckets", []float64{0, 999, 4000, 4999, 7000, 7999}, "▁▁▅▅██"},
		{"ZeroRange", []float64{3, 3, 3}, "▁▁▁"},
		{"Empty", nil, ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Sparkline(tc.values, withPlainSparks()))
		})
	}
}

func TestSparklineGaps(t *testing.T) {
	assert.Equal(t, "▁ █", Sparkline([]float64{1, math.NaN(), 2}, withPlainSparks()))
	assert.Equal(t, "  ", Sparkline([]float64{math.NaN(), math.NaN()}, withPlainSparks()))
}

func TestSparklineInfiniteValues(t *testing.T) {
	cases := []struct {
		name   string
		values []float64
		opts   []SparklineOption
		want   string
	}{
		{"PositiveInfinity", []float64{1, math.Inf(1)}, nil, "▁"},
		{"NegativeInfinity", []float64{math.Inf(-1), 1}, nil, "▁"},
		{"BetweenFinite", []float64{0, math.Inf(1), 8, math.Inf(-1), 4}, nil, "▁█▅"},
		{"OnlyInfinity", []float64{math.Inf(1), math.NaN(), math.Inf(-1)}, nil, " "},
		{"InfiniteFixedMin", []float64{0, 5}, []SparklineOption{WithSparkMin(math.Inf(-1)), WithSparkMax(10)}, "▁▁"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			core, logs := observer.New(zapcore.DebugLevel)
			opts := append([]SparklineOption{withPlainSparks(), WithSparkLogger(zap.New(core))}, tc.opts...)

			var got string
			assert.NotPanics(t, func() { got = Sparkline(tc.values, opts...) })
			assert.Equal(t, tc.want, got)

			infinite := 0
			for _, v := range tc.values {
				if math.IsInf(v, 0) {
					infinite++
				}
			}
			assert.Len(t, logs.FilterMessage("skipping out of bounds value").All(), infinite)
		})
	}
}

func TestSparklineFixedBounds(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)

	got := Sparkline([]float64{-5, 5, 15, 10},
		WithSparkMin(0),
		WithSparkMax(10),
		WithSparkLogger(zap.New(core)),
		withPlainSparks(),
	)

	assert.Equal(t, "▅█", got)
	skipped := logs.FilterMessage("skipping out of bounds value").All()
	assert.Len(t, skipped, 2)
}

func TestSparklineColors(t *testing.T) {
	t.Run("Negative", func(t *testing.T) {
		red := forcedColor(color.FgRed)
		got := Sparkline([]float64{-1, 1}, WithNegativeColor(red))
		assert.Equal(t, red.Sprint("▁")+"█", got)
	})

	t.Run("Positive", func(t *testing.T) {
		green := forcedColor(color.FgGreen)
		got := Sparkline([]float64{0, 1}, WithPositiveColor(green))
		assert.Equal(t, "▁"+green.Sprint("█"), got, "zero is neither negative nor positive")
	})

	t.Run("HighlightWins", func(t *testing.T) {
		green := forcedColor(color.FgGreen)
		yellow := forcedColor(color.FgYellow)
		got := Sparkline([]float64{5, 15}, WithPositiveColor(green), WithHighlight(10, yellow))
		assert.Equal(t, green.Sprint("▁")+yellow.Sprint("█"), got)
	})

	t.Run("PlainDropsColor", func(t *testing.T) {
		got := Sparkline([]float64{-1, 1}, WithNegativeColor(forcedColor(color.FgRed)), withPlainSparks())
		assert.Equal(t, "▁█", got)
	})
}

func TestAppSparklineFollowsColorSetting(t *testing.T) {
	app := newTestApp(t, "[general]\ncolor = false\n")
	got := app.Sparkline([]float64{5, 15}, WithHighlight(10, forcedColor(color.FgYellow)))
	assert.False(t, strings.Contains(got, "\x1b["))
	assert.Equal(t, "▁█", got)
}
