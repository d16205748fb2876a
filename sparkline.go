// FILE: lixenwraith/cli/sparkline.go
package cli

import (
	"math"
	"strings"

	"github.com/fatih/color"
	"go.uber.org/zap"
)

var sparkGlyphs = []rune("▁▂▃▄▅▆▇█")

// SparklineOption configures Sparkline
type SparklineOption func(*sparklineConfig)

type sparklineConfig struct {
	min       *float64
	max       *float64
	negative  *color.Color
	positive  *color.Color
	highlight *color.Color
	threshold float64
	plain     bool
	logger    *zap.Logger
}

// WithSparkMin fixes the value drawn as the lowest glyph. Smaller values are skipped.
func WithSparkMin(min float64) SparklineOption {
	return func(c *sparklineConfig) { c.min = &min }
}

// WithSparkMax fixes the value drawn as the highest glyph. Larger values are skipped.
func WithSparkMax(max float64) SparklineOption {
	return func(c *sparklineConfig) { c.max = &max }
}

// WithNegativeColor colors glyphs of negative values
func WithNegativeColor(negative *color.Color) SparklineOption {
	return func(c *sparklineConfig) { c.negative = negative }
}

// WithPositiveColor colors glyphs of positive values
func WithPositiveColor(positive *color.Color) SparklineOption {
	return func(c *sparklineConfig) { c.positive = positive }
}

// WithHighlight colors glyphs of values above threshold, overriding other colors
func WithHighlight(threshold float64, highlight *color.Color) SparklineOption {
	return func(c *sparklineConfig) {
		c.threshold = threshold
		c.highlight = highlight
	}
}

// WithSparkLogger sets the logger receiving skipped-value diagnostics
func WithSparkLogger(logger *zap.Logger) SparklineOption {
	return func(c *sparklineConfig) { c.logger = logger }
}

// withPlainSparks disables all coloring
func withPlainSparks() SparklineOption {
	return func(c *sparklineConfig) { c.plain = true }
}

// Sparkline renders values as a row of block glyphs scaled between the minimum and maximum.
// NaN marks a gap and renders as a space. Infinite values and values outside a fixed range are left out.
// Negative values are red unless another negative color is set.
func Sparkline(values []float64, opts ...SparklineOption) string {
	cfg := &sparklineConfig{
		negative: color.New(color.FgRed),
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	low, high, found := sparkBounds(values)
	if cfg.min != nil {
		low = *cfg.min
	}
	if cfg.max != nil {
		high = *cfg.max
	}
	bounded := found || (cfg.min != nil && cfg.max != nil)
	span := high - low

	var b strings.Builder
	for _, value := range values {
		if math.IsNaN(value) {
			b.WriteByte(' ')
			continue
		}
		if !bounded || math.IsInf(value, 0) || value < low || value > high {
			cfg.logger.Debug("skipping out of bounds value", zap.Float64("value", value))
			continue
		}

		index := 0
		if span > 0 && !math.IsInf(span, 0) {
			index = int((value - low) / span * 8)
		}
		index = min(max(index, 0), len(sparkGlyphs)-1)
		b.WriteString(cfg.paint(value, string(sparkGlyphs[index])))
	}
	return b.String()
}

// paint applies the color for value to glyph
func (c *sparklineConfig) paint(value float64, glyph string) string {
	if c.plain {
		return glyph
	}
	switch {
	case c.highlight != nil && value > c.threshold:
		return c.highlight.Sprint(glyph)
	case value < 0 && c.negative != nil:
		return c.negative.Sprint(glyph)
	case value > 0 && c.positive != nil:
		return c.positive.Sprint(glyph)
	}
	return glyph
}

// sparkBounds returns the smallest and largest finite values
func sparkBounds(values []float64) (float64, float64, bool) {
	low, high := math.Inf(1), math.Inf(-1)
	found := false
	for _, value := range values {
		if math.IsNaN(value) || math.IsInf(value, 0) {
			continue
		}
		found = true
		low = math.Min(low, value)
		high = math.Max(high, value)
	}
	return low, high, found
}

// Sparkline renders values with the application logger; coloring follows general.color.
func (a *App) Sparkline(values []float64, opts ...SparklineOption) string {
	all := []SparklineOption{WithSparkLogger(a.Log())}
	all = append(all, opts...)
	if enabled, err := a.config.Section(GeneralSection).Bool(colorOption); err == nil && !enabled {
		all = append(all, withPlainSparks())
	}
	return Sparkline(values, all...)
}
