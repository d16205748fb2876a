// FILE: lixenwraith/cli/coerce_test.go
package cli

import (
	"math"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeUnsigned(t *testing.T) {
	value, keep := normalizeValue(uint64(42))
	assert.True(t, keep)
	assert.Equal(t, 42, value)

	value, keep = normalizeValue(uint64(math.MaxUint64))
	assert.True(t, keep)
	require.IsType(t, decimal.Decimal{}, value)
	assert.Equal(t, "18446744073709551615", value.(decimal.Decimal).String())
}

func TestLargeYAMLIntegerStaysPositive(t *testing.T) {
	fs := afero.NewMemMapFs()
	path := "/etc/hello.yaml"
	require.NoError(t, afero.WriteFile(fs, path, []byte("hello:\n  big: 18446744073709551615\n"), 0644))

	config, _, err := NewStore(fs, path, nil).Load()
	require.NoError(t, err)
	big, isDecimal := config.Get("hello.big").(decimal.Decimal)
	require.True(t, isDecimal)
	assert.True(t, big.IsPositive())
	assert.Equal(t, "18446744073709551615", big.String())
}

func TestFormatDecimalKeepsScale(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"1.50", "1.50"},
		{"1.5", "1.5"},
		{"0.00", "0.00"},
		{"-2.250", "-2.250"},
		{"42", "42"},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			assert.Equal(t, tc.want, formatValue(decimal.RequireFromString(tc.in)))
		})
	}
}

func TestSaveKeepsDecimalText(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, testConfigPath, []byte("[hello]\nratio = 1.50\n"), 0644))
	store := NewStore(fs, testConfigPath, nil)

	config, source, err := store.Load()
	require.NoError(t, err)
	require.NoError(t, store.Save(config, source))

	raw, err := afero.ReadFile(fs, testConfigPath)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(raw), "1.50"), "saved file: %q", raw)
}
