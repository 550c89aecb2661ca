package units

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRem(t *testing.T) {
	tests := []struct {
		px   float64
		want string
	}{
		{16, "1rem"},
		{10, "0.625rem"},
		{0, "0rem"},
		{160, "10rem"},
		{100, "6.25rem"},
		{1, "0.0625rem"},
		{13, "0.8125rem"},
		{7, "0.4375rem"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Rem(tt.px), "Rem(%v)", tt.px)
	}
}

func TestPercentToEm(t *testing.T) {
	assert.Equal(t, "1.20em", PercentToEm(120))
	assert.Equal(t, "-0.02em", PercentToEm(-2))
	assert.Equal(t, "0.00em", PercentToEm(0))
	assert.InDelta(t, 1.2, PercentToEmValue(120), 1e-9)
	assert.InDelta(t, 1.15, PercentToEmValue(115), 1e-9)
}

func TestParseFluidMode(t *testing.T) {
	tests := []struct {
		in      string
		want    FluidMode
		wantErr bool
	}{
		{"", FluidOn, false},
		{"true", FluidOn, false},
		{"false", FluidOff, false},
		{"LIMITED_DESKTOP", FluidLimitedDesktop, false},
		{"limited-desktop", FluidLimitedDesktop, false},
		{"sometimes", FluidOff, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFluidMode(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	assert.Equal(t, "LIMITED_DESKTOP", FluidLimitedDesktop.String())
	assert.Equal(t, "false", FluidOff.String())
	assert.True(t, FluidOn.Enabled())
	assert.False(t, FluidOff.Enabled())
}

func TestFluidSize(t *testing.T) {
	got, err := FluidSize(16, 24, FluidOn)
	require.NoError(t, err)
	assert.Equal(t, "max(calc(16 * 1px), calc(calc(100vw / 1440) * 24))", got)

	got, err = FluidSize(16, 24.5, FluidLimitedDesktop)
	require.NoError(t, err)
	assert.Equal(t, "min(max(calc(16 * 1px), calc(calc(100vw / 1440) * 24.5)), 24.5px)", got)

	got, err = FluidSize(20, 40, FluidOff)
	require.NoError(t, err)
	assert.Equal(t, "1.25rem", got)
}

func TestFluidSize_RejectsNonFinite(t *testing.T) {
	_, err := FluidSize(math.NaN(), 24, FluidOn)
	require.ErrorIs(t, err, ErrInvalidSize)

	_, err = FluidSize(16, math.Inf(1), FluidLimitedDesktop)
	require.ErrorIs(t, err, ErrInvalidSize)
}

func TestEvaluateFluid_LimitedIsBounded(t *testing.T) {
	pairs := [][2]float64{{16, 24}, {12, 64}, {40, 120}, {8, 9}}

	for _, p := range pairs {
		mobile, desktop := p[0], p[1]
		for _, vw := range []float64{MobileViewport, DesktopViewport} {
			v := EvaluateFluid(mobile, desktop, FluidLimitedDesktop, vw)
			assert.GreaterOrEqual(t, v, mobile, "pair %v at %vpx", p, vw)
			assert.LessOrEqual(t, v, desktop, "pair %v at %vpx", p, vw)
		}
		assert.InDelta(t, desktop, EvaluateFluid(mobile, desktop, FluidLimitedDesktop, 2880), 1e-9)
	}
}

func TestEvaluateFluid_UnlimitedGrowsAboveDesktop(t *testing.T) {
	assert.InDelta(t, 16.0, EvaluateFluid(16, 24, FluidOn, MobileViewport), 1e-9)
	assert.InDelta(t, 24.0, EvaluateFluid(16, 24, FluidOn, DesktopViewport), 1e-9)
	assert.InDelta(t, 48.0, EvaluateFluid(16, 24, FluidOn, 2880), 1e-9)
	assert.InDelta(t, 16.0, EvaluateFluid(16, 24, FluidOff, 2880), 1e-9)
}
