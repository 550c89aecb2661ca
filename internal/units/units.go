// Package units converts design-tool pixel values into CSS lengths.
package units

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Reference viewport widths the manifest values were designed against.
const (
	MobileViewport  = 390
	DesktopViewport = 1440
)

// BaseFontSize is the root font size used for px → rem conversion.
const BaseFontSize = 16

// ErrInvalidSize is returned for sizes that cannot be expressed in CSS.
var ErrInvalidSize = errors.New("invalid size")

// FluidMode selects how responsive pairs are turned into a CSS length.
type FluidMode int

const (
	// FluidOff emits a fixed rem value from the mobile size.
	FluidOff FluidMode = iota
	// FluidOn scales with the viewport and keeps growing above the desktop reference.
	FluidOn
	// FluidLimitedDesktop scales with the viewport but caps at the desktop size.
	FluidLimitedDesktop
)

// String returns the configuration spelling of the mode.
func (m FluidMode) String() string {
	switch m {
	case FluidOff:
		return "false"
	case FluidLimitedDesktop:
		return "LIMITED_DESKTOP"
	default:
		return "true"
	}
}

// Enabled reports whether the mode produces viewport-relative values.
func (m FluidMode) Enabled() bool {
	return m != FluidOff
}

// ParseFluidMode parses "true", "false" or "LIMITED_DESKTOP".
// An empty string selects FluidOn, matching the plugin default.
func ParseFluidMode(s string) (FluidMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "true", "on", "yes":
		return FluidOn, nil
	case "false", "off", "no":
		return FluidOff, nil
	case "limited_desktop", "limited-desktop":
		return FluidLimitedDesktop, nil
	}
	return FluidOff, fmt.Errorf("unknown fluid typography mode %q (want true, false or LIMITED_DESKTOP)", s)
}

// FormatNumber prints a float the way a JavaScript template literal would.
func FormatNumber(v float64) string {
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return strconv.FormatInt(int64(v), 10)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Rem converts pixels to rem, four decimals at most with trailing zeros trimmed.
func Rem(px float64) string {
	s := strconv.FormatFloat(px/BaseFontSize, 'f', 4, 64)
	s = strings.TrimRight(s, "0")
	s = strings.TrimSuffix(s, ".")
	if s == "-0" || s == "" {
		s = "0"
	}
	return s + "rem"
}

// PercentToEm converts a percentage to an em length with two fixed decimals.
func PercentToEm(percent float64) string {
	return strconv.FormatFloat(percent/100, 'f', 2, 64) + "em"
}

// PercentToEmValue converts a percentage to a unitless factor rounded to two decimals.
func PercentToEmValue(percent float64) float64 {
	v, _ := strconv.ParseFloat(strconv.FormatFloat(percent/100, 'f', 2, 64), 64)
	return v
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// FluidSize builds the CSS length for a mobile/desktop pixel pair.
//
// FluidOff yields Rem(mobile). FluidOn yields
// max(mobile px, desktop scaled by 100vw/1440). FluidLimitedDesktop wraps the
// same expression in min(…, desktop px).
func FluidSize(mobile, desktop float64, mode FluidMode) (string, error) {
	if !finite(mobile) || !finite(desktop) {
		return "", fmt.Errorf("%w: mobile=%v desktop=%v", ErrInvalidSize, mobile, desktop)
	}

	if mode == FluidOff {
		return Rem(mobile), nil
	}

	m, d := FormatNumber(mobile), FormatNumber(desktop)
	expr := fmt.Sprintf("max(calc(%s * 1px), calc(calc(100vw / %d) * %s))", m, DesktopViewport, d)
	if mode == FluidLimitedDesktop {
		return fmt.Sprintf("min(%s, %spx)", expr, d), nil
	}
	return expr, nil
}

// EvaluateFluid returns the pixel value FluidSize's expression resolves to
// at the given viewport width.
func EvaluateFluid(mobile, desktop float64, mode FluidMode, viewport float64) float64 {
	if mode == FluidOff {
		return mobile
	}
	v := math.Max(mobile, viewport/DesktopViewport*desktop)
	if mode == FluidLimitedDesktop {
		v = math.Min(v, desktop)
	}
	return v
}
