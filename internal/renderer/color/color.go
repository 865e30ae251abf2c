// Package color derives stable display colors from marking keys.
package color

import (
	"fmt"
	"strconv"
	"unicode/utf16"

	"github.com/lucasb-eyer/go-colorful"
)

// Default derivation parameters.
const (
	DefaultAlpha      = 0.7
	DefaultDarkFactor = 0.8
)

// Color is an RGB color with an opacity factor in [0, 1].
type Color struct {
	R, G, B uint8
	A       float64
}

// RGBA creates a color from its channels.
func RGBA(r, g, b uint8, a float64) Color {
	return Color{R: r, G: g, B: b, A: a}
}

// Scale multiplies each channel by factor, truncating to 8 bits.
// Opacity is unchanged.
func (c Color) Scale(factor float64) Color {
	return Color{
		R: scaleChannel(c.R, factor),
		G: scaleChannel(c.G, factor),
		B: scaleChannel(c.B, factor),
		A: c.A,
	}
}

func scaleChannel(v uint8, factor float64) uint8 {
	return uint8(min(255, max(0, float64(v)*factor)))
}

// CSS returns the color as a CSS rgba() expression.
func (c Color) CSS() string {
	return fmt.Sprintf("rgba(%d, %d, %d, %s)", c.R, c.G, c.B, strconv.FormatFloat(c.A, 'f', -1, 64))
}

// Hex returns the opaque color as #rrggbb.
func (c Color) Hex() string {
	return c.colorful().Hex()
}

// IsLight reports whether dark text reads better than light text on c,
// taking opacity over a white background into account.
func (c Color) IsLight() bool {
	white := colorful.Color{R: 1, G: 1, B: 1}
	_, _, l := white.BlendRgb(c.colorful(), c.A).Hcl()
	return l >= 0.5
}

// String returns a human-readable representation of the color.
func (c Color) String() string {
	return c.CSS()
}

func (c Color) colorful() colorful.Color {
	return colorful.Color{
		R: float64(c.R) / 255,
		G: float64(c.G) / 255,
		B: float64(c.B) / 255,
	}
}

// HashCode is the 31-based polynomial string hash over UTF-16 code units
// with 32-bit two's-complement wrapping, as computed by Java's
// String.hashCode.
func HashCode(s string) int32 {
	var h uint32
	for _, unit := range utf16.Encode([]rune(s)) {
		h = h*31 + uint32(unit)
	}
	return int32(h)
}

// AbsHash returns |HashCode(s)|. The hash of math.MinInt32 maps to 1<<31.
func AbsHash(s string) uint32 {
	h := HashCode(s)
	if h < 0 {
		return uint32(-int64(h))
	}
	return uint32(h)
}

// Deriver maps marking keys to colors.
type Deriver struct {
	Alpha      float64
	DarkFactor float64
}

// DefaultDeriver returns a deriver with the default alpha and dark factor.
func DefaultDeriver() Deriver {
	return Deriver{Alpha: DefaultAlpha, DarkFactor: DefaultDarkFactor}
}

// Derive returns the color for key. Bits 8-15, 16-23 and 24-31 of the
// absolute hash become red, green and blue. The dark variant scales each
// channel by DarkFactor.
func (d Deriver) Derive(key string, dark bool) Color {
	h := AbsHash(key)
	c := Color{
		R: uint8(h >> 8),
		G: uint8(h >> 16),
		B: uint8(h >> 24),
		A: d.Alpha,
	}
	if dark {
		c = c.Scale(d.DarkFactor)
	}
	return c
}

// FromKey returns the default color for key.
func FromKey(key string) Color {
	return DefaultDeriver().Derive(key, false)
}

// FromKeyDark returns the darkened default color for key.
func FromKeyDark(key string) Color {
	return DefaultDeriver().Derive(key, true)
}
