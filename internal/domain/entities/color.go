package entities

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// RGB is an explicit 24-bit color.
type RGB struct {
	R, G, B uint8
}

// Default verse slide palette: the reference line is drawn in the lighter
// accent and the body in the darker one.
var (
	VerseRefColor  = RGB{R: 121, G: 155, B: 193}
	VerseBodyColor = RGB{R: 27, G: 54, B: 106}
)

// Hex returns the color as RRGGBB, the form used by DrawingML.
func (c RGB) Hex() string {
	return fmt.Sprintf("%02X%02X%02X", c.R, c.G, c.B)
}

// String returns the color as #RRGGBB.
func (c RGB) String() string {
	return "#" + c.Hex()
}

// ParseRGB parses "#RRGGBB" or "RRGGBB".
func ParseRGB(s string) (RGB, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) != 6 {
		return RGB{}, errors.New("color must have six hex digits")
	}

	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return RGB{}, fmt.Errorf("parsing color %q: %w", s, err)
	}

	return RGB{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}, nil
}

// Within reports whether every channel of c is within tolerance of target.
func (c RGB) Within(target RGB, tolerance int) bool {
	return absDiff(c.R, target.R) <= tolerance &&
		absDiff(c.G, target.G) <= tolerance &&
		absDiff(c.B, target.B) <= tolerance
}

func absDiff(a, b uint8) int {
	d := int(a) - int(b)
	if d < 0 {
		return -d
	}
	return d
}
