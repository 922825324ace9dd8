package garment

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/Faultbox/fitmirror/pkg/mesh"
)

// ErrInvalidColor indicates a malformed hex color code.
var ErrInvalidColor = errors.New("invalid color code")

// ParseHexColor parses "#rrggbb" or "#rrggbbaa" (leading '#' optional)
// into normalized RGBA channels. Alpha defaults to 1.
func ParseHexColor(code string) (mesh.Color, error) {
	code = strings.TrimPrefix(code, "#")
	if len(code) != 6 && len(code) != 8 {
		return mesh.Color{}, fmt.Errorf("%w: %q", ErrInvalidColor, code)
	}

	channels := [4]float64{0, 0, 0, 1}
	for i := 0; i*2 < len(code); i++ {
		value, err := strconv.ParseUint(code[i*2:i*2+2], 16, 8)
		if err != nil {
			return mesh.Color{}, fmt.Errorf("%w: %q", ErrInvalidColor, code)
		}
		channels[i] = float64(value) / 255.0
	}
	return mesh.Color{R: channels[0], G: channels[1], B: channels[2], A: channels[3]}, nil
}

// NormalizeHex canonicalizes a color code to lowercase "#rrggbbaa".
func NormalizeHex(code string) (string, error) {
	code = strings.TrimPrefix(code, "#")
	if len(code) == 6 {
		code += "ff"
	}
	if len(code) != 8 {
		return "", fmt.Errorf("%w: %q", ErrInvalidColor, code)
	}
	for _, r := range code {
		if !strings.ContainsRune("0123456789abcdefABCDEF", r) {
			return "", fmt.Errorf("%w: %q", ErrInvalidColor, code)
		}
	}
	return "#" + strings.ToLower(code), nil
}
