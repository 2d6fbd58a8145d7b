package termengine

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// cubeSteps holds the six intensity levels xterm uses for the 6x6x6 color
// cube (indices 16-231): 0, then five steps of 40 with a 55 offset.
var cubeSteps = [6]uint8{0x00, 0x5f, 0x87, 0xaf, 0xd7, 0xff}

// DefaultPalette is the standard 256-color palette: 16 named colors (0-15), 216 color cube (16-231), 24 grayscale (232-255).
var DefaultPalette = [256]color.RGBA{
	// Standard colors (0-7)
	{0, 0, 0, 255},       // Black
	{205, 49, 49, 255},   // Red
	{13, 188, 121, 255},  // Green
	{229, 229, 16, 255},  // Yellow
	{36, 114, 200, 255},  // Blue
	{188, 63, 188, 255},  // Magenta
	{17, 168, 205, 255},  // Cyan
	{229, 229, 229, 255}, // White

	// Bright colors (8-15)
	{102, 102, 102, 255}, // Bright Black
	{241, 76, 76, 255},   // Bright Red
	{35, 209, 139, 255},  // Bright Green
	{245, 245, 67, 255},  // Bright Yellow
	{59, 142, 234, 255},  // Bright Blue
	{214, 112, 214, 255}, // Bright Magenta
	{41, 184, 219, 255},  // Bright Cyan
	{255, 255, 255, 255}, // Bright White

	// 216 colors (16-231)
	// Generated programmatically below

	// Grayscale (232-255)
	// Generated programmatically below
}

func init() {
	// Generate 216 color cube (16-231)
	i := 16
	for r := 0; r < 6; r++ {
		for g := 0; g < 6; g++ {
			for b := 0; b < 6; b++ {
				DefaultPalette[i] = color.RGBA{
					R: cubeSteps[r],
					G: cubeSteps[g],
					B: cubeSteps[b],
					A: 255,
				}
				i++
			}
		}
	}

	// Generate grayscale (232-255)
	for j := 0; j < 24; j++ {
		gray := uint8(8 + j*10)
		DefaultPalette[232+j] = color.RGBA{gray, gray, gray, 255}
	}
}

// DefaultForeground is the default text color (light gray).
var DefaultForeground = color.RGBA{229, 229, 229, 255}

// DefaultBackground is the default background color (black).
var DefaultBackground = color.RGBA{0, 0, 0, 255}

// DefaultCursorColor is the default cursor rendering color (light gray).
var DefaultCursorColor = color.RGBA{229, 229, 229, 255}

// Named color indices for semantic colors (used with NamedColor).
const (
	NamedColorForeground       = 256 // Default foreground text color
	NamedColorBackground       = 257 // Default background color
	NamedColorCursor           = 258 // Cursor color
	NamedColorDimBlack         = 259 // Dim black
	NamedColorDimRed           = 260 // Dim red
	NamedColorDimGreen         = 261 // Dim green
	NamedColorDimYellow        = 262 // Dim yellow
	NamedColorDimBlue          = 263 // Dim blue
	NamedColorDimMagenta       = 264 // Dim magenta
	NamedColorDimCyan          = 265 // Dim cyan
	NamedColorDimWhite         = 266 // Dim white
	NamedColorBrightForeground = 267 // Bright foreground (white)
	NamedColorDimForeground    = 268 // Dim foreground
)

// dimRGBA blends c toward the background in perceptual (Lab) space to
// produce the "dim" (faint) SGR attribute's rendered color, rather than a
// flat channel multiply, so dimming stays visually uniform across hues
// and on light backgrounds.
func dimRGBA(c, bg color.RGBA) color.RGBA {
	cf, _ := colorful.MakeColor(c)
	bgf, _ := colorful.MakeColor(bg)
	dimmed := cf.BlendLab(bgf, 0.34)
	r, g, b := dimmed.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: c.A}
}

// ResolveDefaultColor converts any color.Color (including *IndexedColor and
// *NamedColor) to a concrete RGBA using the built-in default palette. Use
// this to render cell colors when no custom palette is configured.
func ResolveDefaultColor(c color.Color, fg bool) color.RGBA {
	return resolveDefaultColor(c, fg)
}

// resolveDefaultColor converts a color.Color to RGBA using the default palette.
// If c is nil, returns the default foreground or background based on fg.
// IndexedColor and NamedColor are resolved using DefaultPalette.
func resolveDefaultColor(c color.Color, fg bool) color.RGBA {
	if c == nil {
		if fg {
			return DefaultForeground
		}
		return DefaultBackground
	}

	switch v := c.(type) {
	case color.RGBA:
		return v
	case *IndexedColor:
		if v.Index >= 0 && v.Index < 256 {
			return DefaultPalette[v.Index]
		}
		if fg {
			return DefaultForeground
		}
		return DefaultBackground
	case *NamedColor:
		return resolveNamedColor(v.Name, fg)
	default:
		r, g, b, a := c.RGBA()
		return color.RGBA{
			R: uint8(r >> 8),
			G: uint8(g >> 8),
			B: uint8(b >> 8),
			A: uint8(a >> 8),
		}
	}
}

// resolveNamedColor resolves a named color index to RGBA.
func resolveNamedColor(name int, fg bool) color.RGBA {
	switch {
	case name >= 0 && name < 16:
		return DefaultPalette[name]
	case name == 256: // NamedColorForeground
		return DefaultForeground
	case name == 257: // NamedColorBackground
		return DefaultBackground
	case name == 258: // NamedColorCursor
		return DefaultCursorColor
	case name >= 259 && name <= 266: // Dim colors
		baseIndex := name - 259
		return dimRGBA(DefaultPalette[baseIndex], DefaultBackground)
	case name == 267: // NamedColorBrightForeground
		return DefaultPalette[15] // Bright White
	case name == 268: // NamedColorDimForeground
		return dimRGBA(DefaultForeground, DefaultBackground)
	default:
		if fg {
			return DefaultForeground
		}
		return DefaultBackground
	}
}

// Color48 is an RGB color with three 16-bit channels, the precision OSC
// color queries/replies and XParseColor strings carry — distinct from the
// 8-bit-per-channel color.RGBA used for rendered cell attributes.
type Color48 struct {
	R, G, B uint16
}

// Color48From4Bit builds a Color48 from 4-bit-per-channel values (0-15),
// replicating each nibble across the 16-bit channel (xterm's own scaling).
func Color48From4Bit(r, g, b uint8) Color48 {
	return Color48{R: uint16(r) * 0x1111, G: uint16(g) * 0x1111, B: uint16(b) * 0x1111}
}

// Color48From8Bit builds a Color48 from 8-bit-per-channel values (0-255),
// replicating each byte across the 16-bit channel.
func Color48From8Bit(r, g, b uint8) Color48 {
	return Color48{R: uint16(r) * 0x0101, G: uint16(g) * 0x0101, B: uint16(b) * 0x0101}
}

// Color48From16Bit builds a Color48 from full 16-bit-per-channel values.
func Color48From16Bit(r, g, b uint16) Color48 {
	return Color48{R: r, G: g, B: b}
}

// RGBA downsamples to the 8-bit-per-channel color.RGBA used for rendering.
func (c Color48) RGBA() color.RGBA {
	return color.RGBA{R: uint8(c.R >> 8), G: uint8(c.G >> 8), B: uint8(c.B >> 8), A: 255}
}

// String formats c in the canonical XParseColor form, "rgb:hhhh/hhhh/hhhh".
func (c Color48) String() string {
	return fmt.Sprintf("rgb:%04x/%04x/%04x", c.R, c.G, c.B)
}

// XParseColor parses an XParseColor-style color specification: "#RGB",
// "#RRGGBB", "#RRRGGGBBB", "#RRRRGGGGBBBB", or "rgb:H/H/H" with 1-4 hex
// digits per channel (xterm accepts both forms for OSC 4/10/11/12 color
// specs). Returns false if s does not match any accepted form.
func XParseColor(s string) (Color48, bool) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "#") {
		digits := s[1:]
		n := len(digits)
		if n == 0 || n%3 != 0 || n > 12 {
			return Color48{}, false
		}
		per := n / 3
		r, ok1 := parseHexChannel(digits[0*per : 1*per])
		g, ok2 := parseHexChannel(digits[1*per : 2*per])
		b, ok3 := parseHexChannel(digits[2*per : 3*per])
		if !ok1 || !ok2 || !ok3 {
			return Color48{}, false
		}
		return Color48{R: r, G: g, B: b}, true
	}

	if strings.HasPrefix(s, "rgb:") {
		parts := strings.Split(s[len("rgb:"):], "/")
		if len(parts) != 3 {
			return Color48{}, false
		}
		r, ok1 := parseHexChannel(parts[0])
		g, ok2 := parseHexChannel(parts[1])
		b, ok3 := parseHexChannel(parts[2])
		if !ok1 || !ok2 || !ok3 {
			return Color48{}, false
		}
		return Color48{R: r, G: g, B: b}, true
	}

	return Color48{}, false
}

// parseHexChannel parses 1-4 hex digits as a 16-bit channel value, scaling
// short forms up so "f" (4-bit full scale) and "ffff" (16-bit full scale)
// both represent full intensity, matching XParseColor's own behavior.
func parseHexChannel(digits string) (uint16, bool) {
	n := len(digits)
	if n < 1 || n > 4 {
		return 0, false
	}
	v, err := strconv.ParseUint(digits, 16, 32)
	if err != nil {
		return 0, false
	}
	// Left-align into 16 bits: a value with n hex digits occupies the top
	// n*4 bits, the rest replicate the most-significant digit's pattern by
	// repeating the parsed bits, which is what xterm's XParseColor does.
	shifted := uint32(v) << uint(16-n*4)
	replicated := shifted
	for bits := n * 4; bits < 16; bits *= 2 {
		replicated |= replicated >> uint(bits)
	}
	return uint16(replicated), true
}

// ColorScheme is a named default palette: the 16 ANSI base colors plus
// default foreground, background, and cursor colors.
type ColorScheme struct {
	Colors     [16]color.RGBA
	Foreground color.RGBA
	Background color.RGBA
	Cursor     color.RGBA
}

// ColorSchemes holds the built-in named default palettes referenced by
// [WithColorScheme]. Names are lowercase, hyphenated.
var ColorSchemes = map[string]ColorScheme{
	"default": {
		Colors: [16]color.RGBA{
			DefaultPalette[0], DefaultPalette[1], DefaultPalette[2], DefaultPalette[3],
			DefaultPalette[4], DefaultPalette[5], DefaultPalette[6], DefaultPalette[7],
			DefaultPalette[8], DefaultPalette[9], DefaultPalette[10], DefaultPalette[11],
			DefaultPalette[12], DefaultPalette[13], DefaultPalette[14], DefaultPalette[15],
		},
		Foreground: DefaultForeground,
		Background: DefaultBackground,
		Cursor:     DefaultCursorColor,
	},
	"dracula": {
		Colors: [16]color.RGBA{
			{40, 42, 54, 255}, {255, 85, 85, 255}, {80, 250, 123, 255}, {241, 250, 140, 255},
			{189, 147, 249, 255}, {255, 121, 198, 255}, {139, 233, 253, 255}, {248, 248, 242, 255},
			{98, 114, 164, 255}, {255, 110, 110, 255}, {105, 255, 147, 255}, {255, 255, 165, 255},
			{214, 172, 255, 255}, {255, 146, 223, 255}, {164, 255, 255, 255}, {255, 255, 255, 255},
		},
		Foreground: color.RGBA{248, 248, 242, 255},
		Background: color.RGBA{40, 42, 54, 255},
		Cursor:     color.RGBA{248, 248, 242, 255},
	},
	"catppuccin-mocha": {
		Colors: [16]color.RGBA{
			{69, 71, 90, 255}, {243, 139, 168, 255}, {166, 227, 161, 255}, {249, 226, 175, 255},
			{137, 180, 250, 255}, {245, 194, 231, 255}, {148, 226, 213, 255}, {186, 194, 222, 255},
			{88, 91, 112, 255}, {243, 139, 168, 255}, {166, 227, 161, 255}, {249, 226, 175, 255},
			{137, 180, 250, 255}, {245, 194, 231, 255}, {148, 226, 213, 255}, {166, 173, 200, 255},
		},
		Foreground: color.RGBA{205, 214, 244, 255},
		Background: color.RGBA{30, 30, 46, 255},
		Cursor:     color.RGBA{245, 224, 220, 255},
	},
	"gruvbox-dark": {
		Colors: [16]color.RGBA{
			{40, 40, 40, 255}, {204, 36, 29, 255}, {152, 151, 26, 255}, {215, 153, 33, 255},
			{69, 133, 136, 255}, {177, 98, 134, 255}, {104, 157, 106, 255}, {168, 153, 132, 255},
			{146, 131, 116, 255}, {251, 73, 52, 255}, {184, 187, 38, 255}, {250, 189, 47, 255},
			{131, 165, 152, 255}, {211, 134, 155, 255}, {142, 192, 124, 255}, {235, 219, 178, 255},
		},
		Foreground: color.RGBA{235, 219, 178, 255},
		Background: color.RGBA{40, 40, 40, 255},
		Cursor:     color.RGBA{235, 219, 178, 255},
	},
	"solarized-dark": {
		Colors: [16]color.RGBA{
			{7, 54, 66, 255}, {220, 50, 47, 255}, {133, 153, 0, 255}, {181, 137, 0, 255},
			{38, 139, 210, 255}, {211, 54, 130, 255}, {42, 161, 152, 255}, {238, 232, 213, 255},
			{0, 43, 54, 255}, {203, 75, 22, 255}, {88, 110, 117, 255}, {101, 123, 131, 255},
			{131, 148, 150, 255}, {108, 113, 196, 255}, {147, 161, 161, 255}, {253, 246, 227, 255},
		},
		Foreground: color.RGBA{131, 148, 150, 255},
		Background: color.RGBA{0, 43, 54, 255},
		Cursor:     color.RGBA{131, 148, 150, 255},
	},
	"tango": {
		Colors: [16]color.RGBA{
			{0, 0, 0, 255}, {204, 0, 0, 255}, {78, 154, 6, 255}, {196, 160, 0, 255},
			{52, 101, 164, 255}, {117, 80, 123, 255}, {6, 152, 154, 255}, {211, 215, 207, 255},
			{85, 87, 83, 255}, {239, 41, 41, 255}, {138, 226, 52, 255}, {252, 233, 79, 255},
			{114, 159, 207, 255}, {173, 127, 168, 255}, {52, 226, 226, 255}, {238, 238, 236, 255},
		},
		Foreground: color.RGBA{211, 215, 207, 255},
		Background: color.RGBA{0, 0, 0, 255},
		Cursor:     color.RGBA{211, 215, 207, 255},
	},
	"vga": {
		Colors: [16]color.RGBA{
			{0, 0, 0, 255}, {170, 0, 0, 255}, {0, 170, 0, 255}, {170, 85, 0, 255},
			{0, 0, 170, 255}, {170, 0, 170, 255}, {0, 170, 170, 255}, {170, 170, 170, 255},
			{85, 85, 85, 255}, {255, 85, 85, 255}, {85, 255, 85, 255}, {255, 255, 85, 255},
			{85, 85, 255, 255}, {255, 85, 255, 255}, {85, 255, 255, 255}, {255, 255, 255, 255},
		},
		Foreground: color.RGBA{170, 170, 170, 255},
		Background: color.RGBA{0, 0, 0, 255},
		Cursor:     color.RGBA{170, 170, 170, 255},
	},
	"xterm": {
		Colors: [16]color.RGBA{
			{0, 0, 0, 255}, {205, 0, 0, 255}, {0, 205, 0, 255}, {205, 205, 0, 255},
			{0, 0, 238, 255}, {205, 0, 205, 255}, {0, 205, 205, 255}, {229, 229, 229, 255},
			{127, 127, 127, 255}, {255, 0, 0, 255}, {0, 255, 0, 255}, {255, 255, 0, 255},
			{92, 92, 255, 255}, {255, 0, 255, 255}, {0, 255, 255, 255}, {255, 255, 255, 255},
		},
		Foreground: color.RGBA{229, 229, 229, 255},
		Background: color.RGBA{0, 0, 0, 255},
		Cursor:     color.RGBA{255, 255, 255, 255},
	},
	"terminal.app": {
		Colors: [16]color.RGBA{
			{0, 0, 0, 255}, {194, 54, 33, 255}, {37, 188, 36, 255}, {173, 173, 39, 255},
			{73, 46, 225, 255}, {211, 56, 211, 255}, {51, 187, 200, 255}, {203, 204, 205, 255},
			{129, 131, 131, 255}, {252, 57, 31, 255}, {49, 231, 34, 255}, {234, 236, 35, 255},
			{88, 51, 255, 255}, {249, 53, 248, 255}, {20, 240, 240, 255}, {233, 235, 235, 255},
		},
		Foreground: color.RGBA{203, 204, 205, 255},
		Background: color.RGBA{0, 0, 0, 255},
		Cursor:     color.RGBA{255, 255, 255, 255},
	},
}
