// Package config interprets the scalar value grammar of git
// configuration files: booleans, integers with size suffixes, colors
// and paths.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// ParseBool interprets a config value as a boolean the way git does:
// "yes", "on", "true" and non-zero integers are true; "no", "off",
// "false", "" and zero are false.
func ParseBool(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "on", "true":
		return true, nil
	case "no", "off", "false", "":
		return false, nil
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n != 0, nil
	}
	return false, fmt.Errorf("%q is not a boolean value", s)
}

// Integer is a numeric config value with an optional size suffix. The
// suffix is kept separate from the value; use Shift to obtain the
// fully multiplied result.
type Integer struct {
	Value  int64
	Suffix byte // 0, 'k', 'm' or 'g'
}

// ParseInteger parses a decimal value with an optional k/m/g suffix,
// case-insensitively.
func ParseInteger(s string) (Integer, error) {
	if s == "" {
		return Integer{}, fmt.Errorf("empty integer value")
	}
	suffix := byte(0)
	switch s[len(s)-1] {
	case 'k', 'K':
		suffix = 'k'
	case 'm', 'M':
		suffix = 'm'
	case 'g', 'G':
		suffix = 'g'
	}
	if suffix != 0 {
		s = s[:len(s)-1]
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return Integer{}, fmt.Errorf("%q is not an integer value", s)
	}
	return Integer{Value: v, Suffix: suffix}, nil
}

// Shift returns the value with its suffix applied. Very large values
// overflow silently, as they do in git.
func (i Integer) Shift() int64 {
	switch i.Suffix {
	case 'k':
		return i.Value << 10
	case 'm':
		return i.Value << 20
	case 'g':
		return i.Value << 30
	default:
		return i.Value
	}
}

var colorNames = map[string]bool{
	"normal": true, "black": true, "red": true, "green": true,
	"yellow": true, "blue": true, "magenta": true, "cyan": true,
	"white": true, "default": true,
}

var colorAttributes = map[string]bool{
	"bold": true, "dim": true, "ul": true, "underline": true,
	"blink": true, "reverse": true, "italic": true, "strike": true,
}

// Color is a config color value: up to two color names (foreground
// first, background second) and any number of text attributes, in any
// order.
type Color struct {
	Foreground string
	Background string
	Attributes []string
}

// ParseColor parses a space-separated color value. Attributes may be
// negated with a "no" or "no-" prefix.
func ParseColor(s string) (Color, error) {
	var c Color
	for _, word := range strings.Fields(s) {
		lower := strings.ToLower(word)
		attr := strings.TrimPrefix(strings.TrimPrefix(lower, "no-"), "no")
		switch {
		case colorAttributes[attr]:
			c.Attributes = append(c.Attributes, lower)
		case colorNames[lower] || isColorValue(lower):
			switch {
			case c.Foreground == "":
				c.Foreground = lower
			case c.Background == "":
				c.Background = lower
			default:
				return Color{}, fmt.Errorf("%q: at most two colors may be given", s)
			}
		default:
			return Color{}, fmt.Errorf("%q is not a color or attribute", word)
		}
	}
	return c, nil
}

// isColorValue accepts the 0-255 ansi palette indexes and #rrggbb.
func isColorValue(s string) bool {
	if n, err := strconv.Atoi(s); err == nil {
		return n >= 0 && n <= 255
	}
	if len(s) == 7 && s[0] == '#' {
		_, err := strconv.ParseUint(s[1:], 16, 32)
		return err == nil
	}
	return false
}

// ParsePath interprets a path value, expanding a leading "~/" to the
// current user's home directory.
func ParsePath(s string) (string, error) {
	if s == "~" || strings.HasPrefix(s, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("cannot interpolate %q: %w", s, err)
		}
		return filepath.Join(home, strings.TrimPrefix(s[1:], "/")), nil
	}
	return s, nil
}
