package img2sketch

import (
	"fmt"
	"strings"
)

// Theme selects the page colour scheme the sketch is rendered for.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// DefaultTheme is used when no theme has been chosen yet.
const DefaultTheme = ThemeDark

// ThemeTint is the edge colour blended into a sketch together with the
// brightness multiplier applied to the posterized base colours.
type ThemeTint struct {
	R, G, B uint8
	Boost   float64
}

var (
	// Dark edges on a slightly dimmed base for light pages.
	lightTint = ThemeTint{R: 24, G: 24, B: 24, Boost: 0.95}
	// Light edges on a slightly brightened base for dark pages.
	darkTint = ThemeTint{R: 240, G: 240, B: 240, Boost: 1.02}
)

// Tint returns the tint for t. Anything other than ThemeLight gets the
// dark tint.
func (t Theme) Tint() ThemeTint {
	if t == ThemeLight {
		return lightTint
	}
	return darkTint
}

// Toggle returns the opposite theme.
func (t Theme) Toggle() Theme {
	if t == ThemeLight {
		return ThemeDark
	}
	return ThemeLight
}

func (t Theme) String() string {
	if t == "" {
		return string(DefaultTheme)
	}
	return string(t)
}

// ParseTheme parses "light" or "dark", case-insensitively. The empty string
// yields DefaultTheme.
func ParseTheme(s string) (Theme, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return DefaultTheme, nil
	case string(ThemeLight):
		return ThemeLight, nil
	case string(ThemeDark):
		return ThemeDark, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownTheme, s)
}
