// Package ui provides the LoadPlan desktop application.
//
// This file defines a compact Fyne theme for a dense planning layout.

package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// LoadPlanTheme wraps the default Fyne theme with compact sizing overrides.
type LoadPlanTheme struct {
	base    fyne.Theme
	variant fyne.ThemeVariant
	forced  bool
}

// NewLoadPlanTheme creates a theme for a config value of "light", "dark"
// or "system". Any other value follows the system variant.
func NewLoadPlanTheme(name string) *LoadPlanTheme {
	t := &LoadPlanTheme{base: theme.DefaultTheme()}
	t.SetName(name)
	return t
}

// SetName switches between the light, dark and system variants.
func (t *LoadPlanTheme) SetName(name string) {
	switch name {
	case "light":
		t.variant, t.forced = theme.VariantLight, true
	case "dark":
		t.variant, t.forced = theme.VariantDark, true
	default:
		t.forced = false
	}
}

// Color delegates to the base theme, pinning the variant unless following the system.
func (t *LoadPlanTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	if t.forced {
		variant = t.variant
	}
	return t.base.Color(name, variant)
}

func (t *LoadPlanTheme) Font(style fyne.TextStyle) fyne.Resource {
	return t.base.Font(style)
}

func (t *LoadPlanTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return t.base.Icon(name)
}

// Size returns compact sizing overrides.
func (t *LoadPlanTheme) Size(name fyne.ThemeSizeName) float32 {
	switch name {
	case theme.SizeNameText:
		return 12
	case theme.SizeNameCaptionText:
		return 9
	case theme.SizeNameHeadingText:
		return 20
	case theme.SizeNameSubHeadingText:
		return 15
	case theme.SizeNamePadding:
		return 3
	case theme.SizeNameInnerPadding:
		return 6
	case theme.SizeNameInlineIcon:
		return 16
	default:
		return t.base.Size(name)
	}
}
