package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// AppTheme is the default Fyne theme with the platform's palette and a
// slightly tighter layout.
type AppTheme struct{}

// NewAppTheme creates the app theme
func NewAppTheme() fyne.Theme {
	return &AppTheme{}
}

// Color returns theme colors
func (t *AppTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	switch name {
	case theme.ColorNamePrimary:
		return color.RGBA{R: 0, G: 123, B: 255, A: 255}
	case theme.ColorNameSuccess:
		// notices
		return color.RGBA{R: 40, G: 167, B: 69, A: 255}
	case theme.ColorNameError:
		return color.RGBA{R: 220, G: 53, B: 69, A: 255}
	case theme.ColorNameBackground:
		if variant == theme.VariantDark {
			return color.RGBA{R: 24, G: 26, B: 27, A: 255}
		}
		return color.RGBA{R: 248, G: 249, B: 250, A: 255}
	}
	return theme.DefaultTheme().Color(name, variant)
}

// Font returns theme fonts
func (t *AppTheme) Font(style fyne.TextStyle) fyne.Resource {
	return theme.DefaultTheme().Font(style)
}

// Icon returns theme icons
func (t *AppTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return theme.DefaultTheme().Icon(name)
}

// Size returns theme sizes
func (t *AppTheme) Size(name fyne.ThemeSizeName) float32 {
	switch name {
	case theme.SizeNamePadding:
		return 3
	case theme.SizeNameInnerPadding:
		return 6
	case theme.SizeNameHeadingText:
		return 20
	case theme.SizeNameInputRadius:
		return 3
	}
	return theme.DefaultTheme().Size(name)
}
