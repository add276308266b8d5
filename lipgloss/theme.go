// Package lipgloss renders reports for terminals using the Lipgloss styling
// library.
package lipgloss

// Palette holds the semantic colors of a theme.
type Palette struct {
	Foreground string
	Muted      string
	Accent     string
	Title      string

	// Severity colors.
	High   string
	Medium string
	Low    string

	// Score band colors.
	Good string
	Fair string
	Poor string

	BarEmpty string
}

// Theme is a named palette.
type Theme struct {
	name    string
	palette Palette
}

// Name returns the theme name.
func (t *Theme) Name() string {
	return t.name
}

// Palette returns the semantic color palette for this theme.
func (t *Theme) Palette() Palette {
	return t.palette
}

// DefaultTheme returns the default theme (dark background optimized).
func DefaultTheme() *Theme {
	return DarkTheme()
}

// ThemeByName returns the named theme, or the default for unknown names.
func ThemeByName(name string) *Theme {
	if name == "light" {
		return LightTheme()
	}
	return DarkTheme()
}

// DarkTheme returns a theme optimized for dark terminal backgrounds.
func DarkTheme() *Theme {
	return &Theme{
		name: "dark",
		palette: Palette{
			// Catppuccin Mocha
			Foreground: "#cdd6f4",
			Muted:      "#6c7086",
			Accent:     "#89b4fa",
			Title:      "#f9e2af",

			High:   "#f38ba8",
			Medium: "#fab387",
			Low:    "#94e2d5",

			Good: "#a6e3a1",
			Fair: "#f9e2af",
			Poor: "#f38ba8",

			BarEmpty: "#45475a",
		},
	}
}

// LightTheme returns a theme optimized for light terminal backgrounds.
func LightTheme() *Theme {
	return &Theme{
		name: "light",
		palette: Palette{
			// Catppuccin Latte
			Foreground: "#4c4f69",
			Muted:      "#9ca0b0",
			Accent:     "#1e66f5",
			Title:      "#df8e1d",

			High:   "#d20f39",
			Medium: "#fe640b",
			Low:    "#179299",

			Good: "#40a02b",
			Fair: "#df8e1d",
			Poor: "#d20f39",

			BarEmpty: "#ccd0da",
		},
	}
}
