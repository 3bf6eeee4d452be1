// Package theme provides the color palette of the console.
//
// Colors are semantic: widgets ask for Colors.Success or Colors.Header rather
// than a concrete tcell color, so a built-in theme or the theme.colors
// section of the config file can restyle everything at once. Status colors
// sent by the backend (or the built-in status tables) are names such as
// "yellow" or "teal"; StatusColor maps them onto the status palette.
//
// Usage:
//
//	theme.ApplyCustomTheme(&cfg.Theme)
//	theme.ApplyToTview()
//	cell.SetTextColor(theme.StatusColor(entry.Color))
package theme

import (
	"fmt"
	"maps"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/truckline/dispatchdesk/internal/config"
	"github.com/truckline/dispatchdesk/internal/status"
)

// Colors defines the semantic color palette for the application.
var Colors = struct {
	// Primary colors
	Primary   tcell.Color // Main text and UI elements
	Secondary tcell.Color // Supporting text and labels
	Tertiary  tcell.Color // Supporting text and labels

	// Semantic colors
	Success tcell.Color
	Warning tcell.Color
	Error   tcell.Color
	Info    tcell.Color

	// UI element colors
	Background tcell.Color
	Border     tcell.Color
	Selection  tcell.Color // Selected row background
	Header     tcell.Color
	HeaderText tcell.Color
	Footer     tcell.Color
	FooterText tcell.Color

	// Additional tview theme colors
	Title        tcell.Color
	Contrast     tcell.Color
	MoreContrast tcell.Color
	Inverse      tcell.Color

	// Status palette, indexed by the status color names.
	StatusNeutral tcell.Color // gray
	StatusPending tcell.Color // yellow
	StatusActive  tcell.Color // blue
	StatusWorking tcell.Color // teal
	StatusDone    tcell.Color // green
	StatusWarning tcell.Color // orange
	StatusError   tcell.Color // red
}{
	Primary:   tcell.ColorWhite,
	Secondary: tcell.ColorGray,
	Tertiary:  tcell.ColorAqua,

	Success: tcell.ColorGreen,
	Warning: tcell.ColorYellow,
	Error:   tcell.ColorRed,
	Info:    tcell.ColorBlue,

	Background: tcell.ColorDefault,
	Border:     tcell.ColorGray,
	Selection:  tcell.ColorBlue,
	Header:     tcell.ColorDefault,
	HeaderText: tcell.ColorYellow,
	Footer:     tcell.ColorDefault,
	FooterText: tcell.ColorWhite,

	Title:        tcell.ColorWhite,
	Contrast:     tcell.ColorBlue,
	MoreContrast: tcell.ColorFuchsia,
	Inverse:      tcell.ColorBlack,

	StatusNeutral: tcell.ColorGray,
	StatusPending: tcell.ColorYellow,
	StatusActive:  tcell.ColorBlue,
	StatusWorking: tcell.ColorTeal,
	StatusDone:    tcell.ColorGreen,
	StatusWarning: tcell.ColorOrange,
	StatusError:   tcell.ColorRed,
}

// Only expose semantic tags that map directly to user-themeable colors
var semanticTagMap = map[string]func() tcell.Color{
	"primary":   func() tcell.Color { return Colors.Primary },
	"secondary": func() tcell.Color { return Colors.Secondary },
	"tertiary":  func() tcell.Color { return Colors.Tertiary },
	"success":   func() tcell.Color { return Colors.Success },
	"warning":   func() tcell.Color { return Colors.Warning },
	"error":     func() tcell.Color { return Colors.Error },
	"info":      func() tcell.Color { return Colors.Info },
	"selection": func() tcell.Color { return Colors.Selection },
	"header":    func() tcell.Color { return Colors.HeaderText },
	"footer":    func() tcell.Color { return Colors.FooterText },
	"title":     func() tcell.Color { return Colors.Title },
}

// ReplaceSemanticTags replaces semantic tags like [primary] with the current theme color tag.
func ReplaceSemanticTags(s string) string {
	for tag, colorFunc := range semanticTagMap {
		s = strings.ReplaceAll(s, "["+tag+"]", "["+ColorToTag(colorFunc())+"]")
	}

	return s
}

// StatusColor maps a status color name to the themed palette. Names outside
// the palette, such as hex codes sent by the backend, are parsed as colors.
func StatusColor(name string) tcell.Color {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", status.ColorGray:
		return Colors.StatusNeutral
	case status.ColorYellow:
		return Colors.StatusPending
	case status.ColorBlue:
		return Colors.StatusActive
	case status.ColorTeal:
		return Colors.StatusWorking
	case status.ColorGreen:
		return Colors.StatusDone
	case status.ColorOrange:
		return Colors.StatusWarning
	case status.ColorRed:
		return Colors.StatusError
	default:
		return parseColor(name)
	}
}

// ColorToTag returns a tview color tag string for a tcell.Color
func ColorToTag(c tcell.Color) string {
	switch c {
	case tcell.ColorDefault:
		return "default"
	case tcell.ColorBlack:
		return "black"
	case tcell.ColorMaroon:
		return "maroon"
	case tcell.ColorGreen:
		return "green"
	case tcell.ColorOlive:
		return "olive"
	case tcell.ColorNavy:
		return "navy"
	case tcell.ColorPurple:
		return "purple"
	case tcell.ColorTeal:
		return "teal"
	case tcell.ColorSilver:
		return "silver"
	case tcell.ColorGray:
		return "gray"
	case tcell.ColorRed:
		return "red"
	case tcell.ColorLime:
		return "lime"
	case tcell.ColorYellow:
		return "yellow"
	case tcell.ColorBlue:
		return "blue"
	case tcell.ColorFuchsia:
		return "fuchsia"
	case tcell.ColorAqua:
		return "aqua"
	case tcell.ColorWhite:
		return "white"
	default:
		return fmt.Sprintf("#%06x", c.Hex())
	}
}

// ApplyToTview sets the global tview.Styles to match the semantic theme colors.
func ApplyToTview() {
	tview.Styles = tview.Theme{
		PrimitiveBackgroundColor:    Colors.Background,
		ContrastBackgroundColor:     Colors.Contrast,
		MoreContrastBackgroundColor: Colors.Selection,
		BorderColor:                 Colors.Border,
		TitleColor:                  Colors.Title,
		GraphicsColor:               Colors.Info,
		PrimaryTextColor:            Colors.Primary,
		SecondaryTextColor:          Colors.Secondary,
		TertiaryTextColor:           Colors.Tertiary,
		InverseTextColor:            Colors.Inverse,
		ContrastSecondaryTextColor:  Colors.Selection,
	}
}

// BuiltInThemes defines the available built-in themes.
var BuiltInThemes = map[string]map[string]string{
	"default": {
		"primary":       "white",
		"secondary":     "gray",
		"tertiary":      "aqua",
		"success":       "green",
		"warning":       "yellow",
		"error":         "red",
		"info":          "blue",
		"background":    "default",
		"border":        "gray",
		"selection":     "blue",
		"header":        "navy",
		"headertext":    "yellow",
		"footer":        "default",
		"footertext":    "white",
		"title":         "white",
		"contrast":      "blue",
		"morecontrast":  "fuchsia",
		"inverse":       "black",
		"statusneutral": "gray",
		"statuspending": "yellow",
		"statusactive":  "blue",
		"statusworking": "aqua",
		"statusdone":    "green",
		"statuswarning": "orange",
		"statuserror":   "red",
	},
	// Nord (https://www.nordtheme.com/docs/colors-and-palettes)
	"nord": {
		"primary":       "#d8dee9",
		"secondary":     "#e5e9f0",
		"tertiary":      "#eceff4",
		"success":       "#a3be8c",
		"warning":       "#ebcb8b",
		"error":         "#bf616a",
		"info":          "#5e81ac",
		"background":    "#2e3440",
		"border":        "#4c566a",
		"selection":     "#434c5e",
		"header":        "#3b4252",
		"headertext":    "#88c0d0",
		"footer":        "#3b4252",
		"footertext":    "#d8dee9",
		"title":         "#b48ead",
		"contrast":      "#3b4252",
		"morecontrast":  "#242933",
		"inverse":       "#2e3440",
		"statusneutral": "#e5e9f0",
		"statuspending": "#ebcb8b",
		"statusactive":  "#5e81ac",
		"statusworking": "#eceff4",
		"statusdone":    "#a3be8c",
		"statuswarning": "#d08770",
		"statuserror":   "#bf616a",
	},
}

// ThemeNames returns the built-in theme names.
func ThemeNames() []string {
	names := make([]string, 0, len(BuiltInThemes))
	for name := range BuiltInThemes {
		names = append(names, name)
	}

	return names
}

// ResolveTheme merges the selected built-in theme with user overrides.
// Unknown theme names fall back to "default".
func ResolveTheme(cfg *config.ThemeConfig) map[string]string {
	base := BuiltInThemes["default"]
	if cfg != nil && cfg.Name != "" {
		if t, ok := BuiltInThemes[strings.ToLower(cfg.Name)]; ok {
			base = t
		}
	}

	resolved := maps.Clone(base)
	if cfg != nil {
		for k, v := range cfg.Colors {
			resolved[strings.ToLower(k)] = v
		}
	}

	return resolved
}

// ApplyCustomTheme applies the resolved theme to the Colors struct.
func ApplyCustomTheme(cfg *config.ThemeConfig) {
	for key, val := range ResolveTheme(cfg) {
		c := parseColor(val)
		switch key {
		case "primary":
			Colors.Primary = c
		case "secondary":
			Colors.Secondary = c
		case "tertiary":
			Colors.Tertiary = c
		case "success":
			Colors.Success = c
		case "warning":
			Colors.Warning = c
		case "error":
			Colors.Error = c
		case "info":
			Colors.Info = c
		case "background":
			Colors.Background = c
		case "border":
			Colors.Border = c
		case "selection":
			Colors.Selection = c
		case "header":
			Colors.Header = c
		case "headertext":
			Colors.HeaderText = c
		case "footer":
			Colors.Footer = c
		case "footertext":
			Colors.FooterText = c
		case "title":
			Colors.Title = c
		case "contrast":
			Colors.Contrast = c
		case "morecontrast":
			Colors.MoreContrast = c
		case "inverse":
			Colors.Inverse = c
		case "statusneutral":
			Colors.StatusNeutral = c
		case "statuspending":
			Colors.StatusPending = c
		case "statusactive":
			Colors.StatusActive = c
		case "statusworking":
			Colors.StatusWorking = c
		case "statusdone":
			Colors.StatusDone = c
		case "statuswarning":
			Colors.StatusWarning = c
		case "statuserror":
			Colors.StatusError = c
		}
	}
}

// parseColor parses a color string (ANSI name, W3C name, or hex code) to tcell.Color.
func parseColor(s string) tcell.Color {
	if strings.EqualFold(s, "default") {
		return tcell.ColorDefault
	}

	return tcell.GetColor(s)
}
