// SPDX-License-Identifier: EPL-2.0

package tui

import (
	"io"
	"os"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"
)

// Theme represents the visual theme for TUI components.
type Theme string

const (
	// ThemeDefault uses the default huh theme.
	ThemeDefault Theme = "default"
	// ThemeCharm uses the Charm theme.
	ThemeCharm Theme = "charm"
	// ThemeDracula uses the Dracula theme.
	ThemeDracula Theme = "dracula"
	// ThemeCatppuccin uses the Catppuccin theme.
	ThemeCatppuccin Theme = "catppuccin"
	// ThemeBase16 uses the Base16 theme.
	ThemeBase16 Theme = "base16"
)

// Config holds common configuration for TUI components.
type Config struct {
	// Theme specifies the visual theme to use.
	Theme Theme
	// Accessible enables accessible mode for screen readers.
	Accessible bool
	// Height limits the number of visible menu entries (0 for auto).
	Height int
	// Output specifies where to write the component output.
	Output io.Writer
	// Input specifies where keystrokes are read from (nil for stdin).
	Input io.Reader
}

// DefaultConfig returns the default configuration for TUI components.
// Accessible mode is enabled automatically when stdin is not a terminal or
// the ACCESSIBLE environment variable is set; prompts then go to stderr so
// they stay visible when stdout is redirected.
func DefaultConfig() Config {
	accessible := !isInputTerminal() || os.Getenv("ACCESSIBLE") != ""

	var output io.Writer = os.Stdout
	if accessible {
		output = os.Stderr
	}

	return Config{
		Theme:      ThemeDefault,
		Accessible: accessible,
		Output:     output,
	}
}

// ParseTheme maps a configuration value to a Theme. Unknown names fall back
// to ThemeDefault and report ok=false.
func ParseTheme(name string) (theme Theme, ok bool) {
	switch t := Theme(name); t {
	case ThemeDefault, ThemeCharm, ThemeDracula, ThemeCatppuccin, ThemeBase16:
		return t, true
	case "":
		return ThemeDefault, true
	default:
		return ThemeDefault, false
	}
}

// isInputTerminal returns true if stdin is connected to a terminal.
func isInputTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// shouldUseAccessible returns true if accessible mode should be used.
// A custom Input is never a terminal, so it always selects accessible mode.
func shouldUseAccessible(cfg Config) bool {
	return cfg.Accessible || cfg.Input != nil || !isInputTerminal()
}

// getOutputWriter returns cfg.Output, or stderr/stdout depending on whether
// accessible mode is in effect.
func getOutputWriter(cfg Config) io.Writer {
	if cfg.Output != nil {
		return cfg.Output
	}
	if shouldUseAccessible(cfg) {
		return os.Stderr
	}
	return os.Stdout
}

// getHuhTheme converts a Theme to a huh.Theme.
func getHuhTheme(t Theme) *huh.Theme {
	switch t {
	case ThemeCharm:
		return huh.ThemeCharm()
	case ThemeDracula:
		return huh.ThemeDracula()
	case ThemeCatppuccin:
		return huh.ThemeCatppuccin()
	case ThemeBase16:
		return huh.ThemeBase16()
	default:
		return huh.ThemeBase()
	}
}
