// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"net/url"
	"time"
)

const (
	// ModeAll lists every release and loops through the menus.
	ModeAll Mode = "all"
	// ModeLatest offers only the assets of the latest release.
	ModeLatest Mode = "latest"

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

	// MaxPerPage is the largest page size the GitHub API accepts.
	MaxPerPage = 100
)

var (
	// ErrInvalidMode is returned when a Mode value is not recognized.
	ErrInvalidMode = errors.New("invalid mode")
	// ErrInvalidTheme is returned when a Theme value is not recognized.
	ErrInvalidTheme = errors.New("invalid theme")
	// ErrInvalidValue is returned when a numeric or URL setting is out of range.
	ErrInvalidValue = errors.New("invalid value")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// Mode selects how releases are offered.
	Mode string

	// InvalidModeError is returned when a Mode value is not recognized.
	// It wraps ErrInvalidMode for errors.Is() compatibility.
	InvalidModeError struct {
		Value Mode
	}

	// Theme names a menu color theme.
	Theme string

	// InvalidThemeError is returned when a Theme value is not recognized.
	// It wraps ErrInvalidTheme for errors.Is() compatibility.
	InvalidThemeError struct {
		Value Theme
	}

	// InvalidValueError reports a setting outside its allowed range.
	InvalidValueError struct {
		Key    string
		Value  any
		Reason string
	}

	// InvalidConfigError is returned when a Config has invalid fields.
	// It wraps ErrInvalidConfig for errors.Is() compatibility and collects
	// field-level validation errors from all sub-components.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// Config holds the application configuration.
	Config struct {
		// Mode is "all" (browse every release) or "latest".
		Mode Mode `json:"mode" toml:"mode" mapstructure:"mode"`
		// DownloadDir is where assets are saved; empty means the working directory.
		DownloadDir string `json:"download_dir" toml:"download_dir" mapstructure:"download_dir"`
		// APIBaseURL is the GitHub REST endpoint, changed for GitHub Enterprise.
		APIBaseURL string `json:"api_base_url" toml:"api_base_url" mapstructure:"api_base_url"`
		// HTTPTimeout bounds each HTTP request, including the asset body.
		HTTPTimeout time.Duration `json:"http_timeout" toml:"http_timeout" mapstructure:"http_timeout"`
		// Retries is how often transient API failures are retried.
		Retries int `json:"retries" toml:"retries" mapstructure:"retries"`
		// PerPage is the release page size (1..100).
		PerPage int `json:"per_page" toml:"per_page" mapstructure:"per_page"`
		// MaxPages bounds release list pagination.
		MaxPages int `json:"max_pages" toml:"max_pages" mapstructure:"max_pages"`
		// UI configures the menus and output.
		UI UIConfig `json:"ui" toml:"ui" mapstructure:"ui"`
	}

	// UIConfig configures the user interface.
	UIConfig struct {
		// Theme sets the menu color theme
		Theme Theme `json:"theme" toml:"theme" mapstructure:"theme"`
		// Accessible renders plain-text prompts for screen readers
		Accessible bool `json:"accessible" toml:"accessible" mapstructure:"accessible"`
		// Verbose enables debug logging and detailed error output
		Verbose bool `json:"verbose" toml:"verbose" mapstructure:"verbose"`
	}
)

// String returns the string representation of the Mode.
func (m Mode) String() string { return string(m) }

// IsValid returns whether the Mode is one of the defined modes,
// and a list of validation errors if it is not.
func (m Mode) IsValid() (bool, []error) {
	switch m {
	case ModeAll, ModeLatest:
		return true, nil
	default:
		return false, []error{&InvalidModeError{Value: m}}
	}
}

// Error implements the error interface for InvalidModeError.
func (e *InvalidModeError) Error() string {
	return fmt.Sprintf("invalid mode %q (valid: all, latest)", e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidModeError) Unwrap() error { return ErrInvalidMode }

// String returns the string representation of the Theme.
func (t Theme) String() string { return string(t) }

// IsValid returns whether the Theme is one of the defined themes,
// and a list of validation errors if it is not.
func (t Theme) IsValid() (bool, []error) {
	switch t {
	case ThemeDefault, ThemeCharm, ThemeDracula, ThemeCatppuccin, ThemeBase16:
		return true, nil
	default:
		return false, []error{&InvalidThemeError{Value: t}}
	}
}

// Error implements the error interface for InvalidThemeError.
func (e *InvalidThemeError) Error() string {
	return fmt.Sprintf("invalid theme %q (valid: default, charm, dracula, catppuccin, base16)", e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidThemeError) Unwrap() error { return ErrInvalidTheme }

// Error implements the error interface for InvalidValueError.
func (e *InvalidValueError) Error() string {
	return fmt.Sprintf("invalid %s %v: %s", e.Key, e.Value, e.Reason)
}

// Unwrap returns ErrInvalidValue for errors.Is() compatibility.
func (e *InvalidValueError) Unwrap() error { return ErrInvalidValue }

// IsValid returns whether the Config has valid fields.
// CUE checks the same ranges for file input; this also covers environment
// overrides, which bypass the schema.
func (c Config) IsValid() (bool, []error) {
	var errs []error
	if valid, fieldErrs := c.Mode.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.UI.Theme.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if u, err := url.Parse(c.APIBaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, &InvalidValueError{Key: "api_base_url", Value: c.APIBaseURL, Reason: "must be an absolute URL"})
	}
	if c.HTTPTimeout <= 0 {
		errs = append(errs, &InvalidValueError{Key: "http_timeout", Value: c.HTTPTimeout, Reason: "must be positive"})
	}
	if c.Retries < 0 {
		errs = append(errs, &InvalidValueError{Key: "retries", Value: c.Retries, Reason: "must not be negative"})
	}
	if c.PerPage < 1 || c.PerPage > MaxPerPage {
		errs = append(errs, &InvalidValueError{Key: "per_page", Value: c.PerPage, Reason: "must be between 1 and 100"})
	}
	if c.MaxPages < 1 {
		errs = append(errs, &InvalidValueError{Key: "max_pages", Value: c.MaxPages, Reason: "must be at least 1"})
	}
	if len(errs) > 0 {
		return false, []error{&InvalidConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidConfigError.
func (e *InvalidConfigError) Error() string {
	if len(e.FieldErrors) == 1 {
		return fmt.Sprintf("invalid config: %v", e.FieldErrors[0])
	}
	return fmt.Sprintf("invalid config: %d field error(s): %v", len(e.FieldErrors), errors.Join(e.FieldErrors...))
}

// Unwrap returns ErrInvalidConfig for errors.Is() compatibility.
func (e *InvalidConfigError) Unwrap() error { return ErrInvalidConfig }

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Mode:        ModeAll,
		DownloadDir: "", // working directory
		APIBaseURL:  "https://api.github.com",
		HTTPTimeout: 60 * time.Second,
		Retries:     2,
		PerPage:     30,
		MaxPages:    10,
		UI: UIConfig{
			Theme:      ThemeDefault,
			Accessible: false,
			Verbose:    false,
		},
	}
}
