// SPDX-License-Identifier: MPL-2.0

package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

const (
	// FormatCUE renders the configuration in the config file syntax.
	FormatCUE Format = "cue"
	// FormatTOML renders the configuration as TOML.
	FormatTOML Format = "toml"
	// FormatJSON renders the configuration as indented JSON.
	FormatJSON Format = "json"
)

// ErrInvalidFormat is returned when a render Format is not recognized.
var ErrInvalidFormat = errors.New("invalid format")

type (
	// Format selects the output syntax of Render.
	Format string

	// fileView mirrors Config with durations spelled the way the config
	// file accepts them.
	fileView struct {
		Mode        string     `json:"mode" toml:"mode"`
		DownloadDir string     `json:"download_dir" toml:"download_dir"`
		APIBaseURL  string     `json:"api_base_url" toml:"api_base_url"`
		HTTPTimeout string     `json:"http_timeout" toml:"http_timeout"`
		Retries     int        `json:"retries" toml:"retries"`
		PerPage     int        `json:"per_page" toml:"per_page"`
		MaxPages    int        `json:"max_pages" toml:"max_pages"`
		UI          uiFileView `json:"ui" toml:"ui"`
	}

	uiFileView struct {
		Theme      string `json:"theme" toml:"theme"`
		Accessible bool   `json:"accessible" toml:"accessible"`
		Verbose    bool   `json:"verbose" toml:"verbose"`
	}
)

func newFileView(cfg *Config) fileView {
	return fileView{
		Mode:        cfg.Mode.String(),
		DownloadDir: cfg.DownloadDir,
		APIBaseURL:  cfg.APIBaseURL,
		HTTPTimeout: cfg.HTTPTimeout.String(),
		Retries:     cfg.Retries,
		PerPage:     cfg.PerPage,
		MaxPages:    cfg.MaxPages,
		UI: uiFileView{
			Theme:      cfg.UI.Theme.String(),
			Accessible: cfg.UI.Accessible,
			Verbose:    cfg.UI.Verbose,
		},
	}
}

// Render formats cfg in the requested syntax.
func Render(cfg *Config, format Format) (string, error) {
	switch format {
	case FormatCUE, "":
		return GenerateCUE(cfg), nil
	case FormatTOML:
		out, err := toml.Marshal(newFileView(cfg))
		if err != nil {
			return "", fmt.Errorf("failed to encode config as TOML: %w", err)
		}
		return string(out), nil
	case FormatJSON:
		out, err := json.MarshalIndent(newFileView(cfg), "", "  ")
		if err != nil {
			return "", fmt.Errorf("failed to encode config as JSON: %w", err)
		}
		return string(out) + "\n", nil
	default:
		return "", fmt.Errorf("%w %q (valid: cue, toml, json)", ErrInvalidFormat, format)
	}
}

// GenerateCUE generates a CUE representation of the configuration that
// validates against the config schema.
func GenerateCUE(cfg *Config) string {
	view := newFileView(cfg)

	var sb strings.Builder

	sb.WriteString("// gh-release-dl configuration file\n\n")

	fmt.Fprintf(&sb, "mode: %q\n", view.Mode)
	if view.DownloadDir != "" {
		fmt.Fprintf(&sb, "download_dir: %q\n", view.DownloadDir)
	}
	fmt.Fprintf(&sb, "api_base_url: %q\n", view.APIBaseURL)
	fmt.Fprintf(&sb, "http_timeout: %q\n", view.HTTPTimeout)
	fmt.Fprintf(&sb, "retries: %d\n", view.Retries)
	fmt.Fprintf(&sb, "per_page: %d\n", view.PerPage)
	fmt.Fprintf(&sb, "max_pages: %d\n", view.MaxPages)

	sb.WriteString("\nui: {\n")
	fmt.Fprintf(&sb, "\ttheme: %q\n", view.UI.Theme)
	fmt.Fprintf(&sb, "\taccessible: %v\n", view.UI.Accessible)
	fmt.Fprintf(&sb, "\tverbose: %v\n", view.UI.Verbose)
	sb.WriteString("}\n")

	return sb.String()
}
