// SPDX-License-Identifier: MPL-2.0

package config

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"
)

func TestRender_TOML(t *testing.T) {
	t.Parallel()

	out, err := Render(DefaultConfig(), FormatTOML)
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}

	var decoded map[string]any
	if err := toml.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("output is not valid TOML: %v\n%s", err, out)
	}
	if decoded["mode"] != "all" || decoded["http_timeout"] != "1m0s" {
		t.Errorf("unexpected TOML values: %v", decoded)
	}
	ui, ok := decoded["ui"].(map[string]any)
	if !ok || ui["theme"] != "default" {
		t.Errorf("ui table missing or wrong: %v", decoded["ui"])
	}
}

func TestRender_JSON(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.PerPage = 75

	out, err := Render(cfg, FormatJSON)
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}

	var decoded fileView
	if err := json.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded.PerPage != 75 || decoded.APIBaseURL != cfg.APIBaseURL {
		t.Errorf("unexpected JSON values: %+v", decoded)
	}
}

func TestRender_CUEIsDefault(t *testing.T) {
	t.Parallel()

	out, err := Render(DefaultConfig(), "")
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	if !strings.Contains(out, `mode: "all"`) || !strings.Contains(out, "ui: {") {
		t.Errorf("unexpected CUE output:\n%s", out)
	}
	if strings.Contains(out, "download_dir") {
		t.Error("empty download_dir should be omitted")
	}
}

func TestRender_UnknownFormat(t *testing.T) {
	t.Parallel()

	if _, err := Render(DefaultConfig(), "yaml"); !errors.Is(err, ErrInvalidFormat) {
		t.Errorf("expected ErrInvalidFormat, got %v", err)
	}
}
