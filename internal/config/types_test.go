// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"testing"
)

func TestMode_IsValid(t *testing.T) {
	t.Parallel()

	for _, m := range []Mode{ModeAll, ModeLatest} {
		if valid, errs := m.IsValid(); !valid || errs != nil {
			t.Errorf("Mode(%q).IsValid() = %v, %v", m, valid, errs)
		}
	}

	valid, errs := Mode("oldest").IsValid()
	if valid || len(errs) != 1 || !errors.Is(errs[0], ErrInvalidMode) {
		t.Errorf("unexpected result for invalid mode: %v, %v", valid, errs)
	}
}

func TestTheme_IsValid(t *testing.T) {
	t.Parallel()

	for _, th := range []Theme{ThemeDefault, ThemeCharm, ThemeDracula, ThemeCatppuccin, ThemeBase16} {
		if valid, _ := th.IsValid(); !valid {
			t.Errorf("Theme(%q) should be valid", th)
		}
	}

	_, errs := Theme("neon").IsValid()
	var themeErr *InvalidThemeError
	if len(errs) != 1 || !errors.As(errs[0], &themeErr) || themeErr.Value != "neon" {
		t.Errorf("expected InvalidThemeError for neon, got %v", errs)
	}
}

func TestConfig_IsValid_CollectsFieldErrors(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.APIBaseURL = "api.github.com"
	cfg.HTTPTimeout = 0
	cfg.Retries = -1
	cfg.PerPage = 101
	cfg.MaxPages = 0

	valid, errs := cfg.IsValid()
	if valid || len(errs) != 1 {
		t.Fatalf("IsValid() = %v, %v", valid, errs)
	}

	var cfgErr *InvalidConfigError
	if !errors.As(errs[0], &cfgErr) {
		t.Fatalf("expected InvalidConfigError, got %T", errs[0])
	}
	if len(cfgErr.FieldErrors) != 5 {
		t.Errorf("expected 5 field errors, got %d: %v", len(cfgErr.FieldErrors), cfgErr.FieldErrors)
	}
	for _, fieldErr := range cfgErr.FieldErrors {
		if !errors.Is(fieldErr, ErrInvalidValue) {
			t.Errorf("field error %v should wrap ErrInvalidValue", fieldErr)
		}
	}
	if !errors.Is(errs[0], ErrInvalidConfig) {
		t.Error("InvalidConfigError should wrap ErrInvalidConfig")
	}
}
