// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"testing"
	"time"

	"github.com/muesli/termenv"

	"github.com/devtinder/devtinder-tui/internal/model"
)

func TestEveryThemeHasPalette(t *testing.T) {
	for _, name := range model.Themes {
		p := PaletteFor(name)
		if p.Name != name {
			t.Errorf("PaletteFor(%q).Name = %q", name, p.Name)
		}
		for role, c := range map[string]string{
			"Base": string(p.Base), "Text": string(p.Text), "Primary": string(p.Primary),
			"Error": string(p.Error), "OnPrimary": string(p.OnPrimary),
		} {
			if c == "" {
				t.Errorf("%s: %s colour is empty", name, role)
			}
		}
	}
}

func TestUnknownThemeUsesDark(t *testing.T) {
	if got := PaletteFor("neon").Name; got != model.ThemeDark {
		t.Errorf("PaletteFor(neon) = %q, want dark", got)
	}
	if got := ForTheme("").Name; got != model.ThemeDark {
		t.Errorf("ForTheme(\"\") = %q, want dark", got)
	}
}

func TestPalettesDiffer(t *testing.T) {
	seen := map[string]model.ThemeName{}
	for _, name := range model.Themes {
		key := string(PaletteFor(name).Base) + string(PaletteFor(name).Primary)
		if other, dup := seen[key]; dup {
			t.Errorf("%s and %s share base and primary colours", name, other)
		}
		seen[key] = name
	}
}

func TestForThemeRenders(t *testing.T) {
	for _, name := range model.Themes {
		th := ForTheme(name)
		if th.Card.Render("card") == "" {
			t.Errorf("%s: Card renders empty", name)
		}
		if th.ToastError.Render("boom") == "" {
			t.Errorf("%s: ToastError renders empty", name)
		}
	}
}

func TestRendererStyles(t *testing.T) {
	if got := ForTheme(model.ThemeDracula).ChromaStyle(); got != "dracula" {
		t.Errorf("ChromaStyle(dracula) = %q", got)
	}
	if got := ForTheme(model.ThemeDark).ChromaStyle(); got != "monokai" {
		t.Errorf("ChromaStyle(dark) = %q", got)
	}

	light := ForTheme(model.ThemeLight)
	light.ColorProfile = termenv.TrueColor
	if got := light.GlamourStyle(); got != "light" {
		t.Errorf("GlamourStyle(light) = %q", got)
	}
	dark := ForTheme(model.ThemeSynthwave)
	dark.ColorProfile = termenv.TrueColor
	if got := dark.GlamourStyle(); got != "dark" {
		t.Errorf("GlamourStyle(synthwave) = %q", got)
	}
}

func TestSpinnerConfig(t *testing.T) {
	if got := LineSpinner.Duration(); got != 100*time.Millisecond {
		t.Errorf("LineSpinner.Duration() = %v", got)
	}
	if got := (SpinnerConfig{}).Duration(); got != time.Second {
		t.Errorf("zero FPS Duration() = %v", got)
	}
	s := DotsSpinner.Bubbles()
	if len(s.Frames) != len(DotsSpinner.Frames) {
		t.Errorf("Bubbles() frames = %d", len(s.Frames))
	}
	if NewTheme().NewSpinner().View() == "" {
		t.Error("NewSpinner view is empty")
	}
}
