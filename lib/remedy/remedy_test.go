package remedy_test

import (
	"slices"
	"strings"
	"testing"

	"github.com/boxelgame/boxel/lib/remedy"
)

func TestTextRendersTemplate(t *testing.T) {
	remedy.SetLanguage("en")
	got := remedy.Text(remedy.WindowCreationVersionUnavailable, map[string]any{
		"Version": "4.6",
		"Profile": "core",
	})
	if !strings.Contains(got, "OpenGL 4.6 (core profile)") {
		t.Fatalf("unexpected text %q", got)
	}
}

func TestEveryMessageIsTranslated(t *testing.T) {
	ids := []string{
		remedy.SubsystemInit,
		remedy.WindowCreation,
		remedy.WindowCreationVersionUnavailable,
		remedy.WindowCreationAPIUnavailable,
		remedy.ContextActivation,
		remedy.FunctionLoad,
		remedy.FunctionLoadProbe,
		remedy.FunctionBind,
	}
	defer remedy.SetLanguage("en")
	for _, lang := range []string{"en", "ja"} {
		remedy.SetLanguage(lang)
		for _, id := range ids {
			if remedy.Text(id, map[string]any{"Version": "3.3", "Profile": "core", "Missing": 2}) == "" {
				t.Errorf("%s has no %s text", id, lang)
			}
		}
	}
}

func TestUnknownLanguageFallsBack(t *testing.T) {
	defer remedy.SetLanguage("en")
	remedy.SetLanguage("xx")
	if !strings.Contains(remedy.Text(remedy.ContextActivation, nil), "main thread") {
		t.Fatal("unknown language did not fall back to English")
	}
}

func TestUnknownID(t *testing.T) {
	if got := remedy.Text("NoSuchMessage", nil); got != "" {
		t.Fatalf("unknown id rendered %q", got)
	}
}

func TestLanguages(t *testing.T) {
	langs := remedy.Languages()
	if !slices.Contains(langs, "en") || !slices.Contains(langs, "ja") {
		t.Fatalf("languages %v", langs)
	}
}
