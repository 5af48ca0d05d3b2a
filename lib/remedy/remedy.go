// Package remedy holds the user-facing hints attached to startup failures,
// translated with go-i18n.
package remedy

import (
	"embed"
	"fmt"
	"io/fs"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

// Message IDs, one per failure the window owner can report.
const (
	SubsystemInit                    = "SubsystemInit"
	WindowCreation                   = "WindowCreation"
	WindowCreationVersionUnavailable = "WindowCreationVersionUnavailable"
	WindowCreationAPIUnavailable     = "WindowCreationAPIUnavailable"
	ContextActivation                = "ContextActivation"
	FunctionLoad                     = "FunctionLoad"
	FunctionLoadProbe                = "FunctionLoadProbe"
	FunctionBind                     = "FunctionBind"
)

//go:embed locales/*.toml
var locales embed.FS

var (
	bundle *i18n.Bundle

	mu        sync.RWMutex
	localizer *i18n.Localizer
)

func init() {
	bundle = i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	files, err := fs.Glob(locales, "locales/*.toml")
	if err != nil {
		panic(err)
	}
	for _, f := range files {
		if _, err := bundle.LoadMessageFileFS(locales, f); err != nil {
			panic(fmt.Sprintf("could not load %s: %s", f, err))
		}
	}
	localizer = i18n.NewLocalizer(bundle, language.English.String())
}

// SetLanguage selects the language hints are produced in. Unknown
// languages fall back to English.
func SetLanguage(lang string) {
	mu.Lock()
	defer mu.Unlock()
	localizer = i18n.NewLocalizer(bundle, lang, language.English.String())
}

// Languages lists the languages with a message catalogue.
func Languages() []string {
	var names []string
	for _, tag := range bundle.LanguageTags() {
		names = append(names, tag.String())
	}
	return names
}

// Text renders the hint with the given id. An unknown id renders as the
// empty string, hints are never worth failing over.
func Text(id string, data map[string]any) string {
	mu.RLock()
	l := localizer
	mu.RUnlock()

	msg, err := l.Localize(&i18n.LocalizeConfig{
		MessageID:    id,
		TemplateData: data,
	})
	if err != nil {
		return ""
	}
	return msg
}
