// Package translate localises the diagnostic messages of the xe toolchain.
//
// Every user visible message is written as an en-US fmt format string and
// passed through From(), which selects a catalog entry for the user's
// locale when one exists.
package translate

import (
	"log"

	"github.com/jeandeaual/go-locale"

	"golang.org/x/text/message"
)

var printer *message.Printer

func init() {
	locales, err := locale.GetLocales()
	if err != nil {
		log.Printf("xe: locale: %v", err)
	}

	SetLocale(locales...)
}

// SetLocale selects the best matching message catalog for the
// given BCP 47 locale names, falling back to en-US.
func SetLocale(locales ...string) {
	if len(locales) == 0 {
		locales = []string{"en-US"}
	}

	printer = message.NewPrinter(message.MatchLanguage(locales...))
}

// From an en-US Sprintf() format, translate to string.
func From(key message.Reference, args ...any) string {
	return printer.Sprintf(key, args...)
}
