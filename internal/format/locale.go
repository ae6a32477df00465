package format

import (
	"os"
	"strings"
	"sync"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var (
	localeMu sync.RWMutex
	locale   = DetectLocale()
)

// Locale returns the locale used by Number.
func Locale() language.Tag {
	localeMu.RLock()
	defer localeMu.RUnlock()
	return locale
}

// SetLocale changes the locale used by Number.
func SetLocale(tag language.Tag) {
	localeMu.Lock()
	defer localeMu.Unlock()
	locale = tag
}

// Number renders n with the digit grouping of the current locale.
func Number(n int64) string {
	return NumberIn(Locale(), n)
}

// NumberIn renders n with the digit grouping of tag.
func NumberIn(tag language.Tag, n int64) string {
	return message.NewPrinter(tag).Sprintf("%d", n)
}

// DetectLocale resolves the locale from LC_ALL, LC_NUMERIC and LANG in that
// order. POSIX values such as "C" and unset variables fall back to English.
func DetectLocale() language.Tag {
	for _, key := range []string{"LC_ALL", "LC_NUMERIC", "LANG"} {
		if tag, ok := ParseLocale(os.Getenv(key)); ok {
			return tag
		}
	}
	return language.English
}

// ParseLocale parses a POSIX locale string such as "de_DE.UTF-8" or a BCP 47
// tag such as "fr-CA".
func ParseLocale(value string) (language.Tag, bool) {
	value = strings.TrimSpace(value)
	if i := strings.IndexAny(value, ".@"); i >= 0 {
		value = value[:i]
	}
	if value == "" || value == "C" || value == "POSIX" {
		return language.Und, false
	}

	tag, err := language.Parse(strings.ReplaceAll(value, "_", "-"))
	if err != nil {
		return language.Und, false
	}
	return tag, true
}
