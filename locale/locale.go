// Package locale holds the language/country pair that scopes catalog requests.
package locale

import (
	"strings"

	"github.com/cockroachdb/errors"
)

// ErrInvalidTag is returned when a locale tag cannot be parsed
var ErrInvalidTag = errors.New("invalid locale tag")

// Locale is an ISO 639-1 language paired with an ISO 3166-1 country.
//
// When Fallthrough is set, endpoints that accept a language or country filter
// are queried without it so that results for every locale come back.
type Locale struct {
	Language    string
	Country     string
	Fallthrough bool
}

// New normalises the codes and returns a Locale
func New(language, country string, allLocales bool) Locale {
	return Locale{
		Language:    strings.ToLower(strings.TrimSpace(language)),
		Country:     strings.ToUpper(strings.TrimSpace(country)),
		Fallthrough: allLocales,
	}
}

// Default returns the locale used when nothing is configured
func Default() Locale {
	return New("en", "US", false)
}

// Parse accepts tags such as "en", "en-US" or "pt_BR"
func Parse(tag string, allLocales bool) (Locale, error) {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return Locale{}, errors.Wrap(ErrInvalidTag, "empty tag")
	}

	parts := strings.FieldsFunc(tag, func(r rune) bool { return r == '-' || r == '_' })
	switch len(parts) {
	case 1:
		if len(parts[0]) != 2 {
			return Locale{}, errors.Wrapf(ErrInvalidTag, "%q", tag)
		}
		return New(parts[0], "", allLocales), nil
	case 2:
		if len(parts[0]) != 2 || len(parts[1]) != 2 {
			return Locale{}, errors.Wrapf(ErrInvalidTag, "%q", tag)
		}
		return New(parts[0], parts[1], allLocales), nil
	default:
		return Locale{}, errors.Wrapf(ErrInvalidTag, "%q", tag)
	}
}

// String renders the locale as a BCP 47 style tag
func (l Locale) String() string {
	if l.Country == "" {
		return l.Language
	}
	return l.Language + "-" + l.Country
}

// MatchesLanguage reports whether code names the locale's language
func (l Locale) MatchesLanguage(code string) bool {
	return l.Language != "" && strings.EqualFold(l.Language, code)
}

// MatchesCountry reports whether code names the locale's country
func (l Locale) MatchesCountry(code string) bool {
	return l.Country != "" && strings.EqualFold(l.Country, code)
}
