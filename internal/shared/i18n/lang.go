package i18n

import (
	"golang.org/x/text/language"
)

// Lang is a supported response language.
type Lang string

const (
	RU Lang = "ru"
	KK Lang = "kk"
	EN Lang = "en"
)

// Supported lists languages in preference order; the first is the default.
var Supported = []Lang{RU, KK, EN}

var matcher = language.NewMatcher([]language.Tag{
	language.Russian,
	language.Kazakh,
	language.English,
})

// DetectLang picks the best supported language for an Accept-Language header.
func DetectLang(acceptLanguage string) Lang {
	if acceptLanguage == "" {
		return RU
	}
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return RU
	}
	_, idx, conf := matcher.Match(tags...)
	if conf == language.No {
		return RU
	}
	return Supported[idx]
}

// ParseLang maps a stored or query-string value onto Lang, defaulting to RU.
func ParseLang(s string) Lang {
	switch Lang(s) {
	case KK, EN:
		return Lang(s)
	default:
		return RU
	}
}
