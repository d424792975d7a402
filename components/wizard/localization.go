package wizard

import (
	"strings"

	"golang.org/x/text/language"
)

// TitleFor returns the step title for locale. A regional locale falls back to
// its base language (es-MX reads es); unknown and malformed locales get Title.
// Translation keys are expected in canonical BCP 47 form, which NewController
// guarantees.
func (s Step) TitleFor(locale string) string {
	if len(s.TitleLocalized) == 0 {
		return s.Title
	}
	tag, ok := parseLocale(locale)
	if !ok {
		return s.Title
	}
	if title, ok := s.TitleLocalized[tag.String()]; ok {
		return title
	}
	if base, conf := tag.Base(); conf != language.No {
		if title, ok := s.TitleLocalized[base.String()]; ok {
			return title
		}
	}
	return s.Title
}

// canonicalTitles rewrites translation keys as canonical tags ("ES" becomes
// "es"), dropping malformed keys and empty titles.
func canonicalTitles(titles map[string]string) map[string]string {
	out := make(map[string]string, len(titles))
	for key, title := range titles {
		tag, ok := parseLocale(key)
		if !ok || title == "" {
			continue
		}
		out[tag.String()] = title
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func parseLocale(raw string) (language.Tag, bool) {
	tag, err := language.Parse(strings.TrimSpace(raw))
	if err != nil || tag == language.Und {
		return language.Und, false
	}
	return tag, true
}
