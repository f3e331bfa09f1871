// Package locale supplies the active set of supported locales for a process
// together with its default locale. Locales are compared in canonical
// lower-cased form throughout.
package locale

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

// Directory exposes the supported locales of the process and resolves the
// best supported locale for a caller supplied preference chain.
type Directory interface {
	DefaultLocale() string
	SupportedLocales() []string
	IsSupported(locale string) bool
	Match(preferred ...string) string
}

// Canonical normalises a locale tag to its canonical lower-cased form.
// Unparseable input falls back to a trimmed lower-cased copy so that
// comparisons stay case-insensitive even for malformed tags.
func Canonical(locale string) string {
	trimmed := strings.TrimSpace(locale)
	if trimmed == "" {
		return ""
	}

	tag, err := language.Parse(trimmed)
	if err != nil {
		return strings.ToLower(trimmed)
	}

	return strings.ToLower(tag.String())
}

type directory struct {
	defaultLocale string
	supported     []string
	supportedSet  map[string]struct{}
	matcher       language.Matcher
}

// NewDirectory builds a Directory from a default locale and the supported
// locale tags. The default locale is always part of the supported set.
func NewDirectory(defaultLocale string, supported ...string) (Directory, error) {
	canonicalDefault := Canonical(defaultLocale)
	if canonicalDefault == "" {
		return nil, fmt.Errorf("locale: default locale is required")
	}

	ordered := make([]string, 0, len(supported)+1)
	index := make(map[string]struct{}, len(supported)+1)
	tags := make([]language.Tag, 0, len(supported)+1)

	appendLocale := func(raw string) error {
		canonical := Canonical(raw)
		if canonical == "" {
			return nil
		}
		if _, ok := index[canonical]; ok {
			return nil
		}

		tag, err := language.Parse(canonical)
		if err != nil {
			return fmt.Errorf("locale: unparseable locale %q: %w", raw, err)
		}

		ordered = append(ordered, canonical)
		index[canonical] = struct{}{}
		tags = append(tags, tag)
		return nil
	}

	if err := appendLocale(canonicalDefault); err != nil {
		return nil, err
	}
	for _, loc := range supported {
		if err := appendLocale(loc); err != nil {
			return nil, err
		}
	}

	return &directory{
		defaultLocale: canonicalDefault,
		supported:     ordered,
		supportedSet:  index,
		matcher:       language.NewMatcher(tags),
	}, nil
}

func (d *directory) DefaultLocale() string {
	return d.defaultLocale
}

func (d *directory) SupportedLocales() []string {
	out := make([]string, len(d.supported))
	copy(out, d.supported)
	return out
}

func (d *directory) IsSupported(locale string) bool {
	_, ok := d.supportedSet[Canonical(locale)]
	return ok
}

// Match picks the best supported locale for the supplied preference chain,
// falling back to the default locale when nothing matches.
func (d *directory) Match(preferred ...string) string {
	var tags []language.Tag
	for _, pref := range preferred {
		tag, err := language.Parse(strings.TrimSpace(pref))
		if err != nil {
			continue
		}
		tags = append(tags, tag)
	}

	if len(tags) == 0 {
		return d.defaultLocale
	}

	_, idx, conf := d.matcher.Match(tags...)
	if conf == language.No || idx < 0 || idx >= len(d.supported) {
		return d.defaultLocale
	}

	return d.supported[idx]
}
