package locset

import (
	"github.com/pitabwire/locset/data"
	"github.com/pitabwire/locset/locale"
)

// ResolveSets picks at most one index entry per localization set. Per set the
// priority is strict: an entry at the requested locale wins, else an entry at
// the default locale, else the first entry of that set in input order. Entries
// without a set id contribute nothing. The function is pure and deterministic
// for a given input ordering.
func ResolveSets(
	entries []data.LocalizationIndexEntry, requestedLocale, defaultLocale string,
) map[string]data.LocalizationIndexEntry {
	resolved := make(map[string]data.LocalizationIndexEntry, len(entries))
	if len(entries) == 0 {
		return resolved
	}

	requested := locale.Canonical(requestedLocale)
	fallback := locale.Canonical(defaultLocale)

	rank := func(entry data.LocalizationIndexEntry) int {
		switch locale.Canonical(entry.Locale) {
		case requested:
			return 0
		case fallback:
			return 1
		default:
			return 2
		}
	}

	ranks := make(map[string]int, len(entries))
	for _, entry := range entries {
		if entry.LocalizationSet == "" {
			continue
		}

		entryRank := rank(entry)
		currentRank, seen := ranks[entry.LocalizationSet]
		if seen && currentRank <= entryRank {
			continue
		}

		ranks[entry.LocalizationSet] = entryRank
		resolved[entry.LocalizationSet] = entry
	}

	return resolved
}

// ResolveSetsOrdered resolves like ResolveSets but emits results following the
// caller supplied setIDs order, skipping sets with no resolvable entry. One
// call site, the set picker UI, relies on this stable input-order guarantee.
func ResolveSetsOrdered(
	entries []data.LocalizationIndexEntry, setIDs []string, requestedLocale, defaultLocale string,
) []data.LocalizationIndexEntry {
	resolved := ResolveSets(entries, requestedLocale, defaultLocale)

	ordered := make([]data.LocalizationIndexEntry, 0, len(setIDs))
	for _, setID := range setIDs {
		if entry, ok := resolved[setID]; ok {
			ordered = append(ordered, entry)
		}
	}

	return ordered
}
