package weather

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// MatchPrefix keeps the places whose name starts with query, ignoring case and surrounding whitespace,
// and sorts them alphabetically ignoring case and accents. The relative order of equal names is preserved.
func MatchPrefix(places []Place, query string) []Place {
	lower := cases.Lower(language.Und)
	prefix := lower.String(strings.TrimSpace(query))

	var matched []Place
	for _, place := range places {
		if strings.HasPrefix(lower.String(place.Name), prefix) {
			matched = append(matched, place)
		}
	}

	// Collators carry internal buffers and aren't safe to share.
	c := collate.New(language.Und, collate.Loose)
	sort.SliceStable(matched, func(i, j int) bool {
		return c.CompareString(matched[i].Name, matched[j].Name) < 0
	})

	return matched
}
