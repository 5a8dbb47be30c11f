package weatherbox

import (
	"fmt"

	"github.com/rmrobinson/weatherbox/services/weather"
)

// Rect is a bounding box in screen cells.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Geometry places the suggestion dropdown relative to the reference container.
type Geometry struct {
	Top   int
	Left  int
	Width int
}

// dropdownGeometry puts the dropdown directly under the field, as wide as the field.
func dropdownGeometry(field Rect, reference Rect) Geometry {
	return Geometry{
		Top:   field.Y + field.Height - reference.Y,
		Left:  field.X - reference.X,
		Width: field.Width,
	}
}

// State is a snapshot of everything the widget displays.
// Snapshots are never modified once published.
type State struct {
	Query string

	// Suggestions holds the visible suggestions; MatchCount is the number of places which matched.
	Suggestions     []weather.Place
	MatchCount      int
	ShowSuggestions bool
	Dropdown        Geometry

	Loading bool
	Error   string
	Report  *weather.Report
}

func (s *State) String() string {
	report := "none"
	if s.Report != nil {
		report = s.Report.String()
	}
	return fmt.Sprintf("query=%q suggestions=%d/%d show=%t loading=%t error=%q report=%s",
		s.Query, len(s.Suggestions), s.MatchCount, s.ShowSuggestions, s.Loading, s.Error, report)
}
