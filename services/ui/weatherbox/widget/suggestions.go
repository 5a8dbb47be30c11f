package widget

import (
	"github.com/rivo/tview"
	"github.com/rmrobinson/weatherbox/services/ui/weatherbox"
	"github.com/rmrobinson/weatherbox/services/weather"
)

// Suggestions is the dropdown of places shown under the search field.
// It is drawn on top of the rest of the layout rather than as part of it.
type Suggestions struct {
	*tview.List

	visible bool
	places  []weather.Place
}

func newSuggestions() *Suggestions {
	s := &Suggestions{
		List: tview.NewList(),
	}

	s.ShowSecondaryText(false).
		SetBorder(true)

	return s
}

// dropdownRect converts the dropdown geometry into absolute screen coordinates.
// The height fits the entries plus the border.
func dropdownRect(reference weatherbox.Rect, geometry weatherbox.Geometry, count int) weatherbox.Rect {
	return weatherbox.Rect{
		X:      reference.X + geometry.Left,
		Y:      reference.Y + geometry.Top,
		Width:  geometry.Width,
		Height: count + 2,
	}
}

// apply must be called from the application's event goroutine.
func (s *Suggestions) apply(state *weatherbox.State, reference weatherbox.Rect, onSelect func(place weather.Place)) {
	s.visible = state.ShowSuggestions && len(state.Suggestions) > 0

	// Rebuilding resets the highlighted entry, so only do it when the entries change.
	if !samePlaces(s.places, state.Suggestions) {
		s.places = state.Suggestions
		s.Clear()
		for _, place := range state.Suggestions {
			place := place
			s.AddItem(place.Label(), "", 0, func() {
				onSelect(place)
			})
		}
	}

	if s.visible {
		r := dropdownRect(reference, state.Dropdown, len(state.Suggestions))
		s.SetRect(r.X, r.Y, r.Width, r.Height)
	}
}

func samePlaces(a []weather.Place, b []weather.Place) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
