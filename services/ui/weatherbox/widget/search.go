package widget

import (
	"github.com/gdamore/tcell"
	"github.com/rivo/tview"
	"github.com/rmrobinson/weatherbox/services/weather"
)

// searchField is the text input; it reports focus changes to its owner.
type searchField struct {
	*tview.InputField

	onFocus func()
	onBlur  func()
}

// Focus is called by the application when the field receives focus.
func (sf *searchField) Focus(delegate func(p tview.Primitive)) {
	sf.InputField.Focus(delegate)
	sf.onFocus()
}

// Blur is called by the application when the field loses focus.
func (sf *searchField) Blur() {
	sf.InputField.Blur()
	sf.onBlur()
}

// Search is the city input. Typing updates the query, Enter looks up the weather,
// Tab moves into the suggestion dropdown and Escape dismisses it.
type Search struct {
	*tview.Flex

	app        *tview.Application
	controller Controller

	input     *searchField
	dropdown  *Suggestions
	reference tview.Primitive

	// set while focus moves from the field into the dropdown, which isn't a dismissal
	enteringDropdown bool
}

func newSearch(app *tview.Application, controller Controller, dropdown *Suggestions) *Search {
	s := &Search{
		Flex:       tview.NewFlex(),
		app:        app,
		controller: controller,
		dropdown:   dropdown,
	}
	s.input = &searchField{
		InputField: tview.NewInputField(),
		onFocus:    controller.Focus,
		onBlur:     s.handleBlur,
	}

	s.input.SetLabel("City: ").
		SetPlaceholder("Enter city name").
		SetFieldWidth(0).
		SetChangedFunc(controller.SetQuery).
		SetDoneFunc(s.handleDone)

	s.dropdown.SetDoneFunc(func() {
		s.app.SetFocus(s.input)
	})

	hint := tview.NewTextView().
		SetTextAlign(tview.AlignRight).
		SetText("[Enter] Get Weather")

	s.SetBorder(true).
		SetTitle("Weather App").
		SetTitleAlign(tview.AlignLeft)
	s.AddItem(s.input, 0, 1, true).
		AddItem(hint, 20, 0, false)

	return s
}

// Draw draws the search box and reports where it ended up so the dropdown can be placed under it.
func (s *Search) Draw(screen tcell.Screen) {
	s.Flex.Draw(screen)

	if s.reference != nil {
		s.controller.SetAnchor(rectOf(s), rectOf(s.reference))
	}
}

func (s *Search) selectPlace(place weather.Place) {
	// The controller takes the label first so the text change below is a no-op for it.
	s.controller.Select(place)
	s.input.SetText(place.Label())
	s.app.SetFocus(s.input)
}

func (s *Search) handleDone(key tcell.Key) {
	switch key {
	case tcell.KeyEnter:
		s.controller.Submit()
	case tcell.KeyEscape:
		s.controller.Blur()
	case tcell.KeyTab, tcell.KeyBacktab:
		if s.dropdown.visible {
			s.enteringDropdown = true
			s.app.SetFocus(s.dropdown)
			s.enteringDropdown = false
		}
	}
}

// handleBlur runs on the event goroutine as focus moves away from the field.
// Moving into the dropdown keeps it open; a selection there refocuses the field itself.
func (s *Search) handleBlur() {
	if s.enteringDropdown {
		return
	}
	s.controller.Blur()
}
