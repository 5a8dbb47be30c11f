package widget

import (
	"context"

	"github.com/gdamore/tcell"
	"github.com/rivo/tview"
	"github.com/rmrobinson/weatherbox/lib/stream"
	"github.com/rmrobinson/weatherbox/services/ui/weatherbox"
)

// WeatherBox is the root of the weather lookup UI: a search box, the weather card and,
// optionally, a debug log, with the suggestion dropdown drawn over the top.
type WeatherBox struct {
	*tview.Flex

	app *tview.Application

	search   *Search
	dropdown *Suggestions
	card     *WeatherCondition
}

// NewWeatherBox creates the weather lookup UI. The debug widget may be nil.
func NewWeatherBox(app *tview.Application, controller Controller, debug *Debug) *WeatherBox {
	wb := &WeatherBox{
		Flex:     tview.NewFlex(),
		app:      app,
		dropdown: newSuggestions(),
		card:     NewWeatherCondition(),
	}
	wb.search = newSearch(app, controller, wb.dropdown)
	wb.search.reference = wb

	wb.SetDirection(tview.FlexRow).
		AddItem(wb.search, 3, 0, true).
		AddItem(wb.card, 8, 0, false)
	if debug != nil {
		wb.AddItem(debug, 0, 1, false)
	} else {
		wb.AddItem(tview.NewBox(), 0, 1, false)
	}

	return wb
}

// Draw draws the layout, then the dropdown over it.
func (wb *WeatherBox) Draw(screen tcell.Screen) {
	wb.Flex.Draw(screen)

	if wb.dropdown.visible {
		wb.dropdown.Draw(screen)
	}
}

// Focus always starts in the search field.
func (wb *WeatherBox) Focus(delegate func(p tview.Primitive)) {
	delegate(wb.search.input)
}

// HasFocus includes the dropdown, which isn't part of the layout.
func (wb *WeatherBox) HasFocus() bool {
	return wb.dropdown.HasFocus() || wb.Flex.HasFocus()
}

// InputHandler routes key events to the dropdown when it has focus.
func (wb *WeatherBox) InputHandler() func(event *tcell.EventKey, setFocus func(p tview.Primitive)) {
	return wb.WrapInputHandler(func(event *tcell.EventKey, setFocus func(p tview.Primitive)) {
		if wb.dropdown.HasFocus() {
			if handler := wb.dropdown.InputHandler(); handler != nil {
				handler(event, setFocus)
			}
			return
		}
		if handler := wb.Flex.InputHandler(); handler != nil {
			handler(event, setFocus)
		}
	})
}

// Refresh updates every widget with the supplied state.
func (wb *WeatherBox) Refresh(state *weatherbox.State) {
	wb.app.QueueUpdateDraw(func() {
		wb.apply(state)
	})
}

func (wb *WeatherBox) apply(state *weatherbox.State) {
	wb.dropdown.apply(state, rectOf(wb), wb.search.selectPlace)
	if !wb.dropdown.visible && wb.dropdown.HasFocus() {
		wb.app.SetFocus(wb.search.input)
	}

	wb.card.apply(state)
}

// Run applies each state received on the sink until the context is cancelled or the sink is closed.
func (wb *WeatherBox) Run(ctx context.Context, sink *stream.Sink) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-sink.Messages():
			if !ok {
				return
			}
			state, ok := msg.(*weatherbox.State)
			if !ok {
				continue
			}
			wb.Refresh(state)
		}
	}
}
