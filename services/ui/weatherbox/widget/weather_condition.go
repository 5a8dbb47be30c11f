package widget

import (
	"github.com/gdamore/tcell"
	"github.com/rivo/tview"
	"github.com/rmrobinson/weatherbox/services/ui/weatherbox"
)

// WeatherCondition is a widget to display the outcome of a weather lookup:
// the current conditions, a loading notice or an error.
type WeatherCondition struct {
	*tview.Flex

	statusView      *tview.TextView
	temperatureView *tview.TextView
	conditionsView  *tview.TextView
	feelsLikeView   *tview.TextView
	humidityView    *tview.TextView
	windSpeedView   *tview.TextView
}

// NewWeatherCondition creates a new weather condition widget.
// Nothing will be displayed until a state is applied.
func NewWeatherCondition() *WeatherCondition {
	wc := &WeatherCondition{
		Flex: tview.NewFlex(),

		statusView:      tview.NewTextView(),
		temperatureView: tview.NewTextView(),
		conditionsView:  tview.NewTextView(),
		feelsLikeView:   tview.NewTextView(),
		humidityView:    tview.NewTextView(),
		windSpeedView:   tview.NewTextView(),
	}

	wc.statusView.SetTextAlign(tview.AlignCenter)
	wc.temperatureView.SetTextAlign(tview.AlignCenter).
		SetTextColor(tcell.ColorLime)
	wc.conditionsView.SetTextAlign(tview.AlignCenter)
	wc.feelsLikeView.SetTextAlign(tview.AlignCenter)
	wc.humidityView.SetTextAlign(tview.AlignCenter)
	wc.windSpeedView.SetTextAlign(tview.AlignCenter)

	wc.SetBorder(true).
		SetTitleAlign(tview.AlignLeft)
	wc.SetTitle("Weather")

	wc.SetDirection(tview.FlexRow).
		AddItem(wc.statusView, 1, 1, false).
		AddItem(wc.temperatureView, 1, 1, false).
		AddItem(wc.conditionsView, 1, 1, false).
		AddItem(wc.feelsLikeView, 1, 1, false).
		AddItem(wc.humidityView, 1, 1, false).
		AddItem(wc.windSpeedView, 1, 1, false)

	return wc
}

// apply must be called from the application's event goroutine.
func (wc *WeatherCondition) apply(state *weatherbox.State) {
	wc.clear()

	switch {
	case state.Loading:
		wc.statusView.SetTextColor(tcell.ColorWhite).
			SetText("Loading...")
	case state.Error != "":
		wc.statusView.SetTextColor(tcell.ColorSalmon).
			SetText(state.Error)
	case state.Report != nil:
		report := state.Report
		wc.SetTitle(report.Title())
		wc.temperatureView.SetText(report.TemperatureText())
		wc.conditionsView.SetText(report.ConditionText())
		wc.feelsLikeView.SetText("Feels like: " + report.FeelsLikeText())
		wc.humidityView.SetText("Humidity: " + report.HumidityText())
		wc.windSpeedView.SetText("Wind: " + report.WindSpeedText())
	}
}

func (wc *WeatherCondition) clear() {
	wc.SetTitle("Weather")
	wc.statusView.Clear()
	wc.temperatureView.Clear()
	wc.conditionsView.Clear()
	wc.feelsLikeView.Clear()
	wc.humidityView.Clear()
	wc.windSpeedView.Clear()
}
