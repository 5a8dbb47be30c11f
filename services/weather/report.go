package weather

import (
	"fmt"
	"math"
)

// Report is the current weather conditions for a single place, in metric units.
type Report struct {
	Name    string
	Country string

	TemperatureCelsius float64
	FeelsLikeCelsius   float64
	HumidityPercentage int
	WindSpeedMPerSec   float64

	Condition   string
	Description string
}

// Title is the place the report is for, e.g. "Kyiv, UA".
func (r *Report) Title() string {
	if r.Country == "" {
		return r.Name
	}
	return r.Name + ", " + r.Country
}

// TemperatureText is the rounded temperature, e.g. "20°C".
func (r *Report) TemperatureText() string {
	return celsiusText(r.TemperatureCelsius)
}

// FeelsLikeText is the rounded apparent temperature.
func (r *Report) FeelsLikeText() string {
	return celsiusText(r.FeelsLikeCelsius)
}

// HumidityText is the relative humidity, e.g. "55%".
func (r *Report) HumidityText() string {
	return fmt.Sprintf("%d%%", r.HumidityPercentage)
}

// WindSpeedText is the rounded wind speed, e.g. "3 m/s".
func (r *Report) WindSpeedText() string {
	return fmt.Sprintf("%d m/s", roundHalfUp(r.WindSpeedMPerSec))
}

// ConditionText combines the condition group and its description, e.g. "Clear (clear sky)".
func (r *Report) ConditionText() string {
	if r.Description == "" {
		return r.Condition
	}
	return fmt.Sprintf("%s (%s)", r.Condition, r.Description)
}

func (r *Report) String() string {
	return fmt.Sprintf("%s %s %s", r.Title(), r.TemperatureText(), r.ConditionText())
}

func celsiusText(v float64) string {
	return fmt.Sprintf("%d°C", roundHalfUp(v))
}

// roundHalfUp rounds .5 towards positive infinity, so -2.5 becomes -2 rather than -3.
func roundHalfUp(v float64) int {
	return int(math.Floor(v + 0.5))
}
