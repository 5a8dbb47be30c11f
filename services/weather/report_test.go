package weather

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReportText(t *testing.T) {
	r := &Report{
		Name:               "Kyiv",
		Country:            "UA",
		TemperatureCelsius: 20.4,
		FeelsLikeCelsius:   19.1,
		HumidityPercentage: 55,
		WindSpeedMPerSec:   3.2,
		Condition:          "Clear",
		Description:        "clear sky",
	}

	assert.Equal(t, "Kyiv, UA", r.Title())
	assert.Equal(t, "20°C", r.TemperatureText())
	assert.Equal(t, "19°C", r.FeelsLikeText())
	assert.Equal(t, "55%", r.HumidityText())
	assert.Equal(t, "3 m/s", r.WindSpeedText())
	assert.Equal(t, "Clear (clear sky)", r.ConditionText())
}

type roundTest struct {
	in  float64
	out int
}

var roundTests = []roundTest{
	{20.4, 20},
	{20.5, 21},
	{-0.4, 0},
	{-2.5, -2},
	{-2.6, -3},
	{0, 0},
}

func TestRoundHalfUp(t *testing.T) {
	for _, tt := range roundTests {
		assert.Equal(t, tt.out, roundHalfUp(tt.in), "rounding %v", tt.in)
	}
}

func TestPlaceLabel(t *testing.T) {
	assert.Equal(t, "Dnipro, UA", Place{Name: "Dnipro", Country: "UA"}.Label())
	assert.Equal(t, "Springfield, Illinois, US", Place{Name: "Springfield", State: "Illinois", Country: "US"}.Label())
}
