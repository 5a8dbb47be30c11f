package widget

import (
	"github.com/rivo/tview"
	"github.com/rmrobinson/weatherbox/services/ui/weatherbox"
	"github.com/rmrobinson/weatherbox/services/weather"
)

// Controller receives the user's actions from the widgets.
type Controller interface {
	SetQuery(query string)
	Submit()
	Select(place weather.Place)
	Focus()
	Blur()
	SetAnchor(field weatherbox.Rect, reference weatherbox.Rect)
}

func rectOf(p tview.Primitive) weatherbox.Rect {
	x, y, width, height := p.GetRect()
	return weatherbox.Rect{
		X:      x,
		Y:      y,
		Width:  width,
		Height: height,
	}
}
