package widget

import (
	"strings"

	"github.com/gdamore/tcell"
	"github.com/rivo/tview"
)

const debugLineLimit = 200

// Debug is a widget to display log output.
type Debug struct {
	*tview.TextView

	app *tview.Application

	lines []string
}

// NewDebug creates a new debug widget.
func NewDebug(app *tview.Application) *Debug {
	d := &Debug{
		TextView: tview.NewTextView(),
		app:      app,
	}

	d.SetTextAlign(tview.AlignLeft).
		SetTextColor(tcell.ColorBlue).
		SetDynamicColors(false).
		SetBorder(true).
		SetTitle("Debug")

	return d
}

// Refresh appends the supplied contents to the debug widget, dropping the oldest lines once the limit is reached.
func (d *Debug) Refresh(contents string) {
	d.app.QueueUpdateDraw(func() {
		d.lines = append(d.lines, strings.TrimRight(contents, "\n"))
		if len(d.lines) > debugLineLimit {
			d.lines = d.lines[len(d.lines)-debugLineLimit:]
		}

		d.SetText(strings.Join(d.lines, "\n"))
		d.ScrollToEnd()
	})
}
