package main

import (
	"github.com/rmrobinson/weatherbox/services/ui/weatherbox/widget"
)

const sinkBufferSize = 256

// WidgetSink implements zap.Sink by writing all messages to a debug widget.
// Writes never block; if the widget falls behind, messages are dropped.
type WidgetSink struct {
	widget *widget.Debug

	messages chan string
}

// NewWidgetSink creates a new widget logger sink
func NewWidgetSink(widget *widget.Debug) *WidgetSink {
	s := &WidgetSink{
		widget:   widget,
		messages: make(chan string, sinkBufferSize),
	}
	go s.run()
	return s
}

func (s *WidgetSink) run() {
	for msg := range s.messages {
		s.widget.Refresh(msg)
	}
}

// Write queues the contents for display in the widget
func (s *WidgetSink) Write(p []byte) (n int, err error) {
	select {
	case s.messages <- string(p):
	default:
	}
	return len(p), nil
}

// Close is a nop; the sink lives as long as the process.
func (s *WidgetSink) Close() error { return nil }

// Sync is a nop
func (s *WidgetSink) Sync() error { return nil }
