package stream

import "sync"

// Sink is an implementation of a message sink; it receives messages broadcast by its parent source.
type Sink struct {
	id      string
	channel chan Message

	closeOnce sync.Once
	source    *Source
}

// Messages returns the read channel of messages broadcast by the source.
// The backing channel is buffered to allow for additional messages to be generated
// while the current message is being processed; that being said the sink has a responsibility
// to consume messages from this channel as quickly as possible.
func (s *Sink) Messages() <-chan Message {
	return s.channel
}

// Close releases any resources allocated as part of this sink's creation.
func (s *Sink) Close() {
	s.closeOnce.Do(func() {
		s.source.removeSink(s)
		close(s.channel)
	})
}
