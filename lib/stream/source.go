package stream

import (
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Message is anything a source can broadcast. String is only used for logging.
type Message interface {
	String() string
}

// Source represents a message source that will be broadcast to its sinks.
type Source struct {
	logger *zap.Logger

	sinks     map[string]*Sink
	sinksLock sync.Mutex
}

// NewSource creates a new message source.
func NewSource(logger *zap.Logger) *Source {
	return &Source{
		logger: logger,
		sinks:  map[string]*Sink{},
	}
}

// NewSink creates a message sink for this source.
func (s *Source) NewSink() *Sink {
	sink := &Sink{
		id:      uuid.New().String(),
		channel: make(chan Message, 10),
		source:  s,
	}

	s.sinksLock.Lock()
	s.sinks[sink.id] = sink
	s.sinksLock.Unlock()

	s.logger.Debug("added watcher",
		zap.String("channel_id", sink.id))
	return sink
}

// SendMessage sends a message to all created sinks.
// A sink whose buffer is full loses its oldest pending message to make room, so the latest message
// is always delivered.
func (s *Source) SendMessage(msg Message) {
	s.sinksLock.Lock()
	defer s.sinksLock.Unlock()

	for _, sink := range s.sinks {
		s.deliver(sink, msg)
	}
}

func (s *Source) deliver(sink *Sink, msg Message) {
	for {
		select {
		case sink.channel <- msg:
			return
		default:
		}

		select {
		case dropped := <-sink.channel:
			s.logger.Debug("channel blocked, dropping oldest",
				zap.String("channel_id", sink.id),
				zap.String("message", dropped.String()),
			)
		default:
		}
	}
}

// SinkCount returns the number of sinks currently attached.
func (s *Source) SinkCount() int {
	s.sinksLock.Lock()
	defer s.sinksLock.Unlock()

	return len(s.sinks)
}

func (s *Source) removeSink(sink *Sink) {
	s.sinksLock.Lock()
	delete(s.sinks, sink.id)
	s.sinksLock.Unlock()
}
