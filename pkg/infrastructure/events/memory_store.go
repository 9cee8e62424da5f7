package events

import (
	"slices"
	"sync"

	"github.com/sirupsen/logrus"
)

// InMemoryEventStore keeps events in process memory and delivers each one to
// its subscribers on separate goroutines. Wait blocks until delivery settles.
type InMemoryEventStore struct {
	mu          sync.RWMutex
	streams     map[string][]Event
	log         []Event
	subscribers map[string][]EventHandler
	inflight    sync.WaitGroup
	logger      *logrus.Logger
}

var _ EventStore = (*InMemoryEventStore)(nil)

func NewInMemoryEventStore(logger *logrus.Logger) *InMemoryEventStore {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &InMemoryEventStore{
		streams:     make(map[string][]Event),
		subscribers: make(map[string][]EventHandler),
		logger:      logger,
	}
}

// AppendEvent assigns the next version on streamID and dispatches the event
func (s *InMemoryEventStore) AppendEvent(streamID string, event Event) error {
	s.mu.Lock()
	stored := positioned(event, streamID, len(s.streams[streamID])+1)
	s.streams[streamID] = append(s.streams[streamID], stored)
	s.log = append(s.log, stored)
	handlers := slices.Clone(s.subscribers[stored.Type()])
	s.mu.Unlock()

	for _, handler := range handlers {
		if !handler.CanHandle(stored.Type()) {
			continue
		}
		s.inflight.Add(1)
		go s.deliver(handler, stored)
	}
	return nil
}

// ReadEvents returns the events of streamID starting at fromVersion (1-based)
func (s *InMemoryEventStore) ReadEvents(streamID string, fromVersion int) ([]Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stream := s.streams[streamID]
	fromVersion = max(fromVersion, 1)
	if fromVersion > len(stream) {
		return []Event{}, nil
	}
	return slices.Clone(stream[fromVersion-1:]), nil
}

// ReadAllEvents returns every event from fromPosition (0-based) in append order
func (s *InMemoryEventStore) ReadAllEvents(fromPosition int) ([]Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	fromPosition = max(fromPosition, 0)
	if fromPosition >= len(s.log) {
		return []Event{}, nil
	}
	return slices.Clone(s.log[fromPosition:]), nil
}

func (s *InMemoryEventStore) Subscribe(eventTypes []string, handler EventHandler) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, eventType := range eventTypes {
		s.subscribers[eventType] = append(s.subscribers[eventType], handler)
	}
	return nil
}

func (s *InMemoryEventStore) Unsubscribe(handler EventHandler) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for eventType, handlers := range s.subscribers {
		s.subscribers[eventType] = slices.DeleteFunc(slices.Clone(handlers), func(h EventHandler) bool {
			return h == handler
		})
	}
	return nil
}

// Wait blocks until every handler dispatched so far has returned
func (s *InMemoryEventStore) Wait() {
	s.inflight.Wait()
}

func (s *InMemoryEventStore) deliver(handler EventHandler, event Event) {
	defer s.inflight.Done()

	if err := handler.Handle(event); err != nil {
		s.logger.WithFields(logrus.Fields{
			"event_id":   event.ID(),
			"event_type": event.Type(),
			"stream":     event.StreamID(),
		}).Error(err.Error())
	}
}
