package mocks

import (
	"context"
	"sync"

	"github.com/stretchr/testify/mock"

	"chat-core/internal/observability"
)

// PublisherMock satisfies both the audit publisher and the change event publisher.
type PublisherMock struct {
	mock.Mock
}

func (m *PublisherMock) Publish(ctx context.Context, routingKey string, event any) error {
	args := m.Called(ctx, routingKey, event)
	return args.Error(0)
}

func (m *PublisherMock) Close() error {
	args := m.Called()
	return args.Error(0)
}

// Published is one event seen by a RecordingPublisher.
type Published struct {
	RoutingKey string
	Event      observability.EventEnvelope
}

// RecordingPublisher keeps every change event it is handed. Other event types are ignored.
type RecordingPublisher struct {
	mu     sync.Mutex
	events []Published
}

func (p *RecordingPublisher) Publish(_ context.Context, routingKey string, event any) error {
	envelope, ok := event.(observability.EventEnvelope)
	if !ok {
		return nil
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, Published{RoutingKey: routingKey, Event: envelope})
	return nil
}

func (p *RecordingPublisher) Close() error {
	return nil
}

// Named returns the recorded events with the given event name, oldest first.
func (p *RecordingPublisher) Named(name string) []Published {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []Published
	for _, ev := range p.events {
		if ev.Event.EventName == name {
			out = append(out, ev)
		}
	}
	return out
}
