// Package events carries the in-process fanout for freshly resolved
// locations. Consumers must keep up or lose events; publish never blocks a
// request handler.
package events

import "context"

type LocationResolved struct {
	Name      string
	Latitude  float64
	Longitude float64
}

type Publisher interface {
	PublishLocationResolved(ctx context.Context, evt LocationResolved)
	SubscribeLocationResolved() <-chan LocationResolved
}

type inMemory struct{ ch chan LocationResolved }

func NewInMemory(buffer int) Publisher {
	if buffer <= 0 {
		buffer = 256
	}
	return &inMemory{ch: make(chan LocationResolved, buffer)}
}

func (m *inMemory) PublishLocationResolved(_ context.Context, evt LocationResolved) {
	select {
	case m.ch <- evt:
	default:
	}
}

func (m *inMemory) SubscribeLocationResolved() <-chan LocationResolved { return m.ch }
