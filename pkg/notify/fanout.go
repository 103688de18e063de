package notify

import (
	"context"
	"errors"
	"fmt"
)

// Fanout delivers to every channel. It succeeds when at least one channel
// accepted the message.
type Fanout struct {
	channels []namedGateway
}

type namedGateway struct {
	name string
	gw   Gateway
}

func NewFanout() *Fanout {
	return &Fanout{}
}

// Add registers a channel; nil gateways are ignored.
func (f *Fanout) Add(name string, gw Gateway) *Fanout {
	if gw != nil {
		f.channels = append(f.channels, namedGateway{name: name, gw: gw})
	}
	return f
}

func (f *Fanout) Len() int { return len(f.channels) }

func (f *Fanout) Deliver(ctx context.Context, msg Message) error {
	if len(f.channels) == 0 {
		return ErrNotConfigured
	}

	var errs []error
	delivered := 0
	for _, ch := range f.channels {
		if err := ch.gw.Deliver(ctx, msg); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", ch.name, err))
			continue
		}
		delivered++
	}
	if delivered == 0 {
		return errors.Join(errs...)
	}
	return nil
}
