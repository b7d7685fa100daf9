package dispatcher

import (
	"context"
	"errors"
	"sync"

	"ussd-loan-engine/shared"
)

// ErrAlreadyResponded is returned when the respond callback is invoked more
// than once for the same inbound USSD event.
var ErrAlreadyResponded = errors.New("ussd responder already consumed")

// Reply is the outcome of one USSD exchange: the menu to render and the
// session state the provider carries into the next exchange.
type Reply struct {
	Menu shared.Menu
	Next shared.SessionState
}

// Responder enforces the exactly-once reply contract of a USSD exchange. One
// Responder is constructed per inbound event; the first Respond completes it
// and every later call fails with ErrAlreadyResponded.
type Responder struct {
	once sync.Once
	ch   chan Reply
}

// NewResponder returns a fresh, unconsumed Responder.
func NewResponder() *Responder {
	return &Responder{ch: make(chan Reply, 1)}
}

// Respond completes the exchange with the given menu and next session state.
func (r *Responder) Respond(menu shared.Menu, next shared.SessionState) error {
	consumed := false
	r.once.Do(func() {
		r.ch <- Reply{Menu: menu, Next: next}
		consumed = true
	})
	if !consumed {
		return ErrAlreadyResponded
	}
	return nil
}

// Wait blocks until the exchange is completed or the context ends. The
// provider boundary awaits this to deliver the menu back to the subscriber.
func (r *Responder) Wait(ctx context.Context) (Reply, error) {
	select {
	case reply := <-r.ch:
		return reply, nil
	case <-ctx.Done():
		return Reply{}, ctx.Err()
	}
}
