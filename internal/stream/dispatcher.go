package stream

import (
	"fmt"
	"sync"
)

type registration struct {
	channel Channel
	fn      Handler
}

// Dispatcher delivers decoded events to registered handlers in arrival
// order. Dispatch is synchronous with the receive loop: there is no queue
// between receive and dispatch, so a slow handler throttles the read loop
// by design. Callers needing independent progress hand off to their own
// worker inside the handler.
type Dispatcher struct {
	mu       sync.RWMutex
	handlers map[ChannelName][]registration

	report func(error)
}

// NewDispatcher creates a dispatcher reporting handler failures to report.
func NewDispatcher(report func(error)) *Dispatcher {
	if report == nil {
		report = func(error) {}
	}
	return &Dispatcher{
		handlers: make(map[ChannelName][]registration),
		report:   report,
	}
}

// Register appends h to the handler list for ch. Multiple handlers per
// channel are all invoked, in registration order. Registration is
// independent of subscription: handlers for a channel that is never
// subscribed simply never fire.
func (d *Dispatcher) Register(ch Channel, h Handler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers[ch.Name] = append(d.handlers[ch.Name], registration{channel: ch, fn: h})
}

// Dispatch invokes every handler registered for ev's channel, sequentially.
// A failing handler is isolated: its error is reported and the remaining
// handlers still run.
func (d *Dispatcher) Dispatch(ev Event) {
	d.mu.RLock()
	regs := d.handlers[ev.Channel.Name]
	d.mu.RUnlock()

	for _, reg := range regs {
		if !matches(reg.channel, ev.Channel) {
			continue
		}
		d.invoke(reg, ev)
	}
}

// matches pairs a registration with an event channel. Address events carry
// no parameter on the wire, so either side lacking one matches by name.
func matches(reg, ev Channel) bool {
	if reg.Name != ev.Name {
		return false
	}
	return reg.Param == "" || ev.Param == "" || reg.Param == ev.Param
}

func (d *Dispatcher) invoke(reg registration, ev Event) {
	defer func() {
		if r := recover(); r != nil {
			d.report(&HandlerError{Channel: ev.Channel, Err: fmt.Errorf("panic: %v", r)})
		}
	}()

	if err := reg.fn(ev); err != nil {
		d.report(&HandlerError{Channel: ev.Channel, Err: err})
	}
}
