package stream

import (
	"errors"
	"testing"
)

func TestDispatcher_InvokesInRegistrationOrder(t *testing.T) {
	d := NewDispatcher(nil)

	var calls []int
	d.Register(Simple(ChannelBlocks), func(Event) error {
		calls = append(calls, 1)
		return nil
	})
	d.Register(Simple(ChannelBlocks), func(Event) error {
		calls = append(calls, 2)
		return nil
	})

	d.Dispatch(Event{Channel: Simple(ChannelBlocks)})

	if len(calls) != 2 || calls[0] != 1 || calls[1] != 2 {
		t.Errorf("calls = %v, want [1 2]", calls)
	}
}

func TestDispatcher_HandlerIsolation(t *testing.T) {
	var reported []error
	d := NewDispatcher(func(err error) { reported = append(reported, err) })

	var secondGotEvent *Event
	d.Register(Simple(ChannelBlocks), func(Event) error {
		return errors.New("first handler broke")
	})
	d.Register(Simple(ChannelBlocks), func(ev Event) error {
		secondGotEvent = &ev
		return nil
	})

	ev := Event{Channel: Simple(ChannelBlocks), Seq: 7}
	d.Dispatch(ev)

	if secondGotEvent == nil {
		t.Fatal("second handler was not invoked")
	}
	if secondGotEvent.Seq != 7 {
		t.Errorf("second handler saw seq %d, want 7", secondGotEvent.Seq)
	}
	if len(reported) != 1 {
		t.Fatalf("got %d reported errors, want 1", len(reported))
	}

	var handlerErr *HandlerError
	if !errors.As(reported[0], &handlerErr) {
		t.Errorf("error type = %T, want *HandlerError", reported[0])
	}
}

func TestDispatcher_PanicIsolation(t *testing.T) {
	var reported []error
	d := NewDispatcher(func(err error) { reported = append(reported, err) })

	var secondRan bool
	d.Register(Simple(ChannelStats), func(Event) error { panic("boom") })
	d.Register(Simple(ChannelStats), func(Event) error {
		secondRan = true
		return nil
	})

	d.Dispatch(Event{Channel: Simple(ChannelStats)})

	if !secondRan {
		t.Error("second handler was not invoked after panic")
	}
	if len(reported) != 1 {
		t.Errorf("got %d reported errors, want 1", len(reported))
	}
}

func TestDispatcher_NoHandlersIsNoop(t *testing.T) {
	d := NewDispatcher(nil)
	// Must not panic.
	d.Dispatch(Event{Channel: Simple(ChannelBlocks)})
}

func TestDispatcher_ParamMatching(t *testing.T) {
	d := NewDispatcher(nil)

	var hits []string
	d.Register(Address("addr1"), func(Event) error {
		hits = append(hits, "addr1")
		return nil
	})
	d.Register(Address("addr2"), func(Event) error {
		hits = append(hits, "addr2")
		return nil
	})

	// Wire address events carry no parameter: both registrations match.
	d.Dispatch(Event{Channel: Simple(ChannelAddress)})
	if len(hits) != 2 {
		t.Errorf("hits = %v, want both handlers", hits)
	}

	// A parameterized event only matches its own registration.
	hits = nil
	d.Dispatch(Event{Channel: Address("addr2")})
	if len(hits) != 1 || hits[0] != "addr2" {
		t.Errorf("hits = %v, want [addr2]", hits)
	}
}

func TestDispatcher_ChannelNameMismatch(t *testing.T) {
	d := NewDispatcher(nil)

	var called bool
	d.Register(Simple(ChannelBlocks), func(Event) error {
		called = true
		return nil
	})

	d.Dispatch(Event{Channel: Simple(ChannelStats)})
	if called {
		t.Error("blocks handler fired for stats event")
	}
}
