package stream

import "sync"

// SubscriptionState is the lifecycle state of one subscription.
type SubscriptionState int

const (
	// SubscriptionPending means the subscribe frame was (or will be) sent and
	// no data has arrived yet.
	SubscriptionPending SubscriptionState = iota
	// SubscriptionActive means the provider delivered data for the channel.
	SubscriptionActive
	// SubscriptionFailed means the provider rejected the subscription. The
	// channel stays desired; only the next replay retries it.
	SubscriptionFailed
)

func (s SubscriptionState) String() string {
	switch s {
	case SubscriptionPending:
		return "pending"
	case SubscriptionActive:
		return "active"
	case SubscriptionFailed:
		return "failed"
	}
	return "invalid"
}

// Subscription is the client's record of wanting a channel's events.
type Subscription struct {
	Channel Channel
	State   SubscriptionState
}

// Registry tracks the set of channels the caller wants active, independent
// of connection churn. The desired set is the source of truth: the wire
// subscriptions converge to it after every successful (re)connection.
//
// The registry is the one piece of state mutated from both the caller's
// context and the receive loop, so every method takes the lock.
type Registry struct {
	mu    sync.Mutex
	order []Channel
	subs  map[Channel]*Subscription
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{subs: make(map[Channel]*Subscription)}
}

// Add records ch as desired with state Pending. It returns true if the
// channel was newly added; adding an already-desired channel is a no-op.
func (r *Registry) Add(ch Channel) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.subs[ch]; ok {
		return false
	}
	r.subs[ch] = &Subscription{Channel: ch, State: SubscriptionPending}
	r.order = append(r.order, ch)
	return true
}

// Remove drops ch from the desired set. It returns true if the channel was
// desired; removing an unknown channel is a no-op, not an error.
func (r *Registry) Remove(ch Channel) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.subs[ch]; !ok {
		return false
	}
	delete(r.subs, ch)
	for i, c := range r.order {
		if c == ch {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return true
}

// Desired returns the desired channels in insertion order.
func (r *Registry) Desired() []Channel {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Channel, len(r.order))
	copy(out, r.order)
	return out
}

// SimpleNames returns the names of all desired unparameterized channels, in
// insertion order. This is the payload of a want frame.
func (r *Registry) SimpleNames() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	var names []string
	for _, ch := range r.order {
		if ch.Name != ChannelAddress {
			names = append(names, string(ch.Name))
		}
	}
	return names
}

// Addresses returns all tracked addresses in insertion order.
func (r *Registry) Addresses() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	var addrs []string
	for _, ch := range r.order {
		if ch.Name == ChannelAddress {
			addrs = append(addrs, ch.Param)
		}
	}
	return addrs
}

// State returns the subscription state for ch.
func (r *Registry) State(ch Channel) (SubscriptionState, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	sub, ok := r.subs[ch]
	if !ok {
		return 0, false
	}
	return sub.State, true
}

// Len returns the number of desired channels.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.order)
}

// MarkActive records that the provider delivered data for ch. Address events
// arrive without their parameter on the wire, so a parameterless ch matches
// any desired subscription with the same name.
func (r *Registry) MarkActive(ch Channel) {
	r.mark(ch, SubscriptionActive)
}

// MarkFailed records a provider rejection for ch.
func (r *Registry) MarkFailed(ch Channel) {
	r.mark(ch, SubscriptionFailed)
}

func (r *Registry) mark(ch Channel, state SubscriptionState) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if sub, ok := r.subs[ch]; ok {
		sub.State = state
		return
	}
	if ch.Param != "" {
		return
	}
	for _, sub := range r.subs {
		if sub.Channel.Name == ch.Name {
			sub.State = state
		}
	}
}

// ResetPending returns every desired channel to Pending. Invoked whenever
// the connection leaves Connected, so no subscription reads Active while
// the feed is down.
func (r *Registry) ResetPending() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, sub := range r.subs {
		sub.State = SubscriptionPending
	}
}
