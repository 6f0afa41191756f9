package stream

// ChannelName identifies one of the provider's subscribable topics.
type ChannelName string

const (
	ChannelBlocks        ChannelName = "blocks"
	ChannelMempoolBlocks ChannelName = "mempool-blocks"
	ChannelLive2hChart   ChannelName = "live-2h-chart"
	ChannelStats         ChannelName = "stats"
	ChannelAddress       ChannelName = "address"

	// ChannelUnknown tags inbound data for channel names the client does not
	// recognize, so protocol drift is observable instead of silently dropped.
	ChannelUnknown ChannelName = "unknown"
)

// Valid reports whether n is a subscribable channel name.
func (n ChannelName) Valid() bool {
	switch n {
	case ChannelBlocks, ChannelMempoolBlocks, ChannelLive2hChart, ChannelStats, ChannelAddress:
		return true
	}
	return false
}

// Channel identifies a subscribable topic. Param carries the address for
// ChannelAddress and is empty otherwise. Two channels are equal iff both
// name and param match.
type Channel struct {
	Name  ChannelName
	Param string
}

// Simple returns an unparameterized channel.
func Simple(name ChannelName) Channel {
	return Channel{Name: name}
}

// Address returns the address-tracking channel for addr.
func Address(addr string) Channel {
	return Channel{Name: ChannelAddress, Param: addr}
}

// String returns "name" or "name:param".
func (c Channel) String() string {
	if c.Param == "" {
		return string(c.Name)
	}
	return string(c.Name) + ":" + c.Param
}
