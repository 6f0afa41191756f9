package stream

import (
	"encoding/json"
	"sort"
	"time"
)

// Codec translates between wire frames and typed events.
//
// Outbound control frames follow the provider's protocol: one
// {"action":"want","data":[...]} message carrying the full set of desired
// simple channels (the provider replaces the set, it does not merge), and
// {"track-address":"<addr>"} for address tracking. Tracking is cleared by
// sending an empty address.
type Codec struct{}

type wantFrame struct {
	Action string   `json:"action"`
	Data   []string `json:"data"`
}

type trackAddressFrame struct {
	Address string `json:"track-address"`
}

// EncodeWant encodes the subscribe frame for the given simple channel names.
func (Codec) EncodeWant(names []string) ([]byte, error) {
	if names == nil {
		names = []string{}
	}
	return json.Marshal(wantFrame{Action: "want", Data: names})
}

// EncodeTrackAddress encodes the address-tracking frame. An empty address
// stops tracking.
func (Codec) EncodeTrackAddress(addr string) ([]byte, error) {
	return json.Marshal(trackAddressFrame{Address: addr})
}

// keyChannels maps inbound top-level keys to channels. One frame can carry
// data for several channels at once.
var keyChannels = map[string]ChannelName{
	"block":                ChannelBlocks,
	"blocks":               ChannelBlocks,
	"mempool-blocks":       ChannelMempoolBlocks,
	"live-2h-chart":        ChannelLive2hChart,
	"mempoolInfo":          ChannelStats,
	"fees":                 ChannelStats,
	"da":                   ChannelStats,
	"vBytesPerSecond":      ChannelStats,
	"transactions":         ChannelStats,
	"address-transactions": ChannelAddress,
	"block-transactions":   ChannelAddress,
}

// keyOrder fixes the processing order of recognized keys within one frame,
// so events from a single frame are dispatched deterministically.
var keyOrder = []string{
	"block",
	"blocks",
	"mempool-blocks",
	"live-2h-chart",
	"mempoolInfo",
	"fees",
	"da",
	"vBytesPerSecond",
	"transactions",
	"address-transactions",
	"block-transactions",
}

// Decode parses one inbound frame into events and an optional provider
// rejection. Unrecognized keys are surfaced as ChannelUnknown events.
// A non-JSON frame yields a *DecodeError.
func (Codec) Decode(data []byte, receivedAt time.Time) ([]Event, *RejectionError, error) {
	var frame map[string]json.RawMessage
	if err := json.Unmarshal(data, &frame); err != nil {
		return nil, nil, &DecodeError{Err: err}
	}

	var rejection *RejectionError
	if raw, ok := frame["error"]; ok {
		var msg string
		if err := json.Unmarshal(raw, &msg); err != nil {
			msg = string(raw)
		}
		rejection = &RejectionError{Message: msg}
		delete(frame, "error")
	}

	var events []Event
	for _, key := range keyOrder {
		raw, ok := frame[key]
		if !ok {
			continue
		}
		events = append(events, Event{
			Channel:    Channel{Name: keyChannels[key]},
			Key:        key,
			Payload:    raw,
			ReceivedAt: receivedAt,
		})
		delete(frame, key)
	}

	// Leftover keys are provider drift; tag rather than drop.
	if len(frame) > 0 {
		unknown := make([]string, 0, len(frame))
		for key := range frame {
			unknown = append(unknown, key)
		}
		sort.Strings(unknown)
		for _, key := range unknown {
			events = append(events, Event{
				Channel:    Channel{Name: ChannelUnknown},
				Key:        key,
				Payload:    frame[key],
				ReceivedAt: receivedAt,
			})
		}
	}

	return events, rejection, nil
}
