package stream

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func TestCodec_EncodeWant(t *testing.T) {
	var codec Codec

	data, err := codec.EncodeWant([]string{"blocks", "stats"})
	if err != nil {
		t.Fatalf("EncodeWant failed: %v", err)
	}

	want := `{"action":"want","data":["blocks","stats"]}`
	if string(data) != want {
		t.Errorf("frame = %s, want %s", data, want)
	}
}

func TestCodec_EncodeWantEmpty(t *testing.T) {
	var codec Codec

	data, err := codec.EncodeWant(nil)
	if err != nil {
		t.Fatalf("EncodeWant failed: %v", err)
	}

	want := `{"action":"want","data":[]}`
	if string(data) != want {
		t.Errorf("frame = %s, want %s", data, want)
	}
}

func TestCodec_EncodeTrackAddress(t *testing.T) {
	var codec Codec

	data, err := codec.EncodeTrackAddress("bc1qxy2kgdygjrsqtzq2n0yrf2493p83kkfjhx0wlh")
	if err != nil {
		t.Fatalf("EncodeTrackAddress failed: %v", err)
	}

	want := `{"track-address":"bc1qxy2kgdygjrsqtzq2n0yrf2493p83kkfjhx0wlh"}`
	if string(data) != want {
		t.Errorf("frame = %s, want %s", data, want)
	}
}

func TestCodec_DecodeBlock(t *testing.T) {
	var codec Codec
	now := time.Now()

	frame := `{"block":{"id":"0000abc","height":840000}}`
	events, rejection, err := codec.Decode([]byte(frame), now)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if rejection != nil {
		t.Fatalf("unexpected rejection: %v", rejection)
	}
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}

	ev := events[0]
	if ev.Channel.Name != ChannelBlocks {
		t.Errorf("channel = %s, want %s", ev.Channel.Name, ChannelBlocks)
	}
	if ev.Key != "block" {
		t.Errorf("key = %s, want block", ev.Key)
	}
	if !ev.ReceivedAt.Equal(now) {
		t.Errorf("ReceivedAt = %v, want %v", ev.ReceivedAt, now)
	}

	var payload struct {
		Height int64 `json:"height"`
	}
	if err := json.Unmarshal(ev.Payload, &payload); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}
	if payload.Height != 840000 {
		t.Errorf("height = %d, want 840000", payload.Height)
	}
}

func TestCodec_DecodeMultiChannelFrame(t *testing.T) {
	var codec Codec

	// One frame carrying data for several channels must yield one event per
	// recognized key, in the codec's fixed order.
	frame := `{"da":{"remainingBlocks":100},"mempool-blocks":[{"nTx":10}],"block":{"height":1}}`
	events, _, err := codec.Decode([]byte(frame), time.Now())
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if len(events) != 3 {
		t.Fatalf("got %d events, want 3", len(events))
	}

	wantOrder := []struct {
		key     string
		channel ChannelName
	}{
		{"block", ChannelBlocks},
		{"mempool-blocks", ChannelMempoolBlocks},
		{"da", ChannelStats},
	}
	for i, want := range wantOrder {
		if events[i].Key != want.key {
			t.Errorf("event %d key = %s, want %s", i, events[i].Key, want.key)
		}
		if events[i].Channel.Name != want.channel {
			t.Errorf("event %d channel = %s, want %s", i, events[i].Channel.Name, want.channel)
		}
	}
}

func TestCodec_DecodeStatsKeys(t *testing.T) {
	var codec Codec

	for _, key := range []string{"mempoolInfo", "fees", "da", "vBytesPerSecond", "transactions"} {
		frame := `{"` + key + `":{}}`
		events, _, err := codec.Decode([]byte(frame), time.Now())
		if err != nil {
			t.Fatalf("Decode(%s) failed: %v", key, err)
		}
		if len(events) != 1 {
			t.Fatalf("Decode(%s): got %d events, want 1", key, len(events))
		}
		if events[0].Channel.Name != ChannelStats {
			t.Errorf("Decode(%s): channel = %s, want %s", key, events[0].Channel.Name, ChannelStats)
		}
	}
}

func TestCodec_DecodeAddressKeys(t *testing.T) {
	var codec Codec

	for _, key := range []string{"address-transactions", "block-transactions"} {
		frame := `{"` + key + `":[]}`
		events, _, err := codec.Decode([]byte(frame), time.Now())
		if err != nil {
			t.Fatalf("Decode(%s) failed: %v", key, err)
		}
		if len(events) != 1 {
			t.Fatalf("Decode(%s): got %d events, want 1", key, len(events))
		}
		if events[0].Channel.Name != ChannelAddress {
			t.Errorf("Decode(%s): channel = %s, want %s", key, events[0].Channel.Name, ChannelAddress)
		}
	}
}

func TestCodec_DecodeUnknownKey(t *testing.T) {
	var codec Codec

	frame := `{"some-future-channel":{"x":1}}`
	events, _, err := codec.Decode([]byte(frame), time.Now())
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
	if events[0].Channel.Name != ChannelUnknown {
		t.Errorf("channel = %s, want %s", events[0].Channel.Name, ChannelUnknown)
	}
	if events[0].Key != "some-future-channel" {
		t.Errorf("key = %s, want some-future-channel", events[0].Key)
	}
}

func TestCodec_DecodeMalformed(t *testing.T) {
	var codec Codec

	_, _, err := codec.Decode([]byte("not json"), time.Now())
	if err == nil {
		t.Fatal("expected decode error")
	}

	var decodeErr *DecodeError
	if !errors.As(err, &decodeErr) {
		t.Errorf("error type = %T, want *DecodeError", err)
	}
}

func TestCodec_DecodeRejection(t *testing.T) {
	var codec Codec

	frame := `{"error":"unrecognized request"}`
	events, rejection, err := codec.Decode([]byte(frame), time.Now())
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if len(events) != 0 {
		t.Errorf("got %d events, want 0", len(events))
	}
	if rejection == nil {
		t.Fatal("expected rejection")
	}
	if rejection.Message != "unrecognized request" {
		t.Errorf("message = %q, want %q", rejection.Message, "unrecognized request")
	}
}
