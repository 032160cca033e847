package realtime

import (
	"encoding/json"
	"testing"
)

func newHubClient(h *Hub, buffer int) *client {
	c := &client{
		send:     make(chan []byte, buffer),
		channels: map[string]bool{},
	}
	h.register(c)
	return c
}

func TestBroadcastReachesSubscribedChannel(t *testing.T) {
	h := NewHub()

	subscriber := newHubClient(h, 4)
	h.join(subscriber, UserChannel(7))

	outsider := newHubClient(h, 4)
	h.join(outsider, UserChannel(8))

	h.Broadcast(UserChannel(7), EventNewNotification, nil)

	select {
	case frame := <-subscriber.send:
		var envelope Envelope
		if err := json.Unmarshal(frame, &envelope); err != nil {
			t.Fatalf("decode frame: %v", err)
		}
		if envelope.Event != EventNewNotification {
			t.Fatalf("event = %q, want %q", envelope.Event, EventNewNotification)
		}
	default:
		t.Fatal("subscriber received nothing")
	}

	select {
	case <-outsider.send:
		t.Fatal("outsider received a frame for another channel")
	default:
	}
}

func TestBroadcastSkipsSlowClient(t *testing.T) {
	h := NewHub()

	slow := newHubClient(h, 1)
	h.join(slow, RoomChannel(3))

	// Fill the buffer, then broadcast again. The second frame is dropped
	// rather than blocking.
	h.Broadcast(RoomChannel(3), EventNewMessage, map[string]string{"text": "one"})
	h.Broadcast(RoomChannel(3), EventNewMessage, map[string]string{"text": "two"})

	if got := len(slow.send); got != 1 {
		t.Fatalf("buffered frames = %d, want 1", got)
	}
}

func TestUnregisterClosesSendChannel(t *testing.T) {
	h := NewHub()

	c := newHubClient(h, 1)
	h.unregister(c)

	if _, open := <-c.send; open {
		t.Fatal("send channel still open after unregister")
	}

	// A second unregister is a no-op rather than a double close.
	h.unregister(c)
}

func TestChannelNames(t *testing.T) {
	if got := UserChannel(12); got != "user-12" {
		t.Fatalf("UserChannel = %q", got)
	}
	if got := RoomChannel(5); got != "room-5" {
		t.Fatalf("RoomChannel = %q", got)
	}
}
