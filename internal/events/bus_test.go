package events

import (
	"sync"
	"testing"
	"time"
)

func TestPublishSubscribe(t *testing.T) {
	bus := New()
	defer bus.Close()

	var mu sync.Mutex
	var got []SegmentClosedEvent
	done := make(chan struct{}, 1)

	unsub := bus.Subscribe(func(e SegmentClosedEvent) {
		mu.Lock()
		got = append(got, e)
		mu.Unlock()
		done <- struct{}{}
	})
	defer unsub()

	want := SegmentClosedEvent{Index: 1, Path: "outputs/output_001.mp4", Frames: 1800, Duration: time.Minute}
	bus.Publish(want)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Timed out waiting for event delivery")
	}

	mu.Lock()
	defer mu.Unlock()
	if len(got) != 1 || got[0] != want {
		t.Errorf("Expected %+v, got %+v", want, got)
	}
}

func TestSubscribeIsTypeSelective(t *testing.T) {
	bus := New()
	defer bus.Close()

	opened := make(chan SegmentOpenedEvent, 1)
	bus.Subscribe(func(e SegmentOpenedEvent) { opened <- e })

	// A closed event must not reach the opened subscriber.
	bus.Publish(SegmentClosedEvent{Index: 1})
	bus.Publish(SegmentOpenedEvent{Index: 2, Path: "outputs/output_002.mp4"})

	select {
	case e := <-opened:
		if e.Index != 2 {
			t.Errorf("Expected opened event for index 2, got %+v", e)
		}
	case <-time.After(time.Second):
		t.Fatal("Timed out waiting for opened event")
	}

	select {
	case e := <-opened:
		t.Errorf("Unexpected extra event %+v", e)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	bus := New()
	defer bus.Close()

	received := make(chan CaptureFinishedEvent, 2)
	unsub := bus.Subscribe(func(e CaptureFinishedEvent) { received <- e })

	bus.Publish(CaptureFinishedEvent{Reason: "end of stream", Segments: 3})
	select {
	case <-received:
	case <-time.After(time.Second):
		t.Fatal("Timed out waiting for first event")
	}

	unsub()
	bus.Publish(CaptureFinishedEvent{Reason: "canceled", Segments: 1})

	select {
	case e := <-received:
		t.Errorf("Received event after unsubscribe: %+v", e)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestSubscribeUnknownHandlerIsNoop(t *testing.T) {
	bus := New()
	defer bus.Close()

	unsub := bus.Subscribe(func(s string) {})
	unsub() // must not panic
}
