package events

import (
	"testing"
	"time"
)

func TestBus_PublishSubscribe(t *testing.T) {
	bus := NewBus(10)
	defer bus.Close()

	ch := bus.Subscribe(EventGroupProgress)

	bus.PublishProgress("showA/", 3, 10)

	select {
	case received := <-ch:
		progress, ok := received.(*GroupProgressEvent)
		if !ok {
			t.Fatal("expected GroupProgressEvent")
		}
		if progress.Prefix != "showA/" {
			t.Errorf("expected prefix 'showA/', got %q", progress.Prefix)
		}
		if progress.Downloaded != 3 || progress.Total != 10 {
			t.Errorf("expected 3/10, got %d/%d", progress.Downloaded, progress.Total)
		}
	case <-time.After(100 * time.Millisecond):
		t.Fatal("timeout waiting for event")
	}
}

func TestBus_MultipleSubscribers(t *testing.T) {
	bus := NewBus(10)
	defer bus.Close()

	ch1 := bus.Subscribe(EventLog)
	ch2 := bus.Subscribe(EventLog)

	bus.PublishLog(InfoLevel, "showA/", "test log", nil)

	for i, ch := range []<-chan Event{ch1, ch2} {
		select {
		case <-ch:
		case <-time.After(100 * time.Millisecond):
			t.Errorf("subscriber %d did not receive event", i+1)
		}
	}
}

func TestBus_SubscribeAll(t *testing.T) {
	bus := NewBus(10)
	defer bus.Close()

	ch := bus.SubscribeAll()

	bus.PublishStatus("showA/", "downloading")
	bus.PublishDone(1, time.Second)

	var types []EventType
	for i := 0; i < 2; i++ {
		select {
		case ev := <-ch:
			types = append(types, ev.Type())
		case <-time.After(100 * time.Millisecond):
			t.Fatal("timeout waiting for events")
		}
	}
	if types[0] != EventGroupStatus || types[1] != EventDone {
		t.Errorf("unexpected event order: %v", types)
	}
}

func TestBus_DropsWhenFull(t *testing.T) {
	bus := NewBus(1)
	defer bus.Close()

	bus.Subscribe(EventLog) // never drained

	bus.PublishLog(InfoLevel, "", "first", nil)
	bus.PublishLog(InfoLevel, "", "second", nil)

	if got := bus.Dropped(); got != 1 {
		t.Errorf("expected 1 dropped event, got %d", got)
	}
}

func TestBus_PublishAfterClose(t *testing.T) {
	bus := NewBus(10)
	ch := bus.Subscribe(EventDone)
	bus.Close()

	// Must not panic, and the channel must be closed.
	bus.PublishDone(0, 0)

	if _, ok := <-ch; ok {
		t.Error("expected closed channel after Close")
	}
}

func TestBus_Unsubscribe(t *testing.T) {
	bus := NewBus(10)
	defer bus.Close()

	ch := bus.Subscribe(EventGroupStatus)
	bus.Unsubscribe(EventGroupStatus, ch)

	bus.PublishStatus("showA/", "completed")

	select {
	case ev := <-ch:
		t.Errorf("unexpected event after unsubscribe: %v", ev.Type())
	case <-time.After(50 * time.Millisecond):
	}
}
