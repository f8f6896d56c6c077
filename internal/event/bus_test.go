package event

import (
	"testing"
	"time"

	"loom/internal/graph"

	"go.uber.org/goleak"
)

func TestBusAssignsMonotonicSequence(t *testing.T) {
	bus := NewBus()
	ch := bus.Subscribe()
	defer bus.Close()

	for i := 0; i < 5; i++ {
		seq := bus.Publish(NewNodeRejected(graph.NodeProposal{Text: "x"}, "empty or multi-sentence text"))
		if seq != uint64(i+1) {
			t.Fatalf("expected seq %d, got %d", i+1, seq)
		}
	}

	for i := 0; i < 5; i++ {
		select {
		case evt := <-ch:
			if evt.Seq != uint64(i+1) {
				t.Fatalf("expected delivery in order, got seq %d at position %d", evt.Seq, i)
			}
			if evt.At.IsZero() {
				t.Fatalf("expected timestamp to be assigned")
			}
		case <-time.After(200 * time.Millisecond):
			t.Fatalf("expected event %d to be delivered", i+1)
		}
	}
}

func TestBusDeliversToAllSubscribers(t *testing.T) {
	bus := NewBus()
	a := bus.Subscribe()
	b := bus.Subscribe()
	defer bus.Close()

	bus.Publish(NewNodeAccepted(graph.Node{ID: "n1", Kind: graph.KindConcept, Text: "T."}))

	for name, ch := range map[string]<-chan Event{"a": a, "b": b} {
		select {
		case evt := <-ch:
			if evt.Kind != KindNodeAccepted {
				t.Fatalf("subscriber %s: unexpected kind %s", name, evt.Kind)
			}
			if evt.NodeAccepted == nil || evt.NodeAccepted.ID != "n1" {
				t.Fatalf("subscriber %s: payload missing", name)
			}
		case <-time.After(200 * time.Millisecond):
			t.Fatalf("subscriber %s: expected delivery", name)
		}
	}
}

func TestBusUnsubscribeClosesChannel(t *testing.T) {
	bus := NewBus()
	ch := bus.Subscribe()
	bus.Unsubscribe(ch)

	if _, open := <-ch; open {
		t.Fatalf("expected channel to be closed after unsubscribe")
	}

	// Publishing afterwards must not panic or deliver.
	bus.Publish(NewNodeRejected(graph.NodeProposal{}, "level out of range"))
	bus.Close()
}

func TestBusCloseTerminatesDrainLoops(t *testing.T) {
	defer goleak.VerifyNone(t)

	bus := NewBus()
	ch := bus.Subscribe()

	done := make(chan int)
	go func() {
		count := 0
		for range ch {
			count++
		}
		done <- count
	}()

	bus.Publish(NewEdgeAccepted(graph.Edge{From: "a", To: "b", Relation: graph.RelationSupports, Rationale: "r"}))
	bus.Publish(NewEdgeRejected(graph.EdgeProposal{FromID: "a", ToID: "a"}, "self-loop"))
	bus.Close()

	select {
	case count := <-done:
		if count != 2 {
			t.Fatalf("expected 2 events before close, got %d", count)
		}
	case <-time.After(time.Second):
		t.Fatalf("drain loop did not terminate after Close")
	}

	if seq := bus.Publish(Event{Kind: KindNodeAccepted}); seq != 0 {
		t.Fatalf("expected publish after close to be dropped, got seq %d", seq)
	}
}

func TestBusSubscribeAfterClose(t *testing.T) {
	bus := NewBus()
	bus.Close()

	ch := bus.Subscribe()
	if _, open := <-ch; open {
		t.Fatalf("expected closed channel from Subscribe after Close")
	}
}
