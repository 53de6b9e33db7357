package tracker

import (
	"time"
)

type (
	// Broker is the message broker between the model and the adapter. The
	// model sends effects to the adapter through ToEngine and the adapter
	// reports the outcomes back through ToModel. Both channels are buffered, so
	// neither side ever blocks the other; the model uses TrySend and raises an
	// alert if the queue is full.
	//
	// For closing the adapter goroutine, the broker has two channels:
	// CloseEngine and FinishedEngine. CloseEngine has a capacity of 1, so you
	// can always send an empty message (struct{}{}) to it without blocking. If
	// the channel is already full, someone else has already requested the
	// closure and dropping the message is fine. FinishedEngine is never sent
	// to, only closed when the adapter has drained its queue and returned. You
	// can wait until the adapter is done with "<- FinishedEngine", which for
	// avoiding deadlocks can be combined with a timeout:
	//    select {
	//      case <-FinishedEngine:
	//      case <-time.After(3 * time.Second):
	//    }
	Broker struct {
		ToEngine chan Effect
		ToModel  chan Event

		CloseEngine    chan struct{}
		FinishedEngine chan struct{}
	}
)

// DefaultQueueSize is the capacity of the broker channels if no other size
// is given.
const DefaultQueueSize = 64

func NewBroker(queueSize int) *Broker {
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}
	return &Broker{
		ToEngine:       make(chan Effect, queueSize),
		ToModel:        make(chan Event, queueSize),
		CloseEngine:    make(chan struct{}, 1),
		FinishedEngine: make(chan struct{}),
	}
}

// TrySend is a helper function to send a value to a channel if it is not full.
// It is guaranteed to be non-blocking. Return true if the value was sent, false
// otherwise.
func TrySend[T any](c chan<- T, v T) bool {
	select {
	case c <- v:
	default:
		return false
	}
	return true
}

// TimeoutReceive is a helper function to block until a value is received from a
// channel, or timing out after t. ok will be false if the timeout occurred or
// if the channel is closed.
func TimeoutReceive[T any](c <-chan T, t time.Duration) (v T, ok bool) {
	select {
	case v, ok = <-c:
		return v, ok
	case <-time.After(t):
		return v, false
	}
}
