package voicesession

import (
	"sync"

	"github.com/voxloop/voxloop-core/core/events"
)

const sessionEventQueueCapacity = 32

// eventEmitter delivers session events to the configured sink in emission
// order without ever blocking the session's loops. Events are queued and
// drained by a dedicated goroutine; when the queue is full the event is
// dropped.
type eventEmitter struct {
	mu   sync.RWMutex
	sink EventSink

	queue   chan events.Event
	closeCh chan struct{}
	done    chan struct{}

	startOnce sync.Once
	endOnce   sync.Once
}

func newEventEmitter() *eventEmitter {
	return &eventEmitter{
		queue:   make(chan events.Event, sessionEventQueueCapacity),
		closeCh: make(chan struct{}),
		done:    make(chan struct{}),
	}
}

func (e *eventEmitter) setSink(sink EventSink) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.sink = sink
}

func (e *eventEmitter) currentSink() EventSink {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.sink
}

func (e *eventEmitter) start() {
	e.startOnce.Do(func() {
		go func() {
			defer close(e.done)

			for {
				select {
				case <-e.closeCh:
					e.drainRemaining()
					return
				case event := <-e.queue:
					e.deliver(event)
				}
			}
		}()
	})
}

// emit queues an event for delivery. It never blocks; if the sink cannot keep
// up the event is dropped.
func (e *eventEmitter) emit(event events.Event) {
	select {
	case <-e.closeCh:
	case e.queue <- event:
	default:
		logger.Warn("event queue full, dropping event", "kind", string(event.Kind()))
	}
}

// end stops the drain goroutine after flushing whatever is still queued.
func (e *eventEmitter) end() {
	e.start()
	e.endOnce.Do(func() {
		close(e.closeCh)
	})
	<-e.done
}

func (e *eventEmitter) drainRemaining() {
	for {
		select {
		case event := <-e.queue:
			e.deliver(event)
		default:
			return
		}
	}
}

func (e *eventEmitter) deliver(event events.Event) {
	if sink := e.currentSink(); sink != nil {
		sink(event)
	}
}
