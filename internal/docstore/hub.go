package docstore

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"sync/atomic"
)

// ListFunc loads the current snapshot of a collection.
type ListFunc func(collection string) (Snapshot, error)

type subscribeReq struct {
	collection string
	ch         chan Snapshot
}

type unsubscribeReq struct {
	collection string
	ch         chan Snapshot
}

// Hub fans out collection snapshots to live subscribers.
//
// Concurrency model: a single internal event loop (goroutine) owns all
// mutable state (subscriber sets + last-broadcast signatures). Public
// methods communicate with this loop through channels, so no mutexes are
// required. Within one subscription, snapshots are delivered in the order
// the loop emits them.
type Hub struct {
	load ListFunc

	subscribeCh   chan subscribeReq
	unsubscribeCh chan unsubscribeReq
	notifyCh      chan string
	notifyAllCh   chan struct{}
	countReqCh    chan countReq

	stopCh  chan struct{}
	stopped chan struct{}
	closed  atomic.Bool
}

type countReq struct {
	collection string
	resp       chan int
}

// NewHub creates a hub that loads snapshots with load and starts its loop.
func NewHub(load ListFunc) *Hub {
	h := &Hub{
		load:          load,
		subscribeCh:   make(chan subscribeReq),
		unsubscribeCh: make(chan unsubscribeReq),
		notifyCh:      make(chan string, 256),
		notifyAllCh:   make(chan struct{}, 1),
		countReqCh:    make(chan countReq),
		stopCh:        make(chan struct{}),
		stopped:       make(chan struct{}),
	}
	go h.run()
	return h
}

func (h *Hub) run() {
	defer close(h.stopped)

	subs := make(map[string]map[chan Snapshot]struct{})
	// lastSig is tracked per subscriber channel, not per collection: a
	// subscriber arriving between a write and its notify must not advance
	// anyone else's view of what was already delivered.
	lastSig := make(map[chan Snapshot]string)

	// broadcast re-queries collection and fans the snapshot out. Snapshots
	// identical to a subscriber's last delivery are suppressed so no-op
	// writes and watcher false positives emit nothing.
	broadcast := func(collection string) {
		clients := subs[collection]
		if len(clients) == 0 {
			return
		}
		snap, err := h.load(collection)
		if err != nil {
			return
		}
		sig := signature(snap)

		for ch := range clients {
			if lastSig[ch] == sig {
				continue
			}
			select {
			case ch <- snap:
				lastSig[ch] = sig
			default:
				// Subscriber buffer full; skip to avoid blocking the loop.
				// lastSig stays stale so the next notify retries.
			}
		}
	}

	for {
		select {
		case <-h.stopCh:
			for _, clients := range subs {
				for ch := range clients {
					close(ch)
				}
			}
			return

		case req := <-h.subscribeCh:
			if subs[req.collection] == nil {
				subs[req.collection] = make(map[chan Snapshot]struct{})
			}
			subs[req.collection][req.ch] = struct{}{}
			// New subscribers always receive the current snapshot, even
			// when nothing changed since the last broadcast.
			if snap, err := h.load(req.collection); err == nil {
				select {
				case req.ch <- snap:
					lastSig[req.ch] = signature(snap)
				default:
				}
			}

		case req := <-h.unsubscribeCh:
			if clients, ok := subs[req.collection]; ok {
				if _, ok := clients[req.ch]; ok {
					delete(clients, req.ch)
					delete(lastSig, req.ch)
					close(req.ch)
				}
			}

		case collection := <-h.notifyCh:
			broadcast(collection)

		case <-h.notifyAllCh:
			for collection := range subs {
				broadcast(collection)
			}

		case req := <-h.countReqCh:
			req.resp <- len(subs[req.collection])
		}
	}
}

// Close gracefully stops the loop and closes all subscriber channels.
func (h *Hub) Close() {
	if h.closed.CompareAndSwap(false, true) {
		close(h.stopCh)
	}
	<-h.stopped
}

// Subscribe registers a live query on collection and returns the snapshot
// channel with an idempotent cancel func.
func (h *Hub) Subscribe(collection string) (<-chan Snapshot, func()) {
	ch := make(chan Snapshot, 16)
	if h.closed.Load() {
		close(ch)
		return ch, func() {}
	}

	select {
	case h.subscribeCh <- subscribeReq{collection: collection, ch: ch}:
	case <-h.stopped:
		close(ch)
		return ch, func() {}
	}

	cancel := func() {
		select {
		case h.unsubscribeCh <- unsubscribeReq{collection: collection, ch: ch}:
		case <-h.stopped:
		}
	}
	return ch, cancel
}

// Notify schedules a snapshot broadcast for collection.
func (h *Hub) Notify(collection string) {
	if h.closed.Load() {
		return
	}
	select {
	case h.notifyCh <- collection:
	case <-h.stopped:
	}
}

// NotifyAll schedules a broadcast for every collection with subscribers.
func (h *Hub) NotifyAll() {
	if h.closed.Load() {
		return
	}
	select {
	case h.notifyAllCh <- struct{}{}:
	default:
		// A pending NotifyAll already covers this one.
	}
}

// SubscriberCount returns the number of live subscriptions on collection.
func (h *Hub) SubscriberCount(collection string) int {
	if h.closed.Load() {
		return 0
	}
	resp := make(chan int, 1)
	select {
	case h.countReqCh <- countReq{collection: collection, resp: resp}:
	case <-h.stopped:
		return 0
	}
	select {
	case n := <-resp:
		return n
	case <-h.stopped:
		return 0
	}
}

// signature returns a digest of a snapshot's identity and content, used to
// suppress redundant broadcasts.
func signature(snap Snapshot) string {
	h := sha256.New()
	var buf [8]byte
	for _, doc := range snap {
		h.Write([]byte(doc.ID))
		binary.BigEndian.PutUint64(buf[:], uint64(doc.CreatedAt.UnixNano()))
		h.Write(buf[:])
		h.Write(doc.Data)
	}
	return hex.EncodeToString(h.Sum(nil))
}
