package wizard

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"

	"github.com/gorilla/websocket"
)

// toastBuffer is how many toasts a subscriber may lag behind before new ones
// are dropped for it.
const toastBuffer = 8

// BroadcastNotifier fans wizard, moderation and refund toasts out to every
// connected admin tab. Each toast carries a sequence number so clients can
// spot gaps.
type BroadcastNotifier struct {
	seq atomic.Uint64

	mu   sync.RWMutex
	subs map[uint64]chan Notification
	ids  uint64
}

// NewBroadcastNotifier creates a notifier without subscribers.
func NewBroadcastNotifier() *BroadcastNotifier {
	return &BroadcastNotifier{
		subs: make(map[uint64]chan Notification),
	}
}

// Notify satisfies Notifier. A full subscriber misses the toast; the caller
// never blocks.
func (b *BroadcastNotifier) Notify(_ context.Context, kind NotificationKind, message string) {
	n := Notification{Seq: b.seq.Add(1), Kind: kind, Message: message}
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, ch := range b.subs {
		select {
		case ch <- n:
		default:
		}
	}
}

// Subscribe registers a listener. The returned cancel func closes the channel
// and is safe to call more than once.
func (b *BroadcastNotifier) Subscribe() (<-chan Notification, func()) {
	ch := make(chan Notification, toastBuffer)
	b.mu.Lock()
	b.ids++
	id := b.ids
	b.subs[id] = ch
	b.mu.Unlock()
	return ch, func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if sub, ok := b.subs[id]; ok {
			delete(b.subs, id)
			close(sub)
		}
	}
}

// Subscribers reports how many listeners are connected.
func (b *BroadcastNotifier) Subscribers() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

// Stream subscribes and hands every toast to send until ctx ends or send
// fails.
func (b *BroadcastNotifier) Stream(ctx context.Context, send func(Notification) error) error {
	events, cancel := b.Subscribe()
	defer cancel()
	return pump(ctx, events, send)
}

func pump(ctx context.Context, events <-chan Notification, send func(Notification) error) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case n, ok := <-events:
			if !ok {
				return nil
			}
			if err := send(n); err != nil {
				return err
			}
		}
	}
}

var toastUpgrader = websocket.Upgrader{
	CheckOrigin: func(*http.Request) bool { return true },
}

// ServeWebSocket streams toasts as JSON frames. The subscription is taken
// before the handshake completes so no toast sent after the dial is missed.
func (b *BroadcastNotifier) ServeWebSocket(w http.ResponseWriter, r *http.Request) {
	events, cancel := b.Subscribe()
	defer cancel()

	conn, err := toastUpgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	ctx, stop := context.WithCancel(r.Context())
	defer stop()
	go func() {
		// The read side only exists to notice the client hanging up.
		for {
			if _, _, err := conn.NextReader(); err != nil {
				stop()
				return
			}
		}
	}()

	_ = pump(ctx, events, func(n Notification) error {
		return conn.WriteJSON(n)
	})
}

// ServeSSE streams toasts as Server-Sent Events named "toast", using the
// sequence number as the event id.
func (b *BroadcastNotifier) ServeSSE(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "wizard: streaming unsupported", http.StatusInternalServerError)
		return
	}
	events, cancel := b.Subscribe()
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	_ = pump(r.Context(), events, func(n Notification) error {
		data, err := json.Marshal(n)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "id: %d\nevent: toast\ndata: %s\n\n", n.Seq, data); err != nil {
			return err
		}
		flusher.Flush()
		return nil
	})
}
