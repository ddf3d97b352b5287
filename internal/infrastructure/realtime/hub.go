package realtime

import (
	"log/slog"
	"sync"

	"invitefeed/internal/ports/output"
)

// Op is the kind of row change carried by a notification.
type Op string

const (
	OpInsert Op = "INSERT"
	OpUpdate Op = "UPDATE"
	OpDelete Op = "DELETE"
)

// Notification is the payload shared by every push source.
type Notification struct {
	Op      Op     `json:"op"`
	EventID string `json:"id"`
}

var _ output.PushTransport = (*Hub)(nil)

type eventSub struct {
	onChange func(string)
	onDelete func(string)
}

// Hub fans notifications from a push source (Postgres listener, WebSocket
// client, in-memory store) out to feed subscribers.
type Hub struct {
	logger *slog.Logger

	mu       sync.RWMutex
	nextID   int
	all      map[int]func(string)
	perEvent map[string]map[int]eventSub
}

func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		logger:   logger,
		all:      make(map[int]func(string)),
		perEvent: make(map[string]map[int]eventSub),
	}
}

func (h *Hub) SubscribeAll(onNewOrChanged func(string)) func() {
	h.mu.Lock()
	h.nextID++
	id := h.nextID
	h.all[id] = onNewOrChanged
	h.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.all, id)
			h.mu.Unlock()
		})
	}
}

func (h *Hub) SubscribeEvent(eventID string, onChange, onDelete func(string)) func() {
	h.mu.Lock()
	h.nextID++
	id := h.nextID
	subs := h.perEvent[eventID]
	if subs == nil {
		subs = make(map[int]eventSub)
		h.perEvent[eventID] = subs
	}
	subs[id] = eventSub{onChange: onChange, onDelete: onDelete}
	h.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			delete(h.perEvent[eventID], id)
			if len(h.perEvent[eventID]) == 0 {
				delete(h.perEvent, eventID)
			}
		})
	}
}

// Publish delivers n synchronously on the caller's goroutine. Subscribers are
// copied first so callbacks may subscribe or unsubscribe freely.
func (h *Hub) Publish(n Notification) {
	if n.EventID == "" {
		return
	}
	h.mu.RLock()
	var global []func(string)
	if n.Op != OpDelete {
		for _, fn := range h.all {
			global = append(global, fn)
		}
	}
	var scoped []eventSub
	for _, s := range h.perEvent[n.EventID] {
		scoped = append(scoped, s)
	}
	h.mu.RUnlock()

	h.logger.Debug("notification reçue", "op", n.Op, "event_id", n.EventID, "subscribers", len(global)+len(scoped))

	for _, fn := range global {
		fn(n.EventID)
	}
	for _, s := range scoped {
		switch n.Op {
		case OpDelete:
			if s.onDelete != nil {
				s.onDelete(n.EventID)
			}
		case OpUpdate:
			if s.onChange != nil {
				s.onChange(n.EventID)
			}
		}
	}
}

// Subscribers reports the number of live subscriptions, global ones included.
func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	n := len(h.all)
	for _, subs := range h.perEvent {
		n += len(subs)
	}
	return n
}
