// Package notify dispatches decoded KBI notification frames arriving
// on a kiserial.ConcurrentTransport's Notifications channel to a
// registry of handlers, adapted from the teacher's
// FrameReceiver/LinkMgr broker pattern.
package notify

import (
	"sync"

	"github.com/KiraleTech/KiTools/kbi"
)

// Receiver handles one notification. It returns false to stop further
// dispatch of this notification to subsequent handlers, mirroring the
// teacher's FrameReceiver.Receive.
type Receiver interface {
	Receive(n kbi.Notification) bool
}

// ReceiverFunc adapts a plain function to Receiver.
type ReceiverFunc func(n kbi.Notification) bool

func (f ReceiverFunc) Receive(n kbi.Notification) bool { return f(n) }

// Registry dispatches each notification first to a kind-specific
// handler, then through the firehose (handlers that see everything),
// stopping early if any handler returns false.
type Registry struct {
	mu       sync.Mutex
	byKind   map[kbi.NotificationKind]Receiver
	firehose []Receiver
}

// NewRegistry builds an empty dispatch registry.
func NewRegistry() *Registry {
	return &Registry{byKind: make(map[kbi.NotificationKind]Receiver)}
}

// RegisterKind installs a handler for one notification kind.
func (r *Registry) RegisterKind(kind kbi.NotificationKind, h Receiver) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byKind[kind] = h
}

// RegisterAll adds a handler to the firehose, seeing every
// notification after kind-specific handlers have run.
func (r *Registry) RegisterAll(h Receiver) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.firehose = append(r.firehose, h)
}

// Dispatch runs a single notification through the registry.
func (r *Registry) Dispatch(n kbi.Notification) {
	r.mu.Lock()
	kindHandler := r.byKind[n.Kind]
	firehose := append([]Receiver(nil), r.firehose...)
	r.mu.Unlock()

	if kindHandler != nil && !kindHandler.Receive(n) {
		return
	}
	for _, h := range firehose {
		if !h.Receive(n) {
			return
		}
	}
}

// Run drains ch, dispatching every notification, until ch is closed.
func (r *Registry) Run(ch <-chan kbi.Notification) {
	for n := range ch {
		r.Dispatch(n)
	}
}
