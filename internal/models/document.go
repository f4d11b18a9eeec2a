package models

import (
	"github.com/google/uuid"
)

// Listener receives the mutated entity after a setter runs.
// Listeners are invoked synchronously; they must not mutate the entity they
// are observing or the notification order guarantee is lost.
type Listener func(Entity)

// ListenerHandle identifies one registration on one document.
type ListenerHandle int

// Entity is the closed union of document kinds. It is implemented only by
// *Claim, *Item and *User in this package.
type Entity interface {
	// UUID returns the document's immutable identity.
	UUID() uuid.UUID

	// Kind returns the document's kind tag, set once at construction.
	Kind() Kind

	// Name returns the document's display name.
	Name() string

	// Register adds a mutation listener; Unregister removes it.
	Register(fn Listener) ListenerHandle
	Unregister(h ListenerHandle)

	doc() *Document
}

// Document is the identity and notification core shared by every entity
// kind. The id and kind are immutable after construction; name mutates
// through the owning entity's SetName.
type Document struct {
	id   uuid.UUID
	kind Kind
	name string

	listeners  []registration
	nextHandle ListenerHandle
}

type registration struct {
	handle ListenerHandle
	fn     Listener
}

func newDocument(id uuid.UUID, kind Kind) Document {
	return Document{id: id, kind: kind}
}

// UUID returns the document's immutable identity.
func (d *Document) UUID() uuid.UUID { return d.id }

// Kind returns the document's kind tag.
func (d *Document) Kind() Kind { return d.kind }

// Name returns the document's display name.
func (d *Document) Name() string { return d.name }

func (d *Document) doc() *Document { return d }

// Register adds a listener and returns its handle. The same listener may be
// registered more than once; each registration is notified.
func (d *Document) Register(fn Listener) ListenerHandle {
	h := d.nextHandle
	d.nextHandle++
	d.listeners = append(d.listeners, registration{handle: h, fn: fn})
	return h
}

// Unregister removes the registration identified by the handle. Unknown
// handles are ignored.
func (d *Document) Unregister(h ListenerHandle) {
	for i, r := range d.listeners {
		if r.handle == h {
			d.listeners = append(d.listeners[:i], d.listeners[i+1:]...)
			return
		}
	}
}

// notify delivers the mutated entity to every listener in registration
// order. Called by every setter, once per mutation.
func (d *Document) notify(e Entity) {
	for _, r := range d.listeners {
		r.fn(e)
	}
}
