package form

import (
	"sync"

	"github.com/zoobzio/capitan"
)

// ValueStore abstracts where field values live.
type ValueStore interface {
	Get(name string) (string, bool)
	SetAll(partial map[string]string, onApplied func())
}

// ValueOwner holds values on behalf of one or more controllers (shared-value
// mode). SetValues must be reflected by subsequent Values calls.
type ValueOwner interface {
	Values() map[string]string
	SetValues(partial map[string]string)
}

// Subscriber is implemented by owners that can announce changes made by
// other collaborators. The returned function cancels the subscription.
type Subscriber interface {
	Subscribe(fn func()) (cancel func())
}

// localStore keeps values in the controller state. Writes are queued and
// become visible after the next commit.
type localStore struct {
	c *Controller
}

func (s localStore) Get(name string) (string, bool) {
	value, ok := s.c.snapshot().values[name]
	return value, ok
}

func (s localStore) SetAll(partial map[string]string, onApplied func()) {
	s.c.enqueue(mutation{
		apply: func(st formState) formState {
			st.values = withValues(st.values, partial)
			return st
		},
		after: onApplied,
	})
}

// sharedStore defers entirely to the owner. The owner drives re-rendering, so
// completion callbacks are not invoked.
type sharedStore struct {
	owner  ValueOwner
	notify func()
}

func (s sharedStore) Get(name string) (string, bool) {
	value, ok := s.owner.Values()[name]
	return value, ok
}

func (s sharedStore) SetAll(partial map[string]string, _ func()) {
	s.owner.SetValues(partial)
	s.notify()
}

// Value returns the owner or local value when present, the declared initial
// value otherwise, and the empty string for unknown fields.
func (c *Controller) Value(name string) string {
	if value, ok := c.store.Get(name); ok {
		return value
	}
	// Resolving the field here would loop: required rules read Values.
	if decl, ok := c.fields.Lookup(name); ok {
		return decl.Initial
	}
	return ""
}

// Values returns the current value of every declared field.
func (c *Controller) Values() map[string]string {
	out := make(map[string]string, len(c.fields))
	for _, decl := range c.fields {
		out[decl.Name] = c.Value(decl.Name)
	}
	return out
}

// SetValues drops writes to readonly fields and forwards the rest to the value
// store. In local mode onApplied runs once the write has been committed.
func (c *Controller) SetValues(partial map[string]string, onApplied func()) {
	filtered := make(map[string]string, len(partial))
	for name, value := range partial {
		if c.Field(name).Readonly {
			capitan.Emit(c.context(), FieldWriteDropped,
				KeyForm.Field(c.name),
				KeyField.Field(name),
			)
			continue
		}
		filtered[name] = value
	}
	c.store.SetAll(filtered, onApplied)
}

// MapOwner is an in-memory ValueOwner safe for concurrent use. Several
// controllers may share one owner; subscribers are told about every write.
type MapOwner struct {
	mu        sync.RWMutex
	values    map[string]string
	listeners map[int]func()
	nextID    int
}

// NewMapOwner seeds an owner with initial values.
func NewMapOwner(initial map[string]string) *MapOwner {
	return &MapOwner{
		values:    withValues(nil, initial),
		listeners: make(map[int]func()),
	}
}

// Values returns a copy of the held values.
func (o *MapOwner) Values() map[string]string {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return withValues(nil, o.values)
}

// SetValues merges partial into the held values and notifies subscribers.
func (o *MapOwner) SetValues(partial map[string]string) {
	o.mu.Lock()
	o.values = withValues(o.values, partial)
	listeners := make([]func(), 0, len(o.listeners))
	for _, fn := range o.listeners {
		listeners = append(listeners, fn)
	}
	o.mu.Unlock()

	for _, fn := range listeners {
		fn()
	}
}

// Subscribe registers fn for change notifications.
func (o *MapOwner) Subscribe(fn func()) func() {
	if fn == nil {
		return func() {}
	}
	o.mu.Lock()
	id := o.nextID
	o.nextID++
	o.listeners[id] = fn
	o.mu.Unlock()

	return func() {
		o.mu.Lock()
		delete(o.listeners, id)
		o.mu.Unlock()
	}
}
