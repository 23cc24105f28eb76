package form

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/zoobzio/capitan"

	"github.com/goliatone/go-formstate/pkg/field"
)

// SubmitHandler receives the current values and a handle for reporting server
// errors back. Returning Pending marks the form as submitting until the future
// resolves.
type SubmitHandler func(values map[string]string, h Handle) Result

// Handle is the controller surface exposed to submit handlers.
type Handle interface {
	SetErrorLists(serverErrors map[string][]string)
	Values() map[string]string
}

// Controller owns the state of one form session.
type Controller struct {
	name      string
	fields    field.Fields
	component Component
	submit    SubmitHandler
	extra     map[string]any
	owner     ValueOwner
	store     ValueStore

	mu      sync.Mutex
	ctx     context.Context
	state   formState
	queue   []mutation
	cancel  func()
	alive   atomic.Bool
	session atomic.Uint64
	updates chan struct{}
}

// Ensure the controller can be handed to submit handlers.
var _ Handle = (*Controller)(nil)

// New validates the declarations and constructs an unmounted controller.
func New(fields field.Fields, component Component, submit SubmitHandler, options ...Option) (*Controller, error) {
	if component == nil {
		return nil, errors.New("form: component is required")
	}
	if submit == nil {
		return nil, errors.New("form: submit handler is required")
	}
	if err := fields.Validate(); err != nil {
		return nil, fmt.Errorf("form: invalid fields: %w", err)
	}

	c := &Controller{
		name:      "form",
		fields:    append(field.Fields(nil), fields...),
		component: component,
		submit:    submit,
		state:     emptyState(),
		updates:   make(chan struct{}, 1),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(c)
	}

	if c.owner != nil {
		c.store = sharedStore{owner: c.owner, notify: c.notify}
	} else {
		c.store = localStore{c: c}
	}
	return c, nil
}

// Name reports the controller label used in signals.
func (c *Controller) Name() string {
	return c.name
}

// Mode reports "shared" when values are delegated to an owner, "local"
// otherwise.
func (c *Controller) Mode() string {
	if c.owner != nil {
		return "shared"
	}
	return "local"
}

// Mount marks the controller live and queues the initial validation pass so
// the first render already reflects client errors for seeded values.
func (c *Controller) Mount(ctx context.Context) error {
	if ctx == nil {
		return errors.New("form: context is required")
	}
	if c.alive.Load() {
		return fmt.Errorf("form: %s already mounted", c.name)
	}

	c.mu.Lock()
	c.ctx = ctx
	c.state = emptyState()
	c.queue = nil
	c.mu.Unlock()

	if sub, ok := c.owner.(Subscriber); ok {
		cancel := sub.Subscribe(c.notify)
		c.mu.Lock()
		c.cancel = cancel
		c.mu.Unlock()
	}

	c.session.Add(1)
	c.alive.Store(true)
	capitan.Emit(ctx, FormMounted,
		KeyForm.Field(c.name),
		KeyMode.Field(c.Mode()),
	)

	c.validateAll()
	return nil
}

// Unmount clears the liveness flag. Pending submissions that settle afterwards
// leave the discarded state untouched.
func (c *Controller) Unmount() {
	if !c.alive.Swap(false) {
		return
	}
	c.mu.Lock()
	cancel := c.cancel
	c.cancel = nil
	c.queue = nil
	c.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	capitan.Emit(c.context(), FormUnmounted, KeyForm.Field(c.name))
}

// Mounted reports the liveness flag.
func (c *Controller) Mounted() bool {
	return c.alive.Load()
}

// Render commits queued mutations and hands fresh props to the component.
func (c *Controller) Render(ctx context.Context) error {
	if ctx == nil {
		return errors.New("form: context is required")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if !c.alive.Load() {
		return ErrNotMounted
	}
	c.commit()
	return c.component.Render(ctx, c.Props())
}

// Updates delivers a notification whenever the controller wants another
// render: mutations were queued, a shared owner changed or a component asked
// for a refresh.
func (c *Controller) Updates() <-chan struct{} {
	return c.updates
}

// Refresh requests another render without changing form state.
func (c *Controller) Refresh() {
	c.notify()
}

// Run mounts the controller and renders until the component returns ErrStop,
// rendering fails or ctx is done. The controller is unmounted on return.
func (c *Controller) Run(ctx context.Context) error {
	if err := c.Mount(ctx); err != nil {
		return err
	}
	defer c.Unmount()

	for {
		if err := c.Render(ctx); err != nil {
			if errors.Is(err, ErrStop) {
				return nil
			}
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-c.updates:
		}
	}
}

func (c *Controller) context() context.Context {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.ctx == nil {
		return context.Background()
	}
	return c.ctx
}
