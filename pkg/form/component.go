package form

import (
	"context"
	"errors"
)

var (
	// ErrStop is returned by a Component to end the Run loop cleanly.
	ErrStop = errors.New("form: stop")
	// ErrNotMounted is returned when rendering a controller that is not
	// mounted.
	ErrNotMounted = errors.New("form: controller is not mounted")
)

// Component renders the props computed by a Controller. Implementations report
// user interaction back through the callbacks carried by Props.
type Component interface {
	Render(ctx context.Context, props Props) error
}

// ComponentFunc adapts a function into a Component.
type ComponentFunc func(ctx context.Context, props Props) error

// Render delegates to the underlying function.
func (fn ComponentFunc) Render(ctx context.Context, props Props) error {
	return fn(ctx, props)
}

// Event is the interaction that triggered a submission. PreventDefault
// suppresses the host's default handling (page reload, prompt exit...).
type Event interface {
	PreventDefault()
}

// BasicEvent records whether its default action was prevented.
type BasicEvent struct {
	prevented bool
}

// NewEvent returns an event hosts can hand to Props.HandleSubmit.
func NewEvent() *BasicEvent {
	return &BasicEvent{}
}

// PreventDefault implements Event.
func (e *BasicEvent) PreventDefault() {
	e.prevented = true
}

// DefaultPrevented reports whether PreventDefault was called.
func (e *BasicEvent) DefaultPrevented() bool {
	return e.prevented
}
