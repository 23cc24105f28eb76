package form

// formState is replaced wholesale on every commit. Maps are never mutated in
// place once committed.
type formState struct {
	values       map[string]string
	clientErrors map[string][]string
	serverErrors map[string][]string
	submitting   bool
}

func emptyState() formState {
	return formState{
		values:       map[string]string{},
		clientErrors: map[string][]string{},
		serverErrors: map[string][]string{},
	}
}

// mutation is a queued state transition. after runs once the transition has
// been committed.
type mutation struct {
	apply func(formState) formState
	after func()
}

// enqueue records a mutation for the next commit. Requests made while the
// controller is not mounted are dropped.
func (c *Controller) enqueue(m mutation) {
	if !c.alive.Load() {
		return
	}
	c.mu.Lock()
	c.queue = append(c.queue, m)
	c.mu.Unlock()
	c.notify()
}

func (c *Controller) notify() {
	select {
	case c.updates <- struct{}{}:
	default:
	}
}

// commit applies every queued mutation in request order, then runs their
// completion callbacks outside the lock.
func (c *Controller) commit() int {
	c.mu.Lock()
	queue := c.queue
	c.queue = nil
	state := c.state
	for _, m := range queue {
		if m.apply != nil {
			state = m.apply(state)
		}
	}
	c.state = state
	c.mu.Unlock()

	for _, m := range queue {
		if m.after != nil {
			m.after()
		}
	}
	return len(queue)
}

func (c *Controller) snapshot() formState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func withValues(src map[string]string, partial map[string]string) map[string]string {
	out := make(map[string]string, len(src)+len(partial))
	for k, v := range src {
		out[k] = v
	}
	for k, v := range partial {
		out[k] = v
	}
	return out
}

func withErrorList(src map[string][]string, name string, list []string) map[string][]string {
	out := make(map[string][]string, len(src)+1)
	for k, v := range src {
		out[k] = v
	}
	out[name] = list
	return out
}

func cloneErrors(src map[string][]string) map[string][]string {
	out := make(map[string][]string, len(src))
	for k, v := range src {
		out[k] = append([]string(nil), v...)
	}
	return out
}
