package form

import (
	"strings"

	"github.com/zoobzio/capitan"
)

// AllKey addresses server errors that belong to the form as a whole.
const AllKey = "all"

// Error combines the client errors of name with its server errors, space
// separated, client first. An empty name reads the AllKey server bucket. The
// boolean is false when there is nothing to report.
func (c *Controller) Error(name string) (string, bool) {
	st := c.snapshot()

	var combined []string
	serverKey := AllKey
	if name != "" {
		combined = append(combined, st.clientErrors[name]...)
		serverKey = name
	}
	combined = append(combined, st.serverErrors[serverKey]...)

	if len(combined) == 0 {
		return "", false
	}
	return strings.Join(combined, " "), true
}

// GlobalError is Error("").
func (c *Controller) GlobalError() (string, bool) {
	return c.Error("")
}

// SetErrorLists replaces the entire server error mapping. Fields left out of
// serverErrors lose their previous server errors.
func (c *Controller) SetErrorLists(serverErrors map[string][]string) {
	next := cloneErrors(serverErrors)
	count := 0
	for _, list := range next {
		count += len(list)
	}

	c.enqueue(mutation{
		apply: func(st formState) formState {
			st.serverErrors = next
			return st
		},
	})

	capitan.Emit(c.context(), ServerErrorsSet,
		KeyForm.Field(c.name),
		KeyErrorCount.Field(count),
	)
}

// ClientErrors returns a copy of the committed client error lists.
func (c *Controller) ClientErrors() map[string][]string {
	return cloneErrors(c.snapshot().clientErrors)
}

// ServerErrors returns a copy of the committed server error lists.
func (c *Controller) ServerErrors() map[string][]string {
	return cloneErrors(c.snapshot().serverErrors)
}
