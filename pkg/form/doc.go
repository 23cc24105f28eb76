// Package form implements the form-state controller: it owns field values,
// client and server validation errors and the submitting flag, and hands a
// read-only Props bundle to an external display Component on every render.
//
// A Controller is driven by a single host goroutine. Mutations (value changes,
// error updates, submitting transitions) are queued and committed together at
// the start of the next Render, so reads that follow a write in the same turn
// still observe the previously committed state:
//
//	ctrl, err := form.New(fields, component, func(values map[string]string, h form.Handle) form.Result {
//		return form.Pending(form.Go(ctx, func(ctx context.Context) (any, error) {
//			return api.Save(ctx, values)
//		}))
//	})
//	if err != nil {
//		return err
//	}
//	return ctrl.Run(ctx)
//
// Run mounts the controller, renders, re-renders whenever mutations are
// queued and unmounts when the component returns ErrStop or the context ends.
// Lifecycle and submission transitions are emitted as capitan signals (see
// signals.go) so hosts can observe them without the controller logging.
package form
