package form

import "github.com/zoobzio/capitan"

// Lifecycle signals.
var (
	// FormMounted is emitted when a controller becomes live.
	FormMounted = capitan.NewSignal(
		"form.mounted",
		"Form controller mounted",
	)

	// FormUnmounted is emitted when a controller is torn down.
	FormUnmounted = capitan.NewSignal(
		"form.unmounted",
		"Form controller unmounted",
	)
)

// Value and error signals.
var (
	// FieldChanged is emitted after a change has been formatted and validated.
	FieldChanged = capitan.NewSignal(
		"form.field.changed",
		"Field value changed",
	)

	// FieldWriteDropped is emitted when a write targets a readonly field.
	FieldWriteDropped = capitan.NewSignal(
		"form.field.write.dropped",
		"Write to readonly field dropped",
	)

	// ServerErrorsSet is emitted when server errors are replaced.
	ServerErrorsSet = capitan.NewSignal(
		"form.errors.server.set",
		"Server error lists replaced",
	)
)

// Submission signals.
var (
	// SubmitStarted is emitted when a handler returns a pending result.
	SubmitStarted = capitan.NewSignal(
		"form.submit.started",
		"Asynchronous submission started",
	)

	// SubmitFinished is emitted when a pending submission resolves.
	SubmitFinished = capitan.NewSignal(
		"form.submit.finished",
		"Asynchronous submission finished",
	)

	// SubmitRejected is emitted when a pending submission fails.
	SubmitRejected = capitan.NewSignal(
		"form.submit.rejected",
		"Asynchronous submission rejected",
	)

	// SubmitSkipped is emitted when a submission settles after unmount.
	SubmitSkipped = capitan.NewSignal(
		"form.submit.skipped",
		"Submission settled after unmount",
	)
)

// Field keys for form events.
var (
	// KeyForm is the controller name.
	KeyForm = capitan.NewStringKey("form")

	// KeyField is the field a change or dropped write targeted.
	KeyField = capitan.NewStringKey("field")

	// KeyError is the error message of a rejected submission, or the
	// combined client error of a changed field.
	KeyError = capitan.NewStringKey("error")

	// KeyErrorCount is the number of server error messages set.
	KeyErrorCount = capitan.NewIntKey("error_count")

	// KeyMode is the value storage mode, "local" or "shared".
	KeyMode = capitan.NewStringKey("mode")
)
