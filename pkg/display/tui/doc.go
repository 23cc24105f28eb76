// Package tui is an interactive terminal Component for form controllers.
//
// Each render prompts at most one field and hands the answer to the field's
// OnChange callback; the next render checks the committed value and either
// re-prompts or moves on. Once every editable field has been visited and the
// form is valid the user is asked to confirm, the submit handler runs, and the
// component waits while the submission is pending. Field or global errors
// reported by the handler restart prompting at the first affected field, so
// handlers must replace the server errors on every submission. A clean
// submission ends the session with form.ErrStop.
package tui
