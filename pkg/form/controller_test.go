package form

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formstate/pkg/field"
)

type captureComponent struct {
	renders int
	last    Props
}

func (c *captureComponent) Render(_ context.Context, props Props) error {
	c.renders++
	c.last = props
	return nil
}

func noopSubmit(map[string]string, Handle) Result {
	return Immediate(nil)
}

func mountForm(t *testing.T, fields field.Fields, submit SubmitHandler, opts ...Option) (*Controller, *captureComponent) {
	t.Helper()
	if submit == nil {
		submit = noopSubmit
	}
	comp := &captureComponent{}
	c, err := New(fields, comp, submit, opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := c.Mount(context.Background()); err != nil {
		t.Fatalf("Mount: %v", err)
	}
	t.Cleanup(c.Unmount)
	render(t, c)
	return c, comp
}

func render(t *testing.T, c *Controller) {
	t.Helper()
	if err := c.Render(context.Background()); err != nil {
		t.Fatalf("Render: %v", err)
	}
}

func fieldProps(t *testing.T, comp *captureComponent, name string) FieldProps {
	t.Helper()
	fp, ok := comp.last.Field(name)
	if !ok {
		t.Fatalf("field %q missing from props", name)
	}
	return fp
}

func mustContainAt(value string, _ map[string]string) string {
	if !strings.Contains(value, "@") {
		return "This doesn't look like an email."
	}
	return ""
}

func mustBeLowercase(value string, _ map[string]string) string {
	if strings.ToLower(value) != value {
		return "Who has an upper-case email?"
	}
	return ""
}

func TestNew_RejectsInvalidInput(t *testing.T) {
	comp := &captureComponent{}
	fields := field.Fields{{Name: "email"}}

	if _, err := New(fields, nil, noopSubmit); err == nil {
		t.Fatalf("expected error for nil component")
	}
	if _, err := New(fields, comp, nil); err == nil {
		t.Fatalf("expected error for nil submit handler")
	}
	if _, err := New(field.Fields{{Name: "a"}, {Name: "a"}}, comp, noopSubmit); err == nil {
		t.Fatalf("expected error for duplicate fields")
	}
}

func TestController_Defaults(t *testing.T) {
	_, comp := mountForm(t, field.Fields{{Name: "email"}}, nil)

	fp := fieldProps(t, comp, "email")
	if fp.Value != "" {
		t.Fatalf("expected empty value, got %q", fp.Value)
	}
	if !fp.Required {
		t.Fatalf("expected required by default")
	}
	if fp.Readonly {
		t.Fatalf("expected writable by default")
	}
	if fp.Error != "" {
		t.Fatalf("expected no error, got %q", fp.Error)
	}
	if fp.Label != "" || fp.Choices != nil {
		t.Fatalf("expected no label or choices, got %q %v", fp.Label, fp.Choices)
	}
}

func TestController_InitialValue(t *testing.T) {
	c, comp := mountForm(t, field.Fields{{Name: "name", Initial: "Ada"}}, nil)

	if got := fieldProps(t, comp, "name").Value; got != "Ada" {
		t.Fatalf("expected initial value, got %q", got)
	}
	if got := c.Value("unknown"); got != "" {
		t.Fatalf("expected empty value for unknown field, got %q", got)
	}
}

func TestController_ChangeVisibleAfterRender(t *testing.T) {
	c, comp := mountForm(t, field.Fields{{Name: "name"}}, nil)

	fieldProps(t, comp, "name").OnChange("Grace", nil)
	if got := c.Value("name"); got != "" {
		t.Fatalf("expected write to wait for the next render, got %q", got)
	}

	render(t, c)
	if got := fieldProps(t, comp, "name").Value; got != "Grace" {
		t.Fatalf("expected committed value, got %q", got)
	}
}

func TestController_FormatterSeesPreviousValue(t *testing.T) {
	calls := 0
	fields := field.Fields{{
		Name:    "code",
		Initial: "ab",
		Formatter: func(raw, previous string) string {
			calls++
			return previous + "+" + strings.ToUpper(raw)
		},
	}}
	c, comp := mountForm(t, fields, nil)

	fieldProps(t, comp, "code").OnChange("x", nil)
	render(t, c)

	if got := c.Value("code"); got != "ab+X" {
		t.Fatalf("expected formatted value, got %q", got)
	}
	if calls != 1 {
		t.Fatalf("expected formatter to run once, ran %d times", calls)
	}
}

func TestController_ReadonlyWritesDropped(t *testing.T) {
	fields := field.Fields{
		{Name: "id", Initial: "42", Readonly: true},
		{Name: "name"},
	}
	c, comp := mountForm(t, fields, nil)

	fieldProps(t, comp, "id").OnChange("7", nil)
	c.SetValues(map[string]string{"id": "8", "name": "Ada"}, nil)
	render(t, c)

	want := map[string]string{"id": "42", "name": "Ada"}
	if diff := cmp.Diff(want, c.Values()); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}
}

func TestController_OnAppliedRunsAfterCommit(t *testing.T) {
	c, comp := mountForm(t, field.Fields{{Name: "name"}}, nil)

	var seen string
	applied := false
	fieldProps(t, comp, "name").OnChange("Ada", func() {
		applied = true
		seen = c.Value("name")
	})
	if applied {
		t.Fatalf("expected callback to wait for commit")
	}

	render(t, c)
	if !applied {
		t.Fatalf("expected callback after commit")
	}
	if seen != "Ada" {
		t.Fatalf("expected callback to observe committed value, got %q", seen)
	}
}

func TestController_EmailValidators(t *testing.T) {
	fields := field.Fields{{
		Name:       "email",
		Validators: []field.Validator{mustContainAt, mustBeLowercase},
	}}
	c, comp := mountForm(t, fields, nil)

	fieldProps(t, comp, "email").OnChange("John.Doe", nil)
	render(t, c)
	want := "This doesn't look like an email. Who has an upper-case email?"
	if got := fieldProps(t, comp, "email").Error; got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}

	fieldProps(t, comp, "email").OnChange("john.doe@example.com", nil)
	render(t, c)
	if msg, ok := c.Error("email"); ok {
		t.Fatalf("expected no error, got %q", msg)
	}
}

func TestController_EmptyValueClearsClientErrors(t *testing.T) {
	fields := field.Fields{{
		Name:       "email",
		Validators: []field.Validator{mustContainAt},
	}}
	c, comp := mountForm(t, fields, nil)

	fieldProps(t, comp, "email").OnChange("nope", nil)
	render(t, c)
	if _, ok := c.Error("email"); !ok {
		t.Fatalf("expected error for invalid value")
	}

	fieldProps(t, comp, "email").OnChange("", nil)
	render(t, c)
	if msg, ok := c.Error("email"); ok {
		t.Fatalf("expected empty value to clear errors, got %q", msg)
	}
}

func TestController_ChangeLeavesOtherErrors(t *testing.T) {
	fields := field.Fields{
		{Name: "email", Validators: []field.Validator{mustContainAt}},
		{Name: "name"},
	}
	c, comp := mountForm(t, fields, nil)

	fieldProps(t, comp, "email").OnChange("nope", nil)
	render(t, c)
	fieldProps(t, comp, "name").OnChange("Ada", nil)
	render(t, c)

	if _, ok := c.Error("email"); !ok {
		t.Fatalf("expected email error to survive an unrelated change")
	}
}

func TestController_InitialValidationAtMount(t *testing.T) {
	fields := field.Fields{{
		Name:       "email",
		Initial:    "Bad",
		Validators: []field.Validator{mustContainAt},
	}}
	_, comp := mountForm(t, fields, nil)

	if got := fieldProps(t, comp, "email").Error; got != "This doesn't look like an email." {
		t.Fatalf("expected seeded error, got %q", got)
	}
	if comp.last.IsValid {
		t.Fatalf("expected invalid form")
	}
}

func TestController_RequiredValidity(t *testing.T) {
	fields := field.Fields{
		{Name: "password", Initial: "secret"},
		{Name: "name", Initial: "Ada", Required: field.Optional()},
	}
	c, comp := mountForm(t, fields, nil)
	if !comp.last.IsValid {
		t.Fatalf("expected valid form")
	}

	fieldProps(t, comp, "name").OnChange("", nil)
	render(t, c)
	if !comp.last.IsValid {
		t.Fatalf("expected optional field to leave form valid")
	}

	fieldProps(t, comp, "password").OnChange("", nil)
	render(t, c)
	if comp.last.IsValid {
		t.Fatalf("expected empty required field to invalidate form")
	}
}

func TestController_DynamicRequired(t *testing.T) {
	fields := field.Fields{
		{Name: "contact", Initial: "email", Required: field.Optional()},
		{
			Name: "phone",
			Required: field.Dynamic(func(values map[string]string) bool {
				return values["contact"] == "phone"
			}),
		},
	}
	c, comp := mountForm(t, fields, nil)
	if fieldProps(t, comp, "phone").Required {
		t.Fatalf("expected phone optional")
	}

	fieldProps(t, comp, "contact").OnChange("phone", nil)
	render(t, c)
	if !fieldProps(t, comp, "phone").Required {
		t.Fatalf("expected phone required after dependency change")
	}
	if comp.last.IsValid {
		t.Fatalf("expected form invalid while phone empty")
	}
}

func TestController_ServerErrors(t *testing.T) {
	fields := field.Fields{{
		Name:       "email",
		Validators: []field.Validator{mustContainAt},
	}}
	c, comp := mountForm(t, fields, nil)

	c.SetErrorLists(map[string][]string{
		"email": {"Already taken."},
		AllKey:  {"Try again.", "Later."},
	})
	fieldProps(t, comp, "email").OnChange("bad", nil)
	render(t, c)

	if got := fieldProps(t, comp, "email").Error; got != "This doesn't look like an email. Already taken." {
		t.Fatalf("unexpected combined error %q", got)
	}
	if got := comp.last.GlobalError; got != "Try again. Later." {
		t.Fatalf("unexpected global error %q", got)
	}

	fieldProps(t, comp, "email").OnChange("ok@example.com", nil)
	render(t, c)
	if got := fieldProps(t, comp, "email").Error; got != "Already taken." {
		t.Fatalf("expected server error to persist across edits, got %q", got)
	}
}

func TestController_SetErrorListsReplaces(t *testing.T) {
	c, _ := mountForm(t, field.Fields{{Name: "a"}, {Name: "b"}}, nil)

	c.SetErrorLists(map[string][]string{"a": {"x"}, "b": {"y"}})
	c.SetErrorLists(map[string][]string{"b": {"z"}})
	render(t, c)

	want := map[string][]string{"b": {"z"}}
	if diff := cmp.Diff(want, c.ServerErrors()); diff != "" {
		t.Fatalf("server errors mismatch (-want +got):\n%s", diff)
	}
	if _, ok := c.Error("a"); ok {
		t.Fatalf("expected error for a to be replaced")
	}
}

func TestController_SyncSubmit(t *testing.T) {
	var seenValues map[string]string
	var seenSubmitting bool
	var c *Controller
	submit := func(values map[string]string, h Handle) Result {
		seenValues = values
		seenSubmitting = c.IsSubmitting()
		h.SetErrorLists(map[string][]string{AllKey: {"Rejected."}})
		return Immediate("done")
	}
	c, comp := mountForm(t, field.Fields{{Name: "name", Initial: "Ada"}}, submit)

	ev := NewEvent()
	result := comp.last.HandleSubmit(ev)
	render(t, c)

	if !ev.DefaultPrevented() {
		t.Fatalf("expected default action prevented")
	}
	if result.IsPending() || result.Value() != "done" {
		t.Fatalf("expected immediate result, got %+v", result)
	}
	if diff := cmp.Diff(map[string]string{"name": "Ada"}, seenValues); diff != "" {
		t.Fatalf("submitted values mismatch (-want +got):\n%s", diff)
	}
	if seenSubmitting || comp.last.IsSubmitting {
		t.Fatalf("expected synchronous submit to leave flag untouched")
	}
	if comp.last.GlobalError != "Rejected." {
		t.Fatalf("expected handler errors, got %q", comp.last.GlobalError)
	}
}

func TestController_AsyncSubmit(t *testing.T) {
	future := NewFuture()
	var c *Controller
	var seenSubmitting bool
	submit := func(map[string]string, Handle) Result {
		seenSubmitting = c.IsSubmitting()
		return Pending(future)
	}
	c, comp := mountForm(t, field.Fields{{Name: "name"}}, submit)

	result := c.Submit(nil)
	if !result.IsPending() || result.Future() != future {
		t.Fatalf("expected handler result returned")
	}
	if seenSubmitting {
		t.Fatalf("handler must observe submitting=false")
	}
	render(t, c)
	if !comp.last.IsSubmitting {
		t.Fatalf("expected submitting after pending result")
	}

	future.Resolve(nil)
	if !comp.last.IsSubmitting {
		t.Fatalf("expected flag change to wait for render")
	}
	render(t, c)
	if comp.last.IsSubmitting {
		t.Fatalf("expected submitting cleared after resolution")
	}
}

func TestController_AsyncSubmitRejected(t *testing.T) {
	future := NewFuture()
	c, comp := mountForm(t, field.Fields{{Name: "name"}}, func(map[string]string, Handle) Result {
		return Pending(future)
	})

	c.Submit(nil)
	future.Reject(errors.New("boom"))
	render(t, c)

	if !comp.last.IsSubmitting {
		t.Fatalf("expected rejected submission to leave flag set")
	}
}

func TestController_UnmountBeforeResolution(t *testing.T) {
	future := NewFuture()
	c, comp := mountForm(t, field.Fields{{Name: "name"}}, func(map[string]string, Handle) Result {
		return Pending(future)
	})

	c.Submit(nil)
	render(t, c)
	renders := comp.renders

	c.Unmount()
	future.Resolve("late")

	if err := c.Render(context.Background()); !errors.Is(err, ErrNotMounted) {
		t.Fatalf("expected ErrNotMounted, got %v", err)
	}
	if comp.renders != renders {
		t.Fatalf("expected no renders after unmount")
	}
	c.mu.Lock()
	queued := len(c.queue)
	c.mu.Unlock()
	if queued != 0 {
		t.Fatalf("expected no mutation queued after unmount, got %d", queued)
	}
}

func TestController_SharedValues(t *testing.T) {
	owner := NewMapOwner(map[string]string{"name": "Owner"})
	fields := field.Fields{{Name: "name"}, {Name: "city", Initial: "Paris"}}
	c, comp := mountForm(t, fields, nil, WithSharedValues(owner))

	if c.Mode() != "shared" {
		t.Fatalf("expected shared mode, got %q", c.Mode())
	}
	if got := fieldProps(t, comp, "name").Value; got != "Owner" {
		t.Fatalf("expected owner value, got %q", got)
	}
	if got := fieldProps(t, comp, "city").Value; got != "Paris" {
		t.Fatalf("expected initial fallback, got %q", got)
	}

	applied := false
	fieldProps(t, comp, "city").OnChange("Rome", func() { applied = true })
	if got := owner.Values()["city"]; got != "Rome" {
		t.Fatalf("expected owner to receive write, got %q", got)
	}
	render(t, c)
	if applied {
		t.Fatalf("expected completion callback to be skipped in shared mode")
	}
	if got := fieldProps(t, comp, "city").Value; got != "Rome" {
		t.Fatalf("expected rendered owner value, got %q", got)
	}
}

func TestController_SharedOwnerNotifies(t *testing.T) {
	owner := NewMapOwner(nil)
	c, _ := mountForm(t, field.Fields{{Name: "name"}}, nil, WithSharedValues(owner))

	// Drain anything queued by mount.
	select {
	case <-c.Updates():
	default:
	}

	owner.SetValues(map[string]string{"name": "Elsewhere"})
	select {
	case <-c.Updates():
	default:
		t.Fatalf("expected owner change to request a render")
	}
	if got := c.Value("name"); got != "Elsewhere" {
		t.Fatalf("expected owner value, got %q", got)
	}
}

func TestController_ExtraProps(t *testing.T) {
	_, comp := mountForm(t, field.Fields{{Name: "name"}}, nil,
		WithName("signup"),
		WithComponentProps(map[string]any{"title": "Sign up"}),
	)

	if diff := cmp.Diff(map[string]any{"title": "Sign up"}, comp.last.Extra); diff != "" {
		t.Fatalf("extra mismatch (-want +got):\n%s", diff)
	}
}

func TestController_RunStops(t *testing.T) {
	renders := 0
	comp := ComponentFunc(func(_ context.Context, props Props) error {
		renders++
		fp, _ := props.Field("name")
		if fp.Value == "" {
			fp.OnChange("Ada", nil)
			return nil
		}
		return ErrStop
	})
	c, err := New(field.Fields{{Name: "name"}}, comp, noopSubmit)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if err := c.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if renders != 2 {
		t.Fatalf("expected two renders, got %d", renders)
	}
	if c.Mounted() {
		t.Fatalf("expected controller unmounted after Run")
	}
}

func TestController_MountTwice(t *testing.T) {
	c, _ := mountForm(t, field.Fields{{Name: "name"}}, nil)
	if err := c.Mount(context.Background()); err == nil {
		t.Fatalf("expected second mount to fail")
	}
}

func TestController_ValidatorsSeeCommittedValues(t *testing.T) {
	var seen []string
	recordSelf := func(_ string, values map[string]string) string {
		seen = append(seen, values["email"])
		return ""
	}
	fields := field.Fields{{
		Name:       "email",
		Initial:    "old@x",
		Validators: []field.Validator{recordSelf},
	}}
	c, comp := mountForm(t, fields, nil)
	seen = nil

	fieldProps(t, comp, "email").OnChange("new@x", nil)
	render(t, c)
	fieldProps(t, comp, "email").OnChange("newer@x", nil)

	want := []string{"old@x", "new@x"}
	if diff := cmp.Diff(want, seen); diff != "" {
		t.Fatalf("validator values mismatch (-want +got):\n%s", diff)
	}
}

func TestController_FieldValidityInProps(t *testing.T) {
	fields := field.Fields{
		{Name: "email", Validators: []field.Validator{mustContainAt}},
		{Name: "name"},
		{Name: "nick", Required: field.Optional()},
	}
	c, comp := mountForm(t, fields, nil)

	fieldProps(t, comp, "email").OnChange("nope", nil)
	render(t, c)

	email := fieldProps(t, comp, "email")
	if diff := cmp.Diff([]string{"This doesn't look like an email."}, email.ClientErrors); diff != "" {
		t.Fatalf("client errors mismatch (-want +got):\n%s", diff)
	}
	if !email.Invalid {
		t.Fatalf("expected email flagged invalid")
	}
	if name := fieldProps(t, comp, "name"); !name.Invalid || len(name.ClientErrors) != 0 {
		t.Fatalf("expected empty required name invalid without client errors, got %+v", name)
	}
	if fieldProps(t, comp, "nick").Invalid {
		t.Fatalf("expected empty optional field valid")
	}
}

func TestController_CheckChangeDoesNotQueue(t *testing.T) {
	fields := field.Fields{{
		Name:       "email",
		Formatter:  func(raw, _ string) string { return strings.TrimSpace(raw) },
		Validators: []field.Validator{mustContainAt},
	}}
	c, comp := mountForm(t, fields, nil)

	check := fieldProps(t, comp, "email").Check
	if diff := cmp.Diff([]string{"This doesn't look like an email."}, check(" nope ")); diff != "" {
		t.Fatalf("check mismatch (-want +got):\n%s", diff)
	}
	if got := check("  ada@example.com "); len(got) != 0 {
		t.Fatalf("expected formatted value accepted, got %v", got)
	}

	render(t, c)
	if got := c.Value("email"); got != "" {
		t.Fatalf("expected check to leave value untouched, got %q", got)
	}
	if _, ok := c.Error("email"); ok {
		t.Fatalf("expected check to leave errors untouched")
	}
}

func TestController_StaleSubmissionAfterRemount(t *testing.T) {
	first, second := NewFuture(), NewFuture()
	futures := []*Future{first, second}
	c, comp := mountForm(t, field.Fields{{Name: "name"}}, func(map[string]string, Handle) Result {
		f := futures[0]
		futures = futures[1:]
		return Pending(f)
	})

	c.Submit(nil)
	c.Unmount()
	if err := c.Mount(context.Background()); err != nil {
		t.Fatalf("Mount: %v", err)
	}
	c.Submit(nil)
	render(t, c)
	if !comp.last.IsSubmitting {
		t.Fatalf("expected second session submitting")
	}

	first.Resolve("late")
	render(t, c)
	if !comp.last.IsSubmitting {
		t.Fatalf("expected earlier session's submission to leave the flag alone")
	}

	second.Resolve("done")
	render(t, c)
	if comp.last.IsSubmitting {
		t.Fatalf("expected current submission to clear the flag")
	}
}
