package main

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formstate/pkg/display/tui"
)

const fieldsFile = `name: signup
fields:
  email:
    label: Email
    formatter: trim
    validators:
      - tag: email
        message: Enter a valid email.
  plan:
    initial: free
    readonly: true
`

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoadDocument(t *testing.T) {
	path := writeTemp(t, "fields.yaml", fieldsFile)

	doc, err := loadDocument(context.Background(), config{fields: path})
	if err != nil {
		t.Fatalf("loadDocument: %v", err)
	}
	if diff := cmp.Diff([]string{"email", "plan"}, doc.Fields.Names()); diff != "" {
		t.Fatalf("fields mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadDocument_FlagErrors(t *testing.T) {
	cases := map[string]config{
		"none":      {},
		"both":      {fields: "a.yaml", openapi: "b.yaml"},
		"operation": {openapi: "b.yaml"},
	}
	for name, cfg := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := loadDocument(context.Background(), cfg); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestWritePreview(t *testing.T) {
	fields := writeTemp(t, "fields.yaml", fieldsFile)
	preview := filepath.Join(t.TempDir(), "preview.html")
	cfg := config{fields: fields, preview: preview, variant: "dark"}

	if err := run(context.Background(), cfg); err != nil {
		t.Fatalf("run: %v", err)
	}
	data, err := os.ReadFile(preview)
	if err != nil {
		t.Fatalf("read preview: %v", err)
	}
	out := string(data)
	for _, fragment := range []string{
		`formstate--dark`,
		`data-form="signup"`,
		`<input type="text" id="fs-plan" name="plan" value="free" readonly required>`,
		`<button type="submit" disabled>Submit</button>`,
	} {
		if !strings.Contains(out, fragment) {
			t.Fatalf("expected preview to contain %q\n%s", fragment, out)
		}
	}
}

func TestWatchRequiresPreview(t *testing.T) {
	if err := run(context.Background(), config{watch: true, fields: "fields.yaml"}); err == nil {
		t.Fatalf("expected error without -preview")
	}
}

func TestWriteValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	values := map[string]string{"email": "ada@example.com", "plan": "free"}

	if err := writeValues(path, values); err != nil {
		t.Fatalf("writeValues: %v", err)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var got map[string]string
	if err := json.Unmarshal(raw, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if diff := cmp.Diff(values, got); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadServerErrors(t *testing.T) {
	path := writeTemp(t, "errors.json", `{"/body/email": ["taken"], "form": ["try later"]}`)

	got, err := loadServerErrors(path)
	if err != nil {
		t.Fatalf("loadServerErrors: %v", err)
	}
	want := map[string][]string{"/body/email": {"taken"}, "form": {"try later"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("payload mismatch (-want +got):\n%s", diff)
	}

	if _, err := loadServerErrors(writeTemp(t, "bad.json", "[")); err == nil {
		t.Fatalf("expected parse error")
	}
}

// scriptedDriver answers prompts from fixed lists and aborts once they run out.
type scriptedDriver struct {
	inputs  []string
	confirm []bool
	infos   []string
}

func (d *scriptedDriver) Input(context.Context, tui.InputConfig) (string, error) {
	if len(d.inputs) == 0 {
		return "", tui.ErrAborted
	}
	val := d.inputs[0]
	d.inputs = d.inputs[1:]
	return val, nil
}

func (d *scriptedDriver) Password(ctx context.Context, cfg tui.InputConfig) (string, error) {
	return d.Input(ctx, cfg)
}

func (d *scriptedDriver) Confirm(context.Context, tui.ConfirmConfig) (bool, error) {
	if len(d.confirm) == 0 {
		return false, tui.ErrAborted
	}
	val := d.confirm[0]
	d.confirm = d.confirm[1:]
	return val, nil
}

func (d *scriptedDriver) Select(context.Context, tui.SelectConfig) (int, error) {
	return 0, tui.ErrAborted
}

func (d *scriptedDriver) TextArea(context.Context, tui.TextAreaConfig) (string, error) {
	return "", tui.ErrAborted
}

func (d *scriptedDriver) Info(_ context.Context, msg string) error {
	d.infos = append(d.infos, msg)
	return nil
}

func sessionContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func TestRunSession_WritesValues(t *testing.T) {
	ctx := sessionContext(t)
	doc, err := loadDocument(ctx, config{fields: writeTemp(t, "fields.yaml", fieldsFile)})
	if err != nil {
		t.Fatalf("loadDocument: %v", err)
	}
	output := filepath.Join(t.TempDir(), "out.json")
	driver := &scriptedDriver{inputs: []string{" ada@example.com "}, confirm: []bool{true}}

	if err := runSession(ctx, doc, config{output: output}, tui.New(tui.WithPromptDriver(driver))); err != nil {
		t.Fatalf("runSession: %v", err)
	}
	raw, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	var got map[string]string
	if err := json.Unmarshal(raw, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	want := map[string]string{"email": "ada@example.com", "plan": "free"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}
}

func TestRunSession_FailedWriteReportedOnForm(t *testing.T) {
	ctx := sessionContext(t)
	doc, err := loadDocument(ctx, config{fields: writeTemp(t, "fields.yaml", fieldsFile)})
	if err != nil {
		t.Fatalf("loadDocument: %v", err)
	}
	output := filepath.Join(t.TempDir(), "missing", "out.json")
	driver := &scriptedDriver{
		inputs:  []string{"ada@example.com", "ada@example.com"},
		confirm: []bool{true, true},
	}

	err = runSession(ctx, doc, config{output: output}, tui.New(tui.WithPromptDriver(driver)))
	if !errors.Is(err, tui.ErrAborted) {
		t.Fatalf("expected the session to keep prompting until aborted, got %v (infos %v)", err, driver.infos)
	}
	reported := slices.ContainsFunc(driver.infos, func(msg string) bool {
		return strings.HasPrefix(msg, "✗ Could not save values: ")
	})
	if !reported {
		t.Fatalf("expected write failure shown to the user, got %v", driver.infos)
	}
	if len(driver.inputs) != 0 || len(driver.confirm) != 0 {
		t.Fatalf("expected a retry after the failed write, left inputs %v confirms %v", driver.inputs, driver.confirm)
	}
}

func TestRunSession_ServerErrorsFirst(t *testing.T) {
	ctx := sessionContext(t)
	doc, err := loadDocument(ctx, config{fields: writeTemp(t, "fields.yaml", fieldsFile)})
	if err != nil {
		t.Fatalf("loadDocument: %v", err)
	}
	cfg := config{
		output:       filepath.Join(t.TempDir(), "out.json"),
		serverErrors: writeTemp(t, "errors.json", `{"/body/email": ["Already registered."]}`),
	}
	driver := &scriptedDriver{
		inputs:  []string{"ada@example.com", "grace@example.com"},
		confirm: []bool{true, true},
	}

	if err := runSession(ctx, doc, cfg, tui.New(tui.WithPromptDriver(driver))); err != nil {
		t.Fatalf("runSession: %v", err)
	}
	if !slices.Contains(driver.infos, "✗ Email: Already registered.") {
		t.Fatalf("expected server error reported, got %v", driver.infos)
	}
	raw, err := os.ReadFile(cfg.output)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if !strings.Contains(string(raw), "grace@example.com") {
		t.Fatalf("expected corrected value written, got %s", raw)
	}
}
