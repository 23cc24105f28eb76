package testsupport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formstate/pkg/declare"
	"github.com/goliatone/go-formstate/pkg/field"
	"github.com/goliatone/go-formstate/pkg/form"
)

// LoadFields reads a declaration file using the default registry. Testing
// helpers fail the test on error to keep component tests concise.
func LoadFields(t *testing.T, path string) field.Fields {
	t.Helper()

	doc, err := LoadDocumentFromPath(path, nil)
	if err != nil {
		t.Fatalf("load fields: %v", err)
	}
	return doc.Fields
}

// LoadDocumentFromPath returns a Document without requiring testing.T. A nil
// registry falls back to declare.DefaultRegistry.
func LoadDocumentFromPath(path string, reg *declare.Registry) (declare.Document, error) {
	if path == "" {
		return declare.Document{}, errors.New("testsupport: document path is required")
	}
	if reg == nil {
		reg = declare.DefaultRegistry()
	}
	doc, err := declare.LoadFile(path, reg)
	if err != nil {
		return declare.Document{}, fmt.Errorf("testsupport: load document: %w", err)
	}
	return doc, nil
}

// MountedProps mounts a controller over fields, renders once and returns the
// committed props. The controller is unmounted before returning.
func MountedProps(t *testing.T, fields field.Fields, options ...form.Option) form.Props {
	t.Helper()

	var captured form.Props
	capture := form.ComponentFunc(func(_ context.Context, props form.Props) error {
		captured = props
		return nil
	})
	submit := func(map[string]string, form.Handle) form.Result {
		return form.Immediate(nil)
	}
	ctrl, err := form.New(fields, capture, submit, options...)
	if err != nil {
		t.Fatalf("new controller: %v", err)
	}
	ctx := Context()
	if err := ctrl.Mount(ctx); err != nil {
		t.Fatalf("mount: %v", err)
	}
	defer ctrl.Unmount()
	if err := ctrl.Render(ctx); err != nil {
		t.Fatalf("render: %v", err)
	}
	return captured
}

// WriteGolden writes arbitrary data to a golden file when UPDATE_GOLDENS is set.
func WriteGolden(t *testing.T, path string, value any) {
	t.Helper()

	if os.Getenv("UPDATE_GOLDENS") == "" {
		return
	}
	payload, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		t.Fatalf("marshal golden: %v", err)
	}
	WriteMaybeGolden(t, path, append(payload, '\n'))
}

// CompareGolden returns a diff string if the values differ.
func CompareGolden(want, got any) string {
	return cmp.Diff(want, got)
}

// CompareJSONGolden decodes the golden at path and compares it with value
// after a JSON round trip, so formatting differences are ignored.
func CompareJSONGolden(t *testing.T, path string, value any) string {
	t.Helper()

	payload, err := json.Marshal(value)
	if err != nil {
		t.Fatalf("marshal value: %v", err)
	}
	var got any
	if err := json.Unmarshal(payload, &got); err != nil {
		t.Fatalf("unmarshal value: %v", err)
	}
	var want any
	if err := json.Unmarshal(MustReadGolden(t, path), &want); err != nil {
		t.Fatalf("unmarshal golden %s: %v", path, err)
	}
	return CompareGolden(want, got)
}

// MustReadGolden reads a golden file and returns its raw bytes.
func MustReadGolden(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	return data
}

// WriteMaybeGolden updates a golden file when UPDATE_GOLDENS is set. Returns
// true if the golden was written (test should exit early).
func WriteMaybeGolden(t *testing.T, path string, data []byte) bool {
	t.Helper()
	if os.Getenv("UPDATE_GOLDENS") == "" {
		return false
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir golden dir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
	return true
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}

// MustReadGoldenString reads a golden file and returns its string content.
func MustReadGoldenString(t *testing.T, path string) string {
	t.Helper()
	return string(MustReadGolden(t, path))
}

// CaptureOutput runs render against a buffer and returns what it wrote.
func CaptureOutput(t *testing.T, render func(io.Writer) error) string {
	t.Helper()

	var buf bytes.Buffer
	if err := render(&buf); err != nil {
		t.Fatalf("render: %v", err)
	}
	return buf.String()
}
