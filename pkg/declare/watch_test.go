package declare

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeFields(t *testing.T, path, name string) {
	t.Helper()
	data := []byte("name: " + name + "\nfields:\n  email:\n    label: Email\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func nextDocument(t *testing.T, updates <-chan Update, name string) Document {
	t.Helper()
	timeout := time.After(5 * time.Second)
	for {
		select {
		case u, ok := <-updates:
			if !ok {
				t.Fatalf("updates closed before %q was loaded", name)
			}
			if u.Err == nil && u.Document.Name == name {
				return u.Document
			}
		case <-timeout:
			t.Fatalf("timed out waiting for %q", name)
		}
	}
}

func TestWatch_ReloadsOnWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fields.yaml")
	writeFields(t, path, "first")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	updates, err := Watch(ctx, path, nil)
	if err != nil {
		t.Fatalf("Watch: %v", err)
	}

	doc := nextDocument(t, updates, "first")
	if len(doc.Fields) != 1 || doc.Fields[0].Name != "email" {
		t.Fatalf("unexpected fields %+v", doc.Fields)
	}

	writeFields(t, path, "second")
	nextDocument(t, updates, "second")

	cancel()
	for range updates {
	}
}

func TestWatch_ReportsParseErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fields.yaml")
	if err := os.WriteFile(path, []byte("fields: ["), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	updates, err := Watch(ctx, path, nil)
	if err != nil {
		t.Fatalf("Watch: %v", err)
	}
	select {
	case u := <-updates:
		if u.Err == nil {
			t.Fatalf("expected a parse error, got %+v", u.Document)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("timed out waiting for initial load")
	}
}

func TestWatch_MissingDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "fields.yaml")
	if _, err := Watch(context.Background(), path, nil); err == nil {
		t.Fatalf("expected error watching a missing directory")
	}
}
