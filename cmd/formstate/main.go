package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	theme "github.com/goliatone/go-theme"
	"github.com/zoobzio/capitan"

	"github.com/goliatone/go-formstate/pkg/declare"
	"github.com/goliatone/go-formstate/pkg/display/html"
	"github.com/goliatone/go-formstate/pkg/display/tui"
	"github.com/goliatone/go-formstate/pkg/form"
)

type config struct {
	fields       string
	openapi      string
	operation    string
	output       string
	preview      string
	serverErrors string
	variant      string
	watch        bool
	verbose      bool
}

func main() {
	var cfg config
	flag.StringVar(&cfg.fields, "fields", "", "field declaration file (YAML or JSON)")
	flag.StringVar(&cfg.openapi, "openapi", "", "OpenAPI document to build fields from")
	flag.StringVar(&cfg.operation, "operation", "", "operation ID whose request body describes the form")
	flag.StringVar(&cfg.output, "output", "", "file receiving submitted values as JSON (stdout if empty)")
	flag.StringVar(&cfg.preview, "preview", "", "write an HTML preview of the initial form state and exit")
	flag.StringVar(&cfg.serverErrors, "server-errors", "", "JSON error payload returned by the first submission")
	flag.StringVar(&cfg.variant, "variant", "", "theme variant exposed to the HTML preview")
	flag.BoolVar(&cfg.watch, "watch", false, "regenerate the preview whenever -fields changes")
	flag.BoolVar(&cfg.verbose, "verbose", false, "log form lifecycle signals")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	defer capitan.Shutdown()

	if cfg.verbose {
		hookSignals()
	}

	if err := run(ctx, cfg); err != nil {
		if errors.Is(err, tui.ErrAborted) || errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, "aborted")
			os.Exit(130)
		}
		log.Fatalf("formstate: %v", err)
	}
}

func run(ctx context.Context, cfg config) error {
	if cfg.watch {
		if cfg.preview == "" || cfg.fields == "" {
			return errors.New("-watch requires -fields and -preview")
		}
		return watchPreview(ctx, cfg)
	}

	doc, err := loadDocument(ctx, cfg)
	if err != nil {
		return err
	}
	if cfg.preview != "" {
		if err := writePreview(ctx, doc, cfg); err != nil {
			return err
		}
		fmt.Printf("Preview written to %s\n", cfg.preview)
		return nil
	}
	return runSession(ctx, doc, cfg, tui.New())
}

func loadDocument(ctx context.Context, cfg config) (declare.Document, error) {
	reg := declare.DefaultRegistry()
	switch {
	case cfg.fields != "" && cfg.openapi != "":
		return declare.Document{}, errors.New("use either -fields or -openapi, not both")
	case cfg.fields != "":
		return declare.LoadFile(cfg.fields, reg)
	case cfg.openapi != "":
		if strings.TrimSpace(cfg.operation) == "" {
			return declare.Document{}, errors.New("-operation is required with -openapi")
		}
		raw, err := os.ReadFile(cfg.openapi)
		if err != nil {
			return declare.Document{}, fmt.Errorf("read openapi document: %w", err)
		}
		return declare.FromOpenAPI(ctx, raw, cfg.operation, reg)
	default:
		return declare.Document{}, errors.New("one of -fields or -openapi is required")
	}
}

func themeConfig(cfg config) *theme.RendererConfig {
	if cfg.variant == "" {
		return nil
	}
	return &theme.RendererConfig{
		Theme:   "default",
		Variant: cfg.variant,
	}
}

// writePreview mounts a controller with the HTML component, renders once and
// replaces the preview file.
func writePreview(ctx context.Context, doc declare.Document, cfg config) error {
	var buf strings.Builder
	component, err := html.New(
		html.WithWriter(&buf),
		html.WithThemeConfig(themeConfig(cfg)),
		html.WithStopAfterRender(),
	)
	if err != nil {
		return err
	}

	ctrl, err := form.New(doc.Fields, component, previewSubmit,
		form.WithName(documentName(doc)),
		form.WithComponentProps(map[string]any{"title": doc.Name, "name": documentName(doc)}),
	)
	if err != nil {
		return err
	}
	if err := ctrl.Run(ctx); err != nil {
		return err
	}
	if err := os.WriteFile(cfg.preview, []byte(buf.String()), 0o644); err != nil {
		return fmt.Errorf("write preview: %w", err)
	}
	return nil
}

func watchPreview(ctx context.Context, cfg config) error {
	updates, err := declare.Watch(ctx, cfg.fields, declare.DefaultRegistry())
	if err != nil {
		return err
	}
	for update := range updates {
		if update.Err != nil {
			log.Printf("reload %s: %v", cfg.fields, update.Err)
			continue
		}
		if err := writePreview(ctx, update.Document, cfg); err != nil {
			log.Printf("preview %s: %v", cfg.preview, err)
			continue
		}
		log.Printf("preview written to %s", cfg.preview)
	}
	return ctx.Err()
}

func previewSubmit(map[string]string, form.Handle) form.Result {
	return form.Immediate(nil)
}

func runSession(ctx context.Context, doc declare.Document, cfg config, component form.Component) error {
	pending, err := loadServerErrors(cfg.serverErrors)
	if err != nil {
		return err
	}

	submit := func(values map[string]string, h form.Handle) form.Result {
		if len(pending) > 0 {
			h.SetErrorLists(form.MapServerErrors(doc.Fields, pending))
			pending = nil
			return form.Immediate(nil)
		}
		return form.Pending(form.Go(ctx, func(context.Context) (any, error) {
			// A failed write is reported on the form so the session can retry.
			if err := writeValues(cfg.output, values); err != nil {
				h.SetErrorLists(map[string][]string{
					form.AllKey: {fmt.Sprintf("Could not save values: %v", err)},
				})
				return nil, nil
			}
			h.SetErrorLists(nil)
			return values, nil
		}))
	}

	ctrl, err := form.New(doc.Fields, component, submit, form.WithName(documentName(doc)))
	if err != nil {
		return err
	}
	return ctrl.Run(ctx)
}

func loadServerErrors(path string) (map[string][]string, error) {
	if path == "" {
		return nil, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read server errors: %w", err)
	}
	var payload map[string][]string
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("parse server errors: %w", err)
	}
	return payload, nil
}

func writeValues(path string, values map[string]string) error {
	payload, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal values: %w", err)
	}
	payload = append(payload, '\n')
	if path == "" {
		_, err := os.Stdout.Write(payload)
		return err
	}
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		return fmt.Errorf("write values: %w", err)
	}
	return nil
}

func documentName(doc declare.Document) string {
	if doc.Name != "" {
		return doc.Name
	}
	return "form"
}

func hookSignals() {
	capitan.Hook(form.FormMounted, logSignal("mounted"))
	capitan.Hook(form.FormUnmounted, logSignal("unmounted"))
	capitan.Hook(form.FieldChanged, logSignal("field changed"))
	capitan.Hook(form.FieldWriteDropped, logSignal("write dropped"))
	capitan.Hook(form.ServerErrorsSet, logSignal("server errors"))
	capitan.Hook(form.SubmitStarted, logSignal("submit started"))
	capitan.Hook(form.SubmitFinished, logSignal("submitted"))
	capitan.Hook(form.SubmitRejected, logSignal("submit failed"))
	capitan.Hook(form.SubmitSkipped, logSignal("submit skipped"))
}

func logSignal(label string) func(context.Context, *capitan.Event) {
	return func(_ context.Context, e *capitan.Event) {
		name, _ := form.KeyForm.From(e)
		fieldName, _ := form.KeyField.From(e)
		msg, _ := form.KeyError.From(e)
		log.Printf("[%s] %s field=%q error=%q", name, label, fieldName, msg)
	}
}
