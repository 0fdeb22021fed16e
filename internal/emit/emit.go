// Package emit renders compiled tables as Go source for the consuming
// engine, plus TypeScript and JavaScript declarations for its bindings.
package emit

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"text/template"
	"time"

	"compatgen/internal/artifact"
	"compatgen/internal/logging"
)

// File is one rendered artifact.
type File struct {
	Name    string
	Content []byte
	Go      bool
}

var templates = []struct {
	name  string
	text  string
	goSrc bool
}{
	{"targets.go", targetsTmpl, true},
	{"prefixes.go", prefixesTmpl, true},
	{"compat.go", compatTmpl, true},
	{"targets.d.ts", targetsDTSTmpl, false},
	{"flags.js", flagsJSTmpl, false},
}

var funcs = template.FuncMap{"join": strings.Join}

// Render produces every artifact in emission order, unformatted.
func Render(in Input) ([]File, error) {
	if strings.TrimSpace(in.Package) == "" {
		return nil, fmt.Errorf("package name is required")
	}
	m, err := buildModel(in)
	if err != nil {
		return nil, err
	}
	out := make([]File, 0, len(templates))
	for _, t := range templates {
		tmpl, err := template.New(t.name).Funcs(funcs).Parse(t.text)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", t.name, err)
		}
		var buf bytes.Buffer
		if err := tmpl.Execute(&buf, m); err != nil {
			return nil, fmt.Errorf("render %s: %w", t.name, err)
		}
		out = append(out, File{Name: t.name, Content: buf.Bytes(), Go: t.goSrc})
	}
	return out, nil
}

// Emitter formats and stores rendered artifacts.
type Emitter struct {
	Store     artifact.Store
	Formatter Formatter
	Logger    *logging.Logger
}

// Emit writes artifacts one at a time. A failure stops the run; files
// already stored are left in place.
func (e *Emitter) Emit(ctx context.Context, in Input) ([]string, error) {
	logger := e.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	formatter := e.Formatter
	if formatter == nil {
		formatter = None{}
	}
	files, err := Render(in)
	if err != nil {
		return nil, err
	}
	written := make([]string, 0, len(files))
	for _, f := range files {
		started := time.Now()
		content := f.Content
		if f.Go {
			content, err = formatter.Format(ctx, f.Name, content)
			if err != nil {
				return written, err
			}
		}
		if err := e.Store.Put(ctx, f.Name, content); err != nil {
			return written, fmt.Errorf("store %s: %w", f.Name, err)
		}
		written = append(written, f.Name)
		logger.Debug("artifact written", "name", f.Name, "bytes", len(content), "elapsed", time.Since(started))
	}
	return written, nil
}
