// Package datasource reads the three compatibility datasets the generator
// consumes: the vendor-prefix table, caniuse data and MDN
// browser-compat-data.
package datasource

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// SchemaError reports a dataset whose shape no longer matches what the
// compilers depend on. It is always fatal for a run.
type SchemaError struct {
	Source string
	Path   string
	Reason string
}

func (e *SchemaError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: schema violation: %s", e.Source, e.Reason)
	}
	return fmt.Sprintf("%s: schema violation at %s: %s", e.Source, e.Path, e.Reason)
}

func schemaErr(source, path, format string, args ...any) error {
	return &SchemaError{Source: source, Path: path, Reason: fmt.Sprintf(format, args...)}
}

// ReadFile returns the decompressed contents of path. The compression is
// chosen from the extension: .gz, .zst, .lz4 or none.
func ReadFile(path string) ([]byte, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("dataset path is required")
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r, closeFn, err := decompressor(path, f)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer closeFn()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return buf.Bytes(), nil
}

func decompressor(path string, r io.Reader) (io.Reader, func(), error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gz":
		zr, err := gzip.NewReader(r)
		if err != nil {
			return nil, nil, err
		}
		return zr, func() { _ = zr.Close() }, nil
	case ".zst", ".zstd":
		zr, err := zstd.NewReader(r)
		if err != nil {
			return nil, nil, err
		}
		return zr, zr.Close, nil
	case ".lz4":
		return lz4.NewReader(r), func() {}, nil
	default:
		return r, func() {}, nil
	}
}

// Paths locates the three datasets on disk.
type Paths struct {
	Prefixes string
	Caniuse  string
	BCD      string
}

// Datasets holds every input of a generation run.
type Datasets struct {
	Prefixes PrefixTable
	Caniuse  *Caniuse
	BCD      *Node
}

// LoadAll reads and decodes all three datasets.
func LoadAll(p Paths) (*Datasets, error) {
	raw, err := ReadFile(p.Prefixes)
	if err != nil {
		return nil, fmt.Errorf("load prefixes: %w", err)
	}
	prefixes, err := ParsePrefixTable(raw)
	if err != nil {
		return nil, err
	}

	raw, err = ReadFile(p.Caniuse)
	if err != nil {
		return nil, fmt.Errorf("load caniuse: %w", err)
	}
	ciu, err := ParseCaniuse(raw)
	if err != nil {
		return nil, err
	}

	raw, err = ReadFile(p.BCD)
	if err != nil {
		return nil, fmt.Errorf("load bcd: %w", err)
	}
	bcd, err := ParseNode(raw)
	if err != nil {
		return nil, fmt.Errorf("decode bcd: %w", err)
	}
	if _, err := bcd.Lookup("css"); err != nil {
		return nil, err
	}

	return &Datasets{Prefixes: prefixes, Caniuse: ciu, BCD: bcd}, nil
}
