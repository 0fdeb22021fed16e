package emit

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"go/format"
	"os/exec"
	"strings"
)

var ErrFormat = errors.New("format failed")

// Formatter normalizes generated Go source.
type Formatter interface {
	Format(ctx context.Context, name string, src []byte) ([]byte, error)
}

// Gofmt pipes source through an external gofmt binary. A non-zero exit is
// an error.
type Gofmt struct {
	Path string
}

func (g Gofmt) Format(ctx context.Context, name string, src []byte) ([]byte, error) {
	bin := strings.TrimSpace(g.Path)
	if bin == "" {
		bin = "gofmt"
	}
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, bin)
	cmd.Stdin = bytes.NewReader(src)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("%w: %s %s: %v: %s", ErrFormat, bin, name, err, strings.TrimSpace(stderr.String()))
	}
	return stdout.Bytes(), nil
}

// Builtin formats in process with go/format.
type Builtin struct{}

func (Builtin) Format(_ context.Context, name string, src []byte) ([]byte, error) {
	out, err := format.Source(src)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrFormat, name, err)
	}
	return out, nil
}

// None leaves source untouched.
type None struct{}

func (None) Format(_ context.Context, _ string, src []byte) ([]byte, error) { return src, nil }

// NewFormatter resolves "gofmt" (default), "builtin" or "none". For gofmt,
// path overrides the binary looked up on PATH.
func NewFormatter(kind, path string) (Formatter, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "", "gofmt":
		return Gofmt{Path: path}, nil
	case "builtin":
		return Builtin{}, nil
	case "none":
		return None{}, nil
	default:
		return nil, fmt.Errorf("unknown formatter %q", kind)
	}
}
