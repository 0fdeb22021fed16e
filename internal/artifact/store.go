// Package artifact persists generated files.
package artifact

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"sync"
)

// Store defines operations for persisting generated artifacts. Paths are
// slash-separated and relative to the store's root or namespace.
type Store interface {
	Put(ctx context.Context, name string, content []byte) error
	Get(ctx context.Context, name string) ([]byte, error)
	GetURL(ctx context.Context, name string) (string, error)
	List(ctx context.Context) ([]string, error)
}

var ErrNotFound = errors.New("artifact not found")

// cleanName rejects empty, absolute and escaping names.
func cleanName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("artifact name is required")
	}
	if strings.HasPrefix(name, "/") || strings.Contains(name, "..") {
		return "", fmt.Errorf("invalid artifact name: %s", name)
	}
	return path.Clean(name), nil
}

// objectKey joins a namespace and a name; an empty namespace yields the
// bare name.
func objectKey(namespace, name string) string {
	namespace = strings.Trim(strings.TrimSpace(namespace), "/")
	if namespace == "" {
		return name
	}
	return namespace + "/" + name
}

// setupOnce runs a setup step until it first succeeds. A failed attempt,
// for example one made with a cancelled context, is retried on the next
// call.
type setupOnce struct {
	mu   sync.Mutex
	done bool
}

func (o *setupOnce) Do(fn func() error) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.done {
		return nil
	}
	if err := fn(); err != nil {
		return err
	}
	o.done = true
	return nil
}
