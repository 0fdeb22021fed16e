package datasource

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Node is a JSON object that remembers its key order and decodes children
// lazily. Key order drives the order of generated groups, so plain maps are
// not used for anything that is iterated.
type Node struct {
	path string
	keys []string
	raw  map[string]json.RawMessage
}

// ParseNode decodes a JSON object.
func ParseNode(b []byte) (*Node, error) {
	n := &Node{}
	if err := n.UnmarshalJSON(b); err != nil {
		return nil, err
	}
	return n, nil
}

func (n *Node) UnmarshalJSON(b []byte) error {
	dec := json.NewDecoder(bytes.NewReader(b))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("expected object, got %v", tok)
	}
	n.keys = n.keys[:0]
	n.raw = make(map[string]json.RawMessage)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("expected object key, got %v", tok)
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("decode %q: %w", key, err)
		}
		if _, dup := n.raw[key]; !dup {
			n.keys = append(n.keys, key)
		}
		n.raw[key] = raw
	}
	_, err = dec.Token()
	return err
}

// Path is the dotted location of n inside the document root.
func (n *Node) Path() string { return n.path }

// Keys returns the object's keys in document order.
func (n *Node) Keys() []string {
	if n == nil {
		return nil
	}
	return append([]string(nil), n.keys...)
}

func (n *Node) Has(key string) bool {
	if n == nil {
		return false
	}
	_, ok := n.raw[key]
	return ok
}

// Raw returns the undecoded value stored under key.
func (n *Node) Raw(key string) (json.RawMessage, bool) {
	if n == nil {
		return nil, false
	}
	raw, ok := n.raw[key]
	return raw, ok
}

// Child decodes the object stored under key.
func (n *Node) Child(key string) (*Node, error) {
	raw, ok := n.Raw(key)
	if !ok {
		return nil, schemaErr("bcd", n.join(key), "missing key")
	}
	child := &Node{path: n.join(key)}
	if err := child.UnmarshalJSON(raw); err != nil {
		return nil, schemaErr("bcd", child.path, "not an object: %v", err)
	}
	return child, nil
}

// Lookup walks a dotted path such as "css.types.length".
func (n *Node) Lookup(path string) (*Node, error) {
	cur := n
	for _, seg := range strings.Split(path, ".") {
		next, err := cur.Child(seg)
		if err != nil {
			return nil, err
		}
		cur = next
	}
	return cur, nil
}

func (n *Node) join(key string) string {
	if n.path == "" {
		return key
	}
	return n.path + "." + key
}
