package siteconfig

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// member is one key/value pair of a mapping node, in declaration order.
type member struct {
	key   string
	value *yaml.Node
}

// object is a mapping node indexed by key with duplicate keys already rejected.
type object struct {
	path    string
	members []member
	index   map[string]int
}

// deref unwraps document and alias nodes.
func deref(n *yaml.Node) *yaml.Node {
	for n != nil {
		switch n.Kind {
		case yaml.DocumentNode:
			if len(n.Content) == 0 {
				return nil
			}
			n = n.Content[0]
		case yaml.AliasNode:
			n = n.Alias
		default:
			return n
		}
	}
	return nil
}

func isNull(n *yaml.Node) bool {
	n = deref(n)
	return n == nil || n.Kind == 0 || (n.Kind == yaml.ScalarNode && n.ShortTag() == "!!null")
}

func kindName(n *yaml.Node) string {
	switch n.Kind {
	case yaml.MappingNode:
		return "a mapping"
	case yaml.SequenceNode:
		return "a list"
	case yaml.ScalarNode:
		if n.ShortTag() == "!!null" {
			return "null"
		}
		return fmt.Sprintf("%s %q", strings.TrimPrefix(n.ShortTag(), "!!"), n.Value)
	default:
		return "an unsupported node"
	}
}

// child renders the path of key below parent: identifiers use dot notation,
// anything else (locale prefixes, attribute names with dashes) is quoted.
func child(parent, key string) string {
	if isIdentifier(key) {
		if parent == "" {
			return key
		}
		return parent + "." + key
	}
	return fmt.Sprintf("%s[%q]", parent, key)
}

func item(parent string, i int) string {
	return fmt.Sprintf("%s[%d]", parent, i)
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z'):
		case i > 0 && r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return true
}

func asObject(path string, n *yaml.Node) (*object, error) {
	n = deref(n)
	if n == nil || n.Kind != yaml.MappingNode {
		if n == nil {
			return nil, invalid(path, "expected a mapping, got nothing")
		}
		return nil, invalid(path, "expected a mapping, got %s", kindName(n))
	}
	obj := &object{path: path, index: make(map[string]int, len(n.Content)/2)}
	for i := 0; i+1 < len(n.Content); i += 2 {
		k := deref(n.Content[i])
		if k == nil || k.Kind != yaml.ScalarNode {
			return nil, invalid(path, "mapping keys must be scalars")
		}
		if _, dup := obj.index[k.Value]; dup {
			return nil, invalid(child(path, k.Value), "duplicate key")
		}
		obj.index[k.Value] = len(obj.members)
		obj.members = append(obj.members, member{key: k.Value, value: n.Content[i+1]})
	}
	return obj, nil
}

// rejectUnknown fails on the first member, in declaration order, whose key is not known.
func (o *object) rejectUnknown(known map[string]bool) error {
	for _, m := range o.members {
		if !known[m.key] {
			return invalid(child(o.path, m.key), "unknown key")
		}
	}
	return nil
}

// lookup returns the value stored under any of names. Spelling the same field
// twice (canonical name and alias) is rejected.
func (o *object) lookup(names ...string) (value *yaml.Node, path string, err error) {
	found := -1
	for _, name := range names {
		idx, ok := o.index[name]
		if !ok {
			continue
		}
		if found >= 0 {
			first, second := o.members[found].key, o.members[idx].key
			if idx < found {
				first, second = second, first
			}
			return nil, "", invalid(child(o.path, second), "conflicts with %q", first)
		}
		found = idx
	}
	if found < 0 {
		return nil, child(o.path, names[0]), nil
	}
	m := o.members[found]
	return m.value, child(o.path, m.key), nil
}

func asString(path string, n *yaml.Node) (string, error) {
	if isNull(n) {
		return "", nil
	}
	n = deref(n)
	if n.Kind != yaml.ScalarNode || n.ShortTag() != "!!str" {
		return "", invalid(path, "expected a string, got %s", kindName(n))
	}
	return n.Value, nil
}

// asText accepts any non-null scalar and returns its literal text.
func asText(path string, n *yaml.Node) (string, error) {
	if isNull(n) {
		return "", nil
	}
	n = deref(n)
	if n.Kind != yaml.ScalarNode {
		return "", invalid(path, "expected a scalar, got %s", kindName(n))
	}
	return n.Value, nil
}

func asBool(path string, n *yaml.Node) (bool, error) {
	if isNull(n) {
		return false, nil
	}
	n = deref(n)
	if n.Kind != yaml.ScalarNode || n.ShortTag() != "!!bool" {
		return false, invalid(path, "expected a boolean, got %s", kindName(n))
	}
	var b bool
	if err := n.Decode(&b); err != nil {
		return false, invalid(path, "expected a boolean, got %q", n.Value)
	}
	return b, nil
}

func asList(path string, n *yaml.Node) ([]*yaml.Node, error) {
	if isNull(n) {
		return nil, nil
	}
	n = deref(n)
	if n.Kind != yaml.SequenceNode {
		return nil, invalid(path, "expected a list, got %s", kindName(n))
	}
	return n.Content, nil
}
