// Package tree models a page builder's exported JSON document as a tagged
// union of object, array and scalar nodes, with one generic depth-first
// visitor shared by the image extractor and the structural validator.
package tree

import (
	"bytes"
	"encoding/json"
	"sort"
	"strconv"
)

// Kind tags a node as object, array or scalar.
type Kind int

const (
	KindScalar Kind = iota
	KindObject
	KindArray
)

// Node wraps one value inside a builder tree.
type Node struct {
	value interface{}
}

// Parse decodes raw builder JSON into a tree. Numbers are kept as
// json.Number so large attachment ids survive intact.
func Parse(data []byte) (Node, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v interface{}
	if err := dec.Decode(&v); err != nil {
		return Node{}, err
	}
	return Node{value: v}, nil
}

// FromValue wraps an already-decoded JSON value.
func FromValue(v interface{}) Node {
	return Node{value: v}
}

// Value returns the underlying decoded value.
func (n Node) Value() interface{} {
	return n.value
}

// Kind reports whether the node is an object, array or scalar.
func (n Node) Kind() Kind {
	switch n.value.(type) {
	case map[string]interface{}:
		return KindObject
	case []interface{}:
		return KindArray
	default:
		return KindScalar
	}
}

// IsScalar reports whether the node is a leaf value.
func (n Node) IsScalar() bool {
	return n.Kind() == KindScalar
}

// Object returns the node's members when it is an object.
func (n Node) Object() (map[string]interface{}, bool) {
	m, ok := n.value.(map[string]interface{})
	return m, ok
}

// Array returns the node's elements when it is an array.
func (n Node) Array() ([]interface{}, bool) {
	a, ok := n.value.([]interface{})
	return a, ok
}

// Field returns the named member of an object node.
func (n Node) Field(key string) (Node, bool) {
	m, ok := n.Object()
	if !ok {
		return Node{}, false
	}
	v, ok := m[key]
	if !ok {
		return Node{}, false
	}
	return Node{value: v}, true
}

// String returns the scalar's string value.
func (n Node) String() (string, bool) {
	s, ok := n.value.(string)
	return s, ok
}

// Text renders any scalar as text: strings as-is, numbers and booleans in
// their JSON form. Containers and nulls render as "".
func (n Node) Text() string {
	switch v := n.value.(type) {
	case string:
		return v
	case json.Number:
		return v.String()
	case bool:
		return strconv.FormatBool(v)
	default:
		return ""
	}
}

// PositiveInt interprets the scalar as a positive integer id. Numeric
// strings count, matching the loose typing of the source trees; fractional
// values truncate.
func (n Node) PositiveInt() (int64, bool) {
	switch v := n.value.(type) {
	case json.Number:
		if i, err := v.Int64(); err == nil {
			if i > 0 {
				return i, true
			}
			return 0, false
		}
		if f, err := v.Float64(); err == nil && int64(f) > 0 {
			return int64(f), true
		}
	case string:
		if i, err := strconv.ParseInt(v, 10, 64); err == nil {
			if i > 0 {
				return i, true
			}
			return 0, false
		}
		if f, err := strconv.ParseFloat(v, 64); err == nil && int64(f) > 0 {
			return int64(f), true
		}
	}
	return 0, false
}

// VisitFunc receives each child entry's key and node. Array elements carry
// their decimal index as key. Returning false prunes the node's subtree.
type VisitFunc func(key string, n Node) bool

// Walk visits every child entry depth-first. Object members are visited in
// sorted key order so traversal is deterministic.
func (n Node) Walk(fn VisitFunc) {
	switch v := n.value.(type) {
	case map[string]interface{}:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			child := Node{value: v[k]}
			if fn(k, child) {
				child.Walk(fn)
			}
		}
	case []interface{}:
		for i, el := range v {
			child := Node{value: el}
			if fn(strconv.Itoa(i), child) {
				child.Walk(fn)
			}
		}
	}
}
