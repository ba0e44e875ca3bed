package ir

import (
	"strconv"
	"strings"
)

// NodeKind discriminates optic path nodes.
type NodeKind int

const (
	NodeField NodeKind = iota
	NodeCase
	NodeElements
	NodeAtIndex
	NodeAtIndices
	NodeMapKeys
	NodeMapValues
	NodeAtMapKey
	NodeAtMapKeys
	NodeWrapped
)

func (k NodeKind) String() string {
	s, ok := map[NodeKind]string{
		NodeField:     "Field",
		NodeCase:      "Case",
		NodeElements:  "Elements",
		NodeAtIndex:   "AtIndex",
		NodeAtIndices: "AtIndices",
		NodeMapKeys:   "MapKeys",
		NodeMapValues: "MapValues",
		NodeAtMapKey:  "AtMapKey",
		NodeAtMapKeys: "AtMapKeys",
		NodeWrapped:   "Wrapped",
	}[k]
	if ok {
		return s
	}
	return "<unknown node>"
}

// OpticNode is one path segment. The parameter fields in use are
// determined by Kind.
type OpticNode struct {
	Kind    NodeKind
	Name    string   // Field, Case
	Index   int      // AtIndex
	Indices []int    // AtIndices
	Key     *Value   // AtMapKey
	Keys    []*Value // AtMapKeys
}

// fanOut reports whether the node addresses more than one location.
func (n OpticNode) fanOut() bool {
	switch n.Kind {
	case NodeElements, NodeAtIndices, NodeMapKeys, NodeMapValues, NodeAtMapKeys:
		return true
	default:
		return false
	}
}

// Optic is an immutable, ordered sequence of path nodes, evaluated left
// to right. The zero Optic addresses the root. Builder methods return
// extended copies and never mutate their receiver.
type Optic struct {
	nodes []OpticNode
}

// Root returns the empty optic addressing the whole value.
func Root() Optic {
	return Optic{}
}

// NewOptic builds an optic from explicit nodes.
func NewOptic(nodes ...OpticNode) Optic {
	return Optic{nodes: nodes}
}

func (o Optic) with(n OpticNode) Optic {
	nodes := make([]OpticNode, len(o.nodes)+1)
	copy(nodes, o.nodes)
	nodes[len(o.nodes)] = n
	return Optic{nodes: nodes}
}

func (o Optic) Field(name string) Optic {
	return o.with(OpticNode{Kind: NodeField, Name: name})
}

func (o Optic) Case(name string) Optic {
	return o.with(OpticNode{Kind: NodeCase, Name: name})
}

func (o Optic) Elements() Optic {
	return o.with(OpticNode{Kind: NodeElements})
}

func (o Optic) At(i int) Optic {
	return o.with(OpticNode{Kind: NodeAtIndex, Index: i})
}

func (o Optic) AtIndices(is ...int) Optic {
	return o.with(OpticNode{Kind: NodeAtIndices, Indices: is})
}

func (o Optic) MapKeys() Optic {
	return o.with(OpticNode{Kind: NodeMapKeys})
}

func (o Optic) MapValues() Optic {
	return o.with(OpticNode{Kind: NodeMapValues})
}

func (o Optic) AtKey(k *Value) Optic {
	return o.with(OpticNode{Kind: NodeAtMapKey, Key: k})
}

func (o Optic) AtKeys(ks ...*Value) Optic {
	return o.with(OpticNode{Kind: NodeAtMapKeys, Keys: ks})
}

func (o Optic) Wrapped() Optic {
	return o.with(OpticNode{Kind: NodeWrapped})
}

// Nodes returns the path segments. The returned slice must not be
// modified.
func (o Optic) Nodes() []OpticNode {
	return o.nodes
}

func (o Optic) Len() int {
	return len(o.nodes)
}

// IsRoot reports whether the optic addresses the whole value.
func (o Optic) IsRoot() bool {
	return len(o.nodes) == 0
}

// Concat appends p's nodes after o's, re-rooting p under o.
func (o Optic) Concat(p Optic) Optic {
	if len(p.nodes) == 0 {
		return o
	}
	if len(o.nodes) == 0 {
		return p
	}
	nodes := make([]OpticNode, len(o.nodes)+len(p.nodes))
	copy(nodes, o.nodes)
	copy(nodes[len(o.nodes):], p.nodes)
	return Optic{nodes: nodes}
}

// String renders a $-rooted path for diagnostics.
func (o Optic) String() string {
	buf := strings.Builder{}
	buf.WriteByte('$')
	for _, n := range o.nodes {
		switch n.Kind {
		case NodeField:
			buf.WriteByte('.')
			buf.WriteString(fieldString(n.Name))
		case NodeCase:
			buf.WriteString(".case(")
			buf.WriteString(n.Name)
			buf.WriteByte(')')
		case NodeElements:
			buf.WriteString("[*]")
		case NodeAtIndex:
			buf.WriteByte('[')
			buf.WriteString(strconv.Itoa(n.Index))
			buf.WriteByte(']')
		case NodeAtIndices:
			buf.WriteByte('[')
			for i, idx := range n.Indices {
				if i > 0 {
					buf.WriteByte(',')
				}
				buf.WriteString(strconv.Itoa(idx))
			}
			buf.WriteByte(']')
		case NodeMapKeys:
			buf.WriteString(".keys()")
		case NodeMapValues:
			buf.WriteString(".values()")
		case NodeAtMapKey:
			buf.WriteString(".key(")
			buf.WriteString(n.Key.String())
			buf.WriteByte(')')
		case NodeAtMapKeys:
			buf.WriteString(".key(")
			for i, k := range n.Keys {
				if i > 0 {
					buf.WriteByte(',')
				}
				buf.WriteString(k.String())
			}
			buf.WriteByte(')')
		case NodeWrapped:
			buf.WriteString(".wrapped()")
		}
	}
	return buf.String()
}

func fieldString(f string) string {
	if strings.IndexAny(f, "'.*$[](){}") == -1 && f != "" {
		return f
	}
	return "'" + strings.Replace(f, "'", "\\'", -1) + "'"
}
