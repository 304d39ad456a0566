package fauxdom

import (
	"maps"
	"slices"
	"sort"
	"strings"
)

// Node is a MemoryHost instance: an element or, when Kind is empty, a
// text run.
type Node struct {
	Kind  string
	Attrs map[string]string
	Text  string
	Kids  []*Node

	parent *Node
	holder *Container
}

// Container is a MemoryHost mount target.
type Container struct {
	Kids []*Node
}

// MemoryHost keeps rendered output as an in-memory node tree, mostly for
// tests and tooling that want to assert on serialized output.
type MemoryHost struct{}

func (MemoryHost) CreateInstance(kind string, attrs map[string]string) any {
	return &Node{Kind: kind, Attrs: maps.Clone(attrs)}
}

func (MemoryHost) CreateTextInstance(text string) any {
	return &Node{Text: text}
}

func (MemoryHost) AppendChild(parent, child any) {
	p, c := mustNode(parent), mustNode(child)
	detach(c)
	p.Kids = append(p.Kids, c)
	c.parent = p
}

func (MemoryHost) InsertBefore(parent, child, before any) {
	p, c := mustNode(parent), mustNode(child)
	detach(c)
	p.Kids = insertNode(p.Kids, c, mustNode(before))
	c.parent = p
}

func (MemoryHost) RemoveChild(parent, child any) {
	detach(mustNode(child))
}

func (MemoryHost) CommitUpdate(instance any, attrs map[string]string) {
	mustNode(instance).Attrs = maps.Clone(attrs)
}

func (MemoryHost) CommitTextUpdate(instance any, text string) {
	mustNode(instance).Text = text
}

func (MemoryHost) AppendToContainer(container, child any) {
	ct, c := mustContainer(container), mustNode(child)
	detach(c)
	ct.Kids = append(ct.Kids, c)
	c.holder = ct
}

func (MemoryHost) InsertInContainerBefore(container, child, before any) {
	ct, c := mustContainer(container), mustNode(child)
	detach(c)
	ct.Kids = insertNode(ct.Kids, c, mustNode(before))
	c.holder = ct
}

func (MemoryHost) RemoveFromContainer(container, child any) {
	detach(mustNode(child))
}

// HTML serializes the container's tree with attributes in sorted order so
// output is stable for comparison.
func (c *Container) HTML() string {
	var b strings.Builder
	for _, kid := range c.Kids {
		kid.writeTo(&b)
	}
	return b.String()
}

// HTML serializes this node and its subtree.
func (n *Node) HTML() string {
	var b strings.Builder
	n.writeTo(&b)
	return b.String()
}

func (n *Node) writeTo(b *strings.Builder) {
	if n.Kind == "" {
		b.WriteString(n.Text)
		return
	}
	b.WriteByte('<')
	b.WriteString(n.Kind)
	keys := make([]string, 0, len(n.Attrs))
	for k := range n.Attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		b.WriteString(" ")
		b.WriteString(k)
		b.WriteString(`="`)
		b.WriteString(n.Attrs[k])
		b.WriteString(`"`)
	}
	b.WriteByte('>')
	for _, kid := range n.Kids {
		kid.writeTo(b)
	}
	b.WriteString("</")
	b.WriteString(n.Kind)
	b.WriteByte('>')
}

func mustNode(v any) *Node {
	n, ok := v.(*Node)
	if !ok {
		panic("fauxdom: not a memory host node")
	}
	return n
}

func mustContainer(v any) *Container {
	c, ok := v.(*Container)
	if !ok {
		panic("fauxdom: not a memory host container")
	}
	return c
}

func detach(n *Node) {
	if n.parent != nil {
		n.parent.Kids = removeNode(n.parent.Kids, n)
		n.parent = nil
	}
	if n.holder != nil {
		n.holder.Kids = removeNode(n.holder.Kids, n)
		n.holder = nil
	}
}

func removeNode(kids []*Node, n *Node) []*Node {
	if i := slices.Index(kids, n); i >= 0 {
		return slices.Delete(kids, i, i+1)
	}
	return kids
}

func insertNode(kids []*Node, child, before *Node) []*Node {
	if i := slices.Index(kids, before); i >= 0 {
		return slices.Insert(kids, i, child)
	}
	return append(kids, child)
}
