// Package ast models the subset of the TTCN-3 syntax tree the lint engine
// and its rules operate on.
//
// Trees are produced by an external frontend (see pkg/snapshot) and are
// read-only once built. Every node carries its byte range into the source
// text; identifier spellings are recovered from that text rather than
// stored on the node.
package ast

import "github.com/leapstack-labs/ttcnlint/pkg/core"

// Node is implemented by every syntax tree node.
type Node interface {
	Kind() NodeKind
	Parent() Node
	Range() core.Range
	Children() []Node

	base() *NodeBase
}

// NodeBase holds the fields shared by all nodes.
type NodeBase struct {
	Rng    core.Range
	parent Node
}

// At returns a NodeBase spanning [begin, end).
func At(begin, end int) NodeBase {
	return NodeBase{Rng: core.Range{Begin: begin, End: end}}
}

// Span returns a NodeBase for an existing range.
func Span(r core.Range) NodeBase {
	return NodeBase{Rng: r}
}

// Parent returns the enclosing node, or nil for the root.
func (b *NodeBase) Parent() Node { return b.parent }

// Range returns the node's byte range.
func (b *NodeBase) Range() core.Range { return b.Rng }

func (b *NodeBase) base() *NodeBase { return b }

// push appends n unless it is nil, including typed nil pointers.
func push[T Node](out []Node, n T) []Node {
	var zero T
	if any(n) == any(zero) {
		return out
	}
	return append(out, n)
}

func pushAll[T Node](out []Node, ns []T) []Node {
	for _, n := range ns {
		out = push(out, n)
	}
	return out
}
