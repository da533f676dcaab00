package ast

// Inspect traverses a tree depth-first in source order and calls fn for
// each node. If fn returns false, the children of that node are skipped.
func Inspect(node Node, fn func(n Node) bool) {
	if node == nil {
		return
	}
	if !fn(node) {
		return
	}
	for _, child := range node.Children() {
		Inspect(child, fn)
	}
}

// Link sets the parent pointer of every node below root.
// Frontends call it once after building a tree.
func Link(root Node) {
	if root == nil {
		return
	}
	for _, child := range root.Children() {
		child.base().parent = root
		Link(child)
	}
}

// Enclosing returns the nearest ancestor of n with the given kind.
func Enclosing(n Node, kind NodeKind) Node {
	if n == nil {
		return nil
	}
	for p := n.Parent(); p != nil; p = p.Parent() {
		if p.Kind() == kind {
			return p
		}
	}
	return nil
}

// Text returns the source text covered by n.
func Text(src string, n Node) string {
	if n == nil {
		return ""
	}
	return n.Range().Text(src)
}

// SelectorStart returns the leftmost operand of a selector chain, so that
// for `a.b.c` it yields `a`.
func SelectorStart(se *SelectorExpr) Node {
	var x Node = se
	for {
		s, ok := x.(*SelectorExpr)
		if !ok || s.X == nil {
			return x
		}
		x = s.X
	}
}

// Count returns how many nodes of the given kind occur below root,
// root included.
func Count(root Node, kind NodeKind) int {
	n := 0
	Inspect(root, func(node Node) bool {
		if node.Kind() == kind {
			n++
		}
		return true
	})
	return n
}
