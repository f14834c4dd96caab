// Package hierarchy reconstructs a containment tree from a flattened UI
// element list. Dumps carry no real parent pointers, so structure is
// inferred from bounding-rect containment, with a semantic fallback for
// hidden (zero-area) elements.
package hierarchy

import (
	"github.com/devicelab-dev/ui-inspector/pkg/element"
)

// AttachReason records how a parent/child relation was established.
type AttachReason string

const (
	AttachGeometric    AttachReason = "geometric"     // Rect containment
	AttachIDNamespace  AttachReason = "id-namespace"  // Shared resource-id namespace
	AttachTypeMatch    AttachReason = "type-match"    // Text widget under container class
	AttachNestedHidden AttachReason = "nested-hidden" // content/container id convention
	AttachRootFallback AttachReason = "root-fallback" // Parentless leftover hooked to root
	AttachNone         AttachReason = ""              // Root or unattached
)

// Node is one element's position in the reconstructed tree. Nodes are
// owned by the AnalysisResult that created them; the parent link is
// non-owning.
type Node struct {
	Element       *element.UIElement
	Parent        *Node
	Children      []*Node
	IndexInParent int
	Depth         int
	Reason        AttachReason
}

// IsLeaf reports whether the node has no children.
func (n *Node) IsLeaf() bool {
	return len(n.Children) == 0
}

// Ancestors returns the chain of parents from the node up to the root,
// nearest first.
func (n *Node) Ancestors() []*Node {
	var chain []*Node
	for p := n.Parent; p != nil; p = p.Parent {
		chain = append(chain, p)
	}
	return chain
}

// HasAncestor reports whether candidate appears on the node's parent
// chain.
func (n *Node) HasAncestor(candidate *Node) bool {
	for p := n.Parent; p != nil; p = p.Parent {
		if p == candidate {
			return true
		}
	}
	return false
}

// AnalysisResult is the reconstructed hierarchy for one screen dump.
// It is built fresh on every Build call and never mutated afterwards.
type AnalysisResult struct {
	Root     *Node
	Nodes    map[string]*Node // element id -> node
	Leaves   []*Node
	MaxDepth int
}

// NodeByID returns the node for an element id, or nil when absent.
func (r *AnalysisResult) NodeByID(id string) *Node {
	if r == nil || r.Nodes == nil {
		return nil
	}
	return r.Nodes[id]
}

// Size returns the number of nodes in the hierarchy.
func (r *AnalysisResult) Size() int {
	if r == nil {
		return 0
	}
	return len(r.Nodes)
}

// Walk visits every node reachable from the root in depth-first order.
func (r *AnalysisResult) Walk(visit func(*Node)) {
	if r == nil || r.Root == nil {
		return
	}
	var walk func(*Node)
	walk = func(n *Node) {
		visit(n)
		for _, c := range n.Children {
			walk(c)
		}
	}
	walk(r.Root)
}
