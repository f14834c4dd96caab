// Package discovery answers relationship queries against a
// reconstructed hierarchy: which elements relate to a target, how, and
// how much each can be trusted as an automation candidate.
package discovery

import (
	"fmt"

	"github.com/devicelab-dev/ui-inspector/pkg/element"
)

// RelationKind is the coarse direction of a relation, used by the
// confidence computation.
type RelationKind int

const (
	KindSelf RelationKind = iota
	KindParent
	KindChild
	KindSibling
)

// String returns the string representation of RelationKind.
func (k RelationKind) String() string {
	switch k {
	case KindSelf:
		return "self"
	case KindParent:
		return "parent"
	case KindChild:
		return "child"
	case KindSibling:
		return "sibling"
	default:
		return "unknown"
	}
}

// AncestorLabel names an ancestor relation by distance.
func AncestorLabel(distance int) string {
	switch distance {
	case 1:
		return "direct-parent"
	case 2:
		return "grandparent"
	default:
		return fmt.Sprintf("%d-level ancestor", distance)
	}
}

// DescendantLabel names a descendant relation by distance.
func DescendantLabel(distance int) string {
	switch distance {
	case 1:
		return "direct-child"
	case 2:
		return "grandchild"
	default:
		return fmt.Sprintf("%d-level descendant", distance)
	}
}

// DiscoveredElement is one query result. It references the matched
// element and justifies why it was surfaced; it is not part of the tree
// and is owned by the caller.
type DiscoveredElement struct {
	Element      *element.UIElement `json:"element" yaml:"element"`
	Relationship string             `json:"relationship" yaml:"relationship"`
	Confidence   float64            `json:"confidence" yaml:"confidence"`
	Reason       string             `json:"reason" yaml:"reason"`
	HasText      bool               `json:"hasText" yaml:"hasText"`
	IsClickable  bool               `json:"isClickable" yaml:"isClickable"`
	Depth        int                `json:"depth,omitempty" yaml:"depth,omitempty"`
	Path         string             `json:"path,omitempty" yaml:"path,omitempty"`
}

// Discovery groups every relation found for one target.
type Discovery struct {
	Self        *DiscoveredElement  `json:"self,omitempty" yaml:"self,omitempty"`
	Parents     []DiscoveredElement `json:"parents" yaml:"parents"`
	Children    []DiscoveredElement `json:"children" yaml:"children"`
	Siblings    []DiscoveredElement `json:"siblings" yaml:"siblings"`
	Recommended []DiscoveredElement `json:"recommended" yaml:"recommended"`

	// Promotion bookkeeping: set when a non-clickable target was
	// replaced by its nearest clickable ancestor before analysis.
	Promoted     bool   `json:"promoted,omitempty" yaml:"promoted,omitempty"`
	PromotedFrom string `json:"promotedFrom,omitempty" yaml:"promotedFrom,omitempty"`

	// Message carries displayable empty-state text ("element not
	// found", "no parent found"); it is not an error.
	Message string `json:"message,omitempty" yaml:"message,omitempty"`
}

// Empty reports whether the discovery found no related elements.
func (d *Discovery) Empty() bool {
	return len(d.Parents) == 0 && len(d.Children) == 0 && len(d.Siblings) == 0
}
