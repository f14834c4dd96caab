package hierarchy

import (
	"fmt"
	"sort"
	"strings"

	"github.com/devicelab-dev/ui-inspector/pkg/config"
	"github.com/devicelab-dev/ui-inspector/pkg/core"
	"github.com/devicelab-dev/ui-inspector/pkg/element"
)

// Builder reconstructs a containment hierarchy from a flat element list.
// A Builder is stateless across calls; every Build produces a fresh
// AnalysisResult and identical input yields an identical tree.
type Builder struct {
	cfg    *config.Config
	tracer Tracer
}

// NewBuilder creates a Builder with the given configuration. A nil
// config uses the defaults.
func NewBuilder(cfg *config.Config) *Builder {
	if cfg == nil {
		cfg = config.Default()
	}
	return &Builder{cfg: cfg, tracer: NopTracer}
}

// WithTracer installs a tracer for builder diagnostics.
func (b *Builder) WithTracer(t Tracer) *Builder {
	if t != nil {
		b.tracer = t
	}
	return b
}

// Build produces the hierarchy for one element snapshot. A nil
// collection is a contract violation and fails fast; an empty one
// returns an empty result. Build never fails for messy-but-valid input:
// it degrades through the root-selection fallback ladder instead.
func (b *Builder) Build(elements []*element.UIElement) (*AnalysisResult, error) {
	if elements == nil {
		return nil, core.ErrInvalidInput.WithMessage("element collection is nil")
	}
	if len(elements) == 0 {
		return &AnalysisResult{Nodes: map[string]*Node{}}, nil
	}

	res := b.buildOnce(elements, b.cfg.ContainmentTolerancePx)

	// A flat tree where everything became a sibling of the root usually
	// means the tolerance rejected real containment (sub-pixel rounding
	// in scaled dumps). Rerun once with the relaxed tolerance.
	if b.isDegenerate(res) && b.cfg.RelaxedTolerancePx > b.cfg.ContainmentTolerancePx {
		retry := b.buildOnce(elements, b.cfg.RelaxedTolerancePx)
		if !b.isDegenerate(retry) {
			return retry, nil
		}
	}
	return res, nil
}

// buildOnce runs both passes and the root ladder with the given
// containment tolerance, starting from fresh nodes.
func (b *Builder) buildOnce(elements []*element.UIElement, tolerance int) *AnalysisResult {
	nodes := make([]*Node, 0, len(elements))
	byID := make(map[string]*Node, len(elements))
	for _, e := range elements {
		n := &Node{Element: e}
		id := e.ID
		for i := 2; ; i++ {
			if _, taken := byID[id]; !taken {
				break
			}
			id = fmt.Sprintf("%s#%d", e.ID, i)
		}
		byID[id] = n
		nodes = append(nodes, n)
	}

	screen := screenRect(nodes)

	b.hiddenPass(nodes, screen)
	b.geometricPass(nodes, tolerance)
	root := b.selectRoot(nodes)

	res := &AnalysisResult{Root: root, Nodes: byID}
	finalize(res)
	return res
}

// hiddenPass resolves parents for zero-area elements semantically, in
// priority order: shared resource-id namespace, widget-type
// compatibility, then the nested content/container id convention.
// Geometric containment is meaningless for these elements, yet they are
// frequently the most important nodes for automation (invisible text
// labels under icon buttons).
func (b *Builder) hiddenPass(nodes []*Node, screen core.Rect) {
	for _, n := range nodes {
		if !n.Element.IsHidden() {
			continue
		}
		parent, reason := b.resolveHiddenParent(n, nodes, screen)
		if parent == nil {
			b.tracer.FallbackTriggered(n.Element, "none")
			continue
		}
		b.tracer.FallbackTriggered(n.Element, string(reason))
		b.attach(n, parent, reason)
	}
}

func (b *Builder) resolveHiddenParent(n *Node, nodes []*Node, screen core.Rect) (*Node, AttachReason) {
	e := n.Element

	// (a) shared resource-id namespace with an interactive or container
	// candidate, e.g. app:id/content under app:id/container.
	if ns := e.IDNamespace(); ns != "" {
		matches := b.semanticCandidates(n, nodes, func(cand *element.UIElement) bool {
			return cand.IDNamespace() == ns && (cand.Clickable || cand.IsContainerClass())
		})
		if best := b.pickSemanticCandidate(matches, screen); best != nil {
			return best, AttachIDNamespace
		}
	}

	// (b) a text-bearing widget attaching to a layout/container class.
	if e.HasText() || e.IsTextClass() {
		matches := b.semanticCandidates(n, nodes, func(cand *element.UIElement) bool {
			return cand.IsContainerClass() && !cand.IsHidden()
		})
		if best := b.pickSemanticCandidate(matches, screen); best != nil {
			return best, AttachTypeMatch
		}
	}

	// (c) hidden-in-hidden via the content/container naming convention.
	if strings.Contains(strings.ToLower(e.ShortID()), "content") {
		matches := b.semanticCandidates(n, nodes, func(cand *element.UIElement) bool {
			return cand.IsHidden() && strings.Contains(strings.ToLower(cand.ShortID()), "container")
		})
		if len(matches) > 0 {
			return matches[0], AttachNestedHidden
		}
	}

	return nil, AttachNone
}

// semanticCandidates collects nodes matching the predicate, in input
// order, skipping the node itself and anything that would cycle.
func (b *Builder) semanticCandidates(n *Node, nodes []*Node, match func(*element.UIElement) bool) []*Node {
	var out []*Node
	for _, cand := range nodes {
		if cand == n || n == cand.Parent || cand.HasAncestor(n) {
			continue
		}
		if match(cand.Element) {
			out = append(out, cand)
		}
	}
	return out
}

// pickSemanticCandidate orders candidates: bottom-navigation shaped
// containers first (hidden labels usually belong to nav tabs), then
// smallest area, then input order.
func (b *Builder) pickSemanticCandidate(matches []*Node, screen core.Rect) *Node {
	if len(matches) == 0 {
		return nil
	}
	best := matches[0]
	for _, cand := range matches[1:] {
		if b.betterSemanticCandidate(cand, best, screen) {
			best = cand
		}
	}
	return best
}

func (b *Builder) betterSemanticCandidate(cand, best *Node, screen core.Rect) bool {
	candNav := b.isBottomNav(cand.Element.Bounds, screen)
	bestNav := b.isBottomNav(best.Element.Bounds, screen)
	if candNav != bestNav {
		return candNav
	}
	candArea := cand.Element.Bounds.Area()
	bestArea := best.Element.Bounds.Area()
	if candArea > 0 && (bestArea == 0 || candArea < bestArea) {
		return true
	}
	return false
}

// isBottomNav reports whether a rect sits in the bottom-navigation band
// of the screen: top edge below bottomNavTopRatio of the screen height
// and height under bottomNavHeightRatio of it.
func (b *Builder) isBottomNav(r core.Rect, screen core.Rect) bool {
	sh := screen.Height()
	if sh <= 0 || r.IsHidden() {
		return false
	}
	top := screen.Top + int(b.cfg.BottomNavTopRatio*float64(sh))
	maxH := int(b.cfg.BottomNavHeightRatio * float64(sh))
	return r.Top >= top && r.Height() <= maxH
}

// geometricPass attaches remaining parentless visible elements by rect
// containment, smallest elements first so children resolve before their
// containers.
func (b *Builder) geometricPass(nodes []*Node, tolerance int) {
	ordered := make([]*Node, 0, len(nodes))
	for _, n := range nodes {
		if n.Parent != nil || n.Element.IsHidden() || !n.Element.BoundsValid {
			continue
		}
		ordered = append(ordered, n)
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Element.Bounds.Area() < ordered[j].Element.Bounds.Area()
	})

	for _, n := range ordered {
		parent := b.findGeometricParent(n, nodes, tolerance)
		if parent == nil {
			continue
		}
		b.attach(n, parent, AttachGeometric)
	}
}

// findGeometricParent returns the smallest-area element whose rect
// contains the node's rect within tolerance. The area-ratio cutoff
// rejects near-duplicate rects that would otherwise pair up as
// parent/child. First-encountered wins ties.
func (b *Builder) findGeometricParent(n *Node, nodes []*Node, tolerance int) *Node {
	childArea := n.Element.Bounds.Area()

	var best *Node
	bestArea := 0
	for _, cand := range nodes {
		if cand == n || cand.Element.IsHidden() || !cand.Element.BoundsValid {
			continue
		}
		candArea := cand.Element.Bounds.Area()
		if candArea <= 0 {
			continue
		}
		if float64(childArea)/float64(candArea) >= b.cfg.AreaRatioCutoff {
			continue
		}
		if !cand.Element.Bounds.ContainsRect(n.Element.Bounds, tolerance) {
			continue
		}
		if cand.HasAncestor(n) {
			continue
		}
		if best == nil || candArea < bestArea {
			best = cand
			bestArea = candArea
		}
	}
	return best
}

// selectRoot applies the fallback ladder: one parentless node is the
// root; among several the largest area wins (most likely the screen
// container) and the leftovers are hooked underneath it so the result
// is always single-rooted.
func (b *Builder) selectRoot(nodes []*Node) *Node {
	var orphans []*Node
	for _, n := range nodes {
		if n.Parent == nil {
			orphans = append(orphans, n)
		}
	}
	if len(orphans) == 0 {
		// Cannot happen with acyclic attachment, but never return no tree.
		return nodes[0]
	}
	if len(orphans) == 1 {
		b.tracer.RootSelected(orphans[0].Element, "single parentless node")
		return orphans[0]
	}

	root := orphans[0]
	for _, n := range orphans[1:] {
		if n.Element.Bounds.Area() > root.Element.Bounds.Area() {
			root = n
		}
	}
	b.tracer.RootSelected(root.Element, fmt.Sprintf("largest area among %d root candidates", len(orphans)))

	for _, n := range orphans {
		if n == root {
			continue
		}
		b.attach(n, root, AttachRootFallback)
	}
	return root
}

func (b *Builder) attach(child, parent *Node, reason AttachReason) {
	child.Parent = parent
	child.Reason = reason
	parent.Children = append(parent.Children, child)
	b.tracer.NodeAttached(child.Element, parent.Element, reason)
}

// isDegenerate reports a tree where no relation was actually
// established and every node was hooked to the root as a last resort.
// A genuinely flat screen (root plus geometrically attached children)
// is not degenerate.
func (b *Builder) isDegenerate(res *AnalysisResult) bool {
	if res.Root == nil || res.Size() <= 3 {
		return false
	}
	for _, n := range res.Nodes {
		if n == res.Root {
			continue
		}
		if n.Reason != AttachRootFallback {
			return false
		}
	}
	return true
}

// finalize computes depth, indexInParent, leaves and maxDepth top-down
// from the chosen root.
func finalize(res *AnalysisResult) {
	if res.Root == nil {
		return
	}
	res.Leaves = res.Leaves[:0]
	res.MaxDepth = 0

	var walk func(n *Node, depth int)
	walk = func(n *Node, depth int) {
		n.Depth = depth
		if depth > res.MaxDepth {
			res.MaxDepth = depth
		}
		if n.IsLeaf() {
			res.Leaves = append(res.Leaves, n)
			return
		}
		for i, c := range n.Children {
			c.IndexInParent = i
			walk(c, depth+1)
		}
	}
	walk(res.Root, 0)
}

// screenRect estimates the screen extent as the largest element rect,
// used by the bottom-navigation heuristic.
func screenRect(nodes []*Node) core.Rect {
	var screen core.Rect
	for _, n := range nodes {
		if !n.Element.BoundsValid {
			continue
		}
		if n.Element.Bounds.Area() > screen.Area() {
			screen = n.Element.Bounds
		}
	}
	return screen
}
