package discovery

import (
	"fmt"
	"sort"
	"strings"

	"github.com/devicelab-dev/ui-inspector/pkg/config"
	"github.com/devicelab-dev/ui-inspector/pkg/element"
	"github.com/devicelab-dev/ui-inspector/pkg/hierarchy"
)

// Engine runs relationship discovery against a built hierarchy. It is
// stateless: every Discover call reads the tree it is handed and
// returns a fresh result.
type Engine struct {
	cfg *config.Config
}

// NewEngine creates an Engine. A nil config uses the defaults.
func NewEngine(cfg *config.Config) *Engine {
	if cfg == nil {
		cfg = config.Default()
	}
	return &Engine{cfg: cfg}
}

// Discover enumerates parents, children and siblings of the target,
// with confidence and justification per candidate. A target that is not
// clickable is first promoted to its nearest clickable ancestor, since
// taps usually land on decorative children of the real control.
// Unknown ids and empty hierarchies yield an empty result with a
// descriptive message, never an error.
func (e *Engine) Discover(targetID string, res *hierarchy.AnalysisResult) *Discovery {
	if res == nil || res.Size() == 0 {
		return &Discovery{Message: "hierarchy is empty"}
	}
	target := res.NodeByID(targetID)
	if target == nil {
		return &Discovery{Message: fmt.Sprintf("element %q not found in hierarchy", targetID)}
	}

	d := &Discovery{}
	if promoted := e.promote(target); promoted != target {
		d.Promoted = true
		d.PromotedFrom = targetID
		target = promoted
	}

	d.Self = &DiscoveredElement{
		Element:      target.Element,
		Relationship: "self",
		Confidence:   1.0,
		Reason:       "analysis target",
		HasText:      target.Element.HasText(),
		IsClickable:  target.Element.Clickable,
		Depth:        0,
	}

	d.Parents = e.collectAncestors(target)
	d.Children = e.collectDescendants(target)
	d.Siblings = e.collectSiblings(target)
	d.Recommended = e.recommend(d)

	if d.Empty() {
		d.Message = "no related elements found"
	}
	return d
}

// promote walks up to maxPromotionHops levels looking for the first
// clickable ancestor of a non-clickable target.
func (e *Engine) promote(target *hierarchy.Node) *hierarchy.Node {
	if target.Element.Clickable {
		return target
	}
	hops := 0
	for p := target.Parent; p != nil && hops < e.cfg.MaxPromotionHops; p = p.Parent {
		hops++
		if p.Element.Clickable {
			return p
		}
	}
	return target
}

// NearestClickableAncestor returns the target itself when clickable,
// otherwise the first clickable element walking parent links to the
// root, otherwise nil. Unknown ids also return nil.
func (e *Engine) NearestClickableAncestor(targetID string, res *hierarchy.AnalysisResult) *element.UIElement {
	node := res.NodeByID(targetID)
	if node == nil {
		return nil
	}
	if node.Element.Clickable {
		return node.Element
	}
	for p := node.Parent; p != nil; p = p.Parent {
		if p.Element.Clickable {
			return p.Element
		}
	}
	return nil
}

func (e *Engine) collectAncestors(target *hierarchy.Node) []DiscoveredElement {
	var out []DiscoveredElement
	distance := 0
	for p := target.Parent; p != nil && distance < e.cfg.MaxTraversalDepth; p = p.Parent {
		distance++
		conf := e.baseConfidence(p.Element, KindParent) / float64(distance)
		out = append(out, DiscoveredElement{
			Element:      p.Element,
			Relationship: AncestorLabel(distance),
			Confidence:   clamp01(conf),
			Reason:       e.reasonFor(p.Element, AncestorLabel(distance)),
			HasText:      p.Element.HasText(),
			IsClickable:  p.Element.Clickable,
			Depth:        distance,
		})
	}

	// Near ancestors first; confidence breaks ties at equal distance.
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Depth != out[j].Depth {
			return out[i].Depth < out[j].Depth
		}
		return out[i].Confidence > out[j].Confidence
	})
	return out
}

func (e *Engine) collectDescendants(target *hierarchy.Node) []DiscoveredElement {
	var out []DiscoveredElement

	var walk func(n *hierarchy.Node, distance int, path string)
	walk = func(n *hierarchy.Node, distance int, path string) {
		if distance > e.cfg.MaxTraversalDepth {
			return
		}
		for _, c := range n.Children {
			crumb := path + " > " + c.Element.Label()
			conf := e.baseConfidence(c.Element, KindChild)
			out = append(out, DiscoveredElement{
				Element:      c.Element,
				Relationship: DescendantLabel(distance),
				Confidence:   conf,
				Reason:       e.reasonFor(c.Element, DescendantLabel(distance)),
				HasText:      c.Element.HasText(),
				IsClickable:  c.Element.Clickable,
				Depth:        distance,
				Path:         crumb,
			})
			walk(c, distance+1, crumb)
		}
	}
	walk(target, 1, target.Element.Label())

	e.order(out)
	return truncate(out, e.cfg.DescendantCap)
}

func (e *Engine) collectSiblings(target *hierarchy.Node) []DiscoveredElement {
	if target.Parent == nil {
		return nil
	}

	var out []DiscoveredElement
	for _, s := range target.Parent.Children {
		if s == target {
			continue
		}
		conf := e.baseConfidence(s.Element, KindSibling)
		out = append(out, DiscoveredElement{
			Element:      s.Element,
			Relationship: "sibling",
			Confidence:   conf,
			Reason:       e.reasonFor(s.Element, "sibling"),
			HasText:      s.Element.HasText(),
			IsClickable:  s.Element.Clickable,
			Depth:        1,
		})
	}

	e.order(out)
	return truncate(out, e.cfg.SiblingCap)
}

// recommend unions parents and children, keeps the ones an automation
// step could actually use (text or clickability), and returns the top
// few by confidence regardless of direction.
func (e *Engine) recommend(d *Discovery) []DiscoveredElement {
	var out []DiscoveredElement
	for _, group := range [][]DiscoveredElement{d.Parents, d.Children} {
		for _, de := range group {
			if de.HasText || de.IsClickable {
				out = append(out, de)
			}
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Confidence > out[j].Confidence
	})
	return truncate(out, e.cfg.RecommendedCap)
}

// baseConfidence scores how trustworthy a candidate is for the given
// relation direction. Hidden text labels get an extra boost: a
// zero-area element that still carries text is almost always the
// semantic label of an icon-only control.
func (e *Engine) baseConfidence(el *element.UIElement, kind RelationKind) float64 {
	c := 0.5
	if el.HasText() {
		c += 0.3
		if el.IsHidden() {
			c += 0.2
		}
	}
	if el.Clickable {
		c += 0.2
	}
	if el.ResourceID != "" {
		c += 0.1
	}
	if kind == KindParent {
		c += 0.1
	}
	if kind == KindChild && el.HasText() {
		c += 0.2
		if el.IsHidden() {
			c += 0.25
		}
	}
	return clamp01(c)
}

// reasonFor builds the human-readable justification for one candidate.
func (e *Engine) reasonFor(el *element.UIElement, relationship string) string {
	parts := []string{relationship}
	if el.HasText() {
		if el.IsHidden() {
			parts = append(parts, fmt.Sprintf("hidden text label %q", el.Text))
		} else {
			parts = append(parts, fmt.Sprintf("has text %q", el.Text))
		}
	}
	if el.Clickable {
		parts = append(parts, "clickable")
	}
	if el.ResourceID != "" {
		parts = append(parts, fmt.Sprintf("resource id %s", el.ShortID()))
	}
	return strings.Join(parts, ", ")
}

// order sorts results for presentation: text-bearing candidates first
// when configured, then confidence descending.
func (e *Engine) order(items []DiscoveredElement) {
	sort.SliceStable(items, func(i, j int) bool {
		if e.cfg.TextFirst && items[i].HasText != items[j].HasText {
			return items[i].HasText
		}
		return items[i].Confidence > items[j].Confidence
	})
}

func truncate(items []DiscoveredElement, limit int) []DiscoveredElement {
	if limit > 0 && len(items) > limit {
		return items[:limit]
	}
	return items
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
