package discovery

import (
	"testing"

	"github.com/devicelab-dev/ui-inspector/pkg/config"
	"github.com/devicelab-dev/ui-inspector/pkg/core"
	"github.com/devicelab-dev/ui-inspector/pkg/element"
	"github.com/devicelab-dev/ui-inspector/pkg/hierarchy"
)

func el(id string, rect core.Rect) *element.UIElement {
	return &element.UIElement{ID: id, Bounds: rect, BoundsValid: true, Enabled: true}
}

func build(t *testing.T, elements ...*element.UIElement) *hierarchy.AnalysisResult {
	t.Helper()
	res, err := hierarchy.NewBuilder(nil).Build(elements)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	return res
}

// screen > card > icon-holder > icon, with card the only clickable.
func promotionFixture(t *testing.T) *hierarchy.AnalysisResult {
	screen := el("screen", core.Rect{Left: 0, Top: 0, Right: 1080, Bottom: 1920})
	card := el("card", core.Rect{Left: 40, Top: 300, Right: 1040, Bottom: 600})
	card.Clickable = true
	holder := el("holder", core.Rect{Left: 60, Top: 320, Right: 400, Bottom: 580})
	icon := el("icon", core.Rect{Left: 80, Top: 340, Right: 200, Bottom: 460})
	icon.ClassName = "android.widget.ImageView"
	return build(t, screen, card, holder, icon)
}

func TestDiscoverPromotesToClickableAncestor(t *testing.T) {
	res := promotionFixture(t)

	d := NewEngine(nil).Discover("icon", res)
	if !d.Promoted {
		t.Fatal("expected promotion for non-clickable target")
	}
	if d.PromotedFrom != "icon" {
		t.Errorf("promotedFrom = %q", d.PromotedFrom)
	}
	if d.Self == nil || d.Self.Element.ID != "card" {
		t.Fatalf("analysis target should be the clickable card, got %+v", d.Self)
	}
	// Ancestors are computed from the promoted target.
	if len(d.Parents) != 1 || d.Parents[0].Element.ID != "screen" {
		t.Errorf("parents = %+v", d.Parents)
	}
}

func TestDiscoverNoPromotionWhenClickable(t *testing.T) {
	res := promotionFixture(t)

	d := NewEngine(nil).Discover("card", res)
	if d.Promoted {
		t.Error("clickable target should not be promoted")
	}
	if d.Self.Element.ID != "card" {
		t.Errorf("self = %s", d.Self.Element.ID)
	}
}

func TestDiscoverPromotionHopLimit(t *testing.T) {
	// Clickable ancestor is 4 levels up, beyond the 3-hop limit.
	a := el("a", core.Rect{Left: 0, Top: 0, Right: 1000, Bottom: 1000})
	a.Clickable = true
	b := el("b", core.Rect{Left: 10, Top: 10, Right: 900, Bottom: 900})
	c := el("c", core.Rect{Left: 20, Top: 20, Right: 800, Bottom: 800})
	d := el("d", core.Rect{Left: 30, Top: 30, Right: 700, Bottom: 700})
	e := el("e", core.Rect{Left: 40, Top: 40, Right: 600, Bottom: 600})
	res := build(t, a, b, c, d, e)

	disc := NewEngine(nil).Discover("e", res)
	if disc.Promoted {
		t.Error("promotion should stop after maxPromotionHops levels")
	}
}

func TestDiscoverAncestorLabels(t *testing.T) {
	a := el("a", core.Rect{Left: 0, Top: 0, Right: 1000, Bottom: 2000})
	b := el("b", core.Rect{Left: 10, Top: 10, Right: 900, Bottom: 1900})
	c := el("c", core.Rect{Left: 20, Top: 20, Right: 800, Bottom: 1800})
	d := el("d", core.Rect{Left: 30, Top: 30, Right: 200, Bottom: 200})
	d.Clickable = true // avoid promotion
	res := build(t, a, b, c, d)

	disc := NewEngine(nil).Discover("d", res)
	if len(disc.Parents) != 3 {
		t.Fatalf("expected 3 ancestors, got %d", len(disc.Parents))
	}
	wantLabels := []string{"direct-parent", "grandparent", "3-level ancestor"}
	for i, want := range wantLabels {
		if disc.Parents[i].Relationship != want {
			t.Errorf("parent[%d] = %q, want %q", i, disc.Parents[i].Relationship, want)
		}
	}
	// Confidence decays with distance.
	if !(disc.Parents[0].Confidence > disc.Parents[1].Confidence &&
		disc.Parents[1].Confidence > disc.Parents[2].Confidence) {
		t.Errorf("ancestor confidence should decay: %+v", disc.Parents)
	}
}

func TestDiscoverAncestorDepthCap(t *testing.T) {
	cfg := config.Default()
	cfg.MaxTraversalDepth = 2

	a := el("a", core.Rect{Left: 0, Top: 0, Right: 1000, Bottom: 2000})
	b := el("b", core.Rect{Left: 10, Top: 10, Right: 900, Bottom: 1900})
	c := el("c", core.Rect{Left: 20, Top: 20, Right: 800, Bottom: 1800})
	d := el("d", core.Rect{Left: 30, Top: 30, Right: 200, Bottom: 200})
	d.Clickable = true
	res := build(t, a, b, c, d)

	disc := NewEngine(cfg).Discover("d", res)
	if len(disc.Parents) != 2 {
		t.Errorf("expected 2 ancestors with depth cap 2, got %d", len(disc.Parents))
	}
}

func TestDiscoverDescendants(t *testing.T) {
	screen := el("screen", core.Rect{Left: 0, Top: 0, Right: 1080, Bottom: 1920})
	screen.Clickable = true
	row := el("row", core.Rect{Left: 0, Top: 100, Right: 1080, Bottom: 300})
	label := el("label", core.Rect{Left: 20, Top: 120, Right: 400, Bottom: 280})
	label.Text = "Settings"
	res := build(t, screen, row, label)

	d := NewEngine(nil).Discover("screen", res)
	if len(d.Children) != 2 {
		t.Fatalf("expected 2 descendants, got %d", len(d.Children))
	}

	// Text-first ordering puts the grandchild label before the row.
	if d.Children[0].Element.ID != "label" {
		t.Errorf("first child = %s, want label (text first)", d.Children[0].Element.ID)
	}
	if d.Children[0].Relationship != "grandchild" {
		t.Errorf("label relationship = %q", d.Children[0].Relationship)
	}
	if d.Children[0].Path == "" {
		t.Error("descendants should carry a breadcrumb path")
	}

	var row0 DiscoveredElement
	for _, c := range d.Children {
		if c.Element.ID == "row" {
			row0 = c
		}
	}
	if row0.Relationship != "direct-child" {
		t.Errorf("row relationship = %q", row0.Relationship)
	}
}

func TestDiscoverHiddenTextChildBoost(t *testing.T) {
	hiddenLabel := &element.UIElement{
		ID: "hl", Text: "我的", ResourceID: "app:id/tab_content",
		BoundsValid: true, Enabled: true,
	}
	visibleLabel := el("vl", core.Rect{Left: 60, Top: 1820, Right: 210, Bottom: 1880})
	visibleLabel.Text = "我的"

	e := NewEngine(nil)
	// As children both saturate at 1.0; the sibling direction shows the
	// hidden-label boost without clamping.
	hidden := e.baseConfidence(hiddenLabel, KindSibling)
	visible := e.baseConfidence(visibleLabel, KindSibling)
	if hidden <= visible {
		t.Errorf("hidden text label %f should outrank visible %f", hidden, visible)
	}
	if c := e.baseConfidence(hiddenLabel, KindChild); c != 1.0 {
		t.Errorf("hidden text child should saturate at 1.0, got %f", c)
	}
}

func TestDiscoverSiblingsTextFirst(t *testing.T) {
	parent := el("parent", core.Rect{Left: 0, Top: 0, Right: 1000, Bottom: 400})
	target := el("target", core.Rect{Left: 10, Top: 10, Right: 200, Bottom: 100})
	target.Clickable = true
	s1 := el("s1", core.Rect{Left: 210, Top: 10, Right: 400, Bottom: 100})
	s1.Clickable = true
	s1.ResourceID = "app:id/s1"
	s2 := el("s2", core.Rect{Left: 410, Top: 10, Right: 600, Bottom: 100})
	s2.Text = "Next"
	s3 := el("s3", core.Rect{Left: 610, Top: 10, Right: 800, Bottom: 100})
	res := build(t, parent, target, s1, s2, s3)

	d := NewEngine(nil).Discover("target", res)
	if len(d.Siblings) != 3 {
		t.Fatalf("expected 3 siblings, got %d", len(d.Siblings))
	}
	// s2 has text and leads despite s1's higher raw confidence.
	if d.Siblings[0].Element.ID != "s2" {
		t.Errorf("first sibling = %s, want s2", d.Siblings[0].Element.ID)
	}
}

func TestDiscoverSiblingOrderingByConfidenceWhenTextFirstOff(t *testing.T) {
	cfg := config.Default()
	cfg.TextFirst = false

	parent := el("parent", core.Rect{Left: 0, Top: 0, Right: 1000, Bottom: 400})
	target := el("target", core.Rect{Left: 10, Top: 10, Right: 200, Bottom: 100})
	target.Clickable = true
	s1 := el("s1", core.Rect{Left: 210, Top: 10, Right: 400, Bottom: 100})
	s1.Clickable = true
	s1.ResourceID = "app:id/s1"
	s2 := el("s2", core.Rect{Left: 410, Top: 10, Right: 600, Bottom: 100})
	s2.Text = "Next"
	res := build(t, parent, target, s1, s2)

	d := NewEngine(cfg).Discover("target", res)
	// s1: 0.5+0.2+0.1=0.8; s2: 0.5+0.3=0.8 -> stable order keeps s1 first
	if d.Siblings[0].Element.ID != "s1" {
		t.Errorf("first sibling = %s, want s1", d.Siblings[0].Element.ID)
	}
}

func TestDiscoverRootHasNoSiblings(t *testing.T) {
	a := el("a", core.Rect{Left: 0, Top: 0, Right: 100, Bottom: 100})
	a.Clickable = true
	res := build(t, a)

	d := NewEngine(nil).Discover("a", res)
	if len(d.Siblings) != 0 {
		t.Errorf("root should have no siblings, got %d", len(d.Siblings))
	}
	if len(d.Parents) != 0 {
		t.Errorf("root should have no parents, got %d", len(d.Parents))
	}
}

func TestDiscoverRecommended(t *testing.T) {
	screen := el("screen", core.Rect{Left: 0, Top: 0, Right: 1080, Bottom: 1920})
	card := el("card", core.Rect{Left: 40, Top: 300, Right: 1040, Bottom: 600})
	card.Clickable = true
	title := el("title", core.Rect{Left: 60, Top: 320, Right: 800, Bottom: 380})
	title.Text = "Order summary"
	bare := el("bare", core.Rect{Left: 60, Top: 400, Right: 200, Bottom: 500})
	res := build(t, screen, card, title, bare)

	d := NewEngine(nil).Discover("card", res)
	for _, r := range d.Recommended {
		if !r.HasText && !r.IsClickable {
			t.Errorf("recommended %s has neither text nor clickability", r.Element.ID)
		}
	}
	for i := 1; i < len(d.Recommended); i++ {
		if d.Recommended[i-1].Confidence < d.Recommended[i].Confidence {
			t.Error("recommended should be sorted by confidence descending")
		}
	}
	if len(d.Recommended) > config.Default().RecommendedCap {
		t.Errorf("recommended exceeds cap: %d", len(d.Recommended))
	}
}

func TestDiscoverDescendantCap(t *testing.T) {
	cfg := config.Default()
	cfg.DescendantCap = 3

	elements := []*element.UIElement{el("screen", core.Rect{Left: 0, Top: 0, Right: 1080, Bottom: 1920})}
	elements[0].Clickable = true
	for i := 0; i < 8; i++ {
		c := el(string(rune('a'+i)), core.Rect{Left: i * 100, Top: 100, Right: i*100 + 90, Bottom: 200})
		elements = append(elements, c)
	}
	res := build(t, elements...)

	d := NewEngine(cfg).Discover("screen", res)
	if len(d.Children) != 3 {
		t.Errorf("children = %d, want 3 (capped)", len(d.Children))
	}
}

func TestDiscoverUnknownID(t *testing.T) {
	res := build(t, el("a", core.Rect{Left: 0, Top: 0, Right: 100, Bottom: 100}))

	d := NewEngine(nil).Discover("missing", res)
	if !d.Empty() {
		t.Error("unknown id should yield empty groupings")
	}
	if d.Message == "" {
		t.Error("unknown id should carry a descriptive message")
	}
	if d.Self != nil {
		t.Error("unknown id should have no self entry")
	}
}

func TestDiscoverEmptyHierarchy(t *testing.T) {
	empty, err := hierarchy.NewBuilder(nil).Build([]*element.UIElement{})
	if err != nil {
		t.Fatal(err)
	}

	d := NewEngine(nil).Discover("anything", empty)
	if !d.Empty() || d.Message == "" {
		t.Errorf("empty hierarchy should yield an empty messaged result: %+v", d)
	}

	d = NewEngine(nil).Discover("anything", nil)
	if !d.Empty() {
		t.Error("nil hierarchy should not crash")
	}
}

func TestConfidenceRange(t *testing.T) {
	e := NewEngine(nil)
	elems := []*element.UIElement{
		{},
		{Text: "确定", Clickable: true, ResourceID: "app:id/x", BoundsValid: true},
		{Text: "label", BoundsValid: true}, // hidden with text
	}
	kinds := []RelationKind{KindSelf, KindParent, KindChild, KindSibling}

	for _, el := range elems {
		for _, k := range kinds {
			c := e.baseConfidence(el, k)
			if c < 0 || c > 1 {
				t.Errorf("confidence %f out of range for kind %s", c, k)
			}
		}
	}
}

func TestNearestClickableAncestor(t *testing.T) {
	res := promotionFixture(t)
	e := NewEngine(nil)

	// Already clickable: returns itself.
	if got := e.NearestClickableAncestor("card", res); got == nil || got.ID != "card" {
		t.Errorf("clickable element should return itself, got %v", got)
	}

	// Walks upward past a non-clickable holder.
	if got := e.NearestClickableAncestor("icon", res); got == nil || got.ID != "card" {
		t.Errorf("expected card, got %v", got)
	}

	// No clickable ancestor anywhere.
	if got := e.NearestClickableAncestor("screen", res); got != nil {
		t.Errorf("expected nil, got %v", got)
	}

	// Unknown id.
	if got := e.NearestClickableAncestor("missing", res); got != nil {
		t.Errorf("unknown id should return nil, got %v", got)
	}
}

func TestRelationLabels(t *testing.T) {
	tests := []struct {
		fn   func(int) string
		dist int
		want string
	}{
		{AncestorLabel, 1, "direct-parent"},
		{AncestorLabel, 2, "grandparent"},
		{AncestorLabel, 4, "4-level ancestor"},
		{DescendantLabel, 1, "direct-child"},
		{DescendantLabel, 2, "grandchild"},
		{DescendantLabel, 3, "3-level descendant"},
	}

	for _, tt := range tests {
		if got := tt.fn(tt.dist); got != tt.want {
			t.Errorf("label(%d) = %q, want %q", tt.dist, got, tt.want)
		}
	}
}
