package quality

import (
	"testing"

	"github.com/devicelab-dev/ui-inspector/pkg/core"
	"github.com/devicelab-dev/ui-inspector/pkg/element"
)

func TestTextScore(t *testing.T) {
	s := NewScorer(nil)

	tests := []struct {
		name string
		elem element.UIElement
		want int
	}{
		{"empty", element.UIElement{}, 0},
		// 40 presence + 30 ideal length + 20 meaningful
		{"short label", element.UIElement{Text: "Username"}, 90},
		// + 10 action word = capped at 100
		{"action word", element.UIElement{Text: "confirm"}, 100},
		{"chinese action word", element.UIElement{Text: "确定"}, 100},
		// 40 + 5 (single rune) + 20 meaningful
		{"one letter", element.UIElement{Text: "X"}, 65},
		// 40 + 30 + 0: digits are not meaningful
		{"pure digits", element.UIElement{Text: "12345"}, 70},
		// 40 + 30 + 0: symbols are not meaningful
		{"pure symbols", element.UIElement{Text: ">>"}, 70},
		// description alone
		{"desc only", element.UIElement{ContentDesc: "back"}, 15},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := s.textScore(&tt.elem); got != tt.want {
				t.Errorf("textScore = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestIdealLengthBonus(t *testing.T) {
	tests := []struct {
		text string
		want int
	}{
		{"ab", 30},
		{"a twenty char label!", 30},
		{"this label runs a bit longer than twenty", 20},
		{"x", 5},
	}

	for _, tt := range tests {
		if got := idealLengthBonus(tt.text); got != tt.want {
			t.Errorf("idealLengthBonus(%q) = %d, want %d", tt.text, got, tt.want)
		}
	}
}

func TestUniquenessScore(t *testing.T) {
	s := NewScorer(nil)

	// 40 id + 20 meaningful pattern + 15 class + 25 short text = 100
	full := element.UIElement{
		ResourceID: "com.app:id/login_btn",
		ClassName:  "android.widget.Button",
		Text:       "Login",
	}
	if got := s.uniquenessScore(&full); got != 100 {
		t.Errorf("full uniqueness = %d, want 100", got)
	}

	// id without a meaningful pattern
	plain := element.UIElement{ResourceID: "com.app:id/zzz9"}
	if got := s.uniquenessScore(&plain); got != 40 {
		t.Errorf("plain id uniqueness = %d, want 40", got)
	}

	if got := s.uniquenessScore(&element.UIElement{}); got != 0 {
		t.Errorf("bare element uniqueness = %d, want 0", got)
	}
}

func TestStabilityScore(t *testing.T) {
	s := NewScorer(nil)

	if got := s.stabilityScore(&element.UIElement{}); got != 50 {
		t.Errorf("base stability = %d, want 50", got)
	}

	full := element.UIElement{
		Clickable:  true,
		ResourceID: "com.app:id/save_btn",
		Text:       "保存",
	}
	if got := s.stabilityScore(&full); got != 100 {
		t.Errorf("full stability = %d, want 100", got)
	}
}

func TestMatchabilityScore(t *testing.T) {
	s := NewScorer(nil)

	full := element.UIElement{
		Text:        "Login",
		ResourceID:  "com.app:id/login",
		ContentDesc: "login button",
		ClassName:   "android.widget.Button",
		Clickable:   true,
		Bounds:      core.Rect{Left: 100, Top: 200, Right: 300, Bottom: 280},
		BoundsValid: true,
	}
	// 4*20 attributes + 20 clickable + 20 size, capped
	if got := s.matchabilityScore(&full); got != 100 {
		t.Errorf("full matchability = %d, want 100", got)
	}

	if got := s.matchabilityScore(&element.UIElement{}); got != 0 {
		t.Errorf("bare matchability = %d, want 0", got)
	}

	// Degenerate size earns no size bonus
	sliver := element.UIElement{
		Bounds:      core.Rect{Left: 0, Top: 0, Right: 5, Bottom: 2000},
		BoundsValid: true,
		Scrollable:  true,
	}
	if got := s.matchabilityScore(&sliver); got != 20 {
		t.Errorf("sliver matchability = %d, want 20", got)
	}
}

func TestScoreRanges(t *testing.T) {
	s := NewScorer(nil)

	elems := []element.UIElement{
		{},
		{Text: "确定", ResourceID: "app:id/confirm_btn", ClassName: "Button", Clickable: true,
			ContentDesc: "confirm", Bounds: core.Rect{Left: 0, Top: 0, Right: 200, Bottom: 80}, BoundsValid: true},
		{Text: "1234567890"},
	}

	for i, e := range elems {
		q := s.Score(&e)
		for name, v := range map[string]int{
			"text": q.TextScore, "uniqueness": q.UniquenessScore,
			"stability": q.StabilityScore, "matchability": q.MatchabilityScore,
		} {
			if v < 0 || v > 100 {
				t.Errorf("elem %d: %s score %d out of range", i, name, v)
			}
		}
		if q.TotalScore < 0 || q.TotalScore > 100 {
			t.Errorf("elem %d: total %f out of range", i, q.TotalScore)
		}
	}
}

func TestScoreWeights(t *testing.T) {
	s := NewScorer(nil)
	e := element.UIElement{
		Text:       "Login",
		ResourceID: "com.app:id/login_btn",
		ClassName:  "android.widget.Button",
		Clickable:  true,
	}

	q := s.Score(&e)
	want := 0.30*float64(q.TextScore) +
		0.25*float64(q.UniquenessScore) +
		0.25*float64(q.StabilityScore) +
		0.20*float64(q.MatchabilityScore)
	if q.TotalScore != want {
		t.Errorf("total = %f, want %f", q.TotalScore, want)
	}
}

func TestScorePrefersLabeledInteractive(t *testing.T) {
	s := NewScorer(nil)

	button := element.UIElement{
		Text: "提交", ResourceID: "app:id/submit_btn",
		ClassName: "android.widget.Button", Clickable: true,
		Bounds: core.Rect{Left: 100, Top: 1700, Right: 980, Bottom: 1820}, BoundsValid: true,
	}
	decoration := element.UIElement{
		ClassName: "android.view.View",
		Bounds:    core.Rect{Left: 0, Top: 0, Right: 4, Bottom: 4}, BoundsValid: true,
	}

	if s.Score(&button).TotalScore <= s.Score(&decoration).TotalScore {
		t.Error("labeled interactive element should outrank bare decoration")
	}
}
