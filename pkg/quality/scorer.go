// Package quality scores elements for automation reliability. Scores
// rank candidate targets; they play no part in building the hierarchy.
package quality

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/devicelab-dev/ui-inspector/pkg/config"
	"github.com/devicelab-dev/ui-inspector/pkg/element"
)

// ElementQuality is the per-element reliability breakdown. Sub-scores
// are 0..100; Total is the weighted combination, also 0..100.
type ElementQuality struct {
	TextScore         int     `json:"textScore" yaml:"textScore"`
	UniquenessScore   int     `json:"uniquenessScore" yaml:"uniquenessScore"`
	StabilityScore    int     `json:"stabilityScore" yaml:"stabilityScore"`
	MatchabilityScore int     `json:"matchabilityScore" yaml:"matchabilityScore"`
	TotalScore        float64 `json:"totalScore" yaml:"totalScore"`
}

// Sub-score weights for the total.
const (
	weightText         = 0.30
	weightUniqueness   = 0.25
	weightStability    = 0.25
	weightMatchability = 0.20
)

// Scorer computes ElementQuality values. It is a pure function of one
// element; nothing is cached between calls.
type Scorer struct {
	cfg *config.Config
}

// NewScorer creates a Scorer. A nil config uses the defaults.
func NewScorer(cfg *config.Config) *Scorer {
	if cfg == nil {
		cfg = config.Default()
	}
	return &Scorer{cfg: cfg}
}

// Score computes the quality breakdown for one element.
func (s *Scorer) Score(e *element.UIElement) ElementQuality {
	q := ElementQuality{
		TextScore:         s.textScore(e),
		UniquenessScore:   s.uniquenessScore(e),
		StabilityScore:    s.stabilityScore(e),
		MatchabilityScore: s.matchabilityScore(e),
	}
	q.TotalScore = weightText*float64(q.TextScore) +
		weightUniqueness*float64(q.UniquenessScore) +
		weightStability*float64(q.StabilityScore) +
		weightMatchability*float64(q.MatchabilityScore)
	return q
}

// textScore rewards visible text that is present, of a practical
// length, meaningful, and action-oriented.
func (s *Scorer) textScore(e *element.UIElement) int {
	score := 0
	text := strings.TrimSpace(e.Text)
	if text != "" {
		score += 40
		score += idealLengthBonus(text)
		if isMeaningfulText(text) {
			score += 20
		}
		if s.containsActionWord(text) {
			score += 10
		}
	}
	if e.ContentDesc != "" {
		score += 15
	}
	return cap100(score)
}

// idealLengthBonus scales up to +30 by how automatable the text length
// is: short labels match reliably, paragraphs do not.
func idealLengthBonus(text string) int {
	n := utf8.RuneCountInString(text)
	switch {
	case n >= 2 && n <= 20:
		return 30
	case n >= 21 && n <= 50:
		return 20
	default:
		return 5
	}
}

// isMeaningfulText rejects pure digits, pure symbols, and absurd
// lengths.
func isMeaningfulText(text string) bool {
	n := utf8.RuneCountInString(text)
	if n < 1 || n > 100 {
		return false
	}
	hasLetter := false
	for _, r := range text {
		if unicode.IsLetter(r) {
			hasLetter = true
			break
		}
	}
	return hasLetter
}

func (s *Scorer) containsActionWord(text string) bool {
	lower := strings.ToLower(text)
	for _, w := range s.cfg.ActionWords {
		if strings.Contains(lower, strings.ToLower(w)) {
			return true
		}
	}
	return false
}

// uniquenessScore rewards attributes that single the element out on its
// screen: a resource id (ideally a meaningfully named one), a class
// name, and short or distinctive text.
func (s *Scorer) uniquenessScore(e *element.UIElement) int {
	score := 0
	if e.ResourceID != "" {
		score += 40
		if s.meaningfulID(e.ResourceID) {
			score += 20
		}
	}
	if e.ClassName != "" {
		score += 15
	}
	if s.distinctiveText(e.Text) {
		score += 25
	}
	return cap100(score)
}

func (s *Scorer) meaningfulID(id string) bool {
	lower := strings.ToLower(id)
	for _, p := range s.cfg.MeaningfulIDPatterns {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}

// distinctiveText accepts short labels (2-10 runes) and known action
// phrases; both tend to be unique on a screen.
func (s *Scorer) distinctiveText(text string) bool {
	text = strings.TrimSpace(text)
	if text == "" {
		return false
	}
	n := utf8.RuneCountInString(text)
	if n >= 2 && n <= 10 {
		return true
	}
	return s.containsActionWord(text)
}

// stabilityScore estimates how likely the element survives app updates:
// interactive elements with stable ids and action text move least.
func (s *Scorer) stabilityScore(e *element.UIElement) int {
	score := 50
	if e.Clickable {
		score += 20
	}
	if e.ResourceID != "" {
		score += 20
	}
	if s.containsActionWord(e.Text) {
		score += 10
	}
	return cap100(score)
}

// matchabilityScore counts how many discriminating attributes a locator
// could use, plus interactivity and a sane on-screen size.
func (s *Scorer) matchabilityScore(e *element.UIElement) int {
	score := 0
	for _, present := range []bool{
		e.HasText(),
		e.ResourceID != "",
		e.ContentDesc != "",
		e.ClassName != "",
	} {
		if present {
			score += 20
		}
	}
	if e.Clickable || e.Scrollable {
		score += 20
	}
	if reasonableSize(e) {
		score += 20
	}
	return cap100(score)
}

// reasonableSize checks that both rect dimensions fall in 10-2000px:
// big enough to tap, small enough to not be a full-screen overlay.
func reasonableSize(e *element.UIElement) bool {
	if !e.BoundsValid {
		return false
	}
	w := e.Bounds.Width()
	h := e.Bounds.Height()
	return w >= 10 && w <= 2000 && h >= 10 && h <= 2000
}

func cap100(v int) int {
	if v > 100 {
		return 100
	}
	if v < 0 {
		return 0
	}
	return v
}
