// Package core provides shared geometry and error types for ui-inspector.
package core

import (
	"fmt"
	"strconv"
	"strings"
)

// Rect represents an element's screen-pixel bounds as absolute edges.
// Android dumps report bounds as "[left,top][right,bottom]".
type Rect struct {
	Left   int `json:"left" yaml:"left"`
	Top    int `json:"top" yaml:"top"`
	Right  int `json:"right" yaml:"right"`
	Bottom int `json:"bottom" yaml:"bottom"`
}

// Width returns the horizontal extent of the rect.
func (r Rect) Width() int {
	return r.Right - r.Left
}

// Height returns the vertical extent of the rect.
func (r Rect) Height() int {
	return r.Bottom - r.Top
}

// Area returns the rect area, clamped to zero for inverted rects.
func (r Rect) Area() int {
	w := r.Width()
	h := r.Height()
	if w <= 0 || h <= 0 {
		return 0
	}
	return w * h
}

// Center returns the center point of the rect.
func (r Rect) Center() (int, int) {
	return r.Left + r.Width()/2, r.Top + r.Height()/2
}

// IsHidden reports whether the rect is the zero-area hidden sentinel.
// UIAutomator reports invisible elements (commonly text labels under
// icon buttons) with all four edges at 0.
func (r Rect) IsHidden() bool {
	return r.Left == 0 && r.Top == 0 && r.Right == 0 && r.Bottom == 0
}

// ContainsRect checks if r contains other, allowing tolerance pixels of
// slack on each edge. A hidden rect never participates in containment.
func (r Rect) ContainsRect(other Rect, tolerance int) bool {
	if r.IsHidden() || other.IsHidden() {
		return false
	}
	return other.Left >= r.Left-tolerance &&
		other.Top >= r.Top-tolerance &&
		other.Right <= r.Right+tolerance &&
		other.Bottom <= r.Bottom+tolerance
}

// ContainsPoint checks if a point is within the rect.
func (r Rect) ContainsPoint(x, y int) bool {
	return x >= r.Left && x < r.Right && y >= r.Top && y < r.Bottom
}

// String formats the rect in the Android bounds notation.
func (r Rect) String() string {
	return fmt.Sprintf("[%d,%d][%d,%d]", r.Left, r.Top, r.Right, r.Bottom)
}

// ParseRect parses an Android bounds string "[l,t][r,b]".
// Malformed input returns ok=false, never panics.
func ParseRect(s string) (Rect, bool) {
	trimmed := strings.TrimSpace(s)
	if !strings.HasPrefix(trimmed, "[") || !strings.HasSuffix(trimmed, "]") {
		return Rect{}, false
	}
	trimmed = strings.ReplaceAll(trimmed, "][", ",")
	trimmed = strings.Trim(trimmed, "[]")
	parts := strings.Split(trimmed, ",")
	if len(parts) != 4 {
		return Rect{}, false
	}

	vals := make([]int, 4)
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return Rect{}, false
		}
		vals[i] = v
	}

	return Rect{Left: vals[0], Top: vals[1], Right: vals[2], Bottom: vals[3]}, true
}

// NormalizeBounds canonicalizes either a structured rect or a bounds
// string into a Rect. Exactly one input form should be provided; the
// string wins when both are set and parsable.
func NormalizeBounds(rect *Rect, bounds string) (Rect, bool) {
	if bounds != "" {
		if r, ok := ParseRect(bounds); ok {
			return r, true
		}
	}
	if rect != nil {
		return *rect, true
	}
	return Rect{}, false
}
