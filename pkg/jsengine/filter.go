// Package jsengine evaluates user-supplied JavaScript filter
// expressions against UI elements. Filters narrow discovery and scoring
// output from the CLI, e.g.:
//
//	element.clickable && element.text.length > 0
//	element.resourceId.indexOf("btn") >= 0
//	element.bounds.width > 100 && !element.hidden
//
// Expressions are compiled once and evaluated per element.
package jsengine

import (
	"github.com/devicelab-dev/ui-inspector/pkg/core"
	"github.com/devicelab-dev/ui-inspector/pkg/element"
	"github.com/dop251/goja"
)

// Filter is a compiled boolean expression over one element.
type Filter struct {
	src  string
	prog *goja.Program
}

// Compile parses and compiles the expression. Syntax errors surface as
// ErrInvalidFilter.
func Compile(expr string) (*Filter, error) {
	if expr == "" {
		return nil, core.ErrInvalidFilter.WithMessage("filter expression is empty")
	}
	prog, err := goja.Compile("filter", expr, true)
	if err != nil {
		return nil, core.ErrInvalidFilter.WithCause(err)
	}
	return &Filter{src: expr, prog: prog}, nil
}

// Match evaluates the expression with the element bound as `element`.
// Runtime errors (unknown identifiers, type errors) surface as
// ErrInvalidFilter with the underlying cause.
func (f *Filter) Match(e *element.UIElement) (bool, error) {
	rt := goja.New()
	if err := rt.Set("element", bind(e)); err != nil {
		return false, err
	}

	v, err := rt.RunProgram(f.prog)
	if err != nil {
		return false, core.ErrInvalidFilter.WithCause(err)
	}
	return v.ToBoolean(), nil
}

// Apply returns the elements matching the filter, preserving order.
// The first runtime error aborts the scan.
func (f *Filter) Apply(elements []*element.UIElement) ([]*element.UIElement, error) {
	var out []*element.UIElement
	for _, e := range elements {
		ok, err := f.Match(e)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, e)
		}
	}
	return out, nil
}

// bind exposes the element to the script as a plain object.
func bind(e *element.UIElement) map[string]interface{} {
	return map[string]interface{}{
		"id":          e.ID,
		"text":        e.Text,
		"resourceId":  e.ResourceID,
		"contentDesc": e.ContentDesc,
		"className":   e.ClassName,
		"clickable":   e.Clickable,
		"scrollable":  e.Scrollable,
		"enabled":     e.Enabled,
		"checkable":   e.Checkable,
		"checked":     e.Checked,
		"selected":    e.Selected,
		"focused":     e.Focused,
		"hidden":      e.IsHidden(),
		"bounds": map[string]interface{}{
			"left":   e.Bounds.Left,
			"top":    e.Bounds.Top,
			"right":  e.Bounds.Right,
			"bottom": e.Bounds.Bottom,
			"width":  e.Bounds.Width(),
			"height": e.Bounds.Height(),
		},
	}
}
