// Package element defines the canonical UI element type consumed by the
// hierarchy and discovery engines. Legacy attribute aliases from older
// dump formats are normalized here once, at the ingestion boundary.
package element

import (
	"encoding/json"
	"strings"

	"github.com/devicelab-dev/ui-inspector/pkg/core"
)

// UIElement is one element from a flattened screen dump. It carries only
// leaf attributes and a bounding rect; parent/child structure is inferred
// later by the hierarchy builder. Treated as read-only by the engines.
type UIElement struct {
	ID          string    `json:"id"`
	Text        string    `json:"text,omitempty"`
	ResourceID  string    `json:"resourceId,omitempty"`
	ContentDesc string    `json:"contentDesc,omitempty"`
	ClassName   string    `json:"className,omitempty"`
	Bounds      core.Rect `json:"bounds"`
	BoundsValid bool      `json:"boundsValid"`

	Clickable  bool `json:"clickable,omitempty"`
	Scrollable bool `json:"scrollable,omitempty"`
	Enabled    bool `json:"enabled,omitempty"`
	Checkable  bool `json:"checkable,omitempty"`
	Checked    bool `json:"checked,omitempty"`
	Selected   bool `json:"selected,omitempty"`
	Focused    bool `json:"focused,omitempty"`
}

// rawElement captures every attribute alias seen across dump formats.
// Older exporters write resource_id / content_desc / class; newer ones
// write resourceId / description / type. Bounds may arrive as the
// bracketed string or as a structured rect.
type rawElement struct {
	ID           string     `json:"id"`
	Text         string     `json:"text"`
	ResourceID   string     `json:"resourceId"`
	ResourceIDKk string     `json:"resource_id"`
	ResourceIDHy string     `json:"resource-id"`
	ContentDesc  string     `json:"contentDesc"`
	ContentDesc2 string     `json:"content_desc"`
	ContentDesc3 string     `json:"content-desc"`
	Description  string     `json:"description"`
	ClassName    string     `json:"className"`
	Class        string     `json:"class"`
	Type         string     `json:"type"`
	Bounds       *core.Rect `json:"bounds"`
	BoundsStr    string     `json:"boundsString"`

	Clickable  bool  `json:"clickable"`
	Scrollable bool  `json:"scrollable"`
	Enabled    *bool `json:"enabled"`
	Checkable  bool  `json:"checkable"`
	Checked    bool  `json:"checked"`
	Selected   bool  `json:"selected"`
	Focused    bool  `json:"focused"`
}

// UnmarshalJSON normalizes legacy field aliases into the canonical form.
func (e *UIElement) UnmarshalJSON(data []byte) error {
	// Bounds may be a string or a structured object; probe with a raw map
	// first so both forms land in rawElement correctly.
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return err
	}

	var raw rawElement
	if b, ok := probe["bounds"]; ok {
		var s string
		if json.Unmarshal(b, &s) == nil {
			raw.BoundsStr = s
			delete(probe, "bounds")
		}
	}
	remain, err := json.Marshal(probe)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(remain, &raw); err != nil {
		return err
	}

	*e = raw.canonical()
	return nil
}

func (r rawElement) canonical() UIElement {
	e := UIElement{
		ID:          r.ID,
		Text:        r.Text,
		ResourceID:  firstNonEmpty(r.ResourceID, r.ResourceIDKk, r.ResourceIDHy),
		ContentDesc: firstNonEmpty(r.ContentDesc, r.ContentDesc2, r.ContentDesc3, r.Description),
		ClassName:   firstNonEmpty(r.ClassName, r.Class, r.Type),
		Clickable:   r.Clickable,
		Scrollable:  r.Scrollable,
		Checkable:   r.Checkable,
		Checked:     r.Checked,
		Selected:    r.Selected,
		Focused:     r.Focused,
		Enabled:     true,
	}
	if r.Enabled != nil {
		e.Enabled = *r.Enabled
	}
	e.Bounds, e.BoundsValid = core.NormalizeBounds(r.Bounds, r.BoundsStr)
	return e
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// HasText reports whether the element carries visible text.
func (e *UIElement) HasText() bool {
	return strings.TrimSpace(e.Text) != ""
}

// IsHidden reports whether the element's rect collapsed to zero area.
func (e *UIElement) IsHidden() bool {
	return e.BoundsValid && e.Bounds.IsHidden()
}

// IDNamespace returns the resource-id prefix before the "/" separator,
// e.g. "com.app:id" for "com.app:id/login_btn". Empty when there is no
// resource id or no separator.
func (e *UIElement) IDNamespace() string {
	idx := strings.Index(e.ResourceID, "/")
	if idx <= 0 {
		return ""
	}
	return e.ResourceID[:idx]
}

// ShortID returns the resource-id suffix after the "/" separator, or the
// whole id when there is no separator.
func (e *UIElement) ShortID() string {
	idx := strings.Index(e.ResourceID, "/")
	if idx < 0 {
		return e.ResourceID
	}
	return e.ResourceID[idx+1:]
}

// ShortClass returns the class name without its package prefix,
// e.g. "TextView" for "android.widget.TextView".
func (e *UIElement) ShortClass() string {
	idx := strings.LastIndex(e.ClassName, ".")
	if idx < 0 {
		return e.ClassName
	}
	return e.ClassName[idx+1:]
}

// IsContainerClass reports whether the element's class looks like a
// layout or container widget.
func (e *UIElement) IsContainerClass() bool {
	short := strings.ToLower(e.ShortClass())
	for _, kw := range []string{"layout", "group", "container", "recycler", "list", "scroll", "pager", "toolbar", "drawer"} {
		if strings.Contains(short, kw) {
			return true
		}
	}
	return false
}

// IsTextClass reports whether the element's class is a text-bearing
// widget (TextView, Button, EditText and friends).
func (e *UIElement) IsTextClass() bool {
	short := strings.ToLower(e.ShortClass())
	for _, kw := range []string{"text", "button", "edit", "label", "check"} {
		if strings.Contains(short, kw) {
			return true
		}
	}
	return false
}

// Label returns the best human-readable identifier for the element,
// used in breadcrumb paths and trace output.
func (e *UIElement) Label() string {
	switch {
	case e.HasText():
		return e.Text
	case e.ContentDesc != "":
		return e.ContentDesc
	case e.ResourceID != "":
		return e.ShortID()
	case e.ClassName != "":
		return e.ShortClass()
	default:
		return e.ID
	}
}
