// Package dump parses Android UI dump XML into the flat element list
// consumed by the hierarchy builder. Any structure present in the XML is
// deliberately discarded: the builder reconstructs containment from
// bounds alone, so both well-nested and pre-flattened dumps are handled
// the same way.
package dump

import (
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/devicelab-dev/ui-inspector/pkg/core"
	"github.com/devicelab-dev/ui-inspector/pkg/element"
)

// Parse parses Android UI hierarchy XML into a flat element list.
// Supports both formats:
// - UIAutomator dump: uses class name as element tag (e.g., <android.widget.FrameLayout>)
// - Appium format: uses <node> elements with a class attribute
// Source order is preserved; elements without an id attribute are
// assigned sequential ids ("elem-0", "elem-1", ...).
func Parse(xmlData string) ([]*element.UIElement, error) {
	decoder := xml.NewDecoder(strings.NewReader(xmlData))

	var elements []*element.UIElement
	foundHierarchy := false

	var parseErr error
	depth := 0
	for {
		token, err := decoder.Token()
		if err != nil {
			if err.Error() != "EOF" {
				parseErr = err
			}
			break
		}

		switch t := token.(type) {
		case xml.StartElement:
			if t.Name.Local == "hierarchy" {
				foundHierarchy = true
				continue
			}
			depth++
			elements = append(elements, fromStartElement(t, len(elements)))
		case xml.EndElement:
			if t.Name.Local != "hierarchy" && depth > 0 {
				depth--
			}
		}
	}

	if parseErr != nil && len(elements) == 0 {
		return nil, core.ErrInvalidInput.WithCause(parseErr)
	}
	if !foundHierarchy {
		return nil, core.ErrEmptyDump
	}

	return elements, nil
}

// fromStartElement maps one XML node to a canonical element. The tag
// name doubles as the class name in UIAutomator dumps; a class attribute
// overrides it when present (Appium <node> format).
func fromStartElement(t xml.StartElement, index int) *element.UIElement {
	e := &element.UIElement{
		Enabled: true,
	}
	if t.Name.Local != "node" {
		e.ClassName = t.Name.Local
	}

	for _, attr := range t.Attr {
		switch attr.Name.Local {
		case "id":
			e.ID = attr.Value
		case "text":
			e.Text = attr.Value
		case "resource-id":
			e.ResourceID = attr.Value
		case "content-desc":
			e.ContentDesc = attr.Value
		case "class":
			e.ClassName = attr.Value
		case "bounds":
			e.Bounds, e.BoundsValid = core.ParseRect(attr.Value)
		case "clickable":
			e.Clickable = attr.Value == "true"
		case "scrollable":
			e.Scrollable = attr.Value == "true"
		case "enabled":
			e.Enabled = attr.Value != "false"
		case "checkable":
			e.Checkable = attr.Value == "true"
		case "checked":
			e.Checked = attr.Value == "true"
		case "selected":
			e.Selected = attr.Value == "true"
		case "focused":
			e.Focused = attr.Value == "true"
		}
	}

	if e.ID == "" {
		e.ID = fmt.Sprintf("elem-%d", index)
	}
	return e
}
