package server

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/devicelab-dev/ui-inspector/pkg/device"
	"github.com/devicelab-dev/ui-inspector/pkg/discovery"
	"github.com/devicelab-dev/ui-inspector/pkg/dump"
	"github.com/devicelab-dev/ui-inspector/pkg/element"
	"github.com/devicelab-dev/ui-inspector/pkg/hierarchy"
	"github.com/devicelab-dev/ui-inspector/pkg/jsengine"
	"github.com/devicelab-dev/ui-inspector/pkg/quality"
	"github.com/mark3labs/mcp-go/mcp"
	"gopkg.in/yaml.v3"
)

// stringParam extracts a string parameter with a default.
func stringParam(params map[string]interface{}, key, def string) string {
	if v, ok := params[key].(string); ok {
		return v
	}
	return def
}

// boolParam extracts a bool parameter with a default.
func boolParam(params map[string]interface{}, key string, def bool) bool {
	if v, ok := params[key].(bool); ok {
		return v
	}
	return def
}

// intParam extracts an int parameter with a default. MCP numbers arrive
// as float64.
func intParam(params map[string]interface{}, key string, def int) int {
	switch v := params[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	}
	return def
}

// loadElements resolves the dump/dump_path/filter parameters shared by
// every tool into a parsed element list.
func (s *Server) loadElements(params map[string]interface{}) ([]*element.UIElement, error) {
	xmlData := stringParam(params, "dump", "")
	if xmlData == "" {
		if path := stringParam(params, "dump_path", ""); path != "" {
			data, err := os.ReadFile(path) //#nosec G304 -- caller-provided dump file
			if err != nil {
				return nil, err
			}
			xmlData = string(data)
		} else if boolParam(params, "from_device", false) {
			d, err := device.New(stringParam(params, "serial", ""))
			if err != nil {
				return nil, err
			}
			xmlData, err = d.CaptureDump()
			if err != nil {
				return nil, err
			}
		} else {
			return nil, fmt.Errorf("one of dump, dump_path or from_device is required")
		}
	}

	elements, err := dump.Parse(xmlData)
	if err != nil {
		return nil, err
	}
	if expr := stringParam(params, "filter", ""); expr != "" {
		f, err := jsengine.Compile(expr)
		if err != nil {
			return nil, err
		}
		elements, err = f.Apply(elements)
		if err != nil {
			return nil, err
		}
	}
	return elements, nil
}

func (s *Server) build(params map[string]interface{}) (*hierarchy.AnalysisResult, error) {
	elements, err := s.loadElements(params)
	if err != nil {
		return nil, err
	}
	return hierarchy.NewBuilder(s.cfg).Build(elements)
}

// toText serializes a tool result to YAML.
func toText(v interface{}) (*mcp.CallToolResult, error) {
	b, err := yaml.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(b)), nil
}

// nodeView is the serializable view of a hierarchy node.
type nodeView struct {
	ID       string     `yaml:"id"`
	Label    string     `yaml:"label,omitempty"`
	Class    string     `yaml:"class,omitempty"`
	Bounds   string     `yaml:"bounds,omitempty"`
	Hidden   bool       `yaml:"hidden,omitempty"`
	Attached string     `yaml:"attached,omitempty"`
	Children []nodeView `yaml:"children,omitempty"`
}

type analysisView struct {
	Elements int       `yaml:"elements"`
	MaxDepth int       `yaml:"maxDepth"`
	Leaves   int       `yaml:"leaves"`
	Root     *nodeView `yaml:"root,omitempty"`
}

func viewNode(n *hierarchy.Node) nodeView {
	v := nodeView{
		ID:       n.Element.ID,
		Label:    n.Element.Label(),
		Class:    n.Element.ShortClass(),
		Hidden:   n.Element.IsHidden(),
		Attached: string(n.Reason),
	}
	if n.Element.BoundsValid {
		v.Bounds = n.Element.Bounds.String()
	}
	for _, child := range n.Children {
		v.Children = append(v.Children, viewNode(child))
	}
	return v
}

func (s *Server) handleAnalyze(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()

	var result *hierarchy.AnalysisResult
	var buildErr error
	if !s.session.TryRun(func() {
		result, buildErr = s.build(params)
	}) {
		return mcp.NewToolResultError("an analysis is already running"), nil
	}
	if buildErr != nil {
		return mcp.NewToolResultError(buildErr.Error()), nil
	}

	view := analysisView{
		Elements: result.Size(),
		MaxDepth: result.MaxDepth,
		Leaves:   len(result.Leaves),
	}
	if result.Root != nil {
		root := viewNode(result.Root)
		view.Root = &root
	}
	return toText(view)
}

func (s *Server) handleDiscover(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()
	target := stringParam(params, "target", "")
	if target == "" {
		return mcp.NewToolResultError("target is required"), nil
	}

	var disc *discovery.Discovery
	var buildErr error
	if !s.session.TryRun(func() {
		var result *hierarchy.AnalysisResult
		result, buildErr = s.build(params)
		if buildErr != nil {
			return
		}
		disc = discovery.NewEngine(s.cfg).Discover(target, result)
	}) {
		return mcp.NewToolResultError("an analysis is already running"), nil
	}
	if buildErr != nil {
		return mcp.NewToolResultError(buildErr.Error()), nil
	}
	return toText(disc)
}

// scoreView pairs an element with its quality breakdown.
type scoreView struct {
	ID      string                 `yaml:"id"`
	Label   string                 `yaml:"label,omitempty"`
	Class   string                 `yaml:"class,omitempty"`
	Quality quality.ElementQuality `yaml:"quality"`
}

func (s *Server) handleScore(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()

	elements, err := s.loadElements(params)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	scorer := quality.NewScorer(s.cfg)
	views := make([]scoreView, 0, len(elements))
	for _, e := range elements {
		views = append(views, scoreView{
			ID:      e.ID,
			Label:   e.Label(),
			Class:   e.ShortClass(),
			Quality: scorer.Score(e),
		})
	}
	sort.SliceStable(views, func(i, j int) bool {
		return views[i].Quality.TotalScore > views[j].Quality.TotalScore
	})
	if top := intParam(params, "top", 0); top > 0 && top < len(views) {
		views = views[:top]
	}
	return toText(views)
}

func (s *Server) handleClickableAncestor(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()
	target := stringParam(params, "target", "")
	if target == "" {
		return mcp.NewToolResultError("target is required"), nil
	}

	result, err := s.build(params)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	anc := discovery.NewEngine(s.cfg).NearestClickableAncestor(target, result)
	if anc == nil {
		return mcp.NewToolResultText(fmt.Sprintf("no clickable ancestor found for %s", target)), nil
	}
	return toText(map[string]interface{}{
		"id":     anc.ID,
		"label":  anc.Label(),
		"class":  anc.ShortClass(),
		"bounds": anc.Bounds.String(),
	})
}
