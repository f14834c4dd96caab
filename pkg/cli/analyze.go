package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/devicelab-dev/ui-inspector/pkg/hierarchy"
	"github.com/devicelab-dev/ui-inspector/pkg/logger"
	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"
)

var analyzeCommand = &cli.Command{
	Name:      "analyze",
	Usage:     "Rebuild the containment hierarchy from a dump file",
	ArgsUsage: "[dump.xml]",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "filter",
			Usage: "JavaScript expression to pre-filter elements (e.g. 'element.clickable')",
		},
		&cli.BoolFlag{
			Name:  "trace",
			Usage: "Log every attachment decision",
		},
	},
	Action: runAnalyze,
}

func runAnalyze(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	elements, err := resolveElements(c)
	if err != nil {
		return err
	}

	builder := hierarchy.NewBuilder(cfg)
	if c.Bool("trace") {
		builder = builder.WithTracer(hierarchy.LogTracer{})
	}
	result, err := builder.Build(elements)
	if err != nil {
		return err
	}
	logger.Info("analyzed %d elements, depth %d", result.Size(), result.MaxDepth)

	switch c.String("output") {
	case "yaml":
		return printYAML(treeSummary(result))
	case "json":
		return printJSON(treeSummary(result))
	default:
		printTree(result)
		return nil
	}
}

// nodeSummary is the serializable view of a hierarchy node.
type nodeSummary struct {
	ID       string        `yaml:"id" json:"id"`
	Label    string        `yaml:"label,omitempty" json:"label,omitempty"`
	Class    string        `yaml:"class,omitempty" json:"class,omitempty"`
	Bounds   string        `yaml:"bounds,omitempty" json:"bounds,omitempty"`
	Reason   string        `yaml:"attached,omitempty" json:"attached,omitempty"`
	Children []nodeSummary `yaml:"children,omitempty" json:"children,omitempty"`
}

type analysisSummary struct {
	Elements int          `yaml:"elements" json:"elements"`
	MaxDepth int          `yaml:"max_depth" json:"max_depth"`
	Leaves   int          `yaml:"leaves" json:"leaves"`
	Root     *nodeSummary `yaml:"root,omitempty" json:"root,omitempty"`
}

func treeSummary(result *hierarchy.AnalysisResult) analysisSummary {
	summary := analysisSummary{
		Elements: result.Size(),
		MaxDepth: result.MaxDepth,
		Leaves:   len(result.Leaves),
	}
	if result.Root != nil {
		root := summarizeNode(result.Root)
		summary.Root = &root
	}
	return summary
}

func summarizeNode(n *hierarchy.Node) nodeSummary {
	s := nodeSummary{
		ID:     n.Element.ID,
		Label:  n.Element.Label(),
		Class:  n.Element.ShortClass(),
		Reason: string(n.Reason),
	}
	if n.Element.BoundsValid {
		s.Bounds = n.Element.Bounds.String()
	}
	for _, child := range n.Children {
		s.Children = append(s.Children, summarizeNode(child))
	}
	return s
}

func printTree(result *hierarchy.AnalysisResult) {
	if result.Root == nil {
		fmt.Println("(empty hierarchy)")
		return
	}
	fmt.Printf("%d elements, depth %d, %d leaves\n\n", result.Size(), result.MaxDepth, len(result.Leaves))
	printNode(result.Root, "", true)
}

func printNode(n *hierarchy.Node, prefix string, last bool) {
	connector := "├── "
	childPrefix := prefix + "│   "
	if last {
		connector = "└── "
		childPrefix = prefix + "    "
	}
	if n.Parent == nil {
		connector = ""
		childPrefix = ""
	}

	var parts []string
	parts = append(parts, n.Element.ShortClass())
	if label := n.Element.Label(); label != "" {
		parts = append(parts, fmt.Sprintf("%q", label))
	}
	if n.Element.BoundsValid {
		parts = append(parts, n.Element.Bounds.String())
	} else {
		parts = append(parts, "(hidden)")
	}
	if n.Reason != hierarchy.AttachGeometric && n.Reason != hierarchy.AttachNone {
		parts = append(parts, "["+string(n.Reason)+"]")
	}

	fmt.Printf("%s%s%s\n", prefix, connector, strings.Join(parts, " "))
	for i, child := range n.Children {
		printNode(child, childPrefix, i == len(n.Children)-1)
	}
}

func printYAML(v interface{}) error {
	data, err := yaml.Marshal(v)
	if err != nil {
		return err
	}
	fmt.Print(string(data))
	return nil
}

func printJSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}
