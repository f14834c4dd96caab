package cli

import (
	"fmt"

	"github.com/devicelab-dev/ui-inspector/pkg/discovery"
	"github.com/devicelab-dev/ui-inspector/pkg/hierarchy"
	"github.com/urfave/cli/v2"
)

var discoverCommand = &cli.Command{
	Name:      "discover",
	Usage:     "List related elements around a target element",
	ArgsUsage: "[dump.xml]",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     "target",
			Aliases:  []string{"t"},
			Usage:    "Element id to discover around (e.g. elem-12)",
			Required: true,
		},
		&cli.StringFlag{
			Name:  "filter",
			Usage: "JavaScript expression to pre-filter elements",
		},
		&cli.BoolFlag{
			Name:  "clickable-ancestor",
			Usage: "Only report the nearest clickable ancestor of the target",
		},
	},
	Action: runDiscover,
}

func runDiscover(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	elements, err := resolveElements(c)
	if err != nil {
		return err
	}
	result, err := hierarchy.NewBuilder(cfg).Build(elements)
	if err != nil {
		return err
	}

	engine := discovery.NewEngine(cfg)
	target := c.String("target")

	if c.Bool("clickable-ancestor") {
		anc := engine.NearestClickableAncestor(target, result)
		if anc == nil {
			fmt.Printf("no clickable ancestor found for %s\n", target)
			return nil
		}
		fmt.Printf("%s %s %q\n", anc.ID, anc.ShortClass(), anc.Label())
		return nil
	}

	disc := engine.Discover(target, result)

	switch c.String("output") {
	case "yaml":
		return printYAML(disc)
	case "json":
		return printJSON(disc)
	default:
		printDiscovery(disc)
		return nil
	}
}

func printDiscovery(d *discovery.Discovery) {
	if d.Message != "" {
		fmt.Println(d.Message)
		if d.Self == nil {
			return
		}
	}
	if d.Promoted {
		fmt.Printf("target promoted from %s to clickable ancestor %s\n", d.PromotedFrom, d.Self.Element.ID)
	}
	if d.Self != nil {
		fmt.Printf("target: %s %s %q\n\n", d.Self.Element.ID, d.Self.Element.ShortClass(), d.Self.Element.Label())
	}

	printGroup("parents", d.Parents)
	printGroup("children", d.Children)
	printGroup("siblings", d.Siblings)
	printGroup("recommended", d.Recommended)
}

func printGroup(name string, items []discovery.DiscoveredElement) {
	if len(items) == 0 {
		return
	}
	fmt.Printf("%s (%d):\n", name, len(items))
	for _, item := range items {
		label := item.Element.Label()
		if label == "" {
			label = item.Element.ShortClass()
		}
		fmt.Printf("  %.2f %-10s %s %q\n", item.Confidence, item.Relationship, item.Element.ID, label)
	}
	fmt.Println()
}
