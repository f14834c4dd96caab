package cli

import (
	"fmt"
	"sort"

	"github.com/devicelab-dev/ui-inspector/pkg/quality"
	"github.com/urfave/cli/v2"
)

var scoreCommand = &cli.Command{
	Name:      "score",
	Usage:     "Rank elements by automation reliability",
	ArgsUsage: "[dump.xml]",
	Flags: []cli.Flag{
		&cli.IntFlag{
			Name:  "top",
			Usage: "Only show the N highest-scoring elements (0 = all)",
		},
		&cli.StringFlag{
			Name:  "filter",
			Usage: "JavaScript expression to pre-filter elements",
		},
	},
	Action: runScore,
}

// scoredElement pairs an element with its quality breakdown for output.
type scoredElement struct {
	ID      string                 `yaml:"id" json:"id"`
	Label   string                 `yaml:"label,omitempty" json:"label,omitempty"`
	Class   string                 `yaml:"class,omitempty" json:"class,omitempty"`
	Quality quality.ElementQuality `yaml:"quality" json:"quality"`
}

func runScore(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	elements, err := resolveElements(c)
	if err != nil {
		return err
	}

	scorer := quality.NewScorer(cfg)
	scored := make([]scoredElement, 0, len(elements))
	for _, e := range elements {
		scored = append(scored, scoredElement{
			ID:      e.ID,
			Label:   e.Label(),
			Class:   e.ShortClass(),
			Quality: scorer.Score(e),
		})
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Quality.TotalScore > scored[j].Quality.TotalScore
	})
	if top := c.Int("top"); top > 0 && top < len(scored) {
		scored = scored[:top]
	}

	switch c.String("output") {
	case "yaml":
		return printYAML(scored)
	case "json":
		return printJSON(scored)
	default:
		printScores(scored)
		return nil
	}
}

func printScores(scored []scoredElement) {
	fmt.Printf("%-10s %-6s %-5s %-5s %-5s %-5s %s\n", "id", "total", "text", "uniq", "stab", "match", "label")
	for _, s := range scored {
		fmt.Printf("%-10s %-6.1f %-5d %-5d %-5d %-5d %s\n",
			s.ID, s.Quality.TotalScore,
			s.Quality.TextScore, s.Quality.UniquenessScore,
			s.Quality.StabilityScore, s.Quality.MatchabilityScore,
			s.Label)
	}
}
