// Package cli provides the command-line interface for ui-inspector.
package cli

import (
	"fmt"
	"os"

	"github.com/devicelab-dev/ui-inspector/pkg/config"
	"github.com/devicelab-dev/ui-inspector/pkg/device"
	"github.com/devicelab-dev/ui-inspector/pkg/dump"
	"github.com/devicelab-dev/ui-inspector/pkg/element"
	"github.com/devicelab-dev/ui-inspector/pkg/jsengine"
	"github.com/devicelab-dev/ui-inspector/pkg/logger"
	"github.com/urfave/cli/v2"
)

// Version is set at build time.
var Version = "dev"

// GlobalFlags are available to all commands.
var GlobalFlags = []cli.Flag{
	&cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to ui-inspector.yaml (defaults to the working directory)",
		EnvVars: []string{"UI_INSPECTOR_CONFIG"},
	},
	&cli.StringFlag{
		Name:    "log-file",
		Usage:   "Write diagnostics to a file instead of stderr",
		EnvVars: []string{"UI_INSPECTOR_LOG"},
	},
	&cli.BoolFlag{
		Name:    "verbose",
		Aliases: []string{"v"},
		Usage:   "Enable debug logging",
		EnvVars: []string{"UI_INSPECTOR_VERBOSE"},
	},
	&cli.StringFlag{
		Name:    "output",
		Aliases: []string{"o"},
		Usage:   "Output format (text, yaml, json)",
		Value:   "text",
	},
	&cli.StringFlag{
		Name:    "serial",
		Aliases: []string{"s"},
		Usage:   "Device serial for live capture (default: first connected device)",
		EnvVars: []string{"ANDROID_SERIAL"},
	},
}

// Execute runs the CLI.
func Execute() {
	app := &cli.App{
		Name:    "ui-inspector",
		Usage:   "Reconstruct and query Android UI hierarchies from screen dumps",
		Version: Version,
		Description: `ui-inspector rebuilds a containment hierarchy from a flattened
UI dump, scores elements for automation reliability, and answers
relationship queries against the rebuilt tree.

Examples:
  ui-inspector analyze dump.xml
  ui-inspector discover dump.xml --target elem-12
  ui-inspector score dump.xml --top 10
  ui-inspector serve`,
		Flags: GlobalFlags,
		Before: func(c *cli.Context) error {
			if err := logger.Init(c.String("log-file")); err != nil {
				return err
			}
			if c.Bool("verbose") {
				logger.SetLevel(logger.LevelDebug)
			}
			return nil
		},
		Commands: []*cli.Command{
			analyzeCommand,
			discoverCommand,
			scoreCommand,
			serveCommand,
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig resolves the analysis configuration for a command.
func loadConfig(c *cli.Context) (*config.Config, error) {
	if path := c.String("config"); path != "" {
		return config.Load(path)
	}
	wd, err := os.Getwd()
	if err != nil {
		return config.Default(), nil
	}
	return config.LoadFromDir(wd)
}

// resolveElements produces the element list for a command: from the
// dump file argument when given, otherwise by capturing a live dump
// from a connected device.
func resolveElements(c *cli.Context) ([]*element.UIElement, error) {
	if c.NArg() >= 1 {
		return loadElements(c, c.Args().First())
	}
	return captureElements(c)
}

// loadElements reads and parses a dump file, applying the optional
// --filter expression.
func loadElements(c *cli.Context, path string) ([]*element.UIElement, error) {
	data, err := os.ReadFile(path) //#nosec G304 -- user-provided dump file
	if err != nil {
		return nil, err
	}
	return parseAndFilter(c, string(data))
}

// captureElements pulls a fresh dump from a connected device via adb.
func captureElements(c *cli.Context) ([]*element.UIElement, error) {
	d, err := device.New(c.String("serial"))
	if err != nil {
		return nil, err
	}
	logger.Info("capturing dump from device %s", d.Serial())
	xml, err := d.CaptureDump()
	if err != nil {
		return nil, err
	}
	return parseAndFilter(c, xml)
}

func parseAndFilter(c *cli.Context, xmlData string) ([]*element.UIElement, error) {
	elements, err := dump.Parse(xmlData)
	if err != nil {
		return nil, err
	}
	if expr := c.String("filter"); expr != "" {
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
