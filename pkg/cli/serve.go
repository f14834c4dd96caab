package cli

import (
	"github.com/devicelab-dev/ui-inspector/pkg/server"
	"github.com/urfave/cli/v2"
)

var serveCommand = &cli.Command{
	Name:  "serve",
	Usage: "Run the MCP server so agents can query hierarchies",
	Flags: []cli.Flag{
		&cli.IntFlag{
			Name:    "port",
			Aliases: []string{"p"},
			Usage:   "Serve streamable HTTP on this port instead of stdio",
		},
	},
	Action: runServe,
}

func runServe(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	srv := server.New(cfg, Version)
	if port := c.Int("port"); port > 0 {
		return srv.ServeHTTP(port)
	}
	return srv.ServeStdio()
}
