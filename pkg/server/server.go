// Package server exposes hierarchy analysis over the Model Context
// Protocol so agents can query screens without shelling out to the CLI.
package server

import (
	"fmt"

	"github.com/devicelab-dev/ui-inspector/pkg/config"
	"github.com/devicelab-dev/ui-inspector/pkg/discovery"
	"github.com/devicelab-dev/ui-inspector/pkg/logger"
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

// Server wraps the MCP server with the analysis configuration and a
// session guard that drops overlapping analysis runs.
type Server struct {
	cfg     *config.Config
	session *discovery.Session
	mcp     *mcpserver.MCPServer
}

// New creates an MCP server with all ui-inspector tools registered.
func New(cfg *config.Config, version string) *Server {
	if cfg == nil {
		cfg = config.Default()
	}
	s := &Server{
		cfg:     cfg,
		session: &discovery.Session{},
	}
	s.mcp = mcpserver.NewMCPServer(
		"ui-inspector",
		version,
	)
	s.registerTools()
	return s
}

// ServeStdio serves MCP over stdin/stdout.
func (s *Server) ServeStdio() error {
	logger.Info("serving MCP on stdio")
	return mcpserver.ServeStdio(s.mcp)
}

// ServeHTTP serves MCP over streamable HTTP on the given port.
func (s *Server) ServeHTTP(port int) error {
	logger.Info("serving MCP on :%d", port)
	httpServer := mcpserver.NewStreamableHTTPServer(s.mcp)
	return httpServer.Start(fmt.Sprintf(":%d", port))
}

func (s *Server) registerTools() {
	s.mcp.AddTool(
		mcp.NewTool("analyze_hierarchy",
			mcp.WithDescription("Rebuild the containment hierarchy from a flattened Android UI dump. Returns the tree with attachment reasons, depth and leaf counts."),
			mcp.WithString("dump", mcp.Description("UI dump XML content")),
			mcp.WithString("dump_path", mcp.Description("Path to a UI dump XML file (alternative to dump)")),
			mcp.WithBoolean("from_device", mcp.Description("Capture a live dump from a connected Android device via adb")),
			mcp.WithString("serial", mcp.Description("Device serial for live capture (default: first connected device)")),
			mcp.WithString("filter", mcp.Description("JavaScript expression to pre-filter elements (e.g. 'element.clickable')")),
		),
		s.handleAnalyze,
	)

	s.mcp.AddTool(
		mcp.NewTool("discover_elements",
			mcp.WithDescription("Find elements related to a target: parents, children, siblings and recommended interaction candidates with confidence scores."),
			mcp.WithString("target", mcp.Description("Element id to discover around (e.g. elem-12)"), mcp.Required()),
			mcp.WithString("dump", mcp.Description("UI dump XML content")),
			mcp.WithString("dump_path", mcp.Description("Path to a UI dump XML file (alternative to dump)")),
			mcp.WithBoolean("from_device", mcp.Description("Capture a live dump from a connected Android device via adb")),
			mcp.WithString("serial", mcp.Description("Device serial for live capture (default: first connected device)")),
			mcp.WithString("filter", mcp.Description("JavaScript expression to pre-filter elements")),
		),
		s.handleDiscover,
	)

	s.mcp.AddTool(
		mcp.NewTool("score_elements",
			mcp.WithDescription("Rank elements by automation reliability: text quality, uniqueness, stability and matchability sub-scores plus a weighted total."),
			mcp.WithString("dump", mcp.Description("UI dump XML content")),
			mcp.WithString("dump_path", mcp.Description("Path to a UI dump XML file (alternative to dump)")),
			mcp.WithBoolean("from_device", mcp.Description("Capture a live dump from a connected Android device via adb")),
			mcp.WithString("serial", mcp.Description("Device serial for live capture (default: first connected device)")),
			mcp.WithString("filter", mcp.Description("JavaScript expression to pre-filter elements")),
			mcp.WithNumber("top", mcp.Description("Only return the N highest-scoring elements (0 = all)")),
		),
		s.handleScore,
	)

	s.mcp.AddTool(
		mcp.NewTool("find_clickable_ancestor",
			mcp.WithDescription("Walk up from a target element to its nearest clickable ancestor, the element a tap should actually target."),
			mcp.WithString("target", mcp.Description("Element id to start from"), mcp.Required()),
			mcp.WithString("dump", mcp.Description("UI dump XML content")),
			mcp.WithString("dump_path", mcp.Description("Path to a UI dump XML file (alternative to dump)")),
			mcp.WithBoolean("from_device", mcp.Description("Capture a live dump from a connected Android device via adb")),
			mcp.WithString("serial", mcp.Description("Device serial for live capture (default: first connected device)")),
		),
		s.handleClickableAncestor,
	)
}
