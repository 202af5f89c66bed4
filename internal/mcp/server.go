// Package mcp exposes the generator as Model Context Protocol tools over
// stdio:
//
//   - generate_debug_config: build a target and merge its launch entry
//   - list_debug_configs: summarise the entries of an existing launch.json
package mcp

import (
	"github.com/mark3labs/mcp-go/server"
	"github.com/sirupsen/logrus"

	"github.com/ctagard/bazel-debug-config/internal/config"
	"github.com/ctagard/bazel-debug-config/internal/generator"
	"github.com/ctagard/bazel-debug-config/internal/version"
)

// Server wraps the MCP server around a generator.
type Server struct {
	mcpServer *server.MCPServer
	generator *generator.Generator
	config    *config.Config
	log       logrus.FieldLogger
}

// NewServer creates a server. The generator's bazel runner must not write to
// stdout, which carries the protocol.
func NewServer(cfg *config.Config, gen *generator.Generator, log logrus.FieldLogger) *Server {
	mcpServer := server.NewMCPServer(
		"bazel-debug-config",
		version.GetVersion(),
		server.WithToolCapabilities(true),
		server.WithRecovery(),
	)
	if log == nil {
		log = logrus.StandardLogger()
	}

	s := &Server{
		mcpServer: mcpServer,
		generator: gen,
		config:    cfg,
		log:       log,
	}
	s.registerTools()
	return s
}

// ServeStdio starts the server using stdio transport
func (s *Server) ServeStdio() error {
	s.log.Info("MCP server listening on stdio")
	return server.ServeStdio(s.mcpServer)
}
