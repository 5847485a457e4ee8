package mcp

import (
	"sync"

	"github.com/mark3labs/mcp-go/server"

	"github.com/gnana997/semindex/pkg/inherit"
	"github.com/gnana997/semindex/pkg/mcplog"
	"github.com/gnana997/semindex/pkg/parser"
	"github.com/gnana997/semindex/pkg/parser/queries"
	"github.com/gnana997/semindex/pkg/project"
	"github.com/gnana997/semindex/pkg/xref"
)

const serverVersion = "0.1.0-dev"

// Server exposes a project.Index over MCP (§7): resolution and
// override queries for any MCP client, plus an update_file tool so a
// client can push a change and see it reflected in later queries
// without restarting the process.
type Server struct {
	mcpServer *server.MCPServer
	proj      *project.Index
	pm        *parser.ParserManager
	qm        *queries.QueryManager
	logger    *mcplog.Logger // may be nil if logging is disabled

	mu        sync.RWMutex
	overrides *inherit.Tracker // latest xref.Run output, refreshed by update_file
}

// NewServer creates an MCP server over proj. pm/qm are the same
// ParserManager/QueryManager a prior workspace scan used to build proj;
// update_file reuses them rather than spinning up a fresh parser pool
// per call. Pass nil for logger to disable tool-call logging.
func NewServer(proj *project.Index, pm *parser.ParserManager, qm *queries.QueryManager, logger *mcplog.Logger) *Server {
	s := &Server{proj: proj, pm: pm, qm: qm, logger: logger}
	s.overrides = xref.Run(proj).Overrides

	opts := []server.ServerOption{
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	}
	if logger != nil {
		opts = append(opts, server.WithToolHandlerMiddleware(s.loggingMiddleware()))
	}

	s.mcpServer = server.NewMCPServer("semindex", serverVersion, opts...)

	s.mcpServer.AddTools(
		server.ServerTool{Tool: resolveReferenceTool(), Handler: s.handleResolveReference},
		server.ServerTool{Tool: findOverridingMethodsTool(), Handler: s.handleFindOverridingMethods},
		server.ServerTool{Tool: findOverriddenMethodTool(), Handler: s.handleFindOverriddenMethod},
		server.ServerTool{Tool: getOverrideChainTool(), Handler: s.handleGetOverrideChain},
		server.ServerTool{Tool: getFileIndexTool(), Handler: s.handleGetFileIndex},
		server.ServerTool{Tool: updateFileTool(), Handler: s.handleUpdateFile},
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// Close shuts down the logger if one is active. Should be deferred after NewServer.
func (s *Server) Close() error {
	if s.logger != nil {
		return s.logger.Close()
	}
	return nil
}

func (s *Server) overrideTracker() *inherit.Tracker {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.overrides
}

func (s *Server) setOverrideTracker(t *inherit.Tracker) {
	s.mu.Lock()
	s.overrides = t
	s.mu.Unlock()
}
