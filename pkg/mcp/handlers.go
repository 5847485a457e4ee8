package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/gnana997/semindex/pkg/fileindexer"
	"github.com/gnana997/semindex/pkg/index"
	"github.com/gnana997/semindex/pkg/location"
	"github.com/gnana997/semindex/pkg/xref"
)

func requireString(req mcp.CallToolRequest, name string) (string, error) {
	args := req.GetArguments()
	v, ok := args[name]
	if !ok {
		return "", fmt.Errorf("missing required argument %q", name)
	}
	s, ok := v.(string)
	if !ok || s == "" {
		return "", fmt.Errorf("argument %q must be a non-empty string", name)
	}
	return s, nil
}

func requireInt(req mcp.CallToolRequest, name string) (int, error) {
	args := req.GetArguments()
	v, ok := args[name]
	if !ok {
		return 0, fmt.Errorf("missing required argument %q", name)
	}
	f, ok := v.(float64)
	if !ok {
		return 0, fmt.Errorf("argument %q must be a number", name)
	}
	return int(f), nil
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("marshal result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(b)), nil
}

// resolvedReference is resolve_reference's JSON shape.
type resolvedReference struct {
	Name     string `json:"name"`
	Kind     string `json:"kind"`
	Resolved bool   `json:"resolved"`
	SymbolId string `json:"symbol_id,omitempty"`
}

func (s *Server) handleResolveReference(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	file, err := requireString(req, "file")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	line, err := requireInt(req, "line")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	column, err := requireInt(req, "column")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	fi, ok := s.proj.File(location.FilePath(file))
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("file not indexed: %s", file)), nil
	}

	ref := findReferenceAt(fi, line, column)
	if ref == nil {
		return mcp.NewToolResultError(fmt.Sprintf("no reference at %s:%d:%d", file, line, column)), nil
	}

	return jsonResult(resolvedReference{
		Name:     string(ref.Name),
		Kind:     string(ref.Kind),
		Resolved: ref.ResolvedSymbolId != "",
		SymbolId: string(ref.ResolvedSymbolId),
	})
}

func findReferenceAt(fi *index.SingleFileIndex, line, column int) *index.Reference {
	for i := range fi.References {
		r := &fi.References[i]
		loc := r.Location
		if loc.StartLine != line {
			continue
		}
		if column >= loc.StartColumn && column <= loc.EndColumn {
			return r
		}
	}
	return nil
}

// symbolIdStrings renders a list of symbol IDs for JSON output.
func symbolIdStrings(ids []location.SymbolId) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = string(id)
	}
	return out
}

func (s *Server) handleFindOverridingMethods(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	symbolId, err := requireString(req, "symbol_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	ids := s.overrideTracker().FindOverridingMethods(location.SymbolId(symbolId))
	return jsonResult(symbolIdStrings(ids))
}

func (s *Server) handleFindOverriddenMethod(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	symbolId, err := requireString(req, "symbol_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	id, ok := s.overrideTracker().FindOverriddenMethod(location.SymbolId(symbolId))
	if !ok {
		return mcp.NewToolResultText(`{"found":false}`), nil
	}
	return jsonResult(map[string]any{"found": true, "symbol_id": string(id)})
}

func (s *Server) handleGetOverrideChain(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	symbolId, err := requireString(req, "symbol_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	chain := s.overrideTracker().GetOverrideChain(location.SymbolId(symbolId))
	return jsonResult(symbolIdStrings(chain))
}

func (s *Server) handleGetFileIndex(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	file, err := requireString(req, "file")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	fi, ok := s.proj.File(location.FilePath(file))
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("file not indexed: %s", file)), nil
	}
	return jsonResult(fi)
}

func (s *Server) handleUpdateFile(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	file, err := requireString(req, "file")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	content, err := requireString(req, "content")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	s.proj.MarkDirty(location.FilePath(file))
	fi, err := fileindexer.IndexFile(s.pm, s.qm, file, []byte(content))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("index %s: %v", file, err)), nil
	}
	s.proj.UpdateFile(location.FilePath(file), fi)

	result := xref.Run(s.proj)
	s.setOverrideTracker(result.Overrides)

	return jsonResult(map[string]any{
		"file":                  file,
		"references_resolved":   result.Resolved,
		"references_unresolved": result.Unresolved,
	})
}
