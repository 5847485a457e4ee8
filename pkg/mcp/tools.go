package mcp

import "github.com/mark3labs/mcp-go/mcp"

// resolveReferenceTool looks up the reference at a source position and
// returns what cross-file resolution (§4.8) bound it to, if anything.
func resolveReferenceTool() mcp.Tool {
	return mcp.NewTool("resolve_reference",
		mcp.WithDescription("Resolve the reference at a source location to its defining symbol"),
		mcp.WithString("file", mcp.Required(), mcp.Description("Indexed file path")),
		mcp.WithNumber("line", mcp.Required(), mcp.Description("1-based line of the reference")),
		mcp.WithNumber("column", mcp.Required(), mcp.Description("1-based column of the reference")),
	)
}

// findOverridingMethodsTool returns every method that directly
// overrides a given method (§4.10).
func findOverridingMethodsTool() mcp.Tool {
	return mcp.NewTool("find_overriding_methods",
		mcp.WithDescription("List every method that directly overrides the given method symbol"),
		mcp.WithString("symbol_id", mcp.Required(), mcp.Description("SymbolId of the base method")),
	)
}

// findOverriddenMethodTool returns the nearest ancestor method a given
// method overrides, if any (§4.10).
func findOverriddenMethodTool() mcp.Tool {
	return mcp.NewTool("find_overridden_method",
		mcp.WithDescription("Find the nearest ancestor method the given method symbol overrides"),
		mcp.WithString("symbol_id", mcp.Required(), mcp.Description("SymbolId of the overriding method")),
	)
}

// getOverrideChainTool returns the full root-to-leaf override chain for
// a method (§4.10).
func getOverrideChainTool() mcp.Tool {
	return mcp.NewTool("get_override_chain",
		mcp.WithDescription("Get the root-to-leaf override chain ending at the given method symbol"),
		mcp.WithString("symbol_id", mcp.Required(), mcp.Description("SymbolId of the method")),
	)
}

// getFileIndexTool returns an already-indexed file's SingleFileIndex,
// which §7 specifies as JSON-serializable for exactly this purpose.
func getFileIndexTool() mcp.Tool {
	return mcp.NewTool("get_file_index",
		mcp.WithDescription("Return the current semantic index for one already-indexed file"),
		mcp.WithString("file", mcp.Required(), mcp.Description("Indexed file path")),
	)
}

// updateFileTool reindexes one file's content and refreshes project-
// wide resolution, per §5's incremental update semantics.
func updateFileTool() mcp.Tool {
	return mcp.NewTool("update_file",
		mcp.WithDescription("Reindex a file's new content and refresh cross-file resolution"),
		mcp.WithString("file", mcp.Required(), mcp.Description("Indexed file path")),
		mcp.WithString("content", mcp.Required(), mcp.Description("The file's full new source text")),
	)
}
