package main

import (
	"context"
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// binaryPath is set by TestMain after building the binary.
var binaryPath string

func TestMain(m *testing.M) {
	if os.Getenv("INTEGRATION") == "" {
		os.Exit(m.Run())
	}

	tmp, err := os.MkdirTemp("", "semindex-integration-*")
	if err != nil {
		panic(err)
	}
	defer os.RemoveAll(tmp)

	binaryPath = filepath.Join(tmp, "semindex")
	cmd := exec.Command("go", "build", "-o", binaryPath, ".")
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		panic("failed to build binary: " + err.Error())
	}

	os.Exit(m.Run())
}

// --- helpers ---

func skipIfNotIntegration(t *testing.T) {
	t.Helper()
	if os.Getenv("INTEGRATION") == "" {
		t.Skip("set INTEGRATION=1 to run integration tests")
	}
}

// fixtureWorkspace writes a small cross-file TypeScript project to a temp
// dir and returns its root.
func fixtureWorkspace(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "math.ts"),
		[]byte("export function add(a, b) { return a + b; }\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "main.ts"),
		[]byte("import { add } from './math';\nadd(1, 2);\n"), 0644))
	return root
}

// startServer launches semindex serve over root as a subprocess and
// returns an initialized MCP client.
func startServer(t *testing.T, root string) *client.Client {
	t.Helper()

	c, err := client.NewStdioMCPClient(binaryPath, nil, "serve", root)
	require.NoError(t, err, "failed to start MCP server")

	t.Cleanup(func() {
		c.Close()
	})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	initReq := mcp.InitializeRequest{}
	initReq.Params.ProtocolVersion = mcp.LATEST_PROTOCOL_VERSION
	initReq.Params.ClientInfo = mcp.Implementation{
		Name:    "semindex-integration-test",
		Version: "1.0.0",
	}

	result, err := c.Initialize(ctx, initReq)
	require.NoError(t, err, "failed to initialize MCP session")
	assert.Equal(t, "semindex", result.ServerInfo.Name)

	return c
}

func callToolHelper(t *testing.T, c *client.Client, toolName string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	req := mcp.CallToolRequest{}
	req.Params.Name = toolName
	if args != nil {
		req.Params.Arguments = args
	}

	result, err := c.CallTool(ctx, req)
	require.NoError(t, err, "CallTool(%s) failed", toolName)
	return result
}

func extractJSON(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, result.Content, "expected content in result")
	textContent, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected TextContent, got %T", result.Content[0])
	return textContent.Text
}

// --- integration tests ---

func TestIntegration_ListTools(t *testing.T) {
	skipIfNotIntegration(t)
	c := startServer(t, fixtureWorkspace(t))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	tools, err := c.ListTools(ctx, mcp.ListToolsRequest{})
	require.NoError(t, err)

	toolNames := make([]string, len(tools.Tools))
	for i, tool := range tools.Tools {
		toolNames[i] = tool.Name
	}

	expected := []string{
		"resolve_reference",
		"find_overriding_methods",
		"find_overridden_method",
		"get_override_chain",
		"get_file_index",
		"update_file",
	}
	for _, name := range expected {
		assert.Contains(t, toolNames, name, "missing tool: %s", name)
	}
}

func TestIntegration_ResolveReference(t *testing.T) {
	skipIfNotIntegration(t)
	root := fixtureWorkspace(t)
	c := startServer(t, root)

	result := callToolHelper(t, c, "resolve_reference", map[string]any{
		"file":   filepath.Join(root, "main.ts"),
		"line":   float64(2),
		"column": float64(1),
	})
	assert.False(t, result.IsError)

	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(extractJSON(t, result)), &got))
	assert.Equal(t, "add", got["name"])
	assert.Equal(t, true, got["resolved"])
}

func TestIntegration_GetFileIndex(t *testing.T) {
	skipIfNotIntegration(t)
	root := fixtureWorkspace(t)
	c := startServer(t, root)

	result := callToolHelper(t, c, "get_file_index", map[string]any{
		"file": filepath.Join(root, "math.ts"),
	})
	assert.False(t, result.IsError)

	var fi map[string]any
	require.NoError(t, json.Unmarshal([]byte(extractJSON(t, result)), &fi))
	assert.Contains(t, fi, "Functions")
}

func TestIntegration_UpdateFile(t *testing.T) {
	skipIfNotIntegration(t)
	root := fixtureWorkspace(t)
	c := startServer(t, root)

	result := callToolHelper(t, c, "update_file", map[string]any{
		"file":    filepath.Join(root, "main.ts"),
		"content": "import { add } from './math';\nadd(3, 4);\nadd(5, 6);\n",
	})
	assert.False(t, result.IsError)

	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(extractJSON(t, result)), &got))
	assert.Equal(t, float64(2), got["references_resolved"])
}

func TestIntegration_FindOverridingMethods(t *testing.T) {
	skipIfNotIntegration(t)
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "shapes.py"), []byte(`
class Shape:
    def area(self):
        return 0

class Circle(Shape):
    def area(self):
        return 3.14
`), 0644))
	c := startServer(t, root)

	fiResult := callToolHelper(t, c, "get_file_index", map[string]any{
		"file": filepath.Join(root, "shapes.py"),
	})
	var fi struct {
		Classes map[string]struct {
			Name    string `json:"Name"`
			Methods []struct {
				SymbolId string `json:"SymbolId"`
				Name     string `json:"Name"`
			} `json:"Methods"`
		} `json:"Classes"`
	}
	require.NoError(t, json.Unmarshal([]byte(extractJSON(t, fiResult)), &fi))

	var baseID string
	for _, class := range fi.Classes {
		if class.Name == "Shape" {
			for _, m := range class.Methods {
				if m.Name == "area" {
					baseID = m.SymbolId
				}
			}
		}
	}
	require.NotEmpty(t, baseID, "expected to find Shape.area's symbol id")

	result := callToolHelper(t, c, "find_overriding_methods", map[string]any{"symbol_id": baseID})
	assert.False(t, result.IsError)

	var overriding []string
	require.NoError(t, json.Unmarshal([]byte(extractJSON(t, result)), &overriding))
	assert.Len(t, overriding, 1)
}
