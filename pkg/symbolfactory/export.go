// Package symbolfactory turns raw capture text/nodes into the typed
// index.Definition records, and carries the small per-language rules
// (export visibility, type-annotation parsing) those records need —
// generalizing the teacher's single `buildSymbol` pipeline
// (pkg/extractor/symbol.go: findNameCapture → inferSymbolKind →
// findDeclarationNode → extractLocation → buildFQN → extractMetadata →
// isExported) into named, reusable steps shared by the four-language
// handler dispatch tables in pkg/handlers.
package symbolfactory

import (
	"strings"

	"github.com/gnana997/semindex/pkg/index"
)

// DeriveVisibility computes a definition's ExportInfo from language-specific
// visibility rules (§4.2):
//
//   - JavaScript/TypeScript: visible only when syntactically reached by an
//     `export` statement — sawExportKeyword must come from the
//     export.name/export.default capture actually matching this definition.
//   - Python: export-eligible only at module scope (isModuleScope); a
//     definition nested inside a function or class body is never exported,
//     regardless of its name. At module scope, a binding is exported unless
//     its name starts with a single underscore (the `_private` convention);
//     dunder names (`__all__`, `__init__`) are exported.
//   - Rust: a definition is exported only if it carries `pub` (or a
//     restricted `pub(...)` visibility, treated the same as plain `pub`
//     for this indexer — §11 Non-goals excludes modeling pub(crate) path
//     restriction precision).
func DeriveVisibility(language string, name string, sawExportKeyword bool, isDefault bool, isModuleScope bool) index.ExportInfo {
	switch language {
	case "python":
		if name == "" || !isModuleScope {
			return index.ExportInfo{}
		}
		if strings.HasPrefix(name, "__") && strings.HasSuffix(name, "__") {
			return index.ExportInfo{IsExported: true}
		}
		if strings.HasPrefix(name, "_") {
			return index.ExportInfo{}
		}
		return index.ExportInfo{IsExported: true}
	case "rust":
		return index.ExportInfo{IsExported: sawExportKeyword}
	default: // javascript, typescript
		return index.ExportInfo{IsExported: sawExportKeyword, IsDefault: isDefault}
	}
}
