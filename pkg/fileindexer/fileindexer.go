// Package fileindexer orchestrates one file's single-threaded indexing
// pass (§4.6): parse once, build the scope tree, dispatch definition and
// reference captures against it, assemble import/export fragments, and
// resolve intra-file references — producing the immutable
// index.SingleFileIndex that pkg/project keys a workspace off of.
//
// Grounded on the teacher's Extractor.ExtractFromFile
// (pkg/extractor/extractor.go), which drives the same parse-then-query
// shape for its own (flatter) symbol model; this package generalizes it
// to the fixed multi-pass order the five-family capture schema requires.
package fileindexer

import (
	"fmt"

	ts "github.com/tree-sitter/go-tree-sitter"

	"github.com/gnana997/semindex/pkg/capture"
	"github.com/gnana997/semindex/pkg/handlers"
	"github.com/gnana997/semindex/pkg/index"
	"github.com/gnana997/semindex/pkg/location"
	"github.com/gnana997/semindex/pkg/parser"
	"github.com/gnana997/semindex/pkg/parser/queries"
	"github.com/gnana997/semindex/pkg/scope"
)

// MaxFileSize is the size ceiling (in bytes) IndexFile enforces before
// parsing a file at all (§7). A generated or vendored blob well past this
// size buys little indexing value for the tree-sitter parse time and
// query-match volume it costs. pkg/project.Config.MaxFileSizeBytes only
// lets callers skip oversized files before reading them; a larger value
// there does not lift this ceiling, which IndexFile itself always checks.
const MaxFileSize = 32 * 1024

// FileTooLargeError reports that a file exceeded its size ceiling and was
// never parsed.
type FileTooLargeError struct {
	FilePath string
	Size     int
	Limit    int
}

func (e *FileTooLargeError) Error() string {
	return fmt.Sprintf("fileindexer: %s: %d bytes exceeds the %d byte limit", e.FilePath, e.Size, e.Limit)
}

// IndexFile runs the full single-file indexing pipeline and returns the
// finished index. The caller owns pm/qm's lifetimes (both are shared
// across many files); IndexFile only owns the one parse tree it produces
// internally.
//
// source larger than MaxFileSize is rejected with a *FileTooLargeError
// rather than parsed, regardless of caller-side size checks — this is
// the indexing pipeline's own backstop (§7).
func IndexFile(pm *parser.ParserManager, qm *queries.QueryManager, filePath string, source []byte) (*index.SingleFileIndex, error) {
	if len(source) > MaxFileSize {
		return nil, &FileTooLargeError{FilePath: filePath, Size: len(source), Limit: MaxFileSize}
	}

	lang := parser.DetectLanguage(filePath)
	if lang == parser.LanguageUnknown {
		return nil, fmt.Errorf("fileindexer: unsupported file extension: %s", filePath)
	}
	langName := lang.String()

	tree, err := pm.ParseFile(source, filePath)
	if err != nil {
		return nil, fmt.Errorf("fileindexer: parse %s: %w", filePath, err)
	}
	defer tree.Close()

	fp := location.FilePath(filePath)
	root := tree.RootNode()
	rootEnd := root.EndPosition()
	fileRange := location.Location{
		FilePath:  fp,
		StartLine: 1, StartColumn: 1,
		EndLine: int(rootEnd.Row) + 1, EndColumn: int(rootEnd.Column) + 1,
	}

	builder := index.NewDefinitionBuilder(fp, langName)
	if root.HasError() {
		builder.AddDiagnostic(index.Diagnostic{
			Kind:     "parse_error",
			Message:  "parse tree contains one or more syntax errors; indexing continued on a best-effort basis",
			Location: fileRange,
		})
	}

	scopeManager, err := runScopePass(qm, tree, source, lang, fp, fileRange)
	if err != nil {
		return nil, err
	}
	builder.ImportScopes(scopeManager.Scopes(), scopeManager.RootId())

	table := handlers.BuildTable()
	ctx := &handlers.ProcessingContext{FilePath: fp, Language: langName, Source: source, Builder: builder}

	if err := runDispatchPass(qm, tree, source, lang, queries.QueryTypeSymbols, table, ctx, scopeManager); err != nil {
		return nil, err
	}
	if err := runDispatchPass(qm, tree, source, lang, queries.QueryTypeImports, table, ctx, scopeManager); err != nil {
		return nil, err
	}

	assembleImports(builder)
	applyExportFragments(builder)
	resolveLocalReferences(builder, scopeManager, lang)

	return builder.Finalize(), nil
}

// runScopePass executes the scope-boundary query and builds the file's
// scope tree before any definition/reference dispatch runs, since
// handlers need ScopeAtPosition to assign each capture its enclosing
// scope (§4.6 fixed pass order).
func runScopePass(qm *queries.QueryManager, tree *ts.Tree, source []byte, lang parser.Language, fp location.FilePath, fileRange location.Location) (*scope.Manager, error) {
	q, err := qm.GetQuery(lang, queries.QueryTypeScopes)
	if err != nil {
		return nil, fmt.Errorf("fileindexer: scope query for %s: %w", lang, err)
	}
	matches, err := qm.ExecuteQuery(tree, q, source)
	if err != nil {
		return nil, fmt.Errorf("fileindexer: execute scope query: %w", err)
	}

	var ranges []scope.ScopeRange
	for _, m := range matches {
		for _, c := range m.Captures {
			kind, ok := scopeKindFromCapture(c.Name)
			if !ok || kind == index.ScopeModule {
				// The module/root scope is synthesized by BuildFromRanges
				// from fileRange; a second (program)/(module) match would
				// otherwise produce a duplicate root.
				continue
			}
			ranges = append(ranges, scope.ScopeRange{
				Kind:      kind,
				Range:     toLocation(fp, c.Location),
				StartByte: c.Location.StartByte,
				EndByte:   c.Location.EndByte,
			})
		}
	}

	return scope.BuildFromRanges(fp, fileRange, ranges), nil
}

// runDispatchPass executes one query type's matches and dispatches every
// non-helper capture through table, assigning each its enclosing scope
// from the already-built scope tree.
func runDispatchPass(qm *queries.QueryManager, tree *ts.Tree, source []byte, lang parser.Language, qtype queries.QueryType, table handlers.Table, ctx *handlers.ProcessingContext, sm *scope.Manager) error {
	q, err := qm.GetQuery(lang, qtype)
	if err != nil {
		return fmt.Errorf("fileindexer: %s query for %s: %w", qtype, lang, err)
	}
	matches, err := qm.ExecuteQuery(tree, q, source)
	if err != nil {
		return fmt.Errorf("fileindexer: execute %s query: %w", qtype, err)
	}

	for _, m := range matches {
		for _, c := range m.Captures {
			if capture.IsHelperCapture(c.Name) {
				continue
			}
			h, ok := table[c.Name]
			if !ok {
				ctx.Builder.AddDiagnostic(index.Diagnostic{
					Kind:     "unhandled_capture",
					Message:  fmt.Sprintf("capture %q has no registered handler", c.Name),
					Location: toLocation(ctx.FilePath, c.Location),
				})
				continue
			}
			ctx.CurrentScope = sm.ScopeAtPosition(int(c.Location.StartLine), int(c.Location.StartColumn))
			if err := h(ctx, m, c); err != nil {
				return fmt.Errorf("fileindexer: handler for %q: %w", c.Name, err)
			}
		}
	}
	return nil
}

func toLocation(fp location.FilePath, q queries.Location) location.Location {
	return location.Location{
		FilePath:    fp,
		StartLine:   int(q.StartLine),
		StartColumn: int(q.StartColumn),
		EndLine:     int(q.EndLine),
		EndColumn:   int(q.EndColumn),
	}
}

func scopeKindFromCapture(name string) (index.ScopeKind, bool) {
	switch name {
	case "scope.module":
		return index.ScopeModule, true
	case "scope.function":
		return index.ScopeFunction, true
	case "scope.class":
		return index.ScopeClass, true
	case "scope.block":
		return index.ScopeBlock, true
	case "scope.comprehension":
		return index.ScopeComprehension, true
	case "scope.lambda":
		return index.ScopeLambda, true
	default:
		return "", false
	}
}
