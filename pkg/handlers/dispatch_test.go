package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnana997/semindex/pkg/index"
	"github.com/gnana997/semindex/pkg/location"
	"github.com/gnana997/semindex/pkg/parser/queries"
)

func newCtx(language string) *ProcessingContext {
	return &ProcessingContext{
		FilePath: "a.ts",
		Language: language,
		Builder:  index.NewDefinitionBuilder("a.ts", language),
	}
}

func cap(name, text string) queries.QueryCapture {
	return queries.QueryCapture{
		Name: name,
		Text: text,
		Location: queries.Location{StartLine: 1, StartColumn: 1, EndLine: 1, EndColumn: uint32(len(text) + 1)},
	}
}

func TestBuildTable_IsTotalOverAllWrittenQueryCaptures(t *testing.T) {
	table := BuildTable()
	emitted := []string{
		"definition.function", "definition.function.name",
		"definition.class", "definition.class.name",
		"definition.interface", "definition.interface.name",
		"definition.enum", "definition.enum.name",
		"definition.type_alias", "definition.type_alias.name",
		"definition.variable", "definition.variable.name",
		"definition.method", "definition.method.name",
		"definition.property", "definition.property.name",
		"reference.call", "reference.call.name",
		"reference.self_reference_call", "reference.self_reference_call.name", "reference.self_reference_call.receiver",
		"reference.constructor", "reference.constructor.name",
		"reference.type", "reference.type.name",
		"import.source", "import.named", "import.alias", "import.default", "import.namespace", "import.type_only",
		"export.name", "export.default", "export.reexport", "export.reexport_source",
		"scope.module", "scope.function", "scope.class", "scope.block", "scope.comprehension", "scope.lambda",
		"_impl_target", "_self", "_require",
	}
	assert.NoError(t, ValidateTable(table, emitted))
}

func TestBuildTable_MissingHandlerFailsValidation(t *testing.T) {
	table := BuildTable()
	err := ValidateTable(table, []string{"definition.function", "reference.unknown_kind"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reference.unknown_kind")
}

func TestHandleDefinitionFunction_AddsFunctionWithDerivedVisibility(t *testing.T) {
	ctx := newCtx("python")
	match := queries.QueryMatch{Captures: []queries.QueryCapture{
		cap("definition.function", "_helper"),
		cap("definition.function.name", "_helper"),
	}}
	require.NoError(t, handleDefinitionFunction(ctx, match, match.Captures[0]))

	idx := ctx.Builder.Finalize()
	require.Len(t, idx.Functions, 1)
	for _, fn := range idx.Functions {
		assert.Equal(t, location.SymbolName("_helper"), fn.Name)
		assert.False(t, fn.Export.IsExported)
	}
}

func TestHandleDefinitionMethod_UsesImplTargetHelperCapture(t *testing.T) {
	ctx := newCtx("rust")
	match := queries.QueryMatch{Captures: []queries.QueryCapture{
		cap("_impl_target", "Widget"),
		cap("definition.method", "new"),
		cap("definition.method.name", "new"),
	}}
	require.NoError(t, handleDefinitionMethod(ctx, match, match.Captures[1]))

	widgetLoc := location.Location{FilePath: "a.ts", StartLine: 1, EndLine: 1}
	widgetId := location.NewSymbolId(location.KindClass, widgetLoc, "Widget")
	ctx.Builder.AddClass(index.Class{SymbolId: widgetId, Name: "Widget", Location: widgetLoc})

	idx := ctx.Builder.Finalize()
	require.Contains(t, idx.Classes, widgetId)
	assert.Len(t, idx.Classes[widgetId].Methods, 1)
	assert.Equal(t, location.SymbolName("new"), idx.Classes[widgetId].Methods[0].Name)
	assert.Empty(t, idx.Diagnostics)
}

func TestHandleDefinitionMethod_NoOwnerEmitsDiagnostic(t *testing.T) {
	ctx := newCtx("rust")
	match := queries.QueryMatch{Captures: []queries.QueryCapture{
		cap("definition.method", "orphan"),
		cap("definition.method.name", "orphan"),
	}}
	require.NoError(t, handleDefinitionMethod(ctx, match, match.Captures[0]))

	idx := ctx.Builder.Finalize()
	require.Len(t, idx.Diagnostics, 1)
	assert.Equal(t, "orphan_attachment", idx.Diagnostics[0].Kind)
}

func TestHandleReferenceSelfReferenceCall_RecordsReceiver(t *testing.T) {
	ctx := newCtx("python")
	match := queries.QueryMatch{Captures: []queries.QueryCapture{
		cap("reference.self_reference_call.receiver", "self"),
		cap("reference.self_reference_call.name", "save"),
		cap("reference.self_reference_call", "self.save()"),
	}}
	require.NoError(t, handleReferenceSelfReferenceCall(ctx, match, match.Captures[2]))

	idx := ctx.Builder.Finalize()
	require.Len(t, idx.References, 1)
	ref := idx.References[0]
	assert.Equal(t, index.RefSelfReferenceCall, ref.Kind)
	assert.Equal(t, location.SymbolName("save"), ref.Name)
	require.NotNil(t, ref.Receiver)
	assert.True(t, ref.Receiver.IsSelfReference)
	assert.Equal(t, "self", ref.Receiver.SelfKeyword)
}

func TestFragmentHandlers_StageImportAndExportFragments(t *testing.T) {
	ctx := newCtx("typescript")
	src := cap("import.source", "./widget")
	require.NoError(t, fragmentHandler(index.FragmentSource)(ctx, queries.QueryMatch{}, src))

	name := cap("export.name", "Widget")
	require.NoError(t, exportFragmentHandler(index.FragmentExportName)(ctx, queries.QueryMatch{}, name))

	idx := ctx.Builder.Finalize()
	require.Len(t, idx.ImportFragments, 1)
	assert.Equal(t, index.FragmentSource, idx.ImportFragments[0].Kind)
	assert.Equal(t, "./widget", idx.ImportFragments[0].Text)

	require.Len(t, idx.ExportFragments, 1)
	assert.Equal(t, index.FragmentExportName, idx.ExportFragments[0].Kind)
	assert.Equal(t, "Widget", idx.ExportFragments[0].Text)
}
