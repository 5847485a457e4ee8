package symbolfactory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnana997/semindex/pkg/index"
	"github.com/gnana997/semindex/pkg/location"
)

func TestDeriveVisibility_Python_UnderscoreIsPrivate(t *testing.T) {
	assert.False(t, DeriveVisibility("python", "_helper", false, false, true).IsExported)
	assert.True(t, DeriveVisibility("python", "helper", false, false, true).IsExported)
	assert.True(t, DeriveVisibility("python", "__init__", false, false, true).IsExported)
}

func TestDeriveVisibility_Python_NestedScopeNeverExported(t *testing.T) {
	assert.False(t, DeriveVisibility("python", "helper", false, false, false).IsExported)
	assert.False(t, DeriveVisibility("python", "__init__", false, false, false).IsExported)
}

func TestDeriveVisibility_Rust_RequiresPub(t *testing.T) {
	assert.True(t, DeriveVisibility("rust", "Widget", true, false, true).IsExported)
	assert.False(t, DeriveVisibility("rust", "Widget", false, false, true).IsExported)
}

func TestDeriveVisibility_TypeScript_RequiresExportKeyword(t *testing.T) {
	info := DeriveVisibility("typescript", "Widget", true, false, true)
	assert.True(t, info.IsExported)
	assert.False(t, info.IsDefault)

	info = DeriveVisibility("typescript", "Widget", true, true, true)
	assert.True(t, info.IsDefault)
}

func TestPreferredAnnotation_PrefersArgOverNameOverBase(t *testing.T) {
	assert.Equal(t, "string", PreferredAnnotation("string", "ignored", "ignored2"))
	assert.Equal(t, "string", PreferredAnnotation("", "string", "ignored"))
	assert.Equal(t, "string", PreferredAnnotation("", "", "string"))
}

func TestInferFromInitializer(t *testing.T) {
	cases := map[string]string{
		`"hello"`:        "string",
		"[1, 2, 3]":      "array",
		"{ a: 1 }":       "object",
		"true":           "boolean",
		"new Widget()":   "Widget",
		"42":             "number",
		"-7":             "number",
		"someFunction()": "",
	}
	for input, want := range cases {
		assert.Equal(t, want, InferFromInitializer(input), "input=%q", input)
	}
}

func TestDetectCallbackContext(t *testing.T) {
	ctx, ok := DetectCallbackContext("map")
	assert.True(t, ok)
	assert.Equal(t, location.SymbolName("map"), ctx.OuterCall)

	ctx, ok = DetectCallbackContext("forEach")
	assert.True(t, ok)
	assert.Equal(t, location.SymbolName("forEach"), ctx.OuterCall)

	_, ok = DetectCallbackContext("setTimeout")
	assert.False(t, ok)
}

func TestDetectFunctionCollection(t *testing.T) {
	fc, ok := DetectFunctionCollection(`{ a: fn1, ...BASE, b: fn2 }`)
	require.True(t, ok)
	assert.Equal(t, index.CollectionObject, fc.Type)
	assert.Equal(t, []location.SymbolName{"a→fn1", "BASE", "b→fn2"}, fc.StoredReferences)

	fc, ok = DetectFunctionCollection(`[fn1, fn2, ...rest]`)
	require.True(t, ok)
	assert.Equal(t, index.CollectionArray, fc.Type)
	assert.Equal(t, []location.SymbolName{"fn1", "fn2", "rest"}, fc.StoredReferences)

	fc, ok = DetectFunctionCollection(`new Map([["a", fn1], [key, fn2]])`)
	require.True(t, ok)
	assert.Equal(t, index.CollectionMap, fc.Type)
	assert.Equal(t, []location.SymbolName{"a→fn1", "key→fn2"}, fc.StoredReferences)

	_, ok = DetectFunctionCollection(`42`)
	assert.False(t, ok)

	_, ok = DetectFunctionCollection(`{ a: 1, b: someCall() }`)
	assert.False(t, ok)
}

func TestFindContainingClass_UsesOwnerLookup(t *testing.T) {
	b := index.NewDefinitionBuilder("a.ts", "typescript")
	classLoc := location.Location{FilePath: "a.ts", StartLine: 1, EndLine: 1}
	id := location.NewSymbolId(location.KindClass, classLoc, "Widget")
	b.AddClass(index.Class{SymbolId: id, Name: "Widget", Location: classLoc})

	found, ok := FindContainingClass(AsOwnerLookup(b), "Widget")
	assert.True(t, ok)
	assert.Equal(t, id, found)

	_, ok = FindContainingClass(AsOwnerLookup(b), "Missing")
	assert.False(t, ok)
}
