package fileindexer

import (
	"sort"
	"strings"

	"github.com/gnana997/semindex/pkg/index"
	"github.com/gnana997/semindex/pkg/location"
)

// applyExportFragments patches Export onto definitions already staged in
// b, and turns `export { a } from './m'`-style re-export fragments into
// pass-through Import records, using the same same-line grouping
// assembleImports relies on (§4.2, §4.6): a JS/TS export statement wraps
// its declaration rather than the other way around, so the export.* and
// definition.* captures for one statement arrive as separate matches
// correlated only by source position, not by a shared parent capture.
func applyExportFragments(b *index.DefinitionBuilder) {
	groups := make(map[int][]index.ExportFragment)
	for _, f := range b.ExportFragments() {
		groups[f.Location.StartLine] = append(groups[f.Location.StartLine], f)
	}

	lines := make([]int, 0, len(groups))
	for l := range groups {
		lines = append(lines, l)
	}
	sort.Ints(lines)

	for _, line := range lines {
		applyExportGroup(b, groups[line])
	}
}

func applyExportGroup(b *index.DefinitionBuilder, frags []index.ExportFragment) {
	var names, reexports []index.ExportFragment
	var defaultFrag *index.ExportFragment
	var reexportSource string

	for i := range frags {
		f := frags[i]
		switch f.Kind {
		case index.FragmentExportName:
			names = append(names, f)
		case index.FragmentExportDefault:
			defaultFrag = &f
		case index.FragmentExportReexport:
			reexports = append(reexports, f)
		case index.FragmentExportReexportSource:
			reexportSource = f.Text
		}
	}

	for _, n := range names {
		markExported(b, location.SymbolName(n.Text), false)
	}
	if defaultFrag != nil && isPlainIdentifier(defaultFrag.Text) {
		markExported(b, location.SymbolName(defaultFrag.Text), true)
	}
	for _, r := range reexports {
		b.AddImport(index.Import{
			SymbolId:   location.NewSymbolId(location.KindImport, r.Location, location.SymbolName(r.Text)),
			Name:       location.SymbolName(r.Text),
			Location:   r.Location,
			ImportPath: location.ModulePath(reexportSource),
			ImportKind: index.ImportNamed,
			Export:     index.ExportInfo{IsExported: true, IsReexport: true},
		})
	}
}

// isPlainIdentifier reports whether text looks like a bare name rather
// than a multi-line expression (e.g. `export default function() {...}`
// captures the whole function_expression's source text) — only the
// former can be correlated back to an already-indexed definition by
// name.
func isPlainIdentifier(text string) bool {
	return text != "" && !strings.ContainsAny(text, " \t\n(){}")
}

// markExported finds the named definition, trying each kind export
// statements commonly wrap, and flips its Export flags. A name that
// matches nothing indexed (e.g. a destructured re-export of an imported
// binding) is left alone rather than treated as an error (§7): export
// correlation is a best-effort enrichment, not a required step.
func markExported(b *index.DefinitionBuilder, name location.SymbolName, isDefault bool) {
	if c, ok := b.FindClassByName(name); ok {
		c.Export.IsExported = true
		c.Export.IsDefault = isDefault
		return
	}
	if i, ok := b.FindInterfaceByName(name); ok {
		i.Export.IsExported = true
		i.Export.IsDefault = isDefault
		return
	}
	if f, ok := b.FindFunctionByName(name); ok {
		f.Export.IsExported = true
		f.Export.IsDefault = isDefault
		return
	}
	if v, ok := b.FindVariableByName(name); ok {
		v.Export.IsExported = true
		v.Export.IsDefault = isDefault
		return
	}
	if e, ok := b.FindEnumByName(name); ok {
		e.Export.IsExported = true
		e.Export.IsDefault = isDefault
		return
	}
	if t, ok := b.FindTypeAliasByName(name); ok {
		t.Export.IsExported = true
		t.Export.IsDefault = isDefault
		return
	}
}
