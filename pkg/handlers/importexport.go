package handlers

import (
	"github.com/gnana997/semindex/pkg/index"
	"github.com/gnana997/semindex/pkg/parser/queries"
)

// Import/export captures stage a fragment per capture rather than build a
// complete index.Import/export record directly: a grammar's import/use
// clause rarely wraps all of a statement's parts (source, named
// specifiers, alias, default/namespace binding) under one common node, so
// each part arrives as its own query match. pkg/fileindexer groups
// same-statement fragments back together by source position once every
// import/export match for a file has been processed (§4.6, §4.2).

func fragmentHandler(kind index.ImportFragmentKind) HandlerFunc {
	return func(ctx *ProcessingContext, match queries.QueryMatch, capture queries.QueryCapture) error {
		ctx.Builder.AddImportFragment(index.ImportFragment{
			Kind:     kind,
			Text:     capture.Text,
			Location: ctx.ToLocation(capture.Location),
		})
		return nil
	}
}

func exportFragmentHandler(kind index.ExportFragmentKind) HandlerFunc {
	return func(ctx *ProcessingContext, match queries.QueryMatch, capture queries.QueryCapture) error {
		ctx.Builder.AddExportFragment(index.ExportFragment{
			Kind:     kind,
			Text:     capture.Text,
			Location: ctx.ToLocation(capture.Location),
		})
		return nil
	}
}
