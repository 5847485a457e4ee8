package handlers

import (
	"github.com/gnana997/semindex/pkg/index"
	"github.com/gnana997/semindex/pkg/location"
	"github.com/gnana997/semindex/pkg/parser/queries"
)

func handleReferenceCall(ctx *ProcessingContext, match queries.QueryMatch, capture queries.QueryCapture) error {
	name := CaptureTextByName(match, "reference.call.name")
	loc := ctx.ToLocation(capture.Location)
	ref := index.Reference{
		Kind:     index.RefCall,
		Location: loc,
		Name:     location.SymbolName(name),
	}
	// A plain identifier receiver ("obj.method()") is the only receiver
	// shape the type tracker can look up by name; a receiver expression
	// that captures as anything else (`this.x.method()`, `f().method()`)
	// is recorded for completeness but cross-file resolution's
	// receiver-typed strategy (§4.8) will simply fail to find a matching
	// bound name for it, which is the conservative (no match) behavior.
	if receiver := CaptureTextByName(match, "_receiver_name"); receiver != "" {
		ref.Receiver = &index.ReceiverInfo{
			ReceiverLocation: loc,
			PropertyChain:    []location.SymbolName{location.SymbolName(receiver)},
		}
	}
	ctx.Builder.AddReference(ref)
	return nil
}

func handleReferenceSelfReferenceCall(ctx *ProcessingContext, match queries.QueryMatch, capture queries.QueryCapture) error {
	name := CaptureTextByName(match, "reference.self_reference_call.name")
	receiver := CaptureTextByName(match, "reference.self_reference_call.receiver")
	loc := ctx.ToLocation(capture.Location)
	ctx.Builder.AddReference(index.Reference{
		Kind:     index.RefSelfReferenceCall,
		Location: loc,
		Name:     location.SymbolName(name),
		Receiver: &index.ReceiverInfo{
			ReceiverLocation: loc,
			PropertyChain:    []location.SymbolName{location.SymbolName(name)},
			IsSelfReference:  true,
			SelfKeyword:      receiver,
		},
	})
	return nil
}

func handleReferenceConstructor(ctx *ProcessingContext, match queries.QueryMatch, capture queries.QueryCapture) error {
	name := CaptureTextByName(match, "reference.constructor.name")
	ctx.Builder.AddReference(index.Reference{
		Kind:     index.RefConstructor,
		Location: ctx.ToLocation(capture.Location),
		Name:     location.SymbolName(name),
	})
	return nil
}

func handleReferenceType(ctx *ProcessingContext, match queries.QueryMatch, capture queries.QueryCapture) error {
	name := CaptureTextByName(match, "reference.type.name")
	ctx.Builder.AddReference(index.Reference{
		Kind:     index.RefType,
		Location: ctx.ToLocation(capture.Location),
		Name:     location.SymbolName(name),
	})
	return nil
}
