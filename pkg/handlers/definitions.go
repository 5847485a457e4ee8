package handlers

import (
	"github.com/gnana997/semindex/pkg/index"
	"github.com/gnana997/semindex/pkg/location"
	"github.com/gnana997/semindex/pkg/parser/queries"
	"github.com/gnana997/semindex/pkg/symbolfactory"
)

// ownerNameForMatch resolves the name of the class/interface/trait a
// method or property capture belongs to (§4.4 attachment). Rust's
// impl-block forms carry the target type's name as the query's own
// "_impl_target" helper capture, since the impl block's body is not
// itself class-shaped; every other language reads it from the nearest
// class-shaped ancestor node.
func ownerNameForMatch(ctx *ProcessingContext, match queries.QueryMatch, capture queries.QueryCapture) (location.SymbolName, bool) {
	if t := CaptureTextByName(match, "_impl_target"); t != "" {
		return location.SymbolName(t), true
	}
	if capture.Node == nil {
		return "", false
	}
	return symbolfactory.EnclosingOwnerName(ctx.Language, capture.Node, ctx.Source)
}

func handleDefinitionFunction(ctx *ProcessingContext, match queries.QueryMatch, capture queries.QueryCapture) error {
	name := CaptureTextByName(match, "definition.function.name")
	loc := ctx.ToLocation(capture.Location)
	id := location.NewSymbolId(location.KindFunction, loc, location.SymbolName(name))
	ctx.Builder.AddFunction(index.Function{
		SymbolId: id,
		Name:     location.SymbolName(name),
		Location: loc,
		ScopeId:  ctx.CurrentScope,
		Export:   symbolfactory.DeriveVisibility(ctx.Language, name, false, false, ctx.Builder.IsModuleScope(ctx.CurrentScope)),
	})
	ctx.Builder.Declare(ctx.CurrentScope, location.SymbolName(name), id)
	return nil
}

func handleDefinitionClass(ctx *ProcessingContext, match queries.QueryMatch, capture queries.QueryCapture) error {
	name := CaptureTextByName(match, "definition.class.name")
	loc := ctx.ToLocation(capture.Location)
	id := location.NewSymbolId(location.KindClass, loc, location.SymbolName(name))
	ctx.Builder.AddClass(index.Class{
		SymbolId: id,
		Name:     location.SymbolName(name),
		Location: loc,
		ScopeId:  ctx.CurrentScope,
		Extends:  baseNames(match, "definition.class.extends"),
		Export:   symbolfactory.DeriveVisibility(ctx.Language, name, false, false, ctx.Builder.IsModuleScope(ctx.CurrentScope)),
	})
	ctx.Builder.Declare(ctx.CurrentScope, location.SymbolName(name), id)
	return nil
}

// baseNames converts every occurrence of a heritage qualifier capture
// (extends/implements/superclasses) in match into a SymbolName, in match
// order, for Class.Extends/Interface.Extends.
func baseNames(match queries.QueryMatch, name string) []location.SymbolName {
	texts := CaptureTextsByName(match, name)
	if len(texts) == 0 {
		return nil
	}
	names := make([]location.SymbolName, len(texts))
	for i, t := range texts {
		names[i] = location.SymbolName(t)
	}
	return names
}

func handleDefinitionInterface(ctx *ProcessingContext, match queries.QueryMatch, capture queries.QueryCapture) error {
	name := CaptureTextByName(match, "definition.interface.name")
	loc := ctx.ToLocation(capture.Location)
	id := location.NewSymbolId(location.KindInterface, loc, location.SymbolName(name))
	ctx.Builder.AddInterface(index.Interface{
		SymbolId: id,
		Name:     location.SymbolName(name),
		Location: loc,
		ScopeId:  ctx.CurrentScope,
		Extends:  baseNames(match, "definition.interface.extends"),
		Export:   symbolfactory.DeriveVisibility(ctx.Language, name, false, false, ctx.Builder.IsModuleScope(ctx.CurrentScope)),
	})
	ctx.Builder.Declare(ctx.CurrentScope, location.SymbolName(name), id)
	return nil
}

func handleDefinitionEnum(ctx *ProcessingContext, match queries.QueryMatch, capture queries.QueryCapture) error {
	name := CaptureTextByName(match, "definition.enum.name")
	loc := ctx.ToLocation(capture.Location)
	id := location.NewSymbolId(location.KindEnum, loc, location.SymbolName(name))
	ctx.Builder.AddEnum(index.Enum{
		SymbolId: id,
		Name:     location.SymbolName(name),
		Location: loc,
		Export:   symbolfactory.DeriveVisibility(ctx.Language, name, false, false, ctx.Builder.IsModuleScope(ctx.CurrentScope)),
	})
	ctx.Builder.Declare(ctx.CurrentScope, location.SymbolName(name), id)
	return nil
}

func handleDefinitionTypeAlias(ctx *ProcessingContext, match queries.QueryMatch, capture queries.QueryCapture) error {
	name := CaptureTextByName(match, "definition.type_alias.name")
	loc := ctx.ToLocation(capture.Location)
	id := location.NewSymbolId(location.KindTypeAlias, loc, location.SymbolName(name))
	ctx.Builder.AddTypeAlias(index.TypeAlias{
		SymbolId: id,
		Name:     location.SymbolName(name),
		Location: loc,
		Export:   symbolfactory.DeriveVisibility(ctx.Language, name, false, false, ctx.Builder.IsModuleScope(ctx.CurrentScope)),
	})
	ctx.Builder.Declare(ctx.CurrentScope, location.SymbolName(name), id)
	return nil
}

func handleDefinitionVariable(ctx *ProcessingContext, match queries.QueryMatch, capture queries.QueryCapture) error {
	name := CaptureTextByName(match, "definition.variable.name")
	loc := ctx.ToLocation(capture.Location)
	id := location.NewSymbolId(location.KindVariable, loc, location.SymbolName(name))
	initializer := declaratorInitializerText(capture.Node, ctx.Source)
	v := index.Variable{
		SymbolId:    id,
		Name:        location.SymbolName(name),
		Location:    loc,
		ScopeId:     ctx.CurrentScope,
		Type:        declaratorTypeText(capture.Node, ctx.Source),
		Initializer: initializer,
		Export:      symbolfactory.DeriveVisibility(ctx.Language, name, false, false, ctx.Builder.IsModuleScope(ctx.CurrentScope)),
	}
	if fc, ok := symbolfactory.DetectFunctionCollection(initializer); ok {
		v.Collection = &fc
	}
	ctx.Builder.AddVariable(v)
	ctx.Builder.Declare(ctx.CurrentScope, location.SymbolName(name), id)
	return nil
}

func handleDefinitionMethod(ctx *ProcessingContext, match queries.QueryMatch, capture queries.QueryCapture) error {
	name := CaptureTextByName(match, "definition.method.name")
	loc := ctx.ToLocation(capture.Location)
	m := index.Method{
		SymbolId: location.NewSymbolId(location.KindMethod, loc, location.SymbolName(name)),
		Name:     location.SymbolName(name),
		Location: loc,
	}
	owner, ok := ownerNameForMatch(ctx, match, capture)
	if !ok {
		ctx.Builder.AddDiagnostic(index.Diagnostic{
			Kind:     "orphan_attachment",
			Message:  "method " + name + ": no enclosing class/impl target found",
			Location: loc,
		})
		return nil
	}
	ctx.Builder.QueueMethod(owner, m)
	if trait := CaptureTextByName(match, "_impl_trait"); trait != "" {
		ctx.Builder.QueueExtends(owner, location.SymbolName(trait))
	}
	return nil
}

func handleDefinitionProperty(ctx *ProcessingContext, match queries.QueryMatch, capture queries.QueryCapture) error {
	name := CaptureTextByName(match, "definition.property.name")
	loc := ctx.ToLocation(capture.Location)
	p := index.Property{
		SymbolId: location.NewSymbolId(location.KindProperty, loc, location.SymbolName(name)),
		Name:     location.SymbolName(name),
		Location: loc,
		Type:     declaratorTypeText(capture.Node, ctx.Source),
	}
	owner, ok := ownerNameForMatch(ctx, match, capture)
	if !ok {
		ctx.Builder.AddDiagnostic(index.Diagnostic{
			Kind:     "orphan_attachment",
			Message:  "property " + name + ": no enclosing class/impl target found",
			Location: loc,
		})
		return nil
	}
	ctx.Builder.QueueProperty(owner, p)
	return nil
}

// callableIdForMatch recomputes the SymbolId of the function or method
// that owns a definition.parameter capture found in the same match, using
// the identical (kind, location, name) formula handleDefinitionFunction
// and handleDefinitionMethod use when first registering that callable.
// location.NewSymbolId is a pure function of those three inputs, so the
// id can be recomputed here without a builder lookup — parameter captures
// nest inside the same query pattern as their owning callable, so both
// always land in the same match.
func callableIdForMatch(ctx *ProcessingContext, match queries.QueryMatch) (location.SymbolId, bool) {
	if c, ok := CaptureByName(match, "definition.function"); ok {
		name := CaptureTextByName(match, "definition.function.name")
		loc := ctx.ToLocation(c.Location)
		return location.NewSymbolId(location.KindFunction, loc, location.SymbolName(name)), true
	}
	if c, ok := CaptureByName(match, "definition.method"); ok {
		name := CaptureTextByName(match, "definition.method.name")
		loc := ctx.ToLocation(c.Location)
		return location.NewSymbolId(location.KindMethod, loc, location.SymbolName(name)), true
	}
	return "", false
}

func handleDefinitionParameter(ctx *ProcessingContext, match queries.QueryMatch, capture queries.QueryCapture) error {
	ownerId, ok := callableIdForMatch(ctx, match)
	if !ok {
		return nil
	}
	name := parameterNameText(capture.Node, ctx.Source)
	if name == "" {
		return nil
	}
	loc := ctx.ToLocation(capture.Location)
	ctx.Builder.QueueParameter(ownerId, index.Parameter{
		SymbolId: location.NewSymbolId(location.KindParameter, loc, location.SymbolName(name)),
		Name:     location.SymbolName(name),
		Location: loc,
		Type:     parameterTypeText(capture.Node, ctx.Source),
		Default:  parameterDefaultText(capture.Node, ctx.Source),
	})
	return nil
}

// noop is used for qualifier-only captures (the ".name"/".receiver"
// sub-captures of an entity capture) whose text the entity handler
// already consumed from the same match, and for scope.* captures, whose
// scope tree is built upstream by pkg/scope.BuildFromRanges rather than
// through per-capture dispatch (§4.6 fixed pass order).
func noop(*ProcessingContext, queries.QueryMatch, queries.QueryCapture) error {
	return nil
}
