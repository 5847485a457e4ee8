package symbolfactory

import "strings"

// ParseTypeExpression normalizes a raw type-annotation text capture into
// its canonical stored form: surrounding whitespace trimmed, a leading
// ":" (as tree-sitter's `type_annotation` nodes include it in some
// grammars) stripped.
//
// Generalizes the teacher's extractTypeAnnotations priority rule
// (pkg/extractor/extractor.go: type.arg > type.name > type.base) into a
// single normalization step; the priority itself lives in
// PreferredAnnotation below, since which capture wins is a property of
// which captures exist in a match, not of the text itself.
func ParseTypeExpression(raw string) string {
	t := strings.TrimSpace(raw)
	t = strings.TrimPrefix(t, ":")
	return strings.TrimSpace(t)
}

// PreferredAnnotation picks the most specific available type text among
// a match's candidate captures, mirroring the teacher's priority order:
// an explicit type argument (`Array<T>`'s `T`) beats the declared name
// annotation, which beats a bare base-type capture.
func PreferredAnnotation(arg, name, base string) string {
	if arg != "" {
		return ParseTypeExpression(arg)
	}
	if name != "" {
		return ParseTypeExpression(name)
	}
	return ParseTypeExpression(base)
}

// InferFromInitializer derives a type name from an initializer
// expression's source text when no explicit annotation exists (§4.9
// phase 2, inference-from-initializer). Only the cheap, purely
// lexical cases are handled here — literal forms and `new Type(...)`
// constructor calls; everything else (identifier-lookup, call-return
// inference) requires the project-wide symbol table and is performed by
// pkg/typetrack instead.
func InferFromInitializer(initializer string) string {
	s := strings.TrimSpace(initializer)
	switch {
	case s == "":
		return ""
	case strings.HasPrefix(s, "\"") || strings.HasPrefix(s, "'") || strings.HasPrefix(s, "`"):
		return "string"
	case strings.HasPrefix(s, "["):
		return "array"
	case strings.HasPrefix(s, "{"):
		return "object"
	case s == "true" || s == "false":
		return "boolean"
	case strings.HasPrefix(s, "new "):
		rest := strings.TrimPrefix(s, "new ")
		if idx := strings.IndexAny(rest, "( \t"); idx != -1 {
			return rest[:idx]
		}
		return rest
	default:
		if looksNumeric(s) {
			return "number"
		}
		return ""
	}
}

// looksNumeric reports whether s begins with a digit or a sign
// immediately followed by a digit, without pulling in strconv's full
// numeric grammar — initializer text here is never parsed as a number,
// only classified.
func looksNumeric(s string) bool {
	if s == "" {
		return false
	}
	i := 0
	if s[0] == '-' || s[0] == '+' {
		i = 1
	}
	return i < len(s) && s[i] >= '0' && s[i] <= '9'
}
