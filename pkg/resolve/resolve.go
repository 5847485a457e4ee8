// Package resolve turns an import/use specifier's raw text into a
// project-relative file path, one resolver per language (§4.7).
//
// Grounded on standardbeagle-lci's ImportResolver
// (other_examples/30098191_standardbeagle-lci__internal-core-import_resolver.go.go):
// that resolver is regex-driven and never checks the filesystem, treating
// "first candidate extension" as the answer. This package keeps its
// per-language extension-candidate tables and per-language resolution
// shape, but adds the existence check against a FileTree collaborator
// that the teacher's own simpler resolveImportPath
// (pkg/extractor/import.go) also explicitly defers to "a real
// implementation" — this is that implementation.
package resolve

import (
	"path"
	"strings"

	"github.com/gnana997/semindex/pkg/location"
	"github.com/gnana997/semindex/pkg/parser"
)

// FileTree is the minimal filesystem collaborator the module resolver
// needs (§6 EXTERNAL INTERFACES): existence checks for candidate paths,
// and the project root for Python's absolute-import fallback base.
type FileTree interface {
	Exists(path string) bool
	Root() string
}

// jsExtensions is tried in this exact order (§4.7): a bare specifier
// that already carries an extension is tried as-is first.
var jsExtensions = []string{".ts", ".tsx", ".js", ".jsx"}

// ResolveModulePath resolves one import/use specifier's text to a
// project-relative file path, or ("", false) if it can't be resolved
// locally — bare specifiers (npm packages, Rust crates, Python stdlib/
// third-party packages) are not resolved and the caller treats the
// import as external (§4.7).
func ResolveModulePath(lang parser.Language, importText string, importingFile location.FilePath, tree FileTree) (location.FilePath, bool) {
	switch lang {
	case parser.LanguagePython:
		return resolvePython(importText, string(importingFile), tree)
	case parser.LanguageRust:
		return resolveRust(importText, string(importingFile), tree)
	default:
		return resolveJSLike(importText, string(importingFile), tree)
	}
}

// resolveJSLike covers both JavaScript and TypeScript (§4.7): only
// relative specifiers are resolved; a bare specifier (no leading `.` or
// `/`) is assumed to be a package import and is left external.
func resolveJSLike(importText, importingFile string, tree FileTree) (location.FilePath, bool) {
	if !strings.HasPrefix(importText, ".") && !strings.HasPrefix(importText, "/") {
		return "", false
	}

	dir := path.Dir(importingFile)
	base := path.Clean(path.Join(dir, importText))

	if hasKnownExtension(base, jsExtensions) && tree.Exists(base) {
		return location.FilePath(base), true
	}

	for _, ext := range jsExtensions {
		candidate := base + ext
		if tree.Exists(candidate) {
			return location.FilePath(candidate), true
		}
	}
	for _, ext := range jsExtensions {
		candidate := path.Join(base, "index"+ext)
		if tree.Exists(candidate) {
			return location.FilePath(candidate), true
		}
	}
	return "", false
}

func hasKnownExtension(p string, exts []string) bool {
	for _, ext := range exts {
		if strings.HasSuffix(p, ext) {
			return true
		}
	}
	return false
}

// resolvePython implements §4.7's three-step rule, including the
// sibling-first requirement: a plain `import utils` from `pkg/main.py`
// must bind to `pkg/utils.py` over a root-level `utils.py` when both
// exist, so the sibling directory is always tried before the project
// root.
func resolvePython(importText, importingFile string, tree FileTree) (location.FilePath, bool) {
	dir := path.Dir(importingFile)
	text := importText

	var bases []string
	if strings.HasPrefix(text, ".") {
		k := 0
		for k < len(text) && text[k] == '.' {
			k++
		}
		text = text[k:]
		base := dir
		for i := 0; i < k-1; i++ {
			base = path.Dir(base)
		}
		bases = []string{base}
	} else {
		bases = []string{dir, tree.Root()}
	}

	if text == "" {
		// A bare relative import (`from . import x`) carries no module
		// segments of its own; the caller resolves the named symbol
		// directly against the base package's `__init__.py`.
		for _, base := range bases {
			if p, ok := tryPythonModule(base, "__init__", tree); ok {
				return p, true
			}
		}
		return "", false
	}

	segments := strings.Split(text, ".")
	last := segments[len(segments)-1]
	leading := segments[:len(segments)-1]

	for _, base := range bases {
		dirPath := base
		for _, seg := range leading {
			dirPath = path.Join(dirPath, seg)
		}
		if p, ok := tryPythonModule(dirPath, last, tree); ok {
			return p, true
		}
	}
	return "", false
}

// tryPythonModule prefers `<last>.py` over `<last>/__init__.py` (§4.7).
func tryPythonModule(dir, last string, tree FileTree) (location.FilePath, bool) {
	file := path.Join(dir, last+".py")
	if tree.Exists(file) {
		return location.FilePath(file), true
	}
	pkgInit := path.Join(dir, last, "__init__.py")
	if tree.Exists(pkgInit) {
		return location.FilePath(pkgInit), true
	}
	return "", false
}

// resolveRust covers the three path-rooting keywords §4.7 names.
// `crate::` roots at the project root, `super::` steps one module
// (directory) up, and `self::` stays in the current module's directory;
// any other leading segment (a named dependency: `use serde::...`) is
// external. Rust modules are files (`foo.rs`) or directories
// (`foo/mod.rs`) exactly like Python packages, so candidate generation
// mirrors `tryPythonModule`.
func resolveRust(importText, importingFile string, tree FileTree) (location.FilePath, bool) {
	text := strings.TrimSuffix(strings.TrimSpace(importText), ";")
	segments := strings.Split(text, "::")
	if len(segments) == 0 {
		return "", false
	}

	dir := path.Dir(importingFile)
	var base string
	var rest []string
	switch segments[0] {
	case "crate":
		base = tree.Root()
		rest = segments[1:]
	case "super":
		base = path.Dir(dir)
		rest = segments[1:]
	case "self":
		base = dir
		rest = segments[1:]
	default:
		return "", false
	}

	if len(rest) == 0 {
		return "", false
	}
	// The final segment is usually the imported symbol, not a module
	// path component (`use crate::widgets::Widget;`); try treating it
	// as a module first (`use crate::widgets::sub;`), then fall back to
	// dropping it and resolving its parent module.
	if p, ok := tryRustModule(base, rest, tree); ok {
		return p, true
	}
	if len(rest) > 1 {
		return tryRustModule(base, rest[:len(rest)-1], tree)
	}
	return "", false
}

func tryRustModule(base string, segments []string, tree FileTree) (location.FilePath, bool) {
	dirPath := base
	for _, seg := range segments[:len(segments)-1] {
		dirPath = path.Join(dirPath, seg)
	}
	last := segments[len(segments)-1]

	file := path.Join(dirPath, last+".rs")
	if tree.Exists(file) {
		return location.FilePath(file), true
	}
	modFile := path.Join(dirPath, last, "mod.rs")
	if tree.Exists(modFile) {
		return location.FilePath(modFile), true
	}
	return "", false
}
