// Package project implements the project index (§2, §5): the sole
// mutable aggregate that owns a SingleFileIndex per file and the
// reverse indices built across them.
//
// Grounded on pkg/indexer.SymbolIndexer: the same shape (LRU-cached
// primary store, reverse file index, lazy-dirty tracking, RWMutex,
// atomic stat counters) generalized from the teacher's flat
// []*extractor.Symbol per file to the richer index.SingleFileIndex,
// and from the teacher's FQN string keys to location.SymbolId/SymbolName.
package project

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/gnana997/semindex/pkg/fileindexer"
	"github.com/gnana997/semindex/pkg/index"
	"github.com/gnana997/semindex/pkg/location"
)

// Config mirrors indexer.SymbolIndexerConfig: an LRU eviction bound plus
// a debug-logging switch.
type Config struct {
	// MaxCachedFiles bounds the LRU cache. Default: 1000.
	MaxCachedFiles int
	Debug          bool

	// MaxFileSizeBytes bounds how large a file the workspace scanner and
	// watcher will read before handing it to fileindexer.IndexFile.
	// Default: fileindexer.MaxFileSize. IndexFile enforces its own
	// ceiling regardless, so this only ever saves a wasted read/stat of
	// a file the indexer would reject anyway (§7).
	MaxFileSizeBytes int
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{MaxCachedFiles: 1000, Debug: false, MaxFileSizeBytes: fileindexer.MaxFileSize}
}

// Stats mirrors indexer.SymbolIndexerStats' lock-free counters.
type Stats struct {
	IndexedFiles int64
	CachedFiles  int
	DirtyFiles   int
	CacheHits    int64
	CacheMisses  int64
	Evictions    int64
}

// Index is the project's sole mutable aggregate (§5). Index only ever
// swaps the whole SingleFileIndex value for a path; the one in-place
// change to a held value is xref.Run setting its references'
// ResolvedSymbolId.
type Index struct {
	root string

	// Primary store: FilePath → SingleFileIndex, LRU-evicted.
	files *lru.Cache[location.FilePath, *index.SingleFileIndex]

	// Reverse indices (§2), rebuilt for one file on every UpdateFile and
	// invalidated (never recomputed eagerly) for files that depended on
	// it, per §5's lazy dependent-cache invalidation.
	exportsByFile map[location.FilePath]map[location.SymbolName]location.SymbolId
	classesByName map[location.SymbolName][]location.SymbolId
	typesByName   map[location.SymbolName][]location.SymbolId

	// importers[target] is the set of files whose imports resolved to
	// target, kept so UpdateFile(target, ...) knows whose unresolved
	// references to re-queue for retry (§5, §4.8).
	importers map[location.FilePath]map[location.FilePath]bool

	// dirty marks a file whose cached index is known stale but has not
	// yet been reindexed — the lazy (Salsa-style) invalidation the
	// teacher's dirtyFiles map implements.
	dirty map[location.FilePath]bool

	mu sync.RWMutex

	indexedFiles atomic.Int64
	cacheHits    atomic.Int64
	cacheMisses  atomic.Int64
	evictions    atomic.Int64

	config Config
	logger *slog.Logger
}

// New creates a project index rooted at root (used by the module
// resolver's FileTree.Root()).
func New(root string, config Config, logger *slog.Logger) *Index {
	if config.MaxCachedFiles == 0 {
		config.MaxCachedFiles = 1000
	}
	if config.MaxFileSizeBytes == 0 {
		config.MaxFileSizeBytes = fileindexer.MaxFileSize
	}
	if logger == nil {
		logger = slog.Default()
	}

	p := &Index{
		root:          root,
		exportsByFile: make(map[location.FilePath]map[location.SymbolName]location.SymbolId),
		classesByName: make(map[location.SymbolName][]location.SymbolId),
		typesByName:   make(map[location.SymbolName][]location.SymbolId),
		importers:     make(map[location.FilePath]map[location.FilePath]bool),
		dirty:         make(map[location.FilePath]bool),
		config:        config,
		logger:        logger,
	}

	cache, err := lru.NewWithEvict(config.MaxCachedFiles, func(key location.FilePath, _ *index.SingleFileIndex) {
		p.evictions.Add(1)
		if config.Debug {
			logger.Debug("project index evicting file", "path", key)
		}
	})
	if err != nil {
		panic(fmt.Sprintf("project: failed to create LRU cache: %v", err))
	}
	p.files = cache
	return p
}

// Root returns the project root, satisfying resolve.FileTree.
func (p *Index) Root() string { return p.root }

// MaxFileSize returns the configured size ceiling (§7) scanners and
// watchers should check before reading a file, so an oversized file is
// skipped without the wasted read fileindexer.IndexFile would reject
// anyway.
func (p *Index) MaxFileSize() int { return p.config.MaxFileSizeBytes }

// Exists reports whether path names a file this index currently holds.
// This is deliberately "known to the project", not "present on disk" —
// the module resolver only ever needs to know about files the project
// has actually indexed (§4.7).
func (p *Index) Exists(path string) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.files.Contains(location.FilePath(path))
}

// UpdateFile replaces a file's SingleFileIndex atomically and rebuilds
// the reverse indices it contributes to (§5: "atomically swaps it into
// the project, and invalidates dependent caches"). The previous entry,
// if any, is fully retracted first so stale reverse-index rows never
// linger after a symbol is renamed or removed.
func (p *Index) UpdateFile(path location.FilePath, fi *index.SingleFileIndex) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.retractUnsafe(path)

	evicted := p.files.Add(path, fi)
	if evicted {
		p.evictions.Add(1)
	}
	p.indexedFiles.Add(1)
	delete(p.dirty, path)

	exported := fi.ExportedNames()
	p.exportsByFile[path] = exported
	for name, id := range exported {
		p.typesByName[name] = append(p.typesByName[name], id)
	}
	for id, c := range fi.Classes {
		p.classesByName[c.Name] = append(p.classesByName[c.Name], id)
	}
	for id, iface := range fi.Interfaces {
		p.typesByName[iface.Name] = append(p.typesByName[iface.Name], id)
	}
	for id, e := range fi.Enums {
		p.typesByName[e.Name] = append(p.typesByName[e.Name], id)
	}
	for id, t := range fi.TypeAliases {
		p.typesByName[t.Name] = append(p.typesByName[t.Name], id)
	}

	for _, imp := range fi.Imports {
		target, ok := p.resolvedImportTarget(path, imp)
		if !ok {
			continue
		}
		if p.importers[target] == nil {
			p.importers[target] = make(map[location.FilePath]bool)
		}
		p.importers[target][path] = true
	}

	// Any file whose unresolved references named something this file now
	// exports is stale and worth retrying; mark it dirty rather than
	// reindexing eagerly (§5 lazy invalidation).
	for importer := range p.importers[path] {
		if importer != path {
			p.dirty[importer] = true
		}
	}

	if p.config.Debug {
		p.logger.Debug("project index updated file", "path", path,
			"classes", len(fi.Classes), "functions", len(fi.Functions))
	}
}

// resolvedImportTarget returns the file path backing a local import
// record, if one was recorded. ProjectIndex doesn't itself run the
// module resolver (that's pkg/resolve, a pure function of a FileTree);
// it only tracks importer/importee relationships that pkg/xref already
// established by resolving and recording imports as files it holds.
func (p *Index) resolvedImportTarget(_ location.FilePath, imp *index.Import) (location.FilePath, bool) {
	candidate := location.FilePath(imp.ImportPath)
	if p.files.Contains(candidate) {
		return candidate, true
	}
	return "", false
}

// retractUnsafe removes path's prior contribution to every reverse
// index. Callers must hold p.mu.
func (p *Index) retractUnsafe(path location.FilePath) {
	prev, ok := p.files.Peek(path)
	if !ok {
		delete(p.exportsByFile, path)
		return
	}

	for name := range p.exportsByFile[path] {
		p.typesByName[name] = removeFromFile(p.typesByName[name], path)
	}
	delete(p.exportsByFile, path)

	for _, c := range prev.Classes {
		p.classesByName[c.Name] = removeFromFile(p.classesByName[c.Name], path)
	}
	for _, iface := range prev.Interfaces {
		p.typesByName[iface.Name] = removeFromFile(p.typesByName[iface.Name], path)
	}
	for _, e := range prev.Enums {
		p.typesByName[e.Name] = removeFromFile(p.typesByName[e.Name], path)
	}
	for _, t := range prev.TypeAliases {
		p.typesByName[t.Name] = removeFromFile(p.typesByName[t.Name], path)
	}

	for target, importers := range p.importers {
		delete(importers, path)
		if len(importers) == 0 {
			delete(p.importers, target)
		}
	}
}

func removeFromFile(ids []location.SymbolId, path location.FilePath) []location.SymbolId {
	out := ids[:0]
	for _, id := range ids {
		if location.FileOf(id) != path {
			out = append(out, id)
		}
	}
	return out
}

// RemoveFile fully retracts a file from the index, e.g. on delete.
func (p *Index) RemoveFile(path location.FilePath) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.retractUnsafe(path)
	p.files.Remove(path)
	delete(p.dirty, path)
}

// File returns the current SingleFileIndex for path.
func (p *Index) File(path location.FilePath) (*index.SingleFileIndex, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	fi, ok := p.files.Get(path)
	if ok {
		p.cacheHits.Add(1)
	} else {
		p.cacheMisses.Add(1)
	}
	return fi, ok
}

// Files returns every currently cached file path, for workspace-wide
// sweeps (e.g. pkg/inherit's override search).
func (p *Index) Files() []location.FilePath {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return append([]location.FilePath(nil), p.files.Keys()...)
}

// ExportedSymbol looks up name among path's exported symbols — the
// per-file half of cross-file import resolution (§4.8 strategy 1).
func (p *Index) ExportedSymbol(path location.FilePath, name location.SymbolName) (location.SymbolId, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	names, ok := p.exportsByFile[path]
	if !ok {
		return "", false
	}
	id, ok := names[name]
	return id, ok
}

// ClassesByName returns every class across the project sharing name —
// used by inheritance resolution (§4.10) when an `extends`/base-class
// reference isn't already bound to a specific file.
func (p *Index) ClassesByName(name location.SymbolName) []location.SymbolId {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return append([]location.SymbolId(nil), p.classesByName[name]...)
}

// TypesByName is the type registry's global fallback lookup (§4.9): a
// name not bound as a built-in or a file-local type falls back here.
func (p *Index) TypesByName(name location.SymbolName) []location.SymbolId {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return append([]location.SymbolId(nil), p.typesByName[name]...)
}

// ImportersOf returns the files whose imports currently resolve to
// target, so pkg/xref knows which unresolved-reference queues to retry
// when target changes (§5).
func (p *Index) ImportersOf(target location.FilePath) []location.FilePath {
	p.mu.RLock()
	defer p.mu.RUnlock()
	set := p.importers[target]
	out := make([]location.FilePath, 0, len(set))
	for f := range set {
		out = append(out, f)
	}
	return out
}

// IsDirty reports whether path was marked stale by a dependency update
// but hasn't been reindexed yet (§5 lazy invalidation).
func (p *Index) IsDirty(path location.FilePath) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.dirty[path]
}

// MarkDirty flags path for recomputation without reindexing it
// immediately — used by the workspace watcher on a raw filesystem
// change event, ahead of the actual reparse.
func (p *Index) MarkDirty(path location.FilePath) {
	p.mu.Lock()
	p.dirty[path] = true
	p.mu.Unlock()
}

// Stats snapshots the index's counters.
func (p *Index) Stats() Stats {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return Stats{
		IndexedFiles: p.indexedFiles.Load(),
		CachedFiles:  p.files.Len(),
		DirtyFiles:   len(p.dirty),
		CacheHits:    p.cacheHits.Load(),
		CacheMisses:  p.cacheMisses.Load(),
		Evictions:    p.evictions.Load(),
	}
}

// ComputeContentHash hashes file content for change detection, mirroring
// the teacher's FileSymbols.ContentHash field.
func ComputeContentHash(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}
