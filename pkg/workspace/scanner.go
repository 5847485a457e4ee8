// Package workspace implements whole-tree indexing (§5.12): discover the
// files a workspace holds, run each through the single-file indexing
// pipeline in parallel, load every result into a project.Index, and
// finally run the project-wide passes (type tracking, override
// detection, cross-file reference resolution) once the whole tree is
// loaded.
//
// Grounded on the teacher's WorkspaceScanner (pkg/indexer/scanner.go):
// the same three-phase pipeline (discover via bmatcuk/doublestar
// include/exclude globs and filepath.WalkDir, process via a worker
// pool, then index results into shared state) carries over unchanged in
// shape. What differs is the unit of work: the teacher's workers call
// extractor.Extractor.ExtractFile and the result collector calls
// SymbolIndexer.AddFileSymbolsWithTypes; here each worker runs the full
// fileindexer.IndexFile pipeline itself (parallelism exists only across
// files, never inside one file's single-threaded indexing pass, per
// §4.6) and the collector calls project.Index.UpdateFile.
package workspace

import (
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/gnana997/semindex/pkg/parser"
	"github.com/gnana997/semindex/pkg/parser/queries"
	"github.com/gnana997/semindex/pkg/project"
	"github.com/gnana997/semindex/pkg/util"
	"github.com/gnana997/semindex/pkg/xref"
)

// ScanOptions configures a workspace scan's file discovery.
type ScanOptions struct {
	// Include patterns (doublestar glob syntax, e.g. "**/*.ts"). If
	// empty, DefaultScanOptions' language extensions are used.
	Include []string

	// Exclude patterns (doublestar glob syntax), checked before Include
	// so an excluded directory is never walked into.
	Exclude []string
}

// DefaultScanOptions covers the four languages the indexing pipeline
// understands.
func DefaultScanOptions() ScanOptions {
	return ScanOptions{
		Include: []string{
			"**/*.ts", "**/*.tsx", "**/*.js", "**/*.jsx",
			"**/*.py", "**/*.rs",
		},
		Exclude: []string{
			"node_modules/**", ".git/**", "dist/**", "build/**",
			"target/**", "__pycache__/**", ".venv/**", "venv/**",
			".next/**", "coverage/**", "out/**",
		},
	}
}

// ProgressCallback is invoked after each file is indexed.
type ProgressCallback func(indexed, total int, currentFile string)

// ScanStats summarizes one Scan call.
type ScanStats struct {
	FilesDiscovered int
	FilesIndexed    int
	FilesFailed     int
	Errors          []FileError

	DiscoveryTimeMs int64
	IndexingTimeMs  int64
	TotalTimeMs     int64
	WorkerCount     int

	ReferencesResolved   int
	ReferencesUnresolved int
}

// Scanner walks a workspace, indexes every matching file into proj, and
// runs the project-wide resolution passes once the tree is fully
// loaded.
type Scanner struct {
	proj   *project.Index
	pm     *parser.ParserManager
	qm     *queries.QueryManager
	logger *slog.Logger
}

// NewScanner builds a Scanner over proj. pm/qm are shared across every
// worker goroutine the scan spawns, same as the teacher's ParserManager
// pooling requires.
func NewScanner(proj *project.Index, pm *parser.ParserManager, qm *queries.QueryManager, logger *slog.Logger) *Scanner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scanner{proj: proj, pm: pm, qm: qm, logger: logger}
}

// Scan discovers files under root matching options, indexes them in
// parallel into the Scanner's project.Index, and then resolves
// cross-file references project-wide. The xref.Result from that final
// pass is returned alongside file-level stats so callers can inspect
// override/type-tracking state if they need it.
func (s *Scanner) Scan(root string, options ScanOptions, progress ProgressCallback) (*ScanStats, *xref.Result, error) {
	start := time.Now()
	stats := &ScanStats{}

	discoveryStart := time.Now()
	files, err := s.discoverFiles(root, options)
	if err != nil {
		return nil, nil, fmt.Errorf("workspace: file discovery failed: %w", err)
	}
	stats.FilesDiscovered = len(files)
	stats.DiscoveryTimeMs = time.Since(discoveryStart).Milliseconds()

	s.logger.Info("workspace discovery complete", "files_found", len(files), "duration_ms", stats.DiscoveryTimeMs)

	if len(files) == 0 {
		stats.TotalTimeMs = time.Since(start).Milliseconds()
		return stats, xref.Run(s.proj), nil
	}

	indexingStart := time.Now()
	if err := s.indexParallel(files, stats, progress); err != nil {
		return nil, nil, fmt.Errorf("workspace: indexing failed: %w", err)
	}
	stats.IndexingTimeMs = time.Since(indexingStart).Milliseconds()

	result := xref.Run(s.proj)
	stats.ReferencesResolved = result.Resolved
	stats.ReferencesUnresolved = result.Unresolved

	stats.TotalTimeMs = time.Since(start).Milliseconds()
	s.logger.Info("workspace scan complete",
		"files_indexed", stats.FilesIndexed,
		"files_failed", stats.FilesFailed,
		"references_resolved", stats.ReferencesResolved,
		"references_unresolved", stats.ReferencesUnresolved,
		"duration_ms", stats.TotalTimeMs)

	return stats, result, nil
}

// discoverFiles walks root applying Exclude before Include, mirroring
// the teacher's discoverFiles, so an excluded directory is skipped
// entirely via fs.SkipDir rather than merely filtered out file-by-file.
func (s *Scanner) discoverFiles(root string, options ScanOptions) ([]string, error) {
	var files []string

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			s.logger.Warn("workspace walk error", "path", path, "error", err)
			return nil
		}

		relPath, err := filepath.Rel(root, path)
		if err != nil {
			relPath = path
		}
		relPath = filepath.ToSlash(relPath)

		for _, pattern := range options.Exclude {
			if matched, _ := doublestar.PathMatch(pattern, relPath); matched {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
		}

		if d.IsDir() {
			return nil
		}

		if len(options.Include) > 0 {
			matched := false
			for _, pattern := range options.Include {
				if m, _ := doublestar.PathMatch(pattern, relPath); m {
					matched = true
					break
				}
			}
			if !matched {
				return nil
			}
		}

		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

// indexParallel runs every file through a WorkerPool and loads each
// result into s.proj as it arrives. The result collector starts before
// any job is submitted, same deadlock-avoidance the teacher's
// processFilesParallel depends on: submitting first can block on a full
// jobs channel with nothing yet draining results.
func (s *Scanner) indexParallel(files []string, stats *ScanStats, progress ProgressCallback) error {
	numWorkers := util.GetOptimalPoolSize()
	stats.WorkerCount = numWorkers

	pool := NewWorkerPool(numWorkers, s.pm, s.qm, s.proj.MaxFileSize(), s.logger)
	pool.Start()
	defer pool.Stop()

	total := len(files)
	done := make(chan struct{})
	indexed := 0
	failed := 0

	go func() {
		defer close(done)
		for indexed+failed < total {
			select {
			case result, ok := <-pool.Results():
				if !ok {
					return
				}
				s.proj.UpdateFile(result.FilePath, result.Index)
				indexed++
				stats.FilesIndexed++
				if progress != nil {
					progress(indexed, total, string(result.FilePath))
				}

			case fileErr, ok := <-pool.Errors():
				if !ok {
					return
				}
				stats.Errors = append(stats.Errors, fileErr)
				stats.FilesFailed++
				failed++
				s.logger.Warn("workspace file indexing failed", "file", fileErr.FilePath, "error", fileErr.Error)
			}
		}
	}()

	for i, file := range files {
		if err := pool.Submit(FileJob{FilePath: file, JobID: i}); err != nil {
			return fmt.Errorf("submit %s: %w", file, err)
		}
	}
	pool.FinishSubmitting()

	<-done
	return nil
}
