package workspace

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"

	"github.com/gnana997/semindex/pkg/fileindexer"
	"github.com/gnana997/semindex/pkg/index"
	"github.com/gnana997/semindex/pkg/location"
	"github.com/gnana997/semindex/pkg/parser"
	"github.com/gnana997/semindex/pkg/parser/queries"
	"github.com/gnana997/semindex/pkg/util"
)

// FileJob is one file awaiting indexing.
type FileJob struct {
	FilePath string
	JobID    int
}

// FileResult is one file's finished index, ready for project.Index.UpdateFile.
type FileResult struct {
	FilePath location.FilePath
	Index    *index.SingleFileIndex
	JobID    int
}

// WorkerPool runs fileindexer.IndexFile across a fixed number of
// goroutines, same channel-based architecture as the teacher's
// WorkerPool (pkg/indexer/worker_pool.go): buffered jobs channel,
// separate results/errors channels, idempotent Start/Stop lifecycle.
// ParserManager and QueryManager are shared across workers — they pool
// tree-sitter parsers internally and are built for exactly this kind
// of concurrent reuse.
type WorkerPool struct {
	numWorkers  int
	jobs        chan FileJob
	results     chan FileResult
	errors      chan FileError
	wg          sync.WaitGroup
	pm          *parser.ParserManager
	qm          *queries.QueryManager
	logger      *slog.Logger
	maxFileSize int64

	// cache mmaps every file a worker reads rather than paying a full
	// os.ReadFile copy per job — a scan reads each file exactly once, so
	// there is no staleness risk the way there would be re-reading a
	// file the watcher already knows changed (§7, see pkg/util.FileCache).
	cache util.FileCache

	ctx        context.Context
	cancel     context.CancelFunc
	started    atomic.Bool
	stopped    atomic.Bool
	jobsClosed atomic.Bool

	jobsSubmitted atomic.Int64
	jobsProcessed atomic.Int64
	jobsFailed    atomic.Int64
}

// NewWorkerPool builds a pool of numWorkers goroutines, each indexing
// files independently via pm/qm. maxFileSize bounds how large a file a
// worker will read before indexing it (§7); 0 falls back to
// fileindexer.MaxFileSize, the ceiling fileindexer.IndexFile enforces
// regardless.
func NewWorkerPool(numWorkers int, pm *parser.ParserManager, qm *queries.QueryManager, maxFileSize int, logger *slog.Logger) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = 1
	}
	if maxFileSize <= 0 {
		maxFileSize = fileindexer.MaxFileSize
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &WorkerPool{
		numWorkers:  numWorkers,
		jobs:        make(chan FileJob, numWorkers*2),
		results:     make(chan FileResult, numWorkers),
		errors:      make(chan FileError, numWorkers),
		pm:          pm,
		qm:          qm,
		logger:      logger,
		maxFileSize: int64(maxFileSize),
		cache:       util.NewFileCache(util.DefaultFileCacheConfig()),
		ctx:         ctx,
		cancel:      cancel,
	}
}

// Start spawns the worker goroutines. Must be called before Submit.
func (wp *WorkerPool) Start() {
	if !wp.started.CompareAndSwap(false, true) {
		return
	}
	for i := 0; i < wp.numWorkers; i++ {
		wp.wg.Add(1)
		go wp.worker(i)
	}
}

func (wp *WorkerPool) worker(id int) {
	defer wp.wg.Done()
	for {
		select {
		case <-wp.ctx.Done():
			return
		case job, ok := <-wp.jobs:
			if !ok {
				return
			}
			wp.processJob(job)
		}
	}
}

func (wp *WorkerPool) processJob(job FileJob) {
	if info, err := os.Stat(job.FilePath); err == nil && info.Size() > wp.maxFileSize {
		wp.jobsFailed.Add(1)
		wp.errors <- FileError{FilePath: job.FilePath, Error: &fileindexer.FileTooLargeError{
			FilePath: job.FilePath, Size: int(info.Size()), Limit: int(wp.maxFileSize),
		}}
		return
	}

	mf, err := wp.cache.Get(job.FilePath)
	if err != nil {
		wp.jobsFailed.Add(1)
		wp.errors <- FileError{FilePath: job.FilePath, Error: fmt.Errorf("read file: %w", err)}
		return
	}

	fi, err := fileindexer.IndexFile(wp.pm, wp.qm, job.FilePath, []byte(mf.Data))
	if err != nil {
		wp.jobsFailed.Add(1)
		wp.errors <- FileError{FilePath: job.FilePath, Error: fmt.Errorf("index file: %w", err)}
		return
	}

	wp.jobsProcessed.Add(1)
	wp.results <- FileResult{FilePath: location.FilePath(job.FilePath), Index: fi, JobID: job.JobID}
}

// Submit enqueues a job; blocks if the jobs channel is full.
func (wp *WorkerPool) Submit(job FileJob) error {
	if wp.stopped.Load() {
		return fmt.Errorf("worker pool is stopped")
	}
	wp.jobsSubmitted.Add(1)
	select {
	case <-wp.ctx.Done():
		return fmt.Errorf("worker pool cancelled")
	case wp.jobs <- job:
		return nil
	}
}

// Results returns the channel workers publish finished indices to.
func (wp *WorkerPool) Results() <-chan FileResult {
	return wp.results
}

// Errors returns the channel workers publish failures to.
func (wp *WorkerPool) Errors() <-chan FileError {
	return wp.errors
}

// FinishSubmitting closes the jobs channel. Idempotent.
func (wp *WorkerPool) FinishSubmitting() {
	if wp.jobsClosed.CompareAndSwap(false, true) {
		close(wp.jobs)
	}
}

// Wait blocks until every worker goroutine has returned.
func (wp *WorkerPool) Wait() {
	wp.wg.Wait()
}

// Stop gracefully shuts the pool down: closes the jobs channel if
// still open, waits for workers to drain, then closes results/errors.
// Idempotent.
func (wp *WorkerPool) Stop() {
	if !wp.stopped.CompareAndSwap(false, true) {
		return
	}
	if wp.jobsClosed.CompareAndSwap(false, true) {
		close(wp.jobs)
	}
	wp.wg.Wait()
	close(wp.results)
	close(wp.errors)
	wp.cancel()
	if err := wp.cache.Close(); err != nil {
		wp.logger.Warn("worker pool: failed to close file cache", "error", err)
	}
}
