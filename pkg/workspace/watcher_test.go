package workspace

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/gnana997/semindex/pkg/location"
	"github.com/gnana997/semindex/pkg/parser"
	"github.com/gnana997/semindex/pkg/parser/queries"
	"github.com/gnana997/semindex/pkg/project"
	"github.com/gnana997/semindex/pkg/util"
	"github.com/gnana997/semindex/pkg/xref"
)

func TestWatcher_StartsAndStopsCleanly(t *testing.T) {
	root := t.TempDir()

	logger := util.NewLogger(util.DefaultLoggerConfig())
	pm := parser.NewParserManager(logger)
	defer pm.Close()
	qm := queries.NewQueryManager(pm, logger)
	defer qm.Close()

	proj := project.New(root, project.DefaultConfig(), logger)
	options := DefaultWatchOptions()
	options.DebounceMs = 20

	watcher, err := NewWatcher(proj, pm, qm, options, logger)
	require.NoError(t, err)

	require.NoError(t, watcher.Start(root))
	defer watcher.Stop()

	// Stop is idempotent.
	require.NoError(t, watcher.Stop())
	require.NoError(t, watcher.Stop())
}

func TestWatcher_DebouncesAndReindexesOnWrite(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "math.ts", `export function add(a, b) { return a + b; }`)

	logger := util.NewLogger(util.DefaultLoggerConfig())
	pm := parser.NewParserManager(logger)
	defer pm.Close()
	qm := queries.NewQueryManager(pm, logger)
	defer qm.Close()

	proj := project.New(root, project.DefaultConfig(), logger)
	path := filepath.Join(root, "math.ts")

	// Seed the project with the file's initial state, same as a prior
	// full Scan would have.
	scanner := NewScanner(proj, pm, qm, logger)
	_, _, err := scanner.Scan(root, DefaultScanOptions(), nil)
	require.NoError(t, err)

	options := DefaultWatchOptions()
	options.DebounceMs = 20

	watcher, err := NewWatcher(proj, pm, qm, options, logger)
	require.NoError(t, err)

	reindexed := make(chan *xref.Result, 4)
	watcher.OnReindex(func(r *xref.Result) { reindexed <- r })

	require.NoError(t, watcher.Start(root))
	defer watcher.Stop()

	writeFile(t, root, "math.ts", `export function add(a, b) { return a + b; }
export function subtract(a, b) { return a - b; }`)

	require.Eventually(t, func() bool {
		fi, ok := proj.File(location.FilePath(path))
		return ok && len(fi.Functions) == 2
	}, 2*time.Second, 20*time.Millisecond)

	select {
	case <-reindexed:
	case <-time.After(time.Second):
		t.Fatal("expected OnReindex callback to fire after debounced write")
	}
}

func TestWatcher_RemovesFileFromIndexOnDelete(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "math.ts", `export function add(a, b) { return a + b; }`)

	logger := util.NewLogger(util.DefaultLoggerConfig())
	pm := parser.NewParserManager(logger)
	defer pm.Close()
	qm := queries.NewQueryManager(pm, logger)
	defer qm.Close()

	proj := project.New(root, project.DefaultConfig(), logger)
	path := filepath.Join(root, "math.ts")

	scanner := NewScanner(proj, pm, qm, logger)
	_, _, err := scanner.Scan(root, DefaultScanOptions(), nil)
	require.NoError(t, err)

	_, ok := proj.File(location.FilePath(path))
	require.True(t, ok)

	options := DefaultWatchOptions()
	options.DebounceMs = 20
	watcher, err := NewWatcher(proj, pm, qm, options, logger)
	require.NoError(t, err)
	require.NoError(t, watcher.Start(root))
	defer watcher.Stop()

	require.NoError(t, os.Remove(path))

	require.Eventually(t, func() bool {
		_, ok := proj.File(location.FilePath(path))
		return !ok
	}, 2*time.Second, 20*time.Millisecond)
}
