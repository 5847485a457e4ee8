package workspace

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnana997/semindex/pkg/location"
	"github.com/gnana997/semindex/pkg/parser"
	"github.com/gnana997/semindex/pkg/parser/queries"
	"github.com/gnana997/semindex/pkg/project"
	"github.com/gnana997/semindex/pkg/util"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestScanner_IndexesMatchingFilesAndResolvesReferences(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "math.ts", `export function add(a, b) { return a + b; }`)
	writeFile(t, root, "main.ts", `
import { add } from './math';
add(1, 2);
`)
	writeFile(t, root, "node_modules/dep/index.ts", `export function ignored() {}`)
	writeFile(t, root, "README.md", `# not source`)

	logger := util.NewLogger(util.DefaultLoggerConfig())
	pm := parser.NewParserManager(logger)
	defer pm.Close()
	qm := queries.NewQueryManager(pm, logger)
	defer qm.Close()

	proj := project.New(root, project.DefaultConfig(), logger)
	scanner := NewScanner(proj, pm, qm, logger)

	stats, result, err := scanner.Scan(root, DefaultScanOptions(), nil)
	require.NoError(t, err)

	assert.Equal(t, 2, stats.FilesDiscovered)
	assert.Equal(t, 2, stats.FilesIndexed)
	assert.Equal(t, 0, stats.FilesFailed)
	assert.Equal(t, 1, result.Resolved)

	mathFi, ok := proj.File(location.FilePath(filepath.Join(root, "math.ts")))
	require.True(t, ok)
	assert.Len(t, mathFi.Functions, 1)
}

func TestScanner_SurvivesAMalformedFileAndAccountsForItEitherWay(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "good.ts", `export function ok() { return 1; }`)
	writeFile(t, root, "bad.unknownext", `not a source file at all`)

	logger := util.NewLogger(util.DefaultLoggerConfig())
	pm := parser.NewParserManager(logger)
	defer pm.Close()
	qm := queries.NewQueryManager(pm, logger)
	defer qm.Close()

	proj := project.New(root, project.DefaultConfig(), logger)
	scanner := NewScanner(proj, pm, qm, logger)

	stats, _, err := scanner.Scan(root, DefaultScanOptions(), nil)
	require.NoError(t, err)

	// bad.unknownext doesn't match any include pattern, so only good.ts
	// is discovered and indexed.
	assert.Equal(t, 1, stats.FilesDiscovered)
	assert.Equal(t, 1, stats.FilesIndexed)
	assert.Equal(t, stats.FilesDiscovered, stats.FilesIndexed+stats.FilesFailed)
}

func TestScanner_ReportsProgressForEveryIndexedFile(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.ts", `export function a() { return 1; }`)
	writeFile(t, root, "b.ts", `export function b() { return 2; }`)

	logger := util.NewLogger(util.DefaultLoggerConfig())
	pm := parser.NewParserManager(logger)
	defer pm.Close()
	qm := queries.NewQueryManager(pm, logger)
	defer qm.Close()

	proj := project.New(root, project.DefaultConfig(), logger)
	scanner := NewScanner(proj, pm, qm, logger)

	var calls int
	_, _, err := scanner.Scan(root, DefaultScanOptions(), func(indexed, total int, currentFile string) {
		calls++
		assert.LessOrEqual(t, indexed, total)
		assert.NotEmpty(t, currentFile)
	})
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}
