package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	mcpserver "github.com/gnana997/semindex/pkg/mcp"
	"github.com/gnana997/semindex/pkg/mcplog"
	"github.com/gnana997/semindex/pkg/parser"
	"github.com/gnana997/semindex/pkg/parser/queries"
	"github.com/gnana997/semindex/pkg/project"
	"github.com/gnana997/semindex/pkg/util"
	"github.com/gnana997/semindex/pkg/workspace"
	"github.com/gnana997/semindex/pkg/xref"
)

const version = "0.1.0-dev"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	switch command {
	case "scan":
		runScan(os.Args[2:])
	case "serve":
		runServe(os.Args[2:])
	case "watch":
		runWatch(os.Args[2:])
	case "setup":
		runSetup(os.Args[2:])
	case "version":
		fmt.Printf("semindex %s\n", version)
	case "help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

// buildProject loads a project config (if any) and indexes root, printing
// scan stats to stderr.
func buildProject(root string) (*project.Index, *parser.ParserManager, *queries.QueryManager, error) {
	cfg, err := loadProjectConfig()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("load config: %w", err)
	}

	logger := util.NewLogger(util.DefaultLoggerConfig())
	pm := parser.NewParserManager(logger)
	qm := queries.NewQueryManager(pm, logger)
	proj := project.New(root, project.DefaultConfig(), logger)

	options := workspace.DefaultScanOptions()
	if cfg != nil {
		if len(cfg.Include) > 0 {
			options.Include = cfg.Include
		}
		if len(cfg.Exclude) > 0 {
			options.Exclude = cfg.Exclude
		}
	}

	scanner := workspace.NewScanner(proj, pm, qm, logger)
	stats, result, err := scanner.Scan(root, options, func(indexed, total int, currentFile string) {
		fmt.Fprintf(os.Stderr, "\r[%d/%d] %s", indexed, total, currentFile)
	})
	if err != nil {
		pm.Close()
		return nil, nil, nil, err
	}
	fmt.Fprintf(os.Stderr, "\rindexed %d files (%d failed), %d references resolved, %d unresolved\n",
		stats.FilesIndexed, stats.FilesFailed, result.Resolved, result.Unresolved)

	return proj, pm, qm, nil
}

func runScan(args []string) {
	root := "."
	if len(args) > 0 {
		root = args[0]
	}
	_, pm, qm, err := buildProject(root)
	if err != nil {
		fmt.Fprintf(os.Stderr, "scan failed: %v\n", err)
		os.Exit(1)
	}
	qm.Close()
	pm.Close()
}

func runServe(args []string) {
	root := "."
	if len(args) > 0 {
		root = args[0]
	}

	proj, pm, qm, err := buildProject(root)
	if err != nil {
		fmt.Fprintf(os.Stderr, "serve failed: %v\n", err)
		os.Exit(1)
	}
	defer qm.Close()
	defer pm.Close()

	logPath := resolveLogPath()
	toolLog, err := mcplog.NewLogger(logPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open tool log %q: %v\n", logPath, err)
		os.Exit(1)
	}

	srv := mcpserver.NewServer(proj, pm, qm, toolLog)
	defer srv.Close()

	if err := srv.ServeStdio(); err != nil {
		fmt.Fprintf(os.Stderr, "server error: %v\n", err)
		os.Exit(1)
	}
}

func runWatch(args []string) {
	root := "."
	if len(args) > 0 {
		root = args[0]
	}

	proj, pm, qm, err := buildProject(root)
	if err != nil {
		fmt.Fprintf(os.Stderr, "watch failed: %v\n", err)
		os.Exit(1)
	}
	defer qm.Close()
	defer pm.Close()

	logger := util.NewLogger(util.DefaultLoggerConfig())
	watcher, err := workspace.NewWatcher(proj, pm, qm, workspace.DefaultWatchOptions(), logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to start watcher: %v\n", err)
		os.Exit(1)
	}
	watcher.OnReindex(func(result *xref.Result) {
		fmt.Fprintf(os.Stderr, "reindexed: %d resolved, %d unresolved\n", result.Resolved, result.Unresolved)
	})

	if err := watcher.Start(root); err != nil {
		fmt.Fprintf(os.Stderr, "failed to watch %s: %v\n", root, err)
		os.Exit(1)
	}
	defer watcher.Stop()

	fmt.Fprintf(os.Stderr, "watching %s for changes (ctrl-c to stop)\n", root)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
}

func printUsage() {
	fmt.Println("Usage: semindex <command>")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  scan       Index a workspace and print summary stats")
	fmt.Println("  serve      Start the MCP server over an indexed workspace")
	fmt.Println("  watch      Index a workspace and keep reindexing on change")
	fmt.Println("  setup      Configure this project's AI agents to use semindex")
	fmt.Println("  version    Print version")
	fmt.Println("  help       Show this help message")
}
