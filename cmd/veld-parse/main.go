// veld-parse parses Veld source files and prints the resulting syntax
// trees, or a rendered diagnostic when parsing fails.
//
// Flags:
//
//	-version   print version information (-json for machine-readable form)
//	-require   assert a semver constraint on the tool version and exit
//	           non-zero when it does not hold
//	-watch     keep running and re-parse files as they change
//	-log-file  additionally write JSON logs to the given file
//	-v         verbose (debug-level) logging
//	-quiet     suppress the AST dump, report success/failure only
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	slogmulti "github.com/samber/slog-multi"
	"golang.org/x/sync/errgroup"

	"github.com/veld-lang/veld/internal/cli"
	"github.com/veld-lang/veld/internal/diagnostic"
	"github.com/veld-lang/veld/internal/lexer"
	"github.com/veld-lang/veld/internal/parser"
	"github.com/veld-lang/veld/internal/watch"
)

var stdoutMu sync.Mutex

func main() {
	var (
		showVersion bool
		jsonOutput  bool
		watchMode   bool
		requirement string
		logFile     string
		verbose     bool
		quiet       bool
	)
	flag.BoolVar(&showVersion, "version", false, "print version information")
	flag.BoolVar(&jsonOutput, "json", false, "print version information as JSON")
	flag.BoolVar(&watchMode, "watch", false, "re-parse files when they change")
	flag.StringVar(&requirement, "require", "", "require the tool version to satisfy a semver constraint")
	flag.StringVar(&logFile, "log-file", "", "additionally write JSON logs to this file")
	flag.BoolVar(&verbose, "v", false, "verbose logging")
	flag.BoolVar(&quiet, "quiet", false, "suppress the AST dump")
	flag.Parse()

	if showVersion {
		cli.PrintVersion("veld-parse", jsonOutput)
		return
	}
	if requirement != "" {
		if err := cli.CheckRequirement(requirement); err != nil {
			cli.ExitWithError("%v", err)
		}
	}

	logger, closeLog, err := newLogger(verbose, logFile)
	if err != nil {
		cli.ExitWithError("%v", err)
	}
	defer closeLog()

	files := flag.Args()
	if len(files) == 0 {
		// No files: parse stdin once.
		src, err := io.ReadAll(os.Stdin)
		if err != nil {
			cli.ExitWithError("reading stdin: %v", err)
		}
		if !parseSource(logger, "<stdin>", string(src), quiet) {
			os.Exit(1)
		}
		return
	}

	ok := parseAll(logger, files, quiet)

	if watchMode {
		if err := watchLoop(logger, files, quiet); err != nil {
			cli.ExitWithError("%v", err)
		}
		return
	}
	if !ok {
		os.Exit(1)
	}
}

// newLogger fans log records out to a text handler on stderr and, when
// requested, a JSON handler writing to a file.
func newLogger(verbose bool, logFile string) (*slog.Logger, func(), error) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	handlers := []slog.Handler{
		slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}),
	}
	closeLog := func() {}
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("opening log file: %w", err)
		}
		handlers = append(handlers, slog.NewJSONHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug}))
		closeLog = func() { _ = f.Close() }
	}
	return slog.New(slogmulti.Fanout(handlers...)), closeLog, nil
}

// parseAll parses the given files concurrently. Independent parses never
// share parser state, so this is safe. Returns false if any file failed.
func parseAll(logger *slog.Logger, files []string, quiet bool) bool {
	g, _ := errgroup.WithContext(context.Background())
	g.SetLimit(len(files))
	failed := false
	var mu sync.Mutex
	for _, file := range files {
		file := file
		g.Go(func() error {
			if !parseFile(logger, file, quiet) {
				mu.Lock()
				failed = true
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()
	return !failed
}

func parseFile(logger *slog.Logger, path string, quiet bool) bool {
	src, err := os.ReadFile(path)
	if err != nil {
		logger.Error("read failed", "file", path, "error", err)
		return false
	}
	return parseSource(logger, path, string(src), quiet)
}

func parseSource(logger *slog.Logger, path, src string, quiet bool) bool {
	start := time.Now()
	tokens, err := lexer.Lex(src)
	if err != nil {
		logger.Error("lexing failed", "file", path, "error", err)
		fmt.Fprintln(os.Stderr, err)
		return false
	}
	root, err := parser.Parse(tokens)
	if err != nil {
		var perr *parser.ParseError
		if errors.As(err, &perr) {
			offset := 0
			if perr.Pos >= 0 && perr.Pos < len(tokens) {
				offset = tokens[perr.Pos].Offset
			}
			d := diagnostic.FromOffset(path, src, offset, perr.Msg)
			stdoutMu.Lock()
			d.Render(os.Stderr, src)
			stdoutMu.Unlock()
		}
		logger.Error("parsing failed", "file", path, "error", err)
		return false
	}
	logger.Debug("parsed", "file", path, "tokens", len(tokens), "elapsed", time.Since(start))
	if !quiet {
		stdoutMu.Lock()
		fmt.Printf("// %s\n%s\n", path, root)
		stdoutMu.Unlock()
	}
	return true
}

// watchLoop re-parses files as they change until interrupted.
func watchLoop(logger *slog.Logger, files []string, quiet bool) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	w, err := watch.New(100 * time.Millisecond)
	if err != nil {
		return fmt.Errorf("starting watcher: %w", err)
	}
	defer w.Close()

	for _, file := range files {
		if err := w.Add(file); err != nil {
			return fmt.Errorf("watching %s: %w", file, err)
		}
	}
	logger.Info("watching", "files", len(files))

	for {
		select {
		case ev := <-w.Events():
			logger.Debug("changed", "file", ev.Path)
			parseFile(logger, ev.Path, quiet)
		case err := <-w.Errors():
			logger.Error("watch error", "error", err)
		case <-ctx.Done():
			return nil
		}
	}
}
