// Package main is a terminal demo of the typewriter engine.
package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"
	_ "modernc.org/sqlite"

	"github.com/petrijr/typewriter"
	"github.com/petrijr/typewriter/internal/termrender"
)

type options struct {
	Content       string
	Options       string
	Journal       string
	GlyphDuration time.Duration
	LogLevel      string
	LogFile       string
	PrintConfig   bool
}

func main() {
	os.Exit(run())
}

func run() int {
	opts, err := parseFlags(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2
	}

	content := typewriter.ParseContent([]byte(opts.Content))
	sessOpts := typewriter.ParseOptions([]byte(opts.Options))

	if opts.PrintConfig {
		cfg, _ := typewriter.Resolve(sessOpts, content)
		out, err := cfg.MarshalJSON()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		fmt.Println(string(out))
		return 0
	}

	logger, closeLog, err := newLogger(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer closeLog()

	runner := typewriter.NewLocalRunner()
	runner.Logger = logger

	if opts.Journal != "" {
		db, err := sql.Open("sqlite", opts.Journal)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to open journal: %v\n", err)
			return 1
		}
		defer db.Close()

		journal, err := typewriter.NewSQLiteJournal(db)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to open journal: %v\n", err)
			return 1
		}
		runner.Journal = journal
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	id := fmt.Sprintf("cli-%d", time.Now().UnixNano())
	if err := play(ctx, runner, id, content, sessOpts, opts.GlyphDuration); err != nil &&
		!errors.Is(err, context.Canceled) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	if err := printSummary(context.Background(), runner, id); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to read journal: %v\n", err)
		return 1
	}
	return 0
}

// play runs one session on the terminal until it completes or a key is
// pressed.
func play(ctx context.Context, runner *typewriter.LocalRunner, id string, content typewriter.Content, opts typewriter.Options, glyph time.Duration) error {
	ts, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("create terminal: %w", err)
	}
	if err := ts.Init(); err != nil {
		return fmt.Errorf("init terminal: %w", err)
	}
	defer ts.Fini()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		for {
			switch ts.PollEvent().(type) {
			case nil:
				return
			case *tcell.EventKey:
				cancel()
				return
			}
		}
	}()

	if err := runner.Start(ctx); err != nil {
		return err
	}
	defer func() { _ = runner.Stop() }()

	scr := termrender.New(ts, termrender.Config{
		Origin: termrender.Point{X: 2, Y: 1},
		Enter:  glyph,
		Exit:   glyph,
	})
	sess, err := runner.NewSession(scr, scr, content, opts, typewriter.WithID(id))
	if err != nil {
		return err
	}
	return runner.Play(ctx, sess)
}

func printSummary(ctx context.Context, runner *typewriter.LocalRunner, id string) error {
	evs, err := runner.Journal.ListEvents(ctx, id)
	if err != nil {
		return err
	}

	counts := map[string]int{}
	for _, ev := range evs {
		counts[string(ev.Type)]++
	}
	types := make([]string, 0, len(counts))
	for typ := range counts {
		types = append(types, typ)
	}
	sort.Strings(types)

	fmt.Printf("session %s: %d events\n", id, len(evs))
	for _, typ := range types {
		fmt.Printf("  %-20s %d\n", typ, counts[typ])
	}
	m := runner.Metrics.Snapshot()
	fmt.Printf("  glyphs rendered=%d removed=%d callbacks=%d\n", m.GlyphsRendered, m.GlyphsRemoved, m.CallbacksFired)
	return nil
}

func newLogger(opts options) (*slog.Logger, func(), error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(opts.LogLevel)); err != nil {
		return nil, nil, fmt.Errorf("invalid log level %q: %w", opts.LogLevel, err)
	}

	// the terminal belongs to tcell while the session runs
	var w io.Writer = io.Discard
	closeFn := func() {}
	if opts.LogFile != "" {
		f, err := os.OpenFile(opts.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, err
		}
		w = f
		closeFn = func() { _ = f.Close() }
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})), closeFn, nil
}

func parseFlags(args []string) (options, error) {
	var opts options
	fs := flag.NewFlagSet("typewriter", flag.ContinueOnError)

	fs.StringVar(&opts.Content, "content", `["Helo", "Hello, world"]`, "Content as JSON: a string, or an array of strings and [typo, fix] pairs")
	fs.StringVar(&opts.Options, "options", `{"mode": 1}`, "Options as JSON (mode, start_delay, callback_delay, letters.*, cursor.*, space)")
	fs.StringVar(&opts.Journal, "journal", "", "Path to a SQLite journal database (default in-memory)")
	fs.DurationVar(&opts.GlyphDuration, "glyph-duration", 60*time.Millisecond, "Glyph fade-in and fade-out duration")
	fs.StringVar(&opts.LogLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	fs.StringVar(&opts.LogFile, "log-file", "", "Write logs to this file")
	fs.BoolVar(&opts.PrintConfig, "print-config", false, "Print the resolved configuration as JSON and exit")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "typewriter - type text into the terminal\n\n")
		fmt.Fprintf(os.Stderr, "Usage: typewriter [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  typewriter -content '\"Hello\"' -options '{}'\n")
		fmt.Fprintf(os.Stderr, "  typewriter -content '[\"one\", \"two\"]' -options '{\"mode\": 2}'\n")
		fmt.Fprintf(os.Stderr, "  typewriter -journal typewriter.db -log-file typewriter.log\n")
	}

	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	if fs.NArg() > 0 {
		return opts, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	return opts, nil
}
