package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/tsgonest/typeschema/internal/watcher"
)

// watchDebounce batches the writes an editor or generator makes in quick succession.
const watchDebounce = 200 * time.Millisecond

// runWatch implements "typeschema watch": generate once, then regenerate
// whenever the type graph, the config file or its .env changes.
func runWatch(args []string) int {
	f, err := parseGenerateArgs("watch", args)
	if err != nil {
		return flagExitCode(err)
	}

	cwd, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: could not get working directory: %v\n", err)
		return 1
	}

	res, err := resolveConfig(f, cwd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	if res.Path != "" {
		fmt.Fprintf(os.Stderr, "loaded config from %s\n", res.Path)
	}
	if res.Config.Output == "" {
		fmt.Fprintf(os.Stderr, "error: watch needs an output file, not stdout\n")
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s := &watchSession{flags: f, cwd: cwd, input: res.Config.Input}
	s.rebuild(ctx)

	paths := []string{res.Config.Input, res.EnvFile()}
	if res.Path != "" {
		paths = append(paths, res.Path)
	}
	w := watcher.New(paths, nil, watchDebounce, func(events []watcher.Event) {
		for _, e := range events {
			fmt.Fprintf(os.Stderr, "%s %s\n", e.Op, e.Path)
		}
		s.rebuild(ctx)
	})

	fmt.Fprintf(os.Stderr, "watching %s for changes (ctrl-c to stop)\n", res.Config.Input)
	if err := w.Watch(ctx); err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	fmt.Fprintf(os.Stderr, "stopped\n")
	return 0
}

// watchSession regenerates on demand. Rebuilds never overlap.
type watchSession struct {
	flags *generateFlags
	cwd   string
	input string // the input being watched

	mu sync.Mutex
}

// rebuild re-reads the configuration, since the config file or .env may be
// what changed, and regenerates.
func (s *watchSession) rebuild(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := resolveConfig(s.flags, s.cwd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	if res.Config.Input != s.input {
		fmt.Fprintf(os.Stderr, "warning: input changed to %s; restart watch to follow it\n", res.Config.Input)
	}

	result, err := generate(ctx, res.Config, os.Stdout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	report(res.Config, result)
}
