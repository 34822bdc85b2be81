package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/alecthomas/kong"
	"golang.org/x/sync/errgroup"

	"github.com/eringen/pubgen"
)

// CLI is the root command line.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path" default:"pubgen.yaml"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Build   BuildCmd   `cmd:"" help:"Build the site into the output directory"`
	Serve   ServeCmd   `cmd:"" help:"Build, then serve the output directory for preview"`
	Entries EntriesCmd `cmd:"" help:"List the entries recorded by the last build"`
	New     NewCmd     `cmd:"" help:"Create a new site skeleton"`
	Ver     VersionCmd `cmd:"" name:"version" help:"Print the pubgen version"`
}

// AfterApply runs after flag parsing; setup logging once.
func (c *CLI) AfterApply() error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return nil
}

func (c *CLI) site() (*pubgen.Site, error) {
	cfg, err := pubgen.LoadConfig(c.Config)
	if err != nil {
		return nil, err
	}
	return pubgen.New(cfg, pubgen.WithLogger(slog.Default())), nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// BuildCmd implements the 'build' command.
type BuildCmd struct {
	Output string `short:"o" help:"Override the configured output directory"`
}

func (b *BuildCmd) Run(root *CLI) error {
	site, err := root.site()
	if err != nil {
		return err
	}
	if b.Output != "" {
		site.Config.OutputDir = b.Output
	}
	ctx, stop := signalContext()
	defer stop()
	_, err = site.Build(ctx)
	return err
}

// ServeCmd implements the 'serve' command.
type ServeCmd struct {
	Addr  string `short:"a" help:"Listen address (default from config)"`
	Watch bool   `short:"w" help:"Rebuild when sources change"`
}

func (s *ServeCmd) Run(root *CLI) error {
	site, err := root.site()
	if err != nil {
		return err
	}
	addr := site.Config.Addr
	if s.Addr != "" {
		addr = s.Addr
	}

	ctx, stop := signalContext()
	defer stop()
	if _, err := site.Build(ctx); err != nil {
		return err
	}

	group, groupctx := errgroup.WithContext(ctx)
	group.Go(func() error { return site.Serve(groupctx, addr) })
	if s.Watch {
		group.Go(func() error { return site.Watch(groupctx) })
	}
	return group.Wait()
}

// EntriesCmd implements the 'entries' command.
type EntriesCmd struct{}

func (e *EntriesCmd) Run(root *CLI) error {
	cfg, err := pubgen.LoadConfig(root.Config)
	if err != nil {
		return err
	}
	if cfg.ManifestPath == "" {
		return errors.New("manifest_path is not configured")
	}
	store, err := pubgen.NewStore(cfg.ManifestPath)
	if err != nil {
		return err
	}
	defer store.Close()
	return printEntries(os.Stdout, store)
}

func printEntries(w io.Writer, store *pubgen.Store) error {
	entries, err := store.ListEntries()
	if err != nil {
		return err
	}
	built, err := store.LastBuild()
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Fprintln(w, "No entries recorded. Run 'pubgen build' first.")
		return nil
	}
	fmt.Fprintf(w, "%d entries, built %s\n\n", len(entries), built.Local().Format(time.DateTime))
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "PUBLISHED\tUPDATED\tTITLE\tURL")
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", e.Published.Format(time.DateOnly), e.Updated.Format(time.DateOnly), e.Title, e.URL)
	}
	return tw.Flush()
}

// NewCmd implements the 'new' command.
type NewCmd struct {
	Name string `arg:"" help:"Directory name of the new site"`
}

func (n *NewCmd) Run() error {
	return runNew(n.Name, time.Now())
}

// VersionCmd implements the 'version' command.
type VersionCmd struct{}

func (v *VersionCmd) Run() error {
	fmt.Printf("pubgen %s\n", version)
	return nil
}
