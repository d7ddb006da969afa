// Package messages contains the headless `messages` commands. They read a
// channel through the same feed the interactive viewer uses.
package messages

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rzbill/scrollback/internal/feed"
	"github.com/rzbill/scrollback/internal/source"
	"github.com/rzbill/scrollback/pkg/log"
)

// StoreFunc opens the channel store the commands read. The returned func
// releases it.
type StoreFunc func(ctx context.Context) (source.Store, func() error, error)

// LoggerFunc returns the logger for a command run.
type LoggerFunc func() log.Logger

// NewCommand constructs the `messages` command group.
func NewCommand(open StoreFunc, logger LoggerFunc) *cobra.Command {
	if logger == nil {
		logger = log.NewNopLogger
	}
	cmd := &cobra.Command{Use: "messages", Short: "Read messages from a channel"}
	cmd.AddCommand(
		newListCommand(open, logger),
		newCountCommand(open, logger),
	)
	return cmd
}

// ListOptions selects the records `messages list` prints.
type ListOptions struct {
	After   uint64
	Before  uint64
	Reverse bool
	Limit   int
	Filter  string
	Format  string
}

func newListCommand(open StoreFunc, logger LoggerFunc) *cobra.Command {
	var opts ListOptions
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List messages in id order",
		Long: "List messages strictly between --after and --before (0 leaves a side open).\n" +
			"With --reverse the newest come first.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if opts.Format != "text" && opts.Format != "json" {
				return fmt.Errorf("invalid --format %q; use text|json", opts.Format)
			}
			store, release, err := open(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = release() }()
			_, err = List(cmd.Context(), store, opts, cmd.OutOrStdout(), logger())
			return err
		},
	}
	listCmd.Flags().Uint64Var(&opts.After, "after", 0, "Only ids greater than this")
	listCmd.Flags().Uint64Var(&opts.Before, "before", 0, "Only ids less than this")
	listCmd.Flags().BoolVar(&opts.Reverse, "reverse", false, "Read newest-to-oldest")
	listCmd.Flags().IntVar(&opts.Limit, "limit", 20, "Max messages to print (0 = all)")
	listCmd.Flags().StringVar(&opts.Filter, "filter", "", "CEL filter over id, author, body, avatar")
	listCmd.Flags().StringVar(&opts.Format, "format", "text", "Output format: text|json")
	return listCmd
}

// List writes the selected records to w and returns how many it wrote.
func List(ctx context.Context, src source.Source, opts ListOptions, w io.Writer, logger log.Logger) (int, error) {
	f, err := feed.New(src, feed.WithFilter(opts.Filter), feed.WithLogger(logger))
	if err != nil {
		return 0, err
	}
	dir, boundary, stop := source.Next, opts.After, opts.Before
	if opts.Reverse {
		dir, boundary, stop = source.Prev, opts.Before, opts.After
	}

	var (
		printed  int
		writeErr error
	)
	enc := json.NewEncoder(w)
	_, err = f.Each(ctx, boundary, dir, func(rec source.Record) bool {
		if stop != 0 && ((dir == source.Next && rec.ID >= stop) || (dir == source.Prev && rec.ID <= stop)) {
			return false
		}
		if opts.Format == "json" {
			writeErr = enc.Encode(rec)
		} else {
			writeErr = writeText(w, rec)
		}
		if writeErr != nil {
			return false
		}
		printed++
		return opts.Limit <= 0 || printed < opts.Limit
	})
	if writeErr != nil {
		return printed, writeErr
	}
	return printed, err
}

func writeText(w io.Writer, rec source.Record) error {
	var b strings.Builder
	fmt.Fprintf(&b, "#%d %s", rec.ID, rec.Author)
	if body := strings.TrimSpace(rec.Body); body != "" {
		b.WriteString(": ")
		b.WriteString(strings.ReplaceAll(body, "\n", " "))
	}
	b.WriteByte('\n')
	_, err := io.WriteString(w, b.String())
	return err
}

func newCountCommand(open StoreFunc, logger LoggerFunc) *cobra.Command {
	var filter string
	countCmd := &cobra.Command{
		Use:   "count",
		Short: "Count messages in the channel",
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, release, err := open(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = release() }()
			n, err := Count(cmd.Context(), store, filter, logger())
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), n)
			return err
		},
	}
	countCmd.Flags().StringVar(&filter, "filter", "", "CEL filter over id, author, body, avatar")
	return countCmd
}

// Count returns the number of records in store, or of those matching filter.
func Count(ctx context.Context, store source.Store, filter string, logger log.Logger) (int, error) {
	if filter == "" {
		return store.Count(ctx)
	}
	f, err := feed.New(store, feed.WithFilter(filter), feed.WithLogger(logger))
	if err != nil {
		return 0, err
	}
	return f.Each(ctx, 0, source.Next, func(source.Record) bool { return true })
}
