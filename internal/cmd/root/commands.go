package root

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	viewcmd "github.com/rzbill/scrollback/internal/cmd/view"
	"github.com/rzbill/scrollback/internal/seed"
	logpkg "github.com/rzbill/scrollback/pkg/log"
)

// isTerminal reports whether the viewer can own stdout. Tests replace it.
var isTerminal = func() bool {
	return term.IsTerminal(int(os.Stdout.Fd())) && term.IsTerminal(int(os.Stdin.Fd()))
}

func newInitCommand(g *globals) *cobra.Command {
	var count int
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Create the store and channel, seeding demo messages into an empty channel",
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := g.headlessLogger()
			store, release, err := g.openChannel(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = release() }()

			cfg, err := g.config()
			if err != nil {
				return err
			}
			if count < 0 {
				count = cfg.Seed.Count
			}
			existing, err := store.Count(cmd.Context())
			if err != nil {
				return err
			}
			seeded := 0
			if existing == 0 && count > 0 {
				ids, err := seed.Seed(cmd.Context(), store, count, cfg.Seed.BatchSize,
					seed.WithGenerator(seed.NewGenerator(cfg.Seed.RandSeed)),
					seed.WithLogger(logger))
				seeded = len(ids)
				if err != nil {
					return err
				}
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "channel %s: %d messages (seeded %d)\n",
				cfg.Channel, existing+seeded, seeded)
			return err
		},
	}
	initCmd.Flags().IntVar(&count, "seed", -1, "Messages to seed when the channel is empty (default from config, 0 disables)")
	return initCmd
}

func newSeedCommand(g *globals) *cobra.Command {
	var (
		count     int
		batchSize int
		randSeed  int64
	)
	seedCmd := &cobra.Command{
		Use:   "seed",
		Short: "Append random demo messages to the channel",
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := g.headlessLogger()
			cfg, err := g.config()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("count") {
				count = cfg.Seed.Count
			}
			if !cmd.Flags().Changed("batch") {
				batchSize = cfg.Seed.BatchSize
			}
			if !cmd.Flags().Changed("rand-seed") {
				randSeed = cfg.Seed.RandSeed
			}
			store, release, err := g.openChannel(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = release() }()

			ids, err := seed.Seed(cmd.Context(), store, count, batchSize,
				seed.WithGenerator(seed.NewGenerator(randSeed)),
				seed.WithLogger(logger))
			if err != nil {
				return err
			}
			if len(ids) == 0 {
				_, err = fmt.Fprintln(cmd.OutOrStdout(), "appended 0 messages")
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "appended %d messages (#%d-#%d)\n", len(ids), ids[0], ids[len(ids)-1])
			return err
		},
	}
	seedCmd.Flags().IntVar(&count, "count", 0, "Messages to append (default from config)")
	seedCmd.Flags().IntVar(&batchSize, "batch", 0, "Messages per write batch (default from config)")
	seedCmd.Flags().Int64Var(&randSeed, "rand-seed", 0, "Generator seed (default from config)")
	return seedCmd
}

func newViewCommand(g *globals) *cobra.Command {
	var filter string
	viewCmd := &cobra.Command{
		Use:   "view",
		Short: "Open the interactive viewer",
		Long: "Open the interactive viewer on the channel, starting at the newest message.\n" +
			"Keys: j/k or arrows scroll a row, pgup/pgdn a page, g/G jump to the ends, q quits.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !isTerminal() {
				return errors.New("view needs an interactive terminal; use `messages list` for scripts")
			}
			cfg, err := g.config()
			if err != nil {
				return err
			}
			logger, err := g.fileLogger()
			if err != nil {
				return err
			}
			store, release, err := g.openChannelWith(cmd.Context(), logger)
			if err != nil {
				return err
			}
			defer func() { _ = release() }()

			err = viewcmd.Run(cmd.Context(), viewcmd.Options{
				Source:  store,
				Channel: cfg.Channel,
				Config:  cfg,
				Filter:  filter,
				Logger:  logger,
			})
			if err != nil {
				logger.Error("viewer failed", logpkg.Err(err))
			}
			return err
		},
	}
	viewCmd.Flags().StringVar(&filter, "filter", "", "CEL filter over id, author, body, avatar")
	return viewCmd
}

func newHealthCommand(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check that the store opens and serves reads",
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, _, err := g.openRuntime(g.headlessLogger())
			if err != nil {
				return err
			}
			defer func() { _ = rt.Close() }()
			if err := rt.CheckHealth(cmd.Context()); err != nil {
				return fmt.Errorf("unhealthy: %w", err)
			}
			names, err := rt.Channels(cmd.Context())
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "ok backend=%s dir=%s channels=%d\n", rt.Backend(), rt.DataDir(), len(names))
			return err
		},
	}
}

func newChannelsCommand(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "channels",
		Short: "List channels in the store",
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, _, err := g.openRuntime(g.headlessLogger())
			if err != nil {
				return err
			}
			defer func() { _ = rt.Close() }()
			names, err := rt.Channels(cmd.Context())
			if err != nil {
				return err
			}
			for _, name := range names {
				if _, err := fmt.Fprintln(cmd.OutOrStdout(), name); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
