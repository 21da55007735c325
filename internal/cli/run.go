package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/rohmanhakim/docs-crawler/internal/messaging"
	"github.com/rohmanhakim/docs-crawler/internal/selector"
	"github.com/rohmanhakim/docs-crawler/pkg/urlutil"
)

// runCmd starts a combined process running both the Crawler and the
// default Selector loop against a shared in-process messaging.Broker,
// the simplest single-binary deployment of spec.md's pipeline. Seed URLs
// are published to the broker once at startup, priming the frontier the
// way a fresh crawl begins.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the Crawler and Selector together against one or more seed URLs",
	RunE: func(cmd *cobra.Command, args []string) error {
		parsedURLs, err := parseSeedURLs(seedURLs)
		if err != nil {
			return err
		}

		cfg, err := InitConfigWithError(parsedURLs)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		svc, err := dialServices(ctx, cfg)
		if err != nil {
			return fmt.Errorf("wiring dependencies: %w", err)
		}
		if svc.amqpConn != nil {
			defer svc.amqpConn.Close()
		}

		for _, seed := range cfg.SeedURLs() {
			domain, ok := urlutil.FilterByHost(seed)
			if !ok {
				continue
			}
			if err := svc.broker.Publish(ctx, messaging.NewMessage(domain, seed.String())); err != nil {
				return fmt.Errorf("seeding %q: %w", seed.String(), err)
			}
		}

		crawlerInstance := newCrawler(cfg, svc)
		loop := selector.NewLoop(svc.broker, &crawlerInstance, svc.sink, cfg.SelectorConcurrent())

		fmt.Fprintf(os.Stdout, "running with %d seed URL(s), selector concurrency %d\n", len(cfg.SeedURLs()), cfg.SelectorConcurrent())
		loop.Run(ctx)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}
