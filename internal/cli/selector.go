package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/rohmanhakim/docs-crawler/internal/rpc"
	"github.com/rohmanhakim/docs-crawler/internal/selector"
)

// selectorCmd runs only the Selector, dispatching to a Crawler reached
// over the RPC described in spec.md §6 rather than an in-process
// crawler.Crawler. This is the fully split deployment: the Crawler
// process (and its gRPC server binding, an out-of-scope external
// collaborator per spec.md §1) is assumed to already be running at
// --crawler-uri.
var selectorCmd = &cobra.Command{
	Use:   "selector",
	Short: "Run only the Selector, dispatching crawls to a remote Crawler RPC endpoint",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := InitConfigWithError(nil)
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

		conn, err := grpc.NewClient(cfg.CrawlerURI(), grpc.WithTransportCredentials(insecure.NewCredentials()))
		if err != nil {
			return fmt.Errorf("dialing crawler: %w", err)
		}
		crawlerClient := rpc.NewCrawlerClient(conn)

		loop := selector.NewLoop(svc.broker, crawlerClient, svc.sink, cfg.SelectorConcurrent())
		fmt.Fprintf(os.Stdout, "selector dispatching to %s, concurrency %d\n", cfg.CrawlerURI(), cfg.SelectorConcurrent())
		loop.Run(ctx)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(selectorCmd)
}
