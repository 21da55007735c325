package cmd

import (
	"fmt"
	"net/url"

	"github.com/spf13/cobra"

	"github.com/rohmanhakim/docs-crawler/internal/crawler"
)

var crawlURL string

// crawlCmd runs a single crawler.Crawl call against one URL, bypassing
// the Selector — useful for manually exercising the pipeline against one
// page without standing up the full frontier.
var crawlCmd = &cobra.Command{
	Use:   "crawl",
	Short: "Crawl a single URL once and report its outcome",
	RunE: func(cmd *cobra.Command, args []string) error {
		target, err := url.Parse(crawlURL)
		if err != nil {
			return fmt.Errorf("parsing --url: %w", err)
		}

		cfg, err := InitConfigWithError([]url.URL{*target})
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		svc, err := dialServices(ctx, cfg)
		if err != nil {
			return fmt.Errorf("wiring dependencies: %w", err)
		}
		if svc.amqpConn != nil {
			defer svc.amqpConn.Close()
		}

		crawlerInstance := newCrawler(cfg, svc)
		outcome, err := crawlerInstance.Crawl(ctx, *target)
		if err != nil {
			return fmt.Errorf("crawl failed: %w", err)
		}

		switch outcome.Kind {
		case crawler.Skipped:
			fmt.Printf("skipped: %s\n", outcome.Reason)
		default:
			fmt.Println("accepted")
		}
		return nil
	},
}

func init() {
	crawlCmd.Flags().StringVar(&crawlURL, "url", "", "the URL to crawl")
	crawlCmd.MarkFlagRequired("url")
	rootCmd.AddCommand(crawlCmd)
}
