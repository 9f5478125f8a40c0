package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/insightful/insightful/internal/config"
	"github.com/insightful/insightful/internal/extract"
	"github.com/insightful/insightful/internal/fetch"
	"github.com/insightful/insightful/internal/scrape"
	"github.com/insightful/insightful/internal/transport"
)

var captureCmd = &cobra.Command{
	Use:   "capture URL",
	Short: "Fetch a page, extract its readable content, and save it",
	Long: `Capture downloads the page, extracts its title and readable text, and
delivers the result to the content store: through a running daemon when
--server is set, directly into the database file otherwise.

Saving the same URL again updates the stored record in place.`,
	Args: cobra.ExactArgs(1),
	RunE: runCapture,
}

func init() {
	rootCmd.AddCommand(captureCmd)
}

func runCapture(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	pageURL := args[0]

	client := fetch.NewClient(cfg.UserAgent, cfg.RequestTimeout, cfg.RequestDelay, cfg.MaxBodySize)
	page, err := client.FetchPage(cmd.Context(), pageURL)
	if err != nil {
		return fmt.Errorf("failed to fetch page: %w", err)
	}

	// Extraction failure means the store is never contacted.
	article, err := extract.NewReadability().Extract(page.Body, page.FinalURL)
	if err != nil {
		return fmt.Errorf("failed to extract content: %w", err)
	}

	channel, cleanup, err := saveChannel(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	resp, err := channel.SendAndAwait(cmd.Context(), &scrape.SaveRequest{
		Action: scrape.SaveAction,
		Content: scrape.ScrapedContent{
			URL:   page.FinalURL,
			Title: article.Title,
			Text:  article.TextContent,
		},
	})
	if err != nil {
		return fmt.Errorf("failed to deliver save request: %w", err)
	}
	if !resp.Success {
		return fmt.Errorf("save was not acknowledged: %s", resp.Error)
	}

	slog.Debug("content captured", "url", page.FinalURL, "id", resp.ID)
	fmt.Printf("Saved %q (id %d)\n", article.Title, resp.ID)
	return nil
}

// saveChannel picks the messaging channel for save requests: HTTP when a
// server URL is configured, in-process loopback against the local database
// otherwise.
func saveChannel(cfg *config.Config) (scrape.Transport, func(), error) {
	if cfg.ServerURL != "" {
		return transport.NewClient(cfg.ServerURL, cfg.RequestTimeout), func() {}, nil
	}

	store, err := openStore(cfg)
	if err != nil {
		return nil, nil, err
	}
	return transport.NewLoopback(store), func() { _ = store.Close() }, nil
}
