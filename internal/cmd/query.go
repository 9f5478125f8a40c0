package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/insightful/insightful/internal/scrape"
)

var searchCmd = &cobra.Command{
	Use:   "search TERM...",
	Short: "Search stored content",
	Long: `Search lists every stored record whose title or text contains all of
the given terms, case-insensitively, oldest match first.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

var recentCmd = &cobra.Command{
	Use:   "recent",
	Short: "List the most recently saved records",
	Args:  cobra.NoArgs,
	RunE:  runRecent,
}

var showCmd = &cobra.Command{
	Use:   "show ID|URL",
	Short: "Print one stored record in full",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

var deleteCmd = &cobra.Command{
	Use:   "delete ID",
	Short: "Remove one stored record",
	Args:  cobra.ExactArgs(1),
	RunE:  runDelete,
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all stored records",
	Args:  cobra.NoArgs,
	RunE:  runClear,
}

func init() {
	recentCmd.Flags().IntP("limit", "n", scrape.DefaultRecentLimit, "Maximum number of records to list")
	clearCmd.Flags().Bool("yes", false, "Skip the confirmation prompt")

	rootCmd.AddCommand(searchCmd, recentCmd, showCmd, deleteCmd, clearCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	query := strings.Join(args, " ")
	results := store.SearchContent(cmd.Context(), query)
	if len(results) == 0 {
		fmt.Printf("No matches for %q\n", query)
		return nil
	}

	for _, c := range results {
		r := scrape.NewSearchResult(c, cfg.SnippetLength)
		fmt.Printf("%6d  %s  %s\n        %s\n        %s\n",
			r.ID, formatTimestamp(c.Timestamp), r.Title, r.URL, r.Snippet)
	}
	fmt.Printf("%d match(es)\n", len(results))
	return nil
}

func runRecent(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return err
	}
	if !cmd.Flags().Changed("limit") {
		limit = cfg.RecentLimit
	}

	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	items := store.GetRecentContent(cmd.Context(), limit)
	if len(items) == 0 {
		fmt.Println("No stored content")
		return nil
	}

	for _, c := range items {
		fmt.Printf("%6d  %s  %s\n        %s\n",
			c.ID, formatTimestamp(c.Timestamp), c.Title, c.URL)
	}
	return nil
}

func runShow(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	var c *scrape.ScrapedContent
	if id, parseErr := strconv.ParseInt(args[0], 10, 64); parseErr == nil {
		c = store.GetContentByID(cmd.Context(), id)
	} else {
		c = store.GetContentByURL(cmd.Context(), args[0])
	}
	if c == nil {
		return fmt.Errorf("no record found for %q", args[0])
	}

	fmt.Printf("ID:        %d\n", c.ID)
	fmt.Printf("URL:       %s\n", c.URL)
	fmt.Printf("Title:     %s\n", c.Title)
	fmt.Printf("Saved at:  %s\n\n", formatTimestamp(c.Timestamp))
	fmt.Println(c.Text)
	return nil
}

func runDelete(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid id %q", args[0])
	}

	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	if err := store.DeleteContent(cmd.Context(), id); err != nil {
		return err
	}
	fmt.Printf("Deleted record %d (if it existed)\n", id)
	return nil
}

func runClear(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	yes, _ := cmd.Flags().GetBool("yes")
	if !yes {
		fmt.Printf("This removes every record from %s. Re-run with --yes to confirm.\n", cfg.DatabasePath)
		return nil
	}

	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	if err := store.Clear(cmd.Context()); err != nil {
		return err
	}
	fmt.Println("Store cleared")
	return nil
}
