package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"mcp-agent/internal/application/port/input"
	"mcp-agent/internal/domain/entity"
)

var navigateCmd = &cobra.Command{
	Use:   "navigate <url>",
	Short: "Open a URL, optionally search it, and print the result as JSON",
	Long: `Open a URL in a fresh browser, optionally type a query into the detected
search box, and print the navigation result including the page snapshot.

Examples:
  agent navigate https://example.com
  agent navigate https://github.com -q "go-rod"
  agent navigate https://shop.test -q shoes --search-box "#q" --search-button "#go"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query, _ := cmd.Flags().GetString("query")
		box, _ := cmd.Flags().GetString("search-box")
		button, _ := cmd.Flags().GetString("search-button")
		noWait, _ := cmd.Flags().GetBool("no-wait")
		waitTimeout, _ := cmd.Flags().GetDuration("wait-timeout")

		ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
		defer cancel()

		container, err := newContainer(ctx)
		if err != nil {
			return err
		}
		defer container.Close()

		req := entity.NavigationRequest{
			URL:                  args[0],
			SearchQuery:          query,
			SearchBoxSelector:    box,
			SearchButtonSelector: button,
			WaitTimeoutMs:        int(waitTimeout / time.Millisecond),
		}
		if noWait {
			wait := false
			req.WaitForResults = &wait
		}

		result := container.Navigator.Navigate(ctx, req, input.Resources{})
		return printJSON(cmd.OutOrStdout(), result)
	},
}

func init() {
	navigateCmd.Flags().StringP("query", "q", "", "Search query to type into the page's search box")
	navigateCmd.Flags().String("search-box", "", "CSS selector of the search input")
	navigateCmd.Flags().String("search-button", "", "CSS selector of the search button")
	navigateCmd.Flags().Bool("no-wait", false, "Do not wait for search results to load")
	navigateCmd.Flags().Duration("wait-timeout", 10*time.Second, "How long to wait for search results")
}
