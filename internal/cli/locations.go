// Package cli — locations.go implements the "skyview locations" commands.
//
// The catalog of Australian locations shown in the dashboard's select
// box lives in a plain text file. These commands list the current
// catalog and rebuild it by scraping the public city index.
package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/data-tamer2410/sky-view/internal/locations"
)

// NewLocationsCommand creates the "locations" command group with its
// "list" and "scrape" subcommands.
func NewLocationsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "locations",
		Short: "Manage the Australian location catalog",
	}

	cmd.AddCommand(newLocationsListCommand())
	cmd.AddCommand(newLocationsScrapeCommand())

	return cmd
}

// newLocationsListCommand creates the "locations list" subcommand.
func newLocationsListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Print the location catalog",
		Args:  cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadCLIConfig()
			if err != nil {
				return err
			}

			catalog, err := locations.Load(cfg.LocationsPath)
			if err != nil {
				return fmt.Errorf("failed to load catalog %q: %w", cfg.LocationsPath, err)
			}

			if IsJSONOutput() {
				data, _ := json.MarshalIndent(catalog, "", "  ")
				fmt.Println(string(data))
				return nil
			}
			for _, entry := range catalog {
				fmt.Println(entry)
			}
			return nil
		},
	}
}

// scrapeFlags holds the flag values for "locations scrape".
type scrapeFlags struct {
	// url overrides the default city index page.
	url string

	// out overrides the catalog path from the config file.
	out string
}

// newLocationsScrapeCommand creates the "locations scrape" subcommand.
func newLocationsScrapeCommand() *cobra.Command {
	flags := &scrapeFlags{}

	cmd := &cobra.Command{
		Use:   "scrape",
		Short: "Rebuild the catalog from the public city index",
		Long: `Fetch the list of Australian cities and towns from the public index
page and write it to the catalog file, one location per line.

Examples:
  skyview locations scrape
  skyview locations scrape --out locations.txt
  skyview locations scrape --url https://example.com/cities --out /tmp/cat.txt`,

		Args: cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			return runLocationsScrape(cmd.Context(), flags)
		},
	}

	cmd.Flags().StringVar(&flags.url, "url", locations.DefaultSourceURL,
		"City index page to scrape")
	cmd.Flags().StringVar(&flags.out, "out", "",
		"Catalog file to write (default: locationsPath from config)")

	return cmd
}

// runLocationsScrape fetches the city index, extracts the location
// names, and writes the catalog file.
func runLocationsScrape(ctx context.Context, flags *scrapeFlags) error {
	cfg, err := loadCLIConfig()
	if err != nil {
		return err
	}

	out := flags.out
	if out == "" {
		out = cfg.LocationsPath
	}

	VerboseLog("Scraping %s", flags.url)
	entries, err := locations.NewScraper(flags.url, nil).Scrape(ctx)
	if err != nil {
		return fmt.Errorf("failed to scrape city index: %w", err)
	}
	VerboseLog("Found %d locations", len(entries))

	if err := locations.Save(out, entries); err != nil {
		return fmt.Errorf("failed to write catalog %q: %w", out, err)
	}

	if IsJSONOutput() {
		result := map[string]any{"count": len(entries), "path": out}
		data, _ := json.MarshalIndent(result, "", "  ")
		fmt.Println(string(data))
		return nil
	}
	fmt.Printf("Wrote %d locations to %s\n", len(entries), out)
	return nil
}
