package main

import (
	"github.com/spf13/cobra"

	"github.com/gcbaptista/go-site-index/config"
	"github.com/gcbaptista/go-site-index/internal/logger"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Discover, filter and index the site, then export the artifact.",
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := config.Load(v)
		if err != nil {
			return err
		}

		store, closeStore, err := openStore(cmd.Context(), settings)
		if err != nil {
			return err
		}
		defer closeStore()

		report, err := runBuild(cmd.Context(), settings, store)
		if err != nil {
			return err
		}
		logger.Info("Discovered %d pages, %d after filtering, %d indexed, %d skipped in %v",
			report.Discovered, report.AfterFilter, report.Indexed, report.Skipped, report.Duration)
		return nil
	},
}

func init() {
	flags := buildCmd.Flags()
	flags.String("source-dir", "", "build output directory (default: probe conventional directories)")
	flags.String("prerender-routes", "", "JSON file listing prerendered routes")
	flags.StringSlice("exclude", nil, "path patterns to exclude (* within a segment, ** across segments)")
	flags.String("robots-txt", "", "robots.txt to apply; 'false' disables robots handling")
	flags.Int("concurrency", 8, "pages loaded in parallel")
	flags.Bool("override", true, "replace an existing artifact")

	cobra.CheckErr(v.BindPFlag("source_dir", flags.Lookup("source-dir")))
	cobra.CheckErr(v.BindPFlag("prerender_routes", flags.Lookup("prerender-routes")))
	cobra.CheckErr(v.BindPFlag("concurrency", flags.Lookup("concurrency")))
	cobra.CheckErr(v.BindPFlag("override", flags.Lookup("override")))
	// exclude and robots_txt only count as set when the flag is given explicitly.
	cobra.CheckErr(v.BindPFlag("exclude", flags.Lookup("exclude")))
	cobra.CheckErr(v.BindPFlag("robots_txt", flags.Lookup("robots-txt")))
}
