// Command site_index builds a search index from a static site and serves queries against it.
package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/gcbaptista/go-site-index/config"
	"github.com/gcbaptista/go-site-index/internal/logger"
)

var (
	cfgFile string
	verbose bool

	v = config.NewViper()
)

var rootCmd = &cobra.Command{
	Use:   "site_index",
	Short: "Build and query a full-text index of a static site.",
	Long: `site_index discovers the pages of a built site (static output and prerendered routes),
filters out framework artifacts, error pages and robots.txt exclusions, and writes a compact
search index that a separate runtime can load cheaply.

  site_index build --project-dir ./web
  site_index serve --port 9000
  site_index search "install guide"`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger.SetVerbose(verbose)
		if cfgFile == "" {
			return nil
		}
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return err
		}
		logger.Debug("using config file %s", v.ConfigFileUsed())
		return nil
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		logger.Error("%v", err)
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (toml, yaml or json)")
	flags.BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	flags.String("project-dir", ".", "root directory of the site project")
	flags.String("index-path", ".site-index/index.json", "artifact location for the file and sqlite stores")
	flags.String("store", config.StoreFile, "artifact store: file, sqlite or s3")
	flags.String("s3-bucket", "", "bucket for the s3 store")
	flags.String("s3-key", "site-index/index.json", "object key for the s3 store")
	flags.String("s3-region", "", "region for the s3 store")

	// Explicitly set flags win over the config file, which wins over flag defaults.
	cobra.CheckErr(v.BindPFlag("project_dir", flags.Lookup("project-dir")))
	cobra.CheckErr(v.BindPFlag("index_path", flags.Lookup("index-path")))
	cobra.CheckErr(v.BindPFlag("store", flags.Lookup("store")))
	cobra.CheckErr(v.BindPFlag("s3.bucket", flags.Lookup("s3-bucket")))
	cobra.CheckErr(v.BindPFlag("s3.key", flags.Lookup("s3-key")))
	cobra.CheckErr(v.BindPFlag("s3.region", flags.Lookup("s3-region")))

	rootCmd.AddCommand(buildCmd, serveCmd, searchCmd)
}
