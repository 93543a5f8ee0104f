package main

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gcbaptista/go-site-index/config"
	"github.com/gcbaptista/go-site-index/internal/engine"
	"github.com/gcbaptista/go-site-index/services"
)

var searchOpts services.SearchOptions

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Query the exported artifact and print the hits as JSON.",
	Args:  cobra.MinimumNArgs(1),
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

		eng, err := engine.NewHolder(store, settings.Index).Get(cmd.Context())
		if err != nil {
			return err
		}

		result, err := eng.Search(strings.Join(args, " "), searchOpts)
		if err != nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	},
}

func init() {
	flags := searchCmd.Flags()
	flags.IntVar(&searchOpts.Limit, "limit", 0, "maximum hits (default from index settings)")
	flags.IntVar(&searchOpts.Offset, "offset", 0, "hits to skip")
	flags.BoolVar(&searchOpts.Suggest, "suggest", false, "match any term and tolerate typos")
}
