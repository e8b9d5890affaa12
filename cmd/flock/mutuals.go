package main

import (
	"context"
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/flockgraph/flock"
)

// mutualsCmd represents the mutuals command
var mutualsCmd = &cobra.Command{
	Use:     "mutuals [flags]",
	Aliases: []string{"shared"},
	Short:   "List the accounts followed by every seed",
	Long: `Fetches the friend list of every configured seed and prints the ids
followed by all of them, one per line. Unlike build this is a strict
intersection: an account missing from even one seed's list is excluded.`,
	Run: func(cmd *cobra.Command, args []string) {
		conf, err := buildConfig()
		if err != nil {
			log.WithError(err).Error("error loading configuration")
			os.Exit(1)
		}

		cli, err := newAPIClient(conf)
		if err != nil {
			log.WithError(err).Error("error creating API client")
			os.Exit(1)
		}

		mutuals(conf, cli)
	},
}

func init() {
	RootCmd.AddCommand(mutualsCmd)
}

func mutuals(conf *flock.Config, api flock.GraphAPI) {
	ids, err := flock.NewBuilder(conf, api).MutualIDs(context.Background())
	if err != nil {
		log.WithError(err).Error("error computing mutuals")
		os.Exit(1)
	}

	for _, id := range ids {
		fmt.Println(id)
	}
}
