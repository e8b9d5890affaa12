package main

import (
	"context"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/flockgraph/flock"
)

// buildCmd represents the build command
var buildCmd = &cobra.Command{
	Use:   "build [flags]",
	Short: "Build the filtered graph and export the node and edge tables",
	Long: `Expands the configured seed ids through two threshold rounds,
assembles the follow edges between the discovered accounts, annotates and
filters the nodes, and writes output-filtered-edges.csv and
output-filtered-nodes.csv into the output directory.`,
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

		build(conf, cli)
	},
}

func init() {
	RootCmd.AddCommand(buildCmd)

	buildCmd.Flags().Int(
		"mutual-threshold", flock.DefaultMutualThreshold,
		"how many seeds must share a friend in the first round",
	)

	buildCmd.Flags().Int(
		"core-threshold", flock.DefaultCoreThreshold,
		"how many mutuals must share a friend in the second round",
	)

	buildCmd.Flags().String(
		"keyword-pattern", flock.DefaultKeywordPattern,
		"pattern matched against bios and latest statuses",
	)

	buildCmd.Flags().String(
		"local-pattern", flock.DefaultLocalPattern,
		"pattern matched against the location field",
	)

	buildCmd.Flags().Int(
		"max-followers", flock.DefaultMaxFollowers,
		"drop accounts with at least this many followers",
	)

	viper.BindPFlag("mutual_threshold", buildCmd.Flags().Lookup("mutual-threshold"))
	viper.BindPFlag("core_threshold", buildCmd.Flags().Lookup("core-threshold"))
	viper.BindPFlag("keyword_pattern", buildCmd.Flags().Lookup("keyword-pattern"))
	viper.BindPFlag("local_pattern", buildCmd.Flags().Lookup("local-pattern"))
	viper.BindPFlag("max_followers", buildCmd.Flags().Lookup("max-followers"))
}

func build(conf *flock.Config, api flock.GraphAPI) {
	graph, err := flock.NewBuilder(conf, api).Build(context.Background())
	if err != nil {
		log.WithError(err).Error("error building graph")
		os.Exit(1)
	}

	if err := graph.Export(conf.OutputDir); err != nil {
		log.WithError(err).Error("error exporting graph")
		os.Exit(1)
	}
}
