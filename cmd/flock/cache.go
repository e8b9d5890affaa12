package main

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/flockgraph/flock/cache"
)

// cacheCmd represents the cache command
var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the on-disk response cache",
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Count cached responses per endpoint",
	Run: func(cmd *cobra.Command, args []string) {
		c := openCache()

		stats, err := c.Stats()
		if err != nil {
			log.WithError(err).Error("error reading cache")
			os.Exit(1)
		}

		for fn, count := range stats {
			fmt.Printf("%s\t%d\n", fn, count)
		}
	},
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every cached response",
	Run: func(cmd *cobra.Command, args []string) {
		c := openCache()

		removed, err := c.Clear()
		if err != nil {
			log.WithError(err).Error("error clearing cache")
			os.Exit(1)
		}
		log.Infof("removed %d cache entries", removed)
	},
}

func init() {
	RootCmd.AddCommand(cacheCmd)
	cacheCmd.AddCommand(cacheStatsCmd)
	cacheCmd.AddCommand(cacheClearCmd)
}

func openCache() *cache.ResponseCache {
	c, err := cache.New(viper.GetString("cache_dir"))
	if err != nil {
		log.WithError(err).Error("error opening cache")
		os.Exit(1)
	}
	return c
}
