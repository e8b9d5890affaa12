package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/mitchellh/go-homedir"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/flockgraph/flock"
	"github.com/flockgraph/flock/client"
)

var configFile string

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:     "flock",
	Version: flock.FullVersion(),
	Short:   "Build a filtered social graph from a seed list of accounts",
	Long: `flock expands a seed list of account ids through a social graph API,
keeps the accounts shared by enough of the seeds across two threshold
rounds, and exports the filtered graph as node and edge CSV files for
downstream visualization. Every API response is memoized on disk so
repeated runs are cheap.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// set logging level
		if viper.GetBool("debug") {
			log.SetLevel(log.DebugLevel)
		} else {
			log.SetLevel(log.InfoLevel)
		}
	},
}

// Execute adds all child commands to the root command
// and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		log.WithError(err).Error("error executing command")
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	RootCmd.PersistentFlags().StringVarP(
		&configFile, "config", "c", "",
		"config file (default is $HOME/.flock.yaml)",
	)

	RootCmd.PersistentFlags().BoolP(
		"debug", "d", false,
		"Enable debug logging",
	)

	RootCmd.PersistentFlags().StringP(
		"base-url", "u", client.DefaultBaseURL,
		"social graph API endpoint to connect to",
	)

	RootCmd.PersistentFlags().String(
		"cache-dir", flock.DefaultCacheDir,
		"directory for the on-disk response cache",
	)

	RootCmd.PersistentFlags().String(
		"output-dir", flock.DefaultOutputDir,
		"directory the exported CSV files are written into",
	)

	RootCmd.PersistentFlags().StringSlice(
		"seeds", nil,
		"seed account ids to expand from",
	)

	viper.BindPFlag("debug", RootCmd.PersistentFlags().Lookup("debug"))
	viper.SetDefault("debug", false)

	viper.BindPFlag("base_url", RootCmd.PersistentFlags().Lookup("base-url"))
	viper.SetDefault("base_url", client.DefaultBaseURL)

	viper.BindPFlag("cache_dir", RootCmd.PersistentFlags().Lookup("cache-dir"))
	viper.SetDefault("cache_dir", flock.DefaultCacheDir)

	viper.BindPFlag("output_dir", RootCmd.PersistentFlags().Lookup("output-dir"))
	viper.SetDefault("output_dir", flock.DefaultOutputDir)

	viper.BindPFlag("seeds", RootCmd.PersistentFlags().Lookup("seeds"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if configFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(configFile)
	} else {
		// Find home directory.
		home, err := homedir.Dir()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigName(".flock")
	}

	// The four credential secrets come from FLOCK_CONSUMER_KEY,
	// FLOCK_CONSUMER_SECRET, FLOCK_ACCESS_TOKEN and
	// FLOCK_ACCESS_TOKEN_SECRET.
	viper.SetEnvPrefix("FLOCK")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		log.Debugf("Using config file: %s", viper.ConfigFileUsed())
	}
}
