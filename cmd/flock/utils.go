package main

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/flockgraph/flock"
	"github.com/flockgraph/flock/cache"
	"github.com/flockgraph/flock/client"
	"github.com/flockgraph/flock/types"
)

// buildConfig assembles the pipeline configuration from viper (flags,
// environment and the optional config file).
func buildConfig() (*flock.Config, error) {
	raw := viper.GetStringSlice("seeds")
	seeds := make([]types.UserID, 0, len(raw))
	for _, s := range raw {
		id, err := types.ParseUserID(strings.TrimSpace(s))
		if err != nil {
			return nil, fmt.Errorf("error parsing seed id %q: %w", s, err)
		}
		seeds = append(seeds, id)
	}

	return flock.NewConfig(
		flock.WithBaseURL(viper.GetString("base_url")),
		flock.WithCacheDir(viper.GetString("cache_dir")),
		flock.WithOutputDir(viper.GetString("output_dir")),
		flock.WithSeeds(seeds),
		flock.WithThresholds(
			viper.GetInt("mutual_threshold"),
			viper.GetInt("core_threshold"),
		),
		flock.WithKeywordPattern(viper.GetString("keyword_pattern")),
		flock.WithLocalPattern(viper.GetString("local_pattern")),
		flock.WithMaxFollowers(viper.GetInt("max_followers")),
		flock.WithCredentials(
			viper.GetString("consumer_key"),
			viper.GetString("consumer_secret"),
			viper.GetString("access_token"),
			viper.GetString("access_token_secret"),
		),
	)
}

// newAPIClient constructs the API client with the response cache
// interposed. Missing credentials fail here, before any stage runs.
func newAPIClient(conf *flock.Config) (*client.Client, error) {
	responseCache, err := cache.New(conf.CacheDir)
	if err != nil {
		return nil, err
	}

	return client.NewClient(
		client.WithBaseURL(conf.BaseURL),
		client.WithCredentials(
			conf.ConsumerKey,
			conf.ConsumerSecret,
			conf.AccessToken,
			conf.AccessTokenSecret,
		),
		client.WithCache(responseCache),
	)
}
