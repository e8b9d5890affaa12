package flock

import "github.com/flockgraph/flock/types"

const (
	// DefaultCacheDir is the default directory for the response cache
	DefaultCacheDir = "./cache"

	// DefaultOutputDir is the default directory for the exported files
	DefaultOutputDir = "."

	// DefaultMutualThreshold is the default first-round threshold: how
	// many seeds must share a friend for it to count as mutual
	DefaultMutualThreshold = 3

	// DefaultCoreThreshold is the default second-round threshold applied
	// to the mutual set's own friend lists
	DefaultCoreThreshold = 6

	// DefaultKeywordPattern is the default pattern matched against a
	// node's description and latest status
	DefaultKeywordPattern = `(?i)(network|system|complex|social sci)`

	// DefaultLocalPattern is the default pattern matched against a
	// node's free-form location field
	DefaultLocalPattern = `(?i)(Portland|Oregon|\WOR\W)`

	// DefaultMaxFollowers is the default followers ceiling; accounts at
	// or above it are dropped from the exported graph
	DefaultMaxFollowers = 400000
)

// NewConfig builds a Config from the given options and validates it.
func NewConfig(options ...Option) (*Config, error) {
	cfg := &Config{
		CacheDir:        DefaultCacheDir,
		OutputDir:       DefaultOutputDir,
		MutualThreshold: DefaultMutualThreshold,
		CoreThreshold:   DefaultCoreThreshold,
		KeywordPattern:  DefaultKeywordPattern,
		LocalPattern:    DefaultLocalPattern,
		MaxFollowers:    DefaultMaxFollowers,
	}

	for _, opt := range options {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Option is a function that takes a config struct and modifies it
type Option func(*Config) error

// WithBaseURL sets the remote API base URL
func WithBaseURL(baseURL string) Option {
	return func(cfg *Config) error {
		cfg.BaseURL = baseURL
		return nil
	}
}

// WithCacheDir sets the directory used for the response cache
func WithCacheDir(dir string) Option {
	return func(cfg *Config) error {
		cfg.CacheDir = dir
		return nil
	}
}

// WithOutputDir sets the directory the exported files are written into
func WithOutputDir(dir string) Option {
	return func(cfg *Config) error {
		cfg.OutputDir = dir
		return nil
	}
}

// WithSeeds sets the seed ids the expansion starts from
func WithSeeds(seeds []types.UserID) Option {
	return func(cfg *Config) error {
		cfg.Seeds = seeds
		return nil
	}
}

// WithThresholds sets the two round thresholds
func WithThresholds(mutual, core int) Option {
	return func(cfg *Config) error {
		cfg.MutualThreshold = mutual
		cfg.CoreThreshold = core
		return nil
	}
}

// WithKeywordPattern sets the keyword annotation pattern
func WithKeywordPattern(pattern string) Option {
	return func(cfg *Config) error {
		cfg.KeywordPattern = pattern
		return nil
	}
}

// WithLocalPattern sets the locality annotation pattern
func WithLocalPattern(pattern string) Option {
	return func(cfg *Config) error {
		cfg.LocalPattern = pattern
		return nil
	}
}

// WithMaxFollowers sets the followers ceiling for exported nodes
func WithMaxFollowers(max int) Option {
	return func(cfg *Config) error {
		cfg.MaxFollowers = max
		return nil
	}
}

// WithCredentials sets the four OAuth1 credential strings
func WithCredentials(consumerKey, consumerSecret, accessToken, accessTokenSecret string) Option {
	return func(cfg *Config) error {
		cfg.ConsumerKey = consumerKey
		cfg.ConsumerSecret = consumerSecret
		cfg.AccessToken = accessToken
		cfg.AccessTokenSecret = accessTokenSecret
		return nil
	}
}
