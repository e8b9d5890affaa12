package flock

import (
	"errors"
	"regexp"

	"github.com/flockgraph/flock/types"
)

var (
	// ErrNoSeeds ...
	ErrNoSeeds = errors.New("error: no seed ids configured")

	// ErrInvalidThreshold ...
	ErrInvalidThreshold = errors.New("error: thresholds must be positive")
)

// Config contains the pipeline configuration. It is constructed once at
// startup and passed by reference into every component; there is no
// ambient global state.
type Config struct {
	BaseURL   string `json:"base_url"`
	CacheDir  string `json:"cache_dir"`
	OutputDir string `json:"output_dir"`

	Seeds []types.UserID `json:"seeds"`

	MutualThreshold int `json:"mutual_threshold"`
	CoreThreshold   int `json:"core_threshold"`

	KeywordPattern string `json:"keyword_pattern"`
	LocalPattern   string `json:"local_pattern"`

	MaxFollowers int `json:"max_followers"`

	ConsumerKey       string `json:"-"`
	ConsumerSecret    string `json:"-"`
	AccessToken       string `json:"-"`
	AccessTokenSecret string `json:"-"`

	keywordRegexp *regexp.Regexp
	localRegexp   *regexp.Regexp
}

// Validate checks the configuration and compiles the annotation patterns.
// Seed ids are deduplicated so a repeated seed cannot double-count its
// friend list in the threshold rounds or race two fetches on one cache
// entry.
func (c *Config) Validate() error {
	c.Seeds = dedupe(c.Seeds)

	if len(c.Seeds) == 0 {
		return ErrNoSeeds
	}

	if c.MutualThreshold < 1 || c.CoreThreshold < 1 {
		return ErrInvalidThreshold
	}

	keywordRegexp, err := regexp.Compile(c.KeywordPattern)
	if err != nil {
		return err
	}
	c.keywordRegexp = keywordRegexp

	localRegexp, err := regexp.Compile(c.LocalPattern)
	if err != nil {
		return err
	}
	c.localRegexp = localRegexp

	return nil
}

// KeywordRegexp returns the compiled keyword annotation pattern.
func (c *Config) KeywordRegexp() *regexp.Regexp {
	return c.keywordRegexp
}

// LocalRegexp returns the compiled locality annotation pattern.
func (c *Config) LocalRegexp() *regexp.Regexp {
	return c.localRegexp
}
