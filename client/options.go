package client

import (
	"time"

	"github.com/flockgraph/flock/cache"
)

const (
	// DefaultBaseURL is the default base URI for the social graph API
	DefaultBaseURL = "https://api.twitter.com/1.1/"

	// DefaultTimeout is the default per-request timeout
	DefaultTimeout = 30 * time.Second

	// DefaultRequestInterval is the default minimum spacing between
	// remote calls (the friends endpoint is heavily rate limited)
	DefaultRequestInterval = time.Second
)

// NewConfig ...
func NewConfig() *Config {
	return &Config{
		BaseURL:         DefaultBaseURL,
		Timeout:         DefaultTimeout,
		RequestInterval: DefaultRequestInterval,
	}
}

// Config contains the client configuration: the API endpoint, the four
// OAuth1 credential strings and the interposed response cache.
type Config struct {
	BaseURL string

	ConsumerKey       string
	ConsumerSecret    string
	AccessToken       string
	AccessTokenSecret string

	Timeout         time.Duration
	RequestInterval time.Duration

	Cache *cache.ResponseCache
}

// Option is a function that takes a config struct and modifies it
type Option func(*Config) error

// WithBaseURL sets the base URI used for the social graph API endpoint
func WithBaseURL(baseURL string) Option {
	return func(cfg *Config) error {
		cfg.BaseURL = baseURL
		return nil
	}
}

// WithCredentials sets the four OAuth1 credential strings used to sign
// every request
func WithCredentials(consumerKey, consumerSecret, accessToken, accessTokenSecret string) Option {
	return func(cfg *Config) error {
		cfg.ConsumerKey = consumerKey
		cfg.ConsumerSecret = consumerSecret
		cfg.AccessToken = accessToken
		cfg.AccessTokenSecret = accessTokenSecret
		return nil
	}
}

// WithCache sets the response cache interposed between the client and the
// remote API
func WithCache(responseCache *cache.ResponseCache) Option {
	return func(cfg *Config) error {
		cfg.Cache = responseCache
		return nil
	}
}

// WithTimeout sets the per-request timeout
func WithTimeout(timeout time.Duration) Option {
	return func(cfg *Config) error {
		cfg.Timeout = timeout
		return nil
	}
}

// WithRequestInterval sets the minimum spacing between remote calls
func WithRequestInterval(interval time.Duration) Option {
	return func(cfg *Config) error {
		cfg.RequestInterval = interval
		return nil
	}
}
