package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/dghubble/oauth1"
	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/flockgraph/flock/cache"
	"github.com/flockgraph/flock/types"
)

const (
	// DefaultCacheDir is the cache directory used when no cache is given
	DefaultCacheDir = "./cache"

	// maxLookupBatch is the remote hard limit on ids per bulk lookup call
	maxLookupBatch = 99

	// codeNoUsersMatch is the remote error code meaning none of the
	// requested ids resolve to an account
	codeNoUsersMatch = 17
)

var (
	// ErrMissingCredentials ...
	ErrMissingCredentials = errors.New("error: missing API credentials")

	// ErrMalformedResponse marks a response body that did not decode into
	// the expected shape. Unlike transient remote failures it is never
	// swallowed.
	ErrMalformedResponse = errors.New("error: malformed API response")
)

// ErrorDetail is a single entry of the remote error envelope.
type ErrorDetail struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// APIError is a non-200 response from the remote API.
type APIError struct {
	StatusCode int
	Errors     []ErrorDetail
}

func (e *APIError) Error() string {
	if len(e.Errors) > 0 {
		return fmt.Sprintf("error: API request failed (%d): %s", e.StatusCode, e.Errors[0].Message)
	}
	return fmt.Sprintf("error: API request failed (%d)", e.StatusCode)
}

// HasCode reports whether the envelope carries the given remote error code.
func (e *APIError) HasCode(code int) bool {
	for _, detail := range e.Errors {
		if detail.Code == code {
			return true
		}
	}
	return false
}

// Client talks to the remote social graph API with OAuth1-signed requests,
// memoizing every response through the interposed ResponseCache.
type Client struct {
	BaseURL *url.URL
	Config  *Config

	cache      *cache.ResponseCache
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewClient ...
func NewClient(options ...Option) (*Client, error) {
	config := NewConfig()

	for _, opt := range options {
		if err := opt(config); err != nil {
			return nil, err
		}
	}

	if config.ConsumerKey == "" || config.ConsumerSecret == "" ||
		config.AccessToken == "" || config.AccessTokenSecret == "" {
		return nil, ErrMissingCredentials
	}

	u, err := url.Parse(config.BaseURL)
	if err != nil {
		return nil, err
	}

	responseCache := config.Cache
	if responseCache == nil {
		responseCache, err = cache.New(DefaultCacheDir)
		if err != nil {
			return nil, err
		}
	}

	oauthConfig := oauth1.NewConfig(config.ConsumerKey, config.ConsumerSecret)
	token := oauth1.NewToken(config.AccessToken, config.AccessTokenSecret)
	httpClient := oauthConfig.Client(oauth1.NoContext, token)
	httpClient.Timeout = config.Timeout

	cli := &Client{
		BaseURL:    u,
		Config:     config,
		cache:      responseCache,
		httpClient: httpClient,
		limiter:    rate.NewLimiter(rate.Every(config.RequestInterval), 1),
	}

	return cli, nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, params url.Values) (*http.Request, error) {
	rel := &url.URL{Path: strings.TrimPrefix(path, "/")}
	u := c.BaseURL.ResolveReference(rel)

	var (
		req *http.Request
		err error
	)
	if method == http.MethodGet {
		u.RawQuery = params.Encode()
		req, err = http.NewRequestWithContext(ctx, method, u.String(), nil)
	} else {
		req, err = http.NewRequestWithContext(ctx, method, u.String(), strings.NewReader(params.Encode()))
		if err == nil {
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		}
	}
	if err != nil {
		return nil, err
	}

	req.Header.Set("Accept", "application/json")
	return req, nil
}

func (c *Client) do(ctx context.Context, method, path string, params url.Values, v interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	req, err := c.newRequest(ctx, method, path, params)
	if err != nil {
		return err
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		apiErr := &APIError{StatusCode: res.StatusCode}
		// The envelope is best effort; the status code alone is enough.
		_ = json.NewDecoder(res.Body).Decode(apiErr)
		return apiErr
	}

	if err := json.NewDecoder(res.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: %s", ErrMalformedResponse, err)
	}

	return nil
}

// interrupted reports whether err stems from the caller's context rather
// than the remote side. Such failures must never be recorded as remote
// results: a cancelled fan-out would otherwise poison the cache with
// empty entries for ids that were never fetched.
func interrupted(ctx context.Context, err error) bool {
	return ctx.Err() != nil ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded)
}

type friendsResponse struct {
	IDs []types.UserID `json:"ids"`
}

// FriendIDs returns the outbound follow list for id, memoized through the
// cache. Remote failures are logged and degrade to an empty list, which is
// indistinguishable from an account following nobody; only a malformed
// response body is allowed to surface.
func (c *Client) FriendIDs(ctx context.Context, id types.UserID) ([]types.UserID, error) {
	data, err := c.cache.Once("friends", id.String(), func() (interface{}, error) {
		var res friendsResponse
		err := c.do(ctx, http.MethodGet, "friends/ids.json", url.Values{"user_id": {id.String()}}, &res)
		if err != nil {
			if errors.Is(err, ErrMalformedResponse) || interrupted(ctx, err) {
				return nil, err
			}
			log.WithError(err).WithField("user_id", id).Error("API request error")
			return []types.UserID{}, nil
		}
		return res.IDs, nil
	})
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, nil
	}

	var ids []types.UserID
	if err := json.Unmarshal(data, &ids); err != nil {
		return nil, fmt.Errorf("error decoding cached friends for %s: %w", id, err)
	}
	return ids, nil
}

// lookupBatch performs one raw bulk lookup call for at most maxLookupBatch
// ids and classifies the outcome per id.
func (c *Client) lookupBatch(ctx context.Context, ids []types.UserID) ([]types.LookupResult, error) {
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = id.String()
	}

	var users []types.User
	err := c.do(ctx, http.MethodPost, "users/lookup.json", url.Values{"user_id": {strings.Join(keys, ",")}}, &users)
	if err != nil {
		if errors.Is(err, ErrMalformedResponse) || interrupted(ctx, err) {
			return nil, err
		}

		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.HasCode(codeNoUsersMatch) {
			log.WithField("user_ids", ids).Warn("lookup batch resolved no users")
			results := make([]types.LookupResult, 0, len(ids))
			for _, id := range ids {
				results = append(results, types.Unresolved(id))
			}
			return results, nil
		}

		log.WithError(err).WithField("user_ids", ids).Error("API request error")
		results := make([]types.LookupResult, 0, len(ids))
		for _, id := range ids {
			results = append(results, types.Failed(id, err))
		}
		return results, nil
	}

	results := make([]types.LookupResult, 0, len(users))
	for i := range users {
		results = append(results, types.Ok(&users[i]))
	}
	return results, nil
}

// lookupEntries shapes lookup results for the batch cache: resolved records
// carry their payload, unresolved ids become negative entries, and failed
// ids are left out so nothing is cached for them.
func lookupEntries(results []types.LookupResult) ([]cache.Entry, error) {
	entries := make([]cache.Entry, 0, len(results))
	for _, result := range results {
		switch {
		case result.User != nil:
			data, err := json.Marshal(result.User)
			if err != nil {
				return nil, fmt.Errorf("error encoding user record %s: %w", result.ID, err)
			}
			entries = append(entries, cache.Entry{ArgKey: result.ID.String(), Data: data})
		case result.Err == nil:
			entries = append(entries, cache.Entry{ArgKey: result.ID.String()})
		}
	}
	return entries, nil
}

// Users bulk-fetches records for ids, chunked to the remote per-call limit
// and memoized per id through the batch cache. Within each chunk the order
// is cache hits first, then fresh results; unresolved and failed ids are
// absent from the result.
func (c *Client) Users(ctx context.Context, ids []types.UserID) ([]types.User, error) {
	var users []types.User

	for start := 0; start < len(ids); start += maxLookupBatch {
		end := min(start+maxLookupBatch, len(ids))
		chunk := ids[start:end]

		keys := make([]string, len(chunk))
		for i, id := range chunk {
			keys[i] = id.String()
		}

		payloads, err := c.cache.Batch("users", keys, func(missing []string) ([]cache.Entry, error) {
			missed := make([]types.UserID, 0, len(missing))
			for _, key := range missing {
				id, err := types.ParseUserID(key)
				if err != nil {
					return nil, fmt.Errorf("error parsing user id %q: %w", key, err)
				}
				missed = append(missed, id)
			}

			results, err := c.lookupBatch(ctx, missed)
			if err != nil {
				return nil, err
			}
			return lookupEntries(results)
		})
		if err != nil {
			return nil, err
		}

		for _, raw := range payloads {
			var user types.User
			if err := json.Unmarshal(raw, &user); err != nil {
				return nil, fmt.Errorf("error decoding cached user record: %w", err)
			}
			users = append(users, user)
		}
	}

	return users, nil
}
