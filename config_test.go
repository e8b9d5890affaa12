package flock

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flockgraph/flock/types"
)

func TestNewConfigDefaults(t *testing.T) {
	assert := assert.New(t)

	conf, err := NewConfig(WithSeeds([]types.UserID{1}))
	require.NoError(t, err)

	assert.Equal(DefaultMutualThreshold, conf.MutualThreshold)
	assert.Equal(DefaultCoreThreshold, conf.CoreThreshold)
	assert.Equal(DefaultMaxFollowers, conf.MaxFollowers)
	assert.Equal(DefaultCacheDir, conf.CacheDir)

	assert.True(conf.KeywordRegexp().MatchString("studying complex systems"))
	assert.True(conf.LocalRegexp().MatchString("Portland"))
	assert.False(conf.LocalRegexp().MatchString("New York"))
}

func TestNewConfigDeduplicatesSeeds(t *testing.T) {
	assert := assert.New(t)

	conf, err := NewConfig(WithSeeds([]types.UserID{3, 1, 3, 2, 1}))
	require.NoError(t, err)

	assert.Equal([]types.UserID{3, 1, 2}, conf.Seeds)
}

func TestNewConfigValidation(t *testing.T) {
	assert := assert.New(t)

	t.Run("NoSeeds", func(t *testing.T) {
		_, err := NewConfig()
		assert.ErrorIs(err, ErrNoSeeds)
	})

	t.Run("BadThreshold", func(t *testing.T) {
		_, err := NewConfig(
			WithSeeds([]types.UserID{1}),
			WithThresholds(0, 6),
		)
		assert.ErrorIs(err, ErrInvalidThreshold)
	})

	t.Run("BadPattern", func(t *testing.T) {
		_, err := NewConfig(
			WithSeeds([]types.UserID{1}),
			WithKeywordPattern("("),
		)
		assert.Error(err)
	})
}
