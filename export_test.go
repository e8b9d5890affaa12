package flock

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flockgraph/flock/types"
)

func TestWriteEdges(t *testing.T) {
	assert := assert.New(t)

	var buf bytes.Buffer
	err := WriteEdges(&buf, []types.Edge{
		{Source: 1, Target: 2},
		{Source: 2, Target: 3},
	})
	require.NoError(t, err)

	assert.Equal("1,2\n2,3\n", buf.String())
}

func TestWriteNodes(t *testing.T) {
	assert := assert.New(t)

	nodes := []types.User{
		{
			ID:             20,
			Name:           "Ada, of Portland",
			ScreenName:     "ada",
			FollowersCount: 150,
			FriendsCount:   75,
			HasKeyword:     1,
			IsLocal:        true,
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteNodes(&buf, nodes))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal([]string{
		"id", "name", "screen_name", "followers_count",
		"friends_count", "hasKeyword", "isLocal",
	}, records[0])

	// The comma inside the name must survive as a single field.
	assert.Equal([]string{"20", "Ada, of Portland", "ada", "150", "75", "1", "true"}, records[1])
}

func TestExport(t *testing.T) {
	assert := assert.New(t)
	dir := t.TempDir()

	graph := &Graph{
		Nodes: []types.User{{ID: 1, ScreenName: "ada", FollowersCount: 1}},
		Edges: []types.Edge{{Source: 1, Target: 1}},
	}
	require.NoError(t, graph.Export(dir))

	edges, err := os.ReadFile(filepath.Join(dir, EdgesFilename))
	require.NoError(t, err)
	assert.Equal("1,1\n", string(edges))

	nodes, err := os.ReadFile(filepath.Join(dir, NodesFilename))
	require.NoError(t, err)
	assert.Contains(string(nodes), "id,name,screen_name")
	assert.Contains(string(nodes), "1,,ada,1,0,0,false")
}
