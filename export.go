package flock

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	log "github.com/sirupsen/logrus"

	"github.com/flockgraph/flock/types"
)

const (
	// EdgesFilename is the exported edge table
	EdgesFilename = "output-filtered-edges.csv"

	// NodesFilename is the exported node table
	NodesFilename = "output-filtered-nodes.csv"
)

var nodeHeader = []string{
	"id",
	"name",
	"screen_name",
	"followers_count",
	"friends_count",
	"hasKeyword",
	"isLocal",
}

// WriteEdges writes one source,target row per edge, without a header row.
func WriteEdges(w io.Writer, edges []types.Edge) error {
	cw := csv.NewWriter(w)
	for _, edge := range edges {
		if err := cw.Write([]string{edge.Source.String(), edge.Target.String()}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteNodes writes the node table with its fixed seven-column header.
// Free-form fields are quoted by the writer as needed, so commas in names
// or bios cannot corrupt row structure.
func WriteNodes(w io.Writer, nodes []types.User) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(nodeHeader); err != nil {
		return err
	}
	for _, node := range nodes {
		row := []string{
			node.ID.String(),
			node.Name,
			node.ScreenName,
			strconv.Itoa(node.FollowersCount),
			strconv.Itoa(node.FriendsCount),
			strconv.Itoa(node.HasKeyword),
			strconv.FormatBool(node.IsLocal),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("error creating %s: %w", path, err)
	}

	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("error writing %s: %w", path, err)
	}
	return f.Close()
}

// Export writes the edge and node tables into dir.
func (g *Graph) Export(dir string) error {
	edgesPath := filepath.Join(dir, EdgesFilename)
	if err := writeFile(edgesPath, func(w io.Writer) error {
		return WriteEdges(w, g.Edges)
	}); err != nil {
		return err
	}
	log.Infof("wrote %d edges to %s", len(g.Edges), edgesPath)

	nodesPath := filepath.Join(dir, NodesFilename)
	if err := writeFile(nodesPath, func(w io.Writer) error {
		return WriteNodes(w, g.Nodes)
	}); err != nil {
		return err
	}
	log.Infof("wrote %d nodes to %s", len(g.Nodes), nodesPath)

	return nil
}
