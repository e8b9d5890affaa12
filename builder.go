package flock

import (
	"context"
	"sort"
	"strings"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/flockgraph/flock/types"
)

// GraphAPI is the remote surface the builder drives. *client.Client
// satisfies it; tests substitute a stub.
type GraphAPI interface {
	FriendIDs(ctx context.Context, id types.UserID) ([]types.UserID, error)
	Users(ctx context.Context, ids []types.UserID) ([]types.User, error)
}

// Graph is the filtered result of a build run.
type Graph struct {
	Nodes []types.User
	Edges []types.Edge
}

// Builder expands the seed set into a filtered social graph: two threshold
// rounds over friend lists, edge assembly, node materialization and the
// final node/edge filters.
type Builder struct {
	conf *Config
	api  GraphAPI
}

// NewBuilder ...
func NewBuilder(conf *Config, api GraphAPI) *Builder {
	return &Builder{conf: conf, api: api}
}

// friendEdges fetches the outbound follow list of every id concurrently
// and joins before returning, preserving input order. Individual remote
// failures have already degraded to empty lists inside the client; an
// error here means a malformed response and aborts the stage.
func (b *Builder) friendEdges(ctx context.Context, ids []types.UserID) ([]types.FriendEdge, error) {
	edges := make([]types.FriendEdge, len(ids))

	g, ctx := errgroup.WithContext(ctx)
	for i, id := range ids {
		i, id := i, id
		g.Go(func() error {
			targets, err := b.api.FriendIDs(ctx, id)
			if err != nil {
				return err
			}
			edges[i] = types.FriendEdge{Source: id, TargetIDs: targets}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return edges, nil
}

func targetLists(edges []types.FriendEdge) [][]types.UserID {
	lists := make([][]types.UserID, len(edges))
	for i, edge := range edges {
		lists[i] = edge.TargetIDs
	}
	return lists
}

// thresholdFriends expands ids and keeps every friend followed by at least
// threshold of them.
func (b *Builder) thresholdFriends(ctx context.Context, ids []types.UserID, threshold int) ([]types.UserID, error) {
	edges, err := b.friendEdges(ctx, ids)
	if err != nil {
		return nil, err
	}
	return ThresholdOverlap(targetLists(edges), threshold), nil
}

// MutualIDs returns the ids followed by every seed, in first-occurrence
// order of the smallest friend list.
func (b *Builder) MutualIDs(ctx context.Context) ([]types.UserID, error) {
	edges, err := b.friendEdges(ctx, b.conf.Seeds)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(edges, func(i, j int) bool {
		return len(edges[i].TargetIDs) < len(edges[j].TargetIDs)
	})

	return Intersection(targetLists(edges)...), nil
}

// Build runs the full pipeline. Stages are strictly sequential; within a
// stage all fetches fan out concurrently and the stage joins before the
// next one reads their results.
func (b *Builder) Build(ctx context.Context) (*Graph, error) {
	mutuals, err := b.thresholdFriends(ctx, b.conf.Seeds, b.conf.MutualThreshold)
	if err != nil {
		return nil, err
	}
	log.WithField("count", len(mutuals)).Info("mutual round complete")

	core, err := b.thresholdFriends(ctx, mutuals, b.conf.CoreThreshold)
	if err != nil {
		return nil, err
	}
	log.WithField("count", len(core)).Info("core round complete")

	sources := dedupe(b.conf.Seeds, mutuals, core)
	rawEdges, err := b.friendEdges(ctx, sources)
	if err != nil {
		return nil, err
	}

	var edges []types.Edge
	for _, friendEdge := range rawEdges {
		for _, target := range friendEdge.TargetIDs {
			edges = append(edges, types.Edge{Source: friendEdge.Source, Target: target})
		}
	}

	users, err := b.api.Users(ctx, core)
	if err != nil {
		return nil, err
	}

	nodes := b.materialize(users, core)

	inGraph := make(map[types.UserID]struct{}, len(nodes))
	for _, node := range nodes {
		inGraph[node.ID] = struct{}{}
	}

	var kept []types.Edge
	for _, edge := range edges {
		if _, ok := inGraph[edge.Source]; !ok {
			continue
		}
		if _, ok := inGraph[edge.Target]; !ok {
			continue
		}
		kept = append(kept, edge)
	}

	log.WithFields(log.Fields{
		"nodes": len(nodes),
		"edges": len(kept),
	}).Info("graph build complete")

	return &Graph{Nodes: nodes, Edges: kept}, nil
}

// materialize annotates the fetched records with the derived fields and
// applies the node filters: membership in the final threshold set, the
// followers ceiling and duplicate ids.
func (b *Builder) materialize(users []types.User, core []types.UserID) []types.User {
	coreSet := make(map[types.UserID]struct{}, len(core))
	for _, id := range core {
		coreSet[id] = struct{}{}
	}

	seen := make(map[types.UserID]struct{}, len(users))
	var nodes []types.User
	for _, user := range users {
		if _, ok := seen[user.ID]; ok {
			continue
		}
		if _, ok := coreSet[user.ID]; !ok {
			continue
		}
		if user.FollowersCount >= b.conf.MaxFollowers {
			continue
		}
		seen[user.ID] = struct{}{}

		text := strings.Join([]string{user.Description, user.StatusText()}, ",")
		user.HasKeyword = 0
		if b.conf.KeywordRegexp().MatchString(text) {
			user.HasKeyword = 1
		}
		user.IsLocal = b.conf.LocalRegexp().MatchString(user.Location)

		nodes = append(nodes, user)
	}

	return nodes
}

// dedupe concatenates the id lists, keeping the first occurrence of each
// id.
func dedupe(lists ...[]types.UserID) []types.UserID {
	seen := make(map[types.UserID]struct{})
	var result []types.UserID
	for _, list := range lists {
		for _, id := range list {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			result = append(result, id)
		}
	}
	return result
}
