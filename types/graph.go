package types

// FriendEdge is one user's outbound follow set at fetch time. It is
// produced fresh per fetch and never persisted beyond the response cache.
type FriendEdge struct {
	Source    UserID
	TargetIDs []UserID
}

// Edge is a single directed follow relationship.
type Edge struct {
	Source UserID
	Target UserID
}
