package types

// LookupResult is the outcome of a bulk user lookup for one requested id.
// Exactly one of User or Err is set for the Ok and Failed variants; an
// Unresolved result carries neither and marks an id the remote side was
// asked about but could not resolve.
type LookupResult struct {
	ID   UserID
	User *User
	Err  error
}

// Ok ...
func Ok(user *User) LookupResult {
	return LookupResult{ID: user.ID, User: user}
}

// Unresolved ...
func Unresolved(id UserID) LookupResult {
	return LookupResult{ID: id}
}

// Failed ...
func Failed(id UserID, err error) LookupResult {
	return LookupResult{ID: id, Err: err}
}
