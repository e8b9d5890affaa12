package types

import "strconv"

// UserID identifies a single account in the remote social graph. IDs are
// numeric on the wire but treated as opaque tokens: the only operations
// ever performed on them are equality and ordering.
type UserID int64

func (id UserID) String() string {
	return strconv.FormatInt(int64(id), 10)
}

// ParseUserID ...
func ParseUserID(s string) (UserID, error) {
	n, err := strconv.ParseInt(s, 10, 64)
	return UserID(n), err
}

// Status is the most recent post attached to a user record.
type Status struct {
	Text string `json:"text"`
}

// User is a single account record as returned by the bulk lookup endpoint.
// HasKeyword and IsLocal are derived during node materialization and are
// never part of the wire or cache format.
type User struct {
	ID             UserID  `json:"id"`
	Name           string  `json:"name"`
	ScreenName     string  `json:"screen_name"`
	FollowersCount int     `json:"followers_count"`
	FriendsCount   int     `json:"friends_count"`
	Description    string  `json:"description"`
	Location       string  `json:"location"`
	Status         *Status `json:"status,omitempty"`

	HasKeyword int  `json:"-"`
	IsLocal    bool `json:"-"`
}

// StatusText returns the text of the user's most recent post, if any.
func (u *User) StatusText() string {
	if u.Status == nil {
		return ""
	}
	return u.Status.Text
}
