/*
Package user contains core data structures related to user identity and profiles.

Identity is the immutable snapshot attached to a live connection at authentication time.
User is the full public profile returned by the REST API.
*/
package user

import "time"

// Identity is the authenticated identity attached to a connection.
// It is captured once at authentication and never refreshed for the life of the connection.
type Identity struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Avatar   string `json:"avatar,omitempty"`
}

// User is the public profile of an account.
type User struct {
	ID        string     `json:"id"`
	Email     string     `json:"email"`
	Username  string     `json:"username"`
	Avatar    string     `json:"avatar,omitempty"`
	IsOnline  bool       `json:"isOnline"`
	LastSeen  *time.Time `json:"lastSeen,omitempty"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
}

// Identity returns the connection identity snapshot for u.
func (u User) Identity() Identity {
	return Identity{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		Avatar:   u.Avatar,
	}
}

// Account is a User together with its stored credential. It never leaves the server.
type Account struct {
	User
	PasswordHash string `json:"-"`
}
