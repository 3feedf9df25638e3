package model

import "time"

// Session is one browser's server-side state handle
type Session struct {
	ID        string    `json:"id"`
	User      *User     `json:"user,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// SignedIn reports whether the session carries an authenticated user
func (s *Session) SignedIn() bool {
	return s != nil && s.User != nil
}
