package model

import (
	"fmt"
	"time"
)

// Author is the public profile attached to a post
type Author struct {
	Username string `json:"username"`
	Avatar   string `json:"avatar"`
}

// Follower is an entry in a profile's followers or following list
type Follower struct {
	Username string `json:"username"`
	Avatar   string `json:"avatar"`
}

// Post is a single piece of user content
type Post struct {
	ID          string    `json:"_id"`
	Title       string    `json:"title"`
	Body        string    `json:"body"`
	CreatedDate time.Time `json:"createdDate"`
	Author      Author    `json:"author"`
}

// IsOwnedBy reports whether the signed-in user in s authored the post
func (p *Post) IsOwnedBy(s State) bool {
	if !s.IsAuthenticated {
		return false
	}
	return s.DisplayName() == p.Author.Username
}

// FormattedDate returns the creation date as M/D/YYYY in local time
func (p *Post) FormattedDate() string {
	if p.CreatedDate.IsZero() {
		return ""
	}
	d := p.CreatedDate.Local()
	return fmt.Sprintf("%d/%d/%d", int(d.Month()), d.Day(), d.Year())
}

// ProfilePath returns the navigation path of the post author's profile
func (p *Post) ProfilePath() string {
	return ProfilePath(p.Author.Username)
}

// ProfilePath returns the navigation path of a user's profile
func ProfilePath(username string) string {
	return "/profile/" + username
}
