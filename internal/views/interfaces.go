package views

import (
	"context"

	"github.com/ytget/social-client/internal/model"
)

// FeedSource loads the signed-in user's home feed
type FeedSource interface {
	HomeFeed(ctx context.Context, token string) ([]model.Post, error)
}

// PostSource loads and deletes single posts
type PostSource interface {
	Post(ctx context.Context, id string) (model.Post, error)
	DeletePost(ctx context.Context, id, token string) error
}

// ProfileSource loads the public lists of a profile
type ProfileSource interface {
	ProfilePosts(ctx context.Context, username string) ([]model.Post, error)
	ProfileFollowers(ctx context.Context, username string) ([]model.Follower, error)
	ProfileFollowing(ctx context.Context, username string) ([]model.Follower, error)
}

// SearchSource finds posts by text
type SearchSource interface {
	Search(ctx context.Context, term string) ([]model.Post, error)
}

// Navigator moves the app to a path such as /profile/alice
type Navigator interface {
	Navigate(path string)
}

// Confirmer asks the user a yes/no question and blocks for the answer
type Confirmer interface {
	Confirm(ctx context.Context, question string) (bool, error)
}
