package app

import (
	"context"
	"errors"

	"github.com/navbryce/next-blog-be/db"
	"github.com/navbryce/next-blog-be/model"
)

var ErrLoginRequired = errors.New("must be logged in to fetch follows")

// GetFeedForUser pages through posts by every author user follows.
func GetFeedForUser(ctx context.Context, database db.PostDatabase, user *model.User, rawPage string, perPage int) (*Page, error) {
	if user == nil {
		return nil, ErrLoginRequired
	}
	return ListPosts(ctx, database, &db.PostFilter{FollowedBy: user.Id}, rawPage, perPage)
}

type Profile struct {
	Author    *model.User
	Page      *Page
	Following bool
}

// GetProfile assembles an author's page. viewer may be nil.
func GetProfile(ctx context.Context, database db.Database, author *model.User, viewer *model.User, rawPage string, perPage int) (*Profile, error) {
	page, err := ListPosts(ctx, database, &db.PostFilter{AuthorId: author.Id}, rawPage, perPage)
	if err != nil {
		return nil, err
	}
	following := false
	if viewer != nil && !viewer.Is(author) {
		following, err = database.IsFollowing(ctx, &model.Follow{UserId: viewer.Id, AuthorId: author.Id})
		if err != nil {
			return nil, err
		}
	}
	return &Profile{
		Author:    author,
		Page:      page,
		Following: following,
	}, nil
}
