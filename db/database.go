package db

import (
	"context"

	"github.com/navbryce/next-blog-be/model"
)

type Database interface {
	GroupDatabase
	PostDatabase
	CommentDatabase
	FollowDatabase
	UserDatabase
	Close() error
}

type CreateGroup struct {
	Title       string
	Slug        string
	Description string
}

// PostFilter narrows a post listing. Zero values do not filter.
type PostFilter struct {
	GroupId    int64
	AuthorId   string
	FollowedBy string // posts whose author is followed by this user id
}

type PostsListQuery struct {
	*PostFilter
	Limit  int
	Offset int
}

type CreatePost struct {
	AuthorId string
	Text     string
	GroupId  *int64
	Image    string
}

type UpdatePost struct {
	Text    string
	GroupId *int64
	Image   string
}

type CreateComment struct {
	PostId   int64
	AuthorId string
	Text     string
}

type GroupDatabase interface {
	CreateGroup(ctx context.Context, req *CreateGroup) (groupId int64, err error)
	// GetGroups returns every group ordered by id.
	GetGroups(ctx context.Context) ([]*model.Group, error)
	GetGroupById(ctx context.Context, id int64) (*model.Group, error)
	GetGroupBySlug(ctx context.Context, slug string) (*model.Group, error)
	DeleteGroup(ctx context.Context, id int64) error
}

type PostDatabase interface {
	CreatePost(ctx context.Context, req *CreatePost) (postId int64, err error)
	GetPostById(ctx context.Context, id int64) (*model.Post, error)
	// GetPosts orders newest first.
	GetPosts(ctx context.Context, query *PostsListQuery) ([]*model.Post, error)
	CountPosts(ctx context.Context, filter *PostFilter) (int, error)
	UpdatePost(ctx context.Context, id int64, req *UpdatePost) error
	DeletePost(ctx context.Context, id int64) error
}

type CommentDatabase interface {
	CreateComment(ctx context.Context, req *CreateComment) (commentId int64, err error)
	// GetComments orders newest first.
	GetComments(ctx context.Context, postId int64) ([]*model.Comment, error)
}

type FollowDatabase interface {
	CreateFollow(ctx context.Context, follow *model.Follow) error
	// DeleteFollow returns ErrNotFound when no edge matched.
	DeleteFollow(ctx context.Context, follow *model.Follow) error
	IsFollowing(ctx context.Context, follow *model.Follow) (bool, error)
	GetFollowsForUser(ctx context.Context, userId string) ([]*model.Follow, error)
}

type UserDatabase interface {
	CreateUser(ctx context.Context, user *model.User) error
	// GetUser returns nil, nil when no profile exists for the firebase id.
	GetUser(ctx context.Context, id string) (*model.User, error)
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
}
