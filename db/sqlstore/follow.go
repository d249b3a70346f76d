package sqlstore

import (
	"context"
	"fmt"

	"github.com/navbryce/next-blog-be/model"
	"github.com/upper/db/v4"
)

type FollowDB struct {
	sess db.Session
}

func getFollowDB(sess db.Session) *FollowDB {
	return &FollowDB{sess}
}

// CreateFollow surfaces the unique (user_id, author_id) violation to the caller.
func (fdb *FollowDB) CreateFollow(ctx context.Context, follow *model.Follow) error {
	_, err := fdb.sess.WithContext(ctx).
		Collection("follow").
		Insert(follow)
	return err
}

func (fdb *FollowDB) DeleteFollow(ctx context.Context, follow *model.Follow) error {
	res, err := fdb.sess.SQL().
		DeleteFrom("follow").
		Where("user_id = ? AND author_id = ?", follow.UserId, follow.AuthorId).
		ExecContext(ctx)
	if err != nil {
		return err
	}
	return requireAffected(res, fmt.Sprintf("follow %v -> %v", follow.UserId, follow.AuthorId))
}

func (fdb *FollowDB) IsFollowing(ctx context.Context, follow *model.Follow) (bool, error) {
	count, err := fdb.sess.WithContext(ctx).
		Collection("follow").
		Find("user_id = ? AND author_id = ?", follow.UserId, follow.AuthorId).
		Count()
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (fdb *FollowDB) GetFollowsForUser(ctx context.Context, userId string) ([]*model.Follow, error) {
	follows := []*model.Follow{}
	err := fdb.sess.WithContext(ctx).
		Collection("follow").
		Find("user_id = ?", userId).
		All(&follows)
	return follows, err
}
