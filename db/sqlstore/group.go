package sqlstore

import (
	"context"
	"fmt"

	appDb "github.com/navbryce/next-blog-be/db"
	"github.com/navbryce/next-blog-be/model"
	"github.com/upper/db/v4"
)

type GroupDB struct {
	sess db.Session
}

func getGroupDB(sess db.Session) *GroupDB {
	return &GroupDB{sess}
}

func (gdb *GroupDB) CreateGroup(ctx context.Context, req *appDb.CreateGroup) (int64, error) {
	res, err := gdb.sess.WithContext(ctx).
		Collection("post_group").
		Insert(&model.Group{
			Title:       req.Title,
			Slug:        req.Slug,
			Description: req.Description,
		})
	if err != nil {
		return 0, err
	}
	return insertedId(res)
}

func (gdb *GroupDB) GetGroups(ctx context.Context) ([]*model.Group, error) {
	groups := []*model.Group{}
	if err := gdb.sess.SQL().
		Select("id", "title", "slug", "description").
		From("post_group").
		OrderBy("id").
		IteratorContext(ctx).
		All(&groups); err != nil {
		return nil, err
	}
	return groups, nil
}

func (gdb *GroupDB) GetGroupById(ctx context.Context, id int64) (*model.Group, error) {
	return gdb.getGroupWhere(ctx, "id = ?", id)
}

func (gdb *GroupDB) GetGroupBySlug(ctx context.Context, slug string) (*model.Group, error) {
	return gdb.getGroupWhere(ctx, "slug = ?", slug)
}

func (gdb *GroupDB) getGroupWhere(ctx context.Context, where ...interface{}) (*model.Group, error) {
	var group model.Group
	if err := gdb.sess.SQL().
		Select("id", "title", "slug", "description").
		From("post_group").
		Where(where...).
		IteratorContext(ctx).
		One(&group); err != nil {
		if err == db.ErrNoMoreRows {
			return nil, fmt.Errorf("group %v: %w", where[len(where)-1], appDb.ErrNotFound)
		}
		return nil, err
	}
	return &group, nil
}

// DeleteGroup relies on ON DELETE SET NULL to detach the group's posts.
func (gdb *GroupDB) DeleteGroup(ctx context.Context, id int64) error {
	res, err := gdb.sess.SQL().
		DeleteFrom("post_group").
		Where("id = ?", id).
		ExecContext(ctx)
	if err != nil {
		return err
	}
	return requireAffected(res, fmt.Sprintf("group %v", id))
}
