package sqlstore

import (
	"context"
	"fmt"
	"time"

	appDb "github.com/navbryce/next-blog-be/db"
	"github.com/navbryce/next-blog-be/db/dao"
	"github.com/navbryce/next-blog-be/model"
	"github.com/navbryce/next-blog-be/util"
	"github.com/upper/db/v4"
)

type PostDB struct {
	sess db.Session
}

func getPostDB(sess db.Session) *PostDB {
	return &PostDB{sess}
}

type postRow struct {
	Id       int64         `db:"id,omitempty"`
	Text     string        `db:"text"`
	PubDate  time.Time     `db:"pub_date"`
	AuthorId string        `db:"author_id"`
	GroupId  dao.NullInt64 `db:"group_id"`
	Image    string        `db:"image"`
}

func (pdb *PostDB) CreatePost(ctx context.Context, req *appDb.CreatePost) (int64, error) {
	res, err := pdb.sess.WithContext(ctx).
		Collection("post").
		Insert(&postRow{
			Text:     req.Text,
			PubDate:  time.Now().UTC(),
			AuthorId: req.AuthorId,
			GroupId:  dao.NullInt64From(req.GroupId),
			Image:    req.Image,
		})
	if err != nil {
		return 0, err
	}
	return insertedId(res)
}

func (pdb *PostDB) UpdatePost(ctx context.Context, id int64, req *appDb.UpdatePost) error {
	res, err := pdb.sess.SQL().
		Update("post").
		Set(
			"text", req.Text,
			"group_id", dao.NullInt64From(req.GroupId),
			"image", req.Image,
		).
		Where("id = ?", id).
		ExecContext(ctx)
	if err != nil {
		return err
	}
	// mysql reports 0 affected rows when nothing changed, so only a missing row is an error
	affected, err := res.RowsAffected()
	if err != nil || affected > 0 {
		return err
	}
	_, err = pdb.GetPostById(ctx, id)
	return err
}

// DeletePost relies on ON DELETE CASCADE to remove the post's comments.
func (pdb *PostDB) DeletePost(ctx context.Context, id int64) error {
	res, err := pdb.sess.SQL().
		DeleteFrom("post").
		Where("id = ?", id).
		ExecContext(ctx)
	if err != nil {
		return err
	}
	return requireAffected(res, fmt.Sprintf("post %v", id))
}

type flattenedAuthor struct {
	AuthorId          string `db:"firebase_id"`
	AuthorUsername    string `db:"username"`
	AuthorDisplayName string `db:"display_name"`
	AuthorIsAdmin     bool   `db:"is_admin"`
}

var authorColumns = []interface{}{
	"person.firebase_id",
	"person.username",
	"person.display_name",
	"person.is_admin",
}

type flattenedPost struct {
	flattenedAuthor  `db:",inline"`
	Id               int64          `db:"id"`
	Text             string         `db:"text"`
	PubDate          time.Time      `db:"pub_date"`
	Image            string         `db:"image"`
	GroupId          dao.NullInt64  `db:"group_id"`
	GroupTitle       dao.NullString `db:"group_title"`
	GroupSlug        dao.NullString `db:"group_slug"`
	GroupDescription dao.NullString `db:"group_description"`
}

var postColumns = append([]interface{}{
	"p.id",
	"p.text",
	"p.pub_date",
	"p.image",
	"g.id AS group_id",
	"g.title AS group_title",
	"g.slug AS group_slug",
	"g.description AS group_description",
}, authorColumns...)

func (pdb *PostDB) postsSelector() db.Selector {
	return pdb.sess.SQL().
		Select(postColumns...).
		From("post AS p").
		Join("person").On("p.author_id = person.firebase_id").
		LeftJoin("post_group AS g").On("p.group_id = g.id")
}

func (pdb *PostDB) GetPostById(ctx context.Context, id int64) (*model.Post, error) {
	var post flattenedPost
	if err := pdb.postsSelector().
		Where("p.id = ?", id).
		IteratorContext(ctx).
		One(&post); err != nil {
		if err == db.ErrNoMoreRows {
			return nil, fmt.Errorf("post %v: %w", id, appDb.ErrNotFound)
		}
		return nil, err
	}
	return buildPostFromFlattened(&post), nil
}

func postFilterWhere(filter *appDb.PostFilter) []interface{} {
	var where whereClause
	if filter == nil {
		return where.build()
	}
	if filter.GroupId != 0 {
		where.add("p.group_id = ?", filter.GroupId)
	}
	if filter.AuthorId != "" {
		where.add("p.author_id = ?", filter.AuthorId)
	}
	if filter.FollowedBy != "" {
		// IN rather than a join so a duplicated edge can never duplicate a post
		where.add("p.author_id IN (SELECT f.author_id FROM follow AS f WHERE f.user_id = ?)", filter.FollowedBy)
	}
	return where.build()
}

func (pdb *PostDB) GetPosts(ctx context.Context, query *appDb.PostsListQuery) ([]*model.Post, error) {
	var flattenedPosts []flattenedPost
	if err := pdb.postsSelector().
		Where(postFilterWhere(query.PostFilter)...).
		OrderBy("p.pub_date DESC", "p.id DESC").
		Limit(query.Limit).
		Offset(query.Offset).
		IteratorContext(ctx).
		All(&flattenedPosts); err != nil {
		return nil, err
	}
	posts := make([]*model.Post, len(flattenedPosts))
	for i := range flattenedPosts {
		posts[i] = buildPostFromFlattened(&flattenedPosts[i])
	}
	return posts, nil
}

func (pdb *PostDB) CountPosts(ctx context.Context, filter *appDb.PostFilter) (int, error) {
	var row countRow
	if err := pdb.sess.SQL().
		Select(db.Raw("COUNT(*) AS total")).
		From("post AS p").
		Where(postFilterWhere(filter)...).
		IteratorContext(ctx).
		One(&row); err != nil {
		return 0, err
	}
	return row.Total, nil
}

func buildPostFromFlattened(post *flattenedPost) *model.Post {
	var group *model.Group
	if groupId := post.GroupId.AsPtr(); groupId != nil {
		group = &model.Group{
			Id:          *groupId,
			Title:       post.GroupTitle.AsString(),
			Slug:        post.GroupSlug.AsString(),
			Description: post.GroupDescription.AsString(),
		}
	}
	return &model.Post{
		Id:      post.Id,
		Text:    post.Text,
		PubDate: post.PubDate,
		Author:  buildAuthorFromFlattened(&post.flattenedAuthor),
		Group:   group,
		Image:   post.Image,
	}
}

func buildAuthorFromFlattened(author *flattenedAuthor) *model.User {
	return &model.User{
		Id:          author.AuthorId,
		Username:    author.AuthorUsername,
		DisplayName: author.AuthorDisplayName,
		IsAdmin:     author.AuthorIsAdmin,
		Avatar:      util.Avatar(author.AuthorUsername),
	}
}
