package sqlstore

import (
	"context"
	"time"

	appDb "github.com/navbryce/next-blog-be/db"
	"github.com/navbryce/next-blog-be/model"
	"github.com/upper/db/v4"
)

type CommentDB struct {
	sess db.Session
}

func getCommentDB(sess db.Session) *CommentDB {
	return &CommentDB{sess}
}

type commentRow struct {
	Id       int64     `db:"id,omitempty"`
	PostId   int64     `db:"post_id"`
	AuthorId string    `db:"author_id"`
	Text     string    `db:"text"`
	Created  time.Time `db:"created"`
}

func (cdb *CommentDB) CreateComment(ctx context.Context, req *appDb.CreateComment) (int64, error) {
	res, err := cdb.sess.WithContext(ctx).
		Collection("comment").
		Insert(&commentRow{
			PostId:   req.PostId,
			AuthorId: req.AuthorId,
			Text:     req.Text,
			Created:  time.Now().UTC(),
		})
	if err != nil {
		return 0, err
	}
	return insertedId(res)
}

type flattenedComment struct {
	flattenedAuthor `db:",inline"`
	Id              int64     `db:"id"`
	PostId          int64     `db:"post_id"`
	Text            string    `db:"text"`
	Created         time.Time `db:"created"`
}

var commentColumns = append([]interface{}{
	"c.id",
	"c.post_id",
	"c.text",
	"c.created",
}, authorColumns...)

func (cdb *CommentDB) GetComments(ctx context.Context, postId int64) ([]*model.Comment, error) {
	var flattenedComments []flattenedComment
	if err := cdb.sess.SQL().
		Select(commentColumns...).
		From("comment AS c").
		Join("person").On("c.author_id = person.firebase_id").
		Where("c.post_id = ?", postId).
		OrderBy("c.created DESC", "c.id DESC").
		IteratorContext(ctx).
		All(&flattenedComments); err != nil {
		return nil, err
	}
	comments := make([]*model.Comment, len(flattenedComments))
	for i, flattened := range flattenedComments {
		comments[i] = &model.Comment{
			Id:      flattened.Id,
			PostId:  flattened.PostId,
			Author:  buildAuthorFromFlattened(&flattened.flattenedAuthor),
			Text:    flattened.Text,
			Created: flattened.Created,
		}
	}
	return comments, nil
}
