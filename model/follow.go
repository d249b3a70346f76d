package model

// Follow is a directed edge: UserId observes the posts of AuthorId.
type Follow struct {
	UserId   string `db:"user_id" json:"userId"`
	AuthorId string `db:"author_id" json:"authorId"`
}
