package model

import (
	"time"
)

type Post struct {
	Id      int64     `json:"id"`
	Text    string    `json:"text"`
	PubDate time.Time `json:"pubDate"`
	Author  *User     `json:"author"`
	Group   *Group    `json:"group,omitempty"` // nil when the post has no group or its group was deleted
	Image   string    `json:"image,omitempty"` // blob name in the media store
}

func (p *Post) CanEdit(user *User) bool {
	return user != nil && p.Author != nil && user.Id == p.Author.Id
}

// Excerpt is the first 15 characters of the text.
func (p *Post) Excerpt() string {
	r := []rune(p.Text)
	if len(r) <= 15 {
		return p.Text
	}
	return string(r[:15])
}

type Comment struct {
	Id      int64     `json:"id"`
	PostId  int64     `json:"postId"`
	Author  *User     `json:"author"`
	Text    string    `json:"text"`
	Created time.Time `json:"created"`
}
