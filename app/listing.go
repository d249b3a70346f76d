package app

import (
	"context"

	"github.com/navbryce/next-blog-be/db"
	"github.com/navbryce/next-blog-be/model"
)

type Page struct {
	Posts    []*model.Post
	Number   int
	NumPages int
	Count    int
}

func (p *Page) HasPrevious() bool {
	return p.Number > 1
}

func (p *Page) HasNext() bool {
	return p.Number < p.NumPages
}

func (p *Page) PreviousNumber() int {
	return p.Number - 1
}

func (p *Page) NextNumber() int {
	return p.Number + 1
}

// PageNumbers lists every page for the pager links.
func (p *Page) PageNumbers() []int {
	numbers := make([]int, p.NumPages)
	for i := range numbers {
		numbers[i] = i + 1
	}
	return numbers
}

// ListPosts returns the requested page of posts matching filter, newest first.
func ListPosts(ctx context.Context, postDB db.PostDatabase, filter *db.PostFilter, rawPage string, perPage int) (*Page, error) {
	count, err := postDB.CountPosts(ctx, filter)
	if err != nil {
		return nil, err
	}
	paginator := &Paginator{Count: count, PerPage: perPage}
	number := paginator.GetPage(rawPage)

	posts := []*model.Post{}
	if count > 0 {
		posts, err = postDB.GetPosts(ctx, &db.PostsListQuery{
			PostFilter: filter,
			Limit:      perPage,
			Offset:     paginator.Offset(number),
		})
		if err != nil {
			return nil, err
		}
	}
	return &Page{
		Posts:    posts,
		Number:   number,
		NumPages: paginator.NumPages(),
		Count:    count,
	}, nil
}
