package memory

import (
	"context"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	appDb "github.com/navbryce/next-blog-be/db"
	"github.com/navbryce/next-blog-be/model"
	"github.com/navbryce/next-blog-be/util"
)

type postRecord struct {
	id       int64
	text     string
	pubDate  time.Time
	authorId string
	groupId  *int64
	image    string
}

type commentRecord struct {
	id       int64
	postId   int64
	authorId string
	text     string
	created  time.Time
}

// MemoryDB is an in-memory Database mirroring the SQL schema's constraints:
// unique group title/slug, unique usernames, unique follow edges, comment cascade
// on post deletion and SET NULL on group deletion.
type MemoryDB struct {
	mu       sync.RWMutex
	users    map[string]model.User
	groups   map[int64]model.Group
	posts    map[int64]*postRecord
	comments map[int64]*commentRecord
	follows  []model.Follow
	lastId   int64
	now      func() time.Time
}

var _ appDb.Database = (*MemoryDB)(nil)

func NewMemoryDB() *MemoryDB {
	return &MemoryDB{
		users:    make(map[string]model.User),
		groups:   make(map[int64]model.Group),
		posts:    make(map[int64]*postRecord),
		comments: make(map[int64]*commentRecord),
		now:      time.Now,
	}
}

// nextId hands out ids shared across tables; callers hold the write lock
func (m *MemoryDB) nextId() int64 {
	m.lastId++
	return m.lastId
}

// timestamp never repeats so ordering by time is total, as with an auto increment tiebreak
func (m *MemoryDB) timestamp() time.Time {
	return m.now().UTC().Add(time.Duration(m.lastId) * time.Microsecond)
}

func (m *MemoryDB) Close() error {
	return nil
}

func (m *MemoryDB) CreateUser(ctx context.Context, user *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.users[user.Id]; exists {
		return fmt.Errorf("user %v: %w", user.Id, appDb.ErrDuplicate)
	}
	for _, existing := range m.users {
		if existing.Username == user.Username {
			return fmt.Errorf("username %v: %w", user.Username, appDb.ErrDuplicate)
		}
	}
	m.users[user.Id] = *user
	return nil
}

func (m *MemoryDB) GetUser(ctx context.Context, id string) (*model.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	user, exists := m.users[id]
	if !exists {
		return nil, nil
	}
	return m.buildUser(user), nil
}

func (m *MemoryDB) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, user := range m.users {
		if user.Username == username {
			return m.buildUser(user), nil
		}
	}
	return nil, nil
}

func (m *MemoryDB) buildUser(user model.User) *model.User {
	user.Avatar = util.Avatar(user.Username)
	return &user
}

func (m *MemoryDB) CreateGroup(ctx context.Context, req *appDb.CreateGroup) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, group := range m.groups {
		if group.Title == req.Title || group.Slug == req.Slug {
			return 0, fmt.Errorf("group %v/%v: %w", req.Title, req.Slug, appDb.ErrDuplicate)
		}
	}
	id := m.nextId()
	m.groups[id] = model.Group{
		Id:          id,
		Title:       req.Title,
		Slug:        req.Slug,
		Description: req.Description,
	}
	log.Printf("Group created: %v (%v)", req.Slug, id)
	return id, nil
}

func (m *MemoryDB) GetGroups(ctx context.Context) ([]*model.Group, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	groups := make([]*model.Group, 0, len(m.groups))
	for _, group := range m.groups {
		group := group
		groups = append(groups, &group)
	}
	sort.Slice(groups, func(i, j int) bool {
		return groups[i].Id < groups[j].Id
	})
	return groups, nil
}

func (m *MemoryDB) GetGroupById(ctx context.Context, id int64) (*model.Group, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	group, exists := m.groups[id]
	if !exists {
		return nil, fmt.Errorf("group %v: %w", id, appDb.ErrNotFound)
	}
	return &group, nil
}

func (m *MemoryDB) GetGroupBySlug(ctx context.Context, slug string) (*model.Group, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, group := range m.groups {
		if group.Slug == slug {
			group := group
			return &group, nil
		}
	}
	return nil, fmt.Errorf("group %v: %w", slug, appDb.ErrNotFound)
}

func (m *MemoryDB) DeleteGroup(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.groups[id]; !exists {
		return fmt.Errorf("group %v: %w", id, appDb.ErrNotFound)
	}
	delete(m.groups, id)
	for _, post := range m.posts {
		if post.groupId != nil && *post.groupId == id {
			post.groupId = nil
		}
	}
	return nil
}

func (m *MemoryDB) CreatePost(ctx context.Context, req *appDb.CreatePost) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.users[req.AuthorId]; !exists {
		return 0, fmt.Errorf("author %v: %w", req.AuthorId, appDb.ErrNotFound)
	}
	if err := m.checkGroup(req.GroupId); err != nil {
		return 0, err
	}
	id := m.nextId()
	m.posts[id] = &postRecord{
		id:       id,
		text:     req.Text,
		pubDate:  m.timestamp(),
		authorId: req.AuthorId,
		groupId:  copyId(req.GroupId),
		image:    req.Image,
	}
	return id, nil
}

func (m *MemoryDB) checkGroup(groupId *int64) error {
	if groupId == nil {
		return nil
	}
	if _, exists := m.groups[*groupId]; !exists {
		return fmt.Errorf("group %v: %w", *groupId, appDb.ErrNotFound)
	}
	return nil
}

func (m *MemoryDB) GetPostById(ctx context.Context, id int64) (*model.Post, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	post, exists := m.posts[id]
	if !exists {
		return nil, fmt.Errorf("post %v: %w", id, appDb.ErrNotFound)
	}
	return m.buildPost(post), nil
}

func (m *MemoryDB) UpdatePost(ctx context.Context, id int64, req *appDb.UpdatePost) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	post, exists := m.posts[id]
	if !exists {
		return fmt.Errorf("post %v: %w", id, appDb.ErrNotFound)
	}
	if err := m.checkGroup(req.GroupId); err != nil {
		return err
	}
	post.text = req.Text
	post.groupId = copyId(req.GroupId)
	post.image = req.Image
	return nil
}

func (m *MemoryDB) DeletePost(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.posts[id]; !exists {
		return fmt.Errorf("post %v: %w", id, appDb.ErrNotFound)
	}
	delete(m.posts, id)
	for commentId, comment := range m.comments {
		if comment.postId == id {
			delete(m.comments, commentId)
		}
	}
	return nil
}

func (m *MemoryDB) GetPosts(ctx context.Context, query *appDb.PostsListQuery) ([]*model.Post, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	matching := m.filterPosts(query.PostFilter)
	start := query.Offset
	if start > len(matching) {
		start = len(matching)
	}
	end := len(matching)
	if query.Limit > 0 && start+query.Limit < end {
		end = start + query.Limit
	}

	posts := make([]*model.Post, 0, end-start)
	for _, post := range matching[start:end] {
		posts = append(posts, m.buildPost(post))
	}
	return posts, nil
}

func (m *MemoryDB) CountPosts(ctx context.Context, filter *appDb.PostFilter) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.filterPosts(filter)), nil
}

// filterPosts returns matching posts newest first; callers hold the read lock
func (m *MemoryDB) filterPosts(filter *appDb.PostFilter) []*postRecord {
	var followed map[string]bool
	if filter != nil && filter.FollowedBy != "" {
		followed = make(map[string]bool)
		for _, follow := range m.follows {
			if follow.UserId == filter.FollowedBy {
				followed[follow.AuthorId] = true
			}
		}
	}

	var matching []*postRecord
	for _, post := range m.posts {
		if filter != nil {
			if filter.GroupId != 0 && (post.groupId == nil || *post.groupId != filter.GroupId) {
				continue
			}
			if filter.AuthorId != "" && post.authorId != filter.AuthorId {
				continue
			}
			if followed != nil && !followed[post.authorId] {
				continue
			}
		}
		matching = append(matching, post)
	}
	sort.Slice(matching, func(i, j int) bool {
		if matching[i].pubDate.Equal(matching[j].pubDate) {
			return matching[i].id > matching[j].id
		}
		return matching[i].pubDate.After(matching[j].pubDate)
	})
	return matching
}

func (m *MemoryDB) buildPost(post *postRecord) *model.Post {
	var group *model.Group
	if post.groupId != nil {
		if stored, exists := m.groups[*post.groupId]; exists {
			group = &stored
		}
	}
	return &model.Post{
		Id:      post.id,
		Text:    post.text,
		PubDate: post.pubDate,
		Author:  m.buildUser(m.users[post.authorId]),
		Group:   group,
		Image:   post.image,
	}
}

func (m *MemoryDB) CreateComment(ctx context.Context, req *appDb.CreateComment) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.posts[req.PostId]; !exists {
		return 0, fmt.Errorf("post %v: %w", req.PostId, appDb.ErrNotFound)
	}
	if _, exists := m.users[req.AuthorId]; !exists {
		return 0, fmt.Errorf("author %v: %w", req.AuthorId, appDb.ErrNotFound)
	}
	id := m.nextId()
	m.comments[id] = &commentRecord{
		id:       id,
		postId:   req.PostId,
		authorId: req.AuthorId,
		text:     req.Text,
		created:  m.timestamp(),
	}
	return id, nil
}

func (m *MemoryDB) GetComments(ctx context.Context, postId int64) ([]*model.Comment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	comments := []*model.Comment{}
	for _, comment := range m.comments {
		if comment.postId != postId {
			continue
		}
		comments = append(comments, &model.Comment{
			Id:      comment.id,
			PostId:  comment.postId,
			Author:  m.buildUser(m.users[comment.authorId]),
			Text:    comment.text,
			Created: comment.created,
		})
	}
	sort.Slice(comments, func(i, j int) bool {
		if comments[i].Created.Equal(comments[j].Created) {
			return comments[i].Id > comments[j].Id
		}
		return comments[i].Created.After(comments[j].Created)
	})
	return comments, nil
}

func (m *MemoryDB) CreateFollow(ctx context.Context, follow *model.Follow) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, id := range []string{follow.UserId, follow.AuthorId} {
		if _, exists := m.users[id]; !exists {
			return fmt.Errorf("user %v: %w", id, appDb.ErrNotFound)
		}
	}
	for _, existing := range m.follows {
		if existing == *follow {
			return fmt.Errorf("follow %v -> %v: %w", follow.UserId, follow.AuthorId, appDb.ErrDuplicate)
		}
	}
	m.follows = append(m.follows, *follow)
	return nil
}

func (m *MemoryDB) DeleteFollow(ctx context.Context, follow *model.Follow) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	kept := m.follows[:0]
	for _, existing := range m.follows {
		if existing != *follow {
			kept = append(kept, existing)
		}
	}
	if len(kept) == len(m.follows) {
		return fmt.Errorf("follow %v -> %v: %w", follow.UserId, follow.AuthorId, appDb.ErrNotFound)
	}
	m.follows = kept
	return nil
}

func (m *MemoryDB) IsFollowing(ctx context.Context, follow *model.Follow) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, existing := range m.follows {
		if existing == *follow {
			return true, nil
		}
	}
	return false, nil
}

func (m *MemoryDB) GetFollowsForUser(ctx context.Context, userId string) ([]*model.Follow, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	follows := []*model.Follow{}
	for _, existing := range m.follows {
		if existing.UserId == userId {
			existing := existing
			follows = append(follows, &existing)
		}
	}
	return follows, nil
}

func copyId(id *int64) *int64 {
	if id == nil {
		return nil
	}
	val := *id
	return &val
}
