package services

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

type CachedPage struct {
	Status      int
	ContentType string
	Body        []byte
}

// PageCache stores rendered pages for a fixed TTL. Entries are never refreshed in
// place: they expire or are dropped by Clear.
type PageCache struct {
	pages *expirable.LRU[string, *CachedPage]
}

func NewPageCache(size int, ttl time.Duration) *PageCache {
	return &PageCache{
		pages: expirable.NewLRU[string, *CachedPage](size, nil, ttl),
	}
}

func (pc *PageCache) Get(key string) (*CachedPage, bool) {
	return pc.pages.Get(key)
}

func (pc *PageCache) Set(key string, page *CachedPage) {
	pc.pages.Add(key, page)
}

// Clear drops every cached page.
func (pc *PageCache) Clear() {
	pc.pages.Purge()
}

func (pc *PageCache) Len() int {
	return pc.pages.Len()
}
