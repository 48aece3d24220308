package session

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/KirkDiggler/coc-keeper/internal/entities"
)

// Cache defaults
const (
	DefaultCacheSize = 512
	DefaultCacheTTL  = 10 * time.Minute
)

// sheetCache is a write-through read cache in front of the sheet repository.
// It stores and hands out copies so a caller mutating a sheet cannot change
// the cached value before the write succeeds.
type sheetCache struct {
	lru *expirable.LRU[SheetKey, *entities.CharacterSheet]
}

func newSheetCache(size int, ttl time.Duration) *sheetCache {
	return &sheetCache{
		lru: expirable.NewLRU[SheetKey, *entities.CharacterSheet](size, nil, ttl),
	}
}

func (c *sheetCache) get(key SheetKey) (*entities.CharacterSheet, bool) {
	cs, ok := c.lru.Get(key)
	if !ok {
		return nil, false
	}
	return cs.Clone(), true
}

func (c *sheetCache) set(key SheetKey, cs *entities.CharacterSheet) {
	c.lru.Add(key, cs.Clone())
}

func (c *sheetCache) invalidate(key SheetKey) {
	c.lru.Remove(key)
}
