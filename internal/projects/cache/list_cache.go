package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/CodeMaverick-143/Project-Manager/internal/projects/domain"
)

const (
	listKeyPrefix = "portfolio:projects:" // portfolio:projects:{user_id}
	listTTL       = 15 * time.Minute
)

// Store is the record-store contract the cache decorates and the collection
// consumes. The pgx repository satisfies it directly.
type Store interface {
	ListByOwner(ctx context.Context, ownerID string) ([]domain.Project, error)
	Insert(ctx context.Context, ownerID string, data domain.ProjectFormData) (*domain.Project, error)
	Update(ctx context.Context, ownerID, id string, data domain.ProjectFormData) (*domain.Project, error)
	SoftDelete(ctx context.Context, ownerID, id string) error
}

// ListCache decorates a Store with a per-user Redis cache of the project
// list. Reads go through the cache; every successful mutation invalidates
// the owner's entry. Cache failures are logged and never surface to callers;
// the database remains the source of truth.
type ListCache struct {
	next   Store
	client *redis.Client
}

func NewListCache(next Store, client *redis.Client) *ListCache {
	return &ListCache{next: next, client: client}
}

func (c *ListCache) ListByOwner(ctx context.Context, ownerID string) ([]domain.Project, error) {
	key := c.listKey(ownerID)

	data, err := c.client.Get(ctx, key).Result()
	if err == nil {
		var projects []domain.Project
		if jsonErr := json.Unmarshal([]byte(data), &projects); jsonErr == nil {
			return projects, nil
		}
		// corrupt entry, fall through to the database
		c.invalidate(ctx, ownerID)
	} else if err != redis.Nil {
		log.Printf("project cache read failed for %s: %v", ownerID, err)
	}

	projects, err := c.next.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	if payload, jsonErr := json.Marshal(projects); jsonErr == nil {
		if setErr := c.client.Set(ctx, key, payload, listTTL).Err(); setErr != nil {
			log.Printf("project cache write failed for %s: %v", ownerID, setErr)
		}
	}
	return projects, nil
}

func (c *ListCache) Insert(ctx context.Context, ownerID string, data domain.ProjectFormData) (*domain.Project, error) {
	p, err := c.next.Insert(ctx, ownerID, data)
	if err != nil {
		return nil, err
	}
	c.invalidate(ctx, ownerID)
	return p, nil
}

func (c *ListCache) Update(ctx context.Context, ownerID, id string, data domain.ProjectFormData) (*domain.Project, error) {
	p, err := c.next.Update(ctx, ownerID, id, data)
	if err != nil {
		return nil, err
	}
	c.invalidate(ctx, ownerID)
	return p, nil
}

func (c *ListCache) SoftDelete(ctx context.Context, ownerID, id string) error {
	if err := c.next.SoftDelete(ctx, ownerID, id); err != nil {
		return err
	}
	c.invalidate(ctx, ownerID)
	return nil
}

func (c *ListCache) invalidate(ctx context.Context, ownerID string) {
	if err := c.client.Del(ctx, c.listKey(ownerID)).Err(); err != nil {
		log.Printf("project cache invalidate failed for %s: %v", ownerID, err)
	}
}

func (c *ListCache) listKey(ownerID string) string {
	return fmt.Sprintf("%s%s", listKeyPrefix, ownerID)
}
