package slack

import (
	"context"
	"log"
	"strings"
	"sync"
)

// UnknownUser is the cosmetic fallback when a lookup fails. Stale or
// missing names never affect categorization or aggregation.
const UnknownUser = "Unknown User"

// UserCache is a read-through cache over users.info lookups.
type UserCache struct {
	client *Client

	mu    sync.RWMutex
	names map[string]string
}

func NewUserCache(client *Client) *UserCache {
	return &UserCache{client: client, names: map[string]string{}}
}

// DisplayName resolves a user id, consulting the cache first. Failures
// degrade to UnknownUser and are not cached, so a later lookup can recover.
func (c *UserCache) DisplayName(ctx context.Context, userID string) string {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return UnknownUser
	}

	c.mu.RLock()
	name, ok := c.names[userID]
	c.mu.RUnlock()
	if ok {
		return name
	}

	name, err := c.client.UserInfo(ctx, userID)
	if err != nil || strings.TrimSpace(name) == "" {
		if err != nil {
			log.Printf("[slack] user lookup failed: user=%s err=%v", userID, err)
		}
		return UnknownUser
	}

	c.mu.Lock()
	c.names[userID] = name
	c.mu.Unlock()
	return name
}
