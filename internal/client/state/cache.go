package state

import (
	"github.com/aussiebroadwan/bartab-sdk/internal/client/domain"
	"github.com/aussiebroadwan/bartab-sdk/pkg/omap"
)

// UserCache is the client's shared cache of every user it has seen. Entries
// are patched in place on upsert so pointers held by the relationship caches
// and by application code keep observing updates.
type UserCache struct {
	users *omap.Map[string, *domain.User]
}

func NewUserCache() *UserCache {
	return &UserCache{users: omap.New[string, *domain.User]()}
}

// Get returns the cached user for id.
func (c *UserCache) Get(id string) (*domain.User, bool) {
	return c.users.Get(id)
}

// Upsert merges u into the cache and returns the canonical pointer. An
// existing entry is overwritten field by field, never replaced.
func (c *UserCache) Upsert(u domain.User) *domain.User {
	if existing, ok := c.users.Get(u.ID); ok {
		*existing = u
		return existing
	}

	stored := u
	c.users.Set(u.ID, &stored)
	return &stored
}

// Put inserts a caller-owned record under its id. Used for the account's
// base user so the cache entry and the account share one record.
func (c *UserCache) Put(u *domain.User) {
	c.users.Set(u.ID, u)
}

// Len returns the number of cached users.
func (c *UserCache) Len() int { return c.users.Len() }

// GuildRegistry tracks the guilds the account is a member of, keyed by guild
// id in registration order.
type GuildRegistry struct {
	guilds *omap.Map[string, *domain.Guild]
}

func NewGuildRegistry() *GuildRegistry {
	return &GuildRegistry{guilds: omap.New[string, *domain.Guild]()}
}

// Register inserts or refreshes a guild record and returns the canonical
// pointer.
func (r *GuildRegistry) Register(g domain.Guild) *domain.Guild {
	if existing, ok := r.guilds.Get(g.ID); ok {
		*existing = g
		return existing
	}

	stored := g
	r.guilds.Set(g.ID, &stored)
	return &stored
}

// Get returns the guild record for id.
func (r *GuildRegistry) Get(id string) (*domain.Guild, bool) {
	return r.guilds.Get(id)
}

// All returns the registered guilds in registration order.
func (r *GuildRegistry) All() []*domain.Guild {
	return r.guilds.Values()
}

// Len returns the number of registered guilds.
func (r *GuildRegistry) Len() int { return r.guilds.Len() }
