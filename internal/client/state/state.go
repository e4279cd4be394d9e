// Package state is the client's reconciliation core: it merges handshake and
// delta payloads from the gateway into one authoritative in-memory snapshot
// of the logged-in account and exposes that snapshot to application code.
//
// All mutation is expected to arrive on a single dispatch goroutine (the
// gateway manager fans every shard into one channel), so handlers never
// interleave. The internal mutex exists for application goroutines reading
// the snapshot concurrently, not for writer-vs-writer races.
package state

import (
	"errors"
	"sync"

	"github.com/aussiebroadwan/bartab-sdk/internal/client/domain"
)

// ErrNotReady reports an operation that needs the account entity before any
// handshake has arrived.
var ErrNotReady = errors.New("state: client has not completed a handshake")

// State is the root of the client's in-memory model. It is owned by the
// Client that created it; nothing in this package keeps ambient globals.
type State struct {
	mu sync.RWMutex

	users   *UserCache
	guilds  *GuildRegistry
	session *Session

	// account is the singleton authoritative entity, nil until the first
	// handshake. It is created exactly once and mutated in place after.
	account *domain.Account

	obsMu     sync.Mutex
	observers map[int]Observer
	nextObs   int
}

// New returns a State whose credential slot starts with token.
func New(token string) *State {
	return &State{
		users:     NewUserCache(),
		guilds:    NewGuildRegistry(),
		session:   NewSession(token),
		observers: make(map[int]Observer),
	}
}

// Restore seeds the account entity from a persisted snapshot taken before
// the last shutdown. Valid only before any handshake; the next READY
// patches the restored entity in place exactly like a reconnect would.
func (s *State) Restore(acc *domain.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.account != nil {
		return errors.New("state: account already initialized")
	}
	s.account = acc
	s.users.Put(&acc.User)
	return nil
}

// Session returns the client-wide credential slot.
func (s *State) Session() *Session { return s.session }

// Account returns the authoritative account entity, or nil before the first
// handshake. The returned pointer stays valid for the client's lifetime.
func (s *State) Account() *domain.Account {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.account
}

// User returns a cached user reference.
func (s *State) User(id string) (*domain.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.users.Get(id)
}

// Guild returns a registered guild.
func (s *State) Guild(id string) (*domain.Guild, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.guilds.Get(id)
}

// Guilds returns every registered guild in registration order.
func (s *State) Guilds() []*domain.Guild {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.guilds.All()
}

// Note returns the note for userID: the value (nil when explicitly cleared)
// and whether any entry exists. Missing account behaves as an empty cache.
func (s *State) Note(userID string) (*string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.account == nil {
		return nil, false
	}
	return s.account.Notes.Get(userID)
}

// Friends returns the friend references in insertion order.
func (s *State) Friends() []*domain.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.account == nil {
		return nil
	}
	return s.account.Friends.Values()
}

// Blocked returns the blocked-user references in insertion order.
func (s *State) Blocked() []*domain.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.account == nil {
		return nil
	}
	return s.account.Blocked.Values()
}

// GuildSettings returns the account's record for one guild.
func (s *State) GuildSettings(guildID string) (domain.GuildSettings, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.account == nil {
		return domain.GuildSettings{}, false
	}
	return s.account.GuildSettings.Get(guildID)
}

// Subscribe registers an observer for change notifications and returns its
// removal function. Observers run synchronously on the dispatch goroutine
// after the relevant state is committed.
func (s *State) Subscribe(fn Observer) func() {
	s.obsMu.Lock()
	defer s.obsMu.Unlock()

	id := s.nextObs
	s.nextObs++
	s.observers[id] = fn

	return func() {
		s.obsMu.Lock()
		defer s.obsMu.Unlock()
		delete(s.observers, id)
	}
}

// emit delivers ev to every observer. Callers must have released the state
// lock: observers are allowed to read back through the public accessors.
func (s *State) emit(ev Event) {
	s.obsMu.Lock()
	obs := make([]Observer, 0, len(s.observers))
	for _, fn := range s.observers {
		obs = append(obs, fn)
	}
	s.obsMu.Unlock()

	for _, fn := range obs {
		fn(ev)
	}
}

// snapshotAccount returns a copy of the account for old/new event payloads.
// Settings is cloned because the merger mutates the live record in place;
// without the clone an "old" snapshot would show post-commit settings. The
// cache mappings are shared with the live entity.
func snapshotAccount(a *domain.Account) domain.Account {
	snap := *a
	if a.Settings != nil {
		settings := *a.Settings
		snap.Settings = &settings
	}
	return snap
}
