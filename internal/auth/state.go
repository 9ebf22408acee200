package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
)

// pendingLogin is what the start handler remembers until Google calls back.
type pendingLogin struct {
	GuestID string `json:"guestId,omitempty"`
}

// StateStore holds single-use OAuth state values. Consume reports ok=false
// for unknown, expired or already used states.
type StateStore interface {
	Put(ctx context.Context, state string, login pendingLogin, ttl time.Duration) error
	Consume(ctx context.Context, state string) (login pendingLogin, ok bool, err error)
}

type memoryStateStore struct {
	mu    sync.Mutex
	items map[string]memoryState
	now   func() time.Time
}

type memoryState struct {
	login   pendingLogin
	expires time.Time
}

// NewMemoryStateStore keeps state in process memory. It only works when the
// callback reaches the instance that served the start request.
func NewMemoryStateStore() StateStore {
	return &memoryStateStore{items: make(map[string]memoryState), now: time.Now}
}

func (s *memoryStateStore) Put(_ context.Context, state string, login pendingLogin, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	for k, v := range s.items {
		if now.After(v.expires) {
			delete(s.items, k)
		}
	}
	s.items[state] = memoryState{login: login, expires: now.Add(ttl)}
	return nil
}

func (s *memoryStateStore) Consume(_ context.Context, state string) (pendingLogin, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.items[state]
	if !ok {
		return pendingLogin{}, false, nil
	}
	delete(s.items, state)
	if s.now().After(item.expires) {
		return pendingLogin{}, false, nil
	}
	return item.login, true, nil
}

const redisStatePrefix = "cameo:oauth-state:"

type redisStateStore struct {
	rdb *redis.Client
}

// NewRedisStateStore shares OAuth state across API instances and Lambda containers.
func NewRedisStateStore(rdb *redis.Client) StateStore {
	return &redisStateStore{rdb: rdb}
}

func (s *redisStateStore) Put(ctx context.Context, state string, login pendingLogin, ttl time.Duration) error {
	payload, err := json.Marshal(login)
	if err != nil {
		return err
	}
	if err := s.rdb.Set(ctx, redisStatePrefix+state, payload, ttl).Err(); err != nil {
		return fmt.Errorf("redis set state: %w", err)
	}
	return nil
}

func (s *redisStateStore) Consume(ctx context.Context, state string) (pendingLogin, bool, error) {
	raw, err := s.rdb.GetDel(ctx, redisStatePrefix+state).Bytes()
	if errors.Is(err, redis.Nil) {
		return pendingLogin{}, false, nil
	}
	if err != nil {
		return pendingLogin{}, false, fmt.Errorf("redis getdel state: %w", err)
	}
	var login pendingLogin
	if err := json.Unmarshal(raw, &login); err != nil {
		return pendingLogin{}, false, fmt.Errorf("decode state: %w", err)
	}
	return login, true, nil
}
