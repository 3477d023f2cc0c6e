package verification

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultTTL matches the "expires in 10 minutes" promise in the mail body.
const DefaultTTL = 10 * time.Minute

var ErrCodeMismatch = errors.New("verification code invalid or expired")

// Store keeps one pending verification code per email address. Codes are
// single use: a successful Consume burns them.
type Store interface {
	Put(ctx context.Context, email, code string) error
	Consume(ctx context.Context, email, code string) error
}

// RedisStore keeps codes in redis with a TTL, surviving process restarts.
type RedisStore struct {
	redisdb *redis.Client
	ttl     time.Duration
}

func NewRedisStore(redisdb *redis.Client, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	return &RedisStore{
		redisdb: redisdb,
		ttl:     ttl,
	}
}

func key(email string) string {
	return "verification_codes:" + email
}

func (s *RedisStore) Put(ctx context.Context, email, code string) error {
	return s.redisdb.Set(ctx, key(email), code, s.ttl).Err()
}

func (s *RedisStore) Consume(ctx context.Context, email, code string) error {
	stored, err := s.redisdb.GetDel(ctx, key(email)).Result()

	if errors.Is(err, redis.Nil) {
		return ErrCodeMismatch
	}

	if err != nil {
		return err
	}

	if stored != code {
		return ErrCodeMismatch
	}

	return nil
}

// MemoryStore is the process-local substitute used when redis is not
// configured. Codes vanish on restart, which is acceptable for a 10-minute
// artifact.
type MemoryStore struct {
	mu  sync.Mutex
	ttl time.Duration
	m   map[string]entry
}

type entry struct {
	code string
	exp  time.Time
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	return &MemoryStore{
		ttl: ttl,
		m:   make(map[string]entry),
	}
}

func (s *MemoryStore) Put(_ context.Context, email, code string) error {
	s.mu.Lock()
	s.m[email] = entry{code: code, exp: time.Now().Add(s.ttl)}
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Consume(_ context.Context, email, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.m[email]

	if !ok {
		return ErrCodeMismatch
	}

	delete(s.m, email)

	if time.Now().After(e.exp) || e.code != code {
		return ErrCodeMismatch
	}

	return nil
}
