package cache

import (
	"context"
	"errors"

	"github.com/kasuganosora/arenasurvival/cache/local"
	cacheredis "github.com/kasuganosora/arenasurvival/cache/redis"
	"github.com/kasuganosora/arenasurvival/config"
)

// ErrNotFound is returned when a key or member does not exist, whatever the
// backend.
var ErrNotFound = errors.New("cache: not found")

// ScoredMember is one sorted-set entry.
type ScoredMember struct {
	Member string
	Score  float64
}

// Cache is the sorted-set subset the leaderboard needs.
type Cache interface {
	ZAdd(ctx context.Context, key string, score float64, member string) error
	// ZRevRangeWithScores returns members from highest score, ranks
	// [start, stop] inclusive; stop < 0 means "to the end".
	ZRevRangeWithScores(ctx context.Context, key string, start, stop int64) ([]ScoredMember, error)
	ZScore(ctx context.Context, key, member string) (float64, error)
	// ZKeepTop drops everything below the top keep members.
	ZKeepTop(ctx context.Context, key string, keep int64) error
	Del(ctx context.Context, keys ...string) error
	Close() error
}

// Message is a received pub/sub message.
type Message struct {
	Channel string
	Payload string
}

// PubSub defines channel publish/subscribe operations.
type PubSub interface {
	Publish(ctx context.Context, channel, message string) error
	Subscribe(ctx context.Context, channels ...string) (<-chan *Message, func(), error)
	Close() error
}

// NewCache returns a Cache backed by Redis if RedisAddr is set,
// otherwise an in-process LocalCache.
func NewCache(cfg config.CacheConfig) (Cache, error) {
	if cfg.RedisAddr != "" {
		rc, err := cacheredis.NewCache(redisConfig(cfg))
		if err != nil {
			return nil, err
		}
		return &zsetAdapter[cacheredis.ZEntry]{
			store:    rc,
			notFound: cacheredis.ErrNotFound,
			member:   func(e cacheredis.ZEntry) ScoredMember { return ScoredMember(e) },
		}, nil
	}
	return &zsetAdapter[local.ZEntry]{
		store:    local.NewCache(),
		notFound: local.ErrNotFound,
		member:   func(e local.ZEntry) ScoredMember { return ScoredMember(e) },
	}, nil
}

// NewPubSub returns a PubSub backed by Redis if RedisAddr is set,
// otherwise an in-process LocalPubSub.
func NewPubSub(cfg config.CacheConfig) (PubSub, error) {
	bufSize := cfg.LocalPubSubBuf
	if bufSize <= 0 {
		bufSize = 256
	}
	if cfg.RedisAddr != "" {
		rps, err := cacheredis.NewPubSub(redisConfig(cfg))
		if err != nil {
			return nil, err
		}
		return &pubSubAdapter[*cacheredis.RedisMessage]{
			bus:     rps,
			bufSize: bufSize,
			message: func(m *cacheredis.RedisMessage) *Message { return &Message{Channel: m.Channel, Payload: m.Payload} },
		}, nil
	}
	return &pubSubAdapter[*local.LocalMessage]{
		bus:     local.NewPubSub(bufSize),
		bufSize: bufSize,
		message: func(m *local.LocalMessage) *Message { return &Message{Channel: m.Channel, Payload: m.Payload} },
	}, nil
}

func redisConfig(cfg config.CacheConfig) cacheredis.Config {
	return cacheredis.Config{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}
}

// zsetStore is what both backends implement, each with its own entry type.
type zsetStore[E any] interface {
	ZAdd(ctx context.Context, key string, score float64, member string) error
	ZRevRangeWithScores(ctx context.Context, key string, start, stop int64) ([]E, error)
	ZScore(ctx context.Context, key, member string) (float64, error)
	ZKeepTop(ctx context.Context, key string, keep int64) error
	Del(ctx context.Context, keys ...string) error
	Close() error
}

// zsetAdapter bridges a backend to Cache, translating entries and the
// backend's not-found error.
type zsetAdapter[E any] struct {
	store    zsetStore[E]
	notFound error
	member   func(E) ScoredMember
}

func (a *zsetAdapter[E]) ZAdd(ctx context.Context, key string, score float64, member string) error {
	return a.store.ZAdd(ctx, key, score, member)
}

func (a *zsetAdapter[E]) ZRevRangeWithScores(ctx context.Context, key string, start, stop int64) ([]ScoredMember, error) {
	entries, err := a.store.ZRevRangeWithScores(ctx, key, start, stop)
	if err != nil {
		return nil, err
	}
	out := make([]ScoredMember, len(entries))
	for i, e := range entries {
		out[i] = a.member(e)
	}
	return out, nil
}

func (a *zsetAdapter[E]) ZScore(ctx context.Context, key, member string) (float64, error) {
	v, err := a.store.ZScore(ctx, key, member)
	if errors.Is(err, a.notFound) {
		return 0, ErrNotFound
	}
	return v, err
}

func (a *zsetAdapter[E]) ZKeepTop(ctx context.Context, key string, keep int64) error {
	return a.store.ZKeepTop(ctx, key, keep)
}

func (a *zsetAdapter[E]) Del(ctx context.Context, keys ...string) error {
	return a.store.Del(ctx, keys...)
}

func (a *zsetAdapter[E]) Close() error { return a.store.Close() }

type bus[M any] interface {
	Publish(ctx context.Context, channel, message string) error
	Subscribe(ctx context.Context, channels ...string) (<-chan M, func(), error)
	Close() error
}

type pubSubAdapter[M any] struct {
	bus     bus[M]
	bufSize int
	message func(M) *Message
}

func (a *pubSubAdapter[M]) Close() error { return a.bus.Close() }

func (a *pubSubAdapter[M]) Publish(ctx context.Context, channel, message string) error {
	return a.bus.Publish(ctx, channel, message)
}

// Subscribe relays the backend channel. The relay exits when the backend
// closes its channel, which both backends do on cancel or ctx end.
func (a *pubSubAdapter[M]) Subscribe(ctx context.Context, channels ...string) (<-chan *Message, func(), error) {
	in, cancel, err := a.bus.Subscribe(ctx, channels...)
	if err != nil {
		return nil, nil, err
	}
	out := make(chan *Message, a.bufSize)
	go func() {
		defer close(out)
		for m := range in {
			select {
			case out <- a.message(m):
			default:
			}
		}
	}()
	return out, cancel, nil
}
