package session

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dujiao-next/cupcake/internal/config"

	"github.com/google/uuid"
	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"github.com/redis/go-redis/v9"
)

// Backend 会话载荷的键值存储
type Backend interface {
	// Get 读取载荷，不存在时返回 nil, nil
	Get(ctx context.Context, id string) ([]byte, error)
	Set(ctx context.Context, id string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, id string) error
}

// KVStore 实现 sessions.Store，cookie 中只保存签名后的会话 ID
type KVStore struct {
	Options *sessions.Options

	backend    Backend
	codecs     []securecookie.Codec
	serializer securecookie.GobEncoder
}

// NewKVStore 创建键值会话存储
func NewKVStore(backend Backend, cfg config.SessionConfig) *KVStore {
	store := &KVStore{
		Options: cookieOptions(cfg),
		backend: backend,
		codecs:  securecookie.CodecsFromPairs(keyPairs(cfg)...),
	}
	store.MaxAge(store.Options.MaxAge)
	return store
}

// Get 返回本次请求已缓存的会话
func (s *KVStore) Get(r *http.Request, name string) (*sessions.Session, error) {
	return sessions.GetRegistry(r).Get(s, name)
}

// New 从 cookie 中的会话 ID 加载载荷
func (s *KVStore) New(r *http.Request, name string) (*sessions.Session, error) {
	sess := sessions.NewSession(s, name)
	opts := *s.Options
	sess.Options = &opts
	sess.IsNew = true

	cookie, err := r.Cookie(name)
	if err != nil {
		return sess, nil
	}
	var id string
	if err := securecookie.DecodeMulti(name, cookie.Value, &id, s.codecs...); err != nil {
		return sess, err
	}
	data, err := s.backend.Get(r.Context(), id)
	if err != nil {
		return sess, err
	}
	if data == nil {
		return sess, nil
	}
	if err := s.serializer.Deserialize(data, &sess.Values); err != nil {
		return sess, err
	}
	sess.ID = id
	sess.IsNew = false
	return sess, nil
}

// Save 写入载荷并下发会话 ID cookie，MaxAge<0 时删除
func (s *KVStore) Save(r *http.Request, w http.ResponseWriter, sess *sessions.Session) error {
	if sess.Options.MaxAge < 0 {
		if sess.ID != "" {
			if err := s.backend.Delete(r.Context(), sess.ID); err != nil {
				return err
			}
		}
		http.SetCookie(w, sessions.NewCookie(sess.Name(), "", sess.Options))
		return nil
	}

	if sess.ID == "" {
		sess.ID = uuid.NewString()
	}
	data, err := s.serializer.Serialize(sess.Values)
	if err != nil {
		return err
	}
	ttl := time.Duration(sess.Options.MaxAge) * time.Second
	if err := s.backend.Set(r.Context(), sess.ID, data, ttl); err != nil {
		return err
	}
	encoded, err := securecookie.EncodeMulti(sess.Name(), sess.ID, s.codecs...)
	if err != nil {
		return err
	}
	http.SetCookie(w, sessions.NewCookie(sess.Name(), encoded, sess.Options))
	return nil
}

// MaxAge 同步 cookie 与签名的有效期
func (s *KVStore) MaxAge(age int) {
	s.Options.MaxAge = age
	for _, codec := range s.codecs {
		if sc, ok := codec.(*securecookie.SecureCookie); ok {
			sc.MaxAge(age)
		}
	}
}

// RedisBackend 基于 Redis 的会话载荷存储
type RedisBackend struct {
	client *redis.Client
	prefix string
}

// NewRedisBackend 创建 Redis 会话后端，prefix 为完整 key 前缀
func NewRedisBackend(client *redis.Client, prefix string) *RedisBackend {
	return &RedisBackend{client: client, prefix: prefix}
}

func (b *RedisBackend) key(id string) string {
	return b.prefix + id
}

// Get 读取载荷
func (b *RedisBackend) Get(ctx context.Context, id string) ([]byte, error) {
	data, err := b.client.Get(ctx, b.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

// Set 写入载荷
func (b *RedisBackend) Set(ctx context.Context, id string, data []byte, ttl time.Duration) error {
	return b.client.Set(ctx, b.key(id), data, ttl).Err()
}

// Delete 删除载荷
func (b *RedisBackend) Delete(ctx context.Context, id string) error {
	return b.client.Del(ctx, b.key(id)).Err()
}
