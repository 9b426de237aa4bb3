package cache

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/dujiao-next/cupcake/internal/config"

	"github.com/redis/go-redis/v9"
)

const (
	defaultPrefix = "cupcake"
	pingTimeout   = 3 * time.Second
)

// backend 当前进程共享的 Redis 连接与 key 前缀
type backend struct {
	client *redis.Client
	prefix string
}

var current = backend{prefix: defaultPrefix}

// InitRedis 按配置连接 Redis；连不上时保持禁用并返回错误，调用方可降级运行
func InitRedis(cfg *config.RedisConfig) error {
	_ = Close()
	if cfg == nil || !cfg.Enabled {
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     redisAddr(cfg),
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return err
	}

	current = backend{client: client, prefix: normalizePrefix(cfg.Prefix)}
	return nil
}

func redisAddr(cfg *config.RedisConfig) string {
	host := strings.TrimSpace(cfg.Host)
	if host == "" {
		host = "127.0.0.1"
	}
	port := cfg.Port
	if port <= 0 {
		port = 6379
	}
	return net.JoinHostPort(host, strconv.Itoa(port))
}

func normalizePrefix(prefix string) string {
	prefix = strings.Trim(strings.TrimSpace(prefix), ":")
	if prefix == "" {
		return defaultPrefix
	}
	return prefix
}

// Enabled Redis 是否可用
func Enabled() bool {
	return current.client != nil
}

// Client 未启用时返回 nil
func Client() *redis.Client {
	return current.client
}

// Close 关闭连接并恢复为禁用状态
func Close() error {
	client := current.client
	current = backend{prefix: defaultPrefix}
	if client == nil {
		return nil
	}
	return client.Close()
}

// Key 拼接全局前缀
func Key(key string) string {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return current.prefix
	}
	return current.prefix + ":" + trimmed
}

// GetJSON 读取并反序列化，未命中返回 false
func GetJSON(ctx context.Context, key string, dest interface{}) (bool, error) {
	if !Enabled() {
		return false, nil
	}
	raw, err := current.client.Get(ctx, Key(key)).Bytes()
	switch {
	case errors.Is(err, redis.Nil):
		return false, nil
	case err != nil:
		return false, err
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return false, err
	}
	return true, nil
}

// SetJSON 序列化后写入
func SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if !Enabled() {
		return nil
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return current.client.Set(ctx, Key(key), payload, ttl).Err()
}

// Del 删除 key
func Del(ctx context.Context, key string) error {
	if !Enabled() {
		return nil
	}
	return current.client.Del(ctx, Key(key)).Err()
}
