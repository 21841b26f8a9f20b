// Package cache はRedisベースの読み取りキャッシュを提供する。
// Redisが設定されていないデプロイではnilクライアントのまま動作し、
// すべての操作がキャッシュミス扱いになる。
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrMiss はキーが存在しない場合に返されるエラー。
var ErrMiss = errors.New("cache miss")

// Cache はJSONシリアライズ付きのキー/バリューキャッシュ。
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// Options はCacheの接続設定。
type Options struct {
	Addr     string // 空の場合はキャッシュ無効
	Password string
	TTL      time.Duration
}

// New はCacheを生成する。Addrが空の場合は無効化されたCacheを返す。
// 接続確認に失敗した場合もエラーにせず無効化されたCacheを返す
// （キャッシュはベストエフォートであり、起動を妨げない）。
func New(ctx context.Context, opts Options) *Cache {
	if opts.Addr == "" {
		return &Cache{ttl: opts.TTL}
	}

	client := redis.NewClient(&redis.Options{
		Addr:         opts.Addr,
		Password:     opts.Password,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		slog.Warn("redis unavailable, cache disabled",
			slog.String("addr", opts.Addr),
			slog.String("error", err.Error()),
		)
		_ = client.Close()
		return &Cache{ttl: opts.TTL}
	}

	slog.Info("redis connected", slog.String("addr", opts.Addr))
	return &Cache{client: client, ttl: opts.TTL}
}

// Enabled はキャッシュが有効かどうかを返す。
func (c *Cache) Enabled() bool {
	return c != nil && c.client != nil
}

// Get はキーの値をJSONデコードしてdestに格納する。
// キーが存在しない場合、またはキャッシュ無効時はErrMissを返す。
func (c *Cache) Get(ctx context.Context, key string, dest any) error {
	if !c.Enabled() {
		return ErrMiss
	}

	val, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return ErrMiss
	}
	if err != nil {
		return fmt.Errorf("failed to get cache key: %w", err)
	}

	if err := json.Unmarshal(val, dest); err != nil {
		return fmt.Errorf("failed to unmarshal cached value: %w", err)
	}
	return nil
}

// Set はvalueをJSONエンコードしてTTL付きで保存する。
// キャッシュ無効時は何もしない。
func (c *Cache) Set(ctx context.Context, key string, value any) error {
	if !c.Enabled() {
		return nil
	}

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal cache value: %w", err)
	}
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set cache key: %w", err)
	}
	return nil
}

// Delete はキーを削除する。キャッシュ無効時は何もしない。
func (c *Cache) Delete(ctx context.Context, keys ...string) error {
	if !c.Enabled() || len(keys) == 0 {
		return nil
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to delete cache keys: %w", err)
	}
	return nil
}

// Close はRedis接続を閉じる。
func (c *Cache) Close() error {
	if !c.Enabled() {
		return nil
	}
	return c.client.Close()
}
