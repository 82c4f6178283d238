package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

type Cache struct {
	RDB    *redis.Client
	Prefix string
	sf     singleflight.Group
}

func New(addr, pass string, db int) *Cache {
	return NewFromClient(redis.NewClient(&redis.Options{Addr: addr, Password: pass, DB: db}))
}

func NewFromClient(rdb *redis.Client) *Cache {
	return &Cache{RDB: rdb, Prefix: "rentkojo"}
}

// Key 形如 rentkojo:Category:abc123
func (c *Cache) Key(entity, id string) string {
	return c.Prefix + ":" + entity + ":" + id
}

func (c *Cache) Ping(ctx context.Context) error { return c.RDB.Ping(ctx).Err() }

func (c *Cache) Close() error { return c.RDB.Close() }

func (c *Cache) GetOrLoad(ctx context.Context, key string, ttl time.Duration, load func(context.Context) ([]byte, error)) ([]byte, error) {
	// 先读缓存
	if b, err := c.RDB.Get(ctx, key).Bytes(); err == nil {
		return b, nil
	}
	// single flight 合并回源
	v, err, _ := c.sf.Do(key, func() (any, error) {
		b, e := load(ctx)
		if e != nil {
			return nil, e
		}
		_ = c.RDB.Set(ctx, key, b, ttl).Err()
		return b, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}

// Invalidate 写操作后删除相关键；redis 不可用时不影响主流程
func (c *Cache) Invalidate(ctx context.Context, keys ...string) {
	if len(keys) == 0 {
		return
	}
	_ = c.RDB.Del(ctx, keys...).Err()
}

// InvalidateEntity 按前缀清掉某类实体的全部键（级联删除后子记录 id 未知）
func (c *Cache) InvalidateEntity(ctx context.Context, entities ...string) {
	for _, e := range entities {
		c.scanDel(ctx, c.Prefix+":"+e+":*")
	}
}

// Clear 清空本服务命名空间
func (c *Cache) Clear(ctx context.Context) {
	c.scanDel(ctx, c.Prefix+":*")
}

func (c *Cache) scanDel(ctx context.Context, pattern string) {
	iter := c.RDB.Scan(ctx, 0, pattern, 200).Iterator()
	batch := make([]string, 0, 200)
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == cap(batch) {
			c.Invalidate(ctx, batch...)
			batch = batch[:0]
		}
	}
	c.Invalidate(ctx, batch...)
}
