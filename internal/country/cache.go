package country

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	catalogCacheKey   = "catalog:countries"
	defaultCatalogTTL = 6 * time.Hour
)

// Cache provides Redis-backed catalog caching to offload the external fetch.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

var _ CatalogCache = (*Cache)(nil)

func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = defaultCatalogTTL
	}
	return &Cache{client: client, ttl: ttl}
}

func (c *Cache) Get(ctx context.Context) ([]Country, error) {
	data, err := c.client.Get(ctx, catalogCacheKey).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}
	var countries []Country
	if err := json.Unmarshal(data, &countries); err != nil {
		return nil, err
	}
	return countries, nil
}

func (c *Cache) Set(ctx context.Context, countries []Country) error {
	data, err := json.Marshal(countries)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, catalogCacheKey, data, c.ttl).Err()
}
