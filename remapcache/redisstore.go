// Copyright 2025 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package remapcache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gomodule/redigo/redis"
)

// RedisStore is an optional distributed backing tier for the ID remap
// cache, adapted from lib/rediscache.RedisDataCache: same connection-pool
// shape, same string key/value contract, traded down from that package's
// generics (this cache only ever stores strings).
type RedisStore struct {
	keyPrefix string
	pool      *redis.Pool
	ttl       time.Duration
}

// NewRedisStore dials a Redis connection pool for host:port.
func NewRedisStore(keyPrefix, host, port string, ttl time.Duration, maxConnections int) *RedisStore {
	addr := fmt.Sprintf("%s:%s", host, port)

	// nolint: exhaustruct // no need to set every pool option
	pool := &redis.Pool{
		MaxIdle: maxConnections,
		Dial:    func() (redis.Conn, error) { return redis.Dial("tcp", addr) },
	}

	return &RedisStore{keyPrefix: keyPrefix, pool: pool, ttl: ttl}
}

func (r *RedisStore) cacheKey(key string) string {
	return fmt.Sprintf("%s-%s", r.keyPrefix, key)
}

func (r *RedisStore) Put(ctx context.Context, key, value string) error {
	conn, err := r.pool.GetContext(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	if r.ttl > 0 {
		_, err = conn.Do("SET", r.cacheKey(key), value, "EX", int64(r.ttl.Seconds()))
	} else {
		_, err = conn.Do("SET", r.cacheKey(key), value)
	}

	return err
}

func (r *RedisStore) Get(ctx context.Context, key string) (string, error) {
	conn, err := r.pool.GetContext(ctx)
	if err != nil {
		return "", err
	}
	defer conn.Close()

	value, err := redis.String(conn.Do("GET", r.cacheKey(key)))
	if errors.Is(err, redis.ErrNil) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}

	return value, nil
}
