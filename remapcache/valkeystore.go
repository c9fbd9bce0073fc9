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

	"github.com/cenkalti/backoff/v5"
	"github.com/valkey-io/valkey-go"
)

// ValkeyStore is an alternative distributed backing tier for the ID remap
// cache, adapted from lib/valkeycache.ValkeyDataCache, including its
// connect-with-backoff startup (the same pattern the teacher uses to
// tolerate a Valkey sidecar that isn't ready yet).
type ValkeyStore struct {
	keyPrefix string
	client    valkey.Client
	ttl       time.Duration
}

// NewValkeyStore connects to a Valkey instance at host:port, retrying with
// exponential backoff for up to 25 seconds.
func NewValkeyStore(ctx context.Context, keyPrefix, host, port string, ttl time.Duration) (*ValkeyStore, error) {
	addr := fmt.Sprintf("%s:%s", host, port)
	operation := func() (valkey.Client, error) {
		// nolint: exhaustruct // no need to set every client option
		return valkey.NewClient(valkey.ClientOption{InitAddress: []string{addr}})
	}

	client, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(backoff.NewExponentialBackOff()),
		backoff.WithMaxElapsedTime(25*time.Second),
	)
	if err != nil {
		return nil, err
	}

	return &ValkeyStore{keyPrefix: keyPrefix, client: client, ttl: ttl}, nil
}

func (v *ValkeyStore) cacheKey(key string) string {
	return fmt.Sprintf("%s-%s", v.keyPrefix, key)
}

func (v *ValkeyStore) Put(ctx context.Context, key, value string) error {
	cmd := v.client.B().Set().Key(v.cacheKey(key)).Value(value)
	if v.ttl > 0 {
		return v.client.Do(ctx, cmd.Ex(v.ttl).Build()).Error()
	}

	return v.client.Do(ctx, cmd.Build()).Error()
}

func (v *ValkeyStore) Get(ctx context.Context, key string) (string, error) {
	msg, err := v.client.Do(ctx, v.client.B().Get().Key(v.cacheKey(key)).Build()).ToMessage()
	if errors.Is(err, valkey.Nil) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}

	return msg.ToString()
}
