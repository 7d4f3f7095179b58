// Copyright 2021-2023
// SPDX-License-Identifier: Apache-2.0
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package common

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/go-redis/redis/v8"
	lru "github.com/hashicorp/golang-lru"
	"github.com/pierrec/lz4/v4"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

var (
	rdb   *redis.Client
	cache *lru.Cache
)

// SetupCache creates the in-process LRU cache and, if configured, connects to
// redis as a second tier shared between runs
func SetupCache() error {
	var err error
	if viper.GetBool("cache.redis") {
		opt, err := redis.ParseURL(viper.GetString("cache.redis_url"))
		if err != nil {
			return fmt.Errorf("could not parse redis URL: %w", err)
		}

		rdb = redis.NewClient(opt)
	} else {
		rdb = nil
	}

	cache, err = lru.New(viper.GetInt("cache.local_size"))
	if err != nil {
		return fmt.Errorf("could not create LRU cache: %w", err)
	}

	return nil
}

// CacheSet stores an lz4 compressed copy of data under key
func CacheSet(ctx context.Context, key string, data []byte) error {
	if cache == nil {
		return nil
	}

	compressed, err := compress(data)
	if err != nil {
		return err
	}
	cache.Add(key, compressed)

	if rdb != nil {
		expires := time.Duration(viper.GetInt("cache.ttl")) * time.Second
		return rdb.Set(ctx, key, compressed, expires).Err()
	}
	return nil
}

// CacheGet returns the data stored under key; ok is false on a miss
func CacheGet(ctx context.Context, key string) (data []byte, ok bool, err error) {
	if cache == nil {
		return nil, false, nil
	}

	if val, hit := cache.Get(key); hit {
		data, err = decompress(val.([]byte))
		return data, err == nil, err
	}

	if rdb == nil {
		return nil, false, nil
	}

	expires := time.Duration(viper.GetInt("cache.ttl")) * time.Second
	val, err := rdb.GetEx(ctx, key, expires).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		log.Warn().Err(err).Str("Key", key).Msg("redis lookup failed")
		return nil, false, err
	}

	// promote to the local tier
	cache.Add(key, val)

	data, err = decompress(val)
	return data, err == nil, err
}

func compress(in []byte) ([]byte, error) {
	w := &bytes.Buffer{}
	zw := lz4.NewWriter(w)
	if _, err := io.Copy(zw, bytes.NewReader(in)); err != nil {
		return nil, err
	}

	if err := zw.Close(); err != nil {
		return nil, err
	}
	return w.Bytes(), nil
}

func decompress(in []byte) ([]byte, error) {
	w := &bytes.Buffer{}
	zr := lz4.NewReader(bytes.NewReader(in))
	if _, err := io.Copy(w, zr); err != nil {
		return nil, err
	}
	return w.Bytes(), nil
}

func init() {
	viper.SetDefault("cache.local_size", 64)
	viper.SetDefault("cache.ttl", 86400)
}
