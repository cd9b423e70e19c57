// Package redisstore persists form definitions in Redis.
package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	backend "github.com/redis/go-redis/v9"

	"github.com/goliatone/go-formrules/pkg/definition"
)

// Store implements definition.Store. Each form is stored as a JSON document
// under prefix+id and its id is tracked in the prefix+"index" set.
type Store struct {
	client *backend.Client
	prefix string
}

var _ definition.Store = (*Store)(nil)

// Option configures a Store.
type Option func(*Store)

// WithPrefix sets the key prefix.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		if prefix != "" {
			s.prefix = prefix
		}
	}
}

// New connects to the Redis server at address.
func New(address, password string, db int, opts ...Option) *Store {
	client := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(client, opts...)
}

// NewFromClient wraps an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Store {
	store := &Store{
		client: client,
		prefix: "formrules:form:",
	}
	for _, opt := range opts {
		opt(store)
	}
	return store
}

func (s *Store) key(id string) string {
	return s.prefix + id
}

func (s *Store) indexKey() string {
	return s.prefix + "index"
}

// Ping checks connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close releases the client's connections.
func (s *Store) Close() error {
	return s.client.Close()
}

func (s *Store) Get(ctx context.Context, id string) (definition.Form, error) {
	data, err := s.client.Get(ctx, s.key(id)).Bytes()
	if err != nil {
		if errors.Is(err, backend.Nil) {
			return definition.Form{}, definition.ErrNotFound
		}
		return definition.Form{}, fmt.Errorf("redisstore: get %q: %w", id, err)
	}

	var form definition.Form
	if err := json.Unmarshal(data, &form); err != nil {
		return definition.Form{}, fmt.Errorf("redisstore: decode %q: %w", id, err)
	}
	return definition.Normalize(form), nil
}

func (s *Store) Put(ctx context.Context, form definition.Form) error {
	form = definition.Normalize(form)
	if err := definition.Validate(form); err != nil {
		return err
	}

	data, err := json.Marshal(form)
	if err != nil {
		return fmt.Errorf("redisstore: encode %q: %w", form.ID, err)
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, s.key(form.ID), data, 0)
	pipe.SAdd(ctx, s.indexKey(), form.ID)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redisstore: put %q: %w", form.ID, err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	pipe := s.client.TxPipeline()
	deleted := pipe.Del(ctx, s.key(id))
	pipe.SRem(ctx, s.indexKey(), id)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redisstore: delete %q: %w", id, err)
	}
	if deleted.Val() == 0 {
		return definition.ErrNotFound
	}
	return nil
}

func (s *Store) List(ctx context.Context) ([]string, error) {
	ids, err := s.client.SMembers(ctx, s.indexKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("redisstore: list: %w", err)
	}
	sort.Strings(ids)
	return ids, nil
}
