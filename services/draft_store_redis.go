package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisDraftPrefix = "quote_draft:"

// maxDraftRetries bounds optimistic retries when requests race on one draft.
// Every failed round lets one writer through, so this only trips under a
// sustained burst of edits.
const maxDraftRetries = 100

// RedisDraftStore keeps drafts in Redis so several app instances can serve
// the same page view. Drafts expire through the key TTL.
type RedisDraftStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisDraftStore(addr string, ttl time.Duration) *RedisDraftStore {
	rdb := redis.NewClient(&redis.Options{
		Addr: addr,
	})
	return NewRedisDraftStoreWithClient(rdb, ttl)
}

func NewRedisDraftStoreWithClient(client *redis.Client, ttl time.Duration) *RedisDraftStore {
	if ttl <= 0 {
		ttl = DefaultDraftTTL
	}
	return &RedisDraftStore{client: client, ttl: ttl}
}

// Ping checks connectivity so startup can fall back to the memory store.
func (s *RedisDraftStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *RedisDraftStore) Close() error {
	return s.client.Close()
}

func draftKey(id string) string {
	return redisDraftPrefix + id
}

func (s *RedisDraftStore) Create(ctx context.Context, kind DraftKind, rfqID string) (*QuoteDraft, error) {
	d := newDraft(kind, rfqID, time.Now(), s.ttl)
	b, err := json.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("encode draft: %w", err)
	}
	if err := s.client.Set(ctx, draftKey(d.ID), b, s.ttl).Err(); err != nil {
		return nil, fmt.Errorf("store draft: %w", err)
	}
	return d, nil
}

func (s *RedisDraftStore) Get(ctx context.Context, id string) (*QuoteDraft, error) {
	b, err := s.client.Get(ctx, draftKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrDraftNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load draft: %w", err)
	}
	return decodeDraft(b)
}

func (s *RedisDraftStore) Update(ctx context.Context, id string, fn func(*QuoteDraft) error) (*QuoteDraft, error) {
	key := draftKey(id)
	var result *QuoteDraft

	txf := func(tx *redis.Tx) error {
		b, err := tx.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			return ErrDraftNotFound
		}
		if err != nil {
			return fmt.Errorf("load draft: %w", err)
		}
		d, err := decodeDraft(b)
		if err != nil {
			return err
		}
		if err := fn(d); err != nil {
			return err
		}
		d.ExpiresAt = time.Now().Add(s.ttl)
		out, err := json.Marshal(d)
		if err != nil {
			return fmt.Errorf("encode draft: %w", err)
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, out, s.ttl)
			return nil
		})
		if err == nil {
			result = d
		}
		return err
	}

	for i := 0; i < maxDraftRetries; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		err := s.client.Watch(ctx, txf, key)
		if err == nil {
			return result, nil
		}
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return nil, err
	}
	return nil, fmt.Errorf("update draft %s: too many concurrent edits", id)
}

func (s *RedisDraftStore) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, draftKey(id)).Err(); err != nil {
		return fmt.Errorf("delete draft: %w", err)
	}
	return nil
}

func decodeDraft(b []byte) (*QuoteDraft, error) {
	var d QuoteDraft
	if err := json.Unmarshal(b, &d); err != nil {
		return nil, fmt.Errorf("decode draft: %w", err)
	}
	return &d, nil
}
