// Package redis stores progress documents as plain Redis string values.
package redis

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/vytor/linguaflash/internal/logger"
	"github.com/vytor/linguaflash/internal/repository"
)

// usersKey indexes every user that has a stored document.
const usersKey = repository.StorageKey + ":users"

type progressRepository struct {
	rdb *goredis.Client
}

// Open connects to addr and verifies the connection with a ping.
func Open(ctx context.Context, addr string, db int) (*goredis.Client, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DB:          db,
		DialTimeout: 5 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return rdb, nil
}

// NewProgressRepository creates a Redis-backed ProgressRepository
func NewProgressRepository(rdb *goredis.Client) repository.ProgressRepository {
	return &progressRepository{rdb: rdb}
}

func documentKey(userID string) string {
	return repository.StorageKey + ":" + userID
}

func (r *progressRepository) Get(ctx context.Context, userID string) ([]byte, error) {
	log := logger.FromContext(ctx).WithPrefix("redis_progress_repo")
	log.Debug("loading progress document: user_id=%s", userID)

	doc, err := r.rdb.Get(ctx, documentKey(userID)).Bytes()
	if errors.Is(err, goredis.Nil) {
		log.Debug("no progress document: user_id=%s", userID)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to load progress document: %v", err)
		return nil, err
	}
	return doc, nil
}

func (r *progressRepository) Put(ctx context.Context, userID string, document []byte) error {
	log := logger.FromContext(ctx).WithPrefix("redis_progress_repo")
	log.Debug("writing progress document: user_id=%s, bytes=%d", userID, len(document))

	_, err := r.rdb.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		pipe.Set(ctx, documentKey(userID), document, 0)
		pipe.SAdd(ctx, usersKey, userID)
		return nil
	})
	if err != nil {
		log.Error("failed to write progress document: %v", err)
	}
	return err
}

func (r *progressRepository) Delete(ctx context.Context, userID string) error {
	log := logger.FromContext(ctx).WithPrefix("redis_progress_repo")
	log.Debug("deleting progress document: user_id=%s", userID)

	_, err := r.rdb.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		pipe.Del(ctx, documentKey(userID))
		pipe.SRem(ctx, usersKey, userID)
		return nil
	})
	if err != nil {
		log.Error("failed to delete progress document: %v", err)
	}
	return err
}

func (r *progressRepository) ListUserIDs(ctx context.Context) ([]string, error) {
	log := logger.FromContext(ctx).WithPrefix("redis_progress_repo")

	ids, err := r.rdb.SMembers(ctx, usersKey).Result()
	if err != nil {
		log.Error("failed to list users: %v", err)
		return nil, err
	}
	sort.Strings(ids)
	log.Debug("found %d users", len(ids))
	return ids, nil
}

// Pinger adapts a client to the readiness probe.
type Pinger struct {
	Client *goredis.Client
}

func (p Pinger) Ping(ctx context.Context) error {
	return p.Client.Ping(ctx).Err()
}
