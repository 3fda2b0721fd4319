package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"cloud.google.com/go/civil"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/weekly-signup/internal/domain/booking"
)

const redisKeyPrefix = "bookings:week:"

// Redis shares the week cache between API replicas.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
	log    *zap.Logger
}

func NewRedis(client *redis.Client, ttl time.Duration, log *zap.Logger) *Redis {
	if log == nil {
		log = zap.NewNop()
	}
	return &Redis{client: client, ttl: ttl, log: log}
}

func redisKey(weekStart civil.Date) string {
	return redisKeyPrefix + weekStart.String()
}

func versionKey(weekStart civil.Date) string {
	return redisKey(weekStart) + ":version"
}

func (r *Redis) Get(ctx context.Context, weekStart civil.Date) ([]booking.Booking, bool) {
	val, err := r.client.Get(ctx, redisKey(weekStart)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		r.log.Warn("week cache get failed", zap.String("week", weekStart.String()), zap.Error(err))
		return nil, false
	}

	var out []booking.Booking
	if err := json.Unmarshal(val, &out); err != nil {
		r.log.Warn("week cache entry corrupt", zap.String("week", weekStart.String()), zap.Error(err))
		return nil, false
	}
	return out, true
}

func (r *Redis) Version(ctx context.Context, weekStart civil.Date) uint64 {
	v, err := r.client.Get(ctx, versionKey(weekStart)).Uint64()
	if err != nil && !errors.Is(err, redis.Nil) {
		r.log.Warn("week cache version failed", zap.String("week", weekStart.String()), zap.Error(err))
	}
	return v
}

// Set writes the entry only while the version key still holds version.
// WATCH aborts the transaction if an Invalidate lands between check and write.
func (r *Redis) Set(ctx context.Context, weekStart civil.Date, version uint64, bookings []booking.Booking) {
	if bookings == nil {
		bookings = []booking.Booking{}
	}
	data, err := json.Marshal(bookings)
	if err != nil {
		return
	}

	vkey := versionKey(weekStart)
	err = r.client.Watch(ctx, func(tx *redis.Tx) error {
		cur, err := tx.Get(ctx, vkey).Uint64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if cur != version {
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(p redis.Pipeliner) error {
			p.Set(ctx, redisKey(weekStart), data, r.ttl)
			return nil
		})
		return err
	}, vkey)
	if errors.Is(err, redis.TxFailedErr) {
		return
	}
	if err != nil {
		r.log.Warn("week cache set failed", zap.String("week", weekStart.String()), zap.Error(err))
	}
}

func (r *Redis) Invalidate(ctx context.Context, weekStart civil.Date) {
	_, err := r.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Del(ctx, redisKey(weekStart))
		p.Incr(ctx, versionKey(weekStart))
		return nil
	})
	if err != nil {
		r.log.Warn("week cache invalidate failed", zap.String("week", weekStart.String()), zap.Error(err))
	}
}

// Ping checks connectivity at startup.
func (r *Redis) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
