package core

import (
	"context"
	"log"
	"strconv"
	"strings"
)

// Operation names recorded by MetricsService.
const (
	OpRegister      = "register"
	OpSignIn        = "sign_in"
	OpSignOut       = "sign_out"
	OpAccountDelete = "account_delete"
	OpTaskCreate    = "task_create"
	OpTaskList      = "task_list"
	OpTaskUpdate    = "task_update"
	OpTaskDelete    = "task_delete"
	OpAuthRejected  = "auth_rejected"
)

const metricsKeyPrefix = "todo:metrics:"

// MetricsService keeps per-operation counters in Redis. Recording is
// best-effort: a Redis fault is logged and never fails the request. A nil
// service is a no-op, so the API runs unchanged without Redis.
type MetricsService struct {
	redis RedisCounter
}

func NewMetricsService(redis RedisCounter) *MetricsService {
	return &MetricsService{redis: redis}
}

// Record increments the counter for op.
func (s *MetricsService) Record(ctx context.Context, op string) {
	if s == nil || s.redis == nil {
		return
	}
	if err := s.redis.Incr(ctx, metricsKeyPrefix+op).Err(); err != nil {
		log.Printf("metrics: failed to record %s: %v", op, err)
	}
}

// Counters returns all recorded operation counts keyed by operation name.
func (s *MetricsService) Counters(ctx context.Context) (map[string]int64, error) {
	out := map[string]int64{}
	if s == nil || s.redis == nil {
		return out, nil
	}

	iter := s.redis.Scan(ctx, 0, metricsKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		val, err := s.redis.Get(ctx, key).Result()
		if err != nil {
			continue
		}
		n, err := strconv.ParseInt(val, 10, 64)
		if err != nil {
			continue
		}
		out[strings.TrimPrefix(key, metricsKeyPrefix)] = n
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
