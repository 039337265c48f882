package cache

import (
	"context"
	"testing"
	"time"

	"github.com/shopdesk/internal/config"
)

func TestDisabledCacheIsNoop(t *testing.T) {
	if err := InitRedis(&config.RedisConfig{Enabled: false}); err != nil {
		t.Fatalf("init disabled redis failed: %v", err)
	}
	if Enabled() {
		t.Fatalf("cache should be disabled")
	}
	ctx := context.Background()
	if err := SetJSON(ctx, "k", map[string]int{"a": 1}, time.Minute); err != nil {
		t.Fatalf("set on disabled cache should be noop: %v", err)
	}
	var dest map[string]int
	hit, err := GetJSON(ctx, "k", &dest)
	if err != nil || hit {
		t.Fatalf("get on disabled cache should miss, hit=%v err=%v", hit, err)
	}
	if err := DelByPrefix(ctx, StatisticsKeyPrefix); err != nil {
		t.Fatalf("del by prefix on disabled cache should be noop: %v", err)
	}
}

func TestStatisticsKey(t *testing.T) {
	got := StatisticsKey("summary", "monthly", "2025-01-01", "2025-01-31")
	if got != "stats:summary:monthly:2025-01-01:2025-01-31" {
		t.Fatalf("unexpected key: %s", got)
	}
}
