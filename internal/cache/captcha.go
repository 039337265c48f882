package cache

import (
	"context"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const captchaKeyPrefix = "captcha:"

// CaptchaStore 基于 Redis 的验证码存储，多实例部署时共享答案
type CaptchaStore struct {
	ttl time.Duration
}

// NewCaptchaStore 创建验证码存储
func NewCaptchaStore(ttl time.Duration) *CaptchaStore {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &CaptchaStore{ttl: ttl}
}

// Set 写入答案
func (s *CaptchaStore) Set(id string, value string) error {
	if !Enabled() {
		return nil
	}
	return redisClient.Set(context.Background(), buildKey(captchaKeyPrefix+id), value, s.ttl).Err()
}

// Get 读取答案，clear 为 true 时读取后删除
func (s *CaptchaStore) Get(id string, clear bool) string {
	if !Enabled() || strings.TrimSpace(id) == "" {
		return ""
	}
	ctx := context.Background()
	key := buildKey(captchaKeyPrefix + id)
	var (
		val string
		err error
	)
	if clear {
		val, err = redisClient.GetDel(ctx, key).Result()
	} else {
		val, err = redisClient.Get(ctx, key).Result()
	}
	if err == redis.Nil || err != nil {
		return ""
	}
	return val
}

// Verify 校验答案（忽略大小写）
func (s *CaptchaStore) Verify(id, answer string, clear bool) bool {
	stored := s.Get(id, clear)
	if stored == "" {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(stored), strings.TrimSpace(answer))
}
