package cache

import (
	"fmt"
	"strings"
)

// StatisticsKeyPrefix 统计缓存统一前缀，订单/支付变更后整体失效
const StatisticsKeyPrefix = "stats:"

// StatisticsKey 构建统计缓存 key
func StatisticsKey(name string, parts ...interface{}) string {
	segments := make([]string, 0, len(parts)+1)
	segments = append(segments, name)
	for _, p := range parts {
		segments = append(segments, fmt.Sprint(p))
	}
	return StatisticsKeyPrefix + strings.Join(segments, ":")
}
