package i18n

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
)

// 支持的语言
const (
	LocaleVI      = "vi-VN"
	LocaleEN      = "en-US"
	DefaultLocale = LocaleVI
)

var catalogs = map[string]map[string]string{
	LocaleVI: messagesVI,
	LocaleEN: messagesEN,
}

// NormalizeLocale 归一化语言标识（vi / vi_VN / en-GB 等）
func NormalizeLocale(raw string) string {
	value := strings.ToLower(strings.TrimSpace(raw))
	if value == "" {
		return ""
	}
	value = strings.ReplaceAll(value, "_", "-")
	switch {
	case strings.HasPrefix(value, "vi"):
		return LocaleVI
	case strings.HasPrefix(value, "en"):
		return LocaleEN
	default:
		return ""
	}
}

// ResolveLocale 从请求解析语言：?lang= > X-Locale > Accept-Language
func ResolveLocale(c *gin.Context) string {
	if c == nil {
		return DefaultLocale
	}
	if c.Request != nil {
		if locale := NormalizeLocale(c.Query("lang")); locale != "" {
			return locale
		}
		if locale := NormalizeLocale(c.GetHeader("X-Locale")); locale != "" {
			return locale
		}
		for _, part := range strings.Split(c.GetHeader("Accept-Language"), ",") {
			tag := strings.TrimSpace(strings.SplitN(part, ";", 2)[0])
			if locale := NormalizeLocale(tag); locale != "" {
				return locale
			}
		}
	}
	return DefaultLocale
}

// T 翻译指定 key，缺失时回退默认语言，再回退为 key 本身
func T(locale, key string) string {
	if catalog, ok := catalogs[locale]; ok {
		if msg, ok := catalog[key]; ok {
			return msg
		}
	}
	if msg, ok := catalogs[DefaultLocale][key]; ok {
		return msg
	}
	return key
}

// Sprintf 翻译并格式化
func Sprintf(locale, key string, args ...interface{}) string {
	return fmt.Sprintf(T(locale, key), args...)
}

// Has 判断 key 是否存在于默认语言
func Has(key string) bool {
	_, ok := catalogs[DefaultLocale][key]
	return ok
}
