package service

import (
	"fmt"
	"time"

	"github.com/shopdesk/internal/constants"
)

// codeGenerateAttempts 编码冲突时的最大尝试次数
const codeGenerateAttempts = 3

// accountCodePrefix 按角色返回账户编码前缀
func accountCodePrefix(role string) string {
	if role == constants.RoleAdmin {
		return constants.AccountCodePrefixAdmin
	}
	return constants.AccountCodePrefixCustomer
}

// formatAccountCode CUS0001YY / ADM0001YY
func formatAccountCode(role string, seq int64, now time.Time) string {
	return fmt.Sprintf("%s%04d%s", accountCodePrefix(role), seq, now.Format("06"))
}

// formatProductCode PRD000001
func formatProductCode(seq int64) string {
	return fmt.Sprintf("%s%06d", constants.ProductCodePrefix, seq)
}

// formatMonthlyCode DH/TH + YYMM + 四位月内序号
func formatMonthlyCode(prefix string, seq int64, now time.Time) string {
	return fmt.Sprintf("%s%s%04d", prefix, now.Format("0601"), seq)
}

// monthRange 返回 now 所在自然月的 [start, end)
func monthRange(now time.Time) (time.Time, time.Time) {
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	return start, start.AddDate(0, 1, 0)
}

// generateUniqueCode 由序号生成编码，已存在时顺延序号重试
func generateUniqueCode(baseSeq func() (int64, error), format func(int64) string, exists func(string) (bool, error)) (string, error) {
	seq, err := baseSeq()
	if err != nil {
		return "", err
	}
	for attempt := 0; attempt < codeGenerateAttempts; attempt++ {
		code := format(seq + int64(attempt))
		taken, err := exists(code)
		if err != nil {
			return "", err
		}
		if !taken {
			return code, nil
		}
	}
	return "", fmt.Errorf("generate code after %d attempts: %w", codeGenerateAttempts, ErrCodeExhausted)
}
