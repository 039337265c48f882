package service

import (
	"strings"
	"sync"
	"time"

	"github.com/shopdesk/internal/cache"
	"github.com/shopdesk/internal/config"
	"github.com/shopdesk/internal/constants"

	"github.com/mojocn/base64Captcha"
)

// CaptchaChallenge 图片验证码挑战
type CaptchaChallenge struct {
	CaptchaID string `json:"captchaId"`
	Image     string `json:"image"`
}

// CaptchaService 验证码服务
// Redis 启用时答案写入 Redis，否则使用进程内存储。
type CaptchaService struct {
	cfg config.CaptchaConfig

	mu    sync.Mutex
	store base64Captcha.Store
}

// NewCaptchaService 创建验证码服务
func NewCaptchaService(cfg config.CaptchaConfig) *CaptchaService {
	return &CaptchaService{cfg: cfg}
}

// Enabled 验证码总开关
func (s *CaptchaService) Enabled() bool {
	return s != nil && s.cfg.Enabled
}

// SceneEnabled 判断场景是否需要验证码
func (s *CaptchaService) SceneEnabled(scene string) bool {
	if !s.Enabled() {
		return false
	}
	switch scene {
	case constants.CaptchaSceneLogin:
		return s.cfg.Login
	default:
		return false
	}
}

// Generate 生成数字图片验证码
func (s *CaptchaService) Generate() (*CaptchaChallenge, error) {
	driver := base64Captcha.NewDriverDigit(
		positiveOr(s.cfg.Height, 60),
		positiveOr(s.cfg.Width, 200),
		positiveOr(s.cfg.Length, 5),
		0.7,
		positiveOr(s.cfg.NoiseCount, 80),
	)
	captcha := base64Captcha.NewCaptcha(driver, s.ensureStore())
	id, b64s, _, err := captcha.Generate()
	if err != nil {
		return nil, err
	}
	return &CaptchaChallenge{
		CaptchaID: strings.TrimSpace(id),
		Image:     strings.TrimSpace(b64s),
	}, nil
}

// Verify 校验验证码（一次性）
func (s *CaptchaService) Verify(id, answer string) bool {
	id = strings.TrimSpace(id)
	answer = strings.TrimSpace(answer)
	if id == "" || answer == "" {
		return false
	}
	return s.ensureStore().Verify(id, answer, true)
}

// VerifyScene 按场景校验，未开启时直接通过
func (s *CaptchaService) VerifyScene(scene, id, answer string) error {
	if !s.SceneEnabled(scene) {
		return nil
	}
	if strings.TrimSpace(id) == "" || strings.TrimSpace(answer) == "" {
		return ErrCaptchaRequired
	}
	if !s.Verify(id, answer) {
		return ErrCaptchaInvalid
	}
	return nil
}

func (s *CaptchaService) ensureStore() base64Captcha.Store {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.store != nil {
		return s.store
	}
	expire := time.Duration(positiveOr(s.cfg.ExpireSeconds, 300)) * time.Second
	if cache.Enabled() {
		s.store = cache.NewCaptchaStore(expire)
	} else {
		s.store = base64Captcha.NewMemoryStore(positiveOr(s.cfg.MaxStore, 10240), expire)
	}
	return s.store
}

func positiveOr(value, fallback int) int {
	if value <= 0 {
		return fallback
	}
	return value
}
