package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopdesk/internal/cache"
	"github.com/shopdesk/internal/config"
	"github.com/shopdesk/internal/constants"
	"github.com/shopdesk/internal/models"
	"github.com/shopdesk/internal/repository"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AccountService 后台账户管理服务
type AccountService struct {
	cfg         *config.Config
	accountRepo repository.AccountRepository
}

// NewAccountService 创建账户服务
func NewAccountService(cfg *config.Config, accountRepo repository.AccountRepository) *AccountService {
	return &AccountService{cfg: cfg, accountRepo: accountRepo}
}

// CreateAccountInput 创建账户输入
type CreateAccountInput struct {
	FullName    string
	Email       string
	PhoneNumber string
	Password    string
	Role        string
	Status      string
	Birthday    *time.Time
	Gender      *bool
	Avatar      string
	CitizenID   string
}

// UpdateAccountInput 更新账户输入（nil 表示不修改）
type UpdateAccountInput struct {
	FullName    *string
	Email       *string
	PhoneNumber *string
	Password    *string
	Role        *string
	Birthday    *time.Time
	Gender      *bool
	Avatar      *string
	CitizenID   *string
}

// List 账户列表
func (s *AccountService) List(filter repository.AccountListFilter) ([]models.Account, int64, error) {
	filter.Role = strings.ToUpper(strings.TrimSpace(filter.Role))
	filter.Status = strings.ToUpper(strings.TrimSpace(filter.Status))
	return s.accountRepo.List(filter)
}

// Get 获取账户（含地址）
func (s *AccountService) Get(id uint) (*models.Account, error) {
	account, err := s.accountRepo.GetByIDWithAddresses(id)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, ErrAccountNotFound
	}
	return account, nil
}

// Create 后台创建账户
func (s *AccountService) Create(input CreateAccountInput) (*models.Account, error) {
	return createAccount(s.cfg, s.accountRepo, input)
}

// Update 更新账户资料
func (s *AccountService) Update(id uint, input UpdateAccountInput) (*models.Account, error) {
	account, err := s.accountRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, ErrAccountNotFound
	}

	issues := &ValidationError{}
	updates := map[string]interface{}{}
	var email, phone string
	if input.FullName != nil {
		updates["full_name"] = requireText(issues, "fullName", *input.FullName)
	}
	if input.Email != nil {
		email = checkEmail(issues, "email", *input.Email)
		updates["email"] = email
	}
	if input.PhoneNumber != nil {
		phone = checkPhone(issues, "phoneNumber", *input.PhoneNumber, true)
		updates["phone_number"] = phone
	}
	if input.Role != nil {
		updates["role"] = checkOneOf(issues, "role", *input.Role, constants.RoleCustomer, constants.RoleAdmin)
	}
	if input.Birthday != nil {
		updates["birthday"] = *input.Birthday
	}
	if input.Gender != nil {
		updates["gender"] = *input.Gender
	}
	if input.Avatar != nil {
		updates["avatar"] = strings.TrimSpace(*input.Avatar)
	}
	if input.CitizenID != nil {
		updates["citizen_id"] = strings.TrimSpace(*input.CitizenID)
	}
	if input.Password != nil && strings.TrimSpace(*input.Password) != "" {
		if err := validatePassword(s.cfg.Security.PasswordPolicy, *input.Password); err != nil {
			return nil, err
		}
		hash, err := hashPassword(*input.Password)
		if err != nil {
			return nil, err
		}
		updates["password_hash"] = hash
		updates["token_version"] = gorm.Expr("token_version + 1")
	}
	if err := issues.OrNil(); err != nil {
		return nil, err
	}

	if email != "" || phone != "" {
		if err := ensureAccountUnique(s.accountRepo, email, phone, id); err != nil {
			return nil, err
		}
	}
	if err := s.accountRepo.Update(id, updates); err != nil {
		if repository.IsDuplicateError(err) {
			return nil, ErrEmailExists
		}
		return nil, err
	}
	_ = cache.DelAccountAuthState(context.Background(), id)
	return s.Get(id)
}

// UpdateStatus 启用/停用账户，停用时已签发 Token 同步失效
func (s *AccountService) UpdateStatus(id uint, status string) (*models.Account, error) {
	issues := &ValidationError{}
	status = checkOneOf(issues, "status", status, constants.StatusActive, constants.StatusInactive)
	if err := issues.OrNil(); err != nil {
		return nil, err
	}
	account, err := s.accountRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, ErrAccountNotFound
	}
	updates := map[string]interface{}{"status": status}
	if status == constants.StatusInactive {
		updates["token_version"] = gorm.Expr("token_version + 1")
	}
	if err := s.accountRepo.Update(id, updates); err != nil {
		return nil, err
	}
	_ = cache.DelAccountAuthState(context.Background(), id)
	return s.Get(id)
}

// Delete 删除账户
func (s *AccountService) Delete(id uint) error {
	affected, err := s.accountRepo.Delete(id)
	if err != nil {
		if repository.IsForeignKeyError(err) {
			return ErrAccountInUse
		}
		return err
	}
	if affected == 0 {
		return ErrAccountNotFound
	}
	_ = cache.DelAccountAuthState(context.Background(), id)
	return nil
}

// createAccount 校验并创建账户，编码在事务内按角色序号生成
func createAccount(cfg *config.Config, repo repository.AccountRepository, input CreateAccountInput) (*models.Account, error) {
	issues := &ValidationError{}
	fullName := requireText(issues, "fullName", input.FullName)
	email := checkEmail(issues, "email", input.Email)
	phone := checkPhone(issues, "phoneNumber", input.PhoneNumber, true)
	role := checkOneOf(issues, "role", normalizeStatus(input.Role, constants.RoleCustomer), constants.RoleCustomer, constants.RoleAdmin)
	status := checkOneOf(issues, "status", normalizeStatus(input.Status, constants.StatusActive), constants.StatusActive, constants.StatusInactive)
	if strings.TrimSpace(input.Password) == "" {
		issues.Add("password", "required")
	} else if err := validatePassword(cfg.Security.PasswordPolicy, input.Password); err != nil {
		var pwErr *ValidationError
		if errors.As(err, &pwErr) {
			issues.Issues = append(issues.Issues, pwErr.Issues...)
		}
	}
	if err := issues.OrNil(); err != nil {
		return nil, err
	}
	if err := ensureAccountUnique(repo, email, phone, 0); err != nil {
		return nil, err
	}

	hash, err := hashPassword(input.Password)
	if err != nil {
		return nil, err
	}
	account := &models.Account{
		FullName:     fullName,
		Email:        email,
		PhoneNumber:  phone,
		PasswordHash: hash,
		Role:         role,
		Status:       status,
		Birthday:     input.Birthday,
		Gender:       input.Gender,
		Avatar:       strings.TrimSpace(input.Avatar),
		CitizenID:    strings.TrimSpace(input.CitizenID),
	}

	now := time.Now()
	err = models.DB.Transaction(func(tx *gorm.DB) error {
		txRepo := repo.WithTx(tx)
		code, err := generateUniqueCode(
			func() (int64, error) {
				count, err := txRepo.CountByRole(role)
				return count + 1, err
			},
			func(seq int64) string { return formatAccountCode(role, seq, now) },
			txRepo.ExistsCode,
		)
		if err != nil {
			return err
		}
		account.Code = code
		return txRepo.Create(account)
	})
	if err != nil {
		if repository.IsDuplicateError(err) {
			return nil, ErrEmailExists
		}
		return nil, fmt.Errorf("create account: %w", err)
	}
	return account, nil
}

// ensureAccountUnique 邮箱/手机号唯一性校验
func ensureAccountUnique(repo repository.AccountRepository, email, phone string, excludeID uint) error {
	conflict, err := repo.FindConflict(email, phone, excludeID)
	if err != nil {
		return err
	}
	if conflict == nil {
		return nil
	}
	if email != "" && strings.EqualFold(conflict.Email, email) {
		return ErrEmailExists
	}
	return ErrPhoneExists
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func verifyPassword(hashedPassword, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password)) == nil
}
