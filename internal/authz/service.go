package authz

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/casbin/casbin/v3"
	"github.com/casbin/casbin/v3/model"
	"github.com/casbin/casbin/v3/util"
	gormadapter "github.com/casbin/gorm-adapter/v3"
	"gorm.io/gorm"
)

const (
	apiV1Prefix       = "/api/v1"
	casbinTableName   = "casbin_rule"
	accountSubjectFmt = "account:%d"
	rolePrefix        = "role:"
	roleAnchor        = "role:__anchor__"
)

// 后台子角色模型：账户继承角色，资源按 keyMatch2 匹配，动作 * 表示任意方法
const shopRBACModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = (g(r.sub, p.sub) || r.sub == p.sub) && keyMatch2(r.obj, p.obj) && (r.act == p.act || p.act == "*")
`

var (
	ErrUnavailable    = errors.New("authz service unavailable")
	ErrRoleRequired   = errors.New("role is required")
	ErrRoleReserved   = errors.New("reserved role is not allowed")
	ErrActionRequired = errors.New("action is required")
	ErrAccountMissing = errors.New("account id is required")
)

// Policy 权限策略
type Policy struct {
	Subject string `json:"subject"`
	Object  string `json:"object"`
	Action  string `json:"action"`
}

// Service 后台子角色授权，策略持久化在 casbin_rule 表
type Service struct {
	enforcer *casbin.SyncedEnforcer
}

// NewService 创建授权服务并加载已有策略
func NewService(db *gorm.DB) (*Service, error) {
	if db == nil {
		return nil, fmt.Errorf("authz db is nil")
	}
	adapter, err := gormadapter.NewAdapterByDBUseTableName(db, "", casbinTableName)
	if err != nil {
		return nil, fmt.Errorf("create authz adapter failed: %w", err)
	}
	m, err := model.NewModelFromString(shopRBACModel)
	if err != nil {
		return nil, fmt.Errorf("load authz model failed: %w", err)
	}
	enforcer, err := casbin.NewSyncedEnforcer(m, adapter)
	if err != nil {
		return nil, fmt.Errorf("init authz enforcer failed: %w", err)
	}
	enforcer.AddFunction("keyMatch2", util.KeyMatch2Func)
	enforcer.EnableAutoSave(true)
	if err := enforcer.LoadPolicy(); err != nil {
		return nil, fmt.Errorf("load authz policy failed: %w", err)
	}
	return &Service{enforcer: enforcer}, nil
}

func (s *Service) ready() error {
	if s == nil || s.enforcer == nil {
		return ErrUnavailable
	}
	return nil
}

// EnforceAccount 判定后台账户能否以 act 访问 obj
func (s *Service) EnforceAccount(accountID uint, obj, act string) (bool, error) {
	if err := s.ready(); err != nil {
		return false, err
	}
	return s.enforcer.Enforce(SubjectForAccount(accountID), NormalizeObject(obj), NormalizeAction(act))
}

// EnsureRole 角色不存在时挂到锚点上创建
func (s *Service) EnsureRole(role string) (string, error) {
	normalized, err := NormalizeRole(role)
	if err != nil {
		return "", err
	}
	if err := s.ready(); err != nil {
		return "", err
	}
	if _, err := s.enforcer.AddNamedGroupingPolicy("g", normalized, roleAnchor); err != nil {
		return "", fmt.Errorf("create role failed: %w", err)
	}
	return normalized, nil
}

// ListRoles 列出全部角色（不含锚点）
func (s *Service) ListRoles() ([]string, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	links, err := s.enforcer.GetFilteredNamedGroupingPolicy("g", 0)
	if err != nil {
		return nil, fmt.Errorf("list roles failed: %w", err)
	}
	seen := map[string]bool{}
	roles := []string{}
	for _, link := range links {
		for _, name := range link {
			if isRoleName(name) && !seen[name] {
				seen[name] = true
				roles = append(roles, name)
			}
		}
	}
	sort.Strings(roles)
	return roles, nil
}

// DeleteRole 删除角色、其策略以及所有指向它的继承关系
func (s *Service) DeleteRole(role string) error {
	normalized, err := NormalizeRole(role)
	if err != nil {
		return err
	}
	if err := s.ready(); err != nil {
		return err
	}
	if _, err := s.enforcer.RemoveFilteredPolicy(0, normalized); err != nil {
		return fmt.Errorf("remove role policy failed: %w", err)
	}
	for _, field := range []int{0, 1} {
		if _, err := s.enforcer.RemoveFilteredNamedGroupingPolicy("g", field, normalized); err != nil {
			return fmt.Errorf("remove role link failed: %w", err)
		}
	}
	return nil
}

// GrantPolicy 为角色追加一条策略，已存在时不报错
func (s *Service) GrantPolicy(role string, policy Policy) (Policy, error) {
	normalized, err := s.EnsureRole(role)
	if err != nil {
		return Policy{}, err
	}
	rule, err := policyRule(normalized, policy)
	if err != nil {
		return Policy{}, err
	}
	if _, err := s.enforcer.AddPolicy(rule[0], rule[1], rule[2]); err != nil {
		return Policy{}, fmt.Errorf("grant policy failed: %w", err)
	}
	return Policy{Subject: rule[0], Object: rule[1], Action: rule[2]}, nil
}

// RevokePolicy 撤销角色的一条策略，返回是否确有删除
func (s *Service) RevokePolicy(role string, policy Policy) (bool, error) {
	normalized, err := NormalizeRole(role)
	if err != nil {
		return false, err
	}
	if err := s.ready(); err != nil {
		return false, err
	}
	rule, err := policyRule(normalized, policy)
	if err != nil {
		return false, err
	}
	removed, err := s.enforcer.RemovePolicy(rule[0], rule[1], rule[2])
	if err != nil {
		return false, fmt.Errorf("revoke policy failed: %w", err)
	}
	return removed, nil
}

// GetRolePolicies 角色自身的策略（不含继承）
func (s *Service) GetRolePolicies(role string) ([]Policy, error) {
	normalized, err := NormalizeRole(role)
	if err != nil {
		return nil, err
	}
	if err := s.ready(); err != nil {
		return nil, err
	}
	rules, err := s.enforcer.GetFilteredPolicy(0, normalized)
	if err != nil {
		return nil, fmt.Errorf("get role policies failed: %w", err)
	}
	return convertPolicies(rules), nil
}

// SetRolePolicies 以给定列表整体替换角色策略；任一条无效时不做修改
func (s *Service) SetRolePolicies(role string, policies []Policy) error {
	normalized, err := NormalizeRole(role)
	if err != nil {
		return err
	}
	rules := make([][]string, 0, len(policies))
	for _, policy := range policies {
		rule, err := policyRule(normalized, policy)
		if err != nil {
			return err
		}
		rules = append(rules, rule)
	}
	if _, err := s.EnsureRole(normalized); err != nil {
		return err
	}
	if _, err := s.enforcer.RemoveFilteredPolicy(0, normalized); err != nil {
		return fmt.Errorf("clear role policies failed: %w", err)
	}
	if len(rules) == 0 {
		return nil
	}
	if _, err := s.enforcer.AddPolicies(rules); err != nil {
		return fmt.Errorf("grant policies failed: %w", err)
	}
	return nil
}

// SetAccountRoles 覆盖设置后台账户的子角色；空列表即恢复超级管理员
func (s *Service) SetAccountRoles(accountID uint, roles []string) error {
	if accountID == 0 {
		return ErrAccountMissing
	}
	if err := s.ready(); err != nil {
		return err
	}
	normalized := make([]string, 0, len(roles))
	for _, role := range roles {
		name, err := s.EnsureRole(role)
		if err != nil {
			return err
		}
		normalized = append(normalized, name)
	}
	subject := SubjectForAccount(accountID)
	if _, err := s.enforcer.RemoveFilteredNamedGroupingPolicy("g", 0, subject); err != nil {
		return fmt.Errorf("clear account roles failed: %w", err)
	}
	for _, role := range normalized {
		if _, err := s.enforcer.AddNamedGroupingPolicy("g", subject, role); err != nil {
			return fmt.Errorf("assign account role failed: %w", err)
		}
	}
	return nil
}

// GetAccountRoles 后台账户直接分配的子角色
func (s *Service) GetAccountRoles(accountID uint) ([]string, error) {
	if accountID == 0 {
		return nil, ErrAccountMissing
	}
	if err := s.ready(); err != nil {
		return nil, err
	}
	assigned, err := s.enforcer.GetRolesForUser(SubjectForAccount(accountID))
	if err != nil {
		return nil, fmt.Errorf("get account roles failed: %w", err)
	}
	roles := make([]string, 0, len(assigned))
	for _, role := range assigned {
		if isRoleName(role) {
			roles = append(roles, role)
		}
	}
	sort.Strings(roles)
	return roles, nil
}

// GetAccountPolicies 账户生效的策略：直连策略加上全部（含继承）角色的策略
func (s *Service) GetAccountPolicies(accountID uint) ([]Policy, error) {
	if accountID == 0 {
		return nil, ErrAccountMissing
	}
	if err := s.ready(); err != nil {
		return nil, err
	}
	subject := SubjectForAccount(accountID)
	subjects := []string{subject}
	implicit, err := s.enforcer.GetImplicitRolesForUser(subject)
	if err != nil {
		return nil, fmt.Errorf("get implicit roles failed: %w", err)
	}
	for _, role := range implicit {
		if isRoleName(role) {
			subjects = append(subjects, role)
		}
	}

	seen := map[Policy]bool{}
	result := []Policy{}
	for _, sub := range subjects {
		rules, err := s.enforcer.GetFilteredPolicy(0, sub)
		if err != nil {
			return nil, fmt.Errorf("get policies failed: %w", err)
		}
		for _, policy := range convertPolicies(rules) {
			if !seen[policy] {
				seen[policy] = true
				result = append(result, policy)
			}
		}
	}
	sort.Slice(result, func(i, j int) bool {
		a, b := result[i], result[j]
		if a.Subject != b.Subject {
			return a.Subject < b.Subject
		}
		if a.Object != b.Object {
			return a.Object < b.Object
		}
		return a.Action < b.Action
	})
	return result, nil
}

func policyRule(role string, policy Policy) ([]string, error) {
	action := NormalizeAction(policy.Action)
	if action == "" {
		return nil, ErrActionRequired
	}
	return []string{role, NormalizeObject(policy.Object), action}, nil
}

func isRoleName(name string) bool {
	return strings.HasPrefix(name, rolePrefix) && name != roleAnchor
}

func convertPolicies(rules [][]string) []Policy {
	policies := make([]Policy, 0, len(rules))
	for _, rule := range rules {
		if len(rule) < 3 {
			continue
		}
		policies = append(policies, Policy{
			Subject: strings.TrimSpace(rule[0]),
			Object:  NormalizeObject(rule[1]),
			Action:  NormalizeAction(rule[2]),
		})
	}
	return policies
}

// SubjectForAccount 后台账户在策略中的主体名
func SubjectForAccount(accountID uint) string {
	return fmt.Sprintf(accountSubjectFmt, accountID)
}

// NormalizeRole 统一为 role:<name>，空格替换为下划线
func NormalizeRole(role string) (string, error) {
	name := strings.ReplaceAll(strings.TrimSpace(role), " ", "_")
	name = strings.TrimPrefix(name, rolePrefix)
	if name == "" {
		return "", ErrRoleRequired
	}
	normalized := rolePrefix + name
	if normalized == roleAnchor {
		return "", ErrRoleReserved
	}
	return normalized, nil
}

// NormalizeObject 资源路径统一以 / 开头并去掉 /api/v1 前缀
func NormalizeObject(object string) string {
	normalized := strings.TrimSpace(object)
	if !strings.HasPrefix(normalized, "/") {
		normalized = "/" + normalized
	}
	switch {
	case normalized == apiV1Prefix:
		return "/"
	case strings.HasPrefix(normalized, apiV1Prefix+"/"):
		return strings.TrimPrefix(normalized, apiV1Prefix)
	}
	return normalized
}

// NormalizeAction 动作统一大写
func NormalizeAction(action string) string {
	return strings.ToUpper(strings.TrimSpace(action))
}
