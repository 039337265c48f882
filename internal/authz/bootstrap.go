package authz

import "fmt"

// RoleSeed 预置角色定义
type RoleSeed struct {
	Role      string
	Inherits  []string
	Policies  []Policy
	Immutable bool
}

// BuiltinRoleSeeds 系统预置角色矩阵
func BuiltinRoleSeeds() []RoleSeed {
	return []RoleSeed{
		{
			Role: "readonly_auditor",
			Policies: []Policy{
				{Object: "/admin/*", Action: "GET"},
			},
			Immutable: true,
		},
		{
			Role:     "operations",
			Inherits: []string{"readonly_auditor"},
			Policies: []Policy{
				{Object: "/admin/products", Action: "*"},
				{Object: "/admin/products/:id", Action: "*"},
				{Object: "/admin/products/:id/*", Action: "*"},
				{Object: "/admin/brands", Action: "*"},
				{Object: "/admin/brands/:id", Action: "*"},
				{Object: "/admin/categories", Action: "*"},
				{Object: "/admin/categories/:id", Action: "*"},
				{Object: "/admin/materials", Action: "*"},
				{Object: "/admin/materials/:id", Action: "*"},
				{Object: "/admin/colors", Action: "*"},
				{Object: "/admin/colors/:id", Action: "*"},
				{Object: "/admin/sizes", Action: "*"},
				{Object: "/admin/sizes/:id", Action: "*"},
				{Object: "/admin/vouchers", Action: "*"},
				{Object: "/admin/vouchers/:id", Action: "*"},
				{Object: "/admin/vouchers/:id/*", Action: "POST"},
				{Object: "/admin/promotions", Action: "*"},
				{Object: "/admin/promotions/:id", Action: "*"},
				{Object: "/admin/promotions/:id/notify", Action: "POST"},
				{Object: "/admin/notifications", Action: "*"},
				{Object: "/admin/notifications/:id", Action: "*"},
				{Object: "/admin/notifications/broadcast", Action: "POST"},
			},
			Immutable: true,
		},
		{
			Role:     "support",
			Inherits: []string{"readonly_auditor"},
			Policies: []Policy{
				{Object: "/admin/orders", Action: "POST"},
				{Object: "/admin/orders/pos", Action: "POST"},
				{Object: "/admin/orders/:id", Action: "PUT"},
				{Object: "/admin/orders/:id", Action: "DELETE"},
				{Object: "/admin/orders/:id/status", Action: "PATCH"},
				{Object: "/admin/returns", Action: "POST"},
				{Object: "/admin/returns/:id", Action: "*"},
				{Object: "/admin/returns/:id/status", Action: "PUT"},
				{Object: "/admin/accounts", Action: "POST"},
				{Object: "/admin/accounts/:id", Action: "PUT"},
				{Object: "/admin/accounts/:id/addresses", Action: "POST"},
				{Object: "/admin/accounts/:id/addresses/:addressId", Action: "*"},
			},
			Immutable: true,
		},
		{
			Role:     "finance",
			Inherits: []string{"readonly_auditor"},
			Policies: []Policy{
				{Object: "/admin/payments", Action: "POST"},
				{Object: "/admin/payments/cod", Action: "POST"},
				{Object: "/admin/payments/:id", Action: "DELETE"},
				{Object: "/admin/payments/:id/status", Action: "PATCH"},
				{Object: "/admin/returns/:id/status", Action: "PUT"},
				{Object: "/admin/statistics/daily/generate", Action: "POST"},
			},
			Immutable: true,
		},
	}
}

// BootstrapBuiltinRoles 初始化预置角色与默认策略，可重复执行
func (s *Service) BootstrapBuiltinRoles() error {
	if err := s.ready(); err != nil {
		return err
	}
	for _, seed := range BuiltinRoleSeeds() {
		role, err := s.EnsureRole(seed.Role)
		if err != nil {
			return fmt.Errorf("create builtin role failed: %w", err)
		}
		for _, parent := range seed.Inherits {
			parentRole, err := s.EnsureRole(parent)
			if err != nil {
				return err
			}
			if _, err := s.enforcer.AddNamedGroupingPolicy("g", role, parentRole); err != nil {
				return fmt.Errorf("link role inheritance failed: %w", err)
			}
		}
		for _, policy := range seed.Policies {
			rule, err := policyRule(role, policy)
			if err != nil {
				return fmt.Errorf("builtin policy of %s: %w", role, err)
			}
			if _, err := s.enforcer.AddPolicy(rule[0], rule[1], rule[2]); err != nil {
				return fmt.Errorf("add builtin policy failed: %w", err)
			}
		}
	}
	return nil
}
