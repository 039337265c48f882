package authz

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupAuthzServiceTest(t *testing.T) *Service {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	svc, err := NewService(db)
	if err != nil {
		t.Fatalf("new authz service failed: %v", err)
	}
	return svc
}

func TestEnforceAccountWithRolePolicy(t *testing.T) {
	svc := setupAuthzServiceTest(t)
	if _, err := svc.GrantPolicy("ops", Policy{Object: "/admin/products/:id", Action: "GET"}); err != nil {
		t.Fatalf("grant role policy failed: %v", err)
	}
	if err := svc.SetAccountRoles(1, []string{"ops"}); err != nil {
		t.Fatalf("set admin roles failed: %v", err)
	}

	allow, err := svc.EnforceAccount(1, "/api/v1/admin/products/42", "get")
	if err != nil {
		t.Fatalf("enforce allow failed: %v", err)
	}
	if !allow {
		t.Fatalf("expected allow=true")
	}

	allow, err = svc.EnforceAccount(1, "/api/v1/admin/products/42", "POST")
	if err != nil {
		t.Fatalf("enforce deny failed: %v", err)
	}
	if allow {
		t.Fatalf("expected allow=false")
	}
}

func TestSetAccountRolesOverride(t *testing.T) {
	svc := setupAuthzServiceTest(t)
	if _, err := svc.GrantPolicy("ops", Policy{Object: "/admin/orders", Action: "GET"}); err != nil {
		t.Fatalf("grant ops policy failed: %v", err)
	}
	if _, err := svc.GrantPolicy("finance", Policy{Object: "/admin/payments", Action: "GET"}); err != nil {
		t.Fatalf("grant finance policy failed: %v", err)
	}

	if err := svc.SetAccountRoles(2, []string{"ops"}); err != nil {
		t.Fatalf("set first role failed: %v", err)
	}
	roles, err := svc.GetAccountRoles(2)
	if err != nil {
		t.Fatalf("get roles failed: %v", err)
	}
	if len(roles) != 1 || roles[0] != "role:ops" {
		t.Fatalf("roles want [role:ops], got=%v", roles)
	}

	if err := svc.SetAccountRoles(2, []string{"finance"}); err != nil {
		t.Fatalf("set second role failed: %v", err)
	}
	roles, err = svc.GetAccountRoles(2)
	if err != nil {
		t.Fatalf("get roles failed: %v", err)
	}
	if len(roles) != 1 || roles[0] != "role:finance" {
		t.Fatalf("roles want [role:finance], got=%v", roles)
	}

	allow, err := svc.EnforceAccount(2, "/admin/orders", "GET")
	if err != nil {
		t.Fatalf("enforce old role failed: %v", err)
	}
	if allow {
		t.Fatalf("expected old role permission removed")
	}

	allow, err = svc.EnforceAccount(2, "/admin/payments", "GET")
	if err != nil {
		t.Fatalf("enforce new role failed: %v", err)
	}
	if !allow {
		t.Fatalf("expected new role permission granted")
	}
}

func TestNormalizeObject(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{in: "/api/v1/admin/orders/:id", want: "/admin/orders/:id"},
		{in: "/admin/orders/:id", want: "/admin/orders/:id"},
		{in: "admin/orders", want: "/admin/orders"},
		{in: "/api/v1", want: "/"},
		{in: "", want: "/"},
	}
	for _, item := range cases {
		got := NormalizeObject(item.in)
		if got != item.want {
			t.Fatalf("normalize object failed, in=%q want=%q got=%q", item.in, item.want, got)
		}
	}
}

func TestBootstrapBuiltinRoles(t *testing.T) {
	svc := setupAuthzServiceTest(t)
	if err := svc.BootstrapBuiltinRoles(); err != nil {
		t.Fatalf("bootstrap builtin roles failed: %v", err)
	}

	roles, err := svc.ListRoles()
	if err != nil {
		t.Fatalf("list roles failed: %v", err)
	}
	wantRoles := map[string]bool{
		"role:readonly_auditor": true,
		"role:operations":       true,
		"role:support":          true,
		"role:finance":          true,
	}
	for _, role := range roles {
		delete(wantRoles, role)
	}
	if len(wantRoles) != 0 {
		t.Fatalf("builtin roles missing: %v", wantRoles)
	}

	if err := svc.SetAccountRoles(3, []string{"operations"}); err != nil {
		t.Fatalf("set account roles failed: %v", err)
	}

	cases := []struct {
		obj  string
		act  string
		want bool
	}{
		{"/api/v1/admin/statistics/dashboard", "GET", true},
		{"/api/v1/admin/products/7/stock", "PATCH", true},
		{"/api/v1/admin/vouchers/3/notify", "POST", true},
		{"/api/v1/admin/accounts", "POST", false},
		{"/api/v1/admin/payments", "POST", false},
		{"/api/v1/admin/orders/9/status", "PATCH", false},
	}
	for _, tc := range cases {
		allow, err := svc.EnforceAccount(3, tc.obj, tc.act)
		if err != nil {
			t.Fatalf("enforce %s %s failed: %v", tc.act, tc.obj, err)
		}
		if allow != tc.want {
			t.Fatalf("enforce %s %s: want %v got %v", tc.act, tc.obj, tc.want, allow)
		}
	}

	if err := svc.SetAccountRoles(4, []string{"finance"}); err != nil {
		t.Fatalf("set finance role failed: %v", err)
	}
	allow, err := svc.EnforceAccount(4, "/api/v1/admin/payments/cod", "POST")
	if err != nil || !allow {
		t.Fatalf("finance should record cod payments, allow=%v err=%v", allow, err)
	}
}

func TestSetRolePoliciesReplaces(t *testing.T) {
	svc := setupAuthzServiceTest(t)

	if _, err := svc.GrantPolicy("clerk", Policy{Object: "/admin/orders", Action: "GET"}); err != nil {
		t.Fatalf("grant policy failed: %v", err)
	}
	if err := svc.SetRolePolicies("clerk", []Policy{
		{Object: "/api/v1/admin/returns", Action: "get"},
		{Object: "/admin/returns/:id", Action: "PUT"},
	}); err != nil {
		t.Fatalf("set role policies failed: %v", err)
	}

	policies, err := svc.GetRolePolicies("clerk")
	if err != nil {
		t.Fatalf("get role policies failed: %v", err)
	}
	if len(policies) != 2 {
		t.Fatalf("policies want 2 got %d: %+v", len(policies), policies)
	}
	for _, policy := range policies {
		if policy.Object == "/admin/orders" {
			t.Fatalf("old policy should be removed: %+v", policies)
		}
	}

	if err := svc.SetRolePolicies("clerk", []Policy{{Object: "/admin/returns"}}); err == nil {
		t.Fatalf("empty action should be rejected")
	}
}

func TestGrantAndRevokePolicy(t *testing.T) {
	svc := setupAuthzServiceTest(t)

	granted, err := svc.GrantPolicy("packer", Policy{Object: "/api/v1/admin/orders/:id", Action: "patch"})
	if err != nil {
		t.Fatalf("grant policy failed: %v", err)
	}
	if granted.Subject != "role:packer" || granted.Object != "/admin/orders/:id" || granted.Action != "PATCH" {
		t.Fatalf("unexpected granted policy: %+v", granted)
	}
	// 重复授予不报错也不重复写入
	if _, err := svc.GrantPolicy("packer", Policy{Object: "/admin/orders/:id", Action: "PATCH"}); err != nil {
		t.Fatalf("grant policy again failed: %v", err)
	}
	policies, err := svc.GetRolePolicies("packer")
	if err != nil || len(policies) != 1 {
		t.Fatalf("policies want 1 got %d err=%v", len(policies), err)
	}
	if err := svc.SetAccountRoles(7, []string{"packer"}); err != nil {
		t.Fatalf("set account roles failed: %v", err)
	}
	if allow, _ := svc.EnforceAccount(7, "/api/v1/admin/orders/9", "PATCH"); !allow {
		t.Fatalf("expected packer to update orders")
	}

	removed, err := svc.RevokePolicy("packer", Policy{Object: "/admin/orders/:id", Action: "patch"})
	if err != nil || !removed {
		t.Fatalf("revoke policy removed=%v err=%v", removed, err)
	}
	if allow, _ := svc.EnforceAccount(7, "/api/v1/admin/orders/9", "PATCH"); allow {
		t.Fatalf("expected permission revoked")
	}
	removed, err = svc.RevokePolicy("packer", Policy{Object: "/admin/orders/:id", Action: "PATCH"})
	if err != nil || removed {
		t.Fatalf("second revoke removed=%v err=%v", removed, err)
	}
	// 撤销最后一条策略后角色仍保留
	roles, err := svc.ListRoles()
	if err != nil {
		t.Fatalf("list roles failed: %v", err)
	}
	if len(roles) != 1 || roles[0] != "role:packer" {
		t.Fatalf("roles want [role:packer] got %v", roles)
	}
}

func TestGrantPolicyRejectsInvalidInput(t *testing.T) {
	svc := setupAuthzServiceTest(t)

	if _, err := svc.GrantPolicy("packer", Policy{Object: "/admin/orders"}); !errors.Is(err, ErrActionRequired) {
		t.Fatalf("want ErrActionRequired got %v", err)
	}
	if _, err := svc.GrantPolicy("  ", Policy{Object: "/admin/orders", Action: "GET"}); !errors.Is(err, ErrRoleRequired) {
		t.Fatalf("want ErrRoleRequired got %v", err)
	}
	if _, err := svc.GrantPolicy("__anchor__", Policy{Object: "/admin/orders", Action: "GET"}); !errors.Is(err, ErrRoleReserved) {
		t.Fatalf("want ErrRoleReserved got %v", err)
	}
	if _, err := svc.RevokePolicy("role:__anchor__", Policy{Object: "/admin/orders", Action: "GET"}); !errors.Is(err, ErrRoleReserved) {
		t.Fatalf("want ErrRoleReserved got %v", err)
	}
}
