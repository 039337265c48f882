package repository

import "testing"

func TestLikeOperatorByDialect(t *testing.T) {
	if got := likeOperatorByDialect("postgres"); got != "ILIKE" {
		t.Fatalf("postgres should use ILIKE, got %s", got)
	}
	if got := likeOperatorByDialect("sqlite"); got != "LIKE" {
		t.Fatalf("sqlite should use LIKE, got %s", got)
	}
}

func TestBucketExprByDialect(t *testing.T) {
	cases := []struct {
		name string
		got  string
		want string
	}{
		{"sqlite day", dayBucketExprByDialect("sqlite", "created_at"), "strftime('%Y-%m-%d', created_at)"},
		{"postgres day", dayBucketExprByDialect("postgres", "created_at"), "to_char(created_at, 'YYYY-MM-DD')"},
		{"sqlite month", monthBucketExprByDialect("sqlite", "o.created_at"), "strftime('%Y-%m', o.created_at)"},
		{"postgres month", monthBucketExprByDialect("postgresql", "o.created_at"), "to_char(o.created_at, 'YYYY-MM')"},
	}
	for _, tc := range cases {
		if tc.got != tc.want {
			t.Fatalf("%s: got %s want %s", tc.name, tc.got, tc.want)
		}
	}
}

func TestBuildLikeConditionSkipsBlankColumns(t *testing.T) {
	cond, args := buildLikeCondition(nil, " ao ", "name", " ", "code")
	if cond != "(name LIKE ? OR code LIKE ?)" {
		t.Fatalf("unexpected condition: %s", cond)
	}
	if len(args) != 2 || args[0] != "%ao%" {
		t.Fatalf("unexpected args: %v", args)
	}
}
