package model

import "fmt"

// Role はユーザーの権限区分を表す閉じた型。
// 文字列の直接比較ではなく、この型を通して認可判定を行う。
type Role string

const (
	// RoleJobseeker は求職者。求人の閲覧と応募ができる。
	RoleJobseeker Role = "jobseeker"
	// RoleEmployer は求人企業。自社求人の投稿・編集・削除ができる。
	RoleEmployer Role = "employer"
	// RoleAdmin は管理者。全ユーザー・全求人を管理できる。
	RoleAdmin Role = "admin"
)

// ParseRole は文字列をRoleに変換する。
// 3種のロール以外はエラーを返す。
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleJobseeker, RoleEmployer, RoleAdmin:
		return Role(s), nil
	default:
		return "", fmt.Errorf("unknown role: %q", s)
	}
}

// DashboardPath はロールに対応するダッシュボードのパスを返す。
func (r Role) DashboardPath() string {
	switch r {
	case RoleAdmin:
		return "/admin/dashboard"
	case RoleEmployer:
		return "/employer/dashboard"
	default:
		return "/jobseeker/dashboard"
	}
}
