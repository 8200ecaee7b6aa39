// Package model はドメインモデルを定義する。
package model

import "time"

// User は求人ポータルの利用ユーザーを表す。
// 求職者・求人企業・管理者の3ロールを共通の構造で扱う。
type User struct {
	ID           string
	FullName     string
	Email        string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Session はユーザーのログインセッションを表す。
type Session struct {
	ID        string
	UserID    string
	ExpiresAt time.Time
	CreatedAt time.Time
}
