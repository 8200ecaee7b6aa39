// Package token は期限付き署名トークンの発行と検証を提供する。
// パスワード再設定リンクに埋め込むトークンとして使用する。
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// resetPurpose はトークンの用途を表すクレーム値。
// 用途の異なるトークンの流用を防ぐ。
const resetPurpose = "password-reset"

var (
	// ErrExpired はトークンの有効期限切れを表す。
	ErrExpired = errors.New("token expired")
	// ErrInvalid は署名不正・改ざん・用途違いのトークンを表す。
	ErrInvalid = errors.New("token invalid")
)

// resetClaims はパスワード再設定トークンのクレーム。
// Subjectに対象ユーザーのメールアドレスを格納する。
type resetClaims struct {
	Purpose string `json:"purpose"`
	jwt.RegisteredClaims
}

// Issuer はHMAC-SHA256署名のパスワード再設定トークンを発行・検証する。
type Issuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewIssuer はIssuerを生成する。ttlはトークンの有効期間（既定は10分を渡す）。
func NewIssuer(secret string, ttl time.Duration) *Issuer {
	return &Issuer{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

// Issue は指定メールアドレスに紐付く署名トークンを発行する。
func (i *Issuer) Issue(email string) (string, error) {
	now := i.now()
	claims := resetClaims{
		Purpose: resetPurpose,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign reset token: %w", err)
	}
	return signed, nil
}

// Verify はトークンを検証し、埋め込まれたメールアドレスを返す。
// 期限切れはErrExpired、署名不正・改ざん・用途違いはErrInvalidを返す。
// 呼び出し側はこの2種を区別してユーザーに提示する。
func (i *Issuer) Verify(tokenString string) (string, error) {
	claims := &resetClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (any, error) { return i.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrExpired
		}
		return "", ErrInvalid
	}

	if claims.Purpose != resetPurpose || claims.Subject == "" {
		return "", ErrInvalid
	}

	return claims.Subject, nil
}
