package middleware

import (
	"net/http"
	"net/url"
)

// フラッシュメッセージの種別。
const (
	FlashSuccess = "success"
	FlashWarning = "warning"
	FlashDanger  = "danger"
)

const flashCookieName = "flash"

// SetFlash は次のページ表示で一度だけ表示されるメッセージをCookieに設定する。
// 値は「種別|本文」をURLエスケープして格納する。
func SetFlash(w http.ResponseWriter, kind, message string) {
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookieName,
		Value:    url.QueryEscape(kind + "|" + message),
		Path:     "/",
		MaxAge:   60,
		HttpOnly: false, // 画面側で読み取って表示する
		SameSite: http.SameSiteLaxMode,
	})
}

// PopFlash はフラッシュメッセージを読み取り、Cookieを削除する。
// メッセージがなければ空文字列を返す。
func PopFlash(w http.ResponseWriter, r *http.Request) (kind, message string) {
	cookie, err := r.Cookie(flashCookieName)
	if err != nil || cookie.Value == "" {
		return "", ""
	}

	http.SetCookie(w, &http.Cookie{
		Name:     flashCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: false,
		SameSite: http.SameSiteLaxMode,
	})

	decoded, err := url.QueryUnescape(cookie.Value)
	if err != nil {
		return "", ""
	}
	for i := 0; i < len(decoded); i++ {
		if decoded[i] == '|' {
			return decoded[:i], decoded[i+1:]
		}
	}
	return "", decoded
}
