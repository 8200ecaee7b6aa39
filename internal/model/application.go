package model

import "time"

// Application は求職者の求人への応募を表す。
// 同一の(user, job)組に対して高々1件しか存在しない。
// 作成後に変更されることはなく、求人またはユーザーの
// 削除に伴うカスケードでのみ削除される。
type Application struct {
	ID        string
	UserID    string
	JobID     string
	AppliedAt time.Time
}
