package model

import "time"

// Job は求人情報を表す。
// EmployerIDは投稿した求人企業ユーザーを指し、
// 編集は所有者のみ、削除は所有者と管理者のみが行える。
type Job struct {
	ID          string
	Title       string
	Company     string
	Salary      float64
	Location    string
	Description string
	Category    string // 任意項目
	PostedAt    time.Time
	EmployerID  string
}

// JobFilter は求職者検索の絞り込み条件を表す。
// すべて任意の部分一致条件で、複数指定時はAND結合される。
type JobFilter struct {
	Keyword  string // タイトルまたは説明文に一致
	Location string
	Category string
	Company  string
}

// IsEmpty は絞り込み条件が1つも指定されていないかどうかを返す。
func (f JobFilter) IsEmpty() bool {
	return f.Keyword == "" && f.Location == "" && f.Category == "" && f.Company == ""
}

// JobPage は求人一覧の1ページ分を表す。
type JobPage struct {
	Jobs       []*Job
	Page       int
	PerPage    int
	TotalCount int
}
