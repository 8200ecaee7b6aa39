package security

import (
	"strings"
	"testing"
)

// scriptタグと危険な属性が除去されることを検証
func TestContentSanitizer_RemovesDangerousContent(t *testing.T) {
	s := NewContentSanitizer()

	tests := []struct {
		name    string
		input   string
		exclude []string
	}{
		{
			"scriptタグの除去",
			`<p>バックエンド開発</p><script>alert("xss")</script>`,
			[]string{"<script>", "alert"},
		},
		{
			"iframeの除去",
			`<p>仕事内容</p><iframe src="https://evil.example.com"></iframe>`,
			[]string{"<iframe"},
		},
		{
			"onclickイベント属性の除去",
			`<p onclick="steal()">応募はこちら</p>`,
			[]string{"onclick", "steal"},
		},
		{
			"javascriptスキームの除去",
			`<a href="javascript:alert(1)">リンク</a>`,
			[]string{"javascript:"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.Sanitize(tt.input)
			for _, bad := range tt.exclude {
				if strings.Contains(got, bad) {
					t.Errorf("sanitized output still contains %q: %s", bad, got)
				}
			}
		})
	}
}

// 許可タグが保持されることを検証
func TestContentSanitizer_KeepsAllowedTags(t *testing.T) {
	s := NewContentSanitizer()

	input := `<p>業務内容:</p><ul><li><strong>Go</strong>によるAPI開発</li><li><em>PostgreSQL</em>の運用</li></ul>`
	got := s.Sanitize(input)

	for _, tag := range []string{"<p>", "<ul>", "<li>", "<strong>", "<em>"} {
		if !strings.Contains(got, tag) {
			t.Errorf("expected %q to be kept, got: %s", tag, got)
		}
	}
}

// リンクにtarget=_blankとrel属性が付与されることを検証
func TestContentSanitizer_HardensLinks(t *testing.T) {
	s := NewContentSanitizer()

	got := s.Sanitize(`<a href="https://company.example.com/jobs">採用ページ</a>`)
	if !strings.Contains(got, `target="_blank"`) {
		t.Errorf("expected target=_blank, got: %s", got)
	}
	if !strings.Contains(got, "noopener") || !strings.Contains(got, "noreferrer") {
		t.Errorf("expected noopener noreferrer rel, got: %s", got)
	}
}

// 空文字列が空文字列のまま返ることと冪等性を検証
func TestContentSanitizer_EmptyAndIdempotent(t *testing.T) {
	s := NewContentSanitizer()

	if got := s.Sanitize(""); got != "" {
		t.Errorf("expected empty string, got %q", got)
	}

	input := `<p>正社員</p><script>x</script>`
	once := s.Sanitize(input)
	twice := s.Sanitize(once)
	if once != twice {
		t.Errorf("sanitize is not idempotent: %q vs %q", once, twice)
	}
}
